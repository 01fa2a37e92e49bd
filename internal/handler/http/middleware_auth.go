package http

import (
	"crypto/subtle"
	"net/http"

	"github.com/offsync/reconciler/internal/logger"
)

const apiKeyHeader = "X-Api-Key"

// auth is an HTTP middleware that enforces API-key authentication on the
// sync routes.
//
// It compares the X-Api-Key header against the configured key in constant
// time and rejects requests with HTTP 401 Unauthorized when the header is
// absent or the key does not match. When no key is configured the server
// refuses all sync traffic rather than running open.
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		if h.apiKey == "" {
			log.Error().Msg("no API key is configured, refusing sync request")
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}

		providedKey := r.Header.Get(apiKeyHeader)
		if providedKey == "" {
			log.Err(ErrEmptyAPIKeyHeader).Send()
			http.Error(w, ErrEmptyAPIKeyHeader.Error(), http.StatusUnauthorized)
			return
		}

		if subtle.ConstantTimeCompare([]byte(providedKey), []byte(h.apiKey)) != 1 {
			log.Err(ErrWrongAPIKey).Send()
			http.Error(w, ErrWrongAPIKey.Error(), http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}
