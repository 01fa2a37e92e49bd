package utils

import "github.com/google/uuid"

// IsValidUUID reports whether s parses as an RFC 4122 uuid. Client uuids
// are checked syntactically before they are used as matching keys.
func IsValidUUID(s string) bool {
	return uuid.Validate(s) == nil
}
