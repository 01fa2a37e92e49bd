package store

import (
	"github.com/offsync/reconciler/migrations"
)

// Migrate brings the canonical schema up to date using the embedded goose
// migrations.
func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB)
}
