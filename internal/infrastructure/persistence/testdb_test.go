package persistence

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupStorefrontTestDB creates an in-memory SQLite database with the storefront tables
func setupStorefrontTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	err = db.Exec(`
		CREATE TABLE products (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			pricing_tiers TEXT NOT NULL DEFAULT '[]',
			currency TEXT NOT NULL DEFAULT 'VND',
			icon TEXT NOT NULL DEFAULT 'Brain',
			image_url TEXT,
			features TEXT NOT NULL DEFAULT '[]',
			tag TEXT,
			contact_link TEXT NOT NULL,
			sort_order INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)
	`).Error
	require.NoError(t, err)

	err = db.Exec(`
		CREATE TABLE bills (
			id TEXT PRIMARY KEY,
			image_url TEXT NOT NULL,
			description TEXT,
			created_at DATETIME NOT NULL
		)
	`).Error
	require.NoError(t, err)

	return db
}
