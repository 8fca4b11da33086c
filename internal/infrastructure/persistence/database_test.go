package persistence

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/phonestore/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// newTestDatabase opens a private in-memory SQLite database with every table migrated
func newTestDatabase(t *testing.T) *Database {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := NewDatabase(&config.DatabaseConfig{
		Driver:       "sqlite",
		Path:         fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", name),
		MaxOpenConns: 1,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(context.Background()))
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// newTestDB returns the GORM handle of a fresh test database
func newTestDB(t *testing.T) *gorm.DB {
	return newTestDatabase(t).DB
}

func TestDialector(t *testing.T) {
	tests := []struct {
		name    string
		driver  string
		want    string
		wantErr bool
	}{
		{"empty driver defaults to postgres", "", "postgres", false},
		{"postgres", "postgres", "postgres", false},
		{"mysql", "mysql", "mysql", false},
		{"sqlite", "sqlite", "sqlite", false},
		{"unknown driver", "oracle", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Dialector(&config.DatabaseConfig{Driver: tt.driver, Path: ":memory:"})
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "unsupported database driver")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Name())
		})
	}
}

func TestNewDatabase_SQLite(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()

	assert.Equal(t, "sqlite", db.Driver)
	assert.NoError(t, db.Ping(ctx))

	for _, table := range []string{
		"products", "product_images", "categories", "colors", "discount_programs",
		"customers", "shipping_addresses", "memberships", "coupons",
		"orders", "order_details", "warranties", "warranty_claims",
		"admins", "roles", "permissions", "role_permissions",
	} {
		assert.True(t, db.DB.Migrator().HasTable(table), "table %s should exist", table)
	}

	stats, err := db.Stats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.MaxOpenConnections)
}

func TestDatabase_Close(t *testing.T) {
	db, err := NewDatabase(&config.DatabaseConfig{Driver: "sqlite", Path: ":memory:"})
	require.NoError(t, err)

	require.NoError(t, db.Close())
	assert.Error(t, db.Ping(context.Background()))
}

func TestConnectionStats_Struct(t *testing.T) {
	stats := ConnectionStats{
		MaxOpenConnections: 25,
		OpenConnections:    10,
		InUse:              6,
		Idle:               4,
		WaitCount:          100,
		WaitDuration:       5 * time.Second,
	}

	assert.Equal(t, stats.OpenConnections, stats.InUse+stats.Idle)
	assert.Equal(t, 5*time.Second, stats.WaitDuration)
}
