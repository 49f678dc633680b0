package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect(t *testing.T) {
	t.Run("SQLite in memory", func(t *testing.T) {
		db, err := Connect(Config{Driver: DriverSQLite, Path: "file::memory:"})
		require.NoError(t, err)
		assert.NotNil(t, db)
	})

	t.Run("Unsupported driver", func(t *testing.T) {
		db, err := Connect(Config{Driver: "oracle"})
		assert.ErrorContains(t, err, "unsupported database driver")
		assert.Nil(t, db)
	})

	t.Run("Invalid MySQL connection", func(t *testing.T) {
		db, err := Connect(Config{
			Driver:         DriverMySQL,
			Host:           "localhost",
			Port:           9999, // Unused port
			User:           "root",
			Password:       "wrongpassword",
			Name:           "catalog_sync",
			TimeoutSeconds: 1,
		})
		assert.Error(t, err)
		assert.Nil(t, db)
	})
}
