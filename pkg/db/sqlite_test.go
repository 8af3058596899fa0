package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/janakural/internal/models"
)

func TestOpen_CreatesDirectoryAndMigrates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "janakural.db")

	conn, err := Open(path, zap.NewNop())
	require.NoError(t, err)
	defer Close(conn)

	for _, table := range []interface{}{&models.Administrator{}, &models.Issue{}, &models.IssueHistory{}, &models.Notification{}} {
		assert.True(t, conn.Migrator().HasTable(table))
	}
	assert.FileExists(t, path)
}
