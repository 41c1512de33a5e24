package migrations

import (
	"io"
	"io/fs"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSource_VersionsInOrder(t *testing.T) {
	src, err := Source()
	require.NoError(t, err)
	defer src.Close()

	first, err := src.First()
	require.NoError(t, err)
	assert.Equal(t, uint(1), first)

	next, err := src.Next(first)
	require.NoError(t, err)
	assert.Equal(t, uint(2), next)
}

func TestFS_EveryUpHasDown(t *testing.T) {
	ups, err := fs.Glob(FS(), "*.up.sql")
	require.NoError(t, err)
	downs, err := fs.Glob(FS(), "*.down.sql")
	require.NoError(t, err)

	assert.Len(t, ups, 2)
	assert.Len(t, downs, len(ups))
}

func TestFS_UsersEmailIsUnique(t *testing.T) {
	body, err := fs.ReadFile(FS(), "000001_create_users.up.sql")
	require.NoError(t, err)

	assert.Contains(t, string(body), "CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email")
}

func TestDown_RejectsNonPositiveSteps(t *testing.T) {
	err := Down(nil, 0, slog.New(slog.NewTextHandler(io.Discard, nil)))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "steps must be positive")
}
