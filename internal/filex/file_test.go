package filex

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnsureDir_CreatesAndIsIdempotent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")

	got, err := EnsureDir(dir)
	require.NoError(t, err)
	require.DirExists(t, got)

	again, err := EnsureDir(dir)
	require.NoError(t, err)
	require.Equal(t, got, again)
}

func TestEnsureSubDir(t *testing.T) {
	base := t.TempDir()

	got, err := EnsureSubDir(base, "attachments")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(base, "attachments"), got)

	info, err := os.Stat(got)
	require.NoError(t, err)
	require.True(t, info.IsDir())
}
