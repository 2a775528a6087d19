package prefs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/daybook/internal/settings"
)

func TestFileStoreMissingFileLoadsDefaults(t *testing.T) {
	store := FileStore{Path: filepath.Join(t.TempDir(), "settings.json")}
	got, err := store.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, settings.Defaults(), got)
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := FileStore{Path: filepath.Join(t.TempDir(), "daybook", "settings.json")}

	want := settings.Defaults()
	want.Company.Email = "books@example.com"
	want.User.ItemsPerPage = 50
	require.NoError(t, store.Save(ctx, want))

	_, err := os.Stat(store.Path + ".tmp")
	require.True(t, os.IsNotExist(err))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, want.Company, got.Company)
	require.Equal(t, want.User, got.User)
	require.True(t, want.Backup.LastBackup.Equal(got.Backup.LastBackup))
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	_, err := FileStore{Path: path}.Load(context.Background())
	require.Error(t, err)
}

func TestDefaultPath(t *testing.T) {
	path, err := DefaultPath()
	if err != nil {
		t.Skipf("no user config dir: %v", err)
	}
	require.Equal(t, "settings.json", filepath.Base(path))
	require.Equal(t, "daybook", filepath.Base(filepath.Dir(path)))
}
