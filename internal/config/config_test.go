package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadFileMissingUsesDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	require.Equal(t, DriverNone, cfg.Storage.Driver)
	require.Equal(t, "info", cfg.Log.Level)
	require.Equal(t, "Local", cfg.UI.Timezone)
	require.NotEmpty(t, cfg.Export.Dir)
	require.Empty(t, cfg.Storage.Path)
	require.Equal(t, filepath.Join(DataDir(), "daybook.log"), cfg.Log.Path)
}

func TestSaveThenLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	want := Config{
		Export:  ExportConfig{Dir: "/tmp/exports"},
		Log:     LogConfig{Path: "/tmp/daybook.log", Level: "debug"},
		Storage: StorageConfig{Driver: DriverSQLite, Path: "/tmp/daybook.db"},
		UI:      UIConfig{Timezone: "Australia/Melbourne"},
	}
	require.NoError(t, Save(path, want))

	got, err := LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestLoadFileEnvOverride(t *testing.T) {
	t.Setenv("DAYBOOK_STORAGE_DRIVER", "FILE")
	t.Setenv("DAYBOOK_EXPORT_DIR", "/srv/exports")

	cfg, err := LoadFile(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	require.Equal(t, DriverFile, cfg.Storage.Driver)
	require.Equal(t, "/srv/exports", cfg.Export.Dir)
}

func TestLoadFileRejectsUnknownDriver(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[storage]\ndriver = \"postgres\"\n"), 0o600))

	_, err := LoadFile(path)
	require.ErrorContains(t, err, "storage.driver")
}

func TestPathHonoursEnv(t *testing.T) {
	t.Setenv("DAYBOOK_CONFIG", "/etc/daybook.toml")
	require.Equal(t, "/etc/daybook.toml", Path())
}
