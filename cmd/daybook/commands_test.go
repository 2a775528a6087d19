package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/jask/daybook/internal/settings"
)

// writeConfig returns a config file whose paths all live under a temp dir.
func writeConfig(t *testing.T, driver string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	storePath := ""
	switch driver {
	case "sqlite":
		storePath = filepath.Join(dir, "daybook.db")
	case "file":
		storePath = filepath.Join(dir, "settings.json")
	}
	body := fmt.Sprintf(`[export]
dir = %q

[log]
path = %q
level = "debug"

[storage]
driver = %q
path = %q

[ui]
timezone = "UTC"
`, filepath.Join(dir, "exports"), filepath.Join(dir, "daybook.log"), driver, storePath)
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path, dir
}

func run(t *testing.T, cfgPath, stdin string, args ...string) (string, error) {
	t.Helper()
	out, _, err := runEnv(t, cfgPath, stdin, args...)
	return out, err
}

// runEnv is run that also hands back the command environment.
func runEnv(t *testing.T, cfgPath, stdin string, args ...string) (string, *env, error) {
	t.Helper()
	cmd, e := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--config", cfgPath}, args...))
	err := execute(context.Background(), cmd, e)
	return out.String(), e, err
}

func TestShowDefaultsJSON(t *testing.T) {
	cfg, _ := writeConfig(t, "none")
	out, err := run(t, cfg, "", "show")
	require.NoError(t, err)

	var got settings.Settings
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	want := settings.Defaults()
	require.Equal(t, want.Company, got.Company)
	require.Equal(t, want.Accounting, got.Accounting)
	require.Equal(t, want.User, got.User)
}

func TestShowYAML(t *testing.T) {
	cfg, _ := writeConfig(t, "none")
	out, err := run(t, cfg, "", "show", "-o", "yaml")
	require.NoError(t, err)

	var got map[string]map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	require.Equal(t, "Acme Corporation", got["company"]["companyName"])
	require.Equal(t, true, got["backup"]["autoBackup"])

	_, err = run(t, cfg, "", "show", "-o", "xml")
	require.Error(t, err)
}

func TestFieldsListsEveryRef(t *testing.T) {
	cfg, _ := writeConfig(t, "none")
	out, err := run(t, cfg, "", "fields")
	require.NoError(t, err)
	for _, f := range settings.Fields() {
		require.Contains(t, out, f.Ref.String())
	}
}

func TestSetNeedsStore(t *testing.T) {
	cfg, _ := writeConfig(t, "none")
	_, err := run(t, cfg, "", "set", "company.city", "Springfield")
	require.ErrorIs(t, err, errNoStore)
}

func TestSetAndGetWithFileStore(t *testing.T) {
	cfg, _ := writeConfig(t, "file")
	out, err := run(t, cfg, "", "set", "company.city", "Springfield")
	require.NoError(t, err)
	require.Contains(t, out, settings.MsgSaved)

	out, err = run(t, cfg, "", "get", "company.city")
	require.NoError(t, err)
	require.Equal(t, "Springfield\n", out)

	_, err = run(t, cfg, "", "get", "company.cty")
	require.ErrorIs(t, err, settings.ErrUnknownField)
	require.Contains(t, err.Error(), "company.city")
}

func TestSetWarnsOutsideDomain(t *testing.T) {
	cfg, _ := writeConfig(t, "file")
	out, err := run(t, cfg, "", "set", "accounting.decimalPlaces", "9")
	require.NoError(t, err)
	require.Contains(t, out, "warning:")

	out, err = run(t, cfg, "", "get", "accounting.decimalPlaces")
	require.NoError(t, err)
	require.Equal(t, "9\n", out)
}

func TestResetPromptsAndPersists(t *testing.T) {
	cfg, _ := writeConfig(t, "sqlite")
	_, err := run(t, cfg, "", "set", "company.companyName", "Globex")
	require.NoError(t, err)
	_, err = run(t, cfg, "", "set", "user.theme", "dark")
	require.NoError(t, err)

	out, err := run(t, cfg, "n\n", "reset")
	require.NoError(t, err)
	require.Contains(t, out, settings.ResetPrompt)
	require.Contains(t, out, settings.MsgResetCancel)
	out, err = run(t, cfg, "", "get", "company.companyName")
	require.NoError(t, err)
	require.Equal(t, "Globex\n", out)

	out, err = run(t, cfg, "y\n", "reset")
	require.NoError(t, err)
	require.Contains(t, out, settings.MsgResetDone)

	out, err = run(t, cfg, "", "get", "company.companyName")
	require.NoError(t, err)
	require.Equal(t, "Acme Corporation\n", out)
	out, err = run(t, cfg, "", "get", "user.theme")
	require.NoError(t, err)
	require.Equal(t, "dark\n", out)
}

func TestBackupHistoryAndPurge(t *testing.T) {
	cfg, _ := writeConfig(t, "sqlite")
	out, err := run(t, cfg, "", "backup")
	require.NoError(t, err)
	require.Contains(t, out, settings.MsgBackupDone)

	out, err = run(t, cfg, "", "history")
	require.NoError(t, err)
	require.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 1)

	_, err = run(t, cfg, "", "purge")
	require.NoError(t, err)
	out, err = run(t, cfg, "", "history")
	require.NoError(t, err)
	require.Empty(t, strings.TrimSpace(out))

	out, err = run(t, cfg, "", "get", "backup.lastBackup")
	require.NoError(t, err)
	require.Equal(t, "2024-01-15T10:30:00Z\n", out)
}

func TestFailedCommandClosesStore(t *testing.T) {
	cfg, _ := writeConfig(t, "sqlite")
	_, e, err := runEnv(t, cfg, "", "get", "company.cty")
	require.ErrorIs(t, err, settings.ErrUnknownField)
	require.NotNil(t, e.sql, "the store was opened before the lookup failed")
	require.Error(t, e.sql.DB.PingContext(context.Background()))
	require.Empty(t, e.closers)
}

func TestPurgeNeedsSQLite(t *testing.T) {
	cfg, _ := writeConfig(t, "file")
	_, err := run(t, cfg, "", "purge")
	require.ErrorIs(t, err, errNoStore)
}

func TestExportWritesFile(t *testing.T) {
	cfg, dir := writeConfig(t, "none")
	out, err := run(t, cfg, "", "export")
	require.NoError(t, err)

	path := strings.TrimSpace(out)
	require.Equal(t, filepath.Join(dir, "exports"), filepath.Dir(path))
	require.True(t, strings.HasPrefix(filepath.Base(path), "daybook-settings-"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &doc))
	require.Contains(t, doc, "exportDate")

	other := filepath.Join(dir, "elsewhere")
	out, err = run(t, cfg, "", "export", "--dir", other)
	require.NoError(t, err)
	require.Equal(t, other, filepath.Dir(strings.TrimSpace(out)))
}

func TestPromptConfirm(t *testing.T) {
	var out bytes.Buffer
	require.True(t, promptConfirm(strings.NewReader("YES\n"), &out)("ok?"))
	require.Equal(t, "ok? [y/N]: ", out.String())
	require.False(t, promptConfirm(strings.NewReader(""), &out)("ok?"))
	require.False(t, promptConfirm(strings.NewReader("maybe\n"), &out)("ok?"))
}
