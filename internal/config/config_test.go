package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("FYPLAN_DB", "")
	t.Setenv("FYPLAN_LOG", "")
	t.Setenv("FYPLAN_CATALOG_DIR", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, 500*time.Millisecond, cfg.PageDelay())
	assert.False(t, cfg.SessionContext().Completed)
}

func TestLoad_ParsesFile(t *testing.T) {
	t.Setenv("FYPLAN_DB", "")
	t.Setenv("FYPLAN_LOG", "")
	t.Setenv("FYPLAN_CATALOG_DIR", "")

	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[general]
db_path = "/tmp/plans.db"
currency = "USD"
locale = "fr"

[dashboard]
page_size = 6
page_delay = "250ms"

[session]
name = "Aline"
email = "aline@example.org"
hospital = " Kabgayi "
district = "Muhanga"
province = "Southern"
completed = true
completed_at = 2025-07-01T09:00:00Z
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/plans.db", cfg.General.DBPath)
	assert.Equal(t, "USD", cfg.General.Currency)
	assert.Equal(t, 6, cfg.Dashboard.PageSize)
	assert.Equal(t, 250*time.Millisecond, cfg.PageDelay())

	s := cfg.SessionContext()
	assert.Equal(t, "Kabgayi", s.Hospital)
	assert.True(t, s.Completed)
	require.NotNil(t, s.CompletedAt)
	assert.Equal(t, 2025, s.CompletedAt.Year())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("FYPLAN_DB", "/data/override.db")
	t.Setenv("FYPLAN_LOG", "true")
	t.Setenv("FYPLAN_CATALOG_DIR", "/srv/catalogs")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, "/data/override.db", cfg.General.DBPath)
	assert.Equal(t, "/srv/catalogs", cfg.General.CatalogDir)
	assert.True(t, cfg.General.Verbose)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	t.Setenv("FYPLAN_DB", "")
	t.Setenv("FYPLAN_LOG", "")
	t.Setenv("FYPLAN_CATALOG_DIR", "")

	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"page size", "[dashboard]\npage_size = 0\n", "PageSize"},
		{"currency", "[general]\ncurrency = \"francs\"\n", "Currency"},
		{"delay", "[dashboard]\npage_delay = \"soon\"\n", "page_delay"},
		{"email", "[session]\nemail = \"nope\"\n", "Email"},
		{"syntax", "[general\n", "parsing config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))

			_, err := Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSave_RoundTrip(t *testing.T) {
	t.Setenv("FYPLAN_DB", "")
	t.Setenv("FYPLAN_LOG", "")
	t.Setenv("FYPLAN_CATALOG_DIR", "")

	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := DefaultConfig()
	cfg.Session.Hospital = "Muhima"
	cfg.Session.Completed = true
	cfg.Dashboard.PageSize = 8

	require.NoError(t, Save(path, cfg))
	assert.True(t, Exists(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestConfigPath(t *testing.T) {
	t.Setenv("FYPLAN_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	assert.Equal(t, filepath.Join("/xdg", "fyplan", "config.toml"), ConfigPath())

	t.Setenv("FYPLAN_CONFIG", "/etc/fyplan.toml")
	assert.Equal(t, "/etc/fyplan.toml", ConfigPath())
}

func TestLoadDotEnv_MissingFileIsFine(t *testing.T) {
	t.Chdir(t.TempDir())
	assert.NoError(t, LoadDotEnv())
}

func TestLoadDotEnv_SetsUnsetVariables(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("FYPLAN_DB=/from/dotenv.db\n"), 0o600))

	// t.Setenv registers a restore; unset so godotenv treats it as missing.
	t.Setenv("FYPLAN_DB", "")
	require.NoError(t, os.Unsetenv("FYPLAN_DB"))

	require.NoError(t, LoadDotEnv())
	assert.Equal(t, "/from/dotenv.db", os.Getenv("FYPLAN_DB"))
}
