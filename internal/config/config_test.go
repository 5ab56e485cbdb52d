package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// isolate runs the test from an empty directory so no stray .env is read
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestDefaults(t *testing.T) {
	dir := isolate(t)
	t.Setenv("XDG_DATA_HOME", dir)

	cfg, err := LoadFrom()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:4000/api", cfg.APIURL)
	assert.Equal(t, 400*time.Millisecond, cfg.SearchDebounce)
	assert.Equal(t, 450*time.Millisecond, cfg.SuggestDebounce)
	assert.Equal(t, 10, cfg.PageSize)
	assert.Equal(t, filepath.Join(dir, "taskdesk"), cfg.DataDir)
	assert.Equal(t, filepath.Join(dir, "taskdesk", "taskdesk.log"), cfg.LogFile)
}

func TestFilesMergeInOrder(t *testing.T) {
	dir := isolate(t)
	global := writeFile(t, dir, "global.yaml", "api_url: https://global.example/api\npage_size: 25\ntheme: mono\n")
	project := writeFile(t, dir, "project.yaml", "api_url: https://project.example/api\nsearch_debounce: 250ms\ndata_dir: "+dir+"\n")

	cfg, err := LoadFrom(global, project, filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "https://project.example/api", cfg.APIURL)
	assert.Equal(t, 25, cfg.PageSize)
	assert.Equal(t, "mono", cfg.Theme)
	assert.Equal(t, 250*time.Millisecond, cfg.SearchDebounce)
	assert.Equal(t, dir, cfg.DataDir)
}

func TestEnvOverridesFiles(t *testing.T) {
	dir := isolate(t)
	file := writeFile(t, dir, "c.yaml", "api_url: https://file.example/api\npage_size: 25\n")
	t.Setenv("TASKDESK_API_URL", "https://env.example/api")
	t.Setenv("TASKDESK_PAGE_SIZE", "50")
	t.Setenv("TASKDESK_SUGGEST_DEBOUNCE", "1s")
	t.Setenv("TASKDESK_DATA_DIR", dir)

	cfg, err := LoadFrom(file)
	require.NoError(t, err)
	assert.Equal(t, "https://env.example/api", cfg.APIURL)
	assert.Equal(t, 50, cfg.PageSize)
	assert.Equal(t, time.Second, cfg.SuggestDebounce)
}

func TestDotEnv(t *testing.T) {
	dir := isolate(t)
	writeFile(t, dir, ".env", "TASKDESK_API_URL=https://dotenv.example/api\nTASKDESK_DATA_DIR="+dir+"\n")
	// godotenv never overrides variables that are already set
	for _, key := range []string{"TASKDESK_API_URL", "TASKDESK_DATA_DIR"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := LoadFrom()
	require.NoError(t, err)
	assert.Equal(t, "https://dotenv.example/api", cfg.APIURL)
	assert.Equal(t, dir, cfg.DataDir)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"not a url", func(c *Config) { c.APIURL = "localhost" }, false},
		{"ftp scheme", func(c *Config) { c.APIURL = "ftp://host/api" }, false},
		{"page size zero", func(c *Config) { c.PageSize = 0 }, false},
		{"page size too big", func(c *Config) { c.PageSize = 500 }, false},
		{"negative debounce", func(c *Config) { c.SearchDebounce = -time.Second }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if tt.ok {
				assert.NoError(t, cfg.Validate())
			} else {
				assert.Error(t, cfg.Validate())
			}
		})
	}
}

func TestBadFileIsReported(t *testing.T) {
	dir := isolate(t)
	bad := writeFile(t, dir, "bad.yaml", "api_url: [unterminated\n")

	_, err := LoadFrom(bad)
	assert.Error(t, err)
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "data"), expandHome("~/data"))
	assert.Equal(t, "/abs", expandHome("/abs"))
}
