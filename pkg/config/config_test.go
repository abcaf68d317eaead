package config

import (
	"os"
	"testing"

	"github.com/SepDev7/shop-crawler/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsMatchReferenceDeployment(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.MaxConcurrency)
	assert.Equal(t, FetchModeHTTP, cfg.FetchMode)
	assert.Equal(t, entity.SourceConfig{
		BaseURL:     "https://bama.ir/cad/api/search",
		SearchParam: "vehicle",
		SearchTerm:  "pride",
		PageParam:   "pageIndex",
		PageStart:   1,
		PageEnd:     80,
	}, cfg.Source())

	tasks, err := entity.BuildPageTasks(cfg.Source())
	require.NoError(t, err)
	assert.Len(t, tasks, 79)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("MAX_CONCURRENCY", "3")
	t.Setenv("PAGE_END", "5")
	t.Setenv("SOURCE_SEARCH_TERM", "peugeot")
	t.Setenv("PROXY_URLS", "http://p1:8080, ,http://p2:8080")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.MaxConcurrency)
	assert.Equal(t, 5, cfg.PageEnd)
	assert.Equal(t, "peugeot", cfg.SourceSearchTerm)
	assert.Equal(t, []string{"http://p1:8080", "http://p2:8080"}, cfg.Proxies())
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			SourceBaseURL:         "https://example.com/search",
			SourcePageParam:       "page",
			PageStart:             1,
			PageEnd:               3,
			MaxConcurrency:        2,
			RequestTimeoutSeconds: 5,
			FetchMode:             FetchModeHTTP,
		}
	}

	cfg := valid()
	require.NoError(t, cfg.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "zero concurrency", mutate: func(c *Config) { c.MaxConcurrency = 0 }},
		{name: "page start zero", mutate: func(c *Config) { c.PageStart = 0 }},
		{name: "empty range", mutate: func(c *Config) { c.PageEnd = c.PageStart }},
		{name: "no timeout", mutate: func(c *Config) { c.RequestTimeoutSeconds = 0 }},
		{name: "unknown fetch mode", mutate: func(c *Config) { c.FetchMode = "carrier-pigeon" }},
		{name: "missing base url", mutate: func(c *Config) { c.SourceBaseURL = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoad_ReadsDotEnvFile(t *testing.T) {
	chdir(t, t.TempDir())
	require.NoError(t, os.WriteFile(".env", []byte("MAX_CONCURRENCY=4\nSOURCE_SEARCH_TERM=tiba\n"), 0o600))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.MaxConcurrency)
	assert.Equal(t, "tiba", cfg.SourceSearchTerm)
}

func TestLoad_UnreadableDotEnvIsAnError(t *testing.T) {
	chdir(t, t.TempDir())
	require.NoError(t, os.Mkdir(".env", 0o700))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read .env")
}

// chdir changes the working directory for the duration of the test,
// mirroring testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
