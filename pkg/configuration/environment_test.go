package configuration

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnv_FallsBackToGoModRoot(t *testing.T) {
	tmp := t.TempDir()

	requireWriteFile(t, filepath.Join(tmp, "go.mod"), "module example.com/test\n\ngo 1.22\n")
	requireWriteFile(t, filepath.Join(tmp, ".env.local"), "OMS_TEST_ENV_LOAD=ok\n")

	sub := filepath.Join(tmp, "pkg", "listing")
	requireMkdirAll(t, sub)
	chdir(t, sub)

	_ = os.Unsetenv("OMS_TEST_ENV_LOAD")
	t.Cleanup(func() { _ = os.Unsetenv("OMS_TEST_ENV_LOAD") })

	n, err := LoadEnv([]string{".env", ".env.local"})
	if err != nil {
		t.Fatalf("LoadEnv: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 env file loaded, got %d", n)
	}
	if got := os.Getenv("OMS_TEST_ENV_LOAD"); got != "ok" {
		t.Fatalf("expected env var loaded from repo root, got %q", got)
	}
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("API_BASE_URL", "https://api.example.com/")

	c, err := Load(nil)
	require.NoError(t, err)
	t.Cleanup(c.Unload)

	assert.Equal(t, "https://api.example.com", c.API.BaseURL)
	assert.Equal(t, 30*time.Second, c.API.Timeout)
	assert.Equal(t, 10, c.Listing.PageSize)
	assert.Equal(t, 500*time.Millisecond, c.Listing.SearchDebounce)
	assert.Equal(t, "file", c.Session.Store)
	assert.Equal(t, "X-Request-ID", c.RequestIDHeader)
	assert.NotNil(t, c.Logger())
}

func TestLoad_Invalid(t *testing.T) {
	chdir(t, t.TempDir())

	cases := []struct {
		name string
		env  map[string]string
	}{
		{name: "missing base url", env: map[string]string{"API_BASE_URL": ""}},
		{name: "malformed base url", env: map[string]string{"API_BASE_URL": "not a url"}},
		{name: "page size zero", env: map[string]string{"API_BASE_URL": "http://localhost", "PAGE_SIZE": "0"}},
		{name: "unknown session store", env: map[string]string{"API_BASE_URL": "http://localhost", "SESSION_STORE": "memcached"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := Load(nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestLoad_NormalizesSessionStore(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("API_BASE_URL", "http://localhost:4000")
	t.Setenv("SESSION_STORE", "Redis")

	c, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "redis", c.Session.Store)
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	origWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(origWd) })
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
}

func requireWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func requireMkdirAll(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
}
