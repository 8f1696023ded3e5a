package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(root, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(root, "data"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(root, "state"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(root, "cache"))
	for _, env := range []string{"DEVMATCH_API_URL", "DEVMATCH_CEP_URL", "DEVMATCH_POKEAPI_URL", "DEVMATCH_DEFAULT_DECK"} {
		t.Setenv(env, "")
	}
	return root
}

func TestLoadConfigCreatesDefault(t *testing.T) {
	root := isolate(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	path := filepath.Join(root, "config", "devmatch", "config.toml")
	assert.Equal(t, path, GetConfigFilePath())
	_, err = os.Stat(path)
	assert.NoError(t, err)

	assert.Equal(t, 1000*time.Millisecond, cfg.CEPTimeout())
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout())
}

func TestLoadConfigFromFile(t *testing.T) {
	isolate(t)

	path := GetConfigFilePath()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	content := `api_url = "http://10.0.0.5:8000/api"

[viewport]
width = 1080.0
height = 1920.0
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "http://10.0.0.5:8000/api", cfg.APIURL)
	assert.Equal(t, Viewport{Width: 1080, Height: 1920}, cfg.Viewport)
	// unset keys keep their defaults
	assert.Equal(t, "https://pokeapi.co/api/v2", cfg.PokeAPIURL)
}

func TestEnvOverridesAreNotPersisted(t *testing.T) {
	isolate(t)
	t.Setenv("DEVMATCH_API_URL", "http://override/api")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "http://override/api", cfg.APIURL)

	require.NoError(t, SetDefaultDeck("mine"))

	t.Setenv("DEVMATCH_API_URL", "")
	cfg, err = LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "mine", cfg.DefaultDeck)
	assert.Equal(t, Default().APIURL, cfg.APIURL)
}

func TestGetDeckPath(t *testing.T) {
	isolate(t)

	libDeck := filepath.Join(GetDeckLibraryPath(), "team")
	require.NoError(t, os.MkdirAll(libDeck, 0755))

	p, err := GetDeckPath("team")
	require.NoError(t, err)
	assert.Equal(t, libDeck, p)

	local := t.TempDir()
	p, err = GetDeckPath(local)
	require.NoError(t, err)
	assert.Equal(t, local, p)

	_, err = GetDeckPath("missing-deck")
	assert.Error(t, err)
}
