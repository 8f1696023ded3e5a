package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

const appName = "devmatch"

// Config represents the application configuration
type Config struct {
	DefaultDeck      string   `toml:"default_deck"`
	APIURL           string   `toml:"api_url"`
	CEPURL           string   `toml:"cep_url"`
	PokeAPIURL       string   `toml:"pokeapi_url"`
	RequestTimeoutMS int      `toml:"request_timeout_ms"`
	CEPTimeoutMS     int      `toml:"cep_timeout_ms"`
	Viewport         Viewport `toml:"viewport"`
}

// Viewport is the logical screen size swipe exit vectors are sized against
type Viewport struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		DefaultDeck:      "featured-devs",
		APIURL:           "http://localhost:8000/api",
		CEPURL:           "https://viacep.com.br/ws",
		PokeAPIURL:       "https://pokeapi.co/api/v2",
		RequestTimeoutMS: 10000,
		CEPTimeoutMS:     1000,
		Viewport:         Viewport{Width: 390, Height: 844},
	}
}

// RequestTimeout returns the backend request timeout
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMS) * time.Millisecond
}

// CEPTimeout returns the address lookup timeout
func (c *Config) CEPTimeout() time.Duration {
	return time.Duration(c.CEPTimeoutMS) * time.Millisecond
}

// LoadEnv loads a .env file from the working directory if there is one
func LoadEnv() {
	if _, err := os.Stat(".env"); os.IsNotExist(err) {
		return
	}
	if err := godotenv.Load(".env"); err != nil {
		log.Warnf("unable to load .env file: %s", err)
		return
	}
	log.Debug(".env file loaded.")
}

// GetXDGDataHome returns XDG_DATA_HOME or default path
func GetXDGDataHome() string {
	return xdgDir("XDG_DATA_HOME", ".local", "share")
}

// GetXDGConfigHome returns XDG_CONFIG_HOME or default path
func GetXDGConfigHome() string {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// GetXDGStateHome returns XDG_STATE_HOME or default path
func GetXDGStateHome() string {
	return xdgDir("XDG_STATE_HOME", ".local", "state")
}

// GetXDGCacheHome returns XDG_CACHE_HOME or default path
func GetXDGCacheHome() string {
	return xdgDir("XDG_CACHE_HOME", ".cache")
}

func xdgDir(env string, fallback ...string) string {
	if dir := os.Getenv(env); dir != "" {
		return dir
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(append([]string{homeDir}, fallback...)...)
}

// GetDeckLibraryPath returns the path to the deck library
func GetDeckLibraryPath() string {
	return filepath.Join(GetXDGDataHome(), appName, "decks")
}

// GetConfigFilePath returns the path to the config file
func GetConfigFilePath() string {
	return filepath.Join(GetXDGConfigHome(), appName, "config.toml")
}

// GetStateDir returns the directory holding the session and the log
func GetStateDir() string {
	return filepath.Join(GetXDGStateHome(), appName)
}

// GetCacheDir returns the cache directory
func GetCacheDir() string {
	return filepath.Join(GetXDGCacheHome(), appName)
}

// LoadConfig loads the config file, creating it with defaults on first
// use, and applies environment overrides
func LoadConfig() (*Config, error) {
	config, err := loadFile()
	if err != nil {
		return nil, err
	}
	applyEnv(config)
	return config, nil
}

// loadFile reads the config file without environment overrides
func loadFile() (*Config, error) {
	configPath := GetConfigFilePath()

	var config *Config
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		config, err = createDefaultConfig()
		if err != nil {
			return nil, err
		}
	} else {
		config = Default()
		if _, err := toml.DecodeFile(configPath, config); err != nil {
			return nil, fmt.Errorf("error decoding config file: %w", err)
		}
	}
	return config, nil
}

// applyEnv overrides file values with DEVMATCH_* variables
func applyEnv(config *Config) {
	overrides := map[string]*string{
		"DEVMATCH_API_URL":      &config.APIURL,
		"DEVMATCH_CEP_URL":      &config.CEPURL,
		"DEVMATCH_POKEAPI_URL":  &config.PokeAPIURL,
		"DEVMATCH_DEFAULT_DECK": &config.DefaultDeck,
	}
	for env, field := range overrides {
		if v := os.Getenv(env); v != "" {
			*field = v
		}
	}
}

// createDefaultConfig creates a default config file
func createDefaultConfig() (*Config, error) {
	config := Default()
	if err := SaveConfig(config); err != nil {
		return nil, err
	}
	return config, nil
}

// SaveConfig writes config to the config file
func SaveConfig(config *Config) error {
	configPath := GetConfigFilePath()

	// Ensure the config directory exists
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	file, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("error creating config file: %w", err)
	}
	defer file.Close()

	if err := toml.NewEncoder(file).Encode(config); err != nil {
		return fmt.Errorf("error encoding config: %w", err)
	}

	return nil
}

// GetDeckPath returns the path to a deck, either in the deck library or a relative path
func GetDeckPath(deckName string) (string, error) {
	// First, try to find the deck in the deck library
	deckPath := filepath.Join(GetDeckLibraryPath(), deckName)
	if _, err := os.Stat(deckPath); err == nil {
		return deckPath, nil
	}

	// If not found in the library, treat as a relative path
	if _, err := os.Stat(deckName); err == nil {
		return deckName, nil
	}

	return "", fmt.Errorf("deck not found: %s", deckName)
}

// GetDefaultDeck returns the default deck name from config
func GetDefaultDeck() (string, error) {
	config, err := LoadConfig()
	if err != nil {
		return "", err
	}

	return config.DefaultDeck, nil
}

// SetDefaultDeck sets the default deck in the config
func SetDefaultDeck(deckName string) error {
	config, err := loadFile()
	if err != nil {
		return err
	}

	config.DefaultDeck = deckName
	return SaveConfig(config)
}
