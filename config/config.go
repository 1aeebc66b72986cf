package config

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"raffler/database"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	DatabaseURL  string `env:"DATABASE_URL"`
	DatabaseName string `env:"DATABASE_NAME"`

	// Ledger configuration
	CodeGenerationAttempts int `env:"CODE_GENERATION_ATTEMPTS" envDefault:"3"` // Inserts tried before a code collision is surfaced
	DefaultWinnerCount     int `env:"DEFAULT_WINNER_COUNT" envDefault:"1"`     // Winners picked when a stop does not say otherwise

	// Logging
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Environment
	Environment string `env:"ENVIRONMENT" envDefault:"development"` // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // Protects instance for test setup
)

// Get returns the global configuration instance
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	// If instance is already set (e.g., by tests), return it
	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			// In test environment, use a default test config instead of panicking
			if os.Getenv("GO_TEST") == "1" || os.Getenv("ENVIRONMENT") == "test" {
				instance = NewTestConfig()
			} else {
				panic(fmt.Sprintf("failed to load config: %v", err))
			}
		}
	})
	return instance
}

// Load reads configuration without touching the global instance
func Load() (*Config, error) {
	return load()
}

// GetDatabaseURL constructs the full database URL by combining base URL and database name
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// load loads configuration from an optional .env file and the environment
func load() (*Config, error) {
	// A missing .env file is fine, production sets variables directly
	_ = godotenv.Load()

	config := &Config{}
	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) validate() error {
	if c.CodeGenerationAttempts < 1 {
		return fmt.Errorf("CODE_GENERATION_ATTEMPTS must be at least 1, got %d", c.CodeGenerationAttempts)
	}
	if c.DefaultWinnerCount < 0 {
		return fmt.Errorf("DEFAULT_WINNER_COUNT cannot be negative, got %d", c.DefaultWinnerCount)
	}

	if c.Environment != "test" {
		// Validate required configuration
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required")
		}
		// If DatabaseName is provided, ensure it's not blank
		if c.DatabaseName != "" && strings.TrimSpace(c.DatabaseName) == "" {
			return fmt.Errorf("DATABASE_NAME cannot be empty when provided")
		}
	}

	return nil
}

// Test helpers - only use in tests

// SetTestConfig overrides the global config instance for testing
// This should only be called from test files
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig resets the global config instance and sync.Once for testing
// This should only be called from test files
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a minimal config suitable for unit tests
func NewTestConfig() *Config {
	return &Config{
		Environment:            "test",
		CodeGenerationAttempts: 3,
		DefaultWinnerCount:     1,
		LogLevel:               "debug",
	}
}
