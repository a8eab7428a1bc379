// Package config loads runtime settings from the environment (optionally
// seeded from a .env file) and the rank ladder from a YAML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/georgemunganga/warehouse/internal/logger"
)

// DefaultPort is used when APP_PORT is unset.
const DefaultPort = "8080"

// Config is the full runtime configuration of the API host.
type Config struct {
	Port      string
	Log       logger.Config
	RanksFile string
	Ranks     []Rank
	Auth      Auth
}

// Auth holds the operator credentials guarding mutating routes.
type Auth struct {
	JWTSecret    string
	OperatorUser string
	// OperatorPasswordHash is a bcrypt hash. Empty disables the guard.
	OperatorPasswordHash string
}

// Enabled reports whether mutating routes require a token.
func (a Auth) Enabled() bool { return a.OperatorPasswordHash != "" }

// Rank is one tier of the loyalty ladder as written in the ranks file.
type Rank struct {
	Name      string    `yaml:"name"`
	Threshold int       `yaml:"threshold"`
	Penalties []Penalty `yaml:"penalties,omitempty"`
}

// Penalty is one step of a rank's decay table: from FromPeriod onwards
// points are multiplied by Multiplier.
type Penalty struct {
	FromPeriod int     `yaml:"from_period"`
	Multiplier float64 `yaml:"multiplier"`
}

type ranksFile struct {
	Ranks []Rank `yaml:"ranks"`
}

// Load reads .env (if present) and the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	cfg := &Config{
		Port: getenv("APP_PORT", DefaultPort),
		Log: logger.Config{
			Level:      getenv("LOG_LEVEL", "info"),
			Format:     getenv("LOG_FORMAT", "json"),
			FilePath:   os.Getenv("LOG_FILE"),
			MaxSizeMB:  getenvInt("LOG_MAX_SIZE_MB", 0),
			MaxBackups: getenvInt("LOG_MAX_BACKUPS", 0),
			MaxAgeDays: getenvInt("LOG_MAX_AGE_DAYS", 0),
		},
		RanksFile: os.Getenv("RANKS_FILE"),
		Auth: Auth{
			JWTSecret:            os.Getenv("JWT_SECRET"),
			OperatorUser:         getenv("OPERATOR_USER", "operator"),
			OperatorPasswordHash: os.Getenv("OPERATOR_PASSWORD_HASH"),
		},
	}

	if cfg.Auth.Enabled() && cfg.Auth.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required when OPERATOR_PASSWORD_HASH is set")
	}

	if cfg.RanksFile != "" {
		ranks, err := LoadRanks(cfg.RanksFile)
		if err != nil {
			return nil, err
		}
		cfg.Ranks = ranks
	}
	return cfg, nil
}

// LoadRanks reads a rank ladder from a YAML file.
func LoadRanks(path string) ([]Rank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading ranks file: %w", err)
	}
	return ParseRanks(data)
}

// ParseRanks decodes a rank ladder document.
func ParseRanks(data []byte) ([]Rank, error) {
	var f ranksFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing ranks file: %w", err)
	}
	if len(f.Ranks) == 0 {
		return nil, errors.New("ranks file defines no ranks")
	}
	return f.Ranks, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
