package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Addr           string   `env:"RUNEDRAFT_ADDR" envDefault:":8080"`
	DataDir        string   `env:"RUNEDRAFT_DATA_DIR" envDefault:"data"`
	ModelURL       string   `env:"RUNEDRAFT_MODEL_URL"`
	DDragonURL     string   `env:"RUNEDRAFT_DDRAGON_URL" envDefault:"https://ddragon.leagueoflegends.com"`
	DDragonVersion string   `env:"RUNEDRAFT_DDRAGON_VERSION" envDefault:"15.20.1"`
	DatabaseURL    string   `env:"DATABASE_URL"`
	LogLevel       string   `env:"RUNEDRAFT_LOG_LEVEL" envDefault:"info"`
	Dev            bool     `env:"RUNEDRAFT_DEV"`
	AllowedOrigins []string `env:"RUNEDRAFT_ALLOWED_ORIGINS" envSeparator:","`
}

// Load reads the optional dotenv files, then the environment. Variables
// already set in the environment win over the files.
func Load(files ...string) (Config, error) {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func (c Config) ChampionsPath() string { return filepath.Join(c.DataDir, "champions.json") }

func (c Config) MappingsPath() string { return filepath.Join(c.DataDir, "mappings.json") }
