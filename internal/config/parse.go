package config

import (
	"errors"
	"fmt"
	"io/fs"
	"slices"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

func Parse() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %v", err)
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse cfg: %v", err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("parse cfg: %v", err)
	}

	return cfg, nil
}

func (c Config) validate() error {
	drivers := []string{DriverPostgres, DriverSQLite, DriverMemory}
	if !slices.Contains(drivers, c.Database.Driver) {
		return fmt.Errorf("unknown DB_DRIVER %q, want one of %v", c.Database.Driver, drivers)
	}

	if c.App.DefaultLimit < 1 {
		return fmt.Errorf("APP_DEFAULT_LIMIT must be positive, got %d", c.App.DefaultLimit)
	}

	if c.App.MaxLimit < 0 {
		return fmt.Errorf("APP_MAX_LIMIT must not be negative, got %d", c.App.MaxLimit)
	}

	return nil
}
