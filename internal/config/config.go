package config

import (
	"fmt"
	"os"
)

// DatabaseConfig holds PostgreSQL connection parameters.
// When Enabled is false the simulation runs without a death log.
type DatabaseConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

func (d DatabaseConfig) validate() error {
	if !d.Enabled {
		return nil
	}
	if d.Host == "" || d.DBName == "" {
		return fmt.Errorf("database: host and dbname are required")
	}
	if d.Port <= 0 || d.Port > 65535 {
		return fmt.Errorf("database: invalid port %d", d.Port)
	}
	return nil
}

// DefaultDatabase returns local development connection settings (disabled).
func DefaultDatabase() DatabaseConfig {
	return DatabaseConfig{
		Host:     "127.0.0.1",
		Port:     5432,
		User:     "skirmish",
		Password: "skirmish",
		DBName:   "skirmish",
		SSLMode:  "disable",
	}
}

// readFile returns nil data (and no error) when path does not exist.
func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return data, nil
}
