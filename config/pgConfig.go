package config

import (
	"fmt"
)

type DbConfig interface {
	GetConnectionString() string
}

// PostgresConfig represents the configuration needed to connect to a PostgreSQL database
type PostgresConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

func (pc *PostgresConfig) GetConnectionString() string {
	sslMode := pc.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		pc.Host, pc.Port, pc.User, pc.Password, pc.DBName, sslMode)
}

func (pc *PostgresConfig) applyEnv() {
	pc.Host = getEnv("POSTGRES_HOST", defaultString(pc.Host, "localhost"))
	pc.Port = getEnv("POSTGRES_PORT", defaultString(pc.Port, "5432"))
	pc.User = getEnv("POSTGRES_USER", defaultString(pc.User, "postgres"))
	pc.Password = getEnv("POSTGRES_PASSWORD", defaultString(pc.Password, "postgres"))
	pc.DBName = getEnv("POSTGRES_NAME", defaultString(pc.DBName, "postgres"))
	if getEnv("POSTGRES_ENABLED", "") == "true" {
		pc.Enabled = true
	}
}
