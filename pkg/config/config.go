package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for the ETL engine.
// Configuration can come from YAML file (config.yaml) or environment variables.
// Environment variables always override YAML values for fields that support both.
// Secrets (the database password) must only come from environment variables.
type Config struct {
	Env     string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version string `yaml:"-"` // Set at load time, not from config

	// Raw snapshot locations
	Raw RawConfig `yaml:"raw"`

	// Dataset store backend selection
	Store StoreConfig `yaml:"store"`

	// Database configuration (PostgreSQL), used when store.backend is postgres
	Database DatabaseConfig `yaml:"database"`

	// Dataset catalog names per layer
	Datasets DatasetsConfig `yaml:"datasets"`
}

// RawConfig locates the raw JSON snapshot files the ingest stage reads.
type RawConfig struct {
	ApplicantsPath string `yaml:"applicants_path" env:"RAW_APPLICANTS_PATH" env-default:"data/01_raw/applicants.json"`
	VagasPath      string `yaml:"vagas_path" env:"RAW_VAGAS_PATH" env-default:"data/01_raw/vagas.json"`
	ProspectsPath  string `yaml:"prospects_path" env:"RAW_PROSPECTS_PATH" env-default:"data/01_raw/prospects.json"`
}

// Store backends.
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// StoreConfig selects and configures the dataset store backend.
type StoreConfig struct {
	Backend        string `yaml:"backend" env:"STORE_BACKEND" env-default:"sqlite"`
	SQLitePath     string `yaml:"sqlite_path" env:"STORE_SQLITE_PATH" env-default:"data/datasets.db"`
	MigrationsPath string `yaml:"migrations_path" env:"STORE_MIGRATIONS_PATH" env-default:"migrations"`
}

// DatabaseConfig holds PostgreSQL database configuration.
type DatabaseConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"etl"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"hiredata"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"10"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
}

// DatasetsConfig names the tables of each pipeline layer.
type DatasetsConfig struct {
	IntermediateVagas      string `yaml:"intermediate_vagas" env-default:"intermediate_vagas"`
	IntermediateProspects  string `yaml:"intermediate_prospects" env-default:"intermediate_prospects"`
	IntermediateApplicants string `yaml:"intermediate_applicants" env-default:"intermediate_applicants"`
	PrimaryJobOpenings     string `yaml:"primary_job_openings" env-default:"primary_job_openings"`
	PrimaryProspects       string `yaml:"primary_prospects" env-default:"primary_prospects"`
	PrimaryApplicants      string `yaml:"primary_applicants" env-default:"primary_applicants"`
	PrimaryCore            string `yaml:"primary_core" env-default:"primary_core"`
}

// Load reads configuration from config.yaml with environment variable overrides.
// The version parameter is injected at build time and set on the returned Config.
func Load(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	// Load config from YAML file with environment variable overrides
	if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
		return nil, fmt.Errorf("failed to read config.yaml: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Store.Backend {
	case BackendMemory, BackendSQLite, BackendPostgres:
		return nil
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
}

// ConnectionString returns a PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}
