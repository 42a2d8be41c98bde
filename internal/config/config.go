// Package config provides centralized configuration management for albumctl.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import "time"

// DefaultDatabaseURL is used when neither a database URL nor MySQL
// connection parts are configured.
const DefaultDatabaseURL = "sqlite:///data/albums.db"

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Database DatabaseConfig
	Storage  StorageConfig
	Ingest   IngestConfig
	Logging  LoggingConfig
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	// URL is the database connection URL. Accepts postgres://, mysql:// and
	// sqlite:/// schemes. SQLALCHEMY_DATABASE_URI is read as a fallback.
	URL string `env:"DATABASE_URL" envAlt:"SQLALCHEMY_DATABASE_URI"`

	// MySQL connection parts, used to build URL when it is unset and
	// MYSQL_HOST is set.
	MySQLHost     string `env:"MYSQL_HOST"`
	MySQLPort     string `env:"MYSQL_PORT" default:"3306"`
	MySQLUser     string `env:"MYSQL_USER"`
	MySQLPassword string `env:"MYSQL_PASSWORD"`
	MySQLDatabase string `env:"MYSQL_DATABASE"`

	// MaxOpenConns is the maximum number of open connections (default: 10)
	MaxOpenConns int `env:"DB_MAX_OPEN_CONNS" default:"10"`

	// MaxIdleConns is the maximum number of idle connections (default: 2)
	MaxIdleConns int `env:"DB_MAX_IDLE_CONNS" default:"2"`

	// ConnMaxLifetime is the maximum lifetime of a connection (default: 1h)
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" default:"1h"`
}

// StorageConfig holds object store settings.
type StorageConfig struct {
	// Region is the AWS region (default: us-east-1)
	Region string `env:"AWS_REGION" envAlt:"AWS_DEFAULT_REGION" default:"us-east-1"`

	// Endpoint overrides the S3 endpoint for S3 compatible stores
	Endpoint string `env:"S3_ENDPOINT"`

	// ForcePathStyle addresses buckets by path instead of subdomain (default: false)
	ForcePathStyle bool `env:"S3_FORCE_PATH_STYLE" default:"false"`

	// MaxRetries is the SDK retry count for transient S3 errors (default: 0, no retries)
	MaxRetries int `env:"S3_MAX_RETRIES" default:"0"`

	// Source is the bucket/key of the raw dataset
	Source string `env:"S3_SOURCE_PATH" default:"s3://2021-msia423-rice-brian/raw/P4KxSpotify.csv"`
}

// IngestConfig holds dataset ingestion settings.
type IngestConfig struct {
	// LocalPath is where the raw dataset is kept on disk
	LocalPath string `env:"RAW_DATA_PATH" default:"data/raw/P4KxSpotify.csv"`

	// RawDataURL is the public URL of the raw dataset, used by acquire
	RawDataURL string `env:"RAW_DATA_URL"`

	// Delimiter is the field separator of the dataset (default: ",")
	Delimiter string `env:"CSV_DELIMITER" default:","`

	// ColumnMap overrides source headers, e.g. "album=title,key=pitch_key"
	ColumnMap string `env:"ALBUM_COLUMN_MAP"`

	// Timeout bounds a whole ingestion run (default: 10m)
	Timeout time.Duration `env:"INGEST_TIMEOUT" default:"10m"`

	// Reseed drops and recreates the table before ingesting (default: true)
	Reseed bool `env:"INGEST_RESEED" default:"true"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}
