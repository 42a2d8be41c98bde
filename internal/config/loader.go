package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/JonMunkholm/albums/internal/album"
	"github.com/JonMunkholm/albums/internal/schema"
	"github.com/JonMunkholm/albums/internal/tabular"
)

// Load reads configuration from environment variables.
// It applies defaults for unset values and validates the result.
// Returns an error if a value does not parse or validation fails.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := loadStruct(reflect.ValueOf(cfg).Elem()); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}
	cfg.Database.URL = cfg.Database.ResolveURL()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// loadStruct recursively populates struct fields from environment variables.
func loadStruct(v reflect.Value) error {
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldVal := v.Field(i)

		// Skip unexported fields
		if !fieldVal.CanSet() {
			continue
		}

		// Recurse into nested structs
		if field.Type.Kind() == reflect.Struct && field.Type != reflect.TypeOf(time.Time{}) {
			if err := loadStruct(fieldVal); err != nil {
				return err
			}
			continue
		}

		// Get tags
		envName := field.Tag.Get("env")
		envAlt := field.Tag.Get("envAlt")
		defaultVal := field.Tag.Get("default")

		if envName == "" {
			continue
		}

		// Try primary env var, then alternate
		value := os.Getenv(envName)
		if value == "" && envAlt != "" {
			value = os.Getenv(envAlt)
		}

		// Apply default if not set
		if value == "" {
			value = defaultVal
		}

		if value == "" {
			continue
		}

		// Set the field value
		if err := setField(fieldVal, value); err != nil {
			return fmt.Errorf("invalid value for %s=%q: %w", envName, value, err)
		}
	}

	return nil
}

// setField sets a reflect.Value from a string based on its type.
func setField(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int64:
		// Handle time.Duration specially
		if field.Type() == reflect.TypeOf(time.Duration(0)) {
			d, err := time.ParseDuration(value)
			if err != nil {
				return fmt.Errorf("invalid duration: %w", err)
			}
			field.Set(reflect.ValueOf(d))
		} else {
			i, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer: %w", err)
			}
			field.SetInt(i)
		}

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean: %w", err)
		}
		field.SetBool(b)

	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}

	return nil
}

// ResolveURL returns the explicit URL if set, else a MySQL URL built from
// the connection parts when MYSQL_HOST is set, else DefaultDatabaseURL.
func (d *DatabaseConfig) ResolveURL() string {
	if d.URL != "" {
		return d.URL
	}
	if d.MySQLHost != "" {
		return schema.MySQLURL(d.MySQLUser, d.MySQLPassword, d.MySQLHost, d.MySQLPort, d.MySQLDatabase)
	}
	return DefaultDatabaseURL
}

// Validate checks that the configuration is valid.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []string

	// Database validation
	if _, err := schema.ParseDSN(c.Database.URL); err != nil {
		errs = append(errs, fmt.Sprintf("DATABASE_URL is invalid: %v", err))
	}
	if c.Database.MaxOpenConns <= 0 {
		errs = append(errs, "DB_MAX_OPEN_CONNS must be positive")
	}
	if c.Database.MaxIdleConns < 0 {
		errs = append(errs, "DB_MAX_IDLE_CONNS must be non-negative")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		errs = append(errs, fmt.Sprintf("DB_MAX_IDLE_CONNS (%d) must be <= DB_MAX_OPEN_CONNS (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns))
	}
	if c.Database.ConnMaxLifetime < 0 {
		errs = append(errs, "DB_CONN_MAX_LIFETIME must be non-negative")
	}

	// Storage validation
	if c.Storage.MaxRetries < 0 {
		errs = append(errs, "S3_MAX_RETRIES must be non-negative")
	}

	// Ingest validation
	if _, err := tabular.ParseDelimiter(c.Ingest.Delimiter); err != nil {
		errs = append(errs, fmt.Sprintf("CSV_DELIMITER is invalid: %v", err))
	}
	if _, err := album.ParseColumnMap(c.Ingest.ColumnMap); err != nil {
		errs = append(errs, fmt.Sprintf("ALBUM_COLUMN_MAP is invalid: %v", err))
	}
	if c.Ingest.Timeout <= 0 {
		errs = append(errs, "INGEST_TIMEOUT must be positive")
	}

	// Logging validation
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Sprintf("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level))
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Sprintf("LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// String returns a safe string representation of the config for logging.
// The database URL and MySQL password are masked.
func (c *Config) String() string {
	var b strings.Builder
	b.WriteString("Config{")
	b.WriteString(fmt.Sprintf("Database: {URL: [MASKED], MaxOpenConns: %d, MaxIdleConns: %d}, ",
		c.Database.MaxOpenConns, c.Database.MaxIdleConns))
	b.WriteString(fmt.Sprintf("Storage: {Region: %q, Endpoint: %q, Source: %q}, ",
		c.Storage.Region, c.Storage.Endpoint, c.Storage.Source))
	b.WriteString(fmt.Sprintf("Ingest: {LocalPath: %q, Delimiter: %q, Timeout: %s, Reseed: %v}, ",
		c.Ingest.LocalPath, c.Ingest.Delimiter, c.Ingest.Timeout, c.Ingest.Reseed))
	b.WriteString(fmt.Sprintf("Logging: {Level: %q, Format: %q}",
		c.Logging.Level, c.Logging.Format))
	b.WriteString("}")
	return b.String()
}

// Comma returns the configured field delimiter.
func (i *IngestConfig) Comma() rune {
	r, err := tabular.ParseDelimiter(i.Delimiter)
	if err != nil {
		return tabular.DefaultDelimiter
	}
	return r
}

// Columns returns the configured header-to-field map.
func (i *IngestConfig) Columns() album.ColumnMap {
	m, err := album.ParseColumnMap(i.ColumnMap)
	if err != nil {
		return album.DefaultColumnMap()
	}
	return m
}
