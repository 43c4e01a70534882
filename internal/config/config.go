package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
)

var ErrMissingRequiredValue = errors.New("missing required value")
var ErrInvalidValue = errors.New("invalid value")

const DEFAULT_PORT = "8123"

type environment string

const (
	production  environment = "production"
	staging     environment = "staging"
	development environment = "development"
)

type Config struct {
	cloudSQLUnixSocketPath string
	dBPassword             string
	dBUsername             string
	sentryDSN              string
	geminiAPIKey           string
	googleCloudProject     string
	port                   string
	env                    environment
}

func (c *Config) CloudSQLUnixSocketPath() string {
	return c.cloudSQLUnixSocketPath
}

func (c *Config) DBPassword() string {
	return c.dBPassword
}

func (c *Config) DBUsername() string {
	return c.dBUsername
}

func (c *Config) SentryDSN() string {
	return c.sentryDSN
}

// The guide falls back to the offline simulation when this is empty
func (c *Config) GeminiAPIKey() string {
	return c.geminiAPIKey
}

func (c *Config) GoogleCloudProject() string {
	return c.googleCloudProject
}

func (c *Config) Port() string {
	return c.port
}

func (c *Config) Environment() string {
	return string(c.env)
}

func (c *Config) IsProduction() bool {
	return c.env == production
}

func (c *Config) IsStaging() bool {
	return c.env == staging
}

func (c *Config) IsDevelopment() bool {
	return c.env == development
}

// Return a string representation suitable for logging etc
func (c *Config) NonSensitiveString() string {
	return fmt.Sprintf(
		"Config{env: %s, port: %s, gemini: %t, ...}",
		string(c.env),
		c.port,
		c.geminiAPIKey != "",
	)
}

func ConfigFromEnv() (Config, error) {
	missingKey := func(key string) (Config, error) {
		return Config{}, fmt.Errorf("%w: %s", ErrMissingRequiredValue, key)
	}

	var env environment
	rawEnv, ok := os.LookupEnv("PILGRIM_ENVIRONMENT")
	if !ok {
		return missingKey("PILGRIM_ENVIRONMENT")
	}
	switch rawEnv {
	case "production":
		env = production
	case "staging":
		env = staging
	case "development":
		env = development
	default:
		return Config{}, fmt.Errorf("%w: PILGRIM_ENVIRONMENT (%s)", ErrInvalidValue, rawEnv)
	}
	if string(env) == "" {
		panic("logic error: env is empty")
	}

	cloudSQLUnixSocketPath := os.Getenv("CLOUDSQL_UNIX_SOCKET")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbUsername := os.Getenv("DB_USERNAME")
	sentryDSN := os.Getenv("SENTRY_DSN")
	geminiAPIKey := os.Getenv("GEMINI_API_KEY")
	googleCloudProject := os.Getenv("GOOGLE_CLOUD_PROJECT")

	port := os.Getenv("PORT")
	if port == "" {
		port = DEFAULT_PORT
	}
	if portNumber, err := strconv.Atoi(port); err != nil || portNumber <= 0 || portNumber > 65535 {
		return Config{}, fmt.Errorf("%w: PORT (%s)", ErrInvalidValue, port)
	}

	if env == production || env == staging {
		if cloudSQLUnixSocketPath == "" {
			return missingKey("CLOUDSQL_UNIX_SOCKET")
		}
		if dbUsername == "" {
			return missingKey("DB_USERNAME")
		}
		if dbPassword == "" {
			return missingKey("DB_PASSWORD")
		}
		if sentryDSN == "" {
			return missingKey("SENTRY_DSN")
		}
	}

	return Config{
		cloudSQLUnixSocketPath: cloudSQLUnixSocketPath,
		dBPassword:             dbPassword,
		dBUsername:             dbUsername,
		sentryDSN:              sentryDSN,
		geminiAPIKey:           geminiAPIKey,
		googleCloudProject:     googleCloudProject,
		port:                   port,
		env:                    env,
	}, nil
}
