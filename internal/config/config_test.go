package config_test

import (
	"testing"

	"github.com/Amund211/pilgrim/internal/config"
	"github.com/stretchr/testify/require"
)

type environment string

const (
	production  environment = "production"
	staging     environment = "staging"
	development environment = "development"
)

var requiredVariablesExceptEnv = []string{"CLOUDSQL_UNIX_SOCKET", "DB_PASSWORD", "DB_USERNAME", "SENTRY_DSN"}
var optionalVariables = []string{"GEMINI_API_KEY", "GOOGLE_CLOUD_PROJECT", "PORT"}

func TestGetConfig(t *testing.T) {
	compareConfig := func(socketPath, username, password, sentryDSN, geminiAPIKey, googleCloudProject, port string, env environment, conf config.Config) {
		t.Helper()
		require.Equal(t, socketPath, conf.CloudSQLUnixSocketPath())
		require.Equal(t, username, conf.DBUsername())
		require.Equal(t, password, conf.DBPassword())
		require.Equal(t, sentryDSN, conf.SentryDSN())
		require.Equal(t, geminiAPIKey, conf.GeminiAPIKey())
		require.Equal(t, googleCloudProject, conf.GoogleCloudProject())
		require.Equal(t, port, conf.Port())
		require.Equal(t, env == production, conf.IsProduction())
		require.Equal(t, env == staging, conf.IsStaging())
		require.Equal(t, env == development, conf.IsDevelopment())
	}

	t.Run("ensure base environment is clean", func(t *testing.T) {
		t.Run("environment is missing", func(t *testing.T) {
			// PILGRIM_ENVIRONMENT is required, so this should fail
			_, err := config.ConfigFromEnv()
			require.ErrorIs(t, err, config.ErrMissingRequiredValue)
		})

		t.Run("development environment should be empty", func(t *testing.T) {
			t.Setenv("PILGRIM_ENVIRONMENT", "development")

			conf, err := config.ConfigFromEnv()
			require.NoError(t, err)
			compareConfig("", "", "", "", "", "", config.DEFAULT_PORT, development, conf)
		})
	})

	t.Run("values are read correctly", func(t *testing.T) {
		for _, variable := range requiredVariablesExceptEnv {
			t.Setenv(variable, variable)
		}
		t.Setenv("GEMINI_API_KEY", "GEMINI_API_KEY")
		t.Setenv("GOOGLE_CLOUD_PROJECT", "GOOGLE_CLOUD_PROJECT")
		t.Setenv("PORT", "9000")

		for _, env := range []environment{production, staging, development} {
			t.Run(string(env), func(t *testing.T) {
				t.Setenv("PILGRIM_ENVIRONMENT", string(env))

				conf, err := config.ConfigFromEnv()
				require.NoError(t, err)
				compareConfig("CLOUDSQL_UNIX_SOCKET", "DB_USERNAME", "DB_PASSWORD", "SENTRY_DSN", "GEMINI_API_KEY", "GOOGLE_CLOUD_PROJECT", "9000", env, conf)
			})
		}
	})

	t.Run("production and staging fail when missing variables", func(t *testing.T) {
		// Set all variables
		for _, variable := range requiredVariablesExceptEnv {
			t.Setenv(variable, "placeholder_value")
		}

		for _, env := range []environment{production, staging} {
			t.Run(string(env), func(t *testing.T) {
				t.Setenv("PILGRIM_ENVIRONMENT", string(env))

				for _, variable := range requiredVariablesExceptEnv {
					t.Run(variable, func(t *testing.T) {
						t.Setenv(variable, "")

						_, err := config.ConfigFromEnv()
						require.ErrorIs(t, err, config.ErrMissingRequiredValue)
					})
				}
			})
		}
	})

	t.Run("optional variables are optional in production", func(t *testing.T) {
		for _, variable := range requiredVariablesExceptEnv {
			t.Setenv(variable, "placeholder_value")
		}
		for _, variable := range optionalVariables {
			t.Setenv(variable, "")
		}
		t.Setenv("PILGRIM_ENVIRONMENT", "production")

		conf, err := config.ConfigFromEnv()
		require.NoError(t, err)
		require.Empty(t, conf.GeminiAPIKey())
		require.Equal(t, config.DEFAULT_PORT, conf.Port())
	})

	t.Run("invalid environment", func(t *testing.T) {
		for _, env := range []string{"", "invalid", "my-env"} {
			t.Run(env, func(t *testing.T) {
				t.Setenv("PILGRIM_ENVIRONMENT", env)
				_, err := config.ConfigFromEnv()
				require.ErrorIs(t, err, config.ErrInvalidValue)
			})
		}
	})

	t.Run("invalid port", func(t *testing.T) {
		t.Setenv("PILGRIM_ENVIRONMENT", "development")
		for _, port := range []string{"abc", "0", "-1", "70000"} {
			t.Run(port, func(t *testing.T) {
				t.Setenv("PORT", port)
				_, err := config.ConfigFromEnv()
				require.ErrorIs(t, err, config.ErrInvalidValue)
			})
		}
	})
}
