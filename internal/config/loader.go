package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// secretEnv lists keys that never live in the YAML file. The first name is the
// canonical APP_* variable, the rest are common fallbacks (docker images, CI).
var secretEnv = map[string][]string{
	"postgres.user":     {"APP_POSTGRES_USER", "POSTGRES_USER", "DB_USER"},
	"postgres.password": {"APP_POSTGRES_PASSWORD", "POSTGRES_PASSWORD", "DB_PASSWORD"},
	"postgres.dbname":   {"APP_POSTGRES_DB", "POSTGRES_DB", "DB_NAME"},
}

func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()

	setDefaults(v)
	for key, names := range secretEnv {
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	var config Config
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config file not found: %w", err)
	}
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Logger config is validated by logger.New after its own defaults are applied.
	validate := validator.New()
	if err := validate.Struct(config.App); err != nil {
		return nil, fmt.Errorf("app config validation error: %w", err)
	}
	if err := validate.Struct(config.Postgres); err != nil {
		return nil, fmt.Errorf("postgres config validation error: %w", err)
	}
	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "member-search-service")
	v.SetDefault("app.port", 8080)
	v.SetDefault("app.read_timeout", 15)
	v.SetDefault("app.write_timeout", 15)
	v.SetDefault("app.shutdown_timeout", 30)

	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("postgres.max_conns", 10)
	v.SetDefault("postgres.min_conns", 1)
	v.SetDefault("postgres.max_conn_lifetime", 3600)
	v.SetDefault("postgres.max_conn_idle_time", 300)
	v.SetDefault("postgres.health_check_period", 30)
}
