package config

import (
	"fmt"
	"net/url"

	"github.com/maxviazov/member-search-service/internal/logger"
)

type Config struct {
	App      AppConfig           `mapstructure:"app"`
	Logger   logger.LoggerConfig `mapstructure:"logger"`
	Postgres PostgresConfig      `mapstructure:"postgres"`
}

// AppConfig holds HTTP server settings.
type AppConfig struct {
	Name            string   `mapstructure:"name"`
	Version         string   `mapstructure:"version"`
	Env             string   `mapstructure:"env"`
	Port            int      `mapstructure:"port" validate:"min=1,max=65535"`
	ReadTimeout     int      `mapstructure:"read_timeout"`
	WriteTimeout    int      `mapstructure:"write_timeout"`
	ShutdownTimeout int      `mapstructure:"shutdown_timeout"`
	CORSOrigins     []string `mapstructure:"cors_origins"`
}

// PostgresConfig holds connection and pool tuning. Durations are in seconds.
// Credentials are expected from the environment, never from the YAML file.
type PostgresConfig struct {
	Host              string `mapstructure:"host" validate:"required"`
	Port              int    `mapstructure:"port" validate:"min=1,max=65535"`
	User              string `mapstructure:"user" validate:"required"`
	Password          string `mapstructure:"password" validate:"required"`
	DBName            string `mapstructure:"dbname" validate:"required"`
	SSLMode           string `mapstructure:"sslmode" validate:"omitempty,oneof=disable allow prefer require verify-ca verify-full"`
	MaxConns          int32  `mapstructure:"max_conns" validate:"min=0"`
	MinConns          int32  `mapstructure:"min_conns" validate:"min=0,ltefield=MaxConns"`
	MaxConnLifetime   int    `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime   int    `mapstructure:"max_conn_idle_time"`
	HealthCheckPeriod int    `mapstructure:"health_check_period"`
}

// DSN renders a postgres:// URL; url.URL takes care of escaping credentials.
func (p PostgresConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		Host:   fmt.Sprintf("%s:%d", p.Host, p.Port),
		Path:   p.DBName,
	}
	if p.User != "" || p.Password != "" {
		u.User = url.UserPassword(p.User, p.Password)
	}
	q := u.Query()
	if p.SSLMode != "" {
		q.Set("sslmode", p.SSLMode)
	}
	u.RawQuery = q.Encode()
	return u.String()
}
