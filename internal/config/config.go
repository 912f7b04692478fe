package config

import (
	"github.com/maxviazov/billing-admin-service/internal/logger"
)

type Config struct {
	App        AppConfig           `mapstructure:"app"`
	Logger     logger.LoggerConfig `mapstructure:"logger" validate:"-"`
	Database   DatabaseConfig      `mapstructure:"database"`
	Pagination PaginationConfig    `mapstructure:"pagination"`
	Views      ViewsConfig         `mapstructure:"views"`
}

type AppConfig struct {
	Name            string `mapstructure:"name"`
	Version         string `mapstructure:"version"`
	Env             string `mapstructure:"env"`
	Port            int    `mapstructure:"port" validate:"min=1,max=65535"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout" validate:"min=1"` // seconds
}

// DatabaseConfig describes the primary datastore. Credentials are expected from the environment.
type DatabaseConfig struct {
	Driver            string `mapstructure:"driver" validate:"oneof=postgres mysql"`
	Host              string `mapstructure:"host" validate:"required"`
	Port              int    `mapstructure:"port" validate:"min=1,max=65535"`
	User              string `mapstructure:"user" validate:"required"`
	Password          string `mapstructure:"password" validate:"required"`
	DBName            string `mapstructure:"dbname" validate:"required"`
	SSLMode           string `mapstructure:"sslmode"`
	MaxConns          int32  `mapstructure:"max_conns" validate:"min=1"`
	MinConns          int32  `mapstructure:"min_conns" validate:"min=0,ltefield=MaxConns"`
	MaxConnLifetime   int    `mapstructure:"max_conn_lifetime"`   // seconds
	MaxConnIdleTime   int    `mapstructure:"max_conn_idle_time"`  // seconds
	HealthCheckPeriod int    `mapstructure:"health_check_period"` // seconds
	Migrate           bool   `mapstructure:"migrate"`
}

// PaginationConfig controls list endpoints. Strategy "advanced" uses the
// database's found-rows counter where the driver supports it.
type PaginationConfig struct {
	PerPage  int    `mapstructure:"per_page" validate:"min=1"`
	Strategy string `mapstructure:"strategy" validate:"oneof=simple advanced"`
}

type ViewsConfig struct {
	ModulesDir string `mapstructure:"modules_dir" validate:"required"`
	ThemeDir   string `mapstructure:"theme_dir" validate:"required"`
	Type       string `mapstructure:"type" validate:"required"`
	CacheSize  int    `mapstructure:"cache_size" validate:"min=1"`
	Watch      bool   `mapstructure:"watch"`
}
