package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// secretEnv lists keys that normally come only from the environment,
// together with the legacy variable names still accepted for them.
var secretEnv = map[string][]string{
	"database.user":     {"APP_DATABASE_USER", "DB_USER"},
	"database.password": {"APP_DATABASE_PASSWORD", "DB_PASSWORD"},
	"database.dbname":   {"APP_DATABASE_DBNAME", "DB_NAME"},
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "billing-admin-service")
	v.SetDefault("app.version", "0.0.1")
	v.SetDefault("app.env", "dev")
	v.SetDefault("app.port", 8080)
	v.SetDefault("app.shutdown_timeout", 10)

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 1)
	v.SetDefault("database.max_conn_lifetime", 3600)
	v.SetDefault("database.max_conn_idle_time", 600)
	v.SetDefault("database.health_check_period", 30)
	v.SetDefault("database.migrate", false)

	v.SetDefault("pagination.per_page", 100)
	v.SetDefault("pagination.strategy", "simple")

	v.SetDefault("views.modules_dir", "modules")
	v.SetDefault("views.theme_dir", "themes/admin_default")
	v.SetDefault("views.type", "admin")
	v.SetDefault("views.cache_size", 512)
	v.SetDefault("views.watch", false)
}

func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()
	setDefaults(v)
	for key, envs := range secretEnv {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	var config Config
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config file not found: %w", err)
	}
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := validator.New().Struct(&config); err != nil {
		return nil, fmt.Errorf("config validation error: %w", err)
	}
	return &config, nil
}
