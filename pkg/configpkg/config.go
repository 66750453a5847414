// Package configpkg provides parsing functionality for environment variables.
package configpkg

import (
	"github.com/spf13/viper"
)

// Store backends.
const (
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendMemory   = "memory"
)

// Config stores all configuration of the application.
//
// The values are read by viper fron a config file or environement variables.
type Config struct {
	Environement   string `mapstructure:"GO_ENV"`
	StoreBackend   string `mapstructure:"STORE_BACKEND"`
	DBDriver       string `mapstructure:"DB_DRIVER"`
	DBSource       string `mapstructure:"DB_SOURCE"`
	MigrationURL   string `mapstructure:"MIGRATION_URL"`
	RedisURL       string `mapstructure:"REDIS_URL"`
	RedisPrefix    string `mapstructure:"REDIS_PREFIX"`
	AMQPURL        string `mapstructure:"AMQP_URL"`
	EventsExchange string `mapstructure:"EVENTS_EXCHANGE"`
	ServerAddress  string `mapstructure:"SERVER_ADDRESS"`
}

// Load read configuration from file or environment variables.
func Load(path string) (Config, error) {
	var c Config

	v := viper.New()

	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")

	v.SetDefault("STORE_BACKEND", BackendPostgres)
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("EVENTS_EXCHANGE", "safebank.ledger")
	v.SetDefault("SERVER_ADDRESS", "0.0.0.0:8080")

	v.AutomaticEnv()

	err := v.ReadInConfig()
	if err != nil {
		return c, err
	}

	err = v.Unmarshal(&c)
	if err != nil {
		return c, err
	}

	return c, nil
}
