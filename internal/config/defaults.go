package config

import "time"

// DefaultPath is the config file looked up when none is given.
const DefaultPath = "twennie.yaml"

// EnvPrefix marks environment overrides. Nested keys are separated by a
// double underscore: TWENNIE_SERVER__PORT -> server.port.
const EnvPrefix = "TWENNIE_"

// DefaultConfig returns a Config suitable for local development.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "127.0.0.1",
			Port:            8080,
			ShutdownTimeout: 10 * time.Second,
		},
		Store: StoreConfig{
			Driver: "sqlite",
			DSN:    "data/twennie.db",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Site: SiteConfig{
			Name: "Twennie",
		},
	}
}
