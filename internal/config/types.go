package config

import "time"

// Config is the top-level site configuration, corresponding to twennie.yaml.
type Config struct {
	Server ServerConfig `yaml:"server" koanf:"server"`
	CSRF   CSRFConfig   `yaml:"csrf" koanf:"csrf"`
	Store  StoreConfig  `yaml:"store" koanf:"store"`
	Log    LogConfig    `yaml:"log" koanf:"log"`
	Site   SiteConfig   `yaml:"site" koanf:"site"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Host            string        `yaml:"host" koanf:"host"`
	Port            int           `yaml:"port" koanf:"port"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" koanf:"shutdown_timeout"`
	CORSOrigins     []string      `yaml:"cors_origins" koanf:"cors_origins"`
	SecureCookies   bool          `yaml:"secure_cookies" koanf:"secure_cookies"`
}

// CSRFConfig toggles gorilla/csrf protection of form posts.
type CSRFConfig struct {
	Enabled bool   `yaml:"enabled" koanf:"enabled"`
	Key     string `yaml:"key" koanf:"key"`
}

// StoreConfig selects the persistence backend.
type StoreConfig struct {
	Driver string `yaml:"driver" koanf:"driver"`
	DSN    string `yaml:"dsn" koanf:"dsn"`
}

// LogConfig controls zerolog output.
type LogConfig struct {
	Level  string `yaml:"level" koanf:"level"`
	Format string `yaml:"format" koanf:"format"`
}

// SiteConfig holds presentation settings.
type SiteConfig struct {
	Name         string `yaml:"name" koanf:"name"`
	TemplatesDir string `yaml:"templates_dir" koanf:"templates_dir"`
}
