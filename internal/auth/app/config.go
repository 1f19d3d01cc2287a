package app

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// SMTPConfig configures outbound login code delivery. When Host is empty the
// service falls back to logging codes, which is only useful in dev.
type SMTPConfig struct {
	Host     string `env:"HOST"`
	Port     int    `env:"PORT" envDefault:"587"`
	Username string `env:"USERNAME"`
	Password string `env:"PASSWORD"`
	From     string `env:"FROM" envDefault:"Sentinel <no-reply@localhost>"`
}

// Config is the full runtime configuration, loaded from the environment.
type Config struct {
	Issuer string `env:"SENTINEL_ISSUER" envDefault:"sentinel"`

	DatabaseFile   string `env:"SENTINEL_DATABASE_FILE" envDefault:"sentinel.db"`
	PepperFile     string `env:"SENTINEL_PEPPER_FILE" envDefault:"pepper"`
	SigningKeyFile string `env:"SENTINEL_SIGNING_KEY_FILE" envDefault:"signing_key.pem"`

	CodeTTL    time.Duration `env:"SENTINEL_CODE_TTL" envDefault:"5m"`
	SessionTTL time.Duration `env:"SENTINEL_SESSION_TTL" envDefault:"2h"`

	Env       string `env:"ENV" envDefault:"dev"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
	Port      int    `env:"PORT" envDefault:"8080"`

	ShutdownGracePeriod  time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`
	HousekeepingInterval time.Duration `env:"HOUSEKEEPING_INTERVAL" envDefault:"1h"`

	SMTP SMTPConfig `envPrefix:"SMTP_"`
}

// LoadConfig parses configuration from environment variables.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}
