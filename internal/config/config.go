package config

import (
	"flag"
	"fmt"
	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Port             string   `env:"PORT" env-default:"3000"`
	PrivateKey       string   `env:"PRIVATE_KEY" env-default:"privatekey"`
	AuthDisabledURLs []string `env:"AUTH_DISABLED_URLS" env-default:"/,/auth/register,/auth/login,/auth/forgot-password" env-separator:","`

	CredentialsJSON string `env:"DATABASE_CREDENTIALS"`
	CredentialsFile string `env:"DATABASE_CREDENTIALS_FILE" env-default:"database-credentials.json"`

	SMTPHost     string `env:"SMTP_HOST" env-default:"smtp.ethereal.email"`
	SMTPPort     int    `env:"SMTP_PORT" env-default:"587"`
	SMTPUser     string `env:"SMTP_USER"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	SMTPFrom     string `env:"SMTP_FROM" env-default:"no-reply@rotacerta.com.br"`
}

func Load() (*Config, error) {
	cfg := &Config{}

	flag.StringVar(&cfg.Port, "p", "3000", "porta do servidor HTTP")
	flag.StringVar(&cfg.CredentialsFile, "c", "database-credentials.json", "arquivo de credenciais do banco de dados")

	flag.Parse()

	err := cleanenv.ReadEnv(cfg)
	if err != nil {
		return nil, fmt.Errorf("couldn't read environment variables: %w", err)
	}

	return cfg, nil
}

func (c *Config) Addr() string {
	return ":" + c.Port
}
