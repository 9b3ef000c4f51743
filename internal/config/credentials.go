package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Credentials hold the database service account, loaded either from the
// DATABASE_CREDENTIALS environment variable or from a local JSON file.
// Startup must not proceed without them.
type Credentials struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	Database string `json:"database"`
	SSLMode  string `json:"sslmode"`
}

func (c *Config) LoadCredentials() (*Credentials, error) {
	if c.CredentialsJSON != "" {
		creds := &Credentials{}
		if err := json.Unmarshal([]byte(c.CredentialsJSON), creds); err != nil {
			return nil, fmt.Errorf("couldn't parse DATABASE_CREDENTIALS: %w", err)
		}
		return creds, nil
	}

	data, err := os.ReadFile(c.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("couldn't read credentials file %s: %w", c.CredentialsFile, err)
	}

	creds := &Credentials{}
	if err := json.Unmarshal(data, creds); err != nil {
		return nil, fmt.Errorf("couldn't parse credentials file %s: %w", c.CredentialsFile, err)
	}

	return creds, nil
}

func (c Credentials) URL() string {
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, sslMode,
	)
}
