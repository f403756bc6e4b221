package config

import "log"

func MustNonEmpty(value, envName string) {
	if value == "" {
		log.Fatalf("missing required env %s", envName)
	}
}

// MustProductionSecret refuses the development signing key outside debug mode.
func (c *Config) MustProductionSecret() {
	if !c.Debug && string(c.SecretKey) == "dev-secret" {
		log.Fatalf("SECRET_KEY must be set when DEBUG is off")
	}
}

// MustDatabase checks the connection settings the selected driver needs.
func (c *Config) MustDatabase() {
	switch c.DBDriver {
	case "mysql", "postgres":
		MustNonEmpty(c.DBHost, "DB_HOST")
		MustNonEmpty(c.DBName, "DB_NAME")
	case "sqlite":
		MustNonEmpty(c.DBPath, "DB_PATH")
	}
}
