package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// applyEnv overrides file settings with environment variables.
func (s *Settings) applyEnv() error {
	setString(&s.Application.Host, "APP_HOST")
	if err := setInt(&s.Application.Port, "PORT"); err != nil {
		return err
	}
	if err := setInt(&s.Application.Port, "APP_PORT"); err != nil {
		return err
	}
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		s.Application.AllowedOrigins = splitList(v)
	}

	setString(&s.Database.URL, "DATABASE_URL")
	setString(&s.Storage.Backend, "STORAGE_BACKEND")
	setString(&s.Storage.Driver, "DB_DRIVER")
	setString(&s.Storage.DSN, "DB_DSN")

	setString(&s.Email.Host, "SMTP_HOST")
	if err := setInt(&s.Email.Port, "SMTP_PORT"); err != nil {
		return err
	}
	setString(&s.Email.Username, "SMTP_USERNAME")
	setString(&s.Email.Password, "SMTP_PASSWORD")
	setString(&s.Email.Sender, "SMTP_SENDER")
	if v := os.Getenv("SMTP_USE_STARTTLS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("SMTP_USE_STARTTLS must be a boolean: %w", err)
		}
		s.Email.UseStartTLS = b
	}
	if v := os.Getenv("SMTP_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("SMTP_TIMEOUT must be a duration (e.g. 15s): %w", err)
		}
		s.Email.Timeout = d
	}

	setString(&s.Log.Mode, "LOG_MODE")
	setString(&s.Log.Level, "LOG_LEVEL")
	return nil
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s must be an integer: %w", key, err)
	}
	*dst = n
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
