package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/Overland-East-Bay/newsletter-api/internal/adapters/smtp"
	"github.com/Overland-East-Bay/newsletter-api/internal/domain"
	"github.com/Overland-East-Bay/newsletter-api/internal/platform/blocking"
	"github.com/Overland-East-Bay/newsletter-api/internal/platform/config"
	"github.com/Overland-East-Bay/newsletter-api/internal/platform/logger"
)

// Dev-only helper: sends one message through the configured SMTP relay so the
// email_client settings can be checked without running the API.

func main() {
	to := flag.String("to", "", "recipient address")
	subject := flag.String("subject", "newsletter-api mail check", "subject line")
	configPath := flag.String("config", getenv("CONFIG_PATH", ""), "settings file (optional)")
	timeout := flag.Duration("timeout", 30*time.Second, "overall deadline")
	flag.Parse()

	log, err := logger.New("development", "debug")
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	cfg, err := config.LoadFromEnv(*configPath)
	if err != nil {
		log.Fatal("failed to load configuration", "error", err)
	}
	if !cfg.Email.Enabled() {
		log.Fatal("email_client.host is not set (SMTP_HOST)")
	}

	recipient, err := domain.ParseSubscriberEmail(*to)
	if err != nil {
		log.Fatal("invalid -to address", "error", err)
	}

	pool := blocking.NewPool(1, log)
	d, err := smtp.NewDispatcher(smtp.Config{
		Host:        cfg.Email.Host,
		Port:        cfg.Email.Port,
		Username:    cfg.Email.Username,
		Password:    cfg.Email.Password,
		UseStartTLS: cfg.Email.UseStartTLS,
		Sender:      cfg.Email.Sender,
		Timeout:     cfg.Email.Timeout,
	}, pool, log)
	if err != nil {
		log.Fatal("invalid email client config", "error", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	sent := time.Now().UTC().Format(time.RFC3339)
	err = d.Send(ctx, recipient, *subject,
		"<p>Mail check sent at "+sent+".</p>",
		"Mail check sent at "+sent+".\n",
	)
	if err != nil {
		log.Fatal("send failed", "recipient", recipient.String(), "error", err)
	}
	log.Info("sent", "recipient", recipient.String(), "host", cfg.Email.Host, "port", cfg.Email.Port)
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
