// Package smtp delivers transactional email over SMTP using go-mail.
package smtp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	mail "github.com/wneessen/go-mail"

	"github.com/Overland-East-Bay/newsletter-api/internal/domain"
	"github.com/Overland-East-Bay/newsletter-api/internal/platform/blocking"
	"github.com/Overland-East-Bay/newsletter-api/internal/platform/logger"
	"github.com/Overland-East-Bay/newsletter-api/internal/ports/out/mailer"
)

// Config describes the SMTP relay.
//
// UseStartTLS selects an upgrade of a plaintext connection with mandatory STARTTLS;
// otherwise the connection is TLS from the first byte (implicit TLS, usually port 465).
type Config struct {
	Host        string
	Port        int
	Username    string
	Password    string
	UseStartTLS bool
	Sender      string
	Timeout     time.Duration
}

// Dispatcher implements mailer.Dispatcher. It keeps only immutable settings; every
// Send builds its own client.
type Dispatcher struct {
	host   string
	opts   []mail.Option
	sender domain.SubscriberEmail
	pool   *blocking.Pool
	log    *logger.Logger
}

var _ mailer.Dispatcher = (*Dispatcher)(nil)

// NewDispatcher validates cfg without touching the network.
func NewDispatcher(cfg Config, pool *blocking.Pool, log *logger.Logger) (*Dispatcher, error) {
	if pool == nil {
		return nil, errors.New("smtp: nil blocking pool")
	}
	if log == nil {
		log = logger.NewNop()
	}
	if err := validation.Validate(cfg.Host, validation.Required, is.Host); err != nil {
		return nil, fmt.Errorf("smtp: host %q: %w", cfg.Host, err)
	}
	sender, err := domain.ParseSubscriberEmail(cfg.Sender)
	if err != nil {
		return nil, fmt.Errorf("smtp: sender: %w", err)
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("smtp: port %d out of range", cfg.Port)
	}

	opts := []mail.Option{mail.WithPort(cfg.Port)}
	if cfg.UseStartTLS {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	} else {
		opts = append(opts, mail.WithSSL())
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}
	if cfg.Timeout > 0 {
		opts = append(opts, mail.WithTimeout(cfg.Timeout))
	}

	d := &Dispatcher{
		host:   cfg.Host,
		opts:   opts,
		sender: sender,
		pool:   pool,
		log:    log,
	}
	if _, err := d.newClient(); err != nil {
		return nil, fmt.Errorf("smtp: %w", err)
	}
	return d, nil
}

func (d *Dispatcher) newClient() (*mail.Client, error) {
	opts := append([]mail.Option(nil), d.opts...)
	return mail.NewClient(d.host, opts...)
}

// Send makes a single delivery attempt on the blocking pool.
func (d *Dispatcher) Send(ctx context.Context, recipient domain.SubscriberEmail, subject, htmlBody, textBody string) error {
	msg, err := d.buildMessage(recipient, subject, htmlBody, textBody)
	if err != nil {
		return err
	}
	client, err := d.newClient()
	if err != nil {
		return fmt.Errorf("%w: %v", mailer.ErrTransport, err)
	}

	start := time.Now()
	err = d.pool.Do(ctx, "smtp.send", func(jobCtx context.Context) error {
		return client.DialAndSendWithContext(jobCtx, msg)
	})
	if err != nil {
		return fmt.Errorf("%w: %v", mailer.ErrTransport, err)
	}
	d.log.Debug("email sent", "recipient", recipient.String(), "host", d.host, "latency", time.Since(start))
	return nil
}

func (d *Dispatcher) buildMessage(recipient domain.SubscriberEmail, subject, htmlBody, textBody string) (*mail.Msg, error) {
	from, err := domain.ParseSubscriberEmail(d.sender.String())
	if err != nil {
		return nil, fmt.Errorf("%w: sender: %v", mailer.ErrInvalidAddress, err)
	}
	to, err := domain.ParseSubscriberEmail(recipient.String())
	if err != nil {
		return nil, fmt.Errorf("%w: recipient: %v", mailer.ErrInvalidAddress, err)
	}

	msg := mail.NewMsg()
	if err := msg.From(from.String()); err != nil {
		return nil, fmt.Errorf("%w: sender: %v", mailer.ErrInvalidAddress, err)
	}
	if err := msg.To(to.String()); err != nil {
		return nil, fmt.Errorf("%w: recipient: %v", mailer.ErrInvalidAddress, err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, textBody)
	msg.AddAlternativeString(mail.TypeTextHTML, htmlBody)
	if _, err := msg.WriteTo(io.Discard); err != nil {
		return nil, fmt.Errorf("%w: %v", mailer.ErrBuild, err)
	}
	return msg, nil
}
