// Package mail sends transactional mail over SMTP, or logs it in development
package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"

	"atelier/internal/platform/config"
	"atelier/internal/platform/logger"
)

// Message is one plain text mail
type Message struct {
	To      string
	Subject string
	Body    string
}

// Mailer delivers messages
type Mailer interface {
	Send(ctx context.Context, m Message) error
}

// Log writes messages to the log instead of sending them
type Log struct{}

// Send logs m at info level
func (Log) Send(ctx context.Context, m Message) error {
	logger.C(ctx).Info().Str("to", m.To).Str("subject", m.Subject).Str("body", m.Body).Msg("mail not sent; log mailer")
	return nil
}

// SMTPConfig addresses the relay
type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	// ImplicitTLS dials TLS directly (port 465) instead of upgrading with STARTTLS
	ImplicitTLS bool
	Timeout     time.Duration
}

// SMTP sends through a relay with PLAIN auth
type SMTP struct {
	cfg SMTPConfig
}

// NewSMTP applies defaults to cfg
func NewSMTP(cfg SMTPConfig) *SMTP {
	if cfg.Port == "" {
		cfg.Port = "587"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &SMTP{cfg: cfg}
}

// FromConfig picks the driver from MAIL_DRIVER (smtp or log)
func FromConfig(c config.Conf) Mailer {
	mc := c.Prefix("MAIL_")
	if mc.MayEnum("DRIVER", "log", "log", "smtp") == "log" {
		return Log{}
	}
	return NewSMTP(SMTPConfig{
		Host:        mc.MustString("HOST"),
		Port:        mc.MayString("PORT", "587"),
		Username:    mc.MayString("USERNAME", ""),
		Password:    mc.MayString("PASSWORD", ""),
		From:        mc.MustString("FROM"),
		ImplicitTLS: mc.MayBool("IMPLICIT_TLS", false),
		Timeout:     mc.MayDuration("TIMEOUT", 15*time.Second),
	})
}

// Send delivers m; ctx bounds the dial and the whole exchange
func (s *SMTP) Send(ctx context.Context, m Message) error {
	addr := net.JoinHostPort(s.cfg.Host, s.cfg.Port)
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	tlsCfg := &tls.Config{ServerName: s.cfg.Host, MinVersion: tls.VersionTLS12}
	d := &net.Dialer{}
	var (
		conn net.Conn
		err  error
	)
	if s.cfg.ImplicitTLS {
		conn, err = (&tls.Dialer{NetDialer: d, Config: tlsCfg}).DialContext(ctx, "tcp", addr)
	} else {
		conn, err = d.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return fmt.Errorf("mail: dial %s: %w", addr, err)
	}
	if dl, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(dl)
	}

	c, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("mail: handshake: %w", err)
	}
	defer c.Close()

	if !s.cfg.ImplicitTLS {
		if ok, _ := c.Extension("STARTTLS"); ok {
			if err := c.StartTLS(tlsCfg); err != nil {
				return fmt.Errorf("mail: starttls: %w", err)
			}
		}
	}
	if s.cfg.Username != "" {
		if err := c.Auth(smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)); err != nil {
			return fmt.Errorf("mail: auth: %w", err)
		}
	}
	if err := c.Mail(s.cfg.From); err != nil {
		return fmt.Errorf("mail: from: %w", err)
	}
	if err := c.Rcpt(m.To); err != nil {
		return fmt.Errorf("mail: rcpt: %w", err)
	}
	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("mail: data: %w", err)
	}
	if _, err := w.Write(Compose(s.cfg.From, m)); err != nil {
		w.Close()
		return fmt.Errorf("mail: write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("mail: data: %w", err)
	}
	return c.Quit()
}

// Compose renders the RFC 5322 message for m
// header values are stripped of CR and LF so a subject cannot inject headers
func Compose(from string, m Message) []byte {
	var b strings.Builder
	header := func(k, v string) {
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(strings.NewReplacer("\r", "", "\n", "").Replace(v))
		b.WriteString("\r\n")
	}
	header("From", from)
	header("To", m.To)
	header("Subject", m.Subject)
	header("MIME-Version", "1.0")
	header("Content-Type", "text/plain; charset=UTF-8")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(strings.ReplaceAll(m.Body, "\r\n", "\n"), "\n", "\r\n"))
	return []byte(b.String())
}
