package contact

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"
)

//go:generate mockgen -source=mailer.go -destination=mocks/mocks.go -package=mocks Mailer

// Mailer delivers a contact message to the site owner.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPConfig addresses the outgoing mail server. An empty Host selects the LogMailer.
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	// To receives the notifications; it defaults to User.
	To       string
}

// NewMailer returns an SMTPMailer when a host is configured and a LogMailer otherwise.
func NewMailer(cfg SMTPConfig, logger *slog.Logger) Mailer {
	if cfg.Host == "" {
		return NewLogMailer(logger)
	}
	return NewSMTPMailer(cfg, logger)
}

// LogMailer records messages in the log instead of sending them.
type LogMailer struct {
	logger *slog.Logger
}

func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Send(ctx context.Context, msg Message) error {
	if m.logger != nil {
		m.logger.WarnContext(ctx, "SMTP not configured, contact message not sent",
			"from", msg.Email,
			"subject", msg.Subject,
			"reference", msg.Reference,
		)
	}
	return nil
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPMailer sends messages through an SMTP relay. smtp.SendMail upgrades to STARTTLS
// when the server offers it, which PLAIN auth requires for non-local hosts.
type SMTPMailer struct {
	cfg    SMTPConfig
	logger *slog.Logger
	send   sendFunc
}

func NewSMTPMailer(cfg SMTPConfig, logger *slog.Logger) *SMTPMailer {
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	if cfg.To == "" {
		cfg.To = cfg.User
	}
	return &SMTPMailer{cfg: cfg, logger: logger, send: smtp.SendMail}
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var auth smtp.Auth
	if m.cfg.User != "" {
		auth = smtp.PlainAuth("", m.cfg.User, m.cfg.Password, m.cfg.Host)
	}
	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))
	if err := m.send(addr, auth, m.cfg.User, []string{m.cfg.To}, m.compose(msg)); err != nil {
		if m.logger != nil {
			m.logger.ErrorContext(ctx, "failed to send contact email",
				"error", err,
				"smtp_host", m.cfg.Host,
				"smtp_port", m.cfg.Port,
				"smtp_user", m.cfg.User,
			)
		}
		return fmt.Errorf("send contact email: %w", err)
	}
	if m.logger != nil {
		m.logger.InfoContext(ctx, "contact email sent",
			"to", m.cfg.To,
			"from", msg.Email,
		)
	}
	return nil
}

// compose builds the RFC 5322 message. The visitor's address goes in Reply-To so the
// relay only ever sends as the configured user.
func (m *SMTPMailer) compose(msg Message) []byte {
	var b bytes.Buffer
	header := func(k, v string) { fmt.Fprintf(&b, "%s: %s\r\n", k, v) }
	header("From", m.cfg.User)
	header("To", m.cfg.To)
	header("Reply-To", msg.Email)
	header("Subject", mime.QEncoding.Encode("utf-8", msg.EmailSubject()))
	header("MIME-Version", "1.0")
	header("Content-Type", "text/plain; charset=utf-8")
	header("Content-Transfer-Encoding", "8bit")
	b.WriteString("\r\n")
	body := strings.ReplaceAll(msg.EmailBody(), "\r\n", "\n")
	b.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	return b.Bytes()
}

var (
	_ Mailer = (*LogMailer)(nil)
	_ Mailer = (*SMTPMailer)(nil)
)
