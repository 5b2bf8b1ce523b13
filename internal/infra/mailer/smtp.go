package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/google/uuid"

	appconfig "procure-notify/internal/config"
	"procure-notify/internal/domain/entity"
)

// SMTPTransport sends mail over a direct SMTP connection.
type SMTPTransport struct {
	cfg appconfig.SMTPConfig

	// sendMail is swappable for tests; defaults to smtp.SendMail.
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPTransport creates an SMTP transport from the given configuration.
func NewSMTPTransport(cfg appconfig.SMTPConfig) *SMTPTransport {
	return &SMTPTransport{cfg: cfg, sendMail: smtp.SendMail}
}

func (t *SMTPTransport) Name() string { return "smtp" }

func (t *SMTPTransport) addr() string {
	return fmt.Sprintf("%s:%d", t.cfg.Host, t.cfg.Port)
}

func (t *SMTPTransport) auth() smtp.Auth {
	if t.cfg.Username == "" {
		return nil
	}
	return smtp.PlainAuth("", t.cfg.Username, t.cfg.Password, t.cfg.Host)
}

// Send delivers one message. SMTP does not hand back a provider ID, so the
// generated Message-ID header doubles as the returned message ID.
func (t *SMTPTransport) Send(ctx context.Context, to string, msg *Message) (string, error) {
	if !t.cfg.Enabled() {
		return "", &entity.ConfigurationError{Channel: entity.ChannelEmail, Missing: "SMTP host/sender"}
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	messageID := fmt.Sprintf("<%s@%s>", uuid.New().String(), t.cfg.Host)

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", t.cfg.From)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	fmt.Fprintf(&b, "Message-ID: %s\r\n", messageID)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.HTML)

	if err := t.sendMail(t.addr(), t.auth(), t.cfg.From, []string{to}, []byte(b.String())); err != nil {
		return "", &entity.TransportError{Channel: entity.ChannelEmail, Message: err.Error()}
	}
	return messageID, nil
}

// TestConnection dials the server and performs an EHLO/QUIT handshake.
func (t *SMTPTransport) TestConnection(ctx context.Context) error {
	if !t.cfg.Enabled() {
		return &entity.ConfigurationError{Channel: entity.ChannelEmail, Missing: "SMTP host/sender"}
	}

	client, err := smtp.Dial(t.addr())
	if err != nil {
		return &entity.TransportError{Channel: entity.ChannelEmail, Message: err.Error()}
	}
	defer func() { _ = client.Close() }()

	if err := client.Hello("localhost"); err != nil {
		return &entity.TransportError{Channel: entity.ChannelEmail, Message: err.Error()}
	}
	return client.Quit()
}
