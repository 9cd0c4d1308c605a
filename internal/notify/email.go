package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// EmailNotifier sends the report and alert over SMTP to a fixed
// recipient list.
type EmailNotifier struct {
	host       string
	port       string
	username   string
	password   string
	from       string
	recipients []string
}

// NewEmailNotifier creates an SMTP notifier.
func NewEmailNotifier(host, port, username, password, from string, recipients []string) *EmailNotifier {
	return &EmailNotifier{
		host:       host,
		port:       port,
		username:   username,
		password:   password,
		from:       from,
		recipients: recipients,
	}
}

// SendReport sends the daily report with the configured subject.
func (n *EmailNotifier) SendReport(ctx context.Context, subject, body string) error {
	return n.send(ctx, subject, body)
}

// SendAlert sends the price-drop payload.
func (n *EmailNotifier) SendAlert(ctx context.Context, body string) error {
	return n.send(ctx, "Price Drop Alert", body)
}

func (n *EmailNotifier) send(ctx context.Context, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(n.recipients) == 0 {
		return fmt.Errorf("no recipients configured")
	}

	msg := buildMessage(n.from, n.recipients, subject, body)
	addr := n.host + ":" + n.port
	auth := smtp.PlainAuth("", n.username, n.password, n.host)
	if err := smtp.SendMail(addr, auth, n.from, n.recipients, msg); err != nil {
		return fmt.Errorf("failed to send mail via %s: %w", addr, err)
	}
	return nil
}

func buildMessage(from string, to []string, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}
