package mailer

import (
	"context"
	"crypto/rand"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"market-brief/internal/logger"
	"market-brief/internal/types"
)

// Mailer delivers the rendered brief over SMTP with STARTTLS. Gmail app
// passwords are the expected credential; any 587 STARTTLS relay works.
type Mailer struct {
	host     string
	port     int
	from     string
	to       string
	password string

	// send is swapped in tests so no SMTP connection is attempted.
	send func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error
}

type Option func(*Mailer)

// WithSendFunc replaces the network send for tests.
func WithSendFunc(fn func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error) Option {
	return func(m *Mailer) { m.send = fn }
}

func New(host string, port int, from, to, password string, opts ...Option) *Mailer {
	m := &Mailer{
		host:     host,
		port:     port,
		from:     from,
		to:       to,
		password: password,
	}
	m.send = m.sendSTARTTLS
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Validate reports every missing credential by its environment variable
// name, so a misconfigured cron run fails with an actionable message.
func (m *Mailer) Validate() error {
	var missing []string
	if m.from == "" {
		missing = append(missing, "EMAIL_FROM")
	}
	if m.to == "" {
		missing = append(missing, "EMAIL_TO")
	}
	if m.password == "" {
		missing = append(missing, "EMAIL_PASSWORD")
	}
	if len(missing) > 0 {
		return fmt.Errorf("email config incomplete, missing: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Subject is the daily subject line, e.g.
// "📈 Your Market Brief — Tue 25 Aug". Test sends get a [TEST] prefix.
func Subject(today time.Time, testMode bool) string {
	s := "📈 Your Market Brief — " + today.Format("Mon 02 Jan")
	if testMode {
		s = "[TEST] " + s
	}
	return s
}

// SendBrief sends the digest as multipart/alternative with a short
// plain-text part for clients that refuse HTML.
func (m *Mailer) SendBrief(ctx context.Context, subject, htmlBody string, tldr []string) error {
	if err := m.Validate(); err != nil {
		return err
	}

	plain := plainFallback(tldr)
	msg := m.buildMessage(subject, htmlBody, plain)

	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	auth := smtp.PlainAuth("", m.from, m.password, m.host)
	if err := m.send(addr, auth, m.from, []string{m.to}, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	logger.Info(ctx, "brief delivered", "to", m.to, "subject", subject, "bytes", len(msg))
	return nil
}

// SendAlert emails a plain-text failure notice so a broken cron run is
// noticed the same morning. Best effort: callers log the error and move on.
func (m *Mailer) SendAlert(ctx context.Context, today time.Time, steps []types.StepRecord) error {
	if err := m.Validate(); err != nil {
		return err
	}

	var body strings.Builder
	body.WriteString("The morning brief pipeline failed. Step status:\n\n")
	for _, s := range steps {
		line := fmt.Sprintf("[%s] %s", strings.ToUpper(s.Status), s.Name)
		if s.Error != "" {
			line += ": " + s.Error
		}
		body.WriteString(line + "\n")
	}
	body.WriteString("\nCheck the run log for details.\n")

	subject := "[PIPELINE FAILED] Market Brief — " + today.Format("2006-01-02")
	var msg strings.Builder
	msg.WriteString("From: Market Brief <" + m.from + ">\r\n")
	msg.WriteString("To: " + m.to + "\r\n")
	msg.WriteString("Subject: " + subject + "\r\n")
	msg.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body.String())

	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	auth := smtp.PlainAuth("", m.from, m.password, m.host)
	if err := m.send(addr, auth, m.from, []string{m.to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("smtp alert send: %w", err)
	}
	logger.Info(ctx, "failure alert delivered", "to", m.to)
	return nil
}

// buildMessage assembles the multipart/alternative MIME body. Both parts
// are base64 encoded: the HTML routinely exceeds the RFC 5322 line limit.
func (m *Mailer) buildMessage(subject, htmlBody, textBody string) []byte {
	boundary := generateBoundary()

	var msg strings.Builder
	msg.WriteString("From: Market Brief <" + m.from + ">\r\n")
	msg.WriteString("To: " + m.to + "\r\n")
	msg.WriteString("Subject: " + subject + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: multipart/alternative; boundary=\"" + boundary + "\"\r\n")
	msg.WriteString("\r\n")

	msg.WriteString("--" + boundary + "\r\n")
	msg.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	msg.WriteString("Content-Transfer-Encoding: base64\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(encodeBase64Wrapped(textBody))
	msg.WriteString("\r\n")

	msg.WriteString("--" + boundary + "\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("Content-Transfer-Encoding: base64\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(encodeBase64Wrapped(htmlBody))
	msg.WriteString("\r\n")

	msg.WriteString("--" + boundary + "--\r\n")
	return []byte(msg.String())
}

func plainFallback(tldr []string) string {
	var b strings.Builder
	b.WriteString("Your morning market brief:\n\n")
	for i, t := range tldr {
		fmt.Fprintf(&b, "%d. %s\n", i+1, t)
	}
	b.WriteString("\nOpen this email in an HTML-capable client for the full brief.\n")
	return b.String()
}

// sendSTARTTLS dials plain SMTP and upgrades the connection before
// authenticating, the handshake Gmail requires on port 587.
func (m *Mailer) sendSTARTTLS(addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("connect to SMTP server: %w", err)
	}
	defer client.Close()

	if err := client.StartTLS(&tls.Config{ServerName: m.host}); err != nil {
		return fmt.Errorf("start TLS: %w", err)
	}
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("SMTP authentication: %w", err)
	}
	if err := client.Mail(from); err != nil {
		return fmt.Errorf("set mail from: %w", err)
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("set recipient %s: %w", rcpt, err)
		}
	}
	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("start data: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close data writer: %w", err)
	}
	return client.Quit()
}

func generateBoundary() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "marketbrief_boundary_fallback"
	}
	return fmt.Sprintf("marketbrief_%x", b)
}

// encodeBase64Wrapped folds base64 output at 76 chars per RFC 2045.
func encodeBase64Wrapped(content string) string {
	encoded := base64.StdEncoding.EncodeToString([]byte(content))

	var result strings.Builder
	const lineLen = 76
	for i := 0; i < len(encoded); i += lineLen {
		end := i + lineLen
		if end > len(encoded) {
			end = len(encoded)
		}
		result.WriteString(encoded[i:end])
		if end < len(encoded) {
			result.WriteString("\r\n")
		}
	}
	return result.String()
}
