package mailer

import (
	"context"
	"encoding/base64"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"market-brief/internal/types"
)

type capturedSend struct {
	addr string
	from string
	to   []string
	msg  string
}

func captureMailer(host string, port int, from, to, password string) (*Mailer, *capturedSend) {
	cap := &capturedSend{}
	m := New(host, port, from, to, password, WithSendFunc(
		func(addr string, auth smtp.Auth, f string, t []string, msg []byte) error {
			cap.addr = addr
			cap.from = f
			cap.to = t
			cap.msg = string(msg)
			return nil
		}))
	return m, cap
}

func TestValidateNamesMissingVars(t *testing.T) {
	m := New("smtp.gmail.com", 587, "", "reader@example.com", "")
	err := m.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "EMAIL_FROM") || !strings.Contains(err.Error(), "EMAIL_PASSWORD") {
		t.Errorf("missing vars not named: %v", err)
	}
	if strings.Contains(err.Error(), "EMAIL_TO") {
		t.Errorf("EMAIL_TO is set and should not be reported: %v", err)
	}
}

func TestSubject(t *testing.T) {
	today := time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC)
	if got := Subject(today, false); got != "📈 Your Market Brief — Tue 25 Aug" {
		t.Errorf("subject wrong: %q", got)
	}
	if got := Subject(today, true); !strings.HasPrefix(got, "[TEST] ") {
		t.Errorf("test mode should prefix subject: %q", got)
	}
}

func TestSendBriefBuildsMultipartMessage(t *testing.T) {
	m, cap := captureMailer("smtp.gmail.com", 587, "sender@example.com", "reader@example.com", "app-pass")

	html := "<html><body><h1>Brief</h1></body></html>"
	err := m.SendBrief(context.Background(), "📈 Your Market Brief — Tue 25 Aug", html, []string{"Fed stayed hawkish"})
	if err != nil {
		t.Fatal(err)
	}

	if cap.addr != "smtp.gmail.com:587" {
		t.Errorf("wrong addr: %q", cap.addr)
	}
	if len(cap.to) != 1 || cap.to[0] != "reader@example.com" {
		t.Errorf("wrong recipients: %v", cap.to)
	}
	for _, want := range []string{
		"From: Market Brief <sender@example.com>",
		"To: reader@example.com",
		"Subject: 📈 Your Market Brief — Tue 25 Aug",
		"Content-Type: multipart/alternative",
		"Content-Type: text/plain",
		"Content-Type: text/html",
		"Content-Transfer-Encoding: base64",
	} {
		if !strings.Contains(cap.msg, want) {
			t.Errorf("message missing %q", want)
		}
	}

	// The HTML must arrive base64-encoded, not raw.
	if strings.Contains(cap.msg, "<h1>Brief</h1>") {
		t.Error("HTML body should be base64 encoded")
	}
	encoded := base64.StdEncoding.EncodeToString([]byte(html))
	if !strings.Contains(strings.ReplaceAll(cap.msg, "\r\n", ""), encoded[:40]) {
		t.Error("base64 HTML part not found in message")
	}
}

func TestSendBriefRefusesWithoutCredentials(t *testing.T) {
	m, cap := captureMailer("smtp.gmail.com", 587, "sender@example.com", "", "")
	err := m.SendBrief(context.Background(), "subject", "<html></html>", nil)
	if err == nil {
		t.Fatal("expected validation failure")
	}
	if cap.msg != "" {
		t.Error("no message should be sent when config is incomplete")
	}
}

func TestSendAlertListsFailedSteps(t *testing.T) {
	m, cap := captureMailer("smtp.gmail.com", 587, "sender@example.com", "reader@example.com", "app-pass")

	steps := []types.StepRecord{
		{Name: "fetch_news", Status: types.StepOK},
		{Name: "generate_brief", Status: types.StepError, Error: "anthropic API error: 529"},
	}
	today := time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC)
	if err := m.SendAlert(context.Background(), today, steps); err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{
		"Subject: [PIPELINE FAILED] Market Brief — 2026-08-25",
		"[OK] fetch_news",
		"[ERROR] generate_brief: anthropic API error: 529",
	} {
		if !strings.Contains(cap.msg, want) {
			t.Errorf("alert missing %q", want)
		}
	}
}

func TestEncodeBase64Wrapped(t *testing.T) {
	long := strings.Repeat("market brief ", 50)
	encoded := encodeBase64Wrapped(long)
	for _, line := range strings.Split(encoded, "\r\n") {
		if len(line) > 76 {
			t.Fatalf("line exceeds 76 chars: %d", len(line))
		}
	}
	decoded, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(encoded, "\r\n", ""))
	if err != nil {
		t.Fatal(err)
	}
	if string(decoded) != long {
		t.Error("round trip mismatch")
	}
}
