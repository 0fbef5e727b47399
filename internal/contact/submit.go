package contact

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"strings"
	"time"
)

// headerSafe keeps user input from starting new mail headers.
var headerSafe = strings.NewReplacer("\r", " ", "\n", " ")

// DefaultDelay is how long the simulated submitter takes to answer.
const DefaultDelay = 2 * time.Second

// Submitter delivers a validated form.
type Submitter interface {
	Submit(ctx context.Context, f Form) error
}

// Simulated accepts every submission after a fixed delay without sending
// anything anywhere.
type Simulated struct {
	Delay time.Duration
}

func (s Simulated) Submit(ctx context.Context, _ Form) error {
	t := time.NewTimer(s.Delay)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("simulated submit: %w", ctx.Err())
	}
}

// SendFunc matches smtp.SendMail.
type SendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Mailer sends submissions to the site owner over SMTP.
type Mailer struct {
	Host string
	Port string
	User string
	Pass string
	To   string

	send SendFunc
}

// ErrSMTPNotConfigured is returned when credentials are missing.
var ErrSMTPNotConfigured = errors.New("SMTP credentials not configured")

func NewMailer(host, port, user, pass, to string) *Mailer {
	return &Mailer{Host: host, Port: port, User: user, Pass: pass, To: to, send: smtp.SendMail}
}

// Configured reports whether the mailer has credentials to send with.
func (m *Mailer) Configured() bool {
	return m != nil && m.User != "" && m.Pass != "" && m.To != ""
}

func (m *Mailer) Submit(ctx context.Context, f Form) error {
	if !m.Configured() {
		return ErrSMTPNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	send := m.send
	if send == nil {
		send = smtp.SendMail
	}
	auth := smtp.PlainAuth("", m.User, m.Pass, m.Host)
	if err := send(m.Host+":"+m.Port, auth, m.User, []string{m.To}, m.message(f)); err != nil {
		return fmt.Errorf("send contact email: %w", err)
	}
	return nil
}

func (m *Mailer) message(f Form) []byte {
	body := fmt.Sprintf(`
New contact form submission from your portfolio:

Name: %s
Email: %s
Message:
%s

---
Sent from your portfolio contact form
`, f.Name, f.Email, f.Message)

	return []byte("To: " + m.To + "\r\n" +
		"Subject: " + headerSafe.Replace("Portfolio Contact: "+f.Name) + "\r\n" +
		"From: " + m.User + "\r\n" +
		"Reply-To: " + headerSafe.Replace(f.Email) + "\r\n" +
		"\r\n" +
		body + "\r\n")
}
