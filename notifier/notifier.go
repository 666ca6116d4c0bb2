// Package notifier is the delivery channel for confirmation codes. The
// interface is transport-agnostic; the default implementation speaks SMTP
// and a log-only variant backs local development and tests.
package notifier

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"

	"reviewhub-api/models"
)

type Notifier interface {
	Send(subject, body, from string, to []string) error
}

type smtpNotifier struct {
	dialer *gomail.Dialer
}

func NewSMTPNotifier(host string, port int, username, password string) Notifier {
	return &smtpNotifier{dialer: gomail.NewDialer(host, port, username, password)}
}

func (n *smtpNotifier) Send(subject, body, from string, to []string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := n.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("%w: %v", models.ErrDeliveryFailed, err)
	}
	return nil
}

type logNotifier struct{}

func NewLogNotifier() Notifier {
	return logNotifier{}
}

func (logNotifier) Send(subject, body, from string, to []string) error {
	log.Printf("notifier: to=%v subject=%q body=%q", to, subject, body)
	return nil
}

// FromEnv picks SMTP when SMTP_HOST is configured and falls back to the
// log notifier otherwise.
func FromEnv() Notifier {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		return NewLogNotifier()
	}
	port := 587
	if raw := os.Getenv("SMTP_PORT"); raw != "" {
		if p, err := strconv.Atoi(raw); err == nil {
			port = p
		}
	}
	return NewSMTPNotifier(host, port, os.Getenv("SMTP_USERNAME"), os.Getenv("SMTP_PASSWORD"))
}
