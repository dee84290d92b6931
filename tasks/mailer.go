package tasks

import (
	"log"
	"os"
	"strconv"

	"github.com/panjf2000/ants/v2"
	"github.com/pkg/errors"
	"gopkg.in/gomail.v2"
)

const mailerPoolSize = 4

// Mailer delivers mail asynchronously through a small worker pool so request
// handlers never block on SMTP. Without SMTP_HOST configured it degrades to
// logging the outgoing mail, which is also what the tests rely on.
type Mailer struct {
	dialer *gomail.Dialer
	pool   *ants.Pool
	from   string
}

// NewMailerFromEnv builds the mailer from SMTP_HOST, SMTP_PORT, SMTP_USER,
// SMTP_PASSWORD and EMAIL_FROM.
func NewMailerFromEnv() (*Mailer, error) {
	pool, err := ants.NewPool(mailerPoolSize)
	if err != nil {
		return nil, errors.Wrap(err, "create mailer pool")
	}

	m := &Mailer{pool: pool, from: os.Getenv("EMAIL_FROM")}

	host := os.Getenv("SMTP_HOST")
	if host == "" {
		log.Println("SMTP_HOST not set, mailer running in log-only mode")
		return m, nil
	}
	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil {
		port = 587
	}
	m.dialer = gomail.NewDialer(host, port, os.Getenv("SMTP_USER"), os.Getenv("SMTP_PASSWORD"))
	return m, nil
}

// Enqueue schedules one message for delivery and returns immediately.
func (m *Mailer) Enqueue(to, subject, body string) {
	err := m.pool.Submit(func() {
		if m.dialer == nil {
			log.Printf("mail (log-only) to=%s subject=%q", to, subject)
			return
		}
		msg := gomail.NewMessage()
		msg.SetHeader("From", m.from)
		msg.SetHeader("To", to)
		msg.SetHeader("Subject", subject)
		msg.SetBody("text/plain", body)
		if err := m.dialer.DialAndSend(msg); err != nil {
			log.Printf("failed to send mail to %s: %v", to, err)
		}
	})
	if err != nil {
		log.Printf("failed to enqueue mail to %s: %v", to, err)
	}
}

// Close drains the worker pool.
func (m *Mailer) Close() {
	m.pool.Release()
}
