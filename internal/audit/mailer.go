package audit

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// Mailer sends audit notifications over SMTP. A nil Mailer disables email
// entirely; the notifier treats that as success.
type Mailer struct {
	Host string
	Port int
	From string
	Pass string
}

func NewMailer(host string, port int, from, pass string) *Mailer {
	if host == "" || from == "" {
		return nil
	}
	return &Mailer{Host: host, Port: port, From: from, Pass: pass}
}

func (m *Mailer) Send(to []string, subject, htmlBody string) error {
	if len(to) == 0 {
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.From)
	msg.SetHeader("To", to...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(m.Host, m.Port, m.From, m.Pass)
	if err := d.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
