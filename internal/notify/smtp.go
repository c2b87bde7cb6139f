package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"

	"recon-tracker/internal/config"
	"recon-tracker/internal/model"
)

// Mailer delivers notification records over SMTP.
type Mailer struct {
	cfg config.SMTPConfig
}

func NewMailer(cfg config.SMTPConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

func (m *Mailer) Deliver(ctx context.Context, rec *model.NotificationRecord, task *model.Task, addresses []string) error {
	if len(addresses) == 0 {
		return nil
	}

	subject := fmt.Sprintf("Reconciliation alert: %s", task.Name)
	if rec.Severity == model.SeverityDanger {
		subject = fmt.Sprintf("Overdue reconciliation: %s", task.Name)
	}

	headers := map[string]string{
		"From":         fmt.Sprintf("%s <%s>", m.cfg.FromName, m.cfg.FromEmail),
		"To":           strings.Join(addresses, ", "),
		"Subject":      subject,
		"Content-Type": "text/plain; charset=UTF-8",
	}

	var body strings.Builder
	for key, value := range headers {
		body.WriteString(fmt.Sprintf("%s: %s\r\n", key, value))
	}
	body.WriteString("\r\n")
	body.WriteString(rec.Message)
	body.WriteString("\r\n")

	serverAddr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)

	if !m.cfg.TLSEnabled {
		if err := smtp.SendMail(serverAddr, auth, m.cfg.FromEmail, addresses, []byte(body.String())); err != nil {
			return fmt.Errorf("send mail: %w", err)
		}
		return nil
	}

	conn, err := tls.Dial("tcp", serverAddr, &tls.Config{
		ServerName:         m.cfg.Host,
		InsecureSkipVerify: m.cfg.SkipTLSVerify,
	})
	if err != nil {
		return fmt.Errorf("connect to SMTP server: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		return fmt.Errorf("create SMTP client: %w", err)
	}
	defer client.Close()

	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("SMTP auth: %w", err)
	}
	if err := client.Mail(m.cfg.FromEmail); err != nil {
		return fmt.Errorf("set sender: %w", err)
	}
	for _, addr := range addresses {
		if err := client.Rcpt(addr); err != nil {
			return fmt.Errorf("add recipient %s: %w", addr, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("open data connection: %w", err)
	}
	if _, err := w.Write([]byte(body.String())); err != nil {
		return fmt.Errorf("write mail body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close data connection: %w", err)
	}

	return client.Quit()
}
