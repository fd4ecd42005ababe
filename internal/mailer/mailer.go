package mailer

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"
)

// Mailer delivers transactional mail over SMTP. Port 465 uses implicit TLS;
// anything else upgrades with STARTTLS before authenticating.
type Mailer struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func New(host string, port int, username string, password string, from string) *Mailer {
	if from == "" {
		from = username
	}
	return &Mailer{host: host, port: port, username: username, password: password, from: from}
}

func (m *Mailer) Send(to string, subject string, htmlBody string) error {
	if strings.TrimSpace(m.host) == "" {
		return fmt.Errorf("smtp host is not configured")
	}

	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	tlsConfig := &tls.Config{ServerName: m.host, MinVersion: tls.VersionTLS12}

	var client *smtp.Client
	if m.port == 465 {
		conn, err := tls.DialWithDialer(&net.Dialer{Timeout: 10 * time.Second}, "tcp", addr, tlsConfig)
		if err != nil {
			return fmt.Errorf("dial smtp (tls): %w", err)
		}
		client, err = smtp.NewClient(conn, m.host)
		if err != nil {
			conn.Close()
			return fmt.Errorf("smtp handshake: %w", err)
		}
	} else {
		conn, err := net.DialTimeout("tcp", addr, 10*time.Second)
		if err != nil {
			return fmt.Errorf("dial smtp: %w", err)
		}
		client, err = smtp.NewClient(conn, m.host)
		if err != nil {
			conn.Close()
			return fmt.Errorf("smtp handshake: %w", err)
		}
		if ok, _ := client.Extension("STARTTLS"); ok {
			if err := client.StartTLS(tlsConfig); err != nil {
				_ = client.Close()
				return fmt.Errorf("starttls: %w", err)
			}
		}
	}
	defer client.Close()

	if m.username != "" {
		auth := smtp.PlainAuth("", m.username, m.password, m.host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}

	if err := client.Mail(m.from); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("rcpt to: %w", err)
	}

	writer, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}

	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("Date: %s\r\n", time.Now().Format(time.RFC1123Z)))
	msg.WriteString(fmt.Sprintf("From: %s\r\n", m.from))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", to))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)
	msg.WriteString("\r\n")

	if _, err := writer.Write([]byte(msg.String())); err != nil {
		_ = writer.Close()
		return fmt.Errorf("write message: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("finish message: %w", err)
	}

	return client.Quit()
}

// SendPasswordReset sends the reset link with a short validity window.
func (m *Mailer) SendPasswordReset(to string, name string, resetLink string) error {
	body := fmt.Sprintf(`
<div style="font-family: Arial, sans-serif; color: #333; max-width: 600px; margin: 0 auto; border: 1px solid #eee; padding: 20px; border-radius: 8px;">
    <h2 style="color: #4F46E5; text-align: center;">Reset Your Password</h2>
    <p>Hello %s,</p>
    <p>Click the button below to reset your password. This link is valid for 15 minutes.</p>
    <div style="text-align: center; margin: 30px 0;">
        <a href="%s" style="background-color: #4F46E5; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; font-weight: bold; display: inline-block;">Set New Password</a>
    </div>
    <p style="font-size: 12px; color: #777; text-align: center;">If you didn't request this, please ignore this email.</p>
</div>`, name, resetLink)

	return m.Send(to, "Reset Your Password - Smart ERP", body)
}
