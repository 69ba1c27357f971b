package email

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
	"os"
)

// Sender 邮件发送的抽象，OTP服务只依赖这个接口
type Sender interface {
	Send(to, subject, html string) error
}

type smtpSender struct {
	host     string
	port     string
	user     string
	password string
}

// NewSMTPSender 从环境变量组装SMTP发送器
func NewSMTPSender() Sender {
	return &smtpSender{
		host:     os.Getenv("SMTP_HOST"),
		port:     getEnvOrDefault("SMTP_PORT", "587"),
		user:     os.Getenv("SMTP_USER"),
		password: os.Getenv("SMTP_PASSWORD"),
	}
}

// Send 走TLS直连SMTP发一封HTML邮件。发送失败不重试，由调用方决定怎么上报
func (s *smtpSender) Send(to, subject, html string) error {
	addr := s.host + ":" + s.port

	tlsconfig := &tls.Config{
		ServerName: s.host,
	}
	conn, err := tls.Dial("tcp", addr, tlsconfig)
	if err != nil {
		return fmt.Errorf("failed to connect to server: %w", err)
	}
	c, err := smtp.NewClient(conn, s.host)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer c.Quit()

	if err = c.Auth(smtp.PlainAuth("", s.user, s.password, s.host)); err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	msg := []byte("To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/html; charset=\"UTF-8\"\r\n" +
		"\r\n" +
		html)

	if err = c.Mail(s.user); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err = c.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}
	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err = w.Write(msg); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
