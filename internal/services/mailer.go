package services

import (
	"fmt"
	"net/smtp"

	"go.uber.org/zap"

	"github.com/hopebridge/intake/internal/config"
)

// SendPasswordReset emails the single-use reset link. When SMTP is not
// configured the mail is skipped and only logged, so local setups still work.
func SendPasswordReset(to, link string) error {
	subject := "Reset your password"
	body := "We received a request to reset your password.\r\n\r\n" +
		"Open this link to choose a new one (valid for 1 hour):\r\n" + link + "\r\n\r\n" +
		"If you did not request a reset you can ignore this email.\r\n"
	return send(to, subject, body)
}

// SendWelcome greets a newly registered user.
func SendWelcome(to, name string) error {
	if name == "" {
		name = "there"
	}
	subject := "Welcome"
	body := "Hi " + name + ",\r\n\r\nYour account has been created. You can now book appointments and track your applications.\r\n"
	return send(to, subject, body)
}

func send(to, subject, body string) error {
	c := config.Get()
	if c.SMTPHost == "" {
		zap.L().Info("smtp not configured, skipping mail",
			zap.String("to", to), zap.String("subject", subject))
		return nil
	}

	msg := []byte("From: " + c.SMTPFrom + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"\r\n" + body)

	addr := fmt.Sprintf("%s:%d", c.SMTPHost, c.SMTPPort)
	var a smtp.Auth
	if c.SMTPUser != "" {
		a = smtp.PlainAuth("", c.SMTPUser, c.SMTPPass, c.SMTPHost)
	}
	if err := smtp.SendMail(addr, a, c.SMTPFrom, []string{to}, msg); err != nil {
		zap.L().Error("send mail failed", zap.String("to", to), zap.Error(err))
		return err
	}
	return nil
}
