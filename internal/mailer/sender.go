package mailer

import (
	"fmt"
	"net/smtp"
	"strings"

	"evenza/config"
)

// Sender relay 服務實際寄信的介面
type Sender interface {
	Send(to []string, cc string, subject string, body string) error
}

type SMTPSender struct {
	host string
	port string
	user string
	pass string
	from string
}

func NewSMTPSender(cfg *config.MailConfig) *SMTPSender {
	from := cfg.From
	if from == "" {
		from = cfg.SMTPUser
	}
	return &SMTPSender{
		host: cfg.SMTPHost,
		port: cfg.SMTPPort,
		user: cfg.SMTPUser,
		pass: cfg.SMTPPass,
		from: from,
	}
}

func (s *SMTPSender) Send(to []string, cc string, subject string, body string) error {
	if s.host == "" || s.user == "" {
		return fmt.Errorf("smtp is not configured")
	}

	recipients := append([]string{}, to...)
	headers := []string{
		"From: " + s.from,
		"To: " + strings.Join(to, ", "),
	}
	if cc != "" {
		recipients = append(recipients, cc)
		headers = append(headers, "Cc: "+cc)
	}
	headers = append(headers,
		"Subject: "+subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
	)

	msg := strings.Join(headers, "\r\n") + "\r\n\r\n" + body

	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	auth := smtp.PlainAuth("", s.user, s.pass, s.host)
	return smtp.SendMail(addr, auth, s.from, recipients, []byte(msg))
}

// JoinBody 加入活動通知信內文
func JoinBody(title, date, location string) string {
	lines := []string{
		"Hi there,",
		"",
		fmt.Sprintf("You're all set for %s.", title),
	}
	if date != "" {
		lines = append(lines, "Date: "+date)
	}
	if location != "" {
		lines = append(lines, "Location: "+location)
	}
	lines = append(lines, "", "See you there!")
	return strings.Join(lines, "\n")
}

// VerificationBody 註冊驗證碼信內文
func VerificationBody(code string) string {
	return strings.Join([]string{
		"Hi there,",
		"",
		"Your Evenza verification code is: " + code,
		"",
		"Enter it in the app to verify your email.",
	}, "\n")
}

// CancellationBody 活動取消通知信內文
func CancellationBody(title, date, location string) string {
	lines := []string{
		"Hello,",
		"",
		fmt.Sprintf("We're sorry to let you know that %s has been canceled.", title),
	}
	if date != "" {
		lines = append(lines, "Scheduled date: "+date)
	}
	if location != "" {
		lines = append(lines, "Location: "+location)
	}
	lines = append(lines, "", "Thanks for being part of Evenza.")
	return strings.Join(lines, "\n")
}
