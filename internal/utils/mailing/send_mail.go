package mailing

import (
	"io"
	"strconv"

	"foodgram-backend/internal/utils"

	"gopkg.in/gomail.v2"
)

type MailConfig struct {
	AppURL       string
	SMTPHost     string
	SMTPPort     string
	SMTPSender   string
	SMTPEmail    string
	SMTPPassword string
}

type Attachment struct {
	FileName string
	Data     []byte
}

// Mailer delivers a message with optional attachments.
type Mailer interface {
	Send(toEmail string, subject string, body string, attachments ...Attachment) error
}

type smtpMailer struct{}

func NewMailer() Mailer {
	return &smtpMailer{}
}

func (smtpMailer) Send(toEmail string, subject string, body string, attachments ...Attachment) error {
	return SendMail(toEmail, subject, body, attachments...)
}

func LoadMailConfig() MailConfig {
	return MailConfig{
		AppURL:       utils.GetConfig("APP_URL"),
		SMTPHost:     utils.GetConfig("SMTP_HOST"),
		SMTPPort:     utils.GetConfig("SMTP_PORT"),
		SMTPSender:   utils.GetConfig("SMTP_SENDER_NAME"),
		SMTPEmail:    utils.GetConfig("SMTP_AUTH_EMAIL"),
		SMTPPassword: utils.GetConfig("SMTP_AUTH_PASSWORD"),
	}
}

func BuildMessage(from MailConfig, toEmail string, subject string, body string, attachments ...Attachment) *gomail.Message {
	mailer := gomail.NewMessage()
	mailer.SetHeader("From", mailer.FormatAddress(from.SMTPEmail, from.SMTPSender))
	mailer.SetHeader("To", toEmail)
	mailer.SetHeader("Subject", subject)
	mailer.SetBody("text/html", body)
	for _, a := range attachments {
		data := a.Data
		mailer.Attach(a.FileName, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(data)
			return err
		}))
	}
	return mailer
}

func SendMail(toEmail string, subject string, body string, attachments ...Attachment) error {
	emailConfig := LoadMailConfig()

	mailer := BuildMessage(emailConfig, toEmail, subject, body, attachments...)
	port, err := strconv.Atoi(emailConfig.SMTPPort)
	if err != nil {
		return err
	}
	dialer := gomail.NewDialer(
		emailConfig.SMTPHost,
		port,
		emailConfig.SMTPEmail,
		emailConfig.SMTPPassword,
	)

	return dialer.DialAndSend(mailer)
}
