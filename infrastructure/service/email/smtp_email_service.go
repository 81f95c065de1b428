package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/smtp"
	"net/url"

	"github.com/animeflix/auth-service/infrastructure/service/logger"
)

const verificationTemplate = `<html>
  <body>
    <h2>Welcome to AnimeFlix, {{.Username}}!</h2>
    <p>Please confirm your email address by clicking the link below.</p>
    <p><a href="{{.VerificationURL}}">Verify your email</a></p>
    <p>If you did not create this account, you can ignore this message.</p>
  </body>
</html>`

// SMTPEmailService delivers verification emails over plain SMTP.
type SMTPEmailService struct {
	host     string
	port     string
	username string
	password string
	sender   string
	baseURL  string
	tmpl     *template.Template
	logger   logger.Logger
}

type Config struct {
	Host     string
	Port     string
	Username string
	Password string
	Sender   string
	// BaseURL is the externally reachable address the verification link
	// points back at.
	BaseURL string
}

func NewSMTPEmailService(cfg Config, log logger.Logger) *SMTPEmailService {
	return &SMTPEmailService{
		host:     cfg.Host,
		port:     cfg.Port,
		username: cfg.Username,
		password: cfg.Password,
		sender:   cfg.Sender,
		baseURL:  cfg.BaseURL,
		tmpl:     template.Must(template.New("verification").Parse(verificationTemplate)),
		logger:   log,
	}
}

func (s *SMTPEmailService) SendVerificationEmail(ctx context.Context, email, token, username string) error {
	verificationURL := fmt.Sprintf(
		"%s/v1/users/verify-email?token=%s&username=%s",
		s.baseURL,
		url.QueryEscape(token),
		url.QueryEscape(username),
	)

	var body bytes.Buffer
	err := s.tmpl.Execute(&body, struct {
		Username        string
		VerificationURL string
	}{
		Username:        username,
		VerificationURL: verificationURL,
	})
	if err != nil {
		return fmt.Errorf("failed to render verification email: %w", err)
	}

	msg := bytes.Buffer{}
	fmt.Fprintf(&msg, "From: %s\r\n", s.sender)
	fmt.Fprintf(&msg, "To: %s\r\n", email)
	fmt.Fprintf(&msg, "Subject: Verification email from AnimeFlix\r\n")
	fmt.Fprintf(&msg, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&msg, "Content-Type: text/html; charset=\"UTF-8\"\r\n")
	fmt.Fprintf(&msg, "\r\n")
	msg.Write(body.Bytes())

	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	var auth smtp.Auth
	if s.username != "" {
		auth = smtp.PlainAuth("", s.username, s.password, s.host)
	}

	if err := smtp.SendMail(addr, auth, s.sender, []string{email}, msg.Bytes()); err != nil {
		return fmt.Errorf("failed to send verification email: %w", err)
	}

	s.logger.Info(ctx, "Verification email sent successfully", map[string]interface{}{
		"username": username,
	})
	return nil
}
