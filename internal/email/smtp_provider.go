package email

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// SMTPConfig holds the transport settings for the SMTP provider.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	BaseURL  string
}

// SMTPProvider implements Provider over SMTP via gomail.
type SMTPProvider struct {
	config SMTPConfig
	dialer *gomail.Dialer
}

// NewSMTPProvider creates a new SMTP provider.
func NewSMTPProvider(config SMTPConfig) *SMTPProvider {
	return &SMTPProvider{
		config: config,
		dialer: gomail.NewDialer(config.Host, config.Port, config.Username, config.Password),
	}
}

func (p *SMTPProvider) SendAccountActivation(to, token string) error {
	body := fmt.Sprintf(
		`<p>Welcome! Activate your account by following the link below.</p>
<p><a href="%s/api/1.0/users/token/%s">Activate account</a></p>
<p>Token is %s</p>`,
		p.config.BaseURL, token, token,
	)
	return p.send(to, "Account Activation", body)
}

func (p *SMTPProvider) SendPasswordReset(to, token string) error {
	body := fmt.Sprintf(
		`<p>A password reset was requested for this address.</p>
<p><a href="%s/password-reset?reset=%s">Reset password</a></p>
<p>Token is %s</p>`,
		p.config.BaseURL, token, token,
	)
	return p.send(to, "Password Reset", body)
}

func (p *SMTPProvider) send(to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", p.config.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	if err := p.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send to %s: %w", to, err)
	}
	return nil
}
