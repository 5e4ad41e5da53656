package mailing

import (
	"embed"
	"strings"
	"time"

	"html/template"

	"github.com/go-mail/mail"
	"github.com/jaytaylor/html2text"
	"github.com/stagepass/stagepass/config"
	"github.com/stagepass/stagepass/sanitize"
	"go.uber.org/zap"
)

//go:embed templates/template.html
var templates embed.FS

// Mailer sends the transactional emails, currently access links for
// private events and a configuration test mail
type Mailer struct {
	noop          bool
	client        *mail.Dialer
	log           *zap.Logger
	cfg           *config.Configuration
	emailTemplate *template.Template
}

func (m *Mailer) baseModel(title string, message string) map[string]interface{} {
	b := make(map[string]interface{})
	b["service_name"] = m.cfg.Behaviour.Name
	b["date"] = time.Now().Format("2006-01-02 15:04")
	b["title"] = title
	b["message"] = message
	return b
}

// SendAccessLinkMail mails the deep link for a private event to an
// invited participant
func (m *Mailer) SendAccessLinkMail(
	email string,
	eventTitle string,
	link string,
	token string,
) error {
	if m.noop {
		m.log.Info("skipping email `AccessLink` because noop is configured",
			sanitize.TokenPreview("token", token))
		return nil
	}
	base := m.baseModel(
		"You are invited to "+eventTitle,
		"Use the button below to open the event page. Your personal access code is included in the link.",
	)
	base["link_text"] = "Open event"
	base["link"] = link
	base["token_text"] = "Your access code"
	base["token"] = token
	subject := "Your access to " + eventTitle
	base["subject"] = subject
	return m.send(email, subject, base)
}

// SendTestEmail verifies the smtp configuration end to end
func (m *Mailer) SendTestEmail(email string) error {
	if m.noop {
		m.log.Info("skipping email `Test` because noop is configured")
		return nil
	}
	base := m.baseModel("This is a test", "hey your email configuration seems to be fine.")
	base["subject"] = "Your test email is here!"
	base["token"] = "test"
	base["token_text"] = "test"
	base["link"] = m.cfg.Frontend.BaseURL
	base["link_text"] = "test"
	return m.send(email, "Your test email is here!", base)
}

func (m *Mailer) send(email string, subject string, viewModel map[string]interface{}) error {
	buffer := new(strings.Builder)
	err := m.emailTemplate.Execute(buffer, viewModel)
	if err != nil {
		return err
	}
	html := buffer.String()
	text, err := html2text.FromString(html, html2text.Options{PrettyTables: true})
	if err != nil {
		return err
	}
	msg := mail.NewMessage()
	msg.SetAddressHeader("From", m.cfg.SMTP.Address, m.cfg.SMTP.DisplayName)
	msg.SetAddressHeader("To", email, "")
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", text)
	msg.AddAlternative("text/html", html)
	return m.client.DialAndSend(msg)
}

// NewMailer builds a mailer from the smtp configuration, a disabled
// configuration yields a noop mailer that only logs
func NewMailer(log *zap.Logger, cfg *config.Configuration) (*Mailer, error) {
	t, err := template.ParseFS(templates, "templates/template.html")
	if err != nil {
		return nil, err
	}
	s := &Mailer{
		noop:          cfg.SMTP == nil || !cfg.SMTP.Enable,
		log:           log,
		emailTemplate: t,
		cfg:           cfg,
	}
	if !s.noop {
		s.client = mail.NewDialer(
			cfg.SMTP.Host,
			cfg.SMTP.Port,
			cfg.SMTP.Username,
			cfg.SMTP.Password,
		)
	}
	return s, nil
}

// NewNoOpMailer is used when no smtp section is configured at all
func NewNoOpMailer(log *zap.Logger) *Mailer {
	return &Mailer{
		noop: true,
		log:  log,
	}
}
