package mail

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/badoux/checkmail"
	"gopkg.in/gomail.v2"
)

// Mailer delivers templated messages. Failures are surfaced to the
// caller, never retried.
type Mailer interface {
	SendVerificationEmail(to, username, link string) error
	SendPasswordResetEmail(to, username, link string) error
	SendProjectInviteEmail(to, username, link, projectName string) error
}

type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(host string, port int, username, password, from string) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

func (m *SMTPMailer) SendVerificationEmail(to, username, link string) error {
	return m.send(to, "Verify your email", "action", actionData{
		Name:         username,
		Intro:        "Welcome to TaskHive!",
		Instructions: "To get started with our app, please click here:",
		ButtonText:   "Verify your email",
		Link:         link,
	})
}

func (m *SMTPMailer) SendPasswordResetEmail(to, username, link string) error {
	return m.send(to, "Reset your password", "action", actionData{
		Name:         username,
		Intro:        "Reset Password",
		Instructions: "To change your password, please click here:",
		ButtonText:   "Reset Password",
		Link:         link,
	})
}

func (m *SMTPMailer) SendProjectInviteEmail(to, username, link, projectName string) error {
	return m.send(to, "Project invitation", "action", actionData{
		Name:         username,
		Intro:        "Project Invitation",
		Instructions: fmt.Sprintf("You are being requested to join the project %s. Please click the button to join.", projectName),
		ButtonText:   "Join Project",
		Link:         link,
	})
}

func (m *SMTPMailer) send(to, subject, tmplName string, data interface{}) error {
	if err := checkmail.ValidateFormat(to); err != nil {
		return fmt.Errorf("invalid recipient address %q: %w", to, err)
	}

	tmpl, ok := templates[tmplName]
	if !ok {
		return fmt.Errorf("unknown mail template %q", tmplName)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("rendering mail template: %w", err)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body.String())

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("sending mail: %w", err)
	}
	return nil
}

type actionData struct {
	Name         string
	Intro        string
	Instructions string
	ButtonText   string
	Link         string
}

var templates = map[string]*template.Template{
	"action": template.Must(template.New("action").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .button { display: inline-block; padding: 10px 20px; background: #22BC66; color: #fff; text-decoration: none; border-radius: 4px; }
        .footer { margin-top: 30px; font-size: 12px; color: #7f8c8d; }
    </style>
</head>
<body>
    <p>Hi {{.Name}},</p>
    <h2>{{.Intro}}</h2>
    <p>{{.Instructions}}</p>
    <p><a class="button" href="{{.Link}}">{{.ButtonText}}</a></p>
    <div class="footer">
        <p>Need help, or have questions? Just reply to this email, we'd love to help.</p>
    </div>
</body>
</html>`)),
}
