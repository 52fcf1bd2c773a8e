package utils

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"gopkg.in/gomail.v2"
)

// Notifier delivers membership notifications to users
type Notifier interface {
	MemberAdded(to, memberName, groupName, addedBy string) error
}

// SMTPSettings holds the outgoing mail server configuration
type SMTPSettings struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
}

// Mailer sends notification emails through gomail. A Mailer without a host
// configured silently discards messages.
type Mailer struct {
	settings SMTPSettings
}

func NewMailer(settings SMTPSettings) *Mailer {
	return &Mailer{settings: settings}
}

// Enabled reports whether an SMTP host is configured
func (m *Mailer) Enabled() bool {
	return m != nil && m.settings.Host != ""
}

var memberAddedTemplate = template.Must(template.New("member_added").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>{{.Subject}}</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { color: #2c3e50; border-bottom: 1px solid #eee; padding-bottom: 10px; }
        .group { font-size: 20px; font-weight: bold; color: #3498db; margin: 20px 0; text-align: center; }
        .footer { margin-top: 30px; font-size: 12px; color: #7f8c8d; text-align: center; }
    </style>
</head>
<body>
    <div class="header">
        <h2>You joined a trip</h2>
    </div>
    <p>Hello {{.MemberName}},</p>
    <p>{{.AddedBy}} added you to the group:</p>
    <div class="group">{{.GroupName}}</div>
    <p>Sign in to see the schedule and shared expenses.</p>
    <div class="footer">
        <p>© {{.Year}} Trip Planner</p>
    </div>
</body>
</html>`))

// MemberAdded tells a user they were added to a group
func (m *Mailer) MemberAdded(to, memberName, groupName, addedBy string) error {
	if !m.Enabled() {
		return nil
	}

	subject := fmt.Sprintf("You were added to %s", groupName)

	var body bytes.Buffer
	err := memberAddedTemplate.Execute(&body, map[string]interface{}{
		"Subject":    subject,
		"MemberName": memberName,
		"GroupName":  groupName,
		"AddedBy":    addedBy,
		"Year":       time.Now().Year(),
	})
	if err != nil {
		return fmt.Errorf("error executing template: %w", err)
	}

	msg := gomail.NewMessage()
	if m.settings.FromName != "" {
		msg.SetAddressHeader("From", m.settings.FromEmail, m.settings.FromName)
	} else {
		msg.SetHeader("From", m.settings.FromEmail)
	}
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body.String())

	d := gomail.NewDialer(m.settings.Host, m.settings.Port, m.settings.Username, m.settings.Password)
	if err := d.DialAndSend(msg); err != nil {
		return fmt.Errorf("error sending email: %w", err)
	}
	return nil
}
