package utils

import "testing"

func TestMailerDisabledWithoutHost(t *testing.T) {
	var nilMailer *Mailer
	if nilMailer.Enabled() {
		t.Error("nil mailer must be disabled")
	}

	m := NewMailer(SMTPSettings{FromEmail: "no-reply@example.com"})
	if m.Enabled() {
		t.Fatal("mailer without host must be disabled")
	}
	if err := m.MemberAdded("bob@example.com", "Bob", "Lisbon", "Alice"); err != nil {
		t.Errorf("disabled mailer should drop messages, got %v", err)
	}

	var _ Notifier = m
}
