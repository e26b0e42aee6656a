package mail

import (
	"html/template"

	"gopkg.in/gomail.v2"
)

type ReminderEmailData struct {
	Name         string
	Phone        string
	ReturnAt     string
	Notes        string
	CallLink     template.URL
	WhatsAppLink template.URL
}

// Dialer é o que o gomail.Dialer oferece para envio.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type EmailSender struct {
	From   string
	To     string
	dialer Dialer
}
