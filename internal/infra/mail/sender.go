package mail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"gopkg.in/gomail.v2"

	"github.com/xavierca1/ecocrm/internal/entity"
)

const returnLayout = "02/01/2006 15:04"

var reminderTemplate = template.Must(template.New("reminder").Parse(`<p>Olá! Está na hora do retorno agendado com <strong>{{.Name}}</strong>.</p>
<p>Retorno marcado para {{.ReturnAt}}.</p>
{{if .Notes}}<p>Observações: {{.Notes}}</p>{{end}}
<p><a href="{{.CallLink}}">📞 Ligar para {{.Phone}}</a></p>
{{if .WhatsAppLink}}<p><a href="{{.WhatsAppLink}}">💬 Abrir conversa no WhatsApp</a></p>{{end}}
`))

func NewEmailSender(host string, port int, user, password, to string) *EmailSender {
	return &EmailSender{
		From:   user,
		To:     to,
		dialer: gomail.NewDialer(host, port, user, password),
	}
}

func (s *EmailSender) Name() string {
	return "mail"
}

// SendReminder avisa o vendedor por e-mail que um retorno venceu.
func (s *EmailSender) SendReminder(ctx context.Context, notice entity.ReminderNotice) error {
	m, err := s.buildReminder(notice)
	if err != nil {
		return err
	}
	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("erro ao enviar email SMTP: %w", err)
	}
	return nil
}

func (s *EmailSender) buildReminder(notice entity.ReminderNotice) (*gomail.Message, error) {
	body, err := renderReminder(notice)
	if err != nil {
		return nil, err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", s.To)
	m.SetHeader("Subject", fmt.Sprintf("🔔 Retorno agendado: %s", notice.Name))
	m.SetBody("text/html", body)
	return m, nil
}

func renderReminder(notice entity.ReminderNotice) (string, error) {
	data := ReminderEmailData{
		Name:         notice.Name,
		Phone:        notice.Phone,
		ReturnAt:     notice.ReturnAt.Format(returnLayout),
		Notes:        notice.Notes,
		CallLink:     template.URL(notice.CallLink),
		WhatsAppLink: template.URL(notice.WhatsAppLink),
	}

	var body bytes.Buffer
	if err := reminderTemplate.Execute(&body, data); err != nil {
		return "", fmt.Errorf("erro ao processar template: %w", err)
	}
	return body.String(), nil
}
