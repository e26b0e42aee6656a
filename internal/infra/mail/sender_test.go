package mail

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/xavierca1/ecocrm/internal/entity"
)

type fakeDialer struct {
	sent []*gomail.Message
	err  error
}

func (d *fakeDialer) DialAndSend(m ...*gomail.Message) error {
	d.sent = append(d.sent, m...)
	return d.err
}

func testNotice() entity.ReminderNotice {
	lead := entity.Lead{
		ID:          "l1",
		Name:        "Maria <b>",
		Phone:       "11999990000",
		HasWhatsApp: true,
		Notes:       "prefere à tarde",
	}
	at := time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)
	lead.ReturnDateTime = &at
	return entity.NewReminderNotice(lead, at)
}

func TestRenderReminder(t *testing.T) {
	body, err := renderReminder(testNotice())
	require.NoError(t, err)

	assert.Contains(t, body, "Maria &lt;b&gt;")
	assert.Contains(t, body, "10/03/2026 14:30")
	assert.Contains(t, body, "prefere à tarde")
	assert.Contains(t, body, `href="tel:11999990000"`)
	assert.Contains(t, body, "https://wa.me/11999990000")
}

func TestRenderReminderWithoutWhatsApp(t *testing.T) {
	n := testNotice()
	n.WhatsAppLink = ""
	n.Notes = ""

	body, err := renderReminder(n)
	require.NoError(t, err)
	assert.NotContains(t, body, "WhatsApp")
	assert.NotContains(t, body, "Observações")
}

func TestSendReminder(t *testing.T) {
	dialer := &fakeDialer{}
	s := &EmailSender{From: "crm@ecocrm.local", To: "vendedor@ecocrm.local", dialer: dialer}

	require.NoError(t, s.SendReminder(context.Background(), testNotice()))
	require.Len(t, dialer.sent, 1)

	m := dialer.sent[0]
	assert.Equal(t, []string{"vendedor@ecocrm.local"}, m.GetHeader("To"))
	assert.Equal(t, []string{"crm@ecocrm.local"}, m.GetHeader("From"))
	assert.Equal(t, []string{"🔔 Retorno agendado: Maria <b>"}, m.GetHeader("Subject"))
	assert.Equal(t, "mail", s.Name())
}

func TestSendReminderSMTPError(t *testing.T) {
	boom := errors.New("connection refused")
	s := &EmailSender{To: "x@y", dialer: &fakeDialer{err: boom}}

	err := s.SendReminder(context.Background(), testNotice())
	assert.ErrorIs(t, err, boom)
}
