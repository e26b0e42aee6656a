package entity

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"
)

var nonDigits = regexp.MustCompile(`\D`)

// OnlyDigits strips everything but digits from a phone number.
func OnlyDigits(phone string) string {
	return nonDigits.ReplaceAllString(phone, "")
}

// WhatsAppLink monta o deep link wa.me com a mensagem já preenchida.
func WhatsAppLink(phone, text string) string {
	link := "https://wa.me/" + OnlyDigits(phone)
	if text == "" {
		return link
	}
	return link + "?text=" + strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
}

// CallLink usa o telefone exatamente como foi cadastrado.
func CallLink(phone string) string {
	return "tel:" + phone
}

// DefaultPitch é a mensagem usada quando não há sugestão da IA.
func DefaultPitch(name string) string {
	return fmt.Sprintf("Olá %s, vi que você tem interesse em desconto na conta de luz. Podemos conversar?", name)
}

// ReminderNotice is what travels to the notification channels when a
// scheduled return fires.
type ReminderNotice struct {
	LeadID       string    `json:"lead_id"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone"`
	HasWhatsApp  bool      `json:"has_whatsapp"`
	ReturnAt     time.Time `json:"return_at"`
	Notes        string    `json:"notes,omitempty"`
	FiredAt      time.Time `json:"fired_at"`
	CallLink     string    `json:"call_link"`
	WhatsAppLink string    `json:"whatsapp_link,omitempty"`
}

func NewReminderNotice(l Lead, firedAt time.Time) ReminderNotice {
	n := ReminderNotice{
		LeadID:      l.ID,
		Name:        l.Name,
		Phone:       l.Phone,
		HasWhatsApp: l.HasWhatsApp,
		Notes:       l.Notes,
		FiredAt:     firedAt,
		CallLink:    CallLink(l.Phone),
	}
	if l.ReturnDateTime != nil {
		n.ReturnAt = *l.ReturnDateTime
	}
	if l.HasWhatsApp {
		n.WhatsAppLink = WhatsAppLink(l.Phone, DefaultPitch(l.Name))
	}
	return n
}
