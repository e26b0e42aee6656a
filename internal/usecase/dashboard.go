package usecase

import (
	"sort"
	"time"

	"github.com/xavierca1/ecocrm/internal/entity"
)

const dashboardRecentLeads = 5

// Summarize computes the dashboard counters. Pure: no side effects.
func Summarize(leads []entity.Lead, now time.Time) Dashboard {
	d := Dashboard{
		TotalLeads:  len(leads),
		RecentLeads: RecentFirst(leads, dashboardRecentLeads),
	}
	for _, l := range leads {
		if l.IsHighValue() {
			d.HighValueLeads++
		}
		if l.Status == entity.StatusClosed {
			d.ClosedDeals++
		}
		if l.ReturnPending(now) {
			d.PendingReturns++
		}
	}
	return d
}

// DueReminders devolve os leads cujo retorno já chegou e que ainda não foram
// notificados, do retorno mais antigo para o mais novo.
func DueReminders(leads []entity.Lead, now time.Time) []entity.Lead {
	due := []entity.Lead{}
	for _, l := range leads {
		if l.ReturnDue(now) {
			due = append(due, l)
		}
	}
	sort.SliceStable(due, func(i, j int) bool {
		return due[i].ReturnDateTime.Before(*due[j].ReturnDateTime)
	})
	return due
}

// Contact monta os atalhos de contato. A sugestão da IA, quando existe,
// substitui a mensagem padrão.
func Contact(lead entity.Lead, advice *entity.Advice) ContactLinks {
	msg := entity.DefaultPitch(lead.Name)
	if advice != nil && advice.Pitch != "" {
		msg = advice.Pitch
	}

	links := ContactLinks{
		Call:    entity.CallLink(lead.Phone),
		Message: msg,
	}
	if lead.HasWhatsApp {
		links.WhatsApp = entity.WhatsAppLink(lead.Phone, msg)
	}
	return links
}
