package usecase

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/ecocrm/internal/entity"
)

func ptr(t time.Time) *time.Time { return &t }

func TestSummarize(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	leads := []entity.Lead{
		{ID: "1", BillValue: decimal.NewFromInt(800), Status: entity.StatusClosed, CreatedAt: now.Add(-5 * time.Hour)},
		{ID: "2", BillValue: decimal.NewFromInt(500), ReturnDateTime: ptr(now.Add(time.Hour)), CreatedAt: now.Add(-4 * time.Hour)},
		{ID: "3", BillValue: decimal.RequireFromString("499.99"), ReturnDateTime: ptr(now.Add(-time.Hour)), CreatedAt: now.Add(-3 * time.Hour)},
		{ID: "4", BillValue: decimal.NewFromInt(90), Status: entity.StatusClosed, ReturnDateTime: ptr(now), CreatedAt: now.Add(-2 * time.Hour)},
		{ID: "5", BillValue: decimal.Zero, CreatedAt: now.Add(-time.Hour)},
		{ID: "6", BillValue: decimal.NewFromInt(200), Status: entity.StatusLost, CreatedAt: now},
	}

	d := Summarize(leads, now)

	assert.Equal(t, 6, d.TotalLeads)
	assert.Equal(t, 2, d.HighValueLeads)
	assert.Equal(t, 2, d.ClosedDeals)
	assert.Equal(t, 2, d.PendingReturns, "retorno futuro ou exatamente agora")

	require.Len(t, d.RecentLeads, 5)
	assert.Equal(t, "6", d.RecentLeads[0].ID)
	assert.Equal(t, "2", d.RecentLeads[4].ID)

	low := 0
	for _, l := range leads {
		if l.BillValue.LessThan(entity.HighValueThreshold) {
			low++
		}
	}
	assert.Equal(t, d.TotalLeads, d.HighValueLeads+low)
}

func TestSummarizeEmpty(t *testing.T) {
	d := Summarize(nil, time.Now())
	assert.Zero(t, d.TotalLeads)
	assert.NotNil(t, d.RecentLeads)
}

func TestDueReminders(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	leads := []entity.Lead{
		{ID: "future", ReturnDateTime: ptr(now.Add(2 * time.Minute))},
		{ID: "hour-ago", ReturnDateTime: ptr(now.Add(-time.Hour))},
		{ID: "notified", ReturnDateTime: ptr(now.Add(-2 * time.Hour)), Notified: true},
		{ID: "none"},
		{ID: "minute-ago", ReturnDateTime: ptr(now.Add(-time.Minute))},
	}

	due := DueReminders(leads, now)

	require.Len(t, due, 2)
	assert.Equal(t, "hour-ago", due[0].ID)
	assert.Equal(t, "minute-ago", due[1].ID)
}

func TestContactLinks(t *testing.T) {
	lead := entity.Lead{Name: "João", Phone: "(11) 98888-7777", HasWhatsApp: true}

	links := Contact(lead, nil)
	assert.Equal(t, "tel:(11) 98888-7777", links.Call)
	assert.Equal(t, entity.DefaultPitch("João"), links.Message)
	assert.Contains(t, links.WhatsApp, "https://wa.me/11988887777?text=Ol%C3%A1%20Jo%C3%A3o")

	links = Contact(lead, &entity.Advice{Pitch: "Oi João!"})
	assert.Equal(t, "Oi João!", links.Message)
	assert.Equal(t, "https://wa.me/11988887777?text=Oi%20Jo%C3%A3o%21", links.WhatsApp)

	lead.HasWhatsApp = false
	assert.Empty(t, Contact(lead, nil).WhatsApp)
}
