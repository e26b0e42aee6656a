package usecase

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xavierca1/ecocrm/internal/entity"
)

// LeadInput é o formulário de cadastro/edição.
// IsLowBill nil significa "derivar do valor da conta"; Status nil mantém o atual
// (ou New no cadastro).
type LeadInput struct {
	Name               string          `json:"name"`
	Phone              string          `json:"phone"`
	HasWhatsApp        bool            `json:"hasWhatsApp"`
	BillValue          decimal.Decimal `json:"billValue"`
	IsLowBill          *bool           `json:"isLowBill,omitempty"`
	IsLowIncomeProgram bool            `json:"isLowIncomeProgram"`
	ReturnDateTime     string          `json:"returnDateTime,omitempty"`
	Notes              string          `json:"notes,omitempty"`
	Status             *entity.Status  `json:"status,omitempty"`
}

// newLead builds a lead from a validated input.
func (in LeadInput) newLead(id string, now time.Time, loc *time.Location) (entity.Lead, error) {
	at, err := entity.ParseReturnTime(in.ReturnDateTime, loc)
	if err != nil {
		return entity.Lead{}, err
	}

	lead := entity.Lead{
		ID:                 id,
		Name:               strings.TrimSpace(in.Name),
		Phone:              strings.TrimSpace(in.Phone),
		HasWhatsApp:        in.HasWhatsApp,
		IsLowIncomeProgram: in.IsLowIncomeProgram,
		ReturnDateTime:     at,
		Notes:              in.Notes,
		Status:             entity.StatusNew,
		CreatedAt:          now,
	}
	lead.SetBillValue(in.BillValue)
	if in.IsLowBill != nil {
		lead.IsLowBill = *in.IsLowBill
	}
	if in.Status != nil {
		lead.Status = *in.Status
	}
	return lead, nil
}

// applyTo aplica a edição sobre um lead existente. ID, CreatedAt e Notified
// (exceto quando o retorno muda) são preservados.
func (in LeadInput) applyTo(lead *entity.Lead, loc *time.Location) error {
	at, err := entity.ParseReturnTime(in.ReturnDateTime, loc)
	if err != nil {
		return err
	}

	lead.Name = strings.TrimSpace(in.Name)
	lead.Phone = strings.TrimSpace(in.Phone)
	lead.HasWhatsApp = in.HasWhatsApp
	lead.IsLowIncomeProgram = in.IsLowIncomeProgram
	lead.Notes = in.Notes
	lead.SetReturn(at)

	if !lead.BillValue.Equal(in.BillValue) {
		lead.SetBillValue(in.BillValue)
	}
	if in.IsLowBill != nil {
		lead.IsLowBill = *in.IsLowBill
	}
	if in.Status != nil {
		lead.Status = *in.Status
	}
	return nil
}

// Dashboard é o resumo mostrado na tela inicial.
type Dashboard struct {
	TotalLeads     int           `json:"totalLeads"`
	HighValueLeads int           `json:"highValueLeads"`
	ClosedDeals    int           `json:"closedDeals"`
	PendingReturns int           `json:"pendingReturns"`
	RecentLeads    []entity.Lead `json:"recentLeads"`
}

// ContactLinks são os atalhos de ligação e WhatsApp de um lead.
type ContactLinks struct {
	Call     string `json:"call"`
	WhatsApp string `json:"whatsapp,omitempty"`
	Message  string `json:"message"`
}
