package entity

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// Contas abaixo disso são marcadas como "conta baixa".
	LowBillThreshold = decimal.NewFromInt(150)
	// Contas a partir disso contam como lead de alto valor no dashboard.
	HighValueThreshold = decimal.NewFromInt(500)
)

// Layout do input datetime-local usado pelo formulário antigo.
const localDateTimeLayout = "2006-01-02T15:04"

type Lead struct {
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	Phone              string          `json:"phone"`
	HasWhatsApp        bool            `json:"hasWhatsApp"`
	BillValue          decimal.Decimal `json:"billValue"`
	IsLowBill          bool            `json:"isLowBill"`
	IsLowIncomeProgram bool            `json:"isLowIncomeProgram"`
	ReturnDateTime     *time.Time      `json:"returnDateTime,omitempty"`
	Notes              string          `json:"notes,omitempty"`
	Status             Status          `json:"status"`
	CreatedAt          time.Time       `json:"createdAt"`
	Notified           bool            `json:"notified,omitempty"`
}

// SetBillValue atualiza o valor da conta e recalcula IsLowBill.
// Quem quiser sobrescrever a flag manualmente deve fazer isso depois.
func (l *Lead) SetBillValue(v decimal.Decimal) {
	l.BillValue = v
	l.IsLowBill = IsLowBill(v)
}

// SetReturn reagenda o retorno. Um novo horário volta a ser notificável.
func (l *Lead) SetReturn(at *time.Time) {
	if sameInstant(l.ReturnDateTime, at) {
		return
	}
	l.ReturnDateTime = at
	l.Notified = false
}

func (l Lead) HasReturn() bool {
	return l.ReturnDateTime != nil
}

func (l Lead) IsHighValue() bool {
	return l.BillValue.GreaterThanOrEqual(HighValueThreshold)
}

// ReturnDue reports whether the scheduled return has arrived and no
// reminder fired for it yet.
func (l Lead) ReturnDue(now time.Time) bool {
	return l.ReturnDateTime != nil && !l.ReturnDateTime.After(now) && !l.Notified
}

// ReturnPending reports whether the scheduled return is still ahead.
func (l Lead) ReturnPending(now time.Time) bool {
	return l.ReturnDateTime != nil && !l.ReturnDateTime.Before(now)
}

func IsLowBill(v decimal.Decimal) bool {
	return v.LessThan(LowBillThreshold)
}

// UnmarshalJSON aceita também os formatos gravados pelas versões antigas:
// returnDateTime como "" ou "2006-01-02T15:04" (horário local), id numérico
// (Date.now()) e a flag do programa social como isLowIncome.
func (l *Lead) UnmarshalJSON(data []byte) error {
	type alias Lead
	aux := &struct {
		ID             json.RawMessage `json:"id"`
		ReturnDateTime string          `json:"returnDateTime"`
		IsLowIncome    *bool           `json:"isLowIncome"`
		*alias
	}{alias: (*alias)(l)}

	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}

	id, err := parseLeadID(aux.ID)
	if err != nil {
		return err
	}
	l.ID = id

	if aux.IsLowIncome != nil && *aux.IsLowIncome {
		l.IsLowIncomeProgram = true
	}

	at, err := ParseReturnTime(aux.ReturnDateTime, time.Local)
	if err != nil {
		return err
	}
	l.ReturnDateTime = at
	return nil
}

// parseLeadID aceita id como string ou como número JSON, guardando o
// número como foi escrito.
func parseLeadID(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}
	if raw[0] == '"' {
		var id string
		if err := json.Unmarshal(raw, &id); err != nil {
			return "", fmt.Errorf("id inválido: %w", err)
		}
		return id, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("id inválido: %w", err)
	}
	return n.String(), nil
}

// ParseReturnTime parses an optional return timestamp. An empty string
// means no scheduled return.
func ParseReturnTime(v string, loc *time.Location) (*time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
		return &t, nil
	}
	if loc == nil {
		loc = time.Local
	}
	if t, err := time.ParseInLocation(localDateTimeLayout, v, loc); err == nil {
		return &t, nil
	}
	if t, err := time.ParseInLocation(localDateTimeLayout+":05", v, loc); err == nil {
		return &t, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidTime, v)
}

func sameInstant(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}
