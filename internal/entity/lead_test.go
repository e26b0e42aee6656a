package entity

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetBillValueDerivesLowBill(t *testing.T) {
	var l Lead

	l.SetBillValue(decimal.NewFromInt(149))
	assert.True(t, l.IsLowBill)

	l.SetBillValue(decimal.NewFromInt(150))
	assert.False(t, l.IsLowBill, "150 não é conta baixa")

	l.SetBillValue(decimal.RequireFromString("80.90"))
	l.IsLowBill = false // override manual depois da edição
	assert.False(t, l.IsLowBill)
}

func TestIsHighValue(t *testing.T) {
	assert.True(t, Lead{BillValue: decimal.NewFromInt(500)}.IsHighValue())
	assert.False(t, Lead{BillValue: decimal.RequireFromString("499.99")}.IsHighValue())
}

func TestReturnDueAndPending(t *testing.T) {
	now := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(2 * time.Minute)

	assert.True(t, Lead{ReturnDateTime: &past}.ReturnDue(now))
	assert.True(t, Lead{ReturnDateTime: &now}.ReturnDue(now))
	assert.False(t, Lead{ReturnDateTime: &past, Notified: true}.ReturnDue(now))
	assert.False(t, Lead{ReturnDateTime: &future}.ReturnDue(now))
	assert.False(t, Lead{}.ReturnDue(now))

	assert.True(t, Lead{ReturnDateTime: &future}.ReturnPending(now))
	assert.True(t, Lead{ReturnDateTime: &now}.ReturnPending(now))
	assert.False(t, Lead{ReturnDateTime: &past}.ReturnPending(now))
	assert.False(t, Lead{}.ReturnPending(now))
}

func TestSetReturnResetsNotified(t *testing.T) {
	at := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	l := Lead{ReturnDateTime: &at, Notified: true}

	same := at
	l.SetReturn(&same)
	assert.True(t, l.Notified, "mesmo horário não rearma o lembrete")

	later := at.Add(24 * time.Hour)
	l.SetReturn(&later)
	assert.False(t, l.Notified)
	assert.Equal(t, later, *l.ReturnDateTime)

	l.Notified = true
	l.SetReturn(nil)
	assert.Nil(t, l.ReturnDateTime)
	assert.False(t, l.Notified)
}

func TestLeadJSONRoundTrip(t *testing.T) {
	at := time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)
	in := Lead{
		ID:                 "lead-1",
		Name:               "João Silva",
		Phone:              "(11) 98888-7777",
		HasWhatsApp:        true,
		BillValue:          decimal.RequireFromString("320.50"),
		IsLowIncomeProgram: true,
		ReturnDateTime:     &at,
		Notes:              "Prefere contato à tarde",
		Status:             StatusContacted,
		CreatedAt:          time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}

	body, err := json.Marshal(in)
	require.NoError(t, err)

	var out Lead
	require.NoError(t, json.Unmarshal(body, &out))

	assert.Equal(t, in.ID, out.ID)
	assert.Equal(t, in.Name, out.Name)
	assert.True(t, in.BillValue.Equal(out.BillValue))
	require.NotNil(t, out.ReturnDateTime)
	assert.True(t, at.Equal(*out.ReturnDateTime))
	assert.Equal(t, StatusContacted, out.Status)
	assert.True(t, in.CreatedAt.Equal(out.CreatedAt))
}

func TestLeadUnmarshalLegacyFormat(t *testing.T) {
	raw := `{
		"id": "1712345678901",
		"name": "Maria Souza",
		"phone": "11 97777-6666",
		"hasWhatsApp": false,
		"billValue": 120,
		"isLowBill": true,
		"isLowIncomeProgram": false,
		"returnDateTime": "",
		"notes": "",
		"status": "Novo",
		"createdAt": "2026-01-05T12:00:00.000Z"
	}`

	var l Lead
	require.NoError(t, json.Unmarshal([]byte(raw), &l))
	assert.Nil(t, l.ReturnDateTime)
	assert.Equal(t, StatusNew, l.Status)
	assert.True(t, l.BillValue.Equal(decimal.NewFromInt(120)))

	raw = `{"id":"2","name":"A","phone":"1","returnDateTime":"2026-02-01T09:15","status":"Fechado"}`
	require.NoError(t, json.Unmarshal([]byte(raw), &l))
	require.NotNil(t, l.ReturnDateTime)
	assert.Equal(t, 9, l.ReturnDateTime.Hour())
	assert.Equal(t, 15, l.ReturnDateTime.Minute())
	assert.Equal(t, StatusClosed, l.Status)
}

func TestLeadUnmarshalNumericIDAndLowIncome(t *testing.T) {
	raw := `{"id":1736000000000,"name":"Carlos","phone":"1","billValue":412.5,"isLowIncome":true,"notified":false}`

	var l Lead
	require.NoError(t, json.Unmarshal([]byte(raw), &l))
	assert.Equal(t, "1736000000000", l.ID)
	assert.True(t, l.IsLowIncomeProgram)
	assert.Equal(t, StatusNew, l.Status)

	var other Lead
	require.NoError(t, json.Unmarshal([]byte(`{"id":"abc","isLowIncome":false}`), &other))
	assert.Equal(t, "abc", other.ID)
	assert.False(t, other.IsLowIncomeProgram)

	assert.Error(t, json.Unmarshal([]byte(`{"id":{"x":1}}`), &other))
}

func TestParseReturnTimeRejectsGarbage(t *testing.T) {
	_, err := ParseReturnTime("amanhã cedo", time.UTC)
	assert.ErrorIs(t, err, ErrInvalidTime)
}
