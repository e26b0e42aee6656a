package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusNextCycle(t *testing.T) {
	assert.Equal(t, StatusContacted, StatusNew.Next())
	assert.Equal(t, StatusClosed, StatusContacted.Next())
	assert.Equal(t, StatusLost, StatusClosed.Next())
	assert.Equal(t, StatusNew, StatusLost.Next())

	s := StatusNew
	for range AllStatuses() {
		s = s.Next()
	}
	assert.Equal(t, StatusNew, s, "um ciclo completo volta para New")
}

func TestStatusNextFromInvalid(t *testing.T) {
	assert.Equal(t, StatusNew, Status(42).Next())
}

func TestParseStatus(t *testing.T) {
	cases := map[string]Status{
		"New":       StatusNew,
		"contacted": StatusContacted,
		" Closed ":  StatusClosed,
		"LOST":      StatusLost,
		"Novo":      StatusNew,
		"Contatado": StatusContacted,
		"Fechado":   StatusClosed,
		"Perdido":   StatusLost,
	}
	for in, want := range cases {
		got, err := ParseStatus(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseStatus("Quente")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestStatusJSON(t *testing.T) {
	body, err := json.Marshal(struct {
		Status Status `json:"status"`
	}{StatusClosed})
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"Closed"}`, string(body))

	var got struct {
		Status Status `json:"status"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"status":"Perdido"}`), &got))
	assert.Equal(t, StatusLost, got.Status)

	assert.Error(t, json.Unmarshal([]byte(`{"status":"???"}`), &got))

	_, err = json.Marshal(struct {
		Status Status `json:"status"`
	}{Status(9)})
	assert.Error(t, err)
}
