package entity

import (
	"fmt"
	"strings"
)

// Status é a posição do lead no funil de vendas.
// O valor zero é StatusNew, então um lead nunca fica sem status.
type Status int

const (
	StatusNew Status = iota
	StatusContacted
	StatusClosed
	StatusLost
)

var statusNames = [...]string{
	StatusNew:       "New",
	StatusContacted: "Contacted",
	StatusClosed:    "Closed",
	StatusLost:      "Lost",
}

// Nomes gravados pela primeira versão do app (localStorage).
var legacyStatusNames = map[string]Status{
	"novo":      StatusNew,
	"contatado": StatusContacted,
	"fechado":   StatusClosed,
	"perdido":   StatusLost,
}

// AllStatuses returns the statuses in lifecycle order.
func AllStatuses() []Status {
	return []Status{StatusNew, StatusContacted, StatusClosed, StatusLost}
}

func (s Status) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Status(%d)", int(s))
	}
	return statusNames[s]
}

func (s Status) Valid() bool {
	return s >= StatusNew && s <= StatusLost
}

// Next avança no ciclo New → Contacted → Closed → Lost → New.
func (s Status) Next() Status {
	if !s.Valid() {
		return StatusNew
	}
	return (s + 1) % Status(len(statusNames))
}

// ParseStatus accepts the canonical names case-insensitively and the
// legacy Portuguese names.
func ParseStatus(v string) (Status, error) {
	v = strings.TrimSpace(v)
	for i, name := range statusNames {
		if strings.EqualFold(name, v) {
			return Status(i), nil
		}
	}
	if s, ok := legacyStatusNames[strings.ToLower(v)]; ok {
		return s, nil
	}
	return StatusNew, fmt.Errorf("%w: %q", ErrInvalidStatus, v)
}

func (s Status) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidStatus, int(s))
	}
	return []byte(statusNames[s]), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
