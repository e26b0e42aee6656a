package entity

// Advice é a sugestão de abordagem gerada pela IA para um lead.
type Advice struct {
	Pitch            string `json:"pitch"`
	Strategy         string `json:"strategy"`
	PotentialSavings string `json:"potential_savings"`
}

// Complete reports whether every required field came back filled.
func (a Advice) Complete() bool {
	return a.Pitch != "" && a.Strategy != "" && a.PotentialSavings != ""
}
