package gemini

import "net/http"

type Config struct {
	APIKey string
	Model  string
	// BaseURL troca o endpoint da API (testes, proxy). Vazio usa o padrão do SDK.
	BaseURL    string
	HTTPClient *http.Client
}

// promptData alimenta o template do prompt.
type promptData struct {
	Name      string
	BillValue string
	LowIncome string
	Notes     string
	Savings   string
}
