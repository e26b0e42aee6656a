package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/xavierca1/ecocrm/internal/entity"
)

const DefaultModel = "gemini-3-flash-preview"

var ErrEmptyResponse = errors.New("gemini: resposta vazia")

// desconto usado na estimativa de economia
var savingsRate = decimal.NewFromFloat(0.20)

var promptTemplate = template.Must(template.New("prompt").Parse(`Atue como um especialista em vendas de descontos na conta de luz.
Analise este lead e gere um script de abordagem curto e persuasivo para o WhatsApp.

Dados do Cliente:
Nome: {{.Name}}
Valor da Conta: R$ {{.BillValue}}
Baixa Renda: {{.LowIncome}}
Observações: {{.Notes}}

Gere um JSON com:
1. pitch: O texto para enviar no WhatsApp.
2. strategy: Uma breve estratégia de fechamento.
3. potential_savings: Uma estimativa de quanto ele poderia economizar (referência: R$ {{.Savings}} por mês, 20% de desconto).
`))

var adviceSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"pitch":             {Type: genai.TypeString},
		"strategy":          {Type: genai.TypeString},
		"potential_savings": {Type: genai.TypeString},
	},
	Required:         []string{"pitch", "strategy", "potential_savings"},
	PropertyOrdering: []string{"pitch", "strategy", "potential_savings"},
}

type Client struct {
	client *genai.Client
	model  string
	logger *zap.Logger
}

func NewClient(ctx context.Context, cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	cc := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: cfg.HTTPClient,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions.BaseURL = strings.TrimRight(cfg.BaseURL, "/") + "/"
	}

	gc, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("gemini: erro ao criar cliente: %w", err)
	}
	return &Client{client: gc, model: cfg.Model, logger: logger}, nil
}

// GetAdvice pede ao Gemini o pitch de WhatsApp para o lead. O timeout vem
// do ctx.
func (c *Client) GetAdvice(ctx context.Context, lead entity.Lead) (entity.Advice, error) {
	prompt, err := buildPrompt(lead)
	if err != nil {
		return entity.Advice{}, err
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   adviceSchema,
	})
	if err != nil {
		return entity.Advice{}, fmt.Errorf("gemini: erro na requisição: %w", err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return entity.Advice{}, ErrEmptyResponse
	}

	var advice entity.Advice
	if err := json.Unmarshal([]byte(text), &advice); err != nil {
		return entity.Advice{}, fmt.Errorf("gemini: JSON inválido na resposta: %w", err)
	}

	c.logger.Debug("🤖 sugestão recebida do Gemini", zap.String("lead_id", lead.ID))
	return advice, nil
}

func buildPrompt(lead entity.Lead) (string, error) {
	lowIncome := "Não"
	if lead.IsLowIncomeProgram {
		lowIncome = "Sim"
	}

	data := promptData{
		Name:      lead.Name,
		BillValue: lead.BillValue.StringFixed(2),
		LowIncome: lowIncome,
		Notes:     lead.Notes,
		Savings:   EstimateSavings(lead.BillValue).StringFixed(2),
	}

	var buf bytes.Buffer
	if err := promptTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("gemini: erro ao montar prompt: %w", err)
	}
	return buf.String(), nil
}

// EstimateSavings devolve 20% do valor da conta, arredondado em centavos.
func EstimateSavings(bill decimal.Decimal) decimal.Decimal {
	return bill.Mul(savingsRate).Round(2)
}
