package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/ecocrm/internal/entity"
)

const (
	DefaultBaseURL  = "https://graph.facebook.com/v18.0"
	DefaultTemplate = "lembrete_retorno"
)

var ErrNotConfigured = errors.New("whatsapp não configurado")

type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.TemplateName == "" {
		cfg.TemplateName = DefaultTemplate
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
}

func (c *Client) Configured() bool {
	return c.cfg.AccessToken != "" && c.cfg.PhoneID != "" && c.cfg.SellerPhone != ""
}

func (c *Client) Name() string {
	return "whatsapp"
}

// SendReminder manda o template de lembrete para o telefone do vendedor.
func (c *Client) SendReminder(ctx context.Context, notice entity.ReminderNotice) error {
	return c.SendMessage(ctx, SendMessageInput{
		PhoneNumber:  entity.OnlyDigits(c.cfg.SellerPhone),
		TemplateName: c.cfg.TemplateName,
		Parameters: []string{
			notice.Name,
			notice.Phone,
			notice.ReturnAt.Format("02/01 15:04"),
		},
	})
}

func (c *Client) SendMessage(ctx context.Context, input SendMessageInput) error {
	if c.cfg.AccessToken == "" || c.cfg.PhoneID == "" {
		c.logger.Warn("⚠️ WhatsApp: ACCESS_TOKEN ou PHONE_ID não configurados")
		return ErrNotConfigured
	}

	payload := map[string]interface{}{
		"messaging_product": "whatsapp",
		"recipient_type":    "individual",
		"to":                input.PhoneNumber,
		"type":              "template",
		"template": map[string]interface{}{
			"name": input.TemplateName,
			"language": map[string]string{
				"code": "pt_BR",
			},
			"components": []map[string]interface{}{
				{
					"type":       "body",
					"parameters": convertParametersToAPI(input.Parameters),
				},
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("whatsapp: erro ao serializar payload: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", c.cfg.BaseURL, c.cfg.PhoneID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("whatsapp: erro ao criar requisição: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.cfg.AccessToken))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("whatsapp: erro ao enviar mensagem: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	var result SendMessageResponse
	_ = json.Unmarshal(respBody, &result)

	if result.Error != nil {
		return fmt.Errorf("whatsapp: %s (code %d)", result.Error.Message, result.Error.Code)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("whatsapp api error: %d", resp.StatusCode)
	}

	c.logger.Info("✅ WhatsApp: mensagem enviada", zap.String("to", input.PhoneNumber))
	return nil
}

func convertParametersToAPI(params []string) []map[string]string {
	result := make([]map[string]string, 0, len(params))
	for _, param := range params {
		result = append(result, map[string]string{
			"type": "text",
			"text": param,
		})
	}
	return result
}
