package whatsapp

type Config struct {
	AccessToken  string
	PhoneID      string
	BaseURL      string
	TemplateName string // Ex: "lembrete_retorno"
	SellerPhone  string // quem recebe os lembretes
}

type SendMessageInput struct {
	PhoneNumber  string   // Ex: "5511999999999"
	TemplateName string   // Ex: "lembrete_retorno"
	Parameters   []string // Ex: []string{"Maria", "10/03 14:30"}
}

type SendMessageResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
	Contacts []struct {
		Input string `json:"input"`
		WaID  string `json:"wa_id"`
	} `json:"contacts"`
	Error *ErrorResponse `json:"error"`
}

type ErrorResponse struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
	Type    string `json:"type"`
}
