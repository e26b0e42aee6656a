package config

import (
	"errors"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	KeyringService       = "ecocrm"
	geminiKeyringAccount = "gemini_api_key"
)

// GeminiKeyFromKeyring devolve a chave salva no keychain do sistema, ou ""
// se não houver.
func GeminiKeyFromKeyring() string {
	key, err := keyring.Get(KeyringService, geminiKeyringAccount)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(key)
}

func SetGeminiKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return errors.New("gemini api key is empty")
	}
	return keyring.Set(KeyringService, geminiKeyringAccount, strings.TrimSpace(key))
}

func DeleteGeminiKey() error {
	return keyring.Delete(KeyringService, geminiKeyringAccount)
}
