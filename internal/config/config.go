package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config reúne toda a configuração do serviço.
type Config struct {
	App      AppConfig      `yaml:"app"`
	Store    StoreConfig    `yaml:"store"`
	Reminder ReminderConfig `yaml:"reminder"`
	Advice   AdviceConfig   `yaml:"advice"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`
	Mail     MailConfig     `yaml:"mail"`
	WhatsApp WhatsAppConfig `yaml:"whatsapp"`
}

type AppConfig struct {
	Port               string   `yaml:"port"`
	LogLevel           string   `yaml:"log_level"`
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
}

type StoreConfig struct {
	Driver        string `yaml:"driver"`
	DataDir       string `yaml:"data_dir"`
	SQLitePath    string `yaml:"sqlite_path"`
	DatabaseURL   string `yaml:"database_url"`
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
}

type ReminderConfig struct {
	Interval time.Duration `yaml:"interval"`
}

type AdviceConfig struct {
	APIKey        string        `yaml:"-"`
	Model         string        `yaml:"model"`
	URL           string        `yaml:"url"`
	Timeout       time.Duration `yaml:"timeout"`
	RatePerMinute int           `yaml:"rate_per_minute"`
}

type RabbitMQConfig struct {
	URL string `yaml:"url"`
}

type MailConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	User string `yaml:"user"`
	Pass string `yaml:"-"`
	To   string `yaml:"to"`
}

type WhatsAppConfig struct {
	AccessToken string `yaml:"-"`
	PhoneID     string `yaml:"phone_id"`
	Template    string `yaml:"template"`
	SellerPhone string `yaml:"seller_phone"`
	BaseURL     string `yaml:"base_url"`
}

var validDrivers = map[string]bool{
	"file": true, "sqlite": true, "postgres": true, "redis": true, "memory": true,
}

// Load lê o .env (se existir), as variáveis de ambiente e, por último, o
// YAML apontado por CONFIG_FILE. Segredos só vêm do ambiente ou do keyring.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "8080"),
			LogLevel:           getEnv("LOG_LEVEL", "info"),
			CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
		},
		Store: StoreConfig{
			Driver:        getEnv("STORE_DRIVER", "file"),
			DataDir:       getEnv("DATA_DIR", "./data"),
			SQLitePath:    os.Getenv("SQLITE_PATH"),
			DatabaseURL:   os.Getenv("DATABASE_URL"),
			RedisAddr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			RedisPassword: os.Getenv("REDIS_PASSWORD"),
			RedisDB:       redisDB,
		},
		Reminder: ReminderConfig{
			Interval: getEnvAsDuration("REMINDER_INTERVAL", 30*time.Second),
		},
		Advice: AdviceConfig{
			APIKey:        os.Getenv("GEMINI_API_KEY"),
			Model:         getEnv("GEMINI_MODEL", "gemini-3-flash-preview"),
			URL:           os.Getenv("GEMINI_URL"),
			Timeout:       getEnvAsDuration("ADVICE_TIMEOUT", 20*time.Second),
			RatePerMinute: getEnvAsInt("ADVICE_RATE_PER_MIN", 10),
		},
		RabbitMQ: RabbitMQConfig{
			URL: os.Getenv("RABBITMQ_URL"),
		},
		Mail: MailConfig{
			Host: os.Getenv("MAIL_HOST"),
			Port: getEnvAsInt("MAIL_PORT", 587),
			User: os.Getenv("MAIL_USER"),
			Pass: os.Getenv("MAIL_PASS"),
			To:   os.Getenv("MAIL_TO"),
		},
		WhatsApp: WhatsAppConfig{
			AccessToken: os.Getenv("WHATSAPP_ACCESS_TOKEN"),
			PhoneID:     os.Getenv("WHATSAPP_PHONE_ID"),
			Template:    os.Getenv("WHATSAPP_TEMPLATE"),
			SellerPhone: os.Getenv("SELLER_PHONE"),
			BaseURL:     os.Getenv("WHATSAPP_URL"),
		},
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := Overlay(cfg, path); err != nil {
			return nil, err
		}
	}

	if cfg.Advice.APIKey == "" {
		cfg.Advice.APIKey = GeminiKeyFromKeyring()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Overlay aplica por cima os campos presentes no YAML.
func Overlay(cfg *Config, path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("erro ao ler CONFIG_FILE: %w", err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return fmt.Errorf("CONFIG_FILE inválido: %w", err)
	}
	return nil
}

func (c *Config) Validate() error {
	if !validDrivers[c.Store.Driver] {
		return fmt.Errorf("STORE_DRIVER inválido: %q", c.Store.Driver)
	}
	if c.Store.Driver == "postgres" && c.Store.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL é obrigatório com STORE_DRIVER=postgres")
	}
	if c.Reminder.Interval <= 0 {
		return fmt.Errorf("REMINDER_INTERVAL deve ser positivo")
	}
	return nil
}

func (a AppConfig) Addr() string {
	return ":" + a.Port
}

func (m MailConfig) Enabled() bool {
	return m.Host != "" && m.To != ""
}

func (w WhatsAppConfig) Enabled() bool {
	return w.AccessToken != "" && w.PhoneID != "" && w.SellerPhone != ""
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
