package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/ecocrm/internal/config"
	"github.com/xavierca1/ecocrm/internal/infra/database"
	"github.com/xavierca1/ecocrm/internal/infra/events"
	"github.com/xavierca1/ecocrm/internal/infra/http/handlers"
	"github.com/xavierca1/ecocrm/internal/infra/http/middleware"
	"github.com/xavierca1/ecocrm/internal/infra/integration/gemini"
	"github.com/xavierca1/ecocrm/internal/infra/integration/whatsapp"
	"github.com/xavierca1/ecocrm/internal/infra/mail"
	"github.com/xavierca1/ecocrm/internal/infra/queue"
	"github.com/xavierca1/ecocrm/internal/infra/worker"
	"github.com/xavierca1/ecocrm/internal/observability"
	"github.com/xavierca1/ecocrm/internal/usecase"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "set-gemini-key" {
		if err := setGeminiKey(); err != nil {
			log.Fatalf("❌ %v", err)
		}
		fmt.Println("🔑 chave do Gemini salva no keychain")
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ configuração inválida: %v", err)
	}

	logger, err := observability.NewLogger(cfg.App.LogLevel)
	if err != nil {
		log.Fatalf("❌ erro ao criar logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	if err := run(cfg, logger); err != nil {
		logger.Fatal("❌ servidor encerrado com erro", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Store
	blobs, closeStore, err := database.OpenBlobStore(ctx, database.StoreConfig{
		Driver:      cfg.Store.Driver,
		DataDir:     cfg.Store.DataDir,
		SQLitePath:  cfg.Store.SQLitePath,
		DatabaseURL: cfg.Store.DatabaseURL,
		Redis: database.RedisConfig{
			Addr:     cfg.Store.RedisAddr,
			Password: cfg.Store.RedisPassword,
			DB:       cfg.Store.RedisDB,
		},
	}, logger)
	if err != nil {
		return err
	}
	defer closeStore() //nolint:errcheck

	leadStore := database.NewLeadStore(blobs, logger)
	repo := usecase.NewLeadRepository(ctx, leadStore, logger)

	// 2. Canais de entrega dos lembretes
	fanout := &queue.Fanout{Logger: logger, OnError: middleware.RecordIntegrationError}
	if cfg.Mail.Enabled() {
		fanout.Dispatchers = append(fanout.Dispatchers,
			mail.NewEmailSender(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.User, cfg.Mail.Pass, cfg.Mail.To))
	}
	if cfg.WhatsApp.Enabled() {
		fanout.Dispatchers = append(fanout.Dispatchers, whatsapp.NewClient(whatsapp.Config{
			AccessToken:  cfg.WhatsApp.AccessToken,
			PhoneID:      cfg.WhatsApp.PhoneID,
			BaseURL:      cfg.WhatsApp.BaseURL,
			TemplateName: cfg.WhatsApp.Template,
			SellerPhone:  cfg.WhatsApp.SellerPhone,
		}, logger))
	}

	hub := events.NewHub()
	notifiers := []worker.Notifier{hub}

	var rabbit *queue.RabbitMQ
	if cfg.RabbitMQ.URL != "" {
		rabbit, err = queue.NewRabbitMQ(cfg.RabbitMQ.URL)
		if err != nil {
			return err
		}
		defer rabbit.Close() //nolint:errcheck

		notifiers = append(notifiers, queue.NewProducer(rabbit.Ch))

		// canal próprio para o consumidor
		consumeCh, err := rabbit.Conn.Channel()
		if err != nil {
			return fmt.Errorf("falha ao abrir canal do consumidor: %w", err)
		}
		defer consumeCh.Close() //nolint:errcheck

		qw := queue.NewWorker(consumeCh, fanout, logger)
		go func() {
			if err := qw.Start(ctx, queue.QueueName); err != nil {
				logger.Error("❌ worker da fila parou", zap.Error(err))
			}
		}()
		logger.Info("🐇 lembretes passando pelo RabbitMQ", zap.String("queue", queue.QueueName))
	} else if len(fanout.Dispatchers) > 0 {
		notifiers = append(notifiers, fanout)
	}

	// 3. Worker de lembretes
	reminders := worker.NewReminderWorker(repo, cfg.Reminder.Interval, logger, notifiers...)
	reminders.OnFired = middleware.RecordRemindersFired
	go reminders.Start(ctx)

	// 4. IA
	var provider usecase.AdviceProvider
	if cfg.Advice.APIKey != "" {
		client, err := gemini.NewClient(ctx, gemini.Config{
			APIKey:  cfg.Advice.APIKey,
			Model:   cfg.Advice.Model,
			BaseURL: cfg.Advice.URL,
		}, logger)
		if err != nil {
			return err
		}
		provider = client
	} else {
		logger.Warn("⚠️ GEMINI_API_KEY ausente: sugestões da IA desativadas")
	}
	advice := usecase.NewAdviceService(provider, cfg.Advice.RatePerMinute, cfg.Advice.Timeout, logger)
	advice.OnResult = middleware.RecordAdvice

	// 5. Handlers
	leadHandler := handlers.NewLeadHandler(repo, hub, logger)
	leadHandler.OnCreated = middleware.RecordLeadCreated

	health := handlers.NewHealthHandler(leadStore, cfg.Store.Driver)
	health.LeadsLoaded = repo.Loaded
	if rabbit != nil {
		health.RabbitMQ = rabbit.Healthy
	}
	health.AdviceEnabled = advice.Enabled()
	health.MailEnabled = cfg.Mail.Enabled()
	health.WhatsAppEnabled = cfg.WhatsApp.Enabled()

	router := handlers.NewRouter(handlers.RouterDeps{
		Leads:          leadHandler,
		Dashboard:      handlers.NewDashboardHandler(repo),
		Reminders:      handlers.NewReminderHandler(reminders),
		Events:         handlers.NewEventsHandler(hub),
		Advice:         handlers.NewAdviceHandler(repo, advice, logger),
		Health:         health,
		AllowedOrigins: cfg.App.CORSAllowedOrigins,
		Logger:         logger,
	})

	srv := &http.Server{
		Addr:              cfg.App.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx }, // derruba o SSE no shutdown
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("🔥 EcoCRM rodando", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return err
	}

	logger.Info("⚠️ desligando o servidor")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// setGeminiKey lê a chave do stdin e guarda no keychain do sistema.
func setGeminiKey() error {
	fmt.Print("Cole a GEMINI_API_KEY: ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return fmt.Errorf("erro ao ler a chave: %w", err)
	}
	return config.SetGeminiKey(strings.TrimSpace(line))
}
