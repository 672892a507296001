package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"hc-lead-agent/chat-api/internal/config"
	"hc-lead-agent/chat-api/internal/domain/chat"
	"hc-lead-agent/chat-api/internal/domain/intent"
	"hc-lead-agent/chat-api/internal/domain/lead"
	"hc-lead-agent/chat-api/internal/domain/rag"
	"hc-lead-agent/chat-api/internal/infrastructure/chroma"
	"hc-lead-agent/chat-api/internal/infrastructure/database"
	"hc-lead-agent/chat-api/internal/infrastructure/gemini"
	"hc-lead-agent/chat-api/internal/infrastructure/hubspot"
	"hc-lead-agent/chat-api/internal/infrastructure/logger"
	"hc-lead-agent/chat-api/internal/infrastructure/mailer"
	"hc-lead-agent/chat-api/internal/infrastructure/observability"
	"hc-lead-agent/chat-api/internal/infrastructure/repository/leadrepo"
	"hc-lead-agent/chat-api/internal/infrastructure/repository/transcript"
	"hc-lead-agent/chat-api/internal/infrastructure/store"
	"hc-lead-agent/chat-api/internal/interfaces/httpserver"
	"hc-lead-agent/chat-api/internal/interfaces/httpserver/handlers"
)

// Application holds the main application components.
type Application struct {
	httpServer *httpserver.HTTPServer
	log        zerolog.Logger
}

// NewApplication creates a new application instance.
func NewApplication(httpServer *httpserver.HTTPServer, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		log:        log,
	}
}

// Start runs the application until the context is cancelled.
func (a *Application) Start(ctx context.Context) error {
	return a.httpServer.Run(ctx)
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Setup observability
	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("failed to shutdown telemetry")
		}
	}()

	// Durable audit storage is optional: the chat path runs entirely on
	// the in-memory store, so a missing database degrades to no audit
	// log rather than refusing to start.
	var (
		transcripts *transcript.Repository
		leads       *leadrepo.Repository
	)
	db, err := database.Connect(database.Config{
		DSN:             cfg.DatabaseURL,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
	})
	if err != nil {
		log.Warn().Err(err).Msg("database unavailable, running without audit persistence")
	} else {
		if err := database.AutoMigrate(ctx, db, log); err != nil {
			log.Fatal().Err(err).Msg("failed to migrate database schema")
		}
		transcripts = transcript.NewRepository(db, log)
		leads = leadrepo.NewRepository(db)
	}

	// External capability clients
	geminiClient := gemini.NewClient(cfg.GeminiBaseURL, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiEmbeddingModel)
	chromaClient := chroma.NewClient(cfg.ChromaURL, cfg.ChromaCollection)
	crmClient := hubspot.NewClient(cfg.HubSpotBaseURL, cfg.HubSpotToken, log)
	leadMailer := mailer.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.CustomerCareEmail, log)

	// Conversation store with optional durable mirror
	var mirror store.Mirror
	if transcripts != nil {
		mirror = transcripts
	}
	convStore := store.NewMemoryStore(cfg.SessionExpiry, cfg.HistoryLimit, mirror, log)

	// Domain services
	classifier := intent.NewClassifier(geminiClient, log)
	pipeline := rag.NewPipeline(geminiClient, chromaClient, geminiClient, rag.Config{
		TopK:                cfg.RAGTopK,
		SimilarityThreshold: cfg.RAGSimilarityThreshold,
	}, log)

	var leadRepo lead.Repository
	if leads != nil {
		leadRepo = leads
	}
	machine := lead.NewMachine(leadMailer, leadRepo, crmClient, log)

	var transcriptRepo chat.TranscriptRepository
	if transcripts != nil {
		transcriptRepo = transcripts
	}
	chatService := chat.NewService(convStore, classifier, pipeline, machine, transcriptRepo, cfg.HistoryLimit, log)

	// HTTP layer
	handlerProvider := handlers.NewProvider(
		handlers.NewChatHandler(chatService, log),
		handlers.NewHealthHandler(cfg.ServiceName, chromaClient, log),
	)
	httpServer := httpserver.New(cfg, log, handlerProvider)

	app := NewApplication(httpServer, log)

	log.Info().
		Str("service", cfg.ServiceName).
		Int("port", cfg.HTTPPort).
		Str("environment", cfg.Environment).
		Msg("starting application")

	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

func loadEnvFiles() {
	paths := []string{".env", "../.env", "../../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
