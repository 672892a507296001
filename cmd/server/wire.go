//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"hc-lead-agent/chat-api/internal/config"
	"hc-lead-agent/chat-api/internal/domain/chat"
	"hc-lead-agent/chat-api/internal/domain/conversation"
	"hc-lead-agent/chat-api/internal/domain/intent"
	"hc-lead-agent/chat-api/internal/domain/lead"
	"hc-lead-agent/chat-api/internal/domain/rag"
	"hc-lead-agent/chat-api/internal/infrastructure/chroma"
	"hc-lead-agent/chat-api/internal/infrastructure/database"
	"hc-lead-agent/chat-api/internal/infrastructure/gemini"
	"hc-lead-agent/chat-api/internal/infrastructure/hubspot"
	"hc-lead-agent/chat-api/internal/infrastructure/mailer"
	"hc-lead-agent/chat-api/internal/infrastructure/repository/leadrepo"
	"hc-lead-agent/chat-api/internal/infrastructure/repository/transcript"
	"hc-lead-agent/chat-api/internal/infrastructure/store"
	"hc-lead-agent/chat-api/internal/interfaces/httpserver"
	"hc-lead-agent/chat-api/internal/interfaces/httpserver/handlers"
)

// ProviderSet is the wire provider set for the application.
var ProviderSet = wire.NewSet(
	// Infrastructure providers
	ProvideDatabase,
	ProvideGeminiClient,
	ProvideChromaClient,
	ProvideCRM,
	ProvideNotifier,
	ProvideTranscriptRepository,
	ProvideLeadRepository,
	ProvideConversationStore,

	// Domain providers
	ProvideClassifier,
	ProvidePipeline,
	ProvideMachine,
	ProvideChatService,

	// Interface providers
	ProvideChatHandler,
	ProvideHealthHandler,
	handlers.NewProvider,
	httpserver.New,

	// Application
	NewApplication,
)

// ProvideDatabase provides the GORM connection.
func ProvideDatabase(cfg *config.Config) (*gorm.DB, error) {
	return database.Connect(database.Config{
		DSN:             cfg.DatabaseURL,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
	})
}

// ProvideGeminiClient provides the Gemini API client.
func ProvideGeminiClient(cfg *config.Config) *gemini.Client {
	return gemini.NewClient(cfg.GeminiBaseURL, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiEmbeddingModel)
}

// ProvideChromaClient provides the Chroma vector store client.
func ProvideChromaClient(cfg *config.Config) *chroma.Client {
	return chroma.NewClient(cfg.ChromaURL, cfg.ChromaCollection)
}

// ProvideCRM provides the HubSpot CRM client.
func ProvideCRM(cfg *config.Config, log zerolog.Logger) lead.CRM {
	return hubspot.NewClient(cfg.HubSpotBaseURL, cfg.HubSpotToken, log)
}

// ProvideNotifier provides the SMTP lead notifier.
func ProvideNotifier(cfg *config.Config, log zerolog.Logger) lead.Notifier {
	return mailer.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.CustomerCareEmail, log)
}

// ProvideTranscriptRepository provides the durable transcript store.
func ProvideTranscriptRepository(db *gorm.DB, log zerolog.Logger) *transcript.Repository {
	return transcript.NewRepository(db, log)
}

// ProvideLeadRepository provides the durable lead store.
func ProvideLeadRepository(db *gorm.DB) lead.Repository {
	return leadrepo.NewRepository(db)
}

// ProvideConversationStore provides the in-memory conversation store.
func ProvideConversationStore(cfg *config.Config, transcripts *transcript.Repository, log zerolog.Logger) conversation.Store {
	return store.NewMemoryStore(cfg.SessionExpiry, cfg.HistoryLimit, transcripts, log)
}

// ProvideClassifier provides the intent classifier.
func ProvideClassifier(llm *gemini.Client, log zerolog.Logger) *intent.Classifier {
	return intent.NewClassifier(llm, log)
}

// ProvidePipeline provides the retrieval pipeline.
func ProvidePipeline(llm *gemini.Client, retriever *chroma.Client, cfg *config.Config, log zerolog.Logger) *rag.Pipeline {
	return rag.NewPipeline(llm, retriever, llm, rag.Config{
		TopK:                cfg.RAGTopK,
		SimilarityThreshold: cfg.RAGSimilarityThreshold,
	}, log)
}

// ProvideMachine provides the qualification machine.
func ProvideMachine(notifier lead.Notifier, repo lead.Repository, crm lead.CRM, log zerolog.Logger) *lead.Machine {
	return lead.NewMachine(notifier, repo, crm, log)
}

// ProvideChatService provides the turn orchestrator.
func ProvideChatService(
	convStore conversation.Store,
	classifier *intent.Classifier,
	pipeline *rag.Pipeline,
	machine *lead.Machine,
	transcripts *transcript.Repository,
	cfg *config.Config,
	log zerolog.Logger,
) *chat.Service {
	return chat.NewService(convStore, classifier, pipeline, machine, transcripts, cfg.HistoryLimit, log)
}

// ProvideChatHandler provides the chat HTTP handler.
func ProvideChatHandler(service *chat.Service, log zerolog.Logger) *handlers.ChatHandler {
	return handlers.NewChatHandler(service, log)
}

// ProvideHealthHandler provides the health HTTP handler.
func ProvideHealthHandler(cfg *config.Config, kb *chroma.Client, log zerolog.Logger) *handlers.HealthHandler {
	return handlers.NewHealthHandler(cfg.ServiceName, kb, log)
}

// CreateApplication creates the application with all dependencies wired.
func CreateApplication(cfg *config.Config, log zerolog.Logger) (*Application, error) {
	wire.Build(ProviderSet)
	return nil, nil
}
