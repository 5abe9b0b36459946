package app

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"triagebot/internal/classifier"
	"triagebot/internal/config"
	"triagebot/internal/httpserver"
	"triagebot/internal/kb"
	"triagebot/internal/notify"
	"triagebot/internal/store"
	"triagebot/internal/triage"
)

func Main() {
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	cfg := config.LoadConfig()
	log.Printf(
		"Config loaded. Provider=%s Model=%s KBPath=%s Firestore=%s Fallback=%v DefaultSeverity=%s",
		cfg.LLMProvider, cfg.LLMModel, cfg.KBPath, cfg.FirestoreProjectID,
		cfg.AllowLocalFallback, cfg.DefaultSeverityLevel,
	)

	knowledge, err := kb.Load(cfg.KBPath)
	if err != nil {
		log.Fatalf("Failed to load knowledge base: %v", err)
	}

	history, err := store.InitHistoryDB(cfg.HistoryDBPath)
	if err != nil {
		log.Fatalf("Failed to init history database: %v", err)
	}
	defer history.Close()

	var docs store.DocumentStore
	if cfg.FirestoreProjectID != "" {
		fs, err := store.NewFirestoreStore(context.Background(), cfg.FirestoreProjectID, cfg.FirestoreCredentials, cfg.TicketCollection)
		if err != nil {
			log.Fatalf("Failed to init Firestore client: %v", err)
		}
		defer fs.Close()
		docs = fs
	}

	var fallback *store.FallbackLog
	if cfg.AllowLocalFallback {
		fallback = store.NewFallbackLog(cfg.FallbackPath)
	}
	tickets := store.NewTicketStore(docs, fallback, history)

	store.StartReplayScheduler(cfg.ReplaySchedule, docs, fallback)

	var notifier triage.Notifier
	if n := notify.NewSlackNotifier(cfg.SlackBotToken, cfg.AlertChannelID, cfg.AlertSeverityLevel); n != nil {
		log.Printf("Severity alerts enabled for %s+ tickets in channel %s", cfg.AlertSeverityLevel, cfg.AlertChannelID)
		notifier = n
	}

	svc := triage.NewService(classifier.New(cfg, knowledge), tickets, notifier)

	handler, err := httpserver.NewHandler(svc, cfg.APIBaseURL, cfg.RecentLimit)
	if err != nil {
		log.Fatalf("Failed to build HTTP handler: %v", err)
	}

	log.Printf("Starting ticket triage service on %s...", cfg.ListenAddr)
	if err := httpserver.Router(handler).Run(cfg.ListenAddr); err != nil {
		log.Fatalf("HTTP server error: %v", err)
	}
}
