package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"triagebot/internal/domain"
)

type Config struct {
	ListenAddr string `yaml:"listen_addr"`
	APIBaseURL string `yaml:"api_base_url"`

	LLMProvider       string `yaml:"llm_provider"`
	LLMModel          string `yaml:"llm_model"`
	LLMTimeoutSeconds int    `yaml:"llm_timeout_seconds"`
	AnthropicAPIKey   string `yaml:"anthropic_api_key"`
	GroqAPIKey        string `yaml:"groq_api_key"`

	KBPath          string `yaml:"kb_path"`
	KBPromptEntries int    `yaml:"kb_prompt_entries"`
	DefaultSeverity string `yaml:"default_severity"`

	FirestoreProjectID   string `yaml:"firestore_project_id"`
	FirestoreCredentials string `yaml:"firestore_credentials"`
	TicketCollection     string `yaml:"ticket_collection"`

	AllowLocalFallback bool   `yaml:"allow_local_fallback"`
	FallbackPath       string `yaml:"fallback_path"`
	ReplaySchedule     string `yaml:"replay_schedule"`

	HistoryDBPath string `yaml:"history_db_path"`
	RecentLimit   int    `yaml:"recent_limit"`

	SlackBotToken  string `yaml:"slack_bot_token"`
	AlertChannelID string `yaml:"alert_channel_id"`
	AlertSeverity  string `yaml:"alert_severity"`

	// Resolved from DefaultSeverity / AlertSeverity during LoadConfig.
	DefaultSeverityLevel domain.Severity `yaml:"-"`
	AlertSeverityLevel   domain.Severity `yaml:"-"`
}

func LoadConfig() Config {
	var cfg Config
	// yaml leaves absent fields untouched, so booleans defaulting to true are
	// pre-set before unmarshaling.
	cfg.AllowLocalFallback = true

	configPath := "config.yaml"
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		configPath = envPath
	}
	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			log.Fatalf("Error parsing %s: %v", configPath, err)
		}
		log.Printf("Loaded config from %s", configPath)
	}

	// Env vars override YAML values
	envOverride(&cfg.ListenAddr, "LISTEN_ADDR")
	envOverride(&cfg.APIBaseURL, "API_BASE_URL")
	envOverride(&cfg.LLMProvider, "LLM_PROVIDER")
	envOverride(&cfg.LLMModel, "LLM_MODEL")
	envOverrideInt(&cfg.LLMTimeoutSeconds, "LLM_TIMEOUT_SECONDS")
	envOverride(&cfg.AnthropicAPIKey, "ANTHROPIC_API_KEY")
	envOverride(&cfg.GroqAPIKey, "GROQ_API_KEY")
	envOverride(&cfg.KBPath, "KB_PATH")
	envOverrideInt(&cfg.KBPromptEntries, "KB_PROMPT_ENTRIES")
	envOverride(&cfg.DefaultSeverity, "DEFAULT_SEVERITY")
	envOverride(&cfg.FirestoreProjectID, "FIRESTORE_PROJECT_ID")
	envOverride(&cfg.FirestoreCredentials, "FIREBASE_CREDENTIALS")
	envOverride(&cfg.TicketCollection, "TICKET_COLLECTION")
	envOverrideBool(&cfg.AllowLocalFallback, "ALLOW_LOCAL_FALLBACK")
	envOverride(&cfg.FallbackPath, "FALLBACK_PATH")
	envOverride(&cfg.ReplaySchedule, "REPLAY_SCHEDULE")
	envOverride(&cfg.HistoryDBPath, "HISTORY_DB_PATH")
	envOverrideInt(&cfg.RecentLimit, "RECENT_LIMIT")
	envOverride(&cfg.SlackBotToken, "SLACK_BOT_TOKEN")
	envOverride(&cfg.AlertChannelID, "ALERT_CHANNEL_ID")
	envOverride(&cfg.AlertSeverity, "ALERT_SEVERITY")

	// Defaults
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}
	if cfg.LLMProvider == "" {
		cfg.LLMProvider = "anthropic"
	}
	if cfg.LLMTimeoutSeconds == 0 {
		cfg.LLMTimeoutSeconds = 15
	}
	if cfg.KBPath == "" {
		cfg.KBPath = "./data/knowledge_base.json"
	}
	if cfg.KBPromptEntries == 0 {
		cfg.KBPromptEntries = 20
	}
	if cfg.DefaultSeverity == "" {
		cfg.DefaultSeverity = string(domain.SeverityMedium)
	}
	if cfg.TicketCollection == "" {
		cfg.TicketCollection = "tickets"
	}
	if cfg.FallbackPath == "" {
		cfg.FallbackPath = "./data/ticket_results.jsonl"
	}
	if cfg.HistoryDBPath == "" {
		cfg.HistoryDBPath = "./triagebot.db"
	}
	if cfg.RecentLimit == 0 {
		cfg.RecentLimit = 50
	}
	if cfg.AlertSeverity == "" {
		cfg.AlertSeverity = string(domain.SeverityCritical)
	}

	// Missing credentials degrade the service instead of stopping it: no LLM
	// key means heuristics-only classification, no Firestore project means
	// fallback-file persistence. Malformed values are fatal.
	switch cfg.LLMProvider {
	case "anthropic":
		if cfg.AnthropicAPIKey == "" {
			log.Println("WARNING: anthropic_api_key not set, classification will use heuristics only")
		}
	case "groq":
		if cfg.GroqAPIKey == "" {
			log.Println("WARNING: groq_api_key not set, classification will use heuristics only")
		}
	default:
		log.Fatalf("llm_provider must be 'anthropic' or 'groq', got '%s'", cfg.LLMProvider)
	}

	severity, ok := domain.ParseSeverity(cfg.DefaultSeverity)
	if !ok {
		log.Fatalf("invalid default_severity '%s': must be one of Low, Medium, High, Critical", cfg.DefaultSeverity)
	}
	cfg.DefaultSeverityLevel = severity

	alertSeverity, ok := domain.ParseSeverity(cfg.AlertSeverity)
	if !ok {
		log.Fatalf("invalid alert_severity '%s': must be one of Low, Medium, High, Critical", cfg.AlertSeverity)
	}
	cfg.AlertSeverityLevel = alertSeverity

	if cfg.LLMTimeoutSeconds < 1 {
		log.Fatalf("invalid llm_timeout_seconds '%d': must be >= 1", cfg.LLMTimeoutSeconds)
	}
	if cfg.RecentLimit < 1 {
		log.Fatalf("invalid recent_limit '%d': must be >= 1", cfg.RecentLimit)
	}

	if cfg.FirestoreProjectID == "" {
		log.Println("WARNING: firestore_project_id not set, tickets will only be written to the local fallback file")
	}
	if (cfg.SlackBotToken == "") != (cfg.AlertChannelID == "") {
		log.Fatalf("slack_bot_token and alert_channel_id must be set together")
	}

	return cfg
}

func envOverride(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}

func envOverrideInt(field *int, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			log.Fatalf("invalid %s '%s': %v", envKey, val, err)
		}
		*field = parsed
	}
}

func envOverrideBool(field *bool, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		switch strings.ToLower(val) {
		case "1", "true", "yes":
			*field = true
		case "0", "false", "no":
			*field = false
		default:
			log.Fatalf("invalid %s '%s': expected a boolean", envKey, val)
		}
	}
}
