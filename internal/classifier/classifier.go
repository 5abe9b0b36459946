// Package classifier turns a raw support ticket into a normalized
// classification. The model does the reasoning; the knowledge base grounds
// the prompt and backstops the answer; keyword heuristics keep the service
// answering when both are unavailable.
package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"triagebot/internal/config"
	"triagebot/internal/domain"
	"triagebot/internal/kb"
)

const defaultNextStep = "Investigate and escalate to support."
const defaultCategory = "General"
const summaryMaxChars = 80

// callFunc performs one model round-trip. Swappable in tests.
type callFunc func(ctx context.Context, systemPrompt, userPrompt string) (string, Usage, error)

type Classifier struct {
	knowledge       *kb.KnowledgeBase
	promptEntries   int
	defaultSeverity domain.Severity
	timeout         time.Duration
	provider        string
	model           string
	call            callFunc
}

func New(cfg config.Config, knowledge *kb.KnowledgeBase) *Classifier {
	c := &Classifier{
		knowledge:       knowledge,
		promptEntries:   cfg.KBPromptEntries,
		defaultSeverity: cfg.DefaultSeverityLevel,
		timeout:         time.Duration(cfg.LLMTimeoutSeconds) * time.Second,
		provider:        cfg.LLMProvider,
	}

	switch cfg.LLMProvider {
	case "groq":
		c.model = cfg.LLMModel
		if c.model == "" {
			c.model = defaultGroqModel
		}
		if key := cfg.GroqAPIKey; key != "" {
			c.call = func(ctx context.Context, systemPrompt, userPrompt string) (string, Usage, error) {
				return callGroq(ctx, key, c.model, systemPrompt, userPrompt)
			}
		}
	default:
		c.model = cfg.LLMModel
		if c.model == "" {
			c.model = defaultAnthropicModel
		}
		if key := cfg.AnthropicAPIKey; key != "" {
			c.call = func(ctx context.Context, systemPrompt, userPrompt string) (string, Usage, error) {
				return callAnthropic(ctx, key, c.model, systemPrompt, userPrompt)
			}
		}
	}
	return c
}

// Classify runs the triage pipeline: model verdict, KB resolution, then field
// composition with heuristic backstops. It never fails for a non-empty
// ticket; a broken model call just degrades the analysis source.
func (c *Classifier) Classify(ctx context.Context, ticket domain.Ticket) domain.Classification {
	verdict, raw, ok := c.modelVerdict(ctx, ticket.Text)

	// Resolve the KB entry the model named; fall back to symptom matching.
	entry := c.knowledge.ByID(verdict.KBIssueID)
	if entry == nil {
		entry = c.knowledge.Match(ticket.Text)
	}

	kbMatch := domain.NewIssuesBucket
	if entry != nil {
		kbMatch = entry.ID
	}

	fullSummary := cleanSummary(verdict.Summary)
	summary := fullSummary
	if summary == "" && entry != nil {
		summary = entry.Title
	}
	if summary == "" {
		summary = truncate(ticket.Text, summaryMaxChars)
	}

	category := strings.TrimSpace(verdict.Category)
	if category == "" && entry != nil {
		category = entry.Category
	}
	if category == "" {
		category = defaultCategory
	}

	severity := c.resolveSeverity(verdict.Severity, entry, ticket.Text, ok)

	nextStep := strings.TrimSpace(verdict.NextStep)
	if nextStep == "" && entry != nil {
		nextStep = entry.RecommendedAction
	}
	if nextStep == "" {
		nextStep = defaultNextStep
	}

	source := domain.SourceHeuristics
	if ok && entry != nil {
		source = domain.SourceLLMWithKB
	} else if ok {
		source = domain.SourceLLM
	}

	var llmRaw json.RawMessage
	if ok {
		llmRaw = json.RawMessage(raw)
	}

	return domain.Classification{
		Summary:        summary,
		FullSummary:    fullSummary,
		Category:       category,
		Severity:       severity,
		KBMatch:        kbMatch,
		NextStep:       nextStep,
		AnalysisSource: source,
		LLMRaw:         llmRaw,
	}
}

// modelVerdict calls the configured provider and parses its JSON. ok is false
// when no provider is configured, the call failed, or the JSON was beyond
// repair.
func (c *Classifier) modelVerdict(ctx context.Context, text string) (llmVerdict, string, bool) {
	if c.call == nil {
		return llmVerdict{}, "", false
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	systemPrompt, userPrompt := buildPrompts(c.knowledge.PromptContext(c.promptEntries), text)
	log.Printf("llm triage provider=%s model=%s ticket_chars=%d", c.provider, c.model, len(text))

	responseText, usage, err := c.call(ctx, systemPrompt, userPrompt)
	if err != nil {
		log.Printf("llm triage failed, falling back to heuristics: %v", err)
		return llmVerdict{}, "", false
	}

	verdict, raw, err := parseVerdict(responseText)
	if err != nil {
		log.Printf("llm triage unparseable, falling back to heuristics: %v", err)
		return llmVerdict{}, "", false
	}
	log.Printf("llm triage parsed kb_issue_id=%s severity=%s tokens=%d", verdict.KBIssueID, verdict.Severity, usage.TotalTokens())
	return verdict, raw, true
}

func (c *Classifier) resolveSeverity(raw string, entry *kb.Entry, text string, fromModel bool) domain.Severity {
	if fromModel && strings.TrimSpace(raw) != "" {
		return domain.NormalizeSeverity(raw, c.defaultSeverity)
	}
	if entry != nil {
		if s, valid := domain.ParseSeverity(entry.Severity); valid {
			return s
		}
	}
	return inferSeverity(text, c.defaultSeverity)
}

var highSeverityHints = []string{
	"crash", "down", "outage", "failed", "cannot", "error", "not working", "unavailable", "data loss",
}

var lowSeverityHints = []string{"slow", "request", "question", "how do i", "feature"}

// inferSeverity is the keyword backstop used when neither the model nor the
// knowledge base supplied a severity.
func inferSeverity(text string, def domain.Severity) domain.Severity {
	lower := strings.ToLower(text)
	for _, hint := range highSeverityHints {
		if strings.Contains(lower, hint) {
			return domain.SeverityHigh
		}
	}
	for _, hint := range lowSeverityHints {
		if strings.Contains(lower, hint) {
			return domain.SeverityLow
		}
	}
	return def
}

func buildPrompts(kbContext, ticketText string) (string, string) {
	systemPrompt := `You are an expert IT support ticket classifier.
Use the knowledge base entries to pick the closest issue ID.
Always respond with strict JSON containing these keys:
summary (string), category (string), severity (Critical|High|Medium|Low),
kb_issue_id (string, one of the provided KB IDs or "NEW_ISSUE"),
kb_issue_title (string), next_step (string with the best recommended action).

Respond with JSON only (no markdown).`

	userPrompt := fmt.Sprintf(`Knowledge Base Entries:
%s

Ticket to Analyze:
%s

Return ONLY JSON. Choose kb_issue_id from the KB list when possible; otherwise respond with "NEW_ISSUE".`, kbContext, ticketText)

	return systemPrompt, userPrompt
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
