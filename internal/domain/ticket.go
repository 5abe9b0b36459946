package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// Severity is the fixed urgency classification for a ticket. Model output is
// normalized onto this set; arbitrary strings never leave the classifier.
type Severity string

const (
	SeverityLow      Severity = "Low"
	SeverityMedium   Severity = "Medium"
	SeverityHigh     Severity = "High"
	SeverityCritical Severity = "Critical"
)

var severityRank = map[Severity]int{
	SeverityLow:      0,
	SeverityMedium:   1,
	SeverityHigh:     2,
	SeverityCritical: 3,
}

// severitySynonyms maps model vocabulary onto the fixed set.
var severitySynonyms = map[string]Severity{
	"low":      SeverityLow,
	"medium":   SeverityMedium,
	"high":     SeverityHigh,
	"urgent":   SeverityHigh,
	"critical": SeverityCritical,
	"blocker":  SeverityCritical,
}

func (s Severity) Valid() bool {
	_, ok := severityRank[s]
	return ok
}

// AtLeast reports whether s is as urgent as other. Unknown values rank lowest.
func (s Severity) AtLeast(other Severity) bool {
	return severityRank[s] >= severityRank[other]
}

// ParseSeverity parses a severity exactly (modulo case). Used for config values,
// where a typo should fail loudly instead of being silently defaulted.
func ParseSeverity(raw string) (Severity, bool) {
	raw = strings.TrimSpace(raw)
	for s := range severityRank {
		if strings.EqualFold(string(s), raw) {
			return s, true
		}
	}
	return "", false
}

// NormalizeSeverity maps arbitrary model output onto the fixed set. Empty or
// unrecognized input yields def.
func NormalizeSeverity(raw string, def Severity) Severity {
	if s, ok := severitySynonyms[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return s
	}
	return def
}

// NewIssuesBucket groups tickets that matched no knowledge-base entry.
const NewIssuesBucket = "NEW_ISSUES"

// AnalysisSource records which engine produced a classification.
type AnalysisSource string

const (
	SourceLLMWithKB  AnalysisSource = "llm+kb"
	SourceLLM        AnalysisSource = "llm"
	SourceHeuristics AnalysisSource = "heuristics"
)

const unknownClientID = "unknown-client"

type Ticket struct {
	ClientID  string
	Text      string
	CreatedAt time.Time
}

func NewTicket(clientID, text string) Ticket {
	clientID = strings.TrimSpace(clientID)
	if clientID == "" {
		clientID = unknownClientID
	}
	return Ticket{
		ClientID:  clientID,
		Text:      strings.TrimSpace(text),
		CreatedAt: time.Now().UTC(),
	}
}

type Classification struct {
	Summary        string
	FullSummary    string
	Category       string
	Severity       Severity
	KBMatch        string // KB entry id or NewIssuesBucket
	NextStep       string
	AnalysisSource AnalysisSource
	LLMRaw         json.RawMessage
}

// TicketRecord is the persisted union of a ticket and its classification. The
// same shape goes to the document store, the fallback file, and the history
// index, so an audit always sees the original text next to the verdict.
type TicketRecord struct {
	ID             string          `json:"id" firestore:"id"`
	ClientID       string          `json:"client_id" firestore:"client_id"`
	Ticket         string          `json:"ticket" firestore:"ticket"`
	Summary        string          `json:"summary" firestore:"summary"`
	FullSummary    string          `json:"full_summary,omitempty" firestore:"full_summary,omitempty"`
	Category       string          `json:"category" firestore:"category"`
	Severity       Severity        `json:"severity" firestore:"severity"`
	KBMatch        string          `json:"kb_match" firestore:"kb_match"`
	NextStep       string          `json:"next_step" firestore:"next_step"`
	AnalysisSource AnalysisSource  `json:"analysis_source" firestore:"analysis_source"`
	LLMRaw         json.RawMessage `json:"llm_raw,omitempty" firestore:"llm_raw,omitempty"`
	CreatedAt      time.Time       `json:"created_at" firestore:"created_at"`
}

func NewTicketRecord(id string, t Ticket, c Classification) TicketRecord {
	return TicketRecord{
		ID:             id,
		ClientID:       t.ClientID,
		Ticket:         t.Text,
		Summary:        c.Summary,
		FullSummary:    c.FullSummary,
		Category:       c.Category,
		Severity:       c.Severity,
		KBMatch:        c.KBMatch,
		NextStep:       c.NextStep,
		AnalysisSource: c.AnalysisSource,
		LLMRaw:         c.LLMRaw,
		CreatedAt:      t.CreatedAt,
	}
}
