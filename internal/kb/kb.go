// Package kb holds the static knowledge base: a JSON table of known issues
// loaded once at startup and read-only afterwards.
package kb

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
)

type Entry struct {
	ID                string   `json:"id"`
	Title             string   `json:"title"`
	Category          string   `json:"category"`
	Symptoms          []string `json:"symptoms"`
	RecommendedAction string   `json:"recommended_action"`
	Severity          string   `json:"severity"`
}

type KnowledgeBase struct {
	entries []Entry
	byID    map[string]*Entry
}

func Load(path string) (*KnowledgeBase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read knowledge base: %w", err)
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse knowledge base json: %w", err)
	}

	kb := &KnowledgeBase{
		entries: entries,
		byID:    make(map[string]*Entry, len(entries)),
	}
	for i := range kb.entries {
		entry := &kb.entries[i]
		id := normalizeToken(entry.ID)
		if id == "" {
			return nil, fmt.Errorf("knowledge base entry %d has no id", i)
		}
		if _, exists := kb.byID[id]; exists {
			return nil, fmt.Errorf("duplicate knowledge base id %q", entry.ID)
		}
		kb.byID[id] = entry
	}

	log.Printf("Loaded %d knowledge base entries from %s", len(entries), path)
	return kb, nil
}

func (kb *KnowledgeBase) Len() int {
	return len(kb.entries)
}

// ByID looks up an entry by id, case-insensitively. Returns nil when the id is
// empty or unknown.
func (kb *KnowledgeBase) ByID(id string) *Entry {
	return kb.byID[normalizeToken(id)]
}

// Match scores every entry by how many of its symptom keywords appear in the
// ticket text and returns the best-scoring entry, or nil when nothing overlaps.
func (kb *KnowledgeBase) Match(text string) *Entry {
	text = strings.ToLower(text)

	var best *Entry
	bestScore := 0
	for i := range kb.entries {
		entry := &kb.entries[i]
		score := 0
		for _, symptom := range entry.Symptoms {
			symptom = normalizeToken(symptom)
			if symptom != "" && strings.Contains(text, symptom) {
				score++
			}
		}
		if score > bestScore {
			best = entry
			bestScore = score
		}
	}
	return best
}

// PromptContext formats up to maxEntries entries as one-line rows for
// embedding into the classifier prompt.
func (kb *KnowledgeBase) PromptContext(maxEntries int) string {
	if len(kb.entries) == 0 {
		return "No knowledge base entries available."
	}

	var rows strings.Builder
	for i, entry := range kb.entries {
		if maxEntries > 0 && i >= maxEntries {
			break
		}
		symptoms := strings.Join(entry.Symptoms, ", ")
		if symptoms == "" {
			symptoms = "(no symptoms listed)"
		}
		rows.WriteString(fmt.Sprintf("%s: %s | Category=%s | Symptoms=%s | Recommended Action=%s\n",
			entry.ID, entry.Title, entry.Category, symptoms, entry.RecommendedAction))
	}
	return strings.TrimRight(rows.String(), "\n")
}

func normalizeToken(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
