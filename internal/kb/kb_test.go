package kb

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testKB = `[
  {
    "id": "ISSUE-001",
    "title": "Payment processing failures",
    "category": "Payment",
    "symptoms": ["payment failed", "checkout", "error 500"],
    "recommended_action": "Check the payment gateway status page and retry the charge.",
    "severity": "High"
  },
  {
    "id": "ISSUE-002",
    "title": "Login loops after password reset",
    "category": "Authentication",
    "symptoms": ["login", "password reset", "redirect loop"],
    "recommended_action": "Clear the session cookie and re-issue the reset link.",
    "severity": "Medium"
  }
]`

func loadTestKB(t *testing.T, contents string) *KnowledgeBase {
	t.Helper()
	path := filepath.Join(t.TempDir(), "knowledge_base.json")
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("write kb file: %v", err)
	}
	knowledge, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return knowledge
}

func TestLoadAndLookup(t *testing.T) {
	knowledge := loadTestKB(t, testKB)

	if knowledge.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", knowledge.Len())
	}
	entry := knowledge.ByID(" issue-001 ")
	if entry == nil || entry.ID != "ISSUE-001" {
		t.Fatalf("case-insensitive ByID failed: %+v", entry)
	}
	if knowledge.ByID("ISSUE-999") != nil {
		t.Fatalf("expected unknown id to return nil")
	}
	if knowledge.ByID("") != nil {
		t.Fatalf("expected empty id to return nil")
	}
}

func TestLoadRejectsDuplicateIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "knowledge_base.json")
	dup := `[{"id": "ISSUE-001", "title": "a"}, {"id": "issue-001", "title": "b"}]`
	if err := os.WriteFile(path, []byte(dup), 0644); err != nil {
		t.Fatalf("write kb file: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected duplicate id error")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestMatchPicksBestScore(t *testing.T) {
	knowledge := loadTestKB(t, testKB)

	entry := knowledge.Match("Payment failed with error 500 during checkout")
	if entry == nil || entry.ID != "ISSUE-001" {
		t.Fatalf("expected ISSUE-001 match, got %+v", entry)
	}

	// One overlapping symptom each; best score wins, and a single weak hit
	// still matches.
	entry = knowledge.Match("Users hit a redirect loop on LOGIN after the password reset email")
	if entry == nil || entry.ID != "ISSUE-002" {
		t.Fatalf("expected ISSUE-002 match, got %+v", entry)
	}
}

func TestMatchNoOverlap(t *testing.T) {
	knowledge := loadTestKB(t, testKB)
	if entry := knowledge.Match("The dashboard font looks slightly off"); entry != nil {
		t.Fatalf("expected no match, got %+v", entry)
	}
}

func TestPromptContext(t *testing.T) {
	knowledge := loadTestKB(t, testKB)

	ctx := knowledge.PromptContext(0)
	if !strings.Contains(ctx, "ISSUE-001: Payment processing failures") {
		t.Fatalf("prompt context missing entry line: %s", ctx)
	}
	if !strings.Contains(ctx, "Symptoms=payment failed, checkout, error 500") {
		t.Fatalf("prompt context missing symptoms: %s", ctx)
	}

	limited := knowledge.PromptContext(1)
	if strings.Contains(limited, "ISSUE-002") {
		t.Fatalf("expected max entries to truncate context: %s", limited)
	}

	empty := &KnowledgeBase{byID: map[string]*Entry{}}
	if got := empty.PromptContext(10); got != "No knowledge base entries available." {
		t.Fatalf("unexpected empty context: %q", got)
	}
}
