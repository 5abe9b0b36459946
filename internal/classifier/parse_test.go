package classifier

import (
	"strings"
	"testing"
)

func TestParseVerdictStripsFences(t *testing.T) {
	response := "```json\n{\"summary\": \"s\", \"severity\": \"High\", \"kb_issue_id\": \"ISSUE-001\"}\n```"
	verdict, raw, err := parseVerdict(response)
	if err != nil {
		t.Fatalf("parseVerdict failed: %v", err)
	}
	if verdict.KBIssueID != "ISSUE-001" || verdict.Severity != "High" {
		t.Fatalf("unexpected verdict: %+v", verdict)
	}
	if strings.Contains(raw, "```") {
		t.Fatalf("raw output should be fence-stripped: %q", raw)
	}
}

func TestParseVerdictRepairsCommonErrors(t *testing.T) {
	// Single quotes, embedded newline, trailing comma.
	response := "{'summary': 'payment is\nbroken', 'severity': 'high', 'kb_issue_id': 'ISSUE-001',}"
	verdict, _, err := parseVerdict(response)
	if err != nil {
		t.Fatalf("expected repair to succeed: %v", err)
	}
	if verdict.KBIssueID != "ISSUE-001" {
		t.Fatalf("unexpected kb id: %q", verdict.KBIssueID)
	}
	if verdict.Summary != "payment is broken" {
		t.Fatalf("unexpected summary: %q", verdict.Summary)
	}
}

func TestParseVerdictBeyondRepair(t *testing.T) {
	if _, _, err := parseVerdict("The ticket seems urgent, no JSON for you."); err == nil {
		t.Fatalf("expected parse error for prose response")
	}
}

func TestParseVerdictTruncatesErrorDetail(t *testing.T) {
	_, _, err := parseVerdict(strings.Repeat("x", 2000))
	if err == nil {
		t.Fatalf("expected parse error")
	}
	if !strings.Contains(err.Error(), "truncated") {
		t.Fatalf("expected truncated response in error, got: %v", err)
	}
}

func TestCleanSummary(t *testing.T) {
	if got := cleanSummary("  several\t spaces \n here  "); got != "several spaces here" {
		t.Fatalf("unexpected cleaned summary: %q", got)
	}
	if got := cleanSummary("   "); got != "" {
		t.Fatalf("expected empty result for whitespace, got %q", got)
	}
}

func TestBuildPrompts(t *testing.T) {
	system, user := buildPrompts("ISSUE-001: Payments", "checkout broke")
	if !strings.Contains(system, "kb_issue_id") || !strings.Contains(system, "NEW_ISSUE") {
		t.Fatalf("system prompt missing schema instructions: %s", system)
	}
	if !strings.Contains(user, "ISSUE-001: Payments") {
		t.Fatalf("user prompt missing KB context: %s", user)
	}
	if !strings.Contains(user, "checkout broke") {
		t.Fatalf("user prompt missing ticket text: %s", user)
	}
}
