package classifier

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// llmVerdict is the JSON shape the model is instructed to return.
type llmVerdict struct {
	Summary      string `json:"summary"`
	Category     string `json:"category"`
	Severity     string `json:"severity"`
	KBIssueID    string `json:"kb_issue_id"`
	KBIssueTitle string `json:"kb_issue_title"`
	NextStep     string `json:"next_step"`
}

var (
	trailingCommaObject = regexp.MustCompile(`,\s*}`)
	trailingCommaArray  = regexp.MustCompile(`,\s*]`)
)

// parseVerdict parses the model response, stripping markdown fences and
// attempting a repair pass for the mangled-but-recoverable JSON smaller models
// like to emit. The raw (fence-stripped) text is returned alongside so it can
// be persisted for auditing.
func parseVerdict(responseText string) (llmVerdict, string, error) {
	responseText = strings.TrimSpace(responseText)
	responseText = strings.TrimPrefix(responseText, "```json")
	responseText = strings.TrimPrefix(responseText, "```")
	responseText = strings.TrimSuffix(responseText, "```")
	responseText = strings.TrimSpace(responseText)

	var verdict llmVerdict
	if err := json.Unmarshal([]byte(responseText), &verdict); err == nil {
		return verdict, responseText, nil
	}

	repaired := repairJSON(responseText)
	if err := json.Unmarshal([]byte(repaired), &verdict); err != nil {
		truncated := responseText
		if len(truncated) > 512 {
			truncated = truncated[:512] + fmt.Sprintf("... [truncated, total_length=%d]", len(responseText))
		}
		return llmVerdict{}, responseText, fmt.Errorf("parsing LLM response: %w (response: %s)", err, truncated)
	}
	return verdict, repaired, nil
}

// repairJSON fixes the common formatting errors: single quotes, literal
// newlines inside the object, trailing commas.
func repairJSON(text string) string {
	cleaned := strings.ReplaceAll(text, "'", `"`)
	cleaned = strings.ReplaceAll(cleaned, "\n", " ")
	cleaned = trailingCommaObject.ReplaceAllString(cleaned, "}")
	cleaned = trailingCommaArray.ReplaceAllString(cleaned, "]")
	return cleaned
}

// cleanSummary collapses whitespace runs in a model summary.
func cleanSummary(summary string) string {
	return strings.Join(strings.Fields(summary), " ")
}
