// Package notify posts Slack alerts for high-urgency tickets.
package notify

import (
	"fmt"
	"log"

	"github.com/slack-go/slack"

	"triagebot/internal/domain"
)

type SlackNotifier struct {
	api       *slack.Client
	channelID string
	threshold domain.Severity
}

// NewSlackNotifier returns nil when token or channel is unset; alerts are an
// optional surface.
func NewSlackNotifier(token, channelID string, threshold domain.Severity) *SlackNotifier {
	if token == "" || channelID == "" {
		return nil
	}
	return &SlackNotifier{
		api:       slack.New(token),
		channelID: channelID,
		threshold: threshold,
	}
}

// TicketTriaged posts an alert when the record's severity meets the
// threshold. Fire-and-forget: errors are logged, never surfaced.
func (n *SlackNotifier) TicketTriaged(rec domain.TicketRecord) {
	if !rec.Severity.AtLeast(n.threshold) {
		return
	}
	go func() {
		_, _, err := n.api.PostMessage(n.channelID, slack.MsgOptionText(formatAlert(rec), false))
		if err != nil {
			log.Printf("Error posting severity alert for ticket %s: %v", rec.ID, err)
		} else {
			log.Printf("Posted %s severity alert for ticket %s", rec.Severity, rec.ID)
		}
	}()
}

func formatAlert(rec domain.TicketRecord) string {
	return fmt.Sprintf(
		":rotating_light: *%s* ticket from `%s`\n*%s* — %s\nKB match: `%s` | Next step: %s",
		rec.Severity, rec.ClientID, rec.Category, rec.Summary, rec.KBMatch, rec.NextStep,
	)
}
