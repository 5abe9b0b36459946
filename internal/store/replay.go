package store

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// StartReplayScheduler starts a cron-based scheduler that periodically pushes
// fallback-file records back into the document store.
// The schedule is a standard 5-field cron expression (minute hour day-of-month month day-of-week).
// Examples: "*/10 * * * *" (every 10 minutes), "0 * * * *" (hourly).
func StartReplayScheduler(schedule string, docs DocumentStore, fallback *FallbackLog) {
	schedule = strings.TrimSpace(schedule)
	if schedule == "" {
		log.Println("Fallback replay disabled (replay_schedule not set)")
		return
	}
	if docs == nil || fallback == nil {
		log.Println("Fallback replay disabled: requires both a document store and the local fallback")
		return
	}

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	sched, err := parser.Parse(schedule)
	if err != nil {
		log.Printf("Invalid replay_schedule '%s': %v — fallback replay disabled", schedule, err)
		return
	}

	log.Printf("Fallback replay scheduled (cron: %s) from %s", schedule, fallback.Path())

	go func() {
		for {
			now := time.Now()
			next := sched.Next(now)
			wait := next.Sub(now)
			log.Printf("Next fallback replay at %s (in %s)", next.Format("Mon Jan 2 15:04"), wait.Round(time.Minute))

			time.Sleep(wait)

			replayed, remaining, err := fallback.Replay(context.Background(), docs)
			if err != nil {
				log.Printf("Fallback replay error: %v", err)
			}
			if replayed > 0 || remaining > 0 {
				log.Printf("Fallback replay complete: replayed=%d remaining=%d", replayed, remaining)
			}
		}
	}()
}
