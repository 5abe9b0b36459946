package store

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"triagebot/internal/domain"
)

// TicketStore routes a triaged ticket to the document store, degrading to the
// local fallback file when the store write fails (or no store is configured).
// The history index is written on every save; a history failure is logged but
// never blocks the ticket.
type TicketStore struct {
	docs     DocumentStore // nil when Firestore is not configured
	fallback *FallbackLog  // nil when local fallback is disabled
	history  *sql.DB
}

func NewTicketStore(docs DocumentStore, fallback *FallbackLog, history *sql.DB) *TicketStore {
	return &TicketStore{docs: docs, fallback: fallback, history: history}
}

func (s *TicketStore) Save(ctx context.Context, rec domain.TicketRecord) error {
	if s.history != nil {
		if err := InsertHistory(s.history, rec); err != nil {
			log.Printf("history insert failed for ticket %s: %v", rec.ID, err)
		}
	}

	var docErr error
	if s.docs != nil {
		docErr = s.docs.SaveTicket(ctx, rec)
		if docErr == nil {
			return nil
		}
		log.Printf("document store write failed for ticket %s: %v", rec.ID, docErr)
	}

	if s.fallback == nil {
		if docErr != nil {
			return fmt.Errorf("document store write failed and local fallback is disabled: %w", docErr)
		}
		return fmt.Errorf("no document store configured and local fallback is disabled")
	}

	if err := s.fallback.Append(rec); err != nil {
		return fmt.Errorf("fallback write failed for ticket %s: %w", rec.ID, err)
	}
	log.Printf("ticket %s saved to local fallback %s", rec.ID, s.fallback.Path())
	return nil
}

func (s *TicketStore) Recent(ctx context.Context, limit int) ([]domain.TicketRecord, error) {
	if s.history == nil {
		return nil, fmt.Errorf("history index not configured")
	}
	return RecentHistory(s.history, limit)
}
