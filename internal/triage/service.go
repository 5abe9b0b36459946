// Package triage composes the pipeline behind POST /triage: classify the
// ticket, persist the record, fire the severity alert.
package triage

import (
	"context"

	"github.com/google/uuid"

	"triagebot/internal/domain"
)

type Classifier interface {
	Classify(ctx context.Context, ticket domain.Ticket) domain.Classification
}

type Store interface {
	Save(ctx context.Context, rec domain.TicketRecord) error
	Recent(ctx context.Context, limit int) ([]domain.TicketRecord, error)
}

// Notifier receives every persisted record; implementations decide whether it
// warrants an alert. Must not block the request path for long.
type Notifier interface {
	TicketTriaged(rec domain.TicketRecord)
}

type Service struct {
	classifier Classifier
	store      Store
	notifier   Notifier // nil when alerts are not configured
}

func NewService(classifier Classifier, store Store, notifier Notifier) *Service {
	return &Service{classifier: classifier, store: store, notifier: notifier}
}

func (s *Service) Triage(ctx context.Context, clientID, text string) (domain.TicketRecord, error) {
	ticket := domain.NewTicket(clientID, text)
	classification := s.classifier.Classify(ctx, ticket)
	rec := domain.NewTicketRecord(uuid.NewString(), ticket, classification)

	if err := s.store.Save(ctx, rec); err != nil {
		return domain.TicketRecord{}, err
	}

	if s.notifier != nil {
		s.notifier.TicketTriaged(rec)
	}
	return rec, nil
}

func (s *Service) Recent(ctx context.Context, limit int) ([]domain.TicketRecord, error) {
	return s.store.Recent(ctx, limit)
}
