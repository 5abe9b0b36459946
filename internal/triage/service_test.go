package triage

import (
	"context"
	"errors"
	"testing"

	"triagebot/internal/domain"
)

type stubClassifier struct {
	result domain.Classification
}

func (s *stubClassifier) Classify(ctx context.Context, ticket domain.Ticket) domain.Classification {
	return s.result
}

type stubStore struct {
	saved  []domain.TicketRecord
	err    error
	recent []domain.TicketRecord
}

func (s *stubStore) Save(ctx context.Context, rec domain.TicketRecord) error {
	if s.err != nil {
		return s.err
	}
	s.saved = append(s.saved, rec)
	return nil
}

func (s *stubStore) Recent(ctx context.Context, limit int) ([]domain.TicketRecord, error) {
	return s.recent, nil
}

type stubNotifier struct {
	seen []domain.TicketRecord
}

func (s *stubNotifier) TicketTriaged(rec domain.TicketRecord) {
	s.seen = append(s.seen, rec)
}

func TestTriagePersistsAndNotifies(t *testing.T) {
	classification := domain.Classification{
		Summary:        "Payment processing failures",
		Category:       "Payment",
		Severity:       domain.SeverityCritical,
		KBMatch:        "ISSUE-001",
		NextStep:       "Check the gateway.",
		AnalysisSource: domain.SourceLLMWithKB,
	}
	store := &stubStore{}
	notifier := &stubNotifier{}
	svc := NewService(&stubClassifier{result: classification}, store, notifier)

	rec, err := svc.Triage(context.Background(), "", "payment failed during checkout")
	if err != nil {
		t.Fatalf("Triage failed: %v", err)
	}
	if rec.ID == "" {
		t.Fatalf("expected record id to be assigned")
	}
	if rec.ClientID != "unknown-client" {
		t.Fatalf("expected client id default, got %q", rec.ClientID)
	}
	if rec.Ticket != "payment failed during checkout" {
		t.Fatalf("record missing original ticket text: %q", rec.Ticket)
	}
	if rec.KBMatch != "ISSUE-001" || rec.Severity != domain.SeverityCritical {
		t.Fatalf("record missing classification: %+v", rec)
	}
	if len(store.saved) != 1 {
		t.Fatalf("expected one persisted record, got %d", len(store.saved))
	}
	if len(notifier.seen) != 1 || notifier.seen[0].ID != rec.ID {
		t.Fatalf("expected notifier to see the record")
	}
}

func TestTriageSurfacesStoreError(t *testing.T) {
	store := &stubStore{err: errors.New("store down, fallback disabled")}
	notifier := &stubNotifier{}
	svc := NewService(&stubClassifier{}, store, notifier)

	if _, err := svc.Triage(context.Background(), "acme", "ticket"); err == nil {
		t.Fatalf("expected store error to surface")
	}
	if len(notifier.seen) != 0 {
		t.Fatalf("must not notify when persistence failed")
	}
}

func TestTriageWithoutNotifier(t *testing.T) {
	svc := NewService(&stubClassifier{}, &stubStore{}, nil)
	if _, err := svc.Triage(context.Background(), "acme", "ticket"); err != nil {
		t.Fatalf("Triage failed: %v", err)
	}
}
