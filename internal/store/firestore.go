// Package store persists triaged tickets: Firestore as the primary document
// store, a local JSONL file as the fallback, and a SQLite history index for
// the recent-tickets endpoint.
package store

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"

	"triagebot/internal/domain"
)

// DocumentStore writes one triaged ticket into the hierarchical store.
type DocumentStore interface {
	SaveTicket(ctx context.Context, rec domain.TicketRecord) error
}

// FirestoreStore lays records out as {collection}/{issue_id}/{severity}/{doc}:
// an issue-level metadata document per KB match (or the NEW_ISSUES bucket),
// with individual tickets in per-severity subcollections underneath.
type FirestoreStore struct {
	client     *firestore.Client
	collection string
}

func NewFirestoreStore(ctx context.Context, projectID, credentialsFile, collection string) (*FirestoreStore, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}
	return &FirestoreStore{client: client, collection: collection}, nil
}

func (s *FirestoreStore) SaveTicket(ctx context.Context, rec domain.TicketRecord) error {
	issueRef := s.client.Collection(s.collection).Doc(rec.KBMatch)

	source := "knowledge_base"
	if rec.KBMatch == domain.NewIssuesBucket {
		source = "auto_generated"
	}
	meta := map[string]interface{}{
		"issue_id":           rec.KBMatch,
		"title":              rec.Summary,
		"category":           rec.Category,
		"recommended_action": rec.NextStep,
		"source":             source,
		"updated_at":         firestore.ServerTimestamp,
	}
	if _, err := issueRef.Set(ctx, meta, firestore.MergeAll); err != nil {
		return fmt.Errorf("writing issue metadata %s: %w", rec.KBMatch, err)
	}

	if _, _, err := issueRef.Collection(string(rec.Severity)).Add(ctx, rec); err != nil {
		return fmt.Errorf("writing ticket %s under %s/%s: %w", rec.ID, rec.KBMatch, rec.Severity, err)
	}
	return nil
}

func (s *FirestoreStore) Close() error {
	return s.client.Close()
}
