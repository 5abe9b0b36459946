package store

import (
	"database/sql"
	"encoding/json"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"triagebot/internal/domain"
)

// InitHistoryDB opens (creating if needed) the local SQLite index that records
// every triage regardless of document-store outcome.
func InitHistoryDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	schema := `
	CREATE TABLE IF NOT EXISTS triage_history (
		id              INTEGER PRIMARY KEY AUTOINCREMENT,
		record_id       TEXT NOT NULL,
		client_id       TEXT NOT NULL,
		ticket          TEXT NOT NULL,
		summary         TEXT DEFAULT '',
		full_summary    TEXT DEFAULT '',
		category        TEXT DEFAULT '',
		severity        TEXT NOT NULL,
		kb_match        TEXT NOT NULL,
		next_step       TEXT DEFAULT '',
		analysis_source TEXT DEFAULT '',
		llm_raw         TEXT DEFAULT '',
		created_at      DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_triage_history_created_at ON triage_history(created_at);
	CREATE INDEX IF NOT EXISTS idx_triage_history_kb_match ON triage_history(kb_match);
	`
	_, err = db.Exec(schema)
	if err != nil {
		return nil, err
	}

	return db, nil
}

func InsertHistory(db *sql.DB, rec domain.TicketRecord) error {
	_, err := db.Exec(
		`INSERT INTO triage_history (record_id, client_id, ticket, summary, full_summary, category, severity, kb_match, next_step, analysis_source, llm_raw, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.ClientID, rec.Ticket, rec.Summary, rec.FullSummary, rec.Category,
		string(rec.Severity), rec.KBMatch, rec.NextStep, string(rec.AnalysisSource),
		string(rec.LLMRaw), rec.CreatedAt,
	)
	return err
}

func RecentHistory(db *sql.DB, limit int) ([]domain.TicketRecord, error) {
	rows, err := db.Query(
		`SELECT record_id, client_id, ticket, summary, full_summary, category, severity, kb_match, next_step, analysis_source, llm_raw, created_at
		 FROM triage_history ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.TicketRecord
	for rows.Next() {
		var rec domain.TicketRecord
		var severity, source, llmRaw string
		var createdAt time.Time
		if err := rows.Scan(&rec.ID, &rec.ClientID, &rec.Ticket, &rec.Summary, &rec.FullSummary,
			&rec.Category, &severity, &rec.KBMatch, &rec.NextStep, &source, &llmRaw, &createdAt); err != nil {
			return nil, err
		}
		rec.Severity = domain.Severity(severity)
		rec.AnalysisSource = domain.AnalysisSource(source)
		if llmRaw != "" {
			rec.LLMRaw = json.RawMessage(llmRaw)
		}
		rec.CreatedAt = createdAt
		records = append(records, rec)
	}
	return records, rows.Err()
}
