package store

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"triagebot/internal/domain"
)

// FallbackLog is the newline-delimited JSON file that keeps tickets when the
// document store is unreachable. Appends and replays serialize on one mutex;
// the file is small and only touched on store failures.
type FallbackLog struct {
	path string
	mu   sync.Mutex
}

func NewFallbackLog(path string) *FallbackLog {
	return &FallbackLog{path: path}
}

func (f *FallbackLog) Path() string {
	return f.path
}

func (f *FallbackLog) Append(rec domain.TicketRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
		return fmt.Errorf("creating fallback directory: %w", err)
	}
	file, err := os.OpenFile(f.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening fallback file: %w", err)
	}
	defer file.Close()

	line, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshaling ticket record: %w", err)
	}
	if _, err := file.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("appending to fallback file: %w", err)
	}
	return nil
}

// Replay pushes buffered records into the document store and rewrites the
// file with only the lines that still fail. Unparseable lines are kept
// verbatim rather than dropped.
func (f *FallbackLog) Replay(ctx context.Context, docs DocumentStore) (replayed, remaining int, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return 0, 0, nil
	}
	if err != nil {
		return 0, 0, fmt.Errorf("reading fallback file: %w", err)
	}

	var keep [][]byte
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		lineCopy := append([]byte(nil), line...)

		var rec domain.TicketRecord
		if err := json.Unmarshal(lineCopy, &rec); err != nil {
			log.Printf("fallback replay: keeping unparseable line: %v", err)
			keep = append(keep, lineCopy)
			continue
		}
		if err := docs.SaveTicket(ctx, rec); err != nil {
			log.Printf("fallback replay: ticket %s still failing: %v", rec.ID, err)
			keep = append(keep, lineCopy)
			continue
		}
		replayed++
	}
	if err := scanner.Err(); err != nil {
		return replayed, len(keep), fmt.Errorf("scanning fallback file: %w", err)
	}

	if len(keep) == 0 {
		if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
			return replayed, 0, fmt.Errorf("removing drained fallback file: %w", err)
		}
		return replayed, 0, nil
	}

	var out []byte
	for _, line := range keep {
		out = append(out, line...)
		out = append(out, '\n')
	}
	if err := os.WriteFile(f.path, out, 0644); err != nil {
		return replayed, len(keep), fmt.Errorf("rewriting fallback file: %w", err)
	}
	return replayed, len(keep), nil
}
