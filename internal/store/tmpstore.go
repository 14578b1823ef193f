package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// TmpStore is the per-run intermediate file store (.tmp/). Each pipeline
// stage writes one JSON document here and the next stage reads it, so
// every stage is independently re-runnable from the CLI.
type TmpStore struct {
	dir string
}

const (
	NewsFile     = "news.json"
	MarketFile   = "market_data.json"
	IPOFile      = "ipo_data.json"
	EarningsFile = "earnings_calendar.json"
	HTMLFile     = "email_content.html"
	RunLogFile   = "run_log.json"
)

func NewTmpStore(dir string) *TmpStore {
	return &TmpStore{dir: dir}
}

func (s *TmpStore) Path(name string) string {
	return filepath.Join(s.dir, name)
}

// WriteJSON persists v as indented JSON, creating the directory on demand.
func (s *TmpStore) WriteJSON(name string, v any) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.Path(name), b, 0o644)
}

// ReadJSON loads a stage document into v. A missing file is an error:
// the caller decides whether that stage is optional.
func (s *TmpStore) ReadJSON(name string, v any) error {
	b, err := os.ReadFile(s.Path(name))
	if err != nil {
		return fmt.Errorf("read %s: %w", s.Path(name), err)
	}
	return json.Unmarshal(b, v)
}

func (s *TmpStore) WriteHTML(html string) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.Path(HTMLFile), []byte(html), 0o644)
}

func (s *TmpStore) ReadHTML() (string, error) {
	b, err := os.ReadFile(s.Path(HTMLFile))
	if err != nil {
		return "", err
	}
	return string(b), nil
}
