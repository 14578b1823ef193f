package store

import (
	"encoding/json"
	"errors"
	"os"
	"time"

	"market-brief/internal/types"
)

const maxRunRecords = 30

// AppendRun appends one run record to .tmp/run_log.json, keeping only the
// most recent 30 runs. A corrupt existing log is discarded, not fatal.
func (s *TmpStore) AppendRun(status string, steps []types.StepRecord, runErr string) error {
	var existing []types.RunRecord
	if b, err := os.ReadFile(s.Path(RunLogFile)); err == nil {
		_ = json.Unmarshal(b, &existing)
	}

	existing = append(existing, types.RunRecord{
		Timestamp: time.Now().UTC(),
		Status:    status,
		Steps:     steps,
		Error:     runErr,
	})
	if len(existing) > maxRunRecords {
		existing = existing[len(existing)-maxRunRecords:]
	}
	return s.WriteJSON(RunLogFile, existing)
}

// ReadRuns returns the recorded runs, oldest first.
func (s *TmpStore) ReadRuns() ([]types.RunRecord, error) {
	var runs []types.RunRecord
	if err := s.ReadJSON(RunLogFile, &runs); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return runs, err
	}
	return runs, nil
}
