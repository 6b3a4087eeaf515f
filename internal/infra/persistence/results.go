package persistence

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/lmartell/crescraper/internal/domain/entity"
	"github.com/lmartell/crescraper/internal/scraper"
)

const resultsFile = "latest_results.json"

// RunRecord is the persisted outcome of one scraping run.
type RunRecord struct {
	Results      map[string][]entity.Listing `json:"results"`
	TotalResults int                         `json:"total_results"`
	Datetime     string                      `json:"datetime"`
	// Trigger records how the run started: "manual" or "scheduled".
	Trigger string `json:"trigger"`
}

// ResultStore writes the latest run to latest_results.json in dir,
// replacing the previous run.
type ResultStore struct {
	dir string
}

func NewResultStore(dir string) *ResultStore {
	return &ResultStore{dir: dir}
}

func (s *ResultStore) Path() string {
	return filepath.Join(s.dir, resultsFile)
}

// Save overwrites the latest-results file with this run's outcome.
func (s *ResultStore) Save(results scraper.Results, ranAt time.Time, trigger string) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	record := RunRecord{
		Results:      results.BySite(),
		TotalResults: results.Total(),
		Datetime:     ranAt.Format(time.RFC3339),
		Trigger:      trigger,
	}
	raw, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.Path() + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	return os.Rename(tmp, s.Path())
}

// Load reads the last saved run. A missing file returns os.ErrNotExist.
func (s *ResultStore) Load() (*RunRecord, error) {
	raw, err := os.ReadFile(s.Path())
	if err != nil {
		return nil, err
	}
	var record RunRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.Path(), err)
	}
	return &record, nil
}
