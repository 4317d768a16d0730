package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mrlokans/contentmigrate/internal/importers"
)

// DefaultDir is where run logs go when no directory is configured.
const DefaultDir = "./logs"

const timestampLayout = "20060102-150405"

// Auditor writes the per-run JSON logs of an import.
type Auditor struct {
	Dir string
	now func() time.Time
}

func NewAuditor(dir string) *Auditor {
	if dir == "" {
		dir = DefaultDir
	}
	return &Auditor{Dir: dir, now: time.Now}
}

// SaveRun writes successful-imports-<ts>.json and failed-imports-<ts>.json,
// plus updated-posts-<ts>.json when posts were replaced. The timestamp is the
// report's finish time. Returns the paths written.
func (a *Auditor) SaveRun(report importers.Report) ([]string, error) {
	if err := os.MkdirAll(a.Dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	at := report.FinishedAt
	if at.IsZero() {
		at = a.now()
	}
	ts := at.Format(timestampLayout)

	files := []struct {
		name    string
		entries []importers.Entry
		always  bool
	}{
		{"successful-imports", report.Successful, true},
		{"failed-imports", report.Failed, true},
		{"updated-posts", report.Replaced, false},
	}

	var written []string
	for _, f := range files {
		if !f.always && len(f.entries) == 0 {
			continue
		}
		path := filepath.Join(a.Dir, fmt.Sprintf("%s-%s.json", f.name, ts))
		if err := a.SaveJSON(path, f.entries); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

// SaveJSON writes data as indented JSON to path. Nil slices are written as
// empty arrays.
func (a *Auditor) SaveJSON(path string, entries []importers.Entry) error {
	if entries == nil {
		entries = []importers.Entry{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return nil
}
