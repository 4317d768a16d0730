package importers

import (
	"time"

	"github.com/mrlokans/contentmigrate/internal/richtext"
)

// Entry describes the outcome for one item.
type Entry struct {
	Title      string        `json:"title"`
	Slug       string        `json:"slug,omitempty"`
	DocumentID string        `json:"documentId,omitempty"`
	ReplacedID string        `json:"replacedId,omitempty"`
	Message    string        `json:"message,omitempty"`
	Mode       richtext.Mode `json:"conversionMode,omitempty"`
	Blocks     int           `json:"blocks,omitempty"`
	Timestamp  time.Time     `json:"timestamp"`
}

// Report collects the outcome of a run in processing order.
type Report struct {
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
	Total      int       `json:"total"`
	DryRun     bool      `json:"dryRun,omitempty"`
	// Canceled is set when the context ended before every item was seen.
	Canceled bool `json:"canceled,omitempty"`

	Successful []Entry `json:"successful"`
	Failed     []Entry `json:"failed"`
	Replaced   []Entry `json:"replaced"`
}

func (r *Report) Imported() int { return len(r.Successful) }

func (r *Report) ReplacedCount() int { return len(r.Replaced) }

func (r *Report) FailedCount() int { return len(r.Failed) }
