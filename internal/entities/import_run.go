package entities

import "time"

type ImportStatus string

const (
	ImportStatusPending   ImportStatus = "pending"
	ImportStatusRunning   ImportStatus = "running"
	ImportStatusCompleted ImportStatus = "completed"
	ImportStatusFailed    ImportStatus = "failed"
)

// ImportRun records one pass over an export file.
type ImportRun struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	TaskID      string       `gorm:"index;size:64" json:"task_id,omitempty"`
	SourceFile  string       `gorm:"size:1024" json:"source_file"`
	Store       string       `gorm:"size:20" json:"store"`
	Trigger     string       `gorm:"size:20" json:"trigger"` // cli, upload, schedule
	Status      ImportStatus `gorm:"size:20;default:'pending'" json:"status"`
	Imported    int          `json:"imported"`
	Replaced    int          `json:"replaced"`
	Failed      int          `json:"failed"`
	Error       string       `gorm:"type:text" json:"error,omitempty"`
	StartedAt   time.Time    `json:"started_at"`
	CompletedAt *time.Time   `json:"completed_at,omitempty"`
}

func (ImportRun) TableName() string {
	return "import_runs"
}
