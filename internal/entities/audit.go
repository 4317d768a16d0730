package entities

import "time"

type AuditEventType string

const (
	AuditEventImport  AuditEventType = "import"
	AuditEventReplace AuditEventType = "replace"
	AuditEventConvert AuditEventType = "convert"
	AuditEventCleanup AuditEventType = "cleanup"
)

// AuditEventTypes lists every type in the order the API documents them.
var AuditEventTypes = []AuditEventType{AuditEventImport, AuditEventReplace, AuditEventConvert, AuditEventCleanup}

type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusFailed  AuditStatus = "failed"
)

// AuditEvent is one entry of the migration trail: an import run, a post that
// was deleted and recreated, an API conversion or a retention cleanup.
type AuditEvent struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	EventType AuditEventType `gorm:"index;size:32" json:"event_type"`
	Action    string         `gorm:"size:64" json:"action"` // cli_import, post_replace, api_convert
	Summary   string         `gorm:"size:500" json:"summary"`
	// Source is the export file an import or replace came from.
	Source string `gorm:"size:255" json:"source,omitempty"`
	// DocumentID is the content-store document the event touched.
	DocumentID string      `gorm:"index;size:128" json:"document_id,omitempty"`
	Details    string      `gorm:"type:text" json:"details,omitempty"` // JSON
	Status     AuditStatus `gorm:"index;size:16" json:"status"`
	Error      string      `gorm:"size:500" json:"error,omitempty"`
	CreatedAt  time.Time   `gorm:"index" json:"created_at"`
}

func (AuditEvent) TableName() string {
	return "audit_events"
}
