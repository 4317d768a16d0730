package audit

import (
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/contentmigrate/internal/entities"
)

// DefaultLimit applies when List is called without a positive limit.
const DefaultLimit = 50

// Filter narrows an event listing. Zero fields match everything.
type Filter struct {
	Type       entities.AuditEventType
	Status     entities.AuditStatus
	DocumentID string
	Since      time.Time
}

func (f Filter) apply(query *gorm.DB) *gorm.DB {
	if f.Type != "" {
		query = query.Where("event_type = ?", f.Type)
	}
	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}
	if f.DocumentID != "" {
		query = query.Where("document_id = ?", f.DocumentID)
	}
	if !f.Since.IsZero() {
		query = query.Where("created_at >= ?", f.Since)
	}
	return query
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Save stores an event, stamping CreatedAt when unset.
func (r *Repository) Save(event *entities.AuditEvent) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	return r.db.Create(event).Error
}

// List returns one page of matching events, newest first, and the total
// number of matches.
func (r *Repository) List(filter Filter, limit, offset int) ([]entities.AuditEvent, int64, error) {
	query := filter.apply(r.db.Model(&entities.AuditEvent{}))

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = DefaultLimit
	}
	if offset < 0 {
		offset = 0
	}

	var events []entities.AuditEvent
	err := query.Order("created_at DESC, id DESC").Limit(limit).Offset(offset).Find(&events).Error
	return events, total, err
}

// Purge deletes events created before the cutoff.
func (r *Repository) Purge(before time.Time) (int64, error) {
	result := r.db.Where("created_at < ?", before).Delete(&entities.AuditEvent{})
	return result.RowsAffected, result.Error
}
