package http

import (
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/contentmigrate/internal/database/audit"
	"github.com/mrlokans/contentmigrate/internal/entities"
)

type AuditController struct {
	audit AuditLog
}

func NewAuditController(audit AuditLog) *AuditController {
	return &AuditController{audit: audit}
}

// GetAuditEvents handles GET /api/audit
// Query: type, status, document_id, since (RFC3339 or YYYY-MM-DD), limit, offset.
func (ac *AuditController) GetAuditEvents(c *gin.Context) {
	filter, err := parseAuditFilter(c)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	limit, offset := parsePagination(c, 25, 100)

	events, total, err := ac.audit.GetEvents(filter, limit, offset)
	if err != nil {
		respondInternalError(c, err, "load audit events")
		return
	}
	if events == nil {
		events = []entities.AuditEvent{}
	}

	c.JSON(http.StatusOK, newPaginatedResponse(events, total, limit, offset))
}

type auditFilterError string

func (e auditFilterError) Error() string { return string(e) }

func parseAuditFilter(c *gin.Context) (audit.Filter, error) {
	filter := audit.Filter{
		Type:       entities.AuditEventType(c.Query("type")),
		Status:     entities.AuditStatus(c.Query("status")),
		DocumentID: c.Query("document_id"),
	}

	if filter.Type != "" && !slices.Contains(entities.AuditEventTypes, filter.Type) {
		return filter, auditFilterError("unknown event type: " + string(filter.Type))
	}
	switch filter.Status {
	case "", entities.AuditStatusSuccess, entities.AuditStatusFailed:
	default:
		return filter, auditFilterError("unknown status: " + string(filter.Status))
	}

	if since := c.Query("since"); since != "" {
		t, err := time.Parse(time.RFC3339, since)
		if err != nil {
			t, err = time.Parse(time.DateOnly, since)
		}
		if err != nil {
			return filter, auditFilterError("since must be RFC3339 or YYYY-MM-DD")
		}
		filter.Since = t
	}

	return filter, nil
}
