// Package audit writes company-scoped audit trail entries. Recording is
// best-effort: a failed insert is logged and never fails the request that
// triggered it.
package audit

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brennanwesley/jobticketinvoice-sub000/internal/models"
)

const (
	CategorySecurity   = "security"
	CategoryUser       = "user"
	CategoryCompany    = "company"
	CategoryTechnician = "technician"
	CategoryTicket     = "job_ticket"
	CategoryInvoice    = "invoice"
	CategorySystem     = "system"
)

type Recorder struct {
	DB *gorm.DB
}

func NewRecorder(db *gorm.DB) *Recorder {
	return &Recorder{DB: db}
}

// Event describes one audit entry. TargetID/TargetType identify what was
// acted upon; Details is marshalled to JSON when present.
type Event struct {
	Action      string
	Category    string
	Description string
	Details     map[string]interface{}
	TargetID    string
	TargetType  string
}

// Record persists an event attributed to the request's user and company.
// Client address and user agent are lifted from the gin context.
func (r *Recorder) Record(c *gin.Context, userID *uuid.UUID, companyID uuid.UUID, event Event) {
	details := ""
	if len(event.Details) > 0 {
		raw, err := json.Marshal(event.Details)
		if err == nil {
			details = string(raw)
		}
	}

	entry := models.AuditLog{
		UserID:      userID,
		CompanyID:   companyID,
		Action:      event.Action,
		Category:    event.Category,
		Description: event.Description,
		Details:     details,
		TargetID:    event.TargetID,
		TargetType:  event.TargetType,
		IPAddress:   c.ClientIP(),
		UserAgent:   c.Request.UserAgent(),
		Timestamp:   time.Now().UTC(),
	}
	if entry.Description == "" {
		entry.Description = event.Action + " - " + event.Category
	}

	if err := r.DB.Create(&entry).Error; err != nil {
		log.Printf("audit record error: %v", err)
	}
}
