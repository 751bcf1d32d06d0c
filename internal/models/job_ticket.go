package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brennanwesley/jobticketinvoice-sub000/internal/crypto"
)

const (
	TicketStatusDraft     = "draft"
	TicketStatusSubmitted = "submitted"
	TicketStatusComplete  = "complete"
)

const (
	TravelOneWay    = "one_way"
	TravelRoundTrip = "round_trip"
)

// JobTicket is a field-work record submitted by a technician. Location and
// work description are encrypted at rest; clock fields hold wall-clock
// "HH:MM" strings and the hour totals are recomputed from them on write.
// Drafts carry no ticket number, so that column is indexed without a
// uniqueness constraint; the assignment loop checks for collisions.
type JobTicket struct {
	ID               uuid.UUID              `gorm:"type:char(36);primaryKey" json:"id"`
	UserID           *uuid.UUID             `gorm:"type:char(36);index" json:"user_id,omitempty"`
	CompanyID        uuid.UUID              `gorm:"type:char(36);index;not null" json:"company_id"`
	JobNumber        string                 `gorm:"size:100;index" json:"job_number,omitempty"`
	TicketNumber     string                 `gorm:"size:8;index" json:"ticket_number,omitempty"`
	CustomerName     string                 `gorm:"size:255" json:"customer_name,omitempty"`
	Location         crypto.EncryptedString `json:"location,omitempty"`
	WorkType         string                 `gorm:"size:100" json:"work_type,omitempty"`
	Equipment        string                 `gorm:"size:255" json:"equipment,omitempty"`
	WorkStartTime    string                 `gorm:"size:5" json:"work_start_time,omitempty"`
	WorkEndTime      string                 `gorm:"size:5" json:"work_end_time,omitempty"`
	WorkTotalHours   float64                `gorm:"type:decimal(6,2)" json:"work_total_hours"`
	TravelStartTime  string                 `gorm:"size:5" json:"travel_start_time,omitempty"`
	TravelEndTime    string                 `gorm:"size:5" json:"travel_end_time,omitempty"`
	TravelTotalHours float64                `gorm:"type:decimal(6,2)" json:"travel_total_hours"`
	TravelType       string                 `gorm:"size:20" json:"travel_type,omitempty"`
	PartsUsed        string                 `gorm:"type:text" json:"parts_used,omitempty"`
	WorkDescription  crypto.EncryptedString `json:"work_description,omitempty"`
	SubmittedBy      string                 `gorm:"size:255" json:"submitted_by,omitempty"`
	Status           string                 `gorm:"size:20;not null;default:draft;index" json:"status"`
	CreatedAt        time.Time              `json:"created_at"`
	UpdatedAt        time.Time              `json:"updated_at"`
}

func (t *JobTicket) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
