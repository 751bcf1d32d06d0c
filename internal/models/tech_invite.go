package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	InviteStatusPending   = "pending"
	InviteStatusAccepted  = "accepted"
	InviteStatusExpired   = "expired"
	InviteStatusCancelled = "cancelled"
)

// TechInvite is a manager-issued, time-bound invitation for a field
// technician to create an account under the manager's company.
type TechInvite struct {
	ID        uuid.UUID  `gorm:"type:char(36);primaryKey" json:"invite_id"`
	TechName  string     `gorm:"size:255;not null" json:"tech_name"`
	Email     string     `gorm:"size:255;index;not null" json:"email"`
	Phone     string     `gorm:"size:50" json:"phone,omitempty"`
	CompanyID uuid.UUID  `gorm:"type:char(36);index;not null" json:"company_id"`
	Status    string     `gorm:"size:20;not null;default:pending;index" json:"status"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
	CreatedBy uuid.UUID  `gorm:"type:char(36);not null" json:"created_by"`
	CreatedAt time.Time  `json:"created_at"`
}

func (i *TechInvite) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

func (i *TechInvite) IsExpired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}

// IsValid reports whether the invite can still be redeemed.
func (i *TechInvite) IsValid(now time.Time) bool {
	return i.Status == InviteStatusPending && !i.IsExpired(now)
}
