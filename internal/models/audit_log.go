package models

import (
	"time"

	"github.com/google/uuid"
)

// AuditLog records a user action within a company. Details holds optional
// structured context as a JSON document.
type AuditLog struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      *uuid.UUID `gorm:"type:char(36);index" json:"user_id,omitempty"`
	CompanyID   uuid.UUID  `gorm:"type:char(36);index;not null" json:"company_id"`
	Action      string     `gorm:"size:100;index;not null" json:"action"`
	Category    string     `gorm:"size:50;index;not null" json:"category"`
	Description string     `gorm:"size:1000" json:"description,omitempty"`
	Details     string     `gorm:"type:text" json:"details,omitempty"`
	TargetID    string     `gorm:"size:100;index" json:"target_id,omitempty"`
	TargetType  string     `gorm:"size:50;index" json:"target_type,omitempty"`
	IPAddress   string     `gorm:"size:45" json:"ip_address,omitempty"`
	UserAgent   string     `gorm:"size:1000" json:"user_agent,omitempty"`
	Timestamp   time.Time  `gorm:"index;not null" json:"timestamp"`
}
