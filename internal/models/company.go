package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Company struct {
	ID             uuid.UUID  `gorm:"type:char(36);primaryKey" json:"id"`
	Name           string     `gorm:"size:255;not null;index" json:"name"`
	NormalizedName string     `gorm:"uniqueIndex;size:255;not null" json:"-"`
	Address        string     `gorm:"size:500" json:"address,omitempty"`
	Phone          string     `gorm:"size:50" json:"phone,omitempty"`
	LogoURL        string     `gorm:"size:2048" json:"logo_url,omitempty"`
	IsActive       bool       `gorm:"not null;default:true" json:"is_active"`
	CreatedBy      *uuid.UUID `gorm:"type:char(36)" json:"created_by,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (c *Company) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.NormalizedName == "" {
		c.NormalizedName = NormalizeCompanyName(c.Name)
	}
	return nil
}

// NormalizeCompanyName collapses a display name to the form used for
// uniqueness checks: lowercased with spaces, dashes, and underscores
// removed, so "Acme Pump-Service" and "acme pumpservice" collide.
func NormalizeCompanyName(name string) string {
	normalized := strings.ToLower(strings.TrimSpace(name))
	replacer := strings.NewReplacer(" ", "", "-", "", "_", "")
	return replacer.Replace(normalized)
}
