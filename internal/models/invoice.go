package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brennanwesley/jobticketinvoice-sub000/internal/billing"
	"github.com/brennanwesley/jobticketinvoice-sub000/internal/crypto"
)

const (
	InvoiceStatusDraft = "draft"
	InvoiceStatusSent  = "sent"
	InvoiceStatusPaid  = "paid"
)

// LineItemList stores invoice line items as an encrypted JSON column.
type LineItemList []billing.LineItem

func (l LineItemList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "", nil
	}
	raw, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return crypto.Encrypt(string(raw))
}

func (l *LineItemList) Scan(src interface{}) error {
	var raw string
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("cannot scan %T into LineItemList", src)
	}

	if raw == "" {
		*l = nil
		return nil
	}

	plaintext, err := crypto.Decrypt(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(plaintext), l)
}

func (LineItemList) GormDataType() string {
	return "text"
}

// Invoice carries server-computed totals. Whatever totals a client sends
// along are treated as a preview and recomputed before persisting.
type Invoice struct {
	ID            uuid.UUID    `gorm:"type:char(36);primaryKey" json:"id"`
	UserID        uuid.UUID    `gorm:"type:char(36);index;not null" json:"user_id"`
	CompanyID     uuid.UUID    `gorm:"type:char(36);index;not null" json:"company_id"`
	InvoiceNumber string       `gorm:"size:8;uniqueIndex;not null" json:"invoice_number"`
	InvoiceDate   time.Time    `json:"invoice_date"`
	CustomerName  string       `gorm:"size:255" json:"customer_name,omitempty"`
	CompanyName   string       `gorm:"size:255" json:"company_name,omitempty"`
	LineItems     LineItemList `json:"line_items"`
	JobTicketIDs  string       `gorm:"type:text" json:"job_ticket_ids,omitempty"`
	Subtotal      float64      `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	ServiceFee    float64      `gorm:"type:decimal(12,2);not null" json:"service_fee"`
	Tax           float64      `gorm:"type:decimal(12,2);not null" json:"tax"`
	Total         float64      `gorm:"type:decimal(12,2);not null" json:"total"`
	Notes         string       `gorm:"size:2000" json:"notes,omitempty"`
	Status        string       `gorm:"size:20;not null;default:draft;index" json:"status"`
	CreatedBy     string       `gorm:"size:255" json:"created_by,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
