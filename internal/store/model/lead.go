package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Lead is a canonical prospect record. Leads carry no vendor-assigned number,
// identity is resolved from email and phone only.
type Lead struct {
	ID        uuid.UUID `gorm:"primaryKey;"`
	OrgID     string    `gorm:"not null;index:leads_org_id_idx"`
	FirstName string
	LastName  string
	Email     string `gorm:"index:leads_org_email_idx"`
	Phone     string
	Source    string
	Status    string `gorm:"type:VARCHAR(50)"`
	CreatedAt time.Time
	UpdatedAt *time.Time
}

type LeadList []Lead

func (l Lead) String() string {
	val, _ := json.Marshal(l)
	return string(val)
}

func (l Lead) FieldValues() map[string]string {
	return map[string]string{
		"first_name": l.FirstName,
		"last_name":  l.LastName,
		"email":      l.Email,
		"phone":      l.Phone,
		"source":     l.Source,
		"status":     l.Status,
	}
}

func (l *Lead) SetField(name, value string) bool {
	switch name {
	case "first_name":
		l.FirstName = value
	case "last_name":
		l.LastName = value
	case "email":
		l.Email = value
	case "phone":
		l.Phone = value
	case "source":
		l.Source = value
	case "status":
		l.Status = value
	default:
		return false
	}
	return true
}
