package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Member is a canonical enrollment record, scoped to one organization.
// MemberNumber is nullable so members without a vendor-assigned number do
// not collide on the per-org unique index.
type Member struct {
	ID              uuid.UUID `gorm:"primaryKey;"`
	OrgID           string    `gorm:"not null;uniqueIndex:members_org_id_member_number;index:members_org_id_idx"`
	MemberNumber    *string   `gorm:"uniqueIndex:members_org_id_member_number"`
	FirstName       string
	LastName        string
	Email           string `gorm:"index:members_org_email_idx"`
	Phone           string
	DateOfBirth     string `gorm:"type:VARCHAR(10)"`
	Address1        string
	Address2        string
	City            string
	State           string `gorm:"type:VARCHAR(20)"`
	Zip             string `gorm:"type:VARCHAR(20)"`
	PlanID          string
	PlanName        string
	Status          string `gorm:"type:VARCHAR(50)"`
	EnrollmentDate  string `gorm:"type:VARCHAR(10)"`
	TerminationDate string `gorm:"type:VARCHAR(10)"`
	CreatedAt       time.Time
	UpdatedAt       *time.Time
}

type MemberList []Member

func (m Member) String() string {
	val, _ := json.Marshal(m)
	return string(val)
}

// FieldValues returns the tracked canonical fields by name. Snapshot capture
// and vendor change detection both diff and restore through this view.
func (m Member) FieldValues() map[string]string {
	number := ""
	if m.MemberNumber != nil {
		number = *m.MemberNumber
	}
	return map[string]string{
		"member_number":    number,
		"first_name":       m.FirstName,
		"last_name":        m.LastName,
		"email":            m.Email,
		"phone":            m.Phone,
		"date_of_birth":    m.DateOfBirth,
		"address1":         m.Address1,
		"address2":         m.Address2,
		"city":             m.City,
		"state":            m.State,
		"zip":              m.Zip,
		"plan_id":          m.PlanID,
		"plan_name":        m.PlanName,
		"status":           m.Status,
		"enrollment_date":  m.EnrollmentDate,
		"termination_date": m.TerminationDate,
	}
}

// SetField writes one tracked field by name. Returns false for unknown names.
func (m *Member) SetField(name, value string) bool {
	switch name {
	case "member_number":
		if value == "" {
			m.MemberNumber = nil
		} else {
			m.MemberNumber = &value
		}
	case "first_name":
		m.FirstName = value
	case "last_name":
		m.LastName = value
	case "email":
		m.Email = value
	case "phone":
		m.Phone = value
	case "date_of_birth":
		m.DateOfBirth = value
	case "address1":
		m.Address1 = value
	case "address2":
		m.Address2 = value
	case "city":
		m.City = value
	case "state":
		m.State = value
	case "zip":
		m.Zip = value
	case "plan_id":
		m.PlanID = value
	case "plan_name":
		m.PlanName = value
	case "status":
		m.Status = value
	case "enrollment_date":
		m.EnrollmentDate = value
	case "termination_date":
		m.TerminationDate = value
	default:
		return false
	}
	return true
}
