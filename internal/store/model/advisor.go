package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Advisor is a canonical producer/advisor record. Email is stored lowercased
// so the per-org unique index doubles as the case-insensitive dedup key.
type Advisor struct {
	ID                     uuid.UUID `gorm:"primaryKey;"`
	OrgID                  string    `gorm:"not null;uniqueIndex:advisors_org_id_email;uniqueIndex:advisors_org_id_code;uniqueIndex:advisors_org_id_npn;index:advisors_org_id_idx"`
	FirstName              string
	LastName               string
	Email                  string    `gorm:"uniqueIndex:advisors_org_id_email"`
	Phone                  string
	AdvisorCode            *string   `gorm:"uniqueIndex:advisors_org_id_code"`
	NationalProducerNumber *string   `gorm:"uniqueIndex:advisors_org_id_npn"`
	AgencyName             string
	Status                 string    `gorm:"type:VARCHAR(50)"`
	CreatedAt              time.Time
	UpdatedAt              *time.Time
}

type AdvisorList []Advisor

func (a Advisor) String() string {
	val, _ := json.Marshal(a)
	return string(val)
}

func (a Advisor) FieldValues() map[string]string {
	code, npn := "", ""
	if a.AdvisorCode != nil {
		code = *a.AdvisorCode
	}
	if a.NationalProducerNumber != nil {
		npn = *a.NationalProducerNumber
	}
	return map[string]string{
		"first_name":               a.FirstName,
		"last_name":                a.LastName,
		"email":                    a.Email,
		"phone":                    a.Phone,
		"advisor_code":             code,
		"national_producer_number": npn,
		"agency_name":              a.AgencyName,
		"status":                   a.Status,
	}
}

func (a *Advisor) SetField(name, value string) bool {
	switch name {
	case "first_name":
		a.FirstName = value
	case "last_name":
		a.LastName = value
	case "email":
		a.Email = value
	case "phone":
		a.Phone = value
	case "advisor_code":
		if value == "" {
			a.AdvisorCode = nil
		} else {
			a.AdvisorCode = &value
		}
	case "national_producer_number":
		if value == "" {
			a.NationalProducerNumber = nil
		} else {
			a.NationalProducerNumber = &value
		}
	case "agency_name":
		a.AgencyName = value
	case "status":
		a.Status = value
	default:
		return false
	}
	return true
}
