package importer

import api "github.com/benefitsync/reconciler/api/v1alpha1"

// ColumnMap associates normalized source column names with canonical field
// names. Lookup is by exact normalized key; vendor exports that drift in
// naming are covered by listing the known synonyms here.
type ColumnMap map[string]string

var memberColumns = ColumnMap{
	"member_number":    "member_number",
	"member_id":        "member_number",
	"subscriber_id":    "member_number",
	"first_name":       "first_name",
	"fname":            "first_name",
	"last_name":        "last_name",
	"lname":            "last_name",
	"email":            "email",
	"email_address":    "email",
	"phone":            "phone",
	"phone_number":     "phone",
	"cell_phone":       "phone",
	"mobile":           "phone",
	"date_of_birth":    "date_of_birth",
	"dob":              "date_of_birth",
	"birth_date":       "date_of_birth",
	"address":          "address1",
	"address1":         "address1",
	"address_line_1":   "address1",
	"street_address":   "address1",
	"address2":         "address2",
	"address_line_2":   "address2",
	"city":             "city",
	"state":            "state",
	"zip":              "zip",
	"zip_code":         "zip",
	"postal_code":      "zip",
	"plan_id":          "plan_id",
	"plan_code":        "plan_id",
	"plan_name":        "plan_name",
	"plan":             "plan_name",
	"status":           "status",
	"member_status":    "status",
	"enrollment_date":  "enrollment_date",
	"effective_date":   "enrollment_date",
	"start_date":       "enrollment_date",
	"termination_date": "termination_date",
	"term_date":        "termination_date",
	"end_date":         "termination_date",
}

var advisorColumns = ColumnMap{
	"first_name":               "first_name",
	"fname":                    "first_name",
	"last_name":                "last_name",
	"lname":                    "last_name",
	"email":                    "email",
	"email_address":            "email",
	"phone":                    "phone",
	"phone_number":             "phone",
	"cell_phone":               "phone",
	"advisor_code":             "advisor_code",
	"agent_code":               "advisor_code",
	"code":                     "advisor_code",
	"national_producer_number": "national_producer_number",
	"npn":                      "national_producer_number",
	"producer_number":          "national_producer_number",
	"agency":                   "agency_name",
	"agency_name":              "agency_name",
	"status":                   "status",
}

var leadColumns = ColumnMap{
	"first_name":    "first_name",
	"fname":         "first_name",
	"last_name":     "last_name",
	"lname":         "last_name",
	"email":         "email",
	"email_address": "email",
	"phone":         "phone",
	"phone_number":  "phone",
	"cell_phone":    "phone",
	"mobile":        "phone",
	"source":        "source",
	"lead_source":   "source",
	"status":        "status",
	"lead_status":   "status",
}

// DefaultColumns returns the built-in column map for an entity type.
func DefaultColumns(entityType api.EntityType) ColumnMap {
	switch entityType {
	case api.EntityTypeAdvisor:
		return advisorColumns
	case api.EntityTypeLead:
		return leadColumns
	default:
		return memberColumns
	}
}

// MergeColumns overlays caller-supplied mappings (already normalized source
// key -> canonical field) on top of a base map.
func MergeColumns(base ColumnMap, overrides map[string]string) ColumnMap {
	if len(overrides) == 0 {
		return base
	}
	merged := make(ColumnMap, len(base)+len(overrides))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range overrides {
		merged[NormalizeHeader(k)] = v
	}
	return merged
}
