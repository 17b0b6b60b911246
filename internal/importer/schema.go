package importer

import api "github.com/benefitsync/reconciler/api/v1alpha1"

// FieldType is the semantic type of one canonical field.
type FieldType int

const (
	FieldTypeString FieldType = iota
	FieldTypeEnum
	FieldTypeDate
	FieldTypeNumber
)

// TargetField describes one canonical field of an entity schema.
type TargetField struct {
	Name     string
	Type     FieldType
	Required bool
	Allowed  []string
	// Lowercase folds the stored value to lower case (emails).
	Lowercase bool
}

// Schema is the full canonical field set for an entity type, plus the
// default used when an enum value is not recognized. The default-fallback is
// an explicit policy: vendor data uses synonyms freely and rejecting the
// whole row loses more value than tolerating an unknown status.
type Schema struct {
	EntityType    api.EntityType
	Fields        []TargetField
	DefaultStatus string
}

var memberSchema = Schema{
	EntityType: api.EntityTypeMember,
	Fields: []TargetField{
		{Name: "member_number", Type: FieldTypeString},
		{Name: "first_name", Type: FieldTypeString, Required: true},
		{Name: "last_name", Type: FieldTypeString, Required: true},
		{Name: "email", Type: FieldTypeString, Lowercase: true},
		{Name: "phone", Type: FieldTypeString},
		{Name: "date_of_birth", Type: FieldTypeDate},
		{Name: "address1", Type: FieldTypeString},
		{Name: "address2", Type: FieldTypeString},
		{Name: "city", Type: FieldTypeString},
		{Name: "state", Type: FieldTypeString},
		{Name: "zip", Type: FieldTypeString},
		{Name: "plan_id", Type: FieldTypeString},
		{Name: "plan_name", Type: FieldTypeString},
		{Name: "status", Type: FieldTypeEnum, Allowed: []string{"pending", "active", "terminated", "suspended"}},
		{Name: "enrollment_date", Type: FieldTypeDate},
		{Name: "termination_date", Type: FieldTypeDate},
	},
	DefaultStatus: "pending",
}

var advisorSchema = Schema{
	EntityType: api.EntityTypeAdvisor,
	Fields: []TargetField{
		{Name: "first_name", Type: FieldTypeString, Required: true},
		{Name: "last_name", Type: FieldTypeString, Required: true},
		{Name: "email", Type: FieldTypeString, Required: true, Lowercase: true},
		{Name: "phone", Type: FieldTypeString},
		{Name: "advisor_code", Type: FieldTypeString},
		{Name: "national_producer_number", Type: FieldTypeNumber},
		{Name: "agency_name", Type: FieldTypeString},
		{Name: "status", Type: FieldTypeEnum, Allowed: []string{"pending", "active", "inactive"}},
	},
	DefaultStatus: "pending",
}

var leadSchema = Schema{
	EntityType: api.EntityTypeLead,
	Fields: []TargetField{
		{Name: "first_name", Type: FieldTypeString},
		{Name: "last_name", Type: FieldTypeString},
		{Name: "email", Type: FieldTypeString, Required: true, Lowercase: true},
		{Name: "phone", Type: FieldTypeString},
		{Name: "source", Type: FieldTypeString},
		{Name: "status", Type: FieldTypeEnum, Allowed: []string{"pending", "new", "contacted", "qualified", "converted", "closed"}},
	},
	DefaultStatus: "pending",
}

// SchemaFor returns the static schema for an entity type.
func SchemaFor(entityType api.EntityType) Schema {
	switch entityType {
	case api.EntityTypeAdvisor:
		return advisorSchema
	case api.EntityTypeLead:
		return leadSchema
	default:
		return memberSchema
	}
}

// Field looks up a schema field by canonical name.
func (s Schema) Field(name string) (TargetField, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return TargetField{}, false
}
