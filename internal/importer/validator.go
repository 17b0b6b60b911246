package importer

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
)

// FieldError is one field-level validation failure.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// dateLayouts accepted on input, first match wins. Output is always ISO.
var dateLayouts = []string{
	"2006-01-02",
	"1/2/2006",
	"1-2-2006",
}

// Validate checks mapped fields against the schema and coerces each value
// into its tagged variant. Returns the validated record, or the collected
// field errors when the row cannot be accepted. A missing required field
// fails the whole row; an unknown enum value falls back to the schema's
// default status instead of failing.
func Validate(schema Schema, mapped map[string]string) (Record, []FieldError) {
	var errs []FieldError
	record := make(Record, len(mapped))

	for _, field := range schema.Fields {
		raw, present := mapped[field.Name]
		raw = strings.TrimSpace(raw)

		if field.Required && raw == "" {
			errs = append(errs, FieldError{Field: field.Name, Message: "required field is missing"})
			continue
		}
		if !present || raw == "" {
			continue
		}

		value, err := coerce(schema, field, raw)
		if err != nil {
			errs = append(errs, *err)
			continue
		}
		record[field.Name] = value
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return record, nil
}

func coerce(schema Schema, field TargetField, raw string) (Value, *FieldError) {
	switch field.Type {
	case FieldTypeEnum:
		normalized := strings.ToLower(strings.TrimSpace(raw))
		if !slices.Contains(field.Allowed, normalized) {
			// synonyms from vendor feeds are tolerated, not rejected
			normalized = schema.DefaultStatus
		}
		return EnumValue(normalized), nil

	case FieldTypeDate:
		iso, ok := ParseDate(raw)
		if !ok {
			return Value{}, &FieldError{Field: field.Name, Message: fmt.Sprintf("unparsable date %q", raw)}
		}
		return DateValue(iso), nil

	case FieldTypeNumber:
		cleaned := cleanNumericString(raw)
		if cleaned == "" || cleaned == "." || cleaned == "-" {
			return NullValue(), nil
		}
		n, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return NullValue(), nil
		}
		return NumberValue(n), nil

	default:
		if field.Lowercase {
			raw = strings.ToLower(raw)
		}
		return StringValue(raw), nil
	}
}

// ParseDate normalizes ISO, US slash and US dash dates to YYYY-MM-DD.
func ParseDate(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2006-01-02"), true
		}
	}
	return "", false
}

func cleanNumericString(s string) string {
	return strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			return r
		}
		return -1
	}, s)
}
