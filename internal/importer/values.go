package importer

import "strconv"

// Kind tags a validated field value. The validator's coercion rules produce
// exactly one of these variants, so downstream consumers switch on the kind
// instead of re-guessing types from raw strings.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindEnum
	KindDate
	KindNumber
)

// Value is one validated field value. Dates are held normalized to ISO
// (YYYY-MM-DD), numbers keep both the parsed float and canonical text.
type Value struct {
	Kind Kind
	Str  string
	Num  float64
}

func NullValue() Value {
	return Value{Kind: KindNull}
}

func StringValue(s string) Value {
	return Value{Kind: KindString, Str: s}
}

func EnumValue(s string) Value {
	return Value{Kind: KindEnum, Str: s}
}

func DateValue(iso string) Value {
	return Value{Kind: KindDate, Str: iso}
}

func NumberValue(n float64) Value {
	return Value{Kind: KindNumber, Str: strconv.FormatFloat(n, 'f', -1, 64), Num: n}
}

func (v Value) IsNull() bool {
	return v.Kind == KindNull
}

// String returns the canonical text form of the value, empty for null.
func (v Value) String() string {
	return v.Str
}

// Record is a validated row: canonical field name to tagged value.
type Record map[string]Value

// Get returns the text form of a field, empty string when absent or null.
func (r Record) Get(field string) string {
	return r[field].Str
}

// Has reports whether the field is present with a non-null value.
func (r Record) Has(field string) bool {
	v, ok := r[field]
	return ok && !v.IsNull()
}

// Strings flattens the record into plain text values, dropping nulls. Used
// for audit rows and for diffing against an entity's tracked fields.
func (r Record) Strings() map[string]string {
	out := make(map[string]string, len(r))
	for k, v := range r {
		if v.IsNull() {
			continue
		}
		out[k] = v.Str
	}
	return out
}
