package importer

// FieldMapper maps a normalized row to canonical field names. The default
// implementation is an exact table lookup; a scored fuzzy matcher can be
// substituted without touching the callers.
type FieldMapper interface {
	Map(normalized map[string]string) map[string]string
}

type TableMapper struct {
	columns ColumnMap
}

var _ FieldMapper = (*TableMapper)(nil)

func NewTableMapper(columns ColumnMap) *TableMapper {
	return &TableMapper{columns: columns}
}

// Map keeps only keys present in both the row and the column table, and only
// when the value is non-empty. Unknown source columns are dropped silently:
// vendor exports routinely carry extraneous columns.
func (m *TableMapper) Map(normalized map[string]string) map[string]string {
	mapped := make(map[string]string)
	for key, value := range normalized {
		if value == "" {
			continue
		}
		field, ok := m.columns[key]
		if !ok {
			continue
		}
		mapped[field] = value
	}
	return mapped
}
