package tabular

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// Format of a source file. The engine itself is format-agnostic once rows
// are decoded; this package is the single place raw bytes are touched.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatJSON Format = "json"
	FormatXML  Format = "xml"
)

// Row is one decoded source row: raw column name to raw cell value.
type Row map[string]string

// Parse decodes file content into ordered rows of string-keyed fields.
func Parse(format Format, content []byte) ([]Row, error) {
	switch format {
	case FormatCSV:
		return parseCSV(content)
	case FormatXLSX:
		return parseXLSX(content)
	case FormatJSON:
		return parseJSON(content)
	case FormatXML:
		return parseXML(content)
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// Sniff guesses the format from content. XLSX containers start with the zip
// magic; JSON arrays and XML documents are recognized by their first byte.
func Sniff(content []byte) Format {
	trimmed := bytes.TrimSpace(content)
	switch {
	case IsExcelFile(content):
		return FormatXLSX
	case len(trimmed) > 0 && trimmed[0] == '[':
		return FormatJSON
	case len(trimmed) > 0 && trimmed[0] == '<':
		return FormatXML
	default:
		return FormatCSV
	}
}

// IsExcelFile reports whether the content is an XLSX workbook.
func IsExcelFile(content []byte) bool {
	if len(content) < 2 {
		return false
	}

	if content[0] == 0x50 && content[1] == 0x4B {
		f, err := excelize.OpenReader(bytes.NewReader(content))
		if err != nil {
			return false
		}
		defer f.Close()
		return true
	}

	return false
}

func parseCSV(content []byte) ([]Row, error) {
	reader := csv.NewReader(bytes.NewReader(content))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return []Row{}, nil
		}
		return nil, errors.Wrap(err, "reading csv header")
	}

	var rows []Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "reading csv record")
		}
		rows = append(rows, rowFromCells(header, record))
	}
	return rows, nil
}

func parseXLSX(content []byte) ([]Row, error) {
	excelFile, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, errors.Wrap(err, "opening excel file")
	}
	defer excelFile.Close()

	sheets := excelFile.GetSheetList()
	if len(sheets) == 0 {
		return []Row{}, nil
	}

	cells, err := excelFile.GetRows(sheets[0])
	if err != nil {
		zap.S().Named("tabular").Warnf("could not read sheet %s: %v", sheets[0], err)
		return []Row{}, nil
	}
	if len(cells) == 0 {
		return []Row{}, nil
	}

	header := cells[0]
	var rows []Row
	for _, record := range cells[1:] {
		if len(record) == 0 {
			continue
		}
		rows = append(rows, rowFromCells(header, record))
	}
	return rows, nil
}

func parseJSON(content []byte) ([]Row, error) {
	var objects []map[string]interface{}
	if err := json.Unmarshal(content, &objects); err != nil {
		return nil, errors.Wrap(err, "decoding json array")
	}

	rows := make([]Row, 0, len(objects))
	for _, obj := range objects {
		row := make(Row, len(obj))
		for key, value := range obj {
			row[key] = stringify(value)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// xmlRecord captures one repeated element as a flat field list.
type xmlRecord struct {
	Fields []xmlField `xml:",any"`
}

type xmlField struct {
	XMLName xml.Name
	Value   string `xml:",chardata"`
}

func parseXML(content []byte) ([]Row, error) {
	decoder := xml.NewDecoder(bytes.NewReader(content))

	var rows []Row
	depth := 0
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "decoding xml")
		}

		switch t := token.(type) {
		case xml.StartElement:
			depth++
			// the second nesting level holds one record per element
			if depth == 2 {
				var rec xmlRecord
				if err := decoder.DecodeElement(&rec, &t); err != nil {
					return nil, errors.Wrap(err, "decoding xml record")
				}
				depth--
				row := make(Row, len(rec.Fields))
				for _, f := range rec.Fields {
					row[f.XMLName.Local] = strings.TrimSpace(f.Value)
				}
				rows = append(rows, row)
			}
		case xml.EndElement:
			depth--
		}
	}
	return rows, nil
}

func rowFromCells(header, record []string) Row {
	row := make(Row, len(header))
	for i, name := range header {
		value := ""
		if i < len(record) {
			value = strings.TrimSpace(record[i])
		}
		row[strings.TrimSpace(name)] = value
	}
	return row
}

func stringify(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		// avoid scientific notation for ids and counts
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%v", v)
	case bool:
		if v {
			return "true"
		}
		return "false"
	default:
		raw, _ := json.Marshal(v)
		return string(raw)
	}
}
