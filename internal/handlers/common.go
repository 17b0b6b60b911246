package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/render"

	"github.com/benefitsync/reconciler/internal/tabular"
	"github.com/benefitsync/reconciler/pkg/requestid"
)

// maxUploadSize caps the in-memory size of an uploaded source file.
const maxUploadSize = 64 << 20 // 64 MiB

type ErrorReply struct {
	Message   string  `json:"message"`
	RequestID *string `json:"request_id,omitempty"`
}

func (e ErrorReply) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

func renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	render.Status(r, status)
	_ = render.Render(w, r, ErrorReply{Message: message, RequestID: requestid.FromContextPtr(r.Context())})
}

// readUpload pulls the source file out of a multipart request and parses its
// rows. The format is taken from the "format" form value when provided,
// otherwise sniffed from the content.
func readUpload(r *http.Request) ([]tabular.Row, string, error) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		return nil, "", err
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, "", err
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxUploadSize))
	if err != nil {
		return nil, "", err
	}

	format := tabular.Format(strings.ToLower(r.FormValue("format")))
	if format == "" {
		format = tabular.Sniff(content)
	}

	rows, err := tabular.Parse(format, content)
	if err != nil {
		return nil, "", err
	}
	return rows, header.Filename, nil
}

// columnOverrides reads repeated "map.<source>=<target>" form values into a
// header override table.
func columnOverrides(r *http.Request) map[string]string {
	overrides := map[string]string{}
	for key, values := range r.Form {
		if !strings.HasPrefix(key, "map.") || len(values) == 0 {
			continue
		}
		overrides[strings.TrimPrefix(key, "map.")] = values[0]
	}
	if len(overrides) == 0 {
		return nil
	}
	return overrides
}
