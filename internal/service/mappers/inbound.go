package mappers

import (
	"time"

	"github.com/google/uuid"

	api "github.com/benefitsync/reconciler/api/v1alpha1"
	"github.com/benefitsync/reconciler/internal/store/model"
	"github.com/benefitsync/reconciler/internal/tabular"
)

// ImportForm is a submitted bulk import: ordered raw rows plus the entity
// type they target. ColumnOverrides lets a caller extend the built-in
// column map for a nonstandard export.
type ImportForm struct {
	OrgID           string         `validate:"required"`
	EntityType      api.EntityType `validate:"required,oneof=member advisor lead"`
	SourceFile      string
	Rows            []tabular.Row  `validate:"required"`
	ColumnOverrides map[string]string
}

func (f ImportForm) ToImportJob() model.ImportJob {
	return model.ImportJob{
		ID:         uuid.New(),
		OrgID:      f.OrgID,
		EntityType: string(f.EntityType),
		SourceFile: f.SourceFile,
		Status:     string(api.ImportJobStatusPending),
		Total:      len(f.Rows),
		CreatedAt:  time.Now(),
	}
}

// VendorFileForm is a submitted vendor feed run.
type VendorFileForm struct {
	OrgID             string                `validate:"required"`
	VendorID          string                `validate:"required"`
	FileType          api.VendorFileType    `validate:"required"`
	FileFormat        string
	FileName          string
	DuplicateStrategy api.DuplicateStrategy `validate:"required,oneof=update skip error"`
	DetectChanges     bool
	Rows              []tabular.Row         `validate:"required"`
	ColumnOverrides   map[string]string

	// SeverityOverride lets a collaborator escalate severities at detection
	// time (state mandates, age thresholds). Nil keeps the defaults.
	SeverityOverride func(changeType api.ChangeType, field string) (api.ChangeSeverity, bool) `validate:"-"`
}

func (f VendorFileForm) ToVendorFile() model.VendorFile {
	return model.VendorFile{
		ID:                uuid.New(),
		OrgID:             f.OrgID,
		VendorID:          f.VendorID,
		FileType:          string(f.FileType),
		FileFormat:        f.FileFormat,
		FileName:          f.FileName,
		DuplicateStrategy: string(f.DuplicateStrategy),
		DetectChanges:     f.DetectChanges,
		Status:            string(api.VendorFileStatusPending),
		TotalRows:         len(f.Rows),
		CreatedAt:         time.Now(),
	}
}
