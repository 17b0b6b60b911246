package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	api "github.com/benefitsync/reconciler/api/v1alpha1"
	"github.com/benefitsync/reconciler/internal/dedup"
	"github.com/benefitsync/reconciler/internal/events"
	"github.com/benefitsync/reconciler/internal/importer"
	"github.com/benefitsync/reconciler/internal/service/mappers"
	"github.com/benefitsync/reconciler/internal/store"
	"github.com/benefitsync/reconciler/internal/store/model"
	"github.com/benefitsync/reconciler/pkg/metrics"
)

// fieldChangeTypes classifies member field diffs into change categories.
var fieldChangeTypes = map[string]api.ChangeType{
	"address1": api.ChangeTypeAddressChange,
	"address2": api.ChangeTypeAddressChange,
	"city":     api.ChangeTypeAddressChange,
	"state":    api.ChangeTypeAddressChange,
	"zip":      api.ChangeTypeAddressChange,

	"plan_id":   api.ChangeTypePlanChange,
	"plan_name": api.ChangeTypePlanChange,

	"status":           api.ChangeTypeStatusChange,
	"termination_date": api.ChangeTypeStatusChange,

	"member_number":   api.ChangeTypeDemographicUpdate,
	"first_name":      api.ChangeTypeDemographicUpdate,
	"last_name":       api.ChangeTypeDemographicUpdate,
	"email":           api.ChangeTypeDemographicUpdate,
	"phone":           api.ChangeTypeDemographicUpdate,
	"date_of_birth":   api.ChangeTypeDemographicUpdate,
	"enrollment_date": api.ChangeTypeDemographicUpdate,
}

// VendorService ingests recurring vendor feeds. With change detection on,
// no entity is touched: every discrepancy becomes a staged VendorChange
// waiting for review. With detection off, rows apply directly under the
// file's duplicate strategy.
type VendorService struct {
	store       store.Store
	resolver    *dedup.Resolver
	validate    *validator.Validate
	eventWriter *events.EventProducer
}

func NewVendorService(s store.Store, ew *events.EventProducer) *VendorService {
	return &VendorService{
		store:       s,
		resolver:    dedup.NewResolver(s),
		validate:    validator.New(),
		eventWriter: ew,
	}
}

// ProcessVendorFile runs all rows of one vendor feed and returns the file
// summary, including any staged changes. Row failures never abort the file.
func (s *VendorService) ProcessVendorFile(ctx context.Context, form mappers.VendorFileForm) (api.VendorFileSummary, error) {
	if err := s.validate.Struct(form); err != nil {
		return api.VendorFileSummary{}, err
	}
	if len(form.Rows) == 0 {
		return api.VendorFileSummary{}, NewErrNoRows()
	}

	file, err := s.store.VendorFile().Create(ctx, form.ToVendorFile())
	if err != nil {
		return api.VendorFileSummary{}, err
	}

	schema := importer.SchemaFor(api.EntityTypeMember)
	mapper := importer.NewTableMapper(importer.MergeColumns(importer.DefaultColumns(api.EntityTypeMember), form.ColumnOverrides))
	writer := newEntityWriter(s.store, api.EntityTypeMember)

	rowErrs := []api.RowError{}
	changes := []api.VendorChange{}

	for idx, raw := range form.Rows {
		file.ProcessedRows++

		normalized := importer.NormalizeRow(raw)
		mapped := mapper.Map(normalized)
		record, fieldErrs := importer.Validate(schema, mapped)
		if len(fieldErrs) > 0 {
			msgs := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				msgs = append(msgs, fe.Error())
			}
			file.ErrorRows++
			rowErrs = append(rowErrs, api.RowError{RowIndex: idx, Message: strings.Join(msgs, "; ")})
			continue
		}
		file.ValidRows++

		match, err := s.resolver.Resolve(ctx, api.EntityTypeMember, form.OrgID, record)
		if err != nil {
			file.ErrorRows++
			file.ValidRows--
			rowErrs = append(rowErrs, api.RowError{RowIndex: idx, Message: err.Error()})
			continue
		}

		if file.DetectChanges {
			staged, err := s.detectRow(ctx, file, form, writer, match, record)
			if err != nil {
				file.ErrorRows++
				file.ValidRows--
				rowErrs = append(rowErrs, api.RowError{RowIndex: idx, Message: err.Error()})
				continue
			}
			changes = append(changes, staged...)
			continue
		}

		if err := s.applyRow(ctx, file, writer, match, record); err != nil {
			file.ErrorRows++
			file.ValidRows--
			rowErrs = append(rowErrs, api.RowError{RowIndex: idx, Message: err.Error()})
		}
	}

	now := time.Now()
	file.CompletedAt = &now
	switch {
	case file.ValidRows == 0 && file.ErrorRows > 0:
		file.Status = string(api.VendorFileStatusFailed)
	case file.ErrorRows > 0:
		file.Status = string(api.VendorFileStatusPartiallyCompleted)
	default:
		file.Status = string(api.VendorFileStatusCompleted)
	}
	if _, err := s.store.VendorFile().Update(ctx, *file); err != nil {
		return api.VendorFileSummary{}, err
	}

	emitEvent(ctx, s.eventWriter, events.VendorFileMessageKind, events.VendorFileEvent{
		FileID:        file.ID,
		OrgID:         file.OrgID,
		VendorID:      file.VendorID,
		Status:        file.Status,
		StagedChanges: len(changes),
	})
	zap.S().Named("vendor").Infow("vendor file processed",
		"file_id", file.ID,
		"vendor_id", file.VendorID,
		"status", file.Status,
		"rows", file.ProcessedRows,
		"changes", len(changes),
		"errors", len(rowErrs),
	)

	return mappers.VendorFileToSummary(*file, rowErrs, changes), nil
}

// detectRow diffs one vendor row against the current record and stages the
// resulting changes. Nothing is written to the entity tables here.
func (s *VendorService) detectRow(ctx context.Context, file *model.VendorFile, form mappers.VendorFileForm, writer entityWriter, match dedup.Match, record importer.Record) ([]api.VendorChange, error) {
	incoming := recordFields(record)

	if !match.Found() {
		// a terminated record the engine never tracked is not a new enrollment
		if incoming["status"] == "terminated" || incoming["termination_date"] != "" {
			return nil, nil
		}
		payload, err := json.Marshal(incoming)
		if err != nil {
			return nil, err
		}
		change, err := s.stageChange(ctx, file, form, model.VendorChange{
			ChangeType: string(api.ChangeTypeNewEnrollment),
			NewValue:   string(payload),
		})
		if err != nil {
			return nil, err
		}
		file.NewRecords++
		return []api.VendorChange{mappers.VendorChangeToApi(*change)}, nil
	}

	current, err := writer.fieldValues(ctx, *match.EntityID)
	if err != nil {
		return nil, err
	}

	var staged []api.VendorChange
	terminated := isTerminationRow(incoming, current)
	if terminated {
		change, err := s.stageChange(ctx, file, form, model.VendorChange{
			ChangeType:   string(api.ChangeTypeTermination),
			EntityID:     match.EntityID,
			FieldChanged: strPtr("termination_date"),
			OldValue:     current["termination_date"],
			NewValue:     incoming["termination_date"],
		})
		if err != nil {
			return nil, err
		}
		staged = append(staged, mappers.VendorChangeToApi(*change))
	}

	fieldChanged := false
	for _, field := range memberDiffOrder {
		newValue, present := incoming[field]
		if !present || newValue == "" || newValue == current[field] {
			continue
		}
		// a termination row already accounts for its status and end date
		if terminated && (field == "status" || field == "termination_date") {
			continue
		}
		change, err := s.stageChange(ctx, file, form, model.VendorChange{
			ChangeType:   string(fieldChangeTypes[field]),
			EntityID:     match.EntityID,
			FieldChanged: strPtr(field),
			OldValue:     current[field],
			NewValue:     newValue,
		})
		if err != nil {
			return nil, err
		}
		staged = append(staged, mappers.VendorChangeToApi(*change))
		fieldChanged = true
	}
	if fieldChanged {
		file.UpdatedRecords++
	}
	return staged, nil
}

// stageChange fills the common columns, applies the severity policy and
// persists one pending change.
func (s *VendorService) stageChange(ctx context.Context, file *model.VendorFile, form mappers.VendorFileForm, change model.VendorChange) (*model.VendorChange, error) {
	change.ID = uuid.New()
	change.OrgID = file.OrgID
	change.FileID = file.ID
	change.VendorID = file.VendorID
	change.EntityType = string(api.EntityTypeMember)
	change.Status = string(api.ChangeStatusPending)
	change.DetectedAt = time.Now()

	severity := defaultSeverity(api.ChangeType(change.ChangeType))
	if form.SeverityOverride != nil {
		field := ""
		if change.FieldChanged != nil {
			field = *change.FieldChanged
		}
		if override, ok := form.SeverityOverride(api.ChangeType(change.ChangeType), field); ok {
			severity = override
		}
	}
	change.Severity = string(severity)

	created, err := s.store.VendorChange().Create(ctx, change)
	if err != nil {
		return nil, err
	}
	metrics.IncreaseVendorChangesTotalMetric(change.ChangeType, change.Severity)
	return created, nil
}

// applyRow writes one vendor row directly, honoring the file's duplicate
// strategy for matched rows.
func (s *VendorService) applyRow(ctx context.Context, file *model.VendorFile, writer entityWriter, match dedup.Match, record importer.Record) error {
	fields := recordFields(record)

	if !match.Found() {
		if _, err := writer.insert(ctx, file.OrgID, fields); err != nil {
			return err
		}
		file.NewRecords++
		return nil
	}

	switch api.DuplicateStrategy(file.DuplicateStrategy) {
	case api.DuplicateStrategyUpdate:
		if err := writer.update(ctx, *match.EntityID, fields); err != nil {
			return err
		}
		file.UpdatedRecords++
		return nil
	case api.DuplicateStrategySkip:
		return nil
	case api.DuplicateStrategyError:
		return errors.New("duplicate of existing record")
	default:
		return errors.New("unknown duplicate strategy " + file.DuplicateStrategy)
	}
}

// GetVendorFile returns one vendor file with its staged changes.
func (s *VendorService) GetVendorFile(ctx context.Context, id uuid.UUID) (*model.VendorFile, model.VendorChangeList, error) {
	file, err := s.store.VendorFile().Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, nil, NewErrVendorFileNotFound(id)
		}
		return nil, nil, err
	}
	changes, err := s.store.VendorChange().List(ctx, store.NewVendorChangeQueryFilter().ByFileID(id))
	if err != nil {
		return nil, nil, err
	}
	return file, changes, nil
}

// ListChanges returns staged changes for an organization, optionally
// narrowed to one status.
func (s *VendorService) ListChanges(ctx context.Context, orgID string, status string) (model.VendorChangeList, error) {
	filter := store.NewVendorChangeQueryFilter().ByOrgID(orgID)
	if status != "" {
		filter = filter.ByStatus(status)
	}
	return s.store.VendorChange().List(ctx, filter)
}

// memberDiffOrder keeps staged field changes in a stable order per row.
var memberDiffOrder = []string{
	"member_number",
	"first_name",
	"last_name",
	"email",
	"phone",
	"date_of_birth",
	"address1",
	"address2",
	"city",
	"state",
	"zip",
	"plan_id",
	"plan_name",
	"status",
	"enrollment_date",
	"termination_date",
}

// isTerminationRow reports whether the vendor row terminates a currently
// active record. Only the row's own status marker makes it a termination;
// a new end date on a still-active row is an ordinary field change, so
// re-diffing an applied change stages nothing.
func isTerminationRow(incoming, current map[string]string) bool {
	if current["status"] == "terminated" {
		return false
	}
	return incoming["status"] == "terminated"
}

func defaultSeverity(changeType api.ChangeType) api.ChangeSeverity {
	switch changeType {
	case api.ChangeTypeNewEnrollment, api.ChangeTypeTermination:
		return api.ChangeSeverityHigh
	default:
		return api.ChangeSeverityNormal
	}
}

func strPtr(s string) *string {
	return &s
}
