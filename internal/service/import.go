package service

import (
	"context"
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

// ImportService runs direct bulk imports: rows are normalized, mapped,
// validated, resolved against existing entities and written in source order.
// A row-level failure never aborts the job; every row leaves an audit record.
type ImportService struct {
	store       store.Store
	resolver    *dedup.Resolver
	validate    *validator.Validate
	eventWriter *events.EventProducer
}

func NewImportService(s store.Store, ew *events.EventProducer) *ImportService {
	return &ImportService{
		store:       s,
		resolver:    dedup.NewResolver(s),
		validate:    validator.New(),
		eventWriter: ew,
	}
}

// SubmitImport processes all rows of a job and returns the aggregated
// result. Rows are processed strictly in source order: an insert done for
// row N must be visible to the dedup lookup of row N+1.
func (s *ImportService) SubmitImport(ctx context.Context, form mappers.ImportForm) (api.ImportResult, error) {
	if err := s.validate.Struct(form); err != nil {
		return api.ImportResult{}, err
	}
	if len(form.Rows) == 0 {
		return api.ImportResult{}, NewErrNoRows()
	}

	start := time.Now()

	job, err := s.store.ImportJob().Create(ctx, form.ToImportJob())
	if err != nil {
		return api.ImportResult{}, err
	}

	snapshot, err := s.store.Snapshot().Create(ctx, model.Snapshot{JobID: job.ID, CreatedAt: time.Now()})
	if err != nil {
		return api.ImportResult{}, s.failJob(ctx, job, err)
	}

	if err := s.store.ImportJob().UpdateStatus(ctx, job.ID, string(api.ImportJobStatusProcessing)); err != nil {
		return api.ImportResult{}, s.failJob(ctx, job, err)
	}

	schema := importer.SchemaFor(form.EntityType)
	mapper := importer.NewTableMapper(importer.MergeColumns(importer.DefaultColumns(form.EntityType), form.ColumnOverrides))
	writer := newEntityWriter(s.store, form.EntityType)

	result := api.ImportResult{JobID: job.ID, Total: len(form.Rows), Errors: []api.RowError{}}

	for idx, raw := range form.Rows {
		outcome := s.processRow(ctx, rowJob{
			job:      job,
			snapshot: snapshot,
			schema:   schema,
			mapper:   mapper,
			writer:   writer,
			orgID:    form.OrgID,
			index:    idx,
			raw:      raw,
		})
		if outcome.fatal != nil {
			return result, s.failJob(ctx, job, outcome.fatal)
		}

		switch outcome.status {
		case api.ImportRowStatusInserted:
			result.Inserted++
		case api.ImportRowStatusUpdated:
			result.Updated++
		case api.ImportRowStatusSkipped:
			result.Skipped++
		case api.ImportRowStatusError:
			result.Errors = append(result.Errors, api.RowError{RowIndex: idx, Message: outcome.message})
		}
		metrics.IncreaseImportRowsTotalMetric(string(form.EntityType), string(outcome.status))
	}

	now := time.Now()
	job.Status = string(api.ImportJobStatusCompleted)
	job.Inserted = result.Inserted
	job.Updated = result.Updated
	job.Skipped = result.Skipped
	job.Errored = len(result.Errors)
	job.CompletedAt = &now
	if _, err := s.store.ImportJob().Update(ctx, *job); err != nil {
		return result, err
	}

	metrics.ObserveImportJobDuration(string(form.EntityType), time.Since(start).Seconds())
	emitEvent(ctx, s.eventWriter, events.ImportJobMessageKind, events.ImportJobEvent{
		JobID:      job.ID,
		OrgID:      job.OrgID,
		EntityType: job.EntityType,
		Status:     job.Status,
		Inserted:   job.Inserted,
		Updated:    job.Updated,
		Errored:    job.Errored,
	})
	zap.S().Named("importer").Infow("import job completed",
		"job_id", job.ID,
		"entity_type", form.EntityType,
		"total", result.Total,
		"inserted", result.Inserted,
		"updated", result.Updated,
		"errors", len(result.Errors),
	)

	return result, nil
}

type rowJob struct {
	job      *model.ImportJob
	snapshot *model.Snapshot
	schema   importer.Schema
	mapper   importer.FieldMapper
	writer   entityWriter
	orgID    string
	index    int
	raw      map[string]string
}

type rowOutcome struct {
	status  api.ImportRowStatus
	message string
	// fatal aborts the whole job: the audit trail can no longer be written.
	fatal error
}

// processRow runs one row through normalize -> map -> validate -> resolve ->
// write and appends the audit record regardless of the outcome.
func (s *ImportService) processRow(ctx context.Context, rj rowJob) rowOutcome {
	normalized := importer.NormalizeRow(rj.raw)
	mapped := rj.mapper.Map(normalized)

	record, fieldErrs := importer.Validate(rj.schema, mapped)
	if len(fieldErrs) > 0 {
		msgs := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			msgs = append(msgs, fe.Error())
		}
		return s.finishRow(ctx, rj, mapped, nil, api.ImportRowStatusError, strings.Join(msgs, "; "))
	}

	match, err := s.resolver.Resolve(ctx, api.StringToEntityType(rj.job.EntityType), rj.orgID, record)
	if err != nil {
		return s.finishRow(ctx, rj, mapped, nil, api.ImportRowStatusError, err.Error())
	}

	fields := recordFields(record)

	if match.Found() {
		prior, err := rj.writer.fieldValues(ctx, *match.EntityID)
		if err != nil {
			return s.finishRow(ctx, rj, mapped, match.EntityID, api.ImportRowStatusError, err.Error())
		}
		if _, err := s.store.Snapshot().AppendEntry(ctx, model.SnapshotEntry{
			SnapshotID:  rj.snapshot.ID,
			RowIndex:    rj.index,
			EntityType:  rj.job.EntityType,
			EntityID:    *match.EntityID,
			Op:          model.SnapshotOpUpdated,
			PriorValues: model.MakeJSONField(prior),
			CreatedAt:   time.Now(),
		}); err != nil {
			return rowOutcome{fatal: err}
		}
		if err := rj.writer.update(ctx, *match.EntityID, fields); err != nil {
			return s.finishRow(ctx, rj, mapped, match.EntityID, api.ImportRowStatusError, err.Error())
		}
		return s.finishRow(ctx, rj, mapped, match.EntityID, api.ImportRowStatusUpdated, "")
	}

	entityID, err := rj.writer.insert(ctx, rj.orgID, fields)
	if err != nil {
		// a concurrent job may have inserted the same dedup key first;
		// the unique index degrades that race into a row error
		return s.finishRow(ctx, rj, mapped, nil, api.ImportRowStatusError, err.Error())
	}
	if _, err := s.store.Snapshot().AppendEntry(ctx, model.SnapshotEntry{
		SnapshotID: rj.snapshot.ID,
		RowIndex:   rj.index,
		EntityType: rj.job.EntityType,
		EntityID:   entityID,
		Op:         model.SnapshotOpInserted,
		CreatedAt:  time.Now(),
	}); err != nil {
		return rowOutcome{fatal: err}
	}
	return s.finishRow(ctx, rj, mapped, &entityID, api.ImportRowStatusInserted, "")
}

// finishRow appends the append-only audit record keyed by (job id, row
// index). Failing to write the audit trail is the one row-level error that
// escalates to a job failure.
func (s *ImportService) finishRow(ctx context.Context, rj rowJob, mapped map[string]string, entityID *uuid.UUID, status api.ImportRowStatus, message string) rowOutcome {
	row := model.ImportRow{
		JobID:        rj.job.ID,
		RowIndex:     rj.index,
		RawFields:    model.MakeJSONField(rj.raw),
		MappedFields: model.MakeJSONField(mapped),
		Status:       string(status),
		EntityID:     entityID,
		ProcessedAt:  time.Now(),
	}
	if message != "" {
		row.ErrorMessage = &message
	}
	if _, err := s.store.ImportRow().Append(ctx, row); err != nil {
		return rowOutcome{fatal: err}
	}
	return rowOutcome{status: status, message: message}
}

func (s *ImportService) failJob(ctx context.Context, job *model.ImportJob, cause error) error {
	if err := s.store.ImportJob().UpdateStatus(ctx, job.ID, string(api.ImportJobStatusFailed)); err != nil {
		zap.S().Named("importer").Errorf("failed to mark job %s as failed: %v", job.ID, err)
	}
	return cause
}

// GetJob returns one job with its audit rows.
func (s *ImportService) GetJob(ctx context.Context, id uuid.UUID) (*model.ImportJob, error) {
	job, err := s.store.ImportJob().Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrJobNotFound(id)
		}
		return nil, err
	}
	return job, nil
}

// CancelJob marks a pending or processing job failed. Rows already processed
// keep their recorded outcomes; no implicit rollback happens on cancellation.
func (s *ImportService) CancelJob(ctx context.Context, id uuid.UUID) (*model.ImportJob, error) {
	job, err := s.store.ImportJob().Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrJobNotFound(id)
		}
		return nil, err
	}

	switch api.ImportJobStatus(job.Status) {
	case api.ImportJobStatusPending, api.ImportJobStatusProcessing:
	default:
		return nil, NewErrJobNotCancellable(job.ID, job.Status)
	}

	if err := s.store.ImportJob().UpdateStatus(ctx, id, string(api.ImportJobStatusFailed)); err != nil {
		return nil, err
	}
	job.Status = string(api.ImportJobStatusFailed)
	return job, nil
}
