package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	api "github.com/benefitsync/reconciler/api/v1alpha1"
	"github.com/benefitsync/reconciler/internal/store"
	"github.com/benefitsync/reconciler/internal/store/model"
)

// Rollback reverses a completed import using the job's snapshot. Entries are
// undone in reverse row order: inserted entities are deleted, updated
// entities get their prior field values written back. A snapshot already
// marked restored makes this a no-op.
func (s *ImportService) Rollback(ctx context.Context, jobID uuid.UUID) (api.RollbackResult, error) {
	result := api.RollbackResult{JobID: jobID, Errors: []api.RowError{}}

	if _, err := s.store.ImportJob().Get(ctx, jobID); err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return result, NewErrJobNotFound(jobID)
		}
		return result, err
	}

	snapshot, err := s.store.Snapshot().GetByJob(ctx, jobID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return result, NewErrJobNotFound(jobID)
		}
		return result, err
	}
	if snapshot.Restored {
		return result, nil
	}

	writers := map[string]entityWriter{}
	for i := len(snapshot.Entries) - 1; i >= 0; i-- {
		entry := snapshot.Entries[i]
		writer, ok := writers[entry.EntityType]
		if !ok {
			writer = newEntityWriter(s.store, api.StringToEntityType(entry.EntityType))
			writers[entry.EntityType] = writer
		}

		if err := s.undoEntry(ctx, writer, entry); err != nil {
			result.Errors = append(result.Errors, api.RowError{RowIndex: entry.RowIndex, Message: err.Error()})
			continue
		}
		switch entry.Op {
		case model.SnapshotOpInserted:
			result.Deleted++
		case model.SnapshotOpUpdated:
			result.Restored++
		}
	}

	// a partial rollback stays retryable: only a clean run flips the flag
	if len(result.Errors) == 0 {
		if err := s.store.Snapshot().MarkRestored(ctx, snapshot.ID); err != nil {
			return result, err
		}
	}

	zap.S().Named("importer").Infow("rollback finished",
		"job_id", jobID,
		"deleted", result.Deleted,
		"restored", result.Restored,
		"errors", len(result.Errors),
	)

	return result, nil
}

func (s *ImportService) undoEntry(ctx context.Context, writer entityWriter, entry model.SnapshotEntry) error {
	switch entry.Op {
	case model.SnapshotOpInserted:
		if err := writer.delete(ctx, entry.EntityID); err != nil {
			if errors.Is(err, store.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		return nil
	case model.SnapshotOpUpdated:
		if entry.PriorValues == nil {
			return fmt.Errorf("snapshot entry for entity %s has no prior values", entry.EntityID)
		}
		return writer.restore(ctx, entry.EntityID, entry.PriorValues.Data)
	default:
		return fmt.Errorf("unknown snapshot op %q", entry.Op)
	}
}
