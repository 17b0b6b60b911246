package mappers

import (
	api "github.com/benefitsync/reconciler/api/v1alpha1"
	"github.com/benefitsync/reconciler/internal/store/model"
)

func ImportJobToApi(job model.ImportJob) api.ImportJob {
	return api.ImportJob{
		ID:          job.ID,
		OrgID:       job.OrgID,
		EntityType:  api.StringToEntityType(job.EntityType),
		SourceFile:  job.SourceFile,
		Status:      api.ImportJobStatus(job.Status),
		Total:       job.Total,
		Inserted:    job.Inserted,
		Updated:     job.Updated,
		Skipped:     job.Skipped,
		Errored:     job.Errored,
		CreatedAt:   job.CreatedAt,
		CompletedAt: job.CompletedAt,
	}
}

func VendorChangeToApi(change model.VendorChange) api.VendorChange {
	return api.VendorChange{
		ID:           change.ID,
		VendorID:     change.VendorID,
		ChangeType:   api.ChangeType(change.ChangeType),
		EntityType:   api.StringToEntityType(change.EntityType),
		EntityID:     change.EntityID,
		FieldChanged: change.FieldChanged,
		OldValue:     change.OldValue,
		NewValue:     change.NewValue,
		Severity:     api.ChangeSeverity(change.Severity),
		Status:       api.ChangeStatus(change.Status),
		DetectedAt:   change.DetectedAt,
		ReviewedBy:   change.ReviewedBy,
		ReviewedAt:   change.ReviewedAt,
	}
}

func VendorChangeListToApi(changes model.VendorChangeList) []api.VendorChange {
	out := make([]api.VendorChange, 0, len(changes))
	for _, c := range changes {
		out = append(out, VendorChangeToApi(c))
	}
	return out
}

func VendorFileToSummary(file model.VendorFile, errs []api.RowError, changes []api.VendorChange) api.VendorFileSummary {
	return api.VendorFileSummary{
		FileID:         file.ID,
		Status:         api.VendorFileStatus(file.Status),
		TotalRows:      file.TotalRows,
		ProcessedRows:  file.ProcessedRows,
		ValidRows:      file.ValidRows,
		ErrorRows:      file.ErrorRows,
		NewRecords:     file.NewRecords,
		UpdatedRecords: file.UpdatedRecords,
		Errors:         errs,
		Changes:        changes,
	}
}
