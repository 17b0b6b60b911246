package v1alpha1

import (
	"time"

	"github.com/google/uuid"
)

// EntityType identifies which canonical record set an import targets.
type EntityType string

const (
	EntityTypeMember  EntityType = "member"
	EntityTypeAdvisor EntityType = "advisor"
	EntityTypeLead    EntityType = "lead"
)

// ImportJobStatus is the lifecycle of one batch operation.
type ImportJobStatus string

const (
	ImportJobStatusPending    ImportJobStatus = "pending"
	ImportJobStatusProcessing ImportJobStatus = "processing"
	ImportJobStatusCompleted  ImportJobStatus = "completed"
	ImportJobStatusFailed     ImportJobStatus = "failed"
)

// ImportRowStatus is the terminal outcome of one input row.
type ImportRowStatus string

const (
	ImportRowStatusPending  ImportRowStatus = "pending"
	ImportRowStatusInserted ImportRowStatus = "inserted"
	ImportRowStatusUpdated  ImportRowStatus = "updated"
	ImportRowStatusSkipped  ImportRowStatus = "skipped"
	ImportRowStatusError    ImportRowStatus = "error"
)

// VendorFileType classifies a recurring vendor feed.
type VendorFileType string

const (
	VendorFileTypeEnrollment  VendorFileType = "enrollment"
	VendorFileTypePricing     VendorFileType = "pricing"
	VendorFileTypeRoster      VendorFileType = "roster"
	VendorFileTypeTermination VendorFileType = "termination"
	VendorFileTypeChange      VendorFileType = "change"
	VendorFileTypeOther       VendorFileType = "other"
)

// DuplicateStrategy controls what happens when a vendor row matches an
// existing entity and change detection is off.
type DuplicateStrategy string

const (
	DuplicateStrategyUpdate DuplicateStrategy = "update"
	DuplicateStrategySkip   DuplicateStrategy = "skip"
	DuplicateStrategyError  DuplicateStrategy = "error"
)

// VendorFileStatus is the lifecycle of one vendor feed instance.
type VendorFileStatus string

const (
	VendorFileStatusPending            VendorFileStatus = "pending"
	VendorFileStatusProcessing         VendorFileStatus = "processing"
	VendorFileStatusCompleted          VendorFileStatus = "completed"
	VendorFileStatusFailed             VendorFileStatus = "failed"
	VendorFileStatusPartiallyCompleted VendorFileStatus = "partially_completed"
)

// ChangeType classifies a detected discrepancy between a vendor row and the
// organization's current record.
type ChangeType string

const (
	ChangeTypeNewEnrollment     ChangeType = "new_enrollment"
	ChangeTypeTermination       ChangeType = "termination"
	ChangeTypeDemographicUpdate ChangeType = "demographic_update"
	ChangeTypePlanChange        ChangeType = "plan_change"
	ChangeTypeAddressChange     ChangeType = "address_change"
	ChangeTypeStatusChange      ChangeType = "status_change"
	ChangeTypeDependentAdd      ChangeType = "dependent_add"
	ChangeTypeDependentRemove   ChangeType = "dependent_remove"
)

// ChangeSeverity ranks how urgently a change needs review.
type ChangeSeverity string

const (
	ChangeSeverityLow      ChangeSeverity = "low"
	ChangeSeverityNormal   ChangeSeverity = "normal"
	ChangeSeverityHigh     ChangeSeverity = "high"
	ChangeSeverityCritical ChangeSeverity = "critical"
)

// ChangeStatus is the review lifecycle of a staged change proposal.
type ChangeStatus string

const (
	ChangeStatusPending  ChangeStatus = "pending"
	ChangeStatusApproved ChangeStatus = "approved"
	ChangeStatusRejected ChangeStatus = "rejected"
	ChangeStatusIgnored  ChangeStatus = "ignored"
	ChangeStatusApplied  ChangeStatus = "applied"
)

// ReviewAction is a reviewer's decision on a pending change.
type ReviewAction string

const (
	ReviewActionApprove ReviewAction = "approve"
	ReviewActionReject  ReviewAction = "reject"
	ReviewActionIgnore  ReviewAction = "ignore"
)

// RowError locates a failed source line without re-parsing the file.
type RowError struct {
	RowIndex int    `json:"row_index"`
	Message  string `json:"message"`
}

// ImportResult is the caller-visible outcome of a direct bulk import.
type ImportResult struct {
	JobID    uuid.UUID  `json:"job_id"`
	Total    int        `json:"total"`
	Inserted int        `json:"inserted"`
	Updated  int        `json:"updated"`
	Skipped  int        `json:"skipped"`
	Errors   []RowError `json:"errors"`
}

// VendorFileSummary is the caller-visible outcome of a vendor feed run.
type VendorFileSummary struct {
	FileID         uuid.UUID        `json:"file_id"`
	Status         VendorFileStatus `json:"status"`
	TotalRows      int              `json:"total_rows"`
	ProcessedRows  int              `json:"processed_rows"`
	ValidRows      int              `json:"valid_rows"`
	ErrorRows      int              `json:"error_rows"`
	NewRecords     int              `json:"new_records"`
	UpdatedRecords int              `json:"updated_records"`
	Errors         []RowError       `json:"errors"`
	Changes        []VendorChange   `json:"changes"`
}

// VendorChange is the wire representation of a staged change proposal.
type VendorChange struct {
	ID           uuid.UUID      `json:"id"`
	VendorID     string         `json:"vendor_id"`
	ChangeType   ChangeType     `json:"change_type"`
	EntityType   EntityType     `json:"entity_type"`
	EntityID     *uuid.UUID     `json:"entity_id,omitempty"`
	FieldChanged *string        `json:"field_changed,omitempty"`
	OldValue     string         `json:"old_value"`
	NewValue     string         `json:"new_value"`
	Severity     ChangeSeverity `json:"severity"`
	Status       ChangeStatus   `json:"status"`
	DetectedAt   time.Time      `json:"detected_at"`
	ReviewedBy   *string        `json:"reviewed_by,omitempty"`
	ReviewedAt   *time.Time     `json:"reviewed_at,omitempty"`
}

// ImportJob is the wire representation of a batch operation.
type ImportJob struct {
	ID          uuid.UUID       `json:"id"`
	OrgID       string          `json:"org_id"`
	EntityType  EntityType      `json:"entity_type"`
	SourceFile  string          `json:"source_file"`
	Status      ImportJobStatus `json:"status"`
	Total       int             `json:"total"`
	Inserted    int             `json:"inserted"`
	Updated     int             `json:"updated"`
	Skipped     int             `json:"skipped"`
	Errored     int             `json:"errored"`
	CreatedAt   time.Time       `json:"created_at"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
}

// RollbackResult reports the per-row outcome of reversing a job.
type RollbackResult struct {
	JobID    uuid.UUID  `json:"job_id"`
	Restored int        `json:"restored"`
	Deleted  int        `json:"deleted"`
	Errors   []RowError `json:"errors"`
}
