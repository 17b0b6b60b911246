package events

import (
	"time"

	"github.com/google/uuid"
)

// ImportJobEvent is emitted when a bulk import finishes, in any status.
type ImportJobEvent struct {
	JobID      uuid.UUID `json:"job_id"`
	OrgID      string    `json:"org_id"`
	EntityType string    `json:"entity_type"`
	Status     string    `json:"status"`
	Inserted   int       `json:"inserted"`
	Updated    int       `json:"updated"`
	Errored    int       `json:"errored"`
}

// VendorFileEvent is emitted when a vendor feed finishes processing.
type VendorFileEvent struct {
	FileID        uuid.UUID `json:"file_id"`
	OrgID         string    `json:"org_id"`
	VendorID      string    `json:"vendor_id"`
	Status        string    `json:"status"`
	StagedChanges int       `json:"staged_changes"`
}

// ChangeReviewedEvent is emitted when a staged change leaves the pending state.
type ChangeReviewedEvent struct {
	ChangeID   uuid.UUID `json:"change_id"`
	OrgID      string    `json:"org_id"`
	ChangeType string    `json:"change_type"`
	Status     string    `json:"status"`
	ReviewedBy string    `json:"reviewed_by"`
	ReviewedAt time.Time `json:"reviewed_at"`
}
