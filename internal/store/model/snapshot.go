package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	SnapshotOpInserted = "inserted"
	SnapshotOpUpdated  = "updated"
)

// Snapshot is the job-scoped capture sufficient to reverse an import.
// Restored flips once on the first rollback; a second rollback is a no-op.
type Snapshot struct {
	ID        uint            `gorm:"primaryKey;autoIncrement"`
	JobID     uuid.UUID       `gorm:"not null;uniqueIndex:snapshots_job_id"`
	Restored  bool
	CreatedAt time.Time       `gorm:"not null"`
	Entries   []SnapshotEntry `gorm:"foreignKey:SnapshotID;references:ID;constraint:OnDelete:CASCADE;"`
}

// SnapshotEntry records the reversal data for a single touched entity:
// the generated id for inserts, the pre-update field values for updates.
type SnapshotEntry struct {
	ID          uint                          `gorm:"primaryKey;autoIncrement"`
	SnapshotID  uint                          `gorm:"not null;index:snapshot_entries_snapshot_id_idx"`
	RowIndex    int                           `gorm:"not null"`
	EntityType  string                        `gorm:"not null;type:VARCHAR(50)"`
	EntityID    uuid.UUID                     `gorm:"not null"`
	Op          string                        `gorm:"not null;type:VARCHAR(20)"`
	PriorValues *JSONField[map[string]string] `gorm:"type:jsonb"`
	CreatedAt   time.Time                     `gorm:"not null"`
}

func (s Snapshot) String() string {
	val, _ := json.Marshal(s)
	return string(val)
}
