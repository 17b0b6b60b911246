package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type ImportJob struct {
	ID          uuid.UUID `gorm:"primaryKey;"`
	OrgID       string    `gorm:"not null;index:import_jobs_org_id_idx"`
	EntityType  string    `gorm:"not null;type:VARCHAR(50)"`
	SourceFile  string
	Status      string `gorm:"not null;type:VARCHAR(50)"`
	Total       int
	Inserted    int
	Updated     int
	Skipped     int
	Errored     int
	CreatedAt   time.Time `gorm:"not null"`
	CompletedAt *time.Time
	Rows        []ImportRow `gorm:"foreignKey:JobID;references:ID;constraint:OnDelete:CASCADE;"`
}

type ImportJobList []ImportJob

func (j ImportJob) String() string {
	val, _ := json.Marshal(j)
	return string(val)
}

// ImportRow is one append-only audit record per input row. The composite
// primary key (job_id, row_index) pins the record to its source position no
// matter in which order rows finished processing.
type ImportRow struct {
	JobID        uuid.UUID                     `gorm:"primaryKey;column:job_id"`
	RowIndex     int                           `gorm:"primaryKey;column:row_index;autoIncrement:false"`
	RawFields    *JSONField[map[string]string] `gorm:"type:jsonb"`
	MappedFields *JSONField[map[string]string] `gorm:"type:jsonb"`
	Status       string                        `gorm:"not null;type:VARCHAR(50)"`
	ErrorMessage *string
	EntityID     *uuid.UUID
	ProcessedAt  time.Time `gorm:"not null"`
}

type ImportRowList []ImportRow

func (r ImportRow) String() string {
	val, _ := json.Marshal(r)
	return string(val)
}
