package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type VendorFile struct {
	ID                uuid.UUID      `gorm:"primaryKey;"`
	OrgID             string         `gorm:"not null;index:vendor_files_org_id_idx"`
	VendorID          string         `gorm:"not null;index:vendor_files_vendor_id_idx"`
	FileType          string         `gorm:"not null;type:VARCHAR(50)"`
	FileFormat        string         `gorm:"type:VARCHAR(20)"`
	FileName          string
	DuplicateStrategy string         `gorm:"not null;type:VARCHAR(20)"`
	DetectChanges     bool
	Status            string         `gorm:"not null;type:VARCHAR(50)"`
	TotalRows         int
	ProcessedRows     int
	ValidRows         int
	ErrorRows         int
	NewRecords        int
	UpdatedRecords    int
	CreatedAt         time.Time      `gorm:"not null"`
	CompletedAt       *time.Time
	Changes           []VendorChange `gorm:"foreignKey:FileID;references:ID;constraint:OnDelete:CASCADE;"`
}

type VendorFileList []VendorFile

func (f VendorFile) String() string {
	val, _ := json.Marshal(f)
	return string(val)
}

// VendorChange is one staged change proposal. Mutated only by the review
// workflow; immutable once applied.
type VendorChange struct {
	ID           uuid.UUID `gorm:"primaryKey;"`
	OrgID        string    `gorm:"not null;index:vendor_changes_org_id_idx"`
	FileID       uuid.UUID `gorm:"not null;index:vendor_changes_file_id_idx"`
	VendorID     string    `gorm:"not null"`
	ChangeType   string    `gorm:"not null;type:VARCHAR(50)"`
	EntityType   string    `gorm:"not null;type:VARCHAR(50)"`
	EntityID     *uuid.UUID
	FieldChanged *string
	OldValue     string
	NewValue     string
	Severity     string    `gorm:"not null;type:VARCHAR(20)"`
	Status       string    `gorm:"not null;type:VARCHAR(20);index:vendor_changes_status_idx"`
	DetectedAt   time.Time `gorm:"not null"`
	ReviewedBy   *string
	ReviewedAt   *time.Time
}

type VendorChangeList []VendorChange

func (c VendorChange) String() string {
	val, _ := json.Marshal(c)
	return string(val)
}
