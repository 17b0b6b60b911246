package store

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/benefitsync/reconciler/internal/store/model"
)

// ImportRow is an insert-only audit log. Rows are keyed by (job id, row
// index) and are never updated or deleted once written.
type ImportRow interface {
	InitialMigration() error
	Append(ctx context.Context, row model.ImportRow) (*model.ImportRow, error)
	ListByJob(ctx context.Context, jobID uuid.UUID) (model.ImportRowList, error)
}

type ImportRowStore struct {
	db *gorm.DB
}

// Make sure we conform to ImportRow interface
var _ ImportRow = (*ImportRowStore)(nil)

func NewImportRowStore(db *gorm.DB) ImportRow {
	return &ImportRowStore{db: db}
}

func (s *ImportRowStore) InitialMigration() error {
	return s.db.AutoMigrate(&model.ImportRow{})
}

func (s *ImportRowStore) Append(ctx context.Context, row model.ImportRow) (*model.ImportRow, error) {
	result := s.getDB(ctx).Create(&row)
	if result.Error != nil {
		return nil, result.Error
	}
	return &row, nil
}

func (s *ImportRowStore) ListByJob(ctx context.Context, jobID uuid.UUID) (model.ImportRowList, error) {
	var rows model.ImportRowList
	result := s.getDB(ctx).Where("job_id = ?", jobID).Order("row_index").Find(&rows)
	if result.Error != nil {
		return nil, result.Error
	}
	return rows, nil
}

func (s *ImportRowStore) getDB(ctx context.Context) *gorm.DB {
	tx := FromContext(ctx)
	if tx != nil {
		return tx
	}
	return s.db
}
