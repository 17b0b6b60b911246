package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/benefitsync/reconciler/internal/store/model"
)

type ImportJob interface {
	InitialMigration() error
	Create(ctx context.Context, job model.ImportJob) (*model.ImportJob, error)
	Get(ctx context.Context, id uuid.UUID) (*model.ImportJob, error)
	Update(ctx context.Context, job model.ImportJob) (*model.ImportJob, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	List(ctx context.Context, filter *ImportJobQueryFilter) (model.ImportJobList, error)
}

type ImportJobStore struct {
	db *gorm.DB
}

// Make sure we conform to ImportJob interface
var _ ImportJob = (*ImportJobStore)(nil)

func NewImportJobStore(db *gorm.DB) ImportJob {
	return &ImportJobStore{db: db}
}

func (s *ImportJobStore) InitialMigration() error {
	return s.db.AutoMigrate(&model.ImportJob{})
}

func (s *ImportJobStore) Create(ctx context.Context, job model.ImportJob) (*model.ImportJob, error) {
	result := s.getDB(ctx).Create(&job)
	if result.Error != nil {
		return nil, result.Error
	}
	return &job, nil
}

func (s *ImportJobStore) Get(ctx context.Context, id uuid.UUID) (*model.ImportJob, error) {
	var job model.ImportJob
	result := s.getDB(ctx).Preload("Rows").First(&job, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, result.Error
	}
	return &job, nil
}

func (s *ImportJobStore) Update(ctx context.Context, job model.ImportJob) (*model.ImportJob, error) {
	result := s.getDB(ctx).Model(&model.ImportJob{}).Where("id = ?", job.ID).
		Select("status", "total", "inserted", "updated", "skipped", "errored", "completed_at").
		Updates(&job)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrRecordNotFound
	}
	return &job, nil
}

func (s *ImportJobStore) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	result := s.getDB(ctx).Model(&model.ImportJob{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (s *ImportJobStore) List(ctx context.Context, filter *ImportJobQueryFilter) (model.ImportJobList, error) {
	var jobs model.ImportJobList
	tx := s.getDB(ctx).Model(&jobs).Order("created_at DESC")

	if filter != nil {
		for _, fn := range filter.QueryFn {
			tx = fn(tx)
		}
	}

	result := tx.Find(&jobs)
	if result.Error != nil {
		return nil, result.Error
	}
	return jobs, nil
}

func (s *ImportJobStore) getDB(ctx context.Context) *gorm.DB {
	tx := FromContext(ctx)
	if tx != nil {
		return tx
	}
	return s.db
}
