package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/benefitsync/reconciler/internal/store/model"
)

type Snapshot interface {
	InitialMigration() error
	Create(ctx context.Context, snapshot model.Snapshot) (*model.Snapshot, error)
	GetByJob(ctx context.Context, jobID uuid.UUID) (*model.Snapshot, error)
	AppendEntry(ctx context.Context, entry model.SnapshotEntry) (*model.SnapshotEntry, error)
	MarkRestored(ctx context.Context, id uint) error
}

type SnapshotStore struct {
	db *gorm.DB
}

var _ Snapshot = (*SnapshotStore)(nil)

func NewSnapshotStore(db *gorm.DB) Snapshot {
	return &SnapshotStore{db: db}
}

func (s *SnapshotStore) InitialMigration() error {
	if err := s.db.AutoMigrate(&model.Snapshot{}); err != nil {
		return err
	}
	return s.db.AutoMigrate(&model.SnapshotEntry{})
}

func (s *SnapshotStore) Create(ctx context.Context, snapshot model.Snapshot) (*model.Snapshot, error) {
	result := s.getDB(ctx).Create(&snapshot)
	if result.Error != nil {
		return nil, result.Error
	}
	return &snapshot, nil
}

func (s *SnapshotStore) GetByJob(ctx context.Context, jobID uuid.UUID) (*model.Snapshot, error) {
	var snapshot model.Snapshot
	result := s.getDB(ctx).Preload("Entries", func(db *gorm.DB) *gorm.DB {
		return db.Order("snapshot_entries.row_index")
	}).First(&snapshot, "job_id = ?", jobID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, result.Error
	}
	return &snapshot, nil
}

func (s *SnapshotStore) AppendEntry(ctx context.Context, entry model.SnapshotEntry) (*model.SnapshotEntry, error) {
	result := s.getDB(ctx).Create(&entry)
	if result.Error != nil {
		return nil, result.Error
	}
	return &entry, nil
}

func (s *SnapshotStore) MarkRestored(ctx context.Context, id uint) error {
	result := s.getDB(ctx).Model(&model.Snapshot{}).Where("id = ?", id).Update("restored", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (s *SnapshotStore) getDB(ctx context.Context) *gorm.DB {
	tx := FromContext(ctx)
	if tx != nil {
		return tx
	}
	return s.db
}
