package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/benefitsync/reconciler/internal/store/model"
)

type VendorChange interface {
	InitialMigration() error
	Create(ctx context.Context, change model.VendorChange) (*model.VendorChange, error)
	Get(ctx context.Context, id uuid.UUID) (*model.VendorChange, error)
	List(ctx context.Context, filter *VendorChangeQueryFilter) (model.VendorChangeList, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string, reviewedBy *string, reviewedAt *time.Time) error
}

type VendorChangeStore struct {
	db *gorm.DB
}

var _ VendorChange = (*VendorChangeStore)(nil)

func NewVendorChangeStore(db *gorm.DB) VendorChange {
	return &VendorChangeStore{db: db}
}

func (s *VendorChangeStore) InitialMigration() error {
	return s.db.AutoMigrate(&model.VendorChange{})
}

func (s *VendorChangeStore) Create(ctx context.Context, change model.VendorChange) (*model.VendorChange, error) {
	result := s.getDB(ctx).Create(&change)
	if result.Error != nil {
		return nil, result.Error
	}
	return &change, nil
}

func (s *VendorChangeStore) Get(ctx context.Context, id uuid.UUID) (*model.VendorChange, error) {
	var change model.VendorChange
	result := s.getDB(ctx).First(&change, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, result.Error
	}
	return &change, nil
}

func (s *VendorChangeStore) List(ctx context.Context, filter *VendorChangeQueryFilter) (model.VendorChangeList, error) {
	var changes model.VendorChangeList
	tx := s.getDB(ctx).Model(&changes).Order("detected_at")

	if filter != nil {
		for _, fn := range filter.QueryFn {
			tx = fn(tx)
		}
	}

	result := tx.Find(&changes)
	if result.Error != nil {
		return nil, result.Error
	}
	return changes, nil
}

func (s *VendorChangeStore) UpdateStatus(ctx context.Context, id uuid.UUID, status string, reviewedBy *string, reviewedAt *time.Time) error {
	updates := map[string]interface{}{
		"status":      status,
		"reviewed_by": reviewedBy,
		"reviewed_at": reviewedAt,
	}
	result := s.getDB(ctx).Model(&model.VendorChange{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (s *VendorChangeStore) getDB(ctx context.Context) *gorm.DB {
	tx := FromContext(ctx)
	if tx != nil {
		return tx
	}
	return s.db
}
