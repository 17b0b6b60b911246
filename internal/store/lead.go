package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/benefitsync/reconciler/internal/store/model"
)

type Lead interface {
	InitialMigration() error
	Create(ctx context.Context, lead model.Lead) (*model.Lead, error)
	Update(ctx context.Context, lead model.Lead) (*model.Lead, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Lead, error)
	GetByEmailAndPhone(ctx context.Context, orgID, email, phone string) (*model.Lead, error)
	GetByEmail(ctx context.Context, orgID, email string) (*model.Lead, error)
	List(ctx context.Context, filter *LeadQueryFilter) (model.LeadList, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type LeadStore struct {
	db *gorm.DB
}

// Make sure we conform to Lead interface
var _ Lead = (*LeadStore)(nil)

func NewLeadStore(db *gorm.DB) Lead {
	return &LeadStore{db: db}
}

func (s *LeadStore) InitialMigration() error {
	return s.db.AutoMigrate(&model.Lead{})
}

func (s *LeadStore) Create(ctx context.Context, lead model.Lead) (*model.Lead, error) {
	result := s.getDB(ctx).Create(&lead)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateKey
		}
		return nil, result.Error
	}
	return &lead, nil
}

func (s *LeadStore) Update(ctx context.Context, lead model.Lead) (*model.Lead, error) {
	result := s.getDB(ctx).Model(&model.Lead{}).Where("id = ?", lead.ID).Select("*").Omit("id", "org_id", "created_at").Updates(&lead)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrRecordNotFound
	}
	return &lead, nil
}

func (s *LeadStore) Get(ctx context.Context, id uuid.UUID) (*model.Lead, error) {
	var lead model.Lead
	result := s.getDB(ctx).First(&lead, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, result.Error
	}
	return &lead, nil
}

func (s *LeadStore) GetByEmailAndPhone(ctx context.Context, orgID, email, phone string) (*model.Lead, error) {
	var lead model.Lead
	result := s.getDB(ctx).First(&lead, "org_id = ? AND LOWER(email) = LOWER(?) AND phone = ?", orgID, email, phone)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, result.Error
	}
	return &lead, nil
}

func (s *LeadStore) GetByEmail(ctx context.Context, orgID, email string) (*model.Lead, error) {
	var lead model.Lead
	result := s.getDB(ctx).First(&lead, "org_id = ? AND LOWER(email) = LOWER(?)", orgID, email)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, result.Error
	}
	return &lead, nil
}

func (s *LeadStore) List(ctx context.Context, filter *LeadQueryFilter) (model.LeadList, error) {
	var leads model.LeadList
	tx := s.getDB(ctx).Model(&leads).Order("created_at")

	if filter != nil {
		for _, fn := range filter.QueryFn {
			tx = fn(tx)
		}
	}

	result := tx.Find(&leads)
	if result.Error != nil {
		return nil, result.Error
	}
	return leads, nil
}

func (s *LeadStore) Delete(ctx context.Context, id uuid.UUID) error {
	result := s.getDB(ctx).Delete(&model.Lead{}, "id = ?", id)
	if result.Error != nil && !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return result.Error
	}
	return nil
}

func (s *LeadStore) getDB(ctx context.Context) *gorm.DB {
	tx := FromContext(ctx)
	if tx != nil {
		return tx
	}
	return s.db
}
