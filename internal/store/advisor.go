package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/benefitsync/reconciler/internal/store/model"
)

type Advisor interface {
	InitialMigration() error
	Create(ctx context.Context, advisor model.Advisor) (*model.Advisor, error)
	Update(ctx context.Context, advisor model.Advisor) (*model.Advisor, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Advisor, error)
	GetByEmail(ctx context.Context, orgID, email string) (*model.Advisor, error)
	GetByAdvisorCode(ctx context.Context, orgID, code string) (*model.Advisor, error)
	GetByProducerNumber(ctx context.Context, orgID, npn string) (*model.Advisor, error)
	List(ctx context.Context, filter *AdvisorQueryFilter) (model.AdvisorList, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type AdvisorStore struct {
	db *gorm.DB
}

// Make sure we conform to Advisor interface
var _ Advisor = (*AdvisorStore)(nil)

func NewAdvisorStore(db *gorm.DB) Advisor {
	return &AdvisorStore{db: db}
}

func (s *AdvisorStore) InitialMigration() error {
	return s.db.AutoMigrate(&model.Advisor{})
}

func (s *AdvisorStore) Create(ctx context.Context, advisor model.Advisor) (*model.Advisor, error) {
	result := s.getDB(ctx).Create(&advisor)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateKey
		}
		return nil, result.Error
	}
	return &advisor, nil
}

func (s *AdvisorStore) Update(ctx context.Context, advisor model.Advisor) (*model.Advisor, error) {
	result := s.getDB(ctx).Model(&model.Advisor{}).Where("id = ?", advisor.ID).Select("*").Omit("id", "org_id", "created_at").Updates(&advisor)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateKey
		}
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrRecordNotFound
	}
	return &advisor, nil
}

func (s *AdvisorStore) Get(ctx context.Context, id uuid.UUID) (*model.Advisor, error) {
	var advisor model.Advisor
	result := s.getDB(ctx).First(&advisor, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, result.Error
	}
	return &advisor, nil
}

func (s *AdvisorStore) GetByEmail(ctx context.Context, orgID, email string) (*model.Advisor, error) {
	var advisor model.Advisor
	result := s.getDB(ctx).First(&advisor, "org_id = ? AND LOWER(email) = LOWER(?)", orgID, email)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, result.Error
	}
	return &advisor, nil
}

func (s *AdvisorStore) GetByAdvisorCode(ctx context.Context, orgID, code string) (*model.Advisor, error) {
	var advisor model.Advisor
	result := s.getDB(ctx).First(&advisor, "org_id = ? AND advisor_code = ?", orgID, code)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, result.Error
	}
	return &advisor, nil
}

func (s *AdvisorStore) GetByProducerNumber(ctx context.Context, orgID, npn string) (*model.Advisor, error) {
	var advisor model.Advisor
	result := s.getDB(ctx).First(&advisor, "org_id = ? AND national_producer_number = ?", orgID, npn)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, result.Error
	}
	return &advisor, nil
}

func (s *AdvisorStore) List(ctx context.Context, filter *AdvisorQueryFilter) (model.AdvisorList, error) {
	var advisors model.AdvisorList
	tx := s.getDB(ctx).Model(&advisors).Order("created_at")

	if filter != nil {
		for _, fn := range filter.QueryFn {
			tx = fn(tx)
		}
	}

	result := tx.Find(&advisors)
	if result.Error != nil {
		return nil, result.Error
	}
	return advisors, nil
}

func (s *AdvisorStore) Delete(ctx context.Context, id uuid.UUID) error {
	result := s.getDB(ctx).Delete(&model.Advisor{}, "id = ?", id)
	if result.Error != nil && !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return result.Error
	}
	return nil
}

func (s *AdvisorStore) getDB(ctx context.Context) *gorm.DB {
	tx := FromContext(ctx)
	if tx != nil {
		return tx
	}
	return s.db
}
