package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/benefitsync/reconciler/internal/store/model"
)

type Member interface {
	InitialMigration() error
	Create(ctx context.Context, member model.Member) (*model.Member, error)
	Update(ctx context.Context, member model.Member) (*model.Member, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Member, error)
	GetByMemberNumber(ctx context.Context, orgID, memberNumber string) (*model.Member, error)
	GetByEmailAndDOB(ctx context.Context, orgID, email, dob string) (*model.Member, error)
	List(ctx context.Context, filter *MemberQueryFilter) (model.MemberList, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type MemberStore struct {
	db *gorm.DB
}

// Make sure we conform to Member interface
var _ Member = (*MemberStore)(nil)

func NewMemberStore(db *gorm.DB) Member {
	return &MemberStore{db: db}
}

func (s *MemberStore) InitialMigration() error {
	return s.db.AutoMigrate(&model.Member{})
}

func (s *MemberStore) Create(ctx context.Context, member model.Member) (*model.Member, error) {
	result := s.getDB(ctx).Create(&member)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateKey
		}
		return nil, result.Error
	}
	return &member, nil
}

func (s *MemberStore) Update(ctx context.Context, member model.Member) (*model.Member, error) {
	result := s.getDB(ctx).Model(&model.Member{}).Where("id = ?", member.ID).Select("*").Omit("id", "org_id", "created_at").Updates(&member)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateKey
		}
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrRecordNotFound
	}
	return &member, nil
}

func (s *MemberStore) Get(ctx context.Context, id uuid.UUID) (*model.Member, error) {
	var member model.Member
	result := s.getDB(ctx).First(&member, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, result.Error
	}
	return &member, nil
}

func (s *MemberStore) GetByMemberNumber(ctx context.Context, orgID, memberNumber string) (*model.Member, error) {
	var member model.Member
	result := s.getDB(ctx).First(&member, "org_id = ? AND member_number = ?", orgID, memberNumber)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, result.Error
	}
	return &member, nil
}

func (s *MemberStore) GetByEmailAndDOB(ctx context.Context, orgID, email, dob string) (*model.Member, error) {
	var member model.Member
	result := s.getDB(ctx).First(&member, "org_id = ? AND LOWER(email) = LOWER(?) AND date_of_birth = ?", orgID, email, dob)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, result.Error
	}
	return &member, nil
}

func (s *MemberStore) List(ctx context.Context, filter *MemberQueryFilter) (model.MemberList, error) {
	var members model.MemberList
	tx := s.getDB(ctx).Model(&members).Order("created_at")

	if filter != nil {
		for _, fn := range filter.QueryFn {
			tx = fn(tx)
		}
	}

	result := tx.Find(&members)
	if result.Error != nil {
		return nil, result.Error
	}
	return members, nil
}

func (s *MemberStore) Delete(ctx context.Context, id uuid.UUID) error {
	result := s.getDB(ctx).Delete(&model.Member{}, "id = ?", id)
	if result.Error != nil && !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return result.Error
	}
	return nil
}

func (s *MemberStore) getDB(ctx context.Context) *gorm.DB {
	tx := FromContext(ctx)
	if tx != nil {
		return tx
	}
	return s.db
}
