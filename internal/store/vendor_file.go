package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/benefitsync/reconciler/internal/store/model"
)

type VendorFile interface {
	InitialMigration() error
	Create(ctx context.Context, file model.VendorFile) (*model.VendorFile, error)
	Get(ctx context.Context, id uuid.UUID) (*model.VendorFile, error)
	Update(ctx context.Context, file model.VendorFile) (*model.VendorFile, error)
	List(ctx context.Context, filter *VendorFileQueryFilter) (model.VendorFileList, error)
}

type VendorFileStore struct {
	db *gorm.DB
}

var _ VendorFile = (*VendorFileStore)(nil)

func NewVendorFileStore(db *gorm.DB) VendorFile {
	return &VendorFileStore{db: db}
}

func (s *VendorFileStore) InitialMigration() error {
	return s.db.AutoMigrate(&model.VendorFile{})
}

func (s *VendorFileStore) Create(ctx context.Context, file model.VendorFile) (*model.VendorFile, error) {
	result := s.getDB(ctx).Create(&file)
	if result.Error != nil {
		return nil, result.Error
	}
	return &file, nil
}

func (s *VendorFileStore) Get(ctx context.Context, id uuid.UUID) (*model.VendorFile, error) {
	var file model.VendorFile
	result := s.getDB(ctx).First(&file, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, result.Error
	}
	return &file, nil
}

func (s *VendorFileStore) Update(ctx context.Context, file model.VendorFile) (*model.VendorFile, error) {
	result := s.getDB(ctx).Model(&model.VendorFile{}).Where("id = ?", file.ID).
		Select("status", "total_rows", "processed_rows", "valid_rows", "error_rows", "new_records", "updated_records", "completed_at").
		Updates(&file)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrRecordNotFound
	}
	return &file, nil
}

func (s *VendorFileStore) List(ctx context.Context, filter *VendorFileQueryFilter) (model.VendorFileList, error) {
	var files model.VendorFileList
	tx := s.getDB(ctx).Model(&files).Order("created_at DESC")

	if filter != nil {
		for _, fn := range filter.QueryFn {
			tx = fn(tx)
		}
	}

	result := tx.Find(&files)
	if result.Error != nil {
		return nil, result.Error
	}
	return files, nil
}

func (s *VendorFileStore) getDB(ctx context.Context) *gorm.DB {
	tx := FromContext(ctx)
	if tx != nil {
		return tx
	}
	return s.db
}
