package store

import (
	"context"

	"gorm.io/gorm"
)

type Store interface {
	NewTransactionContext(ctx context.Context) (context.Context, error)
	Member() Member
	Advisor() Advisor
	Lead() Lead
	ImportJob() ImportJob
	ImportRow() ImportRow
	Snapshot() Snapshot
	VendorFile() VendorFile
	VendorChange() VendorChange
	InitialMigration() error
	Close() error
}

type DataStore struct {
	db           *gorm.DB
	member       Member
	advisor      Advisor
	lead         Lead
	importJob    ImportJob
	importRow    ImportRow
	snapshot     Snapshot
	vendorFile   VendorFile
	vendorChange VendorChange
}

func NewStore(db *gorm.DB) Store {
	return &DataStore{
		db:           db,
		member:       NewMemberStore(db),
		advisor:      NewAdvisorStore(db),
		lead:         NewLeadStore(db),
		importJob:    NewImportJobStore(db),
		importRow:    NewImportRowStore(db),
		snapshot:     NewSnapshotStore(db),
		vendorFile:   NewVendorFileStore(db),
		vendorChange: NewVendorChangeStore(db),
	}
}

func (s *DataStore) NewTransactionContext(ctx context.Context) (context.Context, error) {
	return newTransactionContext(ctx, s.db)
}

func (s *DataStore) Member() Member {
	return s.member
}

func (s *DataStore) Advisor() Advisor {
	return s.advisor
}

func (s *DataStore) Lead() Lead {
	return s.lead
}

func (s *DataStore) ImportJob() ImportJob {
	return s.importJob
}

func (s *DataStore) ImportRow() ImportRow {
	return s.importRow
}

func (s *DataStore) Snapshot() Snapshot {
	return s.snapshot
}

func (s *DataStore) VendorFile() VendorFile {
	return s.vendorFile
}

func (s *DataStore) VendorChange() VendorChange {
	return s.vendorChange
}

func (s *DataStore) InitialMigration() error {
	for _, sub := range []interface{ InitialMigration() error }{
		s.member, s.advisor, s.lead, s.importJob, s.importRow, s.snapshot, s.vendorFile, s.vendorChange,
	} {
		if err := sub.InitialMigration(); err != nil {
			return err
		}
	}
	return nil
}

func (s *DataStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
