package store

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BaseQuerier struct {
	QueryFn []func(tx *gorm.DB) *gorm.DB
}

type MemberQueryFilter BaseQuerier

func NewMemberQueryFilter() *MemberQueryFilter {
	return &MemberQueryFilter{QueryFn: make([]func(tx *gorm.DB) *gorm.DB, 0)}
}

func (f *MemberQueryFilter) ByOrgID(orgID string) *MemberQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("org_id = ?", orgID)
	})
	return f
}

func (f *MemberQueryFilter) ByStatus(status string) *MemberQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("status = ?", status)
	})
	return f
}

type AdvisorQueryFilter BaseQuerier

func NewAdvisorQueryFilter() *AdvisorQueryFilter {
	return &AdvisorQueryFilter{QueryFn: make([]func(tx *gorm.DB) *gorm.DB, 0)}
}

func (f *AdvisorQueryFilter) ByOrgID(orgID string) *AdvisorQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("org_id = ?", orgID)
	})
	return f
}

type LeadQueryFilter BaseQuerier

func NewLeadQueryFilter() *LeadQueryFilter {
	return &LeadQueryFilter{QueryFn: make([]func(tx *gorm.DB) *gorm.DB, 0)}
}

func (f *LeadQueryFilter) ByOrgID(orgID string) *LeadQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("org_id = ?", orgID)
	})
	return f
}

type ImportJobQueryFilter BaseQuerier

func NewImportJobQueryFilter() *ImportJobQueryFilter {
	return &ImportJobQueryFilter{QueryFn: make([]func(tx *gorm.DB) *gorm.DB, 0)}
}

func (f *ImportJobQueryFilter) ByOrgID(orgID string) *ImportJobQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("org_id = ?", orgID)
	})
	return f
}

func (f *ImportJobQueryFilter) ByStatus(status string) *ImportJobQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("status = ?", status)
	})
	return f
}

type VendorFileQueryFilter BaseQuerier

func NewVendorFileQueryFilter() *VendorFileQueryFilter {
	return &VendorFileQueryFilter{QueryFn: make([]func(tx *gorm.DB) *gorm.DB, 0)}
}

func (f *VendorFileQueryFilter) ByOrgID(orgID string) *VendorFileQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("org_id = ?", orgID)
	})
	return f
}

func (f *VendorFileQueryFilter) ByVendorID(vendorID string) *VendorFileQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("vendor_id = ?", vendorID)
	})
	return f
}

type VendorChangeQueryFilter BaseQuerier

func NewVendorChangeQueryFilter() *VendorChangeQueryFilter {
	return &VendorChangeQueryFilter{QueryFn: make([]func(tx *gorm.DB) *gorm.DB, 0)}
}

func (f *VendorChangeQueryFilter) ByOrgID(orgID string) *VendorChangeQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("org_id = ?", orgID)
	})
	return f
}

func (f *VendorChangeQueryFilter) ByFileID(fileID uuid.UUID) *VendorChangeQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("file_id = ?", fileID)
	})
	return f
}

func (f *VendorChangeQueryFilter) ByStatus(status string) *VendorChangeQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("status = ?", status)
	})
	return f
}

func (f *VendorChangeQueryFilter) ByEntityID(entityID uuid.UUID) *VendorChangeQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("entity_id = ?", entityID)
	})
	return f
}
