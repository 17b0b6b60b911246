package v1alpha1

func StringToEntityType(s string) EntityType {
	switch s {
	case string(EntityTypeMember):
		return EntityTypeMember
	case string(EntityTypeAdvisor):
		return EntityTypeAdvisor
	case string(EntityTypeLead):
		return EntityTypeLead
	default:
		return EntityTypeMember
	}
}

func StringToDuplicateStrategy(s string) DuplicateStrategy {
	switch s {
	case string(DuplicateStrategySkip):
		return DuplicateStrategySkip
	case string(DuplicateStrategyError):
		return DuplicateStrategyError
	default:
		return DuplicateStrategyUpdate
	}
}

func StringToVendorFileType(s string) VendorFileType {
	switch s {
	case string(VendorFileTypeEnrollment):
		return VendorFileTypeEnrollment
	case string(VendorFileTypePricing):
		return VendorFileTypePricing
	case string(VendorFileTypeRoster):
		return VendorFileTypeRoster
	case string(VendorFileTypeTermination):
		return VendorFileTypeTermination
	case string(VendorFileTypeChange):
		return VendorFileTypeChange
	default:
		return VendorFileTypeOther
	}
}

func StringToReviewAction(s string) (ReviewAction, bool) {
	switch s {
	case string(ReviewActionApprove):
		return ReviewActionApprove, true
	case string(ReviewActionReject):
		return ReviewActionReject, true
	case string(ReviewActionIgnore):
		return ReviewActionIgnore, true
	default:
		return "", false
	}
}
