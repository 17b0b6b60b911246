package dedup

import (
	"context"

	"github.com/google/uuid"

	api "github.com/benefitsync/reconciler/api/v1alpha1"
	"github.com/benefitsync/reconciler/internal/importer"
	"github.com/benefitsync/reconciler/internal/store"
)

// The strategy lists are declarative so reordering for an entity type is a
// config change, not a code change.

var memberStrategies = []Strategy{
	{
		Name: "member_number",
		Lookup: func(ctx context.Context, s store.Store, orgID string, rec importer.Record) (*uuid.UUID, error) {
			number := rec.Get("member_number")
			if number == "" {
				return nil, nil
			}
			member, err := s.Member().GetByMemberNumber(ctx, orgID, number)
			if err != nil {
				return nil, err
			}
			return &member.ID, nil
		},
	},
	{
		Name: "email_dob",
		Lookup: func(ctx context.Context, s store.Store, orgID string, rec importer.Record) (*uuid.UUID, error) {
			email, dob := rec.Get("email"), rec.Get("date_of_birth")
			if email == "" || dob == "" {
				return nil, nil
			}
			member, err := s.Member().GetByEmailAndDOB(ctx, orgID, email, dob)
			if err != nil {
				return nil, err
			}
			return &member.ID, nil
		},
	},
}

var advisorStrategies = []Strategy{
	{
		Name: "email",
		Lookup: func(ctx context.Context, s store.Store, orgID string, rec importer.Record) (*uuid.UUID, error) {
			email := rec.Get("email")
			if email == "" {
				return nil, nil
			}
			advisor, err := s.Advisor().GetByEmail(ctx, orgID, email)
			if err != nil {
				return nil, err
			}
			return &advisor.ID, nil
		},
	},
	{
		Name: "advisor_code",
		Lookup: func(ctx context.Context, s store.Store, orgID string, rec importer.Record) (*uuid.UUID, error) {
			code := rec.Get("advisor_code")
			if code == "" {
				return nil, nil
			}
			advisor, err := s.Advisor().GetByAdvisorCode(ctx, orgID, code)
			if err != nil {
				return nil, err
			}
			return &advisor.ID, nil
		},
	},
	{
		Name: "producer_number",
		Lookup: func(ctx context.Context, s store.Store, orgID string, rec importer.Record) (*uuid.UUID, error) {
			npn := rec.Get("national_producer_number")
			if npn == "" {
				return nil, nil
			}
			advisor, err := s.Advisor().GetByProducerNumber(ctx, orgID, npn)
			if err != nil {
				return nil, err
			}
			return &advisor.ID, nil
		},
	},
}

var leadStrategies = []Strategy{
	{
		Name: "email_phone",
		Lookup: func(ctx context.Context, s store.Store, orgID string, rec importer.Record) (*uuid.UUID, error) {
			email, phone := rec.Get("email"), rec.Get("phone")
			if email == "" || phone == "" {
				return nil, nil
			}
			lead, err := s.Lead().GetByEmailAndPhone(ctx, orgID, email, phone)
			if err != nil {
				return nil, err
			}
			return &lead.ID, nil
		},
	},
	{
		Name: "email",
		Lookup: func(ctx context.Context, s store.Store, orgID string, rec importer.Record) (*uuid.UUID, error) {
			email := rec.Get("email")
			if email == "" {
				return nil, nil
			}
			lead, err := s.Lead().GetByEmail(ctx, orgID, email)
			if err != nil {
				return nil, err
			}
			return &lead.ID, nil
		},
	},
}

// StrategiesFor returns the ordered dedup rules for an entity type.
func StrategiesFor(entityType api.EntityType) []Strategy {
	switch entityType {
	case api.EntityTypeAdvisor:
		return advisorStrategies
	case api.EntityTypeLead:
		return leadStrategies
	default:
		return memberStrategies
	}
}
