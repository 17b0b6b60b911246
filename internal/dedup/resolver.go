package dedup

import (
	"context"
	"errors"

	"github.com/google/uuid"

	api "github.com/benefitsync/reconciler/api/v1alpha1"
	"github.com/benefitsync/reconciler/internal/importer"
	"github.com/benefitsync/reconciler/internal/store"
)

// Match is the outcome of identity resolution for one row.
type Match struct {
	// EntityID of the existing record, nil when the row is new.
	EntityID *uuid.UUID
	// Strategy that produced the hit, empty when no strategy matched.
	Strategy string
}

func (m Match) Found() bool {
	return m.EntityID != nil
}

// Strategy is one ordered dedup rule. Lookup returns (nil, nil) when the
// strategy's keys are absent from the record or no entity matches.
type Strategy struct {
	Name   string
	Lookup func(ctx context.Context, s store.Store, orgID string, rec importer.Record) (*uuid.UUID, error)
}

// Resolver finds at most one existing entity representing the same
// real-world subject as a validated record. Strategies are tried in order
// and the first hit wins: the most specific identifier is authoritative
// even when a later strategy would point at a different record.
type Resolver struct {
	store store.Store
}

func NewResolver(s store.Store) *Resolver {
	return &Resolver{store: s}
}

// Resolve is always scoped to the calling organization; cross-organization
// collisions are structurally impossible.
func (r *Resolver) Resolve(ctx context.Context, entityType api.EntityType, orgID string, rec importer.Record) (Match, error) {
	for _, strategy := range StrategiesFor(entityType) {
		id, err := strategy.Lookup(ctx, r.store, orgID, rec)
		if err != nil {
			if errors.Is(err, store.ErrRecordNotFound) {
				continue
			}
			return Match{}, err
		}
		if id != nil {
			return Match{EntityID: id, Strategy: strategy.Name}, nil
		}
	}
	return Match{}, nil
}
