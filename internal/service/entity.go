package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	api "github.com/benefitsync/reconciler/api/v1alpha1"
	"github.com/benefitsync/reconciler/internal/importer"
	"github.com/benefitsync/reconciler/internal/store"
	"github.com/benefitsync/reconciler/internal/store/model"
)

// entityWriter abstracts insert/update/restore over the three canonical
// entity tables so the executor and the rollback path stay entity-agnostic.
type entityWriter interface {
	insert(ctx context.Context, orgID string, fields map[string]string) (uuid.UUID, error)
	update(ctx context.Context, id uuid.UUID, fields map[string]string) error
	fieldValues(ctx context.Context, id uuid.UUID) (map[string]string, error)
	restore(ctx context.Context, id uuid.UUID, fields map[string]string) error
	delete(ctx context.Context, id uuid.UUID) error
}

func newEntityWriter(s store.Store, entityType api.EntityType) entityWriter {
	switch entityType {
	case api.EntityTypeAdvisor:
		return &advisorWriter{store: s}
	case api.EntityTypeLead:
		return &leadWriter{store: s}
	default:
		return &memberWriter{store: s}
	}
}

// recordFields flattens a validated record for the writers.
func recordFields(rec importer.Record) map[string]string {
	return rec.Strings()
}

type memberWriter struct {
	store store.Store
}

func (w *memberWriter) insert(ctx context.Context, orgID string, fields map[string]string) (uuid.UUID, error) {
	member := model.Member{
		ID:        uuid.New(),
		OrgID:     orgID,
		CreatedAt: time.Now(),
	}
	for name, value := range fields {
		member.SetField(name, value)
	}
	created, err := w.store.Member().Create(ctx, member)
	if err != nil {
		return uuid.UUID{}, err
	}
	return created.ID, nil
}

func (w *memberWriter) update(ctx context.Context, id uuid.UUID, fields map[string]string) error {
	member, err := w.store.Member().Get(ctx, id)
	if err != nil {
		return err
	}
	for name, value := range fields {
		member.SetField(name, value)
	}
	now := time.Now()
	member.UpdatedAt = &now
	_, err = w.store.Member().Update(ctx, *member)
	return err
}

func (w *memberWriter) fieldValues(ctx context.Context, id uuid.UUID) (map[string]string, error) {
	member, err := w.store.Member().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return member.FieldValues(), nil
}

func (w *memberWriter) restore(ctx context.Context, id uuid.UUID, fields map[string]string) error {
	return w.update(ctx, id, fields)
}

func (w *memberWriter) delete(ctx context.Context, id uuid.UUID) error {
	return w.store.Member().Delete(ctx, id)
}

type advisorWriter struct {
	store store.Store
}

func (w *advisorWriter) insert(ctx context.Context, orgID string, fields map[string]string) (uuid.UUID, error) {
	advisor := model.Advisor{
		ID:        uuid.New(),
		OrgID:     orgID,
		CreatedAt: time.Now(),
	}
	for name, value := range fields {
		advisor.SetField(name, value)
	}
	created, err := w.store.Advisor().Create(ctx, advisor)
	if err != nil {
		return uuid.UUID{}, err
	}
	return created.ID, nil
}

func (w *advisorWriter) update(ctx context.Context, id uuid.UUID, fields map[string]string) error {
	advisor, err := w.store.Advisor().Get(ctx, id)
	if err != nil {
		return err
	}
	for name, value := range fields {
		advisor.SetField(name, value)
	}
	now := time.Now()
	advisor.UpdatedAt = &now
	_, err = w.store.Advisor().Update(ctx, *advisor)
	return err
}

func (w *advisorWriter) fieldValues(ctx context.Context, id uuid.UUID) (map[string]string, error) {
	advisor, err := w.store.Advisor().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return advisor.FieldValues(), nil
}

func (w *advisorWriter) restore(ctx context.Context, id uuid.UUID, fields map[string]string) error {
	return w.update(ctx, id, fields)
}

func (w *advisorWriter) delete(ctx context.Context, id uuid.UUID) error {
	return w.store.Advisor().Delete(ctx, id)
}

type leadWriter struct {
	store store.Store
}

func (w *leadWriter) insert(ctx context.Context, orgID string, fields map[string]string) (uuid.UUID, error) {
	lead := model.Lead{
		ID:        uuid.New(),
		OrgID:     orgID,
		CreatedAt: time.Now(),
	}
	for name, value := range fields {
		lead.SetField(name, value)
	}
	created, err := w.store.Lead().Create(ctx, lead)
	if err != nil {
		return uuid.UUID{}, err
	}
	return created.ID, nil
}

func (w *leadWriter) update(ctx context.Context, id uuid.UUID, fields map[string]string) error {
	lead, err := w.store.Lead().Get(ctx, id)
	if err != nil {
		return err
	}
	for name, value := range fields {
		lead.SetField(name, value)
	}
	now := time.Now()
	lead.UpdatedAt = &now
	_, err = w.store.Lead().Update(ctx, *lead)
	return err
}

func (w *leadWriter) fieldValues(ctx context.Context, id uuid.UUID) (map[string]string, error) {
	lead, err := w.store.Lead().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return lead.FieldValues(), nil
}

func (w *leadWriter) restore(ctx context.Context, id uuid.UUID, fields map[string]string) error {
	return w.update(ctx, id, fields)
}

func (w *leadWriter) delete(ctx context.Context, id uuid.UUID) error {
	return w.store.Lead().Delete(ctx, id)
}
