package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	api "github.com/benefitsync/reconciler/api/v1alpha1"
	"github.com/benefitsync/reconciler/internal/events"
	"github.com/benefitsync/reconciler/internal/service/mappers"
	"github.com/benefitsync/reconciler/internal/store"
	"github.com/benefitsync/reconciler/internal/store/model"
)

// ReviewService moves staged changes through the review workflow. Approving
// a change applies it to the entity tables and marks it applied in the same
// transaction, so a change is never applied twice.
type ReviewService struct {
	store       store.Store
	eventWriter *events.EventProducer
}

func NewReviewService(s store.Store, ew *events.EventProducer) *ReviewService {
	return &ReviewService{store: s, eventWriter: ew}
}

// ReviewDecision is one reviewer verdict on a staged change.
type ReviewDecision struct {
	ChangeID   uuid.UUID
	Action     api.ReviewAction
	ReviewedBy string
}

// BulkReviewResult reports per-change outcomes of a batch review.
type BulkReviewResult struct {
	Reviewed []api.VendorChange `json:"reviewed"`
	Errors   []ReviewError      `json:"errors"`
}

type ReviewError struct {
	ChangeID uuid.UUID `json:"change_id"`
	Message  string    `json:"message"`
}

// ReviewChange processes one verdict. Reviewing an already-applied change is
// a no-op that returns the current state; any other non-pending status is
// rejected.
func (s *ReviewService) ReviewChange(ctx context.Context, decision ReviewDecision) (*api.VendorChange, error) {
	change, err := s.store.VendorChange().Get(ctx, decision.ChangeID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrChangeNotFound(decision.ChangeID)
		}
		return nil, err
	}

	if change.Status == string(api.ChangeStatusApplied) {
		out := mappers.VendorChangeToApi(*change)
		return &out, nil
	}
	if change.Status != string(api.ChangeStatusPending) {
		return nil, NewErrChangeNotReviewable(change.ID, change.Status)
	}

	now := time.Now()
	reviewedBy := &decision.ReviewedBy

	switch decision.Action {
	case api.ReviewActionReject:
		return s.markReviewed(ctx, change, api.ChangeStatusRejected, reviewedBy, &now)
	case api.ReviewActionIgnore:
		return s.markReviewed(ctx, change, api.ChangeStatusIgnored, reviewedBy, &now)
	case api.ReviewActionApprove:
		return s.approve(ctx, change, reviewedBy, &now)
	default:
		return nil, NewErrInvalidReviewAction(string(decision.Action))
	}
}

// BulkReviewChanges applies one verdict per change; a failing change never
// blocks the rest of the batch.
func (s *ReviewService) BulkReviewChanges(ctx context.Context, decisions []ReviewDecision) BulkReviewResult {
	result := BulkReviewResult{Reviewed: []api.VendorChange{}, Errors: []ReviewError{}}
	for _, decision := range decisions {
		reviewed, err := s.ReviewChange(ctx, decision)
		if err != nil {
			result.Errors = append(result.Errors, ReviewError{ChangeID: decision.ChangeID, Message: err.Error()})
			continue
		}
		result.Reviewed = append(result.Reviewed, *reviewed)
	}
	return result
}

func (s *ReviewService) markReviewed(ctx context.Context, change *model.VendorChange, status api.ChangeStatus, reviewedBy *string, reviewedAt *time.Time) (*api.VendorChange, error) {
	if err := s.store.VendorChange().UpdateStatus(ctx, change.ID, string(status), reviewedBy, reviewedAt); err != nil {
		return nil, err
	}
	change.Status = string(status)
	change.ReviewedBy = reviewedBy
	change.ReviewedAt = reviewedAt
	s.emitReviewed(ctx, change)
	out := mappers.VendorChangeToApi(*change)
	return &out, nil
}

// approve applies the change to the entity tables and flips the status to
// applied inside one transaction.
func (s *ReviewService) approve(ctx context.Context, change *model.VendorChange, reviewedBy *string, reviewedAt *time.Time) (*api.VendorChange, error) {
	txCtx, err := s.store.NewTransactionContext(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.apply(txCtx, change); err != nil {
		if _, rbErr := store.Rollback(txCtx); rbErr != nil {
			zap.S().Named("review").Errorf("rollback after failed apply of change %s: %v", change.ID, rbErr)
		}
		return nil, err
	}
	if err := s.store.VendorChange().UpdateStatus(txCtx, change.ID, string(api.ChangeStatusApplied), reviewedBy, reviewedAt); err != nil {
		if _, rbErr := store.Rollback(txCtx); rbErr != nil {
			zap.S().Named("review").Errorf("rollback after failed status update of change %s: %v", change.ID, rbErr)
		}
		return nil, err
	}
	if _, err := store.Commit(txCtx); err != nil {
		return nil, err
	}

	change.Status = string(api.ChangeStatusApplied)
	change.ReviewedBy = reviewedBy
	change.ReviewedAt = reviewedAt
	s.emitReviewed(ctx, change)
	out := mappers.VendorChangeToApi(*change)
	return &out, nil
}

func (s *ReviewService) emitReviewed(ctx context.Context, change *model.VendorChange) {
	event := events.ChangeReviewedEvent{
		ChangeID:   change.ID,
		OrgID:      change.OrgID,
		ChangeType: change.ChangeType,
		Status:     change.Status,
	}
	if change.ReviewedBy != nil {
		event.ReviewedBy = *change.ReviewedBy
	}
	if change.ReviewedAt != nil {
		event.ReviewedAt = *change.ReviewedAt
	}
	emitEvent(ctx, s.eventWriter, events.ChangeReviewedMessageKind, event)
}

// apply writes the approved change to the entity tables.
func (s *ReviewService) apply(ctx context.Context, change *model.VendorChange) error {
	writer := newEntityWriter(s.store, api.StringToEntityType(change.EntityType))

	switch api.ChangeType(change.ChangeType) {
	case api.ChangeTypeNewEnrollment:
		var fields map[string]string
		if err := json.Unmarshal([]byte(change.NewValue), &fields); err != nil {
			return fmt.Errorf("decode staged record for change %s: %w", change.ID, err)
		}
		entityID, err := writer.insert(ctx, change.OrgID, fields)
		if err != nil {
			return err
		}
		change.EntityID = &entityID
		return nil

	case api.ChangeTypeTermination:
		if change.EntityID == nil {
			return fmt.Errorf("termination change %s has no entity", change.ID)
		}
		fields := map[string]string{"status": "terminated"}
		if change.NewValue != "" {
			fields["termination_date"] = change.NewValue
		}
		return writer.update(ctx, *change.EntityID, fields)

	case api.ChangeTypeDemographicUpdate, api.ChangeTypePlanChange,
		api.ChangeTypeAddressChange, api.ChangeTypeStatusChange:
		if change.EntityID == nil || change.FieldChanged == nil {
			return fmt.Errorf("field change %s is missing its target", change.ID)
		}
		return writer.update(ctx, *change.EntityID, map[string]string{*change.FieldChanged: change.NewValue})

	default:
		return fmt.Errorf("change type %s cannot be applied automatically", change.ChangeType)
	}
}
