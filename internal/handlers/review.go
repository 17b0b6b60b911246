package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	api "github.com/benefitsync/reconciler/api/v1alpha1"
	"github.com/benefitsync/reconciler/internal/service"
)

type ReviewHandler struct {
	reviewSrv *service.ReviewService
}

func NewReviewHandler(reviewSrv *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewSrv: reviewSrv}
}

type ReviewRequest struct {
	Action     string `json:"action"`
	ReviewedBy string `json:"reviewed_by"`
}

type BulkReviewRequest struct {
	Action     string      `json:"action"`
	ReviewedBy string      `json:"reviewed_by"`
	ChangeIDs  []uuid.UUID `json:"change_ids"`
}

type VendorChangeReply api.VendorChange

func (rep VendorChangeReply) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

type BulkReviewReply service.BulkReviewResult

func (rep BulkReviewReply) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

// ReviewChange handles POST /api/v1/changes/{id}/review.
func (h *ReviewHandler) ReviewChange(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		renderError(w, r, http.StatusBadRequest, "invalid change id")
		return
	}

	var req ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	action, ok := api.StringToReviewAction(req.Action)
	if !ok {
		renderError(w, r, http.StatusBadRequest, "invalid review action "+req.Action)
		return
	}

	change, err := h.reviewSrv.ReviewChange(r.Context(), service.ReviewDecision{
		ChangeID:   id,
		Action:     action,
		ReviewedBy: req.ReviewedBy,
	})
	if err != nil {
		switch err.(type) {
		case *service.ErrResourceNotFound:
			renderError(w, r, http.StatusNotFound, err.Error())
		case *service.ErrInvalidReviewAction:
			renderError(w, r, http.StatusBadRequest, err.Error())
		case *service.ErrChangeNotReviewable:
			renderError(w, r, http.StatusConflict, err.Error())
		default:
			renderError(w, r, http.StatusInternalServerError, err.Error())
		}
		return
	}

	_ = render.Render(w, r, VendorChangeReply(*change))
}

// BulkReviewChanges handles POST /api/v1/changes/review: one verdict applied
// to many changes, with per-change error reporting.
func (h *ReviewHandler) BulkReviewChanges(w http.ResponseWriter, r *http.Request) {
	var req BulkReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.ChangeIDs) == 0 {
		renderError(w, r, http.StatusBadRequest, "change_ids is required")
		return
	}

	action, ok := api.StringToReviewAction(req.Action)
	if !ok {
		renderError(w, r, http.StatusBadRequest, "invalid review action "+req.Action)
		return
	}

	decisions := make([]service.ReviewDecision, 0, len(req.ChangeIDs))
	for _, changeID := range req.ChangeIDs {
		decisions = append(decisions, service.ReviewDecision{
			ChangeID:   changeID,
			Action:     action,
			ReviewedBy: req.ReviewedBy,
		})
	}

	result := h.reviewSrv.BulkReviewChanges(r.Context(), decisions)
	_ = render.Render(w, r, BulkReviewReply(result))
}
