package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	api "github.com/benefitsync/reconciler/api/v1alpha1"
	"github.com/benefitsync/reconciler/internal/service"
	"github.com/benefitsync/reconciler/internal/service/mappers"
)

type ImportHandler struct {
	importSrv *service.ImportService
}

func NewImportHandler(importSrv *service.ImportService) *ImportHandler {
	return &ImportHandler{importSrv: importSrv}
}

type ImportResultReply api.ImportResult

func (rep ImportResultReply) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

type ImportJobReply api.ImportJob

func (rep ImportJobReply) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

type RollbackResultReply api.RollbackResult

func (rep RollbackResultReply) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

// CreateImport handles POST /api/v1/imports. The request is multipart: the
// source file plus org_id and entity_type form values. Optional map.<header>
// values override the column synonym table.
func (h *ImportHandler) CreateImport(w http.ResponseWriter, r *http.Request) {
	rows, filename, err := readUpload(r)
	if err != nil {
		renderError(w, r, http.StatusBadRequest, fmt.Sprintf("failed to read source file: %v", err))
		return
	}

	entityType := api.StringToEntityType(r.FormValue("entity_type"))
	if string(entityType) != r.FormValue("entity_type") {
		renderError(w, r, http.StatusBadRequest, "invalid entity_type "+r.FormValue("entity_type"))
		return
	}

	form := mappers.ImportForm{
		OrgID:           r.FormValue("org_id"),
		EntityType:      entityType,
		SourceFile:      filename,
		Rows:            rows,
		ColumnOverrides: columnOverrides(r),
	}

	result, err := h.importSrv.SubmitImport(r.Context(), form)
	if err != nil {
		zap.S().Named("import_handler").Errorw("import failed", "org_id", form.OrgID, "error", err)
		switch err.(type) {
		case validator.ValidationErrors, *service.ErrNoRows:
			renderError(w, r, http.StatusBadRequest, err.Error())
		default:
			renderError(w, r, http.StatusInternalServerError, err.Error())
		}
		return
	}

	render.Status(r, http.StatusCreated)
	_ = render.Render(w, r, ImportResultReply(result))
}

// GetImport handles GET /api/v1/imports/{id}.
func (h *ImportHandler) GetImport(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		renderError(w, r, http.StatusBadRequest, "invalid job id")
		return
	}

	job, err := h.importSrv.GetJob(r.Context(), id)
	if err != nil {
		switch err.(type) {
		case *service.ErrResourceNotFound:
			renderError(w, r, http.StatusNotFound, err.Error())
		default:
			renderError(w, r, http.StatusInternalServerError, err.Error())
		}
		return
	}

	_ = render.Render(w, r, ImportJobReply(mappers.ImportJobToApi(*job)))
}

// CancelImport handles POST /api/v1/imports/{id}/cancel. Only pending or
// processing jobs can be cancelled.
func (h *ImportHandler) CancelImport(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		renderError(w, r, http.StatusBadRequest, "invalid job id")
		return
	}

	job, err := h.importSrv.CancelJob(r.Context(), id)
	if err != nil {
		switch err.(type) {
		case *service.ErrResourceNotFound:
			renderError(w, r, http.StatusNotFound, err.Error())
		case *service.ErrJobNotCancellable:
			renderError(w, r, http.StatusConflict, err.Error())
		default:
			renderError(w, r, http.StatusInternalServerError, err.Error())
		}
		return
	}

	_ = render.Render(w, r, ImportJobReply(mappers.ImportJobToApi(*job)))
}

// RollbackImport handles POST /api/v1/imports/{id}/rollback.
func (h *ImportHandler) RollbackImport(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		renderError(w, r, http.StatusBadRequest, "invalid job id")
		return
	}

	result, err := h.importSrv.Rollback(r.Context(), id)
	if err != nil {
		switch err.(type) {
		case *service.ErrResourceNotFound:
			renderError(w, r, http.StatusNotFound, err.Error())
		default:
			renderError(w, r, http.StatusInternalServerError, err.Error())
		}
		return
	}

	_ = render.Render(w, r, RollbackResultReply(result))
}
