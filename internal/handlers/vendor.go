package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	api "github.com/benefitsync/reconciler/api/v1alpha1"
	"github.com/benefitsync/reconciler/internal/service"
	"github.com/benefitsync/reconciler/internal/service/mappers"
)

type VendorHandler struct {
	vendorSrv *service.VendorService
}

func NewVendorHandler(vendorSrv *service.VendorService) *VendorHandler {
	return &VendorHandler{vendorSrv: vendorSrv}
}

type VendorFileReply api.VendorFileSummary

func (rep VendorFileReply) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

type VendorChangeListReply struct {
	Changes []api.VendorChange `json:"changes"`
}

func (rep VendorChangeListReply) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

// CreateVendorFile handles POST /api/v1/vendor-files. Multipart: the feed
// file plus org_id, vendor_id, file_type, duplicate_strategy and
// detect_changes form values.
func (h *VendorHandler) CreateVendorFile(w http.ResponseWriter, r *http.Request) {
	rows, filename, err := readUpload(r)
	if err != nil {
		renderError(w, r, http.StatusBadRequest, fmt.Sprintf("failed to read source file: %v", err))
		return
	}

	detect := true
	if raw := r.FormValue("detect_changes"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			renderError(w, r, http.StatusBadRequest, "invalid detect_changes value")
			return
		}
		detect = parsed
	}

	strategy := api.StringToDuplicateStrategy(r.FormValue("duplicate_strategy"))
	if r.FormValue("duplicate_strategy") == "" {
		strategy = api.DuplicateStrategyUpdate
	}

	form := mappers.VendorFileForm{
		OrgID:             r.FormValue("org_id"),
		VendorID:          r.FormValue("vendor_id"),
		FileType:          api.StringToVendorFileType(r.FormValue("file_type")),
		FileFormat:        r.FormValue("format"),
		FileName:          filename,
		DuplicateStrategy: strategy,
		DetectChanges:     detect,
		Rows:              rows,
		ColumnOverrides:   columnOverrides(r),
	}

	summary, err := h.vendorSrv.ProcessVendorFile(r.Context(), form)
	if err != nil {
		zap.S().Named("vendor_handler").Errorw("vendor file failed", "org_id", form.OrgID, "vendor_id", form.VendorID, "error", err)
		switch err.(type) {
		case validator.ValidationErrors, *service.ErrNoRows:
			renderError(w, r, http.StatusBadRequest, err.Error())
		default:
			renderError(w, r, http.StatusInternalServerError, err.Error())
		}
		return
	}

	render.Status(r, http.StatusCreated)
	_ = render.Render(w, r, VendorFileReply(summary))
}

// GetVendorFile handles GET /api/v1/vendor-files/{id}.
func (h *VendorHandler) GetVendorFile(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		renderError(w, r, http.StatusBadRequest, "invalid file id")
		return
	}

	file, changes, err := h.vendorSrv.GetVendorFile(r.Context(), id)
	if err != nil {
		switch err.(type) {
		case *service.ErrResourceNotFound:
			renderError(w, r, http.StatusNotFound, err.Error())
		default:
			renderError(w, r, http.StatusInternalServerError, err.Error())
		}
		return
	}

	_ = render.Render(w, r, VendorFileReply(mappers.VendorFileToSummary(*file, nil, mappers.VendorChangeListToApi(changes))))
}

// ListChanges handles GET /api/v1/changes?org_id=...&status=...
func (h *VendorHandler) ListChanges(w http.ResponseWriter, r *http.Request) {
	orgID := r.URL.Query().Get("org_id")
	if orgID == "" {
		renderError(w, r, http.StatusBadRequest, "org_id is required")
		return
	}

	changes, err := h.vendorSrv.ListChanges(r.Context(), orgID, r.URL.Query().Get("status"))
	if err != nil {
		renderError(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	_ = render.Render(w, r, VendorChangeListReply{Changes: mappers.VendorChangeListToApi(changes)})
}
