package handlers

import (
	"github.com/go-chi/chi/v5"

	"github.com/benefitsync/reconciler/internal/service"
)

// RegisterRoutes mounts the v1 API surface on the router.
func RegisterRoutes(router chi.Router, importSrv *service.ImportService, vendorSrv *service.VendorService, reviewSrv *service.ReviewService) {
	importHandler := NewImportHandler(importSrv)
	vendorHandler := NewVendorHandler(vendorSrv)
	reviewHandler := NewReviewHandler(reviewSrv)

	router.Route("/api/v1", func(r chi.Router) {
		r.Post("/imports", importHandler.CreateImport)
		r.Get("/imports/{id}", importHandler.GetImport)
		r.Post("/imports/{id}/cancel", importHandler.CancelImport)
		r.Post("/imports/{id}/rollback", importHandler.RollbackImport)

		r.Post("/vendor-files", vendorHandler.CreateVendorFile)
		r.Get("/vendor-files/{id}", vendorHandler.GetVendorFile)

		r.Get("/changes", vendorHandler.ListChanges)
		r.Post("/changes/{id}/review", reviewHandler.ReviewChange)
		r.Post("/changes/review", reviewHandler.BulkReviewChanges)
	})
}
