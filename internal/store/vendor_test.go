package store_test

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"github.com/benefitsync/reconciler/internal/config"
	"github.com/benefitsync/reconciler/internal/store"
	"github.com/benefitsync/reconciler/internal/store/model"
)

const (
	insertVendorFileStm   = "INSERT INTO vendor_files (id, org_id, vendor_id, file_type, duplicate_strategy, detect_changes, status, created_at) VALUES ('%s', '%s', '%s', 'enrollment', 'update', TRUE, '%s', '2024-01-01 00:00:00');"
	insertVendorChangeStm = "INSERT INTO vendor_changes (id, org_id, file_id, vendor_id, change_type, entity_type, new_value, severity, status, detected_at) VALUES ('%s', '%s', '%s', '%s', '%s', 'member', '%s', '%s', '%s', '2024-01-01 00:00:00');"
)

var _ = Describe("vendor store", Ordered, func() {
	var (
		s      store.Store
		gormdb *gorm.DB
	)

	BeforeAll(func() {
		db, err := store.InitDB(config.NewDefault())
		Expect(err).To(BeNil())

		s = store.NewStore(db)
		gormdb = db
		Expect(s.InitialMigration()).To(BeNil())
	})

	AfterAll(func() {
		s.Close()
	})

	AfterEach(func() {
		gormdb.Exec("DELETE FROM vendor_changes;")
		gormdb.Exec("DELETE FROM vendor_files;")
	})

	Context("vendor file", func() {
		It("successfully creates a file", func() {
			file, err := s.VendorFile().Create(context.TODO(), model.VendorFile{
				ID:                uuid.New(),
				OrgID:             "org-1",
				VendorID:          "acme-health",
				FileType:          "enrollment",
				DuplicateStrategy: "update",
				DetectChanges:     true,
				Status:            "processing",
				CreatedAt:         time.Now(),
			})
			Expect(err).To(BeNil())
			Expect(file).ToNot(BeNil())

			count := 0
			tx := gormdb.Raw("SELECT COUNT(*) FROM vendor_files;").Scan(&count)
			Expect(tx.Error).To(BeNil())
			Expect(count).To(Equal(1))
		})

		It("updates counters and completion", func() {
			fileID := uuid.New()
			tx := gormdb.Exec(fmt.Sprintf(insertVendorFileStm, fileID, "org-1", "acme-health", "processing"))
			Expect(tx.Error).To(BeNil())

			file, err := s.VendorFile().Get(context.TODO(), fileID)
			Expect(err).To(BeNil())

			now := time.Now()
			file.Status = "completed"
			file.ProcessedRows = 10
			file.ValidRows = 9
			file.ErrorRows = 1
			file.CompletedAt = &now
			updated, err := s.VendorFile().Update(context.TODO(), *file)
			Expect(err).To(BeNil())
			Expect(updated.Status).To(Equal("completed"))

			reread, err := s.VendorFile().Get(context.TODO(), fileID)
			Expect(err).To(BeNil())
			Expect(reread.ProcessedRows).To(Equal(10))
			Expect(reread.CompletedAt).ToNot(BeNil())
		})

		It("lists files by vendor", func() {
			tx := gormdb.Exec(fmt.Sprintf(insertVendorFileStm, uuid.New(), "org-1", "acme-health", "completed"))
			Expect(tx.Error).To(BeNil())
			tx = gormdb.Exec(fmt.Sprintf(insertVendorFileStm, uuid.New(), "org-1", "other-vendor", "completed"))
			Expect(tx.Error).To(BeNil())

			files, err := s.VendorFile().List(context.TODO(), store.NewVendorFileQueryFilter().ByOrgID("org-1").ByVendorID("acme-health"))
			Expect(err).To(BeNil())
			Expect(files).To(HaveLen(1))
		})

		It("returns not found error for an unknown file", func() {
			_, err := s.VendorFile().Get(context.TODO(), uuid.New())
			Expect(err).To(Equal(store.ErrRecordNotFound))
		})
	})

	Context("vendor change", func() {
		var fileID uuid.UUID

		BeforeEach(func() {
			fileID = uuid.New()
			tx := gormdb.Exec(fmt.Sprintf(insertVendorFileStm, fileID, "org-1", "acme-health", "completed"))
			Expect(tx.Error).To(BeNil())
		})

		It("successfully creates a change", func() {
			change, err := s.VendorChange().Create(context.TODO(), model.VendorChange{
				ID:         uuid.New(),
				OrgID:      "org-1",
				FileID:     fileID,
				VendorID:   "acme-health",
				ChangeType: "new_enrollment",
				EntityType: "member",
				NewValue:   `{"member_number":"M-1001"}`,
				Severity:   "high",
				Status:     "pending",
				DetectedAt: time.Now(),
			})
			Expect(err).To(BeNil())
			Expect(change).ToNot(BeNil())
		})

		It("filters changes by file and status", func() {
			tx := gormdb.Exec(fmt.Sprintf(insertVendorChangeStm, uuid.New(), "org-1", fileID, "acme-health", "new_enrollment", "{}", "high", "pending"))
			Expect(tx.Error).To(BeNil())
			tx = gormdb.Exec(fmt.Sprintf(insertVendorChangeStm, uuid.New(), "org-1", fileID, "acme-health", "plan_change", "GOLD-2", "normal", "applied"))
			Expect(tx.Error).To(BeNil())

			all, err := s.VendorChange().List(context.TODO(), store.NewVendorChangeQueryFilter().ByFileID(fileID))
			Expect(err).To(BeNil())
			Expect(all).To(HaveLen(2))

			pending, err := s.VendorChange().List(context.TODO(), store.NewVendorChangeQueryFilter().ByOrgID("org-1").ByStatus("pending"))
			Expect(err).To(BeNil())
			Expect(pending).To(HaveLen(1))
			Expect(pending[0].ChangeType).To(Equal("new_enrollment"))
		})

		It("records the reviewer on status updates", func() {
			changeID := uuid.New()
			tx := gormdb.Exec(fmt.Sprintf(insertVendorChangeStm, changeID, "org-1", fileID, "acme-health", "plan_change", "GOLD-2", "normal", "pending"))
			Expect(tx.Error).To(BeNil())

			reviewedBy := "ops@benefitsync.io"
			reviewedAt := time.Now()
			err := s.VendorChange().UpdateStatus(context.TODO(), changeID, "approved", &reviewedBy, &reviewedAt)
			Expect(err).To(BeNil())

			change, err := s.VendorChange().Get(context.TODO(), changeID)
			Expect(err).To(BeNil())
			Expect(change.Status).To(Equal("approved"))
			Expect(*change.ReviewedBy).To(Equal("ops@benefitsync.io"))
			Expect(change.ReviewedAt).ToNot(BeNil())
		})

		It("returns not found when updating an unknown change", func() {
			err := s.VendorChange().UpdateStatus(context.TODO(), uuid.New(), "approved", nil, nil)
			Expect(err).To(Equal(store.ErrRecordNotFound))
		})
	})
})
