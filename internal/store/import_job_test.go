package store_test

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	api "github.com/benefitsync/reconciler/api/v1alpha1"
	"github.com/benefitsync/reconciler/internal/config"
	"github.com/benefitsync/reconciler/internal/store"
	"github.com/benefitsync/reconciler/internal/store/model"
)

const (
	insertJobStm = "INSERT INTO import_jobs (id, org_id, entity_type, status, created_at) VALUES ('%s', '%s', 'member', '%s', '2024-01-01 00:00:00');"
)

var _ = Describe("import job store", Ordered, func() {
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
		gormdb.Exec("DELETE FROM import_rows;")
		gormdb.Exec("DELETE FROM import_jobs;")
		gormdb.Exec("DELETE FROM snapshot_entries;")
		gormdb.Exec("DELETE FROM snapshots;")
	})

	Context("jobs", func() {
		It("creates and reads back a job", func() {
			job, err := s.ImportJob().Create(context.TODO(), model.ImportJob{
				ID:         uuid.New(),
				OrgID:      "org-1",
				EntityType: string(api.EntityTypeMember),
				Status:     string(api.ImportJobStatusPending),
				Total:      3,
				CreatedAt:  time.Now(),
			})
			Expect(err).To(BeNil())

			got, err := s.ImportJob().Get(context.TODO(), job.ID)
			Expect(err).To(BeNil())
			Expect(got.OrgID).To(Equal("org-1"))
			Expect(got.Total).To(Equal(3))
		})

		It("updates status and counts", func() {
			jobID := uuid.New()
			tx := gormdb.Exec(fmt.Sprintf(insertJobStm, jobID, "org-1", "pending"))
			Expect(tx.Error).To(BeNil())

			Expect(s.ImportJob().UpdateStatus(context.TODO(), jobID, string(api.ImportJobStatusProcessing))).To(BeNil())

			now := time.Now()
			_, err := s.ImportJob().Update(context.TODO(), model.ImportJob{
				ID:          jobID,
				Status:      string(api.ImportJobStatusCompleted),
				Inserted:    2,
				Updated:     1,
				CompletedAt: &now,
			})
			Expect(err).To(BeNil())

			got, err := s.ImportJob().Get(context.TODO(), jobID)
			Expect(err).To(BeNil())
			Expect(got.Status).To(Equal(string(api.ImportJobStatusCompleted)))
			Expect(got.Inserted).To(Equal(2))
			Expect(got.CompletedAt).ToNot(BeNil())
		})

		It("returns not found for a missing job", func() {
			_, err := s.ImportJob().Get(context.TODO(), uuid.New())
			Expect(err).To(Equal(store.ErrRecordNotFound))

			Expect(s.ImportJob().UpdateStatus(context.TODO(), uuid.New(), "failed")).To(Equal(store.ErrRecordNotFound))
		})
	})

	Context("rows", func() {
		It("appends audit rows and lists them in source order", func() {
			jobID := uuid.New()
			tx := gormdb.Exec(fmt.Sprintf(insertJobStm, jobID, "org-1", "processing"))
			Expect(tx.Error).To(BeNil())

			for _, idx := range []int{2, 0, 1} {
				_, err := s.ImportRow().Append(context.TODO(), model.ImportRow{
					JobID:       jobID,
					RowIndex:    idx,
					RawFields:   model.MakeJSONField(map[string]string{"first_name": fmt.Sprintf("row-%d", idx)}),
					Status:      string(api.ImportRowStatusInserted),
					ProcessedAt: time.Now(),
				})
				Expect(err).To(BeNil())
			}

			rows, err := s.ImportRow().ListByJob(context.TODO(), jobID)
			Expect(err).To(BeNil())
			Expect(rows).To(HaveLen(3))
			for i, row := range rows {
				Expect(row.RowIndex).To(Equal(i))
			}
			Expect(rows[1].RawFields.Data["first_name"]).To(Equal("row-1"))
		})
	})

	Context("snapshots", func() {
		It("stores entries and flips the restored flag once", func() {
			jobID := uuid.New()
			tx := gormdb.Exec(fmt.Sprintf(insertJobStm, jobID, "org-1", "completed"))
			Expect(tx.Error).To(BeNil())

			snapshot, err := s.Snapshot().Create(context.TODO(), model.Snapshot{JobID: jobID, CreatedAt: time.Now()})
			Expect(err).To(BeNil())

			entityID := uuid.New()
			_, err = s.Snapshot().AppendEntry(context.TODO(), model.SnapshotEntry{
				SnapshotID: snapshot.ID,
				RowIndex:   0,
				EntityType: string(api.EntityTypeMember),
				EntityID:   entityID,
				Op:         model.SnapshotOpInserted,
				CreatedAt:  time.Now(),
			})
			Expect(err).To(BeNil())
			_, err = s.Snapshot().AppendEntry(context.TODO(), model.SnapshotEntry{
				SnapshotID:  snapshot.ID,
				RowIndex:    1,
				EntityType:  string(api.EntityTypeMember),
				EntityID:    uuid.New(),
				Op:          model.SnapshotOpUpdated,
				PriorValues: model.MakeJSONField(map[string]string{"status": "active"}),
				CreatedAt:   time.Now(),
			})
			Expect(err).To(BeNil())

			got, err := s.Snapshot().GetByJob(context.TODO(), jobID)
			Expect(err).To(BeNil())
			Expect(got.Restored).To(BeFalse())
			Expect(got.Entries).To(HaveLen(2))
			Expect(got.Entries[0].EntityID).To(Equal(entityID))
			Expect(got.Entries[1].PriorValues.Data["status"]).To(Equal("active"))

			Expect(s.Snapshot().MarkRestored(context.TODO(), snapshot.ID)).To(BeNil())
			got, err = s.Snapshot().GetByJob(context.TODO(), jobID)
			Expect(err).To(BeNil())
			Expect(got.Restored).To(BeTrue())
		})
	})
})
