package service_test

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
	"github.com/benefitsync/reconciler/internal/service"
	"github.com/benefitsync/reconciler/internal/service/mappers"
	"github.com/benefitsync/reconciler/internal/store"
	"github.com/benefitsync/reconciler/internal/store/model"
	"github.com/benefitsync/reconciler/internal/tabular"
)

const (
	insertMemberStm = "INSERT INTO members (id, org_id, member_number, first_name, last_name, email, date_of_birth, plan_id, status, created_at) VALUES ('%s', '%s', '%s', '%s', '%s', '%s', '%s', '%s', '%s', '2024-01-01 00:00:00');"
)

var _ = Describe("import service", Ordered, func() {
	var (
		s      store.Store
		gormdb *gorm.DB
		srv    *service.ImportService
	)

	BeforeAll(func() {
		db, err := store.InitDB(config.NewDefault())
		Expect(err).To(BeNil())

		s = store.NewStore(db)
		gormdb = db
		Expect(s.InitialMigration()).To(BeNil())

		srv = service.NewImportService(s, nil)
	})

	AfterAll(func() {
		s.Close()
	})

	AfterEach(func() {
		gormdb.Exec("DELETE FROM snapshot_entries;")
		gormdb.Exec("DELETE FROM snapshots;")
		gormdb.Exec("DELETE FROM import_rows;")
		gormdb.Exec("DELETE FROM import_jobs;")
		gormdb.Exec("DELETE FROM members;")
		gormdb.Exec("DELETE FROM advisors;")
		gormdb.Exec("DELETE FROM leads;")
	})

	memberForm := func(rows ...tabular.Row) mappers.ImportForm {
		return mappers.ImportForm{
			OrgID:      "org-1",
			EntityType: api.EntityTypeMember,
			SourceFile: "roster.csv",
			Rows:       rows,
		}
	}

	Context("submit", func() {
		It("inserts brand new members", func() {
			result, err := srv.SubmitImport(context.TODO(), memberForm(
				tabular.Row{"First Name": "Ann", "Last Name": "Droste", "Member ID": "M-1001"},
				tabular.Row{"First Name": "Bo", "Last Name": "Li", "Member ID": "M-1002"},
			))
			Expect(err).To(BeNil())
			Expect(result.Total).To(Equal(2))
			Expect(result.Inserted).To(Equal(2))
			Expect(result.Updated).To(Equal(0))
			Expect(result.Errors).To(BeEmpty())

			count := 0
			Expect(gormdb.Raw("SELECT COUNT(*) FROM members;").Scan(&count).Error).To(BeNil())
			Expect(count).To(Equal(2))

			job, err := srv.GetJob(context.TODO(), result.JobID)
			Expect(err).To(BeNil())
			Expect(job.Status).To(Equal(string(api.ImportJobStatusCompleted)))
			Expect(job.Inserted).To(Equal(2))
			Expect(job.Rows).To(HaveLen(2))
			Expect(job.Rows[0].RowIndex).To(Equal(0))
			Expect(job.Rows[0].Status).To(Equal(string(api.ImportRowStatusInserted)))
			Expect(job.Rows[0].EntityID).ToNot(BeNil())
		})

		It("updates an existing member matched by member number", func() {
			memberID := uuid.New()
			tx := gormdb.Exec(fmt.Sprintf(insertMemberStm, memberID, "org-1", "M-1001", "Ann", "Droste", "ann@example.com", "1980-01-02", "BRONZE-1", "active"))
			Expect(tx.Error).To(BeNil())

			result, err := srv.SubmitImport(context.TODO(), memberForm(
				tabular.Row{"Member ID": "M-1001", "First Name": "Ann", "Last Name": "Droste", "Plan Code": "GOLD-2"},
			))
			Expect(err).To(BeNil())
			Expect(result.Inserted).To(Equal(0))
			Expect(result.Updated).To(Equal(1))

			member, err := s.Member().Get(context.TODO(), memberID)
			Expect(err).To(BeNil())
			Expect(member.PlanID).To(Equal("GOLD-2"))

			count := 0
			Expect(gormdb.Raw("SELECT COUNT(*) FROM members;").Scan(&count).Error).To(BeNil())
			Expect(count).To(Equal(1))
		})

		It("matches by email and date of birth when no member number is given", func() {
			memberID := uuid.New()
			tx := gormdb.Exec(fmt.Sprintf(insertMemberStm, memberID, "org-1", "M-1001", "Ann", "Droste", "ann@example.com", "1980-01-02", "BRONZE-1", "active"))
			Expect(tx.Error).To(BeNil())

			result, err := srv.SubmitImport(context.TODO(), memberForm(
				tabular.Row{"First Name": "Ann", "Last Name": "Droste", "Email": "ANN@Example.com", "DOB": "1/2/1980", "City": "Boston"},
			))
			Expect(err).To(BeNil())
			Expect(result.Updated).To(Equal(1))

			member, err := s.Member().Get(context.TODO(), memberID)
			Expect(err).To(BeNil())
			Expect(member.City).To(Equal("Boston"))
		})

		It("does not cross organization boundaries", func() {
			tx := gormdb.Exec(fmt.Sprintf(insertMemberStm, uuid.New(), "org-2", "M-1001", "Ann", "Droste", "ann@example.com", "1980-01-02", "BRONZE-1", "active"))
			Expect(tx.Error).To(BeNil())

			result, err := srv.SubmitImport(context.TODO(), memberForm(
				tabular.Row{"Member ID": "M-1001", "First Name": "Ann", "Last Name": "Droste"},
			))
			Expect(err).To(BeNil())
			Expect(result.Inserted).To(Equal(1))

			count := 0
			Expect(gormdb.Raw("SELECT COUNT(*) FROM members;").Scan(&count).Error).To(BeNil())
			Expect(count).To(Equal(2))
		})

		It("lets an inserted row match a later row of the same file", func() {
			result, err := srv.SubmitImport(context.TODO(), memberForm(
				tabular.Row{"Member ID": "M-1001", "First Name": "Ann", "Last Name": "Droste"},
				tabular.Row{"Member ID": "M-1001", "First Name": "Ann", "Last Name": "Droste", "City": "Boston"},
			))
			Expect(err).To(BeNil())
			Expect(result.Inserted).To(Equal(1))
			Expect(result.Updated).To(Equal(1))

			count := 0
			Expect(gormdb.Raw("SELECT COUNT(*) FROM members;").Scan(&count).Error).To(BeNil())
			Expect(count).To(Equal(1))
		})

		It("isolates row failures and keeps processing", func() {
			result, err := srv.SubmitImport(context.TODO(), memberForm(
				tabular.Row{"First Name": "Ann"}, // missing last name
				tabular.Row{"First Name": "Bo", "Last Name": "Li"},
			))
			Expect(err).To(BeNil())
			Expect(result.Inserted).To(Equal(1))
			Expect(result.Errors).To(HaveLen(1))
			Expect(result.Errors[0].RowIndex).To(Equal(0))
			Expect(result.Errors[0].Message).To(ContainSubstring("last_name"))

			job, err := srv.GetJob(context.TODO(), result.JobID)
			Expect(err).To(BeNil())
			Expect(job.Status).To(Equal(string(api.ImportJobStatusCompleted)))
			Expect(job.Errored).To(Equal(1))
			Expect(job.Rows[0].Status).To(Equal(string(api.ImportRowStatusError)))
			Expect(job.Rows[0].ErrorMessage).ToNot(BeNil())
		})

		It("rejects an empty submission", func() {
			_, err := srv.SubmitImport(context.TODO(), memberForm())
			Expect(err).ToNot(BeNil())
		})

		It("imports advisors with their own dedup keys", func() {
			result, err := srv.SubmitImport(context.TODO(), mappers.ImportForm{
				OrgID:      "org-1",
				EntityType: api.EntityTypeAdvisor,
				Rows: []tabular.Row{
					{"First Name": "Sam", "Last Name": "Pole", "Email": "sam@agency.com", "NPN": "1234567"},
					{"First Name": "Sam", "Last Name": "Pole", "Email": "SAM@AGENCY.COM", "Agency": "Pole Insurance"},
				},
			})
			Expect(err).To(BeNil())
			Expect(result.Inserted).To(Equal(1))
			Expect(result.Updated).To(Equal(1))

			count := 0
			Expect(gormdb.Raw("SELECT COUNT(*) FROM advisors;").Scan(&count).Error).To(BeNil())
			Expect(count).To(Equal(1))
		})
	})

	Context("rollback", func() {
		It("deletes inserted members and restores updated ones", func() {
			memberID := uuid.New()
			tx := gormdb.Exec(fmt.Sprintf(insertMemberStm, memberID, "org-1", "M-1001", "Ann", "Droste", "ann@example.com", "1980-01-02", "BRONZE-1", "active"))
			Expect(tx.Error).To(BeNil())

			result, err := srv.SubmitImport(context.TODO(), memberForm(
				tabular.Row{"Member ID": "M-1001", "First Name": "Ann", "Last Name": "Droste", "Plan Code": "GOLD-2"},
				tabular.Row{"Member ID": "M-2002", "First Name": "Bo", "Last Name": "Li"},
			))
			Expect(err).To(BeNil())
			Expect(result.Updated).To(Equal(1))
			Expect(result.Inserted).To(Equal(1))

			rollback, err := srv.Rollback(context.TODO(), result.JobID)
			Expect(err).To(BeNil())
			Expect(rollback.Deleted).To(Equal(1))
			Expect(rollback.Restored).To(Equal(1))
			Expect(rollback.Errors).To(BeEmpty())

			count := 0
			Expect(gormdb.Raw("SELECT COUNT(*) FROM members;").Scan(&count).Error).To(BeNil())
			Expect(count).To(Equal(1))

			member, err := s.Member().Get(context.TODO(), memberID)
			Expect(err).To(BeNil())
			Expect(member.PlanID).To(Equal("BRONZE-1"))
		})

		It("is a no-op the second time", func() {
			result, err := srv.SubmitImport(context.TODO(), memberForm(
				tabular.Row{"Member ID": "M-1001", "First Name": "Ann", "Last Name": "Droste"},
			))
			Expect(err).To(BeNil())

			first, err := srv.Rollback(context.TODO(), result.JobID)
			Expect(err).To(BeNil())
			Expect(first.Deleted).To(Equal(1))

			second, err := srv.Rollback(context.TODO(), result.JobID)
			Expect(err).To(BeNil())
			Expect(second.Deleted).To(Equal(0))
			Expect(second.Restored).To(Equal(0))
		})

		It("returns not found for an unknown job", func() {
			_, err := srv.Rollback(context.TODO(), uuid.New())
			Expect(err).To(BeAssignableToTypeOf(&service.ErrResourceNotFound{}))
		})
	})

	Context("cancel", func() {
		It("marks a processing job failed", func() {
			created, err := s.ImportJob().Create(context.TODO(), model.ImportJob{
				ID:         uuid.New(),
				OrgID:      "org-1",
				EntityType: string(api.EntityTypeMember),
				SourceFile: "roster.csv",
				Status:     string(api.ImportJobStatusProcessing),
				CreatedAt:  time.Now(),
			})
			Expect(err).To(BeNil())

			job, err := srv.CancelJob(context.TODO(), created.ID)
			Expect(err).To(BeNil())
			Expect(job.Status).To(Equal(string(api.ImportJobStatusFailed)))

			reread, err := srv.GetJob(context.TODO(), created.ID)
			Expect(err).To(BeNil())
			Expect(reread.Status).To(Equal(string(api.ImportJobStatusFailed)))
		})

		It("refuses to cancel a completed job", func() {
			result, err := srv.SubmitImport(context.TODO(), memberForm(
				tabular.Row{"First Name": "Ann", "Last Name": "Droste", "Member ID": "M-1001"},
			))
			Expect(err).To(BeNil())

			_, err = srv.CancelJob(context.TODO(), result.JobID)
			Expect(err).To(BeAssignableToTypeOf(&service.ErrJobNotCancellable{}))

			job, err := srv.GetJob(context.TODO(), result.JobID)
			Expect(err).To(BeNil())
			Expect(job.Status).To(Equal(string(api.ImportJobStatusCompleted)))
		})

		It("returns not found for an unknown job", func() {
			_, err := srv.CancelJob(context.TODO(), uuid.New())
			Expect(err).To(BeAssignableToTypeOf(&service.ErrResourceNotFound{}))
		})
	})
})
