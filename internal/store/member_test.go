package store_test

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"github.com/benefitsync/reconciler/internal/config"
	"github.com/benefitsync/reconciler/internal/store"
	"github.com/benefitsync/reconciler/internal/store/model"
)

const (
	insertMemberStm        = "INSERT INTO members (id, org_id, member_number, first_name, last_name, email, date_of_birth, status, created_at) VALUES ('%s', '%s', '%s', '%s', '%s', '%s', '%s', 'active', '2024-01-01 00:00:00');"
	insertMemberNoNumber   = "INSERT INTO members (id, org_id, first_name, last_name, email, date_of_birth, status, created_at) VALUES ('%s', '%s', '%s', '%s', '%s', '%s', 'active', '2024-01-01 00:00:00');"
	insertMemberMinimalStm = "INSERT INTO members (id, org_id, first_name, last_name, created_at) VALUES ('%s', '%s', '%s', '%s', '2024-01-01 00:00:00');"
)

var _ = Describe("member store", Ordered, func() {
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
		gormdb.Exec("DELETE FROM members;")
	})

	Context("create", func() {
		It("successfully creates a member", func() {
			number := "M-1001"
			m := model.Member{
				ID:           uuid.New(),
				OrgID:        "org-1",
				MemberNumber: &number,
				FirstName:    "Ann",
				LastName:     "Droste",
			}
			member, err := s.Member().Create(context.TODO(), m)
			Expect(err).To(BeNil())
			Expect(member).ToNot(BeNil())

			count := 0
			Expect(gormdb.Raw("SELECT COUNT(*) FROM members;").Scan(&count).Error).To(BeNil())
			Expect(count).To(Equal(1))
		})

		It("rejects a duplicate member number within the same org", func() {
			tx := gormdb.Exec(fmt.Sprintf(insertMemberStm, uuid.NewString(), "org-1", "M-1001", "Ann", "Droste", "ann@example.com", "1980-01-02"))
			Expect(tx.Error).To(BeNil())

			number := "M-1001"
			_, err := s.Member().Create(context.TODO(), model.Member{
				ID:           uuid.New(),
				OrgID:        "org-1",
				MemberNumber: &number,
				FirstName:    "Other",
				LastName:     "Person",
			})
			Expect(err).To(Equal(store.ErrDuplicateKey))
		})

		It("allows the same member number in another org", func() {
			tx := gormdb.Exec(fmt.Sprintf(insertMemberStm, uuid.NewString(), "org-1", "M-1001", "Ann", "Droste", "ann@example.com", "1980-01-02"))
			Expect(tx.Error).To(BeNil())

			number := "M-1001"
			_, err := s.Member().Create(context.TODO(), model.Member{
				ID:           uuid.New(),
				OrgID:        "org-2",
				MemberNumber: &number,
				FirstName:    "Ann",
				LastName:     "Droste",
			})
			Expect(err).To(BeNil())
		})

		It("allows many members without a member number", func() {
			_, err := s.Member().Create(context.TODO(), model.Member{ID: uuid.New(), OrgID: "org-1", FirstName: "Ann", LastName: "Droste"})
			Expect(err).To(BeNil())
			_, err = s.Member().Create(context.TODO(), model.Member{ID: uuid.New(), OrgID: "org-1", FirstName: "Bo", LastName: "Li"})
			Expect(err).To(BeNil())
		})
	})

	Context("lookup", func() {
		It("finds a member by org and member number", func() {
			id := uuid.New()
			tx := gormdb.Exec(fmt.Sprintf(insertMemberStm, id, "org-1", "M-1001", "Ann", "Droste", "ann@example.com", "1980-01-02"))
			Expect(tx.Error).To(BeNil())

			member, err := s.Member().GetByMemberNumber(context.TODO(), "org-1", "M-1001")
			Expect(err).To(BeNil())
			Expect(member.ID).To(Equal(id))

			_, err = s.Member().GetByMemberNumber(context.TODO(), "org-2", "M-1001")
			Expect(err).To(Equal(store.ErrRecordNotFound))
		})

		It("finds a member by email and date of birth, case insensitive", func() {
			id := uuid.New()
			tx := gormdb.Exec(fmt.Sprintf(insertMemberNoNumber, id, "org-1", "Ann", "Droste", "ann@example.com", "1980-01-02"))
			Expect(tx.Error).To(BeNil())

			member, err := s.Member().GetByEmailAndDOB(context.TODO(), "org-1", "ANN@Example.COM", "1980-01-02")
			Expect(err).To(BeNil())
			Expect(member.ID).To(Equal(id))

			_, err = s.Member().GetByEmailAndDOB(context.TODO(), "org-1", "ann@example.com", "1990-01-01")
			Expect(err).To(Equal(store.ErrRecordNotFound))
		})
	})

	Context("update", func() {
		It("updates the tracked fields", func() {
			id := uuid.New()
			tx := gormdb.Exec(fmt.Sprintf(insertMemberStm, id, "org-1", "M-1001", "Ann", "Droste", "ann@example.com", "1980-01-02"))
			Expect(tx.Error).To(BeNil())

			member, err := s.Member().Get(context.TODO(), id)
			Expect(err).To(BeNil())

			member.SetField("plan_id", "GOLD-2")
			member.SetField("status", "suspended")
			_, err = s.Member().Update(context.TODO(), *member)
			Expect(err).To(BeNil())

			updated, err := s.Member().Get(context.TODO(), id)
			Expect(err).To(BeNil())
			Expect(updated.PlanID).To(Equal("GOLD-2"))
			Expect(updated.Status).To(Equal("suspended"))
			Expect(updated.OrgID).To(Equal("org-1"))
		})

		It("returns not found for a missing member", func() {
			_, err := s.Member().Update(context.TODO(), model.Member{ID: uuid.New(), FirstName: "Nobody"})
			Expect(err).To(Equal(store.ErrRecordNotFound))
		})
	})

	Context("list", func() {
		It("filters by org", func() {
			tx := gormdb.Exec(fmt.Sprintf(insertMemberMinimalStm, uuid.NewString(), "org-1", "Ann", "Droste"))
			Expect(tx.Error).To(BeNil())
			tx = gormdb.Exec(fmt.Sprintf(insertMemberMinimalStm, uuid.NewString(), "org-2", "Bo", "Li"))
			Expect(tx.Error).To(BeNil())

			members, err := s.Member().List(context.TODO(), store.NewMemberQueryFilter().ByOrgID("org-1"))
			Expect(err).To(BeNil())
			Expect(members).To(HaveLen(1))
			Expect(members[0].FirstName).To(Equal("Ann"))
		})
	})

	Context("delete", func() {
		It("deletes a member and tolerates a second delete", func() {
			id := uuid.New()
			tx := gormdb.Exec(fmt.Sprintf(insertMemberMinimalStm, id, "org-1", "Ann", "Droste"))
			Expect(tx.Error).To(BeNil())

			Expect(s.Member().Delete(context.TODO(), id)).To(BeNil())
			_, err := s.Member().Get(context.TODO(), id)
			Expect(err).To(Equal(store.ErrRecordNotFound))

			Expect(s.Member().Delete(context.TODO(), id)).To(BeNil())
		})
	})
})
