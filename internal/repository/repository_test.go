package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"educenter/internal/database"
	"educenter/internal/domain"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:repo_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.Connect(dsn)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func i64(v int64) *int64 { return &v }

func session(centerID, teacherID int64, roomID *int64, date string, startHour, endHour int) *domain.ClassSession {
	day, _ := time.Parse(domain.DateLayout, date)
	return &domain.ClassSession{
		CenterID:    centerID,
		ClassName:   "Flyers",
		SessionDate: date,
		StartAt:     day.Add(time.Duration(startHour) * time.Hour),
		EndAt:       day.Add(time.Duration(endHour) * time.Hour),
		Timezone:    "UTC",
		TeacherID:   teacherID,
		RoomID:      roomID,
	}
}

func allow([]domain.ClassSession) error { return nil }

func TestSessionRepository_CreateBatchAndListByDates(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSessionRepository(db)
	ctx := context.Background()

	batch := []*domain.ClassSession{
		session(1, 7, i64(3), "2025-03-10", 9, 10),
		session(1, 7, i64(3), "2025-03-11", 9, 10),
	}
	require.NoError(t, repo.CreateBatch(ctx, 1, batch, allow))
	assert.NotZero(t, batch[0].ID)
	assert.NotZero(t, batch[1].ID)

	other := []*domain.ClassSession{session(2, 7, nil, "2025-03-10", 9, 10)}
	require.NoError(t, repo.CreateBatch(ctx, 2, other, allow))

	got, err := repo.ListByDates(ctx, 1, []string{"2025-03-10"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, batch[0].ID, got[0].ID)
	require.NotNil(t, got[0].RoomID)
	assert.Equal(t, int64(3), *got[0].RoomID)

	empty, err := repo.ListByDates(ctx, 1, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestSessionRepository_GuardSeesStoredRowsAndRollsBack(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSessionRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.CreateBatch(ctx, 1, []*domain.ClassSession{session(1, 7, nil, "2025-03-10", 9, 10)}, allow))

	veto := errors.New("conflict")
	var seen []domain.ClassSession
	err := repo.CreateBatch(ctx, 1, []*domain.ClassSession{
		session(1, 8, nil, "2025-03-10", 11, 12),
		session(1, 8, nil, "2025-03-12", 11, 12),
	}, func(existing []domain.ClassSession) error {
		seen = existing
		return veto
	})
	assert.ErrorIs(t, err, veto)
	assert.Len(t, seen, 1)

	var count int64
	require.NoError(t, db.Model(&domain.ClassSession{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSessionRepository_UpdateGetDelete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSessionRepository(db)
	ctx := context.Background()

	s := session(1, 7, i64(3), "2025-03-10", 9, 10)
	require.NoError(t, repo.CreateBatch(ctx, 1, []*domain.ClassSession{s}, allow))

	moved := session(1, 7, nil, "2025-03-11", 14, 15)
	moved.ID = s.ID
	moved.ClassName = "Flyers B"
	require.NoError(t, repo.Update(ctx, moved, allow))

	got, err := repo.GetByID(ctx, 1, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "Flyers B", got.ClassName)
	assert.Equal(t, "2025-03-11", got.SessionDate)
	assert.Nil(t, got.RoomID)

	_, err = repo.GetByID(ctx, 2, s.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	missing := session(1, 7, nil, "2025-03-11", 14, 15)
	missing.ID = 9999
	assert.ErrorIs(t, repo.Update(ctx, missing, allow), gorm.ErrRecordNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, 2, s.ID), gorm.ErrRecordNotFound)
	require.NoError(t, repo.Delete(ctx, 1, s.ID))
	assert.ErrorIs(t, repo.Delete(ctx, 1, s.ID), gorm.ErrRecordNotFound)
}

func TestSessionRepository_ListFilters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSessionRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.CreateBatch(ctx, 1, []*domain.ClassSession{
		session(1, 7, i64(3), "2025-03-10", 9, 10),
		session(1, 8, i64(4), "2025-03-10", 9, 10),
		session(1, 7, i64(4), "2025-03-20", 9, 10),
	}, allow))

	all, err := repo.List(ctx, 1, "", "", 0, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	byTeacher, err := repo.List(ctx, 1, "", "", 7, 0)
	require.NoError(t, err)
	assert.Len(t, byTeacher, 2)

	byRoomAndRange, err := repo.List(ctx, 1, "2025-03-01", "2025-03-15", 0, 4)
	require.NoError(t, err)
	require.Len(t, byRoomAndRange, 1)
	assert.Equal(t, int64(8), byRoomAndRange[0].TeacherID)
}

func newInvoice(centerID int64, status domain.InvoiceStatus, total int64) *domain.Invoice {
	return &domain.Invoice{
		CenterID:        centerID,
		Number:          "INV-" + uuid.NewString()[:8],
		StudentName:     "Nguyen Van An",
		Status:          status,
		DueDate:         "2025-03-15",
		TotalAmount:     total,
		RemainingAmount: total,
		Items: []domain.LineItem{
			{Description: "Tuition", Quantity: 1, UnitPrice: total, Total: total},
		},
	}
}

func TestInvoiceRepository_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewInvoiceRepository(db)
	ctx := context.Background()

	inv := newInvoice(1, domain.InvoiceSent, 500000)
	require.NoError(t, repo.Create(ctx, inv))
	require.NotZero(t, inv.ID)
	require.NotZero(t, inv.Items[0].ID)

	got, err := repo.GetByID(ctx, 1, inv.ID)
	require.NoError(t, err)
	assert.Len(t, got.Items, 1)
	assert.Empty(t, got.Payments)

	_, err = repo.GetByID(ctx, 2, inv.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	list, err := repo.List(ctx, 1, domain.InvoiceSent)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	list, err = repo.List(ctx, 1, domain.InvoicePaid)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestInvoiceRepository_MutateAppendsPaymentAndWritesDerivedFields(t *testing.T) {
	db := setupTestDB(t)
	repo := NewInvoiceRepository(db)
	ctx := context.Background()

	inv := newInvoice(1, domain.InvoiceSent, 500000)
	require.NoError(t, repo.Create(ctx, inv))

	var created *domain.Payment
	out, err := repo.Mutate(ctx, 1, inv.ID, func(locked *domain.Invoice) (*domain.Payment, error) {
		created = &domain.Payment{Amount: 200000, Method: domain.PaymentCash, PaidOn: "2025-03-01"}
		locked.Payments = append(locked.Payments, *created)
		locked.PaidAmount = 200000
		locked.RemainingAmount = 300000
		locked.Status = domain.InvoicePartial
		return created, nil
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, created.ID, out.Payments[0].ID)

	got, err := repo.GetByID(ctx, 1, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InvoicePartial, got.Status)
	assert.Equal(t, int64(200000), got.PaidAmount)
	assert.Equal(t, int64(300000), got.RemainingAmount)
	require.Len(t, got.Payments, 1)
	assert.Equal(t, inv.ID, got.Payments[0].InvoiceID)
}

func TestInvoiceRepository_MutateErrorRollsBack(t *testing.T) {
	db := setupTestDB(t)
	repo := NewInvoiceRepository(db)
	ctx := context.Background()

	inv := newInvoice(1, domain.InvoiceSent, 500000)
	require.NoError(t, repo.Create(ctx, inv))

	boom := errors.New("rejected")
	_, err := repo.Mutate(ctx, 1, inv.ID, func(locked *domain.Invoice) (*domain.Payment, error) {
		locked.Status = domain.InvoicePaid
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := repo.GetByID(ctx, 1, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceSent, got.Status)

	_, err = repo.Mutate(ctx, 2, inv.ID, func(*domain.Invoice) (*domain.Payment, error) { return nil, nil })
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestInvoiceRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewInvoiceRepository(db)
	ctx := context.Background()

	inv := newInvoice(1, domain.InvoiceDraft, 100000)
	require.NoError(t, repo.Create(ctx, inv))

	veto := errors.New("has payments")
	assert.ErrorIs(t, repo.Delete(ctx, 1, inv.ID, func(*domain.Invoice) error { return veto }), veto)

	require.NoError(t, repo.Delete(ctx, 1, inv.ID, func(*domain.Invoice) error { return nil }))
	_, err := repo.GetByID(ctx, 1, inv.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var items int64
	require.NoError(t, db.Model(&domain.LineItem{}).Where("invoice_id = ?", inv.ID).Count(&items).Error)
	assert.Zero(t, items)
}

func TestInvoiceRepository_ListOverdueCandidates(t *testing.T) {
	db := setupTestDB(t)
	repo := NewInvoiceRepository(db)
	ctx := context.Background()

	due := newInvoice(1, domain.InvoiceSent, 100000)
	partial := newInvoice(2, domain.InvoicePartial, 100000)
	partial.RemainingAmount = 50000
	draft := newInvoice(1, domain.InvoiceDraft, 100000)
	notYet := newInvoice(1, domain.InvoiceSent, 100000)
	notYet.DueDate = "2025-04-01"
	noDue := newInvoice(1, domain.InvoiceSent, 100000)
	noDue.DueDate = ""

	for _, inv := range []*domain.Invoice{due, partial, draft, notYet, noDue} {
		require.NoError(t, repo.Create(ctx, inv))
	}

	got, err := repo.ListOverdueCandidates(ctx, "2025-03-20")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, due.ID, got[0].ID)
	assert.Equal(t, partial.ID, got[1].ID)
}

func TestCatalogRepositories_ExistingIDs(t *testing.T) {
	db := setupTestDB(t)
	rooms := NewRoomRepository(db)
	employees := NewEmployeeRepository(db)
	ctx := context.Background()

	r1 := &domain.Room{CenterID: 1, Name: "Room 101", Capacity: 12, IsActive: true}
	r2 := &domain.Room{CenterID: 2, Name: "Room 201", Capacity: 12, IsActive: true}
	require.NoError(t, rooms.Create(ctx, r1))
	require.NoError(t, rooms.Create(ctx, r2))

	ids, err := rooms.ExistingIDs(ctx, 1, []int64{r1.ID, r2.ID})
	require.NoError(t, err)
	assert.Equal(t, []int64{r1.ID}, ids)

	teacher := &domain.Employee{CenterID: 1, Name: "Ms Hoa", Kind: domain.EmployeeTeacher, IsActive: true}
	assistant := &domain.Employee{CenterID: 1, Name: "Mr Binh", Kind: domain.EmployeeAssistant, IsActive: true}
	require.NoError(t, employees.Create(ctx, teacher))
	require.NoError(t, employees.Create(ctx, assistant))

	ids, err = employees.ExistingIDs(ctx, 1, domain.EmployeeTeacher, []int64{teacher.ID, assistant.ID})
	require.NoError(t, err)
	assert.Equal(t, []int64{teacher.ID}, ids)

	list, err := employees.ListByCenter(ctx, 1, "")
	require.NoError(t, err)
	assert.Len(t, list, 2)

	roomList, err := rooms.ListByCenter(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, roomList, 1)
}

func TestUserRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	u := &domain.User{CenterID: 1, Email: " Admin@Example.com ", PasswordHash: "hash", Role: domain.RoleAdmin, Name: "Admin"}
	require.NoError(t, repo.Create(ctx, u))
	assert.Equal(t, "admin@example.com", u.Email)

	exists, err := repo.ExistsByEmail(ctx, "ADMIN@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	got, err := repo.GetByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, domain.RoleAdmin, got.Role)

	until := time.Now().Add(15 * time.Minute).UTC()
	got.FailedLoginAttempts = 5
	got.LockedUntil = &until
	require.NoError(t, repo.UpdateLoginState(ctx, got))

	again, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, again.FailedLoginAttempts)
	require.NotNil(t, again.LockedUntil)
}
