package leave_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"leavedesk/internal/leave"
	leaveerrors "leavedesk/internal/leave/errors"
	"leavedesk/internal/rbac"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeLeaveRepository struct {
	withTxFn               func(tx *sql.Tx) leave.Repository
	createFn               func(ctx context.Context, l *leave.Leave) error
	findByIDFn             func(ctx context.Context, id string) (*leave.Leave, error)
	findByEmployeeFn       func(ctx context.Context, employeeID string) ([]leave.Leave, error)
	findAllFn              func(ctx context.Context, filter leave.LeaveFilter) ([]leave.Leave, error)
	hasOverlappingPeriodFn func(ctx context.Context, employeeID string, startDate, endDate time.Time) (bool, error)
	markReviewedFn         func(ctx context.Context, l *leave.Leave) (bool, error)
	deleteIfPendingFn      func(ctx context.Context, id string) (bool, error)
	deleteByEmployeeFn     func(ctx context.Context, employeeID string) error
	getBalanceFn           func(ctx context.Context, employeeID, leaveType string) (int, error)
	deductBalanceFn        func(ctx context.Context, employeeID, leaveType string, days int) error
	countByStatusFn        func(ctx context.Context) (map[string]int64, error)
	approvedTypeStatsFn    func(ctx context.Context) ([]leave.TypeStat, error)
}

func (f *fakeLeaveRepository) WithTx(tx *sql.Tx) leave.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeLeaveRepository) Create(ctx context.Context, l *leave.Leave) error {
	if f.createFn != nil {
		return f.createFn(ctx, l)
	}
	return nil
}

func (f *fakeLeaveRepository) FindByID(ctx context.Context, id string) (*leave.Leave, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeLeaveRepository) FindByEmployee(ctx context.Context, employeeID string) ([]leave.Leave, error) {
	if f.findByEmployeeFn != nil {
		return f.findByEmployeeFn(ctx, employeeID)
	}
	return nil, nil
}

func (f *fakeLeaveRepository) FindAll(ctx context.Context, filter leave.LeaveFilter) ([]leave.Leave, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx, filter)
	}
	return nil, nil
}

func (f *fakeLeaveRepository) HasOverlappingPeriod(ctx context.Context, employeeID string, startDate, endDate time.Time) (bool, error) {
	if f.hasOverlappingPeriodFn != nil {
		return f.hasOverlappingPeriodFn(ctx, employeeID, startDate, endDate)
	}
	return false, nil
}

func (f *fakeLeaveRepository) MarkReviewed(ctx context.Context, l *leave.Leave) (bool, error) {
	if f.markReviewedFn != nil {
		return f.markReviewedFn(ctx, l)
	}
	return true, nil
}

func (f *fakeLeaveRepository) DeleteIfPending(ctx context.Context, id string) (bool, error) {
	if f.deleteIfPendingFn != nil {
		return f.deleteIfPendingFn(ctx, id)
	}
	return true, nil
}

func (f *fakeLeaveRepository) DeleteByEmployee(ctx context.Context, employeeID string) error {
	if f.deleteByEmployeeFn != nil {
		return f.deleteByEmployeeFn(ctx, employeeID)
	}
	return nil
}

func (f *fakeLeaveRepository) GetBalance(ctx context.Context, employeeID, leaveType string) (int, error) {
	if f.getBalanceFn != nil {
		return f.getBalanceFn(ctx, employeeID, leaveType)
	}
	return 15, nil
}

func (f *fakeLeaveRepository) DeductBalance(ctx context.Context, employeeID, leaveType string, days int) error {
	if f.deductBalanceFn != nil {
		return f.deductBalanceFn(ctx, employeeID, leaveType, days)
	}
	return nil
}

func (f *fakeLeaveRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	if f.countByStatusFn != nil {
		return f.countByStatusFn(ctx)
	}
	return map[string]int64{}, nil
}

func (f *fakeLeaveRepository) ApprovedTypeStats(ctx context.Context) ([]leave.TypeStat, error) {
	if f.approvedTypeStatsFn != nil {
		return f.approvedTypeStatsFn(ctx)
	}
	return nil, nil
}

type leaveServiceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service leave.Service
	repo    *fakeLeaveRepository
}

func setupLeaveServiceTest(t *testing.T) *leaveServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeLeaveRepository{}
	svc := leave.NewService(db, repo)

	return &leaveServiceDeps{
		db:      db,
		sqlMock: sqlMock,
		service: svc,
		repo:    repo,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func TestLeaveService_Apply(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		req := leave.ApplyLeaveRequest{
			LeaveType: leave.TypeAnnual,
			StartDate: "2025-06-02",
			EndDate:   "2025-06-06",
			Reason:    "Family trip",
		}

		deps.repo.getBalanceFn = func(ctx context.Context, eid, lt string) (int, error) {
			assert.Equal(t, actorID, eid)
			assert.Equal(t, leave.TypeAnnual, lt)
			return 15, nil
		}
		deps.repo.hasOverlappingPeriodFn = func(ctx context.Context, eid string, startDate, endDate time.Time) (bool, error) {
			assert.Equal(t, actorID, eid)
			assert.Equal(t, "2025-06-02", startDate.Format("2006-01-02"))
			assert.Equal(t, "2025-06-06", endDate.Format("2006-01-02"))
			return false, nil
		}
		deps.repo.createFn = func(ctx context.Context, l *leave.Leave) error {
			assert.Equal(t, uuid.MustParse(actorID), l.EmployeeID)
			assert.Equal(t, leave.TypeAnnual, l.LeaveType)
			assert.Equal(t, 5, l.NumberOfDays)
			assert.Equal(t, leave.StatusPending, l.Status)
			return nil
		}

		resp, err := deps.service.Apply(ctx, actorID, req)

		assert.NoError(t, err)
		assert.Equal(t, actorID, resp.EmployeeID)
		assert.Equal(t, 5, resp.NumberOfDays)
		assert.Equal(t, leave.StatusPending, resp.Status)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("weekend days excluded from count", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		// Friday through Monday spans four calendar days but two workdays.
		req := leave.ApplyLeaveRequest{
			LeaveType: leave.TypeCasual,
			StartDate: "2025-06-06",
			EndDate:   "2025-06-09",
			Reason:    "Long weekend extension",
		}

		deps.repo.createFn = func(ctx context.Context, l *leave.Leave) error {
			assert.Equal(t, 2, l.NumberOfDays)
			return nil
		}

		resp, err := deps.service.Apply(ctx, actorID, req)

		assert.NoError(t, err)
		assert.Equal(t, 2, resp.NumberOfDays)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative invalid leave type", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		req := leave.ApplyLeaveRequest{
			LeaveType: "sabbatical",
			StartDate: "2025-06-02",
			EndDate:   "2025-06-06",
			Reason:    "time off",
		}

		_, err := deps.service.Apply(ctx, actorID, req)

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidLeaveType)
	})

	t.Run("negative malformed date", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		req := leave.ApplyLeaveRequest{
			LeaveType: leave.TypeAnnual,
			StartDate: "06/02/2025",
			EndDate:   "2025-06-06",
			Reason:    "time off",
		}

		_, err := deps.service.Apply(ctx, actorID, req)

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidDateFormat)
	})

	t.Run("negative end before start", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		req := leave.ApplyLeaveRequest{
			LeaveType: leave.TypeAnnual,
			StartDate: "2025-06-06",
			EndDate:   "2025-06-02",
			Reason:    "time off",
		}

		_, err := deps.service.Apply(ctx, actorID, req)

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidDateRange)
	})

	t.Run("negative weekend only range", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		req := leave.ApplyLeaveRequest{
			LeaveType: leave.TypeAnnual,
			StartDate: "2025-06-07",
			EndDate:   "2025-06-08",
			Reason:    "time off",
		}

		_, err := deps.service.Apply(ctx, actorID, req)

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidDateRange)
	})

	t.Run("negative blank reason", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		req := leave.ApplyLeaveRequest{
			LeaveType: leave.TypeAnnual,
			StartDate: "2025-06-02",
			EndDate:   "2025-06-06",
			Reason:    "   ",
		}

		_, err := deps.service.Apply(ctx, actorID, req)

		assert.ErrorIs(t, err, leaveerrors.ErrReasonRequired)
	})

	t.Run("negative insufficient balance", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		req := leave.ApplyLeaveRequest{
			LeaveType: leave.TypeSick,
			StartDate: "2025-06-02",
			EndDate:   "2025-06-06",
			Reason:    "recovery",
		}

		deps.repo.getBalanceFn = func(ctx context.Context, eid, lt string) (int, error) {
			return 3, nil
		}

		_, err := deps.service.Apply(ctx, actorID, req)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Insufficient sick leave balance. Available: 3 days")
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("exact balance is enough", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		req := leave.ApplyLeaveRequest{
			LeaveType: leave.TypeSick,
			StartDate: "2025-06-02",
			EndDate:   "2025-06-06",
			Reason:    "recovery",
		}

		deps.repo.getBalanceFn = func(ctx context.Context, eid, lt string) (int, error) {
			return 5, nil
		}

		_, err := deps.service.Apply(ctx, actorID, req)

		assert.NoError(t, err)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("unpaid skips balance check", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		req := leave.ApplyLeaveRequest{
			LeaveType: leave.TypeUnpaid,
			StartDate: "2025-06-02",
			EndDate:   "2025-06-27",
			Reason:    "extended travel",
		}

		deps.repo.getBalanceFn = func(ctx context.Context, eid, lt string) (int, error) {
			t.Fatal("balance must not be checked for unpaid leave")
			return 0, nil
		}
		deps.repo.createFn = func(ctx context.Context, l *leave.Leave) error {
			assert.Equal(t, 20, l.NumberOfDays)
			return nil
		}

		_, err := deps.service.Apply(ctx, actorID, req)

		assert.NoError(t, err)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative overlapping request", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		req := leave.ApplyLeaveRequest{
			LeaveType: leave.TypeAnnual,
			StartDate: "2025-06-02",
			EndDate:   "2025-06-06",
			Reason:    "time off",
		}

		deps.repo.hasOverlappingPeriodFn = func(ctx context.Context, eid string, startDate, endDate time.Time) (bool, error) {
			return true, nil
		}

		_, err := deps.service.Apply(ctx, actorID, req)

		assert.ErrorIs(t, err, leaveerrors.ErrLeaveOverlap)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative invalid actor id", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		req := leave.ApplyLeaveRequest{
			LeaveType: leave.TypeAnnual,
			StartDate: "2025-06-02",
			EndDate:   "2025-06-06",
			Reason:    "time off",
		}

		_, err := deps.service.Apply(ctx, "not-a-uuid", req)

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidActorID)
	})
}

func TestLeaveService_Review(t *testing.T) {
	ctx := context.Background()
	reviewerID := uuid.New().String()
	employeeID := uuid.New()
	leaveID := uuid.New().String()

	pendingLeave := func() *leave.Leave {
		return &leave.Leave{
			ID:           uuid.MustParse(leaveID),
			EmployeeID:   employeeID,
			LeaveType:    leave.TypeAnnual,
			StartDate:    time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
			EndDate:      time.Date(2025, 6, 6, 0, 0, 0, 0, time.UTC),
			NumberOfDays: 5,
			Reason:       "Family trip",
			Status:       leave.StatusPending,
		}
	}

	t.Run("approve deducts balance", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deducted := false

		stored := pendingLeave()
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.Leave, error) {
			return stored, nil
		}
		deps.repo.markReviewedFn = func(ctx context.Context, l *leave.Leave) (bool, error) {
			assert.Equal(t, leave.StatusApproved, l.Status)
			assert.NotNil(t, l.ReviewedBy)
			assert.Equal(t, reviewerID, l.ReviewedBy.String())
			assert.NotNil(t, l.ReviewedAt)
			return true, nil
		}
		deps.repo.deductBalanceFn = func(ctx context.Context, eid, lt string, days int) error {
			deducted = true
			assert.Equal(t, employeeID.String(), eid)
			assert.Equal(t, leave.TypeAnnual, lt)
			assert.Equal(t, 5, days)
			return nil
		}

		resp, err := deps.service.Review(ctx, reviewerID, rbac.RoleManager, leaveID, leave.ReviewLeaveRequest{
			Status:     leave.StatusApproved,
			ReviewNote: "Enjoy",
		})

		assert.NoError(t, err)
		assert.True(t, deducted)
		assert.Equal(t, leave.StatusApproved, resp.Status)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("reject keeps balance", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		stored := pendingLeave()
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.Leave, error) {
			return stored, nil
		}
		deps.repo.deductBalanceFn = func(ctx context.Context, eid, lt string, days int) error {
			t.Fatal("rejection must not touch the balance")
			return nil
		}

		resp, err := deps.service.Review(ctx, reviewerID, rbac.RoleManager, leaveID, leave.ReviewLeaveRequest{
			Status:     leave.StatusRejected,
			ReviewNote: "Coverage gap that week",
		})

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusRejected, resp.Status)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("approve unpaid skips deduction", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.Leave, error) {
			l := pendingLeave()
			l.LeaveType = leave.TypeUnpaid
			return l, nil
		}
		deps.repo.deductBalanceFn = func(ctx context.Context, eid, lt string, days int) error {
			t.Fatal("unpaid leave has no balance to deduct")
			return nil
		}

		_, err := deps.service.Review(ctx, reviewerID, rbac.RoleAdmin, leaveID, leave.ReviewLeaveRequest{
			Status: leave.StatusApproved,
		})

		assert.NoError(t, err)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("approval allowed when balance ran low since apply", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.Leave, error) {
			return pendingLeave(), nil
		}
		deps.repo.getBalanceFn = func(ctx context.Context, eid, lt string) (int, error) {
			t.Fatal("review must not re-check the balance")
			return 0, nil
		}

		_, err := deps.service.Review(ctx, reviewerID, rbac.RoleManager, leaveID, leave.ReviewLeaveRequest{
			Status: leave.StatusApproved,
		})

		assert.NoError(t, err)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative invalid decision", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Review(ctx, reviewerID, rbac.RoleManager, leaveID, leave.ReviewLeaveRequest{
			Status: "maybe",
		})

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidDecision)
	})

	t.Run("negative not found", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.Leave, error) {
			return nil, gorm.ErrRecordNotFound
		}

		_, err := deps.service.Review(ctx, reviewerID, rbac.RoleManager, leaveID, leave.ReviewLeaveRequest{
			Status: leave.StatusApproved,
		})

		assert.ErrorIs(t, err, leaveerrors.ErrLeaveNotFound)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative manager reviewing own request", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.Leave, error) {
			l := pendingLeave()
			l.EmployeeID = uuid.MustParse(reviewerID)
			return l, nil
		}

		_, err := deps.service.Review(ctx, reviewerID, rbac.RoleManager, leaveID, leave.ReviewLeaveRequest{
			Status: leave.StatusApproved,
		})

		assert.ErrorIs(t, err, leaveerrors.ErrSelfReview)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("admin may review own request", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.Leave, error) {
			l := pendingLeave()
			l.EmployeeID = uuid.MustParse(reviewerID)
			return l, nil
		}

		_, err := deps.service.Review(ctx, reviewerID, rbac.RoleAdmin, leaveID, leave.ReviewLeaveRequest{
			Status: leave.StatusApproved,
		})

		assert.NoError(t, err)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative already reviewed", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.Leave, error) {
			l := pendingLeave()
			l.Status = leave.StatusApproved
			return l, nil
		}

		_, err := deps.service.Review(ctx, reviewerID, rbac.RoleManager, leaveID, leave.ReviewLeaveRequest{
			Status: leave.StatusRejected,
		})

		assert.ErrorIs(t, err, leaveerrors.ErrAlreadyReviewed)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative concurrent reviewer won the race", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.Leave, error) {
			return pendingLeave(), nil
		}
		deps.repo.markReviewedFn = func(ctx context.Context, l *leave.Leave) (bool, error) {
			return false, nil
		}

		_, err := deps.service.Review(ctx, reviewerID, rbac.RoleManager, leaveID, leave.ReviewLeaveRequest{
			Status: leave.StatusApproved,
		})

		assert.ErrorIs(t, err, leaveerrors.ErrAlreadyReviewed)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative deduction error rolls back review", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.Leave, error) {
			return pendingLeave(), nil
		}
		deps.repo.deductBalanceFn = func(ctx context.Context, eid, lt string, days int) error {
			return errors.New("db error")
		}

		_, err := deps.service.Review(ctx, reviewerID, rbac.RoleManager, leaveID, leave.ReviewLeaveRequest{
			Status: leave.StatusApproved,
		})

		assert.Error(t, err)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestLeaveService_Cancel(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New().String()
	leaveID := uuid.New().String()

	ownedPending := func() *leave.Leave {
		return &leave.Leave{
			ID:         uuid.MustParse(leaveID),
			EmployeeID: uuid.MustParse(ownerID),
			LeaveType:  leave.TypeAnnual,
			Status:     leave.StatusPending,
		}
	}

	t.Run("owner cancels pending", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.Leave, error) {
			return ownedPending(), nil
		}
		deps.repo.deleteIfPendingFn = func(ctx context.Context, id string) (bool, error) {
			assert.Equal(t, leaveID, id)
			return true, nil
		}

		err := deps.service.Cancel(ctx, ownerID, rbac.RoleEmployee, leaveID)

		assert.NoError(t, err)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("admin cancels someone else's pending", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.Leave, error) {
			return ownedPending(), nil
		}

		err := deps.service.Cancel(ctx, uuid.New().String(), rbac.RoleAdmin, leaveID)

		assert.NoError(t, err)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative manager cancelling someone else's", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.Leave, error) {
			return ownedPending(), nil
		}

		err := deps.service.Cancel(ctx, uuid.New().String(), rbac.RoleManager, leaveID)

		assert.ErrorIs(t, err, leaveerrors.ErrNotOwner)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative already approved", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.Leave, error) {
			l := ownedPending()
			l.Status = leave.StatusApproved
			return l, nil
		}

		err := deps.service.Cancel(ctx, ownerID, rbac.RoleEmployee, leaveID)

		assert.ErrorIs(t, err, leaveerrors.ErrCancelNotPending)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative reviewed between read and delete", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.Leave, error) {
			return ownedPending(), nil
		}
		deps.repo.deleteIfPendingFn = func(ctx context.Context, id string) (bool, error) {
			return false, nil
		}

		err := deps.service.Cancel(ctx, ownerID, rbac.RoleEmployee, leaveID)

		assert.ErrorIs(t, err, leaveerrors.ErrCancelNotPending)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative not found", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.Leave, error) {
			return nil, gorm.ErrRecordNotFound
		}

		err := deps.service.Cancel(ctx, ownerID, rbac.RoleEmployee, leaveID)

		assert.ErrorIs(t, err, leaveerrors.ErrLeaveNotFound)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestLeaveService_GetStats(t *testing.T) {
	ctx := context.Background()

	t.Run("zero filled statuses", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		deps.repo.countByStatusFn = func(ctx context.Context) (map[string]int64, error) {
			return map[string]int64{leave.StatusApproved: 4}, nil
		}

		resp, err := deps.service.GetStats(ctx)

		assert.NoError(t, err)
		assert.Equal(t, int64(0), resp.StatusStats.Pending)
		assert.Equal(t, int64(4), resp.StatusStats.Approved)
		assert.Equal(t, int64(0), resp.StatusStats.Rejected)
		assert.NotNil(t, resp.TypeStats)
		assert.Len(t, resp.TypeStats, 0)
	})

	t.Run("approved type breakdown", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		deps.repo.countByStatusFn = func(ctx context.Context) (map[string]int64, error) {
			return map[string]int64{
				leave.StatusPending:  2,
				leave.StatusApproved: 3,
				leave.StatusRejected: 1,
			}, nil
		}
		deps.repo.approvedTypeStatsFn = func(ctx context.Context) ([]leave.TypeStat, error) {
			return []leave.TypeStat{
				{LeaveType: leave.TypeAnnual, Count: 2, TotalDays: 8},
				{LeaveType: leave.TypeSick, Count: 1, TotalDays: 3},
			}, nil
		}

		resp, err := deps.service.GetStats(ctx)

		assert.NoError(t, err)
		assert.Equal(t, int64(2), resp.StatusStats.Pending)
		assert.Len(t, resp.TypeStats, 2)
		assert.Equal(t, int64(8), resp.TypeStats[0].TotalDays)
	})

	t.Run("negative repo error", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		deps.repo.countByStatusFn = func(ctx context.Context) (map[string]int64, error) {
			return nil, errors.New("db error")
		}

		_, err := deps.service.GetStats(ctx)

		assert.Error(t, err)
	})
}

func TestLeaveService_GetMyLeaves(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByEmployeeFn = func(ctx context.Context, eid string) ([]leave.Leave, error) {
			assert.Equal(t, actorID, eid)
			return []leave.Leave{
				{
					ID:           uuid.New(),
					EmployeeID:   uuid.MustParse(actorID),
					LeaveType:    leave.TypeSick,
					StartDate:    time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
					EndDate:      time.Date(2025, 7, 2, 0, 0, 0, 0, time.UTC),
					NumberOfDays: 2,
					Status:       leave.StatusPending,
				},
			}, nil
		}

		resp, err := deps.service.GetMyLeaves(ctx, actorID)

		assert.NoError(t, err)
		assert.Len(t, resp, 1)
		assert.Equal(t, leave.TypeSick, resp[0].LeaveType)
	})

	t.Run("negative invalid actor id", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.GetMyLeaves(ctx, "nope")

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidActorID)
	})
}

func TestLeaveService_GetAllLeaves(t *testing.T) {
	ctx := context.Background()

	t.Run("filter passed through", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		deps.repo.findAllFn = func(ctx context.Context, filter leave.LeaveFilter) ([]leave.Leave, error) {
			assert.Equal(t, leave.StatusPending, filter.Status)
			assert.Equal(t, leave.TypeAnnual, filter.LeaveType)
			return nil, nil
		}

		resp, err := deps.service.GetAllLeaves(ctx, leave.LeaveFilter{
			Status:    leave.StatusPending,
			LeaveType: leave.TypeAnnual,
		})

		assert.NoError(t, err)
		assert.Len(t, resp, 0)
	})
}
