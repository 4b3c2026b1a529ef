package leave

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"leavedesk/internal/events"
	leaveerrors "leavedesk/internal/leave/errors"
	"leavedesk/internal/messaging/kafka"
	"leavedesk/internal/rbac"
	"leavedesk/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service interface {
	Apply(ctx context.Context, actorID string, req ApplyLeaveRequest) (LeaveResponse, error)
	GetMyLeaves(ctx context.Context, actorID string) ([]LeaveResponse, error)
	GetAllLeaves(ctx context.Context, filter LeaveFilter) ([]LeaveResponse, error)
	GetEmployeeLeaves(ctx context.Context, employeeID string) ([]LeaveResponse, error)
	GetStats(ctx context.Context) (LeaveStatsResponse, error)
	Review(ctx context.Context, actorID, actorRole, id string, req ReviewLeaveRequest) (LeaveResponse, error)
	Cancel(ctx context.Context, actorID, actorRole, id string) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	outbox kafka.OutboxRepository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

// NewServiceWithOutbox also records lifecycle events in the transactional
// outbox so the worker can publish them to the broker.
func NewServiceWithOutbox(db *sql.DB, repo Repository, outbox kafka.OutboxRepository, logger ...*zap.Logger) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{db: db, repo: repo, outbox: outbox, logger: l}
}

func (s *service) Apply(ctx context.Context, actorID string, req ApplyLeaveRequest) (LeaveResponse, error) {
	s.logger.Debug("apply leave requested",
		zap.String("actor_id", actorID),
		zap.String("leave_type", req.LeaveType),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	employeeID, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}

	if !IsValidLeaveType(req.LeaveType) {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveType
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return LeaveResponse{}, err
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return LeaveResponse{}, err
	}

	days := WorkingDays(startDate, endDate)
	if days < 1 {
		// Covers both end < start and weekend-only ranges.
		return LeaveResponse{}, leaveerrors.ErrInvalidDateRange
	}

	if strings.TrimSpace(req.Reason) == "" {
		return LeaveResponse{}, leaveerrors.ErrReasonRequired
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("apply leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	// Balance is only advisory at this point; deduction happens on approval.
	if req.LeaveType != TypeUnpaid {
		available, err := qtx.GetBalance(ctx, actorID, req.LeaveType)
		if err != nil {
			s.logger.Error("apply leave balance check failed", zap.Error(err))
			return LeaveResponse{}, err
		}
		if available < days {
			s.logger.Warn("apply leave insufficient balance",
				zap.String("actor_id", actorID),
				zap.String("leave_type", req.LeaveType),
				zap.Int("requested", days),
				zap.Int("available", available),
			)
			return LeaveResponse{}, leaveerrors.InsufficientBalance(req.LeaveType, available)
		}
	}

	overlap, err := qtx.HasOverlappingPeriod(ctx, actorID, startDate, endDate)
	if err != nil {
		s.logger.Error("apply leave overlap check failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if overlap {
		s.logger.Warn("apply leave overlap detected",
			zap.String("actor_id", actorID),
			zap.String("start_date", req.StartDate),
			zap.String("end_date", req.EndDate),
		)
		return LeaveResponse{}, leaveerrors.ErrLeaveOverlap
	}

	l := &Leave{
		ID:           uuid.New(),
		EmployeeID:   employeeID,
		LeaveType:    req.LeaveType,
		StartDate:    startDate,
		EndDate:      endDate,
		NumberOfDays: days,
		Reason:       req.Reason,
		Status:       StatusPending,
	}

	if err := qtx.Create(ctx, l); err != nil {
		s.logger.Error("apply leave persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := s.recordRequestedEvent(ctx, tx, l); err != nil {
		s.logger.Error("apply leave outbox write failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("apply leave commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	s.logger.Info("apply leave success",
		zap.String("leave_id", l.ID.String()),
		zap.String("actor_id", actorID),
		zap.Int("days", days),
	)

	// Reload to attach the requester's display fields for the UI.
	created, err := s.repo.FindByID(ctx, l.ID.String())
	if err != nil {
		return mapToResponse(*l), nil
	}
	return mapToResponse(*created), nil
}

func (s *service) GetMyLeaves(ctx context.Context, actorID string) ([]LeaveResponse, error) {
	if _, err := uuid.Parse(actorID); err != nil {
		return nil, leaveerrors.ErrInvalidActorID
	}

	leaves, err := s.repo.FindByEmployee(ctx, actorID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(leaves), nil
}

func (s *service) GetAllLeaves(ctx context.Context, filter LeaveFilter) ([]LeaveResponse, error) {
	leaves, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(leaves), nil
}

func (s *service) GetEmployeeLeaves(ctx context.Context, employeeID string) ([]LeaveResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, leaveerrors.ErrInvalidActorID
	}

	leaves, err := s.repo.FindByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(leaves), nil
}

func (s *service) GetStats(ctx context.Context) (LeaveStatsResponse, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return LeaveStatsResponse{}, err
	}

	typeStats, err := s.repo.ApprovedTypeStats(ctx)
	if err != nil {
		return LeaveStatsResponse{}, err
	}
	if typeStats == nil {
		typeStats = []TypeStat{}
	}

	// All three statuses are present even when zero.
	return LeaveStatsResponse{
		StatusStats: StatusStats{
			Pending:  counts[StatusPending],
			Approved: counts[StatusApproved],
			Rejected: counts[StatusRejected],
		},
		TypeStats: typeStats,
	}, nil
}

func (s *service) Review(ctx context.Context, actorID, actorRole, id string, req ReviewLeaveRequest) (LeaveResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	log.Debug("review leave requested",
		zap.String("leave_id", id),
		zap.String("actor_id", actorID),
		zap.String("decision", req.Status),
	)

	if req.Status != StatusApproved && req.Status != StatusRejected {
		return LeaveResponse{}, leaveerrors.ErrInvalidDecision
	}

	reviewerID, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("review leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}

	// A manager never reviews their own request; an admin may.
	if actorRole == rbac.RoleManager && l.EmployeeID == reviewerID {
		log.Warn("review leave self-review blocked",
			zap.String("leave_id", id),
			zap.String("actor_id", actorID),
		)
		return LeaveResponse{}, leaveerrors.ErrSelfReview
	}

	if l.Status != StatusPending {
		return LeaveResponse{}, leaveerrors.ErrAlreadyReviewed
	}

	now := time.Now().UTC()
	l.Status = req.Status
	l.ReviewedBy = &reviewerID
	l.ReviewNote = req.ReviewNote
	l.ReviewedAt = &now

	// The CAS on status and the balance deduction commit together, so two
	// concurrent reviewers cannot both take effect.
	updated, err := qtx.MarkReviewed(ctx, l)
	if err != nil {
		log.Error("review leave persist failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}
	if !updated {
		return LeaveResponse{}, leaveerrors.ErrAlreadyReviewed
	}

	if req.Status == StatusApproved && l.LeaveType != TypeUnpaid {
		// No floor check here: the balance was validated at apply time and
		// may go negative if other requests were approved in between.
		if err := qtx.DeductBalance(ctx, l.EmployeeID.String(), l.LeaveType, l.NumberOfDays); err != nil {
			log.Error("review leave balance deduction failed",
				zap.String("leave_id", id),
				zap.Error(err),
			)
			return LeaveResponse{}, err
		}
	}

	if err := s.recordReviewedEvent(ctx, tx, l); err != nil {
		log.Error("review leave outbox write failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		log.Error("review leave commit failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}
	log.Info("review leave success",
		zap.String("leave_id", id),
		zap.String("status", l.Status),
		zap.String("reviewed_by", actorID),
	)

	reviewed, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return mapToResponse(*l), nil
	}
	return mapToResponse(*reviewed), nil
}

func (s *service) Cancel(ctx context.Context, actorID, actorRole, id string) error {
	log := contextutil.GetLogger(ctx, s.logger)

	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return leaveerrors.ErrInvalidActorID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("cancel leave begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return leaveerrors.ErrLeaveNotFound
		}
		return err
	}

	if l.EmployeeID != actorUUID && actorRole != rbac.RoleAdmin {
		return leaveerrors.ErrNotOwner
	}

	if l.Status != StatusPending {
		return leaveerrors.ErrCancelNotPending
	}

	// Status predicate again: a review that lands between the read above and
	// this delete leaves the row alone.
	deleted, err := qtx.DeleteIfPending(ctx, id)
	if err != nil {
		log.Error("cancel leave delete failed", zap.String("leave_id", id), zap.Error(err))
		return err
	}
	if !deleted {
		return leaveerrors.ErrCancelNotPending
	}

	if err := tx.Commit(); err != nil {
		log.Error("cancel leave commit failed", zap.String("leave_id", id), zap.Error(err))
		return err
	}

	log.Info("cancel leave success",
		zap.String("leave_id", id),
		zap.String("actor_id", actorID),
	)
	return nil
}

func (s *service) recordRequestedEvent(ctx context.Context, tx *sql.Tx, l *Leave) error {
	if s.outbox == nil {
		return nil
	}

	payload, err := json.Marshal(events.LeaveRequestedEvent{
		EventType:  events.LeaveRequestedEventType,
		LeaveID:    l.ID.String(),
		EmployeeID: l.EmployeeID.String(),
		LeaveType:  l.LeaveType,
		StartDate:  l.StartDate.Format("2006-01-02"),
		EndDate:    l.EndDate.Format("2006-01-02"),
		Days:       l.NumberOfDays,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "leave",
		AggregateID:   l.ID.String(),
		EventType:     events.LeaveRequestedEventType,
		Topic:         events.LeaveLifecycleTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func (s *service) recordReviewedEvent(ctx context.Context, tx *sql.Tx, l *Leave) error {
	if s.outbox == nil {
		return nil
	}

	reviewedBy := ""
	if l.ReviewedBy != nil {
		reviewedBy = l.ReviewedBy.String()
	}

	payload, err := json.Marshal(events.LeaveReviewedEvent{
		EventType:  events.LeaveReviewedEventType,
		LeaveID:    l.ID.String(),
		EmployeeID: l.EmployeeID.String(),
		LeaveType:  l.LeaveType,
		Status:     l.Status,
		ReviewedBy: reviewedBy,
		Days:       l.NumberOfDays,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "leave",
		AggregateID:   l.ID.String(),
		EventType:     events.LeaveReviewedEventType,
		Topic:         events.LeaveLifecycleTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func mapToResponse(l Leave) LeaveResponse {
	resp := LeaveResponse{
		ID:           l.ID.String(),
		EmployeeID:   l.EmployeeID.String(),
		LeaveType:    l.LeaveType,
		StartDate:    l.StartDate.Format("2006-01-02"),
		EndDate:      l.EndDate.Format("2006-01-02"),
		NumberOfDays: l.NumberOfDays,
		Reason:       l.Reason,
		Status:       l.Status,
		ReviewNote:   l.ReviewNote,
		CreatedAt:    l.CreatedAt.Format(time.RFC3339),
	}
	if l.Employee != nil {
		resp.EmployeeName = l.Employee.Name
		resp.EmployeeEmail = l.Employee.Email
		resp.EmployeeDepartment = l.Employee.Department
	}
	if l.ReviewedBy != nil {
		v := l.ReviewedBy.String()
		resp.ReviewedBy = &v
	}
	if l.Reviewer != nil {
		resp.ReviewerName = l.Reviewer.Name
	}
	if l.ReviewedAt != nil {
		v := l.ReviewedAt.Format(time.RFC3339)
		resp.ReviewedAt = &v
	}
	return resp
}

func mapToListResponse(leaves []Leave) []LeaveResponse {
	resp := make([]LeaveResponse, len(leaves))
	for i, l := range leaves {
		resp[i] = mapToResponse(l)
	}
	return resp
}
