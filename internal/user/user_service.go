package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"leavedesk/internal/rbac"
	"leavedesk/internal/shared/contextutil"
	usererrors "leavedesk/internal/user/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// LeaveCleaner is the slice of the leave repository this module needs for the
// delete cascade.
type LeaveCleaner interface {
	DeleteByEmployee(ctx context.Context, employeeID string) error
}

type Service interface {
	Create(ctx context.Context, req CreateUserRequest) (UserResponse, error)
	GetAll(ctx context.Context) ([]UserResponse, error)
	GetByID(ctx context.Context, id string) (UserResponse, error)
	Update(ctx context.Context, id string, req UpdateUserRequest) (UserResponse, error)
	Delete(ctx context.Context, actorID, id string) error
}

type service struct {
	repo         Repository
	leaveCleaner LeaveCleaner
}

func NewService(repo Repository, leaveCleaner LeaveCleaner) Service {
	return &service{repo: repo, leaveCleaner: leaveCleaner}
}

func (s *service) Create(ctx context.Context, req CreateUserRequest) (UserResponse, error) {
	l := contextutil.GetLogger(ctx, nil)
	l.Info("creating user", zap.String("email", req.Email))

	email := strings.ToLower(strings.TrimSpace(req.Email))

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return UserResponse{}, usererrors.ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return UserResponse{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		l.Error("failed to hash password", zap.Error(err))
		return UserResponse{}, err
	}

	role := req.Role
	if role == "" {
		role = rbac.RoleEmployee
	}
	department := req.Department
	if department == "" {
		department = "General"
	}
	balance := LeaveBalanceInput{Annual: 15, Sick: 10, Casual: 7}
	if req.LeaveBalance != nil {
		balance = *req.LeaveBalance
	}

	u := &User{
		ID:            uuid.New(),
		Name:          req.Name,
		Email:         email,
		Password:      string(hashed),
		Role:          role,
		Department:    department,
		IsActive:      true,
		AnnualBalance: balance.Annual,
		SickBalance:   balance.Sick,
		CasualBalance: balance.Casual,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return UserResponse{}, err
	}

	return mapToResponse(u), nil
}

func (s *service) GetAll(ctx context.Context) ([]UserResponse, error) {
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]UserResponse, len(users))
	for i := range users {
		resp[i] = mapToResponse(&users[i])
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, id string) (UserResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return UserResponse{}, usererrors.ErrInvalidUserID
	}

	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return UserResponse{}, usererrors.ErrUserNotFound
		}
		return UserResponse{}, err
	}

	return mapToResponse(u), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateUserRequest) (UserResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return UserResponse{}, usererrors.ErrInvalidUserID
	}

	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return UserResponse{}, usererrors.ErrUserNotFound
		}
		return UserResponse{}, err
	}

	updates := map[string]any{}
	if req.Role != "" {
		updates["role"] = req.Role
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.Department != "" {
		updates["department"] = req.Department
	}
	if req.LeaveBalance != nil {
		updates["annual_balance"] = req.LeaveBalance.Annual
		updates["sick_balance"] = req.LeaveBalance.Sick
		updates["casual_balance"] = req.LeaveBalance.Casual
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		return UserResponse{}, err
	}

	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return UserResponse{}, err
	}
	return mapToResponse(u), nil
}

func (s *service) Delete(ctx context.Context, actorID, id string) error {
	l := contextutil.GetLogger(ctx, nil)

	if _, err := uuid.Parse(id); err != nil {
		return usererrors.ErrInvalidUserID
	}

	if actorID == id {
		return usererrors.ErrSelfDelete
	}

	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return usererrors.ErrUserNotFound
		}
		return err
	}

	// The user's leave records go with the account.
	if err := s.leaveCleaner.DeleteByEmployee(ctx, id); err != nil {
		l.Error("cascade delete leaves failed", zap.String("user_id", id), zap.Error(err))
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		l.Error("delete user failed", zap.String("user_id", id), zap.Error(err))
		return err
	}

	l.Info("user deleted", zap.String("user_id", id), zap.String("deleted_by", actorID))
	return nil
}

func mapToResponse(u *User) UserResponse {
	return UserResponse{
		ID:         u.ID.String(),
		Name:       u.Name,
		Email:      u.Email,
		Role:       u.Role,
		Department: u.Department,
		IsActive:   u.IsActive,
		LeaveBalance: LeaveBalanceInput{
			Annual: u.AnnualBalance,
			Sick:   u.SickBalance,
			Casual: u.CasualBalance,
		},
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}
