package auth

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	autherrors "leavedesk/internal/auth/errors"
	"leavedesk/internal/rbac"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (AuthResponse, error)
	Login(ctx context.Context, email, password string) (AuthResponse, error)
	GetMe(ctx context.Context, userID string) (UserResponse, error)
	UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (UserResponse, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (AuthResponse, error) {
	email := NormalizeEmail(req.Email)

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return AuthResponse{}, autherrors.ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return AuthResponse{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return AuthResponse{}, err
	}

	role := req.Role
	if role == "" {
		role = rbac.RoleEmployee
	}
	department := req.Department
	if department == "" {
		department = "General"
	}

	user := &User{
		ID:            uuid.New(),
		Name:          req.Name,
		Email:         email,
		Password:      string(hashed),
		Role:          role,
		Department:    department,
		IsActive:      true,
		AnnualBalance: 15,
		SickBalance:   10,
		CasualBalance: 7,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if isUniqueEmailViolation(err) {
			return AuthResponse{}, autherrors.ErrEmailTaken
		}
		return AuthResponse{}, err
	}

	token, err := s.generateToken(user.ID.String(), user.Role)
	if err != nil {
		return AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}

	return AuthResponse{Token: token, User: MapUserResponse(user)}, nil
}

func (s *service) Login(ctx context.Context, email, password string) (AuthResponse, error) {
	user, err := s.repo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		// Missing user and bad password are indistinguishable to the caller.
		return AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	if !user.IsActive {
		return AuthResponse{}, autherrors.ErrAccountDeactivated
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	token, err := s.generateToken(user.ID.String(), user.Role)
	if err != nil {
		return AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}

	return AuthResponse{Token: token, User: MapUserResponse(user)}, nil
}

func (s *service) GetMe(ctx context.Context, userID string) (UserResponse, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return UserResponse{}, autherrors.ErrInvalidUserID
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return UserResponse{}, autherrors.ErrUserNotFound
	}

	return MapUserResponse(user), nil
}

func (s *service) UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (UserResponse, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return UserResponse{}, autherrors.ErrInvalidUserID
	}

	// Self edit touches name and department only; role, active flag and
	// balances are admin territory.
	user, err := s.repo.UpdateProfile(ctx, id, req.Name, req.Department)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return UserResponse{}, autherrors.ErrUserNotFound
		}
		return UserResponse{}, err
	}

	return MapUserResponse(user), nil
}

func (s *service) generateToken(userID, role string) (string, error) {
	expiry := 7 * 24 * time.Hour
	if v := os.Getenv("JWT_EXPIRE"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			expiry = d
		}
	}

	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     time.Now().Add(expiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

// NormalizeEmail makes email comparison case-insensitive across the system.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// MapUserResponse strips the credential and flattens balances for clients.
func MapUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:         u.ID.String(),
		Name:       u.Name,
		Email:      u.Email,
		Role:       u.Role,
		Department: u.Department,
		IsActive:   u.IsActive,
		LeaveBalance: LeaveBalance{
			Annual: u.AnnualBalance,
			Sick:   u.SickBalance,
			Casual: u.CasualBalance,
		},
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}

func isUniqueEmailViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(strings.ToLower(err.Error()), "duplicate key value")
}
