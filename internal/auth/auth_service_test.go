package auth_test

import (
	"context"
	"testing"

	"leavedesk/internal/auth"
	autherrors "leavedesk/internal/auth/errors"
	"leavedesk/internal/rbac"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fakeAuthRepository struct {
	createFn        func(ctx context.Context, user *auth.User) error
	getByEmailFn    func(ctx context.Context, email string) (*auth.User, error)
	getByIDFn       func(ctx context.Context, id uuid.UUID) (*auth.User, error)
	updateProfileFn func(ctx context.Context, id uuid.UUID, name, department string) (*auth.User, error)
}

func (f *fakeAuthRepository) Create(ctx context.Context, user *auth.User) error {
	if f.createFn != nil {
		return f.createFn(ctx, user)
	}
	return nil
}

func (f *fakeAuthRepository) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	if f.getByEmailFn != nil {
		return f.getByEmailFn(ctx, email)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAuthRepository) GetByID(ctx context.Context, id uuid.UUID) (*auth.User, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAuthRepository) UpdateProfile(ctx context.Context, id uuid.UUID, name, department string) (*auth.User, error) {
	if f.updateProfileFn != nil {
		return f.updateProfileFn(ctx, id, name, department)
	}
	return nil, gorm.ErrRecordNotFound
}

func hashPassword(t *testing.T, plain string) string {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.MinCost)
	assert.NoError(t, err)
	return string(hashed)
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()
	t.Setenv("JWT_SECRET", "test-secret")

	t.Run("success with defaults", func(t *testing.T) {
		repo := &fakeAuthRepository{
			createFn: func(ctx context.Context, user *auth.User) error {
				assert.Equal(t, "jane@example.com", user.Email)
				assert.Equal(t, rbac.RoleEmployee, user.Role)
				assert.Equal(t, "General", user.Department)
				assert.True(t, user.IsActive)
				assert.Equal(t, 15, user.AnnualBalance)
				assert.Equal(t, 10, user.SickBalance)
				assert.Equal(t, 7, user.CasualBalance)
				assert.NotEqual(t, "hunter22", user.Password)
				return nil
			},
		}

		svc := auth.NewService(repo)
		resp, err := svc.Register(ctx, auth.RegisterRequest{
			Name:     "Jane",
			Email:    "  Jane@Example.COM ",
			Password: "hunter22",
		})

		assert.NoError(t, err)
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, "jane@example.com", resp.User.Email)
		assert.Equal(t, rbac.RoleEmployee, resp.User.Role)
		assert.Equal(t, 15, resp.User.LeaveBalance.Annual)
	})

	t.Run("explicit role kept", func(t *testing.T) {
		repo := &fakeAuthRepository{
			createFn: func(ctx context.Context, user *auth.User) error {
				assert.Equal(t, rbac.RoleManager, user.Role)
				return nil
			},
		}

		svc := auth.NewService(repo)
		_, err := svc.Register(ctx, auth.RegisterRequest{
			Name:     "Max",
			Email:    "max@example.com",
			Password: "hunter22",
			Role:     rbac.RoleManager,
		})

		assert.NoError(t, err)
	})

	t.Run("negative email already taken", func(t *testing.T) {
		repo := &fakeAuthRepository{
			getByEmailFn: func(ctx context.Context, email string) (*auth.User, error) {
				return &auth.User{ID: uuid.New(), Email: email}, nil
			},
		}

		svc := auth.NewService(repo)
		_, err := svc.Register(ctx, auth.RegisterRequest{
			Name:     "Jane",
			Email:    "jane@example.com",
			Password: "hunter22",
		})

		assert.ErrorIs(t, err, autherrors.ErrEmailTaken)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	t.Setenv("JWT_SECRET", "test-secret")

	activeUser := func(t *testing.T, password string) *auth.User {
		return &auth.User{
			ID:       uuid.New(),
			Name:     "Jane",
			Email:    "jane@example.com",
			Password: hashPassword(t, password),
			Role:     rbac.RoleEmployee,
			IsActive: true,
		}
	}

	t.Run("success", func(t *testing.T) {
		repo := &fakeAuthRepository{
			getByEmailFn: func(ctx context.Context, email string) (*auth.User, error) {
				assert.Equal(t, "jane@example.com", email)
				return activeUser(t, "hunter22"), nil
			},
		}

		svc := auth.NewService(repo)
		resp, err := svc.Login(ctx, "Jane@Example.com", "hunter22")

		assert.NoError(t, err)
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, "jane@example.com", resp.User.Email)
	})

	t.Run("negative unknown email", func(t *testing.T) {
		repo := &fakeAuthRepository{}

		svc := auth.NewService(repo)
		_, err := svc.Login(ctx, "ghost@example.com", "hunter22")

		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("negative wrong password", func(t *testing.T) {
		repo := &fakeAuthRepository{
			getByEmailFn: func(ctx context.Context, email string) (*auth.User, error) {
				return activeUser(t, "hunter22"), nil
			},
		}

		svc := auth.NewService(repo)
		_, err := svc.Login(ctx, "jane@example.com", "wrong")

		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("negative deactivated account", func(t *testing.T) {
		repo := &fakeAuthRepository{
			getByEmailFn: func(ctx context.Context, email string) (*auth.User, error) {
				u := activeUser(t, "hunter22")
				u.IsActive = false
				return u, nil
			},
		}

		svc := auth.NewService(repo)
		_, err := svc.Login(ctx, "jane@example.com", "hunter22")

		assert.ErrorIs(t, err, autherrors.ErrAccountDeactivated)
	})
}

func TestAuthService_GetMe(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		userID := uuid.New()
		repo := &fakeAuthRepository{
			getByIDFn: func(ctx context.Context, id uuid.UUID) (*auth.User, error) {
				assert.Equal(t, userID, id)
				return &auth.User{
					ID:            userID,
					Name:          "Jane",
					Email:         "jane@example.com",
					Role:          rbac.RoleEmployee,
					IsActive:      true,
					AnnualBalance: 12,
					SickBalance:   10,
					CasualBalance: 7,
				}, nil
			},
		}

		svc := auth.NewService(repo)
		resp, err := svc.GetMe(ctx, userID.String())

		assert.NoError(t, err)
		assert.Equal(t, "Jane", resp.Name)
		assert.Equal(t, 12, resp.LeaveBalance.Annual)
	})

	t.Run("negative malformed id", func(t *testing.T) {
		svc := auth.NewService(&fakeAuthRepository{})
		_, err := svc.GetMe(ctx, "nope")

		assert.ErrorIs(t, err, autherrors.ErrInvalidUserID)
	})

	t.Run("negative not found", func(t *testing.T) {
		svc := auth.NewService(&fakeAuthRepository{})
		_, err := svc.GetMe(ctx, uuid.New().String())

		assert.ErrorIs(t, err, autherrors.ErrUserNotFound)
	})
}

func TestAuthService_UpdateProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		userID := uuid.New()
		repo := &fakeAuthRepository{
			updateProfileFn: func(ctx context.Context, id uuid.UUID, name, department string) (*auth.User, error) {
				assert.Equal(t, "Jane Doe", name)
				assert.Equal(t, "Platform", department)
				return &auth.User{ID: id, Name: name, Department: department}, nil
			},
		}

		svc := auth.NewService(repo)
		resp, err := svc.UpdateProfile(ctx, userID.String(), auth.UpdateProfileRequest{
			Name:       "Jane Doe",
			Department: "Platform",
		})

		assert.NoError(t, err)
		assert.Equal(t, "Jane Doe", resp.Name)
		assert.Equal(t, "Platform", resp.Department)
	})

	t.Run("negative not found", func(t *testing.T) {
		svc := auth.NewService(&fakeAuthRepository{})
		_, err := svc.UpdateProfile(ctx, uuid.New().String(), auth.UpdateProfileRequest{Name: "x"})

		assert.ErrorIs(t, err, autherrors.ErrUserNotFound)
	})
}
