package user

type LeaveBalanceInput struct {
	Annual int `json:"annual" binding:"gte=0"`
	Sick   int `json:"sick" binding:"gte=0"`
	Casual int `json:"casual" binding:"gte=0"`
}

type CreateUserRequest struct {
	Name         string             `json:"name" binding:"required"`
	Email        string             `json:"email" binding:"required,email"`
	Password     string             `json:"password" binding:"required,min=6"`
	Role         string             `json:"role" binding:"omitempty,oneof=employee manager admin"`
	Department   string             `json:"department"`
	LeaveBalance *LeaveBalanceInput `json:"leave_balance"`
}

// UpdateUserRequest is partial: nil / empty fields are left untouched.
type UpdateUserRequest struct {
	Role         string             `json:"role" binding:"omitempty,oneof=employee manager admin"`
	IsActive     *bool              `json:"is_active"`
	Department   string             `json:"department"`
	LeaveBalance *LeaveBalanceInput `json:"leave_balance"`
}

type UserResponse struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Email        string            `json:"email"`
	Role         string            `json:"role"`
	Department   string            `json:"department"`
	IsActive     bool              `json:"is_active"`
	LeaveBalance LeaveBalanceInput `json:"leave_balance"`
	CreatedAt    string            `json:"created_at"`
}
