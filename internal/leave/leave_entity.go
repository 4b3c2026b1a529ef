package leave

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

const (
	TypeAnnual = "annual"
	TypeSick   = "sick"
	TypeCasual = "casual"
	TypeUnpaid = "unpaid"
)

// IsValidLeaveType reports whether t is one of the four leave categories.
func IsValidLeaveType(t string) bool {
	switch t {
	case TypeAnnual, TypeSick, TypeCasual, TypeUnpaid:
		return true
	}
	return false
}

type Leave struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index:idx_leaves_employee_dates"`

	LeaveType    string    `gorm:"type:varchar(20);not null"`
	StartDate    time.Time `gorm:"type:date;not null;index:idx_leaves_employee_dates"`
	EndDate      time.Time `gorm:"type:date;not null;index:idx_leaves_employee_dates"`
	NumberOfDays int       `gorm:"type:int;not null"`
	Reason       string    `gorm:"type:text;not null"`

	Status     string     `gorm:"type:varchar(20);not null;default:'pending';index"`
	ReviewedBy *uuid.UUID `gorm:"type:uuid"`
	ReviewNote string     `gorm:"type:text;not null;default:''"`
	ReviewedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	Employee *LeaveUser `gorm:"foreignKey:EmployeeID;references:ID"`
	Reviewer *LeaveUser `gorm:"foreignKey:ReviewedBy;references:ID"`
}

// LeaveUser carries the display fields joined from the users table.
type LeaveUser struct {
	ID         uuid.UUID `gorm:"primaryKey"`
	Name       string    `gorm:"column:name"`
	Email      string    `gorm:"column:email"`
	Department string    `gorm:"column:department"`
}

func (LeaveUser) TableName() string {
	return "users"
}
