package auth

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name       string    `gorm:"type:varchar(255);not null"`
	Email      string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	Password   string    `gorm:"type:varchar(255);not null"`
	Role       string    `gorm:"type:varchar(50);not null;default:'employee'"`
	Department string    `gorm:"type:varchar(100);not null;default:'General'"`
	IsActive   bool      `gorm:"default:true"`

	// Remaining leave days per category. Unpaid leave has no balance.
	AnnualBalance int `gorm:"type:int;not null;default:15"`
	SickBalance   int `gorm:"type:int;not null;default:10"`
	CasualBalance int `gorm:"type:int;not null;default:7"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (User) TableName() string {
	return "users"
}
