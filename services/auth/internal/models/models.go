package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"     json:"id"`
	Email        string    `gorm:"uniqueIndex;not null"     json:"email"`
	Name         string    `gorm:"not null"                 json:"name"`
	Phone        string    `                                json:"phone"`
	PasswordHash string    `gorm:"not null"                 json:"-"`
	Role         string    `gorm:"not null;default:user"    json:"role"`
	CreatedAt    time.Time `                                json:"created_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

type Address struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"  json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	Label     string    `                             json:"label"`
	FullName  string    `gorm:"not null"              json:"full_name"`
	Phone     string    `gorm:"not null"              json:"phone"`
	Area      string    `                             json:"area"`
	Block     string    `                             json:"block"`
	Street    string    `gorm:"not null"              json:"street"`
	Building  string    `                             json:"building"`
	City      string    `gorm:"not null"              json:"city"`
	Notes     string    `                             json:"notes"`
	IsDefault bool      `gorm:"default:false"         json:"is_default"`
	CreatedAt time.Time `                             json:"created_at"`
	UpdatedAt time.Time `                             json:"updated_at"`
}

func (a *Address) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
