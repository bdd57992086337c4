package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           uuid.UUID `gorm:"primaryKey"            json:"id"`
	Username     string    `gorm:"uniqueIndex;not null"  json:"username"`
	Email        string    `gorm:"uniqueIndex;not null"  json:"email"`
	PasswordHash string    `gorm:"not null"              json:"-"`
	Role         string    `gorm:"not null;default:user" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (User) TableName() string { return "users" }

type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`
}

type Student struct {
	ID        uuid.UUID `gorm:"primaryKey"           json:"id"`
	StudentID string    `gorm:"uniqueIndex;not null" json:"student_id"`
	FirstName string    `gorm:"not null"             json:"first_name"`
	LastName  string    `gorm:"not null"             json:"last_name"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Age       int       `gorm:"not null"             json:"age"`
	Grade     string    `gorm:"not null"             json:"grade"`
	Course    string    `gorm:"not null"             json:"course"`
	Phone     string    `gorm:"not null"             json:"phone"`
	Address   Address   `gorm:"embedded;embeddedPrefix:address_" json:"address"`
	OwnerID   uuid.UUID `gorm:"index;not null"       json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Student) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

func (Student) TableName() string { return "students" }
