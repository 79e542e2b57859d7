package models

import "time"

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

type User struct {
	ID           string    `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name         string    `gorm:"column:name;type:text;not null" json:"name"`
	Email        string    `gorm:"column:email;type:text;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"column:password_hash;type:text;not null" json:"-"`
	Avatar       string    `gorm:"column:avatar;type:text" json:"avatar"`
	Role         UserRole  `gorm:"column:role;type:text;not null;default:'user'" json:"role"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
}

func (User) TableName() string { return "users" }

func (u User) Owner() *Owner {
	return &Owner{ID: u.ID, Name: u.Name, Avatar: u.Avatar}
}
