package models

import (
	"time"
)

// User roles.
const (
	RoleCitizen = "citizen"
	RoleOfficer = "officer"
	RoleAdmin   = "admin"
)

// User corresponds to the users table.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Name         string    `json:"name" gorm:"column:name;not null;size:255"`
	Email        string    `json:"email" gorm:"column:email;uniqueIndex:idx_users_email;not null;size:255"`
	Phone        string    `json:"phone" gorm:"column:phone;not null;size:20"`
	PasswordHash string    `json:"-" gorm:"column:password;not null;size:255"` // never exposed through JSON
	Address      *string   `json:"address,omitempty" gorm:"column:address;type:text"`
	Role         string    `json:"role" gorm:"column:role;not null;default:'citizen';size:20;check:chk_users_role,role IN ('citizen','officer','admin')"`
	CreatedAt    time.Time `json:"created_at" gorm:"column:created_at;not null;autoCreateTime"`
}

// TableName specifies the users table.
func (User) TableName() string {
	return "users"
}

// IsStaff reports whether the user handles complaints (officer or admin).
func (u *User) IsStaff() bool {
	return u.Role == RoleOfficer || u.Role == RoleAdmin
}

// IsValidRole reports whether role is a known user role.
func IsValidRole(role string) bool {
	return role == RoleCitizen || role == RoleOfficer || role == RoleAdmin
}
