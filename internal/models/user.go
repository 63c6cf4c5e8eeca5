// Package models contains data models for the paper repository service.
package models

import "time"

// User represents a registered account.
type User struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"column:password;not null"`
	Role         string    `json:"role" gorm:"not null;default:author"`
	Designation  string    `json:"designation" gorm:"not null;default:student"`
	DepartmentID *int64    `json:"department_id"`
	FacultyID    *int64    `json:"faculty_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName returns the database table name for the User model.
func (User) TableName() string {
	return "users"
}

// UserProfile is a user joined with its reference-data display names.
type UserProfile struct {
	User
	DepartmentName *string `json:"department_name"`
	FacultyName    *string `json:"faculty_name"`
}
