package models

import "time"

// Department is a university department.
type Department struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"uniqueIndex;not null"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName returns the database table name for the Department model.
func (Department) TableName() string {
	return "departments"
}

// Faculty is a university school grouping departments.
type Faculty struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"uniqueIndex;not null"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName returns the database table name for the Faculty model.
func (Faculty) TableName() string {
	return "faculties"
}

// Category is a distinct paper category. ID and Name carry the same text.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Stats holds the public dashboard counters.
type Stats struct {
	Papers      int64 `json:"papers"`
	Authors     int64 `json:"authors"`
	Departments int64 `json:"departments"`
	Years       int   `json:"years"`
}
