package models

import "time"

// Paper moderation states.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// IsDecision reports whether status is a valid moderation outcome.
func IsDecision(status string) bool {
	return status == StatusApproved || status == StatusRejected
}

// Paper is a submitted research document with its attached PDF.
type Paper struct {
	ID                  int64     `json:"id" gorm:"primaryKey"`
	Title               string    `json:"title" gorm:"not null"`
	Abstract            string    `json:"abstract" gorm:"not null"`
	Keywords            string    `json:"keywords"`
	Category            string    `json:"category" gorm:"column:category_text"`
	AuthorID            int64     `json:"author_id" gorm:"not null;index"`
	CorrespondingAuthor string    `json:"corresponding_author"`
	Supervisor          *string   `json:"supervisor"`
	CoSupervisor        *string   `json:"co_supervisor"`
	DepartmentID        int64     `json:"department_id" gorm:"index;not null"`
	FacultyID           *int64    `json:"faculty_id"`
	PublicationDate     time.Time `json:"publication_date" gorm:"type:date"`
	DOI                 *string   `json:"doi" gorm:"column:doi"`
	FileURL             string    `json:"file_url"`
	FileName            string    `json:"file_name"`
	FileSize            int64     `json:"file_size"`
	PageCount           *int      `json:"page_count"`
	Status              string    `json:"status" gorm:"not null;default:pending;index"`
	AdminNotes          *string   `json:"admin_notes"`
	Version             int       `json:"version" gorm:"not null;default:1"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// TableName returns the database table name for the Paper model.
func (Paper) TableName() string {
	return "papers"
}

// IsOwnedBy reports whether userID submitted the paper.
func (p *Paper) IsOwnedBy(userID int64) bool {
	return p.AuthorID == userID
}

// CoAuthor is an additional named contributor of a paper.
type CoAuthor struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	PaperID     int64     `json:"paper_id" gorm:"not null;index"`
	Name        string    `json:"name" gorm:"column:co_author_name;not null"`
	AuthorOrder int       `json:"order" gorm:"column:author_order;not null"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName returns the database table name for the CoAuthor model.
func (CoAuthor) TableName() string {
	return "co_authors"
}

// StatusChange records one moderation decision.
type StatusChange struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	PaperID   int64     `json:"paper_id" gorm:"not null;index"`
	OldStatus string    `json:"old_status" gorm:"not null"`
	NewStatus string    `json:"new_status" gorm:"not null"`
	ChangedBy int64     `json:"changed_by" gorm:"not null"`
	Notes     *string   `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name for the StatusChange model.
func (StatusChange) TableName() string {
	return "paper_status_history"
}

// PaperView is a paper joined with the display names used by listings.
type PaperView struct {
	Paper
	AuthorName     *string `json:"author_name"`
	DepartmentName *string `json:"department_name"`
	FacultyName    *string `json:"faculty_name"`
}

// PaperDetail is the single-paper representation.
type PaperDetail struct {
	PaperView
	AuthorEmail *string    `json:"author_email"`
	CoAuthors   []CoAuthor `json:"co_authors" gorm:"-"`
}
