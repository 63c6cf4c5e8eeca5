package models

// Account roles.
const (
	RoleAuthor = "author"
	RoleAdmin  = "admin"
)

// Account designations.
const (
	DesignationStudent = "student"
	DesignationFaculty = "faculty"
)
