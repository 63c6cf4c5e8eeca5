// Package service implements the business rules of the paper repository.
package service

import "github.com/GunarsK-portfolio/paper-repository/internal/models"

// Actor identifies the authenticated caller of an operation.
type Actor struct {
	ID   int64
	Role string
}

func (a *Actor) IsAdmin() bool {
	return a != nil && a.Role == models.RoleAdmin
}

// CanModify reports whether the actor may edit or delete the paper.
func (a *Actor) CanModify(paper *models.Paper) bool {
	return a.IsAdmin() || (a != nil && paper.IsOwnedBy(a.ID))
}

// CanView reports whether the paper is visible to the actor. A nil actor is anonymous.
func (a *Actor) CanView(paper *models.Paper) bool {
	return paper.Status == models.StatusApproved || a.CanModify(paper)
}

// Page is an optional limit/offset window. Zero values mean unbounded.
type Page struct {
	Limit  int
	Offset int
}
