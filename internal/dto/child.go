package dto

import (
	"time"

	"school/internal/domain"
)

const DateLayout = "2006-01-02"

type ParentInfo struct {
	ParentID string `json:"parentId"`
	Relation string `json:"relation"` // e.g. FATHER, MOTHER, GUARDIAN
}

type AddChildRequest struct {
	FirstName   string       `json:"firstName"`
	LastName    string       `json:"lastName"`
	DateOfBirth string       `json:"dateOfBirth"` // YYYY-MM-DD
	Parents     []ParentInfo `json:"parents"`
}

type ChildResponse struct {
	ID          string            `json:"id"`
	FirstName   string            `json:"firstName"`
	LastName    string            `json:"lastName"`
	DateOfBirth string            `json:"dateOfBirth"`
	Status      domain.UserStatus `json:"status"`
	Created     time.Time         `json:"created"`
	Updated     time.Time         `json:"updated"`
}

func ChildFromDomain(c *domain.Child) ChildResponse {
	return ChildResponse{
		ID:          c.ID,
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		DateOfBirth: c.DateOfBirth.Format(DateLayout),
		Status:      c.Status,
		Created:     c.CreatedAt,
		Updated:     c.UpdatedAt,
	}
}

func ChildrenFromDomain(in []domain.Child) []ChildResponse {
	out := make([]ChildResponse, 0, len(in))
	for i := range in {
		out = append(out, ChildFromDomain(&in[i]))
	}
	return out
}
