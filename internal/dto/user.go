package dto

import (
	"time"

	"school/internal/domain"
)

type UserResponse struct {
	ID        string            `json:"id"`
	FirstName string            `json:"firstName"`
	LastName  string            `json:"lastName"`
	Email     string            `json:"email"`
	Status    domain.UserStatus `json:"status"`
	Created   time.Time         `json:"created"`
	Updated   time.Time         `json:"updated"`
}

func UserFromDomain(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Status:    u.Status,
		Created:   u.CreatedAt,
		Updated:   u.UpdatedAt,
	}
}

type AddParentRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password,omitempty"`
}
