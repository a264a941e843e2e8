package domain

import "time"

// Session binds an opaque bearer token to its owner. Rows are never deleted;
// logout flips Active to false and that transition is one-way.
//
// The partial unique index keeps at most one active session per owner.
type Session struct {
	Token     string    `gorm:"type:varchar(32);primaryKey" db:"token"`
	UserID    UserID    `gorm:"type:varchar(36);not null;index;uniqueIndex:ux_user_session_active_owner,where:active = true" db:"user_id"`
	Active    bool      `gorm:"not null" db:"active"`
	CreatedAt time.Time `gorm:"not null" db:"created_at"`
	UpdatedAt time.Time `gorm:"not null" db:"updated_at"`
}

func (Session) TableName() string { return "user_session" }

// Deactivate marks the session unusable. It reports whether the state changed.
func (s *Session) Deactivate() bool {
	if !s.Active {
		return false
	}
	s.Active = false
	return true
}
