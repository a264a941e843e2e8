package store

import (
	"context"
	"time"

	"school/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SessionStore struct{ db *gorm.DB }

func (s *Store) Sessions() *SessionStore { return &SessionStore{s.DB} }

// Save inserts the session or, when the token already exists, updates its
// active flag. Owner and token are never rewritten: the update only applies to
// a row that is still active and belongs to the same owner.
func (ss *SessionStore) Save(ctx context.Context, s *domain.Session) error {
	now := time.Now().UTC()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now

	err := ss.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "token"}},
		DoUpdates: clause.AssignmentColumns([]string{"active", "updated_at"}),
		Where:     clause.Where{Exprs: []clause.Expression{
			clause.Expr{SQL: "user_session.active = ? AND user_session.user_id = excluded.user_id", Vars: []interface{}{true}},
		}},
	}).Create(s).Error
	return translate(err)
}

func (ss *SessionStore) FindByToken(ctx context.Context, token string) (*domain.Session, error) {
	var s domain.Session
	if err := ss.db.WithContext(ctx).First(&s, "token = ?", token).Error; err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

func (ss *SessionStore) FindActiveByOwner(ctx context.Context, userID domain.UserID) (*domain.Session, error) {
	var s domain.Session
	err := ss.db.WithContext(ctx).
		Where("user_id = ? AND active = ?", userID, true).
		Order("created_at DESC").
		First(&s).Error
	if err != nil {
		return nil, translate(err)
	}
	return &s, nil
}
