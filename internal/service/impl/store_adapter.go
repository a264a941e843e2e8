package impl

import (
	"context"
	"errors"

	"school/internal/domain"
	"school/internal/store"
)

// dataStore is the slice of persistence the services need. Tests swap in an
// in-memory implementation.
type dataStore interface {
	WithTx(ctx context.Context, fn func(tx storeTx) error) error
}

type storeTx interface {
	Users() userStore
	Roles() roleStore
	Sessions() sessionStore
	Children() childStore
}

type userStore interface {
	Create(ctx context.Context, usr *domain.User) error
	GetByID(ctx context.Context, id domain.UserID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	AssignRole(ctx context.Context, usr *domain.User, role *domain.Role) error
}

type roleStore interface {
	GetByName(ctx context.Context, name string) (*domain.Role, error)
}

type sessionStore interface {
	Save(ctx context.Context, s *domain.Session) error
	FindByToken(ctx context.Context, token string) (*domain.Session, error)
	FindActiveByOwner(ctx context.Context, userID domain.UserID) (*domain.Session, error)
}

type childStore interface {
	Create(ctx context.Context, ch *domain.Child) error
	GetByID(ctx context.Context, id domain.ChildID) (*domain.Child, error)
	List(ctx context.Context) ([]domain.Child, error)
	LinkParent(ctx context.Context, pc *domain.ParentChild) error
	ListByParent(ctx context.Context, parentID domain.UserID) ([]domain.Child, error)
}

type gormStoreAdapter struct {
	store *store.Store
}

func (g gormStoreAdapter) WithTx(ctx context.Context, fn func(tx storeTx) error) error {
	if g.store == nil {
		return errors.New("nil store")
	}
	return g.store.WithTx(ctx, func(tx *store.Store) error {
		return fn(gormTxAdapter{tx: tx})
	})
}

type gormTxAdapter struct {
	tx *store.Store
}

func (g gormTxAdapter) Users() userStore { return g.tx.Users() }

func (g gormTxAdapter) Roles() roleStore { return g.tx.Roles() }

func (g gormTxAdapter) Sessions() sessionStore { return g.tx.Sessions() }

func (g gormTxAdapter) Children() childStore { return g.tx.Children() }
