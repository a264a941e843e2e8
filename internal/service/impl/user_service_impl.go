package impl

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"school/internal/domain"
	"school/internal/dto"
	"school/internal/events"
	"school/internal/service"
	"school/internal/store"
)

type UserServiceImpl struct {
	Store           dataStore
	PasswordService service.PasswordService
	Events          events.Publisher
	Logger          *slog.Logger
}

func NewUserServiceImpl(st *store.Store, passwordService service.PasswordService, pub events.Publisher, logger *slog.Logger) *UserServiceImpl {
	return newUserService(gormStoreAdapter{store: st}, passwordService, pub, logger)
}

func newUserService(ds dataStore, passwordService service.PasswordService, pub events.Publisher, logger *slog.Logger) *UserServiceImpl {
	if pub == nil {
		pub = events.Discard
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &UserServiceImpl{Store: ds, PasswordService: passwordService, Events: pub, Logger: logger}
}

func (u *UserServiceImpl) GetByEmail(ctx context.Context, email string) (*dto.UserResponse, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, ErrEmptyEmail
	}
	var out dto.UserResponse
	err := u.Store.WithTx(ctx, func(tx storeTx) error {
		usr, err := tx.Users().GetByEmail(ctx, email)
		if err != nil {
			return notFound(err, domain.ErrUserNotFound)
		}
		out = dto.UserFromDomain(usr)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Principal loads the request identity for userID, roles included.
func (u *UserServiceImpl) Principal(ctx context.Context, userID domain.UserID) (*domain.Principal, error) {
	var p *domain.Principal
	err := u.Store.WithTx(ctx, func(tx storeTx) error {
		usr, err := tx.Users().GetByID(ctx, userID)
		if err != nil {
			return notFound(err, domain.ErrUserNotFound)
		}
		p = domain.NewPrincipal(usr)
		return nil
	})
	return p, err
}

func (u *UserServiceImpl) AddParent(ctx context.Context, caller *domain.Principal, r dto.AddParentRequest) (*dto.UserResponse, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	first, last := strings.TrimSpace(r.FirstName), strings.TrimSpace(r.LastName)
	email := normalizeEmail(r.Email)
	switch {
	case first == "" || last == "":
		return nil, ErrEmptyName
	case email == "":
		return nil, ErrEmptyEmail
	case r.Password == "":
		return nil, ErrEmptyPassword
	case len(r.Password) < MinPasswordLength:
		return nil, ErrPasswordLength
	}

	hash, err := u.PasswordService.Hash(r.Password)
	if err != nil {
		return nil, err
	}

	var out dto.UserResponse
	err = u.Store.WithTx(ctx, func(tx storeTx) error {
		role, err := tx.Roles().GetByName(ctx, domain.RoleParent)
		if err != nil {
			return notFound(err, domain.ErrRoleNotFound)
		}
		usr := &domain.User{
			FirstName:    first,
			LastName:     last,
			Email:        email,
			PasswordHash: hash,
			Status:       domain.UserStatusActive,
		}
		if err := tx.Users().Create(ctx, usr); err != nil {
			if errors.Is(err, store.ErrDuplicateKey) {
				return domain.ErrEmailTaken
			}
			return err
		}
		if err := tx.Users().AssignRole(ctx, usr, role); err != nil {
			return err
		}
		out = dto.UserFromDomain(usr)
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.Events.Publish(ctx, events.ParentAdded{
		UserID:  out.ID,
		Email:   out.Email,
		AddedBy: caller.UserID,
		At:      time.Now().UTC(),
	})
	return &out, nil
}

func requireAdmin(caller *domain.Principal) error {
	if caller == nil {
		return domain.ErrUnauthenticated
	}
	if !caller.IsAdmin() {
		return domain.ErrForbidden
	}
	return nil
}

// notFound swaps the store's not-found sentinel for a domain error and passes
// everything else through.
func notFound(err, domainErr error) error {
	if errors.Is(err, store.ErrRecordNotFound) {
		return domainErr
	}
	return err
}
