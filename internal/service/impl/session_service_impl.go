package impl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"school/internal/domain"
	"school/internal/dto"
	"school/internal/events"
	"school/internal/observability/metrics"
	"school/internal/observability/middleware"
	"school/internal/service"
	"school/internal/store"
)

type SessionServiceImpl struct {
	Store           dataStore
	PasswordService service.PasswordService
	Tokens          service.TokenGenerator
	Events          events.Publisher
	Logger          *slog.Logger
	Now             func() time.Time
}

func NewSessionServiceImpl(st *store.Store, passwordService service.PasswordService, tokens service.TokenGenerator, pub events.Publisher, logger *slog.Logger) *SessionServiceImpl {
	return newSessionService(gormStoreAdapter{store: st}, passwordService, tokens, pub, logger)
}

func newSessionService(ds dataStore, passwordService service.PasswordService, tokens service.TokenGenerator, pub events.Publisher, logger *slog.Logger) *SessionServiceImpl {
	if pub == nil {
		pub = events.Discard
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionServiceImpl{
		Store:           ds,
		PasswordService: passwordService,
		Tokens:          tokens,
		Events:          pub,
		Logger:          logger,
		Now:             func() time.Time { return time.Now().UTC() },
	}
}

func (a *SessionServiceImpl) Login(ctx context.Context, r dto.LoginRequest) (*dto.LoginResponse, error) {
	email := normalizeEmail(r.Email)
	if email == "" || r.Password == "" {
		return nil, ErrEmptyCredential
	}

	// bcrypt runs outside any transaction so a login never pins a connection
	// for the length of the hash
	user, err := a.lookupUser(ctx, email)
	if err == nil && !a.PasswordService.Verify(r.Password, user.PasswordHash) {
		err = domain.ErrInvalidCredentials
	}

	var (
		session *domain.Session
		created bool
	)
	if err == nil {
		session, created, err = a.openSession(ctx, user.ID)
	}
	if errors.Is(err, store.ErrDuplicateKey) {
		// a concurrent login for the same user committed first
		session, err = a.activeSession(ctx, user.ID)
		created = false
	}
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.AuthLoginsTotal.WithLabelValues("invalid").Inc()
		} else {
			metrics.AuthLoginsTotal.WithLabelValues("error").Inc()
			a.Logger.ErrorContext(ctx, "login failed",
				"error", err,
				"request_id", middleware.RequestIDFromContext(ctx),
			)
		}
		return nil, err
	}

	if created {
		metrics.SessionsCreatedTotal.Inc()
		metrics.AuthLoginsTotal.WithLabelValues("created").Inc()
		a.Events.Publish(ctx, events.SessionOpened{
			TokenPrefix: events.TokenPrefix(session.Token),
			UserID:      user.ID,
			At:          a.Now(),
		})
	} else {
		metrics.AuthLoginsTotal.WithLabelValues("reused").Inc()
	}

	return &dto.LoginResponse{
		Token: session.Token,
		User:  dto.UserFromDomain(user),
	}, nil
}

func (a *SessionServiceImpl) lookupUser(ctx context.Context, email string) (*domain.User, error) {
	var u *domain.User
	err := a.Store.WithTx(ctx, func(tx storeTx) error {
		var err error
		u, err = tx.Users().GetByEmail(ctx, email)
		return err
	})
	if errors.Is(err, store.ErrRecordNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	return u, err
}

// openSession returns the owner's active session, creating one when none
// exists. created reports whether a new row was written.
func (a *SessionServiceImpl) openSession(ctx context.Context, userID domain.UserID) (session *domain.Session, created bool, err error) {
	err = a.Store.WithTx(ctx, func(tx storeTx) error {
		existing, err := tx.Sessions().FindActiveByOwner(ctx, userID)
		switch {
		case err == nil:
			session = existing
			return nil
		case !errors.Is(err, store.ErrRecordNotFound):
			return err
		}

		token, err := a.Tokens.Generate(SessionTokenLength)
		if err != nil {
			return fmt.Errorf("generate session token: %w", err)
		}
		s := &domain.Session{Token: token, UserID: userID, Active: true}
		if err := tx.Sessions().Save(ctx, s); err != nil {
			return err
		}
		session, created = s, true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return session, created, nil
}

func (a *SessionServiceImpl) activeSession(ctx context.Context, userID domain.UserID) (*domain.Session, error) {
	var s *domain.Session
	err := a.Store.WithTx(ctx, func(tx storeTx) error {
		var err error
		s, err = tx.Sessions().FindActiveByOwner(ctx, userID)
		return err
	})
	return s, err
}

// Logout deactivates the session behind token. Unknown and already inactive
// tokens succeed without a write.
func (a *SessionServiceImpl) Logout(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrEmptyToken
	}

	var closed *domain.Session
	err := a.Store.WithTx(ctx, func(tx storeTx) error {
		s, err := tx.Sessions().FindByToken(ctx, token)
		if errors.Is(err, store.ErrRecordNotFound) {
			a.Logger.WarnContext(ctx, "logout for unknown session",
				"token_prefix", events.TokenPrefix(token),
				"request_id", middleware.RequestIDFromContext(ctx),
			)
			return nil
		}
		if err != nil {
			return err
		}
		if !s.Deactivate() {
			return nil
		}
		if err := tx.Sessions().Save(ctx, s); err != nil {
			return err
		}
		closed = s
		return nil
	})
	if err != nil {
		metrics.LogoutsTotal.WithLabelValues("error").Inc()
		a.Logger.ErrorContext(ctx, "logout failed",
			"error", err,
			"token_prefix", events.TokenPrefix(token),
			"request_id", middleware.RequestIDFromContext(ctx),
		)
		return err
	}

	if closed == nil {
		metrics.LogoutsTotal.WithLabelValues("noop").Inc()
		return nil
	}
	metrics.LogoutsTotal.WithLabelValues("closed").Inc()
	a.Events.Publish(ctx, events.SessionClosed{
		TokenPrefix: events.TokenPrefix(closed.Token),
		UserID:      closed.UserID,
		At:          a.Now(),
	})
	return nil
}

func (a *SessionServiceImpl) Authenticate(ctx context.Context, token string) (*domain.Session, error) {
	if token == "" {
		return nil, domain.ErrUnauthenticated
	}
	var s *domain.Session
	err := a.Store.WithTx(ctx, func(tx storeTx) error {
		var err error
		s, err = tx.Sessions().FindByToken(ctx, token)
		return err
	})
	if errors.Is(err, store.ErrRecordNotFound) {
		return nil, domain.ErrUnauthenticated
	}
	if err != nil {
		return nil, err
	}
	if !s.Active {
		return nil, domain.ErrUnauthenticated
	}
	return s, nil
}

func normalizeEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
