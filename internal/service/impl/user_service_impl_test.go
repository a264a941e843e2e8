package impl

import (
	"context"
	"errors"
	"testing"

	"school/internal/domain"
	"school/internal/dto"
)

var (
	adminCaller  = &domain.Principal{UserID: "u-admin", Roles: []string{domain.RoleAdmin}, Admin: true}
	parentCaller = &domain.Principal{UserID: "u-alice", Roles: []string{domain.RoleParent}}
)

func newUserFixture(t *testing.T) (*UserServiceImpl, *memoryStore, *recordingPublisher) {
	t.Helper()
	st := newMemoryStore()
	st.seedUser(alice, domain.RoleParent)
	st.seedUser(&domain.User{ID: "u-admin", Email: "admin@example.com", FirstName: "Ada", LastName: "Min"}, domain.RoleAdmin)
	pub := &recordingPublisher{}
	return newUserService(st, &stubPasswordService{}, pub, nil), st, pub
}

func TestUserServicePrincipal(t *testing.T) {
	svc, _, _ := newUserFixture(t)
	ctx := context.Background()

	p, err := svc.Principal(ctx, "u-admin")
	if err != nil {
		t.Fatalf("principal: %v", err)
	}
	if !p.IsAdmin() || p.Email != "admin@example.com" {
		t.Fatalf("unexpected principal %+v", p)
	}

	p, err = svc.Principal(ctx, alice.ID)
	if err != nil {
		t.Fatalf("principal: %v", err)
	}
	if p.IsAdmin() || len(p.Roles) != 1 || p.Roles[0] != domain.RoleParent {
		t.Fatalf("unexpected principal %+v", p)
	}

	if _, err := svc.Principal(ctx, "u-missing"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserServiceGetByEmail(t *testing.T) {
	svc, _, _ := newUserFixture(t)
	ctx := context.Background()

	u, err := svc.GetByEmail(ctx, "ALICE@example.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if u.ID != alice.ID || u.FirstName != "Alice" {
		t.Fatalf("unexpected view %+v", u)
	}
	if _, err := svc.GetByEmail(ctx, "ghost@example.com"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if _, err := svc.GetByEmail(ctx, " "); !errors.Is(err, ErrEmptyEmail) {
		t.Fatalf("expected ErrEmptyEmail, got %v", err)
	}
}

func TestUserServiceAddParent(t *testing.T) {
	svc, st, pub := newUserFixture(t)
	st.seedRole(domain.RoleParent)
	ctx := context.Background()

	req := dto.AddParentRequest{FirstName: "Bob", LastName: "Brown", Email: "Bob@Example.com", Password: "long-enough"}
	out, err := svc.AddParent(ctx, adminCaller, req)
	if err != nil {
		t.Fatalf("add parent: %v", err)
	}
	if out.Email != "bob@example.com" || out.Status != domain.UserStatusActive {
		t.Fatalf("unexpected view %+v", out)
	}

	p, err := svc.Principal(ctx, out.ID)
	if err != nil {
		t.Fatalf("principal: %v", err)
	}
	if len(p.Roles) != 1 || p.Roles[0] != domain.RoleParent {
		t.Fatalf("parent role not assigned: %+v", p.Roles)
	}
	if got := pub.names(); len(got) != 1 || got[0] != "parent.added" {
		t.Fatalf("events = %v", got)
	}

	// stored hash comes from the password service, never the plaintext
	sessions := newSessionService(st, &stubPasswordService{}, &stubTokenGenerator{}, nil, nil)
	if _, err := sessions.Login(ctx, dto.LoginRequest{Email: "bob@example.com", Password: "long-enough"}); err != nil {
		t.Fatalf("new parent cannot log in: %v", err)
	}

	if _, err := svc.AddParent(ctx, adminCaller, req); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestUserServiceAddParentErrors(t *testing.T) {
	svc, st, _ := newUserFixture(t)
	ctx := context.Background()
	valid := dto.AddParentRequest{FirstName: "Bob", LastName: "Brown", Email: "bob@example.com", Password: "long-enough"}

	if _, err := svc.AddParent(ctx, nil, valid); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("nil caller: got %v", err)
	}
	if _, err := svc.AddParent(ctx, parentCaller, valid); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("non-admin: got %v", err)
	}
	if _, err := svc.AddParent(ctx, adminCaller, valid); !errors.Is(err, domain.ErrRoleNotFound) {
		t.Fatalf("missing role: got %v", err)
	}
	if _, ok := st.emailIndex["bob@example.com"]; ok {
		t.Fatalf("failed add must not leave a user behind")
	}

	cases := []struct {
		name string
		req  dto.AddParentRequest
		want error
	}{
		{"missing name", dto.AddParentRequest{LastName: "B", Email: "b@x.io", Password: "long-enough"}, ErrEmptyName},
		{"missing email", dto.AddParentRequest{FirstName: "A", LastName: "B", Password: "long-enough"}, ErrEmptyEmail},
		{"missing password", dto.AddParentRequest{FirstName: "A", LastName: "B", Email: "b@x.io"}, ErrEmptyPassword},
		{"short password", dto.AddParentRequest{FirstName: "A", LastName: "B", Email: "b@x.io", Password: "short"}, ErrPasswordLength},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.AddParent(ctx, adminCaller, tc.req); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}
