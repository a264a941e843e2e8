package impl

import (
	"context"
	"errors"
	"testing"

	"school/internal/domain"
	"school/internal/dto"
)

func newChildFixture(t *testing.T) (*ChildServiceImpl, *memoryStore, *recordingPublisher) {
	t.Helper()
	st := newMemoryStore()
	st.seedUser(alice, domain.RoleParent)
	pub := &recordingPublisher{}
	return newChildService(st, pub), st, pub
}

func TestChildServiceAddAndList(t *testing.T) {
	svc, _, pub := newChildFixture(t)
	ctx := context.Background()

	kid, err := svc.AddChild(ctx, adminCaller, dto.AddChildRequest{
		FirstName:   "Cara",
		LastName:    "Adams",
		DateOfBirth: "2016-04-02",
		Parents:     []dto.ParentInfo{{ParentID: alice.ID, Relation: "mother"}},
	})
	if err != nil {
		t.Fatalf("add child: %v", err)
	}
	if kid.DateOfBirth != "2016-04-02" || kid.Status != domain.UserStatusActive {
		t.Fatalf("unexpected child %+v", kid)
	}
	if _, err := svc.AddChild(ctx, adminCaller, dto.AddChildRequest{FirstName: "Abe", LastName: "Adams", DateOfBirth: "2018-01-01"}); err != nil {
		t.Fatalf("add second child: %v", err)
	}

	got, err := svc.GetByID(ctx, adminCaller, kid.ID)
	if err != nil || got.FirstName != "Cara" {
		t.Fatalf("get by id: %+v, %v", got, err)
	}

	all, err := svc.ListAll(ctx, adminCaller)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 2 || all[0].FirstName != "Abe" {
		t.Fatalf("unexpected list %+v", all)
	}

	mine, err := svc.ListByParent(ctx, parentCaller, alice.ID)
	if err != nil {
		t.Fatalf("list by parent: %v", err)
	}
	if len(mine) != 1 || mine[0].ID != kid.ID {
		t.Fatalf("unexpected children %+v", mine)
	}
	if got := pub.names(); len(got) != 2 || got[0] != "child.added" {
		t.Fatalf("events = %v", got)
	}
}

func TestChildServiceUnknownParentRollsBack(t *testing.T) {
	svc, st, _ := newChildFixture(t)
	_, err := svc.AddChild(context.Background(), adminCaller, dto.AddChildRequest{
		FirstName:   "Cara",
		LastName:    "Adams",
		DateOfBirth: "2016-04-02",
		Parents:     []dto.ParentInfo{{ParentID: alice.ID}, {ParentID: "u-ghost"}},
	})
	if !errors.Is(err, domain.ErrParentNotFound) {
		t.Fatalf("expected ErrParentNotFound, got %v", err)
	}
	if len(st.children) != 0 || len(st.links) != 0 {
		t.Fatalf("partial writes survived: %d children, %d links", len(st.children), len(st.links))
	}
}

func TestChildServiceAuthorization(t *testing.T) {
	svc, _, _ := newChildFixture(t)
	ctx := context.Background()

	if _, err := svc.ListAll(ctx, parentCaller); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("list all as parent: %v", err)
	}
	if _, err := svc.GetByID(ctx, parentCaller, "c-1"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("get as parent: %v", err)
	}
	if _, err := svc.AddChild(ctx, parentCaller, dto.AddChildRequest{}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("add as parent: %v", err)
	}
	if _, err := svc.ListByParent(ctx, parentCaller, "u-someone-else"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("other parent's children: %v", err)
	}
	if _, err := svc.ListByParent(ctx, adminCaller, alice.ID); err != nil {
		t.Fatalf("admin listing by parent: %v", err)
	}
	if _, err := svc.ListByParent(ctx, nil, alice.ID); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("nil caller: %v", err)
	}
}

func TestChildServiceValidation(t *testing.T) {
	svc, _, _ := newChildFixture(t)
	ctx := context.Background()

	if _, err := svc.AddChild(ctx, adminCaller, dto.AddChildRequest{FirstName: "C", LastName: "A", DateOfBirth: "02/04/2016"}); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("bad date: %v", err)
	}
	if _, err := svc.AddChild(ctx, adminCaller, dto.AddChildRequest{LastName: "A", DateOfBirth: "2016-04-02"}); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("missing name: %v", err)
	}
	if _, err := svc.GetByID(ctx, adminCaller, "c-missing"); !errors.Is(err, domain.ErrChildNotFound) {
		t.Fatalf("missing child: %v", err)
	}
}
