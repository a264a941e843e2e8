package impl

import (
	"context"
	"strings"
	"time"

	"school/internal/domain"
	"school/internal/dto"
	"school/internal/events"
	"school/internal/store"
)

const defaultRelation = "PARENT"

type ChildServiceImpl struct {
	Store  dataStore
	Events events.Publisher
}

func NewChildServiceImpl(st *store.Store, pub events.Publisher) *ChildServiceImpl {
	return newChildService(gormStoreAdapter{store: st}, pub)
}

func newChildService(ds dataStore, pub events.Publisher) *ChildServiceImpl {
	if pub == nil {
		pub = events.Discard
	}
	return &ChildServiceImpl{Store: ds, Events: pub}
}

// AddChild creates the child and every parent link in one transaction. An
// unknown parent rolls the whole thing back.
func (c *ChildServiceImpl) AddChild(ctx context.Context, caller *domain.Principal, r dto.AddChildRequest) (*dto.ChildResponse, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	first, last := strings.TrimSpace(r.FirstName), strings.TrimSpace(r.LastName)
	if first == "" || last == "" {
		return nil, ErrEmptyName
	}
	dob, err := time.Parse(dto.DateLayout, strings.TrimSpace(r.DateOfBirth))
	if err != nil {
		return nil, ErrInvalidDate
	}

	var (
		out       dto.ChildResponse
		parentIDs []string
	)
	err = c.Store.WithTx(ctx, func(tx storeTx) error {
		ch := &domain.Child{
			FirstName:   first,
			LastName:    last,
			DateOfBirth: dob,
			Status:      domain.UserStatusActive,
		}
		if err := tx.Children().Create(ctx, ch); err != nil {
			return err
		}
		for _, p := range r.Parents {
			parent, err := tx.Users().GetByID(ctx, strings.TrimSpace(p.ParentID))
			if err != nil {
				return notFound(err, domain.ErrParentNotFound)
			}
			relation := strings.ToUpper(strings.TrimSpace(p.Relation))
			if relation == "" {
				relation = defaultRelation
			}
			link := &domain.ParentChild{
				ParentID: parent.ID,
				ChildID:  ch.ID,
				Relation: relation,
				Status:   domain.RoleStatusEnabled,
			}
			if err := tx.Children().LinkParent(ctx, link); err != nil {
				return err
			}
			parentIDs = append(parentIDs, parent.ID)
		}
		out = dto.ChildFromDomain(ch)
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.Events.Publish(ctx, events.ChildAdded{
		ChildID:   out.ID,
		ParentIDs: parentIDs,
		AddedBy:   caller.UserID,
		At:        time.Now().UTC(),
	})
	return &out, nil
}

func (c *ChildServiceImpl) GetByID(ctx context.Context, caller *domain.Principal, id domain.ChildID) (*dto.ChildResponse, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	var out dto.ChildResponse
	err := c.Store.WithTx(ctx, func(tx storeTx) error {
		ch, err := tx.Children().GetByID(ctx, id)
		if err != nil {
			return notFound(err, domain.ErrChildNotFound)
		}
		out = dto.ChildFromDomain(ch)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *ChildServiceImpl) ListAll(ctx context.Context, caller *domain.Principal) ([]dto.ChildResponse, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	var out []dto.ChildResponse
	err := c.Store.WithTx(ctx, func(tx storeTx) error {
		list, err := tx.Children().List(ctx)
		if err != nil {
			return err
		}
		out = dto.ChildrenFromDomain(list)
		return nil
	})
	return out, err
}

// ListByParent is open to admins and to the parent asking about their own
// children.
func (c *ChildServiceImpl) ListByParent(ctx context.Context, caller *domain.Principal, parentID domain.UserID) ([]dto.ChildResponse, error) {
	if caller == nil {
		return nil, domain.ErrUnauthenticated
	}
	if !caller.IsAdmin() && caller.UserID != parentID {
		return nil, domain.ErrForbidden
	}
	var out []dto.ChildResponse
	err := c.Store.WithTx(ctx, func(tx storeTx) error {
		list, err := tx.Children().ListByParent(ctx, parentID)
		if err != nil {
			return err
		}
		out = dto.ChildrenFromDomain(list)
		return nil
	})
	return out, err
}
