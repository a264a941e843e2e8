package impl

import (
	"context"
	"sort"
	"sync"
	"time"

	"school/internal/domain"
	"school/internal/store"

	"github.com/google/uuid"
)

// memoryStore mimics the gorm store closely enough for service tests: store
// sentinels on misses, rollback on error, and the one-active-session-per-owner
// constraint.
type memoryStore struct {
	mu         sync.Mutex
	users      map[domain.UserID]*domain.User
	emailIndex map[string]domain.UserID
	roles      map[string]*domain.Role
	userRoles  map[domain.UserID][]string
	sessions   map[string]*domain.Session
	children   map[domain.ChildID]*domain.Child
	links      []domain.ParentChild

	// racer, when set, is the session a concurrent login commits just before
	// our own Save. Save then fails with a duplicate key and the racer is
	// visible once the transaction has rolled back.
	racer     *domain.Session
	saveCalls int
	failWith  error
}

type storeSnapshot struct {
	users      map[domain.UserID]*domain.User
	emailIndex map[string]domain.UserID
	roles      map[string]*domain.Role
	userRoles  map[domain.UserID][]string
	sessions   map[string]*domain.Session
	children   map[domain.ChildID]*domain.Child
	links      []domain.ParentChild
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		users:      make(map[domain.UserID]*domain.User),
		emailIndex: make(map[string]domain.UserID),
		roles:      make(map[string]*domain.Role),
		userRoles:  make(map[domain.UserID][]string),
		sessions:   make(map[string]*domain.Session),
		children:   make(map[domain.ChildID]*domain.Child),
	}
}

func (m *memoryStore) WithTx(ctx context.Context, fn func(tx storeTx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failWith != nil {
		return m.failWith
	}
	snapshot := m.snapshot()
	if err := fn(&memoryTx{store: m}); err != nil {
		m.restore(snapshot)
		if m.racer != nil {
			copy := *m.racer
			m.sessions[copy.Token] = &copy
			m.racer = nil
		}
		return err
	}
	return nil
}

func (m *memoryStore) snapshot() storeSnapshot {
	s := storeSnapshot{
		users:      make(map[domain.UserID]*domain.User, len(m.users)),
		emailIndex: make(map[string]domain.UserID, len(m.emailIndex)),
		roles:      make(map[string]*domain.Role, len(m.roles)),
		userRoles:  make(map[domain.UserID][]string, len(m.userRoles)),
		sessions:   make(map[string]*domain.Session, len(m.sessions)),
		children:   make(map[domain.ChildID]*domain.Child, len(m.children)),
		links:      append([]domain.ParentChild(nil), m.links...),
	}
	for k, v := range m.users {
		copy := *v
		s.users[k] = &copy
	}
	for k, v := range m.emailIndex {
		s.emailIndex[k] = v
	}
	for k, v := range m.roles {
		copy := *v
		s.roles[k] = &copy
	}
	for k, v := range m.userRoles {
		s.userRoles[k] = append([]string(nil), v...)
	}
	for k, v := range m.sessions {
		copy := *v
		s.sessions[k] = &copy
	}
	for k, v := range m.children {
		copy := *v
		s.children[k] = &copy
	}
	return s
}

func (m *memoryStore) restore(s storeSnapshot) {
	m.users = s.users
	m.emailIndex = s.emailIndex
	m.roles = s.roles
	m.userRoles = s.userRoles
	m.sessions = s.sessions
	m.children = s.children
	m.links = s.links
}

func (m *memoryStore) seedUser(u *domain.User, roles ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *u
	m.users[u.ID] = &copy
	m.emailIndex[u.Email] = u.ID
	m.userRoles[u.ID] = roles
}

func (m *memoryStore) seedRole(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.roles[name] = &domain.Role{ID: uuid.NewString(), Name: name, Status: domain.RoleStatusEnabled}
}

func (m *memoryStore) seedSession(s domain.Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.Token] = &s
}

func (m *memoryStore) session(token string) (domain.Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[token]
	if !ok {
		return domain.Session{}, false
	}
	return *s, true
}

func (m *memoryStore) sessionCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *memoryStore) activeCount(userID domain.UserID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, s := range m.sessions {
		if s.UserID == userID && s.Active {
			n++
		}
	}
	return n
}

type memoryTx struct {
	store *memoryStore
}

func (t *memoryTx) Users() userStore { return &memoryUserStore{store: t.store} }

func (t *memoryTx) Roles() roleStore { return &memoryRoleStore{store: t.store} }

func (t *memoryTx) Sessions() sessionStore { return &memorySessionStore{store: t.store} }

func (t *memoryTx) Children() childStore { return &memoryChildStore{store: t.store} }

type memoryUserStore struct {
	store *memoryStore
}

func (u *memoryUserStore) Create(ctx context.Context, usr *domain.User) error {
	if _, taken := u.store.emailIndex[usr.Email]; taken {
		return store.ErrDuplicateKey
	}
	if usr.ID == "" {
		usr.ID = uuid.NewString()
	}
	copy := *usr
	u.store.users[usr.ID] = &copy
	u.store.emailIndex[usr.Email] = usr.ID
	return nil
}

func (u *memoryUserStore) withRoles(usr *domain.User) *domain.User {
	copy := *usr
	copy.Roles = nil
	for _, name := range u.store.userRoles[usr.ID] {
		copy.Roles = append(copy.Roles, domain.Role{Name: name})
	}
	return &copy
}

func (u *memoryUserStore) GetByID(ctx context.Context, id domain.UserID) (*domain.User, error) {
	usr, ok := u.store.users[id]
	if !ok {
		return nil, store.ErrRecordNotFound
	}
	return u.withRoles(usr), nil
}

func (u *memoryUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	id, ok := u.store.emailIndex[email]
	if !ok {
		return nil, store.ErrRecordNotFound
	}
	return u.withRoles(u.store.users[id]), nil
}

func (u *memoryUserStore) AssignRole(ctx context.Context, usr *domain.User, role *domain.Role) error {
	u.store.userRoles[usr.ID] = append(u.store.userRoles[usr.ID], role.Name)
	return nil
}

type memoryRoleStore struct {
	store *memoryStore
}

func (r *memoryRoleStore) GetByName(ctx context.Context, name string) (*domain.Role, error) {
	role, ok := r.store.roles[name]
	if !ok {
		return nil, store.ErrRecordNotFound
	}
	copy := *role
	return &copy, nil
}

type memorySessionStore struct {
	store *memoryStore
}

func (s *memorySessionStore) Save(ctx context.Context, sess *domain.Session) error {
	m := s.store
	m.saveCalls++
	if m.racer != nil && m.racer.UserID == sess.UserID && sess.Active {
		return store.ErrDuplicateKey
	}
	now := time.Now().UTC()
	if sess.CreatedAt.IsZero() {
		sess.CreatedAt = now
	}
	sess.UpdatedAt = now

	if existing, ok := m.sessions[sess.Token]; ok {
		if !existing.Active || existing.UserID != sess.UserID {
			return nil
		}
		existing.Active = sess.Active
		existing.UpdatedAt = sess.UpdatedAt
		return nil
	}
	if sess.Active {
		for _, other := range m.sessions {
			if other.UserID == sess.UserID && other.Active {
				return store.ErrDuplicateKey
			}
		}
	}
	copy := *sess
	m.sessions[sess.Token] = &copy
	return nil
}

func (s *memorySessionStore) FindByToken(ctx context.Context, token string) (*domain.Session, error) {
	sess, ok := s.store.sessions[token]
	if !ok {
		return nil, store.ErrRecordNotFound
	}
	copy := *sess
	return &copy, nil
}

func (s *memorySessionStore) FindActiveByOwner(ctx context.Context, userID domain.UserID) (*domain.Session, error) {
	for _, sess := range s.store.sessions {
		if sess.UserID == userID && sess.Active {
			copy := *sess
			return &copy, nil
		}
	}
	return nil, store.ErrRecordNotFound
}

type memoryChildStore struct {
	store *memoryStore
}

func (c *memoryChildStore) Create(ctx context.Context, ch *domain.Child) error {
	if ch.ID == "" {
		ch.ID = uuid.NewString()
	}
	copy := *ch
	c.store.children[ch.ID] = &copy
	return nil
}

func (c *memoryChildStore) GetByID(ctx context.Context, id domain.ChildID) (*domain.Child, error) {
	ch, ok := c.store.children[id]
	if !ok {
		return nil, store.ErrRecordNotFound
	}
	copy := *ch
	return &copy, nil
}

func (c *memoryChildStore) List(ctx context.Context) ([]domain.Child, error) {
	out := make([]domain.Child, 0, len(c.store.children))
	for _, ch := range c.store.children {
		out = append(out, *ch)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LastName != out[j].LastName {
			return out[i].LastName < out[j].LastName
		}
		return out[i].FirstName < out[j].FirstName
	})
	return out, nil
}

func (c *memoryChildStore) LinkParent(ctx context.Context, pc *domain.ParentChild) error {
	c.store.links = append(c.store.links, *pc)
	return nil
}

func (c *memoryChildStore) ListByParent(ctx context.Context, parentID domain.UserID) ([]domain.Child, error) {
	var out []domain.Child
	for _, l := range c.store.links {
		if l.ParentID != parentID {
			continue
		}
		if ch, ok := c.store.children[l.ChildID]; ok {
			out = append(out, *ch)
		}
	}
	return out, nil
}
