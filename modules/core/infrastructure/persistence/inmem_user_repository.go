package persistence

import (
	"context"
	"maps"
	"slices"
	"sort"
	"sync"

	"github.com/iota-uz/railway-dispatch/modules/core/domain/aggregates/role"
	"github.com/iota-uz/railway-dispatch/modules/core/domain/aggregates/user"
	"github.com/iota-uz/railway-dispatch/modules/infra/domain/workpoligon"
)

type SafeMap[K comparable, V any] struct {
	mu sync.RWMutex
	m  map[K]V
}

func NewSafeMap[K comparable, V any]() *SafeMap[K, V] {
	return &SafeMap[K, V]{
		m: make(map[K]V),
	}
}

func (s *SafeMap[K, V]) Set(key K, value V) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = value
}

func (s *SafeMap[K, V]) Get(key K) (V, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	val, found := s.m[key]
	return val, found
}

// Delete reports whether key was present.
func (s *SafeMap[K, V]) Delete(key K) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, found := s.m[key]
	delete(s.m, key)
	return found
}

func (s *SafeMap[K, V]) Values() []V {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Collect(maps.Values(s.m))
}

// InmemUserRepository is the in-process twin of UserRepository. Documents
// are cloned on the way in and out.
type InmemUserRepository struct {
	mu     sync.Mutex
	users  map[string]*user.User
	logins map[string]string
	fail   func(op string) error
}

var _ user.Repository = (*InmemUserRepository)(nil)

func NewInmemUserRepository() *InmemUserRepository {
	return &InmemUserRepository{
		users:  make(map[string]*user.User),
		logins: make(map[string]string),
	}
}

// FailWith makes every write named op ("commit", "save", "delete") return
// the error f yields. Pass nil to clear.
func (r *InmemUserRepository) FailWith(f func(op string) error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fail = f
}

func (r *InmemUserRepository) check(op string) error {
	if r.fail == nil {
		return nil
	}
	return r.fail(op)
}

func (r *InmemUserRepository) Begin() user.Session {
	return &inmemSession{repo: r}
}

func (r *InmemUserRepository) Create(ctx context.Context, u *user.User) error {
	s := r.Begin()
	s.Create(u)
	return s.Commit(ctx)
}

func (r *InmemUserRepository) create(users []*user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.check("commit"); err != nil {
		return err
	}
	for _, u := range users {
		if _, taken := r.logins[u.Login]; taken {
			return user.ErrLoginTaken.WithMeta("login", u.Login)
		}
	}
	for _, u := range users {
		r.users[u.ID] = u.Clone()
		r.logins[u.Login] = u.ID
	}
	return nil
}

func (r *InmemUserRepository) GetByID(_ context.Context, id string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, user.ErrUserNotFound.WithMeta("id", id)
	}
	return u.Clone(), nil
}

func (r *InmemUserRepository) GetByLogin(ctx context.Context, login string) (*user.User, error) {
	r.mu.Lock()
	id, ok := r.logins[login]
	r.mu.Unlock()
	if !ok {
		return nil, user.ErrUserNotFound.WithMeta("login", login)
	}
	return r.GetByID(ctx, id)
}

func (r *InmemUserRepository) List(_ context.Context) ([]*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*user.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Login < out[j].Login })
	return out, nil
}

func (r *InmemUserRepository) Save(ctx context.Context, u *user.User) error {
	return r.SaveMany(ctx, u)
}

func (r *InmemUserRepository) SaveMany(_ context.Context, users ...*user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.check("save"); err != nil {
		return err
	}
	for _, u := range users {
		if _, ok := r.users[u.ID]; !ok {
			return user.ErrUserNotFound.WithMeta("id", u.ID)
		}
	}
	for _, u := range users {
		r.users[u.ID] = u.Clone()
		r.logins[u.Login] = u.ID
	}
	return nil
}

func (r *InmemUserRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.check("delete"); err != nil {
		return err
	}
	u, ok := r.users[id]
	if !ok {
		return user.ErrUserNotFound.WithMeta("id", id)
	}
	delete(r.users, id)
	delete(r.logins, u.Login)
	return nil
}

func (r *InmemUserRepository) OpenDutyHolders(_ context.Context, wp workpoligon.WorkPoligon, cs user.CredentialSet) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []string
	for id, u := range r.users {
		if d, ok := u.Interval(wp, cs); ok && d.Open() {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids, nil
}

type inmemSession struct {
	repo   *InmemUserRepository
	staged []*user.User
	closed bool
}

func (s *inmemSession) Create(u *user.User) {
	s.staged = append(s.staged, u.Clone())
}

func (s *inmemSession) Commit(_ context.Context) error {
	if s.closed {
		return errSessionClosed
	}
	s.closed = true
	if len(s.staged) == 0 {
		return nil
	}
	return s.repo.create(s.staged)
}

func (s *inmemSession) Abort() {
	s.staged = nil
	s.closed = true
}

type InmemRoleRepository struct {
	storage *SafeMap[string, *role.Role]
}

var _ role.Repository = (*InmemRoleRepository)(nil)

func NewInmemRoleRepository() *InmemRoleRepository {
	return &InmemRoleRepository{storage: NewSafeMap[string, *role.Role]()}
}

func (r *InmemRoleRepository) Save(_ context.Context, rl *role.Role) error {
	c := *rl
	c.Credentials = slices.Clone(rl.Credentials)
	r.storage.Set(rl.ID, &c)
	return nil
}

func (r *InmemRoleRepository) GetByID(_ context.Context, id string) (*role.Role, error) {
	rl, ok := r.storage.Get(id)
	if !ok {
		return nil, role.ErrRoleNotFound.WithMeta("id", id)
	}
	c := *rl
	return &c, nil
}

func (r *InmemRoleRepository) List(_ context.Context) ([]*role.Role, error) {
	roles := r.storage.Values()
	sort.Slice(roles, func(i, j int) bool { return roles[i].ID < roles[j].ID })
	return roles, nil
}

func (r *InmemRoleRepository) Delete(_ context.Context, id string) error {
	if !r.storage.Delete(id) {
		return role.ErrRoleNotFound.WithMeta("id", id)
	}
	return nil
}
