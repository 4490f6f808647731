package user

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory Store implementation used in tests and local
// development without a database. All methods copy records on the way in and
// out so callers never share mutable state with the store.
type MemoryStore struct {
	mu    sync.Mutex
	users map[string]*User
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[string]*User)}
}

// Put inserts or replaces a record directly, bypassing Create validation.
// Intended for seeding fixtures in tests and local development.
func (s *MemoryStore) Put(u *User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users[u.ID] = cloneUser(u)
}

func cloneUser(u *User) *User {
	c := *u
	c.Blocked = append([]string(nil), u.Blocked...)
	c.BlockedBy = append([]string(nil), u.BlockedBy...)
	return &c
}

func (s *MemoryStore) Create(ctx context.Context, username, passwordHash string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == username {
			return nil, ErrAlreadyExists
		}
	}

	now := time.Now()
	u := &User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: passwordHash,
		Role:         RoleUser,
		Blocked:      []string{},
		BlockedBy:    []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.users[u.ID] = u
	return cloneUser(u), nil
}

func (s *MemoryStore) FindByID(ctx context.Context, id string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneUser(u), nil
}

func (s *MemoryStore) FindByUsername(ctx context.Context, username string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) SetAccountStatus(ctx context.Context, id string, status AccountStatus) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	u.AccountStatus = status
	u.UpdatedAt = time.Now()
	return cloneUser(u), nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func remove(list []string, v string) []string {
	out := list[:0]
	for _, item := range list {
		if item != v {
			out = append(out, item)
		}
	}
	return out
}

func (s *MemoryStore) AddToBlockList(ctx context.Context, blockerID, blockedID string) (*BlockLists, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	blocker, ok := s.users[blockerID]
	if !ok {
		return nil, ErrNotFound
	}
	blocked, ok := s.users[blockedID]
	if !ok {
		return nil, ErrNotFound
	}

	if !contains(blocker.Blocked, blockedID) {
		blocker.Blocked = append(blocker.Blocked, blockedID)
	}
	if !contains(blocked.BlockedBy, blockerID) {
		blocked.BlockedBy = append(blocked.BlockedBy, blockerID)
	}

	return &BlockLists{
		Blocked:   append([]string(nil), blocker.Blocked...),
		BlockedBy: append([]string(nil), blocked.BlockedBy...),
	}, nil
}

func (s *MemoryStore) RemoveFromBlockList(ctx context.Context, blockerID, blockedID string) (*BlockLists, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	blocker, ok := s.users[blockerID]
	if !ok {
		return nil, ErrNotFound
	}
	blocked, ok := s.users[blockedID]
	if !ok {
		return nil, ErrNotFound
	}

	blocker.Blocked = remove(blocker.Blocked, blockedID)
	blocked.BlockedBy = remove(blocked.BlockedBy, blockerID)

	return &BlockLists{
		Blocked:   append([]string(nil), blocker.Blocked...),
		BlockedBy: append([]string(nil), blocked.BlockedBy...),
	}, nil
}

func (s *MemoryStore) UpdateUsername(ctx context.Context, id, username string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == username && u.ID != id {
			return nil, ErrAlreadyExists
		}
	}

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	u.Username = username
	u.UpdatedAt = time.Now()
	return cloneUser(u), nil
}

func (s *MemoryStore) SetProfilePhoto(ctx context.Context, id, url string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	u.PhotoURL = url
	u.UpdatedAt = time.Now()
	return cloneUser(u), nil
}

func (s *MemoryStore) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return ErrNotFound
	}
	u.PasswordHash = passwordHash
	u.UpdatedAt = time.Now()
	return nil
}

func (s *MemoryStore) Activate(ctx context.Context, id string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	u.Activated = true
	u.UpdatedAt = time.Now()
	return cloneUser(u), nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return ErrNotFound
	}
	delete(s.users, id)
	return nil
}

func (s *MemoryStore) ListBanned(ctx context.Context) ([]*User, error) {
	return s.filter(func(u *User) bool { return u.AccountStatus == StatusBanned })
}

func (s *MemoryStore) ListPending(ctx context.Context) ([]*User, error) {
	return s.filter(func(u *User) bool { return !u.Activated })
}

func (s *MemoryStore) ListAll(ctx context.Context) ([]*User, error) {
	return s.filter(func(u *User) bool { return true })
}

func (s *MemoryStore) filter(keep func(*User) bool) ([]*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var users []*User
	for _, u := range s.users {
		if keep(u) {
			users = append(users, cloneUser(u))
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users, nil
}
