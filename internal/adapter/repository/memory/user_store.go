package memory

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	domain "user-store-service/internal/domain/user"
	pkgerrors "user-store-service/pkg/errors"
)

// Snapshotter loads and rewrites the complete user collection.
// Load must create empty storage when none exists yet.
type Snapshotter interface {
	Load(ctx context.Context) ([]domain.User, error)
	Save(ctx context.Context, users []domain.User) error
}

// ErrUserNotFound is returned when no user has the requested id.
var ErrUserNotFound = pkgerrors.NewNotFoundError("user", "User not found")

// UserStore keeps the ordered user collection in memory and mirrors every
// mutation to a Snapshotter before it becomes visible.
type UserStore struct {
	mu    sync.Mutex
	users []domain.User
	snap  Snapshotter
	log   *zap.Logger
}

// NewUserStore loads the persisted collection and returns a ready store.
func NewUserStore(ctx context.Context, snap Snapshotter, log *zap.Logger) (*UserStore, error) {
	users, err := snap.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	if users == nil {
		users = []domain.User{}
	}

	log.Info("user store ready", zap.Int("count", len(users)))
	return &UserStore{
		users: users,
		snap:  snap,
		log:   log,
	}, nil
}

// indexOf returns the position of id in the collection or -1. Caller holds mu.
func (s *UserStore) indexOf(id int64) int {
	for i := range s.users {
		if s.users[i].ID == id {
			return i
		}
	}
	return -1
}

// commit persists next and swaps it in. Caller holds mu.
// On failure the in-memory collection is left as it was.
func (s *UserStore) commit(ctx context.Context, next []domain.User) error {
	if err := s.snap.Save(ctx, next); err != nil {
		s.log.Error("failed to persist users", zap.Int("count", len(next)), zap.Error(err))
		return pkgerrors.NewInternalError("failed to persist users", err)
	}
	s.users = next
	return nil
}

// Create assigns the next id, appends the user and persists the collection.
func (s *UserStore) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	if u == nil {
		return nil, pkgerrors.NewInternalError("user cannot be nil", nil)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	created := *u
	created.ID = domain.NextID(s.users)

	next := make([]domain.User, len(s.users), len(s.users)+1)
	copy(next, s.users)
	next = append(next, created)

	if err := s.commit(ctx, next); err != nil {
		return nil, err
	}

	s.log.Info("user created in store", zap.Int64("id", created.ID))
	return &created, nil
}

// GetByID returns a copy of the user with the given id.
func (s *UserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		s.log.Debug("user not found", zap.Int64("id", id))
		return nil, ErrUserNotFound
	}

	found := s.users[i]
	return &found, nil
}

// Update applies the patch to the user with the given id and persists the collection.
func (s *UserStore) Update(ctx context.Context, id int64, patch domain.Patch) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		s.log.Debug("user not found for update", zap.Int64("id", id))
		return nil, ErrUserNotFound
	}

	next := make([]domain.User, len(s.users))
	copy(next, s.users)
	next[i].Apply(patch)

	if err := s.commit(ctx, next); err != nil {
		return nil, err
	}

	updated := next[i]
	s.log.Info("user updated in store", zap.Int64("id", id))
	return &updated, nil
}

// Delete removes the user with the given id and persists the collection.
func (s *UserStore) Delete(ctx context.Context, id int64) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		s.log.Debug("user not found for delete", zap.Int64("id", id))
		return nil, ErrUserNotFound
	}

	removed := s.users[i]
	next := make([]domain.User, 0, len(s.users)-1)
	next = append(next, s.users[:i]...)
	next = append(next, s.users[i+1:]...)

	if err := s.commit(ctx, next); err != nil {
		return nil, err
	}

	s.log.Info("user deleted in store", zap.Int64("id", id))
	return &removed, nil
}

// List returns a copy of the collection in insertion order.
func (s *UserStore) List(ctx context.Context) ([]domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.User, len(s.users))
	copy(out, s.users)
	return out, nil
}
