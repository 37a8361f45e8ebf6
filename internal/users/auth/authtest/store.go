// Copyright (c) 2026 Userhub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package authtest provides an in-memory [auth.UserStore] for tests.
package authtest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/taibuivan/userhub/internal/users/auth"
)

// Method names accepted by [Store.Fail] and [Store.Calls].
const (
	FindByUsername         = "FindByUsername"
	FindByID               = "FindByID"
	PasswordHashByUsername = "PasswordHashByUsername"
	PasswordHashByID       = "PasswordHashByID"
	Create                 = "Create"
	Update                 = "Update"
	ChangePassword         = "ChangePassword"
	List                   = "List"
)

var _ auth.UserStore = (*Store)(nil)

// Store is a goroutine-safe in-memory UserStore with error injection.
type Store struct {
	mu     sync.Mutex
	users  map[int64]auth.User
	nextID int64
	fail   map[string]error
	calls  map[string]int

	// Now stamps created and updated rows.
	Now func() time.Time
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		users:  map[int64]auth.User{},
		nextID: 1,
		fail:   map[string]error{},
		calls:  map[string]int{},
		Now:    time.Now,
	}
}

// Seed inserts user as-is, assigning an id when ID is zero.
func (store *Store) Seed(user auth.User) auth.User {
	store.mu.Lock()
	defer store.mu.Unlock()

	if user.ID == 0 {
		user.ID = store.nextID
	}
	if user.ID >= store.nextID {
		store.nextID = user.ID + 1
	}
	store.users[user.ID] = user
	return user
}

// Fail makes every later call of method return err. A nil err clears it.
func (store *Store) Fail(method string, err error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	if err == nil {
		delete(store.fail, method)
		return
	}
	store.fail[method] = err
}

// Calls reports how many times method was invoked.
func (store *Store) Calls(method string) int {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.calls[method]
}

// Hash returns the stored password hash of id, or "" when absent.
func (store *Store) Hash(id int64) string {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.users[id].PasswordHash
}

// enter records a call and returns the injected error, if any. Caller holds mu.
func (store *Store) enter(method string) error {
	store.calls[method]++
	return store.fail[method]
}

func (store *Store) byUsername(username string) (auth.User, bool) {
	for _, user := range store.users {
		if user.Username == username {
			return user, true
		}
	}
	return auth.User{}, false
}

func (store *Store) FindByUsername(_ context.Context, username string) (*auth.User, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	if err := store.enter(FindByUsername); err != nil {
		return nil, err
	}
	user, ok := store.byUsername(username)
	if !ok {
		return nil, auth.ErrNotFound
	}
	profile := user.Profile()
	return &profile, nil
}

func (store *Store) FindByID(_ context.Context, id int64) (*auth.User, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	if err := store.enter(FindByID); err != nil {
		return nil, err
	}
	user, ok := store.users[id]
	if !ok {
		return nil, auth.ErrNotFound
	}
	profile := user.Profile()
	return &profile, nil
}

func (store *Store) PasswordHashByUsername(_ context.Context, username string) (string, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	if err := store.enter(PasswordHashByUsername); err != nil {
		return "", err
	}
	user, ok := store.byUsername(username)
	if !ok {
		return "", auth.ErrNotFound
	}
	return user.PasswordHash, nil
}

func (store *Store) PasswordHashByID(_ context.Context, id int64) (string, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	if err := store.enter(PasswordHashByID); err != nil {
		return "", err
	}
	user, ok := store.users[id]
	if !ok {
		return "", auth.ErrNotFound
	}
	return user.PasswordHash, nil
}

func (store *Store) Create(_ context.Context, user *auth.User) (*auth.User, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	if err := store.enter(Create); err != nil {
		return nil, err
	}
	if _, taken := store.byUsername(user.Username); taken {
		return nil, auth.ErrDuplicate
	}

	now := store.Now()
	created := *user
	created.ID = store.nextID
	created.CreatedAt = now
	created.UpdatedAt = now
	store.nextID++
	store.users[created.ID] = created

	profile := created.Profile()
	return &profile, nil
}

func (store *Store) Update(_ context.Context, user *auth.User) (*auth.User, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	if err := store.enter(Update); err != nil {
		return nil, err
	}
	current, ok := store.users[user.ID]
	if !ok {
		return nil, auth.ErrNotFound
	}
	if other, taken := store.byUsername(user.Username); taken && other.ID != user.ID {
		return nil, auth.ErrDuplicate
	}

	current.Username = user.Username
	current.Firstname = user.Firstname
	current.Lastname = user.Lastname
	current.UpdatedAt = store.Now()
	store.users[current.ID] = current

	profile := current.Profile()
	return &profile, nil
}

func (store *Store) ChangePassword(_ context.Context, id int64, newHash string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if err := store.enter(ChangePassword); err != nil {
		return err
	}
	current, ok := store.users[id]
	if !ok {
		return auth.ErrNotFound
	}
	current.PasswordHash = newHash
	current.UpdatedAt = store.Now()
	store.users[id] = current
	return nil
}

func (store *Store) List(_ context.Context) ([]auth.User, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	if err := store.enter(List); err != nil {
		return nil, err
	}
	users := make([]auth.User, 0, len(store.users))
	for _, user := range store.users {
		users = append(users, user.Profile())
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}
