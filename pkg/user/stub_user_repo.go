package user

import (
	"context"
	"sync"
)

// StubRepo is an in-memory Repo implementation for tests.
type StubRepo struct {
	mu     sync.RWMutex
	users  map[int]User
	nextId int
}

func NewStubRepo() *StubRepo {
	return &StubRepo{
		users:  make(map[int]User),
		nextId: 1,
	}
}

func (s *StubRepo) CreateUser(ctx context.Context, user User) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user.Id = s.nextId
	s.users[s.nextId] = user
	s.nextId++
	return user.Id, nil
}

func (s *StubRepo) GetUser(ctx context.Context, id int) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return u, nil
}

func (s *StubRepo) GetUserByUid(ctx context.Context, uid string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Uid == uid {
			return u, nil
		}
	}
	return User{}, ErrUserNotFound
}

func (s *StubRepo) UpdateUser(ctx context.Context, userId int, user User) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.users[userId]
	if !ok {
		return User{}, ErrUserNotFound
	}
	existing.DisplayName = user.DisplayName
	existing.Settings = user.Settings
	s.users[userId] = existing
	return existing, nil
}

func (s *StubRepo) DeleteUser(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return ErrUserNotFound
	}
	delete(s.users, id)
	return nil
}

func (s *StubRepo) GetAllUsers(ctx context.Context) ([]User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := make([]User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u)
	}
	return users, nil
}

func (s *StubRepo) IsUsernameAvailable(ctx context.Context, username string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Username == username {
			return false, nil
		}
	}
	return true, nil
}

func (s *StubRepo) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = make(map[int]User)
	s.nextId = 1
}
