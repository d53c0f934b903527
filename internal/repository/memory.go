package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"taskboard/internal/domain"
)

// MemoryStore keeps users and tasks in process. It backs STORAGE_DRIVER=memory
// and the handler and service tests.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[string]domain.User
	tasks map[string]domain.Task
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users: make(map[string]domain.User),
		tasks: make(map[string]domain.Task),
	}
}

func (m *MemoryStore) Ping(context.Context) error { return nil }

func (m *MemoryStore) CreateUser(_ context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return fmt.Errorf("user with email %s %w", u.Email, domain.ErrConflict)
		}
	}
	m.users[u.ID] = *u
	return nil
}

func (m *MemoryStore) FindUserByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, fmt.Errorf("user %w", domain.ErrNotFound)
}

func (m *MemoryStore) ListUsers(context.Context) ([]*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]*domain.User, 0, len(m.users))
	for _, u := range m.users {
		u := u
		res = append(res, &u)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res, nil
}

func (m *MemoryStore) UpdateUser(_ context.Context, id string, upd domain.UserUpdate) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, fmt.Errorf("user %w", domain.ErrNotFound)
	}
	if upd.Email != nil {
		for otherID, other := range m.users {
			if otherID != id && other.Email == *upd.Email {
				return nil, fmt.Errorf("user with that email %w", domain.ErrConflict)
			}
		}
		u.Email = *upd.Email
	}
	if upd.Name != nil {
		u.Name = *upd.Name
	}
	if upd.PasswordHash != nil {
		u.PasswordHash = *upd.PasswordHash
	}
	u.UpdatedAt = upd.UpdatedAt
	m.users[id] = u
	return &u, nil
}

func (m *MemoryStore) DeleteUser(_ context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, fmt.Errorf("user %w", domain.ErrNotFound)
	}
	delete(m.users, id)
	return &u, nil
}

func (m *MemoryStore) ListTasks(context.Context) ([]*domain.Task, error) {
	return m.filterTasks(func(*domain.Task) bool { return true }), nil
}

func (m *MemoryStore) ListTasksByAssignee(_ context.Context, userID string) ([]*domain.Task, error) {
	return m.filterTasks(func(t *domain.Task) bool {
		for _, a := range t.AssignedTo {
			if a == userID {
				return true
			}
		}
		return false
	}), nil
}

func (m *MemoryStore) filterTasks(keep func(*domain.Task) bool) []*domain.Task {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := []*domain.Task{}
	for _, t := range m.tasks {
		t := cloneTask(t)
		if keep(&t) {
			res = append(res, &t)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res
}

func (m *MemoryStore) CreateTask(_ context.Context, t *domain.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks[t.ID] = cloneTask(*t)
	return nil
}

func (m *MemoryStore) UpdateTask(_ context.Context, id string, upd domain.TaskUpdate) (*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	if !ok {
		return nil, fmt.Errorf("task %w", domain.ErrNotFound)
	}
	upd.Apply(&t)
	m.tasks[id] = cloneTask(t)
	out := cloneTask(t)
	return &out, nil
}

func (m *MemoryStore) DeleteTask(_ context.Context, id string) (*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	if !ok {
		return nil, fmt.Errorf("task %w", domain.ErrNotFound)
	}
	delete(m.tasks, id)
	return &t, nil
}

func cloneTask(t domain.Task) domain.Task {
	t.AssignedTo = append(domain.AssigneeList(nil), t.AssignedTo...)
	if t.FinishedAt != nil {
		f := *t.FinishedAt
		t.FinishedAt = &f
	}
	return t
}
