package service

import (
	"context"

	"taskboard/internal/domain"
)

// UserStore is implemented by repository.UserRepository and repository.PgUserRepository.
type UserStore interface {
	CreateUser(ctx context.Context, u *domain.User) error
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]*domain.User, error)
	UpdateUser(ctx context.Context, id string, upd domain.UserUpdate) (*domain.User, error)
	DeleteUser(ctx context.Context, id string) (*domain.User, error)
}

// TaskStore is implemented by repository.TaskRepository and repository.PgTaskRepository.
type TaskStore interface {
	ListTasks(ctx context.Context) ([]*domain.Task, error)
	ListTasksByAssignee(ctx context.Context, userID string) ([]*domain.Task, error)
	CreateTask(ctx context.Context, t *domain.Task) error
	UpdateTask(ctx context.Context, id string, upd domain.TaskUpdate) (*domain.Task, error)
	DeleteTask(ctx context.Context, id string) (*domain.Task, error)
}
