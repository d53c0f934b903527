package service

import (
	"context"
	"time"

	"taskboard/internal/domain"
	"taskboard/internal/logger"
)

// TaskService applies the lifecycle rules before every write.
type TaskService struct {
	tasks TaskStore
	now   func() time.Time
}

func NewTaskService(tasks TaskStore) *TaskService {
	return &TaskService{tasks: tasks, now: time.Now}
}

// ListTasks returns every task regardless of the caller.
func (s *TaskService) ListTasks(ctx context.Context) ([]*domain.Task, error) {
	return s.tasks.ListTasks(ctx)
}

func (s *TaskService) ListTasksByAssignee(ctx context.Context, userID string) ([]*domain.Task, error) {
	if !domain.ValidID(userID) {
		return nil, domain.InvalidField("userId", "must be a valid id")
	}
	return s.tasks.ListTasksByAssignee(ctx, userID)
}

func (s *TaskService) CreateTask(ctx context.Context, in domain.NewTaskInput) (*domain.Task, error) {
	t, err := in.Build(domain.NewID(), s.now())
	if err != nil {
		return nil, err
	}
	if err := s.tasks.CreateTask(ctx, t); err != nil {
		return nil, err
	}

	TaskStatusChanges.WithLabelValues(string(t.Status)).Inc()
	logger.WithContext(ctx).Debug("task created", "task_id", t.ID, "status", t.Status)
	return t, nil
}

func (s *TaskService) UpdateTask(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error) {
	if !domain.ValidID(id) {
		return nil, domain.InvalidField("id", "must be a valid id")
	}
	upd, err := patch.Resolve(s.now())
	if err != nil {
		return nil, err
	}

	t, err := s.tasks.UpdateTask(ctx, id, upd)
	if err != nil {
		return nil, err
	}

	if upd.Status != nil {
		TaskStatusChanges.WithLabelValues(string(*upd.Status)).Inc()
	}
	logger.WithContext(ctx).Debug("task updated", "task_id", t.ID, "status", t.Status)
	return t, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, id string) (*domain.Task, error) {
	if !domain.ValidID(id) {
		return nil, domain.InvalidField("id", "must be a valid id")
	}
	return s.tasks.DeleteTask(ctx, id)
}
