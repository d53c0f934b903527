package integration

import (
	"context"
	"errors"
	"testing"
	"time"

	"taskboard/internal/domain"
	"taskboard/internal/repository"
	"taskboard/internal/service"

	"github.com/google/uuid"
)

// exerciseStores runs the same checks against every storage backend.
func exerciseStores(t *testing.T, users service.UserStore, tasks service.TaskStore) {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	email := "it-" + uuid.NewString() + "@example.com"
	u := &domain.User{
		ID:           domain.NewID(),
		Name:         "Integration",
		Email:        email,
		PasswordHash: "hash",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := users.CreateUser(ctx, u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	t.Cleanup(func() { _, _ = users.DeleteUser(context.Background(), u.ID) })

	dup := *u
	dup.ID = domain.NewID()
	if err := users.CreateUser(ctx, &dup); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("duplicate email: err = %v; want conflict", err)
	}

	got, err := users.FindUserByEmail(ctx, email)
	if err != nil {
		t.Fatalf("find user: %v", err)
	}
	if got.ID != u.ID || got.PasswordHash != "hash" {
		t.Fatalf("found %+v", got)
	}
	if _, err := users.FindUserByEmail(ctx, "missing-"+email); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("missing user: err = %v; want not found", err)
	}

	name := "Renamed"
	upd, err := users.UpdateUser(ctx, u.ID, domain.UserUpdate{Name: &name, UpdatedAt: now.Add(time.Second)})
	if err != nil {
		t.Fatalf("update user: %v", err)
	}
	if upd.Name != name || upd.Email != email {
		t.Fatalf("updated user %+v", upd)
	}

	task, err := domain.NewTaskInput{
		Title:      "integration",
		Status:     domain.StatusToDo,
		AssignedTo: domain.AssigneeList{u.ID, "someone-else"},
	}.Build(domain.NewID(), now)
	if err != nil {
		t.Fatalf("build task: %v", err)
	}
	if err := tasks.CreateTask(ctx, task); err != nil {
		t.Fatalf("create task: %v", err)
	}
	t.Cleanup(func() { _, _ = tasks.DeleteTask(context.Background(), task.ID) })

	mine, err := tasks.ListTasksByAssignee(ctx, u.ID)
	if err != nil {
		t.Fatalf("list by assignee: %v", err)
	}
	if len(mine) != 1 || mine[0].ID != task.ID {
		t.Fatalf("assignee tasks = %+v", mine)
	}

	done := domain.StatusDone
	resolved, err := domain.TaskPatch{Status: &done}.Resolve(now.Add(time.Minute))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	updated, err := tasks.UpdateTask(ctx, task.ID, resolved)
	if err != nil {
		t.Fatalf("update task: %v", err)
	}
	if updated.Status != domain.StatusDone || updated.FinishedAt == nil {
		t.Fatalf("done task %+v", updated)
	}
	if updated.Title != "integration" || len(updated.AssignedTo) != 2 {
		t.Fatalf("untouched fields changed: %+v", updated)
	}

	todo := domain.StatusToDo
	resolved, err = domain.TaskPatch{Status: &todo}.Resolve(now.Add(2 * time.Minute))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	updated, err = tasks.UpdateTask(ctx, task.ID, resolved)
	if err != nil {
		t.Fatalf("reopen task: %v", err)
	}
	if updated.FinishedAt != nil {
		t.Fatalf("reopened task kept finishedAt %v", updated.FinishedAt)
	}

	deleted, err := tasks.DeleteTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("delete task: %v", err)
	}
	if deleted.ID != task.ID {
		t.Fatalf("deleted %s; want %s", deleted.ID, task.ID)
	}
	if _, err := tasks.DeleteTask(ctx, task.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("second delete: err = %v; want not found", err)
	}
	if _, err := tasks.UpdateTask(ctx, task.ID, domain.TaskUpdate{UpdatedAt: now}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("update deleted: err = %v; want not found", err)
	}
}

func TestMemoryStore(t *testing.T) {
	mem := repository.NewMemoryStore()
	exerciseStores(t, mem, mem)
}
