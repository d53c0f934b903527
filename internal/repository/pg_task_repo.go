package repository

import (
	"context"
	"errors"
	"fmt"

	"taskboard/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgTaskRepository stores tasks in PostgreSQL; assignees live in a text[] column.
type PgTaskRepository struct {
	db *pgxpool.Pool
}

func NewPgTaskRepository(db *pgxpool.Pool) *PgTaskRepository {
	return &PgTaskRepository{db: db}
}

const taskColumns = `id, title, description, status, assigned_to, finished_at, created_at, updated_at`

func scanTask(row pgx.Row) (*domain.Task, error) {
	var (
		t          domain.Task
		status     string
		assignedTo []string
	)
	if err := row.Scan(&t.ID, &t.Title, &t.Description, &status, &assignedTo, &t.FinishedAt, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("task %w", domain.ErrNotFound)
		}
		return nil, err
	}
	t.Status = domain.TaskStatus(status)
	t.AssignedTo = domain.AssigneeList(assignedTo)
	return &t, nil
}

func (r *PgTaskRepository) ListTasks(ctx context.Context) ([]*domain.Task, error) {
	return r.query(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY created_at`)
}

func (r *PgTaskRepository) ListTasksByAssignee(ctx context.Context, userID string) ([]*domain.Task, error) {
	return r.query(ctx, `SELECT `+taskColumns+` FROM tasks WHERE $1 = ANY(assigned_to) ORDER BY created_at`, userID)
}

func (r *PgTaskRepository) query(ctx context.Context, sql string, args ...any) ([]*domain.Task, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := []*domain.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, t)
	}
	return res, rows.Err()
}

func (r *PgTaskRepository) CreateTask(ctx context.Context, t *domain.Task) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO tasks (`+taskColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		t.ID, t.Title, t.Description, string(t.Status), []string(t.AssignedTo), t.FinishedAt, t.CreatedAt, t.UpdatedAt,
	)
	return err
}

func (r *PgTaskRepository) UpdateTask(ctx context.Context, id string, upd domain.TaskUpdate) (*domain.Task, error) {
	var status *string
	if upd.Status != nil {
		s := string(*upd.Status)
		status = &s
	}
	var assignedTo []string
	if upd.AssignedTo != nil {
		assignedTo = []string(upd.AssignedTo)
	}

	return scanTask(r.db.QueryRow(ctx,
		`UPDATE tasks
		 SET title = COALESCE($2, title),
		     description = COALESCE($3, description),
		     status = COALESCE($4, status),
		     assigned_to = COALESCE($5, assigned_to),
		     finished_at = CASE WHEN $6 THEN $7 ELSE finished_at END,
		     updated_at = $8
		 WHERE id = $1
		 RETURNING `+taskColumns,
		id, upd.Title, upd.Description, status, assignedTo, upd.SetFinishedAt, upd.FinishedAt, upd.UpdatedAt,
	))
}

func (r *PgTaskRepository) DeleteTask(ctx context.Context, id string) (*domain.Task, error) {
	return scanTask(r.db.QueryRow(ctx, `DELETE FROM tasks WHERE id = $1 RETURNING `+taskColumns, id))
}
