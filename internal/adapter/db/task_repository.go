package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"workops/internal/core/domain"
	"workops/internal/core/ports"
)

const (
	countTasksQuery = `SELECT COUNT(*) FROM tasks`

	listTasksQuery = `
SELECT id, title, description, due_date, status, created_by_sub, assigned_to_sub, created_at, updated_at
FROM tasks
`

	getTaskQuery = `
SELECT id, title, description, due_date, status, created_by_sub, assigned_to_sub, created_at, updated_at
FROM tasks
WHERE id = ?;
`

	insertTaskQuery = `
INSERT INTO tasks (title, description, due_date, status, created_by_sub, assigned_to_sub, created_at, updated_at)
VALUES (:title, :description, :due_date, :status, :created_by_sub, :assigned_to_sub, :created_at, :updated_at);
`

	updateTaskQuery = `
UPDATE tasks
SET title = :title,
    description = :description,
    due_date = :due_date,
    status = :status,
    assigned_to_sub = :assigned_to_sub,
    updated_at = :updated_at
WHERE id = :id;
`

	deleteTaskQuery = `DELETE FROM tasks WHERE id = ?;`
)

type TaskRepository struct {
	db *sqlx.DB
}

type taskRow struct {
	ID            uint64         `db:"id"`
	Title         string         `db:"title"`
	Description   sql.NullString `db:"description"`
	DueDate       sql.NullTime   `db:"due_date"`
	Status        string         `db:"status"`
	CreatedBySub  sql.NullString `db:"created_by_sub"`
	AssignedToSub sql.NullString `db:"assigned_to_sub"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

var _ ports.TaskRepository = (*TaskRepository)(nil)

func NewTaskRepository(db *sqlx.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// List returns the total count matching the status filter plus one page of
// rows ordered by id descending (newest first).
func (r *TaskRepository) List(ctx context.Context, status *domain.TaskStatus, limit, offset int) (int, []domain.Task, error) {
	countQuery := countTasksQuery
	listQuery := listTasksQuery
	args := []any{}
	if status != nil {
		countQuery += " WHERE status = ?"
		listQuery += "WHERE status = ?\n"
		args = append(args, string(*status))
	}

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return 0, nil, err
	}

	listQuery += "ORDER BY id DESC LIMIT ? OFFSET ?;"
	args = append(args, limit, offset)

	var rows []taskRow
	if err := r.db.SelectContext(ctx, &rows, listQuery, args...); err != nil {
		return 0, nil, err
	}

	tasks := make([]domain.Task, 0, len(rows))
	for _, row := range rows {
		tasks = append(tasks, mapTaskRowToDomainTask(row))
	}

	return total, tasks, nil
}

func (r *TaskRepository) Get(ctx context.Context, id uint64) (domain.Task, error) {
	var row taskRow
	if err := r.db.GetContext(ctx, &row, getTaskQuery, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Task{}, domain.ErrTaskNotFound
		}
		return domain.Task{}, err
	}
	return mapTaskRowToDomainTask(row), nil
}

// Insert persists a new task and assigns its identity and timestamps.
// Both created_at and updated_at are set on insert.
func (r *TaskRepository) Insert(ctx context.Context, task *domain.Task) error {
	now := naiveUTC(time.Now())
	task.CreatedAt = now
	task.UpdatedAt = now
	if task.DueDate != nil {
		value := naiveUTC(*task.DueDate)
		task.DueDate = &value
	}

	result, err := r.db.NamedExecContext(ctx, insertTaskQuery, mapDomainTaskToRow(*task))
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	task.ID = uint64(id)
	return nil
}

// Update writes the full merged row and refreshes updated_at. Concurrent
// writers follow last-write-wins; there is no concurrency token.
func (r *TaskRepository) Update(ctx context.Context, task *domain.Task) error {
	task.UpdatedAt = naiveUTC(time.Now())
	if task.DueDate != nil {
		value := naiveUTC(*task.DueDate)
		task.DueDate = &value
	}

	_, err := r.db.NamedExecContext(ctx, updateTaskQuery, mapDomainTaskToRow(*task))
	return err
}

func (r *TaskRepository) Delete(ctx context.Context, id uint64) (bool, error) {
	result, err := r.db.ExecContext(ctx, deleteTaskQuery, id)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// naiveUTC moves the clock to UTC and drops sub-second precision so the
// stored DATETIME round-trips exactly.
func naiveUTC(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

func mapTaskRowToDomainTask(row taskRow) domain.Task {
	task := domain.Task{
		ID:        row.ID,
		Title:     row.Title,
		Status:    domain.TaskStatus(row.Status),
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}

	if row.Description.Valid {
		value := row.Description.String
		task.Description = &value
	}

	if row.DueDate.Valid {
		value := row.DueDate.Time
		task.DueDate = &value
	}

	if row.CreatedBySub.Valid {
		task.CreatedBySub = row.CreatedBySub.String
	}

	if row.AssignedToSub.Valid {
		value := row.AssignedToSub.String
		task.AssignedToSub = &value
	}

	return task
}

func mapDomainTaskToRow(task domain.Task) taskRow {
	row := taskRow{
		ID:        task.ID,
		Title:     task.Title,
		Status:    string(task.Status),
		CreatedAt: task.CreatedAt,
		UpdatedAt: task.UpdatedAt,
	}

	if task.Description != nil {
		row.Description = sql.NullString{String: *task.Description, Valid: true}
	}

	if task.DueDate != nil {
		row.DueDate = sql.NullTime{Time: *task.DueDate, Valid: true}
	}

	if task.CreatedBySub != "" {
		row.CreatedBySub = sql.NullString{String: task.CreatedBySub, Valid: true}
	}

	if task.AssignedToSub != nil {
		row.AssignedToSub = sql.NullString{String: *task.AssignedToSub, Valid: true}
	}

	return row
}
