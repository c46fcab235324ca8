package repository

import (
	"context"
	"database/sql"
)

// TaskFilters defines list filters.
type TaskFilters struct {
	Limit int // 0 = no limit
}

// TaskRepo handles tasks.
type TaskRepo struct {
	db *sql.DB
}

func NewTaskRepo(db *sql.DB) *TaskRepo { return &TaskRepo{db: db} }

func (r *TaskRepo) Insert(ctx context.Context, t Task) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO tasks(id, task_description, created_at) VALUES (?, ?, ?);
	`, t.ID, t.Description, t.CreatedAt)
	return err
}

// List returns tasks newest first.
func (r *TaskRepo) List(ctx context.Context, f TaskFilters) ([]Task, error) {
	var args []interface{}
	query := "SELECT id, task_description, created_at FROM tasks ORDER BY created_at DESC, rowid DESC"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Task{}
	for rows.Next() {
		var t Task
		if err := rows.Scan(&t.ID, &t.Description, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Count returns the number of stored tasks.
func (r *TaskRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks`).Scan(&n)
	return n, err
}
