package repository

import "time"

// Task represents a tasks row.
type Task struct {
	ID          string    `json:"id"`
	Description string    `json:"task_description"`
	CreatedAt   time.Time `json:"created_at"`
}
