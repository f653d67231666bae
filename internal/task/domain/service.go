package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrInvalidTitle = errors.New("invalid_task_title")
	ErrTaskExists   = errors.New("task_exists")
	ErrTaskNotFound = errors.New("task_not_found")
)

// Service exposes task operations scoped to a column (and transitively a
// board).
type Service interface {
	Create(ctx context.Context, callerEmail string, req CreateRequest) (*TaskResponse, error)
	ListByColumn(ctx context.Context, callerEmail string, columnID string) ([]TaskResponse, error)
	Get(ctx context.Context, callerEmail string, taskID string) (*TaskResponse, error)
	Update(ctx context.Context, callerEmail string, taskID string, req UpdateRequest) (*TaskResponse, error)
	// Move repositions a task inside its column, or transfers it to another
	// column of the same board when req.ColumnID names a different column.
	Move(ctx context.Context, callerEmail string, taskID string, req MoveRequest) (*TaskResponse, error)
	Delete(ctx context.Context, callerEmail string, taskID string) error
}

type CreateRequest struct {
	ColumnID    string
	Title       string
	Description string
}

type UpdateRequest struct {
	Title       *string
	Description *string
}

type MoveRequest struct {
	ColumnID string
	NewOrder int
}

type TaskResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ColumnID    string    `json:"column_id"`
	Order       int       `json:"order"`
	CreatedAt   time.Time `json:"created_at"`
}
