package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrInvalidName    = errors.New("invalid_column_name")
	ErrColumnExists   = errors.New("column_exists")
	ErrColumnNotFound = errors.New("column_not_found")
)

// Service exposes column operations scoped to a board.
type Service interface {
	Create(ctx context.Context, callerEmail string, req CreateRequest) (*ColumnResponse, error)
	ListByBoard(ctx context.Context, callerEmail string, boardID string) ([]ColumnResponse, error)
	Update(ctx context.Context, callerEmail string, columnID string, req UpdateRequest) (*ColumnResponse, error)
	Move(ctx context.Context, callerEmail string, columnID string, newOrder int) (*ColumnResponse, error)
	Delete(ctx context.Context, callerEmail string, columnID string) error
}

type CreateRequest struct {
	BoardID string
	Name    string
}

type UpdateRequest struct {
	Name string
}

type ColumnResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	BoardID   string    `json:"board_id"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"created_at"`
}
