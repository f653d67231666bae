package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrInvalidName       = errors.New("invalid_board_name")
	ErrBoardExists       = errors.New("board_exists")
	ErrBoardNotFound     = errors.New("board_not_found")
	ErrMemberExists      = errors.New("board_member_exists")
	ErrMemberNotFound    = errors.New("board_member_not_found")
	ErrOwnerNotRemovable = errors.New("board_owner_not_removable")
)

// Service exposes board operations scoped to a workspace.
type Service interface {
	Create(ctx context.Context, callerEmail string, req CreateRequest) (*BoardResponse, error)
	ListByWorkspace(ctx context.Context, callerEmail string, workspaceID string) ([]BoardResponse, error)
	Get(ctx context.Context, callerEmail string, boardID string) (*BoardResponse, error)
	Update(ctx context.Context, callerEmail string, boardID string, req UpdateRequest) (*BoardResponse, error)
	Delete(ctx context.Context, callerEmail string, boardID string) error

	InviteMember(ctx context.Context, callerEmail string, boardID string, memberEmail string) error
	RemoveMember(ctx context.Context, callerEmail string, boardID string, memberEmail string) error
	ListMembers(ctx context.Context, callerEmail string, boardID string) ([]MemberResponse, error)

	ToggleFavorite(ctx context.Context, callerEmail string, boardID string) (bool, error)
}

type CreateRequest struct {
	WorkspaceID string
	Name        string
}

type UpdateRequest struct {
	Name string
}

type BoardResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	WorkspaceID string    `json:"workspace_id"`
	OwnerID     string    `json:"owner_id"`
	Favorite    bool      `json:"favorite"`
	CreatedAt   time.Time `json:"created_at"`
}

type MemberResponse struct {
	UserID  string `json:"user_id"`
	Name    string `json:"name"`
	Surname string `json:"surname"`
	Email   string `json:"email"`
	IsOwner bool   `json:"is_owner"`
}
