package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrInvalidName       = errors.New("invalid_workspace_name")
	ErrWorkspaceExists   = errors.New("workspace_exists")
	ErrWorkspaceNotFound = errors.New("workspace_not_found")
	ErrMemberExists      = errors.New("member_exists")
	ErrMemberNotFound    = errors.New("member_not_found")
	ErrOwnerNotRemovable = errors.New("owner_not_removable")
)

// Service exposes workspace operations. Every method takes the caller's
// verified email; permission checks run before any business validation.
type Service interface {
	Create(ctx context.Context, callerEmail string, req CreateRequest) (*WorkspaceResponse, error)
	List(ctx context.Context, callerEmail string) ([]WorkspaceResponse, error)
	Get(ctx context.Context, callerEmail string, workspaceID string) (*WorkspaceResponse, error)
	Update(ctx context.Context, callerEmail string, workspaceID string, req UpdateRequest) (*WorkspaceResponse, error)
	Delete(ctx context.Context, callerEmail string, workspaceID string) error

	InviteMember(ctx context.Context, callerEmail string, workspaceID string, memberEmail string) error
	RemoveMember(ctx context.Context, callerEmail string, workspaceID string, memberEmail string) error
	ListMembers(ctx context.Context, callerEmail string, workspaceID string) ([]MemberResponse, error)
}

type CreateRequest struct {
	Name string
}

type UpdateRequest struct {
	Name string
}

type WorkspaceResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}

type MemberResponse struct {
	UserID  string `json:"user_id"`
	Name    string `json:"name"`
	Surname string `json:"surname"`
	Email   string `json:"email"`
	IsOwner bool   `json:"is_owner"`
}
