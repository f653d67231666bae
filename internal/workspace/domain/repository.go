package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, workspace *Workspace) error
	FindByID(ctx context.Context, id snowflake.ID) (*Workspace, error)
	FindByOwnerAndName(ctx context.Context, ownerID snowflake.ID, name string) (*Workspace, error)
	ListByUser(ctx context.Context, userID snowflake.ID) ([]Workspace, error)
	Update(ctx context.Context, workspace *Workspace) error
	Delete(ctx context.Context, id snowflake.ID) error

	AddMember(ctx context.Context, member WorkspaceMember) error
	RemoveMember(ctx context.Context, workspaceID, userID snowflake.ID) error
	IsMember(ctx context.Context, workspaceID, userID snowflake.ID) (bool, error)
	ListMembers(ctx context.Context, workspaceID snowflake.ID) ([]MemberListItem, error)
}

// MemberListItem joins the membership edge with user identity for listings.
type MemberListItem struct {
	UserID  snowflake.ID
	Name    string
	Surname string
	Email   string
}
