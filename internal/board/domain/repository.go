package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, board *Board) error
	FindByID(ctx context.Context, id snowflake.ID) (*Board, error)
	FindByWorkspaceAndName(ctx context.Context, workspaceID snowflake.ID, name string) (*Board, error)
	ListByWorkspace(ctx context.Context, workspaceID snowflake.ID) ([]Board, error)
	Update(ctx context.Context, board *Board) error
	Delete(ctx context.Context, id snowflake.ID) error

	AddMember(ctx context.Context, member BoardMember) error
	RemoveMember(ctx context.Context, boardID, userID snowflake.ID) error
	IsMember(ctx context.Context, boardID, userID snowflake.ID) (bool, error)
	ListMembers(ctx context.Context, boardID snowflake.ID) ([]MemberListItem, error)

	IsFavorite(ctx context.Context, boardID, userID snowflake.ID) (bool, error)
	AddFavorite(ctx context.Context, favorite BoardFavorite) error
	RemoveFavorite(ctx context.Context, boardID, userID snowflake.ID) error
}

// MemberListItem joins the membership edge with user identity for listings.
type MemberListItem struct {
	UserID  snowflake.ID
	Name    string
	Surname string
	Email   string
}
