// Package domain contains persistence models for the board service.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Board belongs to a workspace and carries its own member list and
// per-user favorite marks. The owner is always a member.
type Board struct {
	ID          snowflake.ID      `gorm:"primaryKey" json:"id"`
	Name        string            `gorm:"type:text;not null" json:"name"`
	WorkspaceID snowflake.ID      `gorm:"column:workspace_id;not null;index" json:"workspace_id"`
	OwnerID     snowflake.ID      `gorm:"column:owner_id;not null;index" json:"owner_id"`
	Metadata    datatypes.JSONMap `gorm:"type:jsonb" json:"metadata"`
	CreatedAt   time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Board) TableName() string { return "boards" }

// BoardMember records membership of a user in a board.
type BoardMember struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	BoardID   snowflake.ID `gorm:"not null;index;uniqueIndex:ux_board_user,priority:1" json:"board_id"`
	UserID    snowflake.ID `gorm:"not null;index;uniqueIndex:ux_board_user,priority:2" json:"user_id"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (BoardMember) TableName() string { return "board_members" }

// BoardFavorite marks a board as favorite for one user.
type BoardFavorite struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	BoardID   snowflake.ID `gorm:"not null;index;uniqueIndex:ux_board_favorite,priority:1" json:"board_id"`
	UserID    snowflake.ID `gorm:"not null;index;uniqueIndex:ux_board_favorite,priority:2" json:"user_id"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (BoardFavorite) TableName() string { return "board_favorites" }
