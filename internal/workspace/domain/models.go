// Package domain contains persistence models for the workspace service.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Workspace is the top-level container: it groups boards and carries its own
// member list. The owner is always a member.
type Workspace struct {
	ID        snowflake.ID      `gorm:"primaryKey" json:"id"`
	Name      string            `gorm:"type:text;not null" json:"name"`
	Slug      string            `gorm:"type:text;not null" json:"slug"`
	OwnerID   snowflake.ID      `gorm:"column:owner_id;not null;index" json:"owner_id"`
	Metadata  datatypes.JSONMap `gorm:"type:jsonb" json:"metadata"`
	CreatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Workspace) TableName() string { return "workspaces" }

// WorkspaceMember records membership of a user in a workspace.
type WorkspaceMember struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	WorkspaceID snowflake.ID `gorm:"not null;index;uniqueIndex:ux_workspace_user,priority:1" json:"workspace_id"`
	UserID      snowflake.ID `gorm:"not null;index;uniqueIndex:ux_workspace_user,priority:2" json:"user_id"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (WorkspaceMember) TableName() string { return "workspace_members" }
