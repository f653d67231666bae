// Package domain contains persistence models for the column service.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Column is an ordered lane within a board. SortOrder values within one
// board start at 1 and stay dense; only moves repack them.
type Column struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Name      string       `gorm:"type:text;not null" json:"name"`
	BoardID   snowflake.ID `gorm:"column:board_id;not null;index" json:"board_id"`
	SortOrder int          `gorm:"column:sort_order;not null" json:"order"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Column) TableName() string { return "columns" }
