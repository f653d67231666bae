// Package domain contains persistence models for the task service.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Task is an ordered card within a column. SortOrder values within one
// column start at 1 and stay dense; only moves repack them.
type Task struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	Title       string       `gorm:"type:text;not null" json:"title"`
	Description string       `gorm:"type:text" json:"description"`
	ColumnID    snowflake.ID `gorm:"column:column_id;not null;index" json:"column_id"`
	SortOrder   int          `gorm:"column:sort_order;not null" json:"order"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Task) TableName() string { return "tasks" }
