package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, task *Task) error
	FindByID(ctx context.Context, id snowflake.ID) (*Task, error)
	// FindByBoardAndTitle searches every column of the board; task titles are
	// unique per board, not per column.
	FindByBoardAndTitle(ctx context.Context, boardID snowflake.ID, title string) (*Task, error)
	ListByColumn(ctx context.Context, columnID snowflake.ID) ([]Task, error)
	Update(ctx context.Context, task *Task) error
	Delete(ctx context.Context, id snowflake.ID) error
}
