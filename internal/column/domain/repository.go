package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, column *Column) error
	FindByID(ctx context.Context, id snowflake.ID) (*Column, error)
	FindByBoardAndName(ctx context.Context, boardID snowflake.ID, name string) (*Column, error)
	ListByBoard(ctx context.Context, boardID snowflake.ID) ([]Column, error)
	Update(ctx context.Context, column *Column) error
	Delete(ctx context.Context, id snowflake.ID) error
}
