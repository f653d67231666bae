package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/taskway/internal/column/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func New(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) domain.Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, column *domain.Column) error {
	return r.db.WithContext(ctx).Create(column).Error
}

func (r *repository) FindByID(ctx context.Context, id snowflake.ID) (*domain.Column, error) {
	var column domain.Column
	err := r.db.WithContext(ctx).First(&column, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrColumnNotFound
		}
		return nil, err
	}
	return &column, nil
}

func (r *repository) FindByBoardAndName(ctx context.Context, boardID snowflake.ID, name string) (*domain.Column, error) {
	var column domain.Column
	err := r.db.WithContext(ctx).
		First(&column, "board_id = ? AND LOWER(name) = LOWER(?)", boardID, name).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &column, nil
}

func (r *repository) ListByBoard(ctx context.Context, boardID snowflake.ID) ([]domain.Column, error) {
	var columns []domain.Column
	err := r.db.WithContext(ctx).
		Where("board_id = ?", boardID).
		Order("sort_order ASC").
		Find(&columns).Error
	if err != nil {
		return nil, err
	}
	return columns, nil
}

func (r *repository) Update(ctx context.Context, column *domain.Column) error {
	return r.db.WithContext(ctx).Model(&domain.Column{}).
		Where("id = ?", column.ID).
		Updates(map[string]any{
			"name":       column.Name,
			"updated_at": column.UpdatedAt,
		}).Error
}

func (r *repository) Delete(ctx context.Context, id snowflake.ID) error {
	return r.db.WithContext(ctx).Delete(&domain.Column{}, "id = ?", id).Error
}
