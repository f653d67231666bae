package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/taskway/internal/board/domain"
	"github.com/smallbiznis/taskway/pkg/db"
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

func (r *repository) Create(ctx context.Context, board *domain.Board) error {
	return r.db.WithContext(ctx).Create(board).Error
}

func (r *repository) FindByID(ctx context.Context, id snowflake.ID) (*domain.Board, error) {
	var board domain.Board
	err := r.db.WithContext(ctx).First(&board, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBoardNotFound
		}
		return nil, err
	}
	return &board, nil
}

func (r *repository) FindByWorkspaceAndName(ctx context.Context, workspaceID snowflake.ID, name string) (*domain.Board, error) {
	var board domain.Board
	err := r.db.WithContext(ctx).
		First(&board, "workspace_id = ? AND LOWER(name) = LOWER(?)", workspaceID, name).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &board, nil
}

func (r *repository) ListByWorkspace(ctx context.Context, workspaceID snowflake.ID) ([]domain.Board, error) {
	var boards []domain.Board
	err := r.db.WithContext(ctx).
		Where("workspace_id = ?", workspaceID).
		Order("created_at ASC").
		Find(&boards).Error
	if err != nil {
		return nil, err
	}
	return boards, nil
}

func (r *repository) Update(ctx context.Context, board *domain.Board) error {
	return r.db.WithContext(ctx).Model(&domain.Board{}).
		Where("id = ?", board.ID).
		Updates(map[string]any{
			"name":       board.Name,
			"updated_at": board.UpdatedAt,
		}).Error
}

func (r *repository) Delete(ctx context.Context, id snowflake.ID) error {
	return r.db.WithContext(ctx).Delete(&domain.Board{}, "id = ?", id).Error
}

func (r *repository) AddMember(ctx context.Context, member domain.BoardMember) error {
	if err := r.db.WithContext(ctx).Create(&member).Error; err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.ErrMemberExists
		}
		return err
	}
	return nil
}

func (r *repository) RemoveMember(ctx context.Context, boardID, userID snowflake.ID) error {
	return r.db.WithContext(ctx).
		Delete(&domain.BoardMember{}, "board_id = ? AND user_id = ?", boardID, userID).Error
}

func (r *repository) IsMember(ctx context.Context, boardID, userID snowflake.ID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.BoardMember{}).
		Where("board_id = ? AND user_id = ?", boardID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) ListMembers(ctx context.Context, boardID snowflake.ID) ([]domain.MemberListItem, error) {
	var items []domain.MemberListItem
	err := r.db.WithContext(ctx).Raw(
		`SELECT users.id AS user_id, users.name, users.surname, users.email
		 FROM board_members
		 JOIN users ON users.id = board_members.user_id
		 WHERE board_members.board_id = ?
		 ORDER BY board_members.created_at ASC`,
		boardID,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) IsFavorite(ctx context.Context, boardID, userID snowflake.ID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.BoardFavorite{}).
		Where("board_id = ? AND user_id = ?", boardID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) AddFavorite(ctx context.Context, favorite domain.BoardFavorite) error {
	if err := r.db.WithContext(ctx).Create(&favorite).Error; err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil
		}
		return err
	}
	return nil
}

func (r *repository) RemoveFavorite(ctx context.Context, boardID, userID snowflake.ID) error {
	return r.db.WithContext(ctx).
		Delete(&domain.BoardFavorite{}, "board_id = ? AND user_id = ?", boardID, userID).Error
}
