package service

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/smallbiznis/taskway/internal/auth/domain"
	boarddomain "github.com/smallbiznis/taskway/internal/board/domain"
	columndomain "github.com/smallbiznis/taskway/internal/column/domain"
	"github.com/smallbiznis/taskway/internal/permission/domain"
	taskdomain "github.com/smallbiznis/taskway/internal/task/domain"
	workspacedomain "github.com/smallbiznis/taskway/internal/workspace/domain"
	"gorm.io/gorm"
)

type service struct {
	db    *gorm.DB
	users authdomain.Repository
}

func New(db *gorm.DB, users authdomain.Repository) domain.Service {
	return &service{
		db:    db,
		users: users,
	}
}

func (s *service) ValidateWorkspaceAccess(ctx context.Context, email string, workspaceID snowflake.ID) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	workspace, err := s.workspaceByID(ctx, workspaceID)
	if err != nil {
		return err
	}
	if workspace.OwnerID == user.ID {
		return nil
	}

	isMember, err := s.isWorkspaceMember(ctx, workspaceID, user.ID)
	if err != nil {
		return err
	}
	if !isMember {
		return domain.ErrNotWorkspaceMember
	}
	return nil
}

func (s *service) ValidateBoardAccess(ctx context.Context, email string, boardID snowflake.ID) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	board, err := s.boardByID(ctx, boardID)
	if err != nil {
		return err
	}

	// Workspace access comes first; being on the board is worthless if the
	// caller was removed from the surrounding workspace.
	if err := s.ValidateWorkspaceAccess(ctx, email, board.WorkspaceID); err != nil {
		return err
	}

	if board.OwnerID == user.ID {
		return nil
	}
	isMember, err := s.isBoardMember(ctx, boardID, user.ID)
	if err != nil {
		return err
	}
	if !isMember {
		return domain.ErrNotBoardMember
	}
	return nil
}

func (s *service) ValidateColumnAccess(ctx context.Context, email string, columnID snowflake.ID) error {
	column, err := s.columnByID(ctx, columnID)
	if err != nil {
		return err
	}
	return s.ValidateBoardAccess(ctx, email, column.BoardID)
}

func (s *service) ValidateTaskAccess(ctx context.Context, email string, taskID snowflake.ID) error {
	task, err := s.taskByID(ctx, taskID)
	if err != nil {
		return err
	}
	return s.ValidateColumnAccess(ctx, email, task.ColumnID)
}

func (s *service) ValidateWorkspaceOwnership(ctx context.Context, email string, workspaceID snowflake.ID) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	workspace, err := s.workspaceByID(ctx, workspaceID)
	if err != nil {
		return err
	}
	if workspace.OwnerID != user.ID {
		return domain.ErrNotWorkspaceOwner
	}
	return nil
}

func (s *service) ValidateBoardOwnership(ctx context.Context, email string, boardID snowflake.ID) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	board, err := s.boardByID(ctx, boardID)
	if err != nil {
		return err
	}
	if board.OwnerID != user.ID {
		return domain.ErrNotBoardOwner
	}
	return nil
}

func (s *service) ValidateBoardBelongsToWorkspace(ctx context.Context, boardID, workspaceID snowflake.ID) error {
	board, err := s.boardByID(ctx, boardID)
	if err != nil {
		return err
	}
	if board.WorkspaceID != workspaceID {
		return domain.ErrBoardNotInWorkspace
	}
	return nil
}

func (s *service) ValidateColumnBelongsToBoard(ctx context.Context, columnID, boardID snowflake.ID) error {
	column, err := s.columnByID(ctx, columnID)
	if err != nil {
		return err
	}
	if column.BoardID != boardID {
		return domain.ErrColumnNotInBoard
	}
	return nil
}

func (s *service) ValidateTaskBelongsToColumn(ctx context.Context, taskID, columnID snowflake.ID) error {
	task, err := s.taskByID(ctx, taskID)
	if err != nil {
		return err
	}
	if task.ColumnID != columnID {
		return domain.ErrTaskNotInColumn
	}
	return nil
}

func (s *service) workspaceByID(ctx context.Context, id snowflake.ID) (*workspacedomain.Workspace, error) {
	var workspace workspacedomain.Workspace
	if err := s.db.WithContext(ctx).First(&workspace, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, workspacedomain.ErrWorkspaceNotFound
		}
		return nil, err
	}
	return &workspace, nil
}

func (s *service) boardByID(ctx context.Context, id snowflake.ID) (*boarddomain.Board, error) {
	var board boarddomain.Board
	if err := s.db.WithContext(ctx).First(&board, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, boarddomain.ErrBoardNotFound
		}
		return nil, err
	}
	return &board, nil
}

func (s *service) columnByID(ctx context.Context, id snowflake.ID) (*columndomain.Column, error) {
	var column columndomain.Column
	if err := s.db.WithContext(ctx).First(&column, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, columndomain.ErrColumnNotFound
		}
		return nil, err
	}
	return &column, nil
}

func (s *service) taskByID(ctx context.Context, id snowflake.ID) (*taskdomain.Task, error) {
	var task taskdomain.Task
	if err := s.db.WithContext(ctx).First(&task, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, taskdomain.ErrTaskNotFound
		}
		return nil, err
	}
	return &task, nil
}

func (s *service) isWorkspaceMember(ctx context.Context, workspaceID, userID snowflake.ID) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&workspacedomain.WorkspaceMember{}).
		Where("workspace_id = ? AND user_id = ?", workspaceID, userID).
		Count(&count).Error
	return count > 0, err
}

func (s *service) isBoardMember(ctx context.Context, boardID, userID snowflake.ID) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&boarddomain.BoardMember{}).
		Where("board_id = ? AND user_id = ?", boardID, userID).
		Count(&count).Error
	return count > 0, err
}
