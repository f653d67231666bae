package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	columndomain "github.com/smallbiznis/taskway/internal/column/domain"
	"github.com/smallbiznis/taskway/internal/ordering"
	permissiondomain "github.com/smallbiznis/taskway/internal/permission/domain"
	"github.com/smallbiznis/taskway/internal/task/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type service struct {
	log        *zap.Logger
	db         *gorm.DB
	repo       domain.Repository
	columns    columndomain.Repository
	permission permissiondomain.Service
	genID      *snowflake.Node
}

func New(
	log *zap.Logger,
	db *gorm.DB,
	repo domain.Repository,
	columns columndomain.Repository,
	permission permissiondomain.Service,
	genID *snowflake.Node,
) domain.Service {
	return &service{
		log:        log.Named("task.service"),
		db:         db,
		repo:       repo,
		columns:    columns,
		permission: permission,
		genID:      genID,
	}
}

func taskScope(columnID snowflake.ID) ordering.Scope {
	return ordering.Scope{Table: "tasks", ParentColumn: "column_id", ParentID: columnID}
}

func (s *service) Create(ctx context.Context, callerEmail string, req domain.CreateRequest) (*domain.TaskResponse, error) {
	columnID, err := snowflake.ParseString(req.ColumnID)
	if err != nil {
		return nil, columndomain.ErrColumnNotFound
	}
	if err := s.permission.ValidateColumnAccess(ctx, callerEmail, columnID); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, domain.ErrInvalidTitle
	}

	column, err := s.columns.FindByID(ctx, columnID)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByBoardAndTitle(ctx, column.BoardID, title)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrTaskExists
	}

	now := time.Now().UTC()
	task := &domain.Task{
		ID:          s.genID.Generate(),
		Title:       title,
		Description: strings.TrimSpace(req.Description),
		ColumnID:    columnID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		next, err := ordering.NextOrder(ctx, tx, taskScope(columnID))
		if err != nil {
			return err
		}
		task.SortOrder = next
		return s.repo.WithTx(tx).Create(ctx, task)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("task created",
		zap.String("task_id", task.ID.String()),
		zap.String("column_id", columnID.String()),
	)

	return toTaskResponse(task), nil
}

func (s *service) ListByColumn(ctx context.Context, callerEmail string, columnID string) ([]domain.TaskResponse, error) {
	id, err := snowflake.ParseString(columnID)
	if err != nil {
		return nil, columndomain.ErrColumnNotFound
	}
	if err := s.permission.ValidateColumnAccess(ctx, callerEmail, id); err != nil {
		return nil, err
	}

	tasks, err := s.repo.ListByColumn(ctx, id)
	if err != nil {
		return nil, err
	}

	out := make([]domain.TaskResponse, 0, len(tasks))
	for i := range tasks {
		out = append(out, *toTaskResponse(&tasks[i]))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, callerEmail string, taskID string) (*domain.TaskResponse, error) {
	id, err := parseTaskID(taskID)
	if err != nil {
		return nil, err
	}
	if err := s.permission.ValidateTaskAccess(ctx, callerEmail, id); err != nil {
		return nil, err
	}

	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toTaskResponse(task), nil
}

func (s *service) Update(ctx context.Context, callerEmail string, taskID string, req domain.UpdateRequest) (*domain.TaskResponse, error) {
	id, err := parseTaskID(taskID)
	if err != nil {
		return nil, err
	}
	if err := s.permission.ValidateTaskAccess(ctx, callerEmail, id); err != nil {
		return nil, err
	}

	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, domain.ErrInvalidTitle
		}

		column, err := s.columns.FindByID(ctx, task.ColumnID)
		if err != nil {
			return nil, err
		}
		existing, err := s.repo.FindByBoardAndTitle(ctx, column.BoardID, title)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != task.ID {
			return nil, domain.ErrTaskExists
		}
		task.Title = title
	}
	if req.Description != nil {
		task.Description = strings.TrimSpace(*req.Description)
	}

	task.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, task); err != nil {
		return nil, err
	}
	return toTaskResponse(task), nil
}

func (s *service) Move(ctx context.Context, callerEmail string, taskID string, req domain.MoveRequest) (*domain.TaskResponse, error) {
	id, err := parseTaskID(taskID)
	if err != nil {
		return nil, err
	}
	if err := s.permission.ValidateTaskAccess(ctx, callerEmail, id); err != nil {
		return nil, err
	}

	var destColumnID snowflake.ID
	if req.ColumnID != "" {
		destColumnID, err = snowflake.ParseString(req.ColumnID)
		if err != nil {
			return nil, columndomain.ErrColumnNotFound
		}
	}

	// The task's current position is read inside the transaction; a position
	// read before it could be stale by the time the shift runs and would
	// corrupt the sibling sequence.
	var moved *domain.Task
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		task, err := s.repo.WithTx(tx).FindByID(ctx, id)
		if err != nil {
			return err
		}

		if destColumnID == 0 || destColumnID == task.ColumnID {
			if err := ordering.Reorder(ctx, tx, taskScope(task.ColumnID), id, task.SortOrder, req.NewOrder); err != nil {
				return err
			}
			task.SortOrder = req.NewOrder
			moved = task
			return nil
		}

		// Cross-column moves stay within one board.
		columns := s.columns.WithTx(tx)
		src, err := columns.FindByID(ctx, task.ColumnID)
		if err != nil {
			return err
		}
		dst, err := columns.FindByID(ctx, destColumnID)
		if err != nil {
			return err
		}
		if dst.BoardID != src.BoardID {
			return permissiondomain.ErrColumnNotInBoard
		}

		if err := ordering.Transfer(ctx, tx, taskScope(src.ID), taskScope(dst.ID), id, task.SortOrder, req.NewOrder); err != nil {
			return err
		}
		task.ColumnID = destColumnID
		task.SortOrder = req.NewOrder
		moved = task
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("task moved",
		zap.String("task_id", id.String()),
		zap.String("column_id", moved.ColumnID.String()),
		zap.Int("order", moved.SortOrder),
	)

	return toTaskResponse(moved), nil
}

func (s *service) Delete(ctx context.Context, callerEmail string, taskID string) error {
	id, err := parseTaskID(taskID)
	if err != nil {
		return err
	}
	if err := s.permission.ValidateTaskAccess(ctx, callerEmail, id); err != nil {
		return err
	}

	// The slot is not repacked; sibling positions keep their gap until the
	// next move.
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info("task deleted", zap.String("task_id", id.String()))
	return nil
}

func parseTaskID(raw string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(raw)
	if err != nil {
		return 0, domain.ErrTaskNotFound
	}
	return id, nil
}

func toTaskResponse(task *domain.Task) *domain.TaskResponse {
	return &domain.TaskResponse{
		ID:          task.ID.String(),
		Title:       task.Title,
		Description: task.Description,
		ColumnID:    task.ColumnID.String(),
		Order:       task.SortOrder,
		CreatedAt:   task.CreatedAt,
	}
}
