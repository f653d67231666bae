package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	boarddomain "github.com/smallbiznis/taskway/internal/board/domain"
	"github.com/smallbiznis/taskway/internal/column/domain"
	"github.com/smallbiznis/taskway/internal/ordering"
	permissiondomain "github.com/smallbiznis/taskway/internal/permission/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type service struct {
	log        *zap.Logger
	db         *gorm.DB
	repo       domain.Repository
	permission permissiondomain.Service
	genID      *snowflake.Node
}

func New(
	log *zap.Logger,
	db *gorm.DB,
	repo domain.Repository,
	permission permissiondomain.Service,
	genID *snowflake.Node,
) domain.Service {
	return &service{
		log:        log.Named("column.service"),
		db:         db,
		repo:       repo,
		permission: permission,
		genID:      genID,
	}
}

func columnScope(boardID snowflake.ID) ordering.Scope {
	return ordering.Scope{Table: "columns", ParentColumn: "board_id", ParentID: boardID}
}

func (s *service) Create(ctx context.Context, callerEmail string, req domain.CreateRequest) (*domain.ColumnResponse, error) {
	boardID, err := snowflake.ParseString(req.BoardID)
	if err != nil {
		return nil, boarddomain.ErrBoardNotFound
	}
	if err := s.permission.ValidateBoardAccess(ctx, callerEmail, boardID); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	existing, err := s.repo.FindByBoardAndName(ctx, boardID, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrColumnExists
	}

	now := time.Now().UTC()
	column := &domain.Column{
		ID:        s.genID.Generate(),
		Name:      name,
		BoardID:   boardID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	// Position assignment and the insert share a transaction so two
	// concurrent creates cannot claim the same slot.
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		next, err := ordering.NextOrder(ctx, tx, columnScope(boardID))
		if err != nil {
			return err
		}
		column.SortOrder = next
		return s.repo.WithTx(tx).Create(ctx, column)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("column created",
		zap.String("column_id", column.ID.String()),
		zap.String("board_id", boardID.String()),
	)

	return toColumnResponse(column), nil
}

func (s *service) ListByBoard(ctx context.Context, callerEmail string, boardID string) ([]domain.ColumnResponse, error) {
	id, err := snowflake.ParseString(boardID)
	if err != nil {
		return nil, boarddomain.ErrBoardNotFound
	}
	if err := s.permission.ValidateBoardAccess(ctx, callerEmail, id); err != nil {
		return nil, err
	}

	columns, err := s.repo.ListByBoard(ctx, id)
	if err != nil {
		return nil, err
	}

	out := make([]domain.ColumnResponse, 0, len(columns))
	for i := range columns {
		out = append(out, *toColumnResponse(&columns[i]))
	}
	return out, nil
}

func (s *service) Update(ctx context.Context, callerEmail string, columnID string, req domain.UpdateRequest) (*domain.ColumnResponse, error) {
	id, err := parseColumnID(columnID)
	if err != nil {
		return nil, err
	}
	if err := s.permission.ValidateColumnAccess(ctx, callerEmail, id); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	column, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByBoardAndName(ctx, column.BoardID, name)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.ID != column.ID {
		return nil, domain.ErrColumnExists
	}

	column.Name = name
	column.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, column); err != nil {
		return nil, err
	}
	return toColumnResponse(column), nil
}

func (s *service) Move(ctx context.Context, callerEmail string, columnID string, newOrder int) (*domain.ColumnResponse, error) {
	id, err := parseColumnID(columnID)
	if err != nil {
		return nil, err
	}
	if err := s.permission.ValidateColumnAccess(ctx, callerEmail, id); err != nil {
		return nil, err
	}

	var moved *domain.Column
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		column, err := repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := ordering.Reorder(ctx, tx, columnScope(column.BoardID), id, column.SortOrder, newOrder); err != nil {
			return err
		}
		column.SortOrder = newOrder
		moved = column
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("column moved",
		zap.String("column_id", id.String()),
		zap.Int("order", newOrder),
	)

	return toColumnResponse(moved), nil
}

func (s *service) Delete(ctx context.Context, callerEmail string, columnID string) error {
	id, err := parseColumnID(columnID)
	if err != nil {
		return err
	}
	if err := s.permission.ValidateColumnAccess(ctx, callerEmail, id); err != nil {
		return err
	}

	// The column's slot is not repacked; sibling positions keep their gap
	// until the next move.
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.WithContext(ctx).Exec(`DELETE FROM tasks WHERE column_id = ?`, id).Error; err != nil {
			return err
		}
		return s.repo.WithTx(tx).Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.log.Info("column deleted", zap.String("column_id", id.String()))
	return nil
}

func parseColumnID(raw string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(raw)
	if err != nil {
		return 0, domain.ErrColumnNotFound
	}
	return id, nil
}

func toColumnResponse(column *domain.Column) *domain.ColumnResponse {
	return &domain.ColumnResponse{
		ID:        column.ID.String(),
		Name:      column.Name,
		BoardID:   column.BoardID.String(),
		Order:     column.SortOrder,
		CreatedAt: column.CreatedAt,
	}
}
