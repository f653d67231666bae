package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/smallbiznis/taskway/internal/auth/domain"
	"github.com/smallbiznis/taskway/internal/board/domain"
	permissiondomain "github.com/smallbiznis/taskway/internal/permission/domain"
	workspacedomain "github.com/smallbiznis/taskway/internal/workspace/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type service struct {
	log        *zap.Logger
	db         *gorm.DB
	repo       domain.Repository
	users      authdomain.Repository
	permission permissiondomain.Service
	genID      *snowflake.Node
}

func New(
	log *zap.Logger,
	db *gorm.DB,
	repo domain.Repository,
	users authdomain.Repository,
	permission permissiondomain.Service,
	genID *snowflake.Node,
) domain.Service {
	return &service{
		log:        log.Named("board.service"),
		db:         db,
		repo:       repo,
		users:      users,
		permission: permission,
		genID:      genID,
	}
}

func (s *service) Create(ctx context.Context, callerEmail string, req domain.CreateRequest) (*domain.BoardResponse, error) {
	workspaceID, err := snowflake.ParseString(req.WorkspaceID)
	if err != nil {
		return nil, workspacedomain.ErrWorkspaceNotFound
	}
	if err := s.permission.ValidateWorkspaceAccess(ctx, callerEmail, workspaceID); err != nil {
		return nil, err
	}

	caller, err := s.users.FindByEmail(ctx, callerEmail)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	existing, err := s.repo.FindByWorkspaceAndName(ctx, workspaceID, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrBoardExists
	}

	now := time.Now().UTC()
	board := &domain.Board{
		ID:          s.genID.Generate(),
		Name:        name,
		WorkspaceID: workspaceID,
		OwnerID:     caller.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Create(ctx, board); err != nil {
			return err
		}
		return repo.AddMember(ctx, domain.BoardMember{
			ID:        s.genID.Generate(),
			BoardID:   board.ID,
			UserID:    caller.ID,
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("board created",
		zap.String("board_id", board.ID.String()),
		zap.String("workspace_id", workspaceID.String()),
	)

	return toBoardResponse(board, false), nil
}

func (s *service) ListByWorkspace(ctx context.Context, callerEmail string, workspaceID string) ([]domain.BoardResponse, error) {
	id, err := snowflake.ParseString(workspaceID)
	if err != nil {
		return nil, workspacedomain.ErrWorkspaceNotFound
	}
	if err := s.permission.ValidateWorkspaceAccess(ctx, callerEmail, id); err != nil {
		return nil, err
	}

	caller, err := s.users.FindByEmail(ctx, callerEmail)
	if err != nil {
		return nil, err
	}

	boards, err := s.repo.ListByWorkspace(ctx, id)
	if err != nil {
		return nil, err
	}

	out := make([]domain.BoardResponse, 0, len(boards))
	for i := range boards {
		favorite, err := s.repo.IsFavorite(ctx, boards[i].ID, caller.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, *toBoardResponse(&boards[i], favorite))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, callerEmail string, boardID string) (*domain.BoardResponse, error) {
	id, err := parseBoardID(boardID)
	if err != nil {
		return nil, err
	}
	if err := s.permission.ValidateBoardAccess(ctx, callerEmail, id); err != nil {
		return nil, err
	}

	caller, err := s.users.FindByEmail(ctx, callerEmail)
	if err != nil {
		return nil, err
	}

	board, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	favorite, err := s.repo.IsFavorite(ctx, id, caller.ID)
	if err != nil {
		return nil, err
	}
	return toBoardResponse(board, favorite), nil
}

func (s *service) Update(ctx context.Context, callerEmail string, boardID string, req domain.UpdateRequest) (*domain.BoardResponse, error) {
	id, err := parseBoardID(boardID)
	if err != nil {
		return nil, err
	}
	if err := s.permission.ValidateBoardOwnership(ctx, callerEmail, id); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	board, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByWorkspaceAndName(ctx, board.WorkspaceID, name)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.ID != board.ID {
		return nil, domain.ErrBoardExists
	}

	board.Name = name
	board.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, board); err != nil {
		return nil, err
	}

	caller, err := s.users.FindByEmail(ctx, callerEmail)
	if err != nil {
		return nil, err
	}
	favorite, err := s.repo.IsFavorite(ctx, id, caller.ID)
	if err != nil {
		return nil, err
	}
	return toBoardResponse(board, favorite), nil
}

func (s *service) Delete(ctx context.Context, callerEmail string, boardID string) error {
	id, err := parseBoardID(boardID)
	if err != nil {
		return err
	}
	if err := s.permission.ValidateBoardOwnership(ctx, callerEmail, id); err != nil {
		return err
	}

	// Tasks, columns and the board's edges go with the board in one
	// transaction.
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.WithContext(ctx).Exec(
			`DELETE FROM tasks WHERE column_id IN (SELECT id FROM columns WHERE board_id = ?)`, id,
		).Error; err != nil {
			return err
		}
		if err := tx.WithContext(ctx).Exec(`DELETE FROM columns WHERE board_id = ?`, id).Error; err != nil {
			return err
		}
		if err := tx.WithContext(ctx).Exec(`DELETE FROM board_members WHERE board_id = ?`, id).Error; err != nil {
			return err
		}
		if err := tx.WithContext(ctx).Exec(`DELETE FROM board_favorites WHERE board_id = ?`, id).Error; err != nil {
			return err
		}
		return s.repo.WithTx(tx).Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.log.Info("board deleted", zap.String("board_id", id.String()))
	return nil
}

func (s *service) InviteMember(ctx context.Context, callerEmail string, boardID string, memberEmail string) error {
	id, err := parseBoardID(boardID)
	if err != nil {
		return err
	}
	if err := s.permission.ValidateBoardOwnership(ctx, callerEmail, id); err != nil {
		return err
	}

	member, err := s.users.FindByEmail(ctx, memberEmail)
	if err != nil {
		return err
	}

	board, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	// Board membership never reaches outside the workspace; the invitee must
	// already belong to it.
	if err := s.permission.ValidateWorkspaceAccess(ctx, member.Email, board.WorkspaceID); err != nil {
		return err
	}

	isMember, err := s.repo.IsMember(ctx, id, member.ID)
	if err != nil {
		return err
	}
	if isMember {
		return domain.ErrMemberExists
	}

	return s.repo.AddMember(ctx, domain.BoardMember{
		ID:        s.genID.Generate(),
		BoardID:   id,
		UserID:    member.ID,
		CreatedAt: time.Now().UTC(),
	})
}

func (s *service) RemoveMember(ctx context.Context, callerEmail string, boardID string, memberEmail string) error {
	id, err := parseBoardID(boardID)
	if err != nil {
		return err
	}
	if err := s.permission.ValidateBoardOwnership(ctx, callerEmail, id); err != nil {
		return err
	}

	member, err := s.users.FindByEmail(ctx, memberEmail)
	if err != nil {
		return err
	}

	board, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if board.OwnerID == member.ID {
		return domain.ErrOwnerNotRemovable
	}

	isMember, err := s.repo.IsMember(ctx, id, member.ID)
	if err != nil {
		return err
	}
	if !isMember {
		return domain.ErrMemberNotFound
	}

	return s.repo.RemoveMember(ctx, id, member.ID)
}

func (s *service) ListMembers(ctx context.Context, callerEmail string, boardID string) ([]domain.MemberResponse, error) {
	id, err := parseBoardID(boardID)
	if err != nil {
		return nil, err
	}
	if err := s.permission.ValidateBoardAccess(ctx, callerEmail, id); err != nil {
		return nil, err
	}

	board, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.ListMembers(ctx, id)
	if err != nil {
		return nil, err
	}

	out := make([]domain.MemberResponse, 0, len(items))
	for _, item := range items {
		out = append(out, domain.MemberResponse{
			UserID:  item.UserID.String(),
			Name:    item.Name,
			Surname: item.Surname,
			Email:   item.Email,
			IsOwner: item.UserID == board.OwnerID,
		})
	}
	return out, nil
}

func (s *service) ToggleFavorite(ctx context.Context, callerEmail string, boardID string) (bool, error) {
	id, err := parseBoardID(boardID)
	if err != nil {
		return false, err
	}
	if err := s.permission.ValidateBoardAccess(ctx, callerEmail, id); err != nil {
		return false, err
	}

	caller, err := s.users.FindByEmail(ctx, callerEmail)
	if err != nil {
		return false, err
	}

	favorite, err := s.repo.IsFavorite(ctx, id, caller.ID)
	if err != nil {
		return false, err
	}
	if favorite {
		if err := s.repo.RemoveFavorite(ctx, id, caller.ID); err != nil {
			return false, err
		}
		return false, nil
	}

	err = s.repo.AddFavorite(ctx, domain.BoardFavorite{
		ID:        s.genID.Generate(),
		BoardID:   id,
		UserID:    caller.ID,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

func parseBoardID(raw string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(raw)
	if err != nil {
		return 0, domain.ErrBoardNotFound
	}
	return id, nil
}

func toBoardResponse(board *domain.Board, favorite bool) *domain.BoardResponse {
	return &domain.BoardResponse{
		ID:          board.ID.String(),
		Name:        board.Name,
		WorkspaceID: board.WorkspaceID.String(),
		OwnerID:     board.OwnerID.String(),
		Favorite:    favorite,
		CreatedAt:   board.CreatedAt,
	}
}
