package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	authdomain "github.com/smallbiznis/taskway/internal/auth/domain"
	permissiondomain "github.com/smallbiznis/taskway/internal/permission/domain"
	"github.com/smallbiznis/taskway/internal/workspace/domain"
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
		log:        log.Named("workspace.service"),
		db:         db,
		repo:       repo,
		users:      users,
		permission: permission,
		genID:      genID,
	}
}

func (s *service) Create(ctx context.Context, callerEmail string, req domain.CreateRequest) (*domain.WorkspaceResponse, error) {
	caller, err := s.users.FindByEmail(ctx, callerEmail)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	existing, err := s.repo.FindByOwnerAndName(ctx, caller.ID, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrWorkspaceExists
	}

	now := time.Now().UTC()
	workspace := &domain.Workspace{
		ID:        s.genID.Generate(),
		Name:      name,
		Slug:      slug.Make(name),
		OwnerID:   caller.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	// The owner joins the member list at creation so membership queries never
	// need an ownership special case.
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Create(ctx, workspace); err != nil {
			return err
		}
		return repo.AddMember(ctx, domain.WorkspaceMember{
			ID:          s.genID.Generate(),
			WorkspaceID: workspace.ID,
			UserID:      caller.ID,
			CreatedAt:   now,
		})
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("workspace created",
		zap.String("workspace_id", workspace.ID.String()),
		zap.String("owner_id", caller.ID.String()),
	)

	return toWorkspaceResponse(workspace), nil
}

func (s *service) List(ctx context.Context, callerEmail string) ([]domain.WorkspaceResponse, error) {
	caller, err := s.users.FindByEmail(ctx, callerEmail)
	if err != nil {
		return nil, err
	}

	workspaces, err := s.repo.ListByUser(ctx, caller.ID)
	if err != nil {
		return nil, err
	}

	out := make([]domain.WorkspaceResponse, 0, len(workspaces))
	for i := range workspaces {
		out = append(out, *toWorkspaceResponse(&workspaces[i]))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, callerEmail string, workspaceID string) (*domain.WorkspaceResponse, error) {
	id, err := parseWorkspaceID(workspaceID)
	if err != nil {
		return nil, err
	}
	if err := s.permission.ValidateWorkspaceAccess(ctx, callerEmail, id); err != nil {
		return nil, err
	}

	workspace, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toWorkspaceResponse(workspace), nil
}

func (s *service) Update(ctx context.Context, callerEmail string, workspaceID string, req domain.UpdateRequest) (*domain.WorkspaceResponse, error) {
	id, err := parseWorkspaceID(workspaceID)
	if err != nil {
		return nil, err
	}
	if err := s.permission.ValidateWorkspaceOwnership(ctx, callerEmail, id); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	workspace, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByOwnerAndName(ctx, workspace.OwnerID, name)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.ID != workspace.ID {
		return nil, domain.ErrWorkspaceExists
	}

	workspace.Name = name
	workspace.Slug = slug.Make(name)
	workspace.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, workspace); err != nil {
		return nil, err
	}
	return toWorkspaceResponse(workspace), nil
}

func (s *service) Delete(ctx context.Context, callerEmail string, workspaceID string) error {
	id, err := parseWorkspaceID(workspaceID)
	if err != nil {
		return err
	}
	if err := s.permission.ValidateWorkspaceOwnership(ctx, callerEmail, id); err != nil {
		return err
	}

	// Everything beneath the workspace goes in one transaction: tasks,
	// columns, boards with their edges, then the workspace itself.
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.WithContext(ctx).Exec(
			`DELETE FROM tasks WHERE column_id IN (SELECT id FROM columns WHERE board_id IN (SELECT id FROM boards WHERE workspace_id = ?))`, id,
		).Error; err != nil {
			return err
		}
		if err := tx.WithContext(ctx).Exec(
			`DELETE FROM columns WHERE board_id IN (SELECT id FROM boards WHERE workspace_id = ?)`, id,
		).Error; err != nil {
			return err
		}
		if err := tx.WithContext(ctx).Exec(
			`DELETE FROM board_members WHERE board_id IN (SELECT id FROM boards WHERE workspace_id = ?)`, id,
		).Error; err != nil {
			return err
		}
		if err := tx.WithContext(ctx).Exec(
			`DELETE FROM board_favorites WHERE board_id IN (SELECT id FROM boards WHERE workspace_id = ?)`, id,
		).Error; err != nil {
			return err
		}
		if err := tx.WithContext(ctx).Exec(`DELETE FROM boards WHERE workspace_id = ?`, id).Error; err != nil {
			return err
		}
		if err := tx.WithContext(ctx).Exec(`DELETE FROM workspace_members WHERE workspace_id = ?`, id).Error; err != nil {
			return err
		}
		return s.repo.WithTx(tx).Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.log.Info("workspace deleted", zap.String("workspace_id", id.String()))
	return nil
}

func (s *service) InviteMember(ctx context.Context, callerEmail string, workspaceID string, memberEmail string) error {
	id, err := parseWorkspaceID(workspaceID)
	if err != nil {
		return err
	}
	if err := s.permission.ValidateWorkspaceOwnership(ctx, callerEmail, id); err != nil {
		return err
	}

	member, err := s.users.FindByEmail(ctx, memberEmail)
	if err != nil {
		return err
	}

	isMember, err := s.repo.IsMember(ctx, id, member.ID)
	if err != nil {
		return err
	}
	if isMember {
		return domain.ErrMemberExists
	}

	return s.repo.AddMember(ctx, domain.WorkspaceMember{
		ID:          s.genID.Generate(),
		WorkspaceID: id,
		UserID:      member.ID,
		CreatedAt:   time.Now().UTC(),
	})
}

func (s *service) RemoveMember(ctx context.Context, callerEmail string, workspaceID string, memberEmail string) error {
	id, err := parseWorkspaceID(workspaceID)
	if err != nil {
		return err
	}
	if err := s.permission.ValidateWorkspaceOwnership(ctx, callerEmail, id); err != nil {
		return err
	}

	member, err := s.users.FindByEmail(ctx, memberEmail)
	if err != nil {
		return err
	}

	workspace, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if workspace.OwnerID == member.ID {
		return domain.ErrOwnerNotRemovable
	}

	isMember, err := s.repo.IsMember(ctx, id, member.ID)
	if err != nil {
		return err
	}
	if !isMember {
		return domain.ErrMemberNotFound
	}

	// Board membership and favorites must not outlive workspace membership;
	// the user's edges on this workspace's boards go in the same transaction.
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.WithContext(ctx).Exec(
			`DELETE FROM board_members WHERE user_id = ? AND board_id IN (SELECT id FROM boards WHERE workspace_id = ?)`, member.ID, id,
		).Error; err != nil {
			return err
		}
		if err := tx.WithContext(ctx).Exec(
			`DELETE FROM board_favorites WHERE user_id = ? AND board_id IN (SELECT id FROM boards WHERE workspace_id = ?)`, member.ID, id,
		).Error; err != nil {
			return err
		}
		return s.repo.WithTx(tx).RemoveMember(ctx, id, member.ID)
	})
}

func (s *service) ListMembers(ctx context.Context, callerEmail string, workspaceID string) ([]domain.MemberResponse, error) {
	id, err := parseWorkspaceID(workspaceID)
	if err != nil {
		return nil, err
	}
	if err := s.permission.ValidateWorkspaceAccess(ctx, callerEmail, id); err != nil {
		return nil, err
	}

	workspace, err := s.repo.FindByID(ctx, id)
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
			IsOwner: item.UserID == workspace.OwnerID,
		})
	}
	return out, nil
}

func parseWorkspaceID(raw string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(raw)
	if err != nil {
		return 0, domain.ErrWorkspaceNotFound
	}
	return id, nil
}

func toWorkspaceResponse(workspace *domain.Workspace) *domain.WorkspaceResponse {
	return &domain.WorkspaceResponse{
		ID:        workspace.ID.String(),
		Name:      workspace.Name,
		Slug:      workspace.Slug,
		OwnerID:   workspace.OwnerID.String(),
		CreatedAt: workspace.CreatedAt,
	}
}
