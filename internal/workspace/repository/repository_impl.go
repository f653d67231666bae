package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/taskway/internal/workspace/domain"
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

func (r *repository) Create(ctx context.Context, workspace *domain.Workspace) error {
	return r.db.WithContext(ctx).Create(workspace).Error
}

func (r *repository) FindByID(ctx context.Context, id snowflake.ID) (*domain.Workspace, error) {
	var workspace domain.Workspace
	err := r.db.WithContext(ctx).First(&workspace, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrWorkspaceNotFound
		}
		return nil, err
	}
	return &workspace, nil
}

func (r *repository) FindByOwnerAndName(ctx context.Context, ownerID snowflake.ID, name string) (*domain.Workspace, error) {
	var workspace domain.Workspace
	err := r.db.WithContext(ctx).
		First(&workspace, "owner_id = ? AND LOWER(name) = LOWER(?)", ownerID, name).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &workspace, nil
}

func (r *repository) ListByUser(ctx context.Context, userID snowflake.ID) ([]domain.Workspace, error) {
	var workspaces []domain.Workspace
	err := r.db.WithContext(ctx).
		Joins("JOIN workspace_members ON workspace_members.workspace_id = workspaces.id").
		Where("workspace_members.user_id = ?", userID).
		Order("workspaces.created_at ASC").
		Find(&workspaces).Error
	if err != nil {
		return nil, err
	}
	return workspaces, nil
}

func (r *repository) Update(ctx context.Context, workspace *domain.Workspace) error {
	return r.db.WithContext(ctx).Model(&domain.Workspace{}).
		Where("id = ?", workspace.ID).
		Updates(map[string]any{
			"name":       workspace.Name,
			"slug":       workspace.Slug,
			"updated_at": workspace.UpdatedAt,
		}).Error
}

func (r *repository) Delete(ctx context.Context, id snowflake.ID) error {
	return r.db.WithContext(ctx).Delete(&domain.Workspace{}, "id = ?", id).Error
}

func (r *repository) AddMember(ctx context.Context, member domain.WorkspaceMember) error {
	if err := r.db.WithContext(ctx).Create(&member).Error; err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.ErrMemberExists
		}
		return err
	}
	return nil
}

func (r *repository) RemoveMember(ctx context.Context, workspaceID, userID snowflake.ID) error {
	return r.db.WithContext(ctx).
		Delete(&domain.WorkspaceMember{}, "workspace_id = ? AND user_id = ?", workspaceID, userID).Error
}

func (r *repository) IsMember(ctx context.Context, workspaceID, userID snowflake.ID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.WorkspaceMember{}).
		Where("workspace_id = ? AND user_id = ?", workspaceID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) ListMembers(ctx context.Context, workspaceID snowflake.ID) ([]domain.MemberListItem, error) {
	var items []domain.MemberListItem
	err := r.db.WithContext(ctx).Raw(
		`SELECT users.id AS user_id, users.name, users.surname, users.email
		 FROM workspace_members
		 JOIN users ON users.id = workspace_members.user_id
		 WHERE workspace_members.workspace_id = ?
		 ORDER BY workspace_members.created_at ASC`,
		workspaceID,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
