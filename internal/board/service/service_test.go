package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/smallbiznis/taskway/internal/auth/domain"
	authrepository "github.com/smallbiznis/taskway/internal/auth/repository"
	"github.com/smallbiznis/taskway/internal/board/domain"
	"github.com/smallbiznis/taskway/internal/board/repository"
	columndomain "github.com/smallbiznis/taskway/internal/column/domain"
	permissiondomain "github.com/smallbiznis/taskway/internal/permission/domain"
	permissionservice "github.com/smallbiznis/taskway/internal/permission/service"
	taskdomain "github.com/smallbiznis/taskway/internal/task/domain"
	workspacedomain "github.com/smallbiznis/taskway/internal/workspace/domain"
	workspacerepository "github.com/smallbiznis/taskway/internal/workspace/repository"
	workspaceservice "github.com/smallbiznis/taskway/internal/workspace/service"
	"github.com/smallbiznis/taskway/pkg/db"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	db         *gorm.DB
	users      authdomain.Repository
	workspaces workspacedomain.Service
	svc        domain.Service
	genID      *snowflake.Node
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dbConn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, dbConn.AutoMigrate(
		&authdomain.User{},
		&workspacedomain.Workspace{}, &workspacedomain.WorkspaceMember{},
		&domain.Board{}, &domain.BoardMember{}, &domain.BoardFavorite{},
		&columndomain.Column{}, &taskdomain.Task{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	users := authrepository.New(dbConn)
	permission := permissionservice.New(dbConn, users)
	workspaces := workspaceservice.New(
		zap.NewNop(), dbConn, workspacerepository.New(dbConn), users, permission, node,
	)
	svc := New(zap.NewNop(), dbConn, repository.New(dbConn), users, permission, node)

	return &fixture{db: dbConn, users: users, workspaces: workspaces, svc: svc, genID: node}
}

func (f *fixture) createUser(t *testing.T, email string) *authdomain.User {
	t.Helper()

	now := time.Now().UTC()
	user := &authdomain.User{
		ID:           f.genID.Generate(),
		Name:         "Test",
		Email:        email,
		PasswordHash: "irrelevant",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, f.users.Create(context.Background(), user))
	return user
}

func (f *fixture) createWorkspace(t *testing.T, ownerEmail, name string) *workspacedomain.WorkspaceResponse {
	t.Helper()

	workspace, err := f.workspaces.Create(context.Background(), ownerEmail, workspacedomain.CreateRequest{Name: name})
	require.NoError(t, err)
	return workspace
}

func TestCreateBoard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.createUser(t, "owner@example.com")
	workspace := f.createWorkspace(t, owner.Email, "Acme")

	board, err := f.svc.Create(ctx, owner.Email, domain.CreateRequest{
		WorkspaceID: workspace.ID,
		Name:        "  Roadmap  ",
	})
	require.NoError(t, err)
	require.Equal(t, "Roadmap", board.Name)
	require.Equal(t, workspace.ID, board.WorkspaceID)
	require.Equal(t, owner.ID.String(), board.OwnerID)

	members, err := f.svc.ListMembers(ctx, owner.Email, board.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	require.True(t, members[0].IsOwner)
}

func TestCreateBoardForbiddenPersistsNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.createUser(t, "owner@example.com")
	outsider := f.createUser(t, "outsider@example.com")
	workspace := f.createWorkspace(t, owner.Email, "Acme")

	_, err := f.svc.Create(ctx, outsider.Email, domain.CreateRequest{
		WorkspaceID: workspace.ID,
		Name:        "Sneaky",
	})
	require.ErrorIs(t, err, permissiondomain.ErrNotWorkspaceMember)

	var count int64
	require.NoError(t, f.db.Model(&domain.Board{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestCreateBoardDuplicateName(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.createUser(t, "owner@example.com")
	workspace := f.createWorkspace(t, owner.Email, "Acme")

	_, err := f.svc.Create(ctx, owner.Email, domain.CreateRequest{WorkspaceID: workspace.ID, Name: "Roadmap"})
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, owner.Email, domain.CreateRequest{WorkspaceID: workspace.ID, Name: "roadmap"})
	require.ErrorIs(t, err, domain.ErrBoardExists)
}

func TestInviteBoardMemberRequiresWorkspaceMembership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.createUser(t, "owner@example.com")
	outsider := f.createUser(t, "outsider@example.com")
	workspace := f.createWorkspace(t, owner.Email, "Acme")

	board, err := f.svc.Create(ctx, owner.Email, domain.CreateRequest{WorkspaceID: workspace.ID, Name: "Roadmap"})
	require.NoError(t, err)

	err = f.svc.InviteMember(ctx, owner.Email, board.ID, outsider.Email)
	require.ErrorIs(t, err, permissiondomain.ErrNotWorkspaceMember)
}

func TestInviteAndRemoveBoardMember(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.createUser(t, "owner@example.com")
	member := f.createUser(t, "member@example.com")
	workspace := f.createWorkspace(t, owner.Email, "Acme")
	require.NoError(t, f.workspaces.InviteMember(ctx, owner.Email, workspace.ID, member.Email))

	board, err := f.svc.Create(ctx, owner.Email, domain.CreateRequest{WorkspaceID: workspace.ID, Name: "Roadmap"})
	require.NoError(t, err)

	// Workspace membership alone does not grant board access.
	_, err = f.svc.Get(ctx, member.Email, board.ID)
	require.ErrorIs(t, err, permissiondomain.ErrNotBoardMember)

	require.NoError(t, f.svc.InviteMember(ctx, owner.Email, board.ID, member.Email))
	_, err = f.svc.Get(ctx, member.Email, board.ID)
	require.NoError(t, err)

	err = f.svc.InviteMember(ctx, owner.Email, board.ID, member.Email)
	require.ErrorIs(t, err, domain.ErrMemberExists)

	require.NoError(t, f.svc.RemoveMember(ctx, owner.Email, board.ID, member.Email))
	_, err = f.svc.Get(ctx, member.Email, board.ID)
	require.ErrorIs(t, err, permissiondomain.ErrNotBoardMember)
}

func TestRemoveBoardOwnerConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.createUser(t, "owner@example.com")
	workspace := f.createWorkspace(t, owner.Email, "Acme")

	board, err := f.svc.Create(ctx, owner.Email, domain.CreateRequest{WorkspaceID: workspace.ID, Name: "Roadmap"})
	require.NoError(t, err)

	err = f.svc.RemoveMember(ctx, owner.Email, board.ID, owner.Email)
	require.ErrorIs(t, err, domain.ErrOwnerNotRemovable)
}

func TestRemoveBoardMemberRequiresOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.createUser(t, "owner@example.com")
	member := f.createUser(t, "member@example.com")
	other := f.createUser(t, "other@example.com")
	workspace := f.createWorkspace(t, owner.Email, "Acme")
	require.NoError(t, f.workspaces.InviteMember(ctx, owner.Email, workspace.ID, member.Email))
	require.NoError(t, f.workspaces.InviteMember(ctx, owner.Email, workspace.ID, other.Email))

	board, err := f.svc.Create(ctx, owner.Email, domain.CreateRequest{WorkspaceID: workspace.ID, Name: "Roadmap"})
	require.NoError(t, err)
	require.NoError(t, f.svc.InviteMember(ctx, owner.Email, board.ID, member.Email))
	require.NoError(t, f.svc.InviteMember(ctx, owner.Email, board.ID, other.Email))

	err = f.svc.RemoveMember(ctx, member.Email, board.ID, other.Email)
	require.ErrorIs(t, err, permissiondomain.ErrNotBoardOwner)

	// The target keeps their access.
	_, err = f.svc.Get(ctx, other.Email, board.ID)
	require.NoError(t, err)
}

func TestUpdateBoardRequiresOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.createUser(t, "owner@example.com")
	member := f.createUser(t, "member@example.com")
	workspace := f.createWorkspace(t, owner.Email, "Acme")
	require.NoError(t, f.workspaces.InviteMember(ctx, owner.Email, workspace.ID, member.Email))

	board, err := f.svc.Create(ctx, owner.Email, domain.CreateRequest{WorkspaceID: workspace.ID, Name: "Roadmap"})
	require.NoError(t, err)
	require.NoError(t, f.svc.InviteMember(ctx, owner.Email, board.ID, member.Email))

	_, err = f.svc.Update(ctx, member.Email, board.ID, domain.UpdateRequest{Name: "Renamed"})
	require.ErrorIs(t, err, permissiondomain.ErrNotBoardOwner)

	updated, err := f.svc.Update(ctx, owner.Email, board.ID, domain.UpdateRequest{Name: "Renamed"})
	require.NoError(t, err)
	require.Equal(t, "Renamed", updated.Name)
}

func TestToggleFavorite(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.createUser(t, "owner@example.com")
	workspace := f.createWorkspace(t, owner.Email, "Acme")

	board, err := f.svc.Create(ctx, owner.Email, domain.CreateRequest{WorkspaceID: workspace.ID, Name: "Roadmap"})
	require.NoError(t, err)

	favorite, err := f.svc.ToggleFavorite(ctx, owner.Email, board.ID)
	require.NoError(t, err)
	require.True(t, favorite)

	got, err := f.svc.Get(ctx, owner.Email, board.ID)
	require.NoError(t, err)
	require.True(t, got.Favorite)

	favorite, err = f.svc.ToggleFavorite(ctx, owner.Email, board.ID)
	require.NoError(t, err)
	require.False(t, favorite)
}

func TestDeleteBoardCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.createUser(t, "owner@example.com")
	workspace := f.createWorkspace(t, owner.Email, "Acme")

	board, err := f.svc.Create(ctx, owner.Email, domain.CreateRequest{WorkspaceID: workspace.ID, Name: "Roadmap"})
	require.NoError(t, err)
	boardID, err := snowflake.ParseString(board.ID)
	require.NoError(t, err)

	now := time.Now().UTC()
	column := &columndomain.Column{
		ID: f.genID.Generate(), Name: "Todo", BoardID: boardID,
		SortOrder: 1, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, f.db.Create(column).Error)
	task := &taskdomain.Task{
		ID: f.genID.Generate(), Title: "Task", ColumnID: column.ID,
		SortOrder: 1, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, f.db.Create(task).Error)

	require.NoError(t, f.svc.Delete(ctx, owner.Email, board.ID))

	for _, model := range []any{&domain.Board{}, &columndomain.Column{}, &taskdomain.Task{}} {
		var count int64
		require.NoError(t, f.db.Model(model).Count(&count).Error)
		require.Zero(t, count)
	}
}
