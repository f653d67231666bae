package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/smallbiznis/taskway/internal/auth/domain"
	authrepository "github.com/smallbiznis/taskway/internal/auth/repository"
	boarddomain "github.com/smallbiznis/taskway/internal/board/domain"
	columndomain "github.com/smallbiznis/taskway/internal/column/domain"
	permissiondomain "github.com/smallbiznis/taskway/internal/permission/domain"
	permissionservice "github.com/smallbiznis/taskway/internal/permission/service"
	taskdomain "github.com/smallbiznis/taskway/internal/task/domain"
	"github.com/smallbiznis/taskway/internal/workspace/domain"
	"github.com/smallbiznis/taskway/internal/workspace/repository"
	"github.com/smallbiznis/taskway/pkg/db"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	db    *gorm.DB
	users authdomain.Repository
	svc   domain.Service
	genID *snowflake.Node
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dbConn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, dbConn.AutoMigrate(
		&authdomain.User{},
		&domain.Workspace{}, &domain.WorkspaceMember{},
		&boarddomain.Board{}, &boarddomain.BoardMember{}, &boarddomain.BoardFavorite{},
		&columndomain.Column{}, &taskdomain.Task{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	users := authrepository.New(dbConn)
	permission := permissionservice.New(dbConn, users)
	svc := New(zap.NewNop(), dbConn, repository.New(dbConn), users, permission, node)

	return &fixture{db: dbConn, users: users, svc: svc, genID: node}
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

func TestCreateWorkspaceOwnerIsMember(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.createUser(t, "owner@example.com")

	workspace, err := f.svc.Create(ctx, owner.Email, domain.CreateRequest{Name: "  Acme Inc  "})
	require.NoError(t, err)
	require.Equal(t, "Acme Inc", workspace.Name)
	require.Equal(t, "acme-inc", workspace.Slug)
	require.Equal(t, owner.ID.String(), workspace.OwnerID)

	members, err := f.svc.ListMembers(ctx, owner.Email, workspace.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	require.True(t, members[0].IsOwner)
	require.Equal(t, owner.Email, members[0].Email)
}

func TestCreateWorkspaceDuplicateName(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.createUser(t, "owner@example.com")

	_, err := f.svc.Create(ctx, owner.Email, domain.CreateRequest{Name: "Acme"})
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, owner.Email, domain.CreateRequest{Name: "acme"})
	require.ErrorIs(t, err, domain.ErrWorkspaceExists)
}

func TestCreateWorkspaceBlankName(t *testing.T) {
	f := newFixture(t)
	owner := f.createUser(t, "owner@example.com")

	_, err := f.svc.Create(context.Background(), owner.Email, domain.CreateRequest{Name: "   "})
	require.ErrorIs(t, err, domain.ErrInvalidName)
}

func TestGetWorkspaceRequiresMembership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.createUser(t, "owner@example.com")
	outsider := f.createUser(t, "outsider@example.com")

	workspace, err := f.svc.Create(ctx, owner.Email, domain.CreateRequest{Name: "Acme"})
	require.NoError(t, err)

	_, err = f.svc.Get(ctx, outsider.Email, workspace.ID)
	require.ErrorIs(t, err, permissiondomain.ErrNotWorkspaceMember)
}

func TestListReturnsOnlyMemberWorkspaces(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.createUser(t, "owner@example.com")
	member := f.createUser(t, "member@example.com")

	mine, err := f.svc.Create(ctx, owner.Email, domain.CreateRequest{Name: "Mine"})
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, member.Email, domain.CreateRequest{Name: "Theirs"})
	require.NoError(t, err)

	require.NoError(t, f.svc.InviteMember(ctx, owner.Email, mine.ID, member.Email))

	workspaces, err := f.svc.List(ctx, member.Email)
	require.NoError(t, err)
	require.Len(t, workspaces, 2)

	workspaces, err = f.svc.List(ctx, owner.Email)
	require.NoError(t, err)
	require.Len(t, workspaces, 1)
}

func TestInviteMember(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.createUser(t, "owner@example.com")
	member := f.createUser(t, "member@example.com")

	workspace, err := f.svc.Create(ctx, owner.Email, domain.CreateRequest{Name: "Acme"})
	require.NoError(t, err)

	require.NoError(t, f.svc.InviteMember(ctx, owner.Email, workspace.ID, member.Email))

	// Members gain read access.
	_, err = f.svc.Get(ctx, member.Email, workspace.ID)
	require.NoError(t, err)

	// Inviting again conflicts.
	err = f.svc.InviteMember(ctx, owner.Email, workspace.ID, member.Email)
	require.ErrorIs(t, err, domain.ErrMemberExists)
}

func TestInviteRequiresOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.createUser(t, "owner@example.com")
	member := f.createUser(t, "member@example.com")
	other := f.createUser(t, "other@example.com")

	workspace, err := f.svc.Create(ctx, owner.Email, domain.CreateRequest{Name: "Acme"})
	require.NoError(t, err)
	require.NoError(t, f.svc.InviteMember(ctx, owner.Email, workspace.ID, member.Email))

	err = f.svc.InviteMember(ctx, member.Email, workspace.ID, other.Email)
	require.ErrorIs(t, err, permissiondomain.ErrNotWorkspaceOwner)
}

func TestRemoveMemberOwnerIsNotRemovable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.createUser(t, "owner@example.com")

	workspace, err := f.svc.Create(ctx, owner.Email, domain.CreateRequest{Name: "Acme"})
	require.NoError(t, err)

	err = f.svc.RemoveMember(ctx, owner.Email, workspace.ID, owner.Email)
	require.ErrorIs(t, err, domain.ErrOwnerNotRemovable)
}

func TestRemoveMember(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.createUser(t, "owner@example.com")
	member := f.createUser(t, "member@example.com")

	workspace, err := f.svc.Create(ctx, owner.Email, domain.CreateRequest{Name: "Acme"})
	require.NoError(t, err)

	err = f.svc.RemoveMember(ctx, owner.Email, workspace.ID, member.Email)
	require.ErrorIs(t, err, domain.ErrMemberNotFound)

	require.NoError(t, f.svc.InviteMember(ctx, owner.Email, workspace.ID, member.Email))
	require.NoError(t, f.svc.RemoveMember(ctx, owner.Email, workspace.ID, member.Email))

	// Access is gone with the membership.
	_, err = f.svc.Get(ctx, member.Email, workspace.ID)
	require.ErrorIs(t, err, permissiondomain.ErrNotWorkspaceMember)
}

func TestRemoveMemberRequiresOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.createUser(t, "owner@example.com")
	member := f.createUser(t, "member@example.com")
	other := f.createUser(t, "other@example.com")

	workspace, err := f.svc.Create(ctx, owner.Email, domain.CreateRequest{Name: "Acme"})
	require.NoError(t, err)
	require.NoError(t, f.svc.InviteMember(ctx, owner.Email, workspace.ID, member.Email))
	require.NoError(t, f.svc.InviteMember(ctx, owner.Email, workspace.ID, other.Email))

	err = f.svc.RemoveMember(ctx, member.Email, workspace.ID, other.Email)
	require.ErrorIs(t, err, permissiondomain.ErrNotWorkspaceOwner)

	// The target keeps their membership.
	members, err := f.svc.ListMembers(ctx, owner.Email, workspace.ID)
	require.NoError(t, err)
	require.Len(t, members, 3)
}

func TestRemoveMemberDropsBoardEdges(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.createUser(t, "owner@example.com")
	member := f.createUser(t, "member@example.com")

	workspace, err := f.svc.Create(ctx, owner.Email, domain.CreateRequest{Name: "Acme"})
	require.NoError(t, err)
	require.NoError(t, f.svc.InviteMember(ctx, owner.Email, workspace.ID, member.Email))
	workspaceID, err := snowflake.ParseString(workspace.ID)
	require.NoError(t, err)

	now := time.Now().UTC()
	board := &boarddomain.Board{
		ID: f.genID.Generate(), Name: "Board", WorkspaceID: workspaceID,
		OwnerID: owner.ID, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, f.db.Create(board).Error)
	require.NoError(t, f.db.Create(&boarddomain.BoardMember{
		ID: f.genID.Generate(), BoardID: board.ID, UserID: member.ID, CreatedAt: now,
	}).Error)
	require.NoError(t, f.db.Create(&boarddomain.BoardFavorite{
		ID: f.genID.Generate(), BoardID: board.ID, UserID: member.ID, CreatedAt: now,
	}).Error)

	require.NoError(t, f.svc.RemoveMember(ctx, owner.Email, workspace.ID, member.Email))

	// Leaving the workspace takes the user's board edges with it.
	var memberCount, favoriteCount int64
	require.NoError(t, f.db.Model(&boarddomain.BoardMember{}).
		Where("user_id = ?", member.ID).Count(&memberCount).Error)
	require.Zero(t, memberCount)
	require.NoError(t, f.db.Model(&boarddomain.BoardFavorite{}).
		Where("user_id = ?", member.ID).Count(&favoriteCount).Error)
	require.Zero(t, favoriteCount)
}

func TestUpdateRequiresOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.createUser(t, "owner@example.com")
	member := f.createUser(t, "member@example.com")

	workspace, err := f.svc.Create(ctx, owner.Email, domain.CreateRequest{Name: "Acme"})
	require.NoError(t, err)
	require.NoError(t, f.svc.InviteMember(ctx, owner.Email, workspace.ID, member.Email))

	_, err = f.svc.Update(ctx, member.Email, workspace.ID, domain.UpdateRequest{Name: "Renamed"})
	require.ErrorIs(t, err, permissiondomain.ErrNotWorkspaceOwner)

	updated, err := f.svc.Update(ctx, owner.Email, workspace.ID, domain.UpdateRequest{Name: "Renamed"})
	require.NoError(t, err)
	require.Equal(t, "Renamed", updated.Name)
	require.Equal(t, "renamed", updated.Slug)
}

func TestDeleteCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.createUser(t, "owner@example.com")

	workspace, err := f.svc.Create(ctx, owner.Email, domain.CreateRequest{Name: "Acme"})
	require.NoError(t, err)
	workspaceID, err := snowflake.ParseString(workspace.ID)
	require.NoError(t, err)

	now := time.Now().UTC()
	board := &boarddomain.Board{
		ID: f.genID.Generate(), Name: "Board", WorkspaceID: workspaceID,
		OwnerID: owner.ID, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, f.db.Create(board).Error)
	column := &columndomain.Column{
		ID: f.genID.Generate(), Name: "Todo", BoardID: board.ID,
		SortOrder: 1, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, f.db.Create(column).Error)
	task := &taskdomain.Task{
		ID: f.genID.Generate(), Title: "Task", ColumnID: column.ID,
		SortOrder: 1, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, f.db.Create(task).Error)

	require.NoError(t, f.svc.Delete(ctx, owner.Email, workspace.ID))

	for _, model := range []any{
		&domain.Workspace{}, &domain.WorkspaceMember{},
		&boarddomain.Board{}, &columndomain.Column{}, &taskdomain.Task{},
	} {
		var count int64
		require.NoError(t, f.db.Model(model).Count(&count).Error)
		require.Zero(t, count)
	}
}
