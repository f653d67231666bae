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
	"github.com/smallbiznis/taskway/internal/permission/domain"
	taskdomain "github.com/smallbiznis/taskway/internal/task/domain"
	workspacedomain "github.com/smallbiznis/taskway/internal/workspace/domain"
	"github.com/smallbiznis/taskway/pkg/db"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db    *gorm.DB
	svc   domain.Service
	genID *snowflake.Node

	owner    *authdomain.User
	member   *authdomain.User
	outsider *authdomain.User

	workspace *workspacedomain.Workspace
	board     *boarddomain.Board
	column    *columndomain.Column
	task      *taskdomain.Task
}

// newFixture seeds a full containment chain: a workspace owned by owner with
// member on its member list, one board (owner only), one column, one task.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	dbConn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, dbConn.AutoMigrate(
		&authdomain.User{},
		&workspacedomain.Workspace{}, &workspacedomain.WorkspaceMember{},
		&boarddomain.Board{}, &boarddomain.BoardMember{}, &boarddomain.BoardFavorite{},
		&columndomain.Column{}, &taskdomain.Task{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	users := authrepository.New(dbConn)
	f := &fixture{db: dbConn, svc: New(dbConn, users), genID: node}

	now := time.Now().UTC()
	newUser := func(email string) *authdomain.User {
		user := &authdomain.User{
			ID:           node.Generate(),
			Name:         "Test",
			Email:        email,
			PasswordHash: "irrelevant",
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		require.NoError(t, dbConn.Create(user).Error)
		return user
	}
	f.owner = newUser("owner@example.com")
	f.member = newUser("member@example.com")
	f.outsider = newUser("outsider@example.com")

	f.workspace = &workspacedomain.Workspace{
		ID: node.Generate(), Name: "Acme", Slug: "acme",
		OwnerID: f.owner.ID, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, dbConn.Create(f.workspace).Error)
	for _, user := range []*authdomain.User{f.owner, f.member} {
		require.NoError(t, dbConn.Create(&workspacedomain.WorkspaceMember{
			ID: node.Generate(), WorkspaceID: f.workspace.ID, UserID: user.ID, CreatedAt: now,
		}).Error)
	}

	f.board = &boarddomain.Board{
		ID: node.Generate(), Name: "Roadmap", WorkspaceID: f.workspace.ID,
		OwnerID: f.owner.ID, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, dbConn.Create(f.board).Error)
	require.NoError(t, dbConn.Create(&boarddomain.BoardMember{
		ID: node.Generate(), BoardID: f.board.ID, UserID: f.owner.ID, CreatedAt: now,
	}).Error)

	f.column = &columndomain.Column{
		ID: node.Generate(), Name: "Todo", BoardID: f.board.ID,
		SortOrder: 1, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, dbConn.Create(f.column).Error)

	f.task = &taskdomain.Task{
		ID: node.Generate(), Title: "Task", ColumnID: f.column.ID,
		SortOrder: 1, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, dbConn.Create(f.task).Error)

	return f
}

func TestWorkspaceAccess(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.ValidateWorkspaceAccess(ctx, f.owner.Email, f.workspace.ID))
	require.NoError(t, f.svc.ValidateWorkspaceAccess(ctx, f.member.Email, f.workspace.ID))

	err := f.svc.ValidateWorkspaceAccess(ctx, f.outsider.Email, f.workspace.ID)
	require.ErrorIs(t, err, domain.ErrNotWorkspaceMember)
}

func TestWorkspaceAccessUnknownWorkspace(t *testing.T) {
	f := newFixture(t)

	err := f.svc.ValidateWorkspaceAccess(context.Background(), f.owner.Email, f.genID.Generate())
	require.ErrorIs(t, err, workspacedomain.ErrWorkspaceNotFound)
}

func TestBoardAccessRequiresBoardMembership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.ValidateBoardAccess(ctx, f.owner.Email, f.board.ID))

	// Workspace membership alone is not enough.
	err := f.svc.ValidateBoardAccess(ctx, f.member.Email, f.board.ID)
	require.ErrorIs(t, err, domain.ErrNotBoardMember)

	// Outsiders fail at the workspace level first.
	err = f.svc.ValidateBoardAccess(ctx, f.outsider.Email, f.board.ID)
	require.ErrorIs(t, err, domain.ErrNotWorkspaceMember)
}

func TestAccessWalksTheChain(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.ValidateColumnAccess(ctx, f.owner.Email, f.column.ID))
	require.NoError(t, f.svc.ValidateTaskAccess(ctx, f.owner.Email, f.task.ID))

	err := f.svc.ValidateTaskAccess(ctx, f.outsider.Email, f.task.ID)
	require.ErrorIs(t, err, domain.ErrNotWorkspaceMember)
}

func TestOwnershipChecks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.ValidateWorkspaceOwnership(ctx, f.owner.Email, f.workspace.ID))
	require.NoError(t, f.svc.ValidateBoardOwnership(ctx, f.owner.Email, f.board.ID))

	err := f.svc.ValidateWorkspaceOwnership(ctx, f.member.Email, f.workspace.ID)
	require.ErrorIs(t, err, domain.ErrNotWorkspaceOwner)

	err = f.svc.ValidateBoardOwnership(ctx, f.member.Email, f.board.ID)
	require.ErrorIs(t, err, domain.ErrNotBoardOwner)
}

func TestContainmentChecks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, f.svc.ValidateBoardBelongsToWorkspace(ctx, f.board.ID, f.workspace.ID))
	require.NoError(t, f.svc.ValidateColumnBelongsToBoard(ctx, f.column.ID, f.board.ID))
	require.NoError(t, f.svc.ValidateTaskBelongsToColumn(ctx, f.task.ID, f.column.ID))

	otherWorkspace := &workspacedomain.Workspace{
		ID: f.genID.Generate(), Name: "Other", Slug: "other",
		OwnerID: f.owner.ID, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, f.db.Create(otherWorkspace).Error)

	err := f.svc.ValidateBoardBelongsToWorkspace(ctx, f.board.ID, otherWorkspace.ID)
	require.ErrorIs(t, err, domain.ErrBoardNotInWorkspace)

	otherColumn := &columndomain.Column{
		ID: f.genID.Generate(), Name: "Other", BoardID: f.genID.Generate(),
		SortOrder: 1, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, f.db.Create(otherColumn).Error)

	err = f.svc.ValidateColumnBelongsToBoard(ctx, otherColumn.ID, f.board.ID)
	require.ErrorIs(t, err, domain.ErrColumnNotInBoard)

	err = f.svc.ValidateTaskBelongsToColumn(ctx, f.task.ID, otherColumn.ID)
	require.ErrorIs(t, err, domain.ErrTaskNotInColumn)
}
