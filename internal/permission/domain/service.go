// Package domain defines the access-control contract that gates every
// mutation in the system. Access resolves along the containment chain
// task -> column -> board -> workspace, checking ownership or membership at
// each required level.
package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

var (
	ErrNotWorkspaceMember = errors.New("not_workspace_member")
	ErrNotBoardMember     = errors.New("not_board_member")
	ErrNotWorkspaceOwner  = errors.New("not_workspace_owner")
	ErrNotBoardOwner      = errors.New("not_board_owner")

	// Containment violations get their own errors so a cross-tenant ID mixup
	// is distinguishable from a missing resource.
	ErrBoardNotInWorkspace = errors.New("board_not_in_workspace")
	ErrColumnNotInBoard    = errors.New("column_not_in_board")
	ErrTaskNotInColumn     = errors.New("task_not_in_column")
)

// Service answers whether the user identified by email may act on a
// resource. Access checks walk the ownership chain upward; ownership checks
// require the exact owner, membership is not enough.
type Service interface {
	ValidateWorkspaceAccess(ctx context.Context, email string, workspaceID snowflake.ID) error
	ValidateBoardAccess(ctx context.Context, email string, boardID snowflake.ID) error
	ValidateColumnAccess(ctx context.Context, email string, columnID snowflake.ID) error
	ValidateTaskAccess(ctx context.Context, email string, taskID snowflake.ID) error

	ValidateWorkspaceOwnership(ctx context.Context, email string, workspaceID snowflake.ID) error
	ValidateBoardOwnership(ctx context.Context, email string, boardID snowflake.ID) error

	ValidateBoardBelongsToWorkspace(ctx context.Context, boardID, workspaceID snowflake.ID) error
	ValidateColumnBelongsToBoard(ctx context.Context, columnID, boardID snowflake.ID) error
	ValidateTaskBelongsToColumn(ctx context.Context, taskID, columnID snowflake.ID) error
}
