// Package ordering maintains the contiguous position invariant for ordered
// sibling groups (columns of a board, tasks of a column).
//
// Positions start at Base and form a dense sequence. Moves shift the block
// between the old and new position by exactly one in a single direction and
// then place the moved row, all inside the caller's transaction. Deletions do
// not repack; a gap left by a delete persists until the next move touches
// that range.
package ordering

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Base is the first position in every sibling group.
const Base = 1

var (
	ErrOrderOutOfRange = errors.New("order_out_of_range")
	ErrItemNotFound    = errors.New("ordered_item_not_found")
)

// Scope identifies one sibling group: all rows of Table whose ParentColumn
// equals ParentID.
type Scope struct {
	Table        string
	ParentColumn string
	ParentID     snowflake.ID
}

// NextOrder returns the append position for a new item in the scope:
// max(sort_order)+1, or Base for an empty group.
func NextOrder(ctx context.Context, db *gorm.DB, scope Scope) (int, error) {
	max, err := maxOrder(ctx, db, scope)
	if err != nil {
		return 0, err
	}
	if max == 0 {
		return Base, nil
	}
	return max + 1, nil
}

// Reorder moves the item from oldOrder to newOrder within one sibling group.
// It must run inside a transaction; the range shift and the final placement
// are one logical write.
func Reorder(ctx context.Context, tx *gorm.DB, scope Scope, itemID snowflake.ID, oldOrder, newOrder int) error {
	if newOrder == oldOrder {
		return nil
	}

	max, err := maxOrder(ctx, tx, scope)
	if err != nil {
		return err
	}
	if newOrder < Base || newOrder > max {
		return ErrOrderOutOfRange
	}

	if newOrder < oldOrder {
		// Make room: push [newOrder, oldOrder) down by one.
		err = tx.WithContext(ctx).Table(scope.Table).
			Where(scope.ParentColumn+" = ?", scope.ParentID).
			Where("sort_order >= ? AND sort_order < ?", newOrder, oldOrder).
			UpdateColumn("sort_order", gorm.Expr("sort_order + 1")).Error
	} else {
		// Close the gap: pull (oldOrder, newOrder] up by one.
		err = tx.WithContext(ctx).Table(scope.Table).
			Where(scope.ParentColumn+" = ?", scope.ParentID).
			Where("sort_order > ? AND sort_order <= ?", oldOrder, newOrder).
			UpdateColumn("sort_order", gorm.Expr("sort_order - 1")).Error
	}
	if err != nil {
		return err
	}

	return place(ctx, tx, scope, itemID, map[string]any{"sort_order": newOrder})
}

// Transfer moves an item between two sibling groups of the same table: the
// source range is closed, the destination range is opened, and the item is
// reassigned to the destination parent at newOrder. Must run inside a
// transaction.
func Transfer(ctx context.Context, tx *gorm.DB, src, dst Scope, itemID snowflake.ID, oldOrder, newOrder int) error {
	max, err := maxOrder(ctx, tx, dst)
	if err != nil {
		return err
	}
	// Appending right after the destination's last item is allowed.
	if newOrder < Base || newOrder > max+1 {
		return ErrOrderOutOfRange
	}

	if err := tx.WithContext(ctx).Table(src.Table).
		Where(src.ParentColumn+" = ?", src.ParentID).
		Where("sort_order > ?", oldOrder).
		UpdateColumn("sort_order", gorm.Expr("sort_order - 1")).Error; err != nil {
		return err
	}

	if err := tx.WithContext(ctx).Table(dst.Table).
		Where(dst.ParentColumn+" = ?", dst.ParentID).
		Where("sort_order >= ?", newOrder).
		UpdateColumn("sort_order", gorm.Expr("sort_order + 1")).Error; err != nil {
		return err
	}

	return place(ctx, tx, dst, itemID, map[string]any{
		dst.ParentColumn: dst.ParentID,
		"sort_order":     newOrder,
	})
}

func place(ctx context.Context, tx *gorm.DB, scope Scope, itemID snowflake.ID, fields map[string]any) error {
	result := tx.WithContext(ctx).Table(scope.Table).
		Where("id = ?", itemID).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrItemNotFound
	}
	return nil
}

func maxOrder(ctx context.Context, db *gorm.DB, scope Scope) (int, error) {
	var max int
	err := db.WithContext(ctx).Table(scope.Table).
		Where(scope.ParentColumn+" = ?", scope.ParentID).
		Select("COALESCE(MAX(sort_order), 0)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	return max, nil
}
