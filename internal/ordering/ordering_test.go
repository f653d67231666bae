package ordering

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	taskdomain "github.com/smallbiznis/taskway/internal/task/domain"
	"github.com/smallbiznis/taskway/pkg/db"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db    *gorm.DB
	genID *snowflake.Node
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dbConn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, dbConn.AutoMigrate(&taskdomain.Task{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return &fixture{db: dbConn, genID: node}
}

// seed creates count tasks in the column at positions 1..count and returns
// their IDs indexed by position-1.
func (f *fixture) seed(t *testing.T, columnID snowflake.ID, count int) []snowflake.ID {
	t.Helper()

	ids := make([]snowflake.ID, 0, count)
	for i := 1; i <= count; i++ {
		task := &taskdomain.Task{
			ID:        f.genID.Generate(),
			Title:     "task",
			ColumnID:  columnID,
			SortOrder: i,
			CreatedAt: time.Now().UTC(),
			UpdatedAt: time.Now().UTC(),
		}
		require.NoError(t, f.db.Create(task).Error)
		ids = append(ids, task.ID)
	}
	return ids
}

// orders returns sort_order by task ID for one column.
func (f *fixture) orders(t *testing.T, columnID snowflake.ID) map[snowflake.ID]int {
	t.Helper()

	var tasks []taskdomain.Task
	require.NoError(t, f.db.Where("column_id = ?", columnID).Find(&tasks).Error)

	out := make(map[snowflake.ID]int, len(tasks))
	for _, task := range tasks {
		out[task.ID] = task.SortOrder
	}
	return out
}

func scope(columnID snowflake.ID) Scope {
	return Scope{Table: "tasks", ParentColumn: "column_id", ParentID: columnID}
}

func TestNextOrderEmptyGroupStartsAtBase(t *testing.T) {
	f := newFixture(t)
	columnID := f.genID.Generate()

	next, err := NextOrder(context.Background(), f.db, scope(columnID))
	require.NoError(t, err)
	require.Equal(t, Base, next)
}

func TestNextOrderAppends(t *testing.T) {
	f := newFixture(t)
	columnID := f.genID.Generate()
	f.seed(t, columnID, 3)

	next, err := NextOrder(context.Background(), f.db, scope(columnID))
	require.NoError(t, err)
	require.Equal(t, 4, next)
}

func TestReorderMoveUp(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	columnID := f.genID.Generate()
	ids := f.seed(t, columnID, 5)

	// Position 4 moves to position 2; 2 and 3 slide down.
	err := f.db.Transaction(func(tx *gorm.DB) error {
		return Reorder(ctx, tx, scope(columnID), ids[3], 4, 2)
	})
	require.NoError(t, err)

	orders := f.orders(t, columnID)
	require.Equal(t, 1, orders[ids[0]])
	require.Equal(t, 3, orders[ids[1]])
	require.Equal(t, 4, orders[ids[2]])
	require.Equal(t, 2, orders[ids[3]])
	require.Equal(t, 5, orders[ids[4]])
}

func TestReorderMoveDown(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	columnID := f.genID.Generate()
	ids := f.seed(t, columnID, 5)

	// Position 2 moves to position 4; 3 and 4 slide up.
	err := f.db.Transaction(func(tx *gorm.DB) error {
		return Reorder(ctx, tx, scope(columnID), ids[1], 2, 4)
	})
	require.NoError(t, err)

	orders := f.orders(t, columnID)
	require.Equal(t, 1, orders[ids[0]])
	require.Equal(t, 4, orders[ids[1]])
	require.Equal(t, 2, orders[ids[2]])
	require.Equal(t, 3, orders[ids[3]])
	require.Equal(t, 5, orders[ids[4]])
}

func TestReorderSamePositionIsNoOp(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	columnID := f.genID.Generate()
	ids := f.seed(t, columnID, 3)

	err := f.db.Transaction(func(tx *gorm.DB) error {
		return Reorder(ctx, tx, scope(columnID), ids[1], 2, 2)
	})
	require.NoError(t, err)

	orders := f.orders(t, columnID)
	require.Equal(t, 1, orders[ids[0]])
	require.Equal(t, 2, orders[ids[1]])
	require.Equal(t, 3, orders[ids[2]])
}

func TestReorderRejectsOutOfRange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	columnID := f.genID.Generate()
	ids := f.seed(t, columnID, 3)

	for _, target := range []int{0, -1, 4, 100} {
		err := f.db.Transaction(func(tx *gorm.DB) error {
			return Reorder(ctx, tx, scope(columnID), ids[0], 1, target)
		})
		require.ErrorIs(t, err, ErrOrderOutOfRange)
	}

	// Nothing moved.
	orders := f.orders(t, columnID)
	require.Equal(t, 1, orders[ids[0]])
	require.Equal(t, 2, orders[ids[1]])
	require.Equal(t, 3, orders[ids[2]])
}

func TestReorderUntouchedSiblingsKeepOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	columnID := f.genID.Generate()
	ids := f.seed(t, columnID, 6)

	// Moving 5 to 2 must not touch 1 or 6.
	err := f.db.Transaction(func(tx *gorm.DB) error {
		return Reorder(ctx, tx, scope(columnID), ids[4], 5, 2)
	})
	require.NoError(t, err)

	orders := f.orders(t, columnID)
	require.Equal(t, 1, orders[ids[0]])
	require.Equal(t, 6, orders[ids[5]])
}

func TestTransferBetweenGroups(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	srcColumn := f.genID.Generate()
	dstColumn := f.genID.Generate()
	srcIDs := f.seed(t, srcColumn, 3)
	dstIDs := f.seed(t, dstColumn, 2)

	// Source position 2 lands at destination position 1.
	err := f.db.Transaction(func(tx *gorm.DB) error {
		return Transfer(ctx, tx, scope(srcColumn), scope(dstColumn), srcIDs[1], 2, 1)
	})
	require.NoError(t, err)

	srcOrders := f.orders(t, srcColumn)
	require.Len(t, srcOrders, 2)
	require.Equal(t, 1, srcOrders[srcIDs[0]])
	require.Equal(t, 2, srcOrders[srcIDs[2]])

	dstOrders := f.orders(t, dstColumn)
	require.Len(t, dstOrders, 3)
	require.Equal(t, 1, dstOrders[srcIDs[1]])
	require.Equal(t, 2, dstOrders[dstIDs[0]])
	require.Equal(t, 3, dstOrders[dstIDs[1]])
}

func TestTransferAppendsPastDestinationEnd(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	srcColumn := f.genID.Generate()
	dstColumn := f.genID.Generate()
	srcIDs := f.seed(t, srcColumn, 1)
	f.seed(t, dstColumn, 2)

	err := f.db.Transaction(func(tx *gorm.DB) error {
		return Transfer(ctx, tx, scope(srcColumn), scope(dstColumn), srcIDs[0], 1, 3)
	})
	require.NoError(t, err)

	dstOrders := f.orders(t, dstColumn)
	require.Equal(t, 3, dstOrders[srcIDs[0]])
}

func TestTransferRejectsOutOfRange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	srcColumn := f.genID.Generate()
	dstColumn := f.genID.Generate()
	srcIDs := f.seed(t, srcColumn, 1)
	f.seed(t, dstColumn, 2)

	err := f.db.Transaction(func(tx *gorm.DB) error {
		return Transfer(ctx, tx, scope(srcColumn), scope(dstColumn), srcIDs[0], 1, 4)
	})
	require.ErrorIs(t, err, ErrOrderOutOfRange)
}

func TestReorderUnknownItem(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	columnID := f.genID.Generate()
	f.seed(t, columnID, 3)

	err := f.db.Transaction(func(tx *gorm.DB) error {
		return Reorder(ctx, tx, scope(columnID), f.genID.Generate(), 3, 1)
	})
	require.ErrorIs(t, err, ErrItemNotFound)
}
