package dataset

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hiredata-ai/hiredata-engine/pkg/apperrors"
	"github.com/hiredata-ai/hiredata-engine/pkg/models"
)

func sampleTable(t *testing.T) *models.Table {
	t.Helper()
	table := models.NewTable([]models.Column{
		{Name: "id", Type: models.TypeInteger},
		{Name: "name", Type: models.TypeText},
		{Name: "active", Type: models.TypeBoolean},
		{Name: "created_at", Type: models.TypeTimestamp},
	})
	ts := time.Date(2021, 2, 1, 10, 30, 0, 0, time.UTC)
	require.NoError(t, table.AppendRow([]models.Value{
		models.Int(1), models.Text("Ana"), models.Bool(true), models.Timestamp(ts),
	}))
	require.NoError(t, table.AppendRow([]models.Value{
		models.Int(2), models.Null(), models.Bool(false), models.Null(),
	}))
	return table
}

func assertTablesEqual(t *testing.T, want, got *models.Table) {
	t.Helper()
	require.Equal(t, want.Columns, got.Columns)
	require.Equal(t, want.NumRows(), got.NumRows())
	for i, row := range want.Rows {
		for j, v := range row {
			assert.True(t, v.Equal(got.Rows[i][j]), "row %d column %d: want %s, got %s", i, j, v, got.Rows[i][j])
		}
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	defer func() { _ = store.Close() }()

	table := sampleTable(t)
	require.NoError(t, store.Save(ctx, "primary_core", table))

	loaded, err := store.Load(ctx, "primary_core")
	require.NoError(t, err)
	assertTablesEqual(t, table, loaded)
}

func TestMemoryStoreNotFound(t *testing.T) {
	store := NewMemoryStore()
	_, err := store.Load(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrDatasetNotFound)
}

func TestMemoryStoreIsolation(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	table := sampleTable(t)
	require.NoError(t, store.Save(ctx, "ds", table))

	// Mutating either the original or a loaded copy must not leak into the
	// stored table.
	table.Rows[0][0] = models.Int(99)
	loaded, err := store.Load(ctx, "ds")
	require.NoError(t, err)
	assert.True(t, loaded.Rows[0][0].Equal(models.Int(1)))

	loaded.Rows[0][0] = models.Int(77)
	again, err := store.Load(ctx, "ds")
	require.NoError(t, err)
	assert.True(t, again.Rows[0][0].Equal(models.Int(1)))
}

func TestMemoryStoreReplacesDataset(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Save(ctx, "ds", sampleTable(t)))

	replacement := models.NewTable([]models.Column{{Name: "only", Type: models.TypeText}})
	require.NoError(t, store.Save(ctx, "ds", replacement))

	loaded, err := store.Load(ctx, "ds")
	require.NoError(t, err)
	assert.Equal(t, []string{"only"}, loaded.ColumnNames())
	assert.Equal(t, 0, loaded.NumRows())
}

func TestMemoryStoreRejectsBadName(t *testing.T) {
	store := NewMemoryStore()
	err := store.Save(context.Background(), "bad name;", sampleTable(t))
	assert.Error(t, err)
}
