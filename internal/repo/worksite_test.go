package repo_test

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prestanaute/backend/internal/domain"
	"github.com/prestanaute/backend/internal/repo"
)

// seedWorksites inserts reference worksites directly; the repo itself is
// read-only because this table belongs to the billing side.
func seedWorksites(t *testing.T, tx pgx.Tx, worksites ...domain.Worksite) {
	t.Helper()
	ctx := context.Background()
	for _, w := range worksites {
		_, err := tx.Exec(ctx,
			`INSERT INTO worksites (worksite_id, worksite_name) VALUES ($1, $2)`,
			w.ID, w.Name)
		require.NoError(t, err, "seed worksite %s", w.ID)
	}
}

func TestWorksiteRepo_Search(t *testing.T) {
	tx := newTestTx(t)
	r := repo.NewWorksiteRepo(tx)
	ctx := context.Background()

	seedWorksites(t, tx,
		domain.Worksite{ID: "WS-1001", Name: "Avenue Louise renovation"},
		domain.Worksite{ID: "WS-1002", Name: "Gare du Midi platform"},
		domain.Worksite{ID: "WS-2001", Name: "Louise tunnel lighting"},
	)

	got, err := r.Search(ctx, "louise")

	require.NoError(t, err)
	require.Len(t, got, 2, "match is case-insensitive substring on name or id")
	// Ordered by worksite_id descending.
	assert.Equal(t, "WS-2001", got[0].ID)
	assert.Equal(t, "WS-1001", got[1].ID)
}

func TestWorksiteRepo_Search_ByID(t *testing.T) {
	tx := newTestTx(t)
	r := repo.NewWorksiteRepo(tx)
	ctx := context.Background()

	seedWorksites(t, tx, domain.Worksite{ID: "WS-1002", Name: "Gare du Midi platform"})

	got, err := r.Search(ctx, "1002")

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "WS-1002", got[0].ID)
}

func TestWorksiteRepo_Search_NoMatch(t *testing.T) {
	tx := newTestTx(t)
	r := repo.NewWorksiteRepo(tx)
	ctx := context.Background()

	got, err := r.Search(ctx, "no-such-worksite")

	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestWorksiteRepo_Exists(t *testing.T) {
	tx := newTestTx(t)
	r := repo.NewWorksiteRepo(tx)
	ctx := context.Background()

	seedWorksites(t, tx, domain.Worksite{ID: "WS-1001", Name: "Avenue Louise renovation"})

	exists, err := r.Exists(ctx, "WS-1001")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = r.Exists(ctx, "WS-9999")
	require.NoError(t, err)
	assert.False(t, exists)
}
