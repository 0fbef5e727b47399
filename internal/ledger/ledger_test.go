package ledger

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTest(t *testing.T) *Ledger {
	t.Helper()
	l, err := Open(context.Background(), "", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func TestHashIPStableAndOpaque(t *testing.T) {
	l := openTest(t)
	a := l.HashIP("203.0.113.7")
	assert.Len(t, a, 16)
	assert.Equal(t, a, l.HashIP("203.0.113.7"))
	assert.NotEqual(t, a, l.HashIP("203.0.113.8"))
	assert.NotContains(t, a, "203")
}

func TestLedgerLifecycle(t *testing.T) {
	ctx := context.Background()
	l := openTest(t)
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

	require.NoError(t, l.Opened(ctx, Visit{ViewID: "v1", IP: "10.0.0.1", UserAgent: "test", At: now}))
	require.NoError(t, l.Opened(ctx, Visit{ViewID: "v2", IP: "10.0.0.2", At: now}))

	require.NoError(t, l.Reached(ctx, "v1", "about", now))
	require.NoError(t, l.Reached(ctx, "v1", "about", now.Add(time.Minute)))
	require.NoError(t, l.Reached(ctx, "v1", "projects", now))
	require.NoError(t, l.Reached(ctx, "v2", "about", now))
	require.NoError(t, l.Reached(ctx, "unknown", "about", now), "reach for an unrecorded view is ignored")

	require.NoError(t, l.Closed(ctx, "v1", now.Add(time.Hour)))
	require.NoError(t, l.Closed(ctx, "v1", now.Add(2*time.Hour)))

	st, err := l.Stats(ctx, []string{"hero", "about", "projects"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), st.TotalViews)
	assert.Equal(t, int64(1), st.OpenViews)
	assert.Equal(t, []Reach{{"hero", 0}, {"about", 2}, {"projects", 1}}, st.Reach)
}

func TestLedgerPurgeCascades(t *testing.T) {
	ctx := context.Background()
	l := openTest(t)
	old := time.Now().Add(-48 * time.Hour)

	require.NoError(t, l.Opened(ctx, Visit{ViewID: "old", At: old}))
	require.NoError(t, l.Reached(ctx, "old", "about", old))
	require.NoError(t, l.Opened(ctx, Visit{ViewID: "new", At: time.Now()}))

	n, err := l.Purge(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	st, err := l.Stats(ctx, []string{"about"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), st.TotalViews)
	assert.Equal(t, int64(0), st.Reach[0].Views)
}

func TestLedgerFileDSN(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "ledger.db")

	l, err := Open(ctx, dsn, nil)
	require.NoError(t, err)
	require.NoError(t, l.Opened(ctx, Visit{ViewID: "v", At: time.Now()}))
	require.NoError(t, l.Close())

	l, err = Open(ctx, dsn, nil)
	require.NoError(t, err)
	defer l.Close()
	st, err := l.Stats(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), st.TotalViews)
}
