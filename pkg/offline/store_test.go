package offline_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karacadev/backoffice/pkg/offline"
)

func newTestStore(t *testing.T) *offline.Store {
	t.Helper()
	store, err := offline.OpenStore(filepath.Join(t.TempDir(), "client.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := store.Snapshot(ctx, "/users")
	assert.ErrorIs(t, err, offline.ErrNoSnapshot)

	require.NoError(t, store.SaveSnapshot(ctx, "/users", []byte(`[{"id":1}]`)))

	snap, err := store.Snapshot(ctx, "/users")
	require.NoError(t, err)
	assert.Equal(t, "/users", snap.Key)
	assert.JSONEq(t, `[{"id":1}]`, string(snap.Body))
	assert.False(t, snap.FetchedAt.IsZero())

	// Saving again replaces the body in place.
	require.NoError(t, store.SaveSnapshot(ctx, "/users", []byte(`[{"id":1},{"id":2}]`)))
	snap, err = store.Snapshot(ctx, "/users")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":1},{"id":2}]`, string(snap.Body))

	require.NoError(t, store.InvalidateSnapshot(ctx, "/users"))
	_, err = store.Snapshot(ctx, "/users")
	assert.ErrorIs(t, err, offline.ErrNoSnapshot)

	// Invalidating a key that is not cached is a no-op.
	require.NoError(t, store.InvalidateSnapshot(ctx, "/users"))
}

func TestQueueIsFIFO(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	first := &offline.PendingMutation{Method: "POST", Target: "/users", Body: []byte(`{"name":"a"}`)}
	second := &offline.PendingMutation{Method: "DELETE", Target: "/users/4"}
	require.NoError(t, store.Enqueue(ctx, first))
	require.NoError(t, store.Enqueue(ctx, second))
	assert.Less(t, first.ID, second.ID)

	count, err := store.PendingCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	head, err := store.NextPending(ctx)
	require.NoError(t, err)
	require.NotNil(t, head)
	assert.Equal(t, first.ID, head.ID)
	assert.Equal(t, "POST", head.Method)

	require.NoError(t, store.DeletePending(ctx, head.ID))

	head, err = store.NextPending(ctx)
	require.NoError(t, err)
	require.NotNil(t, head)
	assert.Equal(t, second.ID, head.ID)

	require.NoError(t, store.DeletePending(ctx, head.ID))

	head, err = store.NextPending(ctx)
	require.NoError(t, err)
	assert.Nil(t, head)
}

func TestBumpRetry(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	m := &offline.PendingMutation{Method: "POST", Target: "/users", Body: []byte(`{}`)}
	require.NoError(t, store.Enqueue(ctx, m))
	assert.Equal(t, 0, m.RetryCount)

	count, err := store.BumpRetry(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = store.BumpRetry(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	head, err := store.NextPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, head.RetryCount)
}

func TestQueueSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "client.db")

	store, err := offline.OpenStore(path)
	require.NoError(t, err)

	m := &offline.PendingMutation{
		Method:  "POST",
		Target:  "/projects",
		Headers: map[string]string{"Content-Type": "application/json"},
		Body:    []byte(`{"name":"Hilltop"}`),
	}
	require.NoError(t, store.Enqueue(ctx, m))
	require.NoError(t, store.SaveSnapshot(ctx, "/projects", []byte(`[]`)))
	require.NoError(t, store.Close())

	reopened, err := offline.OpenStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	// A mutation recorded before the restart is still queued, unchanged.
	pending, err := reopened.PendingMutations(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, m.ID, pending[0].ID)
	assert.Equal(t, "POST", pending[0].Method)
	assert.Equal(t, "/projects", pending[0].Target)
	assert.Equal(t, "application/json", pending[0].Headers["Content-Type"])
	assert.JSONEq(t, `{"name":"Hilltop"}`, string(pending[0].Body))

	snap, err := reopened.Snapshot(ctx, "/projects")
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(snap.Body))
}
