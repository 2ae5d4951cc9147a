package offline_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karacadev/backoffice/pkg/offline"
)

// testServer wraps an httptest server that serves a mutable user list and
// counts requests by method.
type testServer struct {
	*httptest.Server

	mu    sync.Mutex
	users []map[string]any
	gets  int
	posts int
	// bodies records POST bodies in arrival order.
	bodies []string
	// postStatus, when non-zero, is returned for every POST instead of 201.
	postStatus int
}

func newTestServer() *testServer {
	ts := &testServer{
		users: []map[string]any{{"id": 1, "name": "Aline"}},
	}
	ts.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ts.mu.Lock()
		defer ts.mu.Unlock()

		switch r.Method {
		case http.MethodGet:
			ts.gets++
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(ts.users)
		case http.MethodPost:
			ts.posts++
			body, _ := io.ReadAll(r.Body)
			ts.bodies = append(ts.bodies, string(body))
			if ts.postStatus != 0 {
				http.Error(w, "rejected", ts.postStatus)
				return
			}
			var rec map[string]any
			json.Unmarshal(body, &rec)
			rec["id"] = len(ts.users) + 1
			ts.users = append(ts.users, rec)
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(rec)
		default:
			w.WriteHeader(http.StatusNoContent)
		}
	}))
	return ts
}

func (ts *testServer) counts() (gets, posts int) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.gets, ts.posts
}

func (ts *testServer) postBodies() []string {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return append([]string(nil), ts.bodies...)
}

func (ts *testServer) setPostStatus(status int) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.postStatus = status
}

// newTestClient builds a client against the server with test-sized backoff
// and a poll interval long enough that only Notify triggers drains.
func newTestClient(t *testing.T, baseURL string, maxAttempts int) *offline.Client {
	t.Helper()
	store, err := offline.OpenStore(filepath.Join(t.TempDir(), "client.db"))
	require.NoError(t, err)

	client, err := offline.New(store, offline.Options{
		BaseURL:      baseURL,
		PollInterval: time.Hour,
		BackoffBase:  5 * time.Millisecond,
		BackoffCap:   20 * time.Millisecond,
		MaxAttempts:  maxAttempts,
	})
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client
}

func drained(t *testing.T, client *offline.Client) {
	t.Helper()
	require.Eventually(t, func() bool {
		n, err := client.PendingCount(context.Background())
		return err == nil && n == 0
	}, 3*time.Second, 10*time.Millisecond, "queue never drained")
}

func TestGetCachesAndFallsBack(t *testing.T) {
	ctx := context.Background()
	ts := newTestServer()
	client := newTestClient(t, ts.URL, 5)

	body, err := client.Get(ctx, "/users")
	require.NoError(t, err)
	assert.Contains(t, string(body), "Aline")

	// With the server gone, the cached snapshot answers instead.
	ts.Close()
	cached, err := client.Get(ctx, "/users")
	require.NoError(t, err)
	assert.Equal(t, string(body), string(cached))

	// A target that was never fetched has nothing to fall back on.
	_, err = client.Get(ctx, "/projects")
	require.Error(t, err)
}

func TestOfflineWriteQueuesOptimistically(t *testing.T) {
	ctx := context.Background()
	ts := newTestServer()
	defer ts.Close()
	client := newTestClient(t, ts.URL, 5)

	_, err := client.Get(ctx, "/users")
	require.NoError(t, err)

	client.SetOffline(true)

	res, err := client.Do(ctx, http.MethodPost, "/users", []byte(`{"name":"Farid"}`))
	require.NoError(t, err)
	assert.True(t, res.Queued)
	assert.NotEmpty(t, res.TempID)
	assert.Contains(t, string(res.Body), "Farid")
	assert.Contains(t, string(res.Body), res.TempID)

	n, err := client.PendingCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// The optimistic record is immediately visible in the cached list.
	body, err := client.Get(ctx, "/users")
	require.NoError(t, err)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list, 2)
	assert.Equal(t, "Farid", list[1]["name"])
	assert.Equal(t, res.TempID, list[1]["id"])

	// Nothing reached the network.
	gets, posts := ts.counts()
	assert.Equal(t, 1, gets)
	assert.Equal(t, 0, posts)
}

func TestReconnectReplaysAndInvalidates(t *testing.T) {
	ctx := context.Background()
	ts := newTestServer()
	defer ts.Close()
	client := newTestClient(t, ts.URL, 5)

	_, err := client.Get(ctx, "/users")
	require.NoError(t, err)

	client.SetOffline(true)
	_, err = client.Do(ctx, http.MethodPost, "/users", []byte(`{"name":"Farid"}`))
	require.NoError(t, err)

	// Going back online doubles as the connectivity-restored signal.
	client.SetOffline(false)
	drained(t, client)

	_, posts := ts.counts()
	assert.Equal(t, 1, posts)
	assert.JSONEq(t, `{"name":"Farid"}`, ts.postBodies()[0])

	// The replay invalidated the snapshot: an offline read now has nothing,
	// so the next online read must come from the network.
	client.SetOffline(true)
	_, err = client.Get(ctx, "/users")
	assert.ErrorIs(t, err, offline.ErrNoSnapshot)

	client.SetOffline(false)
	body, err := client.Get(ctx, "/users")
	require.NoError(t, err)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list, 2)
	assert.Equal(t, "Farid", list[1]["name"])
	assert.Equal(t, float64(2), list[1]["id"])
}

func TestReplay4xxDroppedAfterSingleAttempt(t *testing.T) {
	ctx := context.Background()
	ts := newTestServer()
	defer ts.Close()
	ts.setPostStatus(http.StatusBadRequest)
	client := newTestClient(t, ts.URL, 5)

	client.SetOffline(true)
	_, err := client.Do(ctx, http.MethodPost, "/users", []byte(`{"name":""}`))
	require.NoError(t, err)

	client.SetOffline(false)
	drained(t, client)

	// Terminal response: exactly one attempt, no retries afterwards.
	time.Sleep(50 * time.Millisecond)
	_, posts := ts.counts()
	assert.Equal(t, 1, posts)
}

func TestReplayRetriesUntilCeiling(t *testing.T) {
	ctx := context.Background()
	ts := newTestServer()
	defer ts.Close()
	ts.setPostStatus(http.StatusInternalServerError)
	client := newTestClient(t, ts.URL, 3)

	client.SetOffline(true)
	_, err := client.Do(ctx, http.MethodPost, "/users", []byte(`{"name":"Farid"}`))
	require.NoError(t, err)

	client.SetOffline(false)
	drained(t, client)

	// Retryable failures burn one attempt per pass until the ceiling.
	time.Sleep(50 * time.Millisecond)
	_, posts := ts.counts()
	assert.Equal(t, 3, posts)
}

func TestReplayPreservesOrder(t *testing.T) {
	ctx := context.Background()
	ts := newTestServer()
	defer ts.Close()
	client := newTestClient(t, ts.URL, 5)

	client.SetOffline(true)
	_, err := client.Do(ctx, http.MethodPost, "/users", []byte(`{"name":"first"}`))
	require.NoError(t, err)
	_, err = client.Do(ctx, http.MethodPost, "/users", []byte(`{"name":"second"}`))
	require.NoError(t, err)

	client.SetOffline(false)
	drained(t, client)

	bodies := ts.postBodies()
	require.Len(t, bodies, 2)
	assert.JSONEq(t, `{"name":"first"}`, bodies[0])
	assert.JSONEq(t, `{"name":"second"}`, bodies[1])
}

func TestOptimisticUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	ts := newTestServer()
	defer ts.Close()
	client := newTestClient(t, ts.URL, 5)

	ts.mu.Lock()
	ts.users = append(ts.users, map[string]any{"id": 2, "name": "Bashir"})
	ts.mu.Unlock()

	_, err := client.Get(ctx, "/users")
	require.NoError(t, err)

	client.SetOffline(true)

	res, err := client.Do(ctx, http.MethodPut, "/users/1", []byte(`{"name":"Aline Khoury"}`))
	require.NoError(t, err)
	assert.True(t, res.Queued)
	assert.Contains(t, string(res.Body), "Aline Khoury")

	_, err = client.Do(ctx, http.MethodDelete, "/users/2", nil)
	require.NoError(t, err)

	body, err := client.Get(ctx, "/users")
	require.NoError(t, err)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list, 1)
	assert.Equal(t, "Aline Khoury", list[0]["name"])
	assert.Equal(t, float64(1), list[0]["id"])

	n, err := client.PendingCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestOptimisticApplyOnWrappedCollection(t *testing.T) {
	ctx := context.Background()

	// List endpoints that paginate wrap their records in an items field.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"items":[{"id":10,"description":"Cement"}],"nextToken":""}`)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL, 5)

	_, err := client.Get(ctx, "/transactions")
	require.NoError(t, err)

	client.SetOffline(true)
	_, err = client.Do(ctx, http.MethodPost, "/transactions", []byte(`{"description":"Steel"}`))
	require.NoError(t, err)

	body, err := client.Get(ctx, "/transactions")
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(body, &doc))
	items, ok := doc["items"].([]any)
	require.True(t, ok)
	assert.Len(t, items, 2)
}
