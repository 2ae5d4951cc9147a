package offline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

const (
	defaultPollInterval = 30 * time.Second
	defaultBackoffBase  = time.Second
	defaultBackoffCap   = 30 * time.Second
	defaultMaxAttempts  = 5
)

// Options configures a Client. Zero values take the documented defaults.
type Options struct {
	// BaseURL is the server root every target path is resolved against.
	BaseURL string
	// HTTPClient overrides the default client (15 second timeout).
	HTTPClient *http.Client
	// Header is sent with every request; an Authorization header belongs here.
	Header http.Header
	// PollInterval is the cadence of the background drain. Default 30s.
	PollInterval time.Duration
	// BackoffBase and BackoffCap bound the exponential backoff between drain
	// passes while the queue is blocked. Defaults 1s and 30s.
	BackoffBase time.Duration
	BackoffCap  time.Duration
	// MaxAttempts is the retry ceiling per queued mutation. Default 5.
	MaxAttempts int
	// Logger receives drain and cache diagnostics. Default slog.Default().
	Logger *slog.Logger
}

// Result is the outcome of a write. Either the server answered (StatusCode
// and Body are its response) or the write was queued for replay (Queued is
// true, Body carries the optimistic record and TempID the local identifier
// assigned to a queued create).
type Result struct {
	StatusCode int
	Body       []byte
	Queued     bool
	TempID     string
}

// Client is an HTTP client that keeps working without connectivity: reads
// fall back to cached snapshots and writes are applied optimistically to the
// cache and queued durably for in-order replay once the server is reachable
// again.
type Client struct {
	store  *Store
	client *http.Client
	base   string
	header http.Header
	logger *slog.Logger

	pollInterval time.Duration
	backoffBase  time.Duration
	backoffCap   time.Duration
	maxAttempts  int

	// mu serializes optimistic snapshot rewrites; concurrent UI writes race
	// only against the local cache, never against each other's replay.
	mu      sync.Mutex
	offline atomic.Bool

	notify    chan struct{}
	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// New creates a client over a durable store and starts the background drain
// loop. The client owns the store from here on; Close releases both.
func New(store *Store, opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, errors.New("offline: BaseURL is required")
	}

	c := &Client{
		store:        store,
		client:       opts.HTTPClient,
		base:         strings.TrimRight(opts.BaseURL, "/"),
		header:       opts.Header,
		logger:       opts.Logger,
		pollInterval: opts.PollInterval,
		backoffBase:  opts.BackoffBase,
		backoffCap:   opts.BackoffCap,
		maxAttempts:  opts.MaxAttempts,
		notify:       make(chan struct{}, 1),
		done:         make(chan struct{}),
	}
	if c.client == nil {
		c.client = &http.Client{Timeout: 15 * time.Second}
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.pollInterval <= 0 {
		c.pollInterval = defaultPollInterval
	}
	if c.backoffBase <= 0 {
		c.backoffBase = defaultBackoffBase
	}
	if c.backoffCap <= 0 {
		c.backoffCap = defaultBackoffCap
	}
	if c.maxAttempts <= 0 {
		c.maxAttempts = defaultMaxAttempts
	}

	c.wg.Add(1)
	go c.drainLoop()

	return c, nil
}

// Close stops the drain loop, waits for an in-flight replay to finish and
// closes the store.
func (c *Client) Close() error {
	c.closeOnce.Do(func() { close(c.done) })
	c.wg.Wait()
	return c.store.Close()
}

// SetOffline forces or clears offline mode. While offline, reads serve the
// cache only and writes queue without a network attempt. Coming back online
// doubles as the connectivity-restored signal and triggers a drain.
func (c *Client) SetOffline(offline bool) {
	c.offline.Store(offline)
	if !offline {
		c.Notify()
	}
}

// Offline reports whether offline mode is forced.
func (c *Client) Offline() bool {
	return c.offline.Load()
}

// Notify signals that connectivity was restored, waking the drain loop. It
// never blocks; a signal during a running drain coalesces into one more pass.
func (c *Client) Notify() {
	select {
	case c.notify <- struct{}{}:
	default:
	}
}

// PendingCount returns the number of queued mutations, the only synchronous
// observability the queue offers.
func (c *Client) PendingCount(ctx context.Context) (int, error) {
	return c.store.PendingCount(ctx)
}

// Get fetches a target network-first: a successful response refreshes the
// cached snapshot and is returned. On any failure, or while offline, the
// cached snapshot answers instead; only when none exists does the failure
// propagate.
func (c *Client) Get(ctx context.Context, target string) ([]byte, error) {
	if !c.offline.Load() {
		body, err := c.fetch(ctx, target)
		if err == nil {
			if serr := c.store.SaveSnapshot(ctx, target, body); serr != nil {
				c.logger.Warn("Failed to cache snapshot", slog.String("target", target), slog.String("error", serr.Error()))
			}
			return body, nil
		}

		snap, cerr := c.store.Snapshot(ctx, target)
		if cerr != nil {
			return nil, err
		}
		c.logger.Warn("Serving cached snapshot", slog.String("target", target), slog.String("error", err.Error()))
		return snap.Body, nil
	}

	snap, err := c.store.Snapshot(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("offline read of %s: %w", target, err)
	}
	return snap.Body, nil
}

// Do performs a write. Online, the request goes out immediately: a delivered
// response (2xx, or a 4xx the caller must handle) is returned as-is, and a
// successful one invalidates the affected snapshots. A network failure, a
// 5xx, or forced offline mode instead applies the write optimistically to
// the cached collection and queues it durably for replay; the optimistic
// result returns immediately with Queued set.
func (c *Client) Do(ctx context.Context, method, target string, body []byte) (*Result, error) {
	method = strings.ToUpper(method)
	if method == http.MethodGet {
		return nil, errors.New("offline: use Get for reads")
	}
	headers := c.requestHeaders()

	if !c.offline.Load() {
		status, respBody, err := c.send(ctx, method, target, headers, body)
		if err == nil && status < http.StatusInternalServerError {
			if status >= 200 && status < 300 {
				c.invalidateFor(ctx, method, target)
			}
			return &Result{StatusCode: status, Body: respBody}, nil
		}
		if err != nil {
			c.logger.Warn("Write failed, queueing for replay",
				slog.String("method", method), slog.String("target", target), slog.String("error", err.Error()))
		} else {
			c.logger.Warn("Server error, queueing write for replay",
				slog.String("method", method), slog.String("target", target), slog.Int("status", status))
		}
	}

	return c.queue(ctx, method, target, headers, body)
}

// queue applies the optimistic cache transform and records the mutation
// durably. The mutation is on disk before queue returns; losing the cache
// transform only costs freshness, losing the queue row would lose the write,
// so only the latter fails the call.
func (c *Client) queue(ctx context.Context, method, target string, headers map[string]string, body []byte) (*Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	res := &Result{Queued: true}
	optimistic, tempID, err := c.applyOptimistic(ctx, method, target, body)
	if err != nil {
		c.logger.Warn("Optimistic cache update failed",
			slog.String("method", method), slog.String("target", target), slog.String("error", err.Error()))
	} else {
		res.Body = optimistic
		res.TempID = tempID
	}

	m := &PendingMutation{Method: method, Target: target, Headers: headers, Body: body}
	if err := c.store.Enqueue(ctx, m); err != nil {
		return nil, err
	}

	c.logger.Info("Queued mutation for replay",
		slog.Int64("mutation_id", m.ID), slog.String("method", method), slog.String("target", target))
	return res, nil
}

// applyOptimistic rewrites the cached collection snapshot to reflect a
// queued write: creates append the record under a temporary local id,
// updates merge into the matching record, deletes remove it. When nothing is
// cached for the collection there is nothing to transform and only the
// optimistic record is built.
func (c *Client) applyOptimistic(ctx context.Context, method, target string, body []byte) ([]byte, string, error) {
	collection, itemID := splitTarget(method, target)

	record := map[string]any{}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &record); err != nil {
			return nil, "", fmt.Errorf("request body is not a JSON object: %w", err)
		}
	}

	tempID := ""
	if method == http.MethodPost {
		tempID = "local-" + uuid.NewString()
		record["id"] = tempID
	}

	affected := record
	snap, err := c.store.Snapshot(ctx, collection)
	if err == nil {
		rewritten, merged, rerr := rewriteCollection(snap.Body, method, itemID, record)
		if rerr != nil {
			return nil, "", rerr
		}
		if rewritten != nil {
			if err := c.store.SaveSnapshot(ctx, collection, rewritten); err != nil {
				return nil, "", err
			}
		}
		if merged != nil {
			affected = merged
		}
	} else if !errors.Is(err, ErrNoSnapshot) {
		return nil, "", err
	}

	if method == http.MethodDelete {
		return nil, "", nil
	}
	out, err := json.Marshal(affected)
	if err != nil {
		return nil, "", fmt.Errorf("encode optimistic record: %w", err)
	}
	return out, tempID, nil
}

// rewriteCollection applies one mutation to a cached collection body. A
// collection is a JSON array of records, either bare or wrapped in an
// object's "items" field. A body of any other shape is left untouched.
// It returns the rewritten body (nil when untouched) and, for updates, the
// merged record.
func rewriteCollection(body []byte, method, itemID string, record map[string]any) ([]byte, map[string]any, error) {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, nil, fmt.Errorf("decode cached collection: %w", err)
	}

	var records []any
	wrap := func(updated []any) any { return updated }

	switch v := doc.(type) {
	case []any:
		records = v
	case map[string]any:
		items, ok := v["items"].([]any)
		if !ok {
			return nil, nil, nil
		}
		records = items
		wrap = func(updated []any) any {
			v["items"] = updated
			return v
		}
	default:
		return nil, nil, nil
	}

	var merged map[string]any
	switch method {
	case http.MethodPost:
		records = append(records, record)
	case http.MethodPut, http.MethodPatch:
		for i, r := range records {
			rec, ok := r.(map[string]any)
			if !ok || !idMatches(rec["id"], itemID) {
				continue
			}
			for k, val := range record {
				rec[k] = val
			}
			records[i] = rec
			merged = rec
			break
		}
	case http.MethodDelete:
		kept := records[:0]
		for _, r := range records {
			if rec, ok := r.(map[string]any); ok && idMatches(rec["id"], itemID) {
				continue
			}
			kept = append(kept, r)
		}
		records = kept
	default:
		return nil, nil, nil
	}

	rewritten, err := json.Marshal(wrap(records))
	if err != nil {
		return nil, nil, fmt.Errorf("encode rewritten collection: %w", err)
	}
	return rewritten, merged, nil
}

// idMatches compares a record's id field against a path segment. Server ids
// decode as JSON numbers and temporary local ids as strings, so both sides
// compare through their string form.
func idMatches(id any, segment string) bool {
	if id == nil || segment == "" {
		return false
	}
	if f, ok := id.(float64); ok {
		return strconv.FormatFloat(f, 'f', -1, 64) == segment
	}
	return fmt.Sprint(id) == segment
}

// splitTarget derives the cached-collection key for a write target. Creates
// post to the collection itself; updates and deletes address one record
// beneath it.
func splitTarget(method, target string) (collection, itemID string) {
	if method == http.MethodPost {
		return target, ""
	}
	trimmed := strings.TrimRight(target, "/")
	if i := strings.LastIndexByte(trimmed, '/'); i > 0 {
		return trimmed[:i], trimmed[i+1:]
	}
	return trimmed, ""
}

// invalidateFor drops the snapshots a delivered write may have staled: the
// record's collection and, for record-level targets, the record itself. The
// next read fetches live data instead.
func (c *Client) invalidateFor(ctx context.Context, method, target string) {
	collection, _ := splitTarget(method, target)
	keys := []string{collection}
	if target != collection {
		keys = append(keys, target)
	}
	for _, key := range keys {
		if err := c.store.InvalidateSnapshot(ctx, key); err != nil {
			c.logger.Warn("Failed to invalidate snapshot", slog.String("key", key), slog.String("error", err.Error()))
		}
	}
}

// requestHeaders snapshots the headers a write would carry, so a queued
// mutation replays with the headers of the call that recorded it.
func (c *Client) requestHeaders() map[string]string {
	headers := map[string]string{"Content-Type": "application/json"}
	for key := range c.header {
		headers[key] = c.header.Get(key)
	}
	return headers
}

// fetch performs a plain GET, treating any non-2xx status as a failure.
func (c *Client) fetch(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+target, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for key := range c.header {
		req.Header.Set(key, c.header.Get(key))
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", target, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response for %s: %w", target, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("GET %s: unexpected status %d", target, resp.StatusCode)
	}
	return body, nil
}

// send performs one write attempt and returns the status and body. The error
// is non-nil only for transport failures; HTTP error statuses are returned
// for the caller to classify.
func (c *Client) send(ctx context.Context, method, target string, headers map[string]string, body []byte) (int, []byte, error) {
	var reader io.Reader
	if len(body) > 0 {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+target, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%s %s: %w", method, target, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read response for %s: %w", target, err)
	}
	return resp.StatusCode, respBody, nil
}
