package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/s21platform/chat-sync/internal/feed"
	"github.com/s21platform/chat-sync/internal/model"
)

// Conn is one client's connection to the Server. It implements feed.Feed.
type Conn struct {
	server *Server

	mu           sync.Mutex
	connected    bool
	onDisconnect map[string]struct{}
	watchers     []*connWatcher

	// Guarded by the server's dispatch lock.
	missed map[*subscription]pathState
}

type connWatcher struct {
	conn    *Conn
	handler feed.ConnectionHandler
}

func (w *connWatcher) Detach() {
	w.conn.mu.Lock()
	defer w.conn.mu.Unlock()
	for i, cw := range w.conn.watchers {
		if cw == w {
			w.conn.watchers = append(w.conn.watchers[:i], w.conn.watchers[i+1:]...)
			return
		}
	}
}

var _ feed.Feed = (*Conn)(nil)

func (c *Conn) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

func (c *Conn) Subscribe(path string, kind feed.EventKind, h feed.Handler) (feed.Handle, error) {
	if kind == feed.Connection {
		return nil, fmt.Errorf("use ConnectionState for %s: %w", feed.ConnectedInfo, feed.ErrUnsupported)
	}
	return c.server.subscribe(c, path, kind, h)
}

func (c *Conn) Unsubscribe(path string, kind feed.EventKind) {
	c.server.unsubscribe(c, path, kind)
}

// ConnectionState delivers the current state immediately, then every transition.
func (c *Conn) ConnectionState(h feed.ConnectionHandler) (feed.Handle, error) {
	w := &connWatcher{conn: c, handler: h}
	c.mu.Lock()
	c.watchers = append(c.watchers, w)
	connected := c.connected
	c.mu.Unlock()

	h(connected)
	return w, nil
}

func (c *Conn) ReadOnce(_ context.Context, path string) (feed.Snapshot, error) {
	if !c.Connected() {
		return feed.Snapshot{}, feed.ErrDisconnected
	}
	return c.server.Snapshot(path), nil
}

func (c *Conn) Push(ctx context.Context, path string, value any) (string, error) {
	key := newPushKey()
	if err := c.Set(ctx, feed.Join(path, key), value); err != nil {
		return "", err
	}
	return key, nil
}

func (c *Conn) Set(ctx context.Context, path string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}
	return c.write(ctx, model.FeedChange{Op: model.FeedOpSet, Path: path, Value: raw})
}

func (c *Conn) Update(ctx context.Context, path string, values map[string]any) error {
	raw, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("failed to marshal values: %w", err)
	}
	return c.write(ctx, model.FeedChange{Op: model.FeedOpUpdate, Path: path, Value: raw})
}

func (c *Conn) Remove(ctx context.Context, path string) error {
	return c.write(ctx, model.FeedChange{Op: model.FeedOpRemove, Path: path})
}

// OnDisconnectRemove asks the server to remove path when this connection is lost.
// Registering the same path again is a no-op.
func (c *Conn) OnDisconnectRemove(_ context.Context, path string) error {
	if len(feed.Split(path)) == 0 {
		return feed.ErrInvalidPath
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.connected {
		return feed.ErrDisconnected
	}
	c.onDisconnect[path] = struct{}{}
	return nil
}

// Drop simulates an ungraceful connection loss: the server runs the pending
// disconnect cleanups and the client observes the offline transition.
// Cleanups are consumed and must be registered again after Restore.
func (c *Conn) Drop(ctx context.Context) error {
	if !c.server.disconnect(c) {
		return nil
	}

	c.mu.Lock()
	paths := make([]string, 0, len(c.onDisconnect))
	for p := range c.onDisconnect {
		paths = append(paths, p)
	}
	c.onDisconnect = map[string]struct{}{}
	watchers := append([]*connWatcher(nil), c.watchers...)
	c.mu.Unlock()

	sort.Strings(paths)
	var firstErr error
	for _, p := range paths {
		if err := c.server.commit(ctx, model.FeedChange{Op: model.FeedOpRemove, Path: p}); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	for _, w := range watchers {
		w.handler(false)
	}
	return firstErr
}

// Restore reconnects the client. Subscriptions first receive every event they
// missed while offline, then watchers observe the online transition.
func (c *Conn) Restore() {
	if !c.server.reconnect(c) {
		return
	}

	c.mu.Lock()
	watchers := append([]*connWatcher(nil), c.watchers...)
	c.mu.Unlock()

	for _, w := range watchers {
		w.handler(true)
	}
}

func (c *Conn) write(ctx context.Context, change model.FeedChange) error {
	if len(feed.Split(change.Path)) == 0 {
		return feed.ErrInvalidPath
	}
	if !c.Connected() {
		return feed.ErrDisconnected
	}
	return c.server.commit(ctx, change)
}
