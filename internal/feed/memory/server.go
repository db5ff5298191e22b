package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	logger_lib "github.com/s21platform/logger-lib"

	"github.com/s21platform/chat-sync/internal/feed"
	"github.com/s21platform/chat-sync/internal/model"
)

// Journal durably records every committed write so the tree can be rebuilt.
type Journal interface {
	Append(ctx context.Context, change model.FeedChange) error
	Load(ctx context.Context) ([]model.FeedChange, error)
}

// Publisher fans committed writes out to other devices.
type Publisher interface {
	Publish(ctx context.Context, channel string, change model.FeedChange) error
}

type Option func(*Server)

func WithJournal(j Journal) Option {
	return func(s *Server) { s.journal = j }
}

func WithPublisher(p Publisher) Option {
	return func(s *Server) { s.publisher = p }
}

func WithLogger(l logger_lib.LoggerInterface) Option {
	return func(s *Server) { s.logger = l }
}

func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// Server is an in-process remote feed: an ordered key tree with push
// subscriptions shared by any number of client connections.
type Server struct {
	// dispatch serializes write+delivery so every subscriber observes commits in order.
	dispatch sync.Mutex
	mu       sync.Mutex

	root *node
	subs []*subscription
	seq  int64

	journal   Journal
	publisher Publisher
	logger    logger_lib.LoggerInterface
	now       func() time.Time
}

type subscription struct {
	server  *Server
	conn    *Conn
	path    string
	kind    feed.EventKind
	handler feed.Handler
}

func (s *subscription) Detach() {
	s.server.removeSub(s)
}

type delivery struct {
	sub  *subscription
	snap feed.Snapshot
}

// childRef identifies a node version: a replaced node has a new pointer, a
// mutated one a new revision.
type childRef struct {
	node *node
	rev  uint64
}

func refOf(n *node) childRef {
	if n == nil {
		return childRef{}
	}
	return childRef{node: n, rev: n.rev}
}

// pathState is what a subscription path looked like before a change. A
// partial state only covers the one child a descendant write can touch.
type pathState struct {
	ref      childRef
	keys     []string
	children map[string]childRef
	values   map[string]json.RawMessage
	partial  bool
	key      string
}

func (st pathState) order() []string {
	if !st.partial {
		return st.keys
	}
	if _, ok := st.children[st.key]; ok {
		return []string{st.key}
	}
	return nil
}

func New(opts ...Option) *Server {
	s := &Server{
		root: newInterior(),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Connect opens a new client connection in the connected state.
func (s *Server) Connect() *Conn {
	return &Conn{
		server:       s,
		connected:    true,
		onDisconnect: map[string]struct{}{},
	}
}

// Replay rebuilds the tree from the journal. It must run before any subscriber attaches.
func (s *Server) Replay(ctx context.Context) (int, error) {
	if s.journal == nil {
		return 0, nil
	}
	changes, err := s.journal.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load feed journal: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, change := range changes {
		if err := s.applyLocked(change); err != nil {
			return 0, fmt.Errorf("failed to replay change %d: %w", change.Seq, err)
		}
		if change.Seq > s.seq {
			s.seq = change.Seq
		}
	}
	return len(changes), nil
}

func (s *Server) Snapshot(path string) feed.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked(path)
}

func (s *Server) subscribe(conn *Conn, path string, kind feed.EventKind, h feed.Handler) (*subscription, error) {
	switch kind {
	case feed.ChildAdded, feed.ChildRemoved, feed.Value:
	default:
		return nil, feed.ErrUnsupported
	}

	s.dispatch.Lock()
	defer s.dispatch.Unlock()

	sub := &subscription{server: s, conn: conn, path: path, kind: kind, handler: h}

	s.mu.Lock()
	s.subs = append(s.subs, sub)
	if !conn.Connected() {
		conn.missed[sub] = s.stateLocked(path)
	}
	var initial []feed.Snapshot
	switch kind {
	case feed.ChildAdded:
		initial = s.childSnapshotsLocked(path)
	case feed.Value:
		initial = []feed.Snapshot{s.snapshotLocked(path)}
	}
	s.mu.Unlock()

	for _, snap := range initial {
		h(snap)
	}
	return sub, nil
}

func (s *Server) removeSub(target *subscription) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, sub := range s.subs {
		if sub == target {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			return
		}
	}
}

func (s *Server) unsubscribe(conn *Conn, path string, kind feed.EventKind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.subs[:0]
	for _, sub := range s.subs {
		if sub.conn == conn && sub.path == path && sub.kind == kind {
			continue
		}
		kept = append(kept, sub)
	}
	s.subs = kept
}

// commit journals, applies and delivers a single change.
func (s *Server) commit(ctx context.Context, change model.FeedChange) error {
	s.dispatch.Lock()
	defer s.dispatch.Unlock()

	s.mu.Lock()
	s.seq++
	change.Seq = s.seq
	change.At = s.now().UnixMilli()

	if s.journal != nil {
		if err := s.journal.Append(ctx, change); err != nil {
			s.seq--
			s.mu.Unlock()
			return fmt.Errorf("failed to journal change: %w", err)
		}
	}

	before := s.captureLocked(change.Path)
	if err := s.applyLocked(change); err != nil {
		s.mu.Unlock()
		return err
	}
	deliveries := s.diffLocked(change.Path, before)
	s.mu.Unlock()

	for _, d := range deliveries {
		if !d.sub.conn.Connected() {
			continue
		}
		d.sub.handler(d.snap)
	}

	if s.publisher != nil {
		channel := feed.Split(change.Path)[0]
		if err := s.publisher.Publish(ctx, channel, change); err != nil && s.logger != nil {
			s.logger.Error(fmt.Sprintf("failed to publish feed change %d: %v", change.Seq, err))
		}
	}
	return nil
}

func (s *Server) applyLocked(change model.FeedChange) error {
	segments := feed.Split(change.Path)
	if len(segments) == 0 {
		return feed.ErrInvalidPath
	}

	switch change.Op {
	case model.FeedOpSet:
		n, err := buildNode(change.Value)
		if err != nil {
			return fmt.Errorf("failed to decode value: %w", err)
		}
		setAt(s.root, segments, n)
		touch(s.root, segments, uint64(change.Seq))
	case model.FeedOpUpdate:
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(change.Value, &fields); err != nil {
			return fmt.Errorf("failed to decode update: %w", err)
		}
		for k, raw := range fields {
			n, err := buildNode(raw)
			if err != nil {
				return fmt.Errorf("failed to decode value for %s: %w", k, err)
			}
			full := append(append([]string{}, segments...), feed.Split(k)...)
			setAt(s.root, full, n)
			touch(s.root, full, uint64(change.Seq))
		}
	case model.FeedOpRemove:
		setAt(s.root, segments, nil)
		touch(s.root, segments, uint64(change.Seq))
	default:
		return fmt.Errorf("unknown feed op %q", change.Op)
	}
	return nil
}

// disconnect takes conn offline and remembers what each of its subscriptions
// has seen, so reconnect can deliver whatever it missed.
func (s *Server) disconnect(conn *Conn) bool {
	s.dispatch.Lock()
	defer s.dispatch.Unlock()

	conn.mu.Lock()
	if !conn.connected {
		conn.mu.Unlock()
		return false
	}
	conn.connected = false
	conn.mu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	conn.missed = map[*subscription]pathState{}
	states := map[string]pathState{}
	for _, sub := range s.subs {
		if sub.conn != conn {
			continue
		}
		st, ok := states[sub.path]
		if !ok {
			st = s.stateLocked(sub.path)
			states[sub.path] = st
		}
		conn.missed[sub] = st
	}
	return true
}

// reconnect brings conn back online and delivers the difference between the
// state captured at disconnect and the current tree.
func (s *Server) reconnect(conn *Conn) bool {
	s.dispatch.Lock()
	defer s.dispatch.Unlock()

	conn.mu.Lock()
	if conn.connected {
		conn.mu.Unlock()
		return false
	}
	conn.connected = true
	conn.mu.Unlock()

	missed := conn.missed
	conn.missed = nil

	s.mu.Lock()
	var deliveries []delivery
	current := map[string]pathState{}
	for _, sub := range s.subs {
		prev, ok := missed[sub]
		if sub.conn != conn || !ok {
			continue
		}
		next, ok := current[sub.path]
		if !ok {
			next = s.stateLocked(sub.path)
			current[sub.path] = next
		}
		deliveries = append(deliveries, s.changesLocked(sub, prev, next)...)
	}
	s.mu.Unlock()

	for _, d := range deliveries {
		d.sub.handler(d.snap)
	}
	return true
}

func related(a, b string) bool {
	return a == b || a == "" || b == "" ||
		strings.HasPrefix(b, a+"/") || strings.HasPrefix(a, b+"/")
}

// captureLocked records the state of every subscription path the write at
// path can affect. Ancestors of path only need the single child on the way.
func (s *Server) captureLocked(path string) map[string]pathState {
	target := feed.Split(path)
	states := map[string]pathState{}
	for _, sub := range s.subs {
		if _, ok := states[sub.path]; ok || !related(sub.path, path) {
			continue
		}
		states[sub.path] = s.captureSubLocked(sub.path, target)
	}
	return states
}

func (s *Server) captureSubLocked(path string, target []string) pathState {
	segments := feed.Split(path)
	if len(segments) < len(target) {
		return s.partialStateLocked(segments, target[len(segments)])
	}
	return s.stateLocked(path)
}

func (s *Server) partialStateLocked(segments []string, key string) pathState {
	st := pathState{
		partial:  true,
		key:      key,
		children: map[string]childRef{},
		values:   map[string]json.RawMessage{},
	}
	n := s.root.lookup(segments)
	if n == nil {
		return st
	}
	st.ref = refOf(n)
	if !n.interior() {
		return st
	}
	if c, ok := n.children[key]; ok {
		st.children[key] = refOf(c)
		st.values[key] = c.value()
	}
	return st
}

func (s *Server) stateLocked(path string) pathState {
	st := pathState{
		children: map[string]childRef{},
		values:   map[string]json.RawMessage{},
	}
	n := s.root.lookup(feed.Split(path))
	if n == nil {
		return st
	}
	st.ref = refOf(n)
	if n.interior() {
		st.keys = append(st.keys, n.keys...)
		for _, k := range n.keys {
			c := n.children[k]
			st.children[k] = refOf(c)
			st.values[k] = c.value()
		}
	}
	return st
}

func (s *Server) diffLocked(path string, before map[string]pathState) []delivery {
	target := feed.Split(path)
	after := map[string]pathState{}
	var out []delivery
	for _, sub := range s.subs {
		prev, ok := before[sub.path]
		if !ok {
			continue
		}
		next, ok := after[sub.path]
		if !ok {
			next = s.captureSubLocked(sub.path, target)
			after[sub.path] = next
		}
		out = append(out, s.changesLocked(sub, prev, next)...)
	}
	return out
}

func (s *Server) changesLocked(sub *subscription, prev, next pathState) []delivery {
	var out []delivery
	switch sub.kind {
	case feed.ChildAdded:
		for _, k := range next.order() {
			if _, existed := prev.children[k]; existed {
				continue
			}
			out = append(out, delivery{sub: sub, snap: childSnapshot(sub.path, k, next.values[k])})
		}
	case feed.ChildRemoved:
		for _, k := range prev.order() {
			if _, still := next.children[k]; still {
				continue
			}
			out = append(out, delivery{sub: sub, snap: childSnapshot(sub.path, k, prev.values[k])})
		}
	case feed.Value:
		if prev.ref != next.ref {
			out = append(out, delivery{sub: sub, snap: s.snapshotLocked(sub.path)})
		}
	}
	return out
}

func (s *Server) snapshotLocked(path string) feed.Snapshot {
	snap := feed.Snapshot{Key: lastSegment(path), Path: path}
	n := s.root.lookup(feed.Split(path))
	if n == nil {
		return snap
	}
	snap.Raw = n.value()
	if n.interior() {
		snap.Children = len(n.keys)
	}
	return snap
}

func (s *Server) childSnapshotsLocked(path string) []feed.Snapshot {
	n := s.root.lookup(feed.Split(path))
	if n == nil || !n.interior() {
		return nil
	}
	out := make([]feed.Snapshot, 0, len(n.keys))
	for _, k := range n.keys {
		out = append(out, childSnapshot(path, k, n.children[k].value()))
	}
	return out
}

func childSnapshot(parent, key string, raw json.RawMessage) feed.Snapshot {
	snap := feed.Snapshot{Key: key, Path: feed.Join(parent, key), Raw: raw}
	if len(raw) > 0 && raw[0] == '{' {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(raw, &fields); err == nil {
			snap.Children = len(fields)
		}
	}
	return snap
}

func lastSegment(path string) string {
	segments := feed.Split(path)
	if len(segments) == 0 {
		return ""
	}
	return segments[len(segments)-1]
}

func newPushKey() string {
	return uuid.Must(uuid.NewV7()).String()
}
