// Package listener keeps the set of live feed subscriptions owned by one
// session and guarantees that each (entity, feed, event) triple is attached
// at most once.
package listener

import (
	"fmt"

	logger_lib "github.com/s21platform/logger-lib"

	"github.com/s21platform/chat-sync/internal/feed"
	"github.com/s21platform/chat-sync/internal/model"
)

// Record identifies one subscription. It is the only de-duplication key.
type Record struct {
	EntityID  string         `json:"entityId"`
	FeedName  string         `json:"feedName"`
	EventKind feed.EventKind `json:"eventKind"`
}

// Path resolves the feed location the record listens on.
func (r Record) Path() string {
	switch r.FeedName {
	case feed.ConnectedInfo:
		return feed.ConnectedInfo
	case feed.Starred:
		return feed.Join(feed.Users, r.EntityID, feed.Starred)
	default:
		return feed.Join(r.FeedName, r.EntityID)
	}
}

func (r Record) String() string {
	return fmt.Sprintf("%s/%s:%s", r.FeedName, r.EntityID, r.EventKind)
}

// Registry is not safe for concurrent use; it belongs to a single event loop.
type Registry struct {
	feed   feed.Feed
	logger logger_lib.LoggerInterface

	active map[Record]feed.Handle
	order  []Record
}

func New(f feed.Feed, logger logger_lib.LoggerInterface) *Registry {
	return &Registry{
		feed:   f,
		logger: logger,
		active: map[Record]feed.Handle{},
	}
}

// Register attaches h for rec unless an identical record is already active.
// A subscribe failure is logged and returned; nothing is recorded for it.
func (r *Registry) Register(rec Record, h feed.Handler) (bool, error) {
	if rec.EventKind == feed.Connection {
		return false, fmt.Errorf("register %s: %w", rec, feed.ErrUnsupported)
	}
	if _, ok := r.active[rec]; ok {
		return false, nil
	}

	handle, err := r.feed.Subscribe(rec.Path(), rec.EventKind, h)
	if err != nil {
		r.logger.Error(fmt.Sprintf("failed to attach listener %s: %v", rec, err))
		return false, &model.FeedError{Op: "subscribe", Path: rec.Path(), Err: err}
	}

	r.track(rec, handle)
	return true, nil
}

// RegisterConnection attaches a connectivity-state listener under the given entity.
func (r *Registry) RegisterConnection(entityID string, h feed.ConnectionHandler) (bool, error) {
	rec := Record{EntityID: entityID, FeedName: feed.ConnectedInfo, EventKind: feed.Connection}
	if _, ok := r.active[rec]; ok {
		return false, nil
	}

	handle, err := r.feed.ConnectionState(h)
	if err != nil {
		r.logger.Error(fmt.Sprintf("failed to attach listener %s: %v", rec, err))
		return false, &model.FeedError{Op: "subscribe", Path: feed.ConnectedInfo, Err: err}
	}

	r.track(rec, handle)
	return true, nil
}

func (r *Registry) track(rec Record, handle feed.Handle) {
	r.active[rec] = handle
	r.order = append(r.order, rec)
}

// Detach removes a single listener. It reports whether the record was active.
func (r *Registry) Detach(rec Record) bool {
	handle, ok := r.active[rec]
	if !ok {
		return false
	}
	handle.Detach()
	delete(r.active, rec)
	for i, o := range r.order {
		if o == rec {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// TeardownAll detaches every tracked listener in registration order and clears
// the registry. Calling it on an empty registry does nothing.
func (r *Registry) TeardownAll() int {
	n := len(r.order)
	for _, rec := range r.order {
		r.active[rec].Detach()
	}
	r.active = map[Record]feed.Handle{}
	r.order = nil
	return n
}

func (r *Registry) Active(rec Record) bool {
	_, ok := r.active[rec]
	return ok
}

func (r *Registry) Len() int {
	return len(r.order)
}

// Records returns the active records in registration order.
func (r *Registry) Records() []Record {
	return append([]Record(nil), r.order...)
}
