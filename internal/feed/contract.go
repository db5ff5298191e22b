package feed

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
)

type EventKind string

const (
	ChildAdded   EventKind = "child_added"
	ChildRemoved EventKind = "child_removed"
	Value        EventKind = "value"
	Connection   EventKind = "connection"
)

// Top-level feeds.
const (
	Channels        = "channels"
	Messages        = "messages"
	PrivateMessages = "privateMessages"
	Typing          = "typing"
	Users           = "users"
	Starred         = "starred"
	ConnectedInfo   = ".info/connected"
)

var (
	ErrDisconnected = errors.New("feed connection is offline")
	ErrInvalidPath  = errors.New("invalid feed path")
	ErrUnsupported  = errors.New("unsupported event kind")
)

// Snapshot is the state of a single feed location at delivery time.
type Snapshot struct {
	Key      string
	Path     string
	Raw      json.RawMessage
	Children int
}

func (s Snapshot) Exists() bool {
	return len(s.Raw) > 0
}

func (s Snapshot) Decode(v any) error {
	if !s.Exists() {
		return nil
	}
	return json.Unmarshal(s.Raw, v)
}

type Handler func(Snapshot)

type ConnectionHandler func(connected bool)

type Handle interface {
	Detach()
}

// Feed is the client-side view of the remote, push-based data store.
// Handlers are invoked on the feed's delivery goroutine and must not block
// or call back into the feed.
type Feed interface {
	Subscribe(path string, kind EventKind, h Handler) (Handle, error)
	Unsubscribe(path string, kind EventKind)
	ConnectionState(h ConnectionHandler) (Handle, error)

	ReadOnce(ctx context.Context, path string) (Snapshot, error)
	Push(ctx context.Context, path string, value any) (string, error)
	Set(ctx context.Context, path string, value any) error
	Update(ctx context.Context, path string, values map[string]any) error
	Remove(ctx context.Context, path string) error
	OnDisconnectRemove(ctx context.Context, path string) error
}

// Join builds a feed path from segments, dropping surrounding slashes.
func Join(segments ...string) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		s = strings.Trim(s, "/")
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "/")
}

// Split returns the non-empty segments of a path.
func Split(path string) []string {
	raw := strings.Split(strings.Trim(path, "/"), "/")
	out := raw[:0]
	for _, s := range raw {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
