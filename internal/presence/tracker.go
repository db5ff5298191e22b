package presence

import (
	"context"
	"errors"
	"fmt"

	logger_lib "github.com/s21platform/logger-lib"

	"github.com/s21platform/chat-sync/internal/feed"
	"github.com/s21platform/chat-sync/internal/model"
)

var ErrNoIdentity = errors.New("presence tracker requires the local user id")

// Tracker maintains who is typing in the active channel, excluding the local
// user, and keeps the local user's own typing entry self-healing across
// ungraceful disconnects.
type Tracker struct {
	self   model.Identity
	feed   feed.Feed
	logger logger_lib.LoggerInterface

	channelID string
	entries   []model.TypingEntry
	connected bool
}

func New(self model.Identity, f feed.Feed, logger logger_lib.LoggerInterface) (*Tracker, error) {
	if self.ID == "" {
		return nil, ErrNoIdentity
	}
	return &Tracker{
		self:   self,
		feed:   f,
		logger: logger,
	}, nil
}

func (t *Tracker) ChannelID() string {
	return t.channelID
}

// SetChannel moves the tracker to another channel, dropping the live set.
// While online the disconnect cleanup is registered for the new channel.
func (t *Tracker) SetChannel(ctx context.Context, channelID string) error {
	t.channelID = channelID
	t.entries = nil
	if t.connected && channelID != "" {
		return t.registerCleanup(ctx)
	}
	return nil
}

// OnAdded inserts a typing user. The local user and duplicates are ignored.
func (t *Tracker) OnAdded(channelID, userID, displayName string) bool {
	if channelID != t.channelID || userID == t.self.ID {
		return false
	}
	if t.index(userID) != -1 {
		return false
	}
	t.entries = append(t.entries, model.TypingEntry{UserID: userID, DisplayName: displayName})
	return true
}

// OnRemoved deletes the entry for userID, if any.
func (t *Tracker) OnRemoved(channelID, userID string) bool {
	if channelID != t.channelID {
		return false
	}
	i := t.index(userID)
	if i == -1 {
		return false
	}
	t.entries = append(t.entries[:i], t.entries[i+1:]...)
	return true
}

func (t *Tracker) Users() []model.TypingEntry {
	return append([]model.TypingEntry(nil), t.entries...)
}

func (t *Tracker) Connected() bool {
	return t.connected
}

// OnConnectionChanged re-issues the disconnect cleanup every time the client
// comes online; the server forgets it once the connection is lost.
func (t *Tracker) OnConnectionChanged(ctx context.Context, connected bool) error {
	t.connected = connected
	if !connected {
		t.logger.Warn(fmt.Sprintf("feed connection lost for user %s", t.self.ID))
		return nil
	}
	if t.channelID == "" {
		return nil
	}
	return t.registerCleanup(ctx)
}

// SetTyping publishes the local typing flag in channelID for non-empty input
// and clears it otherwise. It reads no tracker state besides the identity, so
// it may run outside the owning event loop.
func (t *Tracker) SetTyping(ctx context.Context, channelID, input string) error {
	if channelID == "" {
		return nil
	}
	if input == "" {
		return t.ClearTyping(ctx, channelID)
	}
	path := t.ownPath(channelID)
	if err := t.feed.Set(ctx, path, t.self.DisplayName); err != nil {
		t.logger.Error(fmt.Sprintf("failed to set typing flag: %v", err))
		return &model.FeedError{Op: "set", Path: path, Err: err}
	}
	return nil
}

// ClearTyping removes the local user's typing entry from channelID.
func (t *Tracker) ClearTyping(ctx context.Context, channelID string) error {
	if channelID == "" {
		return nil
	}
	path := t.ownPath(channelID)
	if err := t.feed.Remove(ctx, path); err != nil {
		t.logger.Error(fmt.Sprintf("failed to clear typing flag: %v", err))
		return &model.FeedError{Op: "remove", Path: path, Err: err}
	}
	return nil
}

func (t *Tracker) registerCleanup(ctx context.Context) error {
	path := t.ownPath(t.channelID)
	if err := t.feed.OnDisconnectRemove(ctx, path); err != nil {
		t.logger.Error(fmt.Sprintf("failed to register disconnect cleanup for %s: %v", path, err))
		return &model.FeedError{Op: "onDisconnect", Path: path, Err: err}
	}
	return nil
}

func (t *Tracker) ownPath(channelID string) string {
	return feed.Join(feed.Typing, channelID, t.self.ID)
}

func (t *Tracker) index(userID string) int {
	for i, e := range t.entries {
		if e.UserID == userID {
			return i
		}
	}
	return -1
}
