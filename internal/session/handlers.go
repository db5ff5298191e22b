package session

import (
	"encoding/json"
	"fmt"

	"github.com/s21platform/chat-sync/internal/feed"
	"github.com/s21platform/chat-sync/internal/listener"
	"github.com/s21platform/chat-sync/internal/model"
	"github.com/s21platform/chat-sync/internal/store"
)

func messagesFeed(private bool) string {
	if private {
		return feed.PrivateMessages
	}
	return feed.Messages
}

// channelRecords are the listeners scoped to the active channel.
func channelRecords(channelID string, private bool) []listener.Record {
	return []listener.Record{
		{EntityID: channelID, FeedName: messagesFeed(private), EventKind: feed.ChildAdded},
		{EntityID: channelID, FeedName: feed.Typing, EventKind: feed.ChildAdded},
		{EntityID: channelID, FeedName: feed.Typing, EventKind: feed.ChildRemoved},
	}
}

func (s *Session) onChannelAdded(snap feed.Snapshot) {
	var ch model.Channel
	if err := snap.Decode(&ch); err != nil {
		s.logger.Error(fmt.Sprintf("failed to decode channel %s: %v", snap.Key, err))
		return
	}
	if ch.ID == "" {
		ch.ID = snap.Key
	}
	if s.channelIndex(ch.ID) != -1 {
		return
	}
	s.channels = append(s.channels, ch)

	// Every channel is tracked for unread counts, not only the active one.
	s.attach(listener.Record{EntityID: ch.ID, FeedName: feed.Messages, EventKind: feed.Value},
		s.deliver(func(snap feed.Snapshot) {
			s.onMessageCount(ch.ID, snap.Children)
		}))

	if !s.firstLoad {
		return
	}
	s.firstLoad = false
	if store.CurrentChannelID(s.store.State()) == "" {
		s.activate(ch, false)
	}
}

func (s *Session) onMessageCount(channelID string, total int) {
	s.notifications.Observe(channelID, total)
	if total == 0 && s.messages.ChannelID() == channelID {
		s.messagesLoading = false
	}
}

func (s *Session) onMessage(channelID string, snap feed.Snapshot) {
	var msg model.Message
	if err := snap.Decode(&msg); err != nil {
		s.logger.Error(fmt.Sprintf("failed to decode message %s: %v", snap.Key, err))
		return
	}
	if !s.messages.OnMessageAppended(channelID, msg) {
		return
	}
	s.messagesLoading = false
	s.store.Dispatch(store.SetUserPosts{Posts: s.messages.UserPosts()})
}

func (s *Session) onTypingAdded(channelID string, snap feed.Snapshot) {
	var name string
	if err := snap.Decode(&name); err != nil {
		s.logger.Error(fmt.Sprintf("failed to decode typing entry %s: %v", snap.Key, err))
		return
	}
	s.typing.OnAdded(channelID, snap.Key, name)
}

func (s *Session) onStarredAdded(snap feed.Snapshot) {
	var ch model.Channel
	if err := snap.Decode(&ch); err != nil {
		s.logger.Error(fmt.Sprintf("failed to decode starred channel %s: %v", snap.Key, err))
		return
	}
	ch.ID = snap.Key
	s.starredVersion++
	if s.starredIndex(ch.ID) == -1 {
		s.starred = append(s.starred, ch)
	}
	if ch.ID == store.CurrentChannelID(s.store.State()) {
		s.channelStarred = true
	}
}

func (s *Session) onStarredRemoved(snap feed.Snapshot) {
	s.starredVersion++
	if i := s.starredIndex(snap.Key); i != -1 {
		s.starred = append(s.starred[:i], s.starred[i+1:]...)
	}
	if snap.Key == store.CurrentChannelID(s.store.State()) {
		s.channelStarred = false
	}
}

func (s *Session) onConnection(connected bool) {
	s.loop.Post(func() {
		if !s.mounted {
			return
		}
		// Errors are logged by the tracker; a failed cleanup registration
		// is retried on the next reconnect.
		_ = s.typing.OnConnectionChanged(s.ctx, connected)
		s.notify()
	})
}

// activate switches the session to ch: the previous channel's scoped
// listeners are detached, fresh ones attached, the unread baseline cleared
// and the search term reset.
func (s *Session) activate(ch model.Channel, private bool) {
	state := s.store.State()
	if prev, ok := store.CurrentChannel(state); ok {
		for _, rec := range channelRecords(prev.ID, store.IsPrivateChannel(state)) {
			s.registry.Detach(rec)
		}
	}

	s.generation++
	gen := s.generation

	s.store.Dispatch(store.SetCurrentChannel{Channel: ch})
	s.store.Dispatch(store.SetPrivateChannel{Private: private})
	s.store.Dispatch(store.SetSearchTerm{})
	s.store.Dispatch(store.SetUserPosts{})

	s.messages.Reset(ch.ID)
	s.messagesLoading = true
	s.notifications.Activate(ch.ID)
	if entry, ok := s.notifications.Entry(ch.ID); ok && entry.LastKnownTotal == 0 {
		s.messagesLoading = false
	}
	s.channelStarred = s.starredIndex(ch.ID) != -1

	if err := s.typing.SetChannel(s.ctx, ch.ID); err != nil {
		s.recordError(err)
	}

	recs := channelRecords(ch.ID, private)
	s.attach(recs[0], s.deliverScoped(gen, func(snap feed.Snapshot) {
		s.onMessage(ch.ID, snap)
	}))
	s.attach(recs[1], s.deliverScoped(gen, func(snap feed.Snapshot) {
		s.onTypingAdded(ch.ID, snap)
	}))
	s.attach(recs[2], s.deliverScoped(gen, func(snap feed.Snapshot) {
		s.typing.OnRemoved(ch.ID, snap.Key)
	}))

	if !private {
		go s.resolveStarred(gen, s.starredVersion, ch.ID)
	}

	s.logger.Info(fmt.Sprintf("user %s switched to channel %s", s.identity.ID, ch.ID))
}

// resolveStarred reads the user's starred set once, off the loop. The answer
// is dropped if the live starred listener reported anything in the meantime.
func (s *Session) resolveStarred(gen, version uint64, channelID string) {
	path := feed.Join(feed.Users, s.identity.ID, feed.Starred)
	snap, err := s.feed.ReadOnce(s.ctx, path)

	s.loop.Post(func() {
		if !s.mounted || gen != s.generation || version != s.starredVersion {
			return
		}
		if err != nil {
			s.logger.Error(fmt.Sprintf("failed to read starred channels: %v", err))
			return
		}
		var starred map[string]json.RawMessage
		if err := snap.Decode(&starred); err != nil {
			s.logger.Error(fmt.Sprintf("failed to decode starred channels: %v", err))
			return
		}
		_, s.channelStarred = starred[channelID]
		s.notify()
	})
}

func (s *Session) findChannel(id string) (model.Channel, bool) {
	if i := s.channelIndex(id); i != -1 {
		return s.channels[i], true
	}
	if i := s.starredIndex(id); i != -1 {
		return s.starred[i], true
	}
	return model.Channel{}, false
}

func (s *Session) channelIndex(id string) int {
	for i, ch := range s.channels {
		if ch.ID == id {
			return i
		}
	}
	return -1
}

func (s *Session) starredIndex(id string) int {
	for i, ch := range s.starred {
		if ch.ID == id {
			return i
		}
	}
	return -1
}
