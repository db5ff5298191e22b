// Package session is the synchronization engine behind one UI context: it
// attaches the feed listeners a signed-in user needs, folds the streamed
// records into derived views and exposes the user's actions.
//
// All state is owned by the session's event loop. Feed handlers, user actions
// and completions of asynchronous work are posted to it and run one at a time.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	logger_lib "github.com/s21platform/logger-lib"

	"github.com/s21platform/chat-sync/internal/aggregator"
	"github.com/s21platform/chat-sync/internal/feed"
	"github.com/s21platform/chat-sync/internal/listener"
	"github.com/s21platform/chat-sync/internal/model"
	"github.com/s21platform/chat-sync/internal/notification"
	"github.com/s21platform/chat-sync/internal/presence"
	"github.com/s21platform/chat-sync/internal/store"
)

const (
	UploadIdle      = ""
	UploadUploading = "uploading"
	UploadDone      = "done"
	UploadFailed    = "error"
)

type Deps struct {
	Feed      feed.Feed
	Uploader  Uploader
	Validator Validator
	Logger    logger_lib.LoggerInterface
	Now       func() time.Time
}

type Session struct {
	identityMu sync.RWMutex
	identity   model.Identity
	feed       feed.Feed
	uploader   Uploader
	validator  Validator
	logger     logger_lib.LoggerInterface
	now        func() time.Time

	loop     *Loop
	ctx      context.Context
	cancel   context.CancelFunc
	teardown sync.Once

	watchMu       sync.Mutex
	watchers      map[int]chan struct{}
	nextWatcher   int
	watchersClose bool

	// Owned by the loop.
	mounted         bool
	generation      uint64
	registry        *listener.Registry
	store           *store.Store
	messages        *aggregator.Messages
	notifications   *notification.Tracker
	typing          *presence.Tracker
	channels        model.ChannelList
	firstLoad       bool
	messagesLoading bool
	starred         model.ChannelList
	channelStarred  bool
	starredVersion  uint64
	upload          upload
	errors          []string
}

type upload struct {
	id     int
	state  string
	cancel context.CancelFunc
}

// Mount creates the session, attaches its listeners and registers the user
// in the feed. Listener failures are not fatal: they are logged, surfaced in
// the view's errors and the session keeps working on partial data.
func Mount(ctx context.Context, identity model.Identity, deps Deps) (*Session, error) {
	typing, err := presence.New(identity, deps.Feed, deps.Logger)
	if err != nil {
		return nil, err
	}

	now := deps.Now
	if now == nil {
		now = time.Now
	}

	sessionCtx, cancel := context.WithCancel(context.Background())
	s := &Session{
		identity:      identity,
		feed:          deps.Feed,
		uploader:      deps.Uploader,
		validator:     deps.Validator,
		logger:        deps.Logger,
		now:           now,
		loop:          NewLoop(),
		ctx:           sessionCtx,
		cancel:        cancel,
		watchers:      map[int]chan struct{}{},
		registry:      listener.New(deps.Feed, deps.Logger),
		store:         store.New(),
		messages:      aggregator.New(""),
		notifications: notification.New(),
		typing:        typing,
	}
	go s.loop.Run()

	if err := s.loop.Call(ctx, s.mount); err != nil {
		_ = s.Teardown(context.Background())
		return nil, err
	}

	userPath := feed.Join(feed.Users, identity.ID)
	err = s.feed.Update(ctx, userPath, map[string]any{
		"name":   identity.DisplayName,
		"avatar": identity.AvatarURL,
	})
	if err != nil {
		s.logger.Error(fmt.Sprintf("failed to save user %s: %v", identity.ID, err))
		s.report(&model.FeedError{Op: "update", Path: userPath, Err: err})
	}

	return s, nil
}

func (s *Session) mount() {
	s.mounted = true
	s.firstLoad = true
	s.store.Dispatch(store.SetUser{User: s.identity})

	uid := s.identity.ID
	s.attach(listener.Record{FeedName: feed.Channels, EventKind: feed.ChildAdded}, s.deliver(s.onChannelAdded))
	s.attach(listener.Record{EntityID: uid, FeedName: feed.Starred, EventKind: feed.ChildAdded}, s.deliver(s.onStarredAdded))
	s.attach(listener.Record{EntityID: uid, FeedName: feed.Starred, EventKind: feed.ChildRemoved}, s.deliver(s.onStarredRemoved))

	if _, err := s.registry.RegisterConnection(uid, s.onConnection); err != nil {
		s.recordError(err)
	}

	s.logger.Info(fmt.Sprintf("session mounted for user %s", uid))
}

// Teardown detaches every listener before any further event can mutate
// state, cancels a pending upload and stops the loop. It is idempotent.
func (s *Session) Teardown(ctx context.Context) error {
	var err error
	s.teardown.Do(func() {
		var channelID string
		err = s.loop.Call(ctx, func() {
			channelID = store.CurrentChannelID(s.store.State())
			detached := s.registry.TeardownAll()
			s.mounted = false
			if s.upload.cancel != nil {
				s.upload.cancel()
				s.upload.cancel = nil
			}
			s.store.Dispatch(store.ClearUser{})
			s.logger.Info(fmt.Sprintf("session for user %s torn down, %d listeners detached", s.identity.ID, detached))
		})
		s.cancel()
		s.loop.Close()
		s.closeWatchers()

		if channelID != "" {
			_ = s.typing.ClearTyping(ctx, channelID)
		}
	})
	return err
}

func (s *Session) Identity() model.Identity {
	return s.self()
}

func (s *Session) self() model.Identity {
	s.identityMu.RLock()
	defer s.identityMu.RUnlock()
	return s.identity
}

func (s *Session) setAvatar(url string) {
	s.identityMu.Lock()
	s.identity.AvatarURL = url
	s.identityMu.Unlock()
}

// Done is closed once the loop has stopped after teardown.
func (s *Session) Done() <-chan struct{} {
	return s.loop.Done()
}

// Watch returns a channel signalled (coalesced) after every processed event.
// It is closed on teardown.
func (s *Session) Watch() (<-chan struct{}, func()) {
	s.watchMu.Lock()
	defer s.watchMu.Unlock()

	ch := make(chan struct{}, 1)
	if s.watchersClose {
		close(ch)
		return ch, func() {}
	}

	id := s.nextWatcher
	s.nextWatcher++
	s.watchers[id] = ch

	return ch, func() {
		s.watchMu.Lock()
		defer s.watchMu.Unlock()
		if c, ok := s.watchers[id]; ok {
			delete(s.watchers, id)
			close(c)
		}
	}
}

func (s *Session) notify() {
	s.watchMu.Lock()
	defer s.watchMu.Unlock()
	for _, ch := range s.watchers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func (s *Session) closeWatchers() {
	s.watchMu.Lock()
	defer s.watchMu.Unlock()
	s.watchersClose = true
	for id, ch := range s.watchers {
		delete(s.watchers, id)
		close(ch)
	}
}

// Listeners lists the active subscriptions in registration order.
func (s *Session) Listeners(ctx context.Context) ([]listener.Record, error) {
	var records []listener.Record
	err := s.loop.Call(ctx, func() {
		records = s.registry.Records()
	})
	return records, err
}

// ----------------------------- loop helpers -----------------------------

// deliver turns fn into a feed handler that runs on the loop while mounted.
func (s *Session) deliver(fn func(feed.Snapshot)) feed.Handler {
	return func(snap feed.Snapshot) {
		s.loop.Post(func() {
			if !s.mounted {
				return
			}
			fn(snap)
			s.notify()
		})
	}
}

// deliverScoped additionally drops events from an attachment made for an
// earlier channel activation.
func (s *Session) deliverScoped(gen uint64, fn func(feed.Snapshot)) feed.Handler {
	return s.deliver(func(snap feed.Snapshot) {
		if gen != s.generation {
			return
		}
		fn(snap)
	})
}

func (s *Session) attach(rec listener.Record, h feed.Handler) {
	if _, err := s.registry.Register(rec, h); err != nil {
		s.recordError(err)
	}
}

func (s *Session) recordError(err error) {
	s.errors = append(s.errors, err.Error())
}

// report records err from outside the loop.
func (s *Session) report(err error) {
	s.loop.Post(func() {
		if !s.mounted {
			return
		}
		s.recordError(err)
		s.notify()
	})
}
