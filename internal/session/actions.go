package session

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/s21platform/chat-sync/internal/feed"
	"github.com/s21platform/chat-sync/internal/model"
	"github.com/s21platform/chat-sync/internal/store"
)

type target struct {
	channelID string
	private   bool
}

func (t target) messagesPath() string {
	return feed.Join(messagesFeed(t.private), t.channelID)
}

const avatarsPrefix = "avatars/users"

func (t target) uploadPath() string {
	name := uuid.New().String() + ".jpg"
	if t.private {
		return feed.Join("chat/private", t.channelID, name)
	}
	return feed.Join("chat/public", name)
}

var errNoChannel = &model.ValidationError{Field: "channel", Reason: "no channel selected"}

// ChangeChannel switches to a known public or starred channel.
func (s *Session) ChangeChannel(ctx context.Context, channelID string) error {
	var (
		prev target
		err  error
	)
	callErr := s.loop.Call(ctx, func() {
		ch, ok := s.findChannel(channelID)
		if !ok {
			err = &model.ValidationError{Field: "channel", Reason: fmt.Sprintf("unknown channel %s", channelID)}
			s.recordError(err)
			s.notify()
			return
		}
		prev = s.currentTarget()
		s.firstLoad = false
		s.activate(ch, false)
		s.notify()
	})
	if callErr != nil {
		return callErr
	}
	if err != nil {
		return err
	}

	if prev.channelID != "" && prev.channelID != channelID {
		_ = s.typing.ClearTyping(ctx, prev.channelID)
	}
	return nil
}

// OpenPrivateChannel switches to the direct conversation with another user.
func (s *Session) OpenPrivateChannel(ctx context.Context, userID, name string) error {
	if userID == "" || userID == s.identity.ID {
		err := &model.ValidationError{Field: "user", Reason: "cannot open a private channel with this user"}
		s.report(err)
		return err
	}

	ch := model.Channel{
		ID:   model.PrivateChannelID(s.identity.ID, userID),
		Name: name,
	}

	var prev target
	if err := s.loop.Call(ctx, func() {
		prev = s.currentTarget()
		s.firstLoad = false
		s.activate(ch, true)
		s.notify()
	}); err != nil {
		return err
	}

	if prev.channelID != "" && prev.channelID != ch.ID {
		_ = s.typing.ClearTyping(ctx, prev.channelID)
	}
	return nil
}

// CreateChannel validates and publishes a new channel. It reaches the channel
// list through the channels listener like any other channel.
func (s *Session) CreateChannel(ctx context.Context, name, details string) (model.Channel, error) {
	if err := s.validator.ValidateChannel(name, details); err != nil {
		s.report(err)
		return model.Channel{}, err
	}

	ch := model.Channel{
		ID:        uuid.Must(uuid.NewV7()).String(),
		Name:      name,
		Details:   details,
		CreatedBy: s.self().Creator(),
	}

	path := feed.Join(feed.Channels, ch.ID)
	if err := s.feed.Set(ctx, path, ch); err != nil {
		s.logger.Error(fmt.Sprintf("failed to create channel: %v", err))
		fe := &model.FeedError{Op: "set", Path: path, Err: err}
		s.report(fe)
		return model.Channel{}, fe
	}

	s.logger.Info(fmt.Sprintf("user %s created channel %s", s.identity.ID, ch.ID))
	return ch, nil
}

// SendMessage appends a text message to the active channel and clears the
// local typing flag.
func (s *Session) SendMessage(ctx context.Context, content string) error {
	if err := s.validator.ValidateMessage(content); err != nil {
		s.report(err)
		return err
	}

	t, err := s.target(ctx)
	if err != nil {
		return err
	}

	msg := model.Message{
		Timestamp: s.now().UnixMilli(),
		User:      s.self().Author(),
		Content:   content,
	}
	if err := s.push(ctx, t, msg); err != nil {
		return err
	}

	s.clearErrors()
	_ = s.typing.ClearTyping(ctx, t.channelID)
	return nil
}

// SendImage uploads body and appends an image message pointing at it.
// The upload is canceled by teardown or by ctx; only one runs at a time.
func (s *Session) SendImage(ctx context.Context, body io.Reader, contentType string) error {
	if err := s.validator.ValidateImage(contentType); err != nil {
		s.report(err)
		return err
	}
	if s.uploader == nil {
		return &model.UploadError{Err: fmt.Errorf("storage is not configured")}
	}

	t, err := s.target(ctx)
	if err != nil {
		return err
	}

	id, uploadCtx, release, err := s.beginUpload(ctx)
	if err != nil {
		return err
	}
	defer release()

	path := t.uploadPath()
	url, err := s.uploader.Upload(uploadCtx, path, contentType, body)
	if err != nil {
		s.logger.Error(fmt.Sprintf("failed to upload %s: %v", path, err))
		ue := &model.UploadError{Path: path, Err: err}
		s.finishUpload(id, UploadFailed, ue)
		return ue
	}

	msg := model.Message{
		Timestamp: s.now().UnixMilli(),
		User:      s.self().Author(),
		Image:     url,
	}
	if err := s.push(uploadCtx, t, msg); err != nil {
		s.finishUpload(id, UploadFailed, nil)
		return err
	}

	s.finishUpload(id, UploadDone, nil)
	return nil
}

// UpdateAvatar uploads a new profile picture, points the user record at it
// and returns its URL. It shares the upload slot with SendImage.
func (s *Session) UpdateAvatar(ctx context.Context, body io.Reader, contentType string) (string, error) {
	if err := s.validator.ValidateImage(contentType); err != nil {
		s.report(err)
		return "", err
	}
	if s.uploader == nil {
		return "", &model.UploadError{Err: fmt.Errorf("storage is not configured")}
	}

	id, uploadCtx, release, err := s.beginUpload(ctx)
	if err != nil {
		return "", err
	}
	defer release()

	uid := s.identity.ID
	path := feed.Join(avatarsPrefix, uid)
	url, err := s.uploader.Upload(uploadCtx, path, contentType, body)
	if err != nil {
		s.logger.Error(fmt.Sprintf("failed to upload %s: %v", path, err))
		ue := &model.UploadError{Path: path, Err: err}
		s.finishUpload(id, UploadFailed, ue)
		return "", ue
	}

	userPath := feed.Join(feed.Users, uid)
	if err := s.feed.Update(uploadCtx, userPath, map[string]any{"avatar": url}); err != nil {
		s.logger.Error(fmt.Sprintf("failed to update avatar of %s: %v", uid, err))
		fe := &model.FeedError{Op: "update", Path: userPath, Err: err}
		s.finishUpload(id, UploadFailed, fe)
		return "", fe
	}

	s.setAvatar(url)
	s.loop.Post(func() {
		if !s.mounted {
			return
		}
		s.store.Dispatch(store.SetUser{User: s.self()})
	})
	s.logger.Info(fmt.Sprintf("user %s updated avatar", uid))
	s.finishUpload(id, UploadDone, nil)
	return url, nil
}

// SetTyping mirrors the message input: non-empty input marks the user as
// typing in the active channel, empty input clears the mark.
func (s *Session) SetTyping(ctx context.Context, input string) error {
	t, err := s.target(ctx)
	if err != nil {
		return err
	}
	if err := s.typing.SetTyping(ctx, t.channelID, input); err != nil {
		s.report(err)
		return err
	}
	return nil
}

// Search sets the live search term and returns the matching messages. An
// empty term turns search off and returns the unfiltered sequence.
func (s *Session) Search(ctx context.Context, term string) (model.MessageList, error) {
	var out model.MessageList
	err := s.loop.Call(ctx, func() {
		s.store.Dispatch(store.SetSearchTerm{Term: term})
		if term == "" {
			out = s.messages.Messages()
		} else {
			out = s.messages.Search(term)
		}
		s.notify()
	})
	return out, err
}

// ToggleStar stars or unstars the active public channel and reports the new state.
func (s *Session) ToggleStar(ctx context.Context) (bool, error) {
	var (
		ch      model.Channel
		starred bool
		err     error
	)
	callErr := s.loop.Call(ctx, func() {
		state := s.store.State()
		current, ok := store.CurrentChannel(state)
		if !ok || store.IsPrivateChannel(state) {
			err = &model.ValidationError{Field: "channel", Reason: "only public channels can be starred"}
			s.recordError(err)
			s.notify()
			return
		}
		ch = current
		s.channelStarred = !s.channelStarred
		s.starredVersion++
		starred = s.channelStarred
		s.notify()
	})
	if callErr != nil {
		return false, callErr
	}
	if err != nil {
		return false, err
	}

	base := feed.Join(feed.Users, s.identity.ID, feed.Starred)
	if starred {
		err = s.feed.Update(ctx, base, map[string]any{
			ch.ID: model.Channel{Name: ch.Name, Details: ch.Details, CreatedBy: ch.CreatedBy},
		})
	} else {
		err = s.feed.Remove(ctx, feed.Join(base, ch.ID))
	}
	if err != nil {
		s.logger.Error(fmt.Sprintf("failed to toggle star on %s: %v", ch.ID, err))
		fe := &model.FeedError{Op: "star", Path: base, Err: err}
		s.report(fe)
		return !starred, fe
	}
	return starred, nil
}

func (s *Session) target(ctx context.Context) (target, error) {
	var t target
	if err := s.loop.Call(ctx, func() {
		t = s.currentTarget()
	}); err != nil {
		return target{}, err
	}
	if t.channelID == "" {
		s.report(errNoChannel)
		return target{}, errNoChannel
	}
	return t, nil
}

func (s *Session) currentTarget() target {
	state := s.store.State()
	return target{
		channelID: store.CurrentChannelID(state),
		private:   store.IsPrivateChannel(state),
	}
}

func (s *Session) push(ctx context.Context, t target, msg model.Message) error {
	path := t.messagesPath()
	if _, err := s.feed.Push(ctx, path, msg); err != nil {
		s.logger.Error(fmt.Sprintf("failed to send message to %s: %v", path, err))
		fe := &model.FeedError{Op: "push", Path: path, Err: err}
		s.report(fe)
		return fe
	}
	return nil
}

func (s *Session) clearErrors() {
	s.loop.Post(func() {
		if !s.mounted {
			return
		}
		s.errors = nil
		s.notify()
	})
}

// beginUpload claims the upload slot. The returned context is canceled by
// teardown, by ctx or by release.
func (s *Session) beginUpload(ctx context.Context) (int, context.Context, func(), error) {
	uploadCtx, cancel := context.WithCancel(s.ctx)
	stop := context.AfterFunc(ctx, cancel)
	release := func() {
		stop()
		cancel()
	}

	var (
		id   int
		busy bool
	)
	if err := s.loop.Call(ctx, func() {
		if s.upload.state == UploadUploading {
			busy = true
			return
		}
		s.upload.id++
		id = s.upload.id
		s.upload.state = UploadUploading
		s.upload.cancel = cancel
		s.notify()
	}); err != nil {
		release()
		return 0, nil, nil, err
	}
	if busy {
		release()
		err := &model.ValidationError{Field: "file", Reason: "an upload is already in progress"}
		s.report(err)
		return 0, nil, nil, err
	}
	return id, uploadCtx, release, nil
}

// finishUpload records the outcome unless the session was torn down or a
// newer upload took over.
func (s *Session) finishUpload(id int, state string, err error) {
	s.loop.Post(func() {
		if !s.mounted || s.upload.id != id {
			return
		}
		s.upload.state = state
		s.upload.cancel = nil
		if err != nil {
			s.recordError(err)
		}
		s.notify()
	})
}
