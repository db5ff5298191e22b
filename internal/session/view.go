package session

import (
	"context"

	"github.com/s21platform/chat-sync/internal/model"
	"github.com/s21platform/chat-sync/internal/store"
)

const topPostersLimit = 5

// View is a read-only snapshot of every derived view the render layer needs.
type View struct {
	User             model.Identity            `json:"user"`
	Channels         model.ChannelList         `json:"channels"`
	CurrentChannel   *model.Channel            `json:"currentChannel,omitempty"`
	ChannelName      string                    `json:"channelName"`
	IsPrivateChannel bool                      `json:"isPrivateChannel"`
	Messages         model.MessageList         `json:"messages"`
	MessagesLoading  bool                      `json:"messagesLoading"`
	UniqueUsers      string                    `json:"uniqueUsers"`
	UserPosts        model.UserPosts           `json:"userPosts"`
	TopPosters       []store.Poster            `json:"topPosters"`
	Unread           map[string]int            `json:"unread"`
	Notifications    []model.NotificationEntry `json:"notifications"`
	Typing           []model.TypingEntry       `json:"typing"`
	SearchTerm       string                    `json:"searchTerm"`
	SearchResults    model.MessageList         `json:"searchResults,omitempty"`
	Starred          model.ChannelList         `json:"starred"`
	IsChannelStarred bool                      `json:"isChannelStarred"`
	Connected        bool                      `json:"connected"`
	UploadState      string                    `json:"uploadState"`
	Errors           []string                  `json:"errors,omitempty"`
}

// DisplayedMessages is what the message list shows: search results while a
// term is set, the whole sequence otherwise.
func (v View) DisplayedMessages() model.MessageList {
	if v.SearchTerm != "" {
		return v.SearchResults
	}
	return v.Messages
}

func (s *Session) View(ctx context.Context) (View, error) {
	var v View
	err := s.loop.Call(ctx, func() {
		v = s.snapshot()
	})
	return v, err
}

func (s *Session) snapshot() View {
	state := s.store.State()

	v := View{
		User:             s.self(),
		Channels:         append(model.ChannelList(nil), s.channels...),
		IsPrivateChannel: store.IsPrivateChannel(state),
		Messages:         s.messages.Messages(),
		MessagesLoading:  s.messagesLoading,
		UniqueUsers:      s.messages.UniqueUsersLabel(),
		UserPosts:        state.Channel.UserPosts,
		TopPosters:       store.TopPosters(state, topPostersLimit),
		Unread:           s.notifications.UnreadCounts(),
		Notifications:    s.notifications.Entries(),
		Typing:           s.typing.Users(),
		SearchTerm:       store.SearchTerm(state),
		Starred:          append(model.ChannelList(nil), s.starred...),
		IsChannelStarred: s.channelStarred,
		Connected:        s.typing.Connected(),
		UploadState:      s.upload.state,
		Errors:           append([]string(nil), s.errors...),
	}

	if ch, ok := store.CurrentChannel(state); ok {
		v.CurrentChannel = &ch
		v.ChannelName = ch.DisplayName(v.IsPrivateChannel)
	}
	if v.SearchTerm != "" {
		v.SearchResults = s.messages.Search(v.SearchTerm)
	}
	return v
}
