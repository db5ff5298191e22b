package aggregator

import (
	"fmt"

	"github.com/s21platform/chat-sync/internal/model"
)

// Messages accumulates the message feed of one channel in arrival order and
// keeps speaker statistics up to date incrementally.
type Messages struct {
	channelID string
	messages  model.MessageList
	speakers  map[string]struct{}
	posts     model.UserPosts
}

func New(channelID string) *Messages {
	a := &Messages{}
	a.Reset(channelID)
	return a
}

// Reset discards everything and starts aggregating channelID.
func (a *Messages) Reset(channelID string) {
	a.channelID = channelID
	a.messages = nil
	a.speakers = map[string]struct{}{}
	a.posts = model.UserPosts{}
}

func (a *Messages) ChannelID() string {
	return a.channelID
}

// OnMessageAppended records msg if it belongs to the aggregated channel.
// Events for any other channel are ignored and reported as false.
func (a *Messages) OnMessageAppended(channelID string, msg model.Message) bool {
	if channelID != a.channelID {
		return false
	}
	a.messages = append(a.messages, msg)

	name := msg.User.Name
	a.speakers[name] = struct{}{}

	post, ok := a.posts[name]
	if !ok {
		post = model.UserPost{Avatar: msg.User.Avatar}
	}
	post.Count++
	a.posts[name] = post
	return true
}

func (a *Messages) Len() int {
	return len(a.messages)
}

func (a *Messages) Messages() model.MessageList {
	return append(model.MessageList(nil), a.messages...)
}

func (a *Messages) UniqueUsers() int {
	return len(a.speakers)
}

func (a *Messages) UniqueUsersLabel() string {
	return FormatUniqueUsers(len(a.speakers))
}

func (a *Messages) UserPosts() model.UserPosts {
	out := make(model.UserPosts, len(a.posts))
	for name, post := range a.posts {
		out[name] = post
	}
	return out
}

// Search filters the aggregated sequence without touching it.
func (a *Messages) Search(term string) model.MessageList {
	return Search(a.messages, term)
}

// FormatUniqueUsers renders "1 user"; every other count, zero included, is plural.
func FormatUniqueUsers(n int) string {
	if n == 1 {
		return "1 user"
	}
	return fmt.Sprintf("%d users", n)
}
