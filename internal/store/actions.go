package store

import "github.com/s21platform/chat-sync/internal/model"

// Action is one of the declared state transitions.
type Action interface {
	actionName() string
}

type SetUser struct {
	User model.Identity
}

type ClearUser struct{}

type SetCurrentChannel struct {
	Channel model.Channel
}

type SetPrivateChannel struct {
	Private bool
}

type SetUserPosts struct {
	Posts model.UserPosts
}

type SetSearchTerm struct {
	Term string
}

func (SetUser) actionName() string           { return "SET_USER" }
func (ClearUser) actionName() string         { return "CLEAR_USER" }
func (SetCurrentChannel) actionName() string { return "SET_CURRENT_CHANNEL" }
func (SetPrivateChannel) actionName() string { return "SET_PRIVATE_CHANNEL" }
func (SetUserPosts) actionName() string      { return "SET_USER_POSTS" }
func (SetSearchTerm) actionName() string     { return "SET_SEARCH_TERM" }

// Name returns the wire name of an action, used in logs.
func Name(a Action) string {
	return a.actionName()
}
