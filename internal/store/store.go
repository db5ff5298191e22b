package store

import (
	"sort"

	"github.com/s21platform/chat-sync/internal/model"
)

type State struct {
	User    UserState    `json:"user"`
	Channel ChannelState `json:"channel"`
	Search  SearchState  `json:"search"`
}

type UserState struct {
	CurrentUser *model.Identity `json:"currentUser"`
	IsLoading   bool            `json:"isLoading"`
}

type ChannelState struct {
	CurrentChannel   *model.Channel  `json:"currentChannel"`
	IsPrivateChannel bool            `json:"isPrivateChannel"`
	UserPosts        model.UserPosts `json:"userPosts"`
}

type SearchState struct {
	Term string `json:"term"`
}

func Initial() State {
	return State{User: UserState{IsLoading: true}}
}

// Reduce is pure: it never mutates s.
func Reduce(s State, a Action) State {
	switch act := a.(type) {
	case SetUser:
		user := act.User
		s.User = UserState{CurrentUser: &user}
	case ClearUser:
		s.User = UserState{}
	case SetCurrentChannel:
		channel := act.Channel
		s.Channel.CurrentChannel = &channel
	case SetPrivateChannel:
		s.Channel.IsPrivateChannel = act.Private
	case SetUserPosts:
		posts := make(model.UserPosts, len(act.Posts))
		for k, v := range act.Posts {
			posts[k] = v
		}
		s.Channel.UserPosts = posts
	case SetSearchTerm:
		s.Search.Term = act.Term
	}
	return s
}

// Store holds the application state. It is owned by a single event loop.
type Store struct {
	state State
}

func New() *Store {
	return &Store{state: Initial()}
}

func (s *Store) Dispatch(a Action) {
	s.state = Reduce(s.state, a)
}

func (s *Store) State() State {
	return s.state
}

// ----------------------------- selectors -----------------------------

func CurrentUser(s State) (model.Identity, bool) {
	if s.User.CurrentUser == nil {
		return model.Identity{}, false
	}
	return *s.User.CurrentUser, true
}

func CurrentChannel(s State) (model.Channel, bool) {
	if s.Channel.CurrentChannel == nil {
		return model.Channel{}, false
	}
	return *s.Channel.CurrentChannel, true
}

func CurrentChannelID(s State) string {
	if s.Channel.CurrentChannel == nil {
		return ""
	}
	return s.Channel.CurrentChannel.ID
}

func IsPrivateChannel(s State) bool {
	return s.Channel.IsPrivateChannel
}

func SearchTerm(s State) string {
	return s.Search.Term
}

type Poster struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
	Count  int    `json:"count"`
}

// TopPosters returns up to limit speakers ordered by post count, then name.
func TopPosters(s State, limit int) []Poster {
	posters := make([]Poster, 0, len(s.Channel.UserPosts))
	for name, post := range s.Channel.UserPosts {
		posters = append(posters, Poster{Name: name, Avatar: post.Avatar, Count: post.Count})
	}
	sort.Slice(posters, func(i, j int) bool {
		if posters[i].Count != posters[j].Count {
			return posters[i].Count > posters[j].Count
		}
		return posters[i].Name < posters[j].Name
	})
	if limit >= 0 && len(posters) > limit {
		posters = posters[:limit]
	}
	return posters
}
