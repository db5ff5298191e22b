package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s21platform/chat-sync/internal/model"
)

func TestReduce(t *testing.T) {
	t.Parallel()

	user := model.Identity{ID: "u1", DisplayName: "Bea"}
	channel := model.Channel{ID: "general", Name: "general"}

	t.Run("initial_state_is_loading", func(t *testing.T) {
		s := Initial()
		assert.True(t, s.User.IsLoading)
		_, ok := CurrentUser(s)
		assert.False(t, ok)
	})

	t.Run("set_and_clear_user", func(t *testing.T) {
		s := Reduce(Initial(), SetUser{User: user})
		got, ok := CurrentUser(s)
		require.True(t, ok)
		assert.Equal(t, user, got)
		assert.False(t, s.User.IsLoading)

		s = Reduce(s, ClearUser{})
		_, ok = CurrentUser(s)
		assert.False(t, ok)
		assert.False(t, s.User.IsLoading)
	})

	t.Run("channel", func(t *testing.T) {
		s := Reduce(Initial(), SetCurrentChannel{Channel: channel})
		s = Reduce(s, SetPrivateChannel{Private: true})

		got, ok := CurrentChannel(s)
		require.True(t, ok)
		assert.Equal(t, channel, got)
		assert.Equal(t, "general", CurrentChannelID(s))
		assert.True(t, IsPrivateChannel(s))
	})

	t.Run("search_term", func(t *testing.T) {
		s := Reduce(Initial(), SetSearchTerm{Term: "go"})
		assert.Equal(t, "go", SearchTerm(s))
		s = Reduce(s, SetSearchTerm{})
		assert.Equal(t, "", SearchTerm(s))
	})

	t.Run("does_not_mutate_input", func(t *testing.T) {
		posts := model.UserPosts{"Bea": {Count: 1}}
		before := Reduce(Initial(), SetUserPosts{Posts: posts})

		after := Reduce(before, SetUserPosts{Posts: model.UserPosts{"Al": {Count: 2}}})
		posts["Bea"] = model.UserPost{Count: 50}

		assert.Equal(t, model.UserPosts{"Bea": {Count: 1}}, before.Channel.UserPosts)
		assert.Equal(t, model.UserPosts{"Al": {Count: 2}}, after.Channel.UserPosts)
	})
}

func TestStore_Dispatch(t *testing.T) {
	t.Parallel()

	st := New()
	st.Dispatch(SetUser{User: model.Identity{ID: "u1"}})
	st.Dispatch(SetCurrentChannel{Channel: model.Channel{ID: "general"}})

	assert.Equal(t, "general", CurrentChannelID(st.State()))
	assert.Equal(t, "SET_CURRENT_CHANNEL", Name(SetCurrentChannel{}))
}

func TestTopPosters(t *testing.T) {
	t.Parallel()

	s := Reduce(Initial(), SetUserPosts{Posts: model.UserPosts{
		"Cy":  {Avatar: "cy.png", Count: 2},
		"Al":  {Avatar: "al.png", Count: 5},
		"Bea": {Avatar: "bea.png", Count: 2},
		"Dan": {Avatar: "dan.png", Count: 1},
	}})

	assert.Equal(t, []Poster{
		{Name: "Al", Avatar: "al.png", Count: 5},
		{Name: "Bea", Avatar: "bea.png", Count: 2},
		{Name: "Cy", Avatar: "cy.png", Count: 2},
	}, TopPosters(s, 3))

	assert.Len(t, TopPosters(s, 10), 4)
	assert.Empty(t, TopPosters(Initial(), 5))
}
