package aggregator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s21platform/chat-sync/internal/model"
)

func msg(name, content string) model.Message {
	return model.Message{
		User:    model.Author{ID: name, Name: name, Avatar: name + ".png"},
		Content: content,
	}
}

func TestFormatUniqueUsers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		n    int
		want string
	}{
		{n: 0, want: "0 users"},
		{n: 1, want: "1 user"},
		{n: 2, want: "2 users"},
		{n: 17, want: "17 users"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatUniqueUsers(tt.n))
	}
}

func TestMessages_OnMessageAppended(t *testing.T) {
	t.Parallel()

	t.Run("speakers_and_posts", func(t *testing.T) {
		agg := New("general")

		for _, m := range []model.Message{msg("A", "one"), msg("B", "two"), msg("A", "three")} {
			assert.True(t, agg.OnMessageAppended("general", m))
		}

		assert.Equal(t, 3, agg.Len())
		assert.Equal(t, 2, agg.UniqueUsers())
		assert.Equal(t, "2 users", agg.UniqueUsersLabel())
		assert.Equal(t, model.UserPosts{
			"A": {Avatar: "A.png", Count: 2},
			"B": {Avatar: "B.png", Count: 1},
		}, agg.UserPosts())

		messages := agg.Messages()
		require.Len(t, messages, 3)
		assert.Equal(t, "one", messages[0].Content)
		assert.Equal(t, "three", messages[2].Content)
	})

	t.Run("other_channel_ignored", func(t *testing.T) {
		agg := New("general")

		assert.False(t, agg.OnMessageAppended("random", msg("A", "hi")))
		assert.Equal(t, 0, agg.Len())
		assert.Equal(t, "0 users", agg.UniqueUsersLabel())
	})

	t.Run("reset", func(t *testing.T) {
		agg := New("general")
		agg.OnMessageAppended("general", msg("A", "hi"))

		agg.Reset("random")

		assert.Equal(t, "random", agg.ChannelID())
		assert.Equal(t, 0, agg.Len())
		assert.Empty(t, agg.UserPosts())
		assert.False(t, agg.OnMessageAppended("general", msg("A", "late")))
	})

	t.Run("copies_are_detached", func(t *testing.T) {
		agg := New("general")
		agg.OnMessageAppended("general", msg("A", "hi"))

		posts := agg.UserPosts()
		posts["A"] = model.UserPost{Count: 99}
		messages := agg.Messages()
		messages[0].Content = "changed"

		assert.Equal(t, 1, agg.UserPosts()["A"].Count)
		assert.Equal(t, "hi", agg.Messages()[0].Content)
	})
}
