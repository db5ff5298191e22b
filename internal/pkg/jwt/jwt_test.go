package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s21platform/chat-sync/internal/model"
)

func TestGenerator_SessionToken(t *testing.T) {
	t.Parallel()

	identity := model.Identity{ID: "u1", DisplayName: "Bea", AvatarURL: "bea.png"}

	t.Run("round_trip", func(t *testing.T) {
		g := New("secret")

		token, expiresAt, err := g.GenerateSessionToken(identity)
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.InDelta(t, time.Now().Add(sessionTokenTTL).Unix(), expiresAt, 5)

		got, err := g.ValidateSessionToken(token)
		require.NoError(t, err)
		assert.Equal(t, identity, *got)
	})

	t.Run("wrong_secret", func(t *testing.T) {
		token, _, err := New("secret").GenerateSessionToken(identity)
		require.NoError(t, err)

		_, err = New("other").ValidateSessionToken(token)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		g := New("secret")
		g.now = func() time.Time { return time.Now().Add(-time.Hour) }

		token, _, err := g.GenerateSessionToken(identity)
		require.NoError(t, err)

		_, err = New("secret").ValidateSessionToken(token)
		assert.Error(t, err)
	})

	t.Run("no_subject", func(t *testing.T) {
		g := New("secret")
		token, _, err := g.GenerateSessionToken(model.Identity{DisplayName: "ghost"})
		require.NoError(t, err)

		_, err = g.ValidateSessionToken(token)
		assert.Error(t, err)
	})
}
