package presence

import (
	"encoding/json"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	logger_lib "github.com/s21platform/logger-lib"

	"github.com/s21platform/chat-sync/internal/feed"
	"github.com/s21platform/chat-sync/internal/feed/memory"
	"github.com/s21platform/chat-sync/internal/model"
)

var (
	bea = model.Identity{ID: "bea", DisplayName: "Bea"}
	al  = model.Identity{ID: "al", DisplayName: "Al"}
)

func watchTyping(t *testing.T, conn feed.Feed, tracker *Tracker, channelID string) {
	t.Helper()
	path := feed.Join(feed.Typing, channelID)
	_, err := conn.Subscribe(path, feed.ChildAdded, func(s feed.Snapshot) {
		var name string
		require.NoError(t, json.Unmarshal(s.Raw, &name))
		tracker.OnAdded(channelID, s.Key, name)
	})
	require.NoError(t, err)
	_, err = conn.Subscribe(path, feed.ChildRemoved, func(s feed.Snapshot) {
		tracker.OnRemoved(channelID, s.Key)
	})
	require.NoError(t, err)
}

func TestNew_RequiresIdentity(t *testing.T) {
	t.Parallel()

	_, err := New(model.Identity{}, memory.New().Connect(), nil)
	assert.ErrorIs(t, err, ErrNoIdentity)
}

func TestTracker_OnAdded(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tracker, err := New(bea, memory.New().Connect(), logger_lib.NewMockLoggerInterface(ctrl))
	require.NoError(t, err)
	require.NoError(t, tracker.SetChannel(t.Context(), "C"))

	assert.True(t, tracker.OnAdded("C", "al", "Al"))
	assert.False(t, tracker.OnAdded("C", "al", "Al"))
	assert.False(t, tracker.OnAdded("C", "bea", "Bea"))
	assert.False(t, tracker.OnAdded("other", "cy", "Cy"))

	assert.Equal(t, []model.TypingEntry{{UserID: "al", DisplayName: "Al"}}, tracker.Users())

	assert.True(t, tracker.OnRemoved("C", "al"))
	assert.False(t, tracker.OnRemoved("C", "al"))
	assert.Empty(t, tracker.Users())
}

func TestTracker_DisconnectCleanup(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLogger := logger_lib.NewMockLoggerInterface(ctrl)
	mockLogger.EXPECT().Warn(gomock.Any()).AnyTimes()

	server := memory.New()
	beaConn := server.Connect()
	alConn := server.Connect()

	require.NoError(t, beaConn.Set(t.Context(), "messages/C/m1", model.Message{User: model.Author{Name: "Bea"}, Content: "hi"}))

	beaTracker, err := New(bea, beaConn, mockLogger)
	require.NoError(t, err)
	require.NoError(t, beaTracker.SetChannel(t.Context(), "C"))
	watchTyping(t, beaConn, beaTracker, "C")

	alTracker, err := New(al, alConn, mockLogger)
	require.NoError(t, err)
	require.NoError(t, alTracker.OnConnectionChanged(t.Context(), true))
	require.NoError(t, alTracker.SetChannel(t.Context(), "C"))

	require.NoError(t, alTracker.SetTyping(t.Context(), "C", "hel"))
	assert.Equal(t, []model.TypingEntry{{UserID: "al", DisplayName: "Al"}}, beaTracker.Users())

	require.NoError(t, alConn.Drop(t.Context()))
	require.NoError(t, alTracker.OnConnectionChanged(t.Context(), false))

	assert.Empty(t, beaTracker.Users())
	assert.False(t, server.Snapshot("typing/C/al").Exists())
}

func TestTracker_CleanupReissuedOnReconnect(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLogger := logger_lib.NewMockLoggerInterface(ctrl)
	mockLogger.EXPECT().Warn(gomock.Any()).AnyTimes()

	server := memory.New()
	beaConn := server.Connect()
	alConn := server.Connect()

	beaTracker, err := New(bea, beaConn, mockLogger)
	require.NoError(t, err)
	require.NoError(t, beaTracker.SetChannel(t.Context(), "C"))
	watchTyping(t, beaConn, beaTracker, "C")

	alTracker, err := New(al, alConn, mockLogger)
	require.NoError(t, err)
	require.NoError(t, alTracker.SetChannel(t.Context(), "C"))
	require.NoError(t, alTracker.OnConnectionChanged(t.Context(), true))

	require.NoError(t, alConn.Drop(t.Context()))
	require.NoError(t, alTracker.OnConnectionChanged(t.Context(), false))
	alConn.Restore()
	require.NoError(t, alTracker.OnConnectionChanged(t.Context(), true))
	require.NoError(t, alTracker.OnConnectionChanged(t.Context(), true))

	require.NoError(t, alTracker.SetTyping(t.Context(), "C", "back"))
	require.Len(t, beaTracker.Users(), 1)

	require.NoError(t, alConn.Drop(t.Context()))
	assert.Empty(t, beaTracker.Users())
}

func TestTracker_SetTyping(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLogger := logger_lib.NewMockLoggerInterface(ctrl)

	server := memory.New()
	conn := server.Connect()
	tracker, err := New(al, conn, mockLogger)
	require.NoError(t, err)

	require.NoError(t, tracker.SetTyping(t.Context(), "C", "h"))
	var name string
	require.NoError(t, server.Snapshot("typing/C/al").Decode(&name))
	assert.Equal(t, "Al", name)

	require.NoError(t, tracker.SetTyping(t.Context(), "C", ""))
	assert.False(t, server.Snapshot("typing/C/al").Exists())

	require.NoError(t, tracker.SetTyping(t.Context(), "", "ignored"))

	t.Run("offline", func(t *testing.T) {
		mockLogger.EXPECT().Error(gomock.Any())
		require.NoError(t, conn.Drop(t.Context()))

		err := tracker.SetTyping(t.Context(), "C", "h")

		var feedErr *model.FeedError
		require.ErrorAs(t, err, &feedErr)
		assert.ErrorIs(t, err, feed.ErrDisconnected)
	})
}
