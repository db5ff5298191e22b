package user

import (
	"context"
	"encoding/json"
	"fmt"

	logger_lib "github.com/s21platform/logger-lib"

	"github.com/s21platform/chat-sync/internal/config"
	"github.com/s21platform/chat-sync/internal/feed"
	"github.com/s21platform/chat-sync/internal/model"
)

type Handler struct {
	feed Feed
}

func New(f Feed) *Handler {
	return &Handler{feed: f}
}

// Handler applies a profile change to the users/{id} record in the feed.
func (h *Handler) Handler(ctx context.Context, in []byte) error {
	logger := logger_lib.FromContext(ctx, config.KeyLogger)
	logger.AddFuncName("ProfileUpdated")

	var event model.ProfileUpdated
	if err := json.Unmarshal(in, &event); err != nil {
		logger.Error(fmt.Sprintf("failed to decode profile event: %v", err))
		return fmt.Errorf("failed to decode profile event: %w", err)
	}

	if event.UserID == "" {
		logger.Error("profile event has no user id")
		return fmt.Errorf("profile event has no user id")
	}

	values := map[string]any{}
	if event.Nickname != "" {
		values["name"] = event.Nickname
	}
	if event.AvatarURL != "" {
		values["avatar"] = event.AvatarURL
	}
	if len(values) == 0 {
		return nil
	}

	if err := h.feed.Update(ctx, feed.Join(feed.Users, event.UserID), values); err != nil {
		logger.Error(fmt.Sprintf("failed to update user %s: %v", event.UserID, err))
		return fmt.Errorf("failed to update user %s: %w", event.UserID, err)
	}

	logger.Info(fmt.Sprintf("profile of user %s updated", event.UserID))
	return nil
}
