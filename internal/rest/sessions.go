package rest

import (
	"context"

	"github.com/s21platform/chat-sync/internal/model"
	"github.com/s21platform/chat-sync/internal/session"
)

// Sessions exposes a session.Manager as a SessionProvider.
type Sessions struct {
	manager *session.Manager
}

func NewSessions(manager *session.Manager) *Sessions {
	return &Sessions{manager: manager}
}

func (s *Sessions) Mount(ctx context.Context, identity model.Identity) (ChatSession, error) {
	sess, err := s.manager.Mount(ctx, identity)
	if err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *Sessions) Lookup(userID string) (ChatSession, bool) {
	sess, ok := s.manager.Get(userID)
	if !ok {
		return nil, false
	}
	return sess, true
}

func (s *Sessions) Unmount(ctx context.Context, userID string) error {
	return s.manager.Unmount(ctx, userID)
}
