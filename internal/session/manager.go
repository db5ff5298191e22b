package session

import (
	"context"
	"fmt"
	"sync"

	logger_lib "github.com/s21platform/logger-lib"

	"github.com/s21platform/chat-sync/internal/feed"
	"github.com/s21platform/chat-sync/internal/model"
)

// Manager keeps one mounted session per signed-in user. Each session gets
// its own feed connection.
type Manager struct {
	connect   func() feed.Feed
	uploader  Uploader
	validator Validator
	logger    logger_lib.LoggerInterface

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewManager(connect func() feed.Feed, uploader Uploader, validator Validator, logger logger_lib.LoggerInterface) *Manager {
	return &Manager{
		connect:   connect,
		uploader:  uploader,
		validator: validator,
		logger:    logger,
		sessions:  map[string]*Session{},
	}
}

// Mount returns the user's session, mounting a new one if needed.
func (m *Manager) Mount(ctx context.Context, identity model.Identity) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[identity.ID]; ok {
		return s, nil
	}

	s, err := Mount(ctx, identity, Deps{
		Feed:      m.connect(),
		Uploader:  m.uploader,
		Validator: m.validator,
		Logger:    m.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to mount session for %s: %w", identity.ID, err)
	}
	m.sessions[identity.ID] = s
	return s, nil
}

func (m *Manager) Get(userID string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[userID]
	return s, ok
}

// Unmount tears the user's session down. Unknown users are ignored.
func (m *Manager) Unmount(ctx context.Context, userID string) error {
	m.mu.Lock()
	s, ok := m.sessions[userID]
	delete(m.sessions, userID)
	m.mu.Unlock()

	if !ok {
		return nil
	}
	return m.release(ctx, s)
}

// Close tears down every session.
func (m *Manager) Close(ctx context.Context) {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = map[string]*Session{}
	m.mu.Unlock()

	for id, s := range sessions {
		if err := m.release(ctx, s); err != nil {
			m.logger.Error(fmt.Sprintf("failed to tear down session %s: %v", id, err))
		}
	}
}

// dropper is implemented by feed connections that can be closed.
type dropper interface {
	Drop(ctx context.Context) error
}

// release tears the session down and then drops its feed connection so the
// server runs the pending disconnect cleanups.
func (m *Manager) release(ctx context.Context, s *Session) error {
	if err := s.Teardown(ctx); err != nil {
		return err
	}
	if d, ok := s.feed.(dropper); ok {
		if err := d.Drop(ctx); err != nil {
			return fmt.Errorf("failed to drop feed connection for %s: %w", s.identity.ID, err)
		}
	}
	return nil
}
