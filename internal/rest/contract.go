//go:generate mockgen -destination=mock_contract_test.go -package=${GOPACKAGE} -source=contract.go
package rest

import (
	"context"
	"io"

	"github.com/s21platform/chat-sync/internal/model"
	"github.com/s21platform/chat-sync/internal/session"
)

type SessionProvider interface {
	Mount(ctx context.Context, identity model.Identity) (ChatSession, error)
	Lookup(userID string) (ChatSession, bool)
	Unmount(ctx context.Context, userID string) error
}

type ChatSession interface {
	View(ctx context.Context) (session.View, error)
	ChangeChannel(ctx context.Context, channelID string) error
	OpenPrivateChannel(ctx context.Context, userID, name string) error
	CreateChannel(ctx context.Context, name, details string) (model.Channel, error)
	SendMessage(ctx context.Context, content string) error
	SendImage(ctx context.Context, body io.Reader, contentType string) error
	UpdateAvatar(ctx context.Context, body io.Reader, contentType string) (string, error)
	SetTyping(ctx context.Context, input string) error
	Search(ctx context.Context, term string) (model.MessageList, error)
	ToggleStar(ctx context.Context) (bool, error)
	Watch() (<-chan struct{}, func())
}

type JWTGenerator interface {
	GenerateSessionToken(identity model.Identity) (string, int64, error)
}
