//go:generate mockgen -destination=mock_contract_test.go -package=${GOPACKAGE} -source=contract.go
package session

import (
	"context"
	"io"
)

// Uploader stores a binary object and returns a URL it can be fetched from.
type Uploader interface {
	Upload(ctx context.Context, path, contentType string, body io.Reader) (string, error)
}

type Validator interface {
	ValidateMessage(content string) error
	ValidateChannel(name, details string) error
	ValidateImage(contentType string) error
}
