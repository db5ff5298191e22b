package validator

import (
	"strings"

	"github.com/s21platform/chat-sync/internal/model"
)

const (
	maxMessageLength = 2000
	maxChannelName   = 80
	maxDetailsLength = 500
)

var allowedImageTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
}

type Validator struct{}

func New() *Validator {
	return &Validator{}
}

func (v *Validator) ValidateMessage(content string) error {
	if strings.TrimSpace(content) == "" {
		return &model.ValidationError{Field: "message", Reason: "add a message"}
	}

	if len([]rune(content)) > maxMessageLength {
		return &model.ValidationError{Field: "message", Reason: "message exceeds maximum length of 2000 characters"}
	}

	return nil
}

func (v *Validator) ValidateChannel(name, details string) error {
	if strings.TrimSpace(name) == "" {
		return &model.ValidationError{Field: "name", Reason: "channel name is required"}
	}

	if strings.TrimSpace(details) == "" {
		return &model.ValidationError{Field: "details", Reason: "channel details are required"}
	}

	if len([]rune(name)) > maxChannelName {
		return &model.ValidationError{Field: "name", Reason: "channel name exceeds maximum length of 80 characters"}
	}

	if len([]rune(details)) > maxDetailsLength {
		return &model.ValidationError{Field: "details", Reason: "channel details exceed maximum length of 500 characters"}
	}

	return nil
}

func (v *Validator) ValidateImage(contentType string) error {
	if _, ok := allowedImageTypes[contentType]; !ok {
		return &model.ValidationError{Field: "file", Reason: "image type '" + contentType + "' is not supported"}
	}

	return nil
}
