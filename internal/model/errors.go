package model

import "fmt"

// FeedError is a failed subscribe, read or write against the remote feed.
// Prior derived state stays intact when one occurs.
type FeedError struct {
	Op   string
	Path string
	Err  error
}

func (e *FeedError) Error() string {
	return fmt.Sprintf("feed %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FeedError) Unwrap() error {
	return e.Err
}

// ValidationError is user input rejected before any remote call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

type UploadError struct {
	Path string
	Err  error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload %s: %v", e.Path, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}
