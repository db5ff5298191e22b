package model

import "encoding/json"

type CentrifugoEvent struct {
	Method string      `json:"method"`
	Params interface{} `json:"params"`
}

type CentrifugoEventParams struct {
	Channel string     `json:"channel"`
	Data    FeedChange `json:"data"`
}

const (
	FeedOpSet    = "set"
	FeedOpUpdate = "update"
	FeedOpRemove = "remove"
)

// FeedChange is a committed write to the feed, as journaled and fanned out.
type FeedChange struct {
	Seq   int64           `json:"seq" db:"seq"`
	Op    string          `json:"op" db:"op"`
	Path  string          `json:"path" db:"path"`
	Value json.RawMessage `json:"value,omitempty" db:"value"`
	At    int64           `json:"at" db:"at"`
}
