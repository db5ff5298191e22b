package model

type MessageList []Message

type Message struct {
	Timestamp int64  `json:"timestamp"`
	User      Author `json:"user"`
	Content   string `json:"content,omitempty"`
	Image     string `json:"image,omitempty"`
}

type Author struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// IsImage reports whether the message carries an uploaded image instead of text.
func (m Message) IsImage() bool {
	return m.Content == "" && m.Image != ""
}

// UserPost is the per-speaker entry of the posts breakdown.
type UserPost struct {
	Avatar string `json:"avatar"`
	Count  int    `json:"count"`
}

type UserPosts map[string]UserPost
