package model

type TypingEntry struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
}
