package model

import "strings"

const (
	PublicChannelPrefix  = "#"
	PrivateChannelPrefix = "@"
)

type ChannelList []Channel

type Channel struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Details   string  `json:"details"`
	CreatedBy Creator `json:"createdBy"`
}

type Creator struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// PrivateChannelID returns the id shared by both sides of a direct conversation.
func PrivateChannelID(userA, userB string) string {
	if userA < userB {
		return userA + "/" + userB
	}
	return userB + "/" + userA
}

// DisplayName renders the channel label shown in the header.
func (c Channel) DisplayName(private bool) string {
	if strings.TrimSpace(c.Name) == "" {
		return ""
	}
	if private {
		return PrivateChannelPrefix + c.Name
	}
	return PublicChannelPrefix + c.Name
}
