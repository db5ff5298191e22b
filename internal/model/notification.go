package model

type NotificationEntry struct {
	ChannelID      string `json:"channelId"`
	TotalSeen      int    `json:"totalSeen"`
	LastKnownTotal int    `json:"lastKnownTotal"`
	UnreadCount    int    `json:"unreadCount"`
}
