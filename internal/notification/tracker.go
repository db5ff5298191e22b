package notification

import "github.com/s21platform/chat-sync/internal/model"

// Tracker computes unread counts for every known channel at once. Only the
// active channel's baseline moves when the user switches channels; the other
// entries keep counting.
type Tracker struct {
	entries map[string]*model.NotificationEntry
	order   []string
	active  string
}

func New() *Tracker {
	return &Tracker{entries: map[string]*model.NotificationEntry{}}
}

// Observe records the latest message total seen on a channel's feed.
func (t *Tracker) Observe(channelID string, total int) model.NotificationEntry {
	entry, ok := t.entries[channelID]
	if !ok {
		entry = &model.NotificationEntry{
			ChannelID:      channelID,
			TotalSeen:      total,
			LastKnownTotal: total,
		}
		t.entries[channelID] = entry
		t.order = append(t.order, channelID)
		return *entry
	}

	entry.LastKnownTotal = total
	if channelID == t.active {
		entry.TotalSeen = total
	}
	entry.UnreadCount = unread(entry)
	return *entry
}

// Activate marks channelID as the one being read and clears its unread count.
func (t *Tracker) Activate(channelID string) {
	t.active = channelID
	entry, ok := t.entries[channelID]
	if !ok {
		return
	}
	entry.TotalSeen = entry.LastKnownTotal
	entry.UnreadCount = 0
}

func (t *Tracker) Active() string {
	return t.active
}

func (t *Tracker) Entry(channelID string) (model.NotificationEntry, bool) {
	entry, ok := t.entries[channelID]
	if !ok {
		return model.NotificationEntry{}, false
	}
	return *entry, true
}

func (t *Tracker) Unread(channelID string) int {
	if entry, ok := t.entries[channelID]; ok {
		return entry.UnreadCount
	}
	return 0
}

// UnreadCounts maps every tracked channel to its unread count.
func (t *Tracker) UnreadCounts() map[string]int {
	out := make(map[string]int, len(t.entries))
	for id, entry := range t.entries {
		out[id] = entry.UnreadCount
	}
	return out
}

// Entries returns the tracked channels in first-observation order.
func (t *Tracker) Entries() []model.NotificationEntry {
	out := make([]model.NotificationEntry, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, *t.entries[id])
	}
	return out
}

func unread(entry *model.NotificationEntry) int {
	if n := entry.LastKnownTotal - entry.TotalSeen; n > 0 {
		return n
	}
	return 0
}
