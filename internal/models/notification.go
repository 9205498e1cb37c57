package models

import "time"

// Notification is a feed entry tied to an alert. ReadBy is a set of user
// IDs; membership only, insertion order irrelevant.
type Notification struct {
	ID        string    `json:"id"`
	AlertID   string    `json:"alert_id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
	ReadBy    []string  `json:"read_by"`
}

func (n *Notification) ReadByUser(userID string) bool {
	for _, id := range n.ReadBy {
		if id == userID {
			return true
		}
	}
	return false
}

// MarkRead adds userID to the read set; duplicate adds are no-ops.
func (n *Notification) MarkRead(userID string) {
	if n.ReadByUser(userID) {
		return
	}
	n.ReadBy = append(n.ReadBy, userID)
}
