package domain

import "time"

// Notification is an inbox entry shown on the dashboard.
type Notification struct {
	NotificationID string    `json:"id"`
	IdentityID     string    `json:"userId"`
	Title          string    `json:"title"`
	Body           string    `json:"body"`
	Read           bool      `json:"read"`
	CreatedAt      time.Time `json:"createdAt"`
}
