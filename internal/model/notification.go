package model

import "time"

const (
	NotificationInfo    = "info"
	NotificationSuccess = "success"
	NotificationWarning = "warning"
	NotificationAlert   = "alert"
)

// Notification is an append-only feed entry owned by exactly one account.
// Content is never updated after creation; only the read flag flips.
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Kind      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

func ValidNotificationKind(kind string) bool {
	switch kind {
	case NotificationInfo, NotificationSuccess, NotificationWarning, NotificationAlert:
		return true
	}
	return false
}
