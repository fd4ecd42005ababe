package event

type Type string

const (
	TypeNotificationCreated Type = "notification.created"
	TypeNotificationRead    Type = "notification.read"
	TypeNotificationAllRead Type = "notification.all_read"
)

// Event is a fan-out message delivered to connected clients. OwnerID scopes
// delivery: only the owning account's clients receive it.
type Event struct {
	ID        string `json:"id"`
	Type      Type   `json:"type"`
	Payload   any    `json:"payload,omitempty"`
	Timestamp string `json:"timestamp"`
	OwnerID   string `json:"-"`
}

type Bus interface {
	Publish(e Event)
	Subscribe() (<-chan Event, func())
}
