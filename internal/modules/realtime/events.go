package realtime

import "time"

// Event is the envelope pushed to websocket clients.
type Event struct {
	Type     string    `json:"type"`
	CenterID int64     `json:"center_id"`
	Payload  any       `json:"payload,omitempty"`
	SentAt   time.Time `json:"sent_at"`
}

func NewPongEvent() Event {
	return Event{Type: "pong", SentAt: time.Now().UTC()}
}
