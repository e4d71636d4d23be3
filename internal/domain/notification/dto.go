package notification

import "time"

// StreamMessage is the JSON body of one server-sent event.
type StreamMessage struct {
	ID          string    `json:"id"`
	Type        Kind      `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Priority    Priority  `json:"priority"`
	Actions     []string  `json:"actions"`
	RequestID   string    `json:"request_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func ToStreamMessage(e Event) StreamMessage {
	return StreamMessage{
		ID:          e.ID,
		Type:        e.Kind,
		Title:       e.Title,
		Description: e.Description,
		Category:    e.Category,
		Priority:    e.Priority,
		Actions:     e.Actions,
		RequestID:   e.RequestID,
		CreatedAt:   e.OccurredAt,
	}
}
