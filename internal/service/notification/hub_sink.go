package notification

import (
	"context"
	"log/slog"
	"sync"

	"github.com/cmlabs-hris/hris-timeleave-go/internal/domain/notification"
	"github.com/cmlabs-hris/hris-timeleave-go/internal/pkg/sse"
)

const streamEventName = "notification"

// HubSink pushes events to the employee's open SSE streams.
type HubSink struct {
	hub *sse.Hub
}

func NewHubSink(hub *sse.Hub) *HubSink {
	return &HubSink{hub: hub}
}

func (h *HubSink) Name() string { return "sse" }

func (h *HubSink) Deliver(ctx context.Context, event notification.Event) error {
	n := h.hub.Publish(sse.Event{
		EmployeeID: event.EmployeeID,
		Name:       streamEventName,
		Data:       notification.ToStreamMessage(event),
	})
	slog.Debug("notification pushed to streams", "employee_id", event.EmployeeID, "streams", n)
	return nil
}

// Subscribe implements notification.Streamer.
func (h *HubSink) Subscribe(employeeID string) (<-chan notification.StreamMessage, func()) {
	ch, cleanup := h.hub.Subscribe(employeeID)

	out := make(chan notification.StreamMessage, 10)
	done := make(chan struct{})

	go func() {
		defer close(out)
		for event := range ch {
			msg, ok := event.Data.(notification.StreamMessage)
			if !ok {
				continue
			}
			select {
			case out <- msg:
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return out, func() {
		once.Do(func() {
			close(done)
			cleanup()
		})
	}
}

var (
	_ notification.Sink     = (*HubSink)(nil)
	_ notification.Streamer = (*HubSink)(nil)
)
