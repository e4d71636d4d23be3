package notification

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-timeleave-go/internal/domain/notification"
	"github.com/cmlabs-hris/hris-timeleave-go/internal/pkg/i18n"
)

// Config holds dispatcher configuration
type Config struct {
	WorkerCount     int           // default: 2
	QueueSize       int           // default: 1000
	DeliveryTimeout time.Duration // default: 10 seconds
	Locale          string        // default: translator default
}

// Dispatcher is the notification.Emitter used by the core. Events are queued
// and delivered to every sink by background workers.
type Dispatcher struct {
	translator *i18n.Translator
	sinks      []notification.Sink
	config     Config

	queue   chan notification.Event
	wg      sync.WaitGroup
	stopCh  chan struct{}
	mu      sync.RWMutex
	stopped bool
}

// NewDispatcher creates a dispatcher and starts its workers
func NewDispatcher(translator *i18n.Translator, cfg Config, sinks ...notification.Sink) *Dispatcher {
	// Set defaults
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1000
	}
	if cfg.DeliveryTimeout <= 0 {
		cfg.DeliveryTimeout = 10 * time.Second
	}
	if cfg.Locale == "" {
		cfg.Locale = translator.DefaultLocale()
	}

	d := &Dispatcher{
		translator: translator,
		sinks:      sinks,
		config:     cfg,
		queue:      make(chan notification.Event, cfg.QueueSize),
		stopCh:     make(chan struct{}),
	}

	for i := 0; i < cfg.WorkerCount; i++ {
		d.wg.Add(1)
		go d.worker(i)
	}

	names := make([]string, len(sinks))
	for i, s := range sinks {
		names[i] = s.Name()
	}
	slog.Info("notification dispatcher started", "workers", cfg.WorkerCount, "queue_size", cfg.QueueSize, "sinks", names)

	return d
}

// Emit implements notification.Emitter. It never blocks; a full queue drops the event.
func (d *Dispatcher) Emit(ctx context.Context, event notification.Event) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.stopped {
		slog.Warn("notification dropped", "reason", notification.ErrDispatcherStopped, "kind", event.Kind, "employee_id", event.EmployeeID)
		return
	}

	select {
	case d.queue <- event:
	default:
		slog.Warn("notification dropped", "reason", notification.ErrQueueFull, "kind", event.Kind, "employee_id", event.EmployeeID)
	}
}

// Stop rejects new events, lets workers drain the queue and waits for them.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	d.mu.Unlock()

	close(d.stopCh)
	d.wg.Wait()
	slog.Info("notification dispatcher stopped")
}

func (d *Dispatcher) worker(id int) {
	defer d.wg.Done()

	for {
		select {
		case event := <-d.queue:
			d.deliver(id, event)
		case <-d.stopCh:
			for {
				select {
				case event := <-d.queue:
					d.deliver(id, event)
				default:
					return
				}
			}
		}
	}
}

func (d *Dispatcher) deliver(worker int, event notification.Event) {
	event = d.render(event)

	for _, sink := range d.sinks {
		ctx, cancel := context.WithTimeout(context.Background(), d.config.DeliveryTimeout)
		err := sink.Deliver(ctx, event)
		cancel()
		if err != nil {
			slog.Error("notification delivery failed", "worker", worker, "sink", sink.Name(),
				"event_id", event.ID, "kind", event.Kind, "employee_id", event.EmployeeID, "error", err)
		}
	}
}

// render fills Title and Description from the locale files unless already set.
func (d *Dispatcher) render(event notification.Event) notification.Event {
	if event.Title == "" {
		event.Title = d.translator.T(d.config.Locale, string(event.Kind)+".title", event.Params)
	}
	if event.Description == "" {
		event.Description = d.translator.T(d.config.Locale, string(event.Kind)+".description", event.Params)
	}
	return event
}

var _ notification.Emitter = (*Dispatcher)(nil)
