package queue

import (
	"context"
	"time"

	"github.com/Benardkosgei/ecolithafricaswap-sub000/internal/logger"
)

// Notifier is the hook services call after a successful commit. It never
// blocks the request and never returns an error to the caller.
type Notifier interface {
	Emit(event string, payload interface{})
}

type asyncNotifier struct {
	publisher *Publisher
	timeout   time.Duration
}

// NewAsyncNotifier wraps a publisher so each Emit runs on its own goroutine
// with a bounded deadline. Publish failures are logged and dropped.
func NewAsyncNotifier(publisher *Publisher) Notifier {
	return &asyncNotifier{publisher: publisher, timeout: 5 * time.Second}
}

func (n *asyncNotifier) Emit(event string, payload interface{}) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()
		if err := n.publisher.Publish(ctx, event, payload); err != nil {
			logger.Error("Failed to publish event", "event", event, "error", err)
		}
	}()
}

// NopNotifier discards events; used when no broker is configured and in
// tests.
type NopNotifier struct{}

func (NopNotifier) Emit(string, interface{}) {}
