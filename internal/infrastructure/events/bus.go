package events

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Topics published by the terminal service
const (
	TopicSaleCompleted  = "sale.completed"
	TopicSessionOpened  = "session.opened"
	TopicSessionClosed  = "session.closed"
	TopicCompanyChanged = "company.changed"
)

// Event is a domain notification. Payload is any JSON-encodable value.
type Event struct {
	ID         string    `json:"id"`
	Topic      string    `json:"topic"`
	TerminalID string    `json:"terminal_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload,omitempty"`
}

// NewEvent stamps an event with an id and the current time
func NewEvent(topic, terminalID string, payload any) Event {
	return Event{
		ID:         uuid.New().String(),
		Topic:      topic,
		TerminalID: terminalID,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

// Body returns the JSON encoding of the event
func (e Event) Body() ([]byte, error) {
	return json.Marshal(e)
}

// Handler receives events. Handlers run synchronously on the publisher's
// goroutine and must not block.
type Handler func(ctx context.Context, e Event)

// Publisher publishes events
type Publisher interface {
	Publish(ctx context.Context, e Event)
}

// Bus is an in-process publish/subscribe hub. Subscribing to "*" receives
// every topic.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

// NewBus creates an empty bus
func NewBus() *Bus {
	return &Bus{handlers: make(map[string][]Handler)}
}

// Subscribe registers a handler for a topic
func (b *Bus) Subscribe(topic string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[topic] = append(b.handlers[topic], h)
}

// Publish delivers e to the topic's handlers, then to wildcard handlers. A
// panicking handler is logged and does not affect the others.
func (b *Bus) Publish(ctx context.Context, e Event) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.handlers[e.Topic])+len(b.handlers["*"]))
	handlers = append(handlers, b.handlers[e.Topic]...)
	handlers = append(handlers, b.handlers["*"]...)
	b.mu.RUnlock()

	for _, h := range handlers {
		b.dispatch(ctx, h, e)
	}
}

func (b *Bus) dispatch(ctx context.Context, h Handler, e Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("events: handler for %s panicked: %v", e.Topic, r)
		}
	}()
	h(ctx, e)
}
