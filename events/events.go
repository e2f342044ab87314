package events

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypePaymentRecorded EventType = "payment_recorded"
	EventTypeChargeApplied   EventType = "charge_applied"
	EventTypeLoanClosed      EventType = "loan_closed"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// PaymentRecordedEvent is emitted after a payment allocation commits
type PaymentRecordedEvent struct {
	LoanID        int64
	TransactionID int64
	Amount        decimal.Decimal
	NewDebt       decimal.Decimal
	Online        bool
}

func (e PaymentRecordedEvent) Type() EventType {
	return EventTypePaymentRecorded
}

// ChargeAppliedEvent is emitted after a charge allocation commits
type ChargeAppliedEvent struct {
	LoanID        int64
	TransactionID int64
	Amount        decimal.Decimal
	NewDebt       decimal.Decimal
}

func (e ChargeAppliedEvent) Type() EventType {
	return EventTypeChargeApplied
}

// LoanClosedEvent is emitted when an allocation drives a loan's debt to zero
type LoanClosedEvent struct {
	LoanID        int64
	TransactionID int64
	OldStatusID   int
	Online        bool
}

func (e LoanClosedEvent) Type() EventType {
	return EventTypeLoanClosed
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// Emit publishes an event to all registered handlers
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	// Handlers run asynchronously to avoid blocking the caller
	for i, handler := range handlers {
		go func(h Handler, handlerIndex int) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}

// TransactionalBus holds pending events coupled to a unit of work and
// flushes them to the underlying bus only after the DB commit succeeds.
type TransactionalBus struct {
	real    *Bus
	pending []Event
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

func (b *TransactionalBus) Publish(e Event) {
	b.pending = append(b.pending, e)
}

// Flush is called after a successful DB commit. Events are emitted with a
// background context because the transaction context may already be done.
func (b *TransactionalBus) Flush(ctx context.Context) error {
	eventCtx := context.Background()

	for _, ev := range b.pending {
		b.real.Emit(eventCtx, ev)
	}
	b.pending = nil
	return nil
}

// Discard is called after a rollback to drop pending events.
func (b *TransactionalBus) Discard() {
	b.pending = nil
}
