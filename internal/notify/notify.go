// Package notify decouples notification delivery from the core transaction:
// services emit domain events, a dispatcher consumes them asynchronously, and
// delivery failures are logged, never surfaced to the caller.
package notify

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/seralva/groupdeals/internal/domain"
)

// Message is a templated notification addressed to one recipient.
type Message struct {
	Recipient string
	Subject   string
	Body      string
}

// Sender delivers a single message. Implementations may fail; the dispatcher
// swallows and logs every error.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// LogSender writes notifications to a logger. It stands in for the mail
// transport the surrounding platform provides.
type LogSender struct {
	logger *log.Logger
}

func NewLogSender(logger *log.Logger) *LogSender {
	if logger == nil {
		logger = log.Default()
	}
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.logger.Printf("notify recipient=%s subject=%q", msg.Recipient, msg.Subject)
	return nil
}

// Dispatcher fans domain events out to notification messages on a background
// goroutine. Emit never blocks: when the buffer is full the event is dropped
// and logged.
type Dispatcher struct {
	sender Sender
	logger *log.Logger
	events chan domain.Event

	wg   sync.WaitGroup
	once sync.Once
}

func NewDispatcher(sender Sender, logger *log.Logger, buffer int) *Dispatcher {
	if logger == nil {
		logger = log.Default()
	}
	if buffer < 1 {
		buffer = 1
	}
	return &Dispatcher{
		sender: sender,
		logger: logger,
		events: make(chan domain.Event, buffer),
	}
}

// Start launches the consuming goroutine. It returns immediately.
func (d *Dispatcher) Start(ctx context.Context) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-d.events:
				if !ok {
					return
				}
				d.deliver(ctx, ev)
			}
		}
	}()
}

// Close stops accepting events and waits for in-flight deliveries.
func (d *Dispatcher) Close() {
	d.once.Do(func() {
		close(d.events)
	})
	d.wg.Wait()
}

// Emit queues an event for delivery without blocking the caller.
func (d *Dispatcher) Emit(ev domain.Event) {
	select {
	case d.events <- ev:
	default:
		d.logger.Printf("WARN: notification buffer full, dropping %s for discount %s", ev.Kind, ev.DiscountID)
	}
}

func (d *Dispatcher) deliver(ctx context.Context, ev domain.Event) {
	for _, msg := range messagesFor(ev) {
		if err := d.sender.Send(ctx, msg); err != nil {
			d.logger.Printf("WARN: send %s to %s: %v", ev.Kind, msg.Recipient, err)
		}
	}
}

func messagesFor(ev domain.Event) []Message {
	switch ev.Kind {
	case domain.EventInterestRegistered:
		return []Message{{
			Recipient: ev.CustomerID,
			Subject:   "Interest registered",
			Body:      fmt.Sprintf("Your interest in discount %s has been recorded.", ev.DiscountID),
		}}
	case domain.EventGoalReached:
		msgs := make([]Message, 0, len(ev.CustomerIDs)+1)
		for _, customerID := range ev.CustomerIDs {
			msgs = append(msgs, Message{
				Recipient: customerID,
				Subject:   "Discount unlocked",
				Body:      fmt.Sprintf("Discount %s is now active; your promo code is ready.", ev.DiscountID),
			})
		}
		msgs = append(msgs, Message{
			Recipient: ev.ProviderID,
			Subject:   "Interest goal reached",
			Body:      fmt.Sprintf("Discount %s reached its interest goal.", ev.DiscountID),
		})
		return msgs
	case domain.EventBookingApproved:
		return []Message{{
			Recipient: ev.CustomerID,
			Subject:   "Booking approved",
			Body:      fmt.Sprintf("Your booking for discount %s was approved.", ev.DiscountID),
		}}
	case domain.EventSlotSuggested:
		return []Message{{
			Recipient: ev.CustomerID,
			Subject:   "Alternate slot suggested",
			Body:      fmt.Sprintf("The provider suggested another slot for discount %s.", ev.DiscountID),
		}}
	case domain.EventCodeRedeemed:
		return []Message{{
			Recipient: ev.CustomerID,
			Subject:   "Promo code redeemed",
			Body:      fmt.Sprintf("Your promo code for discount %s was redeemed.", ev.DiscountID),
		}}
	}
	return nil
}
