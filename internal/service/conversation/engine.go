// Package conversation drives the per-customer order dialogue: pickup time,
// order contents, payment method, confirmation.
package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"cafe-bestellbot/internal/model/order"
	"cafe-bestellbot/internal/notify"
	"cafe-bestellbot/internal/schedule"
	"cafe-bestellbot/internal/store"
)

// Config carries the engine's display options.
type Config struct {
	CafeName string
	// PayPalLink, when set, is appended to the confirmation of PayPal orders.
	PayPalLink string
}

// Engine is the conversation state machine. It consumes one inbound message
// at a time and never retains a session beyond a single Handle call.
type Engine struct {
	store      store.Store
	policy     schedule.Policy
	dispatcher notify.Dispatcher
	cfg        Config
	now        func() time.Time

	// Messages from the same customer are not guaranteed to arrive
	// serialized, so each customer's read-modify-write holds a keyed mutex.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New wires the engine to its collaborators.
func New(st store.Store, policy schedule.Policy, dispatcher notify.Dispatcher, cfg Config) *Engine {
	return &Engine{
		store:      st,
		policy:     policy,
		dispatcher: dispatcher,
		cfg:        cfg,
		now:        time.Now,
		locks:      make(map[string]*sync.Mutex),
	}
}

func (e *Engine) customerLock(customerID string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	l, ok := e.locks[customerID]
	if !ok {
		l = &sync.Mutex{}
		e.locks[customerID] = l
	}
	return l
}

// Handle processes one inbound message and returns the reply segments. The
// reply is always usable; a non-nil error only reports a failure (such as a
// failed owner dispatch) for the transport to log.
func (e *Engine) Handle(ctx context.Context, customerID, body string) ([]string, error) {
	l := e.customerLock(customerID)
	l.Lock()
	defer l.Unlock()

	now := e.now()
	text := strings.TrimSpace(body)
	lower := strings.ToLower(text)

	// Global commands run before any state dispatch.
	switch lower {
	case "abbrechen", "storno", "stop":
		if e.store.HasActive(customerID) {
			e.store.Delete(customerID)
		}
		return []string{msgCancelled}, nil
	case "neu", "start":
		e.store.Delete(customerID)
	}

	state := order.StateNew
	sess, ok := e.store.Get(customerID)
	if ok {
		state = sess.State
	}

	switch state {
	case order.StateNew:
		return e.begin(customerID, now), nil

	case order.StateAskPickup:
		pickup, err := e.policy.Resolve(text, now)
		if err != nil {
			if errors.Is(err, schedule.ErrOutsideWindow) {
				return []string{e.windowHelp()}, nil
			}
			return []string{msgTimeFormatHelp}, nil
		}
		sess.Pickup = pickup
		sess.State = order.StateAskOrder
		e.store.Put(customerID, sess)
		return []string{fmt.Sprintf(msgAskOrder, e.policy.Format(pickup))}, nil

	case order.StateAskOrder:
		if utf8.RuneCountInString(text) < 2 {
			return []string{msgOrderTooShort}, nil
		}
		sess.OrderText = text
		sess.State = order.StateAskPayment
		e.store.Put(customerID, sess)
		return []string{msgAskPayment}, nil

	case order.StateAskPayment:
		payment := order.ParsePayment(text)
		if payment == order.PaymentUnknown {
			return []string{msgPaymentHelp}, nil
		}
		sess.Payment = payment
		sess.State = order.StateConfirm
		e.store.Put(customerID, sess)
		return []string{e.summary(sess)}, nil

	case order.StateConfirm:
		if lower != affirmative {
			return []string{msgConfirmHelp}, nil
		}
		o := order.Assemble(customerID, sess)
		if err := e.dispatcher.Send(ctx, o); err != nil {
			// Session stays so the customer can retry or restart.
			return []string{msgDispatchFailed}, fmt.Errorf("dispatch order %s: %w", o.ID, err)
		}
		e.store.Delete(customerID)
		return e.confirmed(sess), nil

	default:
		// Unknown state value: recover by starting over.
		e.store.Delete(customerID)
		return e.begin(customerID, now), nil
	}
}

// begin opens a fresh conversation: session in AskPickup, greeting plus
// pickup help quoting the earliest feasible instant.
func (e *Engine) begin(customerID string, now time.Time) []string {
	e.store.Put(customerID, order.Session{State: order.StateAskPickup})
	earliest := e.policy.EarliestPickup(now)
	return []string{
		fmt.Sprintf(msgGreeting, e.cfg.CafeName),
		fmt.Sprintf(msgAskPickup, e.policy.Format(earliest)),
	}
}

func (e *Engine) windowHelp() string {
	return fmt.Sprintf(msgTimeWindowHelp, e.policy.WindowStart, e.policy.WindowEnd)
}

func (e *Engine) summary(s order.Session) string {
	return fmt.Sprintf(msgSummary, e.policy.Format(s.Pickup), s.OrderText, s.Payment.Label())
}

func (e *Engine) confirmed(s order.Session) []string {
	segments := []string{fmt.Sprintf(msgConfirmed, e.policy.Format(s.Pickup))}
	if s.Payment == order.PaymentPayPal && e.cfg.PayPalLink != "" {
		segments = append(segments, fmt.Sprintf(msgPayPalLink, e.cfg.PayPalLink))
	}
	return segments
}
