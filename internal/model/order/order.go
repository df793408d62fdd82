package order

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// State tags where a conversation currently is. StateNew is explicit so that
// every transition is a total function over the enum; the store simply has no
// entry for customers in StateNew.
type State string

const (
	StateNew        State = "new"
	StateAskPickup  State = "ask_pickup"
	StateAskOrder   State = "ask_order"
	StateAskPayment State = "ask_payment"
	StateConfirm    State = "confirm"
)

// Payment is the customer's chosen payment method.
type Payment string

const (
	PaymentUnknown Payment = ""
	PaymentPayPal  Payment = "paypal"
	PaymentOnSite  Payment = "on_site"
)

// ParsePayment tokenizes free text into a payment method. Matching is loose
// on purpose: any mention of "paypal" or "vor" (as in "vor Ort") counts.
func ParsePayment(text string) Payment {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "paypal"):
		return PaymentPayPal
	case strings.Contains(lower, "vor"):
		return PaymentOnSite
	default:
		return PaymentUnknown
	}
}

// Label returns the display name used in replies and owner notifications.
func (p Payment) Label() string {
	switch p {
	case PaymentPayPal:
		return "PayPal"
	case PaymentOnSite:
		return "Bezahlung vor Ort"
	default:
		return ""
	}
}

// Session is the mutable per-customer conversation state between messages.
// Fields fill in as the dialogue progresses; UpdatedAt feeds the idle sweep.
type Session struct {
	State     State
	Pickup    time.Time
	OrderText string
	Payment   Payment
	UpdatedAt time.Time
}

// Order is the transient record handed to the notification dispatcher on
// confirmation. It is assembled from the session, sent, and discarded.
type Order struct {
	ID         string
	CustomerID string
	Pickup     time.Time
	OrderText  string
	Payment    Payment
}

// Assemble builds the Order for a confirmed session.
func Assemble(customerID string, s Session) Order {
	return Order{
		ID:         uuid.NewString(),
		CustomerID: customerID,
		Pickup:     s.Pickup,
		OrderText:  s.OrderText,
		Payment:    s.Payment,
	}
}
