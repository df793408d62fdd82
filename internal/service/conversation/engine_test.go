package conversation

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"cafe-bestellbot/internal/model/order"
	"cafe-bestellbot/internal/schedule"
	"cafe-bestellbot/internal/store"
)

const customer = "whatsapp:+4915112345678"

type recordingDispatcher struct {
	orders []order.Order
	err    error
}

func (d *recordingDispatcher) Send(_ context.Context, o order.Order) error {
	if d.err != nil {
		return d.err
	}
	d.orders = append(d.orders, o)
	return nil
}

// Fixed clock: Monday 2025-06-02 10:00 in Berlin, 30 min lead,
// window 07:00-15:00, Sundays closed. Earliest pickup is 10:30.
func newTestEngine(t *testing.T, d *recordingDispatcher) (*Engine, *store.MemoryStore) {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	policy := schedule.Policy{
		Location: loc,
		OpenDays: map[time.Weekday]bool{
			time.Monday:    true,
			time.Tuesday:   true,
			time.Wednesday: true,
			time.Thursday:  true,
			time.Friday:    true,
			time.Saturday:  true,
		},
		WindowStart: schedule.Clock{Hour: 7},
		WindowEnd:   schedule.Clock{Hour: 15},
		LeadTime:    30 * time.Minute,
	}

	sessions := store.NewMemoryStore()
	e := New(sessions, policy, d, Config{
		CafeName:   "Café Morgenstern",
		PayPalLink: "https://paypal.me/morgenstern",
	})
	e.now = func() time.Time {
		return time.Date(2025, 6, 2, 10, 0, 0, 0, loc)
	}
	return e, sessions
}

func handle(t *testing.T, e *Engine, body string) []string {
	t.Helper()
	segments, err := e.Handle(context.Background(), customer, body)
	require.NoError(t, err)
	return segments
}

func TestFirstMessageGreetsAndAsksForPickup(t *testing.T) {
	e, sessions := newTestEngine(t, &recordingDispatcher{})

	segments := handle(t, e, "hallo")

	require.Len(t, segments, 2)
	require.Contains(t, segments[0], "Willkommen")
	require.Contains(t, segments[1], "Montag, 02.06.2025 um 10:30 Uhr")

	sess, ok := sessions.Get(customer)
	require.True(t, ok)
	require.Equal(t, order.StateAskPickup, sess.State)
}

func TestFullHappyPath(t *testing.T) {
	d := &recordingDispatcher{}
	e, sessions := newTestEngine(t, d)

	handle(t, e, "hallo")

	// 08:00 is earlier than feasible and snaps forward to 10:30.
	reply := handle(t, e, "08:00")
	require.Contains(t, reply[0], "10:30")
	sess, _ := sessions.Get(customer)
	require.Equal(t, order.StateAskOrder, sess.State)

	reply = handle(t, e, "2x Coffee")
	require.Contains(t, reply[0], "PayPal")
	sess, _ = sessions.Get(customer)
	require.Equal(t, order.StateAskPayment, sess.State)

	reply = handle(t, e, "PayPal")
	require.Contains(t, reply[0], "2x Coffee")
	require.Contains(t, reply[0], "*ja*")
	sess, _ = sessions.Get(customer)
	require.Equal(t, order.StateConfirm, sess.State)

	reply = handle(t, e, "ja")
	require.Len(t, reply, 2)
	require.Contains(t, reply[0], "Montag, 02.06.2025 um 10:30 Uhr")
	require.Contains(t, reply[1], "https://paypal.me/morgenstern")

	require.Len(t, d.orders, 1)
	o := d.orders[0]
	require.NotEmpty(t, o.ID)
	require.Equal(t, customer, o.CustomerID)
	require.Equal(t, "2x Coffee", o.OrderText)
	require.Equal(t, order.PaymentPayPal, o.Payment)
	require.False(t, sessions.HasActive(customer))
}

func TestOnSitePaymentHasNoLinkAddendum(t *testing.T) {
	d := &recordingDispatcher{}
	e, _ := newTestEngine(t, d)

	handle(t, e, "hallo")
	handle(t, e, "11:00")
	handle(t, e, "1x Brezel")
	handle(t, e, "vor Ort bitte")
	reply := handle(t, e, "ja")

	require.Len(t, reply, 1)
	require.Len(t, d.orders, 1)
	require.Equal(t, order.PaymentOnSite, d.orders[0].Payment)
}

func TestUnparseableTimeKeepsState(t *testing.T) {
	e, sessions := newTestEngine(t, &recordingDispatcher{})

	handle(t, e, "hallo")
	reply := handle(t, e, "um acht")

	require.Contains(t, reply[0], "Uhrzeit")
	sess, _ := sessions.Get(customer)
	require.Equal(t, order.StateAskPickup, sess.State)
}

func TestOutsideWindowKeepsState(t *testing.T) {
	e, sessions := newTestEngine(t, &recordingDispatcher{})

	handle(t, e, "hallo")
	reply := handle(t, e, "16:00")

	require.Contains(t, reply[0], "07:00")
	require.Contains(t, reply[0], "15:00")
	sess, _ := sessions.Get(customer)
	require.Equal(t, order.StateAskPickup, sess.State)
}

func TestShortOrderTextReprompts(t *testing.T) {
	e, sessions := newTestEngine(t, &recordingDispatcher{})

	handle(t, e, "hallo")
	handle(t, e, "11:00")
	handle(t, e, "x")

	sess, _ := sessions.Get(customer)
	require.Equal(t, order.StateAskOrder, sess.State)
	require.Empty(t, sess.OrderText)
}

func TestUnrecognizedPaymentReprompts(t *testing.T) {
	e, sessions := newTestEngine(t, &recordingDispatcher{})

	handle(t, e, "hallo")
	handle(t, e, "11:00")
	handle(t, e, "1x Croissant")
	reply := handle(t, e, "bar")

	require.Contains(t, reply[0], "PayPal")
	sess, _ := sessions.Get(customer)
	require.Equal(t, order.StateAskPayment, sess.State)
}

func TestConfirmRequiresExactAffirmative(t *testing.T) {
	d := &recordingDispatcher{}
	e, sessions := newTestEngine(t, d)

	handle(t, e, "hallo")
	handle(t, e, "11:00")
	handle(t, e, "1x Croissant")
	handle(t, e, "paypal")
	handle(t, e, "ja bitte")

	require.Empty(t, d.orders)
	sess, _ := sessions.Get(customer)
	require.Equal(t, order.StateConfirm, sess.State)
}

func TestCancelFromEveryState(t *testing.T) {
	steps := [][]string{
		{},
		{"hallo"},
		{"hallo", "11:00"},
		{"hallo", "11:00", "1x Croissant"},
		{"hallo", "11:00", "1x Croissant", "paypal"},
	}
	for _, cancel := range []string{"abbrechen", "Storno", "STOP"} {
		for _, setup := range steps {
			e, sessions := newTestEngine(t, &recordingDispatcher{})
			for _, msg := range setup {
				handle(t, e, msg)
			}

			reply := handle(t, e, cancel)

			require.Len(t, reply, 1)
			require.Contains(t, reply[0], "abgebrochen")
			require.False(t, sessions.HasActive(customer))
		}
	}
}

func TestRestartMidConversationStartsOver(t *testing.T) {
	e, sessions := newTestEngine(t, &recordingDispatcher{})

	handle(t, e, "hallo")
	handle(t, e, "11:00")
	sess, _ := sessions.Get(customer)
	require.Equal(t, order.StateAskOrder, sess.State)

	reply := handle(t, e, "neu")

	fresh, _ := newTestEngine(t, &recordingDispatcher{})
	want := handle(t, fresh, "hallo")
	require.Equal(t, want, reply)

	sess, ok := sessions.Get(customer)
	require.True(t, ok)
	require.Equal(t, order.StateAskPickup, sess.State)
	require.True(t, sess.Pickup.IsZero())
}

func TestDispatchFailureKeepsSession(t *testing.T) {
	d := &recordingDispatcher{err: errors.New("gateway timeout")}
	e, sessions := newTestEngine(t, d)

	handle(t, e, "hallo")
	handle(t, e, "11:00")
	handle(t, e, "1x Croissant")
	handle(t, e, "paypal")

	reply, err := e.Handle(context.Background(), customer, "ja")
	require.Error(t, err)
	require.Contains(t, reply[0], "schiefgelaufen")

	// The session survives, so confirming again works once dispatch recovers.
	sess, ok := sessions.Get(customer)
	require.True(t, ok)
	require.Equal(t, order.StateConfirm, sess.State)

	d.err = nil
	handle(t, e, "ja")
	require.Len(t, d.orders, 1)
	require.False(t, sessions.HasActive(customer))
}

func TestUnknownStateFallsBackToFreshStart(t *testing.T) {
	e, sessions := newTestEngine(t, &recordingDispatcher{})
	sessions.Put(customer, order.Session{State: order.State("corrupted")})

	reply := handle(t, e, "hallo")

	require.True(t, strings.Contains(reply[0], "Willkommen"))
	sess, _ := sessions.Get(customer)
	require.Equal(t, order.StateAskPickup, sess.State)
}
