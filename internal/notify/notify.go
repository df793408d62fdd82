// Package notify delivers confirmed orders to the shop owner.
package notify

import (
	"context"
	"fmt"
	"log"

	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"

	"cafe-bestellbot/internal/model/order"
	"cafe-bestellbot/internal/schedule"
)

// Dispatcher sends the owner notification for a confirmed order.
type Dispatcher interface {
	Send(ctx context.Context, o order.Order) error
}

// TwilioConfig carries the credentials and addresses for WhatsApp delivery.
type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	// From and To are whatsapp:-prefixed numbers; To is the shop owner.
	From string
	To   string
}

// Enabled reports whether all fields required for delivery are present.
func (c TwilioConfig) Enabled() bool {
	return c.AccountSID != "" && c.AuthToken != "" && c.From != "" && c.To != ""
}

// TwilioDispatcher sends owner notifications over Twilio's WhatsApp API.
type TwilioDispatcher struct {
	client *twilio.RestClient
	cfg    TwilioConfig
	policy schedule.Policy
}

// NewTwilio builds a dispatcher for the given credentials.
func NewTwilio(cfg TwilioConfig, policy schedule.Policy) *TwilioDispatcher {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	return &TwilioDispatcher{client: client, cfg: cfg, policy: policy}
}

// Send delivers the owner summary as a single WhatsApp message. The Twilio
// call has no context variant; a hung call blocks only this message.
func (d *TwilioDispatcher) Send(_ context.Context, o order.Order) error {
	params := &openapi.CreateMessageParams{}
	params.SetTo(d.cfg.To)
	params.SetFrom(d.cfg.From)
	params.SetBody(ownerSummary(o, d.policy))

	if _, err := d.client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("twilio send: %w", err)
	}
	log.Printf("[notify] order %s dispatched to owner", o.ID)
	return nil
}

// LogDispatcher is the degraded-mode fallback when Twilio credentials are
// absent: it logs the summary instead of delivering it.
type LogDispatcher struct {
	policy schedule.Policy
}

// NewLog returns a dispatcher that only logs.
func NewLog(policy schedule.Policy) *LogDispatcher {
	return &LogDispatcher{policy: policy}
}

// Send logs the owner summary.
func (d *LogDispatcher) Send(_ context.Context, o order.Order) error {
	log.Printf("[notify] order not delivered (no Twilio credentials):\n%s", ownerSummary(o, d.policy))
	return nil
}

func ownerSummary(o order.Order, policy schedule.Policy) string {
	return fmt.Sprintf("🧾 Neue Bestellung %s\nKunde: %s\nAbholung: %s\nZahlung: %s\nBestellung: %s",
		o.ID, o.CustomerID, policy.Format(o.Pickup), o.Payment.Label(), o.OrderText)
}
