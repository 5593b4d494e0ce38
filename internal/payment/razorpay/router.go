package razorpay

import (
	"encoding/json"
	"strconv"
	"strings"

	paymentdomain "github.com/toolgram/premium/internal/payment/domain"
)

type envelope struct {
	Event   string          `json:"event"`
	Payload envelopePayload `json:"payload"`
}

type envelopePayload struct {
	Payment      *entityWrapper `json:"payment"`
	Subscription *entityWrapper `json:"subscription"`
}

type entityWrapper struct {
	Entity entity `json:"entity"`
}

type entity struct {
	Notes map[string]any `json:"notes"`
}

// Classify maps a verified webhook body onto the event the entitlement
// engine understands. Unknown event types classify as EventTypeOther and
// are never an error: the gateway retries on non-2xx responses, and retrying
// an event this service ignores is pointless.
func Classify(payload []byte) (paymentdomain.WebhookEvent, error) {
	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return paymentdomain.WebhookEvent{}, paymentdomain.ErrInvalidPayload
	}

	event := strings.TrimSpace(env.Event)
	out := paymentdomain.WebhookEvent{
		Type:    paymentdomain.EventTypeOther,
		RawType: event,
		RawBody: payload,
	}

	var notes map[string]any
	switch {
	case event == "payment.captured":
		out.Type = paymentdomain.EventTypePaymentCaptured
		if env.Payload.Payment != nil {
			notes = env.Payload.Payment.Entity.Notes
		}
	case strings.HasPrefix(event, "subscription."):
		out.Type = paymentdomain.EventTypeSubscription
		if env.Payload.Subscription != nil {
			notes = env.Payload.Subscription.Entity.Notes
		}
	default:
		return out, nil
	}

	out.UserID = readNote(notes, "userId")
	out.ReferralCode = readNote(notes, "referralCode")
	return out, nil
}

func readNote(notes map[string]any, key string) string {
	if notes == nil {
		return ""
	}
	value, ok := notes[key]
	if !ok {
		return ""
	}
	switch cast := value.(type) {
	case string:
		return strings.TrimSpace(cast)
	case float64:
		if cast == 0 {
			return ""
		}
		return strconv.FormatInt(int64(cast), 10)
	}
	return ""
}
