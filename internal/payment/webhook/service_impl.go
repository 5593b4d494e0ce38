package webhook

import (
	"context"
	"errors"
	"net/http"

	entitlementdomain "github.com/toolgram/premium/internal/entitlement/domain"
	paymentdomain "github.com/toolgram/premium/internal/payment/domain"
	"github.com/toolgram/premium/internal/payment/razorpay"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log          *zap.Logger
	Verifier     *razorpay.Verifier
	Entitlements entitlementdomain.Service
}

type Service struct {
	log          *zap.Logger
	verifier     *razorpay.Verifier
	entitlements entitlementdomain.Service
}

func NewService(p Params) paymentdomain.IngestService {
	return &Service{
		log:          p.Log.Named("payment.webhook"),
		verifier:     p.Verifier,
		entitlements: p.Entitlements,
	}
}

// IngestWebhook verifies the delivery against the raw body, classifies it,
// and hands qualifying events to the entitlement engine. Events this
// service cannot act on are acknowledged so the gateway stops retrying.
func (s *Service) IngestWebhook(ctx context.Context, payload []byte, headers http.Header) error {
	if err := s.verifier.Verify(payload, headers.Get(razorpay.SignatureHeader)); err != nil {
		return err
	}

	event, err := razorpay.Classify(payload)
	if err != nil {
		if errors.Is(err, paymentdomain.ErrInvalidPayload) {
			// The sender is authentic but the body will never parse;
			// bouncing it only makes the gateway redeliver it forever.
			s.log.Warn("verified payload does not parse, acknowledged",
				zap.Int("bytes", len(payload)),
			)
			return nil
		}
		return err
	}

	if event.Type == paymentdomain.EventTypeOther {
		s.log.Debug("ignoring webhook event", zap.String("event", event.RawType))
		return nil
	}
	if event.UserID == "" {
		// Distinguishable from a successful unlock in logs, but still a
		// 2xx to the gateway: retrying cannot make the user id appear.
		s.log.Warn("qualifying event without user id acknowledged",
			zap.String("event", event.RawType),
		)
		return nil
	}

	return s.entitlements.ApplyPaymentEvent(ctx, event)
}
