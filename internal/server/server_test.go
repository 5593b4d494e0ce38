package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/toolgram/premium/internal/config"
	entitlementdomain "github.com/toolgram/premium/internal/entitlement/domain"
	paymentdomain "github.com/toolgram/premium/internal/payment/domain"
	"go.uber.org/zap"
)

type stubEntitlements struct {
	decision  entitlementdomain.Decision
	recompute entitlementdomain.RecomputeResult
	order     entitlementdomain.CreateOrderResponse
	orderErr  error
}

func (s *stubEntitlements) CreateOrder(ctx context.Context, req entitlementdomain.CreateOrderRequest) (entitlementdomain.CreateOrderResponse, error) {
	return s.order, s.orderErr
}

func (s *stubEntitlements) ApplyPaymentEvent(ctx context.Context, event paymentdomain.WebhookEvent) error {
	return nil
}

func (s *stubEntitlements) RecomputeValidity(ctx context.Context) (entitlementdomain.RecomputeResult, error) {
	return s.recompute, nil
}

func (s *stubEntitlements) Check(ctx context.Context, userID string) (entitlementdomain.Decision, error) {
	return s.decision, nil
}

type stubIngest struct {
	err error
}

func (s *stubIngest) IngestWebhook(ctx context.Context, payload []byte, headers http.Header) error {
	return s.err
}

func newTestServer(t *testing.T, entitlements entitlementdomain.Service, ingest paymentdomain.IngestService) http.Handler {
	t.Helper()

	cfg := config.Config{AdminSecret: "sekrit"}
	engine := NewEngine(cfg)
	srv := NewServer(Params{
		Engine:       engine,
		Cfg:          cfg,
		Log:          zap.NewNop(),
		Entitlements: entitlements,
		Ingest:       ingest,
	})
	registerRoutes(srv)
	return engine
}

func TestWebhookInvalidSignature(t *testing.T) {
	handler := newTestServer(t, &stubEntitlements{}, &stubIngest{err: paymentdomain.ErrInvalidSignature})

	req := httptest.NewRequest(http.MethodPost, "/webhooks/razorpay", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, false, body["success"])
	require.Equal(t, "Invalid signature", body["error"])
}

func TestWebhookAcknowledged(t *testing.T) {
	handler := newTestServer(t, &stubEntitlements{}, &stubIngest{})

	req := httptest.NewRequest(http.MethodPost, "/webhooks/razorpay", strings.NewReader(`{"event":"other.unhandled"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"success":true}`, rec.Body.String())
}

func TestCreateOrderRequiresUserID(t *testing.T) {
	handler := newTestServer(t, &stubEntitlements{}, &stubIngest{})

	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(`{"referralCode":"FRIEND10"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, false, body["success"])
}

func TestPremiumStatusDenials(t *testing.T) {
	cases := []struct {
		name    string
		reason  entitlementdomain.DenyReason
		message string
	}{
		{"no subscription", entitlementdomain.DenyNoSubscription, "Subscription required"},
		{"expired", entitlementdomain.DenyExpiredOrInactive, "Subscription expired"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler := newTestServer(t, &stubEntitlements{
				decision: entitlementdomain.Decision{Reason: tc.reason},
			}, &stubIngest{})

			req := httptest.NewRequest(http.MethodGet, "/api/premium/status?userId=u-1", nil)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			require.Equal(t, http.StatusForbidden, rec.Code)

			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			require.Equal(t, tc.message, body["error"])
		})
	}
}

func TestPremiumStatusRequiresUserID(t *testing.T) {
	handler := newTestServer(t, &stubEntitlements{}, &stubIngest{})

	req := httptest.NewRequest(http.MethodGet, "/api/premium/status", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPremiumStatusAllowed(t *testing.T) {
	expiry := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	plan := "premium"
	handler := newTestServer(t, &stubEntitlements{
		decision: entitlementdomain.Decision{
			Allowed: true,
			Subscription: &entitlementdomain.Subscription{
				UserID:     "u-1",
				Premium:    true,
				ExpiryDate: &expiry,
				Plan:       &plan,
			},
		},
	}, &stubIngest{})

	req := httptest.NewRequest(http.MethodGet, "/api/premium/status?userId=u-1", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, true, body["premium"])
	require.Equal(t, "premium", body["plan"])
}

func TestRecomputeRequiresAdminSecret(t *testing.T) {
	handler := newTestServer(t, &stubEntitlements{
		recompute: entitlementdomain.RecomputeResult{Processed: 3},
	}, &stubIngest{})

	req := httptest.NewRequest(http.MethodPost, "/admin/recompute", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/admin/recompute", nil)
	req.Header.Set("X-Admin-Secret", "sekrit")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "3 users processed", body["message"])
}
