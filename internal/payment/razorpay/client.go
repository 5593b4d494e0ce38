package razorpay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/toolgram/premium/internal/config"
	paymentdomain "github.com/toolgram/premium/internal/payment/domain"
	"go.uber.org/zap"
)

// Client talks to the Razorpay orders API using basic auth. It is
// constructed once and injected; there is no package-level singleton.
type Client struct {
	baseURL   string
	keyID     string
	keySecret string
	http      *http.Client
	log       *zap.Logger
}

func NewClient(cfg config.Config, log *zap.Logger) *Client {
	return &Client{
		baseURL:   strings.TrimRight(cfg.Razorpay.APIBaseURL, "/"),
		keyID:     cfg.Razorpay.KeyID,
		keySecret: cfg.Razorpay.KeySecret,
		http:      &http.Client{Timeout: 15 * time.Second},
		log:       log.Named("razorpay.client"),
	}
}

func (c *Client) CreateOrder(ctx context.Context, req paymentdomain.OrderRequest) (paymentdomain.Order, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return paymentdomain.Order{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		return paymentdomain.Order{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.SetBasicAuth(c.keyID, c.keySecret)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return paymentdomain.Order{}, fmt.Errorf("%w: %v", paymentdomain.ErrGatewayFailure, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return paymentdomain.Order{}, fmt.Errorf("%w: %v", paymentdomain.ErrGatewayFailure, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.Error("order creation rejected by gateway",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", respBody),
		)
		return paymentdomain.Order{}, fmt.Errorf("%w: status %d", paymentdomain.ErrGatewayFailure, resp.StatusCode)
	}

	var order paymentdomain.Order
	if err := json.Unmarshal(respBody, &order); err != nil {
		return paymentdomain.Order{}, fmt.Errorf("%w: %v", paymentdomain.ErrGatewayFailure, err)
	}
	return order, nil
}
