package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	paymentdomain "github.com/toolgram/premium/internal/payment/domain"
	"go.uber.org/zap"
)

func (s *Server) HandlePaymentWebhook(c *gin.Context) {
	if s.limiter.Enabled() {
		allowed, err := s.limiter.AllowWebhook(c.Request.Context())
		if err != nil {
			// Rate limiting is protective, not authoritative; let the
			// event through when redis is unreachable.
			s.log.Warn("webhook rate limiter unavailable", zap.Error(err))
		} else if !allowed {
			c.JSON(http.StatusTooManyRequests, gin.H{"success": false, "error": "rate limited"})
			return
		}
	}

	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "unreadable body"})
		return
	}

	if err := s.ingest.IngestWebhook(c.Request.Context(), payload, c.Request.Header); err != nil {
		if errors.Is(err, paymentdomain.ErrInvalidSignature) {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid signature"})
			return
		}
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
