package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	entitlementdomain "github.com/toolgram/premium/internal/entitlement/domain"
	paymentdomain "github.com/toolgram/premium/internal/payment/domain"
)

// ErrorHandlingMiddleware renders any error a handler attached but did not
// write itself. Handler-specific shapes (webhook acks, order responses)
// are written directly by the handlers; this is the fallback.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, message := mapError(lastErr.Err)
		c.AbortWithStatusJSON(status, gin.H{"success": false, "error": message})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, string) {
	switch {
	case errors.Is(err, entitlementdomain.ErrMissingUserID):
		return http.StatusBadRequest, "userId is required"
	case errors.Is(err, entitlementdomain.ErrSubscriptionNeeded):
		return http.StatusForbidden, "Subscription required"
	case errors.Is(err, entitlementdomain.ErrSubscriptionExpired):
		return http.StatusForbidden, "Subscription expired"
	case errors.Is(err, paymentdomain.ErrInvalidPayload):
		return http.StatusBadRequest, "invalid payload"
	case errors.Is(err, paymentdomain.ErrInvalidSignature):
		return http.StatusUnauthorized, "Invalid signature"
	case errors.Is(err, paymentdomain.ErrGatewayFailure):
		return http.StatusBadGateway, "payment gateway unavailable"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}
