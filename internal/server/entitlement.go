package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	entitlementdomain "github.com/toolgram/premium/internal/entitlement/domain"
)

const (
	headerUserID        = "X-User-ID"
	contextSubscription = "subscription"
	contextGatedUserID  = "gated_user_id"
)

// RequireEntitlement gates a route on current stored entitlement and
// wall-clock time. The decision is computed fresh on every request;
// premium is a function of time, not a cached fact.
func (s *Server) RequireEntitlement() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := strings.TrimSpace(c.Query("userId"))
		if userID == "" {
			userID = strings.TrimSpace(c.GetHeader(headerUserID))
		}
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "error": "userId is required"})
			return
		}

		decision, err := s.entitlements.Check(c.Request.Context(), userID)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		if !decision.Allowed {
			denyErr := entitlementdomain.ErrSubscriptionNeeded
			if decision.Reason == entitlementdomain.DenyExpiredOrInactive {
				denyErr = entitlementdomain.ErrSubscriptionExpired
			}
			status, message := mapError(denyErr)
			c.AbortWithStatusJSON(status, gin.H{"error": message})
			return
		}

		c.Set(contextGatedUserID, userID)
		c.Set(contextSubscription, decision.Subscription)
		c.Next()
	}
}

func (s *Server) PremiumStatus(c *gin.Context) {
	value, _ := c.Get(contextSubscription)
	sub, _ := value.(*entitlementdomain.Subscription)
	if sub == nil {
		AbortWithError(c, entitlementdomain.ErrSubscriptionNeeded)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"premium":    true,
		"plan":       sub.Plan,
		"expiryDate": sub.ExpiryDate,
	})
}
