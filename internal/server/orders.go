package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	entitlementdomain "github.com/toolgram/premium/internal/entitlement/domain"
)

func (s *Server) CreateOrder(c *gin.Context) {
	var req entitlementdomain.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.UserID) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "userId is required"})
		return
	}

	resp, err := s.entitlements.CreateOrder(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"order":    resp.Order,
		"discount": resp.Discount,
	})
}
