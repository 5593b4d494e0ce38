package server

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const headerAdminSecret = "X-Admin-Secret"

func (s *Server) RequireAdminSecret() gin.HandlerFunc {
	return func(c *gin.Context) {
		provided := strings.TrimSpace(c.GetHeader(headerAdminSecret))
		if provided == "" ||
			subtle.ConstantTimeCompare([]byte(provided), []byte(s.cfg.AdminSecret)) != 1 {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "error": "forbidden"})
			return
		}
		c.Next()
	}
}

func (s *Server) Recompute(c *gin.Context) {
	ctx := c.Request.Context()

	token, acquired, err := s.limiter.TryLockRecompute(ctx)
	if err != nil {
		s.log.Warn("recompute lock unavailable, proceeding", zap.Error(err))
	} else if !acquired {
		c.JSON(http.StatusConflict, gin.H{"success": false, "error": "recompute already running"})
		return
	}
	if token != "" {
		defer func() {
			_ = s.limiter.ReleaseRecompute(ctx, token)
		}()
	}

	result, err := s.entitlements.RecomputeValidity(ctx)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("%d users processed", result.Processed),
	})
}
