package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/edulink-id/tutor-api/internal/middleware"
	"github.com/edulink-id/tutor-api/internal/models"
)

func claimsFromContext(c *gin.Context) *models.TokenClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.TokenClaims)
	if !ok {
		return nil
	}
	return claims
}
