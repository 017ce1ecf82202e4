package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/muhammadyusri121/sistem-pembinaan-siswa/internal/middleware"
	"github.com/muhammadyusri121/sistem-pembinaan-siswa/internal/models"
)

// claimsFromContext extracts the authenticated claims set by the JWT
// middleware.
func claimsFromContext(c *gin.Context) (*models.JWTClaims, bool) {
	value, exists := c.Get(middleware.ClaimsContextKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*models.JWTClaims)
	return claims, ok
}
