package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/muhammadyusri121/sistem-pembinaan-siswa/internal/models"
	appErrors "github.com/muhammadyusri121/sistem-pembinaan-siswa/pkg/errors"
	"github.com/muhammadyusri121/sistem-pembinaan-siswa/pkg/response"
)

// ClaimsContextKey is where authenticated claims live in the Gin context.
const ClaimsContextKey = "claims"

type tokenParser interface {
	ParseToken(tokenString string) (*models.JWTClaims, error)
}

// JWT validates the bearer token and stores its claims in the context.
func JWT(parser tokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "token tidak ditemukan"))
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "format token tidak valid"))
			c.Abort()
			return
		}

		claims, err := parser.ParseToken(parts[1])
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "token tidak valid atau kedaluwarsa"))
			c.Abort()
			return
		}

		c.Set(ClaimsContextKey, claims)
		c.Next()
	}
}
