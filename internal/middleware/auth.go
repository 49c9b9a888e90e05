package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/SscSPs/finance_batch_pipeline/internal/logger"
	"github.com/SscSPs/finance_batch_pipeline/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func unauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
}

// tokenErrorMessage maps a parse failure to the message returned to the caller.
func tokenErrorMessage(err error) string {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return "Token has expired"
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return "Token not valid yet"
	default:
		return "Invalid token"
	}
}

// AuthMiddleware requires a Bearer JWT signed with jwtSecret. The token subject identifies
// the submitting client and is attached to the request context and logger.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logger.FromContext(c.Request.Context())

		header := c.GetHeader("Authorization")
		if header == "" {
			log.Warn().Msg("Authorization header missing")
			unauthorized(c, "Authorization header required")
			return
		}
		scheme, raw, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "bearer") || raw == "" || strings.Contains(raw, " ") {
			log.Warn().Msg("Authorization header format invalid")
			unauthorized(c, "Authorization header format must be Bearer {token}")
			return
		}

		claims, err := utils.ParseAndValidateJWT(raw, jwtSecret)
		if err != nil {
			log.Warn().Err(err).Msg("Rejected bearer token")
			unauthorized(c, tokenErrorMessage(err))
			return
		}
		if claims.Subject == "" {
			log.Warn().Msg("Token carries no subject")
			unauthorized(c, "Invalid token claims")
			return
		}

		enriched := log.With().Str("user_id", claims.Subject).Logger()
		ctx := context.WithValue(c.Request.Context(), userIDKey, claims.Subject)
		c.Request = c.Request.WithContext(logger.WithContext(ctx, enriched))
		c.Set(string(userIDKey), claims.Subject)

		c.Next()
	}
}
