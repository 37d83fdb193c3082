package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/possync/backend/internal/domain/shared"
	"github.com/possync/backend/internal/infrastructure/auth"
	"github.com/possync/backend/internal/interfaces/http/dto"
)

// Gin context keys set by the JWT middleware.
const (
	ActorKey      = "user_email"
	JWTClaimsKey  = "jwt_claims"
	authHeaderKey = "Authorization"
	bearerPrefix  = "Bearer "
)

// JWTAuth validates the bearer token, stores the claims in both the gin and
// request contexts, and rejects unauthenticated requests with the envelope.
func JWTAuth(jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(authHeaderKey)
		if header == "" {
			abortUnauthenticated(c, "Missing authorization header")
			return
		}
		if !strings.HasPrefix(header, bearerPrefix) {
			abortUnauthenticated(c, "Invalid authorization header format")
			return
		}
		token := strings.TrimPrefix(header, bearerPrefix)
		if token == "" {
			abortUnauthenticated(c, "Missing token")
			return
		}

		claims, err := jwtService.ValidateToken(token)
		if err != nil {
			if errors.Is(err, auth.ErrExpiredToken) {
				abortUnauthenticated(c, "Token has expired")
				return
			}
			abortUnauthenticated(c, "Invalid token")
			return
		}

		c.Set(ActorKey, claims.Email)
		c.Set(JWTClaimsKey, claims)
		// Downstream permission checks read roles from the request context,
		// never from anything the client could set directly.
		c.Request = c.Request.WithContext(auth.WithClaims(c.Request.Context(), claims))
		c.Next()
	}
}

// CurrentActor returns the authenticated actor's email, empty when the
// request never passed the JWT middleware.
func CurrentActor(c *gin.Context) string {
	return c.GetString(ActorKey)
}

func abortUnauthenticated(c *gin.Context, message string) {
	requestID := c.GetString(RequestIDKey)
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponse(shared.CodeAuthentication, message, requestID))
}
