package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/astralnotes/astral-backend/internal/http/response"
	"github.com/astralnotes/astral-backend/internal/platform/identity"
	"github.com/astralnotes/astral-backend/internal/platform/logger"
	"github.com/astralnotes/astral-backend/internal/requestdata"
)

type AuthMiddleware struct {
	log      *logger.Logger
	verifier identity.Verifier
}

func NewAuthMiddleware(log *logger.Logger, verifier identity.Verifier) *AuthMiddleware {
	return &AuthMiddleware{log: log.With("middleware", "AuthMiddleware"), verifier: verifier}
}

// RequireAuth resolves the bearer token to a user id before anything else
// runs. On failure the request is aborted with 401 and no store or LLM call is
// ever made.
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearerToken(c)
		if token == "" {
			response.RespondError(c, http.StatusUnauthorized, "unauthorized", identity.ErrInvalidToken)
			c.Abort()
			return
		}
		userID, err := am.verifier.Verify(c.Request.Context(), token)
		if err != nil || userID == uuid.Nil {
			am.log.Debug("token verification failed", "error", err)
			response.RespondError(c, http.StatusUnauthorized, "unauthorized", identity.ErrInvalidToken)
			c.Abort()
			return
		}
		rd := &requestdata.RequestData{TokenString: token, UserID: userID}
		c.Request = c.Request.WithContext(requestdata.WithRequestData(c.Request.Context(), rd))
		c.Next()
	}
}

func extractBearerToken(c *gin.Context) string {
	authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
	if authHeader == "" {
		return ""
	}
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	// Some callers send the bare token without the scheme prefix.
	return authHeader
}
