package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/directchat-backend/internal/pkg/ctxutil"
	"github.com/yungbote/directchat-backend/internal/pkg/logger"
	"github.com/yungbote/directchat-backend/internal/pkg/session"
)

const headerChatUser = "X-Chat-User"

type SessionMiddleware struct {
	log          *logger.Logger
	secret       string
	authRequired bool
}

// NewSessionMiddleware resolves the caller from a bearer token or ?token=.
// With authRequired false, X-Chat-User or ?username= is accepted as well.
func NewSessionMiddleware(log *logger.Logger, secret string, authRequired bool) *SessionMiddleware {
	return &SessionMiddleware{
		log:          log.With("Middleware", "SessionMiddleware"),
		secret:       secret,
		authRequired: authRequired,
	}
}

// Attach resolves a session when one is presented and never rejects.
func (sm *SessionMiddleware) Attach() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s, err := sm.resolve(c); err == nil && s != nil {
			c.Request = c.Request.WithContext(session.With(c.Request.Context(), s))
		}
		c.Next()
	}
}

// RequireSession rejects requests without a resolvable caller.
func (sm *SessionMiddleware) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := sm.resolve(c)
		if err != nil || s == nil {
			msg := "missing or invalid session"
			if err != nil {
				msg = err.Error()
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"message": msg, "code": "unauthorized"},
			})
			return
		}
		c.Request = c.Request.WithContext(session.With(c.Request.Context(), s))
		c.Next()
	}
}

func (sm *SessionMiddleware) resolve(c *gin.Context) (*session.Session, error) {
	reqID := ctxutil.RequestID(c.Request.Context())
	if tok := extractToken(c); tok != "" {
		username, err := session.ParseToken(sm.secret, tok)
		if err != nil {
			sm.log.Debug("rejected session token", "error", err)
			return nil, err
		}
		return &session.Session{Username: username, RequestID: reqID}, nil
	}
	if sm.authRequired {
		return nil, nil
	}
	username := strings.TrimSpace(c.GetHeader(headerChatUser))
	if username == "" {
		username = strings.TrimSpace(c.Query("username"))
	}
	if username == "" {
		return nil, nil
	}
	return &session.Session{Username: username, RequestID: reqID}, nil
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return strings.TrimSpace(c.Query("token"))
}
