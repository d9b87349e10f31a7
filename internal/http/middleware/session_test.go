package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/directchat-backend/internal/pkg/logger"
	"github.com/yungbote/directchat-backend/internal/pkg/session"
)

func sessionRouter(sm *SessionMiddleware) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AttachRequestContext())
	r.GET("/who", sm.RequireSession(), func(c *gin.Context) {
		c.String(http.StatusOK, session.Username(c.Request.Context()))
	})
	return r
}

func TestRequireSession(t *testing.T) {
	const secret = "test-secret"
	token, err := session.IssueToken(secret, "alice", time.Hour)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	cases := []struct {
		name         string
		authRequired bool
		setup        func(r *http.Request)
		wantStatus   int
		wantUser     string
	}{
		{name: "bearer", authRequired: true, setup: func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }, wantStatus: http.StatusOK, wantUser: "alice"},
		{name: "query token", authRequired: true, setup: func(r *http.Request) { r.URL.RawQuery = "token=" + token }, wantStatus: http.StatusOK, wantUser: "alice"},
		{name: "bad token", authRequired: false, setup: func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") }, wantStatus: http.StatusUnauthorized},
		{name: "dev header", authRequired: false, setup: func(r *http.Request) { r.Header.Set(headerChatUser, "bob") }, wantStatus: http.StatusOK, wantUser: "bob"},
		{name: "dev query", authRequired: false, setup: func(r *http.Request) { r.URL.RawQuery = "username=carol" }, wantStatus: http.StatusOK, wantUser: "carol"},
		{name: "dev header refused when auth required", authRequired: true, setup: func(r *http.Request) { r.Header.Set(headerChatUser, "bob") }, wantStatus: http.StatusUnauthorized},
		{name: "anonymous", authRequired: false, setup: func(r *http.Request) {}, wantStatus: http.StatusUnauthorized},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := sessionRouter(NewSessionMiddleware(logger.Nop(), secret, tc.authRequired))
			req := httptest.NewRequest(http.MethodGet, "/who", nil)
			tc.setup(req)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("status: got=%d want=%d body=%s", rec.Code, tc.wantStatus, rec.Body.String())
			}
			if tc.wantUser != "" && rec.Body.String() != tc.wantUser {
				t.Fatalf("username: got=%q want=%q", rec.Body.String(), tc.wantUser)
			}
			if rec.Header().Get(headerRequestID) == "" {
				t.Fatalf("missing %s header", headerRequestID)
			}
		})
	}
}
