package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	types "github.com/yungbote/directchat-backend/internal/domain"
	"github.com/yungbote/directchat-backend/internal/http/response"
	"github.com/yungbote/directchat-backend/internal/pkg/dbctx"
	"github.com/yungbote/directchat-backend/internal/pkg/logger"
	"github.com/yungbote/directchat-backend/internal/pkg/session"
	"github.com/yungbote/directchat-backend/internal/services"
)

const defaultTokenTTL = 24 * time.Hour

type UserHandlerDeps struct {
	Log *logger.Logger
	// Users is the user directory.
	Users services.UserService
	// JWTSecret enables session tokens; empty disables them.
	JWTSecret string
	TokenTTL  time.Duration
}

type UserHandler struct {
	log       *logger.Logger
	users     services.UserService
	jwtSecret string
	tokenTTL  time.Duration
}

func NewUserHandler(deps UserHandlerDeps) *UserHandler {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	ttl := deps.TokenTTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	RegisterValidators()
	return &UserHandler{
		log:       log.With("handler", "UserHandler"),
		users:     deps.Users,
		jwtSecret: deps.JWTSecret,
		tokenTTL:  ttl,
	}
}

type upsertUserReq struct {
	Username    string `json:"username" binding:"required,notblank,max=64"`
	DisplayName string `json:"displayName" binding:"max=128"`
	Password    string `json:"password" binding:"omitempty,min=8,max=72"`
}

type loginReq struct {
	Username string `json:"username" binding:"required,notblank"`
	Password string `json:"password" binding:"required"`
}

type userResp struct {
	User  *types.User `json:"user"`
	Token string      `json:"token,omitempty"`
}

// POST /api/users
func (h *UserHandler) Upsert(c *gin.Context) {
	var req upsertUserReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	u, err := h.users.Upsert(dbctx.New(c.Request.Context()), req.Username, req.DisplayName, req.Password)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, userResp{User: u, Token: h.issue(u.Username)})
}

// POST /api/users/login
func (h *UserHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	u, err := h.users.Login(dbctx.New(c.Request.Context()), req.Username, req.Password)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	token := h.issue(u.Username)
	if token == "" {
		response.RespondError(c, http.StatusServiceUnavailable, "sessions_disabled", nil)
		return
	}
	response.RespondOK(c, userResp{User: u, Token: token})
}

// GET /api/users/me
func (h *UserHandler) Me(c *gin.Context) {
	u, err := h.users.Get(dbctx.New(c.Request.Context()), session.Username(c.Request.Context()))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, userResp{User: u})
}

func (h *UserHandler) issue(username string) string {
	if h.jwtSecret == "" {
		return ""
	}
	token, err := session.IssueToken(h.jwtSecret, username, h.tokenTTL)
	if err != nil {
		h.log.Warn("token issue failed", "username", username, "error", err)
		return ""
	}
	return token
}
