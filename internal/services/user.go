package services

import (
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/yungbote/directchat-backend/internal/data/repos"
	types "github.com/yungbote/directchat-backend/internal/domain"
	"github.com/yungbote/directchat-backend/internal/pkg/dbctx"
	errs "github.com/yungbote/directchat-backend/internal/pkg/errors"
	"github.com/yungbote/directchat-backend/internal/pkg/logger"
)

const maxUsernameLen = 64

// UserService manages the minimal user directory chats reference.
type UserService interface {
	// Upsert creates or updates a directory entry. A non-empty password
	// replaces the stored hash.
	Upsert(dbc dbctx.Context, username, displayName, password string) (*types.User, error)
	Get(dbc dbctx.Context, username string) (*types.User, error)
	// Login checks password against the stored hash.
	Login(dbc dbctx.Context, username, password string) (*types.User, error)
}

type userService struct {
	log   *logger.Logger
	users repos.UserRepo
}

func NewUserService(baseLog *logger.Logger, userRepo repos.UserRepo) UserService {
	return &userService{
		log:   baseLog.With("service", "UserService"),
		users: userRepo,
	}
}

func (s *userService) Upsert(dbc dbctx.Context, username, displayName, password string) (*types.User, error) {
	const op = "upsert_user"
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, errs.Validation(op, "username is required")
	}
	if len(username) > maxUsernameLen {
		return nil, errs.Validation(op, "username exceeds %d characters", maxUsernameLen)
	}

	u := &types.User{Username: username, DisplayName: strings.TrimSpace(displayName)}
	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, errs.Validation(op, "unusable password: %v", err)
		}
		u.PasswordHash = string(hash)
	}

	if _, err := s.users.Create(dbc, []*types.User{u}); err != nil {
		return nil, errs.Persistence(op, err)
	}
	return s.Get(dbc, username)
}

func (s *userService) Get(dbc dbctx.Context, username string) (*types.User, error) {
	const op = "get_user"
	username = strings.TrimSpace(username)
	found, err := s.users.GetByUsernames(dbc, []string{username})
	if err != nil {
		return nil, errs.Persistence(op, err)
	}
	if len(found) == 0 {
		return nil, errs.UserNotFound(op, username)
	}
	return found[0], nil
}

func (s *userService) Login(dbc dbctx.Context, username, password string) (*types.User, error) {
	const op = "login"
	u, err := s.Get(dbc, username)
	if err != nil {
		return nil, err
	}
	if u.PasswordHash == "" {
		return nil, errs.Unauthorized(op, "password login not enabled")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		s.log.Debug("login rejected", "username", u.Username)
		return nil, errs.Unauthorized(op, "invalid credentials")
	}
	return u, nil
}
