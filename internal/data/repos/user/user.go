package user

import (
	"strings"

	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/directchat-backend/internal/domain"
	"github.com/yungbote/directchat-backend/internal/pkg/dbctx"
	"github.com/yungbote/directchat-backend/internal/pkg/logger"
)

type UserRepo interface {
	Create(dbc dbctx.Context, users []*types.User) ([]*types.User, error)
	GetByUsernames(dbc dbctx.Context, usernames []string) ([]*types.User, error)
	// MissingUsernames returns the subset of usernames with no directory entry, in input order.
	MissingUsernames(dbc dbctx.Context, usernames []string) ([]string, error)
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	return &userRepo{db: db, log: baseLog.With("repo", "UserRepo")}
}

func (ur *userRepo) Create(dbc dbctx.Context, users []*types.User) ([]*types.User, error) {
	if len(users) == 0 {
		return []*types.User{}, nil
	}
	for _, u := range users {
		u.Username = strings.TrimSpace(u.Username)
	}
	// Existing hashes are kept unless every row carries a new one.
	cols := []string{"display_name", "updated_at"}
	if lo.EveryBy(users, func(u *types.User) bool { return u.PasswordHash != "" }) {
		cols = append(cols, "password_hash")
	}
	if err := dbc.DB(ur.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "username"}},
			DoUpdates: clause.AssignmentColumns(cols),
		}).
		Create(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (ur *userRepo) GetByUsernames(dbc dbctx.Context, usernames []string) ([]*types.User, error) {
	var results []*types.User
	if len(usernames) == 0 {
		return results, nil
	}
	if err := dbc.DB(ur.db).
		Where("username IN ?", lo.Uniq(usernames)).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ur *userRepo) MissingUsernames(dbc dbctx.Context, usernames []string) ([]string, error) {
	if len(usernames) == 0 {
		return []string{}, nil
	}
	var found []string
	if err := dbc.DB(ur.db).
		Model(&types.User{}).
		Where("username IN ?", lo.Uniq(usernames)).
		Pluck("username", &found).Error; err != nil {
		return nil, err
	}
	return lo.Uniq(lo.Without(usernames, found...)), nil
}
