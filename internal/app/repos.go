package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/directchat-backend/internal/data/repos"
	"github.com/yungbote/directchat-backend/internal/pkg/logger"
)

type Repos struct {
	User    repos.UserRepo
	Chat    repos.ChatRepo
	Message repos.MessageRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:    repos.NewUserRepo(db, log),
		Chat:    repos.NewChatRepo(db, log),
		Message: repos.NewMessageRepo(db, log),
	}
}
