package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/directchat-backend/internal/data/repos/chat"
	"github.com/yungbote/directchat-backend/internal/data/repos/user"
	"github.com/yungbote/directchat-backend/internal/pkg/logger"
)

type UserRepo = user.UserRepo

type ChatRepo = chat.ChatRepo
type MessageRepo = chat.MessageRepo

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo { return user.NewUserRepo(db, baseLog) }

func NewChatRepo(db *gorm.DB, baseLog *logger.Logger) ChatRepo {
	return chat.NewChatRepo(db, baseLog)
}
func NewMessageRepo(db *gorm.DB, baseLog *logger.Logger) MessageRepo {
	return chat.NewMessageRepo(db, baseLog)
}

// IsUniqueViolation reports a key conflict from any repository write.
func IsUniqueViolation(err error) bool { return chat.IsUniqueViolation(err) }
