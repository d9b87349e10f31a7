package db

import (
	"fmt"

	types "github.com/yungbote/directchat-backend/internal/domain"
	"gorm.io/gorm"
)

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(
		// Directory
		&types.User{},

		// Direct messaging
		&types.Message{},
		&types.Chat{},
		&types.ChatParticipant{},
		&types.ChatMessage{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
