package testutil

import (
	"testing"
	"time"

	"gorm.io/gorm"

	types "github.com/yungbote/directchat-backend/internal/domain"
)

// SeedUsers inserts directory entries for usernames.
func SeedUsers(tb testing.TB, db *gorm.DB, usernames ...string) []*types.User {
	tb.Helper()
	out := make([]*types.User, 0, len(usernames))
	for _, name := range usernames {
		u := &types.User{Username: name}
		if err := db.Create(u).Error; err != nil {
			tb.Fatalf("seed user %q: %v", name, err)
		}
		out = append(out, u)
	}
	return out
}

// SeedMessage inserts a direct message from sender.
func SeedMessage(tb testing.TB, db *gorm.DB, sender, body string, sentAt time.Time) *types.Message {
	tb.Helper()
	m := &types.Message{SenderUsername: sender, Body: body, SentAt: sentAt, Kind: types.MessageKindDirect}
	if err := db.Create(m).Error; err != nil {
		tb.Fatalf("seed message: %v", err)
	}
	return m
}
