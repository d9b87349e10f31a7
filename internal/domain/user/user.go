package user

import "time"

// User is the minimal directory entry chats reference by username.
type User struct {
	Username    string `gorm:"primaryKey;column:username" json:"username"`
	DisplayName string `gorm:"column:display_name;not null;default:''" json:"displayName"`
	// PasswordHash is a bcrypt hash; empty means token login is disabled for the user.
	PasswordHash string    `gorm:"column:password_hash;not null;default:''" json:"-"`
	CreatedAt    time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"not null" json:"updatedAt"`
}

func (User) TableName() string { return "chat_user" }

// UserSummary is the display shape embedded in enriched chats.
type UserSummary struct {
	Username    string `json:"username"`
	DisplayName string `json:"displayName,omitempty"`
}

func (u *User) Summary() UserSummary {
	if u == nil {
		return UserSummary{}
	}
	return UserSummary{Username: u.Username, DisplayName: u.DisplayName}
}
