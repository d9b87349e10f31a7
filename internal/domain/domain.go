package domain

import (
	"github.com/yungbote/directchat-backend/internal/domain/chat"
	"github.com/yungbote/directchat-backend/internal/domain/user"
)

const MessageKindDirect = chat.MessageKindDirect

type User = user.User
type UserSummary = user.UserSummary

type Chat = chat.Chat
type ChatParticipant = chat.ChatParticipant
type ChatMessage = chat.ChatMessage
type Message = chat.Message
type EnrichedChat = chat.EnrichedChat

type ChatUpdate = chat.ChatUpdate
type UpdateType = chat.UpdateType

const (
	UpdateCreated    = chat.UpdateCreated
	UpdateNewMessage = chat.UpdateNewMessage
)
