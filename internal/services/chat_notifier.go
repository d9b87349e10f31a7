//go:generate go run go.uber.org/mock/mockgen -source=chat_notifier.go -destination=mocks/mock_chat_notifier.go -package=mocks

package services

import (
	"context"

	types "github.com/yungbote/directchat-backend/internal/domain"
	"github.com/yungbote/directchat-backend/internal/realtime"
)

// ChatNotifier turns chat mutations into chatUpdate events. A new chat is
// announced on each participant's personal topic since nobody has joined the
// chat topic yet; new messages go to the chat topic only.
type ChatNotifier interface {
	ChatCreated(ctx context.Context, chat *types.EnrichedChat)
	NewMessage(ctx context.Context, chat *types.EnrichedChat)
	ParticipantAdded(ctx context.Context, chat *types.EnrichedChat, username string)
}

type chatNotifier struct {
	emit Emitter
}

func NewChatNotifier(emit Emitter) ChatNotifier {
	return &chatNotifier{emit: emit}
}

func (n *chatNotifier) ChatCreated(ctx context.Context, chat *types.EnrichedChat) {
	if n == nil || n.emit == nil || chat == nil {
		return
	}
	update := types.ChatUpdate{Type: types.UpdateCreated, Chat: chat}
	for _, username := range chat.ParticipantNames() {
		n.emit.Emit(ctx, realtime.Message{
			Topic: realtime.PersonalTopic(username),
			Event: realtime.EventChatUpdate,
			Data:  update,
		})
	}
}

func (n *chatNotifier) NewMessage(ctx context.Context, chat *types.EnrichedChat) {
	if n == nil || n.emit == nil || chat == nil {
		return
	}
	n.emit.Emit(ctx, realtime.Message{
		Topic: chat.ID.String(),
		Event: realtime.EventChatUpdate,
		Data:  types.ChatUpdate{Type: types.UpdateNewMessage, Chat: chat},
	})
}

func (n *chatNotifier) ParticipantAdded(ctx context.Context, chat *types.EnrichedChat, username string) {
	if n == nil || n.emit == nil || chat == nil || username == "" {
		return
	}
	n.emit.Emit(ctx, realtime.Message{
		Topic: realtime.PersonalTopic(username),
		Event: realtime.EventChatUpdate,
		Data:  types.ChatUpdate{Type: types.UpdateCreated, Chat: chat},
	})
}
