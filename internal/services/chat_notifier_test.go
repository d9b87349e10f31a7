package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	types "github.com/yungbote/directchat-backend/internal/domain"
	"github.com/yungbote/directchat-backend/internal/pkg/logger"
	"github.com/yungbote/directchat-backend/internal/realtime"
)

type recordingEmitter struct {
	msgs []realtime.Message
}

func (e *recordingEmitter) Emit(ctx context.Context, msg realtime.Message) {
	e.msgs = append(e.msgs, msg)
}

func enrichedChat(participants ...string) *types.EnrichedChat {
	c := &types.EnrichedChat{ID: uuid.New()}
	for _, p := range participants {
		c.Participants = append(c.Participants, types.UserSummary{Username: p})
	}
	return c
}

func TestChatNotifierCreatedGoesToPersonalTopics(t *testing.T) {
	r := require.New(t)
	emit := &recordingEmitter{}
	n := NewChatNotifier(emit)
	chat := enrichedChat("alice", "bob")

	n.ChatCreated(context.Background(), chat)

	r.Len(emit.msgs, 2)
	r.Equal("user:alice", emit.msgs[0].Topic)
	r.Equal("user:bob", emit.msgs[1].Topic)
	for _, m := range emit.msgs {
		r.Equal(realtime.EventChatUpdate, m.Event)
		update := m.Data.(types.ChatUpdate)
		r.Equal(types.UpdateCreated, update.Type)
		r.Equal(chat.ID, update.Chat.ID)
	}
}

func TestChatNotifierNewMessageGoesToChatTopic(t *testing.T) {
	r := require.New(t)
	emit := &recordingEmitter{}
	n := NewChatNotifier(emit)
	chat := enrichedChat("alice", "bob")

	n.NewMessage(context.Background(), chat)
	n.ParticipantAdded(context.Background(), chat, "carol")
	n.NewMessage(context.Background(), nil)

	r.Len(emit.msgs, 2)
	r.Equal(chat.ID.String(), emit.msgs[0].Topic)
	r.Equal(types.UpdateNewMessage, emit.msgs[0].Data.(types.ChatUpdate).Type)
	r.Equal("user:carol", emit.msgs[1].Topic)
	r.Equal(types.UpdateCreated, emit.msgs[1].Data.(types.ChatUpdate).Type)
}

func TestHubEmitterOnlyReachesJoinedClients(t *testing.T) {
	r := require.New(t)
	hub := realtime.NewHub(logger.Nop(), 4)
	n := NewChatNotifier(&HubEmitter{Hub: hub})
	chat := enrichedChat("alice", "bob")

	viewer := hub.NewClient("bob")
	hub.Join(viewer, chat.ID.String())
	left := hub.NewClient("alice")
	hub.Join(left, chat.ID.String())
	hub.Leave(left, chat.ID.String())

	n.NewMessage(context.Background(), chat)

	select {
	case msg := <-viewer.Outbound:
		r.Equal(realtime.EventChatUpdate, msg.Event)
	case <-time.After(time.Second):
		t.Fatalf("joined client did not receive newMessage")
	}
	select {
	case msg := <-left.Outbound:
		t.Fatalf("client that left received %+v", msg)
	default:
	}
}
