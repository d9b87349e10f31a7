package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yungbote/directchat-backend/internal/data/idempotency"
	"github.com/yungbote/directchat-backend/internal/data/repos"
	"github.com/yungbote/directchat-backend/internal/data/repos/testutil"
	types "github.com/yungbote/directchat-backend/internal/domain"
	"github.com/yungbote/directchat-backend/internal/pkg/dbctx"
	errs "github.com/yungbote/directchat-backend/internal/pkg/errors"
)

type testServices struct {
	db       *gorm.DB
	chats    ChatService
	populate Populator
	users    UserService
}

func newTestServices(t *testing.T, usernames ...string) testServices {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	userRepo := repos.NewUserRepo(db, log)
	chatRepo := repos.NewChatRepo(db, log)
	messageRepo := repos.NewMessageRepo(db, log)
	testutil.SeedUsers(t, db, usernames...)
	return testServices{
		db:       db,
		chats:    NewChatService(db, log, userRepo, chatRepo, messageRepo, idempotency.NewMemoryStore(), time.Minute),
		populate: NewPopulator(log, userRepo, chatRepo, messageRepo),
		users:    NewUserService(log, userRepo),
	}
}

func bg() dbctx.Context { return dbctx.New(context.Background()) }

func countRows(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func TestCreateChat(t *testing.T) {
	r := require.New(t)
	svc := newTestServices(t, "alice", "bob")

	sentAt := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	chat, err := svc.chats.CreateChat(bg(), []string{"alice", " bob ", "alice"}, []*types.Message{
		{SenderUsername: "alice", Body: "hi", SentAt: sentAt},
		{SenderUsername: "bob", Body: "hey"},
	})
	r.NoError(err)
	r.ElementsMatch([]string{"alice", "bob"}, chat.Participants)
	r.Len(chat.Messages, 2)

	enriched, err := svc.populate.PopulateChat(bg(), chat)
	r.NoError(err)
	r.Equal("hi", enriched.Messages[0].Body)
	r.True(enriched.Messages[0].SentAt.Equal(sentAt))
	r.False(enriched.Messages[1].SentAt.IsZero())
	r.Equal(types.MessageKindDirect, enriched.Messages[1].Kind)
}

func TestCreateChatUnknownParticipantWritesNothing(t *testing.T) {
	r := require.New(t)
	svc := newTestServices(t, "alice")

	_, err := svc.chats.CreateChat(bg(), []string{"alice", "ghost"}, []*types.Message{{SenderUsername: "alice", Body: "hi"}})
	r.ErrorIs(err, errs.ErrUserNotFound)
	r.ErrorIs(err, errs.ErrNotFound)
	r.Contains(err.Error(), "ghost")

	r.Zero(countRows(t, svc.db, &types.Chat{}))
	r.Zero(countRows(t, svc.db, &types.Message{}))
	r.Zero(countRows(t, svc.db, &types.ChatParticipant{}))
}

func TestCreateChatRequiresParticipants(t *testing.T) {
	svc := newTestServices(t)
	_, err := svc.chats.CreateChat(bg(), []string{" ", ""}, nil)
	require.ErrorIs(t, err, errs.ErrValidation)
}

func TestAppendMessageToMissingChat(t *testing.T) {
	r := require.New(t)
	svc := newTestServices(t, "alice")

	msg, err := svc.chats.CreateMessage(bg(), &types.Message{SenderUsername: "alice", Body: "orphan"})
	r.NoError(err)
	r.Equal(types.MessageKindDirect, msg.Kind)

	_, err = svc.chats.AppendMessageToChat(bg(), uuid.New(), msg.ID)
	r.ErrorIs(err, errs.ErrChatNotFound)
}

func TestAppendMessageToChat(t *testing.T) {
	r := require.New(t)
	svc := newTestServices(t, "alice", "bob")

	chat, err := svc.chats.CreateChat(bg(), []string{"alice", "bob"}, nil)
	r.NoError(err)
	msg, err := svc.chats.CreateMessage(bg(), &types.Message{SenderUsername: "bob", Body: "late"})
	r.NoError(err)

	updated, err := svc.chats.AppendMessageToChat(bg(), chat.ID, msg.ID)
	r.NoError(err)
	r.Equal([]uuid.UUID{msg.ID}, updated.Messages)
}

func TestAddParticipantIsIdempotent(t *testing.T) {
	r := require.New(t)
	svc := newTestServices(t, "alice", "bob", "carol")

	chat, err := svc.chats.CreateChat(bg(), []string{"alice", "bob"}, nil)
	r.NoError(err)

	again, added, err := svc.chats.AddParticipant(bg(), chat.ID, "bob")
	r.NoError(err)
	r.False(added)
	r.ElementsMatch(chat.Participants, again.Participants)

	grown, added, err := svc.chats.AddParticipant(bg(), chat.ID, "carol")
	r.NoError(err)
	r.True(added)
	r.Equal([]string{"alice", "bob", "carol"}, grown.Participants)

	_, _, err = svc.chats.AddParticipant(bg(), chat.ID, "ghost")
	r.ErrorIs(err, errs.ErrUserNotFound)

	_, _, err = svc.chats.AddParticipant(bg(), uuid.New(), "carol")
	r.ErrorIs(err, errs.ErrChatNotFound)
}

func TestGetChatsForParticipant(t *testing.T) {
	r := require.New(t)
	svc := newTestServices(t, "alice", "bob", "carol")

	ab, err := svc.chats.CreateChat(bg(), []string{"alice", "bob"}, nil)
	r.NoError(err)
	bc, err := svc.chats.CreateChat(bg(), []string{"bob", "carol"}, nil)
	r.NoError(err)

	got := svc.chats.GetChatsForParticipant(bg(), []string{"bob"})
	r.Len(got, 2)
	r.Equal(ab.ID, got[0].ID)
	r.Equal(bc.ID, got[1].ID)

	got = svc.chats.GetChatsForParticipant(bg(), []string{"alice", "carol"})
	r.NotNil(got)
	r.Empty(got)

	r.Empty(svc.chats.GetChatsForParticipant(bg(), nil))
}

func TestGetChatsForParticipantSwallowsFailures(t *testing.T) {
	svc := newTestServices(t, "alice")
	sqlDB, err := svc.db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	got := svc.chats.GetChatsForParticipant(bg(), []string{"alice"})
	require.NotNil(t, got)
	require.Empty(t, got)
}

func TestGetChatThenPopulateResolvesEveryMessage(t *testing.T) {
	r := require.New(t)
	svc := newTestServices(t, "alice", "bob")

	created, err := svc.chats.CreateChat(bg(), []string{"alice", "bob"}, []*types.Message{
		{SenderUsername: "alice", Body: "one"},
		{SenderUsername: "bob", Body: "two"},
		{SenderUsername: "alice", Body: "three"},
	})
	r.NoError(err)

	chat, err := svc.chats.GetChat(bg(), created.ID)
	r.NoError(err)
	out, err := svc.populate.Populate(bg(), chat.ID, KindChat)
	r.NoError(err)
	enriched := out.(*types.EnrichedChat)

	r.Len(enriched.Messages, len(chat.Messages))
	for i, id := range chat.Messages {
		r.Equal(id, enriched.Messages[i].ID)
	}
	r.Equal([]string{"alice", "bob"}, enriched.ParticipantNames())

	_, err = svc.chats.GetChat(bg(), uuid.New())
	r.ErrorIs(err, errs.ErrChatNotFound)
}

func TestPopulateMessageAndMissing(t *testing.T) {
	r := require.New(t)
	svc := newTestServices(t, "alice")

	msg, err := svc.chats.CreateMessage(bg(), &types.Message{SenderUsername: "alice", Body: "x"})
	r.NoError(err)

	out, err := svc.populate.Populate(bg(), msg.ID, KindMessage)
	r.NoError(err)
	r.Equal(msg.ID, out.(*types.Message).ID)

	_, err = svc.populate.Populate(bg(), uuid.New(), KindMessage)
	r.ErrorIs(err, errs.ErrNotFound)

	_, err = svc.populate.Populate(bg(), uuid.New(), KindChat)
	r.ErrorIs(err, errs.ErrChatNotFound)

	_, err = svc.populate.Populate(bg(), msg.ID, PopulateKind("thread"))
	r.ErrorIs(err, errs.ErrValidation)
}

func TestPopulateChatsKeepsOrder(t *testing.T) {
	r := require.New(t)
	svc := newTestServices(t, "alice", "bob")

	var chats []*types.Chat
	for i := 0; i < 6; i++ {
		c, err := svc.chats.CreateChat(bg(), []string{"alice", "bob"}, []*types.Message{{SenderUsername: "alice", Body: "m"}})
		r.NoError(err)
		chats = append(chats, c)
	}
	enriched, err := svc.populate.PopulateChats(bg(), chats)
	r.NoError(err)
	r.Len(enriched, len(chats))
	for i := range chats {
		r.Equal(chats[i].ID, enriched[i].ID)
		r.Len(enriched[i].Messages, 1)
	}
}

func TestAddMessage(t *testing.T) {
	r := require.New(t)
	svc := newTestServices(t, "alice", "bob")

	chat, err := svc.chats.CreateChat(bg(), []string{"alice", "bob"}, nil)
	r.NoError(err)

	updated, applied, err := svc.chats.AddMessage(bg(), chat.ID, &types.Message{SenderUsername: "alice", Body: "hello"}, "k-1")
	r.NoError(err)
	r.True(applied)
	r.Len(updated.Messages, 1)

	again, applied, err := svc.chats.AddMessage(bg(), chat.ID, &types.Message{SenderUsername: "alice", Body: "hello"}, "k-1")
	r.NoError(err)
	r.False(applied)
	r.Equal(updated.Messages, again.Messages)

	_, applied, err = svc.chats.AddMessage(bg(), chat.ID, &types.Message{SenderUsername: "alice", Body: "hello"}, "")
	r.NoError(err)
	r.True(applied)

	_, _, err = svc.chats.AddMessage(bg(), chat.ID, &types.Message{SenderUsername: "alice", Body: "  "}, "")
	r.ErrorIs(err, errs.ErrValidation)

	_, _, err = svc.chats.AddMessage(bg(), uuid.New(), &types.Message{SenderUsername: "alice", Body: "hi"}, "k-2")
	r.ErrorIs(err, errs.ErrChatNotFound)
	r.Equal(int64(2), countRows(t, svc.db, &types.ChatMessage{}))
	r.Equal(int64(2), countRows(t, svc.db, &types.Message{}))
}

func TestIsParticipant(t *testing.T) {
	r := require.New(t)
	svc := newTestServices(t, "alice", "bob")

	chat, err := svc.chats.CreateChat(bg(), []string{"alice"}, nil)
	r.NoError(err)

	ok, err := svc.chats.IsParticipant(bg(), chat.ID, "alice")
	r.NoError(err)
	r.True(ok)
	ok, err = svc.chats.IsParticipant(bg(), chat.ID, "bob")
	r.NoError(err)
	r.False(ok)
}
