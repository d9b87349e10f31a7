// Package chatclient keeps a client's view of its chats in step with the
// backend: an initial fetch, then chatUpdate events from the socket.
package chatclient

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/samber/lo"

	types "github.com/yungbote/directchat-backend/internal/domain"
	errs "github.com/yungbote/directchat-backend/internal/pkg/errors"
	"github.com/yungbote/directchat-backend/internal/pkg/logger"
	"github.com/yungbote/directchat-backend/internal/realtime"
)

var validate = validator.New()

type Options struct {
	Username string
	API      API
	Socket   Socket
	Log      *logger.Logger

	// OnCreateDone runs after CreateChat selected the new chat.
	OnCreateDone func(chat *types.EnrichedChat)
	// OnError receives failures from Run, protocol violations included.
	OnError func(err error)
	// OnChange runs after any change to Chats or Selected.
	OnChange func()
}

type Sync struct {
	username string
	api      API
	socket   Socket
	log      *logger.Logger

	onCreateDone func(*types.EnrichedChat)
	onError      func(error)
	onChange     func()

	// opMu serializes user actions so topic switches never interleave.
	opMu sync.Mutex

	mu       sync.RWMutex
	chats    []*types.EnrichedChat
	selected *types.EnrichedChat
	// joined is set once the joinChat frame is written. A forbidden error
	// frame naming it clears it again.
	joined string
	closed bool
}

func New(opts Options) *Sync {
	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}
	return &Sync{
		username:     strings.TrimSpace(opts.Username),
		api:          opts.API,
		socket:       opts.Socket,
		log:          log.With("component", "ChatSync", "username", strings.TrimSpace(opts.Username)),
		onCreateDone: opts.OnCreateDone,
		onError:      opts.OnError,
		onChange:     opts.OnChange,
	}
}

// Mount loads every chat the user participates in.
func (s *Sync) Mount(ctx context.Context) error {
	chats, err := s.api.ChatsByUser(ctx, s.username)
	if err != nil {
		return fmt.Errorf("mount: %w", err)
	}
	s.mu.Lock()
	s.chats = lo.Filter(chats, func(c *types.EnrichedChat, _ int) bool { return c != nil })
	s.mu.Unlock()
	s.changed()
	return nil
}

// Chats returns the known chats in arrival order.
func (s *Sync) Chats() []*types.EnrichedChat {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*types.EnrichedChat(nil), s.chats...)
}

func (s *Sync) Selected() *types.EnrichedChat {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected
}

// JoinedTopic is the chat topic currently joined, or "".
func (s *Sync) JoinedTopic() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.joined
}

// SelectChat fetches chatID, moves the chat subscription to it and selects
// it. An empty chatID clears the selection.
func (s *Sync) SelectChat(ctx context.Context, chatID string) error {
	const op = "select_chat"
	s.opMu.Lock()
	defer s.opMu.Unlock()

	chatID = strings.TrimSpace(chatID)
	if chatID == "" {
		err := s.switchTopic("")
		s.setSelected(nil)
		return err
	}
	id, err := uuid.Parse(chatID)
	if err != nil {
		return errs.Validation(op, "invalid chat id %q", chatID)
	}
	chat, err := s.api.GetChat(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.switchTopic(chat.ID.String()); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.setSelected(chat)
	return nil
}

// SendMessage submits text to the selected chat. Local state is left to the
// newMessage event that follows.
func (s *Sync) SendMessage(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	selected := s.Selected()
	if selected == nil {
		return nil
	}
	if _, err := s.api.AddMessage(ctx, selected.ID, s.username, text); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

// CreateChat opens a chat between the user and target, then joins and
// selects it.
func (s *Sync) CreateChat(ctx context.Context, target string) error {
	const op = "create_chat"
	target = strings.TrimSpace(target)
	if target == "" {
		return nil
	}
	if err := validate.Var(target, "max=64,excludesall=/"); err != nil {
		return errs.Validation(op, "invalid username %q", target)
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()

	chat, err := s.api.CreateChat(ctx, []string{s.username, target})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.mergeCreated(chat)
	if err := s.switchTopic(chat.ID.String()); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.setSelected(chat)
	if s.onCreateDone != nil {
		s.onCreateDone(chat)
	}
	return nil
}

// HandleEvent applies one chatUpdate. Unknown update types are protocol
// violations and are returned as errs.ErrProtocol.
func (s *Sync) HandleEvent(u types.ChatUpdate) error {
	const op = "handle_event"
	switch u.Type {
	case types.UpdateCreated:
		if u.Chat == nil {
			return errs.Protocol(op, "created update without chat")
		}
		if !lo.Contains(u.Chat.ParticipantNames(), s.username) {
			return nil
		}
		if s.mergeCreated(u.Chat) {
			s.changed()
		}
		return nil
	case types.UpdateNewMessage:
		if u.Chat == nil {
			return errs.Protocol(op, "newMessage update without chat")
		}
		s.mu.Lock()
		_, idx, found := lo.FindIndexOf(s.chats, func(c *types.EnrichedChat) bool { return c.ID == u.Chat.ID })
		if !found {
			s.mu.Unlock()
			s.log.Debug("newMessage for unknown chat dropped", "chatID", u.Chat.ID)
			return nil
		}
		s.chats[idx] = u.Chat
		if s.selected != nil && s.selected.ID == u.Chat.ID {
			s.selected = u.Chat
		}
		s.mu.Unlock()
		s.changed()
		return nil
	default:
		return errs.Protocol(op, "unknown chat update type %q", u.Type)
	}
}

// Run feeds socket events into HandleEvent until ctx ends or the socket
// closes.
func (s *Sync) Run(ctx context.Context) error {
	events := s.socket.Events()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case f, ok := <-events:
			if !ok {
				return nil
			}
			s.dispatch(f)
		}
	}
}

func (s *Sync) dispatch(f realtime.Frame) {
	switch f.Event {
	case realtime.EventChatUpdate:
		var u types.ChatUpdate
		if err := json.Unmarshal(f.Data, &u); err != nil {
			s.report(errs.Protocol("handle_event", "malformed chatUpdate: %v", err))
			return
		}
		if err := s.HandleEvent(u); err != nil {
			s.report(err)
		}
	case realtime.EventError:
		var e realtime.ErrorData
		_ = json.Unmarshal(f.Data, &e)
		if e.Code == "forbidden" && e.Topic != "" && s.clearJoined(e.Topic) {
			s.changed()
		}
		s.report(fmt.Errorf("server error %s: %s", e.Code, e.Message))
	case realtime.EventReady:
	default:
		s.log.Debug("ignoring socket event", "event", f.Event)
	}
}

// Close leaves the joined chat topic. The socket itself belongs to the caller.
func (s *Sync) Close() error {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	s.mu.RLock()
	closed := s.closed
	s.mu.RUnlock()
	if closed {
		return nil
	}
	err := s.switchTopic("")
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return err
}

// switchTopic leaves the current chat topic, then joins next. On a failed
// join nothing stays joined. Callers hold opMu.
func (s *Sync) switchTopic(next string) error {
	s.mu.RLock()
	current, closed := s.joined, s.closed
	s.mu.RUnlock()
	if closed {
		return errs.Validation("switch_topic", "sync is closed")
	}
	if current == next {
		return nil
	}

	var leaveErr error
	if current != "" {
		leaveErr = s.socket.Leave(current)
		s.setJoined("")
	}
	if next == "" {
		return leaveErr
	}
	if err := s.socket.Join(next); err != nil {
		_ = s.socket.Leave(next)
		return fmt.Errorf("join %s: %w", next, err)
	}
	s.setJoined(next)
	return nil
}

// mergeCreated appends chat unless a chat with its id is already known.
func (s *Sync) mergeCreated(chat *types.EnrichedChat) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if lo.ContainsBy(s.chats, func(c *types.EnrichedChat) bool { return c.ID == chat.ID }) {
		return false
	}
	s.chats = append(s.chats, chat)
	return true
}

func (s *Sync) setSelected(chat *types.EnrichedChat) {
	s.mu.Lock()
	s.selected = chat
	s.mu.Unlock()
	s.changed()
}

func (s *Sync) setJoined(topic string) {
	s.mu.Lock()
	s.joined = topic
	s.mu.Unlock()
}

// clearJoined forgets topic if it is the joined one.
func (s *Sync) clearJoined(topic string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.joined != topic {
		return false
	}
	s.joined = ""
	return true
}

func (s *Sync) changed() {
	if s.onChange != nil {
		s.onChange()
	}
}

func (s *Sync) report(err error) {
	s.log.Warn("chat sync error", "error", err)
	if s.onError != nil {
		s.onError(err)
	}
}
