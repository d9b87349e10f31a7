package http

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/directchat-backend/internal/data/idempotency"
	"github.com/yungbote/directchat-backend/internal/data/repos"
	"github.com/yungbote/directchat-backend/internal/data/repos/testutil"
	types "github.com/yungbote/directchat-backend/internal/domain"
	httpH "github.com/yungbote/directchat-backend/internal/http/handlers"
	httpMW "github.com/yungbote/directchat-backend/internal/http/middleware"
	"github.com/yungbote/directchat-backend/internal/observability"
	"github.com/yungbote/directchat-backend/internal/realtime"
	"github.com/yungbote/directchat-backend/internal/services"
)

const testSecret = "router-test-secret"

type stack struct {
	srv *httptest.Server
	hub *realtime.Hub
}

func newStack(t *testing.T, usernames ...string) stack {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testutil.DB(t)
	log := testutil.Logger(t)
	testutil.SeedUsers(t, db, usernames...)

	userRepo := repos.NewUserRepo(db, log)
	chatRepo := repos.NewChatRepo(db, log)
	messageRepo := repos.NewMessageRepo(db, log)

	chatSvc := services.NewChatService(db, log, userRepo, chatRepo, messageRepo, idempotency.NewMemoryStore(), time.Minute)
	populate := services.NewPopulator(log, userRepo, chatRepo, messageRepo)
	hub := realtime.NewHub(log, 0)
	metrics := observability.New()
	notify := services.NewChatNotifier(&services.HubEmitter{Hub: hub, Metrics: metrics})

	health := httpH.NewHealthHandler(map[string]httpH.Pinger{"db": func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}})

	router := NewRouter(RouterConfig{
		Log:               log,
		Metrics:           metrics,
		SessionMiddleware: httpMW.NewSessionMiddleware(log, testSecret, false),
		HealthHandler:     health,
		ChatHandler:       httpH.NewChatHandler(httpH.ChatHandlerDeps{Log: log, Chat: chatSvc, Populate: populate, Notify: notify}),
		UserHandler:       httpH.NewUserHandler(httpH.UserHandlerDeps{Log: log, Users: services.NewUserService(log, userRepo), JWTSecret: testSecret}),
		RealtimeHandler:   httpH.NewRealtimeHandler(httpH.RealtimeHandlerDeps{Log: log, Hub: hub, Chat: chatSvc, Metrics: metrics}),
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return stack{srv: srv, hub: hub}
}

func (s stack) do(t *testing.T, method, path string, body any, headers ...string) (int, []byte) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := nethttp.NewRequest(method, s.srv.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := s.srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	var out bytes.Buffer
	_, _ = out.ReadFrom(resp.Body)
	return resp.StatusCode, out.Bytes()
}

func (s stack) dialWS(t *testing.T, username string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(s.srv.URL, "http") + "/api/realtime/ws?username=" + username
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	f := readFrame(t, conn)
	require.Equal(t, realtime.EventReady, f.Event)
	return conn
}

// openSSE opens a stream for username and returns its reader and client id.
func (s stack) openSSE(t *testing.T, username string) (*bufio.Reader, string) {
	t.Helper()
	req, err := nethttp.NewRequest(nethttp.MethodGet, s.srv.URL+"/api/realtime/stream", nil)
	require.NoError(t, err)
	req.Header.Set("X-Chat-User", username)
	resp, err := s.srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)

	r := bufio.NewReader(resp.Body)
	f := readSSEFrame(t, r)
	require.Equal(t, realtime.EventReady, f.Event)
	var ready struct {
		ClientID string `json:"clientId"`
	}
	require.NoError(t, json.Unmarshal(f.Data, &ready))
	require.NotEmpty(t, ready.ClientID)
	return r, ready.ClientID
}

func readSSEFrame(t *testing.T, r *bufio.Reader) realtime.Frame {
	t.Helper()
	type result struct {
		f   realtime.Frame
		err error
	}
	ch := make(chan result, 1)
	go func() {
		for {
			line, err := r.ReadString('\n')
			if err != nil {
				ch <- result{err: err}
				return
			}
			if data, ok := strings.CutPrefix(strings.TrimRight(line, "\n"), "data: "); ok {
				var f realtime.Frame
				ch <- result{f: f, err: json.Unmarshal([]byte(data), &f)}
				return
			}
		}
	}()
	select {
	case res := <-ch:
		require.NoError(t, res.err)
		return res.f
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for sse event")
		return realtime.Frame{}
	}
}

func readFrame(t *testing.T, conn *websocket.Conn) realtime.Frame {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var f realtime.Frame
	require.NoError(t, conn.ReadJSON(&f))
	return f
}

func readUpdate(t *testing.T, conn *websocket.Conn) types.ChatUpdate {
	t.Helper()
	f := readFrame(t, conn)
	require.Equal(t, realtime.EventChatUpdate, f.Event, string(f.Data))
	var u types.ChatUpdate
	require.NoError(t, json.Unmarshal(f.Data, &u))
	return u
}

func TestHealthcheck(t *testing.T) {
	s := newStack(t)
	code, _ := s.do(t, nethttp.MethodGet, "/healthcheck", nil)
	assert.Equal(t, nethttp.StatusOK, code)

	code, body := s.do(t, nethttp.MethodGet, "/readyz", nil)
	assert.Equal(t, nethttp.StatusOK, code)
	assert.JSONEq(t, `{"checks":{"db":"ok"}}`, string(body))
}

func TestUserLoginAndMe(t *testing.T) {
	s := newStack(t)

	code, body := s.do(t, nethttp.MethodPost, "/api/users", map[string]any{
		"username": "dana", "displayName": "Dana", "password": "correct-horse",
	})
	require.Equal(t, nethttp.StatusOK, code, string(body))

	code, _ = s.do(t, nethttp.MethodPost, "/api/users/login", map[string]any{"username": "dana", "password": "wrong-password"})
	assert.Equal(t, nethttp.StatusUnauthorized, code)

	code, body = s.do(t, nethttp.MethodPost, "/api/users/login", map[string]any{"username": "dana", "password": "correct-horse"})
	require.Equal(t, nethttp.StatusOK, code, string(body))
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(body, &login))
	require.NotEmpty(t, login.Token)

	code, body = s.do(t, nethttp.MethodGet, "/api/users/me", nil, "Authorization", "Bearer "+login.Token)
	require.Equal(t, nethttp.StatusOK, code, string(body))
	assert.Contains(t, string(body), `"username":"dana"`)

	code, _ = s.do(t, nethttp.MethodGet, "/api/users/me", nil, "Authorization", "Bearer nope")
	assert.Equal(t, nethttp.StatusUnauthorized, code)
}

func TestRealtimeRequiresSession(t *testing.T) {
	s := newStack(t)
	code, _ := s.do(t, nethttp.MethodPost, "/api/realtime/join", map[string]any{"chatId": "x"})
	assert.Equal(t, nethttp.StatusUnauthorized, code)
}

func TestSSEStreamsPerClient(t *testing.T) {
	s := newStack(t, "alice", "bob", "eve")
	first, firstID := s.openSSE(t, "bob")
	second, secondID := s.openSSE(t, "bob")
	require.NotEqual(t, firstID, secondID)

	code, body := s.do(t, nethttp.MethodPost, "/api/chat/createChat", map[string]any{
		"participants": []string{"alice", "bob"},
	})
	require.Equal(t, nethttp.StatusOK, code, string(body))
	var created types.EnrichedChat
	require.NoError(t, json.Unmarshal(body, &created))
	topic := created.ID.String()

	// Opening a second stream leaves the first one subscribed.
	assert.Equal(t, realtime.EventChatUpdate, readSSEFrame(t, first).Event)
	assert.Equal(t, realtime.EventChatUpdate, readSSEFrame(t, second).Event)

	code, body = s.do(t, nethttp.MethodPost, "/api/realtime/join", map[string]any{"clientId": firstID, "chatId": topic}, "X-Chat-User", "bob")
	require.Equal(t, nethttp.StatusOK, code, string(body))
	assert.Equal(t, 1, s.hub.Subscribers(topic))

	code, _ = s.do(t, nethttp.MethodPost, "/api/realtime/join", map[string]any{"chatId": topic}, "X-Chat-User", "bob")
	assert.Equal(t, nethttp.StatusBadRequest, code)

	code, _ = s.do(t, nethttp.MethodPost, "/api/realtime/join", map[string]any{"clientId": firstID, "chatId": topic}, "X-Chat-User", "eve")
	assert.Equal(t, nethttp.StatusConflict, code)

	// Leaving with no chat selected is a no-op.
	for _, leave := range []any{nil, map[string]any{}, map[string]any{"chatId": nil}, map[string]any{"clientId": firstID, "chatId": "  "}} {
		code, body = s.do(t, nethttp.MethodPost, "/api/realtime/leave", leave, "X-Chat-User", "bob")
		require.Equal(t, nethttp.StatusOK, code, string(body))
		assert.JSONEq(t, `{"message":"left"}`, string(body))
	}
	assert.Equal(t, 1, s.hub.Subscribers(topic))

	code, body = s.do(t, nethttp.MethodPost, "/api/realtime/leave", map[string]any{"clientId": firstID, "chatId": topic}, "X-Chat-User", "bob")
	require.Equal(t, nethttp.StatusOK, code, string(body))
	assert.Equal(t, 0, s.hub.Subscribers(topic))
}

func TestChatFlowOverWebsocket(t *testing.T) {
	s := newStack(t, "alice", "bob", "eve")
	bob := s.dialWS(t, "bob")

	code, body := s.do(t, nethttp.MethodPost, "/api/chat/createChat", map[string]any{
		"participants": []string{"alice", "bob"},
	})
	require.Equal(t, nethttp.StatusOK, code, string(body))
	var created types.EnrichedChat
	require.NoError(t, json.Unmarshal(body, &created))

	u := readUpdate(t, bob)
	assert.Equal(t, types.UpdateCreated, u.Type)
	assert.Equal(t, created.ID, u.Chat.ID)

	topic := created.ID.String()
	require.NoError(t, bob.WriteJSON(map[string]any{"event": realtime.EventJoinChat, "data": topic}))
	require.Eventually(t, func() bool { return s.hub.Subscribers(topic) == 1 }, 2*time.Second, 5*time.Millisecond)

	code, body = s.do(t, nethttp.MethodPost, "/api/chat/"+topic+"/addMessage", map[string]any{
		"msg": "hello", "msgFrom": "alice",
	})
	require.Equal(t, nethttp.StatusOK, code, string(body))

	u = readUpdate(t, bob)
	assert.Equal(t, types.UpdateNewMessage, u.Type)
	require.NotNil(t, u.Chat.LastMessage())
	assert.Equal(t, "hello", u.Chat.LastMessage().Body)

	eve := s.dialWS(t, "eve")
	require.NoError(t, eve.WriteJSON(map[string]any{"event": realtime.EventJoinChat, "data": topic}))
	f := readFrame(t, eve)
	assert.Equal(t, realtime.EventError, f.Event)
	assert.Contains(t, string(f.Data), "forbidden")

	code, body = s.do(t, nethttp.MethodGet, "/api/chat/getChatsByUser/bob", nil)
	require.Equal(t, nethttp.StatusOK, code)
	var chats []types.EnrichedChat
	require.NoError(t, json.Unmarshal(body, &chats))
	require.Len(t, chats, 1)
	assert.Len(t, chats[0].Messages, 1)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newStack(t, "alice", "bob")
	s.dialWS(t, "bob")

	code, body := s.do(t, nethttp.MethodPost, "/api/chat/createChat", map[string]any{
		"participants": []string{"alice", "bob"},
	})
	require.Equal(t, nethttp.StatusOK, code, string(body))

	code, body = s.do(t, nethttp.MethodGet, "/metrics", nil)
	require.Equal(t, nethttp.StatusOK, code)
	text := string(body)
	assert.Contains(t, text, `directchat_api_requests_total{method="POST",route="/api/chat/createChat",status="200"} 1`)
	assert.Contains(t, text, `directchat_realtime_published_total{event="created"} 2`)
	assert.Contains(t, text, `directchat_realtime_deliveries_total{event="created"} 1`)
	assert.Contains(t, text, `directchat_realtime_unheard_total{event="created"} 1`)
	assert.Contains(t, text, "directchat_realtime_connections 1")
}
