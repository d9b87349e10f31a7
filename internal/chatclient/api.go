package chatclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	types "github.com/yungbote/directchat-backend/internal/domain"
	errs "github.com/yungbote/directchat-backend/internal/pkg/errors"
	"github.com/yungbote/directchat-backend/internal/pkg/httpx"
)

const (
	headerChatUser       = "X-Chat-User"
	headerIdempotencyKey = "Idempotency-Key"

	maxAttempts = 3
	retryBase   = 200 * time.Millisecond
)

// API is the request/response half of the chat backend.
type API interface {
	ChatsByUser(ctx context.Context, username string) ([]*types.EnrichedChat, error)
	GetChat(ctx context.Context, chatID uuid.UUID) (*types.EnrichedChat, error)
	CreateChat(ctx context.Context, participants []string) (*types.EnrichedChat, error)
	AddMessage(ctx context.Context, chatID uuid.UUID, from, text string) (*types.EnrichedChat, error)
}

// APIError is a non-2xx reply from the backend.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) HTTPStatusCode() int { return e.Status }

func (e *APIError) Error() string {
	return fmt.Sprintf("chat api: %d %s: %s", e.Status, e.Code, e.Message)
}

// Unwrap exposes request validation failures as errs.ErrValidation.
func (e *APIError) Unwrap() error {
	if e.Status == http.StatusBadRequest {
		return errs.ErrValidation
	}
	if e.Status == http.StatusUnauthorized {
		return errs.ErrUnauthorized
	}
	return nil
}

type HTTPAPI struct {
	baseURL  string
	username string
	token    string
	client   *http.Client
}

// NewHTTPAPI talks to the backend at baseURL. token is sent as a bearer
// token when set; otherwise username is sent in X-Chat-User.
func NewHTTPAPI(baseURL, username, token string, client *http.Client) *HTTPAPI {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &HTTPAPI{
		baseURL:  strings.TrimRight(baseURL, "/"),
		username: strings.TrimSpace(username),
		token:    strings.TrimSpace(token),
		client:   client,
	}
}

func (a *HTTPAPI) ChatsByUser(ctx context.Context, username string) ([]*types.EnrichedChat, error) {
	var out []*types.EnrichedChat
	err := a.do(ctx, http.MethodGet, "/api/chat/getChatsByUser/"+url.PathEscape(username), nil, &out)
	return out, err
}

func (a *HTTPAPI) GetChat(ctx context.Context, chatID uuid.UUID) (*types.EnrichedChat, error) {
	var out types.EnrichedChat
	if err := a.do(ctx, http.MethodGet, "/api/chat/"+chatID.String(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *HTTPAPI) CreateChat(ctx context.Context, participants []string) (*types.EnrichedChat, error) {
	body := map[string]any{"participants": participants, "messages": []any{}}
	var out types.EnrichedChat
	if err := a.do(ctx, http.MethodPost, "/api/chat/createChat", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *HTTPAPI) AddMessage(ctx context.Context, chatID uuid.UUID, from, text string) (*types.EnrichedChat, error) {
	body := map[string]any{
		"msg":         text,
		"msgFrom":     from,
		"msgDateTime": time.Now().UTC(),
	}
	var out types.EnrichedChat
	if err := a.do(ctx, http.MethodPost, "/api/chat/"+chatID.String()+"/addMessage", body, &out, headerIdempotencyKey, uuid.NewString()); err != nil {
		return nil, err
	}
	return &out, nil
}

// do retries transient failures only for reads and for writes that carry an
// Idempotency-Key.
func (a *HTTPAPI) do(ctx context.Context, method, path string, body, out any, headers ...string) error {
	var payload []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		payload = b
	}
	attempts := 1
	if method == http.MethodGet || lo.Contains(headers, headerIdempotencyKey) {
		attempts = maxAttempts
	}
	return httpx.Retry(ctx, attempts, retryBase, func() error {
		return a.once(ctx, method, path, payload, out, headers)
	})
}

func (a *HTTPAPI) once(ctx context.Context, method, path string, payload []byte, out any, headers []string) error {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	} else if a.username != "" {
		req.Header.Set(headerChatUser, a.username)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return fmt.Errorf("read %s %s: %w", method, path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(raw))}
		var env struct {
			Error struct {
				Message string `json:"message"`
				Code    string `json:"code"`
			} `json:"error"`
		}
		if json.Unmarshal(raw, &env) == nil && env.Error.Message != "" {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
