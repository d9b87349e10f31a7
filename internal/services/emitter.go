package services

import (
	"context"

	types "github.com/yungbote/directchat-backend/internal/domain"
	"github.com/yungbote/directchat-backend/internal/observability"
	"github.com/yungbote/directchat-backend/internal/realtime"
)

type Emitter interface {
	Emit(ctx context.Context, msg realtime.Message)
}

// HubEmitter publishes to the in-process hub. Metrics may be nil.
type HubEmitter struct {
	Hub     *realtime.Hub
	Metrics *observability.Metrics
}

func (e *HubEmitter) Emit(ctx context.Context, msg realtime.Message) {
	delivered := e.Hub.Publish(msg)
	e.Metrics.ObservePublish(updateEvent(msg), delivered)
}

func updateEvent(msg realtime.Message) string {
	if u, ok := msg.Data.(types.ChatUpdate); ok {
		return string(u.Type)
	}
	return string(msg.Event)
}
