package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/khoahotran/profile-hub/pkg/logger"
)

type UserEventType string

const (
	UserEventRegistered UserEventType = "user.registered"
	UserEventUpdated    UserEventType = "user.updated"
	UserEventDeleted    UserEventType = "user.deleted"
)

type UserEvent struct {
	EventType  UserEventType `json:"event_type"`
	UserID     int64         `json:"user_id"`
	Email      string        `json:"email"`
	OccurredAt time.Time     `json:"occurred_at"`
}

type UserEventPublisher interface {
	PublishUserEvent(ctx context.Context, evt UserEvent) error
}

type NoopUserEventPublisher struct{}

func (NoopUserEventPublisher) PublishUserEvent(context.Context, UserEvent) error { return nil }

// Notify publishes evt once the store change is committed. A failed publish is
// logged and never fails the calling use case.
func Notify(ctx context.Context, p UserEventPublisher, log logger.Logger, evtType UserEventType, userID int64, email string) {
	evt := UserEvent{
		EventType:  evtType,
		UserID:     userID,
		Email:      email,
		OccurredAt: time.Now().UTC(),
	}
	if err := p.PublishUserEvent(ctx, evt); err != nil {
		log.Warn("Failed to publish user event",
			zap.String("event_type", string(evtType)),
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
	}
}
