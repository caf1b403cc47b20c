package services

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/arunlc/AI-Writing-Companion-sub001/internal/clients/redis"
	"github.com/arunlc/AI-Writing-Companion-sub001/internal/logger"
	"github.com/arunlc/AI-Writing-Companion-sub001/internal/repos"
	"github.com/arunlc/AI-Writing-Companion-sub001/internal/types"
)

// Notifier is fire-and-forget: delivery failures are logged and
// swallowed, never propagated to the transition that raised the event.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, notifType, title, message string, metadata map[string]any)
	StageChanged(ctx context.Context, submission *types.Submission, stageName string, affectedUsers []uuid.UUID)
	ListForUser(ctx context.Context, userID uuid.UUID, limit int) ([]*types.Notification, error)
}

type notifier struct {
	log              *logger.Logger
	notificationRepo repos.NotificationRepo
	bus              redis.EventBus
}

// NewNotifier accepts a nil bus; notifications then stay local to this
// instance.
func NewNotifier(baseLog *logger.Logger, notificationRepo repos.NotificationRepo, bus redis.EventBus) Notifier {
	return &notifier{
		log:              baseLog.With("service", "Notifier"),
		notificationRepo: notificationRepo,
		bus:              bus,
	}
}

func (n *notifier) Notify(ctx context.Context, userID uuid.UUID, notifType, title, message string, metadata map[string]any) {
	if userID == uuid.Nil {
		return
	}

	var meta datatypes.JSON
	if metadata != nil {
		if raw, err := json.Marshal(metadata); err == nil {
			meta = raw
		}
	}

	if _, err := n.notificationRepo.Create(ctx, nil, &types.Notification{
		UserID:   userID,
		Type:     notifType,
		Title:    title,
		Message:  message,
		Metadata: meta,
	}); err != nil {
		n.log.Warn("Failed to persist notification", "user_id", userID, "type", notifType, "error", err)
	}

	if n.bus != nil {
		event := redis.WorkflowEvent{
			UserID:   userID.String(),
			Type:     notifType,
			Title:    title,
			Message:  message,
			Metadata: metadata,
		}
		if sid, ok := metadata["submission_id"].(string); ok {
			event.SubmissionID = sid
		}
		if err := n.bus.Publish(ctx, event); err != nil {
			n.log.Warn("Failed to publish workflow event", "user_id", userID, "type", notifType, "error", err)
		}
	}
}

func (n *notifier) ListForUser(ctx context.Context, userID uuid.UUID, limit int) ([]*types.Notification, error) {
	return n.notificationRepo.ListByUser(ctx, nil, userID, limit)
}

func (n *notifier) StageChanged(ctx context.Context, submission *types.Submission, stageName string, affectedUsers []uuid.UUID) {
	if submission == nil {
		return
	}
	metadata := map[string]any{
		"submission_id": submission.ID.String(),
		"stage":         stageName,
	}
	for _, userID := range affectedUsers {
		n.Notify(ctx, userID, types.NotificationStageChanged,
			"Submission moved to "+stageName,
			`"`+submission.Title+`" is now in the `+stageName+` stage`,
			metadata)
	}
}
