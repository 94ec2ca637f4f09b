package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/artemdali21-ship-it/shef-montazh-sub002/internal/config"
	"github.com/artemdali21-ship-it/shef-montazh-sub002/internal/events"
)

// NotificationService turns domain events into outbound notifications.
// Delivery channels are stubs that log what would be sent.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventUsersNotified, n.handleUsersNotified)
	n.dispatcher.Subscribe(events.EventShiftStatusChanged, n.handleShiftStatusChanged)
	n.dispatcher.Subscribe(events.EventTrustEventRecorded, n.handleTrustEventRecorded)
}

func (n *NotificationService) handleUsersNotified(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.UsersNotifiedPayload)
	if !ok {
		return fmt.Errorf("users_notified: unexpected payload %T", event.Payload)
	}
	if len(payload.UserIDs) == 0 && payload.Audience != "admins" {
		return nil
	}
	n.logger.Info("UsersNotified",
		zap.String("shift_id", event.ShiftID),
		zap.String("audience", payload.Audience),
		zap.Strings("user_ids", payload.UserIDs),
		zap.String("message", payload.Message))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleShiftStatusChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("ShiftStatusChanged", zap.String("shift_id", event.ShiftID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleTrustEventRecorded(ctx context.Context, event events.Event) error {
	n.logger.Info("TrustEventRecorded", zap.String("shift_id", event.ShiftID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) sendWebhookNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("shift_id", event.ShiftID),
		zap.String("event_type", string(event.Type)))
}
