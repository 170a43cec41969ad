package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/pedro17pedroo/tts-sub001/internal/events"
)

// NotificationService fans domain events out to notification channels.
// Delivery is a logging stub; the event wiring is the part that matters.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger) *NotificationService {
	return &NotificationService{dispatcher: dispatcher, logger: logger}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventSlaAlertRaised, n.handleSlaAlert)
	n.dispatcher.Subscribe(events.EventHourBankLowBalance, n.handleLowBalance)
	n.dispatcher.Subscribe(events.EventTicketCreated, n.handleTicketLifecycle)
	n.dispatcher.Subscribe(events.EventTicketResponded, n.handleTicketLifecycle)
	n.dispatcher.Subscribe(events.EventTicketResolved, n.handleTicketLifecycle)
	n.dispatcher.Subscribe(events.EventTimeEntryCompleted, n.handleTimeEntry)
}

func (n *NotificationService) handleSlaAlert(ctx context.Context, event events.Event) error {
	n.logger.Info("notify: sla alert",
		zap.String("tenant_id", event.TenantID),
		zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleLowBalance(ctx context.Context, event events.Event) error {
	n.logger.Info("notify: hour bank low balance",
		zap.String("tenant_id", event.TenantID),
		zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleTicketLifecycle(ctx context.Context, event events.Event) error {
	n.logger.Debug("notify: ticket lifecycle",
		zap.String("tenant_id", event.TenantID),
		zap.String("event_type", string(event.Type)),
		zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleTimeEntry(ctx context.Context, event events.Event) error {
	n.logger.Debug("notify: time entry completed",
		zap.String("tenant_id", event.TenantID),
		zap.Any("payload", event.Payload))
	return nil
}
