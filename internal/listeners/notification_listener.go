package listeners

import (
	"context"
	"fmt"

	"snab-system/internal/events"
	"snab-system/internal/services"
	"snab-system/pkg/eventbus"
)

// NotificationListener переводит события жизненного цикла заявок
// в уведомления ответственным ролям.
type NotificationListener struct {
	notifier services.Notifier
}

func NewNotificationListener(notifier services.Notifier) *NotificationListener {
	return &NotificationListener{notifier: notifier}
}

func (l *NotificationListener) Register(bus *eventbus.Bus) {
	bus.Subscribe(events.RequestStatusChangedEvent{}.Name(), l.handleStatusChanged)
	bus.Subscribe(events.SlaBreachedEvent{}.Name(), l.handleSlaBreached)
}

func (l *NotificationListener) handleStatusChanged(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.RequestStatusChangedEvent)
	if !ok {
		return fmt.Errorf("неожиданный тип события: %T", event)
	}
	return l.notifier.NotifyStatusChanged(ctx, e.RequestID, e.ToStatus, e.ActorRole)
}

func (l *NotificationListener) handleSlaBreached(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.SlaBreachedEvent)
	if !ok {
		return fmt.Errorf("неожиданный тип события: %T", event)
	}
	return l.notifier.NotifySlaBreached(ctx, e.RequestID, e.Status, e.Overdue)
}
