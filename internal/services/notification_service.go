package services

import (
	"context"
	"time"

	"snab-system/pkg/constants"

	"go.uber.org/zap"
)

// Notifier — порт доставки уведомлений. Конкретный канал (email, мессенджер)
// подключается отдельной реализацией.
type Notifier interface {
	NotifyStatusChanged(ctx context.Context, requestID uint64, status constants.Status, role constants.Role) error
	NotifySlaBreached(ctx context.Context, requestID uint64, status constants.Status, overdue time.Duration) error
}

// LogNotifier пишет уведомления в журнал.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) Notifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) NotifyStatusChanged(ctx context.Context, requestID uint64, status constants.Status, role constants.Role) error {
	n.logger.Info("Уведомление: смена статуса заявки",
		zap.Uint64("request_id", requestID),
		zap.String("status", string(status)),
		zap.String("actor_role", string(role)),
	)
	return nil
}

func (n *LogNotifier) NotifySlaBreached(ctx context.Context, requestID uint64, status constants.Status, overdue time.Duration) error {
	n.logger.Warn("Уведомление: просрочен срок рассмотрения заявки",
		zap.Uint64("request_id", requestID),
		zap.String("status", string(status)),
		zap.Duration("overdue", overdue),
	)
	return nil
}
