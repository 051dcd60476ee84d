package listeners

import (
	"context"
	"fmt"

	"snab-system/internal/events"
	"snab-system/internal/services"
	"snab-system/pkg/eventbus"

	"go.uber.org/zap"
)

// StockListener передаёт складу поручение на списание выданных позиций.
// Ошибка списания не откатывает выдачу: расхождение фиксируется в журнале
// и разбирается сверкой.
type StockListener struct {
	warehouse services.WarehouseStockService
	logger    *zap.Logger
}

func NewStockListener(warehouse services.WarehouseStockService, logger *zap.Logger) *StockListener {
	return &StockListener{warehouse: warehouse, logger: logger}
}

func (l *StockListener) Register(bus *eventbus.Bus) {
	bus.Subscribe(events.StockDecrementRequestedEvent{}.Name(), l.handleDecrement)
}

func (l *StockListener) handleDecrement(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.StockDecrementRequestedEvent)
	if !ok {
		return fmt.Errorf("неожиданный тип события: %T", event)
	}
	if err := l.warehouse.Decrement(ctx, e.RequestID, e.Lines); err != nil {
		l.logger.Error("Списание со склада не выполнено, требуется сверка",
			zap.Uint64("request_id", e.RequestID), zap.Error(err))
		return err
	}
	return nil
}
