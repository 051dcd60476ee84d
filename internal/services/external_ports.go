package services

import (
	"context"

	"snab-system/internal/events"

	"go.uber.org/zap"
)

// WarehouseStockService — порт складского учёта. Списание остатков
// выполняется внешней системой; здесь только передача поручения.
type WarehouseStockService interface {
	Decrement(ctx context.Context, requestID uint64, lines []events.StockLine) error
}

// PurchaseOrderService — порт закупок: заведение заказа поставщику
// по заявке, дошедшей до снабжения.
type PurchaseOrderService interface {
	CreateDraft(ctx context.Context, requestID uint64) error
}

type LogWarehouseStockService struct {
	logger *zap.Logger
}

func NewLogWarehouseStockService(logger *zap.Logger) WarehouseStockService {
	return &LogWarehouseStockService{logger: logger}
}

func (s *LogWarehouseStockService) Decrement(ctx context.Context, requestID uint64, lines []events.StockLine) error {
	for _, l := range lines {
		s.logger.Info("Списание со склада",
			zap.Uint64("request_id", requestID),
			zap.String("name", l.Name),
			zap.String("unit", l.Unit),
			zap.Float64("quantity", l.Quantity),
		)
	}
	return nil
}

type LogPurchaseOrderService struct {
	logger *zap.Logger
}

func NewLogPurchaseOrderService(logger *zap.Logger) PurchaseOrderService {
	return &LogPurchaseOrderService{logger: logger}
}

func (s *LogPurchaseOrderService) CreateDraft(ctx context.Context, requestID uint64) error {
	s.logger.Info("Создан черновик заказа поставщику", zap.Uint64("request_id", requestID))
	return nil
}
