package listeners

import (
	"context"
	"fmt"

	"snab-system/internal/events"
	"snab-system/internal/services"
	"snab-system/pkg/eventbus"
)

// PurchaseListener заводит черновик заказа поставщику, когда заявка
// доходит до этапа снабжения.
type PurchaseListener struct {
	purchases services.PurchaseOrderService
}

func NewPurchaseListener(purchases services.PurchaseOrderService) *PurchaseListener {
	return &PurchaseListener{purchases: purchases}
}

func (l *PurchaseListener) Register(bus *eventbus.Bus) {
	bus.Subscribe(events.PurchaseOrderEligibleEvent{}.Name(), l.handleEligible)
}

func (l *PurchaseListener) handleEligible(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.PurchaseOrderEligibleEvent)
	if !ok {
		return fmt.Errorf("неожиданный тип события: %T", event)
	}
	return l.purchases.CreateDraft(ctx, e.RequestID)
}
