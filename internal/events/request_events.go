package events

import (
	"time"

	"snab-system/pkg/constants"
)

// RequestStatusChangedEvent возникает после каждого успешного перехода
// (и после создания заявки — FromStatus тогда пустой).
type RequestStatusChangedEvent struct {
	RequestID  uint64
	FromStatus *constants.Status
	ToStatus   constants.Status
	ActorID    uint64
	ActorRole  constants.Role
	Deadline   *time.Time
}

func (e RequestStatusChangedEvent) Name() string { return "request.status.changed" }

// SlaBreachedEvent — фоновый обход обнаружил просроченный этап.
type SlaBreachedEvent struct {
	RequestID uint64
	Status    constants.Status
	Role      constants.Role
	Deadline  time.Time
	Overdue   time.Duration
}

func (e SlaBreachedEvent) Name() string { return "request.sla.breached" }

// StockLine — позиция списания для внешней складской службы.
type StockLine struct {
	Name     string
	Unit     string
	Quantity float64
}

// StockDecrementRequestedEvent — запрос на списание складского остатка.
// Ошибка внешней службы не откатывает переход, расхождение сверяется отдельно.
type StockDecrementRequestedEvent struct {
	RequestID uint64
	Lines     []StockLine
}

func (e StockDecrementRequestedEvent) Name() string { return "request.stock.decrement" }

// PurchaseOrderEligibleEvent — заявка дошла до этапа снабженца и может
// агрегироваться во внешний сводный заказ поставщику.
type PurchaseOrderEligibleEvent struct {
	RequestID uint64
}

func (e PurchaseOrderEligibleEvent) Name() string { return "request.purchase.eligible" }
