package entities

import (
	"time"

	"snab-system/pkg/constants"
)

// Request — заявка на снабжение строительного объекта.
// Мутируется только через валидированные переходы (internal/workflow),
// поле Version защищает от параллельных изменений.
type Request struct {
	ID            uint64
	Name          string
	Type          constants.RequestType
	ChainID       constants.ChainID
	Status        constants.Status
	SiteName      string
	CreatorID     uint64
	ParentID      *uint64 // заполнено у производной заявки на остаток
	EstimatedCost *float64

	// StockDecremented — по заявке уже списан складской остаток,
	// повторное списание при достижении VYDANO не допускается.
	StockDecremented bool

	StageEnteredAt time.Time
	Version        uint64
	CreatedAt      time.Time
	DeletedAt      *time.Time

	Items []LineItem
}

// LineItem — позиция спецификации заявки.
// Инвариант: FulfilledQuantity <= Quantity.
type LineItem struct {
	ID                uint64
	RequestID         uint64
	Name              string
	Unit              string
	Quantity          float64
	FulfilledQuantity float64
}

// Remaining — незакрытый остаток по позиции.
func (i LineItem) Remaining() float64 {
	return i.Quantity - i.FulfilledQuantity
}
