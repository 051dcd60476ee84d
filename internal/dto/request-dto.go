package dto

import (
	"github.com/aarondl/null/v8"
)

type CreateLineItemDTO struct {
	Name     string  `json:"name" validate:"required"`
	Unit     string  `json:"unit" validate:"required"`
	Quantity float64 `json:"quantity" validate:"required,gt=0"`
}

type CreateRequestDTO struct {
	Name     string `json:"name" validate:"required"`
	Type     string `json:"type" validate:"required"`
	SiteName string `json:"site_name"`
	// Chain — ручное переопределение маршрута. Выбирается один раз при
	// создании, после NOVAYA не меняется.
	Chain   string              `json:"chain"`
	Comment *string             `json:"comment"`
	Items   []CreateLineItemDTO `json:"items" validate:"required,min=1,dive"`
}

type FulfillmentDTO struct {
	ItemID   uint64  `json:"item_id" validate:"required"`
	Quantity float64 `json:"quantity" validate:"gte=0"`
}

type TransitionDTO struct {
	ToStatus string  `json:"to_status" validate:"required"`
	Comment  *string `json:"comment"`
	// Items обязательны при переходе в SKLAD_PARTIAL.
	Items []FulfillmentDTO `json:"items" validate:"dive"`
}

// UpdateSpecificationDTO — правка спецификации начальником участка.
type UpdateSpecificationItemDTO struct {
	ItemID   uint64       `json:"item_id" validate:"required"`
	Name     null.String  `json:"name,omitempty"`
	Unit     null.String  `json:"unit,omitempty"`
	Quantity null.Float64 `json:"quantity,omitempty"`
}

type UpdateSpecificationDTO struct {
	Items []UpdateSpecificationItemDTO `json:"items" validate:"required,min=1,dive"`
}

// UpdateFinancialsDTO — правка финансовых полей финансистом.
type UpdateFinancialsDTO struct {
	EstimatedCost null.Float64 `json:"estimated_cost"`
}

type LineItemDTO struct {
	ID                uint64  `json:"id"`
	Name              string  `json:"name"`
	Unit              string  `json:"unit"`
	Quantity          float64 `json:"quantity"`
	FulfilledQuantity float64 `json:"fulfilled_quantity"`
}

type RequestDTO struct {
	ID             uint64        `json:"id"`
	Name           string        `json:"name"`
	Type           string        `json:"type"`
	Chain          string        `json:"chain"`
	Status         string        `json:"status"`
	SiteName       string        `json:"site_name"`
	CreatorID      uint64        `json:"creator_id"`
	ParentID       *uint64       `json:"parent_id,omitempty"`
	EstimatedCost  *float64      `json:"estimated_cost,omitempty"`
	StageEnteredAt string        `json:"stage_entered_at"`
	Deadline       *string       `json:"deadline,omitempty"`
	SlaBreached    bool          `json:"sla_breached"`
	Version        uint64        `json:"version"`
	CreatedAt      string        `json:"created_at"`
	Items          []LineItemDTO `json:"items"`
}

type HistoryEntryDTO struct {
	ID         uint64  `json:"id"`
	OpID       string  `json:"op_id"`
	FromStatus *string `json:"from_status,omitempty"`
	ToStatus   string  `json:"to_status"`
	ActorID    uint64  `json:"actor_id"`
	ActorRole  string  `json:"actor_role"`
	Comment    *string `json:"comment,omitempty"`
	CreatedAt  string  `json:"created_at"`
}

type DeadlineDTO struct {
	RequestID uint64  `json:"request_id"`
	Status    string  `json:"status"`
	Deadline  *string `json:"deadline,omitempty"`
	Breached  bool    `json:"breached"`
}
