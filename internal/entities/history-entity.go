package entities

import (
	"time"

	"snab-system/pkg/constants"

	"github.com/google/uuid"
)

// HistoryEntry — неизменяемая запись аудита. Записи только добавляются,
// редактирование и удаление не предусмотрены.
type HistoryEntry struct {
	ID        uint64
	RequestID uint64
	// OpID группирует записи, порожденные одним действием пользователя
	// (например, частичная выдача пишет запись и по родительской, и по производной заявке).
	OpID       uuid.UUID
	FromStatus *constants.Status // nil для записи о создании
	ToStatus   constants.Status
	ActorID    uint64
	ActorRole  constants.Role
	Comment    *string
	CreatedAt  time.Time
}
