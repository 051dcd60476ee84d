package workflow

import (
	"time"

	"snab-system/internal/authz"
	"snab-system/internal/chains"
	"snab-system/internal/entities"
	"snab-system/pkg/constants"
	apperrors "snab-system/pkg/errors"

	"github.com/google/uuid"
)

// Actor — исполнитель действия.
type Actor struct {
	ID   uint64
	Role constants.Role
}

// Fulfillment — фактически выданное количество по позиции при частичной выдаче.
type Fulfillment struct {
	ItemID   uint64
	Quantity float64
}

// Payload — данные перехода. Fulfillment обязателен для SKLAD_PARTIAL.
type Payload struct {
	Comment     *string
	Fulfillment []Fulfillment
}

// StockLine — позиция к списанию со складского остатка.
type StockLine struct {
	Name     string
	Unit     string
	Quantity float64
}

// Outcome — результат успешного перехода. Машина состояний чистая:
// она мутирует переданную заявку и описывает побочные эффекты,
// а сохранение и публикация событий — забота оркестратора.
type Outcome struct {
	Entry entities.HistoryEntry

	// Remainder — производная заявка на незакрытый остаток (частичная выдача).
	// Входит в маршрут заново на этапе NACHALNIK_REVIEW.
	Remainder *entities.Request

	// StockDecrement — позиции к списанию со склада.
	StockDecrement []StockLine

	// PurchaseEligible — заявка достигла этапа снабженца,
	// её можно включать в сводный заказ поставщику.
	PurchaseEligible bool
}

// Transition валидирует и применяет переход заявки в статус to.
//
// Порядок проверок фиксирован: финальность, допустимость перехода по
// маршруту, права актора. Админ не ограничен позицией в маршруте.
func Transition(req *entities.Request, actor Actor, to constants.Status, payload Payload, now time.Time) (*Outcome, error) {
	if constants.IsFinalStatus(req.Status) {
		return nil, apperrors.ErrRequestClosed
	}

	chain := chains.Get(req.ChainID)
	if actor.Role != constants.RoleAdmin {
		if !chain.IsSuccessor(req.Status, to) {
			return nil, apperrors.ErrInvalidTransition
		}
	} else if !constants.IsValidStatus(string(to)) {
		return nil, apperrors.ErrInvalidTransition
	}

	authzCtx := authz.Context{ActorID: actor.ID, Role: actor.Role, Target: req}
	if !authz.CanTransition(authzCtx, to) {
		return nil, apperrors.ErrForbidden
	}

	outcome := &Outcome{}

	if to == constants.StatusSkladPartial {
		if err := applyPartial(req, payload, outcome, now); err != nil {
			return nil, err
		}
	}

	from := req.Status
	outcome.Entry = entities.HistoryEntry{
		RequestID:  req.ID,
		OpID:       uuid.New(),
		FromStatus: &from,
		ToStatus:   to,
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		Comment:    payload.Comment,
		CreatedAt:  now,
	}

	req.Status = to
	req.StageEnteredAt = now

	// Выдача со склада: списываем весь объем, если он не был списан
	// раньше по ветке частичной выдачи.
	if to == constants.StatusVydano && !req.StockDecremented {
		for _, item := range req.Items {
			outcome.StockDecrement = append(outcome.StockDecrement, StockLine{
				Name:     item.Name,
				Unit:     item.Unit,
				Quantity: item.Quantity,
			})
		}
		req.StockDecremented = true
	}

	if stage, ok := chain.StageFor(to); ok && stage.Role == constants.RoleSnab {
		outcome.PurchaseEligible = true
	}

	return outcome, nil
}

// applyPartial обрабатывает частичную выдачу: проставляет выданные
// количества, готовит списание выданного и производную заявку на остаток.
// Одно действие пользователя — два согласованных эффекта.
func applyPartial(req *entities.Request, payload Payload, outcome *Outcome, now time.Time) error {
	if len(payload.Fulfillment) == 0 {
		return apperrors.NewValidationError("для частичной выдачи необходимо указать выданные количества")
	}

	byItem := make(map[uint64]float64, len(payload.Fulfillment))
	for _, f := range payload.Fulfillment {
		byItem[f.ItemID] = f.Quantity
	}

	var remainderItems []entities.LineItem
	anyRemainder := false
	for i := range req.Items {
		item := &req.Items[i]
		fulfilled, ok := byItem[item.ID]
		if !ok {
			fulfilled = 0
		}
		if fulfilled < 0 || fulfilled > item.Quantity {
			return apperrors.NewValidationError(
				"выданное количество по позиции «%s» должно быть в пределах от 0 до %.3f", item.Name, item.Quantity)
		}

		item.FulfilledQuantity = fulfilled
		if fulfilled > 0 {
			outcome.StockDecrement = append(outcome.StockDecrement, StockLine{
				Name:     item.Name,
				Unit:     item.Unit,
				Quantity: fulfilled,
			})
		}
		if rem := item.Remaining(); rem > 0 {
			anyRemainder = true
			remainderItems = append(remainderItems, entities.LineItem{
				Name:     item.Name,
				Unit:     item.Unit,
				Quantity: rem,
			})
		}
	}

	if !anyRemainder {
		return apperrors.NewValidationError("остаток по всем позициям закрыт, частичная выдача не требуется: используйте выдачу")
	}

	parentID := req.ID
	outcome.Remainder = &entities.Request{
		Name:           req.Name,
		Type:           req.Type,
		ChainID:        req.ChainID,
		Status:         constants.StatusNachalnikReview,
		SiteName:       req.SiteName,
		CreatorID:      req.CreatorID,
		ParentID:       &parentID,
		StageEnteredAt: now,
		Items:          remainderItems,
	}

	// Выданное уже списано, на этапе VYDANO повторно не списываем.
	req.StockDecremented = true
	return nil
}
