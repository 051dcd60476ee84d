package workflow

import (
	"testing"
	"time"

	"snab-system/internal/entities"
	"snab-system/pkg/constants"
	apperrors "snab-system/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func newRequest(chain constants.ChainID, status constants.Status) *entities.Request {
	return &entities.Request{
		ID:             42,
		Name:           "Цемент М500",
		Type:           constants.RequestTypeMaterials,
		ChainID:        chain,
		Status:         status,
		SiteName:       "Объект Север",
		CreatorID:      1,
		StageEnteredAt: testNow.Add(-time.Hour),
		Version:        1,
		Items: []entities.LineItem{
			{ID: 100, RequestID: 42, Name: "Цемент М500", Unit: "мешок", Quantity: 100},
			{ID: 101, RequestID: 42, Name: "Арматура 12мм", Unit: "т", Quantity: 2},
		},
	}
}

// Полный проход по маршруту FULL от создания до получения.
func TestTransitionFullChainHappyPath(t *testing.T) {
	req := newRequest(constants.ChainFull, constants.StatusNovaya)

	steps := []struct {
		actor Actor
		to    constants.Status
	}{
		{Actor{ID: 2, Role: constants.RoleSklad}, constants.StatusSkladReview},
		{Actor{ID: 2, Role: constants.RoleSklad}, constants.StatusNachalnikReview},
		{Actor{ID: 3, Role: constants.RoleNachalnik}, constants.StatusNachalnikApproved},
		{Actor{ID: 5, Role: constants.RoleSnab}, constants.StatusZakupleno},
		{Actor{ID: 5, Role: constants.RoleSnab}, constants.StatusVPuti},
		{Actor{ID: 2, Role: constants.RoleSklad}, constants.StatusVydano},
		{Actor{ID: 1, Role: constants.RoleProrab}, constants.StatusPolucheno},
	}

	for _, step := range steps {
		outcome, err := Transition(req, step.actor, step.to, Payload{}, testNow)
		require.NoError(t, err, "переход в %s", step.to)
		assert.Equal(t, step.to, req.Status)
		assert.Equal(t, step.to, outcome.Entry.ToStatus)
		assert.Equal(t, step.actor.ID, outcome.Entry.ActorID)
		assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", outcome.Entry.OpID.String())
	}

	assert.True(t, constants.IsFinalStatus(req.Status))
}

func TestTransitionRejectsInvalidSuccessor(t *testing.T) {
	req := newRequest(constants.ChainFull, constants.StatusNovaya)

	// Склад пытается перескочить через этапы сразу в закупку.
	_, err := Transition(req, Actor{ID: 2, Role: constants.RoleSklad}, constants.StatusZakupleno, Payload{}, testNow)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
	assert.Equal(t, constants.StatusNovaya, req.Status, "заявка не должна измениться")
}

func TestTransitionRejectsWrongRole(t *testing.T) {
	req := newRequest(constants.ChainFull, constants.StatusNachalnikReview)

	// Переход допустим по маршруту, но этап закреплён за начальником.
	_, err := Transition(req, Actor{ID: 4, Role: constants.RoleFinansist}, constants.StatusNachalnikApproved, Payload{}, testNow)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestTransitionFromFinalStatus(t *testing.T) {
	for _, status := range []constants.Status{constants.StatusPolucheno, constants.StatusOtkloneno} {
		req := newRequest(constants.ChainFull, status)
		_, err := Transition(req, Actor{ID: 9, Role: constants.RoleAdmin}, constants.StatusNovaya, Payload{}, testNow)
		assert.ErrorIs(t, err, apperrors.ErrRequestClosed, "из %s", status)
	}
}

// Повтор того же действия после успеха отклоняется: прежний статус
// больше не текущий.
func TestTransitionReplayRejected(t *testing.T) {
	req := newRequest(constants.ChainFull, constants.StatusNovaya)
	actor := Actor{ID: 2, Role: constants.RoleSklad}

	_, err := Transition(req, actor, constants.StatusSkladReview, Payload{}, testNow)
	require.NoError(t, err)

	_, err = Transition(req, actor, constants.StatusSkladReview, Payload{}, testNow)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
}

func TestTransitionAdminBypassesChainPosition(t *testing.T) {
	req := newRequest(constants.ChainFull, constants.StatusNovaya)

	outcome, err := Transition(req, Actor{ID: 9, Role: constants.RoleAdmin}, constants.StatusZakupleno, Payload{}, testNow)
	require.NoError(t, err)
	assert.Equal(t, constants.StatusZakupleno, req.Status)
	assert.Equal(t, constants.RoleAdmin, outcome.Entry.ActorRole, "действие админа тоже попадает в историю")
}

func TestTransitionVydanoDecrementsStockOnce(t *testing.T) {
	req := newRequest(constants.ChainFull, constants.StatusVPuti)

	outcome, err := Transition(req, Actor{ID: 2, Role: constants.RoleSklad}, constants.StatusVydano, Payload{}, testNow)
	require.NoError(t, err)
	require.Len(t, outcome.StockDecrement, 2)
	assert.Equal(t, 100.0, outcome.StockDecrement[0].Quantity)
	assert.True(t, req.StockDecremented)

	// Если остаток уже списан (частичная выдача), повторного списания нет.
	req2 := newRequest(constants.ChainFull, constants.StatusVPuti)
	req2.StockDecremented = true
	outcome2, err := Transition(req2, Actor{ID: 2, Role: constants.RoleSklad}, constants.StatusVydano, Payload{}, testNow)
	require.NoError(t, err)
	assert.Empty(t, outcome2.StockDecrement)
}

func TestTransitionPurchaseEligible(t *testing.T) {
	req := newRequest(constants.ChainFull, constants.StatusNachalnikReview)

	outcome, err := Transition(req, Actor{ID: 3, Role: constants.RoleNachalnik}, constants.StatusNachalnikApproved, Payload{}, testNow)
	require.NoError(t, err)
	assert.True(t, outcome.PurchaseEligible, "NACHALNIK_APPROVED в FULL закреплён за снабженцем")
}

func TestPartialFulfillment(t *testing.T) {
	actor := Actor{ID: 2, Role: constants.RoleSklad}

	t.Run("остаток уходит производной заявкой", func(t *testing.T) {
		req := newRequest(constants.ChainFull, constants.StatusSkladReview)

		outcome, err := Transition(req, actor, constants.StatusSkladPartial, Payload{
			Fulfillment: []Fulfillment{
				{ItemID: 100, Quantity: 60}, // 40 мешков в остаток
				{ItemID: 101, Quantity: 2},  // закрыта целиком
			},
		}, testNow)
		require.NoError(t, err)

		assert.Equal(t, constants.StatusSkladPartial, req.Status)
		assert.Equal(t, 60.0, req.Items[0].FulfilledQuantity)
		assert.Equal(t, 2.0, req.Items[1].FulfilledQuantity)
		assert.True(t, req.StockDecremented)

		// Списывается только фактически выданное.
		require.Len(t, outcome.StockDecrement, 2)
		assert.Equal(t, 60.0, outcome.StockDecrement[0].Quantity)
		assert.Equal(t, 2.0, outcome.StockDecrement[1].Quantity)

		child := outcome.Remainder
		require.NotNil(t, child)
		require.NotNil(t, child.ParentID)
		assert.Equal(t, req.ID, *child.ParentID)
		assert.Equal(t, req.ChainID, child.ChainID)
		assert.Equal(t, constants.StatusNachalnikReview, child.Status)
		require.Len(t, child.Items, 1)
		assert.Equal(t, 40.0, child.Items[0].Quantity)
		assert.Zero(t, child.Items[0].FulfilledQuantity)
	})

	t.Run("выдать больше заявленного нельзя", func(t *testing.T) {
		req := newRequest(constants.ChainFull, constants.StatusSkladReview)

		_, err := Transition(req, actor, constants.StatusSkladPartial, Payload{
			Fulfillment: []Fulfillment{{ItemID: 100, Quantity: 150}},
		}, testNow)

		var vErr *apperrors.ValidationError
		assert.ErrorAs(t, err, &vErr)
		assert.Equal(t, constants.StatusSkladReview, req.Status)
	})

	t.Run("без остатка частичная выдача не имеет смысла", func(t *testing.T) {
		req := newRequest(constants.ChainFull, constants.StatusSkladReview)

		_, err := Transition(req, actor, constants.StatusSkladPartial, Payload{
			Fulfillment: []Fulfillment{
				{ItemID: 100, Quantity: 100},
				{ItemID: 101, Quantity: 2},
			},
		}, testNow)

		var vErr *apperrors.ValidationError
		assert.ErrorAs(t, err, &vErr)
	})

	t.Run("в WAREHOUSE_ONLY ветки нет", func(t *testing.T) {
		req := newRequest(constants.ChainWarehouseOnly, constants.StatusSkladReview)

		_, err := Transition(req, actor, constants.StatusSkladPartial, Payload{
			Fulfillment: []Fulfillment{{ItemID: 100, Quantity: 50}},
		}, testNow)
		assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
	})

	t.Run("родитель после частичной выдачи идёт на выдачу остатка", func(t *testing.T) {
		req := newRequest(constants.ChainFull, constants.StatusSkladReview)
		_, err := Transition(req, actor, constants.StatusSkladPartial, Payload{
			Fulfillment: []Fulfillment{{ItemID: 100, Quantity: 60}, {ItemID: 101, Quantity: 2}},
		}, testNow)
		require.NoError(t, err)

		outcome, err := Transition(req, actor, constants.StatusVydano, Payload{}, testNow.Add(time.Hour))
		require.NoError(t, err)
		assert.Empty(t, outcome.StockDecrement, "выданное уже списано при частичной выдаче")

		_, err = Transition(req, Actor{ID: 1, Role: constants.RoleProrab}, constants.StatusPolucheno, Payload{}, testNow.Add(2*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, constants.StatusPolucheno, req.Status)
	})
}

func TestTransitionResetsStageClock(t *testing.T) {
	req := newRequest(constants.ChainFull, constants.StatusNovaya)
	entered := req.StageEnteredAt

	_, err := Transition(req, Actor{ID: 2, Role: constants.RoleSklad}, constants.StatusSkladReview, Payload{}, testNow)
	require.NoError(t, err)
	assert.True(t, req.StageEnteredAt.After(entered))
	assert.Equal(t, testNow, req.StageEnteredAt)
}
