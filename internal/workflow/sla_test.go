package workflow

import (
	"testing"
	"time"

	"snab-system/pkg/constants"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeadlineFor(t *testing.T) {
	t.Run("этап с нормативом", func(t *testing.T) {
		req := newRequest(constants.ChainFull, constants.StatusSkladReview)
		req.StageEnteredAt = testNow

		deadline, ok := DeadlineFor(req)
		require.True(t, ok)
		assert.Equal(t, testNow.Add(8*time.Hour), deadline)
	})

	t.Run("этап без норматива", func(t *testing.T) {
		req := newRequest(constants.ChainFull, constants.StatusNovaya)
		_, ok := DeadlineFor(req)
		assert.False(t, ok)
	})

	t.Run("финальный статус", func(t *testing.T) {
		req := newRequest(constants.ChainFull, constants.StatusPolucheno)
		_, ok := DeadlineFor(req)
		assert.False(t, ok)
	})

	t.Run("SNAB_PROCESS в PURCHASE_ONLY — 72 часа", func(t *testing.T) {
		req := newRequest(constants.ChainPurchaseOnly, constants.StatusSnabProcess)
		req.StageEnteredAt = testNow

		deadline, ok := DeadlineFor(req)
		require.True(t, ok)
		assert.Equal(t, testNow.Add(72*time.Hour), deadline)
	})
}

func TestIsBreached(t *testing.T) {
	req := newRequest(constants.ChainFull, constants.StatusNachalnikReview) // норматив 24 часа
	req.StageEnteredAt = testNow

	assert.False(t, IsBreached(req, testNow.Add(23*time.Hour)))
	assert.False(t, IsBreached(req, testNow.Add(24*time.Hour)), "ровно в дедлайн просрочки ещё нет")
	assert.True(t, IsBreached(req, testNow.Add(24*time.Hour+time.Minute)))
}

// Переход обнуляет счетчик этапа: после возврата на этап дедлайн считается заново.
func TestBreachClearedAfterTransition(t *testing.T) {
	req := newRequest(constants.ChainFull, constants.StatusSkladReview)
	req.StageEnteredAt = testNow.Add(-10 * time.Hour)

	late := testNow
	require.True(t, IsBreached(req, late))

	_, err := Transition(req, Actor{ID: 2, Role: constants.RoleSklad}, constants.StatusNachalnikReview, Payload{}, late)
	require.NoError(t, err)
	assert.False(t, IsBreached(req, late), "на новом этапе отсчет начинается заново")
}
