package chains

import (
	"testing"

	"snab-system/pkg/constants"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryCoversAllChains(t *testing.T) {
	for _, id := range constants.AllChains {
		d := Get(id)
		require.NotEmpty(t, d.Stages, "маршрут %s без этапов", id)

		assert.Equal(t, constants.StatusNovaya, d.Stages[0].Status, "маршрут %s должен начинаться с NOVAYA", id)

		last := d.Stages[len(d.Stages)-1]
		assert.Equal(t, constants.StatusPolucheno, last.Status, "маршрут %s должен заканчиваться POLUCHENO", id)
		assert.True(t, last.Terminal)
	}
}

// Каждый маршрут содержит ровно один POLUCHENO, и перед ним всегда VYDANO.
func TestPoluchenoAlwaysPrecededByVydano(t *testing.T) {
	for _, id := range constants.AllChains {
		d := Get(id)

		count := 0
		for i, st := range d.Stages {
			if st.Status != constants.StatusPolucheno {
				continue
			}
			count++
			require.Greater(t, i, 0)
			assert.Equal(t, constants.StatusVydano, d.Stages[i-1].Status,
				"маршрут %s: перед POLUCHENO должен идти VYDANO", id)
		}
		assert.Equal(t, 1, count, "маршрут %s: POLUCHENO должен встречаться один раз", id)
	}
}

func TestDefaultChain(t *testing.T) {
	cases := map[constants.RequestType]constants.ChainID{
		constants.RequestTypeMaterials:      constants.ChainFull,
		constants.RequestTypeTools:          constants.ChainWarehouseOnly,
		constants.RequestTypeHeavyEquipment: constants.ChainFullFinance,
		constants.RequestTypeServices:       constants.ChainFinanceOnly,
		constants.RequestTypeOther:          constants.ChainFull,
	}
	for reqType, want := range cases {
		assert.Equal(t, want, DefaultChain(reqType), "тип %s", reqType)
	}
}

func TestSuccessors(t *testing.T) {
	full := Get(constants.ChainFull)

	t.Run("следующий этап и отклонение", func(t *testing.T) {
		got := full.Successors(constants.StatusNachalnikReview)
		assert.ElementsMatch(t, []constants.Status{
			constants.StatusNachalnikApproved,
			constants.StatusOtkloneno,
		}, got)
	})

	t.Run("ветка частичной выдачи из SKLAD_REVIEW", func(t *testing.T) {
		got := full.Successors(constants.StatusSkladReview)
		assert.ElementsMatch(t, []constants.Status{
			constants.StatusNachalnikReview,
			constants.StatusSkladPartial,
			constants.StatusOtkloneno,
		}, got)
	})

	t.Run("после частичной выдачи — только выдача остатка или отклонение", func(t *testing.T) {
		got := full.Successors(constants.StatusSkladPartial)
		assert.ElementsMatch(t, []constants.Status{
			constants.StatusVydano,
			constants.StatusOtkloneno,
		}, got)
	})

	t.Run("из финального статуса переходов нет", func(t *testing.T) {
		assert.Empty(t, full.Successors(constants.StatusPolucheno))
		assert.Empty(t, full.Successors(constants.StatusOtkloneno))
	})

	t.Run("без ветки Partial в WAREHOUSE_ONLY частичная выдача недоступна", func(t *testing.T) {
		wh := Get(constants.ChainWarehouseOnly)
		assert.False(t, wh.IsSuccessor(constants.StatusSkladReview, constants.StatusSkladPartial))
	})
}

func TestSnabProcessOnlyInPurchaseOnly(t *testing.T) {
	for _, id := range constants.AllChains {
		_, ok := Get(id).StageFor(constants.StatusSnabProcess)
		if id == constants.ChainPurchaseOnly {
			assert.True(t, ok)
		} else {
			assert.False(t, ok, "маршрут %s не должен содержать SNAB_PROCESS", id)
		}
	}
}
