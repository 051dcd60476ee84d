package chains

import (
	"fmt"

	"snab-system/pkg/constants"
)

// Stage — один этап маршрута: статус, роль, которая двигает заявку дальше,
// и норматив SLA в часах (0 — без дедлайна).
type Stage struct {
	Status   constants.Status
	Role     constants.Role
	SLAHours uint
	Terminal bool
}

// Definition — маршрут согласования. Stages — основная последовательность
// от NOVAYA до POLUCHENO; Partial заполнен у маршрутов, допускающих
// частичную выдачу со склада (ветка SKLAD_PARTIAL из SKLAD_REVIEW).
type Definition struct {
	ID      constants.ChainID
	Stages  []Stage
	Partial *Stage
}

var partialStage = Stage{Status: constants.StatusSkladPartial, Role: constants.RoleSklad}

// registry — каталог маршрутов. Заполняется один раз, на рантайме не меняется.
var registry = map[constants.ChainID]Definition{
	constants.ChainWarehouseOnly: {
		ID: constants.ChainWarehouseOnly,
		Stages: []Stage{
			{Status: constants.StatusNovaya, Role: constants.RoleSklad},
			{Status: constants.StatusSkladReview, Role: constants.RoleSklad, SLAHours: 8},
			{Status: constants.StatusVydano, Role: constants.RoleProrab},
			{Status: constants.StatusPolucheno, Terminal: true},
		},
	},
	constants.ChainFull: {
		ID:      constants.ChainFull,
		Partial: &partialStage,
		Stages: []Stage{
			{Status: constants.StatusNovaya, Role: constants.RoleSklad},
			{Status: constants.StatusSkladReview, Role: constants.RoleSklad, SLAHours: 8},
			{Status: constants.StatusNachalnikReview, Role: constants.RoleNachalnik, SLAHours: 24},
			{Status: constants.StatusNachalnikApproved, Role: constants.RoleSnab},
			{Status: constants.StatusZakupleno, Role: constants.RoleSnab, SLAHours: 24},
			{Status: constants.StatusVPuti, Role: constants.RoleSklad, SLAHours: 48},
			{Status: constants.StatusVydano, Role: constants.RoleProrab},
			{Status: constants.StatusPolucheno, Terminal: true},
		},
	},
	constants.ChainPurchaseOnly: {
		ID: constants.ChainPurchaseOnly,
		Stages: []Stage{
			{Status: constants.StatusNovaya, Role: constants.RoleSnab},
			{Status: constants.StatusSnabProcess, Role: constants.RoleSnab, SLAHours: 72},
			{Status: constants.StatusZakupleno, Role: constants.RoleSnab, SLAHours: 24},
			{Status: constants.StatusVPuti, Role: constants.RoleSklad, SLAHours: 48},
			{Status: constants.StatusVydano, Role: constants.RoleProrab},
			{Status: constants.StatusPolucheno, Terminal: true},
		},
	},
	constants.ChainFullFinance: {
		ID:      constants.ChainFullFinance,
		Partial: &partialStage,
		Stages: []Stage{
			{Status: constants.StatusNovaya, Role: constants.RoleSklad},
			{Status: constants.StatusSkladReview, Role: constants.RoleSklad, SLAHours: 8},
			{Status: constants.StatusNachalnikReview, Role: constants.RoleNachalnik, SLAHours: 24},
			{Status: constants.StatusNachalnikApproved, Role: constants.RoleFinansist},
			{Status: constants.StatusFinansistReview, Role: constants.RoleFinansist, SLAHours: 48},
			{Status: constants.StatusFinansistApproved, Role: constants.RoleSnab},
			{Status: constants.StatusZakupleno, Role: constants.RoleSnab, SLAHours: 24},
			{Status: constants.StatusVPuti, Role: constants.RoleSklad, SLAHours: 48},
			{Status: constants.StatusVydano, Role: constants.RoleProrab},
			{Status: constants.StatusPolucheno, Terminal: true},
		},
	},
	constants.ChainFinanceOnly: {
		ID: constants.ChainFinanceOnly,
		Stages: []Stage{
			{Status: constants.StatusNovaya, Role: constants.RoleFinansist},
			{Status: constants.StatusFinansistReview, Role: constants.RoleFinansist, SLAHours: 48},
			{Status: constants.StatusFinansistApproved, Role: constants.RoleSnab},
			{Status: constants.StatusZakupleno, Role: constants.RoleSnab, SLAHours: 24},
			{Status: constants.StatusVPuti, Role: constants.RoleSklad, SLAHours: 48},
			{Status: constants.StatusVydano, Role: constants.RoleProrab},
			{Status: constants.StatusPolucheno, Terminal: true},
		},
	},
}

// defaultChains — маршрут по умолчанию для каждого типа заявки.
var defaultChains = map[constants.RequestType]constants.ChainID{
	constants.RequestTypeMaterials:      constants.ChainFull,
	constants.RequestTypeTools:          constants.ChainWarehouseOnly,
	constants.RequestTypeHeavyEquipment: constants.ChainFullFinance,
	constants.RequestTypeServices:       constants.ChainFinanceOnly,
	constants.RequestTypeOther:          constants.ChainFull,
}

// Get возвращает маршрут по идентификатору. Неизвестный идентификатор —
// ошибка программирования, а не рантайма: оба перечисления закрыты.
func Get(id constants.ChainID) Definition {
	d, ok := registry[id]
	if !ok {
		panic(fmt.Sprintf("chains: неизвестный маршрут %q", id))
	}
	return d
}

// DefaultChain возвращает маршрут по умолчанию для типа заявки.
func DefaultChain(t constants.RequestType) constants.ChainID {
	id, ok := defaultChains[t]
	if !ok {
		panic(fmt.Sprintf("chains: неизвестный тип заявки %q", t))
	}
	return id
}

// StageFor находит этап по статусу, включая ветку частичной выдачи.
func (d Definition) StageFor(s constants.Status) (Stage, bool) {
	if d.Partial != nil && s == d.Partial.Status {
		return *d.Partial, true
	}
	for _, st := range d.Stages {
		if st.Status == s {
			return st, true
		}
	}
	return Stage{}, false
}

// next возвращает следующий статус основной последовательности.
func (d Definition) next(s constants.Status) (constants.Status, bool) {
	for i, st := range d.Stages {
		if st.Status == s && i+1 < len(d.Stages) {
			return d.Stages[i+1].Status, true
		}
	}
	return "", false
}

// Successors перечисляет допустимые целевые статусы из текущего:
// следующий этап последовательности, OTKLONENO из любого нефинального этапа
// и SKLAD_PARTIAL только из SKLAD_REVIEW.
func (d Definition) Successors(s constants.Status) []constants.Status {
	if constants.IsFinalStatus(s) {
		return nil
	}

	var out []constants.Status
	if d.Partial != nil && s == d.Partial.Status {
		// Родительская заявка после частичной выдачи уходит на выдачу остатка со склада.
		out = append(out, constants.StatusVydano)
	} else if next, ok := d.next(s); ok {
		out = append(out, next)
	}

	if d.Partial != nil && s == constants.StatusSkladReview {
		out = append(out, constants.StatusSkladPartial)
	}

	out = append(out, constants.StatusOtkloneno)
	return out
}

// IsSuccessor проверяет, что to — допустимый переход из from.
func (d Definition) IsSuccessor(from, to constants.Status) bool {
	for _, s := range d.Successors(from) {
		if s == to {
			return true
		}
	}
	return false
}
