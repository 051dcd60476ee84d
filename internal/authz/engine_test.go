package authz

import (
	"testing"

	"snab-system/internal/entities"
	"snab-system/pkg/constants"

	"github.com/stretchr/testify/assert"
)

func TestCanDo(t *testing.T) {
	tests := []struct {
		name       string
		role       constants.Role
		permission string
		want       bool
	}{
		{"прораб создаёт заявки", constants.RoleProrab, RequestsCreate, true},
		{"прораб не видит чужие заявки", constants.RoleProrab, RequestsViewAll, false},
		{"прораб не видит финансы", constants.RoleProrab, RequestsViewFinancials, false},
		{"склад делит заявку", constants.RoleSklad, RequestsSplit, true},
		{"склад не правит финансы", constants.RoleSklad, RequestsFinanceUpdate, false},
		{"начальник правит спецификацию", constants.RoleNachalnik, RequestsSpecUpdate, true},
		{"начальник видит финансы", constants.RoleNachalnik, RequestsViewFinancials, true},
		{"финансист правит финансы", constants.RoleFinansist, RequestsFinanceUpdate, true},
		{"снабженец заводит заказы", constants.RoleSnab, PurchaseOrdersCreate, true},
		{"снабженец не видит финансы", constants.RoleSnab, RequestsViewFinancials, false},
		{"админу можно всё", constants.RoleAdmin, RequestsForceDelete, true},
		{"неизвестная роль запрещена", constants.Role("STAZHER"), RequestsCreate, false},
		{"неизвестное действие запрещено", constants.RoleSklad, "requests:export", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CanDo(tt.permission, Context{ActorID: 1, Role: tt.role})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCanDoViewOwnChecksCreator(t *testing.T) {
	own := &entities.Request{CreatorID: 10}
	foreign := &entities.Request{CreatorID: 20}

	assert.True(t, CanDo(RequestsViewOwn, Context{ActorID: 10, Role: constants.RoleProrab, Target: own}))
	assert.False(t, CanDo(RequestsViewOwn, Context{ActorID: 10, Role: constants.RoleProrab, Target: foreign}))
}

func TestCanTransition(t *testing.T) {
	req := func(chain constants.ChainID, status constants.Status, creatorID uint64) *entities.Request {
		return &entities.Request{ChainID: chain, Status: status, CreatorID: creatorID}
	}

	tests := []struct {
		name    string
		actorID uint64
		role    constants.Role
		target  *entities.Request
		to      constants.Status
		want    bool
	}{
		{
			name:    "склад принимает новую заявку в работу",
			actorID: 2, role: constants.RoleSklad,
			target: req(constants.ChainFull, constants.StatusNovaya, 1),
			to:     constants.StatusSkladReview,
			want:   true,
		},
		{
			name:    "начальник не двигает заявку на этапе склада",
			actorID: 3, role: constants.RoleNachalnik,
			target: req(constants.ChainFull, constants.StatusSkladReview, 1),
			to:     constants.StatusNachalnikReview,
			want:   false,
		},
		{
			name:    "финансист не согласует за начальника",
			actorID: 4, role: constants.RoleFinansist,
			target: req(constants.ChainFullFinance, constants.StatusNachalnikReview, 1),
			to:     constants.StatusNachalnikApproved,
			want:   false,
		},
		{
			name:    "финансист работает на своём этапе",
			actorID: 4, role: constants.RoleFinansist,
			target: req(constants.ChainFullFinance, constants.StatusFinansistReview, 1),
			to:     constants.StatusFinansistApproved,
			want:   true,
		},
		{
			name:    "прораб подтверждает получение",
			actorID: 1, role: constants.RoleProrab,
			target: req(constants.ChainFull, constants.StatusVydano, 1),
			to:     constants.StatusPolucheno,
			want:   true,
		},
		{
			name:    "прораб отменяет собственную новую заявку",
			actorID: 1, role: constants.RoleProrab,
			target: req(constants.ChainFull, constants.StatusNovaya, 1),
			to:     constants.StatusOtkloneno,
			want:   true,
		},
		{
			name:    "прораб не отменяет чужую заявку",
			actorID: 1, role: constants.RoleProrab,
			target: req(constants.ChainFull, constants.StatusNovaya, 99),
			to:     constants.StatusOtkloneno,
			want:   false,
		},
		{
			name:    "прораб не двигает заявку по согласованию",
			actorID: 1, role: constants.RoleProrab,
			target: req(constants.ChainFull, constants.StatusSkladReview, 1),
			to:     constants.StatusNachalnikReview,
			want:   false,
		},
		{
			name:    "склад начинает частичную выдачу",
			actorID: 2, role: constants.RoleSklad,
			target: req(constants.ChainFull, constants.StatusSkladReview, 1),
			to:     constants.StatusSkladPartial,
			want:   true,
		},
		{
			name:    "роль этапа не перескакивает через этап",
			actorID: 2, role: constants.RoleSklad,
			target: req(constants.ChainFull, constants.StatusSkladReview, 1),
			to:     constants.StatusVydano,
			want:   false,
		},
		{
			name:    "админ делает любой переход",
			actorID: 9, role: constants.RoleAdmin,
			target: req(constants.ChainFull, constants.StatusNovaya, 1),
			to:     constants.StatusZakupleno,
			want:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CanTransition(Context{ActorID: tt.actorID, Role: tt.role, Target: tt.target}, tt.to)
			assert.Equal(t, tt.want, got)
		})
	}
}
