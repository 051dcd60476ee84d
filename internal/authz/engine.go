package authz

import (
	"snab-system/internal/chains"
	"snab-system/internal/entities"
	"snab-system/pkg/constants"
)

// Context — контекст проверки прав: кто действует и над какой заявкой.
type Context struct {
	ActorID uint64
	Role    constants.Role
	Target  *entities.Request
}

// CanDo отвечает, разрешено ли роли действие. Работает по принципу
// "запрещено всё, что явно не разрешено": на любую неизвестную комбинацию
// возвращается false, ошибок здесь не бывает.
func CanDo(permission string, ctx Context) bool {
	if ctx.Role == constants.RoleAdmin {
		return true
	}

	perms, ok := rolePermissions[ctx.Role]
	if !ok {
		return false
	}
	if _, ok := perms[permission]; !ok {
		return false
	}

	// Доступ "только свои" проверяем по создателю заявки.
	if permission == RequestsViewOwn && ctx.Target != nil {
		return ctx.Target.CreatorID == ctx.ActorID
	}

	return true
}

// CanView — просмотр конкретной заявки: глобальный доступ или собственная.
func CanView(ctx Context) bool {
	if CanDo(RequestsViewAll, ctx) {
		return true
	}
	return CanDo(RequestsViewOwn, ctx)
}

// CanTransition проверяет право на перевод заявки в статус to.
//
// Общее правило: переход разрешен роли, закрепленной за ТЕКУЩИМ этапом
// маршрута, и только в допустимые целевые статусы (следующий этап,
// OTKLONENO, SKLAD_PARTIAL из SKLAD_REVIEW). Исключения:
//   - PRORAB: только VYDANO -> POLUCHENO и самоотмена NOVAYA -> OTKLONENO
//     собственной заявки;
//   - ADMIN: любой переход.
func CanTransition(ctx Context, to constants.Status) bool {
	req := ctx.Target
	if req == nil {
		return false
	}

	if ctx.Role == constants.RoleAdmin {
		return true
	}

	if ctx.Role == constants.RoleProrab {
		if to == constants.StatusPolucheno && req.Status == constants.StatusVydano {
			return true
		}
		if to == constants.StatusOtkloneno && req.Status == constants.StatusNovaya && req.CreatorID == ctx.ActorID {
			return true
		}
		return false
	}

	chain := chains.Get(req.ChainID)
	stage, ok := chain.StageFor(req.Status)
	if !ok {
		return false
	}
	if stage.Role != ctx.Role {
		return false
	}

	if to == constants.StatusSkladPartial && !CanDo(RequestsSplit, ctx) {
		return false
	}

	return chain.IsSuccessor(req.Status, to)
}
