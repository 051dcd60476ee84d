package workflow

import (
	"time"

	"snab-system/internal/chains"
	"snab-system/internal/entities"
	"snab-system/pkg/constants"
)

// DeadlineFor возвращает дедлайн SLA текущего этапа заявки.
// Второй результат false — у этапа нет норматива (дедлайн не считается).
func DeadlineFor(req *entities.Request) (time.Time, bool) {
	if constants.IsFinalStatus(req.Status) {
		return time.Time{}, false
	}

	chain := chains.Get(req.ChainID)
	stage, ok := chain.StageFor(req.Status)
	if !ok || stage.SLAHours == 0 {
		return time.Time{}, false
	}

	return req.StageEnteredAt.Add(time.Duration(stage.SLAHours) * time.Hour), true
}

// IsBreached — просрочен ли SLA текущего этапа. Просрочка не блокирует
// переходы, она влияет только на эскалацию и отображение.
func IsBreached(req *entities.Request, now time.Time) bool {
	deadline, ok := DeadlineFor(req)
	if !ok {
		return false
	}
	return now.After(deadline)
}
