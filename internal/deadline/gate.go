package deadline

import (
	"taskMaster/internal/models/task"
)

// thresholds - пороги в минутах, после пересечения которых должен
// сработать соответствующий флаг. Порядок от менее срочного к более
// срочному, чтобы при догоняющей отправке hour шёл раньше thirtyMin.
var thresholds = []struct {
	key task.FlagKey
	min int
}{
	{task.FlagHour, warningThresholdMin},
	{task.FlagThirtyMin, urgentThresholdMin},
	{task.FlagOverdue, -1},
}

// PendingFlags решает, какие оповещения пора отправить.
// Возвращает все ещё не отправленные флаги, чей порог уже пересечён.
// Если тик пропустил уровень (планировщик стоял и проснулся сразу
// в overdue), пропущенные уровни не теряются - они срабатывают
// вместе с текущим на том же тике.
func PendingFlags(flags task.Flags, cls Classification) []task.FlagKey {
	if !cls.HasDeadline {
		return nil
	}

	var pending []task.FlagKey
	for _, th := range thresholds {
		if cls.MinutesLeft > th.min {
			continue
		}
		if flags.Get(th.key) {
			continue
		}
		pending = append(pending, th.key)
	}
	return pending
}
