package deadline

import (
	"time"

	"taskMaster/internal/models/task"
)

// Tier - уровень срочности задачи относительно текущего момента
type Tier string

const TierNoDeadline Tier = "no-deadline"
const TierUpcoming Tier = "upcoming"
const TierWarning Tier = "warning"
const TierUrgent Tier = "urgent"
const TierOverdue Tier = "overdue"

const warningThresholdMin = 60
const urgentThresholdMin = 30

type Classification struct {
	Tier        Tier
	MinutesLeft int
	HasDeadline bool
}

// Classify - чистая функция: задача + текущее время -> уровень срочности.
// Битые или пустые поля дедлайна дают no-deadline, тик из-за
// одной плохой записи не падает.
func Classify(t *task.Task, now time.Time) Classification {
	deadline, ok := t.Deadline()
	if !ok {
		return Classification{Tier: TierNoDeadline}
	}

	diff := deadline.Sub(now)
	minutesLeft := int(diff / time.Minute)
	if diff < 0 && diff%time.Minute != 0 {
		minutesLeft-- // округление вниз, как floor
	}

	cls := Classification{MinutesLeft: minutesLeft, HasDeadline: true}
	switch {
	case diff < 0:
		cls.Tier = TierOverdue
	case minutesLeft <= urgentThresholdMin:
		cls.Tier = TierUrgent
	case minutesLeft <= warningThresholdMin:
		cls.Tier = TierWarning
	default:
		cls.Tier = TierUpcoming
	}
	return cls
}
