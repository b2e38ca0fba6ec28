package monitor

import "time"

// Clock отдаёт текущее время. В тестах подменяется фейком,
// чтобы тики не зависели от настоящих часов.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

func SystemClock() Clock {
	return systemClock{}
}
