package task

import (
	"time"

	"github.com/google/uuid"
)

type Task struct {
	UUID        uuid.UUID  `json:"uuid" db:"uuid"`
	OwnerID     string     `json:"owner_id" db:"owner_id"`
	Description string     `json:"description" db:"description"`
	DueDate     string     `json:"due_date,omitempty" db:"due_date"`
	DueTime     string     `json:"due_time,omitempty" db:"due_time"`
	Priority    Priority   `json:"priority" db:"priority"`
	Category    Category   `json:"category" db:"category"`
	Notified    Flags      `json:"notified" db:"notified"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty" db:"updated_at,omitempty"`
	Version     int        `db:"version" json:"version"`
}

type Priority string
type Category string

const PriorityHigh Priority = "high"
const PriorityMedium Priority = "medium"
const PriorityLow Priority = "low"

const CategoryPersonal Category = "personal"
const CategoryWork Category = "work"
const CategoryShopping Category = "shopping"
const CategoryHealth Category = "health"
const CategoryOther Category = "other"

// Order возвращает вес приоритета для сортировки: high раньше всех
func (p Priority) Order() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	}
	return 3
}

func (p Priority) Valid() bool {
	return p == PriorityHigh || p == PriorityMedium || p == PriorityLow
}

func (c Category) Valid() bool {
	switch c {
	case CategoryPersonal, CategoryWork, CategoryShopping, CategoryHealth, CategoryOther:
		return true
	}
	return false
}

// FlagKey - ключ флага оповещения, по одному на уровень срочности
type FlagKey string

const FlagHour FlagKey = "hour"
const FlagThirtyMin FlagKey = "thirtyMin"
const FlagOverdue FlagKey = "overdue"

// Flags хранит какие оповещения по задаче уже отправлены.
// Монитор - единственный, кто выставляет флаги в true;
// сброс происходит только при изменении дедлайна самой задачи.
type Flags struct {
	Hour      bool `json:"hour" db:"notified_hour"`
	ThirtyMin bool `json:"thirty_min" db:"notified_thirty_min"`
	Overdue   bool `json:"overdue" db:"notified_overdue"`
}

func (f Flags) Get(key FlagKey) bool {
	switch key {
	case FlagHour:
		return f.Hour
	case FlagThirtyMin:
		return f.ThirtyMin
	case FlagOverdue:
		return f.Overdue
	}
	return false
}

func (f *Flags) Set(key FlagKey) {
	switch key {
	case FlagHour:
		f.Hour = true
	case FlagThirtyMin:
		f.ThirtyMin = true
	case FlagOverdue:
		f.Overdue = true
	}
}

const dueDateTimeLayout = "2006-01-02 15:04"

// Deadline собирает дату и время в единый дедлайн.
// Если одно из полей пустое или не парсится - дедлайна нет,
// задача исключается из мониторинга.
func (t *Task) Deadline() (time.Time, bool) {
	if t.DueDate == "" || t.DueTime == "" {
		return time.Time{}, false
	}

	deadline, err := time.ParseInLocation(dueDateTimeLayout, t.DueDate+" "+t.DueTime, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return deadline, true
}

// HasDeadline - есть ли у задачи валидный дедлайн
func (t *Task) HasDeadline() bool {
	_, ok := t.Deadline()
	return ok
}
