package ranking

import (
	"sort"
	"strings"

	"taskMaster/internal/models/task"
)

// WildcardAll - значение фильтра "показать всё"
const WildcardAll = "All"

type SortKey string

const SortByDueDate SortKey = "dueDate"
const SortByPriority SortKey = "priority"
const SortByCreatedAt SortKey = "createdAt"

type Query struct {
	OwnerID    string
	SearchText string
	Category   string
	Priority   string
	SortBy     SortKey
}

// Rank фильтрует и сортирует список задач. Входной слайс не меняется,
// повторный вызов с теми же аргументами даёт тот же результат.
func Rank(tasks []*task.Task, q Query) []*task.Task {
	search := strings.ToLower(strings.TrimSpace(q.SearchText))

	result := make([]*task.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.OwnerID != q.OwnerID {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(t.Description), search) {
			continue
		}
		if q.Category != "" && q.Category != WildcardAll && string(t.Category) != q.Category {
			continue
		}
		if q.Priority != "" && q.Priority != WildcardAll && string(t.Priority) != q.Priority {
			continue
		}
		result = append(result, t)
	}

	// стабильная сортировка: при равенстве сохраняется порядок вставки
	switch q.SortBy {
	case SortByPriority:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].Priority.Order() < result[j].Priority.Order()
		})
	case SortByCreatedAt:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		})
	case SortByDueDate:
		sort.SliceStable(result, func(i, j int) bool {
			di, iOk := result[i].Deadline()
			dj, jOk := result[j].Deadline()
			if iOk != jOk {
				return iOk // задачи без дедлайна уходят в конец
			}
			if !iOk {
				return false
			}
			return di.Before(dj)
		})
	}

	return result
}
