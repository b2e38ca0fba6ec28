package ranking_test

import (
	"testing"
	"time"

	"taskMaster/internal/models/task"
	"taskMaster/internal/ranking"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTask(owner, description string, priority task.Priority, category task.Category) *task.Task {
	return &task.Task{
		UUID:        uuid.New(),
		OwnerID:     owner,
		Description: description,
		Priority:    priority,
		Category:    category,
	}
}

// TestRank_OwnerScoping тестирует что чужие задачи не попадают
// в выдачу ни при каких фильтрах
func TestRank_OwnerScoping(t *testing.T) {
	tasks := []*task.Task{
		newTask("user-1", "mine", task.PriorityHigh, task.CategoryWork),
		newTask("user-2", "not mine", task.PriorityHigh, task.CategoryWork),
	}

	got := ranking.Rank(tasks, ranking.Query{
		OwnerID:  "user-1",
		Category: ranking.WildcardAll,
		Priority: ranking.WildcardAll,
	})

	require.Len(t, got, 1)
	assert.Equal(t, "mine", got[0].Description)
}

// TestRank_Filters тестирует поиск и фильтры по категории и приоритету
func TestRank_Filters(t *testing.T) {
	tasks := []*task.Task{
		newTask("user-1", "Buy milk", task.PriorityLow, task.CategoryShopping),
		newTask("user-1", "Quarterly report", task.PriorityHigh, task.CategoryWork),
		newTask("user-1", "Dentist appointment", task.PriorityMedium, task.CategoryHealth),
	}

	tests := []struct {
		name string
		q    ranking.Query
		want []string
	}{
		{
			name: "empty search matches all",
			q:    ranking.Query{OwnerID: "user-1"},
			want: []string{"Buy milk", "Quarterly report", "Dentist appointment"},
		},
		{
			name: "search is case-insensitive",
			q:    ranking.Query{OwnerID: "user-1", SearchText: "MILK"},
			want: []string{"Buy milk"},
		},
		{
			name: "category filter",
			q:    ranking.Query{OwnerID: "user-1", Category: "work"},
			want: []string{"Quarterly report"},
		},
		{
			name: "category wildcard All",
			q:    ranking.Query{OwnerID: "user-1", Category: ranking.WildcardAll},
			want: []string{"Buy milk", "Quarterly report", "Dentist appointment"},
		},
		{
			name: "priority filter",
			q:    ranking.Query{OwnerID: "user-1", Priority: "medium"},
			want: []string{"Dentist appointment"},
		},
		{
			name: "combined filters with no match",
			q:    ranking.Query{OwnerID: "user-1", SearchText: "milk", Category: "work"},
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ranking.Rank(tasks, tt.q)
			descriptions := make([]string, 0, len(got))
			for _, tsk := range got {
				descriptions = append(descriptions, tsk.Description)
			}
			assert.Equal(t, tt.want, descriptions)
		})
	}
}

// TestRank_SortByPriority тестирует порядок high, medium, low
func TestRank_SortByPriority(t *testing.T) {
	tasks := []*task.Task{
		newTask("user-1", "low task", task.PriorityLow, task.CategoryPersonal),
		newTask("user-1", "high task", task.PriorityHigh, task.CategoryPersonal),
		newTask("user-1", "medium task", task.PriorityMedium, task.CategoryPersonal),
	}

	got := ranking.Rank(tasks, ranking.Query{OwnerID: "user-1", SortBy: ranking.SortByPriority})

	require.Len(t, got, 3)
	assert.Equal(t, "high task", got[0].Description)
	assert.Equal(t, "medium task", got[1].Description)
	assert.Equal(t, "low task", got[2].Description)
}

// TestRank_SortByDueDate тестирует сортировку по дедлайну:
// задачи без дедлайна в конце, равные - в порядке вставки
func TestRank_SortByDueDate(t *testing.T) {
	noDue := newTask("user-1", "someday", task.PriorityMedium, task.CategoryPersonal)
	evening := newTask("user-1", "evening", task.PriorityMedium, task.CategoryPersonal)
	evening.DueDate, evening.DueTime = "2024-01-01", "19:00"
	morning := newTask("user-1", "morning", task.PriorityMedium, task.CategoryPersonal)
	morning.DueDate, morning.DueTime = "2024-01-01", "09:00"
	morningTwin := newTask("user-1", "morning twin", task.PriorityMedium, task.CategoryPersonal)
	morningTwin.DueDate, morningTwin.DueTime = "2024-01-01", "09:00"

	got := ranking.Rank(
		[]*task.Task{noDue, evening, morning, morningTwin},
		ranking.Query{OwnerID: "user-1", SortBy: ranking.SortByDueDate},
	)

	require.Len(t, got, 4)
	assert.Equal(t, "morning", got[0].Description)
	assert.Equal(t, "morning twin", got[1].Description)
	assert.Equal(t, "evening", got[2].Description)
	assert.Equal(t, "someday", got[3].Description)
}

// TestRank_SortByCreatedAt тестирует порядок от новых к старым
func TestRank_SortByCreatedAt(t *testing.T) {
	old := newTask("user-1", "old", task.PriorityMedium, task.CategoryPersonal)
	old.CreatedAt = time.Date(2024, 1, 1, 9, 0, 0, 0, time.Local)
	fresh := newTask("user-1", "fresh", task.PriorityMedium, task.CategoryPersonal)
	fresh.CreatedAt = time.Date(2024, 1, 2, 9, 0, 0, 0, time.Local)

	got := ranking.Rank([]*task.Task{old, fresh}, ranking.Query{OwnerID: "user-1", SortBy: ranking.SortByCreatedAt})

	require.Len(t, got, 2)
	assert.Equal(t, "fresh", got[0].Description)
	assert.Equal(t, "old", got[1].Description)
}

// TestRank_DoesNotMutateInput тестирует что вход не меняется
// и повторный вызов даёт тот же результат
func TestRank_DoesNotMutateInput(t *testing.T) {
	tasks := []*task.Task{
		newTask("user-1", "b", task.PriorityLow, task.CategoryPersonal),
		newTask("user-1", "a", task.PriorityHigh, task.CategoryPersonal),
	}

	q := ranking.Query{OwnerID: "user-1", SortBy: ranking.SortByPriority}
	first := ranking.Rank(tasks, q)
	second := ranking.Rank(tasks, q)

	assert.Equal(t, "b", tasks[0].Description, "входной слайс не должен меняться")
	assert.Equal(t, first, second)
}
