package task

type TaskOption func(*Task)

func WithDescription(description string) TaskOption {
	if description == "" {
		return nil
	}
	return func(task *Task) {
		task.Description = description
	}
}

func WithPriority(priority Priority) TaskOption {
	if !priority.Valid() {
		return nil
	}
	return func(task *Task) {
		task.Priority = priority
	}
}

func WithCategory(category Category) TaskOption {
	if !category.Valid() {
		return nil
	}
	return func(task *Task) {
		task.Category = category
	}
}

// WithDue меняет дедлайн задачи. Раз дедлайн другой - старые
// оповещения больше не актуальны, флаги сбрасываются и монитор
// отработает по новому времени заново.
func WithDue(dueDate, dueTime string) TaskOption {
	return func(task *Task) {
		if task.DueDate == dueDate && task.DueTime == dueTime {
			return
		}
		task.DueDate = dueDate
		task.DueTime = dueTime
		task.Notified = Flags{}
	}
}
