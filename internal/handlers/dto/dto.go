package dto

import (
	"time"

	"taskMaster/internal/deadline"
	"taskMaster/internal/models/task"

	"github.com/google/uuid"
)

type CreateTaskRequest struct {
	Description string `json:"description"`
	DueDate     string `json:"due_date,omitempty"`
	DueTime     string `json:"due_time,omitempty"`
	Priority    string `json:"priority,omitempty"`
	Category    string `json:"category,omitempty"`
}

type UpdateTaskRequest struct {
	Description *string `json:"description,omitempty"`
	DueDate     *string `json:"due_date,omitempty"`
	DueTime     *string `json:"due_time,omitempty"`
	Priority    *string `json:"priority,omitempty"`
	Category    *string `json:"category,omitempty"`
}

type TaskResponse struct {
	UUID        uuid.UUID  `json:"id"`
	Description string     `json:"description"`
	DueDate     string     `json:"due_date,omitempty"`
	DueTime     string     `json:"due_time,omitempty"`
	Priority    string     `json:"priority"`
	Category    string     `json:"category"`
	Tier        string     `json:"tier"`
	MinutesLeft *int       `json:"minutes_left,omitempty"`
	Notified    task.Flags `json:"notified"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// FromTask собирает ответ: уровень срочности считается на момент
// запроса тем же классификатором, что и в мониторе
func FromTask(t *task.Task, now time.Time) TaskResponse {
	cls := deadline.Classify(t, now)

	resp := TaskResponse{
		UUID:        t.UUID,
		Description: t.Description,
		DueDate:     t.DueDate,
		DueTime:     t.DueTime,
		Priority:    string(t.Priority),
		Category:    string(t.Category),
		Tier:        string(cls.Tier),
		Notified:    t.Notified,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	if cls.HasDeadline {
		minutes := cls.MinutesLeft
		resp.MinutesLeft = &minutes
	}
	return resp
}

func FromTaskList(tasks []*task.Task, now time.Time) []TaskResponse {
	result := make([]TaskResponse, len(tasks))
	for i, t := range tasks {
		result[i] = FromTask(t, now)
	}
	return result
}
