package handlers

import (
	"context"

	"taskMaster/internal/models/task"
	"taskMaster/internal/ranking"
	"taskMaster/internal/service"

	"github.com/google/uuid"
)

type Service interface {
	HealthCheck(ctx context.Context) error
	CreateTask(ctx context.Context, p service.CreateParams) (*task.Task, error)
	GetTaskByID(ctx context.Context, ownerID string, id uuid.UUID) (*task.Task, error)
	UpdateTask(ctx context.Context, ownerID string, id uuid.UUID, options ...task.TaskOption) (*task.Task, error)
	DeleteTask(ctx context.Context, ownerID string, id uuid.UUID) error
	ListTasks(ctx context.Context, ownerID string, q ranking.Query) ([]*task.Task, error)
}

// MonitorControl - жизненный цикл монитора дедлайнов,
// привязка и отвязка владельца при входе/выходе
type MonitorControl interface {
	Start(ctx context.Context, ownerID string) error
	Stop()
}
