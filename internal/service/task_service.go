package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"taskMaster/internal/logger"
	"taskMaster/internal/models/task"
	"taskMaster/internal/ranking"
	rep "taskMaster/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// здесь происходит проверка ошибок бизнес-логики

type TaskService struct {
	repo TaskRepository
}

func NewTaskService(repo TaskRepository) TaskService {
	return TaskService{
		repo: repo,
	}
}

func (s *TaskService) HealthCheck(ctx context.Context) error {
	return s.repo.HealthCheck(ctx)
}

type CreateParams struct {
	OwnerID     string
	Description string
	DueDate     string
	DueTime     string
	Priority    task.Priority
	Category    task.Category
}

func (s *TaskService) CreateTask(ctx context.Context, p CreateParams) (*task.Task, error) {
	if p.OwnerID == "" {
		return nil, NewValidationError("owner_id", "владелец не задан")
	}

	description := strings.TrimSpace(p.Description)
	if description == "" {
		return nil, NewValidationError("description", "описание не может быть пустым")
	}

	if err := ValidateDue(p.DueDate, p.DueTime); err != nil {
		return nil, err
	}
	if deadline, ok := (&task.Task{DueDate: p.DueDate, DueTime: p.DueTime}).Deadline(); ok {
		if time.Now().After(deadline) {
			return nil, NewValidationError("due_time", "дедлайн не может быть в прошлом")
		}
	}

	priority := p.Priority
	if priority == "" {
		priority = task.PriorityMedium
	}
	if !priority.Valid() {
		return nil, NewValidationError("priority", "допустимы high, medium, low")
	}

	category := p.Category
	if category == "" {
		category = task.CategoryPersonal
	}
	if !category.Valid() {
		return nil, NewValidationError("category", "неизвестная категория")
	}

	newTask := &task.Task{
		UUID:        uuid.New(),
		OwnerID:     p.OwnerID,
		Description: description,
		DueDate:     p.DueDate,
		DueTime:     p.DueTime,
		Priority:    priority,
		Category:    category,
	}

	if err := s.repo.Create(ctx, newTask); err != nil {
		return nil, fmt.Errorf("создание задачи: %w", err)
	}
	return newTask, nil
}

// ValidateDue проверяет пару полей дедлайна: либо оба пустые,
// либо оба валидные. Половинчатый дедлайн - ошибка пользователя,
// а не повод молча считать задачу бессрочной.
func ValidateDue(dueDate, dueTime string) error {
	if dueDate == "" && dueTime == "" {
		return nil
	}
	if dueDate == "" || dueTime == "" {
		return NewValidationError("due_date", "дата и время задаются вместе")
	}
	if !(&task.Task{DueDate: dueDate, DueTime: dueTime}).HasDeadline() {
		return NewValidationError("due_date", "ожидается дата YYYY-MM-DD и время HH:MM")
	}
	return nil
}

// getOwned достаёт задачу и проверяет владельца. Чужая задача
// неотличима от несуществующей - наружу уходит NOT_FOUND.
func (s *TaskService) getOwned(ctx context.Context, ownerID string, id uuid.UUID) (*task.Task, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.String("target_id", id.String()))
			return nil, NewNotFound(id.String())
		}
		return nil, fmt.Errorf("получение задачи: %w", err)
	}
	if t.OwnerID != ownerID {
		logger.Warn("Service: Попытка доступа к чужой задаче",
			zap.String("target_id", id.String()),
			zap.String("owner_id", ownerID))
		return nil, NewNotFound(id.String())
	}
	return t, nil
}

func (s *TaskService) GetTaskByID(ctx context.Context, ownerID string, id uuid.UUID) (*task.Task, error) {
	return s.getOwned(ctx, ownerID, id)
}

func (s *TaskService) UpdateTask(ctx context.Context, ownerID string, id uuid.UUID, options ...task.TaskOption) (*task.Task, error) {
	t, err := s.getOwned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(t)
	}

	if err := s.repo.Update(ctx, t); err != nil {
		if errors.Is(err, rep.ErrVersionConflict) {
			return nil, NewVersionConflict(id.String())
		}
		return nil, fmt.Errorf("обновление задачи: %w", err)
	}
	return t, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, ownerID string, id uuid.UUID) error {
	if _, err := s.getOwned(ctx, ownerID, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			return NewNotFound(id.String())
		}
		return fmt.Errorf("удаление задачи: %w", err)
	}
	return nil
}

// ListTasks отдаёт отфильтрованный и отсортированный список задач
// владельца. Фильтрация и сортировка - чистые, хранилище не трогается.
func (s *TaskService) ListTasks(ctx context.Context, ownerID string, q ranking.Query) ([]*task.Task, error) {
	tasks, err := s.repo.List(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("получение задач: %w", err)
	}

	q.OwnerID = ownerID
	return ranking.Rank(tasks, q), nil
}
