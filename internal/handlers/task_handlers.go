package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"taskMaster/internal/handlers/dto"
	"taskMaster/internal/logger"
	"taskMaster/internal/middleware"
	"taskMaster/internal/models/task"
	"taskMaster/internal/monitor"
	"taskMaster/internal/ranking"
	"taskMaster/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TaskHandler struct {
	TaskService Service
	clock       monitor.Clock
}

func NewTaskHandler(taskService Service, clock monitor.Clock) TaskHandler {
	if clock == nil {
		clock = monitor.SystemClock()
	}
	return TaskHandler{
		TaskService: taskService,
		clock:       clock,
	}
}

func (s *TaskHandler) PostTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	if !checkContentType(r, "application/json") {
		logger.Warn("HTTP: Неверный тип контента",
			zap.String("expected", "application/json"),
			zap.String("received", r.Header.Get("Content-Type")),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusUnsupportedMediaType, "Content-Type должен быть application/json")
		return
	}

	var request dto.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "неверное тело запроса:"+err.Error())
		return
	}

	logger.Info("HTTP: Вызов сервиса создания задач")
	created, err := s.TaskService.CreateTask(r.Context(), service.CreateParams{
		OwnerID:     middleware.GetOwnerID(r.Context()),
		Description: request.Description,
		DueDate:     request.DueDate,
		DueTime:     request.DueTime,
		Priority:    task.Priority(request.Priority),
		Category:    task.Category(request.Category),
	})
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}

		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", "create_task"),
			zap.String("client_ip", r.RemoteAddr),
			zap.Duration("ms", time.Since(start)))

		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("HTTP_OUT: Задача создана",
		zap.String("task_id", created.UUID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithJSON(w, http.StatusCreated, toPayload("task", dto.FromTask(created, s.clock.Now())))
}

// GetTasks отдаёт список задач владельца с фильтрами и сортировкой:
// ?search= &category= &priority= &sort_by=dueDate|priority|createdAt
func (s *TaskHandler) GetTasks(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	query := r.URL.Query()
	sortBy := ranking.SortKey(query.Get("sort_by"))
	switch sortBy {
	case "", ranking.SortByDueDate, ranking.SortByPriority, ranking.SortByCreatedAt:
	default:
		logger.Warn("HTTP: Неверное значение параметра",
			zap.String("query", "sort_by"),
			zap.String("received", string(sortBy)),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "неверное значение sort_by")
		return
	}

	logger.Info("HTTP: Вызов сервиса для получения задач")

	tasks, err := s.TaskService.ListTasks(r.Context(), middleware.GetOwnerID(r.Context()), ranking.Query{
		SearchText: query.Get("search"),
		Category:   query.Get("category"),
		Priority:   query.Get("priority"),
		SortBy:     sortBy,
	})
	if err != nil {
		logger.Error("HTTP: Ошибка Service", err)
		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("HTTP_OUT: Задачи получены",
		zap.Duration("ms", time.Since(start)),
		zap.Int("count", len(tasks)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("tasks", dto.FromTaskList(tasks, s.clock.Now())))
}

func (s *TaskHandler) GetTaskByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseTaskID(w, r)
	if !ok {
		return
	}

	logger.Info("HTTP: Вызов сервиса для получения задачи")

	t, err := s.TaskService.GetTaskByID(r.Context(), middleware.GetOwnerID(r.Context()), id)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}

		logger.Error("HTTP: Ошибка в Service", err,
			zap.String("operation", "get_task"),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("HTTP_OUT: Задача получена",
		zap.String("task_id", t.UUID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("task", dto.FromTask(t, s.clock.Now())))
}

func (s *TaskHandler) UpdateTaskByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseTaskID(w, r)
	if !ok {
		return
	}

	var request dto.UpdateTaskRequest

	decoder := json.NewDecoder(r.Body)
	defer r.Body.Close()

	if err := decoder.Decode(&request); err != nil {
		logger.Warn("HTTP: ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "неверно переданы параметры обновления:"+err.Error())
		return
	}

	options, err := buildUpdateOptions(request)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		responseWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	logger.Info("HTTP: запрос к сервису обновления данных")

	updated, err := s.TaskService.UpdateTask(r.Context(), middleware.GetOwnerID(r.Context()), id, options...)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}

		logger.Error("HTTP: ошибка в Service", err,
			zap.String("operation", "update_task"),
			zap.String("client_addr", r.RemoteAddr))

		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("HTTP_OUT: Задача обновлена",
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("task", dto.FromTask(updated, s.clock.Now())))
}

func (s *TaskHandler) DeleteTaskByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseTaskID(w, r)
	if !ok {
		return
	}

	logger.Info("HTTP: Обращение к сервису для удаления задачи")

	err := s.TaskService.DeleteTask(r.Context(), middleware.GetOwnerID(r.Context()), id)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}

		logger.Error("HTTP: ошибка в Service", err,
			zap.String("operation", "delete_task"),
			zap.String("client_addr", r.RemoteAddr))

		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("HTTP_OUT: Задача удалена",
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusNoContent))

	w.WriteHeader(http.StatusNoContent)
}

func (s *TaskHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP: Health check")

	if err := s.TaskService.HealthCheck(r.Context()); err != nil {
		responseWithError(w, http.StatusServiceUnavailable, "unhealthy")
		return
	}
	responseWithJSON(w, http.StatusOK, toPayload("status", "ok"))
}

func parseTaskID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	idParam := chi.URLParam(r, "id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		logger.Warn("HTTP: Не удалось получить id",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "не удалось получить id:"+err.Error())
		return uuid.Nil, false
	}

	if id == uuid.Nil {
		logger.Warn("HTTP: Неверное значение id",
			zap.String("error", "nil id"),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "id не может быть пустым")
		return uuid.Nil, false
	}
	return id, true
}

// buildUpdateOptions превращает частичный запрос в набор опций.
// Поля дедлайна меняются только парой, валидируются до применения.
func buildUpdateOptions(request dto.UpdateTaskRequest) ([]task.TaskOption, error) {
	var options []task.TaskOption

	if request.Description != nil {
		options = append(options, task.WithDescription(*request.Description))
	}
	if request.Priority != nil {
		priority := task.Priority(*request.Priority)
		if !priority.Valid() {
			return nil, service.NewValidationError("priority", "допустимы high, medium, low")
		}
		options = append(options, task.WithPriority(priority))
	}
	if request.Category != nil {
		category := task.Category(*request.Category)
		if !category.Valid() {
			return nil, service.NewValidationError("category", "неизвестная категория")
		}
		options = append(options, task.WithCategory(category))
	}
	if request.DueDate != nil || request.DueTime != nil {
		if request.DueDate == nil || request.DueTime == nil {
			return nil, service.NewValidationError("due_date", "дата и время задаются вместе")
		}
		if err := service.ValidateDue(*request.DueDate, *request.DueTime); err != nil {
			return nil, err
		}
		options = append(options, task.WithDue(*request.DueDate, *request.DueTime))
	}

	return options, nil
}
