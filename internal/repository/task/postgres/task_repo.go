package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"taskMaster/internal/logger"
	"taskMaster/internal/models/task"
	repo "taskMaster/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type Storage struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, connString string) (*Storage, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		logger.Error("Repository: Ошибка загрузки конфига", err)
		return nil, fmt.Errorf("загрузка конфига: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnIdleTime = time.Minute * 5

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		logger.Error("Repository: Ошибка создания пула", err)
		return nil, fmt.Errorf("создание пула: %w", err)
	}

	err = pool.Ping(ctx)
	if err != nil {
		logger.Error("Repository: Неудачная проверка ping", err)
		return nil, fmt.Errorf("проверка соединения ping: %w", err)
	}

	logger.Info("Repository: Успешное создание подключения к PostgreSQL")
	return &Storage{pool: pool}, nil
}

func (s *Storage) Close() {
	s.pool.Close()
	logger.Info("Repository: Закрытие всех соединений PostgreSQL")
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	err := s.pool.Ping(ctx)
	if err != nil {
		logger.Error("Repository: Неудачная проверка ping", err)
		return fmt.Errorf("проверка соединения ping: %w", err)
	}
	return nil
}

const taskColumns = `uuid, owner_id, description, due_date, due_time, priority, category,
	notified_hour, notified_thirty_min, notified_overdue, created_at, updated_at, version`

func scanTask(row pgx.Row) (*task.Task, error) {
	t := &task.Task{}
	err := row.Scan(
		&t.UUID, &t.OwnerID, &t.Description, &t.DueDate, &t.DueTime,
		&t.Priority, &t.Category,
		&t.Notified.Hour, &t.Notified.ThirtyMin, &t.Notified.Overdue,
		&t.CreatedAt, &t.UpdatedAt, &t.Version,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Storage) Create(ctx context.Context, taskToCreate *task.Task) error {
	start := time.Now()

	query := `INSERT INTO tasks
				(uuid, owner_id, description, due_date, due_time, priority, category)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING created_at, version`

	err := s.pool.QueryRow(ctx, query,
		taskToCreate.UUID, taskToCreate.OwnerID, taskToCreate.Description,
		taskToCreate.DueDate, taskToCreate.DueTime,
		taskToCreate.Priority, taskToCreate.Category,
	).Scan(&taskToCreate.CreatedAt, &taskToCreate.Version)

	if err != nil {
		logger.Error("Repository: Создание задачи", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("создание задачи: %w", err)
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленная операция", zap.Duration("ms", time.Since(start)))
	}
	return nil
}

func (s *Storage) Update(ctx context.Context, taskToUpdate *task.Task) error {
	start := time.Now()

	query := `UPDATE tasks
			SET description = $1,
				due_date = $2,
				due_time = $3,
				priority = $4,
				category = $5,
				notified_hour = $6,
				notified_thirty_min = $7,
				notified_overdue = $8,
				updated_at = NOW(),
				version = version + 1
			WHERE uuid = $9 AND version = $10
			RETURNING updated_at, version`

	err := s.pool.QueryRow(ctx, query,
		taskToUpdate.Description, taskToUpdate.DueDate, taskToUpdate.DueTime,
		taskToUpdate.Priority, taskToUpdate.Category,
		taskToUpdate.Notified.Hour, taskToUpdate.Notified.ThirtyMin, taskToUpdate.Notified.Overdue,
		taskToUpdate.UUID, taskToUpdate.Version,
	).Scan(&taskToUpdate.UpdatedAt, &taskToUpdate.Version)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			logger.Warn("Repository: Конфликт версий при обновлении",
				zap.String("task_id", taskToUpdate.UUID.String()),
				zap.Int("expected_version", taskToUpdate.Version))
			return repo.ErrVersionConflict
		}

		logger.Error("Repository: Обновление задачи", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("обновление задачи: %w", err)
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленная операция", zap.Duration("ms", time.Since(start)))
	}
	return nil
}

func (s *Storage) GetByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE uuid = $1`

	t, err := scanTask(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Получение задачи", err)
		return nil, fmt.Errorf("получение задачи: %w", err)
	}
	return t, nil
}

func (s *Storage) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM tasks WHERE uuid = $1`

	tag, err := s.pool.Exec(ctx, query, id)
	if err != nil {
		logger.Error("Repository: Удаление задачи", err)
		return fmt.Errorf("удаление задачи: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// List отдаёт задачи владельца в порядке создания
func (s *Storage) List(ctx context.Context, ownerID string) ([]*task.Task, error) {
	start := time.Now()

	query := `SELECT ` + taskColumns + ` FROM tasks
			WHERE owner_id = $1
			ORDER BY created_at, uuid`

	rows, err := s.pool.Query(ctx, query, ownerID)
	if err != nil {
		logger.Error("Repository: Получение списка задач", err)
		return nil, fmt.Errorf("получение списка задач: %w", err)
	}
	defer rows.Close()

	tasks := []*task.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("чтение строки: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("обход строк: %w", err)
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленная операция", zap.Duration("ms", time.Since(start)))
	}
	return tasks, nil
}

var flagColumns = map[task.FlagKey]string{
	task.FlagHour:      "notified_hour",
	task.FlagThirtyMin: "notified_thirty_min",
	task.FlagOverdue:   "notified_overdue",
}

// PatchNotified выставляет один флаг оповещения, не трогая version:
// запись монитора не должна конфликтовать с правками пользователя
func (s *Storage) PatchNotified(ctx context.Context, id uuid.UUID, key task.FlagKey) error {
	column, ok := flagColumns[key]
	if !ok {
		return fmt.Errorf("неизвестный флаг: %s", key)
	}

	query := `UPDATE tasks SET ` + column + ` = TRUE WHERE uuid = $1`

	tag, err := s.pool.Exec(ctx, query, id)
	if err != nil {
		logger.Error("Repository: Запись флага оповещения", err,
			zap.String("task_id", id.String()),
			zap.String("flag", string(key)))
		return fmt.Errorf("запись флага: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}
