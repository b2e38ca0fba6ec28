package service_test

import (
	"context"
	"errors"
	"testing"

	"taskMaster/internal/logger"
	"taskMaster/internal/models/task"
	"taskMaster/internal/ranking"
	"taskMaster/internal/repository"
	"taskMaster/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Init(true)
	defer logger.Sync()
	m.Run()
}

// MockTaskRepository - мок репозитория
type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTaskRepository) Create(ctx context.Context, t *task.Task) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTaskRepository) Update(ctx context.Context, t *task.Task) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

func (m *MockTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTaskRepository) List(ctx context.Context, ownerID string) ([]*task.Task, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*task.Task), args.Error(1)
}

var _ service.TaskRepository = (*MockTaskRepository)(nil)

// TestTaskService_CreateTask тестирует создание с валидацией
func TestTaskService_CreateTask(t *testing.T) {
	tests := []struct {
		name      string
		params    service.CreateParams
		setupMock func(*MockTaskRepository)
		wantCode  string
		check     func(*testing.T, *task.Task)
	}{
		{
			name: "success - defaults applied",
			params: service.CreateParams{
				OwnerID:     "user-1",
				Description: "  Buy milk  ",
			},
			setupMock: func(m *MockTaskRepository) {
				m.On("Create", mock.Anything, mock.Anything).Return(nil)
			},
			check: func(t *testing.T, created *task.Task) {
				assert.Equal(t, "Buy milk", created.Description)
				assert.Equal(t, task.PriorityMedium, created.Priority)
				assert.Equal(t, task.CategoryPersonal, created.Category)
				assert.Equal(t, task.Flags{}, created.Notified)
			},
		},
		{
			name: "success - with deadline",
			params: service.CreateParams{
				OwnerID:     "user-1",
				Description: "Report",
				DueDate:     "2099-01-01",
				DueTime:     "10:00",
				Priority:    task.PriorityHigh,
				Category:    task.CategoryWork,
			},
			setupMock: func(m *MockTaskRepository) {
				m.On("Create", mock.Anything, mock.Anything).Return(nil)
			},
			check: func(t *testing.T, created *task.Task) {
				assert.True(t, created.HasDeadline())
				assert.Equal(t, task.PriorityHigh, created.Priority)
			},
		},
		{
			name:     "error - blank description",
			params:   service.CreateParams{OwnerID: "user-1", Description: "   "},
			wantCode: "VALIDATION_ERROR",
		},
		{
			name:     "error - no owner",
			params:   service.CreateParams{Description: "x"},
			wantCode: "VALIDATION_ERROR",
		},
		{
			name: "error - date without time",
			params: service.CreateParams{
				OwnerID:     "user-1",
				Description: "x",
				DueDate:     "2099-01-01",
			},
			wantCode: "VALIDATION_ERROR",
		},
		{
			name: "error - unparseable due fields",
			params: service.CreateParams{
				OwnerID:     "user-1",
				Description: "x",
				DueDate:     "tomorrow",
				DueTime:     "noonish",
			},
			wantCode: "VALIDATION_ERROR",
		},
		{
			name: "error - deadline in the past",
			params: service.CreateParams{
				OwnerID:     "user-1",
				Description: "x",
				DueDate:     "2020-01-01",
				DueTime:     "10:00",
			},
			wantCode: "VALIDATION_ERROR",
		},
		{
			name: "error - unknown priority",
			params: service.CreateParams{
				OwnerID:     "user-1",
				Description: "x",
				Priority:    "critical",
			},
			wantCode: "VALIDATION_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockTaskRepository)
			if tt.setupMock != nil {
				tt.setupMock(mockRepo)
			}

			svc := service.NewTaskService(mockRepo)
			created, err := svc.CreateTask(context.Background(), tt.params)

			if tt.wantCode != "" {
				var busErr *service.BusinessError
				require.ErrorAs(t, err, &busErr)
				assert.Equal(t, tt.wantCode, busErr.Code)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, created)
			if tt.check != nil {
				tt.check(t, created)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

// TestTaskService_OwnerScoping тестирует что чужая задача выглядит как несуществующая
func TestTaskService_OwnerScoping(t *testing.T) {
	id := uuid.New()
	foreign := &task.Task{UUID: id, OwnerID: "user-2", Description: "not yours"}

	mockRepo := new(MockTaskRepository)
	mockRepo.On("GetByID", mock.Anything, id).Return(foreign, nil)

	svc := service.NewTaskService(mockRepo)

	_, err := svc.GetTaskByID(context.Background(), "user-1", id)
	var busErr *service.BusinessError
	require.ErrorAs(t, err, &busErr)
	assert.Equal(t, "NOT_FOUND", busErr.Code)

	err = svc.DeleteTask(context.Background(), "user-1", id)
	require.ErrorAs(t, err, &busErr)
	assert.Equal(t, "NOT_FOUND", busErr.Code)

	mockRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

// TestTaskService_UpdateTask тестирует применение опций и сброс флагов
func TestTaskService_UpdateTask(t *testing.T) {
	id := uuid.New()
	existing := &task.Task{
		UUID:        id,
		OwnerID:     "user-1",
		Description: "Old",
		DueDate:     "2099-01-01",
		DueTime:     "10:00",
		Priority:    task.PriorityMedium,
		Category:    task.CategoryPersonal,
		Notified:    task.Flags{Hour: true},
	}

	mockRepo := new(MockTaskRepository)
	mockRepo.On("GetByID", mock.Anything, id).Return(existing, nil)
	mockRepo.On("Update", mock.Anything, existing).Return(nil)

	svc := service.NewTaskService(mockRepo)

	updated, err := svc.UpdateTask(context.Background(), "user-1", id,
		task.WithDescription("New"),
		task.WithDue("2099-01-02", "12:00"),
	)
	require.NoError(t, err)

	assert.Equal(t, "New", updated.Description)
	assert.Equal(t, "2099-01-02", updated.DueDate)
	// дедлайн сменился - флаги оповещений сброшены
	assert.Equal(t, task.Flags{}, updated.Notified)
	mockRepo.AssertExpectations(t)
}

// TestTaskService_UpdateTask_SameDueKeepsFlags тестирует что правка
// без смены дедлайна не сбрасывает флаги
func TestTaskService_UpdateTask_SameDueKeepsFlags(t *testing.T) {
	id := uuid.New()
	existing := &task.Task{
		UUID:        id,
		OwnerID:     "user-1",
		Description: "Old",
		DueDate:     "2099-01-01",
		DueTime:     "10:00",
		Notified:    task.Flags{Hour: true},
	}

	mockRepo := new(MockTaskRepository)
	mockRepo.On("GetByID", mock.Anything, id).Return(existing, nil)
	mockRepo.On("Update", mock.Anything, existing).Return(nil)

	svc := service.NewTaskService(mockRepo)

	updated, err := svc.UpdateTask(context.Background(), "user-1", id,
		task.WithDescription("New"),
		task.WithDue("2099-01-01", "10:00"),
	)
	require.NoError(t, err)
	assert.True(t, updated.Notified.Hour)
}

// TestTaskService_UpdateTask_VersionConflict тестирует проброс конфликта версий
func TestTaskService_UpdateTask_VersionConflict(t *testing.T) {
	id := uuid.New()
	existing := &task.Task{UUID: id, OwnerID: "user-1"}

	mockRepo := new(MockTaskRepository)
	mockRepo.On("GetByID", mock.Anything, id).Return(existing, nil)
	mockRepo.On("Update", mock.Anything, existing).Return(repository.ErrVersionConflict)

	svc := service.NewTaskService(mockRepo)

	_, err := svc.UpdateTask(context.Background(), "user-1", id, task.WithDescription("New"))
	var busErr *service.BusinessError
	require.ErrorAs(t, err, &busErr)
	assert.Equal(t, "VERSION_CONFLICT", busErr.Code)
}

// TestTaskService_GetTaskByID_NotFound тестирует проброс NOT_FOUND из репозитория
func TestTaskService_GetTaskByID_NotFound(t *testing.T) {
	mockRepo := new(MockTaskRepository)
	mockRepo.On("GetByID", mock.Anything, mock.Anything).Return(nil, repository.ErrNotFound)

	svc := service.NewTaskService(mockRepo)

	_, err := svc.GetTaskByID(context.Background(), "user-1", uuid.New())
	var busErr *service.BusinessError
	require.ErrorAs(t, err, &busErr)
	assert.Equal(t, "NOT_FOUND", busErr.Code)
}

// TestTaskService_ListTasks тестирует прогон списка через ранжирование
func TestTaskService_ListTasks(t *testing.T) {
	tasks := []*task.Task{
		{UUID: uuid.New(), OwnerID: "user-1", Description: "low", Priority: task.PriorityLow},
		{UUID: uuid.New(), OwnerID: "user-1", Description: "high", Priority: task.PriorityHigh},
	}

	mockRepo := new(MockTaskRepository)
	mockRepo.On("List", mock.Anything, "user-1").Return(tasks, nil)

	svc := service.NewTaskService(mockRepo)

	got, err := svc.ListTasks(context.Background(), "user-1", ranking.Query{SortBy: ranking.SortByPriority})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "high", got[0].Description)
	assert.Equal(t, "low", got[1].Description)
}

// TestTaskService_ListTasks_RepoError тестирует проброс ошибки репозитория
func TestTaskService_ListTasks_RepoError(t *testing.T) {
	mockRepo := new(MockTaskRepository)
	mockRepo.On("List", mock.Anything, "user-1").Return(nil, errors.New("db down"))

	svc := service.NewTaskService(mockRepo)

	_, err := svc.ListTasks(context.Background(), "user-1", ranking.Query{})
	assert.Error(t, err)
}
