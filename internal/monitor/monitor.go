package monitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"taskMaster/internal/deadline"
	"taskMaster/internal/logger"
	"taskMaster/internal/models/task"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const DefaultInterval = time.Minute

// TaskStore - снимок задач плюс точечная запись флагов оповещений.
// Монитор никогда не создаёт и не удаляет задачи.
type TaskStore interface {
	List(ctx context.Context, ownerID string) ([]*task.Task, error)
	PatchNotified(ctx context.Context, id uuid.UUID, key task.FlagKey) error
}

// Notifier доставляет оповещение. Как именно (звук, пуш, речь) -
// забота реализации, монитор результат доставки не проверяет.
type Notifier interface {
	Notify(title, body, tag string) error
}

// Monitor - движок проверки дедлайнов. На каждом тике классифицирует
// все задачи владельца, решает какие оповещения пора отправить
// и фиксирует отправленные флаги в хранилище.
type Monitor struct {
	store    TaskStore
	notifier Notifier
	clock    Clock
	interval time.Duration

	tickMtx sync.Mutex // тики строго по одному, без наложений

	mtx     sync.Mutex
	ownerID string
	cancel  context.CancelFunc
	done    chan struct{}
}

func New(store TaskStore, notifier Notifier, clock Clock, interval time.Duration) *Monitor {
	if clock == nil {
		clock = SystemClock()
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Monitor{
		store:    store,
		notifier: notifier,
		clock:    clock,
		interval: interval,
	}
}

// Start запускает цикл тиков для указанного владельца.
// Повторный запуск без Stop - ошибка.
func (m *Monitor) Start(ctx context.Context, ownerID string) error {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	if m.cancel != nil {
		return fmt.Errorf("монитор уже запущен")
	}
	if ownerID == "" {
		return fmt.Errorf("монитор без владельца не запускается")
	}

	ctx, cancel := context.WithCancel(ctx)
	m.ownerID = ownerID
	m.cancel = cancel
	m.done = make(chan struct{})

	go m.run(ctx, m.done)

	logger.Info("Monitor: Запуск проверки дедлайнов",
		zap.String("owner_id", ownerID),
		zap.Duration("interval", m.interval))
	return nil
}

// Stop останавливает цикл и дожидается завершения текущего тика.
// После возврата новых вызовов Notifier не будет.
func (m *Monitor) Stop() {
	m.mtx.Lock()
	if m.cancel == nil {
		m.mtx.Unlock()
		return
	}
	cancel := m.cancel
	done := m.done
	m.cancel = nil
	m.ownerID = ""
	m.mtx.Unlock()

	cancel()
	<-done
	logger.Info("Monitor: Проверка дедлайнов остановлена")
}

func (m *Monitor) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.Tick(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// Tick - один проход по задачам. Сериализован: если предыдущий
// проход ещё идёт, следующий ждёт, иначе два прохода могли бы
// увидеть один и тот же флаг в false и отправить оповещение дважды.
func (m *Monitor) Tick(ctx context.Context) {
	m.tickMtx.Lock()
	defer m.tickMtx.Unlock()

	m.mtx.Lock()
	ownerID := m.ownerID
	m.mtx.Unlock()

	if ownerID == "" {
		return
	}
	m.evaluate(ctx, ownerID)
}

// CheckOnce - разовый проход вне цикла, для принудительной проверки.
func (m *Monitor) CheckOnce(ctx context.Context, ownerID string) {
	m.tickMtx.Lock()
	defer m.tickMtx.Unlock()

	if ownerID == "" {
		return
	}
	m.evaluate(ctx, ownerID)
}

func (m *Monitor) evaluate(ctx context.Context, ownerID string) {
	start := time.Now()

	tasks, err := m.store.List(ctx, ownerID)
	if err != nil {
		logger.Warn("Monitor: ошибка получения задач", zap.Error(err))
		return
	}
	if len(tasks) == 0 {
		return
	}

	now := m.clock.Now()
	fired := 0

	for _, t := range tasks {
		// дедлайн перечитывается здесь же: если пользователь
		// отредактировал задачу посреди тика, решение принимается
		// по актуальным полям, а не по закэшированным
		cls := deadline.Classify(t, now)
		if !cls.HasDeadline {
			continue
		}

		for _, key := range deadline.PendingFlags(t.Notified, cls) {
			title, body := alertMessage(key, t)

			// ошибка доставки глотается: попытка была,
			// флаг всё равно фиксируем
			if err := m.notifier.Notify(title, body, t.UUID.String()); err != nil {
				logger.Warn("Monitor: ошибка доставки оповещения",
					zap.String("task_id", t.UUID.String()),
					zap.String("flag", string(key)),
					zap.Error(err))
			}

			// запись по одному флагу: сбой на одной задаче
			// не мешает зафиксировать остальные
			if err := m.store.PatchNotified(ctx, t.UUID, key); err != nil {
				logger.Warn("Monitor: ошибка записи флага, повторим на следующем тике",
					zap.String("task_id", t.UUID.String()),
					zap.String("flag", string(key)),
					zap.Error(err))
				continue
			}
			t.Notified.Set(key)
			fired++
		}
	}

	if fired > 0 {
		logger.Info("Monitor: Завершение проверки дедлайнов",
			zap.Duration("ms", time.Since(start)),
			zap.Int("checked", len(tasks)),
			zap.Int("fired", fired))
	}
}

func alertMessage(key task.FlagKey, t *task.Task) (title, body string) {
	switch key {
	case task.FlagHour:
		return "Task due in 1 hour", fmt.Sprintf("«%s» is due at %s", t.Description, t.DueTime)
	case task.FlagThirtyMin:
		return "Task due in 30 minutes", fmt.Sprintf("«%s» is due at %s", t.Description, t.DueTime)
	case task.FlagOverdue:
		return "Task overdue", fmt.Sprintf("«%s» was due at %s", t.Description, t.DueTime)
	}
	return "Task reminder", t.Description
}
