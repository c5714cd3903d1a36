package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/nkarpov/timebox-api/internal/model"
	"github.com/nkarpov/timebox-api/internal/repo"
	"github.com/nkarpov/timebox-api/internal/timer"
)

// Monitor раз в interval пересчитывает таймеры всех задач и логирует те,
// чье отведенное время только что вышло. Состояние таймеров нигде не
// хранится - каждый тик выводится заново.
type Monitor struct {
	tasks    repo.TaskRepository
	logger   *zap.Logger
	interval time.Duration
	wg       sync.WaitGroup
	stop     chan struct{}

	now func() time.Time

	mu       sync.Mutex
	reported map[string]struct{} // id задач, уже отмеченных как просроченные
}

func NewMonitor(tasks repo.TaskRepository, logger *zap.Logger, interval time.Duration) *Monitor {
	return &Monitor{
		tasks:    tasks,
		logger:   logger,
		interval: interval,
		stop:     make(chan struct{}),
		now:      time.Now,
		reported: make(map[string]struct{}),
	}
}

func (m *Monitor) Start(ctx context.Context) {
	m.logger.Info("Starting expiry monitor", zap.Duration("interval", m.interval))

	m.wg.Add(1)
	go m.run(ctx)
}

func (m *Monitor) Stop() {
	m.logger.Info("Stopping expiry monitor...")
	close(m.stop)
	m.wg.Wait()
	m.logger.Info("Expiry monitor stopped")
}

func (m *Monitor) run(ctx context.Context) {
	defer m.wg.Done()

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := m.scan(ctx); err != nil {
				m.logger.Error("monitor scan failed", zap.Error(err))
			}
		}
	}
}

// scan обходит задачи всех пользователей и возвращает число свежепросроченных
func (m *Monitor) scan(ctx context.Context) (int, error) {
	users, err := m.tasks.Users(ctx)
	if err != nil {
		return 0, err
	}

	expired := 0
	now := m.now()
	for _, userID := range users {
		tasks, err := m.tasks.GetAll(ctx, userID)
		if err != nil {
			return expired, err
		}
		for _, t := range tasks {
			if t.Status == model.StatusCompleted {
				continue
			}
			snap := timer.Calculate(t.AllottedTime, t.CreatedAt, now)
			if !snap.Expired {
				continue
			}
			if m.markReported(t.ID) {
				expired++
				m.logger.Info("Task allotted time expired",
					zap.String("user", userID),
					zap.String("task_id", t.ID),
					zap.String("title", t.Title),
					zap.Float64("progress", snap.Progress),
				)
			}
		}
	}
	return expired, nil
}

// markReported возвращает true только при первой фиксации задачи
func (m *Monitor) markReported(taskID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.reported[taskID]; ok {
		return false
	}
	m.reported[taskID] = struct{}{}
	return true
}
