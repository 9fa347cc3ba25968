package sync

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"parliament-sync-service/internal/config"
	"parliament-sync-service/internal/logger"
	"parliament-sync-service/internal/store"
)

var ErrSyncRunning = errors.New("a sync is already running")

// Manager drives sync runs. One run at a time; exclusion is checked
// against the sync_logs table before starting.
type Manager struct {
	cfg        *config.Config
	store      store.Store
	upstream   Upstream
	reconciler *Reconciler
	mu         sync.Mutex
	task       *Task
}

func NewManager(cfg *config.Config, st store.Store, upstream Upstream) *Manager {
	return &Manager{
		cfg:        cfg,
		store:      st,
		upstream:   upstream,
		reconciler: NewReconciler(st, upstream),
	}
}

// Start launches a sync run in the background and returns its handle
// immediately. ErrSyncRunning is returned when a run is in flight.
func (m *Manager) Start(ctx context.Context, syncType Type) (*Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Check-then-act: the mutex serializes triggers within this
	// process, but the window between this read and the insert below
	// is open across processes. Known limitation.
	running, err := m.store.GetRunningSyncLog(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check running sync: %w", err)
	}
	if running != nil {
		return nil, ErrSyncRunning
	}

	log := &store.SyncLog{
		ID:        uuid.New().String(),
		SyncType:  string(syncType),
		Status:    StatusRunning,
		StartedAt: time.Now().UTC(),
	}
	if err := m.store.CreateSyncLog(ctx, log); err != nil {
		return nil, fmt.Errorf("failed to create sync log: %w", err)
	}

	task := &Task{
		LogID:     log.ID,
		Type:      syncType,
		StartedAt: log.StartedAt,
		done:      make(chan struct{}),
	}
	m.task = task

	logger.Log.Info("Starting sync run",
		zap.String("syncLogId", task.LogID),
		zap.String("type", string(syncType)),
	)

	go func() {
		defer close(task.done)
		if err := m.run(context.Background(), task); err != nil {
			logger.Log.Error("Sync run failed",
				zap.String("syncLogId", task.LogID),
				zap.Error(err),
			)
		}
	}()

	return task, nil
}

// Status reports the last terminal runs, whether a run is in flight,
// and aggregate row counts.
func (m *Manager) Status(ctx context.Context) (*StatusReport, error) {
	report := &StatusReport{}

	running, err := m.store.GetRunningSyncLog(ctx)
	if err != nil {
		return nil, err
	}
	report.Running = running != nil

	if last, err := m.store.GetLastCompleted(ctx, string(TypeFull)); err != nil {
		return nil, err
	} else if last != nil && last.CompletedAt.Valid {
		t := last.CompletedAt.Time
		report.LastFullSync = &t
	}

	if last, err := m.store.GetLastCompleted(ctx, string(TypeIncremental)); err != nil {
		return nil, err
	} else if last != nil && last.CompletedAt.Valid {
		t := last.CompletedAt.Time
		report.LastIncrementalSync = &t
	}

	if report.BillCount, err = m.store.CountBills(ctx); err != nil {
		return nil, err
	}
	if report.AmendmentCount, err = m.store.CountAmendments(ctx); err != nil {
		return nil, err
	}
	if report.MemberCount, err = m.store.CountMembers(ctx); err != nil {
		return nil, err
	}

	return report, nil
}
