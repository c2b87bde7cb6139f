package service

import (
	"context"

	"go.uber.org/zap"

	"recon-tracker/internal/clock"
)

// MaintenanceResult reports what one maintenance run did.
type MaintenanceResult struct {
	TasksReset          int `json:"tasks_reset"`
	NotificationsRaised int `json:"notifications_raised"`
}

// MaintenanceService is the single trigger surface the outer layers
// schedule: one call runs the auto-reset sweep followed by the overdue
// notification sweep, synchronously and to completion.
type MaintenanceService struct {
	lifecycle     *LifecycleService
	notifications *NotificationService
	clk           clock.Clock
	log           *zap.SugaredLogger
}

func NewMaintenanceService(lifecycle *LifecycleService, notifications *NotificationService, clk clock.Clock, log *zap.SugaredLogger) *MaintenanceService {
	return &MaintenanceService{lifecycle: lifecycle, notifications: notifications, clk: clk, log: log}
}

// Run executes both sweeps. Idempotent: the sweeps' conditional updates make
// repeated or concurrent runs converge on the same state.
func (s *MaintenanceService) Run(ctx context.Context) (MaintenanceResult, error) {
	var result MaintenanceResult

	resets, err := s.lifecycle.AutoResetSweep(ctx, s.clk.Now())
	if err != nil {
		return result, err
	}
	result.TasksReset = resets

	raised, err := s.notifications.SweepOverdue(ctx)
	if err != nil {
		return result, err
	}
	result.NotificationsRaised = raised

	if resets > 0 || raised > 0 {
		s.log.Infow("maintenance run", "tasks_reset", resets, "notifications_raised", raised)
	}
	return result, nil
}
