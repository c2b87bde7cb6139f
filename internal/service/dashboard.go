package service

import (
	"context"

	"recon-tracker/internal/clock"
	"recon-tracker/internal/model"
	"recon-tracker/internal/recurrence"
	"recon-tracker/internal/repository"
)

// MemberWorkload is one member's count of Pending / In Progress tasks.
type MemberWorkload struct {
	Member      model.TeamMember `json:"member"`
	ActiveTasks int64            `json:"active_tasks"`
}

// DashboardStats is the aggregate view the landing page renders.
type DashboardStats struct {
	TotalMembers    int64                          `json:"total_members"`
	TotalTasks      int64                          `json:"total_tasks"`
	ByFrequency     map[string]int64               `json:"by_frequency"`
	ByStatus        map[string]int64               `json:"by_status"`
	DueToday        []model.Task                   `json:"due_today"`
	Overdue         []model.Task                   `json:"overdue"`
	Workload        []MemberWorkload               `json:"workload"`
	RecentCompleted []model.CompletionHistoryEntry `json:"recent_completed"`
}

// DashboardService aggregates counts and the due-today/overdue partition.
type DashboardService struct {
	tasks   *repository.TaskRepository
	members *repository.MemberRepository
	history *repository.HistoryRepository
	clk     clock.Clock
}

func NewDashboardService(tasks *repository.TaskRepository, members *repository.MemberRepository, history *repository.HistoryRepository, clk clock.Clock) *DashboardService {
	return &DashboardService{tasks: tasks, members: members, history: history, clk: clk}
}

func (s *DashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{
		ByFrequency: make(map[string]int64),
		ByStatus:    make(map[string]int64),
	}

	var err error
	if stats.TotalMembers, err = s.members.Count(ctx); err != nil {
		return nil, err
	}
	if stats.TotalTasks, err = s.tasks.Count(ctx); err != nil {
		return nil, err
	}
	for _, f := range []string{model.FrequencyDaily, model.FrequencyWeekly, model.FrequencyMonthly} {
		if stats.ByFrequency[f], err = s.tasks.CountByFrequency(ctx, f); err != nil {
			return nil, err
		}
	}
	for _, st := range []string{model.StatusPending, model.StatusInProgress, model.StatusCompleted, model.StatusOnHold} {
		if stats.ByStatus[st], err = s.tasks.CountByStatus(ctx, st); err != nil {
			return nil, err
		}
	}

	// Partition open tasks due by today via the evaluator, so the dashboard
	// agrees with the notification sweep to the minute.
	now := s.clk.Now()
	open, err := s.tasks.ListOpenDueOnOrBefore(ctx, clock.Today(now))
	if err != nil {
		return nil, err
	}
	for i := range open {
		task := open[i]
		switch {
		case recurrence.IsOverdue(&task, now):
			stats.Overdue = append(stats.Overdue, task)
		case recurrence.IsDueTodayNotOverdue(&task, now):
			stats.DueToday = append(stats.DueToday, task)
		}
	}

	members, err := s.members.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, member := range members {
		active, err := s.tasks.ActiveCountForMember(ctx, member.ID)
		if err != nil {
			return nil, err
		}
		stats.Workload = append(stats.Workload, MemberWorkload{Member: member, ActiveTasks: active})
	}

	if stats.RecentCompleted, err = s.history.Recent(ctx, 5); err != nil {
		return nil, err
	}
	return stats, nil
}
