package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"recon-tracker/internal/clock"
	"recon-tracker/internal/model"
	"recon-tracker/internal/notify"
	"recon-tracker/internal/recurrence"
	"recon-tracker/internal/repository"
)

// NotificationService raises deduplicated overdue notifications and manages
// the read/dismiss state of the feed.
type NotificationService struct {
	tasks         *repository.TaskRepository
	notifications *repository.NotificationRepository
	members       *repository.MemberRepository
	notifiers     []notify.Notifier
	adminEmails   []string
	clk           clock.Clock
	log           *zap.SugaredLogger
}

func NewNotificationService(
	tasks *repository.TaskRepository,
	notifications *repository.NotificationRepository,
	members *repository.MemberRepository,
	notifiers []notify.Notifier,
	adminEmails []string,
	clk clock.Clock,
	log *zap.SugaredLogger,
) *NotificationService {
	return &NotificationService{
		tasks:         tasks,
		notifications: notifications,
		members:       members,
		notifiers:     notifiers,
		adminEmails:   adminEmails,
		clk:           clk,
		log:           log,
	}
}

// SweepOverdue walks the open tasks that have not been notified this cycle
// and raises at most one unread danger record per task. Per-task failures
// are logged and skipped so one bad row never aborts the sweep. Returns how
// many tasks got a new notification.
func (s *NotificationService) SweepOverdue(ctx context.Context) (int, error) {
	now := s.clk.Now()
	candidates, err := s.tasks.ListOverdueCandidates(ctx)
	if err != nil {
		return 0, fmt.Errorf("list overdue candidates: %w", err)
	}

	raised := 0
	for i := range candidates {
		task := &candidates[i]
		if !recurrence.IsOverdue(task, now) {
			continue
		}
		ok, err := s.maybeRaiseOverdue(ctx, task)
		if err != nil {
			s.log.Errorw("raise overdue notification failed", "task", task.ID, "err", err)
			continue
		}
		if ok {
			raised++
		}
	}
	return raised, nil
}

// maybeRaiseOverdue creates the admin record (conditionally, so concurrent
// sweeps cannot double-raise), the assignee record when the task is
// assigned, flags the task, and hands the records to the deliverers.
// OverdueNotified is set only after record creation succeeded, which keeps
// the sweep retry-safe.
func (s *NotificationService) maybeRaiseOverdue(ctx context.Context, task *model.Task) (bool, error) {
	now := s.clk.Now()
	msg := fmt.Sprintf("Reconciliation %q is overdue (due %s).", task.Name, task.DueDate.Format("2006-01-02"))

	adminRec := &model.NotificationRecord{
		TaskID:    task.ID,
		Severity:  model.SeverityDanger,
		Message:   msg,
		Audience:  model.AudienceAdmins,
		CreatedAt: now,
	}
	inserted, err := s.notifications.RaiseIfAbsent(ctx, adminRec)
	if err != nil {
		return false, err
	}
	if !inserted {
		// An unread danger record already exists for this cycle. If a
		// previous sweep created it but died before flagging the task,
		// repair the flag now so the task stops being rescanned.
		if !task.OverdueNotified {
			if err := s.tasks.MarkOverdueNotified(ctx, task.ID); err != nil {
				return false, err
			}
		}
		return false, nil
	}

	var assigneeRec *model.NotificationRecord
	var assigneeEmail string
	if task.AssignedTo != nil {
		assigneeRec = &model.NotificationRecord{
			TaskID:    task.ID,
			Severity:  model.SeverityDanger,
			Message:   msg,
			Audience:  model.AudienceAssignee,
			MemberID:  task.AssignedTo,
			CreatedAt: now,
		}
		if err := s.notifications.Create(ctx, assigneeRec); err != nil {
			return false, err
		}
		member, err := s.members.FindByID(ctx, *task.AssignedTo)
		if err != nil {
			s.log.Warnw("assignee lookup failed", "task", task.ID, "member", *task.AssignedTo, "err", err)
		} else {
			assigneeEmail = member.Email
		}
	}

	if err := s.tasks.MarkOverdueNotified(ctx, task.ID); err != nil {
		return false, err
	}

	s.deliver(ctx, adminRec, task, s.adminEmails)
	if assigneeRec != nil && assigneeEmail != "" {
		s.deliver(ctx, assigneeRec, task, []string{assigneeEmail})
	}
	return true, nil
}

// deliver attempts every configured channel. Failures are logged and left
// for a later retry; they never undo the record.
func (s *NotificationService) deliver(ctx context.Context, rec *model.NotificationRecord, task *model.Task, addresses []string) {
	for _, n := range s.notifiers {
		if err := n.Deliver(ctx, rec, task, addresses); err != nil {
			s.log.Warnw("notification delivery failed", "task", task.ID, "notification", rec.ID, "err", err)
		}
	}
}

// Feed lists the notification records one audience can see.
func (s *NotificationService) Feed(ctx context.Context, audience string, memberID *uint) ([]model.NotificationRecord, error) {
	return s.notifications.ListFeed(ctx, audience, memberID)
}

// MarkRead flips a single record to read. No side effect on the task.
func (s *NotificationService) MarkRead(ctx context.Context, id uint) error {
	return s.notifications.MarkRead(ctx, id)
}

// MarkAllRead flips every unread record in the audience feed.
func (s *NotificationService) MarkAllRead(ctx context.Context, audience string, memberID *uint) (int64, error) {
	return s.notifications.MarkAllRead(ctx, audience, memberID)
}

// Dismiss permanently removes a record.
func (s *NotificationService) Dismiss(ctx context.Context, id uint) error {
	return s.notifications.Dismiss(ctx, id)
}
