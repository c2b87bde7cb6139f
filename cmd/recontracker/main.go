package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"recon-tracker/internal/clock"
	"recon-tracker/internal/config"
	"recon-tracker/internal/notify"
	"recon-tracker/internal/repository"
	"recon-tracker/internal/server"
	"recon-tracker/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := config.NewLogger(cfg.Environment)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	db, err := repository.NewDB(cfg.DatabasePath)
	if err != nil {
		logger.Fatalw("open database", "err", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	if created, err := repository.BootstrapAdmin(db, cfg.AdminUsername, cfg.AdminPassword, cfg.AdminName); err != nil {
		logger.Fatalw("bootstrap admin", "err", err)
	} else if created {
		logger.Infow("default admin account created, change its password after first login",
			"username", cfg.AdminUsername)
	}

	userRepo := repository.NewUserRepository(db)
	memberRepo := repository.NewMemberRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	historyRepo := repository.NewHistoryRepository(db)

	clk := clock.System()

	var notifiers []notify.Notifier
	if cfg.SMTP.Host != "" {
		notifiers = append(notifiers, notify.NewMailer(cfg.SMTP))
	}
	if cfg.Telegram.Token != "" {
		tg, err := notify.NewTelegram(cfg.Telegram.Token, cfg.Telegram.ChatID)
		if err != nil {
			logger.Warnw("telegram deliverer disabled", "err", err)
		} else {
			notifiers = append(notifiers, tg)
		}
	}

	lifecycleSvc := service.NewLifecycleService(taskRepo, historyRepo, clk, logger)
	notificationSvc := service.NewNotificationService(taskRepo, notificationRepo, memberRepo, notifiers, cfg.AdminEmails, clk, logger)
	maintenanceSvc := service.NewMaintenanceService(lifecycleSvc, notificationSvc, clk, logger)

	srv := server.New(cfg, logger, server.Deps{
		Users:         userRepo,
		UserService:   service.NewUserService(userRepo),
		MemberService: service.NewMemberService(memberRepo, taskRepo),
		TaskService:   service.NewTaskService(taskRepo, clk, logger),
		Lifecycle:     lifecycleSvc,
		Notifications: notificationSvc,
		Dashboard:     service.NewDashboardService(taskRepo, memberRepo, historyRepo, clk),
		Maintenance:   maintenanceSvc,
	})

	scheduler := service.NewSchedulerService(clock.Location)
	if _, err := scheduler.ScheduleInterval(cfg.MaintenanceInterval(), func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if _, err := maintenanceSvc.Run(jobCtx); err != nil {
			logger.Errorw("scheduled maintenance", "err", err)
		}
	}); err != nil {
		logger.Fatalw("schedule maintenance", "err", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	go func() {
		if err := srv.Listen(cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorw("http server stopped", "err", err)
			stop()
		}
	}()

	logger.Infow("recon-tracker started", "addr", cfg.HTTPAddr)
	<-ctx.Done()

	if err := srv.Shutdown(); err != nil {
		logger.Errorw("shutdown", "err", err)
	}
	logger.Info("shutdown complete")
}
