package server

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"recon-tracker/internal/config"
	"recon-tracker/internal/repository"
	"recon-tracker/internal/service"
)

// Deps bundles everything the HTTP layer calls into.
type Deps struct {
	Users         *repository.UserRepository
	UserService   *service.UserService
	MemberService *service.MemberService
	TaskService   *service.TaskService
	Lifecycle     *service.LifecycleService
	Notifications *service.NotificationService
	Dashboard     *service.DashboardService
	Maintenance   *service.MaintenanceService
}

// Server is the JSON API over the engine. It holds no business rules: every
// decision is delegated to the services.
type Server struct {
	app  *fiber.App
	cfg  config.Config
	log  *zap.SugaredLogger
	deps Deps
}

func New(cfg config.Config, log *zap.SugaredLogger, deps Deps) *Server {
	s := &Server{
		app:  fiber.New(fiber.Config{AppName: "recon-tracker"}),
		cfg:  cfg,
		log:  log,
		deps: deps,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.app.Use(s.requestLogger())

	api := s.app.Group("/api")
	api.Post("/login", s.login)
	api.Post("/logout", s.logout)

	authed := api.Group("", s.requireUser())
	authed.Post("/change-password", s.changePassword)
	authed.Get("/dashboard", s.dashboardStats)
	authed.Post("/maintenance/run", s.runMaintenance)

	authed.Get("/tasks", s.listTasks)
	authed.Get("/tasks/:id", s.getTask)
	authed.Get("/tasks/:id/history", s.taskHistory)
	authed.Post("/tasks/:id/start", s.startTask)
	authed.Post("/tasks/:id/complete", s.completeTask)

	authed.Get("/members", s.listMembers)

	authed.Get("/notifications", s.listNotifications)
	authed.Post("/notifications/read-all", s.markAllNotificationsRead)
	authed.Post("/notifications/:id/read", s.markNotificationRead)

	admin := authed.Group("", s.requireAdmin())
	admin.Post("/tasks", s.createTask)
	admin.Put("/tasks/:id", s.updateTask)
	admin.Delete("/tasks/:id", s.deleteTask)
	admin.Post("/tasks/:id/reset", s.resetTask)

	admin.Post("/members", s.createMember)
	admin.Put("/members/:id", s.updateMember)
	admin.Delete("/members/:id", s.deleteMember)

	admin.Get("/users", s.listUsers)
	admin.Post("/users", s.createUser)
	admin.Put("/users/:id", s.updateUser)
	admin.Delete("/users/:id", s.deleteUser)

	admin.Delete("/notifications/:id", s.dismissNotification)
}

func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// fail maps service errors onto HTTP statuses.
func (s *Server) fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	case errors.Is(err, service.ErrValidation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrPermissionDenied):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrAlreadyCompleted):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	default:
		s.log.Errorw("request failed", "path", c.Path(), "err", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
	}
}

func (s *Server) requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		s.log.Debugw("request", "method", c.Method(), "path", c.Path(), "status", c.Response().StatusCode())
		return err
	}
}
