package server

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"recon-tracker/internal/repository"
	"recon-tracker/internal/service"
)

func idParam(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	return uint(id), err
}

func (s *Server) listTasks(c *fiber.Ctx) error {
	filter := repository.TaskFilter{
		Status:    c.Query("status"),
		Frequency: c.Query("frequency"),
		Priority:  c.Query("priority"),
	}
	if member := c.Query("member"); member != "" {
		id, err := strconv.ParseUint(member, 10, 32)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid member filter"})
		}
		memberID := uint(id)
		filter.MemberID = &memberID
	}

	tasks, err := s.deps.TaskService.List(c.UserContext(), filter)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(tasks)
}

func (s *Server) getTask(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid task ID"})
	}
	task, err := s.deps.TaskService.Get(c.UserContext(), id)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(task)
}

func (s *Server) createTask(c *fiber.Ctx) error {
	var input service.TaskInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	task, err := s.deps.TaskService.Create(c.UserContext(), input)
	if err != nil {
		return s.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(task)
}

func (s *Server) updateTask(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid task ID"})
	}
	var input service.TaskInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	task, err := s.deps.TaskService.Update(c.UserContext(), id, input)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(task)
}

func (s *Server) deleteTask(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid task ID"})
	}
	if err := s.deps.TaskService.Delete(c.UserContext(), id); err != nil {
		return s.fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "task deleted"})
}

func (s *Server) startTask(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid task ID"})
	}
	task, err := s.deps.Lifecycle.Start(c.UserContext(), id)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(task)
}

type completeRequest struct {
	ItemsReconciled int    `json:"items_reconciled"`
	ExceptionsFound int    `json:"exceptions_found"`
	Notes           string `json:"notes"`
}

func (s *Server) completeTask(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid task ID"})
	}
	var req completeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	input := service.CompletionInput{
		ItemsReconciled: req.ItemsReconciled,
		ExceptionsFound: req.ExceptionsFound,
		Notes:           req.Notes,
	}
	task, err := s.deps.Lifecycle.Complete(c.UserContext(), id, input, actorFrom(currentUser(c)))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(task)
}

func (s *Server) resetTask(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid task ID"})
	}
	task, err := s.deps.Lifecycle.ManualReset(c.UserContext(), id, actorFrom(currentUser(c)))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(task)
}

func (s *Server) taskHistory(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid task ID"})
	}
	entries, err := s.deps.Lifecycle.History(c.UserContext(), id)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(entries)
}
