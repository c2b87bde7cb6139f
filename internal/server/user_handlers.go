package server

import (
	"github.com/gofiber/fiber/v2"

	"recon-tracker/internal/model"
	"recon-tracker/internal/service"
)

type userResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

func toUserResponse(u model.User) userResponse {
	return userResponse{ID: u.ID, Username: u.Username, Name: u.Name, Role: u.Role}
}

func (s *Server) listUsers(c *fiber.Ctx) error {
	users, err := s.deps.UserService.List(c.UserContext())
	if err != nil {
		return s.fail(c, err)
	}
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	return c.JSON(out)
}

func (s *Server) createUser(c *fiber.Ctx) error {
	var input service.UserInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	user, err := s.deps.UserService.Create(c.UserContext(), input)
	if err != nil {
		return s.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toUserResponse(*user))
}

func (s *Server) updateUser(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid user ID"})
	}
	var input service.UserInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	user, err := s.deps.UserService.Update(c.UserContext(), id, input)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(toUserResponse(*user))
}

func (s *Server) deleteUser(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid user ID"})
	}
	if err := s.deps.UserService.Delete(c.UserContext(), id, currentUser(c).ID); err != nil {
		return s.fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "user deleted"})
}
