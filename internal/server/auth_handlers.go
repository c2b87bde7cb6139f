package server

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	user, err := s.deps.Users.FindByUsername(c.UserContext(), req.Username)
	if err != nil || !user.CheckPassword(req.Password) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid username or password"})
	}

	token, expires, err := s.issueToken(user.ID)
	if err != nil {
		return s.fail(c, err)
	}
	c.Cookie(&fiber.Cookie{
		Name:     authCookie,
		Value:    token,
		Expires:  expires,
		HTTPOnly: true,
	})
	return c.JSON(fiber.Map{
		"id":       user.ID,
		"username": user.Username,
		"name":     user.Name,
		"role":     user.Role,
	})
}

func (s *Server) logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     authCookie,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
	})
	return c.JSON(fiber.Map{"message": "logged out"})
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

func (s *Server) changePassword(c *fiber.Ctx) error {
	var req changePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	user := currentUser(c)
	if err := s.deps.UserService.ChangePassword(c.UserContext(), user.ID, req.OldPassword, req.NewPassword); err != nil {
		return s.fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "password changed"})
}
