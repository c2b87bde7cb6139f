package server

import (
	"github.com/gofiber/fiber/v2"

	"recon-tracker/internal/service"
)

func (s *Server) listMembers(c *fiber.Ctx) error {
	members, err := s.deps.MemberService.List(c.UserContext())
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(members)
}

func (s *Server) createMember(c *fiber.Ctx) error {
	var input service.MemberInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	member, err := s.deps.MemberService.Create(c.UserContext(), input)
	if err != nil {
		return s.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(member)
}

func (s *Server) updateMember(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid member ID"})
	}
	var input service.MemberInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	member, err := s.deps.MemberService.Update(c.UserContext(), id, input)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(member)
}

func (s *Server) deleteMember(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid member ID"})
	}
	if err := s.deps.MemberService.Delete(c.UserContext(), id); err != nil {
		return s.fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "member deleted"})
}
