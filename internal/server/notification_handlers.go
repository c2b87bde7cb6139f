package server

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"recon-tracker/internal/model"
)

// feedScope resolves which notification feed the caller sees: admins get
// the admin feed, everyone may narrow to one member's assignee feed with
// the member query parameter.
func feedScope(c *fiber.Ctx) (string, *uint, error) {
	if member := c.Query("member"); member != "" {
		id, err := strconv.ParseUint(member, 10, 32)
		if err != nil {
			return "", nil, err
		}
		memberID := uint(id)
		return model.AudienceAssignee, &memberID, nil
	}
	if currentUser(c).IsAdmin() {
		return model.AudienceAdmins, nil, nil
	}
	return model.AudienceAssignee, nil, nil
}

func (s *Server) listNotifications(c *fiber.Ctx) error {
	audience, memberID, err := feedScope(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid member filter"})
	}
	recs, err := s.deps.Notifications.Feed(c.UserContext(), audience, memberID)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(recs)
}

func (s *Server) markNotificationRead(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid notification ID"})
	}
	if err := s.deps.Notifications.MarkRead(c.UserContext(), id); err != nil {
		return s.fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "marked read"})
}

func (s *Server) markAllNotificationsRead(c *fiber.Ctx) error {
	audience, memberID, err := feedScope(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid member filter"})
	}
	n, err := s.deps.Notifications.MarkAllRead(c.UserContext(), audience, memberID)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(fiber.Map{"marked_read": n})
}

func (s *Server) dismissNotification(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid notification ID"})
	}
	if err := s.deps.Notifications.Dismiss(c.UserContext(), id); err != nil {
		return s.fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "dismissed"})
}
