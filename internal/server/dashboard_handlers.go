package server

import "github.com/gofiber/fiber/v2"

func (s *Server) dashboardStats(c *fiber.Ctx) error {
	stats, err := s.deps.Dashboard.Stats(c.UserContext())
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(stats)
}

// runMaintenance is the on-demand trigger surface: one idempotent call runs
// the auto-reset and notification sweeps and reports their counts.
func (s *Server) runMaintenance(c *fiber.Ctx) error {
	result, err := s.deps.Maintenance.Run(c.UserContext())
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(result)
}
