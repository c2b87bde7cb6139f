package server

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"recon-tracker/internal/model"
	"recon-tracker/internal/service"
)

const authCookie = "jwt"

// requireUser authenticates the request from the JWT cookie and stores the
// account in locals for handlers.
func (s *Server) requireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		cookie := c.Cookies(authCookie)
		if cookie == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "not logged in"})
		}

		token, err := jwt.ParseWithClaims(cookie, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
			return []byte(s.cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid or expired token"})
		}
		claims, ok := token.Claims.(*jwt.RegisteredClaims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid token claims"})
		}
		id, err := strconv.ParseUint(claims.Issuer, 10, 32)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid token claims"})
		}

		user, err := s.deps.Users.FindByID(c.UserContext(), uint(id))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "user not found"})
		}

		c.Locals("user", *user)
		return c.Next()
	}
}

// requireAdmin must run after requireUser.
func (s *Server) requireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := currentUser(c)
		if !user.IsAdmin() {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "admin access required"})
		}
		return c.Next()
	}
}

func currentUser(c *fiber.Ctx) model.User {
	user, _ := c.Locals("user").(model.User)
	return user
}

func actorFrom(user model.User) service.Actor {
	return service.Actor{Name: user.Name, Admin: user.IsAdmin()}
}

func (s *Server) issueToken(userID uint) (string, time.Time, error) {
	expires := time.Now().Add(s.cfg.TokenTTL())
	claims := jwt.RegisteredClaims{
		Issuer:    strconv.FormatUint(uint64(userID), 10),
		ExpiresAt: jwt.NewNumericDate(expires),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
	return token, expires, err
}
