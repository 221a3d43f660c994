package middleware

import (
	"strings"

	"shopserve/internal/config"
	"shopserve/internal/core/domain"
	"shopserve/internal/pkg/jwt"
	"shopserve/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// Locals keys set by AuthMiddleware
const (
	LocalUserID   = "userID"
	LocalUsername = "username"
	LocalRole     = "role"
)

// AuthMiddleware creates authentication middleware
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accessToken := extractToken(c)
		if accessToken == "" {
			return response.Unauthorized(c, "Access token required")
		}

		claims, err := jwt.ValidateAccessToken(accessToken, cfg.JWT.Secret)
		if err != nil {
			if err == jwt.ErrTokenExpired {
				return response.Unauthorized(c, "Access token expired")
			}
			return response.Unauthorized(c, "Invalid access token")
		}

		role, err := domain.ParseRole(claims.Role)
		if err != nil {
			return response.Unauthorized(c, "Invalid role claim")
		}

		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalUsername, claims.Username)
		c.Locals(LocalRole, role)

		return c.Next()
	}
}

// extractToken looks in the cookie, then the Authorization header. The token
// query parameter is honoured only on /ws/ upgrades, where browsers cannot set headers.
func extractToken(c *fiber.Ctx) string {
	if token := c.Cookies("access_token"); token != "" {
		return token
	}
	if authHeader := c.Get("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	if strings.HasPrefix(c.Path(), "/ws/") && websocket.IsWebSocketUpgrade(c) {
		return c.Query("token")
	}
	return ""
}

// ActorFromCtx builds the acting staff member from an authenticated request
func ActorFromCtx(c *fiber.Ctx) (domain.Actor, bool) {
	userID, ok := c.Locals(LocalUserID).(uint)
	if !ok {
		return domain.Actor{}, false
	}
	role, ok := c.Locals(LocalRole).(domain.Role)
	if !ok {
		return domain.Actor{}, false
	}
	return domain.NewActor(userID, role), true
}

// RoleMiddleware creates role-based authorization middleware
func RoleMiddleware(allowedRoles ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals(LocalRole).(domain.Role)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}

		for _, allowedRole := range allowedRoles {
			if role == allowedRole {
				return c.Next()
			}
		}

		return response.Forbidden(c, "You don't have permission to access this resource")
	}
}

// AdminOnly allows SUPER_ADMIN and ADMIN
func AdminOnly() fiber.Handler {
	return RoleMiddleware(domain.RoleSuperAdmin, domain.RoleAdmin)
}

// CashierOrAdmin allows the roles that may record settlements
func CashierOrAdmin() fiber.Handler {
	return RoleMiddleware(domain.RoleSuperAdmin, domain.RoleAdmin, domain.RoleCashier)
}
