package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sust-hall/hall-service/internal/domain"
	apperrors "github.com/sust-hall/hall-service/pkg/util/errorutil"
)

// AdminRoles may manage accounts and respond to complaints.
var AdminRoles = []domain.UserRole{domain.UserRoleAdmin, domain.UserRoleProvost}

// FoodManagerRoles may publish meals and menus.
var FoodManagerRoles = []domain.UserRole{domain.UserRoleAdmin, domain.UserRoleProvost, domain.UserRoleCanteenManager}

// RequireRole ensures the principal has one of the allowed roles. With no
// roles given it only requires authentication.
func RequireRole(allowed ...domain.UserRole) fiber.Handler {
	allowedSet := make(map[domain.UserRole]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[principal.User.Role]; !exists {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}
