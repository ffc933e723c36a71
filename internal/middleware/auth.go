package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/docvault/docvault/internal/auth"
	"github.com/docvault/docvault/internal/authz"
	"github.com/docvault/docvault/internal/models"
	"github.com/docvault/docvault/internal/types"
)

// Identity is the authenticated account stored in the request context.
type Identity struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
}

// Principal reduces the identity to the authorization engine's input.
func (i Identity) Principal() authz.Principal {
	return authz.Principal{ID: i.ID, Role: i.Role}
}

// RequireAuth validates the bearer token and resolves the account it names.
// A token whose account has since been deleted is rejected like any other
// invalid token.
func RequireAuth(db *gorm.DB, secret []byte) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenString == "" {
			return &types.CustomError{
				Code:    fiber.StatusUnauthorized,
				Message: "Access denied. No token provided.",
				Type:    "auth.token",
			}
		}

		claims, err := auth.VerifyToken(secret, tokenString)
		if err != nil {
			return &types.CustomError{
				Code:    fiber.StatusUnauthorized,
				Message: "Invalid or expired token",
				Type:    "auth.token",
			}
		}

		identity, err := resolveIdentity(db, claims)
		if err != nil {
			return &types.CustomError{
				Code:    fiber.StatusUnauthorized,
				Message: "Invalid or expired token",
				Type:    "auth.principal",
			}
		}

		c.Locals("identity", identity)
		return c.Next()
	}
}

// RequireAdmin gates administrator-only routes. Must run after RequireAuth.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := c.Locals("identity").(Identity)
		if !ok || identity.Role != models.RoleAdmin {
			return &types.CustomError{
				Code:    fiber.StatusForbidden,
				Message: "Access denied. System Admin only.",
				Type:    "auth.role",
			}
		}
		return c.Next()
	}
}

// IdentityFrom extracts the authenticated identity set by RequireAuth.
func IdentityFrom(c *fiber.Ctx) (Identity, bool) {
	identity, ok := c.Locals("identity").(Identity)
	return identity, ok
}

func resolveIdentity(db *gorm.DB, claims *auth.Claims) (Identity, error) {
	silent := db.Session(&gorm.Session{Logger: db.Logger.LogMode(logger.Silent)})

	if claims.Role == models.RoleAdmin {
		var admin models.Administrator
		if err := silent.Where("id = ?", claims.Subject).First(&admin).Error; err != nil {
			return Identity{}, err
		}
		return Identity{ID: admin.ID, Name: admin.Name, Email: admin.Email, Role: models.RoleAdmin}, nil
	}

	var member models.Member
	if err := silent.Where("id = ?", claims.Subject).First(&member).Error; err != nil {
		return Identity{}, err
	}
	return Identity{ID: member.ID, Name: member.Name, Email: member.Email, Role: models.RoleMember}, nil
}
