package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Sanjey2005/friends-associates/internal/utils"
)

// Session cookie names.
const (
	UserCookie  = "token"
	AdminCookie = "admin_token"
)

const actorContextKey = "currentActor"

// Actor is the authenticated caller of a request.
type Actor struct {
	Role  utils.Role
	ID    uuid.UUID
	Email string
}

// IsAdmin reports whether the actor holds an admin session.
func (a Actor) IsAdmin() bool {
	return a.Role == utils.RoleAdmin
}

// ErrUnauthorized is returned for every authentication and authorization
// failure.
var ErrUnauthorized = fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")

// CookieName returns the cookie carrying sessions of role.
func CookieName(role utils.Role) string {
	if role == utils.RoleAdmin {
		return AdminCookie
	}
	return UserCookie
}

// Authenticate resolves the session of role from its cookie. A missing
// cookie and an invalid token both yield ErrUnauthorized. The cookie of the
// other role is never consulted.
func Authenticate(c *fiber.Ctx, tokens *utils.TokenService, role utils.Role) (Actor, error) {
	claims, ok := tokens.Verify(role, c.Cookies(CookieName(role)))
	if !ok {
		return Actor{}, ErrUnauthorized
	}

	id, err := claims.SubjectID()
	if err != nil {
		return Actor{}, ErrUnauthorized
	}

	actor := Actor{Role: role, ID: id, Email: claims.Email}
	c.Locals(actorContextKey, actor)
	return actor, nil
}

// RequireRole rejects requests without a valid session of role.
func RequireRole(tokens *utils.TokenService, role utils.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := Authenticate(c, tokens, role); err != nil {
			return err
		}
		return c.Next()
	}
}

// RequireAdmin rejects requests without a valid admin session.
func RequireAdmin(tokens *utils.TokenService) fiber.Handler {
	return RequireRole(tokens, utils.RoleAdmin)
}

// RequireUser rejects requests without a valid user session.
func RequireUser(tokens *utils.TokenService) fiber.Handler {
	return RequireRole(tokens, utils.RoleUser)
}

// ScopedRole picks the acting role of role-dependent GET routes:
// scope=admin means admin, anything else means user.
func ScopedRole(c *fiber.Ctx) utils.Role {
	if c.Query("scope") == string(utils.RoleAdmin) {
		return utils.RoleAdmin
	}
	return utils.RoleUser
}

// RequireScoped authenticates with the role chosen by ScopedRole.
func RequireScoped(tokens *utils.TokenService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := Authenticate(c, tokens, ScopedRole(c)); err != nil {
			return err
		}
		return c.Next()
	}
}

// GetActor extracts the authenticated caller from context.
func GetActor(c *fiber.Ctx) (Actor, bool) {
	actor, ok := c.Locals(actorContextKey).(Actor)
	return actor, ok
}

// SetSession writes the session cookie of role.
func SetSession(c *fiber.Ctx, role utils.Role, token string, ttl time.Duration) {
	sameSite := fiber.CookieSameSiteLaxMode
	if role == utils.RoleAdmin {
		sameSite = fiber.CookieSameSiteNoneMode
	}

	c.Cookie(&fiber.Cookie{
		Name:     CookieName(role),
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		Expires:  time.Now().Add(ttl),
		Secure:   true,
		HTTPOnly: true,
		SameSite: sameSite,
	})
}

// ClearSession expires the session cookie of role.
func ClearSession(c *fiber.Ctx, role utils.Role) {
	c.Cookie(&fiber.Cookie{
		Name:     CookieName(role),
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		Secure:   true,
		HTTPOnly: true,
	})
}
