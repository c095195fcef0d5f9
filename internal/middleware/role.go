package middleware // middleware provides shared request processing for handlers

import (
    "net/http" // standard HTTP status codes

    "github.com/labstack/echo/v4" // echo provides middleware chaining and context

    "github.com/campusfms/fms-server/internal/authz" // authz holds the role matrix
)

// RequireRole returns a middleware enforcing that the authenticated user
// holds one of the given roles.  It assumes JWTAuth already stored the
// role in context.  Requests with a missing or disallowed role are
// rejected with 403 before the handler runs, so denied calls can have no
// side effects.
func RequireRole(roles ...string) echo.MiddlewareFunc {
    // Allowed-role set for constant-time lookups.
    allowed := make(map[string]bool, len(roles))
    for _, r := range roles {
        allowed[r] = true
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            role, ok := c.Get("role").(string)
            if !ok || !allowed[role] {
                return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
            }
            return next(c)
        }
    }
}

// RequireOperation gates a route with the authorization table: only roles
// the table permits for op may pass.  Routes use this rather than listing
// roles inline so the policy lives in exactly one place.
func RequireOperation(op authz.Operation) echo.MiddlewareFunc {
    return RequireRole(authz.RolesFor(op)...)
}
