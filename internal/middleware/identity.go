package middleware

// identity.go holds helpers shared by the middleware files.  currentUserID
// renders the authenticated user's id as a string for rate-limit bucket
// keys; unauthenticated requests share the "anon" bucket.

import (
    "fmt"

    "github.com/labstack/echo/v4"
)

// currentUserID returns the context user_id as a string, or "anon" when the
// request carries no identity.  JWT claims decode numbers as float64, so the
// value is normalized through Sprint rather than asserted to one type.
func currentUserID(c echo.Context) string {
    v := c.Get("user_id")
    if v == nil {
        return "anon"
    }
    switch t := v.(type) {
    case string:
        if t != "" {
            return t
        }
        return "anon"
    case float64:
        return fmt.Sprintf("%.0f", t)
    default:
        return fmt.Sprint(t)
    }
}
