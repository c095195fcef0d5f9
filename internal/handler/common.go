package handler // handler implements the HTTP endpoints of the facility service

import (
    "context"
    "errors"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/campusfms/fms-server/internal/model"
    "github.com/campusfms/fms-server/internal/repository"
)

// The lifecycle handlers depend on these narrow store interfaces rather
// than the concrete repositories, so the approval and resolution workflows
// can be exercised in tests with in-memory implementations.  The MySQL
// repositories in internal/repository satisfy them.

// FacilityStore is the persistence surface the facility handlers need.
type FacilityStore interface {
    Create(ctx context.Context, f *model.Facility) error
    GetByID(ctx context.Context, id uint64) (model.Facility, error)
    ListAll(ctx context.Context) ([]model.Facility, error)
}

// BookingStore is the persistence surface the booking handlers need.
// Create enforces the facility-existence and no-overlap preconditions
// atomically; Decide enforces the Pending-only transition rule.
type BookingStore interface {
    Create(ctx context.Context, b *model.Booking) error
    Decide(ctx context.Context, id uint64, status string) (model.Booking, error)
    ListByUser(ctx context.Context, userID uint64) ([]repository.BookingView, error)
    ListAll(ctx context.Context) ([]repository.BookingView, error)
    ListByStatus(ctx context.Context, status string) ([]repository.BookingView, error)
}

// IssueStore is the persistence surface the issue handlers need.
type IssueStore interface {
    Create(ctx context.Context, is *model.Issue) error
    Resolve(ctx context.Context, id uint64, response *string) (model.Issue, error)
    ListByUser(ctx context.Context, userID uint64) ([]repository.IssueView, error)
    ListAll(ctx context.Context) ([]repository.IssueView, error)
    ListByStatus(ctx context.Context, status string) ([]repository.IssueView, error)
}

// getUserID extracts the user_id stored by the JWT middleware and converts
// it to uint64.  JWT numeric claims decode as float64, so several shapes
// are tolerated.
func getUserID(c echo.Context) (uint64, error) {
    switch t := c.Get("user_id").(type) {
    case uint64:
        return t, nil
    case int:
        return uint64(t), nil
    case int64:
        return uint64(t), nil
    case float64:
        return uint64(t), nil
    case string:
        if n, err := strconv.ParseUint(t, 10, 64); err == nil {
            return n, nil
        }
    }
    return 0, errors.New("invalid user_id in context")
}

// getRole extracts the role stored by the JWT middleware.
func getRole(c echo.Context) string {
    if r, ok := c.Get("role").(string); ok {
        return r
    }
    return ""
}

// parseIDParam parses a numeric :id path parameter.
func parseIDParam(c echo.Context) (uint64, bool) {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    return id, err == nil && id != 0
}
