package router // package router defines how HTTP routes are registered for the API

import (
    "github.com/labstack/echo/v4"

    "github.com/campusfms/fms-server/internal/authz"
    "github.com/campusfms/fms-server/internal/handler"
    "github.com/campusfms/fms-server/internal/middleware"
    "github.com/campusfms/fms-server/internal/model"
)

// RegisterRoutes registers routes that require no authentication: the
// health check and the public facility catalog.  The optional cache
// middleware is applied to the catalog listing only; detail lookups are
// cheap single-row reads.
func RegisterRoutes(e *echo.Echo, f *handler.FacilityHandler, cache echo.MiddlewareFunc) {
    e.GET("/healthz", handler.Health)
    if cache != nil {
        e.GET("/v1/facilities", f.List, cache)
    } else {
        e.GET("/v1/facilities", f.List)
    }
    e.GET("/v1/facilities/:id", f.Get)
}

// RegisterAuth registers the authentication endpoints.  Register, login and
// refresh live under /v1/auth and need no session; logout accepts either a
// bearer token or a refresh token, so it is also left outside the JWT
// middleware.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler) {
    g := e.Group("/v1/auth")
    g.POST("/register", a.Register)
    g.POST("/login", a.Login)
    g.POST("/refresh", a.Refresh)
    g.POST("/logout", a.Logout)
    // Alias kept at the top level for clients that call /v1/logout.
    e.POST("/v1/logout", a.Logout)
}

// RegisterAPI registers the protected facility, booking and issue routes.
// Every route passes JWTAuth, then a role gate derived from the
// authorization table, then the handler, which re-checks the same table
// before mutating.  The rate limiter, when configured, wraps the three
// mutating submission endpoints.
func RegisterAPI(e *echo.Echo, jwtSecret string,
    f *handler.FacilityHandler, b *handler.BookingHandler, i *handler.IssueHandler,
    a *handler.AuthHandler, limit echo.MiddlewareFunc) {

    if limit == nil {
        limit = func(next echo.HandlerFunc) echo.HandlerFunc { return next }
    }

    v1 := e.Group("/v1")
    v1.Use(middleware.JWTAuth(jwtSecret))
    v1.Use(middleware.RequireRole(model.RoleAdmin, model.RoleStaff, model.RoleStudent))

    v1.GET("/me", a.Me)

    // Facility catalog mutations (admin only).
    v1.POST("/facilities", f.Create, middleware.RequireOperation(authz.OpCreateFacility), limit)

    // Booking lifecycle.
    v1.POST("/bookings", b.Request, middleware.RequireOperation(authz.OpRequestBooking), limit)
    v1.PUT("/bookings/:id", b.Decide, middleware.RequireOperation(authz.OpDecideBooking))
    v1.GET("/bookings", b.ListAll, middleware.RequireOperation(authz.OpListAllBookings))
    v1.GET("/bookings/pending", b.ListPending, middleware.RequireOperation(authz.OpListAllBookings))
    v1.GET("/bookings/my", b.ListMy, middleware.RequireOperation(authz.OpListOwnBookings))

    // Issue lifecycle.
    v1.POST("/issues", i.Report, middleware.RequireOperation(authz.OpReportIssue), limit)
    v1.PUT("/issues/:id/resolve", i.Resolve, middleware.RequireOperation(authz.OpResolveIssue))
    v1.GET("/issues", i.ListAdmin, middleware.RequireOperation(authz.OpListIssuesByStatus))
    v1.GET("/issues/my", i.ListMy, middleware.RequireOperation(authz.OpListOwnIssues))
}
