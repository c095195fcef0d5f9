package handler

import (
    "context"
    "errors"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/campusfms/fms-server/internal/authz"
    "github.com/campusfms/fms-server/internal/model"
    "github.com/campusfms/fms-server/internal/repository"
)

// IssueHandler serves the maintenance issue lifecycle: staff and students
// report problems against a facility, admins resolve them with an optional
// response message.
type IssueHandler struct {
    Issues IssueStore
}

// NewIssueHandler constructs an IssueHandler with its store.
func NewIssueHandler(issues IssueStore) *IssueHandler {
    if issues == nil {
        panic("nil store passed to NewIssueHandler")
    }
    return &IssueHandler{Issues: issues}
}

// Report handles POST /v1/issues.  The body carries a facility id and a
// problem description; an empty description is rejected before the store
// is touched.
func (h *IssueHandler) Report(c echo.Context) error {
    if !authz.Allowed(getRole(c), authz.OpReportIssue) {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    }
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var body struct {
        FacilityID  uint64 `json:"facilityId"`
        Description string `json:"description"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if body.FacilityID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "facilityId is required"})
    }
    description := strings.TrimSpace(body.Description)
    if description == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "description is required"})
    }

    is := &model.Issue{
        FacilityID:  body.FacilityID,
        UserID:      userID,
        Description: description,
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()
    if err := h.Issues.Create(ctx, is); err != nil {
        if errors.Is(err, repository.ErrFacilityNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "facility not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create issue"})
    }
    return c.JSON(http.StatusCreated, is)
}

// Resolve handles PUT /v1/issues/:id/resolve.  The optional body carries a
// response string attached to the issue; resolving a second time fails
// with 409 since Resolved is terminal.
func (h *IssueHandler) Resolve(c echo.Context) error {
    if !authz.Allowed(getRole(c), authz.OpResolveIssue) {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    }
    id, ok := parseIDParam(c)
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    // Body is optional; a bare resolve with no response is valid.
    var body struct {
        Response string `json:"response"`
    }
    _ = c.Bind(&body)
    var response *string
    if r := strings.TrimSpace(body.Response); r != "" {
        response = &r
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()
    is, err := h.Issues.Resolve(ctx, id, response)
    if err != nil {
        switch {
        case errors.Is(err, repository.ErrIssueNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "issue not found"})
        case errors.Is(err, repository.ErrInvalidState):
            return c.JSON(http.StatusConflict, echo.Map{"error": "issue has already been resolved"})
        default:
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update issue"})
        }
    }
    return c.JSON(http.StatusOK, is)
}

// ListMy handles GET /v1/issues/my, scoped to the caller's own reports.
func (h *IssueHandler) ListMy(c echo.Context) error {
    if !authz.Allowed(getRole(c), authz.OpListOwnIssues) {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    }
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()
    views, err := h.Issues.ListByUser(ctx, userID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not list issues"})
    }
    return c.JSON(http.StatusOK, views)
}

// ListAdmin handles GET /v1/issues.  Without a query parameter it returns
// every issue; ?status=Reported or ?status=Resolved narrows the listing,
// matching the filter toggle on the admin dashboard.
func (h *IssueHandler) ListAdmin(c echo.Context) error {
    if !authz.Allowed(getRole(c), authz.OpListIssuesByStatus) {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    status := strings.TrimSpace(c.QueryParam("status"))
    if status == "" {
        views, err := h.Issues.ListAll(ctx)
        if err != nil {
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not list issues"})
        }
        return c.JSON(http.StatusOK, views)
    }
    if !model.ValidIssueStatus(status) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be Reported or Resolved"})
    }
    views, err := h.Issues.ListByStatus(ctx, status)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not list issues"})
    }
    return c.JSON(http.StatusOK, views)
}
