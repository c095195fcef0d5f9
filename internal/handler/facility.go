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

// FacilityHandler serves the facility catalog: a public listing, a public
// detail view and an admin-only create operation.
type FacilityHandler struct {
    Facilities FacilityStore
}

// NewFacilityHandler constructs a FacilityHandler and panics if the store
// is nil, matching how the rest of the handlers treat missing dependencies
// as programmer error.
func NewFacilityHandler(facilities FacilityStore) *FacilityHandler {
    if facilities == nil {
        panic("nil store passed to NewFacilityHandler")
    }
    return &FacilityHandler{Facilities: facilities}
}

// List handles GET /v1/facilities.  The catalog is public: dashboards show
// it before sign-in, so no identity is required.
func (h *FacilityHandler) List(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()
    facilities, err := h.Facilities.ListAll(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not list facilities"})
    }
    return c.JSON(http.StatusOK, facilities)
}

// Get handles GET /v1/facilities/:id.
func (h *FacilityHandler) Get(c echo.Context) error {
    id, ok := parseIDParam(c)
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()
    f, err := h.Facilities.GetByID(ctx, id)
    if err != nil {
        if errors.Is(err, repository.ErrFacilityNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "facility not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load facility"})
    }
    return c.JSON(http.StatusOK, f)
}

// Create handles POST /v1/facilities.  Only admins may create facilities;
// the role is verified against the authorization table before any state
// change so a denied call leaves the catalog untouched.
func (h *FacilityHandler) Create(c echo.Context) error {
    if !authz.Allowed(getRole(c), authz.OpCreateFacility) {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    }
    var body struct {
        Name        string   `json:"name"`
        Type        string   `json:"type"`
        Capacity    int      `json:"capacity"`
        ACStatus    string   `json:"acStatus"`
        Description string   `json:"description"`
        Images      []string `json:"images"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if reason := model.ValidateFacility(body.Name, body.Type, body.Capacity, body.ACStatus); reason != "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": reason})
    }

    f := &model.Facility{
        Name:        strings.TrimSpace(body.Name),
        Type:        body.Type,
        Capacity:    body.Capacity,
        ACStatus:    body.ACStatus,
        Description: strings.TrimSpace(body.Description),
        Images:      model.FilterImages(body.Images),
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()
    if err := h.Facilities.Create(ctx, f); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create facility"})
    }
    return c.JSON(http.StatusCreated, f)
}
