package handler

import (
    "context"
    "errors"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/campusfms/fms-server/internal/authz"
    "github.com/campusfms/fms-server/internal/model"
    "github.com/campusfms/fms-server/internal/queue"
    "github.com/campusfms/fms-server/internal/repository"
    queue_publisher "github.com/campusfms/fms-server/internal/service"
)

// BookingHandler serves the booking lifecycle: staff and students request
// facility windows, admins approve or decline them.  Every method assumes
// JWT authentication ran first; role checks against the authorization
// table happen here, before any state change.
type BookingHandler struct {
    Bookings   BookingStore
    Facilities FacilityStore
    AMQPURL    string // broker for decision events; empty uses the default
}

// NewBookingHandler constructs a BookingHandler with its stores.
func NewBookingHandler(bookings BookingStore, facilities FacilityStore, amqpURL string) *BookingHandler {
    if bookings == nil || facilities == nil {
        panic("nil store passed to NewBookingHandler")
    }
    return &BookingHandler{Bookings: bookings, Facilities: facilities, AMQPURL: amqpURL}
}

// Request handles POST /v1/bookings.  The body carries the facility id, a
// calendar date and the "HH:MM - HH:MM" slot string the booking form
// produces.  The slot is parsed and validated here on ingress; the store
// then enforces facility existence and the no-overlap invariant inside one
// transaction, so a 201 means the window was actually free.
func (h *BookingHandler) Request(c echo.Context) error {
    if !authz.Allowed(getRole(c), authz.OpRequestBooking) {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    }
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var body struct {
        FacilityID uint64 `json:"facilityId"`
        Date       string `json:"date"`
        TimeSlot   string `json:"timeSlot"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if body.FacilityID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "facilityId is required"})
    }
    if _, err := time.Parse("2006-01-02", body.Date); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
    }
    slot, err := model.ParseTimeSlot(body.TimeSlot)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    }

    b := &model.Booking{
        FacilityID: body.FacilityID,
        UserID:     userID,
        Date:       body.Date,
        Slot:       slot,
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()
    if err := h.Bookings.Create(ctx, b); err != nil {
        switch {
        case errors.Is(err, repository.ErrFacilityNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "facility not found"})
        case errors.Is(err, repository.ErrBookingConflict):
            return c.JSON(http.StatusConflict, echo.Map{"error": "facility is already booked for this time slot"})
        default:
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create booking"})
        }
    }
    return c.JSON(http.StatusCreated, b)
}

// Decide handles PUT /v1/bookings/:id.  The body names the terminal status
// to assign, Approved or Declined.  Only Pending bookings accept a
// decision; the store rejects anything else so a decision can never be
// reversed.  Approving a booking deliberately leaves overlapping Pending
// requests alone for the admin to judge.  After the transition commits a
// decision event is published for the audit log, best effort.
func (h *BookingHandler) Decide(c echo.Context) error {
    if !authz.Allowed(getRole(c), authz.OpDecideBooking) {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    }
    adminID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, ok := parseIDParam(c)
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var body struct {
        Status string `json:"status"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if !model.ValidBookingDecision(body.Status) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be Approved or Declined"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()
    b, err := h.Bookings.Decide(ctx, id, body.Status)
    if err != nil {
        switch {
        case errors.Is(err, repository.ErrBookingNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
        case errors.Is(err, repository.ErrInvalidState):
            return c.JSON(http.StatusConflict, echo.Map{"error": "booking has already been decided"})
        default:
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update booking"})
        }
    }

    go h.publishDecision(b, adminID)

    return c.JSON(http.StatusOK, b)
}

// publishDecision emits the audit event for a committed decision.  It runs
// outside the request so a slow or absent broker never delays the admin.
func (h *BookingHandler) publishDecision(b model.Booking, adminID uint64) {
    facilityName := ""
    ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
    defer cancel()
    if f, err := h.Facilities.GetByID(ctx, b.FacilityID); err == nil {
        facilityName = f.Name
    }
    _ = queue_publisher.PublishBookingDecided(ctx, h.AMQPURL, queue.BookingDecidedEvent{
        BookingID:    b.ID,
        FacilityID:   b.FacilityID,
        FacilityName: facilityName,
        UserID:       b.UserID,
        AdminID:      adminID,
        Date:         b.Date,
        TimeSlot:     b.Slot.String(),
        Status:       b.Status,
        DecidedAt:    time.Now().UTC().Format(time.RFC3339),
    })
}

// ListMy handles GET /v1/bookings/my.  The listing is scoped to the
// caller's own id taken from the token; there is no way to pass another
// user's id.
func (h *BookingHandler) ListMy(c echo.Context) error {
    if !authz.Allowed(getRole(c), authz.OpListOwnBookings) {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    }
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()
    views, err := h.Bookings.ListByUser(ctx, userID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not list bookings"})
    }
    return c.JSON(http.StatusOK, views)
}

// ListAll handles GET /v1/bookings, the admin report table.
func (h *BookingHandler) ListAll(c echo.Context) error {
    if !authz.Allowed(getRole(c), authz.OpListAllBookings) {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()
    views, err := h.Bookings.ListAll(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not list bookings"})
    }
    return c.JSON(http.StatusOK, views)
}

// ListPending handles GET /v1/bookings/pending, the admin approval queue.
func (h *BookingHandler) ListPending(c echo.Context) error {
    if !authz.Allowed(getRole(c), authz.OpListAllBookings) {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()
    views, err := h.Bookings.ListByStatus(ctx, model.BookingStatusPending)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not list bookings"})
    }
    return c.JSON(http.StatusOK, views)
}
