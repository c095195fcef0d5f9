package model

import (
    "encoding/json"
    "errors"
    "fmt"
    "strings"
    "time"
)

// Booking status values.  Pending is the only non-terminal state; Approved
// and Declined are terminal and absorb all further transition attempts.
const (
    BookingStatusPending  = "Pending"
    BookingStatusApproved = "Approved"
    BookingStatusDeclined = "Declined"
)

// Booking records a reservation request for a facility over a time slot on
// a single day.  The facility, requester, date and slot are immutable after
// creation; only Status may change, and only through DecideBooking.  This
// struct corresponds to a row in the `bookings` table.
//
// Fields:
//  ID         – primary key identifier.
//  FacilityID – facility being reserved.
//  UserID     – user who requested the booking.
//  Date       – calendar day of the reservation (YYYY-MM-DD).
//  Slot       – start/end interval on that day.
//  Status     – Pending, Approved or Declined.
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – timestamp of last update (status decision).
type Booking struct {
    ID         uint64    `json:"id"`         // bookings.id
    FacilityID uint64    `json:"facilityId"` // bookings.facility_id
    UserID     uint64    `json:"userId"`     // bookings.user_id
    Date       string    `json:"date"`       // bookings.booking_date
    Slot       TimeSlot  `json:"timeSlot"`   // bookings.start_minute / end_minute
    Status     string    `json:"status"`     // bookings.status
    CreatedAt  time.Time `json:"createdAt"`  // bookings.created_at
    UpdatedAt  time.Time `json:"updatedAt"`  // bookings.updated_at
}

// TimeSlot is a half-open [Start, End) interval expressed in minutes since
// midnight.  Storing minutes rather than the raw "HH:MM - HH:MM" string the
// front-end submits makes the overlap check arithmetic instead of string
// comparison.
type TimeSlot struct {
    Start int `json:"-"` // minutes since midnight, inclusive
    End   int `json:"-"` // minutes since midnight, exclusive
}

// ErrBadTimeSlot is returned by ParseTimeSlot when the submitted value is
// not a well formed "HH:MM - HH:MM" pair with start strictly before end.
var ErrBadTimeSlot = errors.New("time slot must be \"HH:MM - HH:MM\" with start before end")

// ParseTimeSlot parses the wire format produced by the booking form, e.g.
// "10:00 - 11:30".  A missing separator, malformed clock values or an empty
// interval all yield ErrBadTimeSlot.
func ParseTimeSlot(raw string) (TimeSlot, error) {
    parts := strings.Split(raw, "-")
    if len(parts) != 2 {
        return TimeSlot{}, ErrBadTimeSlot
    }
    start, ok := parseClock(strings.TrimSpace(parts[0]))
    if !ok {
        return TimeSlot{}, ErrBadTimeSlot
    }
    end, ok := parseClock(strings.TrimSpace(parts[1]))
    if !ok {
        return TimeSlot{}, ErrBadTimeSlot
    }
    if start >= end {
        return TimeSlot{}, ErrBadTimeSlot
    }
    return TimeSlot{Start: start, End: end}, nil
}

// parseClock converts "HH:MM" into minutes since midnight.  Hours up to 23
// and minutes up to 59 are accepted.
func parseClock(s string) (int, bool) {
    var h, m int
    if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
        return 0, false
    }
    if h < 0 || h > 23 || m < 0 || m > 59 {
        return 0, false
    }
    // reject trailing garbage such as "10:00x"
    if fmt.Sprintf("%d:%02d", h, m) != s && fmt.Sprintf("%02d:%02d", h, m) != s {
        return 0, false
    }
    return h*60 + m, true
}

// String renders the slot back into the dashboard wire format.
func (t TimeSlot) String() string {
    return fmt.Sprintf("%02d:%02d - %02d:%02d", t.Start/60, t.Start%60, t.End/60, t.End%60)
}

// MarshalJSON encodes the slot as the "HH:MM - HH:MM" string the dashboards
// render directly.
func (t TimeSlot) MarshalJSON() ([]byte, error) {
    return json.Marshal(t.String())
}

// UnmarshalJSON accepts the same wire string, delegating to ParseTimeSlot.
func (t *TimeSlot) UnmarshalJSON(b []byte) error {
    var raw string
    if err := json.Unmarshal(b, &raw); err != nil {
        return err
    }
    slot, err := ParseTimeSlot(raw)
    if err != nil {
        return err
    }
    *t = slot
    return nil
}

// Overlaps reports whether two slots on the same date intersect.  The
// intervals are half-open, so back-to-back slots (10:00-11:00 followed by
// 11:00-12:00) do not overlap.
func (t TimeSlot) Overlaps(o TimeSlot) bool {
    return t.Start < o.End && o.Start < t.End
}

// ValidBookingDecision reports whether s is a terminal status an admin may
// assign when deciding a pending booking.
func ValidBookingDecision(s string) bool {
    return s == BookingStatusApproved || s == BookingStatusDeclined
}

// BookingActive reports whether a booking in the given status still occupies
// its facility window.  Pending and Approved bookings block overlapping
// requests; Declined ones do not.
func BookingActive(status string) bool {
    return status == BookingStatusPending || status == BookingStatusApproved
}

// CanDecideBooking reports whether a booking in the given status may receive
// a decision.  Only Pending bookings are decidable; both terminal states
// reject further transitions.
func CanDecideBooking(status string) bool {
    return status == BookingStatusPending
}
