// Package queue defines message payloads exchanged over the message broker
// and the background consumer that turns them into an audit trail.
package queue

// BookingDecidedEvent is published after an admin's decision on a booking
// commits.  It carries enough context for downstream consumers to log or
// notify without querying the primary database.
type BookingDecidedEvent struct {
    BookingID    uint64 `json:"booking_id"`
    FacilityID   uint64 `json:"facility_id"`
    FacilityName string `json:"facility_name"`
    UserID       uint64 `json:"user_id"`
    AdminID      uint64 `json:"admin_id"`
    Date         string `json:"date"`
    TimeSlot     string `json:"time_slot"`
    Status       string `json:"status"` // Approved or Declined
    DecidedAt    string `json:"decided_at"`
}
