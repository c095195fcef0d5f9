package repository

import (
    "context"
    "database/sql"
    "errors"
    "time"

    "github.com/campusfms/fms-server/internal/model"
)

// BookingRepo provides data access to the bookings table.  The two
// mutating paths, Create and Decide, run their precondition checks and
// writes inside a single transaction so that the no-overlap invariant and
// the Pending-only transition rule hold under concurrent requests.  All
// timestamps are stored in UTC.
type BookingRepo struct {
    db         *sql.DB
    facilities *FacilityRepo
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
// The facility repo supplies the in-transaction existence check.
func NewBookingRepo(db *sql.DB, facilities *FacilityRepo) *BookingRepo {
    return &BookingRepo{db: db, facilities: facilities}
}

// BookingView is a booking row joined with its facility and requester for
// dashboard rendering.  Returned by the list methods; the raw model.Booking
// is only used on the write path.
type BookingView struct {
    ID           uint64         `json:"id"`
    FacilityID   uint64         `json:"facilityId"`
    FacilityName string         `json:"facilityName"`
    FacilityType string         `json:"facilityType"`
    UserID       uint64         `json:"userId"`
    UserName     string         `json:"userName"`
    Date         string         `json:"date"`
    TimeSlot     model.TimeSlot `json:"timeSlot"`
    Status       string         `json:"status"`
    CreatedAt    time.Time      `json:"createdAt"`
}

// Create inserts a Pending booking after verifying, inside one
// transaction, that the facility exists and that no Pending or Approved
// booking on the same facility and date overlaps the requested slot.  The
// facility's active rows for that date are locked with FOR UPDATE so two
// concurrent overlapping requests serialize; the loser observes the
// winner's row and fails with ErrBookingConflict.  On success the booking's
// ID, status and timestamps are populated.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    exists, err := r.facilities.ExistsTx(ctx, tx, b.FacilityID)
    if err != nil {
        return err
    }
    if !exists {
        return ErrFacilityNotFound
    }

    // Lock every active booking on this facility/date and test the slot
    // against each.  Declined rows are skipped; they no longer occupy the
    // window.
    rows, err := tx.QueryContext(ctx,
        `SELECT start_minute, end_minute FROM bookings
         WHERE facility_id=? AND booking_date=? AND status IN (?, ?)
         FOR UPDATE`,
        b.FacilityID, b.Date, model.BookingStatusPending, model.BookingStatusApproved)
    if err != nil {
        return err
    }
    for rows.Next() {
        var existing model.TimeSlot
        if err := rows.Scan(&existing.Start, &existing.End); err != nil {
            rows.Close()
            return err
        }
        if b.Slot.Overlaps(existing) {
            rows.Close()
            return ErrBookingConflict
        }
    }
    if err := rows.Close(); err != nil {
        return err
    }

    res, err := tx.ExecContext(ctx,
        `INSERT INTO bookings (facility_id, user_id, booking_date, start_minute, end_minute, status)
         VALUES (?,?,?,?,?,?)`,
        b.FacilityID, b.UserID, b.Date, b.Slot.Start, b.Slot.End, model.BookingStatusPending)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    b.ID = uint64(id)
    b.Status = model.BookingStatusPending
    if err := tx.QueryRowContext(ctx,
        `SELECT created_at, updated_at FROM bookings WHERE id=?`, b.ID,
    ).Scan(&b.CreatedAt, &b.UpdatedAt); err != nil {
        return err
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

// Decide transitions a Pending booking to Approved or Declined and returns
// the updated record.  The row is locked for the duration of the check so
// two concurrent decisions cannot both succeed.  A missing booking yields
// ErrBookingNotFound; a booking already in a terminal state yields
// ErrInvalidState.  Overlapping Pending siblings are intentionally left
// untouched on approval; reconciling them is the admin's call.
func (r *BookingRepo) Decide(ctx context.Context, id uint64, status string) (model.Booking, error) {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return model.Booking{}, err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    var b model.Booking
    err = tx.QueryRowContext(ctx,
        `SELECT id, facility_id, user_id, DATE_FORMAT(booking_date, '%Y-%m-%d'),
                start_minute, end_minute, status, created_at, updated_at
         FROM bookings WHERE id=? FOR UPDATE`, id,
    ).Scan(&b.ID, &b.FacilityID, &b.UserID, &b.Date,
        &b.Slot.Start, &b.Slot.End, &b.Status, &b.CreatedAt, &b.UpdatedAt)
    if errors.Is(err, sql.ErrNoRows) {
        return model.Booking{}, ErrBookingNotFound
    }
    if err != nil {
        return model.Booking{}, err
    }
    if !model.CanDecideBooking(b.Status) {
        return model.Booking{}, ErrInvalidState
    }
    if _, err := tx.ExecContext(ctx,
        `UPDATE bookings SET status=?, updated_at=NOW() WHERE id=?`, status, b.ID); err != nil {
        return model.Booking{}, err
    }
    b.Status = status
    // Re-read so the returned record carries the post-decision timestamp.
    if err := tx.QueryRowContext(ctx,
        `SELECT updated_at FROM bookings WHERE id=?`, b.ID).Scan(&b.UpdatedAt); err != nil {
        return model.Booking{}, err
    }
    if err := tx.Commit(); err != nil {
        return model.Booking{}, err
    }
    committed = true
    return b, nil
}

const bookingViewSelect = `
    SELECT b.id, b.facility_id, f.name, f.type, b.user_id, u.name,
           DATE_FORMAT(b.booking_date, '%Y-%m-%d'), b.start_minute, b.end_minute,
           b.status, b.created_at
    FROM bookings b
    JOIN facilities f ON f.id = b.facility_id
    JOIN users u ON u.id = b.user_id`

// ListByUser returns the caller's bookings, newest first, the order the
// staff and student dashboards present "My Bookings" in.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]BookingView, error) {
    return r.queryViews(ctx,
        bookingViewSelect+` WHERE b.user_id=? ORDER BY b.created_at DESC, b.id DESC`, userID)
}

// ListAll returns every booking, oldest first, for the admin report table.
func (r *BookingRepo) ListAll(ctx context.Context) ([]BookingView, error) {
    return r.queryViews(ctx, bookingViewSelect+` ORDER BY b.created_at ASC, b.id ASC`)
}

// ListByStatus returns bookings with the given status, oldest first, used
// for the admin's pending approval queue.
func (r *BookingRepo) ListByStatus(ctx context.Context, status string) ([]BookingView, error) {
    return r.queryViews(ctx,
        bookingViewSelect+` WHERE b.status=? ORDER BY b.created_at ASC, b.id ASC`, status)
}

func (r *BookingRepo) queryViews(ctx context.Context, query string, args ...any) ([]BookingView, error) {
    rows, err := r.db.QueryContext(ctx, query, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]BookingView, 0, 16)
    for rows.Next() {
        var v BookingView
        if err := rows.Scan(&v.ID, &v.FacilityID, &v.FacilityName, &v.FacilityType,
            &v.UserID, &v.UserName, &v.Date, &v.TimeSlot.Start, &v.TimeSlot.End,
            &v.Status, &v.CreatedAt); err != nil {
            return nil, err
        }
        out = append(out, v)
    }
    return out, rows.Err()
}
