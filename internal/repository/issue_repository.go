package repository

import (
    "context"
    "database/sql"
    "errors"
    "time"

    "github.com/campusfms/fms-server/internal/model"
)

// IssueRepo provides data access to the issues table.  Issues follow a
// two-state lifecycle: Reported rows may be resolved exactly once, picking
// up an optional admin response; Resolved rows are immutable history.
type IssueRepo struct {
    db         *sql.DB
    facilities *FacilityRepo
}

// NewIssueRepo returns a new IssueRepo bound to the given database.  The
// facility repo supplies the in-transaction existence check.
func NewIssueRepo(db *sql.DB, facilities *FacilityRepo) *IssueRepo {
    return &IssueRepo{db: db, facilities: facilities}
}

// IssueView is an issue row joined with its facility and reporter for
// dashboard rendering.
type IssueView struct {
    ID            uint64     `json:"id"`
    FacilityID    uint64     `json:"facilityId"`
    FacilityName  string     `json:"facilityName"`
    FacilityType  string     `json:"facilityType"`
    UserID        uint64     `json:"userId"`
    UserName      string     `json:"userName"`
    Description   string     `json:"description"`
    Status        string     `json:"status"`
    AdminResponse *string    `json:"adminResponse,omitempty"`
    CreatedAt     time.Time  `json:"createdAt"`
    ResolvedAt    *time.Time `json:"resolvedAt,omitempty"`
}

// Create inserts a Reported issue after verifying the facility exists
// inside the same transaction as the insert.  The issue's ID, status and
// creation timestamp are populated on success.
func (r *IssueRepo) Create(ctx context.Context, is *model.Issue) error {
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

    exists, err := r.facilities.ExistsTx(ctx, tx, is.FacilityID)
    if err != nil {
        return err
    }
    if !exists {
        return ErrFacilityNotFound
    }

    res, err := tx.ExecContext(ctx,
        `INSERT INTO issues (facility_id, user_id, description, status) VALUES (?,?,?,?)`,
        is.FacilityID, is.UserID, is.Description, model.IssueStatusReported)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    is.ID = uint64(id)
    is.Status = model.IssueStatusReported
    if err := tx.QueryRowContext(ctx,
        `SELECT created_at FROM issues WHERE id=?`, is.ID,
    ).Scan(&is.CreatedAt); err != nil {
        return err
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

// Resolve transitions a Reported issue to Resolved, attaching the optional
// admin response, and returns the updated record.  The row is locked during
// the check so a second concurrent resolve observes the first and fails
// with ErrInvalidState.  Unknown ids yield ErrIssueNotFound.
func (r *IssueRepo) Resolve(ctx context.Context, id uint64, response *string) (model.Issue, error) {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return model.Issue{}, err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    var (
        is       model.Issue
        resp     sql.NullString
        resolved sql.NullTime
    )
    err = tx.QueryRowContext(ctx,
        `SELECT id, facility_id, user_id, description, status, admin_response, created_at, resolved_at
         FROM issues WHERE id=? FOR UPDATE`, id,
    ).Scan(&is.ID, &is.FacilityID, &is.UserID, &is.Description, &is.Status,
        &resp, &is.CreatedAt, &resolved)
    if errors.Is(err, sql.ErrNoRows) {
        return model.Issue{}, ErrIssueNotFound
    }
    if err != nil {
        return model.Issue{}, err
    }
    if !model.CanResolveIssue(is.Status) {
        return model.Issue{}, ErrInvalidState
    }

    now := time.Now().UTC()
    if _, err := tx.ExecContext(ctx,
        `UPDATE issues SET status=?, admin_response=?, resolved_at=? WHERE id=?`,
        model.IssueStatusResolved, response, now, is.ID); err != nil {
        return model.Issue{}, err
    }
    is.Status = model.IssueStatusResolved
    is.AdminResponse = response
    is.ResolvedAt = &now
    if err := tx.Commit(); err != nil {
        return model.Issue{}, err
    }
    committed = true
    return is, nil
}

const issueViewSelect = `
    SELECT i.id, i.facility_id, f.name, f.type, i.user_id, u.name,
           i.description, i.status, i.admin_response, i.created_at, i.resolved_at
    FROM issues i
    JOIN facilities f ON f.id = i.facility_id
    JOIN users u ON u.id = i.user_id`

// ListByUser returns the caller's issues, newest first.
func (r *IssueRepo) ListByUser(ctx context.Context, userID uint64) ([]IssueView, error) {
    return r.queryViews(ctx,
        issueViewSelect+` WHERE i.user_id=? ORDER BY i.created_at DESC, i.id DESC`, userID)
}

// ListAll returns every issue, oldest first, for the admin table.
func (r *IssueRepo) ListAll(ctx context.Context) ([]IssueView, error) {
    return r.queryViews(ctx, issueViewSelect+` ORDER BY i.created_at ASC, i.id ASC`)
}

// ListByStatus returns issues filtered to the given status, oldest first.
// The admin dashboard toggles between Reported and Resolved views.
func (r *IssueRepo) ListByStatus(ctx context.Context, status string) ([]IssueView, error) {
    return r.queryViews(ctx,
        issueViewSelect+` WHERE i.status=? ORDER BY i.created_at ASC, i.id ASC`, status)
}

func (r *IssueRepo) queryViews(ctx context.Context, query string, args ...any) ([]IssueView, error) {
    rows, err := r.db.QueryContext(ctx, query, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]IssueView, 0, 16)
    for rows.Next() {
        var (
            v        IssueView
            resp     sql.NullString
            resolved sql.NullTime
        )
        if err := rows.Scan(&v.ID, &v.FacilityID, &v.FacilityName, &v.FacilityType,
            &v.UserID, &v.UserName, &v.Description, &v.Status, &resp,
            &v.CreatedAt, &resolved); err != nil {
            return nil, err
        }
        if resp.Valid {
            s := resp.String
            v.AdminResponse = &s
        }
        if resolved.Valid {
            t := resolved.Time
            v.ResolvedAt = &t
        }
        out = append(out, v)
    }
    return out, rows.Err()
}
