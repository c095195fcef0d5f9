package repository

import (
    "context"
    "database/sql"
    "encoding/json"
    "errors"

    "github.com/campusfms/fms-server/internal/model"
)

// FacilityRepo provides data access to the facilities table.  Facilities
// are created by admins and listed publicly; there is no update or delete
// path.  Image URLs are stored as a JSON array in a single column since
// they are opaque strings capped at three entries.
type FacilityRepo struct {
    db *sql.DB
}

// NewFacilityRepo returns a new FacilityRepo bound to the given database.
func NewFacilityRepo(db *sql.DB) *FacilityRepo { return &FacilityRepo{db: db} }

// Create inserts a facility and populates its generated ID and timestamps.
// The caller is responsible for validating the record first; this method
// only persists.
func (r *FacilityRepo) Create(ctx context.Context, f *model.Facility) error {
    images, err := json.Marshal(f.Images)
    if err != nil {
        return err
    }
    res, err := r.db.ExecContext(ctx,
        `INSERT INTO facilities (name, type, capacity, ac_status, description, images) VALUES (?,?,?,?,?,?)`,
        f.Name, f.Type, f.Capacity, f.ACStatus, f.Description, images)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    f.ID = uint64(id)
    // Read the row back so timestamps reflect what MySQL assigned.
    return r.db.QueryRowContext(ctx,
        `SELECT created_at, updated_at FROM facilities WHERE id=?`, f.ID,
    ).Scan(&f.CreatedAt, &f.UpdatedAt)
}

// GetByID fetches a single facility.  ErrFacilityNotFound is returned for
// unknown ids.
func (r *FacilityRepo) GetByID(ctx context.Context, id uint64) (model.Facility, error) {
    f, err := scanFacility(r.db.QueryRowContext(ctx,
        `SELECT id, name, type, capacity, ac_status, description, images, created_at, updated_at
         FROM facilities WHERE id=? LIMIT 1`, id))
    if errors.Is(err, sql.ErrNoRows) {
        return model.Facility{}, ErrFacilityNotFound
    }
    return f, err
}

// ExistsTx reports whether a facility exists, reading through an open
// transaction so booking and issue creation share the existence check with
// the transaction that performs their insert.
func (r *FacilityRepo) ExistsTx(ctx context.Context, tx *sql.Tx, id uint64) (bool, error) {
    var one int
    err := tx.QueryRowContext(ctx, `SELECT 1 FROM facilities WHERE id=? LIMIT 1`, id).Scan(&one)
    if errors.Is(err, sql.ErrNoRows) {
        return false, nil
    }
    if err != nil {
        return false, err
    }
    return true, nil
}

// ListAll returns every facility ordered by id, the order the admin
// dashboard renders the catalog in.
func (r *FacilityRepo) ListAll(ctx context.Context) ([]model.Facility, error) {
    rows, err := r.db.QueryContext(ctx,
        `SELECT id, name, type, capacity, ac_status, description, images, created_at, updated_at
         FROM facilities ORDER BY id ASC`)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Facility, 0, 16)
    for rows.Next() {
        f, err := scanFacility(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, f)
    }
    return out, rows.Err()
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
    Scan(dest ...any) error
}

func scanFacility(s rowScanner) (model.Facility, error) {
    var (
        f      model.Facility
        images []byte
    )
    err := s.Scan(&f.ID, &f.Name, &f.Type, &f.Capacity, &f.ACStatus, &f.Description,
        &images, &f.CreatedAt, &f.UpdatedAt)
    if err != nil {
        return model.Facility{}, err
    }
    if len(images) > 0 {
        if err := json.Unmarshal(images, &f.Images); err != nil {
            return model.Facility{}, err
        }
    }
    if f.Images == nil {
        f.Images = []string{}
    }
    return f, nil
}
