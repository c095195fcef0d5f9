// Package authz holds the single authorization table for the service.
// Every mutating handler consults Allowed before touching state, and the
// role middleware uses RolesFor to gate whole route groups.  Keeping the
// policy in one table instead of per-screen conditionals means the role
// matrix can be read, reviewed and tested in one place.
package authz

import "github.com/campusfms/fms-server/internal/model"

// Operation names a permission-checked action.  The values are stable
// identifiers, not HTTP routes; several routes may map to one operation.
type Operation string

const (
    OpCreateFacility      Operation = "facility.create"
    OpRequestBooking      Operation = "booking.request"
    OpDecideBooking       Operation = "booking.decide"
    OpListAllBookings     Operation = "booking.list_all"
    OpListOwnBookings     Operation = "booking.list_own"
    OpReportIssue         Operation = "issue.report"
    OpResolveIssue        Operation = "issue.resolve"
    OpListIssuesByStatus  Operation = "issue.list_by_status"
    OpListOwnIssues       Operation = "issue.list_own"
)

// permissions is the role matrix.  Admins administer: they create
// facilities, decide bookings, resolve issues and read the unrestricted
// listings.  Staff and students are requesters: they file bookings and
// issues and read only their own records.  Listing facilities is public
// and deliberately absent from the table.
var permissions = map[Operation][]string{
    OpCreateFacility:     {model.RoleAdmin},
    OpRequestBooking:     {model.RoleStaff, model.RoleStudent},
    OpDecideBooking:      {model.RoleAdmin},
    OpListAllBookings:    {model.RoleAdmin},
    OpListOwnBookings:    {model.RoleStaff, model.RoleStudent},
    OpReportIssue:        {model.RoleStaff, model.RoleStudent},
    OpResolveIssue:       {model.RoleAdmin},
    OpListIssuesByStatus: {model.RoleAdmin},
    OpListOwnIssues:      {model.RoleStaff, model.RoleStudent},
}

// Allowed reports whether the given role may perform op.  Unknown roles and
// unknown operations are both denied.
func Allowed(role string, op Operation) bool {
    for _, r := range permissions[op] {
        if r == role {
            return true
        }
    }
    return false
}

// RolesFor returns the roles permitted to perform op, in table order.  The
// router uses this to build RequireRole middleware from the same policy the
// handlers re-check.
func RolesFor(op Operation) []string {
    roles := permissions[op]
    out := make([]string, len(roles))
    copy(out, roles)
    return out
}

// Operations lists every permission-checked operation, in a fixed order.
// Exposed for exhaustive tests over the role matrix.
func Operations() []Operation {
    return []Operation{
        OpCreateFacility,
        OpRequestBooking,
        OpDecideBooking,
        OpListAllBookings,
        OpListOwnBookings,
        OpReportIssue,
        OpResolveIssue,
        OpListIssuesByStatus,
        OpListOwnIssues,
    }
}
