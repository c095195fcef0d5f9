package model

import "time"

// Issue status values.  Reported is the initial state; Resolved is terminal.
const (
    IssueStatusReported = "Reported"
    IssueStatusResolved = "Resolved"
)

// Issue is a maintenance report filed against a facility.  Issues are never
// deleted; they move from Reported to Resolved exactly once, optionally
// picking up an admin response at resolution time.  This struct corresponds
// to a row in the `issues` table.
//
// Fields:
//  ID            – primary key identifier.
//  FacilityID    – facility the report is about.
//  UserID        – user who filed the report.
//  Description   – free text problem description, never empty.
//  Status        – Reported or Resolved.
//  AdminResponse – response attached by the resolving admin (nullable).
//  CreatedAt     – creation timestamp.
//  ResolvedAt    – when the issue was resolved (nullable).
type Issue struct {
    ID            uint64     `json:"id"`                      // issues.id
    FacilityID    uint64     `json:"facilityId"`              // issues.facility_id
    UserID        uint64     `json:"userId"`                  // issues.user_id
    Description   string     `json:"description"`             // issues.description
    Status        string     `json:"status"`                  // issues.status
    AdminResponse *string    `json:"adminResponse,omitempty"` // issues.admin_response (nullable)
    CreatedAt     time.Time  `json:"createdAt"`               // issues.created_at
    ResolvedAt    *time.Time `json:"resolvedAt,omitempty"`    // issues.resolved_at (nullable)
}

// ValidIssueStatus reports whether s names a known issue status, used when
// validating the ?status= filter on admin listings.
func ValidIssueStatus(s string) bool {
    return s == IssueStatusReported || s == IssueStatusResolved
}

// CanResolveIssue reports whether an issue in the given status may be
// resolved.  Resolved is terminal.
func CanResolveIssue(status string) bool {
    return status == IssueStatusReported
}
