package authz

import (
    "testing"

    "github.com/campusfms/fms-server/internal/model"
)

// The full role matrix, spelled out so a policy change has to be made in
// two places on purpose.
var matrix = map[Operation]map[string]bool{
    OpCreateFacility:     {model.RoleAdmin: true},
    OpRequestBooking:     {model.RoleStaff: true, model.RoleStudent: true},
    OpDecideBooking:      {model.RoleAdmin: true},
    OpListAllBookings:    {model.RoleAdmin: true},
    OpListOwnBookings:    {model.RoleStaff: true, model.RoleStudent: true},
    OpReportIssue:        {model.RoleStaff: true, model.RoleStudent: true},
    OpResolveIssue:       {model.RoleAdmin: true},
    OpListIssuesByStatus: {model.RoleAdmin: true},
    OpListOwnIssues:      {model.RoleStaff: true, model.RoleStudent: true},
}

func TestAllowedMatchesMatrix(t *testing.T) {
    roles := []string{model.RoleAdmin, model.RoleStaff, model.RoleStudent}
    ops := Operations()
    if len(ops) != len(matrix) {
        t.Fatalf("Operations() lists %d operations, matrix has %d", len(ops), len(matrix))
    }
    for _, op := range ops {
        expected, ok := matrix[op]
        if !ok {
            t.Fatalf("operation %q missing from expected matrix", op)
        }
        for _, role := range roles {
            if got := Allowed(role, op); got != expected[role] {
                t.Errorf("Allowed(%s, %s) = %v, want %v", role, op, got, expected[role])
            }
        }
    }
}

func TestAllowedDeniesUnknowns(t *testing.T) {
    if Allowed("JANITOR", OpCreateFacility) {
        t.Error("unknown role must be denied")
    }
    if Allowed("", OpRequestBooking) {
        t.Error("empty role must be denied")
    }
    if Allowed(model.RoleAdmin, Operation("facility.demolish")) {
        t.Error("unknown operation must be denied")
    }
}

func TestRolesForCopies(t *testing.T) {
    roles := RolesFor(OpRequestBooking)
    if len(roles) != 2 {
        t.Fatalf("RolesFor(OpRequestBooking) = %v, want two roles", roles)
    }
    roles[0] = "TAMPERED"
    if !Allowed(model.RoleStaff, OpRequestBooking) {
        t.Fatal("mutating the returned slice must not change the policy")
    }
}
