package model

import (
    "reflect"
    "testing"
)

func TestValidateFacility(t *testing.T) {
    cases := []struct {
        name     string
        fname    string
        ftype    string
        capacity int
        acStatus string
        wantOK   bool
    }{
        {name: "valid auditorium", fname: "Main Hall", ftype: FacilityTypeAuditorium, capacity: 300, acStatus: ACStatusAC, wantOK: true},
        {name: "valid other non-ac", fname: "Bike Shed", ftype: FacilityTypeOther, capacity: 1, acStatus: ACStatusNonAC, wantOK: true},
        {name: "empty name", fname: "  ", ftype: FacilityTypeLaboratory, capacity: 20, acStatus: ACStatusAC},
        {name: "unknown type", fname: "Pool", ftype: "Swimming Pool", capacity: 40, acStatus: ACStatusAC},
        {name: "zero capacity", fname: "Lab 2", ftype: FacilityTypeLaboratory, capacity: 0, acStatus: ACStatusAC},
        {name: "negative capacity", fname: "Lab 3", ftype: FacilityTypeLaboratory, capacity: -1, acStatus: ACStatusAC},
        {name: "bad ac status", fname: "Lab 4", ftype: FacilityTypeLaboratory, capacity: 10, acStatus: "fan"},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            reason := ValidateFacility(tc.fname, tc.ftype, tc.capacity, tc.acStatus)
            if tc.wantOK && reason != "" {
                t.Fatalf("ValidateFacility rejected a valid spec: %s", reason)
            }
            if !tc.wantOK && reason == "" {
                t.Fatal("ValidateFacility accepted an invalid spec")
            }
        })
    }
}

func TestFilterImages(t *testing.T) {
    cases := []struct {
        name string
        in   []string
        want []string
    }{
        {name: "drops blanks", in: []string{"a.png", "", "  "}, want: []string{"a.png"}},
        {name: "trims entries", in: []string{" a.png ", "b.png"}, want: []string{"a.png", "b.png"}},
        {name: "caps at three", in: []string{"a", "b", "c", "d"}, want: []string{"a", "b", "c"}},
        {name: "all blank", in: []string{"", "", ""}, want: []string{}},
        {name: "nil", in: nil, want: []string{}},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            if got := FilterImages(tc.in); !reflect.DeepEqual(got, tc.want) {
                t.Fatalf("FilterImages(%v) = %v, want %v", tc.in, got, tc.want)
            }
        })
    }
}

func TestIssueTransitions(t *testing.T) {
    if !CanResolveIssue(IssueStatusReported) {
        t.Fatal("reported issues must be resolvable")
    }
    if CanResolveIssue(IssueStatusResolved) {
        t.Fatal("resolved issues must not be resolvable again")
    }
}
