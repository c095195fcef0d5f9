package model

import (
    "strings"
    "time"
)

// Facility types form a closed enumeration.  Values outside this set are
// rejected at creation time.
const (
    FacilityTypeAuditorium = "Auditorium"
    FacilityTypeLaboratory = "Laboratory"
    FacilityTypeStudyArea  = "Study Area"
    FacilityTypeOther      = "Other"
)

// Climate status values for a facility.
const (
    ACStatusAC    = "AC"
    ACStatusNonAC = "Non-AC"
)

// MaxFacilityImages bounds the number of image URLs stored per facility.
const MaxFacilityImages = 3

// Facility represents a bookable campus resource such as an auditorium
// or a laboratory.  This struct corresponds to a row in the `facilities`
// table.  Images are stored as up to three opaque URL strings; blank
// entries are filtered before the record is created.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – human readable facility name.
//  Type        – one of the FacilityType* constants.
//  Capacity    – maximum occupancy; always positive.
//  ACStatus    – climate status (AC or Non-AC).
//  Description – free text shown on dashboards.
//  Images      – ordered image URLs, at most MaxFacilityImages entries.
//  CreatedAt   – timestamp when the facility was created.
//  UpdatedAt   – timestamp of last update.
type Facility struct {
    ID          uint64    `json:"id"`          // facilities.id
    Name        string    `json:"name"`        // facilities.name
    Type        string    `json:"type"`        // facilities.type
    Capacity    int       `json:"capacity"`    // facilities.capacity
    ACStatus    string    `json:"acStatus"`    // facilities.ac_status
    Description string    `json:"description"` // facilities.description
    Images      []string  `json:"images"`      // facilities.images (JSON column)
    CreatedAt   time.Time `json:"createdAt"`   // facilities.created_at
    UpdatedAt   time.Time `json:"updatedAt"`   // facilities.updated_at
}

// ValidFacilityType reports whether t is one of the allowed facility types.
func ValidFacilityType(t string) bool {
    switch t {
    case FacilityTypeAuditorium, FacilityTypeLaboratory, FacilityTypeStudyArea, FacilityTypeOther:
        return true
    }
    return false
}

// ValidACStatus reports whether s is a recognized climate status.
func ValidACStatus(s string) bool {
    return s == ACStatusAC || s == ACStatusNonAC
}

// FilterImages trims each entry, drops blanks and truncates the result to
// MaxFacilityImages.  The front-end submits a fixed-size array with empty
// slots, so filtering happens here rather than in every handler.
func FilterImages(raw []string) []string {
    out := make([]string, 0, MaxFacilityImages)
    for _, u := range raw {
        u = strings.TrimSpace(u)
        if u == "" {
            continue
        }
        if len(out) == MaxFacilityImages {
            break
        }
        out = append(out, u)
    }
    return out
}

// ValidateFacility checks the invariants every facility record must satisfy
// before creation: non-empty name, a known type and climate status, and a
// positive capacity.  It returns a human readable reason when a rule is
// violated and an empty string when the record is acceptable.
func ValidateFacility(name, ftype string, capacity int, acStatus string) string {
    if strings.TrimSpace(name) == "" {
        return "name is required"
    }
    if !ValidFacilityType(ftype) {
        return "unknown facility type"
    }
    if capacity <= 0 {
        return "capacity must be a positive integer"
    }
    if !ValidACStatus(acStatus) {
        return "acStatus must be AC or Non-AC"
    }
    return ""
}
