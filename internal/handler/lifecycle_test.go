package handler

import (
    "context"
    "encoding/json"
    "net/http"
    "net/http/httptest"
    "sort"
    "strconv"
    "strings"
    "sync"
    "testing"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/campusfms/fms-server/internal/model"
    "github.com/campusfms/fms-server/internal/repository"
)

// ----- in-memory stores -----
//
// The fakes enforce the same preconditions as the MySQL repositories
// (facility existence, the no-overlap rule, Pending/Reported-only
// transitions) so the lifecycle scenarios exercise the handlers against
// faithful store behavior.

type memStore struct {
    mu         sync.Mutex
    facilities map[uint64]model.Facility
    bookings   map[uint64]*model.Booking
    issues     map[uint64]*model.Issue
    userNames  map[uint64]string
    nextID     uint64
    clock      time.Time
}

func newMemStore() *memStore {
    return &memStore{
        facilities: map[uint64]model.Facility{},
        bookings:   map[uint64]*model.Booking{},
        issues:     map[uint64]*model.Issue{},
        userNames:  map[uint64]string{},
        clock:      time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC),
    }
}

func (s *memStore) tick() time.Time {
    s.clock = s.clock.Add(time.Minute)
    return s.clock
}

func (s *memStore) id() uint64 {
    s.nextID++
    return s.nextID
}

// FacilityStore

func (s *memStore) Create(ctx context.Context, f *model.Facility) error {
    s.mu.Lock()
    defer s.mu.Unlock()
    f.ID = s.id()
    f.CreatedAt = s.tick()
    f.UpdatedAt = f.CreatedAt
    s.facilities[f.ID] = *f
    return nil
}

func (s *memStore) GetByID(ctx context.Context, id uint64) (model.Facility, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    f, ok := s.facilities[id]
    if !ok {
        return model.Facility{}, repository.ErrFacilityNotFound
    }
    return f, nil
}

func (s *memStore) ListAll(ctx context.Context) ([]model.Facility, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    out := make([]model.Facility, 0, len(s.facilities))
    for _, f := range s.facilities {
        out = append(out, f)
    }
    sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
    return out, nil
}

// BookingStore lives on a separate type so the interface methods do not
// collide with FacilityStore's Create.

type memBookings struct{ s *memStore }

func (m memBookings) Create(ctx context.Context, b *model.Booking) error {
    s := m.s
    s.mu.Lock()
    defer s.mu.Unlock()
    if _, ok := s.facilities[b.FacilityID]; !ok {
        return repository.ErrFacilityNotFound
    }
    for _, existing := range s.bookings {
        if existing.FacilityID == b.FacilityID && existing.Date == b.Date &&
            model.BookingActive(existing.Status) && b.Slot.Overlaps(existing.Slot) {
            return repository.ErrBookingConflict
        }
    }
    b.ID = s.id()
    b.Status = model.BookingStatusPending
    b.CreatedAt = s.tick()
    b.UpdatedAt = b.CreatedAt
    cp := *b
    s.bookings[b.ID] = &cp
    return nil
}

func (m memBookings) Decide(ctx context.Context, id uint64, status string) (model.Booking, error) {
    s := m.s
    s.mu.Lock()
    defer s.mu.Unlock()
    b, ok := s.bookings[id]
    if !ok {
        return model.Booking{}, repository.ErrBookingNotFound
    }
    if !model.CanDecideBooking(b.Status) {
        return model.Booking{}, repository.ErrInvalidState
    }
    b.Status = status
    b.UpdatedAt = s.tick()
    return *b, nil
}

func (m memBookings) view(b *model.Booking) repository.BookingView {
    f := m.s.facilities[b.FacilityID]
    return repository.BookingView{
        ID: b.ID, FacilityID: b.FacilityID, FacilityName: f.Name, FacilityType: f.Type,
        UserID: b.UserID, UserName: m.s.userNames[b.UserID],
        Date: b.Date, TimeSlot: b.Slot, Status: b.Status, CreatedAt: b.CreatedAt,
    }
}

func (m memBookings) list(keep func(*model.Booking) bool, newestFirst bool) []repository.BookingView {
    m.s.mu.Lock()
    defer m.s.mu.Unlock()
    out := make([]repository.BookingView, 0, len(m.s.bookings))
    for _, b := range m.s.bookings {
        if keep(b) {
            out = append(out, m.view(b))
        }
    }
    sort.Slice(out, func(i, j int) bool {
        if newestFirst {
            return out[i].CreatedAt.After(out[j].CreatedAt)
        }
        return out[i].CreatedAt.Before(out[j].CreatedAt)
    })
    return out
}

func (m memBookings) ListByUser(ctx context.Context, userID uint64) ([]repository.BookingView, error) {
    return m.list(func(b *model.Booking) bool { return b.UserID == userID }, true), nil
}

func (m memBookings) ListAll(ctx context.Context) ([]repository.BookingView, error) {
    return m.list(func(*model.Booking) bool { return true }, false), nil
}

func (m memBookings) ListByStatus(ctx context.Context, status string) ([]repository.BookingView, error) {
    return m.list(func(b *model.Booking) bool { return b.Status == status }, false), nil
}

// IssueStore

type memIssues struct{ s *memStore }

func (m memIssues) Create(ctx context.Context, is *model.Issue) error {
    s := m.s
    s.mu.Lock()
    defer s.mu.Unlock()
    if _, ok := s.facilities[is.FacilityID]; !ok {
        return repository.ErrFacilityNotFound
    }
    is.ID = s.id()
    is.Status = model.IssueStatusReported
    is.CreatedAt = s.tick()
    cp := *is
    s.issues[is.ID] = &cp
    return nil
}

func (m memIssues) Resolve(ctx context.Context, id uint64, response *string) (model.Issue, error) {
    s := m.s
    s.mu.Lock()
    defer s.mu.Unlock()
    is, ok := s.issues[id]
    if !ok {
        return model.Issue{}, repository.ErrIssueNotFound
    }
    if !model.CanResolveIssue(is.Status) {
        return model.Issue{}, repository.ErrInvalidState
    }
    now := s.tick()
    is.Status = model.IssueStatusResolved
    is.AdminResponse = response
    is.ResolvedAt = &now
    return *is, nil
}

func (m memIssues) view(is *model.Issue) repository.IssueView {
    f := m.s.facilities[is.FacilityID]
    return repository.IssueView{
        ID: is.ID, FacilityID: is.FacilityID, FacilityName: f.Name, FacilityType: f.Type,
        UserID: is.UserID, UserName: m.s.userNames[is.UserID],
        Description: is.Description, Status: is.Status, AdminResponse: is.AdminResponse,
        CreatedAt: is.CreatedAt, ResolvedAt: is.ResolvedAt,
    }
}

func (m memIssues) list(keep func(*model.Issue) bool, newestFirst bool) []repository.IssueView {
    m.s.mu.Lock()
    defer m.s.mu.Unlock()
    out := make([]repository.IssueView, 0, len(m.s.issues))
    for _, is := range m.s.issues {
        if keep(is) {
            out = append(out, m.view(is))
        }
    }
    sort.Slice(out, func(i, j int) bool {
        if newestFirst {
            return out[i].CreatedAt.After(out[j].CreatedAt)
        }
        return out[i].CreatedAt.Before(out[j].CreatedAt)
    })
    return out
}

func (m memIssues) ListByUser(ctx context.Context, userID uint64) ([]repository.IssueView, error) {
    return m.list(func(is *model.Issue) bool { return is.UserID == userID }, true), nil
}

func (m memIssues) ListAll(ctx context.Context) ([]repository.IssueView, error) {
    return m.list(func(*model.Issue) bool { return true }, false), nil
}

func (m memIssues) ListByStatus(ctx context.Context, status string) ([]repository.IssueView, error) {
    return m.list(func(is *model.Issue) bool { return is.Status == status }, false), nil
}

// ----- helpers -----

type fixture struct {
    store    *memStore
    facility *FacilityHandler
    booking  *BookingHandler
    issue    *IssueHandler
    e        *echo.Echo
}

func newFixture(t *testing.T) *fixture {
    t.Helper()
    s := newMemStore()
    s.userNames[1] = "Admin Adams"
    s.userNames[2] = "Staffer Smith"
    s.userNames[3] = "Student Jones"
    s.userNames[4] = "Staffer Brown"
    return &fixture{
        store:    s,
        facility: NewFacilityHandler(s),
        booking:  NewBookingHandler(memBookings{s}, s, ""),
        issue:    NewIssueHandler(memIssues{s}),
        e:        echo.New(),
    }
}

// call builds a request with the given identity in context, runs the
// handler and returns the recorder.  paramID, when non-zero, is bound to
// the :id path parameter.
func (fx *fixture) call(t *testing.T, userID uint64, role, method, target, body string,
    paramID uint64, query string, h echo.HandlerFunc) *httptest.ResponseRecorder {
    t.Helper()
    var reader *strings.Reader
    if body != "" {
        reader = strings.NewReader(body)
    } else {
        reader = strings.NewReader("")
    }
    if query != "" {
        target += "?" + query
    }
    req := httptest.NewRequest(method, target, reader)
    if body != "" {
        req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
    }
    rec := httptest.NewRecorder()
    c := fx.e.NewContext(req, rec)
    if role != "" {
        c.Set("user_id", float64(userID)) // JWT claims decode numbers as float64
        c.Set("role", role)
    }
    if paramID != 0 {
        c.SetParamNames("id")
        c.SetParamValues(strconv.FormatUint(paramID, 10))
    }
    if err := h(c); err != nil {
        t.Fatalf("handler: %v", err)
    }
    return rec
}

func (fx *fixture) addFacility(t *testing.T, name string) uint64 {
    t.Helper()
    body := `{"name":"` + name + `","type":"Auditorium","capacity":100,"acStatus":"AC","description":"","images":[]}`
    rec := fx.call(t, 1, model.RoleAdmin, http.MethodPost, "/v1/facilities", body, 0, "", fx.facility.Create)
    if rec.Code != http.StatusCreated {
        t.Fatalf("create facility: status = %d body=%s", rec.Code, rec.Body.String())
    }
    var f model.Facility
    if err := json.Unmarshal(rec.Body.Bytes(), &f); err != nil {
        t.Fatalf("decode facility: %v", err)
    }
    return f.ID
}

func decodeBooking(t *testing.T, rec *httptest.ResponseRecorder) model.Booking {
    t.Helper()
    var b model.Booking
    if err := json.Unmarshal(rec.Body.Bytes(), &b); err != nil {
        t.Fatalf("decode booking: %v", err)
    }
    return b
}

// ----- scenarios -----

// A staff user books a window, the admin approves it, and a second user's
// overlapping request is rejected with 409.
func TestBookingApproveThenOverlapConflict(t *testing.T) {
    fx := newFixture(t)
    fid := fx.addFacility(t, "Main Auditorium")
    fidStr := strconv.FormatUint(fid, 10)

    rec := fx.call(t, 2, model.RoleStaff, http.MethodPost, "/v1/bookings",
        `{"facilityId":`+fidStr+`,"date":"2024-05-01","timeSlot":"10:00 - 11:00"}`,
        0, "", fx.booking.Request)
    if rec.Code != http.StatusCreated {
        t.Fatalf("request booking: status = %d body=%s", rec.Code, rec.Body.String())
    }
    b := decodeBooking(t, rec)
    if b.Status != model.BookingStatusPending {
        t.Fatalf("new booking status = %q, want Pending", b.Status)
    }

    rec = fx.call(t, 1, model.RoleAdmin, http.MethodPut, "/v1/bookings/"+strconv.FormatUint(b.ID, 10),
        `{"status":"Approved"}`, b.ID, "", fx.booking.Decide)
    if rec.Code != http.StatusOK {
        t.Fatalf("approve: status = %d body=%s", rec.Code, rec.Body.String())
    }
    got := decodeBooking(t, rec)
    if got.Status != model.BookingStatusApproved {
        t.Fatalf("approved booking status = %q", got.Status)
    }
    if !got.UpdatedAt.After(got.CreatedAt) {
        t.Fatalf("updatedAt %v not advanced past createdAt %v by the decision", got.UpdatedAt, got.CreatedAt)
    }

    rec = fx.call(t, 4, model.RoleStaff, http.MethodPost, "/v1/bookings",
        `{"facilityId":`+fidStr+`,"date":"2024-05-01","timeSlot":"10:30 - 11:30"}`,
        0, "", fx.booking.Request)
    if rec.Code != http.StatusConflict {
        t.Fatalf("overlapping request: status = %d, want 409", rec.Code)
    }
}

func TestBookingPendingAlsoBlocksOverlap(t *testing.T) {
    fx := newFixture(t)
    fid := fx.addFacility(t, "Lab A")
    fidStr := strconv.FormatUint(fid, 10)

    rec := fx.call(t, 2, model.RoleStaff, http.MethodPost, "/v1/bookings",
        `{"facilityId":`+fidStr+`,"date":"2024-06-10","timeSlot":"09:00 - 10:00"}`, 0, "", fx.booking.Request)
    if rec.Code != http.StatusCreated {
        t.Fatalf("first request: status = %d", rec.Code)
    }
    // Still Pending, yet the window is occupied.
    rec = fx.call(t, 3, model.RoleStudent, http.MethodPost, "/v1/bookings",
        `{"facilityId":`+fidStr+`,"date":"2024-06-10","timeSlot":"09:30 - 10:30"}`, 0, "", fx.booking.Request)
    if rec.Code != http.StatusConflict {
        t.Fatalf("overlap with pending: status = %d, want 409", rec.Code)
    }
    // A different date is free.
    rec = fx.call(t, 3, model.RoleStudent, http.MethodPost, "/v1/bookings",
        `{"facilityId":`+fidStr+`,"date":"2024-06-11","timeSlot":"09:30 - 10:30"}`, 0, "", fx.booking.Request)
    if rec.Code != http.StatusCreated {
        t.Fatalf("other date: status = %d, want 201", rec.Code)
    }
    // Back-to-back on the same date is free too.
    rec = fx.call(t, 3, model.RoleStudent, http.MethodPost, "/v1/bookings",
        `{"facilityId":`+fidStr+`,"date":"2024-06-10","timeSlot":"10:00 - 11:00"}`, 0, "", fx.booking.Request)
    if rec.Code != http.StatusCreated {
        t.Fatalf("adjacent slot: status = %d, want 201", rec.Code)
    }
}

func TestDeclinedBookingFreesWindow(t *testing.T) {
    fx := newFixture(t)
    fid := fx.addFacility(t, "Study Room")
    fidStr := strconv.FormatUint(fid, 10)

    rec := fx.call(t, 2, model.RoleStaff, http.MethodPost, "/v1/bookings",
        `{"facilityId":`+fidStr+`,"date":"2024-07-01","timeSlot":"14:00 - 15:00"}`, 0, "", fx.booking.Request)
    b := decodeBooking(t, rec)

    fx.call(t, 1, model.RoleAdmin, http.MethodPut, "/v1/bookings/x",
        `{"status":"Declined"}`, b.ID, "", fx.booking.Decide)

    rec = fx.call(t, 3, model.RoleStudent, http.MethodPost, "/v1/bookings",
        `{"facilityId":`+fidStr+`,"date":"2024-07-01","timeSlot":"14:00 - 15:00"}`, 0, "", fx.booking.Request)
    if rec.Code != http.StatusCreated {
        t.Fatalf("slot after decline: status = %d, want 201", rec.Code)
    }
}

func TestDecideIsTerminal(t *testing.T) {
    fx := newFixture(t)
    fid := fx.addFacility(t, "Hall B")
    fidStr := strconv.FormatUint(fid, 10)

    rec := fx.call(t, 2, model.RoleStaff, http.MethodPost, "/v1/bookings",
        `{"facilityId":`+fidStr+`,"date":"2024-08-01","timeSlot":"10:00 - 11:00"}`, 0, "", fx.booking.Request)
    b := decodeBooking(t, rec)

    rec = fx.call(t, 1, model.RoleAdmin, http.MethodPut, "/v1/bookings/x",
        `{"status":"Approved"}`, b.ID, "", fx.booking.Decide)
    if rec.Code != http.StatusOK {
        t.Fatalf("first decision: status = %d", rec.Code)
    }
    // Second decision of any kind must fail with 409 and change nothing.
    rec = fx.call(t, 1, model.RoleAdmin, http.MethodPut, "/v1/bookings/x",
        `{"status":"Declined"}`, b.ID, "", fx.booking.Decide)
    if rec.Code != http.StatusConflict {
        t.Fatalf("second decision: status = %d, want 409", rec.Code)
    }
    if got := fx.store.bookings[b.ID].Status; got != model.BookingStatusApproved {
        t.Fatalf("booking status after rejected re-decision = %q, want Approved", got)
    }
}

// Approving a booking must not auto-decline overlapping pending siblings
// created before the conflict rule would have blocked them (e.g. bookings
// that only overlap the approved one, not each other, can coexist as
// Pending; here we verify approval touches exactly one record).
func TestApprovalDoesNotTouchSiblings(t *testing.T) {
    fx := newFixture(t)
    fidA := fx.addFacility(t, "Hall A")
    fidB := fx.addFacility(t, "Hall C")

    recA := fx.call(t, 2, model.RoleStaff, http.MethodPost, "/v1/bookings",
        `{"facilityId":`+strconv.FormatUint(fidA, 10)+`,"date":"2024-09-01","timeSlot":"10:00 - 11:00"}`, 0, "", fx.booking.Request)
    bA := decodeBooking(t, recA)
    recB := fx.call(t, 3, model.RoleStudent, http.MethodPost, "/v1/bookings",
        `{"facilityId":`+strconv.FormatUint(fidB, 10)+`,"date":"2024-09-01","timeSlot":"10:00 - 11:00"}`, 0, "", fx.booking.Request)
    bB := decodeBooking(t, recB)

    fx.call(t, 1, model.RoleAdmin, http.MethodPut, "/v1/bookings/x",
        `{"status":"Approved"}`, bA.ID, "", fx.booking.Decide)

    if got := fx.store.bookings[bB.ID].Status; got != model.BookingStatusPending {
        t.Fatalf("sibling booking status = %q, want Pending untouched", got)
    }
}

// A staff caller hitting the admin-only decide endpoint is denied and the
// booking is left exactly as it was.
func TestDecideDeniedForStaffNoSideEffect(t *testing.T) {
    fx := newFixture(t)
    fid := fx.addFacility(t, "Hall D")

    rec := fx.call(t, 2, model.RoleStaff, http.MethodPost, "/v1/bookings",
        `{"facilityId":`+strconv.FormatUint(fid, 10)+`,"date":"2024-10-01","timeSlot":"10:00 - 11:00"}`, 0, "", fx.booking.Request)
    b := decodeBooking(t, rec)

    rec = fx.call(t, 2, model.RoleStaff, http.MethodPut, "/v1/bookings/x",
        `{"status":"Approved"}`, b.ID, "", fx.booking.Decide)
    if rec.Code != http.StatusForbidden {
        t.Fatalf("staff decide: status = %d, want 403", rec.Code)
    }
    if got := fx.store.bookings[b.ID].Status; got != model.BookingStatusPending {
        t.Fatalf("booking status after denied decide = %q, want Pending", got)
    }
}

func TestRequestBookingValidation(t *testing.T) {
    fx := newFixture(t)
    fid := fx.addFacility(t, "Hall E")
    fidStr := strconv.FormatUint(fid, 10)

    cases := []struct {
        name     string
        body     string
        wantCode int
    }{
        {name: "unknown facility", body: `{"facilityId":9999,"date":"2024-05-01","timeSlot":"10:00 - 11:00"}`, wantCode: http.StatusNotFound},
        {name: "inverted slot", body: `{"facilityId":` + fidStr + `,"date":"2024-05-01","timeSlot":"11:00 - 10:00"}`, wantCode: http.StatusBadRequest},
        {name: "bad date", body: `{"facilityId":` + fidStr + `,"date":"01-05-2024","timeSlot":"10:00 - 11:00"}`, wantCode: http.StatusBadRequest},
        {name: "missing facility id", body: `{"date":"2024-05-01","timeSlot":"10:00 - 11:00"}`, wantCode: http.StatusBadRequest},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            rec := fx.call(t, 2, model.RoleStaff, http.MethodPost, "/v1/bookings", tc.body, 0, "", fx.booking.Request)
            if rec.Code != tc.wantCode {
                t.Fatalf("status = %d, want %d (body=%s)", rec.Code, tc.wantCode, rec.Body.String())
            }
        })
    }
    if len(fx.store.bookings) != 0 {
        t.Fatalf("rejected requests must create no bookings, have %d", len(fx.store.bookings))
    }
}

// A student reports an issue, it shows under Reported, the admin resolves
// it with a response, and it moves to the Resolved filter.
func TestIssueReportResolveFlow(t *testing.T) {
    fx := newFixture(t)
    fid := fx.addFacility(t, "Physics Lab")

    rec := fx.call(t, 3, model.RoleStudent, http.MethodPost, "/v1/issues",
        `{"facilityId":`+strconv.FormatUint(fid, 10)+`,"description":"AC not working"}`, 0, "", fx.issue.Report)
    if rec.Code != http.StatusCreated {
        t.Fatalf("report: status = %d body=%s", rec.Code, rec.Body.String())
    }
    var is model.Issue
    if err := json.Unmarshal(rec.Body.Bytes(), &is); err != nil {
        t.Fatalf("decode issue: %v", err)
    }
    if is.Status != model.IssueStatusReported {
        t.Fatalf("new issue status = %q", is.Status)
    }

    rec = fx.call(t, 1, model.RoleAdmin, http.MethodGet, "/v1/issues", "", 0, "status=Reported", fx.issue.ListAdmin)
    var reported []repository.IssueView
    if err := json.Unmarshal(rec.Body.Bytes(), &reported); err != nil {
        t.Fatalf("decode reported list: %v", err)
    }
    if len(reported) != 1 || reported[0].ID != is.ID {
        t.Fatalf("reported filter = %+v, want the new issue", reported)
    }

    rec = fx.call(t, 1, model.RoleAdmin, http.MethodPut, "/v1/issues/x/resolve",
        `{"response":"Technician dispatched"}`, is.ID, "", fx.issue.Resolve)
    if rec.Code != http.StatusOK {
        t.Fatalf("resolve: status = %d body=%s", rec.Code, rec.Body.String())
    }
    var resolved model.Issue
    if err := json.Unmarshal(rec.Body.Bytes(), &resolved); err != nil {
        t.Fatalf("decode resolved issue: %v", err)
    }
    if resolved.Status != model.IssueStatusResolved {
        t.Fatalf("resolved status = %q", resolved.Status)
    }
    if resolved.AdminResponse == nil || *resolved.AdminResponse != "Technician dispatched" {
        t.Fatalf("admin response = %v, want attached text", resolved.AdminResponse)
    }

    rec = fx.call(t, 1, model.RoleAdmin, http.MethodGet, "/v1/issues", "", 0, "status=Reported", fx.issue.ListAdmin)
    var stillReported []repository.IssueView
    _ = json.Unmarshal(rec.Body.Bytes(), &stillReported)
    if len(stillReported) != 0 {
        t.Fatalf("reported filter after resolve = %+v, want empty", stillReported)
    }
    rec = fx.call(t, 1, model.RoleAdmin, http.MethodGet, "/v1/issues", "", 0, "status=Resolved", fx.issue.ListAdmin)
    var nowResolved []repository.IssueView
    _ = json.Unmarshal(rec.Body.Bytes(), &nowResolved)
    if len(nowResolved) != 1 || nowResolved[0].ID != is.ID {
        t.Fatalf("resolved filter = %+v, want the issue", nowResolved)
    }

    // Resolving again must fail 409.
    rec = fx.call(t, 1, model.RoleAdmin, http.MethodPut, "/v1/issues/x/resolve", "", is.ID, "", fx.issue.Resolve)
    if rec.Code != http.StatusConflict {
        t.Fatalf("double resolve: status = %d, want 409", rec.Code)
    }
}

func TestIssueValidation(t *testing.T) {
    fx := newFixture(t)
    fid := fx.addFacility(t, "Chem Lab")
    fidStr := strconv.FormatUint(fid, 10)

    rec := fx.call(t, 3, model.RoleStudent, http.MethodPost, "/v1/issues",
        `{"facilityId":`+fidStr+`,"description":"   "}`, 0, "", fx.issue.Report)
    if rec.Code != http.StatusBadRequest {
        t.Fatalf("blank description: status = %d, want 400", rec.Code)
    }
    rec = fx.call(t, 3, model.RoleStudent, http.MethodPost, "/v1/issues",
        `{"facilityId":4242,"description":"broken window"}`, 0, "", fx.issue.Report)
    if rec.Code != http.StatusNotFound {
        t.Fatalf("unknown facility: status = %d, want 404", rec.Code)
    }
    // Admins report through facilities staff, not the API.
    rec = fx.call(t, 1, model.RoleAdmin, http.MethodPost, "/v1/issues",
        `{"facilityId":`+fidStr+`,"description":"leak"}`, 0, "", fx.issue.Report)
    if rec.Code != http.StatusForbidden {
        t.Fatalf("admin report: status = %d, want 403", rec.Code)
    }
    if len(fx.store.issues) != 0 {
        t.Fatalf("rejected reports must create no issues, have %d", len(fx.store.issues))
    }
}

// Invalid facility specs are rejected with 400 and the catalog count is
// unchanged.
func TestCreateFacilityValidation(t *testing.T) {
    fx := newFixture(t)
    fx.addFacility(t, "Existing Hall")

    cases := []string{
        `{"name":"Pool","type":"Auditorium","capacity":-1,"acStatus":"AC"}`,
        `{"name":"","type":"Auditorium","capacity":10,"acStatus":"AC"}`,
        `{"name":"Pool","type":"Swimming Pool","capacity":10,"acStatus":"AC"}`,
    }
    for _, body := range cases {
        rec := fx.call(t, 1, model.RoleAdmin, http.MethodPost, "/v1/facilities", body, 0, "", fx.facility.Create)
        if rec.Code != http.StatusBadRequest {
            t.Fatalf("body %s: status = %d, want 400", body, rec.Code)
        }
    }
    // Non-admin creation is denied before any write.
    rec := fx.call(t, 2, model.RoleStaff, http.MethodPost, "/v1/facilities",
        `{"name":"Annex","type":"Other","capacity":5,"acStatus":"Non-AC"}`, 0, "", fx.facility.Create)
    if rec.Code != http.StatusForbidden {
        t.Fatalf("staff create: status = %d, want 403", rec.Code)
    }
    if len(fx.store.facilities) != 1 {
        t.Fatalf("catalog count = %d, want 1", len(fx.store.facilities))
    }
}

// "My Issues" shows only the caller's own reports, newest first; the scope
// comes from the token, not a request parameter.
func TestIssueListMyScopedAndOrdered(t *testing.T) {
    fx := newFixture(t)
    fid := fx.addFacility(t, "Gym")
    fidStr := strconv.FormatUint(fid, 10)

    for _, seed := range []struct {
        userID uint64
        role   string
        desc   string
    }{
        {3, model.RoleStudent, "broken treadmill"},
        {2, model.RoleStaff, "flickering lights"},
        {3, model.RoleStudent, "leaking roof"},
        {3, model.RoleStudent, "jammed door"},
    } {
        rec := fx.call(t, seed.userID, seed.role, http.MethodPost, "/v1/issues",
            `{"facilityId":`+fidStr+`,"description":"`+seed.desc+`"}`, 0, "", fx.issue.Report)
        if rec.Code != http.StatusCreated {
            t.Fatalf("seed issue %q: status = %d", seed.desc, rec.Code)
        }
    }

    rec := fx.call(t, 3, model.RoleStudent, http.MethodGet, "/v1/issues/my", "", 0, "", fx.issue.ListMy)
    if rec.Code != http.StatusOK {
        t.Fatalf("list my issues: status = %d", rec.Code)
    }
    var mine []repository.IssueView
    if err := json.Unmarshal(rec.Body.Bytes(), &mine); err != nil {
        t.Fatalf("decode my issues: %v", err)
    }
    if len(mine) != 3 {
        t.Fatalf("my issues = %d, want 3 (the staff report must not leak in)", len(mine))
    }
    for i, is := range mine {
        if is.UserID != 3 {
            t.Fatalf("issue %d belongs to user %d, want caller only", is.ID, is.UserID)
        }
        if i > 0 && mine[i].CreatedAt.After(mine[i-1].CreatedAt) {
            t.Fatal("my issues must be newest first")
        }
    }
    if mine[0].Description != "jammed door" {
        t.Fatalf("newest issue = %q, want the last one filed", mine[0].Description)
    }

    // Admins read issues through the report listing, not the own-scope view.
    rec = fx.call(t, 1, model.RoleAdmin, http.MethodGet, "/v1/issues/my", "", 0, "", fx.issue.ListMy)
    if rec.Code != http.StatusForbidden {
        t.Fatalf("admin ListMy: status = %d, want 403", rec.Code)
    }
}

// "My" listings are newest first; the admin report listing is oldest first
// and joined with facility and requester names.
func TestListingOrderAndJoin(t *testing.T) {
    fx := newFixture(t)
    fid := fx.addFacility(t, "Joined Hall")
    fidStr := strconv.FormatUint(fid, 10)

    for _, slot := range []string{"08:00 - 09:00", "09:00 - 10:00", "10:00 - 11:00"} {
        rec := fx.call(t, 2, model.RoleStaff, http.MethodPost, "/v1/bookings",
            `{"facilityId":`+fidStr+`,"date":"2024-05-02","timeSlot":"`+slot+`"}`, 0, "", fx.booking.Request)
        if rec.Code != http.StatusCreated {
            t.Fatalf("seed booking %s: status = %d", slot, rec.Code)
        }
    }

    rec := fx.call(t, 2, model.RoleStaff, http.MethodGet, "/v1/bookings/my", "", 0, "", fx.booking.ListMy)
    var mine []repository.BookingView
    if err := json.Unmarshal(rec.Body.Bytes(), &mine); err != nil {
        t.Fatalf("decode my bookings: %v", err)
    }
    if len(mine) != 3 {
        t.Fatalf("my bookings = %d, want 3", len(mine))
    }
    for i := 1; i < len(mine); i++ {
        if mine[i].CreatedAt.After(mine[i-1].CreatedAt) {
            t.Fatal("my bookings must be newest first")
        }
    }
    if mine[0].FacilityName != "Joined Hall" || mine[0].UserName != "Staffer Smith" {
        t.Fatalf("join = (%q, %q), want facility and requester names", mine[0].FacilityName, mine[0].UserName)
    }

    rec = fx.call(t, 1, model.RoleAdmin, http.MethodGet, "/v1/bookings", "", 0, "", fx.booking.ListAll)
    var all []repository.BookingView
    if err := json.Unmarshal(rec.Body.Bytes(), &all); err != nil {
        t.Fatalf("decode all bookings: %v", err)
    }
    for i := 1; i < len(all); i++ {
        if all[i].CreatedAt.Before(all[i-1].CreatedAt) {
            t.Fatal("admin booking report must be oldest first")
        }
    }

    // Read listings are role-gated in the handler as well as the router.
    rec = fx.call(t, 3, model.RoleStudent, http.MethodGet, "/v1/bookings", "", 0, "", fx.booking.ListAll)
    if rec.Code != http.StatusForbidden {
        t.Fatalf("student ListAll: status = %d, want 403", rec.Code)
    }
    rec = fx.call(t, 1, model.RoleAdmin, http.MethodGet, "/v1/bookings/my", "", 0, "", fx.booking.ListMy)
    if rec.Code != http.StatusForbidden {
        t.Fatalf("admin ListMy: status = %d, want 403", rec.Code)
    }
}
