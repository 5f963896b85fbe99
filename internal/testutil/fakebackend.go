package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/turnity/turnity/internal/domain"
	"github.com/turnity/turnity/internal/turnityapi"
)

// FakeBackend is an in-memory Turnity API served over httptest. Fields may be
// set before requests are made; Fail injects an HTTP status per path prefix.
type FakeBackend struct {
	Server *httptest.Server

	mu sync.Mutex

	Weeks        []domain.Week
	WeeksByMonth map[string][]domain.Week
	Stored       map[string][]turnityapi.WeeklyShiftsDTO

	Hours        []string
	ShiftsByHour map[string][]domain.ShiftDefinition
	BreaksByCode map[string][]string

	Employees   []domain.EmployeeRef
	Stores      []domain.Store
	Departments map[string][]domain.Department

	User           domain.User
	Password       string
	Token          string
	LoginOmitsUser bool

	// CreateHandler overrides the default create behaviour, which records
	// the request and answers created = number of day records.
	CreateHandler func(req turnityapi.CreateShiftsRequest) (int, any)
	Created       []turnityapi.CreateShiftsRequest

	Fail     map[string]int
	Requests []string
}

// NewFakeBackend starts a fake backend seeded with one store, one
// department, two employees, and the June 2024 partition.
func NewFakeBackend(t *testing.T) *FakeBackend {
	t.Helper()
	f := &FakeBackend{
		Weeks:  JuneWeeks(),
		Stored: map[string][]turnityapi.WeeklyShiftsDTO{},
		Hours:  []string{"DESCANSO - X", "8", "6", "VACACIONES", "INCAPACIDAD", "CUMPLEAÑOS"},
		ShiftsByHour: map[string][]domain.ShiftDefinition{
			"8": {NewTestShiftDef("M8", "06:00:00", 8), NewTestShiftDef("T8", "14:00:00", 8)},
			"6": {NewTestShiftDef("M6", "07:00:00", 6)},
		},
		BreaksByCode: map[string][]string{
			"M8": {"00:30:00", "01:00:00"},
			"T8": {"01:00:00"},
			"M6": {"00:15:00"},
		},
		Employees: []domain.EmployeeRef{
			NewTestEmployee("100", "Ana Gómez", WithContracted(46)),
			NewTestEmployee("200", "Luis Pérez", WithContracted(36)),
			NewTestEmployee("300", "Otra Tienda", WithScope(domain.Store{ID: "S2", Name: "Norte"}, TestDepartment)),
		},
		Stores:      []domain.Store{TestStore, {ID: "S2", Name: "Norte"}},
		Departments: map[string][]domain.Department{TestStore.ID: {TestDepartment}},
		User:        NewTestUser("1001", domain.RoleManager),
		Password:    "secret",
		Token:       "tok-fake",
		Fail:        map[string]int{},
	}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Server.Close)
	return f
}

// URL is the API root to hand to turnityapi.New.
func (f *FakeBackend) URL() string { return f.Server.URL }

// Client returns an API client bound to the fake with a fixed token.
func (f *FakeBackend) Client(token string) *turnityapi.Client {
	return turnityapi.New(turnityapi.Options{
		BaseURL: f.URL(),
		Timeout: 2 * time.Second,
		Tokens:  turnityapi.TokenFunc(func() string { return token }),
	})
}

// SetFail makes every request whose path starts with prefix answer status.
// A zero status removes the injection.
func (f *FakeBackend) SetFail(prefix string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if status == 0 {
		delete(f.Fail, prefix)
		return
	}
	f.Fail[prefix] = status
}

// Store records a stored week for an employee.
func (f *FakeBackend) Store(employeeID string, week turnityapi.WeeklyShiftsDTO) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Stored[employeeID] = append(f.Stored[employeeID], week)
}

// RequestCount counts recorded requests whose "METHOD /path" starts with prefix.
func (f *FakeBackend) RequestCount(prefix string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, r := range f.Requests {
		if strings.HasPrefix(r, prefix) {
			n++
		}
	}
	return n
}

// LastCreate returns the most recent create request.
func (f *FakeBackend) LastCreate() (turnityapi.CreateShiftsRequest, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Created) == 0 {
		return turnityapi.CreateShiftsRequest{}, false
	}
	return f.Created[len(f.Created)-1], true
}

func (f *FakeBackend) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Requests = append(f.Requests, r.Method+" "+r.URL.Path)
	for prefix, status := range f.Fail {
		if strings.HasPrefix(r.URL.Path, prefix) {
			writeJSON(w, status, map[string]string{"message": "injected failure"})
			return
		}
	}

	body, _ := io.ReadAll(r.Body)
	path := r.URL.Path
	switch {
	case path == "/employeeshift/generate-weeks":
		f.generateWeeks(w, body)
	case path == "/employeeshift/by-employee-list/":
		f.employeeShifts(w, body)
	case path == "/employeeshift/create":
		f.create(w, body)
	case path == "/shifts/list/":
		writeJSON(w, http.StatusOK, f.Hours)
	case strings.HasPrefix(path, "/shifts/by-hours/"):
		f.shiftsByHours(w, strings.TrimPrefix(path, "/shifts/by-hours/"))
	case strings.HasPrefix(path, "/shifts/breaks/"):
		writeJSON(w, http.StatusOK, map[string]any{"breaks": f.BreaksByCode[strings.TrimPrefix(path, "/shifts/breaks/")]})
	case path == "/users/login/":
		f.login(w, body)
	case path == "/users/me":
		f.me(w, r)
	case strings.HasPrefix(path, "/users/"):
		f.userScoped(w, strings.Split(strings.Trim(path, "/"), "/"))
	case path == "/employeeDep":
		f.employees(w)
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "no route " + path})
	}
}

func (f *FakeBackend) generateWeeks(w http.ResponseWriter, body []byte) {
	var req struct {
		Date string `json:"date"`
	}
	if err := json.Unmarshal(body, &req); err != nil || len(req.Date) < 7 {
		writeJSON(w, http.StatusOK, map[string]any{"success": false, "message": "invalid date"})
		return
	}
	weeks := f.Weeks
	if byMonth, ok := f.WeeksByMonth[req.Date[:7]]; ok {
		weeks = byMonth
	}
	out := make([]turnityapi.WeekDTO, 0, len(weeks))
	for _, wk := range weeks {
		out = append(out, turnityapi.WeekDTO{Start: domain.FormatDate(wk.Start), End: domain.FormatDate(wk.End)})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    map[string]any{"weeks": map[string]any{"weeks": out}},
	})
}

func (f *FakeBackend) employeeShifts(w http.ResponseWriter, body []byte) {
	var req turnityapi.EmployeeShiftsRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
		return
	}
	out := []turnityapi.EmployeeShiftsDTO{}
	for _, id := range req.Employees {
		weeks, ok := f.Stored[id]
		if !ok {
			continue
		}
		out = append(out, turnityapi.EmployeeShiftsDTO{Employee: turnityapi.FlexString(id), WeeklyShifts: weeks})
	}
	writeJSON(w, http.StatusOK, map[string]any{"employeeShifts": out})
}

func (f *FakeBackend) create(w http.ResponseWriter, body []byte) {
	var req turnityapi.CreateShiftsRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
		return
	}
	f.Created = append(f.Created, req)
	if f.CreateHandler != nil {
		status, resp := f.CreateHandler(req)
		writeJSON(w, status, resp)
		return
	}
	days := 0
	for _, e := range req.EmployeeShifts {
		for _, wk := range e.WeeklyShifts {
			days += len(wk.Shifts)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"results": map[string]int{"created": days, "updated": 0, "skipped": 0},
		"errors":  []any{},
	})
}

func (f *FakeBackend) shiftsByHours(w http.ResponseWriter, hour string) {
	out := []map[string]any{}
	for _, d := range f.ShiftsByHour[hour] {
		out = append(out, map[string]any{
			"code_shift":   d.Code,
			"initial_hour": d.StartTime,
			"end_hour":     d.EndTime,
			"hours":        d.Hours,
			"break":        d.Break,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (f *FakeBackend) login(w http.ResponseWriter, body []byte) {
	var req struct {
		Identifier string `json:"identifier"`
		Password   string `json:"password"`
	}
	_ = json.Unmarshal(body, &req)
	if req.Identifier != f.User.Document || req.Password != f.Password {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "credenciales inválidas"})
		return
	}
	resp := map[string]any{"token": f.Token}
	if !f.LoginOmitsUser {
		resp["user"] = userJSON(f.User)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (f *FakeBackend) me(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Authorization") != "Bearer "+f.Token {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "unauthorized"})
		return
	}
	writeJSON(w, http.StatusOK, userJSON(f.User))
}

// userScoped serves /users/{doc}/stores and /users/{doc}/stores/{id}/departments.
func (f *FakeBackend) userScoped(w http.ResponseWriter, parts []string) {
	switch {
	case len(parts) == 3 && parts[2] == "stores":
		out := []map[string]any{}
		for _, s := range f.Stores {
			out = append(out, map[string]any{"id_store": s.ID, "name_store": s.Name})
		}
		writeJSON(w, http.StatusOK, out)
	case len(parts) == 5 && parts[2] == "stores" && parts[4] == "departments":
		out := []map[string]any{}
		for _, d := range f.Departments[parts[3]] {
			out = append(out, map[string]any{"id_department": d.ID, "name_department": d.Name})
		}
		writeJSON(w, http.StatusOK, out)
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "no route"})
	}
}

func (f *FakeBackend) employees(w http.ResponseWriter) {
	out := []map[string]any{}
	for _, e := range f.Employees {
		out = append(out, map[string]any{
			"number_document": e.ID,
			"full_name":       e.FullName,
			"working_day":     e.ContractedWeeklyHours,
			"name_position":   e.Position,
			"id_store":        e.StoreID,
			"name_store":      e.StoreName,
			"id_department":   e.DepartmentID,
			"name_department": e.DepartmentName,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func userJSON(u domain.User) map[string]any {
	return map[string]any{
		"number_document": u.Document,
		"full_name":       u.FullName,
		"email":           u.Email,
		"roles":           u.Roles,
		"isAdmin":         u.IsAdmin,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
