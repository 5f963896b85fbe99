package turnityapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/turnity/turnity/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	events []CallEvent
}

func (o *recordingObserver) OnCallComplete(e CallEvent) { o.events = append(o.events, e) }

func newTestClient(t *testing.T, h http.HandlerFunc, opts ...func(*Options)) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	o := Options{BaseURL: srv.URL, Timeout: 2 * time.Second, Observer: NoopObserver{}}
	for _, fn := range opts {
		fn(&o)
	}
	return New(o)
}

func TestGenerateWeeks_Success(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/employeeshift/generate-weeks", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "2025-06-15", body["date"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"data":{"weeks":{"weeks":[
			{"start":"2025-06-02","end":"2025-06-08"},
			{"start":"2025-06-09","end":"2025-06-15"}]}}}`))
	})

	weeks, err := c.GenerateWeeks(context.Background(), time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, weeks, 2)
	assert.Equal(t, "2025-06-09", domain.FormatDate(weeks[1].Start))
}

func TestGenerateWeeks_UnsuccessfulBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"message":"invalid date"}`))
	})

	_, err := c.GenerateWeeks(context.Background(), time.Now())
	var be *BackendError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, "invalid date", be.Message)
}

func TestClient_SendsAuthAndRequestID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		w.Write([]byte(`["8","6","VACACIONES",4]`))
	}, func(o *Options) {
		o.Tokens = TokenFunc(func() string { return "tok-123" })
	})

	hours, err := c.HourBuckets(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"8", "6", "VACACIONES", "4"}, hours)
}

func TestClient_NoTokenNoHeader(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.Write([]byte(`[]`))
	}, func(o *Options) {
		o.Tokens = TokenFunc(func() string { return "" })
	})
	_, err := c.HourBuckets(context.Background())
	require.NoError(t, err)
}

func TestClient_UnauthorizedRunsHook(t *testing.T) {
	var cleared atomic.Bool
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}, func(o *Options) {
		o.OnUnauthorized = func() { cleared.Store(true) }
	})

	_, err := c.Me(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.True(t, cleared.Load())
}

func TestClient_BackendErrorMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message":"database down"}`))
	})

	_, err := c.ShiftsByHours(context.Background(), "8")
	var be *BackendError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, http.StatusInternalServerError, be.Status)
	assert.Equal(t, "database down", be.Message)
	assert.Contains(t, err.Error(), "database down")
}

func TestClient_NetworkError(t *testing.T) {
	c := New(Options{BaseURL: "http://127.0.0.1:1", Timeout: time.Second})
	_, err := c.HourBuckets(context.Background())
	assert.ErrorIs(t, err, ErrNetwork)
	assert.True(t, IsNetwork(err))
}

func TestClient_DecodeError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{not json`))
	})
	_, err := c.Breaks(context.Background(), "T801")
	assert.ErrorIs(t, err, ErrDecode)
}

func TestClient_ObserverSeesEveryCall(t *testing.T) {
	obs := &recordingObserver{}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/shifts/list/" {
			w.Write([]byte(`[]`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}, func(o *Options) { o.Observer = obs })

	_, _ = c.HourBuckets(context.Background())
	_, _ = c.Breaks(context.Background(), "nope")

	require.Len(t, obs.events, 2)
	assert.Equal(t, "", obs.events[0].ErrorCode)
	assert.Equal(t, http.StatusOK, obs.events[0].Status)
	assert.Equal(t, "HTTP_404", obs.events[1].ErrorCode)
	assert.NotEqual(t, obs.events[0].RequestID, obs.events[1].RequestID)
}

func TestShiftsByHours_EscapesAndMaps(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/shifts/by-hours/8", r.URL.Path)
		w.Write([]byte(`[{"code_shift":"T801","initial_hour":"07:00:00","end_hour":"16:00:00","hours":"8"}]`))
	})
	defs, err := c.ShiftsByHours(context.Background(), "8")
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.Equal(t, domain.ShiftDefinition{Code: "T801", StartTime: "07:00:00", EndTime: "16:00:00", Hours: 8}, defs[0])
}

func TestBreaks(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/shifts/breaks/T801", r.URL.Path)
		w.Write([]byte(`{"breaks":["00:30:00","01:00:00"]}`))
	})
	brks, err := c.Breaks(context.Background(), "T801")
	require.NoError(t, err)
	assert.Equal(t, []string{"00:30:00", "01:00:00"}, brks)
}

func TestEmployeeShifts_DecodesNumericIDs(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req EmployeeShiftsRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []string{"123"}, req.Employees)
		assert.Equal(t, 2, req.NumWeeks)
		w.Write([]byte(`{"employeeShifts":[{"employee":123,"weeklyShifts":[
			{"week":1,"working_day":"36","shifts":[{"date":"2025-06-02","turn":"VACACIONES","hours":6}]}]}]}`))
	})

	sets, err := c.EmployeeShifts(context.Background(), EmployeeShiftsRequest{
		Employees: []string{"123"}, StartDate: "2025-06-02", EndDate: "2025-06-15", NumWeeks: 2,
	})
	require.NoError(t, err)
	require.Len(t, sets, 1)
	assert.Equal(t, FlexString("123"), sets[0].Employee)
	assert.Equal(t, FlexFloat(36), sets[0].WeeklyShifts[0].WorkingDay)
	assert.Equal(t, "VACACIONES", sets[0].WeeklyShifts[0].Shifts[0].Record().Turn)
}

func TestCreateEmployeeShifts_StructuredFailureOnError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"results":{"created":0,"updated":0,"skipped":0},
			"errors":[{"id_employee":123,"message":"conflict","type":"warning"}]}`))
	})

	resp, err := c.CreateEmployeeShifts(context.Background(), CreateShiftsRequest{StoreID: "1"})
	require.NoError(t, err)
	incidents := resp.Incidents()
	require.Len(t, incidents, 1)
	assert.Equal(t, "123", incidents[0].EmployeeID)
	assert.Equal(t, domain.SeverityWarning, incidents[0].Severity)
}

func TestCreateEmployeeShifts_MalformedResultsOnError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"results":"partial","errors":[]}`))
	})

	resp, err := c.CreateEmployeeShifts(context.Background(), CreateShiftsRequest{StoreID: "1"})
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrDecode)
}

func TestCreateEmployeeShifts_PlainBackendError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`upstream down`))
	})
	_, err := c.CreateEmployeeShifts(context.Background(), CreateShiftsRequest{})
	var be *BackendError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, "upstream down", be.Message)
}

func TestLogin_MapsUser(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "1001", body["identifier"])
		w.Write([]byte(`{"token":"abc","user":{"number_document":1001,"full_name":"Ana","roles":["Jefe"],"stores":[7]}}`))
	})

	res, err := c.Login(context.Background(), "1001", "secret")
	require.NoError(t, err)
	assert.Equal(t, "abc", res.Token)
	require.NotNil(t, res.User)
	assert.Equal(t, "1001", res.User.Document)
	assert.Equal(t, []string{"7"}, res.User.Stores)
}

func TestStoresDepartmentsEmployees(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/users/1001/stores":
			w.Write([]byte(`[{"id_store":1,"name_store":"Centro"}]`))
		case "/users/1001/stores/1/departments":
			w.Write([]byte(`[{"id_department":4,"name_department":"Cajas"}]`))
		case "/employeeDep":
			w.Write([]byte(`[{"number_document":"55","full_name":"Luis","working_day":46,"name_position":"Cajero","id_store":1,"id_department":4}]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	ctx := context.Background()

	stores, err := c.Stores(ctx, "1001")
	require.NoError(t, err)
	assert.Equal(t, []domain.Store{{ID: "1", Name: "Centro"}}, stores)

	deps, err := c.Departments(ctx, "1001", "1")
	require.NoError(t, err)
	assert.Equal(t, []domain.Department{{ID: "4", Name: "Cajas"}}, deps)

	emps, err := c.Employees(ctx)
	require.NoError(t, err)
	require.Len(t, emps, 1)
	assert.Equal(t, 46.0, emps[0].ContractedWeeklyHours)
	assert.Equal(t, "4", emps[0].DepartmentID)
}
