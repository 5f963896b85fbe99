package turnityapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/turnity/turnity/internal/domain"
)

// GenerateWeeks asks the backend for the weeks covering ref's month.
func (c *Client) GenerateWeeks(ctx context.Context, ref time.Time) ([]domain.Week, error) {
	var resp generateWeeksResponse
	err := c.do(ctx, http.MethodPost, "/employeeshift/generate-weeks",
		generateWeeksRequest{Date: domain.FormatDate(ref)}, &resp)
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, &BackendError{Status: http.StatusOK, Message: domain.CoalesceStr(resp.Message, "week generation failed")}
	}

	weeks := make([]domain.Week, 0, len(resp.Data.Weeks.Weeks))
	for i, w := range resp.Data.Weeks.Weeks {
		start, err := domain.ParseDate(w.Start)
		if err != nil {
			return nil, fmt.Errorf("%w: week %d: %v", ErrDecode, i+1, err)
		}
		end, err := domain.ParseDate(w.End)
		if err != nil {
			return nil, fmt.Errorf("%w: week %d: %v", ErrDecode, i+1, err)
		}
		weeks = append(weeks, domain.Week{Start: start, End: end})
	}
	return weeks, nil
}

// EmployeeShifts fetches previously stored shifts for a roster and range.
func (c *Client) EmployeeShifts(ctx context.Context, req EmployeeShiftsRequest) ([]EmployeeShiftsDTO, error) {
	var resp employeeShiftsResponse
	if err := c.do(ctx, http.MethodPost, "/employeeshift/by-employee-list/", req, &resp); err != nil {
		return nil, err
	}
	return resp.EmployeeShifts, nil
}

// CreateEmployeeShifts submits a full month payload. A non-2xx response whose
// body still carries results or errors is returned as a response, not an
// error, so callers can surface the incidents.
func (c *Client) CreateEmployeeShifts(ctx context.Context, req CreateShiftsRequest) (*CreateShiftsResponse, error) {
	var resp CreateShiftsResponse
	err := c.do(ctx, http.MethodPost, "/employeeshift/create", req, &resp)
	if err == nil {
		return &resp, nil
	}

	var be *BackendError
	if errors.As(err, &be) && len(be.Body) > 0 {
		var structured struct {
			CreateShiftsResponse
			Results json.RawMessage `json:"results"`
		}
		if jerr := json.Unmarshal(be.Body, &structured); jerr == nil &&
			(len(structured.Errors) > 0 || len(structured.Results) > 0) {
			out := structured.CreateShiftsResponse
			if len(structured.Results) > 0 {
				if jerr := json.Unmarshal(structured.Results, &out.Results); jerr != nil {
					return nil, fmt.Errorf("%w: create results: %v", ErrDecode, jerr)
				}
			}
			return &out, nil
		}
	}
	return nil, err
}

// HourBuckets lists the hour tokens, special-leave tokens included.
func (c *Client) HourBuckets(ctx context.Context) ([]string, error) {
	var raw []json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/shifts/list/", nil, &raw); err != nil {
		return nil, err
	}
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		if s, ok := tokenString(r); ok && strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out, nil
}

// ShiftsByHours lists the timed shifts valid for an hour bucket.
func (c *Client) ShiftsByHours(ctx context.Context, hour string) ([]domain.ShiftDefinition, error) {
	var raw []shiftDefinitionDTO
	if err := c.do(ctx, http.MethodGet, "/shifts/by-hours/"+url.PathEscape(hour), nil, &raw); err != nil {
		return nil, err
	}
	out := make([]domain.ShiftDefinition, 0, len(raw))
	for _, d := range raw {
		out = append(out, domain.ShiftDefinition{
			Code:      string(d.CodeShift),
			StartTime: d.InitialHour,
			EndTime:   d.EndHour,
			Hours:     int(d.Hours),
			Break:     d.Break,
		})
	}
	return out, nil
}

// Breaks lists the break options for a shift code.
func (c *Client) Breaks(ctx context.Context, code string) ([]string, error) {
	var resp breaksResponse
	if err := c.do(ctx, http.MethodGet, "/shifts/breaks/"+url.PathEscape(code), nil, &resp); err != nil {
		return nil, err
	}
	out := make([]string, 0, len(resp.Breaks))
	for _, r := range resp.Breaks {
		if s, ok := tokenString(r); ok {
			out = append(out, s)
		}
	}
	return out, nil
}

// Login exchanges credentials for a token.
func (c *Client) Login(ctx context.Context, identifier, password string) (*LoginResult, error) {
	var resp loginResponse
	if err := c.do(ctx, http.MethodPost, "/users/login/", loginRequest{Identifier: identifier, Password: password}, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, fmt.Errorf("%w: login response has no token", ErrDecode)
	}
	res := &LoginResult{Token: resp.Token}
	if resp.User != nil {
		u := resp.User.user()
		res.User = &u
	}
	return res, nil
}

// Me returns the user the current token belongs to.
func (c *Client) Me(ctx context.Context) (*domain.User, error) {
	var u userDTO
	if err := c.do(ctx, http.MethodGet, "/users/me", nil, &u); err != nil {
		return nil, err
	}
	out := u.user()
	return &out, nil
}

// Stores lists the stores a user may schedule.
func (c *Client) Stores(ctx context.Context, document string) ([]domain.Store, error) {
	var raw []storeDTO
	if err := c.do(ctx, http.MethodGet, "/users/"+url.PathEscape(document)+"/stores", nil, &raw); err != nil {
		return nil, err
	}
	out := make([]domain.Store, 0, len(raw))
	for _, s := range raw {
		out = append(out, domain.Store{ID: string(s.ID), Name: s.Name})
	}
	return out, nil
}

// Departments lists a store's departments visible to the user.
func (c *Client) Departments(ctx context.Context, document, storeID string) ([]domain.Department, error) {
	var raw []departmentDTO
	path := "/users/" + url.PathEscape(document) + "/stores/" + url.PathEscape(storeID) + "/departments"
	if err := c.do(ctx, http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}
	out := make([]domain.Department, 0, len(raw))
	for _, d := range raw {
		out = append(out, domain.Department{
			ID:   domain.CoalesceStr(string(d.ID), string(d.LinkID)),
			Name: d.Name,
		})
	}
	return out, nil
}

// Employees lists every employee-department assignment.
func (c *Client) Employees(ctx context.Context) ([]domain.EmployeeRef, error) {
	var raw []employeeDTO
	if err := c.do(ctx, http.MethodGet, "/employeeDep", nil, &raw); err != nil {
		return nil, err
	}
	out := make([]domain.EmployeeRef, 0, len(raw))
	for _, e := range raw {
		out = append(out, e.employee())
	}
	return out, nil
}
