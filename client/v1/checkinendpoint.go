package v1

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// ErrGuestNotFound distinguishes an unknown scan code from a transport
// failure; the scanner must not fall back to the relay for it.
var ErrGuestNotFound = errors.New("guest not found")

type CheckinEndpoint struct {
	transport *Transport
}

type CheckInRequest struct {
	ScanCode   string  `json:"scan_code"`
	DeviceInfo *string `json:"device_info,omitempty"`
	Location   *string `json:"location,omitempty"`
	Notes      *string `json:"notes,omitempty"`
}

type GuestResult struct {
	ID                  uint       `json:"id"`
	ScanCode            string     `json:"scan_code"`
	Name                string     `json:"name"`
	Email               *string    `json:"email"`
	Company             *string    `json:"company"`
	Category            *string    `json:"category"`
	TableNumber         *int       `json:"table_number"`
	SpecialRequirements *string    `json:"special_requirements"`
	HasAttended         bool       `json:"has_attended"`
	CheckInTime         *time.Time `json:"check_in_time"`
	LastCheckIn         *time.Time `json:"last_check_in"`
	IsDuplicate         bool       `json:"is_duplicate"`
}

type CheckInResult struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Guest   GuestResult `json:"guest"`
}

// CheckIn submits one check-in attempt. A non-success body (unknown guest,
// missing code) comes back as an error carrying the server's message.
func (ep *CheckinEndpoint) CheckIn(ctx context.Context, req CheckInRequest) (*CheckInResult, error) {
	res, err := ep.transport.Post(ctx, "/api/check-in", req)
	if err != nil {
		return nil, err
	}

	if res.StatusCode == http.StatusNotFound {
		return nil, ErrGuestNotFound
	}

	var result CheckInResult
	if err := json.Unmarshal(res.Data, &result); err != nil {
		return nil, err
	}
	if !result.Success {
		return nil, fmt.Errorf("check-in rejected: %s", result.Message)
	}
	return &result, nil
}

type GuestStatusResult struct {
	Success bool        `json:"success"`
	Guest   GuestResult `json:"guest"`
}

// Guest fetches a guest's profile and attendance status without registering
// a check-in.
func (ep *CheckinEndpoint) Guest(ctx context.Context, scanCode string) (*GuestResult, error) {
	res, err := ep.transport.Get(ctx, "/api/guest/"+url.PathEscape(scanCode), nil)
	if err != nil {
		return nil, err
	}

	if res.StatusCode == http.StatusNotFound {
		return nil, ErrGuestNotFound
	}

	var result GuestStatusResult
	if err := json.Unmarshal(res.Data, &result); err != nil {
		return nil, err
	}
	if !result.Success {
		return nil, fmt.Errorf("guest lookup failed")
	}
	return &result.Guest, nil
}

type Stats struct {
	TotalGuests     int64   `json:"total_guests"`
	AttendedGuests  int64   `json:"attended_guests"`
	TodayAttendance int64   `json:"today_attendance"`
	AttendanceRate  float64 `json:"attendance_rate"`
}

type StatsResult struct {
	Success bool  `json:"success"`
	Stats   Stats `json:"stats"`
}

func (ep *CheckinEndpoint) Stats(ctx context.Context) (*Stats, error) {
	res, err := ep.transport.Get(ctx, "/api/stats", nil)
	if err != nil {
		return nil, err
	}

	var result StatsResult
	if err := json.Unmarshal(res.Data, &result); err != nil {
		return nil, err
	}
	if !result.Success {
		return nil, fmt.Errorf("stats request failed")
	}
	return &result.Stats, nil
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

type ListGuestsResult struct {
	Success    bool          `json:"success"`
	Guests     []GuestResult `json:"guests"`
	Pagination Pagination    `json:"pagination"`
}

// ListGuests searches the directory; attendance is all, attended or pending.
func (ep *CheckinEndpoint) ListGuests(ctx context.Context, search, attendance string, page, limit int) (*ListGuestsResult, error) {
	query := map[string]string{}
	if search != "" {
		query["search"] = search
	}
	if attendance != "" {
		query["attendance"] = attendance
	}
	if page > 0 {
		query["page"] = strconv.Itoa(page)
	}
	if limit > 0 {
		query["limit"] = strconv.Itoa(limit)
	}

	res, err := ep.transport.Get(ctx, "/api/guests", query)
	if err != nil {
		return nil, err
	}

	var result ListGuestsResult
	if err := json.Unmarshal(res.Data, &result); err != nil {
		return nil, err
	}
	if !result.Success {
		return nil, fmt.Errorf("guest search failed")
	}
	return &result, nil
}
