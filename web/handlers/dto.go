package handlers

import (
	"time"

	"eventgate.io/eventgate/core"
	"eventgate.io/eventgate/model"
)

type GuestPayload struct {
	ID                  uint       `json:"id"`
	ScanCode            string     `json:"scan_code"`
	Name                string     `json:"name"`
	Email               *string    `json:"email"`
	Phone               *string    `json:"phone"`
	Company             *string    `json:"company"`
	Category            *string    `json:"category"`
	TableNumber         *int       `json:"table_number"`
	SpecialRequirements *string    `json:"special_requirements"`
	HasAttended         bool       `json:"has_attended"`
	CheckInTime         *time.Time `json:"check_in_time,omitempty"`
	LastCheckIn         *time.Time `json:"last_check_in,omitempty"`
	IsDuplicate         bool       `json:"is_duplicate"`
}

type GuestResponse struct {
	Success bool         `json:"success"`
	Guest   GuestPayload `json:"guest"`
}

type CheckInResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Guest   GuestPayload `json:"guest"`
}

type StatsResponse struct {
	Success bool       `json:"success"`
	Stats   core.Stats `json:"stats"`
}

type ListGuestsResponse struct {
	Success    bool                 `json:"success"`
	Guests     []core.GuestListItem `json:"guests"`
	Pagination core.Pagination      `json:"pagination"`
}

func newGuestPayload(g model.Guest) GuestPayload {
	return GuestPayload{
		ID:                  g.ID,
		ScanCode:            g.ScanCode,
		Name:                g.Name,
		Email:               g.Email,
		Phone:               g.Phone,
		Company:             g.Company,
		Category:            g.Category,
		TableNumber:         g.TableNumber,
		SpecialRequirements: g.SpecialRequirements,
	}
}

func newOutcomePayload(o *core.Outcome) GuestPayload {
	p := newGuestPayload(o.Guest)
	p.HasAttended = true
	t := o.CheckInTime
	p.CheckInTime = &t
	p.LastCheckIn = &t
	p.IsDuplicate = o.Duplicate
	return p
}

func strptr(s string) *string { return &s }
