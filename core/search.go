package core

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

type AttendanceFilter string

const (
	FilterAll      AttendanceFilter = "all"
	FilterAttended AttendanceFilter = "attended"
	FilterPending  AttendanceFilter = "pending"
)

const (
	DefaultPageSize = 50
	MaxPageSize     = 200
)

type SearchParams struct {
	Search     string
	Attendance AttendanceFilter
	Page       int
	Limit      int
}

// GuestListItem is one row of the listing: the guest plus its attendance
// state, produced by a single LEFT JOIN read so the state cannot flip
// between the page query and a follow-up.
type GuestListItem struct {
	ID                  uint       `gorm:"column:id" json:"id"`
	ScanCode            string     `gorm:"column:scan_code" json:"scan_code"`
	Name                string     `gorm:"column:name" json:"name"`
	Email               *string    `gorm:"column:email" json:"email"`
	Phone               *string    `gorm:"column:phone" json:"phone"`
	Company             *string    `gorm:"column:company" json:"company"`
	Category            *string    `gorm:"column:category" json:"category"`
	TableNumber         *int       `gorm:"column:table_number" json:"table_number"`
	SpecialRequirements *string    `gorm:"column:special_requirements" json:"special_requirements"`
	HasAttended         bool       `gorm:"column:has_attended" json:"has_attended"`
	LastCheckIn         *time.Time `gorm:"column:last_check_in" json:"last_check_in"`
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// SearchGuests lists guests matching params. Ordering is by name then id so
// pages are stable and deterministic.
func SearchGuests(db *gorm.DB, params SearchParams) ([]GuestListItem, *Pagination, error) {
	page := params.Page
	if page < 1 {
		page = 1
	}
	limit := params.Limit
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	scopes := []func(*gorm.DB) *gorm.DB{
		searchScope(params.Search),
		attendanceScope(params.Attendance),
	}

	var total int64
	if err := db.Table("guests g").
		Joins("LEFT JOIN attendance a ON a.guest_id = g.id").
		Scopes(scopes...).
		Count(&total).Error; err != nil {
		return nil, nil, err
	}

	items := []GuestListItem{}
	if err := db.Table("guests g").
		Select(`g.id, g.scan_code, g.name, g.email, g.phone, g.company, g.category,
			g.table_number, g.special_requirements,
			a.id IS NOT NULL AS has_attended,
			a.check_in_time AS last_check_in`).
		Joins("LEFT JOIN attendance a ON a.guest_id = g.id").
		Scopes(scopes...).
		Order("g.name ASC, g.id ASC").
		Limit(limit).
		Offset((page - 1) * limit).
		Scan(&items).Error; err != nil {
		return nil, nil, err
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	pagination := &Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
	return items, pagination, nil
}

// searchScope matches the text case-insensitively against name, email and
// company. Empty text matches everything.
func searchScope(text string) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		text := strings.TrimSpace(text)
		if text == "" {
			return q
		}
		like := "%" + strings.ToLower(text) + "%"
		return q.Where(
			"LOWER(g.name) LIKE ? OR LOWER(g.email) LIKE ? OR LOWER(g.company) LIKE ?",
			like, like, like,
		)
	}
}

func attendanceScope(filter AttendanceFilter) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		switch filter {
		case FilterAttended:
			return q.Where("a.id IS NOT NULL")
		case FilterPending:
			return q.Where("a.id IS NULL")
		default:
			return q
		}
	}
}
