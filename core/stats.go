package core

import (
	"errors"
	"fmt"
	"math"
	"time"

	"gorm.io/gorm"

	"eventgate.io/eventgate/model"
)

// ErrStatsInconsistent means the ledger holds more rows than distinct guests,
// i.e. the at-most-one invariant was violated somewhere. It is surfaced, not
// papered over.
var ErrStatsInconsistent = errors.New("attendance ledger inconsistent")

type Stats struct {
	TotalGuests     int64   `json:"total_guests"`
	AttendedGuests  int64   `json:"attended_guests"`
	TodayAttendance int64   `json:"today_attendance"`
	AttendanceRate  float64 `json:"attendance_rate"`
}

// GetStats computes fresh aggregate attendance figures. "Today" is the
// current calendar day in loc, the event's reference timezone.
func GetStats(db *gorm.DB, loc *time.Location) (*Stats, error) {
	return GetStatsAt(db, loc, time.Now())
}

func GetStatsAt(db *gorm.DB, loc *time.Location, now time.Time) (*Stats, error) {
	local := now.In(loc)
	dayStart := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	dayEnd := dayStart.AddDate(0, 0, 1)

	// All counts run in one transaction so a check-in committing between
	// statements cannot skew them against each other. The consistency check
	// then only fires on a genuine invariant violation.
	var total, rows, attended, today int64
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Guest{}).Count(&total).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.AttendanceRecord{}).Count(&rows).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.AttendanceRecord{}).Distinct("guest_id").Count(&attended).Error; err != nil {
			return err
		}
		return tx.Model(&model.AttendanceRecord{}).
			Where("check_in_time >= ? AND check_in_time < ?", dayStart, dayEnd).
			Distinct("guest_id").Count(&today).Error
	})
	if err != nil {
		return nil, err
	}
	if attended != rows {
		return nil, fmt.Errorf("%w: %d rows for %d guests", ErrStatsInconsistent, rows, attended)
	}

	rate := 0.0
	if total > 0 {
		rate = math.Round(float64(attended)/float64(total)*100*100) / 100
	}

	return &Stats{
		TotalGuests:     total,
		AttendedGuests:  attended,
		TodayAttendance: today,
		AttendanceRate:  rate,
	}, nil
}
