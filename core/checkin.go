package core

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"eventgate.io/eventgate/model"
)

var ErrGuestNotFound = errors.New("guest not found")

// Provenance is advisory metadata recorded alongside a check-in. None of it
// is validated beyond being storable.
type Provenance struct {
	DeviceInfo *string
	Location   *string
	Notes      *string
}

// Outcome is the result of a check-in attempt for a known guest. Duplicate
// means the guest already held an attendance record; CheckInTime is then the
// original time, not the time of this call.
type Outcome struct {
	Guest       model.Guest
	CheckInTime time.Time
	Duplicate   bool
}

// CheckInByCode records attendance for the guest holding scanCode. Calling it
// any number of times yields at most one ledger row; repeats report the
// original timestamp.
func CheckInByCode(db *gorm.DB, scanCode string, prov Provenance) (*Outcome, error) {
	if scanCode == "" {
		return nil, fmt.Errorf("%w: empty scan code", ErrGuestNotFound)
	}
	var guest model.Guest
	if err := db.Where("scan_code = ?", scanCode).First(&guest).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGuestNotFound
		}
		return nil, err
	}
	return checkIn(db, guest, prov)
}

// CheckInByID is the manual check-in path, keyed by surrogate id. Same
// invariant, same idempotent duplicate handling.
func CheckInByID(db *gorm.DB, guestID uint, prov Provenance) (*Outcome, error) {
	var guest model.Guest
	if err := db.First(&guest, guestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGuestNotFound
		}
		return nil, err
	}
	return checkIn(db, guest, prov)
}

// checkIn is the insert-or-detect-conflict critical section. The fast path
// reads first so the common duplicate case costs no write; the unique index
// on attendance.guest_id closes the window between read and insert. A
// concurrent winner turns our insert into ErrDuplicatedKey, which we convert
// into the duplicate outcome by re-reading the winning row.
func checkIn(db *gorm.DB, guest model.Guest, prov Provenance) (*Outcome, error) {
	var existing model.AttendanceRecord
	err := db.Where("guest_id = ?", guest.ID).First(&existing).Error
	if err == nil {
		return &Outcome{Guest: guest, CheckInTime: existing.CheckInTime, Duplicate: true}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	rec := model.AttendanceRecord{
		GuestID:     guest.ID,
		ScanCode:    guest.ScanCode,
		CheckInTime: time.Now().UTC(),
		DeviceInfo:  prov.DeviceInfo,
		Location:    prov.Location,
		Notes:       prov.Notes,
	}
	if err := db.Create(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if err := db.Where("guest_id = ?", guest.ID).First(&existing).Error; err != nil {
				return nil, err
			}
			return &Outcome{Guest: guest, CheckInTime: existing.CheckInTime, Duplicate: true}, nil
		}
		return nil, err
	}
	return &Outcome{Guest: guest, CheckInTime: rec.CheckInTime, Duplicate: false}, nil
}

// MarkAbsent removes the guest's attendance record, if any. Afterwards the
// guest is eligible for exactly one new check-in.
func MarkAbsent(db *gorm.DB, guestID uint) error {
	var guest model.Guest
	if err := db.First(&guest, guestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGuestNotFound
		}
		return err
	}
	return db.Where("guest_id = ?", guestID).Delete(&model.AttendanceRecord{}).Error
}

// GuestStatus is a guest profile joined with its attendance state.
type GuestStatus struct {
	Guest       model.Guest
	HasAttended bool
	LastCheckIn *time.Time
}

// FindGuestByCode resolves a scan code to the guest profile plus attendance
// state in a single pair of indexed lookups.
func FindGuestByCode(db *gorm.DB, scanCode string) (*GuestStatus, error) {
	var guest model.Guest
	if err := db.Where("scan_code = ?", scanCode).First(&guest).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGuestNotFound
		}
		return nil, err
	}

	status := GuestStatus{Guest: guest}
	var rec model.AttendanceRecord
	err := db.Where("guest_id = ?", guest.ID).First(&rec).Error
	switch {
	case err == nil:
		status.HasAttended = true
		t := rec.CheckInTime
		status.LastCheckIn = &t
	case errors.Is(err, gorm.ErrRecordNotFound):
	default:
		return nil, err
	}
	return &status, nil
}
