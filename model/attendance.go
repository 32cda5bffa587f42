package model

import "time"

// AttendanceRecord is the single check-in slot for a guest. The unique index
// on GuestID is what enforces at-most-one record per guest; everything in
// core.CheckIn leans on it.
type AttendanceRecord struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	GuestID     uint      `gorm:"uniqueIndex;not null" json:"guest_id"`
	ScanCode    string    `gorm:"type:varchar(255);not null;index" json:"scan_code"`
	CheckInTime time.Time `gorm:"type:timestamp;not null;index;<-:create" json:"check_in_time"`
	DeviceInfo  *string   `gorm:"type:text" json:"device_info"`
	Location    *string   `gorm:"type:varchar(255)" json:"location"`
	Notes       *string   `gorm:"type:text" json:"notes"`

	Guest Guest `gorm:"foreignKey:GuestID" json:"-"`
}

func (AttendanceRecord) TableName() string {
	return "attendance"
}
