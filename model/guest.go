package model

import "time"

type Guest struct {
	ID                  uint      `gorm:"primaryKey" json:"id"`
	ScanCode            string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"scan_code"`
	Name                string    `gorm:"type:varchar(255);not null;index" json:"name"`
	Email               *string   `gorm:"type:varchar(255)" json:"email"`
	Phone               *string   `gorm:"type:varchar(50)" json:"phone"`
	Company             *string   `gorm:"type:varchar(255)" json:"company"`
	Category            *string   `gorm:"type:varchar(100)" json:"category"`
	TableNumber         *int      `json:"table_number"`
	SpecialRequirements *string   `gorm:"type:text" json:"special_requirements"`
	CreatedAt           time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP;<-:create" json:"created_at"`
	// UpdatedAt is maintained by GORM's own update tracking so the column
	// definition stays portable across dialects.
	UpdatedAt           time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Guest) TableName() string {
	return "guests"
}
