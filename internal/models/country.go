package models

import "time"

// Country is immutable reference data for origin/destination station codes.
// Rows are seeded once (cmd/seed) and only ever read afterwards.
type Country struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Code      string    `gorm:"size:10;uniqueIndex;not null" json:"code"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
