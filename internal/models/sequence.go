package models

import "time"

// Sequence: Okunabilir referans numaraları üretir (ör: ST/00001)
type Sequence struct {
	ID         uint   `gorm:"primaryKey"`
	Code       string `gorm:"size:50;not null;uniqueIndex"`
	Prefix     string `gorm:"size:20"`
	Padding    int    `gorm:"not null;default:5"`
	NextNumber int    `gorm:"not null;default:1"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
