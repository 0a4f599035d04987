package models

import "time"

type JournalType string

const (
	JournalTypeGeneral JournalType = "general"
	JournalTypeSale    JournalType = "sale"
)

// Journal: Yevmiye defteri. Sayım mahsup kayıtları genel deftere işlenir.
type Journal struct {
	ID        uint        `gorm:"primaryKey"`
	Code      string      `gorm:"size:20;not null;uniqueIndex"`
	Name      string      `gorm:"size:100;not null"`
	Type      JournalType `gorm:"size:20;not null;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
