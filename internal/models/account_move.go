package models

import "time"

type AccountMoveState string

const (
	MoveStateDraft  AccountMoveState = "draft"
	MoveStatePosted AccountMoveState = "posted"
)

// AccountMove: Mahsup fişi. Posted olduktan sonra değiştirilemez.
type AccountMove struct {
	ID        uint `gorm:"primaryKey"`
	JournalID uint `gorm:"index;not null"`
	Journal   Journal
	Date      time.Time        `gorm:"index;not null"`
	Ref       string           `gorm:"size:100"`
	State     AccountMoveState `gorm:"size:20;not null;default:'draft'"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Lines []AccountMoveLine `gorm:"foreignKey:MoveID;constraint:OnDelete:CASCADE"`
}

// AccountMoveLine: Fiş satırı (borç/alacak)
type AccountMoveLine struct {
	ID        uint `gorm:"primaryKey"`
	MoveID    uint `gorm:"index;not null"`
	AccountID uint `gorm:"index;not null"`
	Account   Account
	Name      string  `gorm:"size:255"` // satır açıklaması
	Debit     float64 `gorm:"not null;default:0"`
	Credit    float64 `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
