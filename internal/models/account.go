package models

import "time"

type AccountType string

const (
	AccountTypeIncome       AccountType = "income"
	AccountTypeExpense      AccountType = "expense"
	AccountTypeAssetCurrent AccountType = "asset_current"
	AccountTypeOther        AccountType = "other"
)

// Account: Muhasebe hesabı (hesap planı kaydı)
type Account struct {
	ID        uint        `gorm:"primaryKey"`
	Code      string      `gorm:"size:20;not null;uniqueIndex"`
	Name      string      `gorm:"size:100;not null"`
	Type      AccountType `gorm:"size:20;not null;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
