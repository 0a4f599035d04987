package models

import "time"

// ProductCategory: Ürün kategorisi. Stok değerleme hesabı kategori
// üzerinden bulunur, sayım mahsup kaydı bu hesaba işlenir.
type ProductCategory struct {
	ID                      uint   `gorm:"primaryKey"`
	Name                    string `gorm:"size:100;not null;unique"`
	StockValuationAccountID *uint  `gorm:"index"` // stok değerleme hesabı
	StockValuationAccount   *Account
	ExpenseAccountID        *uint `gorm:"index"` // gider (COGS) hesabı
	ExpenseAccount          *Account
	CreatedAt               time.Time
	UpdatedAt               time.Time
}
