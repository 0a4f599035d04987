package models

import "time"

// Setting: İşletme geneli varsayılanlar (tek satır, ID = 1).
// Yeni sayım ve hızlı ürün/malzeme oluşturma anında okunur.
type Setting struct {
	ID uint `gorm:"primaryKey"`

	// Malzeme varsayılanları
	IngredientCategoryID              *uint `gorm:"index"` // yeni malzemeler için ürün kategorisi
	IngredientExpenseAccountID        *uint `gorm:"index"` // gider (COGS) hesabı
	IngredientStockValuationAccountID *uint `gorm:"index"` // stok değerleme hesabı

	// Menü ürünü varsayılanları
	MenuCategoryID      *uint `gorm:"index"`
	MenuIncomeAccountID *uint `gorm:"index"`

	// Sayım varsayılanları
	GainAccountID *uint `gorm:"index"` // sayım fazlası hesabı
	LossAccountID *uint `gorm:"index"` // sayım eksiği hesabı

	// Eşikler
	HighFoodCostThreshold float64 `gorm:"not null;default:35"` // bu oranın üstü riskli sayılır

	CreatedAt time.Time
	UpdatedAt time.Time
}
