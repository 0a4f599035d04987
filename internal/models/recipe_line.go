package models

import "time"

// RecipeLine: Reçetedeki bir malzeme satırı
type RecipeLine struct {
	ID        uint `gorm:"primaryKey"`
	RecipeID  uint `gorm:"index;not null"`
	Sequence  int  `gorm:"not null;default:10"` // satır sırası
	ProductID uint `gorm:"index;not null"`      // malzeme (IsIngredient = true)
	Product   Product
	Quantity  float64 `gorm:"not null"`
	Unit      string  `gorm:"size:20;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Cost - Satır maliyeti, malzemenin güncel birim maliyetinden hesaplanır
// (fiyat geçmişi tutulmaz)
func (l *RecipeLine) Cost() float64 {
	return l.Quantity * l.Product.StandardCost
}
