package models

import "time"

const BomTypePhantom = "phantom"

// Bom: Reçeteden türetilen ürün ağacı (kit). Phantom tipte olduğu için
// menü ürünü satıldığında malzemeler otomatik tüketilir. Elle düzenlenmez,
// reçete her değiştiğinde satırları topluca yeniden yazılır.
type Bom struct {
	ID        uint `gorm:"primaryKey"`
	ProductID uint `gorm:"index;not null"`
	Product   Product
	Quantity  float64 `gorm:"not null;default:1"` // üretim miktarı (porsiyon)
	Type      string  `gorm:"size:20;not null;default:'phantom'"`
	Code      string  `gorm:"size:50;index"` // RECIPE-<id>
	CreatedAt time.Time
	UpdatedAt time.Time

	Lines []BomLine `gorm:"foreignKey:BomID;constraint:OnDelete:CASCADE"`
}

// BomLine: Kit içindeki bir malzeme
type BomLine struct {
	ID        uint `gorm:"primaryKey"`
	BomID     uint `gorm:"index;not null"`
	ProductID uint `gorm:"index;not null"`
	Product   Product
	Quantity  float64 `gorm:"not null"`
	Unit      string  `gorm:"size:20;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
