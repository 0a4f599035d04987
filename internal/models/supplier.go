package models

import "time"

// Supplier: Malzeme tedarikçisi
type Supplier struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:100;not null;unique"`
	Phone     string `gorm:"size:50"`
	Email     string `gorm:"size:100"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SupplierInfo: Tedarikçinin bir ürün için verdiği fiyat
type SupplierInfo struct {
	ID         uint `gorm:"primaryKey"`
	SupplierID uint `gorm:"index;not null"`
	Supplier   Supplier
	ProductID  uint `gorm:"index;not null"`
	Product    Product
	Price      float64 `gorm:"not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
