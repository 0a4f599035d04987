package models

import "time"

// IngredientCategory - Malzeme türü (protein, sebze vs.)
type IngredientCategory string

const (
	IngredientProtein   IngredientCategory = "protein"
	IngredientVegetable IngredientCategory = "vegetable"
	IngredientDairy     IngredientCategory = "dairy"
	IngredientGrain     IngredientCategory = "grain"
	IngredientSpice     IngredientCategory = "spice"
	IngredientSauce     IngredientCategory = "sauce"
	IngredientBeverage  IngredientCategory = "beverage"
	IngredientPackaging IngredientCategory = "packaging"
	IngredientOther     IngredientCategory = "other"
)

// Product: Hem menü ürünleri hem de malzemeler tek tabloda tutulur.
// IsIngredient = true olanlar reçetelerde malzeme olarak kullanılabilir.
type Product struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"size:100;not null;unique"`
	Unit        string `gorm:"size:20;not null"` // kg, gr, adet, lt vs.
	Barcode     string `gorm:"size:50;index"`
	InternalRef string `gorm:"size:50;index"` // stok kodu
	CategoryID  *uint  `gorm:"index"`
	Category    *ProductCategory

	SalePrice    float64 `gorm:"not null;default:0"` // satış fiyatı (menü ürünleri için)
	StandardCost float64 `gorm:"not null;default:0"` // güncel birim maliyet
	OnHandQty    float64 `gorm:"not null;default:0"` // eldeki miktar

	IsIngredient       bool               `gorm:"not null;default:false;index"`
	IngredientCategory IngredientCategory `gorm:"size:20"` // sadece malzemeler için
	AvailableInPos     bool               `gorm:"not null;default:false"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
