package models

import "time"

type RecipeType string

const (
	RecipeTypeDish      RecipeType = "dish"
	RecipeTypeComponent RecipeType = "component"
	RecipeTypeDrink     RecipeType = "drink"
	RecipeTypeDessert   RecipeType = "dessert"
)

// Recipe: Bir menü ürününün maliyetlendirilmiş reçetesi.
// Bir ürünün en fazla bir reçetesi olabilir (ProductID unique).
// Maliyet alanları türetilmiş değerlerdir: satır veya malzeme fiyatı
// değiştiğinde yeniden hesaplanıp bu satıra yazılır.
type Recipe struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:100;not null"`
	ProductID uint   `gorm:"uniqueIndex;not null"`
	Product   Product
	Active    bool       `gorm:"not null;default:true"`
	Type      RecipeType `gorm:"size:20;not null;default:'dish'"`

	PortionSize  float64 `gorm:"not null;default:1"` // kaç porsiyon çıkar
	PrepTime     float64 // dakika
	CookTime     float64 // dakika
	Instructions string  `gorm:"type:text"`

	// BOM (kit) bağlantısı - tamamen türetilmiş, elle düzenlenmez
	BomID *uint `gorm:"index"`

	// Türetilmiş maliyet alanları
	TotalCost          float64 `gorm:"not null;default:0"`
	CostPerPortion     float64 `gorm:"not null;default:0"`
	FoodCostPercentage float64 `gorm:"not null;default:0"`
	ProfitMargin       float64 `gorm:"not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Lines []RecipeLine `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}
