package recipe

import (
	"fmt"

	"mutfak-backend/internal/models"
	"mutfak-backend/internal/validation"

	"gorm.io/gorm"
)

// Recalculate - Reçetenin türetilmiş maliyet alanlarını satırlardan ve
// bağlı ürünün satış fiyatından yeniden hesaplayıp kaydeder.
// Maliyet her zaman malzemenin GÜNCEL birim maliyetinden hesaplanır,
// fiyat geçmişi tutulmaz.
func Recalculate(tx *gorm.DB, recipeID uint) error {
	var rec models.Recipe
	if err := tx.
		Preload("Lines").
		Preload("Lines.Product").
		Preload("Product").
		First(&rec, recipeID).Error; err != nil {
		return fmt.Errorf("reçete okunamadı: %w", err)
	}

	totalCost := 0.0
	for i := range rec.Lines {
		totalCost += rec.Lines[i].Cost()
	}

	// Porsiyon sıfırsa bölme yapma, toplam maliyeti kullan
	costPerPortion := totalCost
	if rec.PortionSize != 0 {
		costPerPortion = totalCost / rec.PortionSize
	}

	// Satış fiyatı sıfırsa oran ve marj sıfır raporlanır, hata değil
	foodCostPct := 0.0
	profitMargin := 0.0
	if rec.Product.SalePrice > 0 {
		foodCostPct = (costPerPortion / rec.Product.SalePrice) * 100
		profitMargin = rec.Product.SalePrice - costPerPortion
	}

	if err := tx.Model(&models.Recipe{}).Where("id = ?", rec.ID).Updates(map[string]interface{}{
		"total_cost":           totalCost,
		"cost_per_portion":     costPerPortion,
		"food_cost_percentage": foodCostPct,
		"profit_margin":        profitMargin,
	}).Error; err != nil {
		return fmt.Errorf("reçete maliyeti güncellenemedi: %w", err)
	}

	return nil
}

// RecalculateForProduct - Bir ürünün fiyatı/maliyeti değiştiğinde etkilenen
// tüm reçeteleri yeniden hesaplar: ürünü malzeme olarak kullananlar ve
// ürüne bağlı reçete.
func RecalculateForProduct(tx *gorm.DB, productID uint) error {
	recipeIDs := map[uint]bool{}

	var lines []models.RecipeLine
	if err := tx.Where("product_id = ?", productID).Find(&lines).Error; err != nil {
		return fmt.Errorf("reçete satırları okunamadı: %w", err)
	}
	for _, l := range lines {
		recipeIDs[l.RecipeID] = true
	}

	var rec models.Recipe
	if err := tx.Where("product_id = ?", productID).First(&rec).Error; err == nil {
		recipeIDs[rec.ID] = true
	}

	for id := range recipeIDs {
		if err := Recalculate(tx, id); err != nil {
			return err
		}
	}

	return nil
}

// ValidateLine - Satır ön koşulları: miktar pozitif, ürün malzeme olmalı
func ValidateLine(tx *gorm.DB, productID uint, quantity float64) (*models.Product, error) {
	if quantity <= 0 {
		return nil, validation.Errorf("Miktar sıfırdan büyük olmalı")
	}

	var product models.Product
	if err := tx.First(&product, productID).Error; err != nil {
		return nil, validation.Errorf("Malzeme bulunamadı")
	}
	if !product.IsIngredient {
		return nil, validation.Errorf("Seçilen ürün malzeme olarak işaretli değil")
	}

	return &product, nil
}
