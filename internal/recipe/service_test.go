package recipe

import (
	"fmt"
	"math"
	"testing"
	"time"

	"mutfak-backend/internal/models"
	"mutfak-backend/internal/validation"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:recipe-test-%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Product{},
		&models.Recipe{},
		&models.RecipeLine{},
		&models.Bom{},
		&models.BomLine{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func createProduct(t *testing.T, db *gorm.DB, name string, salePrice, cost float64, isIngredient bool) *models.Product {
	t.Helper()
	p := models.Product{
		Name:         name,
		Unit:         "kg",
		SalePrice:    salePrice,
		StandardCost: cost,
		IsIngredient: isIngredient,
	}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return &p
}

func createRecipe(t *testing.T, db *gorm.DB, product *models.Product, portionSize float64) *models.Recipe {
	t.Helper()
	r := models.Recipe{
		Name:        product.Name,
		ProductID:   product.ID,
		Active:      true,
		Type:        models.RecipeTypeDish,
		PortionSize: portionSize,
	}
	if err := db.Create(&r).Error; err != nil {
		t.Fatalf("create recipe: %v", err)
	}
	return &r
}

func addLine(t *testing.T, db *gorm.DB, rec *models.Recipe, product *models.Product, qty float64) *models.RecipeLine {
	t.Helper()
	l := models.RecipeLine{
		RecipeID:  rec.ID,
		Sequence:  10,
		ProductID: product.ID,
		Quantity:  qty,
		Unit:      product.Unit,
	}
	if err := db.Create(&l).Error; err != nil {
		t.Fatalf("create line: %v", err)
	}
	return &l
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 0.000001
}

func TestRecalculateComputesCostsFromCurrentPrices(t *testing.T) {
	db := newTestDB(t)

	menu := createProduct(t, db, "Köfte Porsiyon", 100, 0, false)
	meat := createProduct(t, db, "Kıyma", 0, 20, true)
	spice := createProduct(t, db, "Baharat", 0, 5, true)

	rec := createRecipe(t, db, menu, 2)
	addLine(t, db, rec, meat, 1.5)  // 30
	addLine(t, db, rec, spice, 2.0) // 10

	if err := Recalculate(db, rec.ID); err != nil {
		t.Fatalf("recalculate: %v", err)
	}

	var got models.Recipe
	if err := db.First(&got, rec.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}

	if !almostEqual(got.TotalCost, 40) {
		t.Errorf("total cost = %v, want 40", got.TotalCost)
	}
	if !almostEqual(got.CostPerPortion, 20) {
		t.Errorf("cost per portion = %v, want 20", got.CostPerPortion)
	}
	if !almostEqual(got.FoodCostPercentage, 20) {
		t.Errorf("food cost pct = %v, want 20", got.FoodCostPercentage)
	}
	if !almostEqual(got.ProfitMargin, 80) {
		t.Errorf("profit margin = %v, want 80", got.ProfitMargin)
	}
}

func TestRecalculateZeroPortionFallsBackToTotalCost(t *testing.T) {
	db := newTestDB(t)

	menu := createProduct(t, db, "Deneme", 50, 0, false)
	ing := createProduct(t, db, "Malzeme", 0, 8, true)

	rec := createRecipe(t, db, menu, 0)
	addLine(t, db, rec, ing, 3) // 24

	if err := Recalculate(db, rec.ID); err != nil {
		t.Fatalf("recalculate: %v", err)
	}

	var got models.Recipe
	db.First(&got, rec.ID)
	if !almostEqual(got.CostPerPortion, 24) {
		t.Errorf("cost per portion = %v, want 24 (porsiyon 0 iken toplam maliyet)", got.CostPerPortion)
	}
}

func TestRecalculateZeroSellingPriceReportsZeroRatios(t *testing.T) {
	db := newTestDB(t)

	menu := createProduct(t, db, "Fiyatsız Ürün", 0, 0, false)
	ing := createProduct(t, db, "Malzeme", 0, 10, true)

	rec := createRecipe(t, db, menu, 1)
	addLine(t, db, rec, ing, 2)

	if err := Recalculate(db, rec.ID); err != nil {
		t.Fatalf("recalculate: %v", err)
	}

	var got models.Recipe
	db.First(&got, rec.ID)
	if got.FoodCostPercentage != 0 {
		t.Errorf("food cost pct = %v, want 0", got.FoodCostPercentage)
	}
	if got.ProfitMargin != 0 {
		t.Errorf("profit margin = %v, want 0", got.ProfitMargin)
	}
	if !almostEqual(got.TotalCost, 20) {
		t.Errorf("total cost = %v, want 20", got.TotalCost)
	}
}

func TestRecalculateForProductUpdatesAffectedRecipes(t *testing.T) {
	db := newTestDB(t)

	menu1 := createProduct(t, db, "Menü 1", 100, 0, false)
	menu2 := createProduct(t, db, "Menü 2", 60, 0, false)
	shared := createProduct(t, db, "Ortak Malzeme", 0, 10, true)

	rec1 := createRecipe(t, db, menu1, 1)
	rec2 := createRecipe(t, db, menu2, 1)
	addLine(t, db, rec1, shared, 2) // 20
	addLine(t, db, rec2, shared, 1) // 10

	if err := Recalculate(db, rec1.ID); err != nil {
		t.Fatalf("recalculate: %v", err)
	}
	if err := Recalculate(db, rec2.ID); err != nil {
		t.Fatalf("recalculate: %v", err)
	}

	// Malzeme maliyeti değişti, iki reçete de etkilenmeli
	if err := db.Model(&models.Product{}).Where("id = ?", shared.ID).
		Update("standard_cost", 15).Error; err != nil {
		t.Fatalf("update cost: %v", err)
	}
	if err := RecalculateForProduct(db, shared.ID); err != nil {
		t.Fatalf("recalculate for product: %v", err)
	}

	var got1, got2 models.Recipe
	db.First(&got1, rec1.ID)
	db.First(&got2, rec2.ID)

	if !almostEqual(got1.TotalCost, 30) {
		t.Errorf("recipe 1 total cost = %v, want 30", got1.TotalCost)
	}
	if !almostEqual(got2.TotalCost, 15) {
		t.Errorf("recipe 2 total cost = %v, want 15", got2.TotalCost)
	}
}

func TestRecalculateForProductCoversLinkedRecipe(t *testing.T) {
	db := newTestDB(t)

	menu := createProduct(t, db, "Menü", 100, 0, false)
	ing := createProduct(t, db, "Malzeme", 0, 10, true)

	rec := createRecipe(t, db, menu, 1)
	addLine(t, db, rec, ing, 1)
	if err := Recalculate(db, rec.ID); err != nil {
		t.Fatalf("recalculate: %v", err)
	}

	// Menü ürününün satış fiyatı değişince kendi reçetesi de tazelenmeli
	if err := db.Model(&models.Product{}).Where("id = ?", menu.ID).
		Update("sale_price", 40).Error; err != nil {
		t.Fatalf("update price: %v", err)
	}
	if err := RecalculateForProduct(db, menu.ID); err != nil {
		t.Fatalf("recalculate for product: %v", err)
	}

	var got models.Recipe
	db.First(&got, rec.ID)
	if !almostEqual(got.FoodCostPercentage, 25) {
		t.Errorf("food cost pct = %v, want 25", got.FoodCostPercentage)
	}
	if !almostEqual(got.ProfitMargin, 30) {
		t.Errorf("profit margin = %v, want 30", got.ProfitMargin)
	}
}

func TestValidateLineRejectsBadInput(t *testing.T) {
	db := newTestDB(t)

	ing := createProduct(t, db, "Malzeme", 0, 5, true)
	notIng := createProduct(t, db, "Menü Ürünü", 50, 0, false)

	if _, err := ValidateLine(db, ing.ID, 0); err == nil || !validation.IsError(err) {
		t.Errorf("quantity 0 should return validation error, got %v", err)
	}
	if _, err := ValidateLine(db, ing.ID, -1); err == nil || !validation.IsError(err) {
		t.Errorf("negative quantity should return validation error, got %v", err)
	}
	if _, err := ValidateLine(db, notIng.ID, 1); err == nil || !validation.IsError(err) {
		t.Errorf("non-ingredient product should return validation error, got %v", err)
	}
	if _, err := ValidateLine(db, ing.ID, 1); err != nil {
		t.Errorf("valid line rejected: %v", err)
	}
}
