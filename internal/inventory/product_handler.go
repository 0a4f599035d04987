package inventory

import (
	"fmt"
	"strings"

	"mutfak-backend/internal/audit"
	"mutfak-backend/internal/auth"
	"mutfak-backend/internal/database"
	"mutfak-backend/internal/models"
	"mutfak-backend/internal/recipe"

	"github.com/gofiber/fiber/v2"
)

type CreateProductRequest struct {
	Name               string                    `json:"name"`
	Unit               string                    `json:"unit"`
	Barcode            string                    `json:"barcode"`
	InternalRef        string                    `json:"internal_ref"`
	CategoryID         *uint                     `json:"category_id"`
	SalePrice          float64                   `json:"sale_price"`
	StandardCost       float64                   `json:"standard_cost"`
	IsIngredient       bool                      `json:"is_ingredient"`
	IngredientCategory models.IngredientCategory `json:"ingredient_category"`
	AvailableInPos     bool                      `json:"available_in_pos"`
}

type UpdateProductRequest struct {
	Name               *string                    `json:"name"`
	Unit               *string                    `json:"unit"`
	Barcode            *string                    `json:"barcode"`
	InternalRef        *string                    `json:"internal_ref"`
	CategoryID         *uint                      `json:"category_id"`
	SalePrice          *float64                   `json:"sale_price"`
	StandardCost       *float64                   `json:"standard_cost"`
	IsIngredient       *bool                      `json:"is_ingredient"`
	IngredientCategory *models.IngredientCategory `json:"ingredient_category"`
	AvailableInPos     *bool                      `json:"available_in_pos"`
}

type ProductResponse struct {
	ID                 uint                      `json:"id"`
	Name               string                    `json:"name"`
	Unit               string                    `json:"unit"`
	Barcode            string                    `json:"barcode"`
	InternalRef        string                    `json:"internal_ref"`
	CategoryID         *uint                     `json:"category_id"`
	CategoryName       string                    `json:"category_name,omitempty"`
	SalePrice          float64                   `json:"sale_price"`
	StandardCost       float64                   `json:"standard_cost"`
	OnHandQty          float64                   `json:"on_hand_qty"`
	IsIngredient       bool                      `json:"is_ingredient"`
	IngredientCategory models.IngredientCategory `json:"ingredient_category,omitempty"`
	AvailableInPos     bool                      `json:"available_in_pos"`

	// Reçete varsa oradan, yoksa marj satış fiyatına düşer
	RecipeID           *uint   `json:"recipe_id"`
	FoodCostPercentage float64 `json:"food_cost_percentage"`
	ProfitMargin       float64 `json:"profit_margin"`
}

func validIngredientCategory(cat models.IngredientCategory) bool {
	switch cat {
	case models.IngredientProtein, models.IngredientVegetable, models.IngredientDairy,
		models.IngredientGrain, models.IngredientSpice, models.IngredientSauce,
		models.IngredientBeverage, models.IngredientPackaging, models.IngredientOther:
		return true
	}
	return false
}

func toProductResponse(p *models.Product, rec *models.Recipe) ProductResponse {
	resp := ProductResponse{
		ID:                 p.ID,
		Name:               p.Name,
		Unit:               p.Unit,
		Barcode:            p.Barcode,
		InternalRef:        p.InternalRef,
		CategoryID:         p.CategoryID,
		SalePrice:          p.SalePrice,
		StandardCost:       p.StandardCost,
		OnHandQty:          p.OnHandQty,
		IsIngredient:       p.IsIngredient,
		IngredientCategory: p.IngredientCategory,
		AvailableInPos:     p.AvailableInPos,
	}
	if p.Category != nil {
		resp.CategoryName = p.Category.Name
	}
	if rec != nil {
		resp.RecipeID = &rec.ID
		resp.FoodCostPercentage = rec.FoodCostPercentage
		resp.ProfitMargin = rec.ProfitMargin
	} else {
		// Reçetesiz ürünün marjı satış fiyatının tamamı kabul edilir
		resp.ProfitMargin = p.SalePrice
	}
	return resp
}

func recipesByProduct(productIDs []uint) (map[uint]*models.Recipe, error) {
	result := map[uint]*models.Recipe{}
	if len(productIDs) == 0 {
		return result, nil
	}
	var recipes []models.Recipe
	if err := database.DB.Where("product_id IN ?", productIDs).Find(&recipes).Error; err != nil {
		return nil, err
	}
	for i := range recipes {
		result[recipes[i].ProductID] = &recipes[i]
	}
	return result, nil
}

// POST /api/admin/products
func CreateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Ürün adı zorunlu")
		}
		if body.Unit == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Birim zorunlu")
		}
		if body.SalePrice < 0 || body.StandardCost < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Fiyat ve maliyet negatif olamaz")
		}

		var count int64
		database.DB.Model(&models.Product{}).Where("name = ?", body.Name).Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Bu isimde bir ürün zaten var")
		}

		if body.CategoryID != nil {
			var cat models.ProductCategory
			if err := database.DB.First(&cat, *body.CategoryID).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Kategori bulunamadı")
			}
		}

		ingredientCategory := body.IngredientCategory
		if body.IsIngredient {
			if ingredientCategory == "" {
				ingredientCategory = models.IngredientOther
			}
			if !validIngredientCategory(ingredientCategory) {
				return fiber.NewError(fiber.StatusBadRequest, "Geçersiz malzeme türü")
			}
		} else {
			ingredientCategory = ""
		}

		product := models.Product{
			Name:               body.Name,
			Unit:               body.Unit,
			Barcode:            body.Barcode,
			InternalRef:        body.InternalRef,
			CategoryID:         body.CategoryID,
			SalePrice:          body.SalePrice,
			StandardCost:       body.StandardCost,
			IsIngredient:       body.IsIngredient,
			IngredientCategory: ingredientCategory,
			AvailableInPos:     body.AvailableInPos,
		}
		if err := database.DB.Create(&product).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün oluşturulamadı")
		}

		if user, uerr := auth.CurrentUser(c); uerr == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      user.ID,
				UserName:    user.Name,
				EntityType:  "product",
				EntityID:    product.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Ürün oluşturuldu: %s", product.Name),
				After:       product,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(toProductResponse(&product, nil))
	}
}

// GET /api/products?is_ingredient=true&category_id=3&q=domates
func ListProductsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Product{}).Preload("Category")

		if v := c.Query("is_ingredient"); v != "" {
			dbq = dbq.Where("is_ingredient = ?", v == "true")
		}
		if v := c.Query("available_in_pos"); v != "" {
			dbq = dbq.Where("available_in_pos = ?", v == "true")
		}
		if v := c.Query("category_id"); v != "" {
			dbq = dbq.Where("category_id = ?", v)
		}
		if q := c.Query("q"); q != "" {
			like := "%" + strings.ToLower(q) + "%"
			dbq = dbq.Where("LOWER(name) LIKE ? OR LOWER(barcode) LIKE ? OR LOWER(internal_ref) LIKE ?", like, like, like)
		}

		var products []models.Product
		if err := dbq.Order("name asc").Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürünler listelenemedi")
		}

		ids := make([]uint, 0, len(products))
		for i := range products {
			ids = append(ids, products[i].ID)
		}
		recipes, err := recipesByProduct(ids)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Reçeteler okunamadı")
		}

		resp := make([]ProductResponse, 0, len(products))
		for i := range products {
			resp = append(resp, toProductResponse(&products[i], recipes[products[i].ID]))
		}
		return c.JSON(resp)
	}
}

// GET /api/products/:id
func GetProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz ürün ID")
		}

		var product models.Product
		if err := database.DB.Preload("Category").First(&product, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
		}

		var rec *models.Recipe
		var found models.Recipe
		if err := database.DB.Where("product_id = ?", product.ID).First(&found).Error; err == nil {
			rec = &found
		}

		return c.JSON(toProductResponse(&product, rec))
	}
}

// PUT /api/admin/products/:id - Maliyet veya satış fiyatı değişirse ürünü
// kullanan reçeteler aynı işlem içinde yeniden hesaplanır
func UpdateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz ürün ID")
		}

		var body UpdateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		var product models.Product
		if err := database.DB.First(&product, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
		}
		before := product

		updates := map[string]interface{}{}
		priceChanged := false

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Ürün adı boş olamaz")
			}
			var count int64
			database.DB.Model(&models.Product{}).
				Where("name = ? AND id <> ?", name, product.ID).
				Count(&count)
			if count > 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Bu isimde bir ürün zaten var")
			}
			updates["name"] = name
		}
		if body.Unit != nil {
			if *body.Unit == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Birim boş olamaz")
			}
			updates["unit"] = *body.Unit
		}
		if body.Barcode != nil {
			updates["barcode"] = *body.Barcode
		}
		if body.InternalRef != nil {
			updates["internal_ref"] = *body.InternalRef
		}
		if body.CategoryID != nil {
			var cat models.ProductCategory
			if err := database.DB.First(&cat, *body.CategoryID).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Kategori bulunamadı")
			}
			updates["category_id"] = *body.CategoryID
		}
		if body.SalePrice != nil {
			if *body.SalePrice < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Satış fiyatı negatif olamaz")
			}
			updates["sale_price"] = *body.SalePrice
			priceChanged = priceChanged || *body.SalePrice != product.SalePrice
		}
		if body.StandardCost != nil {
			if *body.StandardCost < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Birim maliyet negatif olamaz")
			}
			updates["standard_cost"] = *body.StandardCost
			priceChanged = priceChanged || *body.StandardCost != product.StandardCost
		}
		if body.IsIngredient != nil {
			updates["is_ingredient"] = *body.IsIngredient
		}
		if body.IngredientCategory != nil {
			if *body.IngredientCategory != "" && !validIngredientCategory(*body.IngredientCategory) {
				return fiber.NewError(fiber.StatusBadRequest, "Geçersiz malzeme türü")
			}
			updates["ingredient_category"] = *body.IngredientCategory
		}
		if body.AvailableInPos != nil {
			updates["available_in_pos"] = *body.AvailableInPos
		}

		tx := database.DB.Begin()
		if len(updates) > 0 {
			if err := tx.Model(&models.Product{}).Where("id = ?", product.ID).Updates(updates).Error; err != nil {
				tx.Rollback()
				return fiber.NewError(fiber.StatusInternalServerError, "Ürün güncellenemedi")
			}
		}
		if priceChanged {
			if err := recipe.RecalculateForProduct(tx, product.ID); err != nil {
				tx.Rollback()
				return fiber.NewError(fiber.StatusInternalServerError, "Bağlı reçeteler hesaplanamadı")
			}
		}
		if err := tx.Commit().Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "İşlem tamamlanamadı")
		}

		var after models.Product
		if err := database.DB.Preload("Category").First(&after, product.ID).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün okunamadı")
		}

		if user, uerr := auth.CurrentUser(c); uerr == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      user.ID,
				UserName:    user.Name,
				EntityType:  "product",
				EntityID:    product.ID,
				Action:      models.AuditActionUpdate,
				Description: fmt.Sprintf("Ürün güncellendi: %s", after.Name),
				Before:      before,
				After:       after,
			})
		}

		var rec *models.Recipe
		var found models.Recipe
		if err := database.DB.Where("product_id = ?", after.ID).First(&found).Error; err == nil {
			rec = &found
		}
		return c.JSON(toProductResponse(&after, rec))
	}
}

// DELETE /api/admin/products/:id
func DeleteProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz ürün ID")
		}

		var product models.Product
		if err := database.DB.First(&product, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
		}

		var lineCount int64
		database.DB.Model(&models.RecipeLine{}).Where("product_id = ?", product.ID).Count(&lineCount)
		if lineCount > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Bu malzeme reçetelerde kullanılıyor, silinemez")
		}

		var recipeCount int64
		database.DB.Model(&models.Recipe{}).Where("product_id = ?", product.ID).Count(&recipeCount)
		if recipeCount > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Bu ürünün reçetesi var, önce reçeteyi silin")
		}

		if err := database.DB.Delete(&models.Product{}, product.ID).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün silinemedi")
		}

		if user, uerr := auth.CurrentUser(c); uerr == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      user.ID,
				UserName:    user.Name,
				EntityType:  "product",
				EntityID:    product.ID,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("Ürün silindi: %s", product.Name),
				Before:      product,
				After:       product,
			})
		}

		return c.JSON(fiber.Map{"message": "Ürün silindi"})
	}
}
