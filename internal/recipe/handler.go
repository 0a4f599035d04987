package recipe

import (
	"fmt"

	"mutfak-backend/internal/audit"
	"mutfak-backend/internal/auth"
	"mutfak-backend/internal/bom"
	"mutfak-backend/internal/database"
	"mutfak-backend/internal/models"
	"mutfak-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CreateRecipeRequest struct {
	Name         string            `json:"name"`
	ProductID    uint              `json:"product_id"`
	Type         models.RecipeType `json:"type"`
	PortionSize  *float64          `json:"portion_size"`
	PrepTime     float64           `json:"prep_time"`
	CookTime     float64           `json:"cook_time"`
	Instructions string            `json:"instructions"`
}

type UpdateRecipeRequest struct {
	Name         *string            `json:"name"`
	ProductID    *uint              `json:"product_id"`
	Type         *models.RecipeType `json:"type"`
	Active       *bool              `json:"active"`
	PortionSize  *float64           `json:"portion_size"`
	PrepTime     *float64           `json:"prep_time"`
	CookTime     *float64           `json:"cook_time"`
	Instructions *string            `json:"instructions"`
}

type RecipeLineResponse struct {
	ID           uint    `json:"id"`
	Sequence     int     `json:"sequence"`
	ProductID    uint    `json:"product_id"`
	ProductName  string  `json:"product_name"`
	Quantity     float64 `json:"quantity"`
	Unit         string  `json:"unit"`
	UnitCost     float64 `json:"unit_cost"`
	Cost         float64 `json:"cost"`
	AvailableQty float64 `json:"available_qty"`
}

type RecipeResponse struct {
	ID                 uint                 `json:"id"`
	Name               string               `json:"name"`
	ProductID          uint                 `json:"product_id"`
	ProductName        string               `json:"product_name"`
	Active             bool                 `json:"active"`
	Type               models.RecipeType    `json:"type"`
	PortionSize        float64              `json:"portion_size"`
	PrepTime           float64              `json:"prep_time"`
	CookTime           float64              `json:"cook_time"`
	Instructions       string               `json:"instructions"`
	BomID              *uint                `json:"bom_id"`
	SellingPrice       float64              `json:"selling_price"`
	TotalCost          float64              `json:"total_cost"`
	CostPerPortion     float64              `json:"cost_per_portion"`
	FoodCostPercentage float64              `json:"food_cost_percentage"`
	ProfitMargin       float64              `json:"profit_margin"`
	Lines              []RecipeLineResponse `json:"lines,omitempty"`
}

func toResponse(r *models.Recipe, withLines bool) RecipeResponse {
	resp := RecipeResponse{
		ID:                 r.ID,
		Name:               r.Name,
		ProductID:          r.ProductID,
		ProductName:        r.Product.Name,
		Active:             r.Active,
		Type:               r.Type,
		PortionSize:        r.PortionSize,
		PrepTime:           r.PrepTime,
		CookTime:           r.CookTime,
		Instructions:       r.Instructions,
		BomID:              r.BomID,
		SellingPrice:       r.Product.SalePrice,
		TotalCost:          r.TotalCost,
		CostPerPortion:     r.CostPerPortion,
		FoodCostPercentage: r.FoodCostPercentage,
		ProfitMargin:       r.ProfitMargin,
	}
	if withLines {
		resp.Lines = make([]RecipeLineResponse, 0, len(r.Lines))
		for i := range r.Lines {
			l := &r.Lines[i]
			resp.Lines = append(resp.Lines, RecipeLineResponse{
				ID:           l.ID,
				Sequence:     l.Sequence,
				ProductID:    l.ProductID,
				ProductName:  l.Product.Name,
				Quantity:     l.Quantity,
				Unit:         l.Unit,
				UnitCost:     l.Product.StandardCost,
				Cost:         l.Cost(),
				AvailableQty: l.Product.OnHandQty,
			})
		}
	}
	return resp
}

// POST /api/recipes
func CreateRecipeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateRecipeRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Reçete adı zorunlu")
		}
		if body.ProductID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Menü ürünü seçilmeli")
		}

		var product models.Product
		if err := database.DB.First(&product, body.ProductID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Ürün bulunamadı")
		}

		// Ürün başına tek reçete
		var count int64
		database.DB.Model(&models.Recipe{}).Where("product_id = ?", body.ProductID).Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Bu ürün için zaten bir reçete var")
		}

		recipeType := body.Type
		if recipeType == "" {
			recipeType = models.RecipeTypeDish
		}
		switch recipeType {
		case models.RecipeTypeDish, models.RecipeTypeComponent, models.RecipeTypeDrink, models.RecipeTypeDessert:
		default:
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz reçete türü")
		}

		portionSize := 1.0
		if body.PortionSize != nil {
			if *body.PortionSize < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Porsiyon sayısı negatif olamaz")
			}
			portionSize = *body.PortionSize
		}

		rec := models.Recipe{
			Name:         body.Name,
			ProductID:    body.ProductID,
			Active:       true,
			Type:         recipeType,
			PortionSize:  portionSize,
			PrepTime:     body.PrepTime,
			CookTime:     body.CookTime,
			Instructions: body.Instructions,
		}

		tx := database.DB.Begin()
		if err := tx.Create(&rec).Error; err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Reçete oluşturulamadı")
		}
		if err := Recalculate(tx, rec.ID); err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Maliyet hesaplanamadı")
		}
		if err := tx.Commit().Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "İşlem tamamlanamadı")
		}

		if user, err := auth.CurrentUser(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      user.ID,
				UserName:    user.Name,
				EntityType:  "recipe",
				EntityID:    rec.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Reçete oluşturuldu: %s", rec.Name),
				After:       rec,
			})
		}

		return loadAndRespond(c, rec.ID, fiber.StatusCreated)
	}
}

// GET /api/recipes?type=dish&active=true
func ListRecipesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Recipe{}).Preload("Product")

		if t := c.Query("type"); t != "" {
			dbq = dbq.Where("type = ?", t)
		}
		if a := c.Query("active"); a != "" {
			dbq = dbq.Where("active = ?", a == "true")
		}

		var recipes []models.Recipe
		if err := dbq.Order("name asc").Find(&recipes).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Reçeteler listelenemedi")
		}

		resp := make([]RecipeResponse, 0, len(recipes))
		for i := range recipes {
			resp = append(resp, toResponse(&recipes[i], false))
		}
		return c.JSON(resp)
	}
}

// GET /api/recipes/:id
func GetRecipeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz reçete ID")
		}
		return loadAndRespond(c, uint(id), fiber.StatusOK)
	}
}

// PUT /api/recipes/:id
func UpdateRecipeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz reçete ID")
		}

		var body UpdateRecipeRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		var rec models.Recipe
		if err := database.DB.First(&rec, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Reçete bulunamadı")
		}
		before := rec

		updates := map[string]interface{}{}
		if body.Name != nil {
			if *body.Name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Reçete adı boş olamaz")
			}
			updates["name"] = *body.Name
		}
		if body.ProductID != nil && *body.ProductID != rec.ProductID {
			var product models.Product
			if err := database.DB.First(&product, *body.ProductID).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Ürün bulunamadı")
			}
			var count int64
			database.DB.Model(&models.Recipe{}).
				Where("product_id = ? AND id <> ?", *body.ProductID, rec.ID).
				Count(&count)
			if count > 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Bu ürün için zaten bir reçete var")
			}
			updates["product_id"] = *body.ProductID
		}
		if body.Type != nil {
			switch *body.Type {
			case models.RecipeTypeDish, models.RecipeTypeComponent, models.RecipeTypeDrink, models.RecipeTypeDessert:
			default:
				return fiber.NewError(fiber.StatusBadRequest, "Geçersiz reçete türü")
			}
			updates["type"] = *body.Type
		}
		if body.Active != nil {
			updates["active"] = *body.Active
		}
		if body.PortionSize != nil {
			if *body.PortionSize < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Porsiyon sayısı negatif olamaz")
			}
			updates["portion_size"] = *body.PortionSize
		}
		if body.PrepTime != nil {
			updates["prep_time"] = *body.PrepTime
		}
		if body.CookTime != nil {
			updates["cook_time"] = *body.CookTime
		}
		if body.Instructions != nil {
			updates["instructions"] = *body.Instructions
		}

		tx := database.DB.Begin()
		if len(updates) > 0 {
			if err := tx.Model(&models.Recipe{}).Where("id = ?", rec.ID).Updates(updates).Error; err != nil {
				tx.Rollback()
				return fiber.NewError(fiber.StatusInternalServerError, "Reçete güncellenemedi")
			}
		}
		if err := Recalculate(tx, rec.ID); err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Maliyet hesaplanamadı")
		}
		if err := bom.Sync(tx, rec.ID); err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Kit güncellenemedi")
		}
		if err := tx.Commit().Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "İşlem tamamlanamadı")
		}

		if user, err := auth.CurrentUser(c); err == nil {
			var after models.Recipe
			database.DB.First(&after, rec.ID)
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      user.ID,
				UserName:    user.Name,
				EntityType:  "recipe",
				EntityID:    rec.ID,
				Action:      models.AuditActionUpdate,
				Description: fmt.Sprintf("Reçete güncellendi: %s", after.Name),
				Before:      before,
				After:       after,
			})
		}

		return loadAndRespond(c, rec.ID, fiber.StatusOK)
	}
}

// DELETE /api/recipes/:id - Reçete silinince bağlı kit de silinir
func DeleteRecipeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz reçete ID")
		}

		var rec models.Recipe
		if err := database.DB.First(&rec, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Reçete bulunamadı")
		}

		tx := database.DB.Begin()
		if err := tx.Where("recipe_id = ?", rec.ID).Delete(&models.RecipeLine{}).Error; err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Reçete satırları silinemedi")
		}
		if err := tx.Delete(&models.Recipe{}, rec.ID).Error; err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Reçete silinemedi")
		}
		// Kit reçeteden sonra silinir, FK bu sırayı gerektirir
		if rec.BomID != nil {
			if err := bom.DeleteForRecipe(tx, *rec.BomID); err != nil {
				tx.Rollback()
				return fiber.NewError(fiber.StatusInternalServerError, "Kit silinemedi")
			}
		}
		if err := tx.Commit().Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "İşlem tamamlanamadı")
		}

		if user, err := auth.CurrentUser(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      user.ID,
				UserName:    user.Name,
				EntityType:  "recipe",
				EntityID:    rec.ID,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("Reçete silindi: %s", rec.Name),
				Before:      rec,
				After:       rec,
			})
		}

		return c.JSON(fiber.Map{"message": "Reçete silindi"})
	}
}

// POST /api/recipes/:id/recalculate - Maliyeti ve kiti elle tazele
func RecalculateRecipeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz reçete ID")
		}

		var rec models.Recipe
		if err := database.DB.First(&rec, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Reçete bulunamadı")
		}

		tx := database.DB.Begin()
		if err := Recalculate(tx, rec.ID); err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Maliyet hesaplanamadı")
		}
		if err := bom.Sync(tx, rec.ID); err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Kit güncellenemedi")
		}
		if err := tx.Commit().Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "İşlem tamamlanamadı")
		}

		return loadAndRespond(c, rec.ID, fiber.StatusOK)
	}
}

// POST /api/recipes/:id/apply-cost - Porsiyon maliyetini ürünün birim
// maliyetine yazar. Ürün başka reçetelerde malzeme olarak kullanılıyorsa
// onlar da yeniden hesaplanır.
func ApplyCostHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz reçete ID")
		}

		var rec models.Recipe
		if err := database.DB.Preload("Product").First(&rec, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Reçete bulunamadı")
		}

		tx := database.DB.Begin()
		if err := tx.Model(&models.Product{}).Where("id = ?", rec.ProductID).
			Update("standard_cost", rec.CostPerPortion).Error; err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün maliyeti güncellenemedi")
		}
		if err := RecalculateForProduct(tx, rec.ProductID); err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Bağlı reçeteler hesaplanamadı")
		}
		if err := tx.Commit().Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "İşlem tamamlanamadı")
		}

		if user, err := auth.CurrentUser(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      user.ID,
				UserName:    user.Name,
				EntityType:  "product",
				EntityID:    rec.ProductID,
				Action:      models.AuditActionUpdate,
				Description: fmt.Sprintf("Reçete maliyeti ürüne yazıldı: %s", rec.Name),
				Before:      rec.Product,
			})
		}

		return c.JSON(fiber.Map{
			"message":       "Maliyet ürüne uygulandı",
			"product_id":    rec.ProductID,
			"standard_cost": rec.CostPerPortion,
		})
	}
}

func loadAndRespond(c *fiber.Ctx, recipeID uint, status int) error {
	var rec models.Recipe
	if err := database.DB.
		Preload("Product").
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("sequence asc, id asc") }).
		Preload("Lines.Product").
		First(&rec, recipeID).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, "Reçete bulunamadı")
	}
	return c.Status(status).JSON(toResponse(&rec, true))
}

func httpError(err error) error {
	if validation.IsError(err) {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return fiber.NewError(fiber.StatusInternalServerError, err.Error())
}
