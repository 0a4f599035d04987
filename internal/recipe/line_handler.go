package recipe

import (
	"fmt"

	"mutfak-backend/internal/audit"
	"mutfak-backend/internal/auth"
	"mutfak-backend/internal/bom"
	"mutfak-backend/internal/database"
	"mutfak-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateLineRequest struct {
	RecipeID  uint    `json:"recipe_id"`
	ProductID uint    `json:"product_id"`
	Quantity  float64 `json:"quantity"`
	Unit      string  `json:"unit"`
	Sequence  *int    `json:"sequence"`
}

type UpdateLineRequest struct {
	ProductID *uint    `json:"product_id"`
	Quantity  *float64 `json:"quantity"`
	Unit      *string  `json:"unit"`
	Sequence  *int     `json:"sequence"`
}

// POST /api/recipe-lines
func CreateLineHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateLineRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		var rec models.Recipe
		if err := database.DB.First(&rec, body.RecipeID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Reçete bulunamadı")
		}

		product, err := ValidateLine(database.DB, body.ProductID, body.Quantity)
		if err != nil {
			return httpError(err)
		}

		// Birim boş bırakılırsa malzemenin kendi birimi kullanılır
		unit := body.Unit
		if unit == "" {
			unit = product.Unit
		}
		sequence := 10
		if body.Sequence != nil {
			sequence = *body.Sequence
		}

		line := models.RecipeLine{
			RecipeID:  rec.ID,
			Sequence:  sequence,
			ProductID: product.ID,
			Quantity:  body.Quantity,
			Unit:      unit,
		}

		tx := database.DB.Begin()
		if err := tx.Create(&line).Error; err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Satır oluşturulamadı")
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

		if user, uerr := auth.CurrentUser(c); uerr == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      user.ID,
				UserName:    user.Name,
				EntityType:  "recipe_line",
				EntityID:    line.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Reçeteye malzeme eklendi: %s", product.Name),
				After:       line,
			})
		}

		return loadAndRespond(c, rec.ID, fiber.StatusCreated)
	}
}

// PUT /api/recipe-lines/:id
func UpdateLineHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz satır ID")
		}

		var body UpdateLineRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		var line models.RecipeLine
		if err := database.DB.First(&line, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Satır bulunamadı")
		}
		before := line

		updates := map[string]interface{}{}

		quantity := line.Quantity
		if body.Quantity != nil {
			quantity = *body.Quantity
			updates["quantity"] = quantity
		}
		productID := line.ProductID
		if body.ProductID != nil {
			productID = *body.ProductID
			updates["product_id"] = productID
		}

		product, err := ValidateLine(database.DB, productID, quantity)
		if err != nil {
			return httpError(err)
		}

		if body.Unit != nil {
			updates["unit"] = *body.Unit
		} else if body.ProductID != nil && *body.ProductID != line.ProductID {
			// Malzeme değişti, birim belirtilmediyse yeni malzemenin birimi
			updates["unit"] = product.Unit
		}
		if body.Sequence != nil {
			updates["sequence"] = *body.Sequence
		}

		tx := database.DB.Begin()
		if len(updates) > 0 {
			if err := tx.Model(&models.RecipeLine{}).Where("id = ?", line.ID).Updates(updates).Error; err != nil {
				tx.Rollback()
				return fiber.NewError(fiber.StatusInternalServerError, "Satır güncellenemedi")
			}
		}
		if err := Recalculate(tx, line.RecipeID); err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Maliyet hesaplanamadı")
		}
		if err := bom.Sync(tx, line.RecipeID); err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Kit güncellenemedi")
		}
		if err := tx.Commit().Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "İşlem tamamlanamadı")
		}

		if user, uerr := auth.CurrentUser(c); uerr == nil {
			var after models.RecipeLine
			database.DB.First(&after, line.ID)
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      user.ID,
				UserName:    user.Name,
				EntityType:  "recipe_line",
				EntityID:    line.ID,
				Action:      models.AuditActionUpdate,
				Description: fmt.Sprintf("Reçete satırı güncellendi: %s", product.Name),
				Before:      before,
				After:       after,
			})
		}

		return loadAndRespond(c, line.RecipeID, fiber.StatusOK)
	}
}

// DELETE /api/recipe-lines/:id
func DeleteLineHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz satır ID")
		}

		var line models.RecipeLine
		if err := database.DB.Preload("Product").First(&line, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Satır bulunamadı")
		}

		tx := database.DB.Begin()
		if err := tx.Delete(&models.RecipeLine{}, line.ID).Error; err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Satır silinemedi")
		}
		if err := Recalculate(tx, line.RecipeID); err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Maliyet hesaplanamadı")
		}
		if err := bom.Sync(tx, line.RecipeID); err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Kit güncellenemedi")
		}
		if err := tx.Commit().Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "İşlem tamamlanamadı")
		}

		if user, uerr := auth.CurrentUser(c); uerr == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      user.ID,
				UserName:    user.Name,
				EntityType:  "recipe_line",
				EntityID:    line.ID,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("Reçeteden malzeme çıkarıldı: %s", line.Product.Name),
				Before:      line,
				After:       line,
			})
		}

		return loadAndRespond(c, line.RecipeID, fiber.StatusOK)
	}
}
