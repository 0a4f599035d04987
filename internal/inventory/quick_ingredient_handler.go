package inventory

import (
	"fmt"
	"strings"

	"mutfak-backend/internal/audit"
	"mutfak-backend/internal/auth"
	"mutfak-backend/internal/database"
	"mutfak-backend/internal/models"
	"mutfak-backend/internal/settings"

	"github.com/gofiber/fiber/v2"
)

type QuickIngredientRequest struct {
	Name               string                    `json:"name"`
	Unit               string                    `json:"unit"`
	Cost               float64                   `json:"cost"`
	IngredientCategory models.IngredientCategory `json:"ingredient_category"`
	InitialQty         float64                   `json:"initial_qty"`
	SupplierID         *uint                     `json:"supplier_id"`
	SupplierPrice      *float64                  `json:"supplier_price"`
}

// POST /api/quick-ingredients - Tek adımda malzeme açar: ürün kategorisi
// ayarlardaki varsayılandan gelir, istenirse tedarikçi fiyatı da yazılır
func QuickIngredientHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body QuickIngredientRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Malzeme adı zorunlu")
		}
		if body.Unit == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Birim zorunlu")
		}
		if body.Cost < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Maliyet negatif olamaz")
		}
		if body.InitialQty < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Başlangıç miktarı negatif olamaz")
		}

		ingredientCategory := body.IngredientCategory
		if ingredientCategory == "" {
			ingredientCategory = models.IngredientOther
		}
		if !validIngredientCategory(ingredientCategory) {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz malzeme türü")
		}

		var count int64
		database.DB.Model(&models.Product{}).Where("name = ?", body.Name).Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Bu isimde bir ürün zaten var")
		}

		if body.SupplierID != nil {
			var supplier models.Supplier
			if err := database.DB.First(&supplier, *body.SupplierID).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Tedarikçi bulunamadı")
			}
			if body.SupplierPrice == nil || *body.SupplierPrice < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Tedarikçi fiyatı geçersiz")
			}
		}

		setting, err := settings.Get(database.DB)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ayarlar okunamadı")
		}

		product := models.Product{
			Name:               body.Name,
			Unit:               body.Unit,
			CategoryID:         setting.IngredientCategoryID,
			StandardCost:       body.Cost,
			OnHandQty:          body.InitialQty,
			IsIngredient:       true,
			IngredientCategory: ingredientCategory,
			AvailableInPos:     false,
		}

		tx := database.DB.Begin()
		if err := tx.Create(&product).Error; err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Malzeme oluşturulamadı")
		}
		if body.SupplierID != nil {
			info := models.SupplierInfo{
				SupplierID: *body.SupplierID,
				ProductID:  product.ID,
				Price:      *body.SupplierPrice,
			}
			if err := tx.Create(&info).Error; err != nil {
				tx.Rollback()
				return fiber.NewError(fiber.StatusInternalServerError, "Tedarikçi fiyatı kaydedilemedi")
			}
		}
		if err := tx.Commit().Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "İşlem tamamlanamadı")
		}

		if user, uerr := auth.CurrentUser(c); uerr == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      user.ID,
				UserName:    user.Name,
				EntityType:  "product",
				EntityID:    product.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Hızlı malzeme oluşturuldu: %s", product.Name),
				After:       product,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(toProductResponse(&product, nil))
	}
}
