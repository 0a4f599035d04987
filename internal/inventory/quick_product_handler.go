package inventory

import (
	"fmt"
	"strings"

	"mutfak-backend/internal/audit"
	"mutfak-backend/internal/auth"
	"mutfak-backend/internal/database"
	"mutfak-backend/internal/models"
	"mutfak-backend/internal/recipe"
	"mutfak-backend/internal/settings"

	"github.com/gofiber/fiber/v2"
)

type QuickProductRequest struct {
	Name         string            `json:"name"`
	SalePrice    float64           `json:"sale_price"`
	Unit         string            `json:"unit"`
	CreateRecipe bool              `json:"create_recipe"`
	RecipeType   models.RecipeType `json:"recipe_type"`
	PortionSize  *float64          `json:"portion_size"`
}

// POST /api/quick-products - Tek adımda satılabilir menü ürünü açar,
// istenirse boş reçetesi de oluşturulur
func QuickProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body QuickProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Ürün adı zorunlu")
		}
		if body.SalePrice < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Satış fiyatı negatif olamaz")
		}

		unit := body.Unit
		if unit == "" {
			unit = "adet"
		}

		recipeType := body.RecipeType
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

		var count int64
		database.DB.Model(&models.Product{}).Where("name = ?", body.Name).Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Bu isimde bir ürün zaten var")
		}

		setting, err := settings.Get(database.DB)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ayarlar okunamadı")
		}

		product := models.Product{
			Name:           body.Name,
			Unit:           unit,
			CategoryID:     setting.MenuCategoryID,
			SalePrice:      body.SalePrice,
			AvailableInPos: true,
		}

		var rec *models.Recipe

		tx := database.DB.Begin()
		if err := tx.Create(&product).Error; err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün oluşturulamadı")
		}
		if body.CreateRecipe {
			newRec := models.Recipe{
				Name:        body.Name,
				ProductID:   product.ID,
				Active:      true,
				Type:        recipeType,
				PortionSize: portionSize,
			}
			if err := tx.Create(&newRec).Error; err != nil {
				tx.Rollback()
				return fiber.NewError(fiber.StatusInternalServerError, "Reçete oluşturulamadı")
			}
			if err := recipe.Recalculate(tx, newRec.ID); err != nil {
				tx.Rollback()
				return fiber.NewError(fiber.StatusInternalServerError, "Maliyet hesaplanamadı")
			}
			rec = &newRec
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
				Description: fmt.Sprintf("Hızlı ürün oluşturuldu: %s", product.Name),
				After:       product,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(toProductResponse(&product, rec))
	}
}
