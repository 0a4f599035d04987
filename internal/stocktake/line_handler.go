package stocktake

import (
	"fmt"

	"mutfak-backend/internal/audit"
	"mutfak-backend/internal/auth"
	"mutfak-backend/internal/database"
	"mutfak-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateStocktakeLineRequest struct {
	StocktakeID uint     `json:"stocktake_id"`
	ProductID   uint     `json:"product_id"`
	CountedQty  *float64 `json:"counted_qty"`
	Notes       string   `json:"notes"`
}

type UpdateStocktakeLineRequest struct {
	CountedQty *float64 `json:"counted_qty"`
	Notes      *string  `json:"notes"`
}

func editableState(state models.StocktakeState) bool {
	return state == models.StocktakeStateDraft || state == models.StocktakeStateInProgress
}

// POST /api/stocktake-lines - SystemQty eldeki miktarın anlık fotoğrafı
// olarak alınır, sayılan miktar verilmezse aynı değerle başlar
func CreateStocktakeLineHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateStocktakeLineRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		var st models.Stocktake
		if err := database.DB.First(&st, body.StocktakeID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Sayım bulunamadı")
		}
		if !editableState(st.State) {
			return fiber.NewError(fiber.StatusBadRequest, "Sadece taslak veya devam eden sayıma satır eklenebilir")
		}

		var product models.Product
		if err := database.DB.First(&product, body.ProductID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Malzeme bulunamadı")
		}
		if !product.IsIngredient {
			return fiber.NewError(fiber.StatusBadRequest, "Seçilen ürün malzeme olarak işaretli değil")
		}

		var count int64
		database.DB.Model(&models.StocktakeLine{}).
			Where("stocktake_id = ? AND product_id = ?", st.ID, product.ID).
			Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Bu malzeme sayımda zaten var")
		}

		countedQty := product.OnHandQty
		if body.CountedQty != nil {
			if *body.CountedQty < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Sayılan miktar negatif olamaz")
			}
			countedQty = *body.CountedQty
		}

		line := models.StocktakeLine{
			StocktakeID: st.ID,
			ProductID:   product.ID,
			SystemQty:   product.OnHandQty,
			CountedQty:  countedQty,
			Notes:       body.Notes,
		}
		if err := database.DB.Create(&line).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Sayım satırı oluşturulamadı")
		}

		if user, uerr := auth.CurrentUser(c); uerr == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      user.ID,
				UserName:    user.Name,
				EntityType:  "stocktake_line",
				EntityID:    line.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Sayıma malzeme eklendi: %s", product.Name),
				After:       line,
			})
		}

		return loadAndRespond(c, st.ID, fiber.StatusCreated)
	}
}

// PUT /api/stocktake-lines/:id
func UpdateStocktakeLineHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz satır ID")
		}

		var body UpdateStocktakeLineRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		var line models.StocktakeLine
		if err := database.DB.Preload("Product").First(&line, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Satır bulunamadı")
		}

		var st models.Stocktake
		if err := database.DB.First(&st, line.StocktakeID).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Sayım okunamadı")
		}
		if !editableState(st.State) {
			return fiber.NewError(fiber.StatusBadRequest, "Tamamlanmış veya iptal edilmiş sayımın satırı düzenlenemez")
		}
		before := line

		// Her düzenlemede sistem miktarı fotoğrafı tazelenir
		updates := map[string]interface{}{"system_qty": line.Product.OnHandQty}
		if body.CountedQty != nil {
			if *body.CountedQty < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Sayılan miktar negatif olamaz")
			}
			updates["counted_qty"] = *body.CountedQty
		}
		if body.Notes != nil {
			updates["notes"] = *body.Notes
		}

		if len(updates) > 0 {
			if err := database.DB.Model(&models.StocktakeLine{}).Where("id = ?", line.ID).Updates(updates).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Satır güncellenemedi")
			}
		}

		if user, uerr := auth.CurrentUser(c); uerr == nil {
			var after models.StocktakeLine
			database.DB.First(&after, line.ID)
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      user.ID,
				UserName:    user.Name,
				EntityType:  "stocktake_line",
				EntityID:    line.ID,
				Action:      models.AuditActionUpdate,
				Description: fmt.Sprintf("Sayım satırı güncellendi: %s", line.Product.Name),
				Before:      before,
				After:       after,
			})
		}

		return loadAndRespond(c, line.StocktakeID, fiber.StatusOK)
	}
}

// DELETE /api/stocktake-lines/:id
func DeleteStocktakeLineHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz satır ID")
		}

		var line models.StocktakeLine
		if err := database.DB.Preload("Product").First(&line, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Satır bulunamadı")
		}

		var st models.Stocktake
		if err := database.DB.First(&st, line.StocktakeID).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Sayım okunamadı")
		}
		if !editableState(st.State) {
			return fiber.NewError(fiber.StatusBadRequest, "Tamamlanmış veya iptal edilmiş sayımın satırı silinemez")
		}

		if err := database.DB.Delete(&models.StocktakeLine{}, line.ID).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Satır silinemedi")
		}

		if user, uerr := auth.CurrentUser(c); uerr == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      user.ID,
				UserName:    user.Name,
				EntityType:  "stocktake_line",
				EntityID:    line.ID,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("Sayımdan malzeme çıkarıldı: %s", line.Product.Name),
				Before:      line,
				After:       line,
			})
		}

		return loadAndRespond(c, line.StocktakeID, fiber.StatusOK)
	}
}
