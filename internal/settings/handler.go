package settings

import (
	"mutfak-backend/internal/database"
	"mutfak-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type SettingResponse struct {
	IngredientCategoryID              *uint   `json:"ingredient_category_id"`
	IngredientExpenseAccountID        *uint   `json:"ingredient_expense_account_id"`
	IngredientStockValuationAccountID *uint   `json:"ingredient_stock_valuation_account_id"`
	MenuCategoryID                    *uint   `json:"menu_category_id"`
	MenuIncomeAccountID               *uint   `json:"menu_income_account_id"`
	GainAccountID                     *uint   `json:"gain_account_id"`
	LossAccountID                     *uint   `json:"loss_account_id"`
	HighFoodCostThreshold             float64 `json:"high_food_cost_threshold"`
}

type UpdateSettingRequest struct {
	IngredientCategoryID              *uint    `json:"ingredient_category_id"`
	IngredientExpenseAccountID        *uint    `json:"ingredient_expense_account_id"`
	IngredientStockValuationAccountID *uint    `json:"ingredient_stock_valuation_account_id"`
	MenuCategoryID                    *uint    `json:"menu_category_id"`
	MenuIncomeAccountID               *uint    `json:"menu_income_account_id"`
	GainAccountID                     *uint    `json:"gain_account_id"`
	LossAccountID                     *uint    `json:"loss_account_id"`
	HighFoodCostThreshold             *float64 `json:"high_food_cost_threshold"`
}

func toResponse(s *models.Setting) SettingResponse {
	return SettingResponse{
		IngredientCategoryID:              s.IngredientCategoryID,
		IngredientExpenseAccountID:        s.IngredientExpenseAccountID,
		IngredientStockValuationAccountID: s.IngredientStockValuationAccountID,
		MenuCategoryID:                    s.MenuCategoryID,
		MenuIncomeAccountID:               s.MenuIncomeAccountID,
		GainAccountID:                     s.GainAccountID,
		LossAccountID:                     s.LossAccountID,
		HighFoodCostThreshold:             s.HighFoodCostThreshold,
	}
}

// GET /api/admin/settings
func GetSettingsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		setting, err := Get(database.DB)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ayarlar okunamadı")
		}
		return c.JSON(toResponse(setting))
	}
}

// PUT /api/admin/settings
func UpdateSettingsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body UpdateSettingRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		setting, err := Get(database.DB)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ayarlar okunamadı")
		}

		updates := map[string]interface{}{}
		if body.IngredientCategoryID != nil {
			updates["ingredient_category_id"] = *body.IngredientCategoryID
		}
		if body.IngredientExpenseAccountID != nil {
			updates["ingredient_expense_account_id"] = *body.IngredientExpenseAccountID
		}
		if body.IngredientStockValuationAccountID != nil {
			updates["ingredient_stock_valuation_account_id"] = *body.IngredientStockValuationAccountID
		}
		if body.MenuCategoryID != nil {
			updates["menu_category_id"] = *body.MenuCategoryID
		}
		if body.MenuIncomeAccountID != nil {
			updates["menu_income_account_id"] = *body.MenuIncomeAccountID
		}
		if body.GainAccountID != nil {
			updates["gain_account_id"] = *body.GainAccountID
		}
		if body.LossAccountID != nil {
			updates["loss_account_id"] = *body.LossAccountID
		}
		if body.HighFoodCostThreshold != nil {
			if *body.HighFoodCostThreshold < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Eşik negatif olamaz")
			}
			updates["high_food_cost_threshold"] = *body.HighFoodCostThreshold
		}

		if len(updates) > 0 {
			if err := database.DB.Model(setting).Updates(updates).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Ayarlar güncellenemedi")
			}
		}

		setting, err = Get(database.DB)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ayarlar okunamadı")
		}

		return c.JSON(toResponse(setting))
	}
}
