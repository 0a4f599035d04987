package dashboard

import (
	"mutfak-backend/internal/database"
	"mutfak-backend/internal/models"
	"mutfak-backend/internal/settings"

	"github.com/gofiber/fiber/v2"
)

type StatsResponse struct {
	RecipeCount           int64   `json:"recipe_count"`
	IngredientCount       int64   `json:"ingredient_count"`
	PosProductCount       int64   `json:"pos_product_count"`
	ProductsWithoutRecipe int64   `json:"products_without_recipe"`
	AvgFoodCostPercentage float64 `json:"avg_food_cost_percentage"`
	HighFoodCostCount     int64   `json:"high_food_cost_count"`
	HighFoodCostThreshold float64 `json:"high_food_cost_threshold"`
	TotalStockValue       float64 `json:"total_stock_value"`
	PendingStocktakeCount int64   `json:"pending_stocktake_count"`
}

type LowMarginRecipeResponse struct {
	ID                 uint    `json:"id"`
	Name               string  `json:"name"`
	ProductName        string  `json:"product_name"`
	SellingPrice       float64 `json:"selling_price"`
	CostPerPortion     float64 `json:"cost_per_portion"`
	FoodCostPercentage float64 `json:"food_cost_percentage"`
	ProfitMargin       float64 `json:"profit_margin"`
}

// GET /api/dashboard/stats - Mutfak maliyet özetinin tek ekranlık rakamları
func StatsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		setting, err := settings.Get(database.DB)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ayarlar okunamadı")
		}

		resp := StatsResponse{HighFoodCostThreshold: setting.HighFoodCostThreshold}

		database.DB.Model(&models.Recipe{}).Where("active = ?", true).Count(&resp.RecipeCount)
		database.DB.Model(&models.Product{}).Where("is_ingredient = ?", true).Count(&resp.IngredientCount)
		database.DB.Model(&models.Product{}).Where("available_in_pos = ?", true).Count(&resp.PosProductCount)

		// POS'ta satılan ama reçetesi olmayan ürünler maliyetsiz satılıyor demektir
		database.DB.Model(&models.Product{}).
			Where("available_in_pos = ? AND id NOT IN (?)", true,
				database.DB.Model(&models.Recipe{}).Select("product_id")).
			Count(&resp.ProductsWithoutRecipe)

		var avg *float64
		database.DB.Model(&models.Recipe{}).
			Where("active = ?", true).
			Select("AVG(food_cost_percentage)").
			Scan(&avg)
		if avg != nil {
			resp.AvgFoodCostPercentage = *avg
		}

		database.DB.Model(&models.Recipe{}).
			Where("active = ? AND food_cost_percentage > ?", true, setting.HighFoodCostThreshold).
			Count(&resp.HighFoodCostCount)

		var stockValue *float64
		database.DB.Model(&models.Product{}).
			Where("is_ingredient = ?", true).
			Select("SUM(on_hand_qty * standard_cost)").
			Scan(&stockValue)
		if stockValue != nil {
			resp.TotalStockValue = *stockValue
		}

		database.DB.Model(&models.Stocktake{}).
			Where("state IN ?", []models.StocktakeState{models.StocktakeStateDraft, models.StocktakeStateInProgress}).
			Count(&resp.PendingStocktakeCount)

		return c.JSON(resp)
	}
}

// GET /api/dashboard/low-margin-recipes - Maliyet oranı eşiğin üstündeki
// reçeteler, en kötüden iyiye
func LowMarginRecipesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		setting, err := settings.Get(database.DB)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ayarlar okunamadı")
		}

		var recipes []models.Recipe
		if err := database.DB.
			Preload("Product").
			Where("active = ? AND food_cost_percentage > ?", true, setting.HighFoodCostThreshold).
			Order("food_cost_percentage desc").
			Find(&recipes).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Reçeteler listelenemedi")
		}

		resp := make([]LowMarginRecipeResponse, 0, len(recipes))
		for i := range recipes {
			r := &recipes[i]
			resp = append(resp, LowMarginRecipeResponse{
				ID:                 r.ID,
				Name:               r.Name,
				ProductName:        r.Product.Name,
				SellingPrice:       r.Product.SalePrice,
				CostPerPortion:     r.CostPerPortion,
				FoodCostPercentage: r.FoodCostPercentage,
				ProfitMargin:       r.ProfitMargin,
			})
		}
		return c.JSON(resp)
	}
}
