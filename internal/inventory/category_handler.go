package inventory

import (
	"strings"

	"mutfak-backend/internal/database"
	"mutfak-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CategoryRequest struct {
	Name                    *string `json:"name"`
	StockValuationAccountID *uint   `json:"stock_valuation_account_id"`
	ExpenseAccountID        *uint   `json:"expense_account_id"`
}

type CategoryResponse struct {
	ID                      uint   `json:"id"`
	Name                    string `json:"name"`
	StockValuationAccountID *uint  `json:"stock_valuation_account_id"`
	ExpenseAccountID        *uint  `json:"expense_account_id"`
}

func toCategoryResponse(cat *models.ProductCategory) CategoryResponse {
	return CategoryResponse{
		ID:                      cat.ID,
		Name:                    cat.Name,
		StockValuationAccountID: cat.StockValuationAccountID,
		ExpenseAccountID:        cat.ExpenseAccountID,
	}
}

func checkAccountExists(id uint) error {
	var account models.Account
	if err := database.DB.First(&account, id).Error; err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Hesap bulunamadı")
	}
	return nil
}

// POST /api/admin/product-categories
func CreateCategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CategoryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.Name == nil || strings.TrimSpace(*body.Name) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Kategori adı zorunlu")
		}
		name := strings.TrimSpace(*body.Name)

		var count int64
		database.DB.Model(&models.ProductCategory{}).Where("name = ?", name).Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Bu isimde bir kategori zaten var")
		}

		if body.StockValuationAccountID != nil {
			if err := checkAccountExists(*body.StockValuationAccountID); err != nil {
				return err
			}
		}
		if body.ExpenseAccountID != nil {
			if err := checkAccountExists(*body.ExpenseAccountID); err != nil {
				return err
			}
		}

		cat := models.ProductCategory{
			Name:                    name,
			StockValuationAccountID: body.StockValuationAccountID,
			ExpenseAccountID:        body.ExpenseAccountID,
		}
		if err := database.DB.Create(&cat).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kategori oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(toCategoryResponse(&cat))
	}
}

// GET /api/product-categories
func ListCategoriesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var categories []models.ProductCategory
		if err := database.DB.Order("name asc").Find(&categories).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kategoriler listelenemedi")
		}

		resp := make([]CategoryResponse, 0, len(categories))
		for i := range categories {
			resp = append(resp, toCategoryResponse(&categories[i]))
		}
		return c.JSON(resp)
	}
}

// PUT /api/admin/product-categories/:id
func UpdateCategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz kategori ID")
		}

		var body CategoryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		var cat models.ProductCategory
		if err := database.DB.First(&cat, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Kategori bulunamadı")
		}

		updates := map[string]interface{}{}
		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Kategori adı boş olamaz")
			}
			var count int64
			database.DB.Model(&models.ProductCategory{}).
				Where("name = ? AND id <> ?", name, cat.ID).
				Count(&count)
			if count > 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Bu isimde bir kategori zaten var")
			}
			updates["name"] = name
		}
		if body.StockValuationAccountID != nil {
			if err := checkAccountExists(*body.StockValuationAccountID); err != nil {
				return err
			}
			updates["stock_valuation_account_id"] = *body.StockValuationAccountID
		}
		if body.ExpenseAccountID != nil {
			if err := checkAccountExists(*body.ExpenseAccountID); err != nil {
				return err
			}
			updates["expense_account_id"] = *body.ExpenseAccountID
		}

		if len(updates) > 0 {
			if err := database.DB.Model(&cat).Updates(updates).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Kategori güncellenemedi")
			}
		}

		if err := database.DB.First(&cat, cat.ID).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kategori okunamadı")
		}
		return c.JSON(toCategoryResponse(&cat))
	}
}

// DELETE /api/admin/product-categories/:id
func DeleteCategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz kategori ID")
		}

		var cat models.ProductCategory
		if err := database.DB.First(&cat, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Kategori bulunamadı")
		}

		var count int64
		database.DB.Model(&models.Product{}).Where("category_id = ?", cat.ID).Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Bu kategoride ürünler var, silinemez")
		}

		if err := database.DB.Delete(&models.ProductCategory{}, cat.ID).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kategori silinemedi")
		}

		return c.JSON(fiber.Map{"message": "Kategori silindi"})
	}
}
