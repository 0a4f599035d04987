package accounting

import (
	"strings"

	"mutfak-backend/internal/database"
	"mutfak-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type AccountResponse struct {
	ID   uint               `json:"id"`
	Code string             `json:"code"`
	Name string             `json:"name"`
	Type models.AccountType `json:"type"`
}

type CreateAccountRequest struct {
	Code string             `json:"code"`
	Name string             `json:"name"`
	Type models.AccountType `json:"type"`
}

type UpdateAccountRequest struct {
	Name *string             `json:"name"`
	Type *models.AccountType `json:"type"`
}

func validAccountType(t models.AccountType) bool {
	switch t {
	case models.AccountTypeIncome, models.AccountTypeExpense, models.AccountTypeAssetCurrent, models.AccountTypeOther:
		return true
	}
	return false
}

// POST /api/admin/accounts
func CreateAccountHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateAccountRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Code = strings.TrimSpace(body.Code)
		body.Name = strings.TrimSpace(body.Name)

		if body.Code == "" || body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Hesap kodu ve adı zorunlu")
		}
		if !validAccountType(body.Type) {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz hesap tipi")
		}

		// Aynı kodla hesap var mı?
		var count int64
		database.DB.Model(&models.Account{}).Where("code = ?", body.Code).Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Bu kodla kayıtlı hesap var")
		}

		account := models.Account{
			Code: body.Code,
			Name: body.Name,
			Type: body.Type,
		}

		if err := database.DB.Create(&account).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Hesap oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(AccountResponse{
			ID:   account.ID,
			Code: account.Code,
			Name: account.Name,
			Type: account.Type,
		})
	}
}

// GET /api/accounts?type=expense
func ListAccountsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Account{})

		if t := c.Query("type"); t != "" {
			dbq = dbq.Where("type = ?", t)
		}

		var accounts []models.Account
		if err := dbq.Order("code asc").Find(&accounts).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Hesaplar listelenemedi")
		}

		resp := make([]AccountResponse, 0, len(accounts))
		for _, a := range accounts {
			resp = append(resp, AccountResponse{ID: a.ID, Code: a.Code, Name: a.Name, Type: a.Type})
		}

		return c.JSON(resp)
	}
}

// PUT /api/admin/accounts/:id
func UpdateAccountHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz hesap ID")
		}

		var account models.Account
		if err := database.DB.First(&account, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Hesap bulunamadı")
		}

		var body UpdateAccountRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		updates := map[string]interface{}{}
		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Hesap adı boş olamaz")
			}
			updates["name"] = name
		}
		if body.Type != nil {
			if !validAccountType(*body.Type) {
				return fiber.NewError(fiber.StatusBadRequest, "Geçersiz hesap tipi")
			}
			updates["type"] = *body.Type
		}

		if len(updates) > 0 {
			if err := database.DB.Model(&account).Updates(updates).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Hesap güncellenemedi")
			}
		}

		return c.JSON(AccountResponse{ID: account.ID, Code: account.Code, Name: account.Name, Type: account.Type})
	}
}

// DELETE /api/admin/accounts/:id
func DeleteAccountHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz hesap ID")
		}

		// Fiş satırlarında kullanılan hesap silinemez
		var count int64
		database.DB.Model(&models.AccountMoveLine{}).Where("account_id = ?", id).Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Mahsup kaydı olan hesap silinemez")
		}

		if err := database.DB.Delete(&models.Account{}, id).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Hesap silinemedi")
		}

		return c.JSON(fiber.Map{"message": "Hesap silindi"})
	}
}
