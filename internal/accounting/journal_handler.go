package accounting

import (
	"strings"

	"mutfak-backend/internal/database"
	"mutfak-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type JournalResponse struct {
	ID   uint               `json:"id"`
	Code string             `json:"code"`
	Name string             `json:"name"`
	Type models.JournalType `json:"type"`
}

type CreateJournalRequest struct {
	Code string             `json:"code"`
	Name string             `json:"name"`
	Type models.JournalType `json:"type"`
}

// POST /api/admin/journals
func CreateJournalHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateJournalRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Code = strings.TrimSpace(body.Code)
		body.Name = strings.TrimSpace(body.Name)

		if body.Code == "" || body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Defter kodu ve adı zorunlu")
		}
		if body.Type != models.JournalTypeGeneral && body.Type != models.JournalTypeSale {
			return fiber.NewError(fiber.StatusBadRequest, "Defter tipi 'general' veya 'sale' olmalı")
		}

		var count int64
		database.DB.Model(&models.Journal{}).Where("code = ?", body.Code).Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Bu kodla kayıtlı defter var")
		}

		journal := models.Journal{Code: body.Code, Name: body.Name, Type: body.Type}
		if err := database.DB.Create(&journal).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Defter oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(JournalResponse{
			ID: journal.ID, Code: journal.Code, Name: journal.Name, Type: journal.Type,
		})
	}
}

// GET /api/journals
func ListJournalsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var journals []models.Journal
		if err := database.DB.Order("code asc").Find(&journals).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Defterler listelenemedi")
		}

		resp := make([]JournalResponse, 0, len(journals))
		for _, j := range journals {
			resp = append(resp, JournalResponse{ID: j.ID, Code: j.Code, Name: j.Name, Type: j.Type})
		}

		return c.JSON(resp)
	}
}
