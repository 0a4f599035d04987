package bom

import (
	"mutfak-backend/internal/database"
	"mutfak-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type BomLineResponse struct {
	ID          uint    `json:"id"`
	ProductID   uint    `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    float64 `json:"quantity"`
	Unit        string  `json:"unit"`
}

type BomResponse struct {
	ID          uint              `json:"id"`
	Code        string            `json:"code"`
	ProductID   uint              `json:"product_id"`
	ProductName string            `json:"product_name"`
	Quantity    float64           `json:"quantity"`
	Type        string            `json:"type"`
	Lines       []BomLineResponse `json:"lines"`
}

func toResponse(b *models.Bom) BomResponse {
	resp := BomResponse{
		ID:          b.ID,
		Code:        b.Code,
		ProductID:   b.ProductID,
		ProductName: b.Product.Name,
		Quantity:    b.Quantity,
		Type:        b.Type,
		Lines:       make([]BomLineResponse, 0, len(b.Lines)),
	}
	for i := range b.Lines {
		l := &b.Lines[i]
		resp.Lines = append(resp.Lines, BomLineResponse{
			ID:          l.ID,
			ProductID:   l.ProductID,
			ProductName: l.Product.Name,
			Quantity:    l.Quantity,
			Unit:        l.Unit,
		})
	}
	return resp
}

// GET /api/boms
func ListBomsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var boms []models.Bom
		if err := database.DB.
			Preload("Product").
			Preload("Lines").
			Preload("Lines.Product").
			Order("id asc").
			Find(&boms).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kitler listelenemedi")
		}

		resp := make([]BomResponse, 0, len(boms))
		for i := range boms {
			resp = append(resp, toResponse(&boms[i]))
		}
		return c.JSON(resp)
	}
}

// GET /api/boms/:id
func GetBomHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz kit ID")
		}

		var b models.Bom
		if err := database.DB.
			Preload("Product").
			Preload("Lines").
			Preload("Lines.Product").
			First(&b, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Kit bulunamadı")
		}
		return c.JSON(toResponse(&b))
	}
}
