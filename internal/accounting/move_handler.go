package accounting

import (
	"mutfak-backend/internal/database"
	"mutfak-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type MoveLineResponse struct {
	ID          uint    `json:"id"`
	AccountID   uint    `json:"account_id"`
	AccountCode string  `json:"account_code"`
	AccountName string  `json:"account_name"`
	Name        string  `json:"name"`
	Debit       float64 `json:"debit"`
	Credit      float64 `json:"credit"`
}

type MoveResponse struct {
	ID        uint                    `json:"id"`
	JournalID uint                    `json:"journal_id"`
	Date      string                  `json:"date"`
	Ref       string                  `json:"ref"`
	State     models.AccountMoveState `json:"state"`
	Lines     []MoveLineResponse      `json:"lines"`
}

func toMoveResponse(m *models.AccountMove) MoveResponse {
	lines := make([]MoveLineResponse, 0, len(m.Lines))
	for _, l := range m.Lines {
		lines = append(lines, MoveLineResponse{
			ID:          l.ID,
			AccountID:   l.AccountID,
			AccountCode: l.Account.Code,
			AccountName: l.Account.Name,
			Name:        l.Name,
			Debit:       l.Debit,
			Credit:      l.Credit,
		})
	}
	return MoveResponse{
		ID:        m.ID,
		JournalID: m.JournalID,
		Date:      m.Date.Format("2006-01-02"),
		Ref:       m.Ref,
		State:     m.State,
		Lines:     lines,
	}
}

// GET /api/account-moves
func ListMovesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var moves []models.AccountMove
		if err := database.DB.
			Preload("Lines").
			Preload("Lines.Account").
			Order("date DESC, id DESC").
			Find(&moves).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Mahsup fişleri listelenemedi")
		}

		resp := make([]MoveResponse, 0, len(moves))
		for i := range moves {
			resp = append(resp, toMoveResponse(&moves[i]))
		}

		return c.JSON(resp)
	}
}

// GET /api/account-moves/:id
func GetMoveHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz fiş ID")
		}

		var move models.AccountMove
		if err := database.DB.
			Preload("Lines").
			Preload("Lines.Account").
			First(&move, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Mahsup fişi bulunamadı")
		}

		return c.JSON(toMoveResponse(&move))
	}
}
