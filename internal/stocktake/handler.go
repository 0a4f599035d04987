package stocktake

import (
	"fmt"
	"time"

	"mutfak-backend/internal/audit"
	"mutfak-backend/internal/auth"
	"mutfak-backend/internal/database"
	"mutfak-backend/internal/models"
	"mutfak-backend/internal/sequence"
	"mutfak-backend/internal/settings"
	"mutfak-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CreateStocktakeRequest struct {
	Date          string `json:"date"` // YYYY-MM-DD, boşsa bugün
	Notes         string `json:"notes"`
	GainAccountID *uint  `json:"gain_account_id"`
	LossAccountID *uint  `json:"loss_account_id"`
}

type UpdateStocktakeRequest struct {
	Date          *string `json:"date"`
	Notes         *string `json:"notes"`
	GainAccountID *uint   `json:"gain_account_id"`
	LossAccountID *uint   `json:"loss_account_id"`
}

type StocktakeLineResponse struct {
	ID            uint    `json:"id"`
	ProductID     uint    `json:"product_id"`
	ProductName   string  `json:"product_name"`
	Unit          string  `json:"unit"`
	UnitCost      float64 `json:"unit_cost"`
	SystemQty     float64 `json:"system_qty"`
	CountedQty    float64 `json:"counted_qty"`
	VarianceQty   float64 `json:"variance_qty"`
	SystemValue   float64 `json:"system_value"`
	CountedValue  float64 `json:"counted_value"`
	VarianceValue float64 `json:"variance_value"`
	Notes         string  `json:"notes"`
}

type StocktakeResponse struct {
	ID            uint                    `json:"id"`
	Name          string                  `json:"name"`
	Date          string                  `json:"date"`
	UserID        uint                    `json:"user_id"`
	UserName      string                  `json:"user_name"`
	State         models.StocktakeState   `json:"state"`
	Notes         string                  `json:"notes"`
	GainAccountID *uint                   `json:"gain_account_id"`
	LossAccountID *uint                   `json:"loss_account_id"`
	AccountMoveID *uint                   `json:"account_move_id"`
	Totals        Totals                  `json:"totals"`
	Lines         []StocktakeLineResponse `json:"lines,omitempty"`
}

func toResponse(st *models.Stocktake, withLines bool) StocktakeResponse {
	resp := StocktakeResponse{
		ID:            st.ID,
		Name:          st.Name,
		Date:          st.Date.Format("2006-01-02"),
		UserID:        st.UserID,
		UserName:      st.User.Name,
		State:         st.State,
		Notes:         st.Notes,
		GainAccountID: st.GainAccountID,
		LossAccountID: st.LossAccountID,
		AccountMoveID: st.AccountMoveID,
		Totals:        ComputeTotals(st),
	}
	if withLines {
		resp.Lines = make([]StocktakeLineResponse, 0, len(st.Lines))
		for i := range st.Lines {
			l := &st.Lines[i]
			resp.Lines = append(resp.Lines, StocktakeLineResponse{
				ID:            l.ID,
				ProductID:     l.ProductID,
				ProductName:   l.Product.Name,
				Unit:          l.Product.Unit,
				UnitCost:      l.Product.StandardCost,
				SystemQty:     l.SystemQty,
				CountedQty:    l.CountedQty,
				VarianceQty:   l.VarianceQty(),
				SystemValue:   l.SystemValue(),
				CountedValue:  l.CountedValue(),
				VarianceValue: l.VarianceValue(),
				Notes:         l.Notes,
			})
		}
	}
	return resp
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local), nil
	}
	return time.ParseInLocation("2006-01-02", s, time.Local)
}

func httpError(err error) error {
	if validation.IsError(err) {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return fiber.NewError(fiber.StatusInternalServerError, err.Error())
}

// POST /api/stocktakes - Referans numarası sıradan üretilir, fazla/eksik
// hesapları boş bırakılırsa ayarlardaki varsayılanlar kullanılır
func CreateStocktakeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateStocktakeRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		date, err := parseDate(body.Date)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Tarih formatı YYYY-MM-DD olmalı")
		}

		gainID := body.GainAccountID
		lossID := body.LossAccountID
		if gainID == nil || lossID == nil {
			setting, serr := settings.Get(database.DB)
			if serr != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Ayarlar okunamadı")
			}
			if gainID == nil {
				gainID = setting.GainAccountID
			}
			if lossID == nil {
				lossID = setting.LossAccountID
			}
		}

		var st models.Stocktake
		tx := database.DB.Begin()

		ref, err := sequence.NextByCode(tx, "stocktake")
		if err != nil {
			tx.Rollback()
			return httpError(err)
		}

		st = models.Stocktake{
			Name:          ref,
			Date:          date,
			UserID:        user.ID,
			State:         models.StocktakeStateDraft,
			Notes:         body.Notes,
			GainAccountID: gainID,
			LossAccountID: lossID,
		}
		if err := tx.Create(&st).Error; err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Sayım oluşturulamadı")
		}
		if err := tx.Commit().Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "İşlem tamamlanamadı")
		}

		return loadAndRespond(c, st.ID, fiber.StatusCreated)
	}
}

// GET /api/stocktakes?state=done
func ListStocktakesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Stocktake{}).
			Preload("User").
			Preload("Lines").
			Preload("Lines.Product")

		if s := c.Query("state"); s != "" {
			dbq = dbq.Where("state = ?", s)
		}

		var stocktakes []models.Stocktake
		if err := dbq.Order("date desc, id desc").Find(&stocktakes).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Sayımlar listelenemedi")
		}

		resp := make([]StocktakeResponse, 0, len(stocktakes))
		for i := range stocktakes {
			resp = append(resp, toResponse(&stocktakes[i], false))
		}
		return c.JSON(resp)
	}
}

// GET /api/stocktakes/:id
func GetStocktakeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz sayım ID")
		}
		return loadAndRespond(c, uint(id), fiber.StatusOK)
	}
}

// PUT /api/stocktakes/:id - Sadece taslak/devam eden sayım düzenlenebilir
func UpdateStocktakeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz sayım ID")
		}

		var body UpdateStocktakeRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		var st models.Stocktake
		if err := database.DB.First(&st, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Sayım bulunamadı")
		}

		if st.State != models.StocktakeStateDraft && st.State != models.StocktakeStateInProgress {
			return fiber.NewError(fiber.StatusBadRequest, "Sadece taslak veya devam eden sayım düzenlenebilir")
		}

		updates := map[string]interface{}{}
		if body.Date != nil {
			date, derr := parseDate(*body.Date)
			if derr != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Tarih formatı YYYY-MM-DD olmalı")
			}
			updates["date"] = date
		}
		if body.Notes != nil {
			updates["notes"] = *body.Notes
		}
		if body.GainAccountID != nil {
			updates["gain_account_id"] = *body.GainAccountID
		}
		if body.LossAccountID != nil {
			updates["loss_account_id"] = *body.LossAccountID
		}

		if len(updates) > 0 {
			if err := database.DB.Model(&models.Stocktake{}).Where("id = ?", st.ID).Updates(updates).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Sayım güncellenemedi")
			}
		}

		return loadAndRespond(c, st.ID, fiber.StatusOK)
	}
}

// DELETE /api/stocktakes/:id - Sadece taslak sayım silinebilir
func DeleteStocktakeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz sayım ID")
		}

		var st models.Stocktake
		if err := database.DB.First(&st, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Sayım bulunamadı")
		}

		if st.State != models.StocktakeStateDraft {
			return fiber.NewError(fiber.StatusBadRequest, "Sadece taslak durumdaki sayım silinebilir")
		}

		tx := database.DB.Begin()
		if err := tx.Where("stocktake_id = ?", st.ID).Delete(&models.StocktakeLine{}).Error; err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Sayım satırları silinemedi")
		}
		if err := tx.Delete(&models.Stocktake{}, st.ID).Error; err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Sayım silinemedi")
		}
		if err := tx.Commit().Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "İşlem tamamlanamadı")
		}

		return c.JSON(fiber.Map{"message": "Sayım silindi"})
	}
}

// POST /api/stocktakes/:id/start
func StartStocktakeHandler() fiber.Handler {
	return stateActionHandler(Start)
}

// POST /api/stocktakes/:id/load-ingredients
func LoadIngredientsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz sayım ID")
		}

		tx := database.DB.Begin()
		if _, err := LoadAllIngredients(tx, uint(id)); err != nil {
			tx.Rollback()
			return httpError(err)
		}
		if err := tx.Commit().Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "İşlem tamamlanamadı")
		}

		return loadAndRespond(c, uint(id), fiber.StatusOK)
	}
}

// POST /api/stocktakes/:id/validate
func ValidateStocktakeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz sayım ID")
		}

		tx := database.DB.Begin()
		if err := Validate(tx, uint(id)); err != nil {
			tx.Rollback()
			return httpError(err)
		}
		if err := tx.Commit().Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "İşlem tamamlanamadı")
		}

		if user, uerr := auth.CurrentUser(c); uerr == nil {
			var st models.Stocktake
			database.DB.First(&st, id)
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      user.ID,
				UserName:    user.Name,
				EntityType:  "stocktake",
				EntityID:    uint(id),
				Action:      models.AuditActionUpdate,
				Description: fmt.Sprintf("Sayım doğrulandı: %s", st.Name),
				After:       st,
			})
		}

		return loadAndRespond(c, uint(id), fiber.StatusOK)
	}
}

// POST /api/stocktakes/:id/cancel
func CancelStocktakeHandler() fiber.Handler {
	return stateActionHandler(Cancel)
}

// POST /api/stocktakes/:id/reset-to-draft
func ResetToDraftHandler() fiber.Handler {
	return stateActionHandler(ResetToDraft)
}

func stateActionHandler(action func(tx *gorm.DB, id uint) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz sayım ID")
		}

		tx := database.DB.Begin()
		if err := action(tx, uint(id)); err != nil {
			tx.Rollback()
			return httpError(err)
		}
		if err := tx.Commit().Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "İşlem tamamlanamadı")
		}

		return loadAndRespond(c, uint(id), fiber.StatusOK)
	}
}

func loadAndRespond(c *fiber.Ctx, stocktakeID uint, status int) error {
	var st models.Stocktake
	if err := database.DB.
		Preload("User").
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }).
		Preload("Lines.Product").
		First(&st, stocktakeID).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, "Sayım bulunamadı")
	}
	return c.Status(status).JSON(toResponse(&st, true))
}
