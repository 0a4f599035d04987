package stocktake

import (
	"fmt"

	"mutfak-backend/internal/accounting"
	"mutfak-backend/internal/models"
	"mutfak-backend/internal/validation"

	"gorm.io/gorm"
)

// Start - Sayımı başlatır: draft -> in_progress. Satırsız sayım başlatılamaz.
func Start(tx *gorm.DB, stocktakeID uint) error {
	var st models.Stocktake
	if err := tx.Preload("Lines").First(&st, stocktakeID).Error; err != nil {
		return fmt.Errorf("sayım okunamadı: %w", err)
	}

	if st.State != models.StocktakeStateDraft {
		return validation.Errorf("Sadece taslak durumdaki sayım başlatılabilir")
	}
	if len(st.Lines) == 0 {
		return validation.Errorf("Sayım başlatmak için en az bir satır ekleyin")
	}

	return tx.Model(&models.Stocktake{}).Where("id = ?", st.ID).
		Update("state", models.StocktakeStateInProgress).Error
}

// LoadAllIngredients - Henüz satırı olmayan tüm malzemeleri sayıma ekler.
// SystemQty ve CountedQty eldeki miktarla doldurulur, sayan kişi sadece
// farkları düzeltir. Yalnızca taslak durumda çalışır.
func LoadAllIngredients(tx *gorm.DB, stocktakeID uint) (int, error) {
	var st models.Stocktake
	if err := tx.Preload("Lines").First(&st, stocktakeID).Error; err != nil {
		return 0, fmt.Errorf("sayım okunamadı: %w", err)
	}

	if st.State != models.StocktakeStateDraft {
		return 0, validation.Errorf("Malzemeler sadece taslak durumda yüklenebilir")
	}

	existing := map[uint]bool{}
	for _, line := range st.Lines {
		existing[line.ProductID] = true
	}

	var ingredients []models.Product
	if err := tx.Where("is_ingredient = ?", true).Order("name asc").Find(&ingredients).Error; err != nil {
		return 0, fmt.Errorf("malzemeler okunamadı: %w", err)
	}

	added := 0
	for _, p := range ingredients {
		if existing[p.ID] {
			continue
		}
		line := models.StocktakeLine{
			StocktakeID: st.ID,
			ProductID:   p.ID,
			SystemQty:   p.OnHandQty,
			CountedQty:  p.OnHandQty,
		}
		if err := tx.Create(&line).Error; err != nil {
			return 0, fmt.Errorf("sayım satırı oluşturulamadı: %w", err)
		}
		added++
	}

	return added, nil
}

// Validate - Sayımı tamamlar: in_progress -> done.
// Sayılan miktarlar stoğa yazılır, fark varsa dengeli bir mahsup fişi
// kesilip kesinleştirilir. Hepsi tek transaction içinde yürür.
func Validate(tx *gorm.DB, stocktakeID uint) error {
	var st models.Stocktake
	if err := tx.
		Preload("Lines").
		Preload("Lines.Product").
		Preload("Lines.Product.Category").
		First(&st, stocktakeID).Error; err != nil {
		return fmt.Errorf("sayım okunamadı: %w", err)
	}

	if st.State != models.StocktakeStateInProgress {
		return validation.Errorf("Sadece devam eden sayım doğrulanabilir")
	}

	// Fark yönüne göre hesap kontrolü: fazlası olan sayım için fazla hesabı,
	// eksiği olan için eksik hesabı tanımlı olmalı
	hasGain, hasLoss := false, false
	for i := range st.Lines {
		v := st.Lines[i].VarianceQty()
		if v > 0 {
			hasGain = true
		} else if v < 0 {
			hasLoss = true
		}
	}
	if hasGain && st.GainAccountID == nil {
		return validation.Errorf("Sayım fazlası hesabı tanımlı değil")
	}
	if hasLoss && st.LossAccountID == nil {
		return validation.Errorf("Sayım eksiği hesabı tanımlı değil")
	}

	// Stok düzeltmesi: sadece farkı olan satırlarda sayılan miktar
	// eldeki miktar olur. SystemQty satır oluşturulduğundaki fotoğraf
	// olduğu için farksız satırlar stoğa dokunmaz, aradaki hareketler
	// ezilmez.
	for i := range st.Lines {
		line := &st.Lines[i]
		if line.VarianceQty() == 0 {
			continue
		}
		if err := tx.Model(&models.Product{}).Where("id = ?", line.ProductID).
			Update("on_hand_qty", line.CountedQty).Error; err != nil {
			return fmt.Errorf("stok miktarı güncellenemedi: %w", err)
		}
	}

	// Mahsup satırları: farksız satırlar ve kategorisinde stok değerleme
	// hesabı olmayan malzemeler muhasebeye yansıtılmadan atlanır
	var moveLines []models.AccountMoveLine
	for i := range st.Lines {
		line := &st.Lines[i]
		qty := line.VarianceQty()
		if qty == 0 {
			continue
		}
		if line.Product.Category == nil || line.Product.Category.StockValuationAccountID == nil {
			continue
		}
		valuationID := *line.Product.Category.StockValuationAccountID
		value := line.VarianceValue()
		desc := fmt.Sprintf("%s: sayım farkı %+.2f %s", line.Product.Name, qty, line.Product.Unit)

		if qty > 0 {
			// Fazla: stok değerleme borç, sayım fazlası alacak
			moveLines = append(moveLines,
				models.AccountMoveLine{AccountID: valuationID, Name: desc, Debit: value},
				models.AccountMoveLine{AccountID: *st.GainAccountID, Name: desc, Credit: value},
			)
		} else {
			// Eksik: sayım eksiği borç, stok değerleme alacak
			moveLines = append(moveLines,
				models.AccountMoveLine{AccountID: *st.LossAccountID, Name: desc, Debit: -value},
				models.AccountMoveLine{AccountID: valuationID, Name: desc, Credit: -value},
			)
		}
	}

	updates := map[string]interface{}{"state": models.StocktakeStateDone}

	if len(moveLines) > 0 {
		journal, err := accounting.FindGeneralJournal(tx)
		if err != nil {
			return err
		}

		move := models.AccountMove{
			JournalID: journal.ID,
			Date:      st.Date,
			Ref:       st.Name,
			Lines:     moveLines,
		}
		if err := accounting.CreateMove(tx, &move); err != nil {
			return err
		}
		if err := accounting.PostMove(tx, &move); err != nil {
			return err
		}
		updates["account_move_id"] = move.ID
	}

	return tx.Model(&models.Stocktake{}).Where("id = ?", st.ID).Updates(updates).Error
}

// Cancel - Sayımı iptal eder. Tamamlanmış sayım iptal edilemez.
func Cancel(tx *gorm.DB, stocktakeID uint) error {
	var st models.Stocktake
	if err := tx.First(&st, stocktakeID).Error; err != nil {
		return fmt.Errorf("sayım okunamadı: %w", err)
	}

	if st.State == models.StocktakeStateDone {
		return validation.Errorf("Tamamlanmış sayım iptal edilemez")
	}

	return tx.Model(&models.Stocktake{}).Where("id = ?", st.ID).
		Update("state", models.StocktakeStateCancelled).Error
}

// ResetToDraft - İptal edilen sayımı taslağa döndürür
func ResetToDraft(tx *gorm.DB, stocktakeID uint) error {
	var st models.Stocktake
	if err := tx.First(&st, stocktakeID).Error; err != nil {
		return fmt.Errorf("sayım okunamadı: %w", err)
	}

	if st.State != models.StocktakeStateCancelled {
		return validation.Errorf("Sadece iptal edilmiş sayım taslağa döndürülebilir")
	}

	return tx.Model(&models.Stocktake{}).Where("id = ?", st.ID).
		Update("state", models.StocktakeStateDraft).Error
}

// Totals - Sayımın özet rakamları
type Totals struct {
	LineCount     int     `json:"line_count"`
	VarianceCount int     `json:"variance_count"`
	SystemValue   float64 `json:"system_value"`
	CountedValue  float64 `json:"counted_value"`
	VarianceValue float64 `json:"variance_value"`
}

func ComputeTotals(st *models.Stocktake) Totals {
	t := Totals{LineCount: len(st.Lines)}
	for i := range st.Lines {
		line := &st.Lines[i]
		if line.VarianceQty() != 0 {
			t.VarianceCount++
		}
		t.SystemValue += line.SystemValue()
		t.CountedValue += line.CountedValue()
		t.VarianceValue += line.VarianceValue()
	}
	return t
}
