package accounting

import (
	"fmt"
	"math"

	"mutfak-backend/internal/models"
	"mutfak-backend/internal/validation"

	"gorm.io/gorm"
)

// Borç/alacak karşılaştırmasında kuruş altı farkları yok say
const balanceTolerance = 0.000001

// CreateMove - Dengeli bir mahsup fişi oluşturur (taslak durumda).
// Borç ve alacak toplamları eşit değilse doğrulama hatası döner.
func CreateMove(tx *gorm.DB, move *models.AccountMove) error {
	if len(move.Lines) == 0 {
		return validation.Errorf("Mahsup fişinde en az bir satır olmalı")
	}

	var totalDebit, totalCredit float64
	for _, line := range move.Lines {
		if line.Debit < 0 || line.Credit < 0 {
			return validation.Errorf("Borç ve alacak tutarları negatif olamaz")
		}
		totalDebit += line.Debit
		totalCredit += line.Credit
	}

	if math.Abs(totalDebit-totalCredit) > balanceTolerance {
		return validation.Errorf("Mahsup fişi dengeli değil: borç %.2f, alacak %.2f", totalDebit, totalCredit)
	}

	move.State = models.MoveStateDraft
	if err := tx.Create(move).Error; err != nil {
		return fmt.Errorf("mahsup fişi oluşturulamadı: %w", err)
	}

	return nil
}

// PostMove - Fişi kesinleştirir. Posted fiş bir daha değiştirilemez.
func PostMove(tx *gorm.DB, move *models.AccountMove) error {
	if move.State == models.MoveStatePosted {
		return validation.Errorf("Mahsup fişi zaten kesinleştirilmiş")
	}

	move.State = models.MoveStatePosted
	if err := tx.Model(move).Update("state", models.MoveStatePosted).Error; err != nil {
		return fmt.Errorf("mahsup fişi kesinleştirilemedi: %w", err)
	}

	return nil
}

// FindGeneralJournal - Sayım mahsuplarının işleneceği genel yevmiye defteri
func FindGeneralJournal(tx *gorm.DB) (*models.Journal, error) {
	var journal models.Journal
	if err := tx.Where("type = ?", models.JournalTypeGeneral).First(&journal).Error; err != nil {
		return nil, validation.Errorf("Genel yevmiye defteri bulunamadı")
	}
	return &journal, nil
}
