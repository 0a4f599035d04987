package sequence

import (
	"fmt"

	"mutfak-backend/internal/models"
	"mutfak-backend/internal/validation"

	"gorm.io/gorm"
)

// NextByCode - Sıradaki referans numarasını üretir (ör: ST/00001).
// Sayaç aynı transaction içinde artırılır, rollback olursa numara yanmaz.
func NextByCode(tx *gorm.DB, code string) (string, error) {
	var seq models.Sequence
	if err := tx.Where("code = ?", code).First(&seq).Error; err != nil {
		return "", validation.Errorf("'%s' kodlu numara sırası bulunamadı", code)
	}

	ref := fmt.Sprintf("%s%0*d", seq.Prefix, seq.Padding, seq.NextNumber)

	if err := tx.Model(&seq).Update("next_number", seq.NextNumber+1).Error; err != nil {
		return "", fmt.Errorf("numara sırası güncellenemedi: %w", err)
	}

	return ref, nil
}
