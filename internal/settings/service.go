package settings

import (
	"fmt"

	"mutfak-backend/internal/models"

	"gorm.io/gorm"
)

// Get - Tek satırlık ayar kaydını döner (ID = 1, açılışta seed edilir)
func Get(db *gorm.DB) (*models.Setting, error) {
	var setting models.Setting
	if err := db.First(&setting, 1).Error; err != nil {
		return nil, fmt.Errorf("ayar kaydı okunamadı: %w", err)
	}
	return &setting, nil
}
