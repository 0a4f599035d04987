package bom

import (
	"fmt"

	"mutfak-backend/internal/models"

	"gorm.io/gorm"
)

// Sync - Reçeteden POS kitini (ürün ağacını) üretir veya günceller.
// Reçete satırlarını değiştiren her işlemin transaction'ı içinde,
// maliyet hesabından sonra çağrılır. Satır kalmadıysa kit silinir.
// Kit satırları toptan silinip yeniden yazılır, tekrar çalıştırmak
// aynı sonucu verir.
func Sync(tx *gorm.DB, recipeID uint) error {
	var rec models.Recipe
	if err := tx.Preload("Lines").First(&rec, recipeID).Error; err != nil {
		return fmt.Errorf("reçete okunamadı: %w", err)
	}

	if len(rec.Lines) == 0 {
		if rec.BomID != nil {
			if err := deleteBom(tx, *rec.BomID); err != nil {
				return err
			}
			if err := tx.Model(&models.Recipe{}).Where("id = ?", rec.ID).
				Update("bom_id", nil).Error; err != nil {
				return fmt.Errorf("reçete kit bağlantısı temizlenemedi: %w", err)
			}
		}
		return nil
	}

	qty := rec.PortionSize
	if qty == 0 {
		qty = 1
	}

	var kit models.Bom
	existing := false
	if rec.BomID != nil {
		if err := tx.First(&kit, *rec.BomID).Error; err == nil {
			existing = true
		}
	}

	if existing {
		if err := tx.Model(&models.Bom{}).Where("id = ?", kit.ID).Updates(map[string]interface{}{
			"product_id": rec.ProductID,
			"quantity":   qty,
			"type":       models.BomTypePhantom,
			"code":       fmt.Sprintf("RECIPE-%d", rec.ID),
		}).Error; err != nil {
			return fmt.Errorf("kit güncellenemedi: %w", err)
		}
		if err := tx.Where("bom_id = ?", kit.ID).Delete(&models.BomLine{}).Error; err != nil {
			return fmt.Errorf("kit satırları silinemedi: %w", err)
		}
	} else {
		kit = models.Bom{
			ProductID: rec.ProductID,
			Quantity:  qty,
			Type:      models.BomTypePhantom,
			Code:      fmt.Sprintf("RECIPE-%d", rec.ID),
		}
		if err := tx.Create(&kit).Error; err != nil {
			return fmt.Errorf("kit oluşturulamadı: %w", err)
		}
		if err := tx.Model(&models.Recipe{}).Where("id = ?", rec.ID).
			Update("bom_id", kit.ID).Error; err != nil {
			return fmt.Errorf("reçete kit bağlantısı yazılamadı: %w", err)
		}
	}

	for _, line := range rec.Lines {
		bomLine := models.BomLine{
			BomID:     kit.ID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Unit:      line.Unit,
		}
		if err := tx.Create(&bomLine).Error; err != nil {
			return fmt.Errorf("kit satırı oluşturulamadı: %w", err)
		}
	}

	return nil
}

// DeleteForRecipe - Reçete silinirken bağlı kiti ve satırlarını kaldırır
func DeleteForRecipe(tx *gorm.DB, bomID uint) error {
	return deleteBom(tx, bomID)
}

func deleteBom(tx *gorm.DB, bomID uint) error {
	if err := tx.Where("bom_id = ?", bomID).Delete(&models.BomLine{}).Error; err != nil {
		return fmt.Errorf("kit satırları silinemedi: %w", err)
	}
	if err := tx.Delete(&models.Bom{}, bomID).Error; err != nil {
		return fmt.Errorf("kit silinemedi: %w", err)
	}
	return nil
}
