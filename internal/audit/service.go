package audit

import (
	"encoding/json"
	"fmt"
	"time"

	"mutfak-backend/internal/database"
	"mutfak-backend/internal/models"
)

type LogOptions struct {
	UserID      uint
	UserName    string
	EntityType  string
	EntityID    uint
	Action      models.AuditAction
	Description string
	Before      any
	After       any
}

func WriteLog(opts LogOptions) error {
	// PostgreSQL jsonb için boş string yerine "null" JSON string'i kullanmalıyız
	beforeStr := "null" // Default: null JSON
	afterStr := "null"  // Default: null JSON

	if opts.Before != nil {
		if b, err := json.Marshal(opts.Before); err == nil {
			beforeStr = string(b)
		}
	}
	if opts.After != nil {
		if b, err := json.Marshal(opts.After); err == nil {
			afterStr = string(b)
		}
	}

	log := models.AuditLog{
		UserID:      opts.UserID,
		UserName:    opts.UserName,
		EntityType:  opts.EntityType,
		EntityID:    opts.EntityID,
		Action:      opts.Action,
		Description: opts.Description,
		BeforeData:  beforeStr,
		AfterData:   afterStr,
		Undone:      false,
		IsUndone:    false,
	}

	if err := database.DB.Create(&log).Error; err != nil {
		return fmt.Errorf("audit log kaydedilemedi: %w", err)
	}

	return nil
}

// UndoLog - Bir audit log'u undo et
func UndoLog(logID uint, userID uint, userName string) error {
	var log models.AuditLog
	if err := database.DB.First(&log, "id = ?", logID).Error; err != nil {
		return fmt.Errorf("log bulunamadı: %w", err)
	}

	// Zaten undo edilmiş mi?
	if log.IsUndone {
		return fmt.Errorf("bu işlem zaten geri alınmış")
	}

	// Undo işlemini gerçekleştir
	switch log.Action {
	case models.AuditActionCreate:
		// Create ise entity'yi sil
		if err := deleteEntity(log.EntityType, log.EntityID); err != nil {
			return fmt.Errorf("entity silinemedi: %w", err)
		}

	case models.AuditActionUpdate:
		// Update ise önceki haline geri döndür
		if err := restoreEntity(log.EntityType, log.EntityID, log.BeforeData); err != nil {
			return fmt.Errorf("entity geri yüklenemedi: %w", err)
		}

	case models.AuditActionDelete:
		// Delete ise entity'yi geri oluştur (create)
		if err := recreateEntity(log.EntityType, log.AfterData); err != nil {
			return fmt.Errorf("entity geri oluşturulamadı: %w", err)
		}

	default:
		return fmt.Errorf("bu işlem türü geri alınamaz")
	}

	// Log'u işaretle
	now := time.Now()
	log.IsUndone = true
	log.UndoneBy = &userID
	log.UndoneAt = &now

	if err := database.DB.Save(&log).Error; err != nil {
		return fmt.Errorf("log güncellenemedi: %w", err)
	}

	// Undo işlemi için yeni bir log oluştur
	undoLog := models.AuditLog{
		UserID:      userID,
		UserName:    userName,
		EntityType:  log.EntityType,
		EntityID:    log.EntityID,
		Action:      models.AuditActionUndo,
		Description: fmt.Sprintf("Geri alındı: %s", log.Description),
		BeforeData:  log.AfterData,
		AfterData:   log.BeforeData,
		Undone:      true,
		IsUndone:    false,
	}

	if err := database.DB.Create(&undoLog).Error; err != nil {
		return fmt.Errorf("undo log kaydedilemedi: %w", err)
	}

	return nil
}

// deleteEntity - Entity'yi sil
// Not: Reçete ve sayım gibi bağlı kayıtları (BOM, mahsup fişi) olan
// aggregate'ler buradan silinmez, kendi endpoint'leri üzerinden silinmeli.
func deleteEntity(entityType string, entityID uint) error {
	switch entityType {
	case "product":
		return database.DB.Delete(&models.Product{}, "id = ?", entityID).Error
	case "recipe_line":
		return database.DB.Delete(&models.RecipeLine{}, "id = ?", entityID).Error
	case "stocktake_line":
		return database.DB.Delete(&models.StocktakeLine{}, "id = ?", entityID).Error
	case "supplier":
		return database.DB.Delete(&models.Supplier{}, "id = ?", entityID).Error
	default:
		return fmt.Errorf("bilinmeyen entity tipi: %s", entityType)
	}
}

// recreateEntity - Silinen entity'yi geri oluştur
func recreateEntity(entityType string, dataJSON string) error {
	switch entityType {
	case "product":
		var product models.Product
		if err := json.Unmarshal([]byte(dataJSON), &product); err != nil {
			return err
		}
		product.ID = 0 // Yeni entity oluştur
		return database.DB.Create(&product).Error

	case "recipe_line":
		var line models.RecipeLine
		if err := json.Unmarshal([]byte(dataJSON), &line); err != nil {
			return err
		}
		line.ID = 0
		return database.DB.Create(&line).Error

	case "stocktake_line":
		var line models.StocktakeLine
		if err := json.Unmarshal([]byte(dataJSON), &line); err != nil {
			return err
		}
		line.ID = 0
		return database.DB.Create(&line).Error

	case "supplier":
		var supplier models.Supplier
		if err := json.Unmarshal([]byte(dataJSON), &supplier); err != nil {
			return err
		}
		supplier.ID = 0
		return database.DB.Create(&supplier).Error

	default:
		return fmt.Errorf("bilinmeyen entity tipi: %s", entityType)
	}
}

// restoreEntity - Entity'yi geri yükle (update)
func restoreEntity(entityType string, entityID uint, dataJSON string) error {
	switch entityType {
	case "product":
		var product models.Product
		if err := json.Unmarshal([]byte(dataJSON), &product); err != nil {
			return err
		}
		product.ID = entityID
		return database.DB.Model(&models.Product{}).Where("id = ?", entityID).Updates(map[string]interface{}{
			"name":                product.Name,
			"unit":                product.Unit,
			"barcode":             product.Barcode,
			"internal_ref":        product.InternalRef,
			"category_id":         product.CategoryID,
			"sale_price":          product.SalePrice,
			"standard_cost":       product.StandardCost,
			"on_hand_qty":         product.OnHandQty,
			"is_ingredient":       product.IsIngredient,
			"ingredient_category": product.IngredientCategory,
			"available_in_pos":    product.AvailableInPos,
		}).Error

	case "recipe_line":
		var line models.RecipeLine
		if err := json.Unmarshal([]byte(dataJSON), &line); err != nil {
			return err
		}
		line.ID = entityID
		return database.DB.Model(&models.RecipeLine{}).Where("id = ?", entityID).Updates(map[string]interface{}{
			"recipe_id":  line.RecipeID,
			"sequence":   line.Sequence,
			"product_id": line.ProductID,
			"quantity":   line.Quantity,
			"unit":       line.Unit,
		}).Error

	case "stocktake_line":
		var line models.StocktakeLine
		if err := json.Unmarshal([]byte(dataJSON), &line); err != nil {
			return err
		}
		line.ID = entityID
		return database.DB.Model(&models.StocktakeLine{}).Where("id = ?", entityID).Updates(map[string]interface{}{
			"stocktake_id": line.StocktakeID,
			"product_id":   line.ProductID,
			"system_qty":   line.SystemQty,
			"counted_qty":  line.CountedQty,
			"notes":        line.Notes,
		}).Error

	case "supplier":
		var supplier models.Supplier
		if err := json.Unmarshal([]byte(dataJSON), &supplier); err != nil {
			return err
		}
		supplier.ID = entityID
		return database.DB.Model(&models.Supplier{}).Where("id = ?", entityID).Updates(map[string]interface{}{
			"name":  supplier.Name,
			"phone": supplier.Phone,
			"email": supplier.Email,
		}).Error

	default:
		return fmt.Errorf("bilinmeyen entity tipi: %s", entityType)
	}
}
