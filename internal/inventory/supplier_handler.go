package inventory

import (
	"fmt"
	"strings"

	"mutfak-backend/internal/audit"
	"mutfak-backend/internal/auth"
	"mutfak-backend/internal/database"
	"mutfak-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type SupplierRequest struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
	Email *string `json:"email"`
}

type SupplierInfoResponse struct {
	ID          uint    `json:"id"`
	ProductID   uint    `json:"product_id"`
	ProductName string  `json:"product_name"`
	Price       float64 `json:"price"`
}

type SupplierResponse struct {
	ID     uint                   `json:"id"`
	Name   string                 `json:"name"`
	Phone  string                 `json:"phone"`
	Email  string                 `json:"email"`
	Prices []SupplierInfoResponse `json:"prices,omitempty"`
}

// POST /api/admin/suppliers
func CreateSupplierHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body SupplierRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.Name == nil || strings.TrimSpace(*body.Name) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Tedarikçi adı zorunlu")
		}
		name := strings.TrimSpace(*body.Name)

		var count int64
		database.DB.Model(&models.Supplier{}).Where("name = ?", name).Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Bu isimde bir tedarikçi zaten var")
		}

		supplier := models.Supplier{Name: name}
		if body.Phone != nil {
			supplier.Phone = *body.Phone
		}
		if body.Email != nil {
			supplier.Email = *body.Email
		}

		if err := database.DB.Create(&supplier).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Tedarikçi oluşturulamadı")
		}

		if user, uerr := auth.CurrentUser(c); uerr == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      user.ID,
				UserName:    user.Name,
				EntityType:  "supplier",
				EntityID:    supplier.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Tedarikçi oluşturuldu: %s", supplier.Name),
				After:       supplier,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(SupplierResponse{
			ID:    supplier.ID,
			Name:  supplier.Name,
			Phone: supplier.Phone,
			Email: supplier.Email,
		})
	}
}

// GET /api/suppliers
func ListSuppliersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var suppliers []models.Supplier
		if err := database.DB.Order("name asc").Find(&suppliers).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Tedarikçiler listelenemedi")
		}

		resp := make([]SupplierResponse, 0, len(suppliers))
		for _, s := range suppliers {
			resp = append(resp, SupplierResponse{
				ID:    s.ID,
				Name:  s.Name,
				Phone: s.Phone,
				Email: s.Email,
			})
		}
		return c.JSON(resp)
	}
}

// GET /api/suppliers/:id - Tedarikçi ve verdiği fiyatlar
func GetSupplierHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz tedarikçi ID")
		}

		var supplier models.Supplier
		if err := database.DB.First(&supplier, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Tedarikçi bulunamadı")
		}

		var infos []models.SupplierInfo
		if err := database.DB.Preload("Product").
			Where("supplier_id = ?", supplier.ID).
			Find(&infos).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Fiyatlar okunamadı")
		}

		resp := SupplierResponse{
			ID:     supplier.ID,
			Name:   supplier.Name,
			Phone:  supplier.Phone,
			Email:  supplier.Email,
			Prices: make([]SupplierInfoResponse, 0, len(infos)),
		}
		for _, info := range infos {
			resp.Prices = append(resp.Prices, SupplierInfoResponse{
				ID:          info.ID,
				ProductID:   info.ProductID,
				ProductName: info.Product.Name,
				Price:       info.Price,
			})
		}
		return c.JSON(resp)
	}
}

// PUT /api/admin/suppliers/:id
func UpdateSupplierHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz tedarikçi ID")
		}

		var body SupplierRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		var supplier models.Supplier
		if err := database.DB.First(&supplier, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Tedarikçi bulunamadı")
		}
		before := supplier

		updates := map[string]interface{}{}
		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Tedarikçi adı boş olamaz")
			}
			var count int64
			database.DB.Model(&models.Supplier{}).
				Where("name = ? AND id <> ?", name, supplier.ID).
				Count(&count)
			if count > 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Bu isimde bir tedarikçi zaten var")
			}
			updates["name"] = name
		}
		if body.Phone != nil {
			updates["phone"] = *body.Phone
		}
		if body.Email != nil {
			updates["email"] = *body.Email
		}

		if len(updates) > 0 {
			if err := database.DB.Model(&supplier).Updates(updates).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Tedarikçi güncellenemedi")
			}
		}

		var after models.Supplier
		if err := database.DB.First(&after, supplier.ID).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Tedarikçi okunamadı")
		}

		if user, uerr := auth.CurrentUser(c); uerr == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      user.ID,
				UserName:    user.Name,
				EntityType:  "supplier",
				EntityID:    supplier.ID,
				Action:      models.AuditActionUpdate,
				Description: fmt.Sprintf("Tedarikçi güncellendi: %s", after.Name),
				Before:      before,
				After:       after,
			})
		}

		return c.JSON(SupplierResponse{
			ID:    after.ID,
			Name:  after.Name,
			Phone: after.Phone,
			Email: after.Email,
		})
	}
}

// DELETE /api/admin/suppliers/:id
func DeleteSupplierHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz tedarikçi ID")
		}

		var supplier models.Supplier
		if err := database.DB.First(&supplier, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Tedarikçi bulunamadı")
		}

		tx := database.DB.Begin()
		if err := tx.Where("supplier_id = ?", supplier.ID).Delete(&models.SupplierInfo{}).Error; err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Tedarikçi fiyatları silinemedi")
		}
		if err := tx.Delete(&models.Supplier{}, supplier.ID).Error; err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Tedarikçi silinemedi")
		}
		if err := tx.Commit().Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "İşlem tamamlanamadı")
		}

		if user, uerr := auth.CurrentUser(c); uerr == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      user.ID,
				UserName:    user.Name,
				EntityType:  "supplier",
				EntityID:    supplier.ID,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("Tedarikçi silindi: %s", supplier.Name),
				Before:      supplier,
				After:       supplier,
			})
		}

		return c.JSON(fiber.Map{"message": "Tedarikçi silindi"})
	}
}
