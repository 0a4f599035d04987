package stocktake

import (
	"fmt"

	"mutfak-backend/internal/database"
	"mutfak-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

// GET /api/stocktakes/:id/export-excel - Sayım dökümünü xlsx olarak indirir
func ExportStocktakeExcelHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz sayım ID")
		}

		var st models.Stocktake
		if err := database.DB.
			Preload("User").
			Preload("Lines").
			Preload("Lines.Product").
			First(&st, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Sayım bulunamadı")
		}

		f := excelize.NewFile()
		defer f.Close()

		sheetName := "Sayım"
		f.SetSheetName(f.GetSheetName(0), sheetName)

		// Üst bilgi
		f.SetCellValue(sheetName, "A1", "Referans")
		f.SetCellValue(sheetName, "B1", st.Name)
		f.SetCellValue(sheetName, "A2", "Tarih")
		f.SetCellValue(sheetName, "B2", st.Date.Format("2006-01-02"))
		f.SetCellValue(sheetName, "A3", "Sorumlu")
		f.SetCellValue(sheetName, "B3", st.User.Name)
		f.SetCellValue(sheetName, "A4", "Durum")
		f.SetCellValue(sheetName, "B4", string(st.State))

		// Başlık satırı
		headers := []string{"Malzeme", "Birim", "Birim Maliyet", "Sistem Miktarı", "Sayılan Miktar", "Fark", "Fark Değeri"}
		for i, h := range headers {
			cell, _ := excelize.CoordinatesToCellName(i+1, 6)
			f.SetCellValue(sheetName, cell, h)
		}

		// Satırlar
		rowNum := 7
		for i := range st.Lines {
			line := &st.Lines[i]
			values := []interface{}{
				line.Product.Name,
				line.Product.Unit,
				line.Product.StandardCost,
				line.SystemQty,
				line.CountedQty,
				line.VarianceQty(),
				line.VarianceValue(),
			}
			for col, v := range values {
				cell, _ := excelize.CoordinatesToCellName(col+1, rowNum)
				f.SetCellValue(sheetName, cell, v)
			}
			rowNum++
		}

		// Özet
		totals := ComputeTotals(&st)
		rowNum++
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", rowNum), "Toplam Fark Değeri")
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", rowNum), totals.VarianceValue)

		buf, err := f.WriteToBuffer()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Excel dosyası oluşturulamadı")
		}

		fileName := fmt.Sprintf("sayim_%s.xlsx", st.Date.Format("2006-01-02"))
		c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, fileName))
		return c.Send(buf.Bytes())
	}
}
