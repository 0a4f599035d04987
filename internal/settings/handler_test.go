package settings

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"mutfak-backend/internal/database"
	"mutfak-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	dsn := fmt.Sprintf("file:settings-test-%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.Setting{}, &models.Account{}, &models.ProductCategory{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := db.Create(&models.Setting{ID: 1, HighFoodCostThreshold: 35}).Error; err != nil {
		t.Fatalf("seed setting: %v", err)
	}

	original := database.DB
	database.DB = db
	t.Cleanup(func() { database.DB = original })

	app := fiber.New()
	app.Get("/api/admin/settings", GetSettingsHandler())
	app.Put("/api/admin/settings", UpdateSettingsHandler())
	return app
}

func TestGetSettingsReturnsDefaults(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest("GET", "/api/admin/settings", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body SettingResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.HighFoodCostThreshold != 35 {
		t.Errorf("threshold = %v, want 35", body.HighFoodCostThreshold)
	}
	if body.GainAccountID != nil {
		t.Errorf("gain account = %v, want nil", body.GainAccountID)
	}
}

func TestUpdateSettingsPartialUpdate(t *testing.T) {
	app := newTestApp(t)

	payload := map[string]interface{}{"high_food_cost_threshold": 40}
	raw, _ := json.Marshal(payload)

	req := httptest.NewRequest("PUT", "/api/admin/settings", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body SettingResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.HighFoodCostThreshold != 40 {
		t.Errorf("threshold = %v, want 40", body.HighFoodCostThreshold)
	}
}

func TestUpdateSettingsRejectsNegativeThreshold(t *testing.T) {
	app := newTestApp(t)

	payload := map[string]interface{}{"high_food_cost_threshold": -1}
	raw, _ := json.Marshal(payload)

	req := httptest.NewRequest("PUT", "/api/admin/settings", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}
