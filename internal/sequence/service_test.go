package sequence

import (
	"fmt"
	"testing"
	"time"

	"mutfak-backend/internal/models"
	"mutfak-backend/internal/validation"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:sequence-test-%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.Sequence{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestNextByCodeFormatsAndIncrements(t *testing.T) {
	db := newTestDB(t)

	seq := models.Sequence{Code: "stocktake", Prefix: "ST/", Padding: 5, NextNumber: 1}
	if err := db.Create(&seq).Error; err != nil {
		t.Fatalf("create sequence: %v", err)
	}

	first, err := NextByCode(db, "stocktake")
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	if first != "ST/00001" {
		t.Errorf("first ref = %q, want ST/00001", first)
	}

	second, err := NextByCode(db, "stocktake")
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if second != "ST/00002" {
		t.Errorf("second ref = %q, want ST/00002", second)
	}
}

func TestNextByCodeUnknownCode(t *testing.T) {
	db := newTestDB(t)

	if _, err := NextByCode(db, "yok"); err == nil || !validation.IsError(err) {
		t.Errorf("unknown code should return validation error, got %v", err)
	}
}

func TestNextByCodeRollbackBurnsNoNumber(t *testing.T) {
	db := newTestDB(t)

	seq := models.Sequence{Code: "stocktake", Prefix: "ST/", Padding: 5, NextNumber: 1}
	if err := db.Create(&seq).Error; err != nil {
		t.Fatalf("create sequence: %v", err)
	}

	tx := db.Begin()
	if _, err := NextByCode(tx, "stocktake"); err != nil {
		t.Fatalf("next in tx: %v", err)
	}
	tx.Rollback()

	ref, err := NextByCode(db, "stocktake")
	if err != nil {
		t.Fatalf("next after rollback: %v", err)
	}
	if ref != "ST/00001" {
		t.Errorf("ref = %q, want ST/00001 (rollback sayacı geri almalı)", ref)
	}
}
