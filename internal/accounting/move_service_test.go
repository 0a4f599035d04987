package accounting

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
	dsn := fmt.Sprintf("file:accounting-test-%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Account{},
		&models.Journal{},
		&models.AccountMove{},
		&models.AccountMoveLine{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedJournalAndAccounts(t *testing.T, db *gorm.DB) (*models.Journal, *models.Account, *models.Account) {
	t.Helper()
	journal := models.Journal{Code: "GNL", Name: "Genel Yevmiye", Type: models.JournalTypeGeneral}
	if err := db.Create(&journal).Error; err != nil {
		t.Fatalf("create journal: %v", err)
	}
	debitAcc := models.Account{Code: "153", Name: "Stok", Type: models.AccountTypeAssetCurrent}
	creditAcc := models.Account{Code: "649", Name: "Gelir", Type: models.AccountTypeIncome}
	for _, acc := range []*models.Account{&debitAcc, &creditAcc} {
		if err := db.Create(acc).Error; err != nil {
			t.Fatalf("create account: %v", err)
		}
	}
	return &journal, &debitAcc, &creditAcc
}

func TestCreateMoveRejectsImbalance(t *testing.T) {
	db := newTestDB(t)
	journal, debitAcc, creditAcc := seedJournalAndAccounts(t, db)

	move := models.AccountMove{
		JournalID: journal.ID,
		Date:      time.Now(),
		Lines: []models.AccountMoveLine{
			{AccountID: debitAcc.ID, Debit: 10},
			{AccountID: creditAcc.ID, Credit: 8},
		},
	}
	if err := CreateMove(db, &move); err == nil || !validation.IsError(err) {
		t.Fatalf("imbalanced move should fail with validation error, got %v", err)
	}

	var count int64
	db.Model(&models.AccountMove{}).Count(&count)
	if count != 0 {
		t.Errorf("move count = %d, want 0", count)
	}
}

func TestCreateMoveRejectsEmptyAndNegative(t *testing.T) {
	db := newTestDB(t)
	journal, debitAcc, creditAcc := seedJournalAndAccounts(t, db)

	empty := models.AccountMove{JournalID: journal.ID, Date: time.Now()}
	if err := CreateMove(db, &empty); err == nil || !validation.IsError(err) {
		t.Errorf("empty move should fail, got %v", err)
	}

	negative := models.AccountMove{
		JournalID: journal.ID,
		Date:      time.Now(),
		Lines: []models.AccountMoveLine{
			{AccountID: debitAcc.ID, Debit: -5},
			{AccountID: creditAcc.ID, Credit: -5},
		},
	}
	if err := CreateMove(db, &negative); err == nil || !validation.IsError(err) {
		t.Errorf("negative amounts should fail, got %v", err)
	}
}

func TestCreateAndPostMove(t *testing.T) {
	db := newTestDB(t)
	journal, debitAcc, creditAcc := seedJournalAndAccounts(t, db)

	move := models.AccountMove{
		JournalID: journal.ID,
		Date:      time.Now(),
		Ref:       "ST/00001",
		Lines: []models.AccountMoveLine{
			{AccountID: debitAcc.ID, Debit: 4},
			{AccountID: creditAcc.ID, Credit: 4},
		},
	}
	if err := CreateMove(db, &move); err != nil {
		t.Fatalf("create move: %v", err)
	}
	if move.State != models.MoveStateDraft {
		t.Errorf("state = %q, want draft", move.State)
	}

	if err := PostMove(db, &move); err != nil {
		t.Fatalf("post move: %v", err)
	}

	var got models.AccountMove
	if err := db.Preload("Lines").First(&got, move.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.State != models.MoveStatePosted {
		t.Errorf("state = %q, want posted", got.State)
	}
	if len(got.Lines) != 2 {
		t.Errorf("line count = %d, want 2", len(got.Lines))
	}

	// İkinci kez kesinleştirilemez
	if err := PostMove(db, &got); err == nil || !validation.IsError(err) {
		t.Errorf("posting a posted move should fail, got %v", err)
	}
}

func TestFindGeneralJournal(t *testing.T) {
	db := newTestDB(t)

	if _, err := FindGeneralJournal(db); err == nil || !validation.IsError(err) {
		t.Errorf("missing general journal should fail, got %v", err)
	}

	journal := models.Journal{Code: "GNL", Name: "Genel Yevmiye", Type: models.JournalTypeGeneral}
	if err := db.Create(&journal).Error; err != nil {
		t.Fatalf("create journal: %v", err)
	}

	got, err := FindGeneralJournal(db)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.ID != journal.ID {
		t.Errorf("journal id = %d, want %d", got.ID, journal.ID)
	}
}
