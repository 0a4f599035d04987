package stocktake

import (
	"fmt"
	"math"
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
	dsn := fmt.Sprintf("file:stocktake-test-%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Account{},
		&models.Journal{},
		&models.ProductCategory{},
		&models.Product{},
		&models.Stocktake{},
		&models.StocktakeLine{},
		&models.AccountMove{},
		&models.AccountMoveLine{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

type fixture struct {
	db           *gorm.DB
	user         *models.User
	gainAccount  *models.Account
	lossAccount  *models.Account
	stockAccount *models.Account
	category     *models.ProductCategory
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)

	user := models.User{Name: "Test Şef", Email: "sef@test.local", PasswordHash: "x", Role: models.RoleChef}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}

	journal := models.Journal{Code: "GNL", Name: "Genel Yevmiye", Type: models.JournalTypeGeneral}
	if err := db.Create(&journal).Error; err != nil {
		t.Fatalf("create journal: %v", err)
	}

	gain := models.Account{Code: "649", Name: "Sayım Fazlası", Type: models.AccountTypeIncome}
	loss := models.Account{Code: "659", Name: "Sayım Eksiği", Type: models.AccountTypeExpense}
	stock := models.Account{Code: "153", Name: "Stok Değerleme", Type: models.AccountTypeAssetCurrent}
	for _, acc := range []*models.Account{&gain, &loss, &stock} {
		if err := db.Create(acc).Error; err != nil {
			t.Fatalf("create account: %v", err)
		}
	}

	cat := models.ProductCategory{Name: "Gıda", StockValuationAccountID: &stock.ID}
	if err := db.Create(&cat).Error; err != nil {
		t.Fatalf("create category: %v", err)
	}

	return &fixture{db: db, user: &user, gainAccount: &gain, lossAccount: &loss, stockAccount: &stock, category: &cat}
}

func (f *fixture) createIngredient(t *testing.T, name string, onHand, cost float64, categoryID *uint) *models.Product {
	t.Helper()
	p := models.Product{
		Name:         name,
		Unit:         "kg",
		StandardCost: cost,
		OnHandQty:    onHand,
		IsIngredient: true,
		CategoryID:   categoryID,
	}
	if err := f.db.Create(&p).Error; err != nil {
		t.Fatalf("create ingredient: %v", err)
	}
	return &p
}

func (f *fixture) createStocktake(t *testing.T, gainID, lossID *uint) *models.Stocktake {
	t.Helper()
	st := models.Stocktake{
		Name:          fmt.Sprintf("ST/%05d", time.Now().UnixNano()%100000),
		Date:          time.Now(),
		UserID:        f.user.ID,
		State:         models.StocktakeStateDraft,
		GainAccountID: gainID,
		LossAccountID: lossID,
	}
	if err := f.db.Create(&st).Error; err != nil {
		t.Fatalf("create stocktake: %v", err)
	}
	return &st
}

func (f *fixture) addLine(t *testing.T, st *models.Stocktake, p *models.Product, systemQty, countedQty float64) *models.StocktakeLine {
	t.Helper()
	l := models.StocktakeLine{StocktakeID: st.ID, ProductID: p.ID, SystemQty: systemQty, CountedQty: countedQty}
	if err := f.db.Create(&l).Error; err != nil {
		t.Fatalf("create line: %v", err)
	}
	return &l
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 0.000001
}

func TestStartRequiresLines(t *testing.T) {
	f := newFixture(t)
	st := f.createStocktake(t, &f.gainAccount.ID, &f.lossAccount.ID)

	err := Start(f.db, st.ID)
	if err == nil || !validation.IsError(err) {
		t.Fatalf("start without lines should fail with validation error, got %v", err)
	}

	p := f.createIngredient(t, "Domates", 10, 2, &f.category.ID)
	f.addLine(t, st, p, 10, 10)

	if err := Start(f.db, st.ID); err != nil {
		t.Fatalf("start: %v", err)
	}

	var got models.Stocktake
	f.db.First(&got, st.ID)
	if got.State != models.StocktakeStateInProgress {
		t.Errorf("state = %q, want in_progress", got.State)
	}

	// İkinci kez başlatılamaz
	if err := Start(f.db, st.ID); err == nil || !validation.IsError(err) {
		t.Errorf("starting an in_progress stocktake should fail, got %v", err)
	}
}

func TestLoadAllIngredientsSnapshotsOnHand(t *testing.T) {
	f := newFixture(t)
	p1 := f.createIngredient(t, "Domates", 10, 2, &f.category.ID)
	p2 := f.createIngredient(t, "Biber", 4, 3, &f.category.ID)
	f.createIngredient(t, "Soğan", 7, 1, &f.category.ID)

	// Menü ürünleri sayıma girmez
	menu := models.Product{Name: "Köfte", Unit: "adet", SalePrice: 100}
	if err := f.db.Create(&menu).Error; err != nil {
		t.Fatalf("create menu product: %v", err)
	}

	st := f.createStocktake(t, &f.gainAccount.ID, &f.lossAccount.ID)
	f.addLine(t, st, p1, 10, 10) // zaten satırı var, tekrar eklenmemeli

	added, err := LoadAllIngredients(f.db, st.ID)
	if err != nil {
		t.Fatalf("load ingredients: %v", err)
	}
	if added != 2 {
		t.Errorf("added = %d, want 2", added)
	}

	var lines []models.StocktakeLine
	f.db.Where("stocktake_id = ?", st.ID).Find(&lines)
	if len(lines) != 3 {
		t.Fatalf("line count = %d, want 3", len(lines))
	}
	for _, l := range lines {
		if l.ProductID == p2.ID {
			if l.SystemQty != 4 || l.CountedQty != 4 {
				t.Errorf("line for %d: system %v counted %v, want 4/4", p2.ID, l.SystemQty, l.CountedQty)
			}
		}
	}

	// Taslak dışında yüklenemez
	if err := Start(f.db, st.ID); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := LoadAllIngredients(f.db, st.ID); err == nil || !validation.IsError(err) {
		t.Errorf("loading ingredients after start should fail, got %v", err)
	}
}

func TestValidateGainPostsBalancedMove(t *testing.T) {
	f := newFixture(t)
	p := f.createIngredient(t, "Domates", 10, 2, &f.category.ID)

	st := f.createStocktake(t, &f.gainAccount.ID, &f.lossAccount.ID)
	f.addLine(t, st, p, 10, 12) // fazla: 2 kg x 2.0 = 4.0

	if err := Start(f.db, st.ID); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := Validate(f.db, st.ID); err != nil {
		t.Fatalf("validate: %v", err)
	}

	var got models.Stocktake
	f.db.First(&got, st.ID)
	if got.State != models.StocktakeStateDone {
		t.Errorf("state = %q, want done", got.State)
	}
	if got.AccountMoveID == nil {
		t.Fatal("no journal entry linked")
	}

	// Stok düzeltildi
	var product models.Product
	f.db.First(&product, p.ID)
	if product.OnHandQty != 12 {
		t.Errorf("on hand = %v, want 12", product.OnHandQty)
	}

	// Fiş dengeli ve kesinleşmiş
	var move models.AccountMove
	if err := f.db.Preload("Lines").First(&move, *got.AccountMoveID).Error; err != nil {
		t.Fatalf("load move: %v", err)
	}
	if move.State != models.MoveStatePosted {
		t.Errorf("move state = %q, want posted", move.State)
	}
	if move.Ref != got.Name {
		t.Errorf("move ref = %q, want %q", move.Ref, got.Name)
	}
	if len(move.Lines) != 2 {
		t.Fatalf("move has %d lines, want 2", len(move.Lines))
	}

	var debitStock, creditGain float64
	for _, l := range move.Lines {
		if l.AccountID == f.stockAccount.ID {
			debitStock += l.Debit
		}
		if l.AccountID == f.gainAccount.ID {
			creditGain += l.Credit
		}
	}
	if !almostEqual(debitStock, 4) {
		t.Errorf("stock valuation debit = %v, want 4", debitStock)
	}
	if !almostEqual(creditGain, 4) {
		t.Errorf("gain credit = %v, want 4", creditGain)
	}
}

func TestValidateLossPostsReversedSides(t *testing.T) {
	f := newFixture(t)
	p := f.createIngredient(t, "Kıyma", 8, 5, &f.category.ID)

	st := f.createStocktake(t, &f.gainAccount.ID, &f.lossAccount.ID)
	f.addLine(t, st, p, 8, 5) // eksik: 3 kg x 5.0 = 15.0

	if err := Start(f.db, st.ID); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := Validate(f.db, st.ID); err != nil {
		t.Fatalf("validate: %v", err)
	}

	var got models.Stocktake
	f.db.First(&got, st.ID)
	var move models.AccountMove
	if err := f.db.Preload("Lines").First(&move, *got.AccountMoveID).Error; err != nil {
		t.Fatalf("load move: %v", err)
	}

	var debitLoss, creditStock float64
	for _, l := range move.Lines {
		if l.AccountID == f.lossAccount.ID {
			debitLoss += l.Debit
		}
		if l.AccountID == f.stockAccount.ID {
			creditStock += l.Credit
		}
	}
	if !almostEqual(debitLoss, 15) {
		t.Errorf("loss debit = %v, want 15", debitLoss)
	}
	if !almostEqual(creditStock, 15) {
		t.Errorf("stock valuation credit = %v, want 15", creditStock)
	}
}

func TestValidateLeavesZeroVarianceLinesUntouched(t *testing.T) {
	f := newFixture(t)
	flour := f.createIngredient(t, "Un", 10, 2, &f.category.ID)
	tomato := f.createIngredient(t, "Domates", 10, 2, &f.category.ID)

	st := f.createStocktake(t, &f.gainAccount.ID, &f.lossAccount.ID)
	f.addLine(t, st, flour, 10, 10)  // farksız
	f.addLine(t, st, tomato, 10, 12) // fazla

	// Satır açıldıktan sonra stok hareketi oldu, fotoğraf eskidi
	if err := f.db.Model(&models.Product{}).Where("id = ?", flour.ID).
		Update("on_hand_qty", 15).Error; err != nil {
		t.Fatalf("update on hand: %v", err)
	}

	if err := Start(f.db, st.ID); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := Validate(f.db, st.ID); err != nil {
		t.Fatalf("validate: %v", err)
	}

	// Farksız satır aradaki hareketi ezmemeli
	var gotFlour models.Product
	if err := f.db.First(&gotFlour, flour.ID).Error; err != nil {
		t.Fatalf("load flour: %v", err)
	}
	if gotFlour.OnHandQty != 15 {
		t.Errorf("on hand = %v, want 15 (farksız satır stoğa dokunmamalı)", gotFlour.OnHandQty)
	}

	var gotTomato models.Product
	if err := f.db.First(&gotTomato, tomato.ID).Error; err != nil {
		t.Fatalf("load tomato: %v", err)
	}
	if gotTomato.OnHandQty != 12 {
		t.Errorf("on hand = %v, want 12", gotTomato.OnHandQty)
	}
}

func TestValidateAllZeroVarianceIsPureStateTransition(t *testing.T) {
	f := newFixture(t)
	p := f.createIngredient(t, "Domates", 10, 2, &f.category.ID)

	st := f.createStocktake(t, &f.gainAccount.ID, &f.lossAccount.ID)
	f.addLine(t, st, p, 10, 10)

	if err := f.db.Model(&models.Product{}).Where("id = ?", p.ID).
		Update("on_hand_qty", 13).Error; err != nil {
		t.Fatalf("update on hand: %v", err)
	}

	if err := Start(f.db, st.ID); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := Validate(f.db, st.ID); err != nil {
		t.Fatalf("validate: %v", err)
	}

	var got models.Stocktake
	f.db.First(&got, st.ID)
	if got.State != models.StocktakeStateDone {
		t.Errorf("state = %q, want done", got.State)
	}
	if got.AccountMoveID != nil {
		t.Errorf("journal entry created although nothing varied")
	}

	var product models.Product
	f.db.First(&product, p.ID)
	if product.OnHandQty != 13 {
		t.Errorf("on hand = %v, want 13", product.OnHandQty)
	}
}

func TestValidateZeroCostVarianceStillPostsEntry(t *testing.T) {
	f := newFixture(t)
	p := f.createIngredient(t, "Poşet", 5, 0, &f.category.ID)

	st := f.createStocktake(t, &f.gainAccount.ID, &f.lossAccount.ID)
	f.addLine(t, st, p, 5, 7) // fark var ama parasal değeri sıfır

	if err := Start(f.db, st.ID); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := Validate(f.db, st.ID); err != nil {
		t.Fatalf("validate: %v", err)
	}

	var got models.Stocktake
	f.db.First(&got, st.ID)
	if got.AccountMoveID == nil {
		t.Fatal("no journal entry for zero-cost variance")
	}

	var move models.AccountMove
	if err := f.db.Preload("Lines").First(&move, *got.AccountMoveID).Error; err != nil {
		t.Fatalf("load move: %v", err)
	}
	if len(move.Lines) != 2 {
		t.Fatalf("move has %d lines, want 2", len(move.Lines))
	}
	for _, l := range move.Lines {
		if l.Debit != 0 || l.Credit != 0 {
			t.Errorf("line amounts = %v/%v, want 0/0", l.Debit, l.Credit)
		}
	}
}

func TestValidateFailureRollsBackStockAdjustment(t *testing.T) {
	f := newFixture(t)
	p := f.createIngredient(t, "Domates", 10, 2, &f.category.ID)

	st := f.createStocktake(t, &f.gainAccount.ID, &f.lossAccount.ID)
	f.addLine(t, st, p, 10, 12)

	if err := Start(f.db, st.ID); err != nil {
		t.Fatalf("start: %v", err)
	}

	// Genel yevmiye defteri yoksa mahsup kesilemez, doğrulama yarıda kalır
	if err := f.db.Where("type = ?", models.JournalTypeGeneral).
		Delete(&models.Journal{}).Error; err != nil {
		t.Fatalf("delete journal: %v", err)
	}

	err := f.db.Transaction(func(tx *gorm.DB) error {
		return Validate(tx, st.ID)
	})
	if err == nil || !validation.IsError(err) {
		t.Fatalf("validate without journal should fail, got %v", err)
	}

	// Stok düzeltmesi de geri alınmış olmalı
	var product models.Product
	f.db.First(&product, p.ID)
	if product.OnHandQty != 10 {
		t.Errorf("on hand = %v, want 10 (rollback stok düzeltmesini geri almalı)", product.OnHandQty)
	}

	var got models.Stocktake
	f.db.First(&got, st.ID)
	if got.State != models.StocktakeStateInProgress {
		t.Errorf("state = %q, want in_progress", got.State)
	}
	if got.AccountMoveID != nil {
		t.Errorf("journal entry linked after failed validate")
	}

	var moveCount int64
	f.db.Model(&models.AccountMove{}).Count(&moveCount)
	if moveCount != 0 {
		t.Errorf("move count = %d, want 0", moveCount)
	}
}

func TestValidateRequiresAccountsForVarianceSign(t *testing.T) {
	f := newFixture(t)
	p := f.createIngredient(t, "Domates", 10, 2, &f.category.ID)

	st := f.createStocktake(t, nil, &f.lossAccount.ID)
	f.addLine(t, st, p, 10, 12) // fazla var ama fazla hesabı yok

	if err := Start(f.db, st.ID); err != nil {
		t.Fatalf("start: %v", err)
	}
	err := Validate(f.db, st.ID)
	if err == nil || !validation.IsError(err) {
		t.Fatalf("validate without gain account should fail, got %v", err)
	}

	// Hata sonrası durum değişmemiş olmalı
	var got models.Stocktake
	f.db.First(&got, st.ID)
	if got.State != models.StocktakeStateInProgress {
		t.Errorf("state = %q, want in_progress", got.State)
	}
}

func TestValidateSkipsUnvaluedCategories(t *testing.T) {
	f := newFixture(t)

	// Değerleme hesabı olmayan kategori: stok düzeltilir ama mahsup yazılmaz
	bareCat := models.ProductCategory{Name: "Ambalaj"}
	if err := f.db.Create(&bareCat).Error; err != nil {
		t.Fatalf("create category: %v", err)
	}
	p := f.createIngredient(t, "Poşet", 100, 0.5, &bareCat.ID)

	st := f.createStocktake(t, &f.gainAccount.ID, &f.lossAccount.ID)
	f.addLine(t, st, p, 100, 80)

	if err := Start(f.db, st.ID); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := Validate(f.db, st.ID); err != nil {
		t.Fatalf("validate: %v", err)
	}

	var got models.Stocktake
	f.db.First(&got, st.ID)
	if got.State != models.StocktakeStateDone {
		t.Errorf("state = %q, want done", got.State)
	}
	if got.AccountMoveID != nil {
		t.Errorf("journal entry created for unvalued category")
	}

	var product models.Product
	f.db.First(&product, p.ID)
	if product.OnHandQty != 80 {
		t.Errorf("on hand = %v, want 80", product.OnHandQty)
	}
}

func TestValidateOnlyFromInProgress(t *testing.T) {
	f := newFixture(t)
	p := f.createIngredient(t, "Domates", 10, 2, &f.category.ID)
	st := f.createStocktake(t, &f.gainAccount.ID, &f.lossAccount.ID)
	f.addLine(t, st, p, 10, 10)

	if err := Validate(f.db, st.ID); err == nil || !validation.IsError(err) {
		t.Errorf("validating a draft should fail, got %v", err)
	}
}

func TestCancelAndResetTransitions(t *testing.T) {
	f := newFixture(t)
	p := f.createIngredient(t, "Domates", 10, 2, &f.category.ID)

	st := f.createStocktake(t, &f.gainAccount.ID, &f.lossAccount.ID)
	f.addLine(t, st, p, 10, 10)

	// Taslak sayım taslağa döndürülemez
	if err := ResetToDraft(f.db, st.ID); err == nil || !validation.IsError(err) {
		t.Errorf("reset on draft should fail, got %v", err)
	}

	if err := Cancel(f.db, st.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	var got models.Stocktake
	f.db.First(&got, st.ID)
	if got.State != models.StocktakeStateCancelled {
		t.Errorf("state = %q, want cancelled", got.State)
	}

	if err := ResetToDraft(f.db, st.ID); err != nil {
		t.Fatalf("reset to draft: %v", err)
	}
	f.db.First(&got, st.ID)
	if got.State != models.StocktakeStateDraft {
		t.Errorf("state = %q, want draft", got.State)
	}

	// Tamamlanan sayım iptal edilemez
	if err := Start(f.db, st.ID); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := Validate(f.db, st.ID); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if err := Cancel(f.db, st.ID); err == nil || !validation.IsError(err) {
		t.Errorf("cancelling a done stocktake should fail, got %v", err)
	}
}

func TestComputeTotals(t *testing.T) {
	f := newFixture(t)
	p1 := f.createIngredient(t, "Domates", 10, 2, &f.category.ID)
	p2 := f.createIngredient(t, "Kıyma", 5, 4, &f.category.ID)

	st := f.createStocktake(t, &f.gainAccount.ID, &f.lossAccount.ID)
	f.addLine(t, st, p1, 10, 12) // +4
	f.addLine(t, st, p2, 5, 4)   // -4

	var loaded models.Stocktake
	if err := f.db.Preload("Lines").Preload("Lines.Product").First(&loaded, st.ID).Error; err != nil {
		t.Fatalf("load: %v", err)
	}

	totals := ComputeTotals(&loaded)
	if totals.LineCount != 2 {
		t.Errorf("line count = %d, want 2", totals.LineCount)
	}
	if totals.VarianceCount != 2 {
		t.Errorf("variance count = %d, want 2", totals.VarianceCount)
	}
	if !almostEqual(totals.SystemValue, 40) {
		t.Errorf("system value = %v, want 40", totals.SystemValue)
	}
	if !almostEqual(totals.CountedValue, 40) {
		t.Errorf("counted value = %v, want 40", totals.CountedValue)
	}
	if !almostEqual(totals.VarianceValue, 0) {
		t.Errorf("variance value = %v, want 0", totals.VarianceValue)
	}
}
