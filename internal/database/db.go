package database

import (
	"log"

	"mutfak-backend/internal/config"
	"mutfak-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Veritabanına bağlanılamadı: %v", err)
	}

	err = DB.AutoMigrate(
		&models.User{},
		&models.Account{},
		&models.Journal{},
		&models.ProductCategory{},
		&models.Product{},
		&models.Supplier{},
		&models.SupplierInfo{},
		&models.Recipe{},
		&models.RecipeLine{},
		&models.Bom{},
		&models.BomLine{},
		&models.Sequence{},
		&models.Stocktake{},
		&models.StocktakeLine{},
		&models.AccountMove{},
		&models.AccountMoveLine{},
		&models.Setting{},
		&models.AuditLog{},
	)
	if err != nil {
		log.Fatalf("AutoMigrate hatası: %v", err)
	}

	SeedDefaults(DB)

	log.Println("Veritabanı bağlantısı başarılı. Migration tamamlandı.")
}

// SeedDefaults - İlk açılışta gereken varsayılan kayıtları oluşturur.
// Ayar satırı, genel yevmiye defteri ve numara sıraları yoksa eklenir.
func SeedDefaults(db *gorm.DB) {
	// Tek satırlık ayar kaydı (ID = 1)
	var setting models.Setting
	if err := db.First(&setting, 1).Error; err != nil {
		setting = models.Setting{ID: 1, HighFoodCostThreshold: 35}
		if err := db.Create(&setting).Error; err != nil {
			log.Printf("Ayar kaydı oluşturulamadı: %v", err)
		}
	}

	// Genel yevmiye defteri
	var journalCount int64
	db.Model(&models.Journal{}).Where("type = ?", models.JournalTypeGeneral).Count(&journalCount)
	if journalCount == 0 {
		journal := models.Journal{Code: "GNL", Name: "Genel Yevmiye", Type: models.JournalTypeGeneral}
		if err := db.Create(&journal).Error; err != nil {
			log.Printf("Genel yevmiye defteri oluşturulamadı: %v", err)
		}
	}

	// Sayım referans sırası (ST/00001, ST/00002, ...)
	var seq models.Sequence
	if err := db.Where("code = ?", "stocktake").First(&seq).Error; err != nil {
		seq = models.Sequence{Code: "stocktake", Prefix: "ST/", Padding: 5, NextNumber: 1}
		if err := db.Create(&seq).Error; err != nil {
			log.Printf("Sayım sırası oluşturulamadı: %v", err)
		}
	}
}
