package main

import (
	"log"
	"strings"

	"mutfak-backend/internal/accounting"
	"mutfak-backend/internal/audit"
	"mutfak-backend/internal/auth"
	"mutfak-backend/internal/bom"
	"mutfak-backend/internal/config"
	"mutfak-backend/internal/dashboard"
	"mutfak-backend/internal/database"
	"mutfak-backend/internal/inventory"
	"mutfak-backend/internal/models"
	"mutfak-backend/internal/recipe"
	"mutfak-backend/internal/settings"
	"mutfak-backend/internal/stocktake"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Beklenmeyen sunucu hatası",
			})
		},
	})

	// CORS origins'i virgülle ayrılmış string'den temizleyerek al
	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-admin", auth.RegisterAdminHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Admin routes
	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(auth.RequireRole(models.RoleAdmin))

	// Kullanıcı yönetimi
	adminRoutes.Post("/users", auth.CreateUserHandler())
	adminRoutes.Get("/users", auth.ListUsersHandler())

	// Hesap planı ve yevmiye defterleri
	adminRoutes.Post("/accounts", accounting.CreateAccountHandler())
	adminRoutes.Put("/accounts/:id", accounting.UpdateAccountHandler())
	adminRoutes.Delete("/accounts/:id", accounting.DeleteAccountHandler())
	adminRoutes.Post("/journals", accounting.CreateJournalHandler())

	// Ayarlar
	adminRoutes.Get("/settings", settings.GetSettingsHandler())
	adminRoutes.Put("/settings", settings.UpdateSettingsHandler())

	// Ürün yönetimi
	adminRoutes.Post("/products", inventory.CreateProductHandler())
	adminRoutes.Put("/products/:id", inventory.UpdateProductHandler())
	adminRoutes.Delete("/products/:id", inventory.DeleteProductHandler())

	// Ürün kategorileri
	adminRoutes.Post("/product-categories", inventory.CreateCategoryHandler())
	adminRoutes.Put("/product-categories/:id", inventory.UpdateCategoryHandler())
	adminRoutes.Delete("/product-categories/:id", inventory.DeleteCategoryHandler())

	// Tedarikçi yönetimi
	adminRoutes.Post("/suppliers", inventory.CreateSupplierHandler())
	adminRoutes.Put("/suppliers/:id", inventory.UpdateSupplierHandler())
	adminRoutes.Delete("/suppliers/:id", inventory.DeleteSupplierHandler())

	// Ortak (auth gerektiren) route'lar

	// Ürünler ve kategoriler
	protected.Get("/products", inventory.ListProductsHandler())
	protected.Get("/products/:id", inventory.GetProductHandler())
	protected.Get("/product-categories", inventory.ListCategoriesHandler())
	protected.Get("/suppliers", inventory.ListSuppliersHandler())
	protected.Get("/suppliers/:id", inventory.GetSupplierHandler())

	// Hızlı kayıt sihirbazları
	protected.Post("/quick-ingredients", inventory.QuickIngredientHandler())
	protected.Post("/quick-products", inventory.QuickProductHandler())

	// Reçeteler
	protected.Post("/recipes", recipe.CreateRecipeHandler())
	protected.Get("/recipes", recipe.ListRecipesHandler())
	protected.Get("/recipes/:id", recipe.GetRecipeHandler())
	protected.Put("/recipes/:id", recipe.UpdateRecipeHandler())
	protected.Delete("/recipes/:id", recipe.DeleteRecipeHandler())
	protected.Post("/recipes/:id/recalculate", recipe.RecalculateRecipeHandler())
	protected.Post("/recipes/:id/apply-cost", recipe.ApplyCostHandler())

	// Reçete satırları
	protected.Post("/recipe-lines", recipe.CreateLineHandler())
	protected.Put("/recipe-lines/:id", recipe.UpdateLineHandler())
	protected.Delete("/recipe-lines/:id", recipe.DeleteLineHandler())

	// Kitler (ürün ağaçları) - salt okunur, reçeteden türetilir
	protected.Get("/boms", bom.ListBomsHandler())
	protected.Get("/boms/:id", bom.GetBomHandler())

	// Stok sayımları
	protected.Post("/stocktakes", stocktake.CreateStocktakeHandler())
	protected.Get("/stocktakes", stocktake.ListStocktakesHandler())
	protected.Get("/stocktakes/:id", stocktake.GetStocktakeHandler())
	protected.Put("/stocktakes/:id", stocktake.UpdateStocktakeHandler())
	protected.Delete("/stocktakes/:id", stocktake.DeleteStocktakeHandler())
	protected.Post("/stocktakes/:id/start", stocktake.StartStocktakeHandler())
	protected.Post("/stocktakes/:id/load-ingredients", stocktake.LoadIngredientsHandler())
	protected.Post("/stocktakes/:id/validate", stocktake.ValidateStocktakeHandler())
	protected.Post("/stocktakes/:id/cancel", stocktake.CancelStocktakeHandler())
	protected.Post("/stocktakes/:id/reset-to-draft", stocktake.ResetToDraftHandler())
	protected.Get("/stocktakes/:id/export-excel", stocktake.ExportStocktakeExcelHandler())

	// Sayım satırları
	protected.Post("/stocktake-lines", stocktake.CreateStocktakeLineHandler())
	protected.Put("/stocktake-lines/:id", stocktake.UpdateStocktakeLineHandler())
	protected.Delete("/stocktake-lines/:id", stocktake.DeleteStocktakeLineHandler())

	// Muhasebe - salt okunur
	protected.Get("/accounts", accounting.ListAccountsHandler())
	protected.Get("/journals", accounting.ListJournalsHandler())
	protected.Get("/account-moves", accounting.ListMovesHandler())
	protected.Get("/account-moves/:id", accounting.GetMoveHandler())

	// Dashboard
	protected.Get("/dashboard/stats", dashboard.StatsHandler())
	protected.Get("/dashboard/low-margin-recipes", dashboard.LowMarginRecipesHandler())

	// Audit log
	protected.Get("/audit-logs", audit.ListAuditLogsHandler())
	protected.Post("/audit-logs/:id/undo", audit.UndoAuditLogHandler())

	log.Printf("Sunucu %s portunda dinliyor", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatalf("Sunucu başlatılamadı: %v", err)
	}
}
