package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Gestion-api/internal/application/alerts"
	"github.com/jhoicas/Gestion-api/internal/application/auth"
	"github.com/jhoicas/Gestion-api/internal/application/inventory"
	"github.com/jhoicas/Gestion-api/internal/application/orders"
	"github.com/jhoicas/Gestion-api/internal/application/pricing"
	"github.com/jhoicas/Gestion-api/internal/application/usecase"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CompanyUC   *usecase.CompanyUseCase
	ProductUC   *usecase.ProductUseCase
	AccountUC   *usecase.AccountUseCase
	DashboardUC *usecase.DashboardUseCase
	AdjustStock *inventory.AdjustStockUseCase
	OrderUC     *orders.UseCase
	ReceiptUC   *orders.ReceiptUseCase
	AlertUC     *alerts.UseCase
	Advisor     *pricing.Advisor
	AuthUC      *auth.AuthUseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Companies: alta y consulta públicas (onboarding); actualización requiere admin.
	companies := api.Group("/companies")
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	companies.Get("/", companyHandler.List)
	companies.Post("/", companyHandler.Create)
	companies.Get("/:id", companyHandler.GetByID)
	companies.Put("/:id",
		AuthMiddleware(deps.JWTSecret),
		RequireRole(entity.RoleAdmin),
		companyHandler.Update,
	)

	// Rutas protegidas: Bearer Token + empresa activa.
	protected := api.Group("/",
		AuthMiddleware(deps.JWTSecret),
		RequireActiveCompany(deps.CompanyUC),
	)

	// Products (protegido; escritura restringida a admin y bodeguero)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, deps.AdjustStock)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", RequireRole(entity.RoleAdmin, entity.RoleBodeguero), productHandler.Create)
	products.Put("/:id", RequireRole(entity.RoleAdmin, entity.RoleBodeguero), productHandler.Update)
	products.Delete("/:id", RequireRole(entity.RoleAdmin), productHandler.Delete)
	products.Post("/:id/stock", RequireRole(entity.RoleAdmin, entity.RoleBodeguero), productHandler.AdjustStock)

	// Sales y Purchases: mismo motor, tipo distinto por grupo.
	saleHandler := NewOrderHandler(deps.OrderUC, deps.ReceiptUC, entity.OrderTypeSale)
	purchaseHandler := NewOrderHandler(deps.OrderUC, deps.ReceiptUC, entity.OrderTypePurchase)
	mountOrders(protected.Group("/sales"), saleHandler,
		RequireRole(entity.RoleAdmin, entity.RoleVendedor))
	mountOrders(protected.Group("/purchases"), purchaseHandler,
		RequireRole(entity.RoleAdmin, entity.RoleBodeguero))

	// Alerts (protegido)
	alertGroup := protected.Group("/alerts")
	alertHandler := NewAlertHandler(deps.AlertUC)
	alertGroup.Get("/", alertHandler.List)
	alertGroup.Post("/", alertHandler.Create)
	alertGroup.Post("/refresh", alertHandler.Refresh)
	alertGroup.Delete("/read", alertHandler.DeleteRead)
	alertGroup.Post("/:id/read", alertHandler.MarkRead)
	alertGroup.Delete("/:id", alertHandler.Delete)

	// Accounts (protegido)
	accounts := protected.Group("/accounts")
	accountHandler := NewAccountHandler(deps.AccountUC)
	accounts.Post("/", accountHandler.Create)
	accounts.Get("/", accountHandler.List)
	accounts.Get("/:id", accountHandler.GetByID)
	accounts.Put("/:id", accountHandler.Update)
	accounts.Delete("/:id", accountHandler.Delete)

	// Dashboard y analítica (protegido)
	dashboard := protected.Group("/dashboard")
	dashboardHandler := NewDashboardHandler(deps.DashboardUC, deps.Advisor)
	dashboard.Get("/", dashboardHandler.Summary)
	dashboard.Get("/pricing", dashboardHandler.PricingSuggestions)
}

// mountOrders registra las rutas de un tipo de orden con su guard de rol de escritura.
func mountOrders(g fiber.Router, h *OrderHandler, writeGuard fiber.Handler) {
	g.Get("/", h.List)
	g.Get("/:id", h.GetByID)
	g.Get("/:id/pdf", h.ReceiptPDF)
	g.Post("/", writeGuard, h.Create)
	g.Put("/:id", writeGuard, h.Edit)
	g.Patch("/:id/status", writeGuard, h.UpdateStatus)
	g.Post("/:id/cancel", writeGuard, h.Cancel)
	g.Delete("/:id", writeGuard, h.Delete)
}
