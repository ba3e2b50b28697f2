package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/tallesnicacio/a-pay-sub001/config"
	"github.com/tallesnicacio/a-pay-sub001/controllers"
	"github.com/tallesnicacio/a-pay-sub001/middleware"
	"github.com/tallesnicacio/a-pay-sub001/models"
	"github.com/tallesnicacio/a-pay-sub001/realtime"
	"github.com/tallesnicacio/a-pay-sub001/services"
	"gorm.io/gorm"
)

// Register wires services, controllers and route groups onto the engine.
func Register(r *gin.Engine, cfg *config.Config, db *gorm.DB, hub *realtime.Hub, storage services.S3Interface) {
	audit := services.NewAuditService(db)
	auth := services.NewAuthService(db, cfg.JWTSecret, cfg.JWTTTL)
	establishments := services.NewEstablishmentService(db, auth)
	products := services.NewProductService(db)
	orders := services.NewOrderService(db, products, establishments, audit, hub)
	kitchen := services.NewKitchenService(db, audit, hub)
	reports := services.NewReportService(db)

	authCtl := controllers.NewAuthController(auth)
	estCtl := controllers.NewEstablishmentController(establishments)
	productCtl := controllers.NewProductController(products, storage)
	orderCtl := controllers.NewOrderController(orders)
	kitchenCtl := controllers.NewKitchenController(kitchen)
	publicCtl := controllers.NewPublicController(orders, products, establishments)
	reportCtl := controllers.NewReportController(reports)
	auditCtl := controllers.NewAuditController(audit)
	eventsCtl := controllers.NewEventsController(hub)

	v1 := r.Group("/api/v1")

	// Unauthenticated: login, tenant onboarding, customer-facing menu.
	v1.POST("/auth/login", authCtl.Login)
	v1.POST("/establishments", estCtl.Create)
	public := v1.Group("/public/:slug")
	{
		public.GET("/menu", publicCtl.Menu)
		public.POST("/orders", publicCtl.CreateOrder)
		public.GET("/orders/:id", publicCtl.GetOrder)
	}

	// Any authenticated staff member.
	staff := v1.Group("")
	staff.Use(middleware.RequireAuth(cfg.JWTSecret))
	{
		staff.GET("/establishment", estCtl.Get)
		staff.GET("/products", productCtl.List)
		staff.GET("/products/:id", productCtl.Get)
		staff.GET("/orders", orderCtl.List)
		staff.GET("/orders/:id", orderCtl.Get)
		staff.GET("/kitchen/tickets", kitchenCtl.List)
		staff.GET("/kitchen/tickets/:id", kitchenCtl.Get)
		staff.GET("/kitchen/stats", kitchenCtl.Stats)
		staff.GET("/events", eventsCtl.Stream)
		staff.GET("/events/recent", eventsCtl.Recent)
	}

	// Cashiers and admins: orders and payments.
	cashier := v1.Group("")
	cashier.Use(middleware.RequireAuth(cfg.JWTSecret, models.RoleAdmin, models.RoleCashier))
	{
		cashier.POST("/orders", orderCtl.Create)
		cashier.POST("/orders/:id/payments", orderCtl.ApplyPayment)
		cashier.PATCH("/orders/:id/status", orderCtl.UpdateStatus)
	}

	// Kitchen staff and admins: ticket workflow.
	kitchenGroup := v1.Group("")
	kitchenGroup.Use(middleware.RequireAuth(cfg.JWTSecret, models.RoleAdmin, models.RoleKitchen))
	{
		kitchenGroup.PATCH("/kitchen/tickets/:id/status", kitchenCtl.UpdateStatus)
	}

	// Admins only: staff accounts, catalog writes, settings, reports.
	admin := v1.Group("")
	admin.Use(middleware.RequireAuth(cfg.JWTSecret, models.RoleAdmin))
	{
		admin.POST("/users", authCtl.CreateUser)
		admin.PATCH("/establishment", estCtl.UpdateSettings)
		admin.POST("/products", productCtl.Create)
		admin.PUT("/products/:id", productCtl.Update)
		admin.POST("/products/:id/image", productCtl.UploadImage)
		admin.GET("/reports/sales", reportCtl.Sales)
		admin.GET("/audit", auditCtl.List)
	}
}
