package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/milhojas/pedidos-api/internal/application/auth"
	apporder "github.com/milhojas/pedidos-api/internal/application/order"
	appsync "github.com/milhojas/pedidos-api/internal/application/sync"
	"github.com/milhojas/pedidos-api/internal/application/usecase"
	"github.com/milhojas/pedidos-api/internal/domain/entity"
	"github.com/milhojas/pedidos-api/internal/infrastructure/realtime"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	UserUC      *usecase.UserUseCase
	ProductUC   *usecase.ProductUseCase
	SettingUC   *usecase.SettingUseCase
	OrderUC     *apporder.UseCase
	Coordinator *appsync.Coordinator
	Hub         *realtime.Hub
	Voucher     VoucherGenerator
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Settings: lectura pública (la página de login necesita logo y fondo)
	settingHandler := NewSettingHandler(deps.SettingUC)
	api.Get("/settings", settingHandler.List)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Escritura de settings: solo admin
	protected.Put("/settings/:key", RequireRole(entity.RoleAdmin), settingHandler.Upsert)

	// Users (solo admin)
	users := protected.Group("/users", RequireRole(entity.RoleAdmin))
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/", userHandler.List)
	users.Post("/", userHandler.Create)
	users.Put("/:id", userHandler.Update)
	users.Delete("/:id", userHandler.Delete)

	// Products: lectura para cualquier rol autenticado, escritura solo admin
	productHandler := NewProductHandler(deps.ProductUC)
	protected.Get("/products", productHandler.List)
	productsAdmin := protected.Group("/products", RequireRole(entity.RoleAdmin))
	productsAdmin.Post("/", productHandler.Create)
	productsAdmin.Put("/:id", productHandler.Update)
	productsAdmin.Delete("/:id", productHandler.Delete)

	// Orders: ciclo de vida por rol
	orderHandler := NewOrderHandler(deps.OrderUC, deps.Coordinator, deps.Voucher)
	orders := protected.Group("/orders")
	orders.Get("/", RequireRole(entity.RolePlant, entity.RoleStore), orderHandler.List)
	orders.Post("/", RequireRole(entity.RoleStore), orderHandler.Submit)
	orders.Post("/:id/dispatch", RequireRole(entity.RolePlant), orderHandler.Dispatch)
	orders.Post("/:id/receive", RequireRole(entity.RoleStore), orderHandler.ConfirmArrival)
	orders.Delete("/:id", RequireRole(entity.RoleStore), orderHandler.Delete)
	orders.Get("/:id/voucher.pdf", RequireRole(entity.RoleAdmin, entity.RolePlant, entity.RoleStore), orderHandler.Voucher)

	// Feed de sincronización (SSE) para clientes conectados
	eventsHandler := NewEventsHandler(deps.Hub)
	protected.Get("/events", eventsHandler.Stream)
}
