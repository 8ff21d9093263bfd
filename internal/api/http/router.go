package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sust-hall/hall-service/internal/api/http/handlers"
	"github.com/sust-hall/hall-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Admin          *handlers.AdminHandler
	Users          *handlers.UsersHandler
	Complaints     *handlers.ComplaintsHandler
	Halls          *handlers.HallsHandler
	Meals          *handlers.MealsHandler
	MenuItems      *handlers.MenuItemsHandler
	AuthMiddleware *auth.AuthMiddleware
	Metrics        fiber.Handler
}

// RegisterRoutes wires HTTP routes. Static segments are registered before
// their :id siblings so they match first.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", cfg.Metrics)
	}

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Get("/me", cfg.AuthMiddleware.Handle, cfg.Auth.Me)

	adminOnly := auth.RequireRole(auth.AdminRoles...)
	authenticated := auth.RequireRole()

	admin := api.Group("/admin", cfg.AuthMiddleware.Handle, adminOnly)
	admin.Get("/pending-users", cfg.Admin.PendingUsers)
	admin.Get("/users", cfg.Admin.Users)
	admin.Get("/users/status/:status", cfg.Admin.UsersByStatus)
	admin.Post("/users/:id/approve", cfg.Admin.Approve)
	admin.Post("/users/:id/reject", cfg.Admin.Reject)
	admin.Post("/users/:id/suspend", cfg.Admin.Suspend)
	admin.Post("/users/:id/activate", cfg.Admin.Activate)
	admin.Put("/users/:id/role", cfg.Admin.UpdateRole)

	users := api.Group("/users", cfg.AuthMiddleware.Handle, adminOnly)
	users.Get("/", cfg.Users.List)
	users.Get("/halls", cfg.Users.Halls)
	users.Get("/statistics", cfg.Users.Statistics)
	users.Get("/hall/:hallName", cfg.Users.ByHall)
	users.Get("/role/:role", cfg.Users.ByRole)
	users.Post("/", cfg.Users.Create)
	users.Get("/:id", cfg.Users.Get)
	users.Put("/:id", cfg.Users.Update)
	users.Delete("/:id", cfg.Users.Delete)

	complaints := api.Group("/complaints", cfg.AuthMiddleware.Handle, authenticated)
	complaints.Post("/", cfg.Complaints.Create)
	complaints.Get("/", adminOnly, cfg.Complaints.List)
	complaints.Get("/user/:userId", cfg.Complaints.ByUser)
	complaints.Get("/status/:status", adminOnly, cfg.Complaints.ByStatus)
	complaints.Get("/category/:category", adminOnly, cfg.Complaints.ByCategory)
	complaints.Get("/priority/:priority", adminOnly, cfg.Complaints.ByPriority)
	complaints.Get("/:id", cfg.Complaints.Get)
	complaints.Put("/:id/status", adminOnly, cfg.Complaints.UpdateStatus)
	complaints.Post("/:id/response", adminOnly, cfg.Complaints.Respond)
	complaints.Post("/:id/notes", cfg.Complaints.AddNote)
	complaints.Delete("/:id", adminOnly, cfg.Complaints.Delete)

	foodManager := auth.RequireRole(auth.FoodManagerRoles...)

	halls := api.Group("/halls", cfg.AuthMiddleware.Handle, authenticated)
	halls.Get("/", cfg.Halls.List)
	halls.Get("/active", cfg.Halls.Active)
	halls.Get("/male", cfg.Halls.Male)
	halls.Get("/female", cfg.Halls.Female)
	halls.Get("/statistics/capacity", cfg.Halls.TotalCapacity)
	halls.Get("/statistics/occupancy", cfg.Halls.TotalOccupancy)
	halls.Get("/statistics/available", cfg.Halls.AvailableSeats)
	halls.Get("/statistics/summary", cfg.Halls.Summary)
	halls.Get("/code/:hallCode", cfg.Halls.ByCode)
	halls.Get("/name/:hallName", cfg.Halls.ByName)
	halls.Get("/full-name/:fullName", cfg.Halls.ByFullName)
	halls.Get("/type/:type", cfg.Halls.ByType)
	halls.Post("/", adminOnly, cfg.Halls.Create)
	halls.Get("/:id", cfg.Halls.Get)
	halls.Put("/:id", adminOnly, cfg.Halls.Update)
	halls.Put("/:id/occupancy", adminOnly, cfg.Halls.UpdateOccupancy)
	halls.Delete("/:id", adminOnly, cfg.Halls.Delete)

	meals := api.Group("/meals", cfg.AuthMiddleware.Handle, authenticated)
	meals.Get("/", cfg.Meals.List)
	meals.Get("/available", cfg.Meals.Available)
	meals.Get("/range", cfg.Meals.ByDateRange)
	meals.Get("/type/:mealType", cfg.Meals.ByType)
	meals.Get("/hall/:hallId", cfg.Meals.ByHall)
	meals.Get("/hall/:hallId/type/:mealType", cfg.Meals.ByHallAndType)
	meals.Get("/hall/:hallId/today", cfg.Meals.HallToday)
	meals.Get("/hall/:hallId/available", cfg.Meals.HallAvailable)
	meals.Post("/", foodManager, cfg.Meals.Create)
	meals.Get("/:id", cfg.Meals.Get)
	meals.Put("/:id", foodManager, cfg.Meals.Update)
	meals.Delete("/:id", foodManager, cfg.Meals.Delete)

	menu := api.Group("/menu-items", cfg.AuthMiddleware.Handle, authenticated)
	menu.Get("/", cfg.MenuItems.List)
	menu.Get("/today", cfg.MenuItems.Today)
	menu.Get("/hall/:hallName", cfg.MenuItems.ByHall)
	menu.Get("/hall/:hallName/today", cfg.MenuItems.HallToday)
	menu.Post("/", foodManager, cfg.MenuItems.Create)
	menu.Get("/:id", cfg.MenuItems.Get)
	menu.Put("/:id", foodManager, cfg.MenuItems.Update)
	menu.Delete("/:id", foodManager, cfg.MenuItems.Delete)
}
