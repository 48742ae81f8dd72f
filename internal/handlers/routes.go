// routes.go
//
// Inventory, supplier and product change-history service
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of inventario.
// inventario is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// inventario is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with inventario.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/localnerve/inventario/internal/config"
	"github.com/localnerve/inventario/internal/middleware"
	"github.com/localnerve/inventario/internal/models"
	"github.com/localnerve/inventario/internal/services"
	"github.com/localnerve/inventario/internal/types"
	"github.com/localnerve/inventario/internal/utils"
	"github.com/localnerve/inventario/internal/views"
	"gorm.io/gorm"
)

const (
	loginRateLimit  = 10
	loginRateWindow = time.Minute

	TypeRateLimited = "rate_limited"
	TypeCSRF        = "auth.csrf"
)

// Deps are the shared resources the routes are built from
type Deps struct {
	DB       *gorm.DB
	Config   *config.Config
	Sessions *session.Store
}

// AppConfig is the fiber configuration shared by the server and the tests
func AppConfig() fiber.Config {
	return fiber.Config{
		ErrorHandler: ErrorHandler,
		Views:        views.Engine(),
		AppName:      "inventario",
	}
}

// ErrorHandler renders errors that escape the handlers in the API envelope
func ErrorHandler(c *fiber.Ctx, err error) error {
	return utils.HandleError(c, err)
}

// Register mounts the common middleware, the JSON API, the HTML pages and the
// health check on app.
func Register(app *fiber.App, deps Deps) {
	auth := &middleware.Auth{DB: deps.DB, Store: deps.Sessions}

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.RequestContext())
	app.Use(middleware.RequestLogger())
	app.Use(helmet.New())

	health := &HealthHandler{DB: deps.DB, Config: deps.Config}
	app.Get("/healthz", health.Health)

	registerAPI(app, deps, auth)
	registerPages(app, deps, auth)
}

func loginLimiter() fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        loginRateLimit,
		Expiration: loginRateWindow,
		LimitReached: func(c *fiber.Ctx) error {
			return utils.ErrorResponse(c, "too many login attempts", fiber.StatusTooManyRequests, TypeRateLimited)
		},
	})
}

func registerAPI(app *fiber.App, deps Deps, auth *middleware.Auth) {
	api := app.Group("/api")

	authHandler := &AuthHandler{DB: deps.DB, Auth: auth}
	api.Post("/auth/login", loginLimiter(), authHandler.Login)
	api.Post("/auth/logout", authHandler.Logout)
	api.Get("/auth/me", auth.RequireUser(), authHandler.Me)
	api.Get("/users/search", auth.RequireUser(), authHandler.SearchUsers)
	api.Post("/users", auth.RequireAdmin(), authHandler.CreateUser)

	notifications := &NotificationHandler{DB: deps.DB}
	n := api.Group("/notifications", auth.RequireUser())
	n.Post("/process-mentions", notifications.ProcessMentions)
	n.Get("/", notifications.ListNotifications)
	n.Get("/unread-count", notifications.UnreadCount)
	n.Patch("/mark-all-read", notifications.MarkAllRead)
	n.Patch("/:id/read", notifications.MarkRead)
	n.Delete("/:id", notifications.DeleteNotification)

	products := &ProductHandler{DB: deps.DB}
	history := &HistoryHandler{DB: deps.DB}
	p := api.Group("/products", auth.RequireUser())
	// Static segments first so they are not taken for a product id
	p.Get("/history/recent", history.RecentHistory)
	p.Get("/history/bulk/:operationId", history.BulkOperation)
	p.Post("/history/:historyId/revert", auth.RequireAdmin(), history.Revert)
	p.Put("/bulk", auth.RequireAdmin(), products.BulkUpdateProducts)
	p.Get("/", products.ListProducts)
	p.Post("/", products.CreateProduct)
	p.Get("/:id", products.GetProduct)
	p.Put("/:id", products.UpdateProduct)
	p.Delete("/:id", auth.RequireAdmin(), products.DeleteProduct)
	p.Post("/:id/notes", products.AddNote)
	p.Get("/:id/history", history.ProductHistory)

	registerCatalog(api.Group("/suppliers"), auth, &CatalogHandler[models.Supplier, *models.Supplier]{
		DB: deps.DB, Service: services.Suppliers, Key: "suppliers",
	})
	registerCatalog(api.Group("/technicians"), auth, &CatalogHandler[models.OutsourceTechnician, *models.OutsourceTechnician]{
		DB: deps.DB, Service: services.Technicians, Key: "technicians",
	})
	registerCatalog(api.Group("/transports"), auth, &CatalogHandler[models.Transport, *models.Transport]{
		DB: deps.DB, Service: services.Transports, Key: "transports",
	})

	sheets := &SpreadsheetHandler{DB: deps.DB}
	s := api.Group("/spreadsheets", auth.RequireUser())
	s.Get("/", sheets.List)
	s.Post("/", sheets.Create)
	s.Get("/:id", sheets.Get)
	s.Put("/:id", sheets.Rename)
	s.Delete("/:id", sheets.Delete)
	s.Post("/:id/columns", sheets.AddColumn)
	s.Delete("/:id/columns/:columnId", sheets.DeleteColumn)
	s.Post("/:id/rows", sheets.AddRow)
	s.Delete("/:id/rows/:rowId", sheets.DeleteRow)
	s.Put("/:id/cells", sheets.SetCell)

	api.Use(func(c *fiber.Ctx) error {
		return utils.NotFoundResponse(c, "resource not found")
	})
}

// registerCatalog mounts list/get for users and create/update/delete for admins.
func registerCatalog[T any, PT interface {
	*T
	services.CatalogEntity
}](group fiber.Router, auth *middleware.Auth, h *CatalogHandler[T, PT]) {
	group.Get("/", auth.RequireUser(), h.List)
	group.Get("/:id", auth.RequireUser(), h.Get)
	group.Post("/", auth.RequireAdmin(), h.Create)
	group.Put("/:id", auth.RequireAdmin(), h.Update)
	group.Delete("/:id", auth.RequireAdmin(), h.Delete)
}

func csrfProtection(cfg *config.Config) fiber.Handler {
	return csrf.New(csrf.Config{
		KeyLookup:      "form:csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		CookieSecure:   cfg.CookieSecure,
		ContextKey:     CSRFContextKey,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return &types.CustomError{
				Code:    fiber.StatusForbidden,
				Message: "security check failed, reload the page and try again",
				Type:    TypeCSRF,
			}
		},
	})
}

// registerPages mounts the HTML pages; only these carry the csrf check.
func registerPages(app *fiber.App, deps Deps, auth *middleware.Auth) {
	pages := &PageHandler{DB: deps.DB, Auth: auth}
	protect := csrfProtection(deps.Config)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/products")
	})
	app.Get("/login", protect, pages.LoginForm)
	app.Post("/login", loginLimiter(), protect, pages.Login)
	app.Post("/logout", protect, pages.Logout)
	app.Get("/products", protect, auth.RequirePageUser(), pages.Products)
	app.Get("/products/:id", protect, auth.RequirePageUser(), pages.Product)
	app.Get("/notifications", protect, auth.RequirePageUser(), pages.Notifications)
}
