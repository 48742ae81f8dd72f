// pages.go
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
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/inventario/internal/logging"
	"github.com/localnerve/inventario/internal/middleware"
	"github.com/localnerve/inventario/internal/models"
	"github.com/localnerve/inventario/internal/services"
	"github.com/localnerve/inventario/internal/types"
	"gorm.io/gorm"
)

const (
	// CSRFContextKey is the locals key the csrf middleware stores its token under
	CSRFContextKey = "csrf"

	pageLayout       = "layout"
	pageHistoryLimit = 20
)

// PageHandler renders the server side HTML pages
type PageHandler struct {
	DB   *gorm.DB
	Auth *middleware.Auth
}

func (h *PageHandler) render(c *fiber.Ctx, name string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	if token, ok := c.Locals(CSRFContextKey).(string); ok {
		data["CSRFToken"] = token
	}
	if user := middleware.CurrentUser(c); user != nil {
		data["User"] = user
		count, err := services.UnreadCount(c.UserContext(), h.DB, user.ID)
		if err != nil {
			logging.Warn(c.UserContext()).Err(err).Msg("unread count for page header")
		}
		data["UnreadCount"] = count
	}
	return c.Render(name, data, pageLayout)
}

// LoginForm handles GET /login
func (h *PageHandler) LoginForm(c *fiber.Ctx) error {
	return h.render(c, "login", fiber.Map{"Title": "Iniciar sesión"})
}

// Login handles POST /login
func (h *PageHandler) Login(c *fiber.Ctx) error {
	var form LoginRequest
	if err := c.BodyParser(&form); err != nil {
		return types.NewValidationError("invalid form", nil)
	}

	user, err := services.Authenticate(c.UserContext(), h.DB, form.Username, form.Password)
	if err != nil {
		if types.IsType(err, services.ErrInvalidCredentials.Type) {
			c.Status(fiber.StatusUnauthorized)
			return h.render(c, "login", fiber.Map{
				"Title":    "Iniciar sesión",
				"Error":    "Usuario o contraseña incorrectos",
				"Username": form.Username,
			})
		}
		return err
	}
	if err := h.Auth.Login(c, user); err != nil {
		return err
	}
	return c.Redirect("/products", fiber.StatusSeeOther)
}

// Logout handles POST /logout
func (h *PageHandler) Logout(c *fiber.Ctx) error {
	if err := h.Auth.Logout(c); err != nil {
		return err
	}
	return c.Redirect("/login", fiber.StatusSeeOther)
}

// Products handles GET /products
func (h *PageHandler) Products(c *fiber.Ctx) error {
	filter := services.ProductFilter{
		Category: c.Query("category"),
		Search:   c.Query("q"),
		Page:     queryInt(c, "page"),
		Limit:    queryInt(c, "limit"),
	}
	page, err := services.ListProducts(c.UserContext(), h.DB, filter)
	if err != nil {
		return err
	}

	data := fiber.Map{
		"Title":      "Productos",
		"Products":   page.Products,
		"Pagination": page.Pagination,
		"Categories": append(append([]string{}, models.UserCategories...), models.AdminCategories...),
		"Category":   filter.Category,
		"Search":     filter.Search,
	}
	if page.Pagination.CurrentPage > 1 {
		data["PrevPage"] = page.Pagination.CurrentPage - 1
	}
	if page.Pagination.CurrentPage < page.Pagination.TotalPages {
		data["NextPage"] = page.Pagination.CurrentPage + 1
	}
	return h.render(c, "products", data)
}

// Product handles GET /products/:id
func (h *PageHandler) Product(c *fiber.Ctx) error {
	product, err := services.GetProduct(c.UserContext(), h.DB, c.Params("id"))
	if err != nil {
		return err
	}
	history, err := services.ListProductHistory(c.UserContext(), h.DB, product.ID, pageHistoryLimit)
	if err != nil {
		return err
	}
	return h.render(c, "product", fiber.Map{
		"Title":   product.Name,
		"Product": product,
		"Notes":   product.NoteList(),
		"History": history,
	})
}

// Notifications handles GET /notifications
func (h *PageHandler) Notifications(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	page, err := services.ListNotifications(c.UserContext(), h.DB, user.ID, queryInt(c, "page"), queryInt(c, "limit"))
	if err != nil {
		return err
	}
	return h.render(c, "notifications", fiber.Map{
		"Title":         "Notificaciones",
		"Notifications": page.Notifications,
		"Pagination":    page.Pagination,
	})
}
