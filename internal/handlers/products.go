// products.go
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
	"github.com/localnerve/inventario/internal/middleware"
	"github.com/localnerve/inventario/internal/services"
	"github.com/localnerve/inventario/internal/types"
	"github.com/localnerve/inventario/internal/utils"
	"gorm.io/gorm"
)

// ProductHandler handles product routes
type ProductHandler struct {
	DB *gorm.DB
}

// ListProducts handles GET /api/products
// @Summary List products
// @Description Page through products, optionally filtered by category and a sku/name search
// @Tags Products
// @Produce json
// @Param category query string false "Category"
// @Param q query string false "Search text matched against sku and name"
// @Param page query int false "Page, from 1"
// @Param limit query int false "Page size, max 100"
// @Success 200 {object} services.ProductPage
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /products [get]
func (h *ProductHandler) ListProducts(c *fiber.Ctx) error {
	page, err := services.ListProducts(c.UserContext(), h.DB, services.ProductFilter{
		Category: c.Query("category"),
		Search:   c.Query("q"),
		Page:     queryInt(c, "page"),
		Limit:    queryInt(c, "limit"),
	})
	if err != nil {
		return utils.HandleError(c, err)
	}
	return c.JSON(fiber.Map{
		"success":    true,
		"products":   page.Products,
		"pagination": page.Pagination,
	})
}

// GetProduct handles GET /api/products/:id
// @Summary Get product
// @Tags Products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} models.Product
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /products/{id} [get]
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	product, err := services.GetProduct(c.UserContext(), h.DB, c.Params("id"))
	if err != nil {
		return utils.HandleError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "product": product})
}

// CreateProduct handles POST /api/products
// @Summary Create product
// @Description Category defaults to Faltantes and importance to 3. Only admins may set purchasePrice, supplier or ready.
// @Tags Products
// @Accept json
// @Produce json
// @Param body body services.ProductInput true "Product"
// @Success 201 {object} models.Product
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /products [post]
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var input services.ProductInput
	if err := parseBody(c, &input); err != nil {
		return utils.HandleError(c, err)
	}

	product, err := services.CreateProduct(c.UserContext(), h.DB, input, middleware.CurrentActor(c))
	if err != nil {
		return utils.HandleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "product": product})
}

// UpdateProduct handles PUT /api/products/:id
// @Summary Update product
// @Description Only the fields present in the body change.
// @Tags Products
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param body body services.ProductInput true "Fields to change"
// @Success 200 {object} models.Product
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /products/{id} [put]
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	var input services.ProductInput
	if err := parseBody(c, &input); err != nil {
		return utils.HandleError(c, err)
	}

	product, err := services.UpdateProduct(c.UserContext(), h.DB, c.Params("id"), input, middleware.CurrentActor(c))
	if err != nil {
		return utils.HandleError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "product": product})
}

// DeleteProduct handles DELETE /api/products/:id
// @Summary Delete product
// @Description Hard delete, admin only. History rows are kept.
// @Tags Products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} utils.MessageResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /products/{id} [delete]
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	if err := services.DeleteProduct(c.UserContext(), h.DB, c.Params("id"), middleware.CurrentActor(c)); err != nil {
		return utils.HandleError(c, err)
	}
	return c.JSON(utils.MessageResponseStruct{Success: true, Message: "Product deleted"})
}

// BulkUpdateProducts handles PUT /api/products/bulk
// @Summary Bulk update products
// @Description Applies every item in one transaction; the history rows share one bulk operation id.
// @Tags Products
// @Accept json
// @Produce json
// @Param body body object true "{items: [{id, ...fields}]}"
// @Success 200 {object} services.BulkUpdateResult
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /products/bulk [put]
func (h *ProductHandler) BulkUpdateProducts(c *fiber.Ctx) error {
	var body struct {
		Items types.FlexList[services.BulkUpdateItem] `json:"items"`
	}
	if err := parseBody(c, &body); err != nil {
		return utils.HandleError(c, err)
	}

	result, err := services.BulkUpdateProducts(c.UserContext(), h.DB, body.Items.Slice(), middleware.CurrentActor(c))
	if err != nil {
		return utils.HandleError(c, err)
	}
	return c.JSON(fiber.Map{
		"success":         true,
		"bulkOperationId": result.BulkOperationID,
		"updated":         result.Updated,
		"products":        result.Products,
	})
}

// AddNote handles POST /api/products/:id/notes
// @Summary Add a note
// @Description Appends a note to the product thread and notifies mentioned users.
// @Tags Products
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param body body services.NoteInput true "Note"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /products/{id}/notes [post]
func (h *ProductHandler) AddNote(c *fiber.Ctx) error {
	var input services.NoteInput
	if err := parseBody(c, &input); err != nil {
		return utils.HandleError(c, err)
	}

	product, notifications, err := services.AddProductNote(c.UserContext(), h.DB, c.Params("id"), input, middleware.CurrentActor(c))
	if err != nil {
		return utils.HandleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":              true,
		"product":              product,
		"notes":                product.NoteList(),
		"notificationsCreated": len(notifications),
	})
}
