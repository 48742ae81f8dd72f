// history.go
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
	"github.com/localnerve/inventario/internal/utils"
	"gorm.io/gorm"
)

// HistoryHandler handles product history routes
type HistoryHandler struct {
	DB *gorm.DB
}

// ProductHistory handles GET /api/products/:id/history
// @Summary Product history
// @Description Newest first. Rows of deleted products are still listed.
// @Tags History
// @Produce json
// @Param id path string true "Product ID"
// @Param limit query int false "Max rows, default 50, max 200"
// @Success 200 {array} models.ProductHistory
// @Security CookieAuth
// @Router /products/{id}/history [get]
func (h *HistoryHandler) ProductHistory(c *fiber.Ctx) error {
	rows, err := services.ListProductHistory(c.UserContext(), h.DB, c.Params("id"), queryInt(c, "limit"))
	if err != nil {
		return utils.HandleError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "history": rows})
}

// RecentHistory handles GET /api/products/history/recent
// @Summary Recent history
// @Tags History
// @Produce json
// @Param limit query int false "Max rows, default 50, max 200"
// @Success 200 {array} models.ProductHistory
// @Security CookieAuth
// @Router /products/history/recent [get]
func (h *HistoryHandler) RecentHistory(c *fiber.Ctx) error {
	rows, err := services.ListRecentHistory(c.UserContext(), h.DB, queryInt(c, "limit"))
	if err != nil {
		return utils.HandleError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "history": rows})
}

// BulkOperation handles GET /api/products/history/bulk/:operationId
// @Summary Bulk operation history
// @Tags History
// @Produce json
// @Param operationId path string true "Bulk operation ID"
// @Success 200 {array} models.ProductHistory
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /products/history/bulk/{operationId} [get]
func (h *HistoryHandler) BulkOperation(c *fiber.Ctx) error {
	operationID := c.Params("operationId")
	rows, err := services.ListBulkOperation(c.UserContext(), h.DB, operationID)
	if err != nil {
		return utils.HandleError(c, err)
	}
	return c.JSON(fiber.Map{
		"success":         true,
		"bulkOperationId": operationID,
		"history":         rows,
	})
}

// Revert handles POST /api/products/history/:historyId/revert
// @Summary Revert a history entry
// @Description Restores the entry's prior state. Entries of a bulk operation revert the whole operation; members that fail are listed and the rest are restored.
// @Tags History
// @Produce json
// @Param historyId path int true "History entry ID"
// @Success 200 {object} services.RevertResult
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /products/history/{historyId}/revert [post]
func (h *HistoryHandler) Revert(c *fiber.Ctx) error {
	historyID, err := paramID(c, "historyId")
	if err != nil {
		return utils.HandleError(c, err)
	}

	result, err := services.RevertHistory(c.UserContext(), h.DB, historyID, middleware.CurrentActor(c))
	if err != nil {
		return utils.HandleError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":         result.Reverted > 0,
		"reverted":        result.Reverted,
		"failed":          result.Failed,
		"failures":        result.Failures,
		"bulkOperationId": result.BulkOperationID,
		"history":         result.History,
	})
}
