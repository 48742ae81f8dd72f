// spreadsheets.go
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

// SpreadsheetHandler handles spreadsheet routes
type SpreadsheetHandler struct {
	DB *gorm.DB
}

// List handles GET /api/spreadsheets
// @Summary List spreadsheets
// @Tags Spreadsheets
// @Produce json
// @Success 200 {array} models.Spreadsheet
// @Security CookieAuth
// @Router /spreadsheets [get]
func (h *SpreadsheetHandler) List(c *fiber.Ctx) error {
	sheets, err := services.ListSpreadsheets(c.UserContext(), h.DB)
	if err != nil {
		return utils.HandleError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "spreadsheets": sheets})
}

// Create handles POST /api/spreadsheets
// @Summary Create a spreadsheet
// @Tags Spreadsheets
// @Accept json
// @Produce json
// @Param body body services.SpreadsheetInput true "Spreadsheet"
// @Success 201 {object} models.Spreadsheet
// @Failure 400 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /spreadsheets [post]
func (h *SpreadsheetHandler) Create(c *fiber.Ctx) error {
	var input services.SpreadsheetInput
	if err := parseBody(c, &input); err != nil {
		return utils.HandleError(c, err)
	}
	sheet, err := services.CreateSpreadsheet(c.UserContext(), h.DB, input, middleware.CurrentActor(c))
	if err != nil {
		return utils.HandleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "spreadsheet": sheet})
}

// Get handles GET /api/spreadsheets/:id
// @Summary Get a spreadsheet with its columns, rows and cells
// @Tags Spreadsheets
// @Produce json
// @Param id path string true "Spreadsheet ID"
// @Success 200 {object} models.Spreadsheet
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /spreadsheets/{id} [get]
func (h *SpreadsheetHandler) Get(c *fiber.Ctx) error {
	sheet, err := services.GetSpreadsheet(c.UserContext(), h.DB, c.Params("id"))
	if err != nil {
		return utils.HandleError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "spreadsheet": sheet})
}

// Rename handles PUT /api/spreadsheets/:id
// @Summary Rename a spreadsheet
// @Tags Spreadsheets
// @Accept json
// @Produce json
// @Param id path string true "Spreadsheet ID"
// @Param body body services.SpreadsheetInput true "New name"
// @Success 200 {object} models.Spreadsheet
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /spreadsheets/{id} [put]
func (h *SpreadsheetHandler) Rename(c *fiber.Ctx) error {
	var input services.SpreadsheetInput
	if err := parseBody(c, &input); err != nil {
		return utils.HandleError(c, err)
	}
	sheet, err := services.RenameSpreadsheet(c.UserContext(), h.DB, c.Params("id"), input, middleware.CurrentActor(c))
	if err != nil {
		return utils.HandleError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "spreadsheet": sheet})
}

// Delete handles DELETE /api/spreadsheets/:id
// @Summary Delete a spreadsheet
// @Tags Spreadsheets
// @Produce json
// @Param id path string true "Spreadsheet ID"
// @Success 200 {object} utils.MessageResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /spreadsheets/{id} [delete]
func (h *SpreadsheetHandler) Delete(c *fiber.Ctx) error {
	if err := services.DeleteSpreadsheet(c.UserContext(), h.DB, c.Params("id"), middleware.CurrentActor(c)); err != nil {
		return utils.HandleError(c, err)
	}
	return c.JSON(utils.MessageResponseStruct{Success: true, Message: "Spreadsheet deleted"})
}

// AddColumn handles POST /api/spreadsheets/:id/columns
// @Summary Append a column
// @Tags Spreadsheets
// @Accept json
// @Produce json
// @Param id path string true "Spreadsheet ID"
// @Param body body services.SpreadsheetInput true "Column name"
// @Success 201 {object} models.SpreadsheetColumn
// @Security CookieAuth
// @Router /spreadsheets/{id}/columns [post]
func (h *SpreadsheetHandler) AddColumn(c *fiber.Ctx) error {
	var input services.SpreadsheetInput
	if err := parseBody(c, &input); err != nil {
		return utils.HandleError(c, err)
	}
	column, err := services.AddColumn(c.UserContext(), h.DB, c.Params("id"), input)
	if err != nil {
		return utils.HandleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "column": column})
}

// DeleteColumn handles DELETE /api/spreadsheets/:id/columns/:columnId
// @Summary Delete a column and its cells
// @Tags Spreadsheets
// @Produce json
// @Param id path string true "Spreadsheet ID"
// @Param columnId path int true "Column ID"
// @Success 200 {object} utils.MessageResponseStruct
// @Security CookieAuth
// @Router /spreadsheets/{id}/columns/{columnId} [delete]
func (h *SpreadsheetHandler) DeleteColumn(c *fiber.Ctx) error {
	columnID, err := paramID(c, "columnId")
	if err != nil {
		return utils.HandleError(c, err)
	}
	if err := services.DeleteColumn(c.UserContext(), h.DB, c.Params("id"), columnID); err != nil {
		return utils.HandleError(c, err)
	}
	return c.JSON(utils.MessageResponseStruct{Success: true, Message: "Column deleted"})
}

// AddRow handles POST /api/spreadsheets/:id/rows
// @Summary Append a row
// @Tags Spreadsheets
// @Produce json
// @Param id path string true "Spreadsheet ID"
// @Success 201 {object} models.SpreadsheetRow
// @Security CookieAuth
// @Router /spreadsheets/{id}/rows [post]
func (h *SpreadsheetHandler) AddRow(c *fiber.Ctx) error {
	row, err := services.AddRow(c.UserContext(), h.DB, c.Params("id"))
	if err != nil {
		return utils.HandleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "row": row})
}

// DeleteRow handles DELETE /api/spreadsheets/:id/rows/:rowId
// @Summary Delete a row and its cells
// @Tags Spreadsheets
// @Produce json
// @Param id path string true "Spreadsheet ID"
// @Param rowId path int true "Row ID"
// @Success 200 {object} utils.MessageResponseStruct
// @Security CookieAuth
// @Router /spreadsheets/{id}/rows/{rowId} [delete]
func (h *SpreadsheetHandler) DeleteRow(c *fiber.Ctx) error {
	rowID, err := paramID(c, "rowId")
	if err != nil {
		return utils.HandleError(c, err)
	}
	if err := services.DeleteRow(c.UserContext(), h.DB, c.Params("id"), rowID); err != nil {
		return utils.HandleError(c, err)
	}
	return c.JSON(utils.MessageResponseStruct{Success: true, Message: "Row deleted"})
}

// SetCell handles PUT /api/spreadsheets/:id/cells
// @Summary Set a cell value
// @Description Users mentioned in the value are notified with a link to the cell.
// @Tags Spreadsheets
// @Accept json
// @Produce json
// @Param id path string true "Spreadsheet ID"
// @Param body body services.CellInput true "Cell"
// @Success 200 {object} services.CellResult
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /spreadsheets/{id}/cells [put]
func (h *SpreadsheetHandler) SetCell(c *fiber.Ctx) error {
	var input services.CellInput
	if err := parseBody(c, &input); err != nil {
		return utils.HandleError(c, err)
	}
	result, err := services.SetCell(c.UserContext(), h.DB, c.Params("id"), input, middleware.CurrentActor(c))
	if err != nil {
		return utils.HandleError(c, err)
	}
	return c.JSON(fiber.Map{
		"success":              true,
		"cell":                 result.Cell,
		"notificationsCreated": len(result.Notifications),
	})
}
