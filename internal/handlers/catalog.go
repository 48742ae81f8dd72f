// catalog.go
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
	"github.com/localnerve/inventario/internal/services"
	"github.com/localnerve/inventario/internal/utils"
	"gorm.io/gorm"
)

// CatalogHandler serves the CRUD routes of one catalog entity: suppliers,
// technicians or transports.
type CatalogHandler[T any, PT interface {
	*T
	services.CatalogEntity
}] struct {
	DB      *gorm.DB
	Service services.CatalogService[T, PT]
	// Key names the collection in list responses, e.g. "suppliers"
	Key string
}

func (h *CatalogHandler[T, PT]) List(c *fiber.Ctx) error {
	items, err := h.Service.List(c.UserContext(), h.DB, c.Query("q"))
	if err != nil {
		return utils.HandleError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, h.Key: items})
}

func (h *CatalogHandler[T, PT]) Get(c *fiber.Ctx) error {
	item, err := h.Service.Get(c.UserContext(), h.DB, c.Params("id"))
	if err != nil {
		return utils.HandleError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "item": item})
}

func (h *CatalogHandler[T, PT]) Create(c *fiber.Ctx) error {
	item := new(T)
	if err := parseBody(c, item); err != nil {
		return utils.HandleError(c, err)
	}
	created, err := h.Service.Create(c.UserContext(), h.DB, item)
	if err != nil {
		return utils.HandleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "item": created})
}

func (h *CatalogHandler[T, PT]) Update(c *fiber.Ctx) error {
	item := new(T)
	if err := parseBody(c, item); err != nil {
		return utils.HandleError(c, err)
	}
	updated, err := h.Service.Update(c.UserContext(), h.DB, c.Params("id"), item)
	if err != nil {
		return utils.HandleError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "item": updated})
}

func (h *CatalogHandler[T, PT]) Delete(c *fiber.Ctx) error {
	if err := h.Service.Delete(c.UserContext(), h.DB, c.Params("id")); err != nil {
		return utils.HandleError(c, err)
	}
	return c.JSON(utils.MessageResponseStruct{Success: true, Message: "Deleted"})
}
