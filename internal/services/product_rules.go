// product_rules.go
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

package services

import (
	"fmt"

	"github.com/localnerve/inventario/internal/models"
	"github.com/localnerve/inventario/internal/types"
)

// ProductState is the pair of fields coupled by the ready rule.
type ProductState struct {
	Category string
	Ready    bool
}

// ApplyCategoryReadyRule computes the category and ready flag a write would
// leave behind. A nil request pointer means the field was not sent. It is the
// only place allowed to decide these two fields; create, update, bulk update
// and revert all go through it.
//
// A product in Faltantes is never ready.
func ApplyCategoryReadyRule(current ProductState, requestedCategory *string, requestedReady *bool, isAdmin bool) (ProductState, error) {
	next := current

	if requestedCategory != nil {
		category := *requestedCategory
		if !models.IsValidCategory(category) {
			return current, types.NewFieldError("category", fmt.Sprintf("unknown category %q", category))
		}
		if !isAdmin && models.IsAdminCategory(category) && category != current.Category {
			return current, types.NewAuthorizationError(fmt.Sprintf("only admins can set category %q", category))
		}
		next.Category = category
	}

	if requestedReady != nil {
		if !isAdmin && *requestedReady != current.Ready {
			return current, types.NewAuthorizationError("only admins can change the ready flag")
		}
		next.Ready = *requestedReady
	}

	switch {
	case requestedCategory != nil && requestedReady == nil && next.Category == models.CategoryMissing:
		next.Ready = false
	case requestedCategory != nil && requestedReady == nil && isAdmin && next.Category == models.CategoryDone:
		next.Ready = true
	case requestedCategory == nil && requestedReady != nil && isAdmin && next.Ready && next.Category != models.CategoryDone:
		next.Category = models.CategoryDone
	}

	if next.Category == models.CategoryMissing && next.Ready {
		return current, types.NewFieldError("ready", fmt.Sprintf("a product in %s cannot be ready", models.CategoryMissing))
	}

	return next, nil
}
