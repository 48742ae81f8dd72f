// catalog_test.go
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
	"testing"

	"github.com/localnerve/inventario/internal/models"
	"github.com/localnerve/inventario/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupplierCRUD(t *testing.T) {
	f := newFixture(t)

	created, err := Suppliers.Create(f.ctx, f.db, &models.Supplier{Name: "Ferretería Sur", Email: "ventas@sur.example"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	_, err = Suppliers.Create(f.ctx, f.db, &models.Supplier{Name: "Aceros Norte"})
	require.NoError(t, err)

	all, err := Suppliers.List(f.ctx, f.db, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Aceros Norte", all[0].Name)

	found, err := Suppliers.List(f.ctx, f.db, "SUR")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, created.ID, found[0].ID)

	updated, err := Suppliers.Update(f.ctx, f.db, created.ID, &models.Supplier{Name: "Ferretería Sur SA", Phone: "555-0101"})
	require.NoError(t, err)
	assert.Equal(t, "Ferretería Sur SA", updated.Name)
	assert.Equal(t, "555-0101", updated.Phone)
	// Update replaces every writable field
	assert.Empty(t, updated.Email)

	require.NoError(t, Suppliers.Delete(f.ctx, f.db, created.ID))
	_, err = Suppliers.Get(f.ctx, f.db, created.ID)
	assert.True(t, types.IsType(err, types.TypeNotFound))

	err = Suppliers.Delete(f.ctx, f.db, created.ID)
	assert.True(t, types.IsType(err, types.TypeNotFound))
}

func TestCatalogValidation(t *testing.T) {
	f := newFixture(t)

	_, err := Transports.Create(f.ctx, f.db, &models.Transport{Carrier: "no name"})
	ce, ok := types.AsCustomError(err)
	require.True(t, ok)
	assert.Contains(t, ce.Fields, "name")

	_, err = Suppliers.Create(f.ctx, f.db, &models.Supplier{Name: "x", Email: "not-an-email"})
	ce, ok = types.AsCustomError(err)
	require.True(t, ok)
	assert.Contains(t, ce.Fields, "email")

	_, err = Technicians.Update(f.ctx, f.db, "missing", &models.OutsourceTechnician{Name: "Ana"})
	assert.True(t, types.IsType(err, types.TypeNotFound))
}

func TestTechnicianRate(t *testing.T) {
	f := newFixture(t)
	rate := decimal.RequireFromString("45.50")

	created, err := Technicians.Create(f.ctx, f.db, &models.OutsourceTechnician{Name: "Ana", HourlyRate: rate})
	require.NoError(t, err)

	stored, err := Technicians.Get(f.ctx, f.db, created.ID)
	require.NoError(t, err)
	assert.True(t, rate.Equal(stored.HourlyRate), "got %s", stored.HourlyRate)
}
