// revert_test.go
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
	"errors"
	"strings"
	"testing"

	"github.com/localnerve/inventario/internal/models"
	"github.com/localnerve/inventario/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRevertRestoresPriorState(t *testing.T) {
	f := newFixture(t)
	product := f.createProduct(t, "R1", "Original")

	_, err := UpdateProduct(f.ctx, f.db, product.ID, ProductInput{
		Name:     strPtr("Renamed"),
		Quantity: flexPtr(7),
	}, f.userActor())
	require.NoError(t, err)

	rows := f.history(t, product.ID)
	require.Len(t, rows, 2)
	update := rows[0]

	result, err := RevertHistory(f.ctx, f.db, update.ID, f.adminActor())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Reverted)
	assert.Zero(t, result.Failed)
	require.Len(t, result.History, 1)

	stored, err := GetProduct(f.ctx, f.db, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Original", stored.Name)
	assert.Zero(t, stored.Quantity)

	rows = f.history(t, product.ID)
	require.Len(t, rows, 3)
	revert := rows[0]
	assert.Equal(t, models.ActionRevert, revert.Action)
	assert.Equal(t, f.admin.Label(), revert.UserName)
	assert.Equal(t, "Renamed", revert.OldData["name"])
	assert.Equal(t, "Original", revert.NewData["name"])
	assert.Contains(t, revert.ChangedFields, "name")
	assert.Contains(t, revert.ChangedFields, "quantity")
}

func TestRevertCreateHasNoPriorState(t *testing.T) {
	f := newFixture(t)
	product := f.createProduct(t, "R2", "Fresh")

	rows := f.history(t, product.ID)
	require.Len(t, rows, 1)

	_, err := RevertHistory(f.ctx, f.db, rows[0].ID, f.adminActor())
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrNoPriorState))
	assert.Len(t, f.history(t, product.ID), 1)
}

func TestRevertMissingEntry(t *testing.T) {
	f := newFixture(t)

	_, err := RevertHistory(f.ctx, f.db, 4242, f.adminActor())
	assert.True(t, types.IsType(err, types.TypeNotFound))
}

func TestRevertDeletedProduct(t *testing.T) {
	f := newFixture(t)
	product := f.createProduct(t, "R3", "Gone")
	_, err := UpdateProduct(f.ctx, f.db, product.ID, ProductInput{Name: strPtr("Going")}, f.userActor())
	require.NoError(t, err)
	update := f.history(t, product.ID)[0]

	require.NoError(t, DeleteProduct(f.ctx, f.db, product.ID, f.adminActor()))

	_, err = RevertHistory(f.ctx, f.db, update.ID, f.adminActor())
	ce, ok := types.AsCustomError(err)
	require.True(t, ok)
	assert.Equal(t, types.TypeNotFound, ce.Type)
	assert.Contains(t, ce.Message, "no longer exists")
}

func TestRevertBulkContinuesPastFailures(t *testing.T) {
	f := newFixture(t)
	a := f.createProduct(t, "B1", "Uno")
	b := f.createProduct(t, "B2", "Dos")
	c := f.createProduct(t, "B3", "Tres")

	bulk, err := BulkUpdateProducts(f.ctx, f.db, []BulkUpdateItem{
		{ID: a.ID, ProductInput: ProductInput{Quantity: flexPtr(5)}},
		{ID: b.ID, ProductInput: ProductInput{Quantity: flexPtr(6)}},
		{ID: c.ID, ProductInput: ProductInput{Quantity: flexPtr(7)}},
	}, f.adminActor())
	require.NoError(t, err)

	require.NoError(t, DeleteProduct(f.ctx, f.db, b.ID, f.adminActor()))

	members, err := ListBulkOperation(f.ctx, f.db, bulk.BulkOperationID)
	require.NoError(t, err)
	require.Len(t, members, 3)

	// Any member of the operation reverts the whole operation
	result, err := RevertHistory(f.ctx, f.db, members[2].ID, f.adminActor())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Reverted)
	assert.Equal(t, 1, result.Failed)
	assert.True(t, strings.HasPrefix(result.BulkOperationID, "revert-"))
	require.Len(t, result.Failures, 1)
	assert.Equal(t, b.ID, result.Failures[0].ProductID)

	for _, id := range []string{a.ID, c.ID} {
		stored, err := GetProduct(f.ctx, f.db, id)
		require.NoError(t, err)
		assert.Zero(t, stored.Quantity)
	}

	reverts, err := ListBulkOperation(f.ctx, f.db, result.BulkOperationID)
	require.NoError(t, err)
	require.Len(t, reverts, 2)
	for _, row := range reverts {
		assert.Equal(t, models.ActionRevert, row.Action)
	}
}

func TestRevertKeepsReadyRule(t *testing.T) {
	f := newFixture(t)
	product := f.createProduct(t, "R4", "Ready rule")

	// Faltantes -> Realizado (ready) -> Faltantes (not ready)
	_, err := UpdateProduct(f.ctx, f.db, product.ID, ProductInput{Category: strPtr(models.CategoryDone)}, f.adminActor())
	require.NoError(t, err)
	_, err = UpdateProduct(f.ctx, f.db, product.ID, ProductInput{Category: strPtr(models.CategoryMissing)}, f.adminActor())
	require.NoError(t, err)

	stored, err := GetProduct(f.ctx, f.db, product.ID)
	require.NoError(t, err)
	assert.False(t, stored.Ready)

	// Reverting the last change brings back Realizado together with ready
	last := f.history(t, product.ID)[0]
	_, err = RevertHistory(f.ctx, f.db, last.ID, f.adminActor())
	require.NoError(t, err)

	stored, err = GetProduct(f.ctx, f.db, product.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CategoryDone, stored.Category)
	assert.True(t, stored.Ready)
}

func TestRevertRejectsReadyInFaltantes(t *testing.T) {
	f := newFixture(t)
	product := f.createProduct(t, "R5", "Bad snapshot")

	entry := models.ProductHistory{
		ProductID:     product.ID,
		Action:        models.ActionUpdate,
		OldData:       models.Snapshot{"category": models.CategoryMissing, "ready": true},
		NewData:       models.Snapshot{"category": models.CategoryMissing, "ready": false},
		ChangedFields: models.ChangeSet{},
		UserName:      "import",
	}
	require.NoError(t, f.db.Create(&entry).Error)

	_, err := RevertHistory(f.ctx, f.db, entry.ID, f.adminActor())
	require.Error(t, err)
	assert.True(t, types.IsType(err, types.TypeValidation))

	stored, err := GetProduct(f.ctx, f.db, product.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CategoryMissing, stored.Category)
	assert.False(t, stored.Ready)
	assert.Len(t, f.history(t, product.ID), 2)
}
