// history_test.go
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
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeChangedFields(t *testing.T) {
	before := models.Snapshot{"name": "Widget", "quantity": float64(1), "ready": false, "brand": "Acme"}
	after := models.Snapshot{"name": "Widget", "quantity": float64(4), "ready": true, "sku": "X1"}

	changes := ComputeChangedFields(before, after)

	assert.Len(t, changes, 3)
	assert.Equal(t, models.FieldChange{Old: float64(1), New: float64(4)}, changes["quantity"])
	assert.Equal(t, models.FieldChange{Old: false, New: true}, changes["ready"])
	// Keys new in after count as changed, keys dropped from after never do
	assert.Equal(t, models.FieldChange{Old: nil, New: "X1"}, changes["sku"])
	assert.NotContains(t, changes, "name")
	assert.NotContains(t, changes, "brand")
}

func TestComputeChangedFieldsNilSides(t *testing.T) {
	after := models.Snapshot{"name": "Widget"}

	assert.Equal(t, models.ChangeSet{"name": {Old: nil, New: "Widget"}}, ComputeChangedFields(nil, after))
	assert.Empty(t, ComputeChangedFields(after, nil))
	assert.Empty(t, ComputeChangedFields(after, models.Snapshot{"name": "Widget"}))
}

func TestRecordChangeSwallowsWriteFailure(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.db.Migrator().DropTable(&models.ProductHistory{}))

	var row *models.ProductHistory
	assert.NotPanics(t, func() {
		row = RecordChange(f.ctx, f.db, HistoryEntry{
			ProductID: "missing",
			Action:    models.ActionUpdate,
			New:       models.Snapshot{"name": "x"},
			Actor:     f.userActor(),
		})
	})
	assert.Nil(t, row)
}

func TestRecordChangeWithoutActorName(t *testing.T) {
	f := newFixture(t)

	row := RecordChange(f.ctx, f.db, HistoryEntry{
		ProductID: "p1",
		Action:    models.ActionCreate,
		New:       models.Snapshot{"name": "x"},
	})
	require.NotNil(t, row)
	assert.Equal(t, systemActorName, row.UserName)
	assert.Nil(t, row.UserID)
	assert.Nil(t, row.BulkOperationID)
}

func TestHistoryIsAppendOnly(t *testing.T) {
	f := newFixture(t)
	product := f.createProduct(t, "P2", "Bolt")

	for i := 1; i <= 4; i++ {
		_, err := UpdateProduct(f.ctx, f.db, product.ID, ProductInput{Quantity: flexPtr(i)}, f.userActor())
		require.NoError(t, err)
	}

	rows := f.history(t, product.ID)
	require.Len(t, rows, 5)

	// Newest first
	for i := 1; i < len(rows); i++ {
		assert.False(t, rows[i].CreatedAt.After(rows[i-1].CreatedAt))
		assert.Less(t, rows[i].ID, rows[i-1].ID)
	}
	assert.Equal(t, models.ActionCreate, rows[len(rows)-1].Action)
	for _, row := range rows[:4] {
		assert.Equal(t, models.ActionUpdate, row.Action)
		assert.Equal(t, f.user.Label(), row.UserName)
	}
}

func TestListHistoryLimits(t *testing.T) {
	f := newFixture(t)
	product := f.createProduct(t, "L1", "Nut")
	for i := 1; i <= 3; i++ {
		_, err := UpdateProduct(f.ctx, f.db, product.ID, ProductInput{Quantity: flexPtr(i)}, f.userActor())
		require.NoError(t, err)
	}

	rows, err := ListProductHistory(f.ctx, f.db, product.ID, 2)
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	recent, err := ListRecentHistory(f.ctx, f.db, 0)
	require.NoError(t, err)
	assert.Len(t, recent, 4)

	assert.Equal(t, defaultHistoryLimit, clampHistoryLimit(-1))
	assert.Equal(t, maxHistoryLimit, clampHistoryLimit(5000))
	assert.Equal(t, 7, clampHistoryLimit(7))
}

func TestListBulkOperationNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := ListBulkOperation(f.ctx, f.db, "nope")
	assert.True(t, types.IsType(err, types.TypeNotFound))
}
