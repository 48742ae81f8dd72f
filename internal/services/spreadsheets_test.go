// spreadsheets_test.go
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
	"strings"
	"testing"

	"github.com/localnerve/inventario/internal/models"
	"github.com/localnerve/inventario/internal/testsupport"
	"github.com/localnerve/inventario/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpreadsheetGrid(t *testing.T) {
	f := newFixture(t)

	sheet, err := CreateSpreadsheet(f.ctx, f.db, SpreadsheetInput{Name: " Pedidos "}, f.userActor())
	require.NoError(t, err)
	assert.Equal(t, "Pedidos", sheet.Name)
	assert.Equal(t, f.user.ID, sheet.OwnerID)

	colA, err := AddColumn(f.ctx, f.db, sheet.ID, SpreadsheetInput{Name: "Producto"})
	require.NoError(t, err)
	colB, err := AddColumn(f.ctx, f.db, sheet.ID, SpreadsheetInput{Name: "Cantidad"})
	require.NoError(t, err)
	assert.Equal(t, 0, colA.Position)
	assert.Equal(t, 1, colB.Position)

	row, err := AddRow(f.ctx, f.db, sheet.ID)
	require.NoError(t, err)

	_, err = SetCell(f.ctx, f.db, sheet.ID, CellInput{RowID: row.ID, ColumnID: colA.ID, Value: "Tornillos"}, f.userActor())
	require.NoError(t, err)
	result, err := SetCell(f.ctx, f.db, sheet.ID, CellInput{RowID: row.ID, ColumnID: colA.ID, Value: "Tuercas"}, f.userActor())
	require.NoError(t, err)
	assert.Equal(t, "Tuercas", result.Cell.Value)
	assert.Empty(t, result.Notifications)

	loaded, err := GetSpreadsheet(f.ctx, f.db, sheet.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Columns, 2)
	assert.Equal(t, "Producto", loaded.Columns[0].Name)
	require.Len(t, loaded.Rows, 1)
	require.Len(t, loaded.Rows[0].Cells, 1)
	assert.Equal(t, "Tuercas", loaded.Rows[0].Cells[0].Value)

	require.NoError(t, DeleteColumn(f.ctx, f.db, sheet.ID, colA.ID))
	loaded, err = GetSpreadsheet(f.ctx, f.db, sheet.ID)
	require.NoError(t, err)
	assert.Len(t, loaded.Columns, 1)
	assert.Empty(t, loaded.Rows[0].Cells)

	require.NoError(t, DeleteRow(f.ctx, f.db, sheet.ID, row.ID))
	err = DeleteRow(f.ctx, f.db, sheet.ID, row.ID)
	assert.True(t, types.IsType(err, types.TypeNotFound))
}

func TestSetCellOutsideSpreadsheet(t *testing.T) {
	f := newFixture(t)
	first, err := CreateSpreadsheet(f.ctx, f.db, SpreadsheetInput{Name: "Uno"}, f.userActor())
	require.NoError(t, err)
	second, err := CreateSpreadsheet(f.ctx, f.db, SpreadsheetInput{Name: "Dos"}, f.userActor())
	require.NoError(t, err)

	col, err := AddColumn(f.ctx, f.db, first.ID, SpreadsheetInput{Name: "A"})
	require.NoError(t, err)
	row, err := AddRow(f.ctx, f.db, first.ID)
	require.NoError(t, err)

	_, err = SetCell(f.ctx, f.db, second.ID, CellInput{RowID: row.ID, ColumnID: col.ID, Value: "x"}, f.userActor())
	assert.True(t, types.IsType(err, types.TypeNotFound))

	_, err = SetCell(f.ctx, f.db, first.ID, CellInput{ColumnID: col.ID, Value: "x"}, f.userActor())
	assert.True(t, types.IsType(err, types.TypeValidation))
}

func TestSetCellNotifiesMentions(t *testing.T) {
	f := newFixture(t)
	carol := testsupport.CreateUser(t, f.db, "carol", models.RoleUser)

	sheet, err := CreateSpreadsheet(f.ctx, f.db, SpreadsheetInput{Name: "Turnos"}, f.userActor())
	require.NoError(t, err)
	col, err := AddColumn(f.ctx, f.db, sheet.ID, SpreadsheetInput{Name: "Responsable"})
	require.NoError(t, err)
	row, err := AddRow(f.ctx, f.db, sheet.ID)
	require.NoError(t, err)

	result, err := SetCell(f.ctx, f.db, sheet.ID, CellInput{RowID: row.ID, ColumnID: col.ID, Value: "@carol cubre el lunes"}, f.userActor())
	require.NoError(t, err)
	require.Len(t, result.Notifications, 1)

	n := result.Notifications[0]
	assert.Equal(t, carol.ID, n.UserID)
	assert.True(t, strings.HasPrefix(n.RedirectURL, "/spreadsheets/"+sheet.ID+"?"))
	assert.Contains(t, n.RedirectURL, "mt=spreadsheet_cell")
	assert.True(t, strings.HasSuffix(n.RedirectURL, fmt.Sprintf("#cell-%d-%d", row.ID, col.ID)))
}

func TestSpreadsheetOwnership(t *testing.T) {
	f := newFixture(t)
	carol := testsupport.CreateUser(t, f.db, "carol", models.RoleUser)

	sheet, err := CreateSpreadsheet(f.ctx, f.db, SpreadsheetInput{Name: "Privada"}, f.userActor())
	require.NoError(t, err)

	_, err = RenameSpreadsheet(f.ctx, f.db, sheet.ID, SpreadsheetInput{Name: "Mía"}, ActorFromUser(carol))
	assert.True(t, types.IsType(err, types.TypeAuthorization))

	err = DeleteSpreadsheet(f.ctx, f.db, sheet.ID, ActorFromUser(carol))
	assert.True(t, types.IsType(err, types.TypeAuthorization))

	renamed, err := RenameSpreadsheet(f.ctx, f.db, sheet.ID, SpreadsheetInput{Name: "Compartida"}, f.adminActor())
	require.NoError(t, err)
	assert.Equal(t, "Compartida", renamed.Name)

	_, err = AddRow(f.ctx, f.db, sheet.ID)
	require.NoError(t, err)
	require.NoError(t, DeleteSpreadsheet(f.ctx, f.db, sheet.ID, f.userActor()))

	_, err = GetSpreadsheet(f.ctx, f.db, sheet.ID)
	assert.True(t, types.IsType(err, types.TypeNotFound))

	var rows int64
	require.NoError(t, f.db.Model(&models.SpreadsheetRow{}).Count(&rows).Error)
	assert.Zero(t, rows)
}
