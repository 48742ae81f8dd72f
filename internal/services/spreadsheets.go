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

package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/localnerve/inventario/internal/logging"
	"github.com/localnerve/inventario/internal/models"
	"github.com/localnerve/inventario/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SpreadsheetInput names a spreadsheet or column.
type SpreadsheetInput struct {
	Name string `json:"name" validate:"required,max=255"`
}

// CellInput sets the value at (RowID, ColumnID).
type CellInput struct {
	RowID    uint64 `json:"rowId" validate:"required"`
	ColumnID uint64 `json:"columnId" validate:"required"`
	Value    string `json:"value"`
}

// CellResult is a stored cell and the mention notifications it produced.
type CellResult struct {
	Cell          models.SpreadsheetCell `json:"cell"`
	Notifications []models.Notification  `json:"notifications"`
}

func canManageSpreadsheet(sheet *models.Spreadsheet, actor Actor) error {
	if actor.IsAdmin || sheet.OwnerID == actor.ID {
		return nil
	}
	return types.NewAuthorizationError("only the owner or an admin can change this spreadsheet")
}

func findSpreadsheet(tx *gorm.DB, id string) (*models.Spreadsheet, error) {
	var sheet models.Spreadsheet
	if err := tx.Where("id = ?", id).First(&sheet).Error; err != nil {
		return nil, notFoundOr(err, "spreadsheet %s not found", id)
	}
	return &sheet, nil
}

// CreateSpreadsheet stores an empty spreadsheet owned by actor.
func CreateSpreadsheet(ctx context.Context, db *gorm.DB, input SpreadsheetInput, actor Actor) (*models.Spreadsheet, error) {
	if err := validateStruct(&input); err != nil {
		return nil, err
	}
	sheet := &models.Spreadsheet{
		ID:      uuid.NewString(),
		Name:    strings.TrimSpace(input.Name),
		OwnerID: actor.ID,
	}
	if err := db.WithContext(ctx).Omit(clause.Associations).Create(sheet).Error; err != nil {
		return nil, fmt.Errorf("failed to create spreadsheet: %w", err)
	}
	return sheet, nil
}

// ListSpreadsheets returns every spreadsheet without its contents.
func ListSpreadsheets(ctx context.Context, db *gorm.DB) ([]models.Spreadsheet, error) {
	sheets := []models.Spreadsheet{}
	if err := db.WithContext(ctx).Order("name").Find(&sheets).Error; err != nil {
		return nil, fmt.Errorf("failed to list spreadsheets: %w", err)
	}
	return sheets, nil
}

// GetSpreadsheet loads a spreadsheet with its columns, rows and cells.
func GetSpreadsheet(ctx context.Context, db *gorm.DB, id string) (*models.Spreadsheet, error) {
	var sheet models.Spreadsheet
	err := db.WithContext(ctx).
		Preload("Columns", func(db *gorm.DB) *gorm.DB { return db.Order("position, id") }).
		Preload("Rows", func(db *gorm.DB) *gorm.DB { return db.Order("position, id") }).
		Preload("Rows.Cells").
		Where("id = ?", id).
		First(&sheet).Error
	if err != nil {
		return nil, notFoundOr(err, "spreadsheet %s not found", id)
	}
	return &sheet, nil
}

// RenameSpreadsheet changes a spreadsheet's name.
func RenameSpreadsheet(ctx context.Context, db *gorm.DB, id string, input SpreadsheetInput, actor Actor) (*models.Spreadsheet, error) {
	if err := validateStruct(&input); err != nil {
		return nil, err
	}
	var sheet *models.Spreadsheet
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if sheet, err = findSpreadsheet(tx, id); err != nil {
			return err
		}
		if err := canManageSpreadsheet(sheet, actor); err != nil {
			return err
		}
		sheet.Name = strings.TrimSpace(input.Name)
		return tx.Model(sheet).Update("name", sheet.Name).Error
	})
	if err != nil {
		return nil, err
	}
	return sheet, nil
}

// DeleteSpreadsheet removes a spreadsheet and everything in it.
func DeleteSpreadsheet(ctx context.Context, db *gorm.DB, id string, actor Actor) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sheet, err := findSpreadsheet(tx, id)
		if err != nil {
			return err
		}
		if err := canManageSpreadsheet(sheet, actor); err != nil {
			return err
		}
		rowIDs := tx.Model(&models.SpreadsheetRow{}).Select("id").Where("spreadsheet_id = ?", id)
		if err := tx.Where("row_id IN (?)", rowIDs).Delete(&models.SpreadsheetCell{}).Error; err != nil {
			return err
		}
		if err := tx.Where("spreadsheet_id = ?", id).Delete(&models.SpreadsheetRow{}).Error; err != nil {
			return err
		}
		if err := tx.Where("spreadsheet_id = ?", id).Delete(&models.SpreadsheetColumn{}).Error; err != nil {
			return err
		}
		return tx.Delete(sheet).Error
	})
}

func nextPosition(tx *gorm.DB, model interface{}, sheetID string) (int, error) {
	var maxPosition sql.NullInt64
	err := tx.Model(model).
		Select("MAX(position)").
		Where("spreadsheet_id = ?", sheetID).
		Row().
		Scan(&maxPosition)
	if err != nil {
		return 0, err
	}
	if !maxPosition.Valid {
		return 0, nil
	}
	return int(maxPosition.Int64) + 1, nil
}

// AddColumn appends a column to the spreadsheet.
func AddColumn(ctx context.Context, db *gorm.DB, sheetID string, input SpreadsheetInput) (*models.SpreadsheetColumn, error) {
	if err := validateStruct(&input); err != nil {
		return nil, err
	}
	column := &models.SpreadsheetColumn{SpreadsheetID: sheetID, Name: strings.TrimSpace(input.Name)}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findSpreadsheet(tx, sheetID); err != nil {
			return err
		}
		position, err := nextPosition(tx, &models.SpreadsheetColumn{}, sheetID)
		if err != nil {
			return err
		}
		column.Position = position
		return tx.Create(column).Error
	})
	if err != nil {
		return nil, err
	}
	return column, nil
}

// DeleteColumn removes a column and its cells.
func DeleteColumn(ctx context.Context, db *gorm.DB, sheetID string, columnID uint64) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.SpreadsheetColumn{}).
			Where("id = ? AND spreadsheet_id = ?", columnID, sheetID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return types.NewNotFoundError(fmt.Sprintf("column %d not found", columnID))
		}
		if err := tx.Where("column_id = ?", columnID).Delete(&models.SpreadsheetCell{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", columnID).Delete(&models.SpreadsheetColumn{}).Error
	})
}

// AddRow appends an empty row to the spreadsheet.
func AddRow(ctx context.Context, db *gorm.DB, sheetID string) (*models.SpreadsheetRow, error) {
	row := &models.SpreadsheetRow{SpreadsheetID: sheetID}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findSpreadsheet(tx, sheetID); err != nil {
			return err
		}
		position, err := nextPosition(tx, &models.SpreadsheetRow{}, sheetID)
		if err != nil {
			return err
		}
		row.Position = position
		return tx.Omit(clause.Associations).Create(row).Error
	})
	if err != nil {
		return nil, err
	}
	return row, nil
}

// DeleteRow removes a row and its cells.
func DeleteRow(ctx context.Context, db *gorm.DB, sheetID string, rowID uint64) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.SpreadsheetRow{}).
			Where("id = ? AND spreadsheet_id = ?", rowID, sheetID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return types.NewNotFoundError(fmt.Sprintf("row %d not found", rowID))
		}
		if err := tx.Where("row_id = ?", rowID).Delete(&models.SpreadsheetCell{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", rowID).Delete(&models.SpreadsheetRow{}).Error
	})
}

// SetCell writes a cell value, creating the cell on first write. Users
// mentioned in the value are notified with a link to the cell.
func SetCell(ctx context.Context, db *gorm.DB, sheetID string, input CellInput, actor Actor) (*CellResult, error) {
	if err := validateStruct(&input); err != nil {
		return nil, err
	}

	var cell models.SpreadsheetCell
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rows, columns int64
		if err := tx.Model(&models.SpreadsheetRow{}).
			Where("id = ? AND spreadsheet_id = ?", input.RowID, sheetID).
			Count(&rows).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.SpreadsheetColumn{}).
			Where("id = ? AND spreadsheet_id = ?", input.ColumnID, sheetID).
			Count(&columns).Error; err != nil {
			return err
		}
		if rows == 0 || columns == 0 {
			return types.NewNotFoundError(fmt.Sprintf("cell %d/%d not found in spreadsheet %s", input.RowID, input.ColumnID, sheetID))
		}

		upsert := models.SpreadsheetCell{RowID: input.RowID, ColumnID: input.ColumnID, Value: input.Value}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "row_id"}, {Name: "column_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).Create(&upsert).Error; err != nil {
			return err
		}
		return tx.Where("row_id = ? AND column_id = ?", input.RowID, input.ColumnID).First(&cell).Error
	})
	if err != nil {
		return nil, err
	}

	result := &CellResult{Cell: cell, Notifications: []models.Notification{}}
	if len(ParseMentions(input.Value)) == 0 {
		return result, nil
	}

	notifications, err := ProcessMentions(ctx, db, MentionRequest{
		Text:       input.Value,
		SenderID:   actor.ID,
		SenderName: actor.Name,
		Context: MentionContext{
			Section:     "spreadsheet",
			RedirectURL: "/spreadsheets/" + sheetID,
			Metadata: map[string]interface{}{
				"targetId":      fmt.Sprintf("cell-%d-%d", input.RowID, input.ColumnID),
				"mentionType":   "spreadsheet_cell",
				"spreadsheetId": sheetID,
			},
		},
	})
	if err != nil {
		logging.Warn(ctx).Err(err).Str("spreadsheet_id", sheetID).Msg("mention processing failed")
		return result, nil
	}
	result.Notifications = notifications
	return result, nil
}
