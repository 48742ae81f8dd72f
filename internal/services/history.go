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

package services

import (
	"context"
	"fmt"
	"reflect"

	"github.com/localnerve/inventario/internal/logging"
	"github.com/localnerve/inventario/internal/metrics"
	"github.com/localnerve/inventario/internal/models"
	"github.com/localnerve/inventario/internal/types"
	"gorm.io/gorm"
	"gorm.io/hints"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 200
	systemActorName     = "system"
)

// Actor identifies who performed a change. Name is kept on history rows as a
// free-text label so it survives account deletion.
type Actor struct {
	ID      string
	Name    string
	IsAdmin bool
}

// ActorFromUser builds the Actor for an authenticated user.
func ActorFromUser(u *models.User) Actor {
	if u == nil {
		return Actor{Name: systemActorName}
	}
	return Actor{ID: u.ID, Name: u.Label(), IsAdmin: u.IsAdmin()}
}

// HistoryEntry is the input to RecordChange. Old is nil for creates, New is
// nil for deletes.
type HistoryEntry struct {
	ProductID       string
	Action          string
	Old             models.Snapshot
	New             models.Snapshot
	Actor           Actor
	BulkOperationID string
}

// ComputeChangedFields returns the keys of after whose value differs from
// before. Keys missing from after are never reported.
func ComputeChangedFields(before, after models.Snapshot) models.ChangeSet {
	changes := models.ChangeSet{}
	for key, newValue := range after {
		oldValue, present := before[key]
		if present && reflect.DeepEqual(oldValue, newValue) {
			continue
		}
		changes[key] = models.FieldChange{Old: oldValue, New: newValue}
	}
	return changes
}

// RecordChange appends one history row. It must be called after the mutation
// it describes has committed; a failed write is logged and counted, and nil is
// returned instead of an error.
func RecordChange(ctx context.Context, db *gorm.DB, entry HistoryEntry) *models.ProductHistory {
	name := entry.Actor.Name
	if name == "" {
		name = systemActorName
	}

	row := &models.ProductHistory{
		ProductID:     entry.ProductID,
		Action:        entry.Action,
		OldData:       entry.Old,
		NewData:       entry.New,
		ChangedFields: ComputeChangedFields(entry.Old, entry.New),
		UserName:      name,
	}
	if entry.Actor.ID != "" {
		userID := entry.Actor.ID
		row.UserID = &userID
	}
	if entry.BulkOperationID != "" {
		bulkID := entry.BulkOperationID
		row.BulkOperationID = &bulkID
	}

	if err := db.WithContext(ctx).Create(row).Error; err != nil {
		metrics.HistoryWriteFailures.Inc()
		logging.Error(ctx).
			Err(err).
			Str("product_id", entry.ProductID).
			Str("action", entry.Action).
			Str("bulk_operation_id", entry.BulkOperationID).
			Msg("failed to record product history")
		return nil
	}

	metrics.HistoryRecords.WithLabelValues(entry.Action).Inc()
	return row
}

func clampHistoryLimit(limit int) int {
	if limit <= 0 {
		return defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		return maxHistoryLimit
	}
	return limit
}

// ListProductHistory returns the newest history rows of one product. Rows of
// deleted products are still returned.
func ListProductHistory(ctx context.Context, db *gorm.DB, productID string, limit int) ([]models.ProductHistory, error) {
	rows := []models.ProductHistory{}
	err := db.WithContext(ctx).
		Clauses(hints.Comment("select", "product_history")).
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(clampHistoryLimit(limit)).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list history for product %s: %w", productID, err)
	}
	return rows, nil
}

// ListRecentHistory returns the newest history rows across all products.
func ListRecentHistory(ctx context.Context, db *gorm.DB, limit int) ([]models.ProductHistory, error) {
	rows := []models.ProductHistory{}
	err := db.WithContext(ctx).
		Clauses(hints.Comment("select", "recent_history")).
		Order("created_at DESC").
		Order("id DESC").
		Limit(clampHistoryLimit(limit)).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list recent history: %w", err)
	}
	return rows, nil
}

// ListBulkOperation returns every row sharing operationID in write order.
func ListBulkOperation(ctx context.Context, db *gorm.DB, operationID string) ([]models.ProductHistory, error) {
	rows := []models.ProductHistory{}
	err := db.WithContext(ctx).
		Clauses(hints.Comment("select", "bulk_history")).
		Where("bulk_operation_id = ?", operationID).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list bulk operation %s: %w", operationID, err)
	}
	if len(rows) == 0 {
		return nil, types.NewNotFoundError(fmt.Sprintf("bulk operation %s not found", operationID))
	}
	return rows, nil
}
