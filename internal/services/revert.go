// revert.go
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
	"errors"
	"fmt"

	"github.com/localnerve/inventario/internal/logging"
	"github.com/localnerve/inventario/internal/metrics"
	"github.com/localnerve/inventario/internal/models"
	"github.com/localnerve/inventario/internal/types"
	"gorm.io/gorm"
)

const revertBulkPrefix = "revert-"

// RevertFailure describes a bulk member that could not be restored.
type RevertFailure struct {
	HistoryID uint64 `json:"historyId"`
	ProductID string `json:"productId"`
	Error     string `json:"error"`
}

// RevertResult reports what a revert restored. For bulk reverts
// BulkOperationID is the id shared by the new REVERT rows.
type RevertResult struct {
	Reverted        int                     `json:"reverted"`
	Failed          int                     `json:"failed"`
	BulkOperationID string                  `json:"bulkOperationId,omitempty"`
	History         []models.ProductHistory `json:"history"`
	Failures        []RevertFailure         `json:"failures,omitempty"`
}

// RevertHistory restores the state captured in a history row's old data.
// When the row belongs to a bulk operation every member of the operation is
// restored on its own; members that fail are reported and the rest go on.
func RevertHistory(ctx context.Context, db *gorm.DB, historyID uint64, actor Actor) (*RevertResult, error) {
	var entry models.ProductHistory
	if err := db.WithContext(ctx).Where("id = ?", historyID).First(&entry).Error; err != nil {
		return nil, notFoundOr(err, "history entry %d not found", historyID)
	}
	if entry.OldData == nil {
		return nil, types.ErrNoPriorState
	}

	if entry.BulkOperationID != nil && *entry.BulkOperationID != "" {
		return revertBulk(ctx, db, *entry.BulkOperationID, actor)
	}

	row, err := restoreProduct(ctx, db, entry, actor, "")
	if err != nil {
		metrics.Reverts.WithLabelValues("failed").Inc()
		return nil, err
	}
	metrics.Reverts.WithLabelValues("reverted").Inc()

	result := &RevertResult{Reverted: 1, History: []models.ProductHistory{}}
	if row != nil {
		result.History = append(result.History, *row)
	}
	return result, nil
}

func revertBulk(ctx context.Context, db *gorm.DB, bulkID string, actor Actor) (*RevertResult, error) {
	members, err := ListBulkOperation(ctx, db, bulkID)
	if err != nil {
		return nil, err
	}

	revertID := revertBulkPrefix + bulkID
	result := &RevertResult{
		BulkOperationID: revertID,
		History:         []models.ProductHistory{},
	}

	for _, member := range members {
		row, err := restoreProduct(ctx, db, member, actor, revertID)
		if err != nil {
			metrics.Reverts.WithLabelValues("failed").Inc()
			logging.Warn(ctx).
				Err(err).
				Uint64("history_id", member.ID).
				Str("product_id", member.ProductID).
				Str("bulk_operation_id", bulkID).
				Msg("bulk revert member failed")

			result.Failed++
			result.Failures = append(result.Failures, RevertFailure{
				HistoryID: member.ID,
				ProductID: member.ProductID,
				Error:     failureMessage(err),
			})
			continue
		}

		metrics.Reverts.WithLabelValues("reverted").Inc()
		result.Reverted++
		if row != nil {
			result.History = append(result.History, *row)
		}
	}

	return result, nil
}

// restoreProduct applies entry's old data onto the current product in its own
// transaction and records a REVERT row once committed.
func restoreProduct(ctx context.Context, db *gorm.DB, entry models.ProductHistory, actor Actor, bulkID string) (*models.ProductHistory, error) {
	if entry.OldData == nil {
		return nil, types.ErrNoPriorState
	}

	var before, after models.Snapshot
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		product, err := lockProduct(tx, entry.ProductID)
		if err != nil {
			if types.IsType(err, types.TypeNotFound) {
				return types.NewNotFoundError(fmt.Sprintf("product %s no longer exists", entry.ProductID))
			}
			return err
		}
		before = product.Snapshot()
		current := ProductState{Category: product.Category, Ready: product.Ready}

		if err := product.ApplySnapshot(entry.OldData); err != nil {
			return fmt.Errorf("failed to apply snapshot of history entry %d: %w", entry.ID, err)
		}
		state, err := ApplyCategoryReadyRule(current, &product.Category, &product.Ready, true)
		if err != nil {
			return err
		}
		product.Category, product.Ready = state.Category, state.Ready
		if err := ensureUniqueSKU(tx, product.SKU, product.Category, product.ID); err != nil {
			return err
		}
		if err := tx.Save(product).Error; err != nil {
			return err
		}
		after = product.Snapshot()
		return nil
	})
	if err != nil {
		return nil, err
	}

	return RecordChange(ctx, db, HistoryEntry{
		ProductID:       entry.ProductID,
		Action:          models.ActionRevert,
		Old:             before,
		New:             after,
		Actor:           actor,
		BulkOperationID: bulkID,
	}), nil
}

func failureMessage(err error) string {
	var ce *types.CustomError
	if errors.As(err, &ce) {
		return ce.Message
	}
	return "internal error"
}
