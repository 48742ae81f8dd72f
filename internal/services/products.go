// products.go
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
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/localnerve/inventario/internal/logging"
	"github.com/localnerve/inventario/internal/models"
	"github.com/localnerve/inventario/internal/types"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/hints"
)

const (
	defaultProductLimit = 25
	maxProductLimit     = 100
)

// ProductInput carries the writable product fields. A nil field is left
// untouched on update.
type ProductInput struct {
	SKU           *string          `json:"sku" validate:"omitempty,max=64"`
	Name          *string          `json:"name" validate:"omitempty,max=255"`
	Quantity      *types.FlexInt   `json:"quantity" validate:"omitempty,gte=0"`
	Category      *string          `json:"category"`
	Importance    *types.FlexInt   `json:"importance" validate:"omitempty,min=1,max=5"`
	PurchasePrice *decimal.Decimal `json:"purchasePrice" validate:"omitempty,gte=0"`
	Supplier      *string          `json:"supplier" validate:"omitempty,max=255"`
	Brand         *string          `json:"brand" validate:"omitempty,max=255"`
	Ready         *bool            `json:"ready"`
}

// BulkUpdateItem is one member of a bulk update.
type BulkUpdateItem struct {
	ID string `json:"id" validate:"required"`
	ProductInput
}

// BulkUpdateResult reports a committed bulk update.
type BulkUpdateResult struct {
	BulkOperationID string           `json:"bulkOperationId"`
	Updated         int              `json:"updated"`
	Products        []models.Product `json:"products"`
}

// ProductFilter narrows ListProducts.
type ProductFilter struct {
	Category string
	Search   string
	Page     int
	Limit    int
}

// ProductPage is one page of products.
type ProductPage struct {
	Products   []models.Product `json:"products"`
	Pagination Pagination       `json:"pagination"`
}

// NoteInput is a note appended to a product's thread.
type NoteInput struct {
	Text        string   `json:"text" validate:"required"`
	Mentions    []string `json:"mentions"`
	RedirectURL string   `json:"redirectUrl"`
}

func notFoundOr(err error, format string, args ...interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return types.NewNotFoundError(fmt.Sprintf(format, args...))
	}
	return err
}

// lockProductQuery selects one product row with an update lock.
func lockProductQuery(tx *gorm.DB, id string) *gorm.DB {
	if tx.Dialector.Name() == "sqlserver" {
		// T-SQL has no FOR UPDATE; the lock is a table hint
		return tx.Raw("SELECT TOP 1 * FROM products WITH (UPDLOCK, ROWLOCK) WHERE id = ?", id)
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id)
}

// lockProduct loads a product for update inside tx.
func lockProduct(tx *gorm.DB, id string) (*models.Product, error) {
	var product models.Product
	if err := lockProductQuery(tx, id).First(&product).Error; err != nil {
		return nil, notFoundOr(err, "product %s not found", id)
	}
	return &product, nil
}

// ensureUniqueSKU rejects a second product with the same SKU while both sit
// in an active category.
func ensureUniqueSKU(tx *gorm.DB, sku, category, excludeID string) error {
	if !models.IsActiveCategory(category) {
		return nil
	}
	query := tx.Model(&models.Product{}).
		Where("sku = ? AND category IN ?", sku, models.UserCategories)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check sku %s: %w", sku, err)
	}
	if count > 0 {
		return types.NewConflictError(fmt.Sprintf("an active product with SKU %q already exists", sku))
	}
	return nil
}

func checkRequiredText(fields map[string]string, name string, value *string, required bool) {
	if value == nil {
		if required {
			fields[name] = "is required"
		}
		return
	}
	if strings.TrimSpace(*value) == "" {
		fields[name] = "must not be empty"
	}
}

// applyProductInput writes input onto product, enforcing the admin-only
// fields and the category/ready rule.
func applyProductInput(product *models.Product, input ProductInput, isAdmin bool) error {
	if !isAdmin {
		if input.PurchasePrice != nil && !input.PurchasePrice.Equal(product.PurchasePrice) {
			return types.NewAuthorizationError("only admins can set the purchase price")
		}
		if input.Supplier != nil && *input.Supplier != product.Supplier {
			return types.NewAuthorizationError("only admins can set the supplier")
		}
	}

	state, err := ApplyCategoryReadyRule(
		ProductState{Category: product.Category, Ready: product.Ready},
		input.Category,
		input.Ready,
		isAdmin,
	)
	if err != nil {
		return err
	}

	if input.SKU != nil {
		product.SKU = strings.TrimSpace(*input.SKU)
	}
	if input.Name != nil {
		product.Name = strings.TrimSpace(*input.Name)
	}
	if v := types.IntPtr(input.Quantity); v != nil {
		product.Quantity = *v
	}
	if v := types.IntPtr(input.Importance); v != nil {
		product.Importance = *v
	}
	if input.PurchasePrice != nil {
		product.PurchasePrice = *input.PurchasePrice
	}
	if input.Supplier != nil {
		product.Supplier = strings.TrimSpace(*input.Supplier)
	}
	if input.Brand != nil {
		product.Brand = strings.TrimSpace(*input.Brand)
	}
	product.Category = state.Category
	product.Ready = state.Ready
	return nil
}

// CreateProduct stores a new product and records its CREATE history row.
func CreateProduct(ctx context.Context, db *gorm.DB, input ProductInput, actor Actor) (*models.Product, error) {
	if err := validateStruct(&input); err != nil {
		return nil, err
	}
	fields := map[string]string{}
	checkRequiredText(fields, "sku", input.SKU, true)
	checkRequiredText(fields, "name", input.Name, true)
	if len(fields) > 0 {
		return nil, types.NewValidationError("validation failed", fields)
	}

	product := &models.Product{
		ID:         uuid.NewString(),
		Category:   models.CategoryMissing,
		Importance: models.DefaultProductImportance,
		CreatedBy:  actor.Name,
	}
	if err := applyProductInput(product, input, actor.IsAdmin); err != nil {
		return nil, err
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureUniqueSKU(tx, product.SKU, product.Category, ""); err != nil {
			return err
		}
		return tx.Create(product).Error
	})
	if err != nil {
		return nil, err
	}

	RecordChange(ctx, db, HistoryEntry{
		ProductID: product.ID,
		Action:    models.ActionCreate,
		New:       product.Snapshot(),
		Actor:     actor,
	})

	logging.Info(ctx).Str("product_id", product.ID).Str("sku", product.SKU).Msg("product created")
	return product, nil
}

// UpdateProduct applies input to an existing product. The rules run against
// the stored state, so a rejected write leaves the row untouched.
func UpdateProduct(ctx context.Context, db *gorm.DB, id string, input ProductInput, actor Actor) (*models.Product, error) {
	if err := validateStruct(&input); err != nil {
		return nil, err
	}
	fields := map[string]string{}
	checkRequiredText(fields, "sku", input.SKU, false)
	checkRequiredText(fields, "name", input.Name, false)
	if len(fields) > 0 {
		return nil, types.NewValidationError("validation failed", fields)
	}

	var product *models.Product
	var before models.Snapshot
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		product, err = lockProduct(tx, id)
		if err != nil {
			return err
		}
		before = product.Snapshot()

		if err := applyProductInput(product, input, actor.IsAdmin); err != nil {
			return err
		}
		if err := ensureUniqueSKU(tx, product.SKU, product.Category, product.ID); err != nil {
			return err
		}
		return tx.Save(product).Error
	})
	if err != nil {
		return nil, err
	}

	RecordChange(ctx, db, HistoryEntry{
		ProductID: product.ID,
		Action:    models.ActionUpdate,
		Old:       before,
		New:       product.Snapshot(),
		Actor:     actor,
	})
	return product, nil
}

// DeleteProduct hard deletes a product. History rows are kept.
func DeleteProduct(ctx context.Context, db *gorm.DB, id string, actor Actor) error {
	if !actor.IsAdmin {
		return types.NewAuthorizationError("only admins can delete products")
	}

	var before models.Snapshot
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		product, err := lockProduct(tx, id)
		if err != nil {
			return err
		}
		before = product.Snapshot()
		return tx.Delete(product).Error
	})
	if err != nil {
		return err
	}

	RecordChange(ctx, db, HistoryEntry{
		ProductID: id,
		Action:    models.ActionDelete,
		Old:       before,
		Actor:     actor,
	})

	logging.Info(ctx).Str("product_id", id).Msg("product deleted")
	return nil
}

// GetProduct loads a single product.
func GetProduct(ctx context.Context, db *gorm.DB, id string) (*models.Product, error) {
	var product models.Product
	if err := db.WithContext(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		return nil, notFoundOr(err, "product %s not found", id)
	}
	return &product, nil
}

// ListProducts returns a page of products, most important first.
func ListProducts(ctx context.Context, db *gorm.DB, filter ProductFilter) (*ProductPage, error) {
	page, limit := clampPage(filter.Page, filter.Limit, defaultProductLimit, maxProductLimit)

	query := db.WithContext(ctx).Model(&models.Product{})
	if filter.Category != "" {
		if !models.IsValidCategory(filter.Category) {
			return nil, types.NewFieldError("category", fmt.Sprintf("unknown category %q", filter.Category))
		}
		query = query.Where("category = ?", filter.Category)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(sku) LIKE ? OR LOWER(name) LIKE ?", like, like)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	products := []models.Product{}
	err := query.Session(&gorm.Session{}).
		Clauses(hints.Comment("select", "list_products")).
		Order("importance DESC").
		Order("updated_at DESC").
		Order("id").
		Limit(limit).
		Offset(offset(page, limit)).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	return &ProductPage{Products: products, Pagination: newPagination(page, limit, total)}, nil
}

// BulkUpdateProducts applies every item in one transaction and records one
// BULK_UPDATE row per product, all sharing a new bulk operation id.
func BulkUpdateProducts(ctx context.Context, db *gorm.DB, items []BulkUpdateItem, actor Actor) (*BulkUpdateResult, error) {
	if !actor.IsAdmin {
		return nil, types.NewAuthorizationError("only admins can run bulk updates")
	}
	if len(items) == 0 {
		return nil, types.NewFieldError("items", "at least one product is required")
	}
	for i := range items {
		if err := validateStruct(&items[i]); err != nil {
			return nil, err
		}
	}

	type change struct {
		productID string
		before    models.Snapshot
		after     models.Snapshot
	}

	bulkID := uuid.NewString()
	changes := make([]change, 0, len(items))
	updated := make([]models.Product, 0, len(items))

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, item := range items {
			product, err := lockProduct(tx, item.ID)
			if err != nil {
				return err
			}
			before := product.Snapshot()
			if err := applyProductInput(product, item.ProductInput, actor.IsAdmin); err != nil {
				return err
			}
			if err := ensureUniqueSKU(tx, product.SKU, product.Category, product.ID); err != nil {
				return err
			}
			if err := tx.Save(product).Error; err != nil {
				return err
			}
			changes = append(changes, change{productID: product.ID, before: before, after: product.Snapshot()})
			updated = append(updated, *product)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, c := range changes {
		RecordChange(ctx, db, HistoryEntry{
			ProductID:       c.productID,
			Action:          models.ActionBulkUpdate,
			Old:             c.before,
			New:             c.after,
			Actor:           actor,
			BulkOperationID: bulkID,
		})
	}

	logging.Info(ctx).Str("bulk_operation_id", bulkID).Int("count", len(updated)).Msg("bulk update committed")
	return &BulkUpdateResult{BulkOperationID: bulkID, Updated: len(updated), Products: updated}, nil
}

// AddProductNote appends a note to the product's thread and notifies the
// users it mentions. A mention failure does not undo the note.
func AddProductNote(ctx context.Context, db *gorm.DB, productID string, input NoteInput, actor Actor) (*models.Product, []models.Notification, error) {
	if strings.TrimSpace(input.Text) == "" {
		return nil, nil, types.NewFieldError("text", "is required")
	}
	mentioned := mergeMentions(ParseMentions(input.Text), input.Mentions)

	var product *models.Product
	var before models.Snapshot
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		product, err = lockProduct(tx, productID)
		if err != nil {
			return err
		}
		before = product.Snapshot()

		notes := append(product.NoteList(), models.ProductNote{
			Text:      input.Text,
			Author:    actor.Name,
			Timestamp: time.Now().UTC(),
			Mentions:  mentioned,
		})
		if err := product.SetNotes(notes); err != nil {
			return err
		}
		return tx.Save(product).Error
	})
	if err != nil {
		return nil, nil, err
	}

	RecordChange(ctx, db, HistoryEntry{
		ProductID: product.ID,
		Action:    models.ActionUpdate,
		Old:       before,
		New:       product.Snapshot(),
		Actor:     actor,
	})

	redirect := input.RedirectURL
	if redirect == "" {
		redirect = "/products/" + product.ID
	}
	notifications, err := ProcessMentions(ctx, db, MentionRequest{
		Text:       input.Text,
		SenderID:   actor.ID,
		SenderName: actor.Name,
		Mentions:   input.Mentions,
		Context: MentionContext{
			Section:     "product_note",
			RedirectURL: redirect,
			Metadata: map[string]interface{}{
				"productId":   product.ID,
				"targetId":    "notes",
				"mentionType": "product_note",
			},
		},
	})
	if err != nil {
		logging.Warn(ctx).Err(err).Str("product_id", product.ID).Msg("mention processing failed")
		notifications = []models.Notification{}
	}

	return product, notifications, nil
}
