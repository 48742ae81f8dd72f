// auth_service.go
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
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/localnerve/inventario/internal/logging"
	"github.com/localnerve/inventario/internal/models"
	"github.com/localnerve/inventario/internal/types"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const maxUserSearchResults = 10

// ErrInvalidCredentials is returned for an unknown user, a wrong password or
// an inactive account alike.
var ErrInvalidCredentials = &types.CustomError{
	Code:    http.StatusUnauthorized,
	Message: "invalid username or password",
	Type:    "auth.invalid_credentials",
}

// CreateUserInput is the body of the admin user creation endpoint.
type CreateUserInput struct {
	Username    string `json:"username" validate:"required,username,min=3,max=64"`
	DisplayName string `json:"displayName" validate:"max=255"`
	Email       string `json:"email" validate:"omitempty,email,max=255"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
	Role        string `json:"role" validate:"omitempty,oneof=admin user"`
}

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Authenticate checks a username and password and returns the user with its
// role loaded.
func Authenticate(ctx context.Context, db *gorm.DB, username, password string) (*models.User, error) {
	var user models.User
	err := db.WithContext(ctx).
		Preload("Role").
		Where("username = ?", strings.TrimSpace(username)).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if !user.Active {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// LoadUser returns an active user by id with its role loaded.
func LoadUser(ctx context.Context, db *gorm.DB, id string) (*models.User, error) {
	var user models.User
	err := db.WithContext(ctx).
		Preload("Role").
		Where("id = ? AND active = ?", id, true).
		First(&user).Error
	if err != nil {
		return nil, notFoundOr(err, "user %s not found", id)
	}
	return &user, nil
}

func findRole(tx *gorm.DB, name string) (*models.Role, error) {
	var role models.Role
	if err := tx.Where("name = ?", name).First(&role).Error; err != nil {
		return nil, notFoundOr(err, "role %s not found", name)
	}
	return &role, nil
}

// CreateUser stores a new account. Role defaults to user.
func CreateUser(ctx context.Context, db *gorm.DB, input CreateUserInput) (*models.User, error) {
	if err := validateStruct(&input); err != nil {
		return nil, err
	}
	roleName := input.Role
	if roleName == "" {
		roleName = models.RoleUser
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Username:     input.Username,
		DisplayName:  strings.TrimSpace(input.DisplayName),
		PasswordHash: hash,
		Active:       true,
	}
	if input.Email != "" {
		email := input.Email
		user.Email = &email
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		role, err := findRole(tx, roleName)
		if err != nil {
			return err
		}
		var count int64
		if err := tx.Model(&models.User{}).Where("username = ?", input.Username).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return types.NewConflictError(fmt.Sprintf("username %q is taken", input.Username))
		}
		user.RoleUUID = role.UUID
		if err := tx.Omit("Role").Create(user).Error; err != nil {
			return err
		}
		user.Role = role
		return nil
	})
	if err != nil {
		return nil, err
	}

	logging.Info(ctx).Str("user_id", user.ID).Str("username", user.Username).Str("role", roleName).Msg("user created")
	return user, nil
}

// EnsureAdmin creates the bootstrap admin account unless an admin exists.
func EnsureAdmin(ctx context.Context, db *gorm.DB, username, password string) error {
	if username == "" {
		return nil
	}

	var count int64
	err := db.WithContext(ctx).
		Model(&models.User{}).
		Joins("JOIN roles ON roles.uuid = users.role_uuid").
		Where("roles.name = ?", models.RoleAdmin).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("failed to count admins: %w", err)
	}
	if count > 0 {
		return nil
	}

	_, err = CreateUser(ctx, db, CreateUserInput{
		Username:    username,
		DisplayName: username,
		Password:    password,
		Role:        models.RoleAdmin,
	})
	return err
}

// SearchUsers returns up to ten active users whose username starts with
// prefix, for mention autocompletion.
func SearchUsers(ctx context.Context, db *gorm.DB, prefix string) ([]models.User, error) {
	users := []models.User{}
	prefix = strings.TrimPrefix(strings.TrimSpace(prefix), "@")
	if prefix == "" {
		return users, nil
	}
	escaped := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_").Replace(prefix)
	err := db.WithContext(ctx).
		Select("id", "username", "display_name").
		Where("active = ? AND username LIKE ? ESCAPE '!'", true, escaped+"%").
		Order("username").
		Limit(maxUserSearchResults).
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	return users, nil
}
