// auth_service_test.go
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
	"testing"

	"github.com/localnerve/inventario/internal/models"
	"github.com/localnerve/inventario/internal/testsupport"
	"github.com/localnerve/inventario/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthenticate(t *testing.T) {
	f := newFixture(t)

	user, err := Authenticate(f.ctx, f.db, " dave ", testsupport.TestPassword)
	require.NoError(t, err)
	assert.Equal(t, f.user.ID, user.ID)
	require.NotNil(t, user.Role)
	assert.False(t, user.IsAdmin())

	admin, err := Authenticate(f.ctx, f.db, "admin", testsupport.TestPassword)
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin())

	_, err = Authenticate(f.ctx, f.db, "dave", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = Authenticate(f.ctx, f.db, "nobody", testsupport.TestPassword)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	testsupport.DeactivateUser(t, f.db, f.user)
	_, err = Authenticate(f.ctx, f.db, "dave", testsupport.TestPassword)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = LoadUser(f.ctx, f.db, f.user.ID)
	assert.True(t, types.IsType(err, types.TypeNotFound))
}

func TestCreateUser(t *testing.T) {
	f := newFixture(t)

	user, err := CreateUser(f.ctx, f.db, CreateUserInput{
		Username:    "carol",
		DisplayName: " Carol R. ",
		Email:       "carol@example.com",
		Password:    "long-enough-password",
	})
	require.NoError(t, err)
	assert.Equal(t, "Carol R.", user.DisplayName)
	require.NotNil(t, user.Role)
	assert.Equal(t, models.RoleUser, user.Role.Name)

	logged, err := Authenticate(f.ctx, f.db, "carol", "long-enough-password")
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)

	_, err = CreateUser(f.ctx, f.db, CreateUserInput{Username: "carol", Password: "long-enough-password"})
	assert.True(t, types.IsType(err, types.TypeConflict))
}

func TestCreateUserValidation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name  string
		input CreateUserInput
		field string
	}{
		{"username with spaces", CreateUserInput{Username: "bad name", Password: "long-enough-password"}, "username"},
		{"short username", CreateUserInput{Username: "ab", Password: "long-enough-password"}, "username"},
		{"short password", CreateUserInput{Username: "carol", Password: "short"}, "password"},
		{"bad email", CreateUserInput{Username: "carol", Password: "long-enough-password", Email: "nope"}, "email"},
		{"unknown role", CreateUserInput{Username: "carol", Password: "long-enough-password", Role: "root"}, "role"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CreateUser(f.ctx, f.db, tt.input)
			ce, ok := types.AsCustomError(err)
			require.True(t, ok)
			assert.Equal(t, types.TypeValidation, ce.Type)
			assert.Contains(t, ce.Fields, tt.field)
		})
	}
}

func TestEnsureAdmin(t *testing.T) {
	ctx := context.Background()
	db := testsupport.NewTestDB(t)

	require.NoError(t, EnsureAdmin(ctx, db, "", ""))
	require.NoError(t, EnsureAdmin(ctx, db, "root", "bootstrap-password"))

	admin, err := Authenticate(ctx, db, "root", "bootstrap-password")
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin())

	// An admin already exists, nothing else is created
	require.NoError(t, EnsureAdmin(ctx, db, "second", "bootstrap-password"))
	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSearchUsers(t *testing.T) {
	f := newFixture(t)
	testsupport.CreateUser(t, f.db, "carol", models.RoleUser)
	testsupport.CreateUser(t, f.db, "carla", models.RoleUser)
	testsupport.CreateUser(t, f.db, "car_x", models.RoleUser)
	testsupport.CreateUser(t, f.db, "carxy", models.RoleUser)
	gone := testsupport.CreateUser(t, f.db, "cart", models.RoleUser)
	testsupport.DeactivateUser(t, f.db, gone)

	usernames := func(users []models.User) []string {
		out := make([]string, 0, len(users))
		for _, u := range users {
			out = append(out, u.Username)
		}
		return out
	}

	users, err := SearchUsers(f.ctx, f.db, "@car")
	require.NoError(t, err)
	assert.Equal(t, []string{"car_x", "carla", "carol", "carxy"}, usernames(users))

	users, err = SearchUsers(f.ctx, f.db, "car_")
	require.NoError(t, err)
	assert.Equal(t, []string{"car_x"}, usernames(users))

	users, err = SearchUsers(f.ctx, f.db, "car%")
	require.NoError(t, err)
	assert.Empty(t, users)

	users, err = SearchUsers(f.ctx, f.db, "  ")
	require.NoError(t, err)
	assert.Empty(t, users)

	for i := 0; i < 12; i++ {
		testsupport.CreateUser(t, f.db, fmt.Sprintf("zed%02d", i), models.RoleUser)
	}
	users, err = SearchUsers(f.ctx, f.db, "zed")
	require.NoError(t, err)
	assert.Len(t, users, maxUserSearchResults)
	assert.Equal(t, "zed00", users[0].Username)
}
