// auth.go
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

package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/localnerve/inventario/internal/config"
	"github.com/localnerve/inventario/internal/models"
	"github.com/localnerve/inventario/internal/services"
	"github.com/localnerve/inventario/internal/types"
	"gorm.io/gorm"
)

const (
	sessionUserKey = "user_id"
	localsUserKey  = "user"

	TypeUnauthenticated = "auth.unauthenticated"

	SessionCookieName = "inventario_session"
)

// NewSessionStore returns the in-memory cookie session store.
func NewSessionStore(cfg *config.Config) *session.Store {
	return session.New(session.Config{
		Expiration:     time.Duration(cfg.SessionTTLHours) * time.Hour,
		KeyLookup:      "cookie:" + SessionCookieName,
		CookieSecure:   cfg.CookieSecure,
		CookieHTTPOnly: true,
		CookieSameSite: fiber.CookieSameSiteLaxMode,
	})
}

// Auth resolves the session cookie to a user.
type Auth struct {
	DB    *gorm.DB
	Store *session.Store
}

// RequireUser rejects requests without a logged in, active user and stores
// the user, role loaded, in the request locals.
func (a *Auth) RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := a.loadUser(c); err != nil {
			return err
		}
		return c.Next()
	}
}

// RequireAdmin is RequireUser restricted to the admin role.
func (a *Auth) RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := a.loadUser(c)
		if err != nil {
			return err
		}
		if !user.IsAdmin() {
			return types.NewAuthorizationError("admin role required")
		}
		return c.Next()
	}
}

// RequirePageUser redirects anonymous page requests to the login form.
func (a *Auth) RequirePageUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := a.loadUser(c); err != nil {
			if types.IsType(err, TypeUnauthenticated) {
				return c.Redirect("/login")
			}
			return err
		}
		return c.Next()
	}
}

// Login starts a fresh session for user.
func (a *Auth) Login(c *fiber.Ctx, user *models.User) error {
	sess, err := a.Store.Get(c)
	if err != nil {
		return err
	}
	if err := sess.Regenerate(); err != nil {
		return err
	}
	sess.Set(sessionUserKey, user.ID)
	c.Locals(localsUserKey, user)
	return sess.Save()
}

// Logout destroys the current session.
func (a *Auth) Logout(c *fiber.Ctx) error {
	sess, err := a.Store.Get(c)
	if err != nil {
		return err
	}
	return sess.Destroy()
}

func (a *Auth) loadUser(c *fiber.Ctx) (*models.User, error) {
	if user := CurrentUser(c); user != nil {
		return user, nil
	}

	sess, err := a.Store.Get(c)
	if err != nil {
		return nil, err
	}
	userID, ok := sess.Get(sessionUserKey).(string)
	if !ok || userID == "" {
		return nil, unauthenticated()
	}

	user, err := services.LoadUser(c.UserContext(), a.DB, userID)
	if err != nil {
		if types.IsType(err, types.TypeNotFound) {
			// Account removed or disabled since login
			_ = sess.Destroy()
			return nil, unauthenticated()
		}
		return nil, err
	}

	c.Locals(localsUserKey, user)
	return user, nil
}

func unauthenticated() *types.CustomError {
	return &types.CustomError{
		Code:    fiber.StatusUnauthorized,
		Message: "login required",
		Type:    TypeUnauthenticated,
	}
}

// CurrentUser returns the user stored by RequireUser, or nil.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(localsUserKey).(*models.User)
	return user
}

// CurrentActor is the services.Actor for the current user.
func CurrentActor(c *fiber.Ctx) services.Actor {
	return services.ActorFromUser(CurrentUser(c))
}
