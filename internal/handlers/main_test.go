// main_test.go
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

package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/inventario/internal/config"
	"github.com/localnerve/inventario/internal/logging"
	"github.com/localnerve/inventario/internal/middleware"
	"github.com/localnerve/inventario/internal/models"
	"github.com/localnerve/inventario/internal/testsupport"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	logging.SetOutput(io.Discard)
	os.Exit(m.Run())
}

type testApp struct {
	app   *fiber.App
	db    *gorm.DB
	admin *models.User
	user  *models.User
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	db := testsupport.NewTestDB(t)
	cfg := &config.Config{Env: "test", DBType: "sqlite", DBDatabase: ":memory:", SessionTTLHours: 1}

	app := fiber.New(AppConfig())
	Register(app, Deps{DB: db, Config: cfg, Sessions: middleware.NewSessionStore(cfg)})

	return &testApp{
		app:   app,
		db:    db,
		admin: testsupport.CreateUser(t, db, "admin", models.RoleAdmin),
		user:  testsupport.CreateUser(t, db, "dave", models.RoleUser),
	}
}

func (ta *testApp) send(t *testing.T, req *http.Request) *http.Response {
	t.Helper()
	resp, err := ta.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// request sends body as JSON with the given session cookie.
func (ta *testApp) request(t *testing.T, method, path string, body interface{}, session string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if session != "" {
		req.Header.Set("Cookie", testsupport.CookieHeader(middleware.SessionCookieName, session))
	}
	return ta.send(t, req)
}

// form posts url encoded values with the given cookie header.
func (ta *testApp) form(t *testing.T, path string, values url.Values, cookies string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookies != "" {
		req.Header.Set("Cookie", cookies)
	}
	return ta.send(t, req)
}

// login signs username in through the API and returns the session cookie.
func (ta *testApp) login(t *testing.T, username string) string {
	t.Helper()
	resp := ta.request(t, http.MethodPost, "/api/auth/login", map[string]string{
		"username": username,
		"password": testsupport.TestPassword,
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	session := testsupport.Cookie(resp, middleware.SessionCookieName)
	require.NotEmpty(t, session)
	return session
}

func decode(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	testsupport.ParseJSON(t, resp, &body)
	return body
}
