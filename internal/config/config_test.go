// config_test.go
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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points ENV_FILE at a missing file and clears the variables Load reads.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	for _, key := range []string{
		"PORT", "APP_ENV", "DB_TYPE", "DB_HOST", "DB_PORT", "DB_DATABASE", "DB_USER",
		"DB_PASSWORD", "DB_CONNECTION_LIMIT", "DB_LOG_QUERIES", "SESSION_TTL_HOURS",
		"COOKIE_SECURE", "ADMIN_USERNAME", "ADMIN_PASSWORD",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBType)
	assert.Equal(t, "inventario.db", cfg.DBDatabase)
	assert.Equal(t, 12, cfg.SessionTTLHours)
	assert.False(t, cfg.CookieSecure)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadServerDatabase(t *testing.T) {
	isolate(t)
	t.Setenv("DB_TYPE", "postgres")
	t.Setenv("DB_USER", "inventario")
	t.Setenv("DB_CONNECTION_LIMIT", "not-a-number")
	t.Setenv("DB_LOG_QUERIES", "true")
	t.Setenv("APP_ENV", "production")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "5432", cfg.DBPort)
	assert.Equal(t, 10, cfg.DBConnectionLimit)
	assert.True(t, cfg.DBLogQueries)
	assert.False(t, cfg.IsDevelopment())
}

func TestLoadReadsEnvFile(t *testing.T) {
	isolate(t)
	envFile := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("DB_TYPE=mariadb\nDB_USER=file-user\nPORT=8080\n"), 0o600))
	t.Setenv("ENV_FILE", envFile)
	// godotenv never overrides a variable that is present, even empty
	require.NoError(t, os.Unsetenv("DB_TYPE"))
	require.NoError(t, os.Unsetenv("DB_USER"))
	require.NoError(t, os.Unsetenv("PORT"))
	// The environment wins over the file
	t.Setenv("PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "mariadb", cfg.DBType)
	assert.Equal(t, "3306", cfg.DBPort)
	assert.Equal(t, "file-user", cfg.DBUser)
	assert.Equal(t, "9090", cfg.Port)
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{DBType: "sqlite", DBDatabase: "x.db", SessionTTLHours: 1}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"valid", func(*Config) {}, ""},
		{"unknown type", func(c *Config) { c.DBType = "oracle" }, "unsupported DB_TYPE"},
		{"server needs user", func(c *Config) { c.DBType = "mysql" }, "DB_USER is required"},
		{"database required", func(c *Config) { c.DBDatabase = "" }, "DB_DATABASE is required"},
		{"short admin password", func(c *Config) { c.AdminUsername = "root"; c.AdminPassword = "short" }, "ADMIN_PASSWORD"},
		{"ttl", func(c *Config) { c.SessionTTLHours = 0 }, "SESSION_TTL_HOURS"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
