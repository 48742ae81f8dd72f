// containers.go
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

package testsupport

import (
	"context"
	"fmt"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"
	"github.com/docker/go-connections/nat"
	"github.com/localnerve/inventario/internal/config"
	"github.com/localnerve/inventario/internal/database"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

const (
	containerStartupTimeout = 90 * time.Second
	readyAttempts           = 30
)

// ContainerOptions select the database server to start
type ContainerOptions struct {
	// DBType is postgres or mariadb
	DBType   string
	Image    string
	Database string
	User     string
	Password string
}

// DBContainer is a running disposable database server
type DBContainer struct {
	Container testcontainers.Container
	// Config points at the mapped host port
	Config *config.Config
}

// DockerAvailable reports an error when no docker daemon answers.
func DockerAvailable(ctx context.Context) error {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return fmt.Errorf("docker client: %w", err)
	}
	defer cli.Close()

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := cli.Ping(pingCtx); err != nil {
		return fmt.Errorf("docker daemon not reachable: %w", err)
	}
	return nil
}

func withDefaults(opts ContainerOptions) ContainerOptions {
	if opts.DBType == "" {
		opts.DBType = "postgres"
	}
	if opts.Database == "" {
		opts.Database = "inventario"
	}
	if opts.User == "" {
		opts.User = "inventario"
	}
	if opts.Password == "" {
		opts.Password = "inventario-dev"
	}
	if opts.Image == "" {
		switch opts.DBType {
		case "mariadb", "mysql":
			opts.Image = "mariadb:11"
		default:
			opts.Image = "postgres:17-alpine"
		}
	}
	return opts
}

func containerSpec(opts ContainerOptions) (nat.Port, map[string]string, string, error) {
	switch opts.DBType {
	case "postgres", "postgresql":
		return "5432/tcp", map[string]string{
			"POSTGRES_DB":       opts.Database,
			"POSTGRES_USER":     opts.User,
			"POSTGRES_PASSWORD": opts.Password,
		}, "/var/lib/postgresql/data", nil
	case "mariadb", "mysql":
		return "3306/tcp", map[string]string{
			"MARIADB_DATABASE":      opts.Database,
			"MARIADB_USER":          opts.User,
			"MARIADB_PASSWORD":      opts.Password,
			"MARIADB_ROOT_PASSWORD": opts.Password,
		}, "/var/lib/mysql", nil
	}
	return "", nil, "", fmt.Errorf("unsupported container database type: %s", opts.DBType)
}

// StartDatabase starts a database server container and waits until it
// accepts connections.
func StartDatabase(ctx context.Context, opts ContainerOptions) (*DBContainer, error) {
	opts = withDefaults(opts)
	port, env, dataDir, err := containerSpec(opts)
	if err != nil {
		return nil, err
	}

	dbContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        opts.Image,
			ExposedPorts: []string{string(port)},
			Env:          env,
			WaitingFor:   wait.ForListeningPort(port).WithStartupTimeout(containerStartupTimeout),
			HostConfigModifier: func(hostConfig *container.HostConfig) {
				// Disposable data, keep it in memory
				hostConfig.Tmpfs = map[string]string{dataDir: "rw"}
			},
		},
		Started: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", opts.Image, err)
	}

	host, err := dbContainer.Host(ctx)
	if err != nil {
		_ = dbContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get container host: %w", err)
	}
	mapped, err := dbContainer.MappedPort(ctx, port)
	if err != nil {
		_ = dbContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get mapped port: %w", err)
	}

	cfg := &config.Config{
		Env:               "test",
		DBType:            opts.DBType,
		DBHost:            host,
		DBPort:            mapped.Port(),
		DBDatabase:        opts.Database,
		DBUser:            opts.User,
		DBPassword:        opts.Password,
		DBConnectionLimit: 5,
		SessionTTLHours:   1,
	}
	return &DBContainer{Container: dbContainer, Config: cfg}, nil
}

// Connect opens, migrates and seeds the container database. The listening
// port opens before the server accepts logins, so the first attempts retry.
func (c *DBContainer) Connect(ctx context.Context) (*gorm.DB, error) {
	var lastErr error
	for i := 0; i < readyAttempts; i++ {
		db, err := database.Connect(c.Config)
		if err == nil {
			sqlDB, dbErr := db.DB()
			if dbErr == nil {
				if err = sqlDB.PingContext(ctx); err == nil {
					if err := database.AutoMigrate(db); err != nil {
						return nil, fmt.Errorf("failed to migrate: %w", err)
					}
					if err := database.SeedRoles(ctx, db); err != nil {
						return nil, err
					}
					return db, nil
				}
				_ = sqlDB.Close()
			} else {
				err = dbErr
			}
		}
		lastErr = err

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Second):
		}
	}
	return nil, fmt.Errorf("database not ready after %d attempts: %w", readyAttempts, lastErr)
}

// Terminate stops and removes the container.
func (c *DBContainer) Terminate(ctx context.Context) error {
	if c == nil || c.Container == nil {
		return nil
	}
	return c.Container.Terminate(ctx)
}
