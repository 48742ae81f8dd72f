// main.go
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

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/localnerve/inventario/internal/database"
	"github.com/localnerve/inventario/internal/logging"
	"github.com/localnerve/inventario/internal/services"
	"github.com/localnerve/inventario/internal/testsupport"
)

func main() {
	var showHelp bool
	flag.BoolVar(&showHelp, "h", false, "show help")

	var envFilename string
	flag.StringVar(&envFilename, "f", "", "path to the .env file")

	var dbType string
	flag.StringVar(&dbType, "type", "postgres", "postgres or mariadb")
	flag.Parse()

	usage := `
Start a disposable development database and print the variables the server
needs to use it. The database is removed on exit.

Usage:

devdb [-h] [-f ENV_FILE_PATH] [-type postgres|mariadb]

ENV_FILE_PATH: path to a .env file with DB_IMAGE, DB_DATABASE, DB_USER,
DB_PASSWORD, ADMIN_USERNAME and ADMIN_PASSWORD overrides

example
  devdb -f /path/to/something/.env -type mariadb
`
	// if -h flag print usage and return
	if showHelp {
		fmt.Println(usage)
		return
	}

	logging.Init(true)
	log := logging.Logger()

	if envFilename != "" {
		log.Info().Str("file", envFilename).Msg("loading environment variables")
		if err := godotenv.Load(envFilename); err != nil {
			log.Fatal().Err(err).Msg("failed to load environment variables")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	dbContainer, err := testsupport.StartDatabase(ctx, testsupport.ContainerOptions{
		DBType:   dbType,
		Image:    os.Getenv("DB_IMAGE"),
		Database: os.Getenv("DB_DATABASE"),
		User:     os.Getenv("DB_USER"),
		Password: os.Getenv("DB_PASSWORD"),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start database container")
	}
	defer func() {
		terminateCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := dbContainer.Terminate(terminateCtx); err != nil {
			log.Error().Err(err).Msg("failed to terminate database container")
		}
	}()

	db, err := dbContainer.Connect(ctx)
	if err != nil {
		log.Error().Err(err).Msg("database did not become ready")
		return
	}
	if username := os.Getenv("ADMIN_USERNAME"); username != "" {
		if err := services.EnsureAdmin(ctx, db, username, os.Getenv("ADMIN_PASSWORD")); err != nil {
			log.Error().Err(err).Msg("failed to create admin")
		}
	}
	_ = database.Close(db)

	cfg := dbContainer.Config
	fmt.Printf("DB_TYPE=%s\nDB_HOST=%s\nDB_PORT=%s\nDB_DATABASE=%s\nDB_USER=%s\nDB_PASSWORD=%s\n",
		cfg.DBType, cfg.DBHost, cfg.DBPort, cfg.DBDatabase, cfg.DBUser, cfg.DBPassword)

	<-ctx.Done()
	log.Info().Msg("received signal, terminating database container")
}
