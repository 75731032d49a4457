// Command import loads daily check-in history from an .xlsx or .csv
// export into the database.
//
// Usage: import -user <user-id> -file history.xlsx
package main

import (
	"context"
	"flag"
	"log"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"suppsignal/adapters/excel"
	"suppsignal/adapters/postgres"
	"suppsignal/domain/core"
	"suppsignal/internal/config"
	"suppsignal/internal/logging"
)

func main() {
	_ = godotenv.Load()

	userFlag := flag.String("user", "", "user id to import entries for")
	fileFlag := flag.String("file", "", "path to .xlsx or .csv export")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	file := *fileFlag
	if file == "" {
		file = cfg.Import.CheckinFile
	}
	if *userFlag == "" || file == "" {
		log.Fatal("both -user and -file (or CHECKIN_FILE) are required")
	}
	userID, err := core.ParseUserID(*userFlag)
	if err != nil {
		log.Fatalf("invalid user: %v", err)
	}

	logger := logging.NewDefaultLogger()
	entries, err := excel.NewCheckinReader(file, logger).Read(userID)
	if err != nil {
		log.Fatalf("read: %v", err)
	}

	ctx := context.Background()
	db, err := sqlx.ConnectContext(ctx, "postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	if err := postgres.Migrate(ctx, db); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	if err := postgres.NewCheckinRepository(db).UpsertEntries(ctx, entries); err != nil {
		log.Fatalf("upsert: %v", err)
	}
	logger.Info("imported %d entries for user %s", len(entries), userID)
}
