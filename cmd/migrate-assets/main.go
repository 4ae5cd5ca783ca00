// Command migrate-assets uploads locally stored logos and images to the
// configured asset host and rewrites their paths, or undoes a previous run.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"eventhubble-backend-go/internal/assets"
	"eventhubble-backend-go/internal/config"
	"eventhubble-backend-go/internal/db"
	"eventhubble-backend-go/internal/store"
)

func main() {
	var dryRun, rollback bool
	var backupPath string
	flag.BoolVar(&dryRun, "dry-run", false, "list what would be migrated without uploading or writing")
	flag.BoolVar(&dryRun, "d", false, "shorthand for -dry-run")
	flag.BoolVar(&rollback, "rollback", false, "restore the paths recorded in the backup file")
	flag.BoolVar(&rollback, "r", false, "shorthand for -rollback")
	flag.StringVar(&backupPath, "backup", assets.DefaultBackupFile, "backup file path")
	flag.Parse()

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	database, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer database.Close()
	st := store.New(database)

	if rollback {
		restored, err := assets.NewMigrator(st, nil, cfg.PublicDir, cfg.CloudinaryFolder, backupPath).Rollback(ctx)
		fmt.Printf("Restored %d paths from %s\n", restored, backupPath)
		if err != nil {
			log.Fatalf("rollback: %v", err)
		}
		return
	}

	var uploader assets.Uploader
	if !dryRun {
		uploader, err = assets.NewUploader(cfg)
		if err != nil {
			log.Fatalf("uploader: %v", err)
		}
	}
	migrator := assets.NewMigrator(st, uploader, cfg.PublicDir, cfg.CloudinaryFolder, backupPath)
	backup, err := migrator.Run(ctx, dryRun)
	if err != nil {
		log.Fatalf("migrate: %v", err)
	}
	printSummary(backup, dryRun, backupPath)
}

func printSummary(backup assets.Backup, dryRun bool, backupPath string) {
	verb := "Migrated"
	if dryRun {
		verb = "Would migrate"
	}
	fmt.Printf("%s %d files, %d failed\n", verb, len(backup.MigratedFiles), len(backup.FailedMigrations))
	for _, failed := range backup.FailedMigrations {
		fmt.Printf("  %s %d (%s): %s\n", failed.Type, failed.ID, failed.FilePath, failed.Error)
	}
	if !dryRun {
		fmt.Printf("Backup written to %s\n", backupPath)
	}
}
