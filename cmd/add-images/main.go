// Command add-images registers files already sitting in the uploads
// directory as image rows, then migrates them to the asset host.
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
	var skipMigrate, dryRun bool
	var dir, backupPath string
	flag.StringVar(&dir, "dir", "", "uploads directory to scan (default UPLOADS_DIR)")
	flag.BoolVar(&skipMigrate, "skip-migrate", false, "only register rows, do not upload")
	flag.BoolVar(&dryRun, "dry-run", false, "run the migration step as a dry run")
	flag.StringVar(&backupPath, "backup", assets.DefaultBackupFile, "backup file path")
	flag.Parse()

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if dir == "" {
		dir = cfg.UploadsDir
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	database, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer database.Close()
	st := store.New(database)

	report, err := assets.ScanUploads(ctx, st, dir, "uploads")
	if err != nil {
		log.Fatalf("scan: %v", err)
	}
	fmt.Printf("Registered %d images, %d already known, %d failed\n", report.Added, report.Skipped, len(report.Failed))
	for _, failure := range report.Failed {
		fmt.Printf("  %s\n", failure)
	}
	if skipMigrate {
		return
	}

	var uploader assets.Uploader
	if !dryRun {
		uploader, err = assets.NewUploader(cfg)
		if err != nil {
			log.Fatalf("uploader: %v", err)
		}
	}
	backup, err := assets.NewMigrator(st, uploader, cfg.PublicDir, cfg.CloudinaryFolder, backupPath).Run(ctx, dryRun)
	if err != nil {
		log.Fatalf("migrate: %v", err)
	}
	fmt.Printf("Migrated %d files, %d failed\n", len(backup.MigratedFiles), len(backup.FailedMigrations))
}
