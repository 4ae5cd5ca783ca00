// Command dbcheck verifies the database is reachable and reports pending
// schema migrations.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"eventhubble-backend-go/internal/config"
	"eventhubble-backend-go/internal/db"
	"eventhubble-backend-go/internal/migrations"
	"eventhubble-backend-go/internal/store"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	database, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer database.Close()

	st := store.New(database)
	if res := st.Ping(ctx); !res.Success {
		fmt.Printf("database: FAIL (%s)\n", res.Error)
		os.Exit(1)
	}
	fmt.Println("database: ok")

	pending, err := migrations.Pending(ctx, database, migrations.Files())
	if err != nil {
		fmt.Printf("migrations: unknown (%v)\n", err)
		os.Exit(1)
	}
	if len(pending) == 0 {
		fmt.Println("migrations: up to date")
		return
	}
	fmt.Printf("migrations: %d pending\n", len(pending))
	for _, mig := range pending {
		fmt.Printf("  %s\n", mig.Name)
	}
	os.Exit(2)
}
