package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"taskboard/internal/config"
	"taskboard/internal/db"
	"taskboard/internal/repository"
)

// Prepares storage for the configured driver: SQL migrations for postgres,
// indexes for mongo. Without -apply it only lists what would run.
func main() {
	apply := flag.Bool("apply", false, "apply migrations / create indexes")
	migDir := flag.String("dir", filepath.Join("internal", "migrations"), "postgres migrations dir")
	flag.Parse()

	cfg := config.Load()
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	switch cfg.StorageDriver {
	case config.DriverPostgres:
		pool := db.ConnectPostgres(cfg.DatabaseURL)
		defer pool.Close()

		files, err := os.ReadDir(*migDir)
		if err != nil {
			log.Fatalf("read migrations dir: %v", err)
		}
		for _, f := range files {
			name := f.Name()
			if filepath.Ext(name) != ".sql" {
				continue
			}
			if !*apply {
				fmt.Println(name)
				continue
			}
			b, err := os.ReadFile(filepath.Join(*migDir, name))
			if err != nil {
				log.Fatalf("read file %s: %v", name, err)
			}
			if _, err := pool.Exec(ctx, string(b)); err != nil {
				log.Fatalf("failed to apply %s: %v", name, err)
			}
			fmt.Printf("applied %s\n", name)
		}

	case config.DriverMongo:
		if !*apply {
			fmt.Println("users.email_unique")
			fmt.Println("tasks.assigned_to")
			return
		}
		mdb := db.ConnectMongo(cfg.MongoURI, cfg.MongoDB)
		defer mdb.Client().Disconnect(context.Background())

		if err := repository.NewUserRepository(mdb).EnsureIndexes(ctx); err != nil {
			log.Fatalf("users indexes: %v", err)
		}
		if err := repository.NewTaskRepository(mdb).EnsureIndexes(ctx); err != nil {
			log.Fatalf("tasks indexes: %v", err)
		}
		fmt.Println("indexes ensured")

	default:
		fmt.Printf("nothing to migrate for driver %q\n", cfg.StorageDriver)
	}
}
