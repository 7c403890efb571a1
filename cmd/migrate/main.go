package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"socialnet/internal/migrate"
	"socialnet/internal/store/sqlite"
)

func main() {
	dbPath := flag.String("db", envOr("DATABASE_PATH", "socialnet.db"), "path to the SQLite database file")
	flag.Parse()

	cmd := flag.Arg(0)
	if cmd == "" {
		cmd = "status"
	}

	db, err := sqlite.Open(*dbPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	runner := migrate.NewRunner(db)
	ctx := context.Background()

	switch cmd {
	case "up":
		applied, err := runner.Migrate(ctx)
		if err != nil {
			log.Fatalf("migrate failed: %v", err)
		}
		fmt.Printf("applied %d migration(s)\n", applied)
	case "down":
		name, err := runner.Rollback(ctx)
		if err != nil {
			log.Fatalf("rollback failed: %v", err)
		}
		if name == "" {
			fmt.Println("nothing to roll back")
		} else {
			fmt.Printf("rolled back %s\n", name)
		}
	case "status":
		report, err := runner.Status(ctx)
		if err != nil {
			log.Fatalf("status failed: %v", err)
		}
		for _, m := range report.Migrations {
			state := "pending"
			if m.Applied {
				state = "applied"
			}
			fmt.Printf("%-45s %s\n", m.Name, state)
		}
		fmt.Printf("%d applied, %d pending\n", report.Applied, report.Pending)
	default:
		fmt.Fprintf(os.Stderr, "usage: migrate [-db path] up|down|status\n")
		os.Exit(2)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
