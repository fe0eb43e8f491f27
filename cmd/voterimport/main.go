// Command voterimport loads the eligible-voter ledger from a CSV file
// straight into Postgres. It exists so the roll can be seeded before the
// server is up, and re-run safely: duplicate registration numbers are
// skipped, not errors.
//
// Usage:
//
//	voterimport -file voters.csv
//
// Connection settings come from DATABASE_URL, with an optional .env file.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"

	"rollcall/internal/audit"
	"rollcall/internal/platform/postgres"
	"rollcall/internal/voterroll"
	id "rollcall/pkg/domain"
)

func main() {
	file := flag.String("file", "", "path to the voters CSV (reg_no,name,constituency,email)")
	dsn := flag.String("dsn", "", "Postgres connection string (defaults to DATABASE_URL)")
	flag.Parse()

	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	if *file == "" {
		flag.Usage()
		os.Exit(2)
	}
	databaseURL := *dsn
	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is not set and -dsn was not given")
	}

	db, err := postgres.Open(databaseURL)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer db.Close()
	if err := postgres.EnsureSchema(db); err != nil {
		log.Fatalf("schema: %v", err)
	}

	f, err := os.Open(*file)
	if err != nil {
		log.Fatalf("open csv: %v", err)
	}
	defer f.Close()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	store := voterroll.NewPostgresStore(db)
	auditStore := audit.NewPostgresStore(db)

	// The CLI bypasses the async pipeline: one run, one synchronous worker
	// drain, so the import audit entry is durable before the process exits.
	publisher := audit.NewPublisher(16, logger)
	importer := voterroll.NewImporter(store, publisher)

	ctx := context.Background()
	result, err := importer.Import(ctx, id.UserID{}, f)
	if err != nil {
		color.Red("import failed: %v", err)
		os.Exit(1)
	}
	drainAudit(ctx, publisher, auditStore, logger)

	color.Cyan("\n=== Voter Roll Import ===")
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Imported", "Skipped", "Errors"})
	table.Append([]string{
		strconv.Itoa(result.Imported),
		strconv.Itoa(result.Skipped),
		strconv.Itoa(len(result.Errors)),
	})
	table.Render()

	if len(result.Errors) > 0 {
		color.Yellow("\nRows with problems:")
		for _, line := range result.Errors {
			fmt.Println("  " + line)
		}
	}
	if result.Imported > 0 {
		color.Green("\nDone: %d voters on the roll.", result.Imported)
	} else {
		color.Yellow("\nNo new voters imported.")
	}
}

// drainAudit persists whatever the import emitted before exit.
func drainAudit(ctx context.Context, publisher *audit.Publisher, store audit.Store, logger *slog.Logger) {
	for {
		select {
		case event := <-publisher.Inbox():
			if err := store.Append(ctx, event); err != nil {
				logger.Error("audit append failed", "error", err)
			}
		default:
			return
		}
	}
}
