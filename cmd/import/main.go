package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/uptrace/bun"

	_ "github.com/mattn/go-sqlite3"

	"github.com/wisatago/tourcms"
	"github.com/wisatago/tourcms/internal/catalog"
	"github.com/wisatago/tourcms/internal/settings"
	"github.com/wisatago/tourcms/internal/storage"
)

var moduleBuilder = buildModule

func main() {
	if err := runImport(os.Args[1:]); err != nil {
		log.Fatalf("content import: %v", err)
	}
}

func runImport(args []string) error {
	fs := flag.NewFlagSet("tourcms-import", flag.ExitOnError)
	contentDir := fs.String("content-dir", "content", "Path to the markdown content root")
	pattern := fs.String("pattern", "*.md", "Glob pattern applied when discovering markdown files")
	siteURL := fs.String("site-url", "http://localhost:3000", "Public site base URL")
	dsn := fs.String("dsn", "file:tourcms.db?_fk=1", "SQLite DSN for the catalog database")
	translate := fs.Bool("translate", false, "Run a translation pass after import")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := tourcms.DefaultConfig()
	cfg.SiteURL = *siteURL
	cfg.Storage.DSN = *dsn
	cfg.Features.Markdown = true
	cfg.Markdown.Enabled = true
	cfg.Markdown.ContentDir = *contentDir
	cfg.Markdown.Pattern = *pattern

	module, err := moduleBuilder(cfg)
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}

	ctx := context.Background()

	if *translate {
		if _, err := module.Settings().Upsert(ctx, settings.Settings{
			AutoTranslateEnabled: true,
			TranslateOnImport:    true,
		}); err != nil {
			return fmt.Errorf("store settings: %w", err)
		}
	}

	result, err := module.ImportMarkdown(ctx, os.DirFS(*contentDir), ".")
	if err != nil {
		return fmt.Errorf("import markdown: %w", err)
	}

	fmt.Printf("created: %d\n", len(result.CreatedIDs))
	fmt.Printf("updated: %d\n", len(result.UpdatedIDs))
	fmt.Printf("skipped: %d\n", len(result.SkippedIDs))
	for _, importErr := range result.Errors {
		fmt.Printf("error: %v\n", importErr)
	}
	return nil
}

func buildModule(cfg tourcms.Config) (*tourcms.Module, error) {
	sqlDB, err := sql.Open("sqlite3", cfg.Storage.DSN)
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	bunDB, err := storage.NewDB(sqlDB, storage.DriverSQLite)
	if err != nil {
		return nil, err
	}
	if err := prepareSchema(bunDB); err != nil {
		return nil, err
	}
	return tourcms.New(cfg,
		tourcms.WithDB(bunDB),
		tourcms.WithSettingsRepository(settings.NewBunRepository(bunDB)),
	)
}

func prepareSchema(db *bun.DB) error {
	ctx := context.Background()
	if err := catalog.CreateTables(ctx, db); err != nil {
		return err
	}
	return settings.CreateTable(ctx, db)
}
