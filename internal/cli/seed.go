// Package cli implements the one-shot maintenance commands of the storyarc
// binary. Each command parses its own flags and opens the database itself.
package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/storyarc/storyarc/internal/config"
	"github.com/storyarc/storyarc/internal/database"
	"github.com/storyarc/storyarc/internal/database/books"
	"github.com/storyarc/storyarc/internal/database/genres"
	"github.com/storyarc/storyarc/internal/database/tutorials"
	"github.com/storyarc/storyarc/internal/seed"
	"github.com/storyarc/storyarc/internal/services"
)

type SeedCommand struct {
	File         string
	DatabasePath string
}

func NewSeedCommand() *SeedCommand {
	return &SeedCommand{}
}

func (cmd *SeedCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("seed", flag.ExitOnError)

	fs.StringVar(&cmd.File, "file", "", "YAML catalog with genres, books and tutorials (required)")
	fs.StringVar(&cmd.DatabasePath, "db", databasePathDefault(), "Path to the database file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s seed [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Load a catalog into the database. Entries that already exist are skipped.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s seed -file catalog.yaml\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s seed -file catalog.yaml -db ./data/storyarc.db\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.File == "" {
		fs.Usage()
		return fmt.Errorf("file is required")
	}

	return nil
}

func (cmd *SeedCommand) Run() error {
	catalog, err := seed.ParseFile(cmd.File)
	if err != nil {
		return err
	}

	db, err := database.NewQuietDatabase(cmd.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	tutorialRepo := tutorials.NewRepository(db.DB)
	loader := seed.NewLoader(
		genres.NewRepository(db.DB),
		books.NewRepository(db.DB),
		tutorialRepo,
		services.NewTutorialService(tutorialRepo),
	)

	result, err := loader.Load(catalog)
	fmt.Printf("\n=== Seed Results ===\n")
	fmt.Printf("Genres:    %d created, %d existing\n", result.GenresCreated, result.GenresExisting)
	fmt.Printf("Books:     %d created, %d existing\n", result.BooksCreated, result.BooksExisting)
	fmt.Printf("Tutorials: %d created, %d existing\n", result.TutorialsCreated, result.TutorialsExisting)
	if err != nil {
		return fmt.Errorf("seed stopped early: %w", err)
	}
	return nil
}

// databasePathDefault honours DATABASE_PATH so commands hit the same file
// as the server.
func databasePathDefault() string {
	return config.NewConfig().Database.Path
}
