package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/storyarc/storyarc/internal/auth"
	"github.com/storyarc/storyarc/internal/config"
	"github.com/storyarc/storyarc/internal/database"
	"github.com/storyarc/storyarc/internal/database/users"
)

type CreateAdminCommand struct {
	Name         string
	Email        string
	Password     string
	DatabasePath string
}

func NewCreateAdminCommand() *CreateAdminCommand {
	return &CreateAdminCommand{}
}

func (cmd *CreateAdminCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("create-admin", flag.ExitOnError)

	fs.StringVar(&cmd.Name, "name", "", "Display name, used when the account is new")
	fs.StringVar(&cmd.Email, "email", "", "Email of the administrator (required)")
	fs.StringVar(&cmd.Password, "password", "", "Password of the administrator (required)")
	fs.StringVar(&cmd.DatabasePath, "db", databasePathDefault(), "Path to the database file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s create-admin [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Create an administrator, or promote an existing account and reset its password.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExample:\n")
		fmt.Fprintf(os.Stderr, "  %s create-admin -name Ada -email ada@example.com -password 'S3cure!pass'\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.Email == "" || cmd.Password == "" {
		fs.Usage()
		return fmt.Errorf("email and password are required")
	}

	return nil
}

func (cmd *CreateAdminCommand) Run() error {
	db, err := database.NewQuietDatabase(cmd.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	cfg := config.NewConfig()
	// the admin never receives a token here, so any secret will do
	tokens, err := auth.NewTokenIssuer("create-admin", cfg.Auth.TokenExpiry)
	if err != nil {
		return err
	}
	service := auth.NewService(users.NewRepository(db.DB), tokens, cfg.Auth)

	user, created, err := service.EnsureAdmin(cmd.Name, cmd.Email, cmd.Password)
	if err != nil {
		return err
	}
	if created {
		fmt.Printf("Created administrator %s (id %d)\n", user.Email, user.ID)
	} else {
		fmt.Printf("Promoted %s (id %d) to administrator\n", user.Email, user.ID)
	}
	return nil
}
