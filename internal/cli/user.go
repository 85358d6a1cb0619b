package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"neowatch/internal/repository"
	"neowatch/pkg/database"

	"github.com/spf13/cobra"
)

func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage watchlist owners",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <username>",
		Short: "Create a user, or print the existing one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			defer log.Sync()

			db, err := database.Connect(database.Config{
				Host:     cfg.DB.Host,
				Port:     cfg.DB.Port,
				User:     cfg.DB.User,
				Password: cfg.DB.Password,
				DBName:   cfg.DB.DBName,
				SSLMode:  cfg.DB.SSLMode,
			})
			if err != nil {
				return err
			}
			defer database.Close(db)

			if err := database.Migrate(db); err != nil {
				return err
			}

			return runUserAdd(cmd.Context(), cmd.OutOrStdout(), repository.NewUserRepository(db), args[0])
		},
	})

	return cmd
}

func runUserAdd(ctx context.Context, out io.Writer, users repository.UserRepository, username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return fmt.Errorf("username must not be empty")
	}

	user, created, err := users.Ensure(ctx, username)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	if created {
		fmt.Fprintf(out, "Created user %q with id %d\n", user.Username, user.ID)
	} else {
		fmt.Fprintf(out, "User %q already exists with id %d\n", user.Username, user.ID)
	}
	return nil
}
