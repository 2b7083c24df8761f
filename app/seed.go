package app

import (
	"context"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/tourmarket/tourmarket/internal/daemon"
	"github.com/tourmarket/tourmarket/internal/db"
)

func init() { //nolint: gochecknoinits
	seedCmd.Flags().BoolVar(&resetPermissions, "reset-permissions", false, "Overwrite role permissions with the defaults")
	addClientCmd.Flags().StringVar(&clientName, "name", "tourmarket", "Application name")
	addClientCmd.Flags().StringVar(&redirectURI, "redirect-uri", "", "Registered callback URI")

	rootCmd.AddCommand(seedCmd, addClientCmd)
}

var (
	clientName       string
	redirectURI      string
	resetPermissions bool

	seedCmd = &cobra.Command{
		Use:     "seed",
		Short:   "Create the built-in roles, their permissions and a default application",
		PreRunE: loadConfig,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDB(cmd.Context(), func(ctx context.Context, gdb *gorm.DB) error {
				if err := daemon.Seed(ctx, gdb); err != nil {
					return err
				}

				if resetPermissions {
					if err := daemon.ResetPermissions(ctx, gdb); err != nil {
						return err
					}
				}

				client, err := daemon.EnsureClient(ctx, gdb, clientName)
				if err != nil {
					return err
				}

				if client != nil {
					printClient(cmd, client)
				}

				return nil
			})
		},
	}

	addClientCmd = &cobra.Command{
		Use:     "add-client",
		Short:   "Register an OAuth application and print its credentials",
		PreRunE: loadConfig,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDB(cmd.Context(), func(ctx context.Context, gdb *gorm.DB) error {
				client, err := daemon.AddClient(ctx, gdb, clientName, redirectURI)
				if err != nil {
					return err
				}

				printClient(cmd, client)

				return nil
			})
		},
	}
)

// withDB opens the configured database for the duration of fn.
func withDB(ctx context.Context, fn func(ctx context.Context, gdb *gorm.DB) error) error {
	if ctx == nil {
		ctx = context.Background()
	}

	gdb, err := daemon.OpenDB(&cfg)
	if err != nil {
		return err
	}

	defer func() {
		_ = db.Close(gdb)
	}()

	return fn(ctx, gdb)
}

func printClient(cmd *cobra.Command, client *daemon.Client) {
	cmd.Printf("client_id:     %s\n", client.Application.ClientID)
	cmd.Printf("client_secret: %s\n", client.Secret)
}
