// Package admin implements the operator commands of the admin binary.
package admin

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/todoauth/internal/common"
	"github.com/dmitrijs2005/todoauth/internal/server/models"
	"github.com/spf13/cobra"
)

type AccountCreator interface {
	Signup(ctx context.Context, email, password string) (*models.AccountInfo, error)
}

// Backend is the storage the admin commands operate on.
type Backend interface {
	Migrate(ctx context.Context) error
	Accounts() AccountCreator
	Close() error
}

// Opener connects to the backend once a command has been chosen, so -h and
// usage errors never touch the database.
type Opener func(ctx context.Context) (Backend, error)

// NewRootCmd creates the root command of the admin CLI.
//
// Unknown flags are tolerated: the server configuration flags (-d, -c, -e
// and friends) share the command line and are read by the config loader.
func NewRootCmd(open Opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:                "admin",
		Short:              "Operator tools for the todoauth server",
		SilenceUsage:       true,
		FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
	}

	cmd.AddCommand(NewCreateAccountCmd(open))
	cmd.AddCommand(NewMigrateCmd(open))

	return cmd
}

// NewCreateAccountCmd creates the create-account subcommand.
func NewCreateAccountCmd(open Opener) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:                "create-account --email <address>",
		Short:              "Register an account, prompting for its password",
		Args:               cobra.NoArgs,
		FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			b, err := open(ctx)
			if err != nil {
				return err
			}
			defer b.Close()

			if err := b.Migrate(ctx); err != nil {
				return fmt.Errorf("migrations failed: %w", err)
			}

			return CreateAccount(ctx, cmd.OutOrStdout(), b.Accounts(), email)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:                "migrate",
		Short:              "Apply pending database migrations",
		Args:               cobra.NoArgs,
		FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			b, err := open(ctx)
			if err != nil {
				return err
			}
			defer b.Close()

			if err := b.Migrate(ctx); err != nil {
				return fmt.Errorf("migrations failed: %w", err)
			}

			cmd.Println("Migrations completed successfully")
			return nil
		},
	}
}

// CreateAccount prompts for the password and registers email.
func CreateAccount(ctx context.Context, w io.Writer, accounts AccountCreator, email string) error {
	password, err := ReadNewPassword(w)
	if err != nil {
		return err
	}

	info, err := accounts.Signup(ctx, email, password)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrEmailTaken):
			return fmt.Errorf("account %s already exists", email)
		case errors.Is(err, common.ErrPasswordTooShort):
			return fmt.Errorf("password must be at least %d characters", common.MinPasswordLength)
		case errors.Is(err, common.ErrPasswordTooLong):
			return fmt.Errorf("password must be at most %d bytes", common.MaxPasswordBytes)
		}
		return fmt.Errorf("error creating account: %w", err)
	}

	_, err = fmt.Fprintf(w, "Created account %s (%s)\n", info.ID, info.Email)
	return err
}
