package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kantoorhq/kantoor/pkg/authn"
	"github.com/kantoorhq/kantoor/pkg/db"
	"github.com/kantoorhq/kantoor/pkg/server/store"
	gormstore "github.com/kantoorhq/kantoor/pkg/server/store/gorm"
)

// userResetPasswordCmd represents the user reset-password command
var userResetPasswordCmd = &cobra.Command{
	Use:   "reset-password <email>",
	Short: "Reset a user's password",
	Long: `Reset the password for a user account.

A fresh random password is generated and printed to stdout. SSO-only
accounts gain a password and can then also log in locally.

Example:
  kantoorctl user reset-password admin@acme.example`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		email := args[0]

		password, err := resetPassword(email)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to reset password for %s: %v\n", email, err)
			os.Exit(1)
		}
		fmt.Println(password)
	},
}

func init() {
	userCmd.AddCommand(userResetPasswordCmd)
}

func resetPassword(email string) (string, error) {
	database, err := db.Connect(db.Config{})
	if err != nil {
		return "", err
	}

	users := gormstore.NewUsersStore(database)
	user, err := users.GetUserByEmail(email)
	if err != nil {
		if err == store.ErrUserNotFound {
			return "", fmt.Errorf("user not found: %s", email)
		}
		return "", err
	}

	password, err := authn.GeneratePassword()
	if err != nil {
		return "", fmt.Errorf("failed to generate password: %w", err)
	}
	hash, err := authn.HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	if err := users.SetPassword(user.ID, hash); err != nil {
		return "", fmt.Errorf("failed to update password: %w", err)
	}

	return password, nil
}
