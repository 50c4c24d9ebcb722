package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kantoorhq/kantoor/pkg/authn"
	"github.com/kantoorhq/kantoor/pkg/db"
	gormstore "github.com/kantoorhq/kantoor/pkg/server/store/gorm"
)

// orgCreateCmd represents the org create command
var orgCreateCmd = &cobra.Command{
	Use:   "create <slug>",
	Short: "Create an organization",
	Long: `Create an organization tenant.

This command provisions a tenant with its four seeded roles (admin, manager,
member, viewer) and an admin user. The admin's initial password is printed
to stdout; it should be changed after the first login.

The domain is used to route SSO logins: Azure AD users whose email matches
it are provisioned into this organization.

Example:
  kantoorctl org create acme
  kantoorctl org create acme --name "Acme B.V." --domain acme.example
  kantoorctl org create acme --admin-email it@acme.example`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		slug := args[0]
		name, _ := cmd.Flags().GetString("name")
		domain, _ := cmd.Flags().GetString("domain")
		adminEmail, _ := cmd.Flags().GetString("admin-email")
		adminName, _ := cmd.Flags().GetString("admin-name")

		if name == "" {
			name = slug
		}
		if adminEmail == "" {
			if domain == "" {
				fmt.Fprintln(os.Stderr, "either --admin-email or --domain is required")
				os.Exit(1)
			}
			adminEmail = "admin@" + domain
		}
		if adminName == "" {
			adminName = "Admin"
		}

		password, err := createOrg(name, slug, domain, adminEmail, adminName)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create organization: %v\n", err)
			os.Exit(1)
		}

		fmt.Fprintf(os.Stderr, "Created organization '%s'\n", slug)
		fmt.Fprintf(os.Stderr, "Admin user: %s\n", adminEmail)
		fmt.Printf("Initial admin password: %s\n", password)
	},
}

func init() {
	orgCmd.AddCommand(orgCreateCmd)
	orgCreateCmd.Flags().StringP("name", "n", "", "Display name (default: the slug)")
	orgCreateCmd.Flags().StringP("domain", "d", "", "Primary email domain")
	orgCreateCmd.Flags().String("admin-email", "", "Admin email (default: admin@<domain>)")
	orgCreateCmd.Flags().String("admin-name", "", "Admin display name")
}

func createOrg(name, slug, domain, adminEmail, adminName string) (string, error) {
	database, err := db.Connect(db.Config{})
	if err != nil {
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

	orgs := gormstore.NewOrgsStore(database)
	if _, err := orgs.ProvisionOrg(name, slug, domain, adminEmail, adminName, hash); err != nil {
		return "", err
	}

	return password, nil
}
