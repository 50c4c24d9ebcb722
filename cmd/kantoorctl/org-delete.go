package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kantoorhq/kantoor/pkg/db"
	"github.com/kantoorhq/kantoor/pkg/server/store"
	gormstore "github.com/kantoorhq/kantoor/pkg/server/store/gorm"
)

// orgDeleteCmd represents the org delete command
var orgDeleteCmd = &cobra.Command{
	Use:   "delete <slug>",
	Short: "Delete an organization",
	Long: `Delete an organization and all its data.

This removes the tenant's users, people, teams, assets, security records,
documents and workflows. There is no undo.

Example:
  kantoorctl org delete acme`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		slug := args[0]

		if err := deleteOrg(slug); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to delete organization: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Deleted organization '%s'\n", slug)
	},
}

func init() {
	orgCmd.AddCommand(orgDeleteCmd)
}

func deleteOrg(slug string) error {
	database, err := db.Connect(db.Config{})
	if err != nil {
		return err
	}

	orgs := gormstore.NewOrgsStore(database)
	org, err := orgs.GetOrgBySlug(slug)
	if err != nil {
		if err == store.ErrOrgNotFound {
			return fmt.Errorf("organization '%s' does not exist", slug)
		}
		return err
	}

	return orgs.DeleteOrg(org)
}
