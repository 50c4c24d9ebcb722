package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kantoorhq/kantoor/pkg/config"
	"github.com/kantoorhq/kantoor/pkg/db"
	"github.com/kantoorhq/kantoor/pkg/devicesync"
	"github.com/kantoorhq/kantoor/pkg/msgraph"
	"github.com/kantoorhq/kantoor/pkg/server/store"
	gormstore "github.com/kantoorhq/kantoor/pkg/server/store/gorm"
)

// syncCmd represents the sync command
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run external synchronizations",
	Long:  `Run synchronizations against external systems.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'sync' requires a subcommand (devices)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

// syncDevicesCmd represents the sync devices command
var syncDevicesCmd = &cobra.Command{
	Use:   "devices <org-slug>",
	Short: "Sync managed devices from Microsoft Intune",
	Long: `Sync managed devices from Microsoft Intune into the asset inventory.

Devices are matched by Intune device ID. New devices become assets, known
ones are refreshed, and assignments follow the device's enrolled user. The
sync is idempotent; running it twice changes nothing the second time.

Requires the Azure AD credentials in the configuration.

Example:
  kantoorctl sync devices acme`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		slug := args[0]

		report, err := syncDevices(cmd.Context(), slug)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Device sync failed: %v\n", err)
			os.Exit(1)
		}

		output, _ := json.MarshalIndent(report, "", "  ")
		fmt.Println(string(output))
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
	syncCmd.AddCommand(syncDevicesCmd)
}

func syncDevices(ctx context.Context, slug string) (*devicesync.Report, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if !cfg.AzureConfigured() {
		return nil, fmt.Errorf("azure ad is not configured")
	}

	database, err := db.Connect(db.Config{})
	if err != nil {
		return nil, err
	}

	orgs := gormstore.NewOrgsStore(database)
	org, err := orgs.GetOrgBySlug(slug)
	if err != nil {
		if err == store.ErrOrgNotFound {
			return nil, fmt.Errorf("organization '%s' does not exist", slug)
		}
		return nil, err
	}

	graph := msgraph.NewClient(msgraph.Config{
		TenantID:     cfg.AzureTenantID,
		ClientID:     cfg.AzureClientID,
		ClientSecret: cfg.AzureClientSecret,
	})
	syncer := &devicesync.Syncer{
		Devices:       graph,
		Assets:        gormstore.NewAssetsStore(database),
		People:        gormstore.NewPeopleStore(database),
		DeleteOrphans: cfg.SyncDeleteOrphans,
		Logger:        newLogger().Named("devicesync"),
	}

	return syncer.Run(ctx, org.ID, "kantoorctl")
}
