package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/kantoorhq/kantoor/pkg/db"
	"github.com/kantoorhq/kantoor/pkg/model"
	"github.com/kantoorhq/kantoor/pkg/server/store"
	gormstore "github.com/kantoorhq/kantoor/pkg/server/store/gorm"
	"github.com/kantoorhq/kantoor/pkg/workflow"
)

// templateLoadCmd represents the template load command
var templateLoadCmd = &cobra.Command{
	Use:   "load <org-slug> <file>",
	Short: "Load a workflow template file",
	Long: `Load a workflow template YAML file.

The file format mirrors the REST payload: a name and an ordered list of
steps with optional assignee roles and due-date offsets. Templates are
matched by name; loading a file again replaces the existing template's
steps.

Example:
  kantoorctl template load acme onboarding.yml`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		slug := args[0]
		filename := args[1]

		template, err := loadTemplateFile(slug, filename)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load template: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Loaded template '%s' with %d step(s)\n", template.Name, len(template.Steps))
	},
}

func init() {
	templateCmd.AddCommand(templateLoadCmd)
}

func loadTemplateFile(slug, filename string) (*model.WorkflowTemplate, error) {
	database, err := db.Connect(db.Config{})
	if err != nil {
		return nil, err
	}

	return importTemplate(database, slug, filename)
}

func importTemplate(database *gorm.DB, slug, filename string) (*model.WorkflowTemplate, error) {
	orgs := gormstore.NewOrgsStore(database)
	org, err := orgs.GetOrgBySlug(slug)
	if err != nil {
		if err == store.ErrOrgNotFound {
			return nil, fmt.Errorf("organization '%s' does not exist", slug)
		}
		return nil, err
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read template file: %w", err)
	}

	file, err := workflow.ParseTemplateFile(data)
	if err != nil {
		return nil, err
	}

	workflows := gormstore.NewWorkflowsStore(database)
	template, err := workflows.ImportTemplate(org.ID, file)
	if err != nil {
		return nil, fmt.Errorf("failed to import template: %w", err)
	}

	return template, nil
}
