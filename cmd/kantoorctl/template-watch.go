package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/kantoorhq/kantoor/pkg/db"
)

// templateWatchCmd represents the template watch command
var templateWatchCmd = &cobra.Command{
	Use:   "watch <org-slug> <file>",
	Short: "Watch a template file and reload it when it changes",
	Long: `Watch a workflow template YAML file and reload it on every change.

This keeps a template in sync with a file managed elsewhere, for example
a mounted ConfigMap or a checkout that is updated by CI.

Example:
  kantoorctl template watch acme /run/kantoor/templates/onboarding.yml`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		slug := args[0]
		filename := args[1]

		if err := watchTemplate(slug, filename); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to watch template: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	templateCmd.AddCommand(templateWatchCmd)
}

func watchTemplate(slug, filename string) error {
	database, err := db.Connect(db.Config{})
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filename); err != nil {
		return fmt.Errorf("failed to watch file %s: %w", filename, err)
	}

	fmt.Printf("Watching %s for template changes (organization: %s)\n", filename, slug)

	// Load once up front so a bad path fails fast.
	if template, err := importTemplate(database, slug, filename); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading template: %v\n", err)
	} else {
		fmt.Printf("Loaded template '%s' with %d step(s)\n", template.Name, len(template.Steps))
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			// Editors often replace the file; re-add drops the stale watch.
			_ = watcher.Remove(filename)
			if err := watcher.Add(filename); err != nil {
				fmt.Fprintf(os.Stderr, "Watcher error: %v\n", err)
				continue
			}

			template, err := importTemplate(database, slug, filename)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error loading template: %v\n", err)
				continue
			}
			fmt.Printf("Reloaded template '%s' with %d step(s)\n", template.Name, len(template.Steps))
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "Watcher error: %v\n", err)
		case <-sigChan:
			fmt.Println("\nShutting down...")
			return nil
		}
	}
}
