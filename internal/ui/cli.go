// Package ui implements the shopboard command line interface.
package ui

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/shopfloor/shopboard/internal/board"
	"github.com/shopfloor/shopboard/internal/config"
	"github.com/shopfloor/shopboard/internal/dateutil"
	"github.com/shopfloor/shopboard/internal/db"
	"github.com/shopfloor/shopboard/internal/schedule"
	"github.com/shopfloor/shopboard/internal/validate"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// App holds the CLI application state.
type App struct {
	repo   schedule.Repository
	config *config.Config
	root   *cobra.Command

	debug  bool   // Enable debug logging
	anchor string // Anchor date for the board window
	view   string // View mode override
}

// NewApp creates a new CLI application with the given repository and config.
// A nil repository is opened lazily from the configured database path.
func NewApp(repo schedule.Repository, cfg *config.Config) *App {
	a := &App{repo: repo, config: cfg}

	a.root = &cobra.Command{
		Use:   "shopboard",
		Short: "An interactive machine shop schedule board",
		Long: `Shopboard is a terminal schedule board for a machine shop.

It renders machine lanes against a time axis, lets you reschedule
operations by dragging their slots, and flags scheduling conflicts as
you move things around.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			repo, err := a.openRepo()
			if err != nil {
				return err
			}
			anchor, err := dateutil.ParseAnchor(a.anchor, timeNow())
			if err != nil {
				return err
			}
			cfg := a.config
			if a.view != "" {
				cfg.Board.View = a.view
				if err := cfg.Validate(); err != nil {
					return err
				}
			}
			validator := validate.NewRules(repo, cfg.Capacity.DayHours)
			return board.RunWithDebug(repo, validator, cfg, anchor, a.debug)
		},
	}

	a.root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging (logs to shopboard-debug.log)")
	a.root.PersistentFlags().StringVar(&a.anchor, "date", "", "Anchor date (YYYY-MM-DD, 'today', 'monday', ...)")
	a.root.Flags().StringVar(&a.view, "view", "", "View mode: day, week, month")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.slotsCmd())
	a.root.AddCommand(a.machinesCmd())
	a.root.AddCommand(a.validateCmd())
	a.root.AddCommand(a.adviseCmd())
	a.root.AddCommand(a.seedCmd())

	return a
}

// openRepo returns the repository, opening the configured database on
// first use.
func (a *App) openRepo() (schedule.Repository, error) {
	if a.repo != nil {
		return a.repo, nil
	}

	path := a.config.Storage.DBPath
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	store, err := db.New(path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	a.repo = store
	return a.repo, nil
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("shopboard %s (commit: %s)\n", Version, Commit)
		},
	}
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}

// Close releases the repository if the app opened one.
func (a *App) Close() error {
	if a.repo != nil {
		return a.repo.Close()
	}
	return nil
}
