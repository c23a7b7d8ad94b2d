package ui

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shopfloor/shopboard/internal/dateutil"
	"github.com/shopfloor/shopboard/internal/db"
)

func (a *App) seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Populate an empty database with demo shop data",
		Long: `Create a small demo shop: four machines, a few work orders with
multi-step routings, and a week of slots around the anchor date. Fails
if the database already has machines.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			repo, err := a.openRepo()
			if err != nil {
				return err
			}
			store, ok := repo.(*db.SQLite)
			if !ok {
				return fmt.Errorf("seeding requires the SQLite store")
			}

			anchor, err := dateutil.ParseAnchor(a.anchor, timeNow())
			if err != nil {
				return err
			}

			n, err := store.Seed(context.Background(), anchor)
			if err != nil {
				return err
			}
			fmt.Printf("Seeded %d slots. Run 'shopboard' to open the board.\n", n)
			return nil
		},
	}
}
