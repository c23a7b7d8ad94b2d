package ui

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func (a *App) machinesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "machines",
		Short: "List machines and their status",
		RunE: func(_ *cobra.Command, _ []string) error {
			repo, err := a.openRepo()
			if err != nil {
				return err
			}

			machines, err := repo.ListMachines(context.Background())
			if err != nil {
				return fmt.Errorf("listing machines: %w", err)
			}
			if len(machines) == 0 {
				fmt.Println("No machines configured. Run 'shopboard seed' for demo data.")
				return nil
			}

			for i, m := range machines {
				fmt.Printf("%2d  %-20s %-14s %s\n",
					i+1,
					m.Name,
					colorMuted.Sprint(m.Operation),
					statusColor(m.Status).Sprint(string(m.Status)))
			}
			return nil
		},
	}
}
