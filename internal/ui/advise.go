package ui

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shopfloor/shopboard/internal/advisor"
)

func (a *App) adviseCmd() *cobra.Command {
	var view string

	cmd := &cobra.Command{
		Use:   "advise",
		Short: "Ask the configured LLM for conflict resolutions",
		Long: `Run the conflict check over a window and ask the configured LLM
provider for concrete resolution suggestions.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			conflicts, err := a.windowConflicts(view)
			if err != nil {
				return err
			}
			if len(conflicts) == 0 {
				fmt.Println("No conflicts to resolve.")
				return nil
			}

			repo, err := a.openRepo()
			if err != nil {
				return err
			}
			ctx := context.Background()
			orders, err := repo.ListWorkOrders(ctx)
			if err != nil {
				return fmt.Errorf("listing work orders: %w", err)
			}
			machines, err := repo.ListMachines(ctx)
			if err != nil {
				return fmt.Errorf("listing machines: %w", err)
			}

			client, err := advisor.NewClient(a.config.LLM.Provider, a.config.LLM.Model, a.config.LLM.BaseURL)
			if err != nil {
				return fmt.Errorf("creating LLM client: %w", err)
			}

			fmt.Println(colorMuted.Sprintf("Asking %s for resolutions (%d conflicts)...",
				a.config.LLM.Provider, len(conflicts)))

			advice, err := advisor.New(client).Advise(ctx, conflicts, orders, machines)
			if err != nil {
				return err
			}

			fmt.Println()
			fmt.Println(advice)
			return nil
		},
	}

	cmd.Flags().StringVar(&view, "view", "week", "Window size: day, week, month")
	return cmd
}
