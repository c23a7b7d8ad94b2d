package ui

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shopfloor/shopboard/internal/dateutil"
	"github.com/shopfloor/shopboard/internal/timescale"
)

func (a *App) slotsCmd() *cobra.Command {
	var view string

	cmd := &cobra.Command{
		Use:   "slots",
		Short: "List scheduled slots in a window",
		Long: `List all slots scheduled inside a day, week, or month window,
grouped by machine.`,
		Example: `  shopboard slots
  shopboard slots --view=week
  shopboard slots --date=2026-03-09 --view=month`,
		RunE: func(_ *cobra.Command, _ []string) error {
			repo, err := a.openRepo()
			if err != nil {
				return err
			}
			anchor, err := dateutil.ParseAnchor(a.anchor, timeNow())
			if err != nil {
				return err
			}
			mode, err := timescale.ParseViewMode(view)
			if err != nil {
				return err
			}
			scale := timescale.Compute(mode, anchor, 1)

			ctx := context.Background()
			machines, err := repo.ListMachines(ctx)
			if err != nil {
				return fmt.Errorf("listing machines: %w", err)
			}
			slots, err := repo.ListSlots(ctx, scale.Start, scale.End)
			if err != nil {
				return fmt.Errorf("listing slots: %w", err)
			}
			orders, err := repo.ListWorkOrders(ctx)
			if err != nil {
				return fmt.Errorf("listing work orders: %w", err)
			}

			fmt.Println(colorHeader.Sprintf("%s — %s",
				scale.Start.Format("2006-01-02"),
				scale.End.AddDate(0, 0, -1).Format("2006-01-02")))

			if len(slots) == 0 {
				fmt.Println("No slots scheduled in this window.")
				return nil
			}

			width := termWidth()
			for _, machine := range machines {
				printed := false
				for _, slot := range slots {
					if slot.MachineID != machine.ID {
						continue
					}
					if !printed {
						fmt.Printf("\n%s %s\n",
							colorHeader.Sprint(machine.Name),
							statusColor(machine.Status).Sprintf("[%s]", machine.Status))
						printed = true
					}
					fmt.Println(truncate(formatSlotLine(slot, orders), width))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&view, "view", "day", "Window size: day, week, month")
	return cmd
}
