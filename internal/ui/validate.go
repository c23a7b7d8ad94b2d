package ui

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shopfloor/shopboard/internal/dateutil"
	"github.com/shopfloor/shopboard/internal/schedule"
	"github.com/shopfloor/shopboard/internal/timescale"
	"github.com/shopfloor/shopboard/internal/validate"
)

func (a *App) validateCmd() *cobra.Command {
	var view string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a window for scheduling conflicts",
		Long: `Run the full conflict check over every slot in a window: machine
double-bookings, routing order violations, daily capacity overloads, and
missed due dates. Conflicts are advisory; nothing is changed.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			conflicts, err := a.windowConflicts(view)
			if err != nil {
				return err
			}

			if len(conflicts) == 0 {
				fmt.Println("No conflicts found.")
				return nil
			}

			worst, _ := schedule.Worst(conflicts)
			fmt.Println(colorHeader.Sprintf("%d conflict(s), worst severity: %s",
				len(conflicts), worst.Severity))

			grouped := schedule.GroupByKind(conflicts)
			for _, kind := range schedule.ConflictKinds() {
				for _, c := range grouped[kind] {
					fmt.Println(formatConflict(c))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&view, "view", "week", "Window size: day, week, month")
	return cmd
}

// windowConflicts loads a window and runs both conflict tiers over it: the
// pairwise overlap scan and the rules engine.
func (a *App) windowConflicts(view string) ([]schedule.Conflict, error) {
	repo, err := a.openRepo()
	if err != nil {
		return nil, err
	}
	anchor, err := dateutil.ParseAnchor(a.anchor, timeNow())
	if err != nil {
		return nil, err
	}
	mode, err := timescale.ParseViewMode(view)
	if err != nil {
		return nil, err
	}
	scale := timescale.Compute(mode, anchor, 1)

	ctx := context.Background()
	slots, err := repo.ListSlots(ctx, scale.Start, scale.End)
	if err != nil {
		return nil, fmt.Errorf("listing slots: %w", err)
	}

	local := overlapScan(slots)

	rules := validate.NewRules(repo, a.config.Capacity.DayHours)
	authoritative, err := rules.Validate(ctx, slots)
	if err != nil {
		return nil, fmt.Errorf("validating: %w", err)
	}

	return schedule.MergeConflicts(local, authoritative), nil
}

// overlapScan finds machine double-bookings among the given slots.
func overlapScan(slots []*schedule.Slot) []schedule.Conflict {
	var conflicts []schedule.Conflict
	for i, s := range slots {
		for _, other := range slots[i+1:] {
			if !s.OverlapsWith(other) {
				continue
			}
			conflicts = append(conflicts, schedule.Conflict{
				Kind:               schedule.ResourceConflict,
				Severity:           schedule.SeverityHigh,
				Description:        fmt.Sprintf("slots %d and %d overlap on the same machine", s.ID, other.ID),
				AffectedOperations: []int64{s.OperationID, other.OperationID},
			})
		}
	}
	return conflicts
}
