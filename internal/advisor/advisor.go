package advisor

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopfloor/shopboard/internal/schedule"
)

const systemPrompt = `You are a production planner for a machine shop.
You are given a list of scheduling conflicts detected on the shop's schedule
board. For each conflict, suggest a concrete resolution: which operation to
move, to which machine or time, and why. Keep suggestions short and
actionable. Do not invent machines or work orders that are not listed.`

// Advisor turns detected conflicts into resolution suggestions using an
// LLM backend.
type Advisor struct {
	client Client
}

// New creates an Advisor around the given client.
func New(client Client) *Advisor {
	return &Advisor{client: client}
}

// Advise asks the LLM for resolution suggestions for the given conflicts.
// The work orders provide context so suggestions can name references and
// due dates instead of bare operation ids.
func (a *Advisor) Advise(ctx context.Context, conflicts []schedule.Conflict, orders []*schedule.WorkOrder, machines []*schedule.Machine) (string, error) {
	if len(conflicts) == 0 {
		return "No conflicts to resolve.", nil
	}

	messages := []Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: buildPrompt(conflicts, orders, machines)},
	}

	resp, err := a.client.Chat(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("requesting advice: %w", err)
	}
	return strings.TrimSpace(resp), nil
}

// buildPrompt renders conflicts and shop context as plain text. Conflicts
// are grouped by kind so the model sees related problems together.
func buildPrompt(conflicts []schedule.Conflict, orders []*schedule.WorkOrder, machines []*schedule.Machine) string {
	var b strings.Builder

	b.WriteString("Machines:\n")
	for _, m := range machines {
		fmt.Fprintf(&b, "- %s (%s, %s)\n", m.Name, m.Operation, m.Status)
	}

	b.WriteString("\nWork orders:\n")
	for _, w := range orders {
		due := "no due date"
		if !w.DueDate.IsZero() {
			due = "due " + w.DueDate.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(&b, "- %s %s (%s)\n", w.Reference, w.Product, due)
		for _, op := range w.Operations {
			fmt.Fprintf(&b, "  %d. %s (operation %d)\n", op.Seq, op.Name, op.ID)
		}
	}

	b.WriteString("\nConflicts:\n")
	grouped := schedule.GroupByKind(conflicts)
	for _, kind := range schedule.ConflictKinds() {
		for _, c := range grouped[kind] {
			fmt.Fprintf(&b, "- [%s/%s] %s", c.Kind, c.Severity, c.Description)
			if len(c.AffectedOperations) > 0 {
				fmt.Fprintf(&b, " (operations %v)", c.AffectedOperations)
			}
			b.WriteString("\n")
		}
	}

	return b.String()
}
