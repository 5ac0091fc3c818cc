package gate

import (
	"fmt"
	"time"

	"github.com/thiagovon/TDT4242-Advanced-Software-Engineering/internal/store"
)

// #region gate
// Gate evaluates whether draft generation may proceed for a
// declaration. Generation is blocked while interactions relevant to
// the assignment's period remain unresolved: the student must assign
// or leave them before an accurate draft can be produced.
type Gate struct {
	config Config
}

// NewGate creates a gate with the given configuration.
func NewGate(config Config) *Gate {
	return &Gate{config: config}
}

// EvaluateGeneration checks hard vetoes for generating or regenerating
// a draft. unassigned is the current unassigned-interaction queue; only
// logs inside the widened period window count.
func (g *Gate) EvaluateGeneration(
	a store.Assignment,
	d store.Declaration,
	unassigned []store.InteractionLog,
) Decision {
	var vetoes []VetoSignal

	if d.Status == store.StatusSubmitted {
		vetoes = append(vetoes, VetoSignal{
			Type:   VetoSubmitted,
			Reason: "declaration has been submitted and is immutable",
		})
	}

	margin := time.Duration(g.config.MarginDays) * 24 * time.Hour
	windowStart := a.PeriodStart.Add(-margin)
	windowEnd := a.PeriodEnd.Add(margin)

	for _, l := range unassigned {
		if l.LoggedAt.Before(windowStart) || l.LoggedAt.After(windowEnd) {
			continue
		}
		vetoes = append(vetoes, VetoSignal{
			Type: VetoUnresolvedInteraction,
			Reason: fmt.Sprintf("unassigned %s interaction at %s falls in the assignment period",
				l.ToolName, l.LoggedAt.Format(time.RFC3339)),
			LogID: l.ID,
		})
	}

	if len(vetoes) > 0 {
		return Decision{
			Action:      "block",
			Reason:      fmt.Sprintf("hard veto: %s", vetoes[0].Reason),
			Vetoed:      true,
			VetoSignals: vetoes,
		}
	}

	return Decision{
		Action: "proceed",
		Reason: "no unresolved interactions in the assignment period",
	}
}

// #endregion gate
