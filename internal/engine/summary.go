package engine

import (
	"fmt"
	"strings"

	"checkline/internal/domain"
)

// LettaSummary renders the whole document as compact plain text for mirroring
// into an external state store. Output depends only on state and the clock.
func (e *Engine) LettaSummary() string {
	var sb strings.Builder
	if e.state.OperatorID != "" {
		fmt.Fprintf(&sb, "Operator: %s\n", e.state.OperatorID)
	}
	fmt.Fprintf(&sb, "Businesses: %d", len(e.state.Businesses))
	if b, ok := e.ActiveBusiness(); ok {
		fmt.Fprintf(&sb, " (active: %s)", b.Name)
	}
	sb.WriteString("\n")
	for _, b := range e.state.Businesses {
		h := e.health(b)
		overall := e.OverallProgress(b.ID)
		fmt.Fprintf(&sb, "\n[%s] %s | %s | %s | %s\n", b.ShortName, b.Name, b.Priority, b.Stage, b.RevenueStatus)
		fmt.Fprintf(&sb, "Health: %d (%s)\n", h.Score, h.Signal)
		fmt.Fprintf(&sb, "Overall: %d/%d (%d%%)\n", overall.Completed, overall.Total, overall.Percent)
		for _, p := range e.Progress(b.ID, "") {
			fmt.Fprintf(&sb, "%s: %d/%d (%d%%)\n", p.Stage, p.Completed, p.Total, p.Percent)
		}
		if t, ok := e.NextTask(b.ID); ok {
			fmt.Fprintf(&sb, "Next task: %s\n", e.describeTask(t))
		}
	}
	if g, ok := e.GlobalNextTask(); ok {
		fmt.Fprintf(&sb, "\nGlobal next: [%s] %s\n", g.Business.ShortName, e.describeTask(g.Task))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// OperatorOverview ranks every business by attention order with its health,
// stage progress and next task, followed by the focus recommendation.
func (e *Engine) OperatorOverview() string {
	return e.OperatorOverviewLimit(0)
}

// OperatorOverviewLimit is OperatorOverview showing at most limit businesses,
// with a "+N more" line for the rest. A limit of zero or less shows all.
func (e *Engine) OperatorOverviewLimit(limit int) string {
	var sb strings.Builder
	hs := e.attentionOrder()
	fmt.Fprintf(&sb, "Operator overview: %d businesses\n", len(hs))
	for i, h := range hs {
		if limit > 0 && i == limit {
			fmt.Fprintf(&sb, "\n+%d more\n", len(hs)-limit)
			break
		}
		fmt.Fprintf(&sb, "\n%d. [%s] %s (%s, %s)\n", i+1, h.ShortName, h.Name, h.Priority, h.Stage)
		fmt.Fprintf(&sb, "   health %d %s | checklist %d%% | idle %dd | critical open %d\n",
			h.Score, h.Signal, h.ChecklistPercent, h.DaysSinceActivity, h.CriticalBlocked)
		if p := e.Progress(h.BusinessID, h.Stage); len(p) == 1 && p[0].Total > 0 {
			fmt.Fprintf(&sb, "   %s: %d/%d (%d%%)\n", p[0].Stage, p[0].Completed, p[0].Total, p[0].Percent)
		}
		if t, ok := e.NextTask(h.BusinessID); ok {
			fmt.Fprintf(&sb, "   next: %s\n", e.describeTask(t))
		}
	}
	if focus := e.focusRecommendation(); focus != "" {
		fmt.Fprintf(&sb, "\n%s\n", focus)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (e *Engine) describeTask(t domain.Task) string {
	s := fmt.Sprintf("%s [%s]", t.Title, t.Priority)
	if t.Category == "" {
		return s
	}
	if c, ok := e.Category(t.Category); ok {
		return s + " (" + c.Name + ")"
	}
	return s + " (" + t.Category + ")"
}
