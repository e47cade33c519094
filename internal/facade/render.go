package facade

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"checkline/internal/domain"
	"checkline/internal/journal"
)

const barWidth = 20

func progressBar(percent int) string {
	filled := (percent + 2) / 5
	if filled > barWidth {
		filled = barWidth
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
}

func statusIcon(s domain.TaskStatus) string {
	switch s {
	case domain.StatusInProgress:
		return "⏳"
	case domain.StatusCompleted:
		return "✅"
	case domain.StatusSkipped:
		return "⏭"
	}
	return "☐"
}

func signalIcon(s domain.Signal) string {
	switch s {
	case domain.SignalCritical:
		return "🔴"
	case domain.SignalStale:
		return "🟠"
	case domain.SignalAttention:
		return "🟡"
	}
	return "🟢"
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func businessTable(hs []domain.Health, activeID string, limit int, lookup func(string) domain.Business) string {
	tw := table.NewWriter()
	tw.AppendHeader(table.Row{"", "Short", "Name", "Priority", "Stage", "Revenue", "Health", "Checklist"})
	for i, h := range hs {
		if i == limit {
			break
		}
		marker := ""
		if h.BusinessID == activeID {
			marker = "*"
		}
		b := lookup(h.BusinessID)
		tw.AppendRow(table.Row{
			marker, h.ShortName, h.Name, h.Priority, h.Stage, b.RevenueStatus,
			fmt.Sprintf("%s %d", signalIcon(h.Signal), h.Score),
			fmt.Sprintf("%d%%", h.ChecklistPercent),
		})
	}
	out := tw.Render()
	if len(hs) > limit {
		out += fmt.Sprintf("\n+%d more", len(hs)-limit)
	}
	return out
}

func historyTable(entries []journal.Entry, shortName func(string) string) string {
	tw := table.NewWriter()
	tw.AppendHeader(table.Row{"When", "Business", "Event", "Entity"})
	for _, e := range entries {
		tw.AppendRow(table.Row{
			e.TS.Format("2006-01-02 15:04"),
			shortName(e.BusinessID),
			e.Type,
			shortID(e.EntityID),
		})
	}
	return tw.Render()
}
