package facade

import (
	"context"
	"fmt"
	"strings"

	"checkline/internal/domain"
	"checkline/internal/engine"
)

func (f *Facade) status(_ context.Context, cmd Command) (string, error) {
	b, err := f.scope(cmd)
	if err != nil {
		return "", err
	}
	h, err := f.engine.BusinessHealth(b.ID)
	if err != nil {
		return "", err
	}
	overall := f.engine.OverallProgress(b.ID)
	var sb strings.Builder
	fmt.Fprintf(&sb, "📊 %s [%s]\n", b.Name, b.ShortName)
	fmt.Fprintf(&sb, "Stage: %s | Priority: %s | Revenue: %s\n", strings.ToUpper(string(b.Stage)), b.Priority, b.RevenueStatus)
	fmt.Fprintf(&sb, "Health: %s %d (%s)\n", signalIcon(h.Signal), h.Score, h.Signal)
	fmt.Fprintf(&sb, "Overall: %d/%d tasks (%d%%)\n\n", overall.Completed, overall.Total, overall.Percent)
	for _, p := range f.engine.Progress(b.ID, domain.Stage(cmd.Stage)) {
		fmt.Fprintf(&sb, "%s: %s %d%% (%d/%d)\n", strings.ToUpper(string(p.Stage)), progressBar(p.Percent), p.Percent, p.Completed, p.Total)
	}
	next, ok := f.nextFor(b, cmd.Stage)
	if ok {
		fmt.Fprintf(&sb, "\n▶ Next: %s [%s]", next.Title, next.Priority)
	}
	return strings.TrimRight(sb.String(), "\n"), nil
}

func (f *Facade) overview(context.Context, Command) (string, error) {
	return f.engine.OperatorOverviewLimit(f.opts.OverviewLimit), nil
}

func (f *Facade) summary(context.Context, Command) (string, error) {
	return f.engine.LettaSummary(), nil
}

func (f *Facade) businesses(context.Context, Command) (string, error) {
	hs := f.engine.AllBusinessHealth()
	if len(hs) == 0 {
		return "No businesses yet.", nil
	}
	active, _ := f.engine.ActiveBusiness()
	return businessTable(hs, active.ID, f.opts.OverviewLimit, func(id string) domain.Business {
		b, _ := f.engine.Business(id)
		return b
	}), nil
}

func (f *Facade) focus(context.Context, Command) (string, error) {
	g, ok := f.engine.GlobalNextTask()
	if !ok {
		return "✅ Nothing open across any business.", nil
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "🎯 Focus: %s [%s] %s %d (%s)\n", g.Business.Name, g.Business.ShortName, signalIcon(g.Health.Signal), g.Health.Score, g.Health.Signal)
	sb.WriteString(f.taskCard(g.Task))
	return sb.String(), nil
}

func (f *Facade) addBusiness(_ context.Context, cmd Command) (string, error) {
	if strings.TrimSpace(cmd.BusinessName) == "" {
		return "", required("businessName")
	}
	b, err := f.engine.AddBusiness(engine.BusinessSpec{
		Name:          cmd.BusinessName,
		ShortName:     cmd.ShortName,
		Stage:         domain.Stage(cmd.Stage),
		RevenueStatus: domain.RevenueStatus(cmd.RevenueStatus),
		Priority:      domain.BusinessPriority(cmd.BusinessPriority),
		Domain:        cmd.Domain,
	})
	if err != nil {
		return "", err
	}
	n := len(f.engine.Tasks(engine.TaskFilter{BusinessID: b.ID}))
	return fmt.Sprintf("➕ Added business: %s [%s] (%s, %s) with %d tasks\nID: %s", b.Name, b.ShortName, b.Priority, b.Stage, n, b.ID), nil
}

func (f *Facade) next(_ context.Context, cmd Command) (string, error) {
	b, err := f.scope(cmd)
	if err != nil {
		return "", err
	}
	t, ok := f.nextFor(b, cmd.Stage)
	if !ok {
		return "✅ All tasks in this stage are complete!", nil
	}
	return f.taskCard(t), nil
}

func (f *Facade) nextFor(b domain.Business, stage string) (domain.Task, bool) {
	if stage == "" {
		return f.engine.NextTask(b.ID)
	}
	return f.engine.NextTaskInStage(b.ID, domain.Stage(stage))
}

func (f *Facade) complete(_ context.Context, cmd Command) (string, error) {
	t, err := f.transition(cmd, domain.StatusCompleted)
	if err != nil {
		return "", err
	}
	p := f.engine.OverallProgress(t.BusinessID)
	return fmt.Sprintf("✅ Completed: %s\nProgress: %d/%d (%d%%)", t.Title, p.Completed, p.Total, p.Percent), nil
}

func (f *Facade) skip(_ context.Context, cmd Command) (string, error) {
	t, err := f.transition(cmd, domain.StatusSkipped)
	if err != nil {
		return "", err
	}
	return "⏭ Skipped: " + t.Title, nil
}

func (f *Facade) start(_ context.Context, cmd Command) (string, error) {
	t, err := f.transition(cmd, domain.StatusInProgress)
	if err != nil {
		return "", err
	}
	return "⏳ Started: " + t.Title, nil
}

func (f *Facade) transition(cmd Command, status domain.TaskStatus) (domain.Task, error) {
	t, err := f.resolveTask(cmd)
	if err != nil {
		return domain.Task{}, err
	}
	upd := engine.TaskUpdate{Status: &status}
	if cmd.Notes != "" {
		upd.Notes = &cmd.Notes
	}
	return f.engine.UpdateTask(t.ID, upd)
}

func (f *Facade) add(_ context.Context, cmd Command) (string, error) {
	if strings.TrimSpace(cmd.Title) == "" {
		return "", required("title")
	}
	b, err := f.scope(cmd)
	if err != nil {
		return "", err
	}
	t, err := f.engine.AddTask(engine.TaskSpec{
		BusinessID:  b.ID,
		Title:       cmd.Title,
		Description: cmd.Description,
		Stage:       domain.Stage(cmd.Stage),
		Category:    cmd.Category,
		Priority:    domain.TaskPriority(cmd.Priority),
		Notes:       cmd.Notes,
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("➕ Added: %s (%s/%s) to %s\nID: %s", t.Title, t.Stage, t.Category, b.ShortName, t.ID), nil
}

func (f *Facade) daily(context.Context, Command) (string, error) {
	su := f.engine.DailyStandUp("")
	var sb strings.Builder
	fmt.Fprintf(&sb, "📋 Daily Stand-Up — %s\n", su.Date)
	empty := len(su.CrossCutting) == 0
	for _, g := range su.Groups {
		if len(g.Tasks) == 0 {
			continue
		}
		empty = false
		fmt.Fprintf(&sb, "\n%s %s [%s] (%s)\n", signalIcon(g.Health.Signal), g.Business.Name, g.Business.ShortName, g.Business.Stage)
		for _, t := range g.Tasks {
			fmt.Fprintf(&sb, "%s %s [%s]\n", statusIcon(t.Status), t.Title, t.Priority)
		}
	}
	if len(su.CrossCutting) > 0 {
		sb.WriteString("\n🔗 Cross-cutting\n")
		for _, t := range su.CrossCutting {
			fmt.Fprintf(&sb, "%s %s [%s]\n", statusIcon(t.Status), t.Title, t.Priority)
		}
	}
	if empty {
		return "📋 No tasks for today's stand-up", nil
	}
	if su.FocusRecommendation != "" {
		fmt.Fprintf(&sb, "\n🎯 %s\n", su.FocusRecommendation)
	}
	return strings.TrimRight(sb.String(), "\n"), nil
}

func (f *Facade) list(_ context.Context, cmd Command) (string, error) {
	b, err := f.scope(cmd)
	if err != nil {
		return "", err
	}
	tasks := f.engine.Tasks(engine.TaskFilter{
		BusinessID: b.ID,
		Stage:      domain.Stage(cmd.Stage),
		Category:   cmd.Category,
		Status:     domain.TaskStatus(cmd.Status),
	})
	if len(tasks) == 0 {
		return "No tasks match the filter.", nil
	}
	limit := f.opts.ListLimit
	if cmd.Limit > 0 {
		limit = cmd.Limit
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Tasks for %s (%d):\n\n", b.ShortName, len(tasks))
	for i, t := range tasks {
		if i == limit {
			fmt.Fprintf(&sb, "\n... and %d more", len(tasks)-limit)
			break
		}
		fmt.Fprintf(&sb, "%s %s [%s] %s\n", statusIcon(t.Status), t.Title, t.Priority, shortID(t.ID))
	}
	return strings.TrimRight(sb.String(), "\n"), nil
}

func (f *Facade) detail(_ context.Context, cmd Command) (string, error) {
	t, err := f.resolveTask(cmd)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "📌 %s\n", t.Title)
	fmt.Fprintf(&sb, "Status: %s | Priority: %s\n", t.Status, t.Priority)
	fmt.Fprintf(&sb, "Stage: %s | Category: %s\n", t.Stage, f.categoryName(t.Category))
	if b, ok := f.engine.Business(t.BusinessID); ok {
		fmt.Fprintf(&sb, "Business: %s [%s]\n", b.Name, b.ShortName)
	}
	fmt.Fprintf(&sb, "Source: %s | Created: %s\n", t.Source, t.CreatedAt.Format("2006-01-02"))
	if t.CompletedAt != nil {
		fmt.Fprintf(&sb, "Completed: %s\n", t.CompletedAt.Format("2006-01-02"))
	}
	if t.DueDate != "" {
		fmt.Fprintf(&sb, "Due: %s\n", t.DueDate)
	}
	if len(t.Dependencies) > 0 {
		fmt.Fprintf(&sb, "Depends on: %s\n", f.dependencyList(t.Dependencies))
	}
	if t.Description != "" {
		fmt.Fprintf(&sb, "\n%s\n", t.Description)
	}
	if t.AISuggestion != "" {
		fmt.Fprintf(&sb, "\n💡 %s\n", t.AISuggestion)
	}
	if t.Notes != "" {
		fmt.Fprintf(&sb, "\n📝 %s\n", t.Notes)
	}
	fmt.Fprintf(&sb, "\nID: %s", t.ID)
	return sb.String(), nil
}

func (f *Facade) setStage(_ context.Context, cmd Command) (string, error) {
	if cmd.Stage == "" {
		return "", required("stage")
	}
	b, err := f.scope(cmd)
	if err != nil {
		return "", err
	}
	b, err = f.engine.SetStage(b.ID, domain.Stage(cmd.Stage))
	if err != nil {
		return "", err
	}
	p := f.engine.Progress(b.ID, b.Stage)[0]
	return fmt.Sprintf("🔄 %s stage set to: %s\nProgress: %d/%d (%d%%)", b.ShortName, strings.ToUpper(string(b.Stage)), p.Completed, p.Total, p.Percent), nil
}

func (f *Facade) use(_ context.Context, cmd Command) (string, error) {
	if cmd.BusinessID == "" && cmd.BusinessName == "" {
		return "", required("businessId")
	}
	b, err := f.scope(cmd)
	if err != nil {
		return "", err
	}
	if err := f.engine.SetActiveBusiness(b.ID); err != nil {
		return "", err
	}
	return fmt.Sprintf("👉 Active business: %s [%s]", b.Name, b.ShortName), nil
}

func (f *Facade) grouped(_ context.Context, cmd Command) (string, error) {
	b, err := f.scope(cmd)
	if err != nil {
		return "", err
	}
	stage := domain.Stage(cmd.Stage)
	if stage == "" {
		stage = b.Stage
	}
	cats := f.engine.CategoryProgress(b.ID, stage)
	if len(cats) == 0 {
		return fmt.Sprintf("No %s tasks for %s.", stage, b.ShortName), nil
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "📂 %s %s by category\n\n", b.ShortName, strings.ToUpper(string(stage)))
	for _, c := range cats {
		icon := c.Category.Icon
		if icon == "" {
			icon = "•"
		}
		fmt.Fprintf(&sb, "%s %s: %s %d%% (%d/%d)\n", icon, c.Category.Name, progressBar(c.Percent), c.Percent, c.Completed, c.Total)
	}
	return strings.TrimRight(sb.String(), "\n"), nil
}

func (f *Facade) history(ctx context.Context, cmd Command) (string, error) {
	if f.opts.History == nil {
		return "📜 Activity journal is disabled.", nil
	}
	var businessID string
	if cmd.BusinessID != "" || cmd.BusinessName != "" {
		b, err := f.scope(cmd)
		if err != nil {
			return "", err
		}
		businessID = b.ID
	}
	n := cmd.Limit
	if n <= 0 {
		n = defaultHistoryLimit
	}
	entries, err := f.opts.History.Tail(ctx, n, businessID)
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return "📜 No activity recorded yet.", nil
	}
	return historyTable(entries, func(id string) string {
		if b, ok := f.engine.Business(id); ok {
			return b.ShortName
		}
		return ""
	}), nil
}

func (f *Facade) taskCard(t domain.Task) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "▶ Next Task: %s\n", t.Title)
	fmt.Fprintf(&sb, "Priority: %s | Stage: %s | Category: %s\n", t.Priority, t.Stage, f.categoryName(t.Category))
	if t.Description != "" {
		fmt.Fprintf(&sb, "\n%s\n", t.Description)
	}
	if t.AISuggestion != "" {
		fmt.Fprintf(&sb, "\n💡 Tip: %s\n", t.AISuggestion)
	}
	fmt.Fprintf(&sb, "\nID: %s", t.ID)
	return sb.String()
}

func (f *Facade) categoryName(id string) string {
	if c, ok := f.engine.Category(id); ok {
		return c.Name
	}
	return id
}

func (f *Facade) dependencyList(ids []string) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		if t, ok := f.engine.Task(id); ok {
			parts = append(parts, fmt.Sprintf("%s %s", statusIcon(t.Status), t.Title))
			continue
		}
		parts = append(parts, shortID(id))
	}
	return strings.Join(parts, ", ")
}
