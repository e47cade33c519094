package engine

import (
	"math"

	"checkline/internal/domain"
)

func percent(completed, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

// Progress reports per-stage completion for a business. An empty stage
// reports idea, launch and growth; mature and sunset are only reported when
// asked for explicitly.
func (e *Engine) Progress(businessID string, stage domain.Stage) []domain.StageProgress {
	stages := domain.ProgressStages
	if stage != "" {
		stages = []domain.Stage{stage}
	}
	tasks := e.businessTasks(businessID)
	out := make([]domain.StageProgress, 0, len(stages))
	for _, s := range stages {
		p := domain.StageProgress{Stage: s}
		for _, t := range tasks {
			if t.Stage != s {
				continue
			}
			p.Total++
			switch t.Status {
			case domain.StatusCompleted:
				p.Completed++
			case domain.StatusSkipped:
				p.Skipped++
			}
		}
		p.Percent = percent(p.Completed, p.Total)
		out = append(out, p)
	}
	return out
}

// OverallProgress counts every task of the business regardless of stage.
func (e *Engine) OverallProgress(businessID string) domain.Progress {
	var p domain.Progress
	for _, t := range e.businessTasks(businessID) {
		p.Total++
		if t.Status == domain.StatusCompleted {
			p.Completed++
		}
	}
	p.Percent = percent(p.Completed, p.Total)
	return p
}

// CategoryProgress rolls a business's tasks in one stage up by category, in
// category display order. Tasks in categories missing from the catalog are
// grouped under their raw category id after the known ones.
func (e *Engine) CategoryProgress(businessID string, stage domain.Stage) []domain.CategoryProgress {
	counts := map[string]*domain.Progress{}
	var unknown []string
	known := map[string]bool{}
	cats := e.Categories(stage)
	for _, c := range cats {
		known[c.ID] = true
	}
	for _, t := range e.businessTasks(businessID) {
		if t.Stage != stage {
			continue
		}
		p, ok := counts[t.Category]
		if !ok {
			p = &domain.Progress{}
			counts[t.Category] = p
			if !known[t.Category] {
				unknown = append(unknown, t.Category)
			}
		}
		p.Total++
		if t.Status == domain.StatusCompleted {
			p.Completed++
		}
	}
	var out []domain.CategoryProgress
	emit := func(c domain.TaskCategory) {
		p, ok := counts[c.ID]
		if !ok {
			return
		}
		p.Percent = percent(p.Completed, p.Total)
		out = append(out, domain.CategoryProgress{Category: c, Progress: *p})
	}
	for _, c := range cats {
		emit(c)
	}
	for _, id := range unknown {
		emit(domain.TaskCategory{ID: id, Name: id, Stage: stage, Order: customTaskOrder})
	}
	return out
}
