package engine

import (
	"fmt"
	"sort"

	"checkline/internal/domain"
)

const standUpCap = 2

// DailyStandUp lists every in-progress task per business from its current
// stage, topped up to two with critical or high pending tasks by order.
// Cross-cutting tasks are reported once, outside the business groups. An
// empty date means today.
func (e *Engine) DailyStandUp(date string) domain.DailyStandUp {
	if date == "" {
		date = e.now().Format("2006-01-02")
	}
	su := domain.DailyStandUp{Date: date, Groups: []domain.StandUpGroup{}}
	for _, h := range e.attentionOrder() {
		b, _ := e.Business(h.BusinessID)
		su.Groups = append(su.Groups, domain.StandUpGroup{
			Business: b,
			Health:   h,
			Tasks:    e.standUpTasks(b),
		})
	}
	for _, t := range e.state.Tasks {
		if t.CrossCutting && standUpEligible(t) {
			su.CrossCutting = append(su.CrossCutting, dailyTask(t))
		}
	}
	su.FocusRecommendation = e.focusRecommendation()
	return su
}

func (e *Engine) standUpTasks(b domain.Business) []domain.DailyTask {
	var started, pending []domain.Task
	for _, t := range e.state.Tasks {
		if t.BusinessID != b.ID || t.Stage != b.Stage || t.CrossCutting {
			continue
		}
		switch {
		case t.Status == domain.StatusInProgress:
			started = append(started, t)
		case standUpEligible(t):
			pending = append(pending, t)
		}
	}
	byOrder := func(ts []domain.Task) {
		sort.SliceStable(ts, func(i, j int) bool { return ts[i].Order < ts[j].Order })
	}
	byOrder(started)
	byOrder(pending)
	if fill := standUpCap - len(started); fill < len(pending) {
		pending = pending[:max(0, fill)]
	}
	picked := append(started, pending...)
	out := make([]domain.DailyTask, 0, len(picked))
	for _, t := range picked {
		out = append(out, dailyTask(t))
	}
	return out
}

func standUpEligible(t domain.Task) bool {
	if t.Status == domain.StatusInProgress {
		return true
	}
	return t.Status == domain.StatusPending &&
		(t.Priority == domain.PriorityCritical || t.Priority == domain.PriorityHigh)
}

func dailyTask(t domain.Task) domain.DailyTask {
	return domain.DailyTask{
		TaskID:     t.ID,
		BusinessID: t.BusinessID,
		Title:      t.Title,
		Priority:   t.Priority,
		Status:     t.Status,
		Completed:  t.Status == domain.StatusCompleted,
	}
}

// focusRecommendation names the least healthy primary business that is not
// healthy, or returns "" when there is none.
func (e *Engine) focusRecommendation() string {
	for _, h := range e.AllBusinessHealth() {
		if h.Priority != domain.BusinessPrimary || h.Signal == domain.SignalHealthy {
			continue
		}
		msg := fmt.Sprintf("Focus on %s: health %d (%s)", h.Name, h.Score, h.Signal)
		if t, ok := e.NextTask(h.BusinessID); ok {
			msg += fmt.Sprintf(", next: %s", t.Title)
		}
		return msg
	}
	return ""
}
