package engine

import (
	"sort"

	"checkline/internal/domain"
)

// NextTask picks the next open task in the business's current stage.
func (e *Engine) NextTask(businessID string) (domain.Task, bool) {
	b, ok := e.Business(businessID)
	if !ok {
		return domain.Task{}, false
	}
	return e.NextTaskInStage(businessID, b.Stage)
}

// NextTaskInStage sorts open tasks by priority rank then order and returns the
// first whose dependencies are all resolved. When every candidate is gated it
// returns the top candidate anyway; it reports false only when the stage has
// no open tasks.
func (e *Engine) NextTaskInStage(businessID string, stage domain.Stage) (domain.Task, bool) {
	var candidates []domain.Task
	for _, t := range e.state.Tasks {
		if t.BusinessID == businessID && t.Stage == stage && t.Status.Open() {
			candidates = append(candidates, t)
		}
	}
	if len(candidates) == 0 {
		return domain.Task{}, false
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if ra, rb := a.Priority.Rank(), b.Priority.Rank(); ra != rb {
			return ra < rb
		}
		return a.Order < b.Order
	})
	for _, t := range candidates {
		if e.dependenciesResolved(t) {
			return cloneTask(t), true
		}
	}
	return cloneTask(candidates[0]), true
}

func (e *Engine) dependenciesResolved(t domain.Task) bool {
	for _, id := range t.Dependencies {
		idx := e.taskIndex(id)
		if idx < 0 || !e.state.Tasks[idx].Status.Resolved() {
			return false
		}
	}
	return true
}

// GlobalNext pairs the recommended task with its owning business.
type GlobalNext struct {
	Business domain.Business `json:"business"`
	Task     domain.Task     `json:"task"`
	Health   domain.Health   `json:"health"`
}

// GlobalNextTask walks businesses by priority tier, least healthy first
// within a tier, and returns the first next task found.
func (e *Engine) GlobalNextTask() (GlobalNext, bool) {
	for _, h := range e.attentionOrder() {
		b, _ := e.Business(h.BusinessID)
		if t, ok := e.NextTask(b.ID); ok {
			return GlobalNext{Business: b, Task: t, Health: h}, true
		}
	}
	return GlobalNext{}, false
}

func (e *Engine) attentionOrder() []domain.Health {
	hs := e.AllBusinessHealth()
	sort.SliceStable(hs, func(i, j int) bool {
		if ri, rj := hs[i].Priority.Rank(), hs[j].Priority.Rank(); ri != rj {
			return ri < rj
		}
		return hs[i].Score < hs[j].Score
	})
	return hs
}
