package engine

import (
	"fmt"
	"sort"
	"strings"

	"checkline/internal/domain"
	"checkline/internal/journal"
)

const (
	customTaskOrder = 999
	minPrefixLen    = 4
)

// TaskSpec are the parameters for creating a task.
type TaskSpec struct {
	BusinessID   string
	Title        string
	Description  string
	Stage        domain.Stage
	Category     string
	Priority     domain.TaskPriority
	Source       domain.TaskSource
	Dependencies []string
	Order        *int
	CrossCutting bool
	AISuggestion string
	DueDate      string
	Notes        string
}

// TaskUpdate carries the fields to merge; nil fields are left unchanged.
type TaskUpdate struct {
	Title        *string
	Description  *string
	Category     *string
	Status       *domain.TaskStatus
	Priority     *domain.TaskPriority
	Order        *int
	Dependencies *[]string
	CrossCutting *bool
	AISuggestion *string
	DueDate      *string
	Notes        *string
}

type TaskFilter struct {
	BusinessID string
	Stage      domain.Stage
	Category   string
	Status     domain.TaskStatus
}

func (e *Engine) AddTask(spec TaskSpec) (domain.Task, error) {
	title := strings.TrimSpace(spec.Title)
	if title == "" {
		return domain.Task{}, domain.Required("title")
	}
	if spec.BusinessID == "" {
		return domain.Task{}, domain.Required("businessId")
	}
	b, ok := e.Business(spec.BusinessID)
	if !ok {
		return domain.Task{}, fmt.Errorf("business %s: %w", spec.BusinessID, domain.ErrNotFound)
	}
	if spec.Stage == "" {
		spec.Stage = b.Stage
	}
	if !spec.Stage.Valid() {
		return domain.Task{}, &domain.ValidationError{Field: "stage", Message: fmt.Sprintf("unknown stage %q", spec.Stage)}
	}
	if spec.Category == "" {
		spec.Category = string(spec.Stage) + "-custom"
	}
	if spec.Priority == "" {
		spec.Priority = domain.PriorityMedium
	}
	if !spec.Priority.Valid() {
		return domain.Task{}, &domain.ValidationError{Field: "priority", Message: fmt.Sprintf("unknown priority %q", spec.Priority)}
	}
	if spec.Source == "" {
		spec.Source = domain.SourceUser
	}
	id := e.newID()
	if err := e.checkDependencies(id, spec.Dependencies); err != nil {
		return domain.Task{}, err
	}
	order := customTaskOrder
	if spec.Order != nil {
		order = *spec.Order
	}
	now := e.now()
	t := domain.Task{
		ID:           id,
		Title:        title,
		Description:  spec.Description,
		BusinessID:   b.ID,
		Stage:        spec.Stage,
		Category:     spec.Category,
		Status:       domain.StatusPending,
		Priority:     spec.Priority,
		Source:       spec.Source,
		Dependencies: append([]string(nil), spec.Dependencies...),
		Order:        order,
		CrossCutting: spec.CrossCutting,
		AISuggestion: spec.AISuggestion,
		DueDate:      spec.DueDate,
		Notes:        spec.Notes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	e.state.Tasks = append(e.state.Tasks, t)
	e.markDirty(journal.Entry{
		Type:       "task.created",
		BusinessID: b.ID,
		EntityKind: "task",
		EntityID:   t.ID,
		Payload:    journal.Payload{"title": t.Title, "stage": t.Stage, "priority": t.Priority, "source": t.Source},
	})
	return cloneTask(t), nil
}

// UpdateTask merges fields into a task. Setting status to completed stamps
// completedAt when unset; any other status clears it.
func (e *Engine) UpdateTask(id string, upd TaskUpdate) (domain.Task, error) {
	idx := e.taskIndex(id)
	if idx < 0 {
		return domain.Task{}, fmt.Errorf("task %s: %w", id, domain.ErrNotFound)
	}
	t := cloneTask(e.state.Tasks[idx])
	from := t.Status
	if upd.Title != nil {
		title := strings.TrimSpace(*upd.Title)
		if title == "" {
			return domain.Task{}, domain.Required("title")
		}
		t.Title = title
	}
	if upd.Description != nil {
		t.Description = *upd.Description
	}
	if upd.Category != nil {
		t.Category = *upd.Category
	}
	if upd.Priority != nil {
		if !upd.Priority.Valid() {
			return domain.Task{}, &domain.ValidationError{Field: "priority", Message: fmt.Sprintf("unknown priority %q", *upd.Priority)}
		}
		t.Priority = *upd.Priority
	}
	if upd.Order != nil {
		t.Order = *upd.Order
	}
	if upd.Dependencies != nil {
		if err := e.checkDependencies(t.ID, *upd.Dependencies); err != nil {
			return domain.Task{}, err
		}
		t.Dependencies = append([]string(nil), (*upd.Dependencies)...)
	}
	if upd.CrossCutting != nil {
		t.CrossCutting = *upd.CrossCutting
	}
	if upd.AISuggestion != nil {
		t.AISuggestion = *upd.AISuggestion
	}
	if upd.DueDate != nil {
		t.DueDate = *upd.DueDate
	}
	if upd.Notes != nil {
		t.Notes = *upd.Notes
	}
	now := e.now()
	if upd.Status != nil {
		if !upd.Status.Valid() {
			return domain.Task{}, &domain.ValidationError{Field: "status", Message: fmt.Sprintf("unknown status %q", *upd.Status)}
		}
		t.Status = *upd.Status
		if t.Status == domain.StatusCompleted {
			if t.CompletedAt == nil {
				t.CompletedAt = &now
			}
		} else {
			t.CompletedAt = nil
		}
	}
	t.UpdatedAt = now
	e.state.Tasks[idx] = t
	e.markDirty(journal.Entry{
		Type:       taskEventType(from, t.Status),
		BusinessID: t.BusinessID,
		EntityKind: "task",
		EntityID:   t.ID,
		Payload:    journal.Payload{"fromStatus": from, "toStatus": t.Status, "title": t.Title},
	})
	return cloneTask(t), nil
}

func (e *Engine) CompleteTask(id string) (domain.Task, error) {
	return e.setStatus(id, domain.StatusCompleted)
}

func (e *Engine) SkipTask(id string) (domain.Task, error) {
	return e.setStatus(id, domain.StatusSkipped)
}

func (e *Engine) StartTask(id string) (domain.Task, error) {
	return e.setStatus(id, domain.StatusInProgress)
}

func (e *Engine) setStatus(id string, status domain.TaskStatus) (domain.Task, error) {
	return e.UpdateTask(id, TaskUpdate{Status: &status})
}

// DeleteTask removes a task and drops it from other tasks' dependencies.
func (e *Engine) DeleteTask(id string) error {
	idx := e.taskIndex(id)
	if idx < 0 {
		return fmt.Errorf("task %s: %w", id, domain.ErrNotFound)
	}
	removed := e.state.Tasks[idx]
	e.state.Tasks = append(e.state.Tasks[:idx], e.state.Tasks[idx+1:]...)
	for i := range e.state.Tasks {
		deps := e.state.Tasks[i].Dependencies
		if len(deps) == 0 {
			continue
		}
		kept := deps[:0:0]
		for _, d := range deps {
			if d != id {
				kept = append(kept, d)
			}
		}
		if len(kept) == 0 {
			kept = nil
		}
		e.state.Tasks[i].Dependencies = kept
	}
	e.markDirty(journal.Entry{
		Type:       "task.deleted",
		BusinessID: removed.BusinessID,
		EntityKind: "task",
		EntityID:   id,
		Payload:    journal.Payload{"title": removed.Title},
	})
	return nil
}

func (e *Engine) Task(id string) (domain.Task, bool) {
	idx := e.taskIndex(id)
	if idx < 0 {
		return domain.Task{}, false
	}
	return cloneTask(e.state.Tasks[idx]), true
}

// ResolveTask finds a task by exact id or by a unique id prefix of at least
// four characters.
func (e *Engine) ResolveTask(ref string) (domain.Task, error) {
	ref = strings.TrimSpace(ref)
	if t, ok := e.Task(ref); ok {
		return t, nil
	}
	if len(ref) >= minPrefixLen {
		var match []int
		for i, t := range e.state.Tasks {
			if strings.HasPrefix(t.ID, ref) {
				match = append(match, i)
			}
		}
		switch len(match) {
		case 1:
			return cloneTask(e.state.Tasks[match[0]]), nil
		case 0:
		default:
			return domain.Task{}, &domain.ValidationError{Field: "taskId", Message: fmt.Sprintf("prefix %q matches %d tasks", ref, len(match))}
		}
	}
	return domain.Task{}, fmt.Errorf("task %s: %w", ref, domain.ErrNotFound)
}

// Tasks lists tasks matching the filter in display order: stage, category
// order, then task order.
func (e *Engine) Tasks(f TaskFilter) []domain.Task {
	var out []domain.Task
	for _, t := range e.state.Tasks {
		if f.BusinessID != "" && t.BusinessID != f.BusinessID {
			continue
		}
		if f.Stage != "" && t.Stage != f.Stage {
			continue
		}
		if f.Category != "" && t.Category != f.Category {
			continue
		}
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		out = append(out, cloneTask(t))
	}
	catOrder := e.categoryOrder()
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if sa, sb := stageIndex(a.Stage), stageIndex(b.Stage); sa != sb {
			return sa < sb
		}
		if ca, cb := categoryRank(catOrder, a.Category), categoryRank(catOrder, b.Category); ca != cb {
			return ca < cb
		}
		return a.Order < b.Order
	})
	return out
}

// Categories returns the category catalog, optionally for one stage, by display order.
func (e *Engine) Categories(stage domain.Stage) []domain.TaskCategory {
	var out []domain.TaskCategory
	for _, c := range e.state.Categories {
		if stage == "" || c.Stage == stage {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if sa, sb := stageIndex(out[i].Stage), stageIndex(out[j].Stage); sa != sb {
			return sa < sb
		}
		return out[i].Order < out[j].Order
	})
	return out
}

// Category looks up category metadata by id.
func (e *Engine) Category(id string) (domain.TaskCategory, bool) {
	for _, c := range e.state.Categories {
		if c.ID == id {
			return c, true
		}
	}
	return domain.TaskCategory{}, false
}

func (e *Engine) taskIndex(id string) int {
	for i, t := range e.state.Tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (e *Engine) businessTasks(businessID string) []domain.Task {
	var out []domain.Task
	for _, t := range e.state.Tasks {
		if t.BusinessID == businessID {
			out = append(out, t)
		}
	}
	return out
}

func (e *Engine) checkDependencies(id string, deps []string) error {
	for _, d := range deps {
		if d == id {
			return &domain.ValidationError{Field: "dependencies", Message: "task cannot depend on itself"}
		}
		if e.taskIndex(d) < 0 {
			return &domain.ValidationError{Field: "dependencies", Message: fmt.Sprintf("unknown task %s", d)}
		}
	}
	return nil
}

func (e *Engine) categoryOrder() map[string]int {
	m := make(map[string]int, len(e.state.Categories))
	for _, c := range e.state.Categories {
		m[c.ID] = c.Order
	}
	return m
}

func categoryRank(order map[string]int, id string) int {
	if o, ok := order[id]; ok {
		return o
	}
	return customTaskOrder
}

func stageIndex(s domain.Stage) int {
	for i, v := range domain.Stages {
		if v == s {
			return i
		}
	}
	return len(domain.Stages)
}

func taskEventType(from, to domain.TaskStatus) string {
	if from == to {
		return "task.updated"
	}
	switch to {
	case domain.StatusCompleted:
		return "task.completed"
	case domain.StatusSkipped:
		return "task.skipped"
	case domain.StatusInProgress:
		return "task.started"
	case domain.StatusPending:
		return "task.reopened"
	}
	return "task.updated"
}
