// Package catalog holds the default categories and seed task templates used
// to bootstrap a business checklist.
package catalog

import (
	"time"

	"checkline/internal/domain"
)

// Instantiate turns every seed template into a pending template task owned by businessID.
func Instantiate(businessID string, now time.Time, newID func() string) []domain.Task {
	out := make([]domain.Task, 0, len(Tasks))
	for _, tpl := range Tasks {
		out = append(out, domain.Task{
			ID:           newID(),
			Title:        tpl.Title,
			BusinessID:   businessID,
			Stage:        tpl.Stage,
			Category:     tpl.Category,
			Status:       domain.StatusPending,
			Priority:     tpl.Priority,
			Source:       domain.SourceTemplate,
			Order:        tpl.Order,
			AISuggestion: tpl.AISuggestion,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}
	return out
}

// DefaultCategories returns a copy of the category catalog.
func DefaultCategories() []domain.TaskCategory {
	out := make([]domain.TaskCategory, len(Categories))
	copy(out, Categories)
	return out
}
