package engine

import (
	"fmt"
	"math"
	"sort"
	"time"

	"checkline/internal/domain"
)

const (
	completionWeight  = 0.20
	recencyWindowDays = 15
	blockerAllowance  = 20
	blockerPenalty    = 4
	engagementBonus   = 10
	structuralBonus   = 10
	staleAfterDays    = 14
	criticalBelow     = 30
	staleBelow        = 50
	attentionBelow    = 70
	maxHealth         = 100
)

var revenueScore = map[domain.RevenueStatus]float64{
	domain.RevenueActive:     25,
	domain.RevenuePreRevenue: 10,
	domain.RevenueDeclining:  5,
	domain.RevenuePaused:     0,
}

// BusinessHealth scores one business from its checklist completion, revenue
// posture, recency of activity and open critical work.
func (e *Engine) BusinessHealth(businessID string) (domain.Health, error) {
	b, ok := e.Business(businessID)
	if !ok {
		return domain.Health{}, fmt.Errorf("business %s: %w", businessID, domain.ErrNotFound)
	}
	return e.health(b), nil
}

// AllBusinessHealth scores every business, worst first. Ties keep document order.
func (e *Engine) AllBusinessHealth() []domain.Health {
	out := make([]domain.Health, 0, len(e.state.Businesses))
	for _, b := range e.state.Businesses {
		out = append(out, e.health(b))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score < out[j].Score })
	return out
}

func (e *Engine) health(b domain.Business) domain.Health {
	tasks := e.businessTasks(b.ID)
	completed, blocked := 0, 0
	last := b.UpdatedAt
	for _, t := range tasks {
		if t.Status == domain.StatusCompleted {
			completed++
		}
		if t.Priority == domain.PriorityCritical && t.Status.Open() {
			blocked++
		}
		if t.UpdatedAt.After(last) {
			last = t.UpdatedAt
		}
	}
	pct := percent(completed, len(tasks))
	days := daysSince(last, e.now())

	score := float64(pct) * completionWeight
	score += revenueScore[b.RevenueStatus]
	score += math.Max(0, float64(recencyWindowDays-days))
	score += math.Max(0, float64(blockerAllowance-blocked*blockerPenalty))
	if len(tasks) > 0 {
		score += engagementBonus
	}
	// Placeholder for a dependency-graph signal; constant for now.
	score += structuralBonus
	score = math.Min(maxHealth, math.Max(0, score))

	h := domain.Health{
		BusinessID:        b.ID,
		Name:              b.Name,
		ShortName:         b.ShortName,
		Priority:          b.Priority,
		Stage:             b.Stage,
		Score:             int(math.Round(score)),
		ChecklistPercent:  pct,
		DaysSinceActivity: days,
		CriticalBlocked:   blocked,
		TaskCount:         len(tasks),
	}
	h.Signal = signalFor(h.Score, days)
	return h
}

func signalFor(score, days int) domain.Signal {
	switch {
	case score < criticalBelow:
		return domain.SignalCritical
	case score < staleBelow || days > staleAfterDays:
		return domain.SignalStale
	case score < attentionBelow:
		return domain.SignalAttention
	}
	return domain.SignalHealthy
}

// daysSince counts whole days elapsed, never negative.
func daysSince(then, now time.Time) int {
	if then.IsZero() || !now.After(then) {
		return 0
	}
	return int(now.Sub(then) / (24 * time.Hour))
}
