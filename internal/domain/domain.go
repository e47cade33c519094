package domain

import (
	"strings"
	"time"
	"unicode"
)

// CurrentVersion is the schema generation written by this module.
const CurrentVersion = 2

type Stage string

const (
	StageIdea   Stage = "idea"
	StageLaunch Stage = "launch"
	StageGrowth Stage = "growth"
	StageMature Stage = "mature"
	StageSunset Stage = "sunset"
)

// Stages lists every business stage in progression order.
var Stages = []Stage{StageIdea, StageLaunch, StageGrowth, StageMature, StageSunset}

// ProgressStages are the stages included in progress rollups.
var ProgressStages = []Stage{StageIdea, StageLaunch, StageGrowth}

func (s Stage) Valid() bool {
	for _, v := range Stages {
		if v == s {
			return true
		}
	}
	return false
}

type RevenueStatus string

const (
	RevenueActive     RevenueStatus = "active"
	RevenuePreRevenue RevenueStatus = "pre-revenue"
	RevenueDeclining  RevenueStatus = "declining"
	RevenuePaused     RevenueStatus = "paused"
)

func (r RevenueStatus) Valid() bool {
	switch r {
	case RevenueActive, RevenuePreRevenue, RevenueDeclining, RevenuePaused:
		return true
	}
	return false
}

type BusinessPriority string

const (
	BusinessPrimary    BusinessPriority = "primary"
	BusinessSecondary  BusinessPriority = "secondary"
	BusinessSupporting BusinessPriority = "supporting"
	BusinessPassive    BusinessPriority = "passive"
)

// Rank orders business priorities; lower ranks are examined first.
func (p BusinessPriority) Rank() int {
	switch p {
	case BusinessPrimary:
		return 0
	case BusinessSecondary:
		return 1
	case BusinessSupporting:
		return 2
	case BusinessPassive:
		return 3
	}
	return 4
}

func (p BusinessPriority) Valid() bool { return p.Rank() < 4 }

type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
	StatusSkipped    TaskStatus = "skipped"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusSkipped:
		return true
	}
	return false
}

// Open reports whether the task still needs work.
func (s TaskStatus) Open() bool { return s == StatusPending || s == StatusInProgress }

// Resolved reports whether the task no longer gates its dependents.
func (s TaskStatus) Resolved() bool { return s == StatusCompleted || s == StatusSkipped }

type TaskPriority string

const (
	PriorityCritical TaskPriority = "critical"
	PriorityHigh     TaskPriority = "high"
	PriorityMedium   TaskPriority = "medium"
	PriorityLow      TaskPriority = "low"
)

// Rank orders task priorities; critical is 0.
func (p TaskPriority) Rank() int {
	switch p {
	case PriorityCritical:
		return 0
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	}
	return 4
}

func (p TaskPriority) Valid() bool { return p.Rank() < 4 }

type TaskSource string

const (
	SourceTemplate TaskSource = "template"
	SourceAI       TaskSource = "ai"
	SourceUser     TaskSource = "user"
)

type Business struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	ShortName     string           `json:"shortName"`
	Stage         Stage            `json:"stage"`
	Role          string           `json:"role,omitempty"`
	RevenueStatus RevenueStatus    `json:"revenueStatus"`
	Priority      BusinessPriority `json:"priority"`
	Domain        string           `json:"domain,omitempty"`
	RelatedTo     []string         `json:"relatedTo,omitempty"`
	Tags          []string         `json:"tags,omitempty"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

type Task struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Description  string       `json:"description,omitempty"`
	BusinessID   string       `json:"businessId,omitempty"`
	Stage        Stage        `json:"stage"`
	Category     string       `json:"category"`
	Status       TaskStatus   `json:"status"`
	Priority     TaskPriority `json:"priority"`
	Source       TaskSource   `json:"source,omitempty"`
	Dependencies []string     `json:"dependencies,omitempty"`
	Order        int          `json:"order"`
	CrossCutting bool         `json:"crossCutting,omitempty"`
	AISuggestion string       `json:"aiSuggestion,omitempty"`
	DueDate      string       `json:"dueDate,omitempty"`
	Notes        string       `json:"notes,omitempty"`
	CompletedAt  *time.Time   `json:"completedAt,omitempty"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

type TaskCategory struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Stage       Stage  `json:"stage"`
	Description string `json:"description,omitempty"`
	Order       int    `json:"order"`
	Icon        string `json:"icon,omitempty"`
}

// State is the persisted root document.
type State struct {
	Version        int            `json:"version"`
	OperatorID     string         `json:"operatorId"`
	Businesses     []Business     `json:"businesses"`
	ActiveBusiness string         `json:"activeBusiness,omitempty"`
	Tasks          []Task         `json:"tasks"`
	Categories     []TaskCategory `json:"categories"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

type StageProgress struct {
	Stage     Stage `json:"stage"`
	Completed int   `json:"completed"`
	Skipped   int   `json:"skipped"`
	Total     int   `json:"total"`
	Percent   int   `json:"percent"`
}

type Progress struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
	Percent   int `json:"percent"`
}

type CategoryProgress struct {
	Category TaskCategory `json:"category"`
	Progress
}

type Signal string

const (
	SignalCritical  Signal = "critical"
	SignalStale     Signal = "stale"
	SignalAttention Signal = "attention"
	SignalHealthy   Signal = "healthy"
)

// Health is the scored posture of one business.
type Health struct {
	BusinessID        string           `json:"businessId"`
	Name              string           `json:"name"`
	ShortName         string           `json:"shortName"`
	Priority          BusinessPriority `json:"priority"`
	Stage             Stage            `json:"stage"`
	Score             int              `json:"score"`
	Signal            Signal           `json:"signal"`
	ChecklistPercent  int              `json:"checklistPercent"`
	DaysSinceActivity int              `json:"daysSinceActivity"`
	CriticalBlocked   int              `json:"criticalBlocked"`
	TaskCount         int              `json:"taskCount"`
}

type DailyTask struct {
	TaskID     string       `json:"taskId"`
	BusinessID string       `json:"businessId"`
	Title      string       `json:"title"`
	Priority   TaskPriority `json:"priority"`
	Status     TaskStatus   `json:"status"`
	Completed  bool         `json:"completed"`
}

type StandUpGroup struct {
	Business Business    `json:"business"`
	Health   Health      `json:"health"`
	Tasks    []DailyTask `json:"tasks"`
}

type DailyStandUp struct {
	Date                string         `json:"date"`
	Groups              []StandUpGroup `json:"groups"`
	CrossCutting        []DailyTask    `json:"crossCutting,omitempty"`
	FocusRecommendation string         `json:"focusRecommendation,omitempty"`
}

// Abbreviate derives a display abbreviation from the initials of a name.
func Abbreviate(name string) string {
	var out []rune
	for _, word := range strings.Fields(name) {
		for _, r := range word {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				out = append(out, unicode.ToUpper(r))
				break
			}
		}
	}
	if len(out) == 0 {
		return ""
	}
	if len(out) == 1 {
		runes := []rune(strings.ToUpper(strings.TrimSpace(name)))
		if len(runes) > 3 {
			runes = runes[:3]
		}
		return string(runes)
	}
	return string(out)
}
