package migrate

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"checkline/internal/domain"
)

const legacyBusinessName = "My Business"

// legacyState is the version 1 document: one implicit business.
type legacyState struct {
	UserID       string                `json:"userId"`
	BusinessName string                `json:"businessName,omitempty"`
	CurrentStage domain.Stage          `json:"currentStage"`
	Tasks        []domain.Task         `json:"tasks"`
	Categories   []domain.TaskCategory `json:"categories"`
	CreatedAt    time.Time             `json:"createdAt"`
	UpdatedAt    time.Time             `json:"updatedAt"`
}

// LegacyBusinessID is the id synthesized for the implicit business of a
// version 1 document. It is derived from the document so repeated upgrades agree.
func LegacyBusinessID(userID string, createdAt time.Time) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("legacy|"+userID+"|"+createdAt.UTC().Format(time.RFC3339Nano))).String()
}

func upgradeSingleBusiness(doc []byte) ([]byte, error) {
	var old legacyState
	if err := json.Unmarshal(doc, &old); err != nil {
		return nil, err
	}
	name := old.BusinessName
	if name == "" {
		name = legacyBusinessName
	}
	stage := old.CurrentStage
	if !stage.Valid() {
		stage = domain.StageIdea
	}
	updated := old.UpdatedAt
	if updated.IsZero() {
		updated = old.CreatedAt
	}
	biz := domain.Business{
		ID:            LegacyBusinessID(old.UserID, old.CreatedAt),
		Name:          name,
		ShortName:     domain.Abbreviate(name),
		Stage:         stage,
		RevenueStatus: domain.RevenuePreRevenue,
		Priority:      domain.BusinessPrimary,
		CreatedAt:     old.CreatedAt,
		UpdatedAt:     updated,
	}
	tasks := old.Tasks
	if tasks == nil {
		tasks = []domain.Task{}
	}
	for i := range tasks {
		tasks[i].BusinessID = biz.ID
	}
	categories := old.Categories
	if categories == nil {
		categories = []domain.TaskCategory{}
	}
	next := domain.State{
		Version:        2,
		OperatorID:     old.UserID,
		Businesses:     []domain.Business{biz},
		ActiveBusiness: biz.ID,
		Tasks:          tasks,
		Categories:     categories,
		CreatedAt:      old.CreatedAt,
		UpdatedAt:      updated,
	}
	return json.Marshal(next)
}
