package engine

import (
	"fmt"
	"strings"

	"checkline/internal/catalog"
	"checkline/internal/domain"
	"checkline/internal/journal"
)

// BusinessSpec are the parameters for creating a business.
type BusinessSpec struct {
	Name          string
	ShortName     string
	Stage         domain.Stage
	Role          string
	RevenueStatus domain.RevenueStatus
	Priority      domain.BusinessPriority
	Domain        string
	RelatedTo     []string
	Tags          []string
	// SkipSeed leaves the new business without template tasks.
	SkipSeed bool
}

// BusinessUpdate carries the fields to merge; nil fields are left unchanged.
type BusinessUpdate struct {
	Name          *string
	ShortName     *string
	Stage         *domain.Stage
	Role          *string
	RevenueStatus *domain.RevenueStatus
	Priority      *domain.BusinessPriority
	Domain        *string
	RelatedTo     *[]string
	Tags          *[]string
}

func (e *Engine) AddBusiness(spec BusinessSpec) (domain.Business, error) {
	name := strings.TrimSpace(spec.Name)
	if name == "" {
		return domain.Business{}, domain.Required("name")
	}
	if spec.Stage == "" {
		spec.Stage = domain.StageIdea
	}
	if spec.RevenueStatus == "" {
		spec.RevenueStatus = domain.RevenuePreRevenue
	}
	if spec.Priority == "" {
		spec.Priority = domain.BusinessSecondary
		if len(e.state.Businesses) == 0 {
			spec.Priority = domain.BusinessPrimary
		}
	}
	if err := validateBusinessEnums(spec.Stage, spec.RevenueStatus, spec.Priority); err != nil {
		return domain.Business{}, err
	}
	short := strings.TrimSpace(spec.ShortName)
	if short == "" {
		short = domain.Abbreviate(name)
	}
	now := e.now()
	b := domain.Business{
		ID:            e.newID(),
		Name:          name,
		ShortName:     short,
		Stage:         spec.Stage,
		Role:          spec.Role,
		RevenueStatus: spec.RevenueStatus,
		Priority:      spec.Priority,
		Domain:        spec.Domain,
		RelatedTo:     append([]string(nil), spec.RelatedTo...),
		Tags:          append([]string(nil), spec.Tags...),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	e.state.Businesses = append(e.state.Businesses, b)
	if e.state.ActiveBusiness == "" {
		e.state.ActiveBusiness = b.ID
	}
	if len(e.state.Categories) == 0 {
		e.state.Categories = catalog.DefaultCategories()
	}
	seeded := 0
	if !spec.SkipSeed {
		tasks := catalog.Instantiate(b.ID, now, e.newID)
		e.state.Tasks = append(e.state.Tasks, tasks...)
		seeded = len(tasks)
	}
	e.markDirty(journal.Entry{
		Type:       "business.created",
		BusinessID: b.ID,
		EntityKind: "business",
		EntityID:   b.ID,
		Payload:    journal.Payload{"name": b.Name, "priority": b.Priority, "seeded": seeded},
	})
	return b, nil
}

func (e *Engine) UpdateBusiness(id string, upd BusinessUpdate) (domain.Business, error) {
	idx := e.businessIndex(id)
	if idx < 0 {
		return domain.Business{}, fmt.Errorf("business %s: %w", id, domain.ErrNotFound)
	}
	b := e.state.Businesses[idx]
	var changed []string
	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return domain.Business{}, domain.Required("name")
		}
		b.Name = name
		changed = append(changed, "name")
	}
	if upd.ShortName != nil {
		b.ShortName = strings.TrimSpace(*upd.ShortName)
		changed = append(changed, "shortName")
	}
	if upd.Stage != nil {
		b.Stage = *upd.Stage
		changed = append(changed, "stage")
	}
	if upd.Role != nil {
		b.Role = *upd.Role
		changed = append(changed, "role")
	}
	if upd.RevenueStatus != nil {
		b.RevenueStatus = *upd.RevenueStatus
		changed = append(changed, "revenueStatus")
	}
	if upd.Priority != nil {
		b.Priority = *upd.Priority
		changed = append(changed, "priority")
	}
	if upd.Domain != nil {
		b.Domain = *upd.Domain
		changed = append(changed, "domain")
	}
	if upd.RelatedTo != nil {
		b.RelatedTo = append([]string(nil), (*upd.RelatedTo)...)
		changed = append(changed, "relatedTo")
	}
	if upd.Tags != nil {
		b.Tags = append([]string(nil), (*upd.Tags)...)
		changed = append(changed, "tags")
	}
	if err := validateBusinessEnums(b.Stage, b.RevenueStatus, b.Priority); err != nil {
		return domain.Business{}, err
	}
	from := e.state.Businesses[idx].Stage
	b.UpdatedAt = e.now()
	e.state.Businesses[idx] = b
	payload := journal.Payload{"fields": changed}
	if upd.Stage != nil {
		payload["fromStage"] = from
		payload["toStage"] = b.Stage
	}
	e.markDirty(journal.Entry{Type: "business.updated", BusinessID: b.ID, EntityKind: "business", EntityID: b.ID, Payload: payload})
	return b, nil
}

// SetStage moves a business to a stage. Moving backward is allowed.
func (e *Engine) SetStage(id string, stage domain.Stage) (domain.Business, error) {
	return e.UpdateBusiness(id, BusinessUpdate{Stage: &stage})
}

func (e *Engine) SetActiveBusiness(id string) error {
	if e.businessIndex(id) < 0 {
		return fmt.Errorf("business %s: %w", id, domain.ErrNotFound)
	}
	if e.state.ActiveBusiness == id {
		return nil
	}
	e.state.ActiveBusiness = id
	e.markDirty(journal.Entry{Type: "business.activated", BusinessID: id, EntityKind: "business", EntityID: id})
	return nil
}

// ResolveBusiness looks a business up by exact id, then case-insensitive
// name, then case-insensitive short name. There is no partial matching.
func (e *Engine) ResolveBusiness(ref string) (domain.Business, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return domain.Business{}, false
	}
	for _, b := range e.state.Businesses {
		if b.ID == ref {
			return b, true
		}
	}
	for _, b := range e.state.Businesses {
		if strings.EqualFold(b.Name, ref) {
			return b, true
		}
	}
	for _, b := range e.state.Businesses {
		if b.ShortName != "" && strings.EqualFold(b.ShortName, ref) {
			return b, true
		}
	}
	return domain.Business{}, false
}

func (e *Engine) Business(id string) (domain.Business, bool) {
	idx := e.businessIndex(id)
	if idx < 0 {
		return domain.Business{}, false
	}
	return e.state.Businesses[idx], true
}

func (e *Engine) Businesses() []domain.Business {
	return append([]domain.Business(nil), e.state.Businesses...)
}

// ActiveBusiness returns the default scope for unscoped commands.
func (e *Engine) ActiveBusiness() (domain.Business, bool) {
	return e.Business(e.state.ActiveBusiness)
}

// BootstrapOptions describe the default business created for an empty document.
type BootstrapOptions struct {
	OperatorID   string
	BusinessName string
	ShortName    string
}

// Bootstrap seeds one primary business with the full template catalog when
// the document has none. It reports whether anything was created.
func (e *Engine) Bootstrap(opts BootstrapOptions) (domain.Business, bool, error) {
	if len(e.state.Businesses) > 0 {
		if b, ok := e.ActiveBusiness(); ok {
			return b, false, nil
		}
		return e.state.Businesses[0], false, nil
	}
	e.SetOperator(opts.OperatorID)
	b, err := e.AddBusiness(BusinessSpec{
		Name:      opts.BusinessName,
		ShortName: opts.ShortName,
		Priority:  domain.BusinessPrimary,
	})
	if err != nil {
		return domain.Business{}, false, err
	}
	return b, true, nil
}

func (e *Engine) businessIndex(id string) int {
	for i, b := range e.state.Businesses {
		if b.ID == id {
			return i
		}
	}
	return -1
}

func validateBusinessEnums(stage domain.Stage, rev domain.RevenueStatus, prio domain.BusinessPriority) error {
	if !stage.Valid() {
		return &domain.ValidationError{Field: "stage", Message: fmt.Sprintf("unknown stage %q", stage)}
	}
	if !rev.Valid() {
		return &domain.ValidationError{Field: "revenueStatus", Message: fmt.Sprintf("unknown revenue status %q", rev)}
	}
	if !prio.Valid() {
		return &domain.ValidationError{Field: "priority", Message: fmt.Sprintf("unknown priority %q", prio)}
	}
	return nil
}
