// Package facade turns flat action requests into engine calls and renders
// the result as plain text. Every call returns a string; errors and panics
// are rendered as "❌" lines.
package facade

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"

	"checkline/internal/domain"
	"checkline/internal/engine"
	"checkline/internal/journal"
)

// Command is the flat request accepted by Execute.
type Command struct {
	Action           string `json:"action"`
	Stage            string `json:"stage,omitempty"`
	Category         string `json:"category,omitempty"`
	TaskID           string `json:"taskId,omitempty"`
	BusinessID       string `json:"businessId,omitempty"`
	BusinessName     string `json:"businessName,omitempty"`
	Title            string `json:"title,omitempty"`
	Description      string `json:"description,omitempty"`
	Priority         string `json:"priority,omitempty"`
	BusinessPriority string `json:"businessPriority,omitempty"`
	Domain           string `json:"domain,omitempty"`
	ShortName        string `json:"shortName,omitempty"`
	Status           string `json:"status,omitempty"`
	RevenueStatus    string `json:"revenueStatus,omitempty"`
	Notes            string `json:"notes,omitempty"`
	Limit            int    `json:"limit,omitempty"`
}

// History reads recent journal entries.
type History interface {
	Tail(ctx context.Context, n int, businessID string) ([]journal.Entry, error)
}

type Options struct {
	Bootstrap     engine.BootstrapOptions
	ListLimit     int
	OverviewLimit int
	History       History
	Log           log.FieldLogger
}

const (
	defaultListLimit     = 20
	defaultOverviewLimit = 25
	defaultHistoryLimit  = 10
)

type handler struct {
	run     func(f *Facade, ctx context.Context, cmd Command) (string, error)
	mutates bool
}

var handlers = map[string]handler{
	"status":       {run: (*Facade).status},
	"overview":     {run: (*Facade).overview},
	"businesses":   {run: (*Facade).businesses},
	"focus":        {run: (*Facade).focus},
	"add-business": {run: (*Facade).addBusiness, mutates: true},
	"next":         {run: (*Facade).next},
	"complete":     {run: (*Facade).complete, mutates: true},
	"skip":         {run: (*Facade).skip, mutates: true},
	"start":        {run: (*Facade).start, mutates: true},
	"add":          {run: (*Facade).add, mutates: true},
	"daily":        {run: (*Facade).daily},
	"list":         {run: (*Facade).list},
	"detail":       {run: (*Facade).detail},
	"set-stage":    {run: (*Facade).setStage, mutates: true},
	"use":          {run: (*Facade).use, mutates: true},
	"summary":      {run: (*Facade).summary},
	"grouped":      {run: (*Facade).grouped},
	"history":      {run: (*Facade).history},
}

// Actions lists the accepted action names in a stable order.
func Actions() []string {
	out := make([]string, 0, len(handlers))
	for name := range handlers {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Facade serializes access to one engine.
type Facade struct {
	mu     sync.Mutex
	engine *engine.Engine
	opts   Options
	ready  bool
}

func New(e *engine.Engine, opts Options) *Facade {
	if opts.ListLimit <= 0 {
		opts.ListLimit = defaultListLimit
	}
	if opts.OverviewLimit <= 0 {
		opts.OverviewLimit = defaultOverviewLimit
	}
	if opts.Log == nil {
		opts.Log = log.StandardLogger()
	}
	return &Facade{engine: e, opts: opts}
}

// Execute runs one command. The first call loads the document and, when it
// holds no businesses, bootstraps and persists the default one.
func (f *Facade) Execute(ctx context.Context, cmd Command) (out string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	defer func() {
		if r := recover(); r != nil {
			f.opts.Log.WithFields(log.Fields{"action": cmd.Action, "panic": r}).Error("command panicked")
			out = fmt.Sprintf("❌ Internal error: %v", r)
		}
	}()

	action := strings.ToLower(strings.TrimSpace(cmd.Action))
	h, ok := handlers[action]
	if !ok {
		return fmt.Sprintf("❌ Unknown action: %s. Valid: %s", cmd.Action, strings.Join(Actions(), ", "))
	}
	if err := f.ensureReady(ctx); err != nil {
		return renderError(err)
	}
	res, err := h.run(f, ctx, cmd)
	if err != nil {
		return renderError(err)
	}
	if h.mutates && f.engine.Dirty() {
		if err := f.engine.Save(ctx); err != nil {
			f.opts.Log.WithError(err).WithField("action", action).Error("save failed")
			return renderError(err)
		}
	}
	return res
}

func (f *Facade) ensureReady(ctx context.Context) error {
	if f.ready {
		return nil
	}
	if !f.engine.Loaded() {
		if err := f.engine.Load(ctx); err != nil {
			return err
		}
	}
	b, created, err := f.engine.Bootstrap(f.opts.Bootstrap)
	if err != nil {
		return err
	}
	if created {
		if err := f.engine.Save(ctx); err != nil {
			return err
		}
		f.opts.Log.WithFields(log.Fields{"business": b.Name, "id": b.ID}).Info("bootstrapped default business")
	}
	f.ready = true
	return nil
}

// scope picks the business named by the request, falling back to the active one.
func (f *Facade) scope(cmd Command) (domain.Business, error) {
	ref := cmd.BusinessID
	if ref == "" {
		ref = cmd.BusinessName
	}
	if ref != "" {
		b, ok := f.engine.ResolveBusiness(ref)
		if !ok {
			return domain.Business{}, notFound{what: "Business", ref: ref}
		}
		return b, nil
	}
	b, ok := f.engine.ActiveBusiness()
	if !ok {
		return domain.Business{}, notFound{what: "Business", ref: "(active)"}
	}
	return b, nil
}

func (f *Facade) resolveTask(cmd Command) (domain.Task, error) {
	if strings.TrimSpace(cmd.TaskID) == "" {
		return domain.Task{}, required("taskId")
	}
	t, err := f.engine.ResolveTask(cmd.TaskID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Task{}, notFound{what: "Task"}
	}
	return t, err
}

type notFound struct {
	what string
	ref  string
}

func (n notFound) Error() string {
	if n.ref == "" {
		return n.what + " not found"
	}
	return fmt.Sprintf("%s not found: %s", n.what, n.ref)
}

func (n notFound) Unwrap() error { return domain.ErrNotFound }

type missingField string

func (m missingField) Error() string { return string(m) + " required" }

func required(field string) error { return missingField(field) }

func renderError(err error) string {
	var nf notFound
	var mf missingField
	var se *domain.StorageError
	switch {
	case errors.As(err, &nf):
		return "❌ " + nf.Error()
	case errors.As(err, &mf):
		return "❌ " + mf.Error()
	case errors.As(err, &se):
		return "❌ Storage error: " + se.Error()
	case errors.Is(err, domain.ErrNotFound):
		return "❌ Not found: " + err.Error()
	}
	return "❌ " + err.Error()
}
