// Package engine owns the checklist state: every mutation, the progress and
// health rollups, next-task selection, and the load/save cycle including the
// upgrade of legacy documents.
//
// An Engine is not safe for concurrent use. Callers exposing it to more than
// one goroutine must serialize load-mutate-save sequences themselves.
package engine

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"checkline/internal/domain"
	"checkline/internal/journal"
	"checkline/internal/migrate"
	"checkline/internal/store"
)

// Recorder receives journal entries after a successful save.
type Recorder interface {
	Record(ctx context.Context, entries []journal.Entry) error
}

type Engine struct {
	Store    store.Store
	Recorder Recorder
	Log      log.FieldLogger
	Now      func() time.Time
	NewID    func() string

	state   domain.State
	loaded  bool
	dirty   bool
	pending []journal.Entry
}

func New(st store.Store) *Engine {
	return &Engine{
		Store: st,
		Log:   log.StandardLogger(),
		Now:   time.Now,
		NewID: uuid.NewString,
		state: emptyState(time.Time{}),
	}
}

func (e *Engine) now() time.Time {
	if e.Now != nil {
		return e.Now().UTC()
	}
	return time.Now().UTC()
}

func (e *Engine) newID() string {
	if e.NewID != nil {
		return e.NewID()
	}
	return uuid.NewString()
}

func (e *Engine) logger() log.FieldLogger {
	if e.Log != nil {
		return e.Log
	}
	return log.StandardLogger()
}

func emptyState(now time.Time) domain.State {
	return domain.State{
		Version:    domain.CurrentVersion,
		Businesses: []domain.Business{},
		Tasks:      []domain.Task{},
		Categories: []domain.TaskCategory{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Load replaces the in-memory state with the stored document, upgrading a
// legacy document in memory. An upgraded state is dirty but is not written
// back until Save is called.
func (e *Engine) Load(ctx context.Context) error {
	raw, err := e.Store.Read(ctx)
	if err != nil {
		return asStorageError("read", e.Store.Location(), err)
	}
	e.pending = nil
	if raw == nil {
		e.state = emptyState(e.now())
		e.loaded = true
		e.dirty = false
		e.logger().WithField("path", e.Store.Location()).Debug("no checklist document; starting empty")
		return nil
	}
	doc, from, err := migrate.Migrate(raw)
	if err != nil {
		return &domain.StorageError{Op: "migrate", Path: e.Store.Location(), Err: err}
	}
	if err := store.Validate(doc); err != nil {
		return &domain.StorageError{Op: "validate", Path: e.Store.Location(), Err: err}
	}
	var st domain.State
	if err := json.Unmarshal(doc, &st); err != nil {
		return &domain.StorageError{Op: "decode", Path: e.Store.Location(), Err: err}
	}
	normalize(&st)
	e.state = st
	e.loaded = true
	e.dirty = from < domain.CurrentVersion
	fields := log.Fields{
		"path":       e.Store.Location(),
		"version":    st.Version,
		"businesses": len(st.Businesses),
		"tasks":      len(st.Tasks),
	}
	if e.dirty {
		fields["from"] = from
		e.logger().WithFields(fields).Warn("upgraded legacy checklist document in memory")
		e.queue(journal.Entry{
			Type:       "document.upgraded",
			BusinessID: st.ActiveBusiness,
			EntityKind: "document",
			Payload:    journal.Payload{"from": from, "to": st.Version},
		})
	} else {
		e.logger().WithFields(fields).Debug("loaded checklist document")
	}
	return nil
}

// Save writes the full document, stamping updatedAt, then flushes queued
// journal entries. A journal failure is logged and does not fail the save.
func (e *Engine) Save(ctx context.Context) error {
	normalize(&e.state)
	e.state.Version = domain.CurrentVersion
	e.state.UpdatedAt = e.now()
	if e.state.CreatedAt.IsZero() {
		e.state.CreatedAt = e.state.UpdatedAt
	}
	data, err := json.MarshalIndent(e.state, "", "  ")
	if err != nil {
		return &domain.StorageError{Op: "encode", Path: e.Store.Location(), Err: err}
	}
	if err := store.Validate(data); err != nil {
		return &domain.StorageError{Op: "validate", Path: e.Store.Location(), Err: err}
	}
	if err := e.Store.Write(ctx, data); err != nil {
		return asStorageError("write", e.Store.Location(), err)
	}
	e.dirty = false
	e.logger().WithFields(log.Fields{"path": e.Store.Location(), "bytes": len(data)}).Debug("saved checklist document")

	entries := e.pending
	e.pending = nil
	if e.Recorder != nil && len(entries) > 0 {
		if err := e.Recorder.Record(ctx, entries); err != nil {
			e.logger().WithError(err).WithField("entries", len(entries)).Error("journal flush failed")
		}
	}
	return nil
}

func (e *Engine) Loaded() bool { return e.loaded }

// Dirty reports whether the in-memory state has changes not yet saved.
func (e *Engine) Dirty() bool { return e.dirty }

// Snapshot returns a copy of the current state that callers may keep.
func (e *Engine) Snapshot() domain.State {
	st := e.state
	st.Businesses = append([]domain.Business(nil), e.state.Businesses...)
	st.Categories = append([]domain.TaskCategory(nil), e.state.Categories...)
	st.Tasks = make([]domain.Task, len(e.state.Tasks))
	for i, t := range e.state.Tasks {
		st.Tasks[i] = cloneTask(t)
	}
	return st
}

func (e *Engine) OperatorID() string { return e.state.OperatorID }

// SetOperator stamps the operator id on the document.
func (e *Engine) SetOperator(id string) {
	if id == "" || id == e.state.OperatorID {
		return
	}
	e.state.OperatorID = id
	e.markDirty(journal.Entry{Type: "operator.set", EntityKind: "document", Payload: journal.Payload{"operatorId": id}})
}

func (e *Engine) markDirty(entry journal.Entry) {
	e.dirty = true
	e.queue(entry)
}

func (e *Engine) queue(entry journal.Entry) {
	if entry.TS.IsZero() {
		entry.TS = e.now()
	}
	e.pending = append(e.pending, entry)
}

// normalize fills empty collections and the business fields older or
// hand-edited documents may omit.
func normalize(st *domain.State) {
	if st.Businesses == nil {
		st.Businesses = []domain.Business{}
	}
	if st.Tasks == nil {
		st.Tasks = []domain.Task{}
	}
	if st.Categories == nil {
		st.Categories = []domain.TaskCategory{}
	}
	for i := range st.Businesses {
		b := &st.Businesses[i]
		if b.Stage == "" {
			b.Stage = domain.StageIdea
		}
		if b.RevenueStatus == "" {
			b.RevenueStatus = domain.RevenuePreRevenue
		}
		if b.Priority == "" {
			b.Priority = domain.BusinessSecondary
		}
		if b.ShortName == "" {
			b.ShortName = domain.Abbreviate(b.Name)
		}
	}
}

func cloneTask(t domain.Task) domain.Task {
	if t.Dependencies != nil {
		t.Dependencies = append([]string(nil), t.Dependencies...)
	}
	if t.CompletedAt != nil {
		c := *t.CompletedAt
		t.CompletedAt = &c
	}
	return t
}

func asStorageError(op, path string, err error) error {
	if errors.Is(err, domain.ErrStorage) {
		return err
	}
	return &domain.StorageError{Op: op, Path: path, Err: err}
}
