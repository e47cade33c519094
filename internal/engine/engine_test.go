package engine_test

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"checkline/internal/catalog"
	"checkline/internal/domain"
	"checkline/internal/engine"
	"checkline/internal/journal"
	"checkline/internal/store"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

type testEnv struct {
	Engine *engine.Engine
	Store  *store.Memory
	Clock  *time.Time
	Ctx    context.Context
}

func newTestEnv(t *testing.T, doc []byte) testEnv {
	t.Helper()
	mem := store.NewMemory(doc)
	eng := engine.New(mem)
	clock := epoch
	eng.Now = func() time.Time { return clock }
	seq := 0
	eng.NewID = func() string {
		seq++
		return fmt.Sprintf("id-%04d", seq)
	}
	logger, _ := test.NewNullLogger()
	eng.Log = logger
	ctx := context.Background()
	if err := eng.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	return testEnv{Engine: eng, Store: mem, Clock: &clock, Ctx: ctx}
}

func (env testEnv) business(t *testing.T, spec engine.BusinessSpec) domain.Business {
	t.Helper()
	spec.SkipSeed = true
	b, err := env.Engine.AddBusiness(spec)
	if err != nil {
		t.Fatalf("add business: %v", err)
	}
	return b
}

func (env testEnv) task(t *testing.T, spec engine.TaskSpec) domain.Task {
	t.Helper()
	task, err := env.Engine.AddTask(spec)
	if err != nil {
		t.Fatalf("add task %q: %v", spec.Title, err)
	}
	return task
}

func intp(v int) *int { return &v }

func TestLoadMissingDocumentStartsEmpty(t *testing.T) {
	env := newTestEnv(t, nil)
	if !env.Engine.Loaded() || env.Engine.Dirty() {
		t.Fatalf("expected clean loaded engine")
	}
	if got := env.Engine.Businesses(); len(got) != 0 {
		t.Fatalf("expected no businesses, got %d", len(got))
	}
	if env.Store.Writes != 0 {
		t.Fatalf("load must not write, got %d writes", env.Store.Writes)
	}
}

func TestAddBusinessSeedsCatalog(t *testing.T) {
	env := newTestEnv(t, nil)
	b, err := env.Engine.AddBusiness(engine.BusinessSpec{Name: "Acme"})
	if err != nil {
		t.Fatalf("add business: %v", err)
	}
	if b.ShortName != "ACM" || b.Priority != domain.BusinessPrimary || b.Stage != domain.StageIdea {
		t.Fatalf("unexpected defaults: %+v", b)
	}
	if active, ok := env.Engine.ActiveBusiness(); !ok || active.ID != b.ID {
		t.Fatalf("first business should become active")
	}
	tasks := env.Engine.Tasks(engine.TaskFilter{BusinessID: b.ID})
	if len(tasks) != len(catalog.Tasks) {
		t.Fatalf("expected %d seeded tasks, got %d", len(catalog.Tasks), len(tasks))
	}
	for _, task := range tasks {
		if task.Status != domain.StatusPending || task.Source != domain.SourceTemplate || task.BusinessID != b.ID {
			t.Fatalf("unexpected seeded task: %+v", task)
		}
	}
	second, err := env.Engine.AddBusiness(engine.BusinessSpec{Name: "Beta Labs", SkipSeed: true})
	if err != nil {
		t.Fatalf("add second: %v", err)
	}
	if second.Priority != domain.BusinessSecondary || second.ShortName != "BL" {
		t.Fatalf("unexpected second business: %+v", second)
	}
	if n := len(env.Engine.Tasks(engine.TaskFilter{BusinessID: second.ID})); n != 0 {
		t.Fatalf("skip seed should leave no tasks, got %d", n)
	}
}

func TestAddBusinessValidation(t *testing.T) {
	env := newTestEnv(t, nil)
	if _, err := env.Engine.AddBusiness(engine.BusinessSpec{Name: "  "}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := env.Engine.AddBusiness(engine.BusinessSpec{Name: "X", Stage: "scale"}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected stage validation error, got %v", err)
	}
	if _, err := env.Engine.UpdateBusiness("missing", engine.BusinessUpdate{}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := env.Engine.SetActiveBusiness("missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestResolveBusiness(t *testing.T) {
	env := newTestEnv(t, nil)
	sw := env.business(t, engine.BusinessSpec{Name: "Startempire Wire"})
	env.business(t, engine.BusinessSpec{Name: "Wirebot", ShortName: "WB"})
	cases := map[string]bool{
		sw.ID:              true,
		"startempire wire": true,
		"sw":               true,
		"Startempire":      false,
		"wire":             false,
		"":                 false,
	}
	for ref, want := range cases {
		b, ok := env.Engine.ResolveBusiness(ref)
		if ok != want {
			t.Fatalf("resolve %q: ok=%v want %v", ref, ok, want)
		}
		if ok && b.ID != sw.ID {
			t.Fatalf("resolve %q returned %s", ref, b.Name)
		}
	}
}

func TestCompletedAtTracksStatus(t *testing.T) {
	env := newTestEnv(t, nil)
	b := env.business(t, engine.BusinessSpec{Name: "Acme"})
	task := env.task(t, engine.TaskSpec{BusinessID: b.ID, Title: "Write plan"})
	if task.Category != "idea-custom" || task.Order != 999 || task.Source != domain.SourceUser {
		t.Fatalf("unexpected custom task defaults: %+v", task)
	}

	done, err := env.Engine.CompleteTask(task.ID)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if done.CompletedAt == nil || !done.CompletedAt.Equal(epoch) {
		t.Fatalf("completedAt not stamped: %+v", done.CompletedAt)
	}

	*env.Clock = epoch.Add(time.Hour)
	again, _ := env.Engine.UpdateTask(task.ID, engine.TaskUpdate{Status: statusp(domain.StatusCompleted)})
	if !again.CompletedAt.Equal(epoch) {
		t.Fatalf("completedAt should be kept when already set")
	}

	reopened, err := env.Engine.UpdateTask(task.ID, engine.TaskUpdate{Status: statusp(domain.StatusPending)})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if reopened.CompletedAt != nil {
		t.Fatalf("completedAt should be cleared when reopening")
	}
	skipped, _ := env.Engine.SkipTask(task.ID)
	if skipped.Status != domain.StatusSkipped || skipped.CompletedAt != nil {
		t.Fatalf("skip should not stamp completedAt: %+v", skipped)
	}
	if _, err := env.Engine.CompleteTask("nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func statusp(s domain.TaskStatus) *domain.TaskStatus { return &s }

func TestDeleteTaskPrunesDependencies(t *testing.T) {
	env := newTestEnv(t, nil)
	b := env.business(t, engine.BusinessSpec{Name: "Acme"})
	dep := env.task(t, engine.TaskSpec{BusinessID: b.ID, Title: "Dep"})
	task := env.task(t, engine.TaskSpec{BusinessID: b.ID, Title: "Main", Dependencies: []string{dep.ID}})
	if err := env.Engine.DeleteTask(dep.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, _ := env.Engine.Task(task.ID)
	if len(got.Dependencies) != 0 {
		t.Fatalf("dependency not pruned: %v", got.Dependencies)
	}
	if err := env.Engine.DeleteTask(dep.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
	if _, err := env.Engine.AddTask(engine.TaskSpec{BusinessID: b.ID, Title: "Bad", Dependencies: []string{"ghost"}}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for unknown dependency, got %v", err)
	}
}

func TestResolveTaskByPrefix(t *testing.T) {
	env := newTestEnv(t, nil)
	ids := []string{"biz-1", "aaaa1111", "aaaa2222"}
	env.Engine.NewID = func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}
	b := env.business(t, engine.BusinessSpec{Name: "Acme"})
	one := env.task(t, engine.TaskSpec{BusinessID: b.ID, Title: "One"})
	env.task(t, engine.TaskSpec{BusinessID: b.ID, Title: "Two"})

	if got, err := env.Engine.ResolveTask(one.ID); err != nil || got.ID != one.ID {
		t.Fatalf("exact resolve: %v", err)
	}
	if got, err := env.Engine.ResolveTask("aaaa1"); err != nil || got.ID != one.ID {
		t.Fatalf("prefix resolve: %v", err)
	}
	if _, err := env.Engine.ResolveTask("aaaa"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ambiguity error, got %v", err)
	}
	if _, err := env.Engine.ResolveTask("aaa"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("short prefixes must not match, got %v", err)
	}
}

func TestProgress(t *testing.T) {
	env := newTestEnv(t, nil)
	b := env.business(t, engine.BusinessSpec{Name: "Acme"})
	empty := env.business(t, engine.BusinessSpec{Name: "Empty"})
	for i := 0; i < 10; i++ {
		task := env.task(t, engine.TaskSpec{BusinessID: b.ID, Title: fmt.Sprintf("task %d", i), Stage: domain.StageIdea})
		if i < 4 {
			if _, err := env.Engine.CompleteTask(task.ID); err != nil {
				t.Fatalf("complete: %v", err)
			}
		}
	}
	got := env.Engine.Progress(b.ID, domain.StageIdea)
	want := []domain.StageProgress{{Stage: domain.StageIdea, Completed: 4, Total: 10, Percent: 40}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("progress = %+v, want %+v", got, want)
	}
	if all := env.Engine.Progress(b.ID, ""); len(all) != 3 || all[2].Stage != domain.StageGrowth {
		t.Fatalf("default progress should cover idea, launch and growth: %+v", all)
	}
	for _, p := range env.Engine.Progress(empty.ID, "") {
		if p.Percent != 0 || p.Total != 0 {
			t.Fatalf("empty business progress: %+v", p)
		}
	}
	if o := env.Engine.OverallProgress(empty.ID); o.Percent != 0 {
		t.Fatalf("empty overall progress: %+v", o)
	}
	if o := env.Engine.OverallProgress(b.ID); o != (domain.Progress{Completed: 4, Total: 10, Percent: 40}) {
		t.Fatalf("overall progress: %+v", o)
	}
	cats := env.Engine.CategoryProgress(b.ID, domain.StageIdea)
	if len(cats) != 1 || cats[0].Category.ID != "idea-custom" || cats[0].Total != 10 {
		t.Fatalf("category progress: %+v", cats)
	}
}

func TestNextTaskOrdering(t *testing.T) {
	env := newTestEnv(t, nil)
	b := env.business(t, engine.BusinessSpec{Name: "Acme", Stage: domain.StageIdea})
	env.task(t, engine.TaskSpec{BusinessID: b.ID, Title: "Launch critical", Stage: domain.StageLaunch, Priority: domain.PriorityCritical, Order: intp(0)})
	env.task(t, engine.TaskSpec{BusinessID: b.ID, Title: "Medium first", Priority: domain.PriorityMedium, Order: intp(1)})
	high := env.task(t, engine.TaskSpec{BusinessID: b.ID, Title: "High later", Priority: domain.PriorityHigh, Order: intp(50)})

	next, ok := env.Engine.NextTask(b.ID)
	if !ok || next.ID != high.ID {
		t.Fatalf("priority must dominate order, got %+v", next)
	}

	dep := env.task(t, engine.TaskSpec{BusinessID: b.ID, Title: "Dependency", Priority: domain.PriorityLow})
	if _, err := env.Engine.CompleteTask(dep.ID); err != nil {
		t.Fatal(err)
	}
	crit := env.task(t, engine.TaskSpec{BusinessID: b.ID, Title: "Critical", Priority: domain.PriorityCritical, Dependencies: []string{dep.ID}, Order: intp(99)})
	if next, _ := env.Engine.NextTask(b.ID); next.ID != crit.ID {
		t.Fatalf("critical task with resolved dependency should win, got %s", next.Title)
	}
	for _, task := range env.Engine.Tasks(engine.TaskFilter{BusinessID: b.ID}) {
		next, ok := env.Engine.NextTask(b.ID)
		if ok && next.Stage != b.Stage {
			t.Fatalf("next task outside current stage: %+v", next)
		}
		if task.Stage == domain.StageIdea && task.Status.Open() {
			if _, err := env.Engine.SkipTask(task.ID); err != nil {
				t.Fatal(err)
			}
		}
	}
	if next, ok := env.Engine.NextTask(b.ID); ok {
		t.Fatalf("expected no task once the stage is resolved, got %s", next.Title)
	}
}

func TestNextTaskFallsBackWhenAllGated(t *testing.T) {
	env := newTestEnv(t, nil)
	b := env.business(t, engine.BusinessSpec{Name: "Acme"})
	x := env.task(t, engine.TaskSpec{BusinessID: b.ID, Title: "X", Priority: domain.PriorityCritical})
	y := env.task(t, engine.TaskSpec{BusinessID: b.ID, Title: "Y", Priority: domain.PriorityLow, Dependencies: []string{x.ID}})
	deps := []string{y.ID}
	if _, err := env.Engine.UpdateTask(x.ID, engine.TaskUpdate{Dependencies: &deps}); err != nil {
		t.Fatalf("update deps: %v", err)
	}
	next, ok := env.Engine.NextTask(b.ID)
	if !ok || next.ID != x.ID {
		t.Fatalf("expected fallback to top candidate, got %+v", next)
	}
}

func TestGlobalNextTaskPrefersPriorityTier(t *testing.T) {
	env := newTestEnv(t, nil)
	a := env.business(t, engine.BusinessSpec{Name: "Alpha", Priority: domain.BusinessPrimary, RevenueStatus: domain.RevenueActive})
	c := env.business(t, engine.BusinessSpec{Name: "Charlie", Priority: domain.BusinessSecondary, RevenueStatus: domain.RevenuePaused})
	want := env.task(t, engine.TaskSpec{BusinessID: a.ID, Title: "Alpha work", Priority: domain.PriorityLow})
	for i := 0; i < 4; i++ {
		env.task(t, engine.TaskSpec{BusinessID: c.ID, Title: "Charlie fire", Priority: domain.PriorityCritical})
	}
	ha, _ := env.Engine.BusinessHealth(a.ID)
	hc, _ := env.Engine.BusinessHealth(c.ID)
	if hc.Score >= ha.Score {
		t.Fatalf("expected secondary business to be less healthy: a=%d c=%d", ha.Score, hc.Score)
	}
	g, ok := env.Engine.GlobalNextTask()
	if !ok || g.Business.ID != a.ID || g.Task.ID != want.ID {
		t.Fatalf("expected primary business task, got %+v", g)
	}
	all := env.Engine.AllBusinessHealth()
	if all[0].BusinessID != c.ID {
		t.Fatalf("health list should be worst first: %+v", all)
	}
}

func TestHealthScoring(t *testing.T) {
	env := newTestEnv(t, nil)
	paused := env.business(t, engine.BusinessSpec{Name: "Paused", RevenueStatus: domain.RevenuePaused})
	h, err := env.Engine.BusinessHealth(paused.ID)
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	// 0 completion + 0 revenue + 15 recency + 20 blockers + 0 engagement + 10 structural
	if h.Score != 45 || h.Signal != domain.SignalStale || h.ChecklistPercent != 0 {
		t.Fatalf("fresh paused business: %+v", h)
	}

	*env.Clock = epoch.Add(10000 * 24 * time.Hour)
	h, _ = env.Engine.BusinessHealth(paused.ID)
	if h.Score != 30 || h.DaysSinceActivity != 10000 || h.Signal != domain.SignalStale {
		t.Fatalf("abandoned paused business: %+v", h)
	}

	*env.Clock = epoch
	active := env.business(t, engine.BusinessSpec{Name: "Active", RevenueStatus: domain.RevenueActive})
	task := env.task(t, engine.TaskSpec{BusinessID: active.ID, Title: "Ship", Priority: domain.PriorityCritical})
	if _, err := env.Engine.CompleteTask(task.ID); err != nil {
		t.Fatal(err)
	}
	h, _ = env.Engine.BusinessHealth(active.ID)
	if h.Score != 100 || h.Signal != domain.SignalHealthy {
		t.Fatalf("fully complete active business: %+v", h)
	}

	*env.Clock = epoch.Add(20 * 24 * time.Hour)
	h, _ = env.Engine.BusinessHealth(active.ID)
	if h.Score != 85 || h.Signal != domain.SignalStale {
		t.Fatalf("idle business should be stale regardless of score: %+v", h)
	}

	if _, err := env.Engine.BusinessHealth("missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestHealthScoreBounded(t *testing.T) {
	env := newTestEnv(t, nil)
	statuses := []domain.RevenueStatus{domain.RevenueActive, domain.RevenuePreRevenue, domain.RevenueDeclining, domain.RevenuePaused}
	for i, rs := range statuses {
		b := env.business(t, engine.BusinessSpec{Name: fmt.Sprintf("B%d", i), RevenueStatus: rs})
		for j := 0; j < i*3; j++ {
			env.task(t, engine.TaskSpec{BusinessID: b.ID, Title: "fire", Priority: domain.PriorityCritical})
		}
	}
	for _, days := range []int{0, 1, 14, 15, 10000} {
		*env.Clock = epoch.Add(time.Duration(days) * 24 * time.Hour)
		for _, h := range env.Engine.AllBusinessHealth() {
			if h.Score < 0 || h.Score > 100 {
				t.Fatalf("score out of range at %d days: %+v", days, h)
			}
		}
	}
}

func TestDailyStandUp(t *testing.T) {
	env := newTestEnv(t, nil)
	b := env.business(t, engine.BusinessSpec{Name: "Acme"})
	started := env.task(t, engine.TaskSpec{BusinessID: b.ID, Title: "Started", Priority: domain.PriorityLow, Order: intp(5)})
	if _, err := env.Engine.StartTask(started.ID); err != nil {
		t.Fatal(err)
	}
	env.task(t, engine.TaskSpec{BusinessID: b.ID, Title: "Critical", Priority: domain.PriorityCritical, Order: intp(2)})
	high := env.task(t, engine.TaskSpec{BusinessID: b.ID, Title: "High", Priority: domain.PriorityHigh, Order: intp(1)})
	env.task(t, engine.TaskSpec{BusinessID: b.ID, Title: "Medium", Priority: domain.PriorityMedium, Order: intp(0)})
	cc := env.task(t, engine.TaskSpec{BusinessID: b.ID, Title: "Shared infra", Priority: domain.PriorityHigh, CrossCutting: true, Order: intp(0)})

	su := env.Engine.DailyStandUp("")
	if su.Date != "2024-01-01" {
		t.Fatalf("unexpected date %q", su.Date)
	}
	if len(su.Groups) != 1 {
		t.Fatalf("expected one group, got %d", len(su.Groups))
	}
	tasks := su.Groups[0].Tasks
	if len(tasks) != 2 || tasks[0].TaskID != started.ID || tasks[1].TaskID != high.ID {
		t.Fatalf("unexpected stand-up tasks: %+v", tasks)
	}
	if len(su.CrossCutting) != 1 || su.CrossCutting[0].TaskID != cc.ID {
		t.Fatalf("cross-cutting tasks should be reported separately: %+v", su.CrossCutting)
	}
	if !strings.Contains(su.FocusRecommendation, "Acme") {
		t.Fatalf("expected focus on Acme, got %q", su.FocusRecommendation)
	}
	if got := env.Engine.DailyStandUp("2024-02-03").Date; got != "2024-02-03" {
		t.Fatalf("explicit date ignored: %s", got)
	}

	busy := env.business(t, engine.BusinessSpec{Name: "Busy", Priority: domain.BusinessSecondary})
	for i := 0; i < 3; i++ {
		task := env.task(t, engine.TaskSpec{BusinessID: busy.ID, Title: fmt.Sprintf("started %d", i), Priority: domain.PriorityLow, Order: intp(i)})
		if _, err := env.Engine.StartTask(task.ID); err != nil {
			t.Fatal(err)
		}
	}
	env.task(t, engine.TaskSpec{BusinessID: busy.ID, Title: "Urgent", Priority: domain.PriorityCritical})
	for _, g := range env.Engine.DailyStandUp("").Groups {
		if g.Business.ID != busy.ID {
			continue
		}
		if len(g.Tasks) != 3 {
			t.Fatalf("every in-progress task should be listed, got %d of 3", len(g.Tasks))
		}
		for _, dt := range g.Tasks {
			if dt.Status != domain.StatusInProgress {
				t.Fatalf("pending work should not fill a group already at the cap: %+v", dt)
			}
		}
	}
}

func TestSummariesAreReadOnly(t *testing.T) {
	env := newTestEnv(t, nil)
	if _, err := env.Engine.AddBusiness(engine.BusinessSpec{Name: "Startempire Wire"}); err != nil {
		t.Fatal(err)
	}
	if err := env.Engine.Save(env.Ctx); err != nil {
		t.Fatalf("save: %v", err)
	}
	before := env.Engine.Snapshot()
	summary := env.Engine.LettaSummary()
	overview := env.Engine.OperatorOverview()
	for _, want := range []string{"[SW] Startempire Wire", "idea: 0/", "Next task: ", "Global next: [SW]"} {
		if !strings.Contains(summary, want) {
			t.Fatalf("summary missing %q:\n%s", want, summary)
		}
	}
	if !strings.Contains(overview, "1. [SW] Startempire Wire") {
		t.Fatalf("overview missing business line:\n%s", overview)
	}
	if summary != env.Engine.LettaSummary() {
		t.Fatalf("summary should be deterministic")
	}
	if env.Engine.Dirty() || !reflect.DeepEqual(before, env.Engine.Snapshot()) {
		t.Fatalf("summaries must not mutate state")
	}
}

const legacyDoc = `{
  "version": 1,
  "userId": "verious",
  "businessName": "Startempire Wire",
  "currentStage": "launch",
  "tasks": [
    {"id": "t1", "title": "Create Mission Statement", "stage": "idea", "category": "idea-identity",
     "status": "completed", "priority": "critical", "source": "template", "order": 1,
     "completedAt": "2024-01-02T10:00:00Z", "createdAt": "2024-01-01T00:00:00Z", "updatedAt": "2024-01-02T10:00:00Z"},
    {"id": "t2", "title": "Design Logo", "stage": "launch", "category": "launch-brand",
     "status": "pending", "priority": "high", "source": "template", "order": 1,
     "createdAt": "2024-01-01T00:00:00Z", "updatedAt": "2024-01-01T00:00:00Z"}
  ],
  "categories": [{"id": "idea-identity", "name": "Business Identity", "stage": "idea", "order": 1}],
  "createdAt": "2024-01-01T00:00:00Z",
  "updatedAt": "2024-01-02T10:00:00Z"
}`

func TestLegacyUpgradeIsLazyAndIdempotent(t *testing.T) {
	env := newTestEnv(t, []byte(legacyDoc))
	if !env.Engine.Dirty() {
		t.Fatalf("upgraded state should be dirty")
	}
	if env.Store.Writes != 0 {
		t.Fatalf("load must not rewrite storage")
	}
	b, ok := env.Engine.ActiveBusiness()
	if !ok || b.Name != "Startempire Wire" || b.Stage != domain.StageLaunch {
		t.Fatalf("unexpected upgraded business: %+v", b)
	}
	for _, task := range env.Engine.Tasks(engine.TaskFilter{}) {
		if task.BusinessID != b.ID {
			t.Fatalf("task %s not stamped with business id", task.ID)
		}
	}
	first := env.Engine.Snapshot()
	reload := newTestEnv(t, []byte(legacyDoc))
	if !reflect.DeepEqual(first, reload.Engine.Snapshot()) {
		t.Fatalf("loading the same legacy document twice should be identical")
	}

	if err := env.Engine.Save(env.Ctx); err != nil {
		t.Fatalf("save: %v", err)
	}
	saved := append([]byte(nil), env.Store.Bytes()...)

	again := newTestEnv(t, saved)
	if again.Engine.Dirty() {
		t.Fatalf("current document should load clean")
	}
	if err := again.Engine.Save(again.Ctx); err != nil {
		t.Fatalf("resave: %v", err)
	}
	if string(again.Store.Bytes()) != string(saved) {
		t.Fatalf("second save differs from first:\n%s\n---\n%s", saved, again.Store.Bytes())
	}
	third := newTestEnv(t, saved)
	if !reflect.DeepEqual(third.Engine.Snapshot(), again.Engine.Snapshot()) {
		t.Fatalf("loading a current document twice should be identical")
	}
}

func TestLoadFillsMissingBusinessFields(t *testing.T) {
	doc := `{"version":2,"businesses":[{"id":"b1","name":"Acme Corp"}],
	"tasks":[{"id":"t1","title":"Pick a name","businessId":"b1","stage":"idea","status":"pending","priority":"high","order":1}],
	"categories":[]}`
	env := newTestEnv(t, []byte(doc))
	b, ok := env.Engine.Business("b1")
	if !ok {
		t.Fatalf("business not loaded")
	}
	if b.Stage != domain.StageIdea || b.RevenueStatus != domain.RevenuePreRevenue ||
		b.Priority != domain.BusinessSecondary || b.ShortName != "AC" {
		t.Fatalf("defaults not applied: %+v", b)
	}
	if env.Engine.Dirty() || env.Store.Writes != 0 {
		t.Fatalf("filling defaults must not persist on load")
	}
	tags := []string{"x"}
	if _, err := env.Engine.UpdateBusiness("b1", engine.BusinessUpdate{Tags: &tags}); err != nil {
		t.Fatalf("update sparse business: %v", err)
	}
	if next, ok := env.Engine.NextTask("b1"); !ok || next.ID != "t1" {
		t.Fatalf("expected next task for sparse business, got %+v", next)
	}
	if err := env.Engine.Save(env.Ctx); err != nil {
		t.Fatalf("save: %v", err)
	}
}

func TestOperatorOverviewLimit(t *testing.T) {
	env := newTestEnv(t, nil)
	for i := 0; i < 4; i++ {
		env.business(t, engine.BusinessSpec{Name: fmt.Sprintf("Venture %d", i)})
	}
	out := env.Engine.OperatorOverviewLimit(2)
	if !strings.Contains(out, "2. [") || strings.Contains(out, "3. [") {
		t.Fatalf("expected two businesses listed:\n%s", out)
	}
	if !strings.Contains(out, "+2 more") {
		t.Fatalf("missing truncation suffix:\n%s", out)
	}
	if full := env.Engine.OperatorOverview(); !strings.Contains(full, "4. [") || strings.Contains(full, "\n+") {
		t.Fatalf("unlimited overview should list every business:\n%s", full)
	}
}

func TestLoadRejectsInvalidDocument(t *testing.T) {
	mem := store.NewMemory([]byte(`{"version":2,"businesses":[],"tasks":[{"id":"t"}]}`))
	eng := engine.New(mem)
	err := eng.Load(context.Background())
	if !errors.Is(err, domain.ErrStorage) {
		t.Fatalf("expected storage error, got %v", err)
	}
	var se *domain.StorageError
	if !errors.As(err, &se) || se.Op != "validate" {
		t.Fatalf("expected validate op, got %v", err)
	}
}

type fakeRecorder struct {
	entries []journal.Entry
	err     error
}

func (f *fakeRecorder) Record(_ context.Context, entries []journal.Entry) error {
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, entries...)
	return nil
}

func TestSaveFlushesJournal(t *testing.T) {
	env := newTestEnv(t, nil)
	rec := &fakeRecorder{}
	env.Engine.Recorder = rec
	b := env.business(t, engine.BusinessSpec{Name: "Acme"})
	task := env.task(t, engine.TaskSpec{BusinessID: b.ID, Title: "Do it"})
	if _, err := env.Engine.CompleteTask(task.ID); err != nil {
		t.Fatal(err)
	}
	if len(rec.entries) != 0 {
		t.Fatalf("entries must wait for save")
	}
	if err := env.Engine.Save(env.Ctx); err != nil {
		t.Fatalf("save: %v", err)
	}
	var types []string
	for _, e := range rec.entries {
		types = append(types, e.Type)
	}
	want := []string{"business.created", "task.created", "task.completed"}
	if !reflect.DeepEqual(types, want) {
		t.Fatalf("journal types = %v, want %v", types, want)
	}
	if env.Engine.Dirty() || env.Store.Writes != 1 {
		t.Fatalf("expected one clean write, writes=%d", env.Store.Writes)
	}
}

func TestJournalFailureDoesNotFailSave(t *testing.T) {
	env := newTestEnv(t, nil)
	logger, hook := test.NewNullLogger()
	env.Engine.Log = logger
	env.Engine.Recorder = &fakeRecorder{err: errors.New("database is locked")}
	env.business(t, engine.BusinessSpec{Name: "Acme"})
	if err := env.Engine.Save(env.Ctx); err != nil {
		t.Fatalf("save should succeed: %v", err)
	}
	last := hook.LastEntry()
	if last == nil || last.Level != log.ErrorLevel {
		t.Fatalf("expected an error log entry, got %+v", last)
	}
}

func TestSaveStorageFailure(t *testing.T) {
	env := newTestEnv(t, nil)
	env.Store.Fail = errors.New("disk full")
	env.business(t, engine.BusinessSpec{Name: "Acme"})
	if err := env.Engine.Save(env.Ctx); !errors.Is(err, domain.ErrStorage) {
		t.Fatalf("expected storage error, got %v", err)
	}
	if !env.Engine.Dirty() {
		t.Fatalf("failed save must keep state dirty")
	}
}
