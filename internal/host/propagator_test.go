package host

import (
	"testing"

	"github.com/tinytelemetry/quickstart/internal/model"
)

func optionsWithURL(u string) model.Options {
	o := model.DefaultOptions()
	o.QuickStart.DefaultURL = u
	return o
}

func TestPropagator_LoadedIsInitialState(t *testing.T) {
	t.Parallel()

	f, err := newFixture(nil)
	if err != nil {
		t.Fatalf("newFixture: %v", err)
	}
	f.propagator.Loaded(optionsWithURL("https://loaded.example"))

	page, err := f.registry.GetOrCreate(model.PageAttack)
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	got := page.(*recordingPage)
	if got.opts.QuickStart.DefaultURL != "https://loaded.example" {
		t.Fatalf("initial url = %q, want loaded config", got.opts.QuickStart.DefaultURL)
	}
	if got.optCalls != 0 {
		t.Fatalf("OptionsChanged calls = %d, want 0 for a page built after load", got.optCalls)
	}
}

func TestPropagator_LatestChangeWins(t *testing.T) {
	t.Parallel()

	f, err := newFixture(nil)
	if err != nil {
		t.Fatalf("newFixture: %v", err)
	}
	f.propagator.Loaded(optionsWithURL("https://0.example"))
	for _, u := range []string{"https://1.example", "https://2.example", "https://3.example"} {
		f.propagator.Changed(optionsWithURL(u))
	}
	if got := len(f.registry.Constructed()); got != 0 {
		t.Fatalf("changes constructed %d pages, want 0", got)
	}

	page, _ := f.registry.GetOrCreate(model.PageExplore)
	if got := page.(*recordingPage).opts.QuickStart.DefaultURL; got != "https://3.example" {
		t.Fatalf("initial url = %q, want latest change", got)
	}
	if _, loaded := f.propagator.Snapshot(); !loaded {
		t.Fatal("snapshot not marked loaded")
	}
}

func TestPropagator_OneDeliveryPerExistingPage(t *testing.T) {
	t.Parallel()

	f, err := newFixture(map[model.PageID]Factory{
		model.PageLearnMore: func(Env) (Page, error) { return &plainPage{id: model.PageLearnMore}, nil },
	})
	if err != nil {
		t.Fatalf("newFixture: %v", err)
	}
	a, _ := f.registry.GetOrCreate(model.PageAttack)
	e, _ := f.registry.GetOrCreate(model.PageExplore)
	_, _ = f.registry.GetOrCreate(model.PageLearnMore)

	f.propagator.Changed(optionsWithURL("https://x.example"))

	for _, p := range []*recordingPage{a.(*recordingPage), e.(*recordingPage)} {
		if p.optCalls != 1 {
			t.Errorf("%s OptionsChanged calls = %d, want 1", p.id, p.optCalls)
		}
		if p.opts.QuickStart.DefaultURL != "https://x.example" {
			t.Errorf("%s url = %q, want https://x.example", p.id, p.opts.QuickStart.DefaultURL)
		}
	}
	if _, ok := f.registry.Lookup(model.PageHome); ok {
		t.Fatal("home was built by a change event")
	}
}

func TestPropagator_SnapshotIsACopy(t *testing.T) {
	t.Parallel()

	p := NewPropagator(nil)
	opts := model.DefaultOptions()
	p.Loaded(opts)
	opts.QuickStart.LearnMoreLinks[0].Title = "mutated"

	snap, _ := p.Snapshot()
	if snap.QuickStart.LearnMoreLinks[0].Title == "mutated" {
		t.Fatal("propagator shares the caller's links slice")
	}
}

func TestPropagator_RegistryPageInstalledAsOverrideGetsOneDelivery(t *testing.T) {
	t.Parallel()

	f, err := newFixture(nil)
	if err != nil {
		t.Fatalf("newFixture: %v", err)
	}
	page, _ := f.registry.GetOrCreate(model.PageExplore)
	if err := f.host.SetExploreOverride(page); err != nil {
		t.Fatalf("SetExploreOverride: %v", err)
	}
	if got := len(f.host.Audience()); got != 1 {
		t.Fatalf("audience size = %d, want 1", got)
	}

	f.propagator.Changed(optionsWithURL("https://once.example"))
	f.broker.Register(spider("s"))

	rp := page.(*recordingPage)
	if rp.optCalls != 1 {
		t.Fatalf("OptionsChanged calls = %d, want 1", rp.optCalls)
	}
	if rp.adds != 1 {
		t.Fatalf("AddSpider calls = %d, want 1", rp.adds)
	}
}
