package host

import (
	"errors"
	"testing"

	"github.com/tinytelemetry/quickstart/internal/model"
)

func TestNew_RejectsBadWiring(t *testing.T) {
	t.Parallel()

	reg := NewRegistry(NewEnv(NewBroker(nil), NewPropagator(nil)), nil)
	reg.Register(model.PageHome, recordingFactory(model.PageHome, nil))

	tests := []struct {
		name     string
		home     model.PageID
		triggers []Trigger
	}{
		{name: "unknown home", home: "nowhere"},
		{name: "unknown trigger target", home: model.PageHome, triggers: []Trigger{{Name: "go", Page: "nowhere"}}},
		{name: "duplicate trigger", home: model.PageHome, triggers: []Trigger{{Name: "a", Page: model.PageHome}, {Name: "a", Page: model.PageHome}}},
		{name: "unnamed trigger", home: model.PageHome, triggers: []Trigger{{Page: model.PageHome}}},
	}
	for _, tt := range tests {
		if _, err := New(reg, tt.home, nil, tt.triggers...); err == nil {
			t.Errorf("%s: New succeeded, want error", tt.name)
		}
	}
}

func TestReturnHome_BeforeAnyActivation(t *testing.T) {
	t.Parallel()

	f, err := newFixture(nil)
	if err != nil {
		t.Fatalf("newFixture: %v", err)
	}
	if got := f.host.Active(); got != model.PageHome {
		t.Fatalf("initial selection = %q, want home", got)
	}
	if err := f.host.ReturnHome(); err != nil {
		t.Fatalf("ReturnHome: %v", err)
	}
	p, err := f.host.ActivePage()
	if err != nil {
		t.Fatalf("ActivePage: %v", err)
	}
	if p.ID() != model.PageHome {
		t.Fatalf("active page = %q, want home", p.ID())
	}
}

func TestActivate_UnknownKeepsSelection(t *testing.T) {
	t.Parallel()

	f, err := newFixture(nil)
	if err != nil {
		t.Fatalf("newFixture: %v", err)
	}
	if err := f.host.Activate(model.PageLearnMore); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	before, _ := f.host.ActivePage()

	err = f.host.Activate("settings")
	if !errors.Is(err, ErrUnknownPage) {
		t.Fatalf("err = %v, want ErrUnknownPage", err)
	}
	if got := f.host.Active(); got != model.PageLearnMore {
		t.Fatalf("selection = %q, want learn-more", got)
	}
	if after, _ := f.host.ActivePage(); after != before {
		t.Fatal("visible page changed after failed activation")
	}
}

func TestActivate_ConstructionFailureKeepsSelectionAndRetries(t *testing.T) {
	t.Parallel()

	fail := true
	f, err := newFixture(map[model.PageID]Factory{
		model.PageAttack: func(env Env) (Page, error) {
			if fail {
				return nil, errBoom
			}
			return newRecordingPage(model.PageAttack, env), nil
		},
	})
	if err != nil {
		t.Fatalf("newFixture: %v", err)
	}

	if err := f.host.Press("attack"); !errors.Is(err, ErrConstructionFailure) {
		t.Fatalf("Press(attack) err = %v, want ErrConstructionFailure", err)
	}
	if got := f.host.Active(); got != model.PageHome {
		t.Fatalf("selection = %q, want home", got)
	}

	// Other pages keep working.
	if err := f.host.Press("explore"); err != nil {
		t.Fatalf("Press(explore): %v", err)
	}

	fail = false
	if err := f.host.Press("attack"); err != nil {
		t.Fatalf("retry Press(attack): %v", err)
	}
	if got := f.host.Active(); got != model.PageAttack {
		t.Fatalf("selection = %q, want attack", got)
	}
}

func TestActivate_IdempotentNotifiesOnce(t *testing.T) {
	t.Parallel()

	f, err := newFixture(nil)
	if err != nil {
		t.Fatalf("newFixture: %v", err)
	}
	var swaps [][2]model.PageID
	f.host.OnChange(func(prev, next model.PageID) {
		swaps = append(swaps, [2]model.PageID{prev, next})
	})

	for i := 0; i < 3; i++ {
		if err := f.host.Activate(model.PageExplore); err != nil {
			t.Fatalf("Activate #%d: %v", i, err)
		}
	}
	if len(swaps) != 1 {
		t.Fatalf("swaps = %v, want exactly one", swaps)
	}
	if swaps[0] != [2]model.PageID{model.PageHome, model.PageExplore} {
		t.Fatalf("swap = %v, want home->explore", swaps[0])
	}
}

func TestActivate_InitialHomeDoesNotNotify(t *testing.T) {
	t.Parallel()

	f, err := newFixture(nil)
	if err != nil {
		t.Fatalf("newFixture: %v", err)
	}
	var swaps [][2]model.PageID
	f.host.OnChange(func(prev, next model.PageID) {
		swaps = append(swaps, [2]model.PageID{prev, next})
	})

	if err := f.host.Activate(model.PageHome); err != nil {
		t.Fatalf("Activate(home): %v", err)
	}
	if err := f.host.ReturnHome(); err != nil {
		t.Fatalf("ReturnHome: %v", err)
	}
	if len(swaps) != 0 {
		t.Fatalf("swaps = %v, want none", swaps)
	}
	if p, _ := f.host.ActivePage(); p == nil || p.ID() != model.PageHome {
		t.Fatalf("visible = %v, want home page", p)
	}
}

func TestPress_UnknownTrigger(t *testing.T) {
	t.Parallel()

	f, err := newFixture(nil)
	if err != nil {
		t.Fatalf("newFixture: %v", err)
	}
	if err := f.host.Press("settings"); !errors.Is(err, ErrUnknownTrigger) {
		t.Fatalf("err = %v, want ErrUnknownTrigger", err)
	}
}

func TestExploreOverride_RoutesUntilCleared(t *testing.T) {
	t.Parallel()

	f, err := newFixture(nil)
	if err != nil {
		t.Fatalf("newFixture: %v", err)
	}
	custom := &plainPage{id: model.PageExplore}
	if err := f.host.SetExploreOverride(custom); err != nil {
		t.Fatalf("SetExploreOverride: %v", err)
	}

	if err := f.host.Activate(model.PageExplore); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if p, _ := f.host.ActivePage(); p != custom {
		t.Fatal("explore did not route to the override")
	}
	if _, ok := f.registry.Lookup(model.PageExplore); ok {
		t.Fatal("default explore page built while override installed")
	}

	if err := f.host.SetExploreOverride(nil); err != nil {
		t.Fatalf("clear override: %v", err)
	}
	p, _ := f.host.ActivePage()
	if p == custom || p.ID() != model.PageExplore {
		t.Fatalf("after clear visible = %v, want default explore page", p)
	}
	def, ok := f.registry.Lookup(model.PageExplore)
	if !ok || def != p {
		t.Fatal("default explore page is not the visible page")
	}

	if err := f.host.ReturnHome(); err != nil {
		t.Fatalf("ReturnHome: %v", err)
	}
	if err := f.host.Activate(model.PageExplore); err != nil {
		t.Fatalf("Activate after clear: %v", err)
	}
	if p, _ := f.host.ActivePage(); p != def {
		t.Fatal("explore did not route back to the default page")
	}
}

func TestClearExploreOverride_FallsBackHomeWhenDefaultFails(t *testing.T) {
	t.Parallel()

	f, err := newFixture(map[model.PageID]Factory{
		model.PageExplore: func(Env) (Page, error) { return nil, errBoom },
	})
	if err != nil {
		t.Fatalf("newFixture: %v", err)
	}
	custom := &plainPage{id: model.PageExplore}
	_ = f.host.SetExploreOverride(custom)
	if err := f.host.Activate(model.PageExplore); err != nil {
		t.Fatalf("Activate: %v", err)
	}

	if err := f.host.ClearExploreOverride(); !errors.Is(err, ErrConstructionFailure) {
		t.Fatalf("err = %v, want ErrConstructionFailure", err)
	}
	if got := f.host.Active(); got != model.PageHome {
		t.Fatalf("selection = %q, want home", got)
	}
	p, err := f.host.ActivePage()
	if err != nil || p.ID() != model.PageHome {
		t.Fatalf("ActivePage = %v, %v; want home page", p, err)
	}
}

func TestExploreOverride_ReplacingOneOnScreen(t *testing.T) {
	t.Parallel()

	f, err := newFixture(nil)
	if err != nil {
		t.Fatalf("newFixture: %v", err)
	}
	env := NewEnv(f.broker, f.propagator)
	a := newRecordingPage(model.PageExplore, env)
	b := newRecordingPage(model.PageExplore, env)

	if err := f.host.SetExploreOverride(a); err != nil {
		t.Fatalf("SetExploreOverride(a): %v", err)
	}
	if err := f.host.Activate(model.PageExplore); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	var swaps [][2]model.PageID
	f.host.OnChange(func(prev, next model.PageID) {
		swaps = append(swaps, [2]model.PageID{prev, next})
	})

	if err := f.host.SetExploreOverride(b); err != nil {
		t.Fatalf("SetExploreOverride(b): %v", err)
	}
	if p, _ := f.host.ActivePage(); p != b {
		t.Fatal("replacement override is not on screen")
	}
	if len(swaps) != 1 {
		t.Fatalf("swaps = %v, want one explore->explore swap", swaps)
	}

	f.broker.Register(spider("s1"))
	if a.adds != 0 || b.adds != 1 {
		t.Fatalf("adds a=%d b=%d, want a=0 b=1", a.adds, b.adds)
	}

	if err := f.host.ClearExploreOverride(); err != nil {
		t.Fatalf("ClearExploreOverride: %v", err)
	}
	def, ok := f.registry.Lookup(model.PageExplore)
	if !ok {
		t.Fatal("default explore page not built after clear")
	}
	if p, _ := f.host.ActivePage(); p != def {
		t.Fatal("default explore page is not on screen after clear")
	}
	if got := def.(*recordingPage).spiderIDs(); len(got) != 1 || got[0] != "s1" {
		t.Fatalf("default explore spiders = %v, want [s1]", got)
	}
}

func TestExploreOverride_NotOnScreenLeavesSelection(t *testing.T) {
	t.Parallel()

	f, err := newFixture(nil)
	if err != nil {
		t.Fatalf("newFixture: %v", err)
	}
	if err := f.host.Activate(model.PageExplore); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	def, _ := f.host.ActivePage()

	custom := &plainPage{id: model.PageExplore}
	if err := f.host.SetExploreOverride(custom); err != nil {
		t.Fatalf("SetExploreOverride: %v", err)
	}
	if p, _ := f.host.ActivePage(); p != def {
		t.Fatal("installing an override replaced the default explore page on screen")
	}
	if err := f.host.ClearExploreOverride(); err != nil {
		t.Fatalf("ClearExploreOverride: %v", err)
	}
	if p, _ := f.host.ActivePage(); p != def {
		t.Fatal("clearing an unseen override changed the visible page")
	}
}

type valuePage struct {
	id    model.PageID
	links []string
}

func (p valuePage) ID() model.PageID   { return p.id }
func (p valuePage) Resource() Resource { return Resource{Label: string(p.id)} }

func TestIncomparablePagesAreRejected(t *testing.T) {
	t.Parallel()

	f, err := newFixture(map[model.PageID]Factory{
		model.PageLearnMore: func(Env) (Page, error) { return valuePage{id: model.PageLearnMore}, nil },
	})
	if err != nil {
		t.Fatalf("newFixture: %v", err)
	}

	err = f.host.SetExploreOverride(valuePage{id: model.PageExplore})
	if !errors.Is(err, ErrIncomparablePage) {
		t.Fatalf("SetExploreOverride err = %v, want ErrIncomparablePage", err)
	}
	if _, ok := f.host.ExploreOverride(); ok {
		t.Fatal("incomparable override was installed")
	}

	err = f.host.Activate(model.PageLearnMore)
	if !errors.Is(err, ErrConstructionFailure) || !errors.Is(err, ErrIncomparablePage) {
		t.Fatalf("Activate err = %v, want incomparable construction failure", err)
	}
	if got := f.host.Active(); got != model.PageHome {
		t.Fatalf("selection = %q, want home", got)
	}
}
