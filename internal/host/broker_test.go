package host

import (
	"reflect"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/tinytelemetry/quickstart/internal/model"
)

func TestBroker_CatchUpThenLiveForwarding(t *testing.T) {
	t.Parallel()

	f, err := newFixture(nil)
	if err != nil {
		t.Fatalf("newFixture: %v", err)
	}

	f.broker.Register(spider("h1"))
	if err := f.host.Activate(model.PageExplore); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	p, _ := f.host.ActivePage()
	explore := p.(*recordingPage)
	if got := explore.spiderIDs(); !reflect.DeepEqual(got, []string{"h1"}) {
		t.Fatalf("spiders at construction = %v, want [h1]", got)
	}

	f.broker.Register(spider("h2"))
	if got := explore.spiderIDs(); !reflect.DeepEqual(got, []string{"h1", "h2"}) {
		t.Fatalf("spiders after register = %v, want [h1 h2]", got)
	}
	if again, _ := f.registry.GetOrCreate(model.PageExplore); again != p {
		t.Fatal("explore page was rebuilt")
	}
}

func TestBroker_DuplicateRegisterIsIdempotent(t *testing.T) {
	t.Parallel()

	f, err := newFixture(nil)
	if err != nil {
		t.Fatalf("newFixture: %v", err)
	}
	page, _ := f.registry.GetOrCreate(model.PageAttack)
	attack := page.(*recordingPage)

	if !f.broker.Register(spider("ajax")) {
		t.Fatal("first Register reported no change")
	}
	if f.broker.Register(spider("ajax")) {
		t.Fatal("duplicate Register reported a change")
	}
	if attack.adds != 1 {
		t.Fatalf("forwarded adds = %d, want 1", attack.adds)
	}
	if got := len(f.broker.Spiders()); got != 1 {
		t.Fatalf("broker spiders = %d, want 1", got)
	}
}

func TestBroker_UnregisterUnknownIsNoop(t *testing.T) {
	t.Parallel()

	f, err := newFixture(nil)
	if err != nil {
		t.Fatalf("newFixture: %v", err)
	}
	page, _ := f.registry.GetOrCreate(model.PageAttack)
	attack := page.(*recordingPage)

	if f.broker.Unregister(spider("ghost")) {
		t.Fatal("Unregister of unknown spider reported a change")
	}
	if attack.removes != 0 {
		t.Fatalf("forwarded removes = %d, want 0", attack.removes)
	}

	f.broker.Register(spider("ajax"))
	if !f.broker.Unregister(spider("ajax")) {
		t.Fatal("Unregister of known spider reported no change")
	}
	if f.broker.Unregister(spider("ajax")) {
		t.Fatal("second Unregister reported a change")
	}
	if attack.removes != 1 || len(attack.spiders) != 0 {
		t.Fatalf("removes=%d spiders=%v, want 1 and empty", attack.removes, attack.spiders)
	}
}

func TestBroker_UnconstructedPagesAreNotBuilt(t *testing.T) {
	t.Parallel()

	f, err := newFixture(nil)
	if err != nil {
		t.Fatalf("newFixture: %v", err)
	}
	f.broker.Register(spider("a"))
	f.broker.Unregister(spider("a"))
	f.broker.Register(spider("b"))

	if got := len(f.registry.Constructed()); got != 0 {
		t.Fatalf("constructed pages = %d, want 0", got)
	}

	page, _ := f.registry.GetOrCreate(model.PageAttack)
	if got := page.(*recordingPage).spiderIDs(); !reflect.DeepEqual(got, []string{"b"}) {
		t.Fatalf("catch-up spiders = %v, want [b]", got)
	}
}

func TestBroker_ForwardsToOverride(t *testing.T) {
	t.Parallel()

	f, err := newFixture(nil)
	if err != nil {
		t.Fatalf("newFixture: %v", err)
	}
	override := newRecordingPage(model.PageExplore, NewEnv(f.broker, f.propagator))
	_ = f.host.SetExploreOverride(override)

	f.broker.Register(spider("s"))
	if override.adds != 1 {
		t.Fatalf("override adds = %d, want 1", override.adds)
	}

	_ = f.host.ClearExploreOverride()
	f.broker.Register(spider("t"))
	if override.adds != 1 {
		t.Fatalf("override adds after clear = %d, want 1", override.adds)
	}
}

type panickyPage struct{ plainPage }

func (p *panickyPage) AddSpider(model.Spider)    { panic("no") }
func (p *panickyPage) RemoveSpider(model.Spider) {}

func TestBroker_PanickingPageDoesNotBlockOthers(t *testing.T) {
	t.Parallel()

	f, err := newFixture(map[model.PageID]Factory{
		model.PageHome: func(Env) (Page, error) { return &panickyPage{plainPage{id: model.PageHome}}, nil },
	})
	if err != nil {
		t.Fatalf("newFixture: %v", err)
	}
	_, _ = f.registry.GetOrCreate(model.PageHome)
	page, _ := f.registry.GetOrCreate(model.PageAttack)

	f.broker.Register(spider("s"))
	if got := page.(*recordingPage).adds; got != 1 {
		t.Fatalf("attack adds = %d, want 1", got)
	}
	logged := false
	for _, e := range f.hook.AllEntries() {
		if e.Level == logrus.ErrorLevel && e.Data["page"] == model.PageHome {
			logged = true
		}
	}
	if !logged {
		t.Fatal("expected the panic to be logged against the home page")
	}
}
