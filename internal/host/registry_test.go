package host

import (
	"errors"
	"strings"
	"testing"

	"github.com/tinytelemetry/quickstart/internal/model"
)

func TestGetOrCreate_ReturnsSameInstance(t *testing.T) {
	t.Parallel()

	calls := 0
	reg := NewRegistry(NewEnv(NewBroker(nil), NewPropagator(nil)), nil)
	reg.Register(model.PageAttack, recordingFactory(model.PageAttack, &calls))

	first, err := reg.GetOrCreate(model.PageAttack)
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	second, err := reg.GetOrCreate(model.PageAttack)
	if err != nil {
		t.Fatalf("GetOrCreate again: %v", err)
	}
	if first != second {
		t.Fatal("second GetOrCreate returned a different instance")
	}
	if calls != 1 {
		t.Fatalf("factory calls = %d, want 1", calls)
	}
}

func TestGetOrCreate_UnknownPage(t *testing.T) {
	t.Parallel()

	reg := NewRegistry(NewEnv(NewBroker(nil), NewPropagator(nil)), nil)
	reg.Register(model.PageExplore, recordingFactory(model.PageExplore, nil))

	_, err := reg.GetOrCreate("explor")
	if !errors.Is(err, ErrUnknownPage) {
		t.Fatalf("err = %v, want ErrUnknownPage", err)
	}
	if !strings.Contains(err.Error(), `did you mean "explore"`) {
		t.Fatalf("err = %q, want suggestion", err)
	}

	_, err = reg.GetOrCreate("completely-different")
	if !errors.Is(err, ErrUnknownPage) {
		t.Fatalf("err = %v, want ErrUnknownPage", err)
	}
	if strings.Contains(err.Error(), "did you mean") {
		t.Fatalf("err = %q, want no suggestion for a distant id", err)
	}
}

func TestGetOrCreate_FailureIsNotCached(t *testing.T) {
	t.Parallel()

	attempts := 0
	reg := NewRegistry(NewEnv(NewBroker(nil), NewPropagator(nil)), nil)
	reg.Register(model.PageAttack, func(env Env) (Page, error) {
		attempts++
		if attempts == 1 {
			return nil, errBoom
		}
		return newRecordingPage(model.PageAttack, env), nil
	})

	_, err := reg.GetOrCreate(model.PageAttack)
	if !errors.Is(err, ErrConstructionFailure) {
		t.Fatalf("err = %v, want ErrConstructionFailure", err)
	}
	if !errors.Is(err, errBoom) {
		t.Fatalf("err = %v, want wrapped cause", err)
	}
	var cerr *ConstructionError
	if !errors.As(err, &cerr) || cerr.Page != model.PageAttack {
		t.Fatalf("err = %#v, want ConstructionError for attack", err)
	}
	if _, ok := reg.Lookup(model.PageAttack); ok {
		t.Fatal("failed page was cached")
	}

	p, err := reg.GetOrCreate(model.PageAttack)
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if p == nil || attempts != 2 {
		t.Fatalf("retry page=%v attempts=%d, want built on second attempt", p, attempts)
	}
}

func TestGetOrCreate_PanicAndNilAreConstructionFailures(t *testing.T) {
	t.Parallel()

	reg := NewRegistry(NewEnv(NewBroker(nil), NewPropagator(nil)), nil)
	reg.Register("panics", func(Env) (Page, error) { panic("kaput") })
	reg.Register("nil", func(Env) (Page, error) { return nil, nil })

	for _, id := range []model.PageID{"panics", "nil"} {
		if _, err := reg.GetOrCreate(id); !errors.Is(err, ErrConstructionFailure) {
			t.Errorf("GetOrCreate(%q) err = %v, want ErrConstructionFailure", id, err)
		}
		if _, ok := reg.Lookup(id); ok {
			t.Errorf("page %q cached after failure", id)
		}
	}
}

func TestRegister_DuplicatePanics(t *testing.T) {
	t.Parallel()

	reg := NewRegistry(NewEnv(NewBroker(nil), NewPropagator(nil)), nil)
	reg.Register(model.PageHome, recordingFactory(model.PageHome, nil))

	defer func() {
		if recover() == nil {
			t.Fatal("duplicate Register did not panic")
		}
	}()
	reg.Register(model.PageHome, recordingFactory(model.PageHome, nil))
}

func TestConstructed_FollowsRegistrationOrder(t *testing.T) {
	t.Parallel()

	f, err := newFixture(nil)
	if err != nil {
		t.Fatalf("newFixture: %v", err)
	}
	for _, id := range []model.PageID{model.PageLearnMore, model.PageHome, model.PageExplore} {
		if _, err := f.registry.GetOrCreate(id); err != nil {
			t.Fatalf("GetOrCreate(%s): %v", id, err)
		}
	}

	var got []model.PageID
	for _, p := range f.registry.Constructed() {
		got = append(got, p.ID())
	}
	want := []model.PageID{model.PageHome, model.PageExplore, model.PageLearnMore}
	if len(got) != len(want) {
		t.Fatalf("constructed = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("constructed = %v, want %v", got, want)
		}
	}
}
