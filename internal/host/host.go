package host

import (
	"fmt"
	"reflect"

	"github.com/sirupsen/logrus"

	"github.com/tinytelemetry/quickstart/internal/model"
)

// Trigger binds a button-like control to the page it opens.
type Trigger struct {
	Name string
	Page model.PageID
}

type slotKind int

const (
	slotDefault slotKind = iota
	slotOverride
)

// exploreSlot selects what the explore id resolves to.
type exploreSlot struct {
	kind slotKind
	page Page // set only for slotOverride
}

// Host tracks the active page and swaps it on activation.
type Host struct {
	registry  *Registry
	home      model.PageID
	active    model.PageID
	visible   Page
	explore   exploreSlot
	triggers  []Trigger
	observers []func(prev, next model.PageID)
	log       logrus.FieldLogger
}

// New creates a host whose selection starts on home. Home and every trigger
// target must be registered already.
func New(reg *Registry, home model.PageID, log logrus.FieldLogger, triggers ...Trigger) (*Host, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if !reg.Known(home) {
		return nil, fmt.Errorf("home: %w %q", ErrUnknownPage, home)
	}
	seen := make(map[string]bool, len(triggers))
	for _, t := range triggers {
		if t.Name == "" {
			return nil, fmt.Errorf("trigger for page %q has no name", t.Page)
		}
		if seen[t.Name] {
			return nil, fmt.Errorf("duplicate trigger %q", t.Name)
		}
		seen[t.Name] = true
		if !reg.Known(t.Page) {
			return nil, fmt.Errorf("trigger %q: %w %q", t.Name, ErrUnknownPage, t.Page)
		}
	}
	return &Host{
		registry: reg,
		home:     home,
		active:   home,
		triggers: append([]Trigger(nil), triggers...),
		log:      log.WithField("component", "host"),
	}, nil
}

// Registry returns the page registry behind the host.
func (h *Host) Registry() *Registry { return h.registry }

// Home returns the designated home page id.
func (h *Host) Home() model.PageID { return h.home }

// Active returns the selected page id. It is never empty.
func (h *Host) Active() model.PageID { return h.active }

// ActivePage returns the visible page, building home if nothing has been
// shown yet.
func (h *Host) ActivePage() (Page, error) {
	if h.visible != nil {
		return h.visible, nil
	}
	p, err := h.resolve(h.active)
	if err != nil {
		return nil, err
	}
	h.visible = p
	return p, nil
}

// Activate makes id the visible page. On failure the previous selection is
// kept.
func (h *Host) Activate(id model.PageID) error {
	p, err := h.resolve(id)
	if err != nil {
		h.log.WithError(err).WithField("page", id).Warn("activation failed")
		return err
	}
	if id == h.active && (h.visible == nil || h.visible == p) {
		// Home is selected from the start but only built on first use.
		h.visible = p
		return nil
	}
	h.show(id, p)
	return nil
}

func (h *Host) show(id model.PageID, p Page) {
	prev := h.active
	h.active, h.visible = id, p
	h.log.WithFields(logrus.Fields{"from": prev, "to": id}).Debug("page activated")
	for _, fn := range h.observers {
		fn(prev, id)
	}
}

// ReturnHome activates the home page.
func (h *Host) ReturnHome() error {
	return h.Activate(h.home)
}

// Press activates the page bound to the named trigger.
func (h *Host) Press(name string) error {
	for _, t := range h.triggers {
		if t.Name == name {
			return h.Activate(t.Page)
		}
	}
	return fmt.Errorf("%w %q", ErrUnknownTrigger, name)
}

// Triggers returns the triggers in display order.
func (h *Host) Triggers() []Trigger {
	return append([]Trigger(nil), h.triggers...)
}

// OnChange registers fn to run after every visible page swap. An override
// replacing the explore page on screen is a swap from explore to explore.
func (h *Host) OnChange(fn func(prev, next model.PageID)) {
	if fn != nil {
		h.observers = append(h.observers, fn)
	}
}

// SetExploreOverride routes the explore id to p until cleared. A nil page
// clears the override. An override already on screen is replaced by p right
// away; otherwise p is shown the next time explore is activated.
func (h *Host) SetExploreOverride(p Page) error {
	if p == nil {
		return h.ClearExploreOverride()
	}
	if !reflect.TypeOf(p).Comparable() {
		return fmt.Errorf("explore override %T: %w", p, ErrIncomparablePage)
	}
	onScreen := h.overrideOnScreen()
	h.explore = exploreSlot{kind: slotOverride, page: p}
	h.log.Info("explore override installed")
	if onScreen && h.visible != p {
		h.show(model.PageExplore, p)
	}
	return nil
}

// ClearExploreOverride restores the default explore page. If an override is
// on screen, the default replaces it; should that fail, home is shown.
func (h *Host) ClearExploreOverride() error {
	if h.explore.kind == slotDefault {
		return nil
	}
	onScreen := h.overrideOnScreen()
	h.explore = exploreSlot{kind: slotDefault}
	h.log.Info("explore override cleared")

	if !onScreen {
		return nil
	}
	if err := h.Activate(model.PageExplore); err != nil {
		h.visible = nil
		h.active = h.home
		return fmt.Errorf("restoring default explore page: %w", err)
	}
	return nil
}

// overrideOnScreen reports whether explore is selected and showing something
// other than the registry's own explore page.
func (h *Host) overrideOnScreen() bool {
	if h.active != model.PageExplore || h.visible == nil {
		return false
	}
	def, ok := h.registry.Lookup(model.PageExplore)
	return !ok || def != h.visible
}

// ExploreOverride returns the installed override, if any.
func (h *Host) ExploreOverride() (Page, bool) {
	if h.explore.kind == slotOverride {
		return h.explore.page, true
	}
	return nil, false
}

// Audience lists the constructed pages in registration order, followed by the
// explore override when it is installed. A page appears once even if it is
// both.
func (h *Host) Audience() []Page {
	pages := h.registry.Constructed()
	override, ok := h.ExploreOverride()
	if !ok {
		return pages
	}
	for _, p := range pages {
		if p == override {
			return pages
		}
	}
	return append(pages, override)
}

func (h *Host) resolve(id model.PageID) (Page, error) {
	if id == model.PageExplore && h.explore.kind == slotOverride {
		return h.explore.page, nil
	}
	return h.registry.GetOrCreate(id)
}
