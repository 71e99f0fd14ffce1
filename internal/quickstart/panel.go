// Package quickstart assembles the view host, its brokers and the stock
// pages into the Panel that every front end drives.
package quickstart

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tinytelemetry/quickstart/internal/host"
	"github.com/tinytelemetry/quickstart/internal/model"
	"github.com/tinytelemetry/quickstart/internal/pages"
)

// ErrNoURLModel is returned when the attack page does not keep target URLs.
var ErrNoURLModel = errors.New("attack page has no url model")

// Journal persists runtime option changes.
type Journal interface {
	Append(opts model.Options) (uint64, error)
}

// Config wires the panel's collaborators. Only Resources is required.
type Config struct {
	Resources pages.Resources
	History   pages.URLHistory
	Journal   Journal
	Mode      model.Mode
	Logger    logrus.FieldLogger

	// Factories replaces the stock factory for the given ids.
	Factories map[model.PageID]host.Factory
}

// Panel is the concurrency-safe facade over the view host. Every method takes
// the same lock, so the host core only ever sees one caller at a time.
type Panel struct {
	mu         sync.Mutex
	host       *host.Host
	registry   *host.Registry
	broker     *host.Broker
	propagator *host.Propagator
	resources  pages.Resources
	journal    Journal
	mode       model.Mode
	log        logrus.FieldLogger

	last    Change
	changes uint64
}

// Change is one swap of the visible page.
type Change struct {
	From model.PageID
	To   model.PageID
	At   time.Time
}

type urlModel interface {
	URLs() []string
	Submit(raw string) error
}

type modal interface {
	SetMode(m model.Mode)
}

var _ model.Controller = (*Panel)(nil)

// NewPanel builds a panel showing the home page. Nothing but the registry
// entries exists until a page is first activated.
func NewPanel(cfg Config) (*Panel, error) {
	if cfg.Resources == nil {
		return nil, errors.New("quickstart: resources are required")
	}
	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	mode := cfg.Mode
	if mode == "" {
		mode = model.ModeStandard
	}
	if !mode.Valid() {
		return nil, fmt.Errorf("quickstart: unknown mode %q", mode)
	}

	p := &Panel{
		broker:     host.NewBroker(log),
		propagator: host.NewPropagator(log),
		resources:  cfg.Resources,
		journal:    cfg.Journal,
		mode:       mode,
		log:        log.WithField("component", "panel"),
	}
	p.registry = host.NewRegistry(host.NewEnv(p.broker, p.propagator), log)

	stock := []struct {
		id model.PageID
		f  host.Factory
	}{
		{model.PageHome, func(env host.Env) (host.Page, error) {
			return pages.NewHome(env, cfg.Resources)
		}},
		{model.PageAttack, func(env host.Env) (host.Page, error) {
			// p.mode is read under the panel lock held by the activating call.
			return pages.NewAttack(env, cfg.Resources, cfg.History, p.mode)
		}},
		{model.PageExplore, func(env host.Env) (host.Page, error) {
			return pages.NewExplore(env, cfg.Resources)
		}},
		{model.PageLearnMore, func(env host.Env) (host.Page, error) {
			return pages.NewLearnMore(env, cfg.Resources)
		}},
	}
	for _, s := range stock {
		f := s.f
		if override, ok := cfg.Factories[s.id]; ok {
			f = override
		}
		p.registry.Register(s.id, f)
	}

	h, err := host.New(p.registry, model.PageHome, log,
		host.Trigger{Name: string(model.PageAttack), Page: model.PageAttack},
		host.Trigger{Name: string(model.PageExplore), Page: model.PageExplore},
		host.Trigger{Name: string(model.PageLearnMore), Page: model.PageLearnMore},
	)
	if err != nil {
		return nil, err
	}
	p.host = h
	h.OnChange(p.recordChange)
	p.broker.Bind(h)
	p.propagator.Bind(h)
	return p, nil
}

// Activate shows the page with the given id and returns the selection it
// left behind, which is unchanged on error.
func (p *Panel) Activate(id model.PageID) (model.PageID, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	err := p.host.Activate(id)
	return p.host.Active(), err
}

// ReturnHome shows the home page.
func (p *Panel) ReturnHome() (model.PageID, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	err := p.host.ReturnHome()
	return p.host.Active(), err
}

// Press activates the page bound to a trigger.
func (p *Panel) Press(trigger string) (model.PageID, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	err := p.host.Press(trigger)
	return p.host.Active(), err
}

// LastChange returns the most recent page swap made by any caller.
func (p *Panel) LastChange() (Change, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last, p.changes > 0
}

// Active returns the selected page id.
func (p *Panel) Active() model.PageID {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.host.Active()
}

// Triggers returns the navigation triggers in display order.
func (p *Panel) Triggers() []host.Trigger {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.host.Triggers()
}

// Pages reports every known page with its construction and selection state.
func (p *Panel) Pages() []model.PageStatus {
	p.mu.Lock()
	defer p.mu.Unlock()

	active := p.host.Active()
	_, override := p.host.ExploreOverride()
	ids := p.registry.IDs()
	out := make([]model.PageStatus, 0, len(ids))
	for _, id := range ids {
		_, built := p.registry.Lookup(id)
		res := p.resources.Resource(id)
		out = append(out, model.PageStatus{
			ID:          id,
			Label:       res.Label,
			Icon:        res.Icon,
			Tooltip:     res.Tooltip,
			Constructed: built,
			Override:    id == model.PageExplore && override,
			Active:      id == active,
		})
	}
	return out
}

// Resource passes a display lookup through to the resource provider.
func (p *Panel) Resource(id model.PageID) host.Resource {
	return p.resources.Resource(id)
}

// Message passes a message lookup through to the resource provider.
func (p *Panel) Message(key string) string {
	return p.resources.Message(key)
}

// AddPluggableSpider registers a spider with every page that tracks them.
func (p *Panel) AddPluggableSpider(s model.Spider) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.broker.Register(s)
}

// RemovePluggableSpider withdraws a spider.
func (p *Panel) RemovePluggableSpider(s model.Spider) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.broker.Unregister(s)
}

// Spiders lists the registered spiders sorted by id.
func (p *Panel) Spiders() []model.SpiderInfo {
	p.mu.Lock()
	defer p.mu.Unlock()
	spiders := p.broker.Spiders()
	out := make([]model.SpiderInfo, 0, len(spiders))
	for _, s := range spiders {
		out = append(out, model.InfoOf(s))
	}
	return out
}

// OptionsLoaded installs the configuration read at start-up.
func (p *Panel) OptionsLoaded(opts model.Options) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.propagator.Loaded(opts)
}

// OptionsChanged forwards a configuration change to the pages that exist and
// journals it. The change is applied even when journaling fails.
func (p *Panel) OptionsChanged(opts model.Options) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.propagator.Changed(opts)
	if p.journal == nil {
		return nil
	}
	if _, err := p.journal.Append(opts); err != nil {
		p.log.WithError(err).Error("journal options change")
		return fmt.Errorf("journal options: %w", err)
	}
	return nil
}

// Options returns the last known configuration.
func (p *Panel) Options() model.Options {
	p.mu.Lock()
	defer p.mu.Unlock()
	opts, _ := p.propagator.Snapshot()
	return opts
}

// SetExplorePanel replaces the explore page with page. A nil page restores
// the default one.
func (p *Panel) SetExplorePanel(page host.Page) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.host.SetExploreOverride(page)
}

// SetCustomExplore installs a link-only explore page.
func (p *Panel) SetCustomExplore(title, url string) error {
	return p.SetExplorePanel(pages.NewCustom(title, url))
}

// Mode returns the application mode handed to the attack page.
func (p *Panel) Mode() model.Mode {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mode
}

// SetMode changes the application mode. An existing attack page follows it
// immediately; a later one is built with it.
func (p *Panel) SetMode(m model.Mode) error {
	if !m.Valid() {
		return fmt.Errorf("unknown mode %q", m)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.mode = m
	if page, ok := p.registry.Lookup(model.PageAttack); ok {
		if mp, ok := page.(modal); ok {
			mp.SetMode(m)
		}
	}
	return nil
}

// URLModel returns the attack page's recent targets, building it if needed.
func (p *Panel) URLModel() ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	um, err := p.urlModel()
	if err != nil {
		return nil, err
	}
	return um.URLs(), nil
}

// SubmitTarget records a target URL on the attack page.
func (p *Panel) SubmitTarget(raw string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	um, err := p.urlModel()
	if err != nil {
		return err
	}
	return um.Submit(raw)
}

// View calls fn with the visible page while holding the panel lock. fn must
// not call back into the panel except for Resource and Message, which take
// no lock.
func (p *Panel) View(fn func(id model.PageID, page host.Page)) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	page, err := p.host.ActivePage()
	if err != nil {
		return err
	}
	fn(p.host.Active(), page)
	return nil
}

// recordChange runs under the panel lock, inside whichever call swapped the
// page.
func (p *Panel) recordChange(from, to model.PageID) {
	p.last = Change{From: from, To: to, At: time.Now()}
	p.changes++
	p.log.WithFields(logrus.Fields{"from": from, "to": to}).Info("page changed")
}

func (p *Panel) urlModel() (urlModel, error) {
	page, err := p.registry.GetOrCreate(model.PageAttack)
	if err != nil {
		return nil, err
	}
	um, ok := page.(urlModel)
	if !ok {
		return nil, ErrNoURLModel
	}
	return um, nil
}
