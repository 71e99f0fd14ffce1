package host

import "github.com/tinytelemetry/quickstart/internal/model"

// Page is one mutually exclusive view of the host.
type Page interface {
	ID() model.PageID
	Resource() Resource
}

// OptionsReceiver is implemented by pages that follow configuration changes.
type OptionsReceiver interface {
	OptionsChanged(opts model.Options)
}

// SpiderReceiver is implemented by pages that track pluggable spiders.
type SpiderReceiver interface {
	AddSpider(s model.Spider)
	RemoveSpider(s model.Spider)
}

// Env is the construction-time view of shared state. A factory reads it to
// catch up on everything that happened before its page existed.
type Env interface {
	Spiders() []model.Spider
	Options() model.Options
}

// Factory builds a page. It is called at most once per successful build.
type Factory func(env Env) (Page, error)

// Resource is the display metadata for a page.
type Resource struct {
	Label   string `json:"label"`
	Icon    string `json:"icon"`
	Tooltip string `json:"tooltip"`
}

// ResourceProvider supplies display metadata. Lookups carry no state.
type ResourceProvider interface {
	Resource(id model.PageID) Resource
}

// Audience lists the pages that currently exist and should receive
// broadcasts, in delivery order.
type Audience interface {
	Audience() []Page
}

// NewEnv joins a broker and a propagator into the Env handed to factories.
func NewEnv(b *Broker, p *Propagator) Env {
	return stateEnv{broker: b, propagator: p}
}

type stateEnv struct {
	broker     *Broker
	propagator *Propagator
}

func (e stateEnv) Spiders() []model.Spider {
	return e.broker.Spiders()
}

func (e stateEnv) Options() model.Options {
	opts, _ := e.propagator.Snapshot()
	return opts
}
