package pages

import (
	"github.com/tinytelemetry/quickstart/internal/host"
	"github.com/tinytelemetry/quickstart/internal/model"
)

// Explore is the default manual-explore page. It tells the user where to
// point a browser and which spiders are available to follow up.
type Explore struct {
	res       host.Resource
	proxy     model.ProxyOptions
	launchURL string
	spiders   spiderSet
}

// NewExplore builds the default explore page.
func NewExplore(env host.Env, r Resources) (*Explore, error) {
	opts := env.Options()
	return &Explore{
		res:       r.Resource(model.PageExplore),
		proxy:     opts.Proxy,
		launchURL: opts.QuickStart.DefaultURL,
		spiders:   newSpiderSet(env.Spiders()),
	}, nil
}

func (e *Explore) ID() model.PageID        { return model.PageExplore }
func (e *Explore) Resource() host.Resource { return e.res }

func (e *Explore) OptionsChanged(o model.Options) {
	e.proxy = o.Proxy
	e.launchURL = o.QuickStart.DefaultURL
}

func (e *Explore) AddSpider(s model.Spider)    { e.spiders.add(s) }
func (e *Explore) RemoveSpider(s model.Spider) { e.spiders.remove(s) }

// ProxyAddr is the proxy endpoint for the browser.
func (e *Explore) ProxyAddr() string { return e.proxy.Addr() }

// LaunchURL is the page the browser should open first.
func (e *Explore) LaunchURL() string { return e.launchURL }

// Spiders returns the visible spider set, sorted by id.
func (e *Explore) Spiders() []model.SpiderInfo { return e.spiders.infos() }
