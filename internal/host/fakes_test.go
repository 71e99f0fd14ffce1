package host

import (
	"errors"
	"sort"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/tinytelemetry/quickstart/internal/model"
)

// recordingPage implements every optional capability and records deliveries.
type recordingPage struct {
	id       model.PageID
	spiders  map[string]model.Spider
	opts     model.Options
	optCalls int
	adds     int
	removes  int
}

func newRecordingPage(id model.PageID, env Env) *recordingPage {
	p := &recordingPage{id: id, spiders: make(map[string]model.Spider), opts: env.Options()}
	for _, s := range env.Spiders() {
		p.spiders[s.ID()] = s
	}
	return p
}

func (p *recordingPage) ID() model.PageID   { return p.id }
func (p *recordingPage) Resource() Resource { return Resource{Label: string(p.id)} }
func (p *recordingPage) OptionsChanged(o model.Options) {
	p.opts = o
	p.optCalls++
}
func (p *recordingPage) AddSpider(s model.Spider) {
	p.spiders[s.ID()] = s
	p.adds++
}
func (p *recordingPage) RemoveSpider(s model.Spider) {
	delete(p.spiders, s.ID())
	p.removes++
}

func (p *recordingPage) spiderIDs() []string {
	ids := make([]string, 0, len(p.spiders))
	for id := range p.spiders {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// plainPage has no optional capabilities.
type plainPage struct{ id model.PageID }

func (p *plainPage) ID() model.PageID   { return p.id }
func (p *plainPage) Resource() Resource { return Resource{Label: string(p.id)} }

func recordingFactory(id model.PageID, calls *int) Factory {
	return func(env Env) (Page, error) {
		if calls != nil {
			*calls++
		}
		return newRecordingPage(id, env), nil
	}
}

func spider(id string) model.Spider {
	return model.SpiderInfo{SpiderID: id, SpiderName: "Spider " + id}
}

type fixture struct {
	host       *Host
	registry   *Registry
	broker     *Broker
	propagator *Propagator
	hook       *logtest.Hook
}

// newFixture wires the four components the same way the panel does, with
// recording pages for every well-known id.
func newFixture(overrides map[model.PageID]Factory) (*fixture, error) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	broker := NewBroker(logger)
	prop := NewPropagator(logger)
	reg := NewRegistry(NewEnv(broker, prop), logger)
	for _, id := range []model.PageID{model.PageHome, model.PageAttack, model.PageExplore, model.PageLearnMore} {
		f := recordingFactory(id, nil)
		if o, ok := overrides[id]; ok {
			f = o
		}
		reg.Register(id, f)
	}

	h, err := New(reg, model.PageHome, logger,
		Trigger{Name: "attack", Page: model.PageAttack},
		Trigger{Name: "explore", Page: model.PageExplore},
		Trigger{Name: "learn-more", Page: model.PageLearnMore},
	)
	if err != nil {
		return nil, err
	}
	broker.Bind(h)
	prop.Bind(h)
	return &fixture{host: h, registry: reg, broker: broker, propagator: prop, hook: hook}, nil
}

var errBoom = errors.New("boom")
